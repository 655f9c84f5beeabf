package service

import "errors"

var (
	// Session controller errors
	ErrNoCurrentItem    = errors.New("no current item")
	ErrWrongMode        = errors.New("operation not available for this item type")
	ErrOptionOutOfRange = errors.New("option index out of range")

	// Preference errors
	ErrInvalidPreference = errors.New("invalid preference value")

	// Trainer errors
	ErrNotLoaded = errors.New("question banks not loaded yet")
)
