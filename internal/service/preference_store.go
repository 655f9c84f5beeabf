package service

import (
	"fmt"

	"civicstrainer/internal/models"
)

// PreferenceChange describes one applied preference update
type PreferenceChange struct {
	Field models.PreferenceField
	Prefs models.Preferences
}

// PreferenceStore holds the current preferences and notifies subscribers of changes
type PreferenceStore struct {
	prefs     models.Preferences
	listeners []func(PreferenceChange)
}

// NewPreferenceStore creates a store holding a sanitized copy of prefs
func NewPreferenceStore(prefs models.Preferences) *PreferenceStore {
	return &PreferenceStore{prefs: prefs.Sanitize()}
}

// Get returns the current preferences
func (s *PreferenceStore) Get() models.Preferences {
	return s.prefs
}

// Subscribe registers fn to be called after every effective change
func (s *PreferenceStore) Subscribe(fn func(PreferenceChange)) {
	s.listeners = append(s.listeners, fn)
}

// SetCategory selects a category. Any non-empty name is accepted, including
// one that no item currently carries.
func (s *PreferenceStore) SetCategory(category string) error {
	next := s.prefs
	next.Category = category
	return s.apply(models.FieldCategory, next)
}

func (s *PreferenceStore) SetOrder(order models.Order) error {
	next := s.prefs
	next.Order = order
	return s.apply(models.FieldOrder, next)
}

func (s *PreferenceStore) SetMode(mode models.Mode) error {
	next := s.prefs
	next.Mode = mode
	return s.apply(models.FieldMode, next)
}

func (s *PreferenceStore) SetLanguage(lang models.Language) error {
	next := s.prefs
	next.Language = lang
	return s.apply(models.FieldLanguage, next)
}

func (s *PreferenceStore) SetDarkTheme(dark bool) error {
	next := s.prefs
	next.DarkTheme = dark
	return s.apply(models.FieldDark, next)
}

// ToggleDarkTheme flips the theme preference
func (s *PreferenceStore) ToggleDarkTheme() {
	_ = s.SetDarkTheme(!s.prefs.DarkTheme)
}

// apply validates next and publishes it. Setting a value equal to the current
// one changes nothing and notifies nobody.
func (s *PreferenceStore) apply(field models.PreferenceField, next models.Preferences) error {
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPreference, field, err)
	}
	if next == s.prefs {
		return nil
	}

	s.prefs = next
	change := PreferenceChange{Field: field, Prefs: next}
	for _, fn := range s.listeners {
		fn(change)
	}
	return nil
}
