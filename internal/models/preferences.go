package models

import (
	"github.com/go-playground/validator/v10"
)

// AllCategories selects every category
const AllCategories = "All"

// Order controls how a deck is arranged
type Order string

const (
	OrderShuffle Order = "SHUFFLE"
	OrderInOrder Order = "IN_ORDER"
)

// Mode selects which question bank is studied
type Mode string

const (
	ModeShort Mode = "short"
	ModeMCQ   Mode = "mcq"
)

// Language selects which texts are displayed
type Language string

const (
	LangES   Language = "es"
	LangEN   Language = "en"
	LangBoth Language = "both"
)

// Preferences are the learner's study settings
type Preferences struct {
	Category  string   `validate:"required"`
	Order     Order    `validate:"oneof=SHUFFLE IN_ORDER"`
	Mode      Mode     `validate:"oneof=short mcq"`
	Language  Language `validate:"oneof=es en both"`
	DarkTheme bool
}

// DefaultPreferences returns the settings used before anything was saved
func DefaultPreferences() Preferences {
	return Preferences{
		Category:  AllCategories,
		Order:     OrderShuffle,
		Mode:      ModeMCQ,
		Language:  LangES,
		DarkTheme: false,
	}
}

var prefsValidator = validator.New()

// Validate checks every field against its allowed values
func (p Preferences) Validate() error {
	return prefsValidator.Struct(p)
}

// Sanitize returns a copy in which every invalid field is replaced by its default
func (p Preferences) Sanitize() Preferences {
	err := p.Validate()
	if err == nil {
		return p
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return DefaultPreferences()
	}
	def := DefaultPreferences()
	for _, fe := range verrs {
		switch fe.StructField() {
		case "Category":
			p.Category = def.Category
		case "Order":
			p.Order = def.Order
		case "Mode":
			p.Mode = def.Mode
		case "Language":
			p.Language = def.Language
		}
	}
	return p
}

// RebuildsDeck reports whether changing field f requires a new deck.
// Language and theme only affect rendering.
func RebuildsDeck(f PreferenceField) bool {
	switch f {
	case FieldCategory, FieldOrder, FieldMode:
		return true
	}
	return false
}

// PreferenceField names a single preference
type PreferenceField string

const (
	FieldCategory PreferenceField = "category"
	FieldOrder    PreferenceField = "order"
	FieldMode     PreferenceField = "mode"
	FieldLanguage PreferenceField = "lang"
	FieldDark     PreferenceField = "dark"
)
