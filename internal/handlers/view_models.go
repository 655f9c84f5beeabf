package handlers

import (
	"civicstrainer/internal/models"
	"civicstrainer/internal/service"
)

// OptionMark is how an option is highlighted after a selection
type OptionMark string

const (
	MarkNone        OptionMark = ""
	MarkChosenRight OptionMark = "chosen_right"
	MarkChosenWrong OptionMark = "chosen_wrong"
	MarkCorrect     OptionMark = "correct"
)

type OptionViewData struct {
	Number int
	Text   string
	Mark   OptionMark
}

// CardViewData is everything needed to draw the current card
type CardViewData struct {
	Loading    bool
	LoadFailed bool
	Empty      bool

	DisplayID string
	Category  string
	Position  int
	DeckSize  int

	Prompt     []string
	Answer     []string
	ShowAnswer bool

	IsChoice bool
	Options  []OptionViewData
	Answered bool

	Stats          *models.ResultRow
	PendingAdvance bool
	DarkTheme      bool
}

type CategoryRowViewData struct {
	Name     string
	Count    int
	Tally    models.CategoryTally
	Selected bool
}

// ProgressViewData summarizes the ledger for the active mode
type ProgressViewData struct {
	Prefs      models.Preferences
	Totals     models.Totals
	Current    models.CategoryTally
	Categories []CategoryRowViewData
	DeckSize   int
	State      string
}

// localize picks the texts to show for lang. Missing English text falls back
// to Spanish and the other way round.
func localize(lang models.Language, es, en string) []string {
	if es == "" {
		es = en
	}
	if en == "" {
		en = es
	}
	switch lang {
	case models.LangEN:
		return []string{en}
	case models.LangBoth:
		if es == en {
			return []string{es}
		}
		return []string{es, en}
	default:
		return []string{es}
	}
}

func optionText(lang models.Language, o models.Option) string {
	texts := localize(lang, o.TextES, o.TextEN)
	if len(texts) == 2 {
		return texts[0] + " / " + texts[1]
	}
	return texts[0]
}

// NewCardViewData reads the trainer's current card. Call it on the event loop.
func NewCardViewData(t *service.Trainer) CardViewData {
	prefs := t.Preferences().Get()
	c := t.Controller()
	v := CardViewData{DarkTheme: prefs.DarkTheme}

	switch c.State() {
	case service.StateIdle:
		v.Loading = true
		return v
	case service.StateDeckExhausted:
		v.Empty = true
		v.LoadFailed = t.LoadFailed()
		return v
	}

	item := c.Current()
	v.DisplayID = item.DisplayID()
	v.Category = item.Category()
	v.Position = c.Cursor() + 1
	v.DeckSize = len(c.Deck())
	v.PendingAdvance = c.PendingAdvance()
	if row, ok := t.CurrentStats(); ok {
		v.Stats = &row
	}

	switch it := item.(type) {
	case *models.ShortAnswerItem:
		v.Prompt = localize(prefs.Language, it.QuestionES, it.QuestionEN)
		v.ShowAnswer = c.Revealed()
		if v.ShowAnswer {
			v.Answer = localize(prefs.Language, it.AnswerES, it.AnswerEN)
		}
	case *models.MultipleChoiceItem:
		v.IsChoice = true
		v.Prompt = localize(prefs.Language, it.StemES, it.StemEN)
		sel, answered := c.Selection()
		v.Answered = answered
		v.Options = make([]OptionViewData, len(it.Options))
		for i, o := range it.Options {
			v.Options[i] = OptionViewData{
				Number: i + 1,
				Text:   optionText(prefs.Language, o),
				Mark:   markFor(it, sel, answered, i),
			}
		}
	}
	return v
}

func markFor(item *models.MultipleChoiceItem, sel models.Selection, answered bool, i int) OptionMark {
	if !answered {
		return MarkNone
	}
	if sel.ChosenIndex == i {
		if sel.IsCorrect {
			return MarkChosenRight
		}
		return MarkChosenWrong
	}
	if !sel.IsCorrect && item.IsCorrectChoice(i) {
		return MarkCorrect
	}
	return MarkNone
}

// NewProgressViewData collects totals and per-category mastery. Call it on the
// event loop.
func NewProgressViewData(t *service.Trainer) ProgressViewData {
	prefs := t.Preferences().Get()
	tallies := t.Tallies()
	counts := t.CategoryCounts()

	v := ProgressViewData{
		Prefs:    prefs,
		Totals:   t.Totals(),
		Current:  t.CurrentTally(),
		DeckSize: len(t.Controller().Deck()),
		State:    t.Controller().State().String(),
	}
	for _, name := range t.Categories() {
		count := counts[name]
		if name == models.AllCategories {
			count = len(t.Universe())
		}
		v.Categories = append(v.Categories, CategoryRowViewData{
			Name:     name,
			Count:    count,
			Tally:    tallies[name],
			Selected: name == prefs.Category,
		})
	}
	return v
}
