package models

// ItemKind identifies which question bank an item came from
type ItemKind string

const (
	KindShortAnswer    ItemKind = "qa"
	KindMultipleChoice ItemKind = "mcq"
)

// DefaultCategory is used for records that carry no category
const DefaultCategory = "General"

// Item is a study card. It is implemented only by *ShortAnswerItem and
// *MultipleChoiceItem; consumers switch on the concrete type.
type Item interface {
	ID() string
	Category() string
	// DisplayID is the id as it appears in the source bank, without namespace
	DisplayID() string
	Kind() ItemKind

	isItem()
}

// ShortAnswerItem is a question with a free-text answer that the learner grades
type ShortAnswerItem struct {
	ItemID     string
	RawID      string
	Cat        string
	QuestionES string
	QuestionEN string
	AnswerES   string
	AnswerEN   string
}

func (q *ShortAnswerItem) ID() string        { return q.ItemID }
func (q *ShortAnswerItem) Category() string  { return q.Cat }
func (q *ShortAnswerItem) DisplayID() string { return q.RawID }
func (q *ShortAnswerItem) Kind() ItemKind    { return KindShortAnswer }
func (q *ShortAnswerItem) isItem()           {}

// Option is one answer choice of a multiple-choice item
type Option struct {
	TextES    string
	TextEN    string
	IsCorrect bool
}

// MultipleChoiceItem is a question with a fixed list of options
type MultipleChoiceItem struct {
	ItemID       string
	RawID        string
	Cat          string
	StemES       string
	StemEN       string
	Options      []Option
	CorrectIndex *int
}

func (m *MultipleChoiceItem) ID() string        { return m.ItemID }
func (m *MultipleChoiceItem) Category() string  { return m.Cat }
func (m *MultipleChoiceItem) DisplayID() string { return m.RawID }
func (m *MultipleChoiceItem) Kind() ItemKind    { return KindMultipleChoice }
func (m *MultipleChoiceItem) isItem()           {}

// hasFlags reports whether any option carries an explicit correctness flag
func (m *MultipleChoiceItem) hasFlags() bool {
	for _, o := range m.Options {
		if o.IsCorrect {
			return true
		}
	}
	return false
}

// IsCorrectChoice reports whether option i is a right answer.
// Per-option flags take priority; CorrectIndex is only consulted when no
// option is flagged.
func (m *MultipleChoiceItem) IsCorrectChoice(i int) bool {
	if i < 0 || i >= len(m.Options) {
		return false
	}
	if m.hasFlags() {
		return m.Options[i].IsCorrect
	}
	return m.CorrectIndex != nil && *m.CorrectIndex == i
}

// CorrectChoice returns the index of the first correct option, or -1
func (m *MultipleChoiceItem) CorrectChoice() int {
	for i := range m.Options {
		if m.IsCorrectChoice(i) {
			return i
		}
	}
	return -1
}
