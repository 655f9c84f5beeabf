package models

// Outcome is the result of the most recent answer to an item
type Outcome string

const (
	OutcomeNone  Outcome = ""
	OutcomeRight Outcome = "right"
	OutcomeWrong Outcome = "wrong"
)

// OutcomeOf maps a graded answer to its outcome
func OutcomeOf(correct bool) Outcome {
	if correct {
		return OutcomeRight
	}
	return OutcomeWrong
}

// ResultRow is the cumulative answer history of one item
type ResultRow struct {
	Right int
	Wrong int
	Last  Outcome
}

// Mastered reports whether the item was answered correctly at least once
func (r ResultRow) Mastered() bool {
	return r.Right > 0
}

// Attempted reports whether the item was answered at all
func (r ResultRow) Attempted() bool {
	return r.Right+r.Wrong > 0
}

// Selection is the option a learner picked for the current multiple-choice item.
// It lives until the session advances to another item.
type Selection struct {
	ChosenIndex int
	IsCorrect   bool
	ItemID      string
}

// Totals aggregates the ledger over the item universe of one mode
type Totals struct {
	Right int
	Wrong int
	Seen  int // items with at least one attempt
	Total int // size of the item universe
}

// CategoryTally counts mastered items in one category
type CategoryTally struct {
	Mastered int
	Total    int
}

// Complete reports whether every item in the category is mastered
func (t CategoryTally) Complete() bool {
	return t.Total > 0 && t.Mastered == t.Total
}

// Percent is the rounded mastered share, 0 for empty categories
func (t CategoryTally) Percent() int {
	if t.Total == 0 {
		return 0
	}
	return int(float64(t.Mastered)/float64(t.Total)*100 + 0.5)
}
