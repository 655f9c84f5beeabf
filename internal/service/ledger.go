package service

import (
	"civicstrainer/internal/models"
)

// Ledger is the per-item answer history, keyed by item id
type Ledger struct {
	rows     map[string]models.ResultRow
	onChange func()
}

// NewLedger creates a ledger seeded with a copy of rows
func NewLedger(rows map[string]models.ResultRow) *Ledger {
	l := &Ledger{rows: make(map[string]models.ResultRow, len(rows))}
	for id, r := range rows {
		l.rows[id] = r
	}
	return l
}

// OnChange registers the function called after every mutation
func (l *Ledger) OnChange(fn func()) {
	l.onChange = fn
}

func (l *Ledger) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}

// Record adds one graded answer for itemID and returns the updated row
func (l *Ledger) Record(itemID string, correct bool) models.ResultRow {
	row := l.rows[itemID]
	if correct {
		row.Right++
	} else {
		row.Wrong++
	}
	row.Last = models.OutcomeOf(correct)
	l.rows[itemID] = row
	l.changed()
	return row
}

// Reset forgets every row. Callers confirm with the learner first.
func (l *Ledger) Reset() {
	l.rows = make(map[string]models.ResultRow)
	l.changed()
}

// Row returns the history of itemID
func (l *Ledger) Row(itemID string) (models.ResultRow, bool) {
	row, ok := l.rows[itemID]
	return row, ok
}

// IsMastered reports whether item has been answered correctly at least once
func (l *Ledger) IsMastered(item models.Item) bool {
	return l.rows[item.ID()].Mastered()
}

// Rows returns a copy of all rows
func (l *Ledger) Rows() map[string]models.ResultRow {
	out := make(map[string]models.ResultRow, len(l.rows))
	for id, r := range l.rows {
		out[id] = r
	}
	return out
}

// Len returns the number of items with a row
func (l *Ledger) Len() int {
	return len(l.rows)
}
