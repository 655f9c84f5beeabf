package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"civicstrainer/internal/models"
)

func TestLedgerRecord(t *testing.T) {
	l := NewLedger(nil)
	changes := 0
	l.OnChange(func() { changes++ })

	l.Record("qa-1", false)
	row := l.Record("qa-1", false)
	assert.Equal(t, models.ResultRow{Wrong: 2, Last: models.OutcomeWrong}, row)
	assert.False(t, l.IsMastered(shortItem("1", "A")))

	row = l.Record("qa-1", true)
	assert.Equal(t, models.ResultRow{Right: 1, Wrong: 2, Last: models.OutcomeRight}, row)
	assert.True(t, l.IsMastered(shortItem("1", "A")))

	l.Record("qa-1", false)
	assert.True(t, l.IsMastered(shortItem("1", "A")), "a later wrong answer keeps mastery")
	assert.Equal(t, 4, changes)
}

func TestLedgerResetAndCopies(t *testing.T) {
	seed := map[string]models.ResultRow{"qa-1": {Right: 1, Last: models.OutcomeRight}}
	l := NewLedger(seed)
	seed["qa-2"] = models.ResultRow{Wrong: 1}
	assert.Equal(t, 1, l.Len())

	rows := l.Rows()
	delete(rows, "qa-1")
	_, ok := l.Row("qa-1")
	assert.True(t, ok)

	l.Reset()
	assert.Zero(t, l.Len())
	assert.False(t, l.IsMastered(shortItem("1", "A")))
}

func TestTotals(t *testing.T) {
	universe := items(shortItem("1", "A"), shortItem("2", "A"), shortItem("3", "B"))
	l := NewLedger(map[string]models.ResultRow{
		"qa-1":  {Right: 2, Wrong: 1, Last: models.OutcomeRight},
		"qa-3":  {Wrong: 1, Last: models.OutcomeWrong},
		"mcq-9": {Right: 5, Last: models.OutcomeRight},
	})

	assert.Equal(t, models.Totals{Right: 2, Wrong: 2, Seen: 2, Total: 3}, Totals(universe, l))
}

func TestTallyByCategory(t *testing.T) {
	universe := items(
		shortItem("1", "Civics"),
		shortItem("2", "Civics"),
		shortItem("3", "History"),
		shortItem("4", "Geography"),
	)
	l := NewLedger(map[string]models.ResultRow{
		"qa-1": {Right: 1},
		"qa-3": {Right: 1},
		"qa-4": {Wrong: 3},
	})

	tallies := TallyByCategory(universe, l)
	assert.Equal(t, models.CategoryTally{Mastered: 1, Total: 2}, tallies["Civics"])
	assert.Equal(t, models.CategoryTally{Mastered: 1, Total: 1}, tallies["History"])
	assert.True(t, tallies["History"].Complete())
	assert.Equal(t, models.CategoryTally{Mastered: 2, Total: 4}, tallies[models.AllCategories])

	sum := 0
	for name, tally := range tallies {
		assert.LessOrEqual(t, tally.Mastered, tally.Total, name)
		if name != models.AllCategories {
			sum += tally.Total
		}
	}
	assert.Equal(t, tallies[models.AllCategories].Total, sum)

	assert.Equal(t, models.CategoryTally{Mastered: 1, Total: 2}, CategoryTallyFor(universe, "Civics", l))
	assert.Equal(t, models.CategoryTally{Mastered: 2, Total: 4}, CategoryTallyFor(universe, models.AllCategories, l))
}

func TestCategoriesAndCounts(t *testing.T) {
	qa := items(shortItem("1", "History"), shortItem("2", "Civics"), shortItem("3", "Civics"))
	mcq := items(choiceItem("1", "Geography", 0, 2), choiceItem("2", "Civics", 0, 2))

	assert.Equal(t, []string{"All", "Civics", "Geography", "History"}, Categories(qa, mcq))
	assert.Equal(t, []string{"All"}, Categories())
	assert.Equal(t, map[string]int{"History": 1, "Civics": 2}, CountByCategory(qa))
}
