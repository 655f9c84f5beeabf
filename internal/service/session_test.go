package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicstrainer/internal/models"
	"civicstrainer/internal/utils"
)

func newController(l *Ledger) *Controller {
	return NewController(l, nil, utils.DiscardLogger())
}

func TestControllerIdleUntilLoaded(t *testing.T) {
	c := newController(NewLedger(nil))
	assert.Equal(t, StateIdle, c.State())

	c.Rebuild(items(shortItem("1", "A")))
	assert.Equal(t, StateIdle, c.State(), "rebuild before load is ignored")
	assert.Nil(t, c.Current())

	_, err := c.Mark(true)
	assert.ErrorIs(t, err, ErrNoCurrentItem)
	assert.ErrorIs(t, c.ToggleReveal(), ErrNoCurrentItem)
	_, err = c.Select(0)
	assert.ErrorIs(t, err, ErrNoCurrentItem)

	c.Advance()
	assert.Equal(t, StateIdle, c.State())
}

func TestControllerLoad(t *testing.T) {
	c := newController(NewLedger(nil))
	c.Load(items(shortItem("1", "A"), shortItem("2", "A")))
	assert.Equal(t, StateBrowsing, c.State())
	assert.Equal(t, 0, c.Cursor())
	assert.Equal(t, "qa-1", c.Current().ID())

	empty := newController(NewLedger(nil))
	empty.Load(nil)
	assert.Equal(t, StateDeckExhausted, empty.State())
}

func TestControllerRevealIsPureFlip(t *testing.T) {
	l := NewLedger(nil)
	c := newController(l)
	c.Load(items(shortItem("1", "A")))

	require.NoError(t, c.ToggleReveal())
	assert.Equal(t, StateAnswerRevealed, c.State())
	require.NoError(t, c.ToggleReveal())
	assert.Equal(t, StateBrowsing, c.State())
	assert.Zero(t, l.Len())
}

func TestControllerMarkStagesAdvance(t *testing.T) {
	l := NewLedger(nil)
	c := newController(l)
	c.Load(items(shortItem("1", "A"), shortItem("2", "A")))
	require.NoError(t, c.ToggleReveal())

	recorded, err := c.Mark(false)
	require.NoError(t, err)
	assert.True(t, recorded)
	assert.True(t, c.PendingAdvance())
	assert.False(t, c.Revealed())
	assert.Equal(t, "qa-1", c.Current().ID(), "marking does not move the cursor")

	recorded, err = c.Mark(true)
	require.NoError(t, err)
	assert.False(t, recorded, "second mark before advancing is ignored")
	row, _ := l.Row("qa-1")
	assert.Equal(t, models.ResultRow{Wrong: 1, Last: models.OutcomeWrong}, row)
}

func TestControllerWrongModeOperations(t *testing.T) {
	c := newController(NewLedger(nil))
	c.Load(items(choiceItem("1", "A", 0, 3)))
	assert.ErrorIs(t, c.ToggleReveal(), ErrWrongMode)
	_, err := c.Mark(true)
	assert.ErrorIs(t, err, ErrWrongMode)

	s := newController(NewLedger(nil))
	s.Load(items(shortItem("1", "A")))
	_, err = s.Select(0)
	assert.ErrorIs(t, err, ErrWrongMode)
}

func TestControllerCivicsScenario(t *testing.T) {
	universe := items(shortItem("c1", "Civics"), shortItem("c2", "Civics"), shortItem("c3", "Civics"))
	l := NewLedger(nil)
	c := newController(l)
	c.Load(seededBuilder().Build(universe, "Civics", models.OrderInOrder, l.IsMastered))

	assert.Equal(t, []string{"qa-c1", "qa-c2", "qa-c3"}, ids(c.Deck()))
	assert.Equal(t, 0, c.Cursor())

	_, err := c.Mark(true)
	require.NoError(t, err)
	assert.Len(t, c.Deck(), 3, "mastered item stays until the advance")

	c.Advance()
	assert.Equal(t, []string{"qa-c2", "qa-c3"}, ids(c.Deck()))
	assert.Equal(t, 0, c.Cursor())
	assert.Equal(t, "qa-c2", c.Current().ID())
	assert.Equal(t, StateBrowsing, c.State())
	assert.False(t, c.PendingAdvance())
}

func TestControllerAdvanceCursorRules(t *testing.T) {
	tests := []struct {
		name       string
		cursor     int
		mastered   []string
		wantDeck   []string
		wantCursor int
	}{
		{
			name:       "wrong answer moves to next",
			cursor:     0,
			wantDeck:   []string{"qa-1", "qa-2", "qa-3"},
			wantCursor: 1,
		},
		{
			name:       "last item clamps in place",
			cursor:     2,
			wantDeck:   []string{"qa-1", "qa-2", "qa-3"},
			wantCursor: 2,
		},
		{
			name:       "mastered last item clamps to new end",
			cursor:     2,
			mastered:   []string{"qa-3"},
			wantDeck:   []string{"qa-1", "qa-2"},
			wantCursor: 1,
		},
		{
			name:       "earlier mastered items shift cursor",
			cursor:     1,
			mastered:   []string{"qa-1"},
			wantDeck:   []string{"qa-2", "qa-3"},
			wantCursor: 1,
		},
		{
			name:       "current removed keeps previous index",
			cursor:     1,
			mastered:   []string{"qa-2"},
			wantDeck:   []string{"qa-1", "qa-3"},
			wantCursor: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger(nil)
			c := newController(l)
			c.Load(items(shortItem("1", "A"), shortItem("2", "A"), shortItem("3", "A")))
			c.cursor = tt.cursor
			for _, id := range tt.mastered {
				l.Record(id, true)
			}

			c.Advance()
			assert.Equal(t, tt.wantDeck, ids(c.Deck()))
			assert.Equal(t, tt.wantCursor, c.Cursor())
		})
	}
}

func TestControllerSingleItemExhausts(t *testing.T) {
	c := newController(NewLedger(nil))
	c.Load(items(shortItem("1", "A")))

	_, err := c.Mark(true)
	require.NoError(t, err)
	c.Advance()

	assert.Equal(t, StateDeckExhausted, c.State())
	assert.Empty(t, c.Deck())
	assert.Nil(t, c.Current())
	assert.False(t, c.PendingAdvance())
}

func TestControllerSelectByCorrectIndex(t *testing.T) {
	l := NewLedger(nil)
	c := newController(l)
	c.Load(items(choiceItem("1", "A", 1, 3)))

	sel, err := c.Select(1)
	require.NoError(t, err)
	assert.Equal(t, models.Selection{ChosenIndex: 1, IsCorrect: true, ItemID: "mcq-1"}, sel)
	assert.Equal(t, StateChoiceSelected, c.State())
	assert.True(t, c.PendingAdvance())

	row, ok := l.Row("mcq-1")
	require.True(t, ok)
	assert.Equal(t, models.ResultRow{Right: 1, Wrong: 0, Last: models.OutcomeRight}, row)
}

func TestControllerSelectOnlyFirstCounts(t *testing.T) {
	l := NewLedger(nil)
	c := newController(l)
	c.Load(items(choiceItem("1", "A", 1, 3), choiceItem("2", "A", 0, 3)))

	first, err := c.Select(0)
	require.NoError(t, err)
	assert.False(t, first.IsCorrect)

	again, err := c.Select(1)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	row, _ := l.Row("mcq-1")
	assert.Equal(t, models.ResultRow{Wrong: 1, Last: models.OutcomeWrong}, row)

	c.Advance()
	assert.Equal(t, StateBrowsing, c.State())
	assert.Equal(t, "mcq-2", c.Current().ID())
	_, ok := c.Selection()
	assert.False(t, ok)
}

func TestControllerSelectOutOfRange(t *testing.T) {
	c := newController(NewLedger(nil))
	c.Load(items(choiceItem("1", "A", 0, 2)))

	_, err := c.Select(2)
	assert.ErrorIs(t, err, ErrOptionOutOfRange)
	_, err = c.Select(-1)
	assert.ErrorIs(t, err, ErrOptionOutOfRange)
	assert.Equal(t, StateBrowsing, c.State())
}

func TestControllerAutoAdvance(t *testing.T) {
	clock := &fakeClock{}
	q := &queue{}
	timer := NewAdvanceTimer(time.Second, clock.AfterFunc, q.Post)
	c := NewController(NewLedger(nil), timer, utils.DiscardLogger())
	c.Load(items(choiceItem("1", "A", 0, 2), choiceItem("2", "A", 0, 2)))

	_, err := c.Select(1)
	require.NoError(t, err)
	require.Len(t, clock.tasks, 1)
	assert.Equal(t, time.Second, clock.tasks[0].delay)

	clock.Fire()
	assert.Equal(t, "mcq-1", c.Current().ID(), "the timer only posts an event")

	q.Drain()
	assert.Equal(t, "mcq-2", c.Current().ID())
	assert.Equal(t, StateBrowsing, c.State())
}

func TestControllerStaleTimerIsIgnored(t *testing.T) {
	clock := &fakeClock{}
	q := &queue{}
	timer := NewAdvanceTimer(time.Second, clock.AfterFunc, q.Post)
	c := NewController(NewLedger(nil), timer, utils.DiscardLogger())
	c.Load(items(choiceItem("1", "A", 0, 2), choiceItem("2", "A", 0, 2), choiceItem("3", "A", 0, 2)))

	_, err := c.Select(1)
	require.NoError(t, err)
	// let the delay elapse but keep the event queued, then advance by hand
	task := clock.tasks[0]
	task.fn()
	c.Advance()
	assert.Equal(t, "mcq-2", c.Current().ID())

	q.Drain()
	assert.Equal(t, "mcq-2", c.Current().ID(), "stale event must not advance again")

	_, err = c.Select(1)
	require.NoError(t, err)
	c.Rebuild(items(choiceItem("3", "A", 0, 2)))
	clock.Fire()
	q.Drain()
	assert.Equal(t, StateBrowsing, c.State(), "rebuild cancels the pending advance")
	assert.Equal(t, "mcq-3", c.Current().ID())
}
