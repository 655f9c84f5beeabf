package service

import (
	"log/slog"

	"civicstrainer/internal/models"
	"civicstrainer/internal/utils"
)

// SessionState is the phase of the study session
type SessionState int

const (
	StateIdle SessionState = iota
	StateBrowsing
	StateAnswerRevealed
	StateChoiceSelected
	StateDeckExhausted
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBrowsing:
		return "browsing"
	case StateAnswerRevealed:
		return "answer_revealed"
	case StateChoiceSelected:
		return "choice_selected"
	case StateDeckExhausted:
		return "deck_exhausted"
	}
	return "unknown"
}

// Controller walks the learner through a deck. It is the only writer of the
// ledger and must be driven from a single goroutine.
type Controller struct {
	ledger *Ledger
	timer  *AdvanceTimer
	logger *slog.Logger

	loaded         bool
	deck           []models.Item
	cursor         int
	revealed       bool
	selection      *models.Selection
	pendingAdvance bool

	onAutoAdvance func()
}

// NewController creates an idle controller. timer may be nil.
func NewController(ledger *Ledger, timer *AdvanceTimer, logger *slog.Logger) *Controller {
	return &Controller{ledger: ledger, timer: timer, logger: logger}
}

// State derives the current phase
func (c *Controller) State() SessionState {
	switch {
	case !c.loaded:
		return StateIdle
	case len(c.deck) == 0:
		return StateDeckExhausted
	case c.selection != nil:
		return StateChoiceSelected
	case c.revealed:
		return StateAnswerRevealed
	default:
		return StateBrowsing
	}
}

// Load installs the first deck once both banks have resolved
func (c *Controller) Load(deck []models.Item) {
	c.loaded = true
	c.Rebuild(deck)
}

// Rebuild replaces the deck and starts over at its first item
func (c *Controller) Rebuild(deck []models.Item) {
	if !c.loaded {
		return
	}
	c.deck = deck
	c.cursor = 0
	c.clearTransient()
	c.logger.Debug("Deck rebuilt",
		utils.LogFieldDeckSize, len(deck),
		utils.LogFieldState, c.State().String())
}

// Current returns the item under the cursor, or nil
func (c *Controller) Current() models.Item {
	if len(c.deck) == 0 {
		return nil
	}
	return c.deck[c.cursor]
}

// Deck returns a copy of the current deck
func (c *Controller) Deck() []models.Item {
	out := make([]models.Item, len(c.deck))
	copy(out, c.deck)
	return out
}

func (c *Controller) Cursor() int          { return c.cursor }
func (c *Controller) Revealed() bool       { return c.revealed }
func (c *Controller) PendingAdvance() bool { return c.pendingAdvance }

// Selection returns the captured choice for the current item, if any
func (c *Controller) Selection() (models.Selection, bool) {
	if c.selection == nil {
		return models.Selection{}, false
	}
	return *c.selection, true
}

// ToggleReveal shows or hides the answer of a short-answer item
func (c *Controller) ToggleReveal() error {
	switch c.Current().(type) {
	case *models.ShortAnswerItem:
		c.revealed = !c.revealed
		return nil
	case *models.MultipleChoiceItem:
		return ErrWrongMode
	default:
		return ErrNoCurrentItem
	}
}

// Mark grades the current short-answer item and stages an advance.
// It returns false when an advance is already pending for this item.
func (c *Controller) Mark(correct bool) (bool, error) {
	switch item := c.Current().(type) {
	case *models.ShortAnswerItem:
		if c.pendingAdvance {
			return false, nil
		}
		row := c.ledger.Record(item.ID(), correct)
		c.revealed = false
		c.pendingAdvance = true
		c.logger.Debug("Answer marked",
			utils.LogFieldItemID, item.ID(),
			"correct", correct,
			"right", row.Right,
			"wrong", row.Wrong)
		return true, nil
	case *models.MultipleChoiceItem:
		return false, ErrWrongMode
	default:
		return false, ErrNoCurrentItem
	}
}

// Select answers the current multiple-choice item with option index.
// The outcome is recorded immediately. Only the first selection for an item
// counts; later ones return the captured selection unchanged.
func (c *Controller) Select(index int) (models.Selection, error) {
	switch item := c.Current().(type) {
	case *models.MultipleChoiceItem:
		if c.selection != nil {
			return *c.selection, nil
		}
		if index < 0 || index >= len(item.Options) {
			return models.Selection{}, ErrOptionOutOfRange
		}

		sel := models.Selection{
			ChosenIndex: index,
			IsCorrect:   item.IsCorrectChoice(index),
			ItemID:      item.ID(),
		}
		c.selection = &sel
		c.pendingAdvance = true
		c.ledger.Record(item.ID(), sel.IsCorrect)
		c.logger.Debug("Option selected",
			utils.LogFieldItemID, item.ID(),
			"index", index,
			"correct", sel.IsCorrect)

		itemID := item.ID()
		c.timer.Arm(func(gen uint64) { c.autoAdvance(itemID, gen) })
		return sel, nil
	case *models.ShortAnswerItem:
		return models.Selection{}, ErrWrongMode
	default:
		return models.Selection{}, ErrNoCurrentItem
	}
}

// autoAdvance runs on the event loop when the feedback delay elapses
func (c *Controller) autoAdvance(itemID string, gen uint64) {
	if !c.timer.Current(gen) || c.selection == nil || c.selection.ItemID != itemID {
		return
	}
	c.Advance()
	if c.onAutoAdvance != nil {
		c.onAutoAdvance()
	}
}

// Advance moves to the next item. Items mastered since the deck was built
// are dropped first; the cursor lands on whatever followed the current item.
func (c *Controller) Advance() {
	current := c.Current()
	if current == nil {
		return
	}

	next := make([]models.Item, 0, len(c.deck))
	pos := -1
	for _, item := range c.deck {
		if c.ledger.IsMastered(item) {
			continue
		}
		if item.ID() == current.ID() {
			pos = len(next)
		}
		next = append(next, item)
	}

	cursor := c.cursor
	if pos >= 0 {
		cursor = pos + 1
	}
	if cursor > len(next)-1 {
		cursor = len(next) - 1
	}
	if cursor < 0 {
		cursor = 0
	}

	c.deck = next
	c.cursor = cursor
	c.clearTransient()
	c.logger.Debug("Advanced",
		utils.LogFieldDeckSize, len(next),
		utils.LogFieldState, c.State().String())
}

func (c *Controller) clearTransient() {
	c.timer.Cancel()
	c.revealed = false
	c.selection = nil
	c.pendingAdvance = false
}
