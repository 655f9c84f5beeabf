package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"civicstrainer/internal/models"
	"civicstrainer/internal/repository"
	"civicstrainer/internal/utils"
)

const persistTimeout = 5 * time.Second

// QuestionLoader fetches both question banks
type QuestionLoader interface {
	Load(ctx context.Context) *repository.QuestionBanks
}

// TrainerOptions configures a Trainer
type TrainerOptions struct {
	Loader   QuestionLoader
	Store    repository.StateStore
	Loop     *EventLoop
	Builder  *DeckBuilder
	Delay    time.Duration
	After    AfterFunc
	Logger   *slog.Logger
	RunID    string
	Snapshot *models.PersistedState
}

// Trainer is the top-level study session. It owns the banks, preferences,
// ledger and controller, and every method must run on its event loop.
type Trainer struct {
	runID   string
	loader  QuestionLoader
	store   repository.StateStore
	loop    *EventLoop
	builder *DeckBuilder
	logger  *slog.Logger

	banks      *repository.QuestionBanks
	ready      chan struct{}
	prefs      *PreferenceStore
	ledger     *Ledger
	controller *Controller
}

// RestoreState reads the persisted snapshot once. Absent or malformed state
// yields an empty ledger and default preferences.
func RestoreState(ctx context.Context, store repository.StateStore, logger *slog.Logger) *models.PersistedState {
	data, err := store.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrStateNotFound) {
			logger.Warn("Failed to read saved progress, starting fresh", "error", err)
		}
		state := models.NewPersistedState()
		return &state
	}

	state, err := models.DecodeState(data)
	if err != nil {
		logger.Warn("Saved progress is malformed, starting fresh", "error", err)
	}
	return &state
}

// NewTrainer wires a session from opts. The controller stays idle until
// StartLoading delivers the banks.
func NewTrainer(opts TrainerOptions) *Trainer {
	snapshot := opts.Snapshot
	if snapshot == nil {
		s := models.NewPersistedState()
		snapshot = &s
	}
	builder := opts.Builder
	if builder == nil {
		builder = NewDeckBuilder(nil)
	}
	runID := opts.RunID
	if runID == "" {
		runID = utils.GenerateRunID()
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	logger = logger.With(utils.LogFieldRunID, runID)

	t := &Trainer{
		runID:   runID,
		loader:  opts.Loader,
		store:   opts.Store,
		loop:    opts.Loop,
		builder: builder,
		logger:  logger,
		ready:   make(chan struct{}),
		prefs:   NewPreferenceStore(snapshot.Prefs),
		ledger:  NewLedger(snapshot.Results),
	}

	var post func(func()) bool
	if opts.Loop != nil {
		post = opts.Loop.Post
	}
	timer := NewAdvanceTimer(opts.Delay, opts.After, post)
	t.controller = NewController(t.ledger, timer, logger)

	t.ledger.OnChange(t.persist)
	t.prefs.Subscribe(t.onPreferenceChange)
	return t
}

// RunID identifies this session in logs
func (t *Trainer) RunID() string { return t.runID }

// StartLoading fetches the banks in the background and delivers them to the
// event loop once both attempts have resolved
func (t *Trainer) StartLoading(ctx context.Context) {
	go func() {
		banks := t.loader.Load(ctx)
		t.loop.Post(func() { t.Loaded(banks) })
	}()
}

// Loaded installs the banks and builds the first deck
func (t *Trainer) Loaded(banks *repository.QuestionBanks) {
	first := t.banks == nil
	t.banks = banks
	t.controller.Load(t.buildDeck())
	prefs := t.prefs.Get()
	t.logger.Info("Session ready",
		utils.LogFieldMode, prefs.Mode,
		utils.LogFieldCategory, prefs.Category,
		utils.LogFieldOrder, prefs.Order,
		utils.LogFieldDeckSize, len(t.controller.deck),
		utils.LogFieldState, t.controller.State().String())
	if first {
		close(t.ready)
	}
}

// Ready is closed once the banks have been delivered
func (t *Trainer) Ready() <-chan struct{} { return t.ready }

// OnAutoAdvance registers fn to run on the event loop after a timed advance
func (t *Trainer) OnAutoAdvance(fn func()) {
	t.controller.onAutoAdvance = fn
}

// Controller exposes the session controller
func (t *Trainer) Controller() *Controller { return t.controller }

// Preferences exposes the preference store
func (t *Trainer) Preferences() *PreferenceStore { return t.prefs }

// Ledger exposes the answer history
func (t *Trainer) Ledger() *Ledger { return t.ledger }

// Banks returns the loaded banks, or nil before loading completed
func (t *Trainer) Banks() *repository.QuestionBanks { return t.banks }

// LoadFailed reports whether the primary bank could not be loaded
func (t *Trainer) LoadFailed() bool {
	return t.banks != nil && t.banks.Failed()
}

// Reshuffle rebuilds the deck from the current preferences and ledger
func (t *Trainer) Reshuffle() error {
	if t.banks == nil {
		return ErrNotLoaded
	}
	t.controller.Rebuild(t.buildDeck())
	return nil
}

// ResetProgress clears the ledger and rebuilds the deck.
// The learner must have confirmed before this is called.
func (t *Trainer) ResetProgress() {
	t.ledger.Reset()
	t.logger.Info("Progress reset")
	if t.banks != nil {
		t.controller.Rebuild(t.buildDeck())
	}
}

// Universe returns the items of the active mode
func (t *Trainer) Universe() []models.Item {
	if t.banks == nil {
		return nil
	}
	return t.banks.ItemsFor(t.prefs.Get().Mode)
}

// Categories lists the categories of both banks with "All" first
func (t *Trainer) Categories() []string {
	if t.banks == nil {
		return []string{models.AllCategories}
	}
	return Categories(t.banks.ShortAnswerItems(), t.banks.MultipleChoiceItems())
}

// Totals aggregates the ledger over the active mode
func (t *Trainer) Totals() models.Totals {
	return Totals(t.Universe(), t.ledger)
}

// Tallies returns per-category mastery for the active mode
func (t *Trainer) Tallies() map[string]models.CategoryTally {
	return TallyByCategory(t.Universe(), t.ledger)
}

// CurrentTally returns mastery for the selected category
func (t *Trainer) CurrentTally() models.CategoryTally {
	return CategoryTallyFor(t.Universe(), t.prefs.Get().Category, t.ledger)
}

// CategoryCounts returns the number of items per category in the active mode
func (t *Trainer) CategoryCounts() map[string]int {
	return CountByCategory(t.Universe())
}

// CurrentStats returns the ledger row of the current item
func (t *Trainer) CurrentStats() (models.ResultRow, bool) {
	item := t.controller.Current()
	if item == nil {
		return models.ResultRow{}, false
	}
	return t.ledger.Row(item.ID())
}

// Snapshot returns the state that is persisted
func (t *Trainer) Snapshot() models.PersistedState {
	return models.PersistedState{Results: t.ledger.Rows(), Prefs: t.prefs.Get()}
}

func (t *Trainer) buildDeck() []models.Item {
	prefs := t.prefs.Get()
	return t.builder.Build(t.Universe(), prefs.Category, prefs.Order, t.ledger.IsMastered)
}

func (t *Trainer) onPreferenceChange(change PreferenceChange) {
	t.persist()
	t.logger.Debug("Preference changed", "field", change.Field)
	if models.RebuildsDeck(change.Field) && t.banks != nil {
		t.controller.Rebuild(t.buildDeck())
	}
}

// persist writes the snapshot. Failures are logged and otherwise ignored.
func (t *Trainer) persist() {
	if t.store == nil {
		return
	}
	data, err := json.Marshal(t.Snapshot())
	if err != nil {
		t.logger.Error("Failed to encode progress", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := t.store.Save(ctx, data); err != nil {
		t.logger.Warn("Failed to save progress", "error", err)
	}
}
