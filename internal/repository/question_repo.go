package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"civicstrainer/internal/models"
	"civicstrainer/internal/utils"
)

const fetchTimeout = 15 * time.Second

// ErrSourceNotConfigured is returned for an empty source location
var ErrSourceNotConfigured = errors.New("question source not configured")

// QuestionBanks is the normalized content of both sources
type QuestionBanks struct {
	ShortAnswer    []*models.ShortAnswerItem
	MultipleChoice []*models.MultipleChoiceItem

	// QAErr is set when the primary bank could not be loaded; both banks are then empty
	QAErr error
	// MCQErr is set when the optional multiple-choice bank could not be loaded
	MCQErr error
}

// Failed reports whether the primary bank failed to load
func (b *QuestionBanks) Failed() bool {
	return b.QAErr != nil
}

// ShortAnswerItems returns the short-answer bank as generic items
func (b *QuestionBanks) ShortAnswerItems() []models.Item {
	items := make([]models.Item, len(b.ShortAnswer))
	for i, q := range b.ShortAnswer {
		items[i] = q
	}
	return items
}

// MultipleChoiceItems returns the multiple-choice bank as generic items
func (b *QuestionBanks) MultipleChoiceItems() []models.Item {
	items := make([]models.Item, len(b.MultipleChoice))
	for i, q := range b.MultipleChoice {
		items[i] = q
	}
	return items
}

// ItemsFor returns the bank studied in the given mode
func (b *QuestionBanks) ItemsFor(mode models.Mode) []models.Item {
	if mode == models.ModeMCQ {
		return b.MultipleChoiceItems()
	}
	return b.ShortAnswerItems()
}

// QuestionRepository reads the two question banks from files or URLs
type QuestionRepository struct {
	qaSource  string
	mcqSource string
	client    *http.Client
	logger    *slog.Logger
}

// NewQuestionRepository creates a repository for the given source locations.
// A location is a file path or an http(s) URL.
func NewQuestionRepository(qaSource, mcqSource string, logger *slog.Logger) *QuestionRepository {
	return &QuestionRepository{
		qaSource:  qaSource,
		mcqSource: mcqSource,
		client:    &http.Client{Timeout: fetchTimeout},
		logger:    logger,
	}
}

// Load fetches both banks concurrently and returns once both attempts resolved.
// It never returns an error: failures are reported on the result.
func (r *QuestionRepository) Load(ctx context.Context) *QuestionBanks {
	var rawQA, rawMCQ []json.RawMessage
	var qaErr, mcqErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rawQA, qaErr = r.fetchRecords(gctx, r.qaSource)
		return nil
	})
	g.Go(func() error {
		rawMCQ, mcqErr = r.fetchRecords(gctx, r.mcqSource)
		return nil
	})
	_ = g.Wait()

	banks := &QuestionBanks{}
	if qaErr != nil {
		r.logger.Error("Failed to load question bank",
			utils.LogFieldSource, r.qaSource, "error", qaErr)
		banks.QAErr = qaErr
		banks.ShortAnswer = []*models.ShortAnswerItem{}
		banks.MultipleChoice = []*models.MultipleChoiceItem{}
		return banks
	}
	if mcqErr != nil {
		r.logger.Warn("Multiple-choice bank unavailable, continuing without it",
			utils.LogFieldSource, r.mcqSource, "error", mcqErr)
		banks.MCQErr = mcqErr
		rawMCQ = nil
	}

	banks.ShortAnswer, banks.MultipleChoice = Normalize(rawQA, rawMCQ)
	r.logger.Info("Question banks loaded",
		"short_answer", len(banks.ShortAnswer),
		"multiple_choice", len(banks.MultipleChoice))
	return banks
}

// fetchRecords reads a source and splits it into raw records.
// Valid JSON that is not an array yields no records.
func (r *QuestionRepository) fetchRecords(ctx context.Context, location string) ([]json.RawMessage, error) {
	data, err := r.fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return ParseRecords(data)
}

// ParseRecords splits a bank document into raw records
func ParseRecords(data []byte) ([]json.RawMessage, error) {
	var doc json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(doc, &records); err != nil {
		return []json.RawMessage{}, nil
	}
	return records, nil
}

func (r *QuestionRepository) fetch(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, ErrSourceNotConfigured
	}
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", location, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}
