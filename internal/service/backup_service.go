package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"civicstrainer/internal/models"
	"civicstrainer/internal/repository"
)

const backupVersion = "1.0"

// Backup formats
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// ErrUnsupportedFormat is returned for an unknown export format
var ErrUnsupportedFormat = errors.New("unsupported backup format")

// BackupData is the on-disk form of an exported snapshot
type BackupData struct {
	Version    string          `json:"version"`
	ID         string          `json:"id"`
	ExportedAt time.Time       `json:"exported_at"`
	StateKey   string          `json:"state_key"`
	State      json.RawMessage `json:"state"`
}

// BackupService exports and imports the persisted ledger and preferences
type BackupService struct {
	store    repository.StateStore
	stateKey string
	logger   *slog.Logger
	now      func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(store repository.StateStore, stateKey string, logger *slog.Logger) *BackupService {
	return &BackupService{store: store, stateKey: stateKey, logger: logger, now: time.Now}
}

// current reads the stored snapshot, falling back to an empty one
func (s *BackupService) current(ctx context.Context) (models.PersistedState, error) {
	data, err := s.store.Load(ctx)
	if errors.Is(err, repository.ErrStateNotFound) {
		return models.NewPersistedState(), nil
	}
	if err != nil {
		return models.PersistedState{}, fmt.Errorf("failed to read state: %w", err)
	}
	state, err := models.DecodeState(data)
	if err != nil {
		s.logger.Warn("Stored state is malformed, exporting defaults", "error", err)
	}
	return state, nil
}

// Export writes the snapshot in format. items, when given, adds question
// details to spreadsheet rows.
func (s *BackupService) Export(ctx context.Context, w io.Writer, format string, items []models.Item) error {
	switch format {
	case FormatJSON, "":
		return s.ExportJSON(ctx, w)
	case FormatXLSX:
		return s.ExportXLSX(ctx, w, items)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// ExportJSON writes the snapshot as an importable JSON document
func (s *BackupService) ExportJSON(ctx context.Context, w io.Writer) error {
	state, err := s.current(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	backup := BackupData{
		Version:    backupVersion,
		ID:         uuid.NewString(),
		ExportedAt: s.now().UTC(),
		StateKey:   s.stateKey,
		State:      raw,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.Info("Progress exported", "format", FormatJSON, "results", len(state.Results))
	return nil
}

// ExportXLSX writes a read-only spreadsheet with a results sheet and a
// preferences sheet
func (s *BackupService) ExportXLSX(ctx context.Context, w io.Writer, items []models.Item) error {
	state, err := s.current(ctx)
	if err != nil {
		return err
	}

	byID := make(map[string]models.Item, len(items))
	for _, item := range items {
		byID[item.ID()] = item
	}

	f := excelize.NewFile()
	defer f.Close()

	const results = "Results"
	const prefs = "Preferences"
	if err := f.SetSheetName("Sheet1", results); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(prefs); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := []any{"Item ID", "Kind", "Category", "Question", "Right", "Wrong", "Last", "Mastered"}
	if err := f.SetSheetRow(results, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	ids := make([]string, 0, len(state.Results))
	for id := range state.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for i, id := range ids {
		r := state.Results[id]
		kind, category, question := "", "", ""
		if item, ok := byID[id]; ok {
			kind, category, question = string(item.Kind()), item.Category(), questionText(item)
		}
		row := []any{id, kind, category, question, r.Right, r.Wrong, string(r.Last), r.Mastered()}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(results, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %s: %w", id, err)
		}
	}

	p := state.Prefs
	prefRows := [][]any{
		{"category", p.Category},
		{"order", string(p.Order)},
		{"mode", string(p.Mode)},
		{"lang", string(p.Language)},
		{"dark", strconv.FormatBool(p.DarkTheme)},
	}
	for i, row := range prefRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(prefs, cell, &row); err != nil {
			return fmt.Errorf("failed to write preference: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	s.logger.Info("Progress exported", "format", FormatXLSX, "results", len(ids))
	return nil
}

func questionText(item models.Item) string {
	switch it := item.(type) {
	case *models.ShortAnswerItem:
		return it.QuestionES
	case *models.MultipleChoiceItem:
		return it.StemES
	}
	return ""
}

// stateReplacer is implemented by stores that can swap the snapshot atomically
type stateReplacer interface {
	Replace(payload []byte) error
}

// Import restores a JSON backup from r. With clear the stored snapshot is
// replaced; otherwise imported rows overwrite matching stored rows and the
// imported preferences win.
func (s *BackupService) Import(ctx context.Context, r io.Reader, clear bool) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	imported, err := models.DecodeState(backup.State)
	if err != nil {
		return fmt.Errorf("failed to decode backup state: %w", err)
	}
	s.logger.Info("Importing backup",
		"version", backup.Version,
		"id", backup.ID,
		"exported_at", backup.ExportedAt,
		"results", len(imported.Results))

	merged := imported
	if !clear {
		existing, err := s.current(ctx)
		if err != nil {
			return err
		}
		merged = models.PersistedState{Results: existing.Results, Prefs: imported.Prefs}
		for id, row := range imported.Results {
			merged.Results[id] = row
		}
	}

	payload, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if rep, ok := s.store.(stateReplacer); ok && clear {
		err = rep.Replace(payload)
	} else {
		err = s.store.Save(ctx, payload)
	}
	if err != nil {
		return fmt.Errorf("failed to store imported state: %w", err)
	}

	s.logger.Info("Import completed", "results", len(merged.Results))
	return nil
}
