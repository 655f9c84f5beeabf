package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicstrainer/internal/models"
	"civicstrainer/internal/utils"
)

const (
	qaDoc  = `[{"qid": 1, "category": "Civics", "question": "q1"}, {"qid": 2, "category": "History", "question": "q2"}]`
	mcqDoc = `[{"mcq_id": 1, "category": "Civics", "stem_es": "s1", "options": [{"es": "a", "is_correct": true}]}]`
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestQuestionRepositoryLoadFiles(t *testing.T) {
	dir := t.TempDir()
	qa := writeFile(t, dir, "qa.json", qaDoc)
	mcq := writeFile(t, dir, "mcq.json", mcqDoc)

	repo := NewQuestionRepository(qa, mcq, utils.DiscardLogger())
	banks := repo.Load(context.Background())

	assert.False(t, banks.Failed())
	assert.NoError(t, banks.MCQErr)
	assert.Len(t, banks.ShortAnswer, 2)
	assert.Len(t, banks.MultipleChoice, 1)
	assert.Len(t, banks.ItemsFor(models.ModeShort), 2)
	assert.Len(t, banks.ItemsFor(models.ModeMCQ), 1)
}

func TestQuestionRepositoryMCQFailureIsIsolated(t *testing.T) {
	dir := t.TempDir()
	qa := writeFile(t, dir, "qa.json", qaDoc)
	broken := writeFile(t, dir, "mcq.json", `[{"mcq_id": 1,`)

	tests := []struct {
		name string
		mcq  string
	}{
		{name: "malformed json", mcq: broken},
		{name: "missing file", mcq: filepath.Join(dir, "absent.json")},
		{name: "not configured", mcq: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			banks := NewQuestionRepository(qa, tt.mcq, utils.DiscardLogger()).Load(context.Background())
			assert.False(t, banks.Failed())
			assert.Error(t, banks.MCQErr)
			assert.Len(t, banks.ShortAnswer, 2)
			assert.Empty(t, banks.MultipleChoice)
		})
	}
}

func TestQuestionRepositoryQAFailureEmptiesEverything(t *testing.T) {
	dir := t.TempDir()
	mcq := writeFile(t, dir, "mcq.json", mcqDoc)

	banks := NewQuestionRepository(filepath.Join(dir, "absent.json"), mcq, utils.DiscardLogger()).Load(context.Background())
	assert.True(t, banks.Failed())
	assert.Empty(t, banks.ShortAnswer)
	assert.Empty(t, banks.MultipleChoice)
}

func TestQuestionRepositoryLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/qa.json":
			w.Write([]byte(qaDoc))
		case "/mcq.json":
			w.Write([]byte(mcqDoc))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	banks := NewQuestionRepository(srv.URL+"/qa.json", srv.URL+"/mcq.json", utils.DiscardLogger()).Load(context.Background())
	assert.False(t, banks.Failed())
	assert.Len(t, banks.ShortAnswer, 2)
	assert.Len(t, banks.MultipleChoice, 1)

	banks = NewQuestionRepository(srv.URL+"/qa.json", srv.URL+"/missing.json", utils.DiscardLogger()).Load(context.Background())
	assert.Error(t, banks.MCQErr)
	assert.Len(t, banks.ShortAnswer, 2)
}
