package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicstrainer/internal/models"
)

func rawRecords(t *testing.T, doc string) []json.RawMessage {
	t.Helper()
	records, err := ParseRecords([]byte(doc))
	require.NoError(t, err)
	return records
}

func TestNormalizeShortAnswer(t *testing.T) {
	records := rawRecords(t, `[
		{"qid": 1, "category": "Civics", "question": "¿Pregunta?", "question_en": "Question?", "answer": "Sí", "answer_en": "Yes"},
		{"qid": "2", "question": "Solo español"},
		{"qid": 3, "category": "Civics"},
		{"question_en": "No id"},
		"not an object",
		null,
		{"qid": 1, "question": "Duplicate id"}
	]`)

	items := NormalizeShortAnswer(records)
	require.Len(t, items, 4)

	assert.Equal(t, &models.ShortAnswerItem{
		ItemID: "qa-1", RawID: "1", Cat: "Civics",
		QuestionES: "¿Pregunta?", QuestionEN: "Question?",
		AnswerES: "Sí", AnswerEN: "Yes",
	}, items[0])

	t.Run("missing fields default", func(t *testing.T) {
		q := items[1]
		assert.Equal(t, "qa-2", q.ID())
		assert.Equal(t, models.DefaultCategory, q.Category())
		assert.Equal(t, "Solo español", q.QuestionEN)
		assert.Equal(t, "", q.AnswerES)
		assert.Equal(t, "", q.AnswerEN)
	})

	t.Run("record without question dropped", func(t *testing.T) {
		for _, q := range items {
			assert.NotEqual(t, "qa-3", q.ID())
		}
	})

	t.Run("missing id is positional", func(t *testing.T) {
		assert.Equal(t, "qa-auto3", items[2].ID())
		assert.Equal(t, "", items[2].QuestionES)
		assert.Equal(t, "No id", items[2].QuestionEN)
	})

	t.Run("duplicate id is disambiguated", func(t *testing.T) {
		assert.Equal(t, "qa-1~2", items[3].ID())
		assert.Equal(t, "1", items[3].DisplayID())
	})
}

func TestNormalizeMultipleChoice(t *testing.T) {
	records := rawRecords(t, `[
		{"mcq_id": 7, "category": "History", "stem_es": "¿Cuál?", "stem_en": "Which?",
		 "options": [{"es": "a", "en": "a", "is_correct": true}, {"es": "b", "en": "b"}]},
		{"stem_en": "Only English", "options": "broken", "answer_index": 1},
		{"mcq_id": "x", "options": [{"es": "uno"}, 5, {"es": "tres", "is_correct": 1}], "answer_index": 1.5},
		{"mcq_id": "y", "answer_index": null}
	]`)

	items := NormalizeMultipleChoice(records)
	require.Len(t, items, 4)

	first := items[0]
	assert.Equal(t, "mcq-7", first.ID())
	assert.Equal(t, "History", first.Category())
	assert.Len(t, first.Options, 2)
	assert.True(t, first.Options[0].IsCorrect)
	assert.False(t, first.Options[1].IsCorrect)
	assert.Nil(t, first.CorrectIndex)

	second := items[1]
	assert.Equal(t, "mcq-1", second.ID())
	assert.Equal(t, models.DefaultCategory, second.Category())
	assert.Equal(t, "Only English", second.StemES)
	assert.Equal(t, "Only English", second.StemEN)
	assert.Empty(t, second.Options)
	require.NotNil(t, second.CorrectIndex)
	assert.Equal(t, 1, *second.CorrectIndex)

	third := items[2]
	assert.Equal(t, "mcq-x", third.ID())
	require.Len(t, third.Options, 3)
	assert.Equal(t, models.Option{}, third.Options[1])
	assert.True(t, third.Options[2].IsCorrect)
	assert.Nil(t, third.CorrectIndex)

	assert.Nil(t, items[3].CorrectIndex)
}

func TestNormalizeIDsUniqueAcrossBanks(t *testing.T) {
	qa := rawRecords(t, `[{"qid": 1, "question": "a"}, {"qid": 2, "question": "b"}]`)
	mcq := rawRecords(t, `[{"mcq_id": 1}, {"mcq_id": 2}]`)

	shortItems, mcqItems := Normalize(qa, mcq)

	seen := make(map[string]bool)
	for _, q := range shortItems {
		assert.False(t, seen[q.ID()], q.ID())
		seen[q.ID()] = true
	}
	for _, m := range mcqItems {
		assert.False(t, seen[m.ID()], m.ID())
		seen[m.ID()] = true
	}
	assert.Len(t, seen, 4)
}

func TestParseRecords(t *testing.T) {
	records, err := ParseRecords([]byte(`{"not": "an array"}`))
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = ParseRecords([]byte(`[{"qid": 1`))
	assert.Error(t, err)
}
