package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"civicstrainer/internal/models"
)

const (
	shortAnswerPrefix    = "qa-"
	multipleChoicePrefix = "mcq-"
)

// record is a loosely typed JSON object from a question bank
type record map[string]json.RawMessage

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeRecord(raw json.RawMessage) (record, bool) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil || r == nil {
		return nil, false
	}
	return r, true
}

// str returns the field when it is a JSON string
func (r record) str(key string) (string, bool) {
	raw, ok := r[key]
	if !ok || isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// strOr returns the first present string field among keys, or ""
func (r record) strOr(keys ...string) string {
	for _, k := range keys {
		if s, ok := r.str(k); ok {
			return s
		}
	}
	return ""
}

// id returns a string or numeric field rendered as text
func (r record) id(key string) (string, bool) {
	if s, ok := r.str(key); ok {
		return s, true
	}
	raw, ok := r[key]
	if !ok || isNull(raw) {
		return "", false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return "", false
	}
	return n.String(), true
}

// truthy coerces a field the way a loosely typed source means it
func (r record) truthy(key string) bool {
	raw, ok := r[key]
	if !ok {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	case nil:
		return false
	default:
		return true
	}
}

// index returns an integral numeric field
func (r record) index(key string) (int, bool) {
	raw, ok := r[key]
	if !ok || isNull(raw) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func (r record) category() string {
	if c, ok := r.str("category"); ok {
		return c
	}
	return models.DefaultCategory
}

// idAllocator keeps namespaced ids unique within one bank
type idAllocator struct {
	prefix string
	seen   map[string]int
}

func newIDAllocator(prefix string) *idAllocator {
	return &idAllocator{prefix: prefix, seen: make(map[string]int)}
}

func (a *idAllocator) next(raw string) string {
	id := a.prefix + raw
	a.seen[id]++
	if n := a.seen[id]; n > 1 {
		return fmt.Sprintf("%s~%d", id, n)
	}
	return id
}

// Normalize converts raw bank records into items.
// Short-answer records without any question text are dropped. Missing
// categories become "General" and missing texts become empty strings, with
// English texts falling back to Spanish ones.
func Normalize(rawQA, rawMCQ []json.RawMessage) ([]*models.ShortAnswerItem, []*models.MultipleChoiceItem) {
	return NormalizeShortAnswer(rawQA), NormalizeMultipleChoice(rawMCQ)
}

// NormalizeShortAnswer converts the short-answer bank
func NormalizeShortAnswer(raw []json.RawMessage) []*models.ShortAnswerItem {
	ids := newIDAllocator(shortAnswerPrefix)
	items := make([]*models.ShortAnswerItem, 0, len(raw))

	for i, rr := range raw {
		r, ok := decodeRecord(rr)
		if !ok {
			continue
		}
		q, _ := r.str("question")
		qEN, _ := r.str("question_en")
		if q == "" && qEN == "" {
			continue
		}

		rawID, ok := r.id("qid")
		if !ok {
			rawID = "auto" + strconv.Itoa(i)
		}

		items = append(items, &models.ShortAnswerItem{
			ItemID:     ids.next(rawID),
			RawID:      rawID,
			Cat:        r.category(),
			QuestionES: r.strOr("question"),
			QuestionEN: r.strOr("question_en", "question"),
			AnswerES:   r.strOr("answer"),
			AnswerEN:   r.strOr("answer_en", "answer"),
		})
	}

	return items
}

// NormalizeMultipleChoice converts the multiple-choice bank
func NormalizeMultipleChoice(raw []json.RawMessage) []*models.MultipleChoiceItem {
	ids := newIDAllocator(multipleChoicePrefix)
	items := make([]*models.MultipleChoiceItem, 0, len(raw))

	for i, rr := range raw {
		r, ok := decodeRecord(rr)
		if !ok {
			continue
		}

		rawID, ok := r.id("mcq_id")
		if !ok {
			rawID = strconv.Itoa(i)
		}

		item := &models.MultipleChoiceItem{
			ItemID:  ids.next(rawID),
			RawID:   rawID,
			Cat:     r.category(),
			StemES:  r.strOr("stem_es", "stem_en"),
			StemEN:  r.strOr("stem_en", "stem_es"),
			Options: normalizeOptions(r["options"]),
		}
		if idx, ok := r.index("answer_index"); ok {
			item.CorrectIndex = &idx
		}

		items = append(items, item)
	}

	return items
}

func normalizeOptions(raw json.RawMessage) []models.Option {
	var list []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &list) != nil {
		return []models.Option{}
	}

	options := make([]models.Option, 0, len(list))
	for _, ro := range list {
		o, ok := decodeRecord(ro)
		if !ok {
			options = append(options, models.Option{})
			continue
		}
		options = append(options, models.Option{
			TextES:    o.strOr("es"),
			TextEN:    o.strOr("en"),
			IsCorrect: o.truthy("is_correct"),
		})
	}
	return options
}
