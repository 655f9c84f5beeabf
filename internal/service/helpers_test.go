package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"civicstrainer/internal/models"
	"civicstrainer/internal/repository"
)

func shortItem(id, category string) *models.ShortAnswerItem {
	return &models.ShortAnswerItem{
		ItemID:     "qa-" + id,
		RawID:      id,
		Cat:        category,
		QuestionES: "pregunta " + id,
		QuestionEN: "question " + id,
		AnswerES:   "respuesta " + id,
		AnswerEN:   "answer " + id,
	}
}

func choiceItem(id, category string, correct int, options int) *models.MultipleChoiceItem {
	item := &models.MultipleChoiceItem{
		ItemID: "mcq-" + id,
		RawID:  id,
		Cat:    category,
		StemES: "enunciado " + id,
		StemEN: "stem " + id,
	}
	for i := 0; i < options; i++ {
		item.Options = append(item.Options, models.Option{TextES: "op", TextEN: "opt"})
	}
	item.CorrectIndex = &correct
	return item
}

func items(list ...models.Item) []models.Item { return list }

func ids(deck []models.Item) []string {
	out := make([]string, len(deck))
	for i, item := range deck {
		out[i] = item.ID()
	}
	return out
}

func seededBuilder() *DeckBuilder {
	return NewDeckBuilder(rand.New(rand.NewPCG(1, 2)))
}

// fakeClock records scheduled tasks and fires them on demand
type fakeClock struct {
	tasks []*fakeTask
}

type fakeTask struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) func() bool {
	task := &fakeTask{delay: d, fn: f}
	c.tasks = append(c.tasks, task)
	return func() bool {
		wasActive := !task.stopped
		task.stopped = true
		return wasActive
	}
}

// Fire runs every task that was not stopped
func (c *fakeClock) Fire() {
	tasks := c.tasks
	c.tasks = nil
	for _, task := range tasks {
		if !task.stopped {
			task.stopped = true
			task.fn()
		}
	}
}

// queue collects posted events so tests decide when they run
type queue struct {
	events []func()
}

func (q *queue) Post(fn func()) bool {
	q.events = append(q.events, fn)
	return true
}

func (q *queue) Drain() {
	events := q.events
	q.events = nil
	for _, fn := range events {
		fn()
	}
}

// memoryStore is an in-memory StateStore
type memoryStore struct {
	data    []byte
	saves   int
	failing bool
}

var errStoreDown = errors.New("store unavailable")

func (s *memoryStore) Load(ctx context.Context) ([]byte, error) {
	if s.failing {
		return nil, errStoreDown
	}
	if s.data == nil {
		return nil, repository.ErrStateNotFound
	}
	return s.data, nil
}

func (s *memoryStore) Save(ctx context.Context, payload []byte) error {
	if s.failing {
		return errStoreDown
	}
	s.saves++
	s.data = append([]byte(nil), payload...)
	return nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.data = nil
	return nil
}

func (s *memoryStore) Close() error { return nil }

// staticLoader returns fixed banks
type staticLoader struct {
	banks *repository.QuestionBanks
}

func (l staticLoader) Load(ctx context.Context) *repository.QuestionBanks {
	return l.banks
}
