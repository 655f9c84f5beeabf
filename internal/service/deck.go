package service

import (
	"math/rand/v2"
	"time"

	"civicstrainer/internal/models"
)

// DeckBuilder turns an item universe into an ordered study deck
type DeckBuilder struct {
	rng *rand.Rand
}

// NewDeckBuilder creates a builder drawing shuffles from rng.
// A nil rng seeds one from the clock.
func NewDeckBuilder(rng *rand.Rand) *DeckBuilder {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>17|1))
	}
	return &DeckBuilder{rng: rng}
}

// Build filters items to category, drops items for which exclude is true and
// arranges the rest by order. The input slice is never modified.
func (b *DeckBuilder) Build(items []models.Item, category string, order models.Order, exclude func(models.Item) bool) []models.Item {
	deck := make([]models.Item, 0, len(items))
	for _, item := range FilterByCategory(items, category) {
		if exclude != nil && exclude(item) {
			continue
		}
		deck = append(deck, item)
	}

	if order == models.OrderShuffle {
		b.shuffle(deck)
	}
	return deck
}

// shuffle is an in-place Fisher-Yates pass
func (b *DeckBuilder) shuffle(deck []models.Item) {
	for i := len(deck) - 1; i > 0; i-- {
		j := b.rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// FilterByCategory keeps the items of one category; "All" keeps everything.
// Source order is preserved.
func FilterByCategory(items []models.Item, category string) []models.Item {
	if category == models.AllCategories {
		return items
	}
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if item.Category() == category {
			out = append(out, item)
		}
	}
	return out
}
