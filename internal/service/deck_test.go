package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"civicstrainer/internal/models"
)

func TestDeckBuilderBuild(t *testing.T) {
	source := items(
		shortItem("1", "Civics"),
		shortItem("2", "History"),
		shortItem("3", "Civics"),
		shortItem("4", "civics"),
	)
	mastered := map[string]bool{"qa-3": true}
	exclude := func(item models.Item) bool { return mastered[item.ID()] }

	tests := []struct {
		name     string
		category string
		exclude  func(models.Item) bool
		want     []string
	}{
		{name: "all categories", category: models.AllCategories, want: []string{"qa-1", "qa-2", "qa-3", "qa-4"}},
		{name: "exact category match", category: "Civics", want: []string{"qa-1", "qa-3"}},
		{name: "mastered excluded", category: "Civics", exclude: exclude, want: []string{"qa-1"}},
		{name: "unknown category", category: "Science", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck := seededBuilder().Build(source, tt.category, models.OrderInOrder, tt.exclude)
			assert.Equal(t, tt.want, ids(deck))
		})
	}
}

func TestDeckBuilderInOrderIsDeterministic(t *testing.T) {
	source := items(shortItem("1", "A"), shortItem("2", "B"), shortItem("3", "A"))
	b := seededBuilder()

	first := b.Build(source, models.AllCategories, models.OrderInOrder, nil)
	second := b.Build(source, models.AllCategories, models.OrderInOrder, nil)
	assert.Equal(t, ids(first), ids(second))
}

func TestDeckBuilderShuffleIsPermutation(t *testing.T) {
	var source []models.Item
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		source = append(source, shortItem(id, "A"))
	}
	before := ids(source)

	deck := seededBuilder().Build(source, models.AllCategories, models.OrderShuffle, nil)
	assert.Len(t, deck, len(source))
	assert.ElementsMatch(t, before, ids(deck))
	// the source slice is left alone
	assert.Equal(t, before, ids(source))
}

func TestDeckBuilderShuffleCoversPermutations(t *testing.T) {
	source := items(shortItem("1", "A"), shortItem("2", "A"), shortItem("3", "A"))
	b := seededBuilder()

	seen := make(map[string]int)
	for i := 0; i < 600; i++ {
		deck := b.Build(source, models.AllCategories, models.OrderShuffle, nil)
		key := deck[0].ID() + deck[1].ID() + deck[2].ID()
		seen[key]++
	}
	assert.Len(t, seen, 6)
	for perm, n := range seen {
		assert.Greater(t, n, 50, perm)
	}
}
