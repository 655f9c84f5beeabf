package service

import (
	"sort"

	"civicstrainer/internal/models"
)

// Totals sums the ledger over items, the universe of the active mode
func Totals(items []models.Item, ledger *Ledger) models.Totals {
	t := models.Totals{Total: len(items)}
	for _, item := range items {
		row, ok := ledger.Row(item.ID())
		if !ok {
			continue
		}
		t.Right += row.Right
		t.Wrong += row.Wrong
		if row.Attempted() {
			t.Seen++
		}
	}
	return t
}

// TallyByCategory counts mastered and total items per category.
// The synthetic "All" entry covers the whole universe.
func TallyByCategory(items []models.Item, ledger *Ledger) map[string]models.CategoryTally {
	tallies := make(map[string]models.CategoryTally)
	var all models.CategoryTally

	for _, item := range items {
		t := tallies[item.Category()]
		t.Total++
		all.Total++
		if ledger.IsMastered(item) {
			t.Mastered++
			all.Mastered++
		}
		tallies[item.Category()] = t
	}

	tallies[models.AllCategories] = all
	return tallies
}

// CategoryTallyFor counts mastered items of one category, or of all items for "All"
func CategoryTallyFor(items []models.Item, category string, ledger *Ledger) models.CategoryTally {
	var t models.CategoryTally
	for _, item := range FilterByCategory(items, category) {
		t.Total++
		if ledger.IsMastered(item) {
			t.Mastered++
		}
	}
	return t
}

// CountByCategory returns the number of items in each category
func CountByCategory(items []models.Item) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.Category()]++
	}
	return counts
}

// Categories lists every category of both banks sorted, with "All" first
func Categories(banks ...[]models.Item) []string {
	set := make(map[string]struct{})
	for _, items := range banks {
		for _, item := range items {
			set[item.Category()] = struct{}{}
		}
	}
	delete(set, models.AllCategories)

	names := make([]string, 0, len(set)+1)
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return append([]string{models.AllCategories}, names...)
}
