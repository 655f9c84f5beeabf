package service

import (
	"sort"
	"time"

	"civicstrainer/internal/models"
	"civicstrainer/internal/repository"
)

// ModeReport summarizes the ledger over one question bank
type ModeReport struct {
	Mode       models.Mode
	Totals     models.Totals
	Mastered   int
	Categories []CategoryReport
}

type CategoryReport struct {
	Name  string
	Tally models.CategoryTally
}

// ProgressReport is the learner's progress over both banks
type ProgressReport struct {
	GeneratedAt time.Time
	Modes       []ModeReport
}

// BuildProgressReport aggregates a ledger over both banks
func BuildProgressReport(banks *repository.QuestionBanks, ledger *Ledger, now time.Time) ProgressReport {
	report := ProgressReport{GeneratedAt: now}
	for _, mode := range []models.Mode{models.ModeShort, models.ModeMCQ} {
		items := banks.ItemsFor(mode)
		tallies := TallyByCategory(items, ledger)

		mr := ModeReport{
			Mode:     mode,
			Totals:   Totals(items, ledger),
			Mastered: tallies[models.AllCategories].Mastered,
		}
		names := make([]string, 0, len(tallies))
		for name := range tallies {
			if name != models.AllCategories {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			mr.Categories = append(mr.Categories, CategoryReport{Name: name, Tally: tallies[name]})
		}
		report.Modes = append(report.Modes, mr)
	}
	return report
}
