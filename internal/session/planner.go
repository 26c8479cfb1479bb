package session

import (
	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/domain"
)

// categoryOrder fixes the priority in which categories are interleaved.
// Review items lead so overdue material is never starved by filler drills.
var categoryOrder = []domain.ItemCategory{
	domain.ItemCategoryReview,
	domain.ItemCategoryDrill,
	domain.ItemCategoryNew,
}

// Mix is the per-category item budget for one session.
type Mix struct {
	Review int
	Drill  int
	New    int
}

// MixForDaysActive returns the phase-dependent mixture for a learner who has
// been active for the given number of distinct days. Early learners get
// drill-heavy sessions; established learners get mostly due reviews plus
// exactly one new item.
func MixForDaysActive(daysActive int) Mix {
	switch {
	case daysActive < 3:
		return Mix{Review: 4, Drill: 4, New: 1}
	case daysActive < 14:
		return Mix{Review: 6, Drill: 2, New: 1}
	default:
		return Mix{Review: 8, Drill: 0, New: 1}
	}
}

// Plan builds the ordered item sequence for one sitting. Each candidate list
// is truncated to its budget from the phase mixture, then the categories are
// interleaved. Candidate order within a category is preserved.
func Plan(due, drill, fresh []uuid.UUID, daysActive int) []domain.SessionItem {
	mix := MixForDaysActive(daysActive)

	groups := map[domain.ItemCategory][]uuid.UUID{
		domain.ItemCategoryReview: truncate(due, mix.Review),
		domain.ItemCategoryDrill:  truncate(drill, mix.Drill),
		domain.ItemCategoryNew:    truncate(fresh, mix.New),
	}

	return Interleave(groups)
}

// Interleave flattens category groups round-robin in the fixed category
// priority order, one item per category per pass, so no homogeneous block
// longer than one item appears while any other category still has items.
// Exhausted categories are skipped. The result is a deterministic function
// of the input.
func Interleave(groups map[domain.ItemCategory][]uuid.UUID) []domain.SessionItem {
	total := 0
	cursors := make(map[domain.ItemCategory]int, len(categoryOrder))
	for _, category := range categoryOrder {
		total += len(groups[category])
		cursors[category] = 0
	}

	items := make([]domain.SessionItem, 0, total)
	for len(items) < total {
		for _, category := range categoryOrder {
			cursor := cursors[category]
			if cursor >= len(groups[category]) {
				continue
			}
			items = append(items, domain.SessionItem{
				ExerciseID: groups[category][cursor],
				Category:   category,
			})
			cursors[category] = cursor + 1
		}
	}

	return items
}

func truncate(ids []uuid.UUID, limit int) []uuid.UUID {
	if limit < 0 {
		limit = 0
	}
	if len(ids) <= limit {
		return ids
	}
	return ids[:limit]
}
