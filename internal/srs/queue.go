package srs

import (
	"sort"

	"github.com/example/studycram/pkg/models"
)

// DueResult is the outcome of a due-queue computation: the ordered card ids
// to review now plus aggregate stats over every state that was examined.
type DueResult struct {
	DueCards []string           `json:"due_cards"`
	Stats    models.ReviewStats `json:"stats"`
}

// ComputeDue derives the review queue from a set of schedule states. A card
// needs review when its last answer was wrong (regardless of schedule) or its
// next review date has passed. Cards the learner has never reviewed have no
// state and never appear here; first-time study is driven by the practice
// flow instead.
//
// Ordering: cards answered incorrectly last time come first, then cards due
// by date, each group ascending by next review date. Card id breaks ties so
// the queue is stable across runs.
func ComputeDue(states map[string]models.ScheduleState, nowMs int64) DueResult {
	type dueCard struct {
		id     string
		nextAt int64
		lapsed bool
	}

	due := make([]dueCard, 0, len(states))
	for id, s := range states {
		if !s.LastAnsweredCorrect || s.NextReviewAt <= nowMs {
			due = append(due, dueCard{id: id, nextAt: s.NextReviewAt, lapsed: !s.LastAnsweredCorrect})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].lapsed != due[j].lapsed {
			return due[i].lapsed
		}
		if due[i].nextAt != due[j].nextAt {
			return due[i].nextAt < due[j].nextAt
		}
		return due[i].id < due[j].id
	})

	ids := make([]string, len(due))
	for i, d := range due {
		ids[i] = d.id
	}

	return DueResult{DueCards: ids, Stats: ComputeStats(states, nowMs)}
}

// ComputeStats buckets every schedule state into exactly one of struggling,
// mastered or learning, evaluated in that order, and counts cards due now.
// Stats are always derived on demand, never cached.
func ComputeStats(states map[string]models.ScheduleState, nowMs int64) models.ReviewStats {
	var stats models.ReviewStats
	stats.TotalReviewed = len(states)

	for _, s := range states {
		switch {
		case !s.LastAnsweredCorrect:
			stats.Struggling++
		case s.Repetitions >= 3:
			stats.Mastered++
		default:
			stats.Learning++
		}
		if s.NextReviewAt <= nowMs {
			stats.DueNow++
		}
	}

	return stats
}
