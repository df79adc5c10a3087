package srs

import (
	"math"

	"github.com/example/studycram/pkg/models"
)

// SM-2 parameters and unit constants.
const (
	// DefaultEaseFactor is the starting ease factor for a card that has
	// never been reviewed.
	DefaultEaseFactor = 2.5
	// MinEaseFactor is the floor the ease factor can never drop below.
	MinEaseFactor = 1.3
	// DayMs is one day in milliseconds.
	DayMs = int64(24 * 60 * 60 * 1000)
)

// Review is a single graded answer fed to the scheduler. Quality (0-5) and
// Correct are independent signals: the interval/repetition branch follows
// Correct, while the ease-factor adjustment uses Quality. Callers may pass
// combinations like quality 2 with a correct answer (self-rated "almost").
type Review struct {
	Quality        int
	Correct        bool
	ResponseTimeMs *int64
}

// ComputeNext applies one review to a prior schedule state and returns the
// updated state. A nil prior means this is the card's first review and the
// SM-2 defaults apply. The caller supplies nowMs so results are deterministic.
//
// Interval rounding is round-half-away-from-zero (math.Round); the rounding
// mode matters because intervals accumulate multiplicatively.
func ComputeNext(prior *models.ScheduleState, review Review, nowMs int64) models.ScheduleState {
	ease := DefaultEaseFactor
	interval := 0
	repetitions := 0

	var next models.ScheduleState
	if prior != nil {
		next = *prior
		ease = prior.EaseFactor
		interval = prior.IntervalDays
		repetitions = prior.Repetitions
	}

	if !review.Correct {
		// Lapse: restart the growth curve. The ease factor is still
		// adjusted below, not reset.
		repetitions = 0
		interval = 1
	} else {
		switch repetitions {
		case 0:
			interval = 1
		case 1:
			interval = 6
		default:
			interval = int(math.Round(float64(interval) * ease))
		}
		repetitions++
	}

	// The ease factor is updated after the interval so that growth uses the
	// pre-review ease, matching classic SM-2.
	ease += 0.1 - float64(5-review.Quality)*(0.08+float64(5-review.Quality)*0.02)
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}

	next.EaseFactor = ease
	next.IntervalDays = interval
	next.Repetitions = repetitions
	next.NextReviewAt = nowMs + int64(interval)*DayMs
	next.LastReviewAt = nowMs
	next.LastAnsweredCorrect = review.Correct
	next.TotalReviews++
	if review.Correct {
		next.CorrectReviews++
	}

	if review.ResponseTimeMs != nil {
		rt := float64(*review.ResponseTimeMs)
		if prior != nil && prior.AvgResponseTimeMs != nil {
			avg := *prior.AvgResponseTimeMs*0.7 + rt*0.3
			next.AvgResponseTimeMs = &avg
		} else {
			next.AvgResponseTimeMs = &rt
		}
	} else if prior != nil && prior.AvgResponseTimeMs != nil {
		avg := *prior.AvgResponseTimeMs
		next.AvgResponseTimeMs = &avg
	}

	return next
}

// Replay rebuilds a card's schedule state from its full review history in
// chronological order. Each entry is applied at its own recorded timestamp,
// so replaying an unchanged history always yields the same final state. A
// card with no history has no state; Replay returns nil.
func Replay(entries []models.ReviewEntry) *models.ScheduleState {
	var state *models.ScheduleState
	for _, e := range entries {
		next := ComputeNext(state, Review{
			Quality:        e.Quality,
			Correct:        e.Correct,
			ResponseTimeMs: e.ResponseTimeMs,
		}, e.ReviewedAt)
		next.UserID = e.UserID
		next.StudySetID = e.StudySetID
		next.CardID = e.CardID
		state = &next
	}
	return state
}
