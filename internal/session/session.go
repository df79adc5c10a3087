package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/studycram/internal/srs"
	"github.com/example/studycram/pkg/models"
)

var (
	// ErrInvalidQuality is returned when a caller supplies a quality rating
	// outside 0-5. Validation happens here so the scheduler itself can
	// assume clean input.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")
	// ErrNoHistory is returned by OverrideLastQuality when the card has no
	// ledger entries to correct.
	ErrNoHistory = errors.New("no review history for card")
	// ErrVersionConflict signals that a schedule state was modified between
	// read and write. Callers may retry.
	ErrVersionConflict = errors.New("schedule state was modified concurrently")
)

// How many times a read-modify-write is retried on a version conflict before
// the error is surfaced to the caller.
const casRetries = 3

// Store is the persistence boundary for a single (learner, study set) scope.
// Implementations must serialize writes per card via SaveState's version
// check; everything above this interface is pure computation.
type Store interface {
	// GetState returns the card's schedule state, or (nil, nil) if the card
	// has never been reviewed.
	GetState(cardID string) (*models.ScheduleState, error)
	// SaveState inserts or updates a state. The write succeeds only if the
	// stored version still matches state.Version; on success the version is
	// advanced. A mismatch returns ErrVersionConflict.
	SaveState(state *models.ScheduleState) error
	// AllStates returns every schedule state in the scope, keyed by card id.
	AllStates() (map[string]models.ScheduleState, error)
	// AppendEntry adds one record to the review ledger.
	AppendEntry(entry *models.ReviewEntry) error
	// EntriesForCard returns the card's ledger entries in chronological
	// order (timestamp, then insertion order).
	EntriesForCard(cardID string) ([]models.ReviewEntry, error)
	// SetLastQuality replaces the quality of the card's most recent ledger
	// entry, leaving its correct flag untouched. Returns false if the card
	// has no entries.
	SetLastQuality(cardID string, quality int) (bool, error)
	// Clear removes all schedule states and ledger entries in the scope.
	Clear() error
}

// Session binds the scheduler, due queue and review ledger to one storage
// backend, scoped to a single learner and study set. It is the surface the
// UI layer talks to.
type Session struct {
	store  Store
	userID string
	setID  string
	now    func() int64 // Unix ms clock, replaceable in tests
}

// New creates a session over the given store for one learner/study-set scope.
func New(store Store, userID, setID string) *Session {
	return &Session{
		store:  store,
		userID: userID,
		setID:  setID,
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

// RecordAnswer grades one answer, persists the updated schedule state and
// appends a ledger entry. When quality is nil it is derived from the response
// time against the card's rolling average, or from bare correctness if no
// timing was reported.
func (s *Session) RecordAnswer(cardID string, correct bool, quality *int, responseTimeMs *int64) (*models.ScheduleState, error) {
	if quality != nil && (*quality < 0 || *quality > 5) {
		return nil, ErrInvalidQuality
	}

	nowMs := s.now()

	var state models.ScheduleState
	var resolved int
	var err error
	for attempt := 0; ; attempt++ {
		var prior *models.ScheduleState
		prior, err = s.store.GetState(cardID)
		if err != nil {
			return nil, fmt.Errorf("failed to load schedule state: %v", err)
		}

		switch {
		case quality != nil:
			resolved = *quality
		case responseTimeMs != nil && *responseTimeMs > 0:
			avg := float64(srs.DefaultResponseTimeMs)
			if prior != nil && prior.AvgResponseTimeMs != nil {
				avg = *prior.AvgResponseTimeMs
			}
			resolved = srs.QualityFromResponse(correct, *responseTimeMs, avg)
		default:
			resolved = srs.QualityFromCorrectness(correct)
		}

		state = srs.ComputeNext(prior, srs.Review{
			Quality:        resolved,
			Correct:        correct,
			ResponseTimeMs: responseTimeMs,
		}, nowMs)
		if prior == nil {
			state.UserID = s.userID
			state.StudySetID = s.setID
			state.CardID = cardID
		}

		err = s.store.SaveState(&state)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrVersionConflict) || attempt >= casRetries {
			return nil, fmt.Errorf("failed to save schedule state: %w", err)
		}
	}

	entry := &models.ReviewEntry{
		UserID:         s.userID,
		StudySetID:     s.setID,
		CardID:         cardID,
		Quality:        resolved,
		Correct:        correct,
		ReviewedAt:     nowMs,
		ResponseTimeMs: responseTimeMs,
	}
	if err := s.store.AppendEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to append review entry: %v", err)
	}

	return &state, nil
}

// GetDueCards returns the ordered review queue and aggregate stats as of now.
func (s *Session) GetDueCards() (srs.DueResult, error) {
	states, err := s.store.AllStates()
	if err != nil {
		return srs.DueResult{}, fmt.Errorf("failed to load schedule states: %v", err)
	}
	return srs.ComputeDue(states, s.now()), nil
}

// GetStats returns aggregate stats without building the due list.
func (s *Session) GetStats() (models.ReviewStats, error) {
	states, err := s.store.AllStates()
	if err != nil {
		return models.ReviewStats{}, fmt.Errorf("failed to load schedule states: %v", err)
	}
	return srs.ComputeStats(states, s.now()), nil
}

// States returns a snapshot of every schedule state in the scope for display.
func (s *Session) States() (map[string]models.ScheduleState, error) {
	return s.store.AllStates()
}

// OverrideLastQuality retroactively regrades the most recent review of a card
// and rebuilds its schedule state by replaying the card's full history. No
// new ledger entry is appended and the entry's correct flag is untouched.
// Returns ErrNoHistory if the card was never reviewed.
func (s *Session) OverrideLastQuality(cardID string, quality int) (*models.ScheduleState, error) {
	if quality < 0 || quality > 5 {
		return nil, ErrInvalidQuality
	}

	changed, err := s.store.SetLastQuality(cardID, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to override review quality: %v", err)
	}
	if !changed {
		return nil, ErrNoHistory
	}

	entries, err := s.store.EntriesForCard(cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review history: %v", err)
	}
	replayed := srs.Replay(entries)
	if replayed == nil {
		return nil, ErrNoHistory
	}

	for attempt := 0; ; attempt++ {
		current, err := s.store.GetState(cardID)
		if err != nil {
			return nil, fmt.Errorf("failed to load schedule state: %v", err)
		}
		if current != nil {
			replayed.ID = current.ID
			replayed.Version = current.Version
		}

		err = s.store.SaveState(replayed)
		if err == nil {
			return replayed, nil
		}
		if !errors.Is(err, ErrVersionConflict) || attempt >= casRetries {
			return nil, fmt.Errorf("failed to save schedule state: %w", err)
		}
	}
}

// ClearAll irreversibly wipes every schedule state and ledger entry in the
// session's scope.
func (s *Session) ClearAll() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear review data: %v", err)
	}
	return nil
}
