package database

import (
	"github.com/example/studycram/internal/session"
	"github.com/example/studycram/pkg/models"
)

// Store implements session.Store on top of the relational schema, scoped to
// one learner and study set. The unit of isolation is (user, set, card):
// concurrent writes to the same card are serialized by the version column's
// compare-and-swap.
type Store struct {
	progress *ProgressRepository
	history  *HistoryRepository
	userID   string
	setID    string
}

// NewStore creates a relational store scoped to one learner and study set.
func NewStore(userID, studySetID string) *Store {
	return &Store{
		progress: NewProgressRepository(),
		history:  NewHistoryRepository(),
		userID:   userID,
		setID:    studySetID,
	}
}

func (s *Store) GetState(cardID string) (*models.ScheduleState, error) {
	return s.progress.GetByCard(s.userID, s.setID, cardID)
}

func (s *Store) SaveState(state *models.ScheduleState) error {
	if state.Version > 0 {
		return s.progress.UpdateCAS(state)
	}

	err := s.progress.Insert(state)
	if err == nil {
		return nil
	}
	// A failed insert after a concurrent first review shows up as a unique
	// violation; report it as a version conflict so the caller re-reads.
	existing, getErr := s.progress.GetByCard(s.userID, s.setID, state.CardID)
	if getErr == nil && existing != nil {
		return session.ErrVersionConflict
	}
	return err
}

func (s *Store) AllStates() (map[string]models.ScheduleState, error) {
	states, err := s.progress.GetAllForScope(s.userID, s.setID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.ScheduleState, len(states))
	for _, state := range states {
		out[state.CardID] = state
	}
	return out, nil
}

func (s *Store) AppendEntry(entry *models.ReviewEntry) error {
	return s.history.Append(entry)
}

func (s *Store) EntriesForCard(cardID string) ([]models.ReviewEntry, error) {
	return s.history.ForCard(s.userID, s.setID, cardID)
}

func (s *Store) SetLastQuality(cardID string, quality int) (bool, error) {
	return s.history.OverrideLast(s.userID, s.setID, cardID, quality)
}

func (s *Store) Clear() error {
	if err := s.progress.DeleteScope(s.userID, s.setID); err != nil {
		return err
	}
	return s.history.DeleteScope(s.userID, s.setID)
}
