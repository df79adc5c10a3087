package session

import (
	"sync"

	"github.com/example/studycram/pkg/models"
)

// DefaultHistoryLimit caps how many ledger entries the in-memory store keeps.
// When exceeded, the oldest entries are dropped, mirroring the storage-quota
// trimming the browser-local variant performs.
const DefaultHistoryLimit = 1000

// MemoryStore is an in-process Store for a single learner/study-set scope.
// It backs client-style local sessions and tests; the relational store in
// internal/database serves multi-user durable deployments.
type MemoryStore struct {
	mu           sync.Mutex
	states       map[string]models.ScheduleState
	entries      []models.ReviewEntry
	nextEntryID  int64
	historyLimit int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:       make(map[string]models.ScheduleState),
		historyLimit: DefaultHistoryLimit,
	}
}

func (m *MemoryStore) GetState(cardID string) (*models.ScheduleState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[cardID]
	if !ok {
		return nil, nil
	}
	out := copyState(s)
	return &out, nil
}

func (m *MemoryStore) SaveState(state *models.ScheduleState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.states[state.CardID]
	if exists && current.Version != state.Version {
		return ErrVersionConflict
	}
	if !exists && state.Version != 0 {
		return ErrVersionConflict
	}

	stored := copyState(*state)
	stored.Version++
	m.states[state.CardID] = stored
	state.Version = stored.Version
	return nil
}

func (m *MemoryStore) AllStates() (map[string]models.ScheduleState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]models.ScheduleState, len(m.states))
	for id, s := range m.states {
		out[id] = copyState(s)
	}
	return out, nil
}

func (m *MemoryStore) AppendEntry(entry *models.ReviewEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEntryID++
	entry.ID = m.nextEntryID
	m.entries = append(m.entries, copyEntry(*entry))

	if len(m.entries) > m.historyLimit {
		trimmed := make([]models.ReviewEntry, m.historyLimit)
		copy(trimmed, m.entries[len(m.entries)-m.historyLimit:])
		m.entries = trimmed
	}
	return nil
}

func (m *MemoryStore) EntriesForCard(cardID string) ([]models.ReviewEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.ReviewEntry
	for _, e := range m.entries {
		if e.CardID == cardID {
			out = append(out, copyEntry(e))
		}
	}
	return out, nil
}

func (m *MemoryStore) SetLastQuality(cardID string, quality int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].CardID == cardID {
			m.entries[i].Quality = quality
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states = make(map[string]models.ScheduleState)
	m.entries = nil
	return nil
}

// copyState deep-copies a state so callers never alias the stored pointer
// fields.
func copyState(s models.ScheduleState) models.ScheduleState {
	if s.AvgResponseTimeMs != nil {
		avg := *s.AvgResponseTimeMs
		s.AvgResponseTimeMs = &avg
	}
	return s
}

func copyEntry(e models.ReviewEntry) models.ReviewEntry {
	if e.ResponseTimeMs != nil {
		rt := *e.ResponseTimeMs
		e.ResponseTimeMs = &rt
	}
	return e
}
