package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/studycram/internal/srs"
	"github.com/example/studycram/pkg/models"
)

const testNowMs = int64(1_700_000_000_000)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func newTestSession() (*Session, *MemoryStore) {
	store := NewMemoryStore()
	sess := New(store, "user-1", "set-1")
	sess.now = func() int64 { return testNowMs }
	return sess, store
}

func TestRecordAnswerFirstReview(t *testing.T) {
	sess, store := newTestSession()

	state, err := sess.RecordAnswer("card-1", true, nil, nil)
	require.NoError(t, err)

	// No explicit quality and no timing: correctness alone grades as 4.
	assert.Equal(t, 1, state.IntervalDays)
	assert.Equal(t, 1, state.Repetitions)
	assert.InDelta(t, 2.5, state.EaseFactor, 1e-9) // q=4 leaves ease unchanged
	assert.Equal(t, "user-1", state.UserID)
	assert.Equal(t, "set-1", state.StudySetID)
	assert.Equal(t, "card-1", state.CardID)

	entries, err := store.EntriesForCard("card-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, srs.QualityCorrectHesitation, entries[0].Quality)
	assert.True(t, entries[0].Correct)
	assert.Equal(t, testNowMs, entries[0].ReviewedAt)
}

func TestRecordAnswerQualityFromResponseTime(t *testing.T) {
	sess, store := newTestSession()

	// Correct but twice as slow as the default baseline grades as 3.
	state, err := sess.RecordAnswer("card-1", true, nil, int64Ptr(2*srs.DefaultResponseTimeMs))
	require.NoError(t, err)
	require.NotNil(t, state.AvgResponseTimeMs)

	entries, err := store.EntriesForCard("card-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, srs.QualityCorrectDifficult, entries[0].Quality)
}

func TestRecordAnswerRejectsInvalidQuality(t *testing.T) {
	sess, store := newTestSession()

	for _, q := range []int{-1, 6, 42} {
		_, err := sess.RecordAnswer("card-1", true, intPtr(q), nil)
		assert.ErrorIs(t, err, ErrInvalidQuality, "quality=%d", q)
	}

	// Nothing was persisted.
	states, err := store.AllStates()
	require.NoError(t, err)
	assert.Empty(t, states)
	entries, err := store.EntriesForCard("card-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordAnswerAccumulates(t *testing.T) {
	sess, _ := newTestSession()

	for i := 0; i < 3; i++ {
		_, err := sess.RecordAnswer("card-1", true, intPtr(5), nil)
		require.NoError(t, err)
	}

	state, err := sess.store.GetState("card-1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, 3, state.Repetitions)
	assert.Equal(t, 16, state.IntervalDays)
	assert.Equal(t, 3, state.TotalReviews)
	assert.Equal(t, 3, state.CorrectReviews)
	assert.Equal(t, int64(3), state.Version)
}

func TestGetDueCardsAndStats(t *testing.T) {
	sess, _ := newTestSession()

	_, err := sess.RecordAnswer("wrong-card", false, nil, nil)
	require.NoError(t, err)
	_, err = sess.RecordAnswer("right-card", true, intPtr(5), nil)
	require.NoError(t, err)

	due, err := sess.GetDueCards()
	require.NoError(t, err)
	// The wrong card is due immediately; the right one is scheduled out.
	assert.Equal(t, []string{"wrong-card"}, due.DueCards)
	assert.Equal(t, 1, due.Stats.Struggling)
	assert.Equal(t, 1, due.Stats.Learning)
	assert.Equal(t, 2, due.Stats.TotalReviewed)

	stats, err := sess.GetStats()
	require.NoError(t, err)
	assert.Equal(t, due.Stats, stats)
}

func TestOverrideLastQuality(t *testing.T) {
	sess, store := newTestSession()

	_, err := sess.RecordAnswer("card-1", true, intPtr(5), nil)
	require.NoError(t, err)

	state, err := sess.OverrideLastQuality("card-1", 2)
	require.NoError(t, err)

	// Correct flag is untouched, so the streak survives; only the ease
	// reflects the regrade.
	assert.Equal(t, 1, state.Repetitions)
	assert.Equal(t, 1, state.IntervalDays)
	assert.InDelta(t, 2.18, state.EaseFactor, 1e-9)
	assert.True(t, state.LastAnsweredCorrect)
	assert.Equal(t, 1, state.TotalReviews)

	entries, err := store.EntriesForCard("card-1")
	require.NoError(t, err)
	require.Len(t, entries, 1) // no new ledger entry
	assert.Equal(t, 2, entries[0].Quality)
	assert.True(t, entries[0].Correct)
}

func TestOverrideLastQualityTargetsMostRecent(t *testing.T) {
	sess, store := newTestSession()

	_, err := sess.RecordAnswer("card-1", true, intPtr(5), nil)
	require.NoError(t, err)
	_, err = sess.RecordAnswer("card-1", true, intPtr(4), nil)
	require.NoError(t, err)

	_, err = sess.OverrideLastQuality("card-1", 0)
	require.NoError(t, err)

	entries, err := store.EntriesForCard("card-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 5, entries[0].Quality)
	assert.Equal(t, 0, entries[1].Quality)
}

func TestOverrideLastQualityIdempotent(t *testing.T) {
	sess, _ := newTestSession()

	_, err := sess.RecordAnswer("card-1", true, intPtr(4), nil)
	require.NoError(t, err)
	before, err := sess.store.GetState("card-1")
	require.NoError(t, err)

	after, err := sess.OverrideLastQuality("card-1", 4)
	require.NoError(t, err)

	// Same quality, same history, same replayed state; only the version
	// advances with the write.
	before.ID = after.ID
	before.Version = after.Version
	assert.Equal(t, *before, *after)
}

func TestOverrideLastQualityNoHistory(t *testing.T) {
	sess, _ := newTestSession()

	_, err := sess.OverrideLastQuality("never-seen", 3)
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestOverrideLastQualityRejectsInvalid(t *testing.T) {
	sess, _ := newTestSession()
	_, err := sess.OverrideLastQuality("card-1", 7)
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestClearAll(t *testing.T) {
	sess, store := newTestSession()

	_, err := sess.RecordAnswer("card-1", true, nil, nil)
	require.NoError(t, err)
	_, err = sess.RecordAnswer("card-2", false, nil, nil)
	require.NoError(t, err)

	require.NoError(t, sess.ClearAll())

	states, err := store.AllStates()
	require.NoError(t, err)
	assert.Empty(t, states)
	stats, err := sess.GetStats()
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStats{}, stats)
}

// conflictStore fails the first SaveState calls with ErrVersionConflict to
// exercise the session's retry loop.
type conflictStore struct {
	*MemoryStore
	failures int
}

func (c *conflictStore) SaveState(state *models.ScheduleState) error {
	if c.failures > 0 {
		c.failures--
		return ErrVersionConflict
	}
	return c.MemoryStore.SaveState(state)
}

func TestRecordAnswerRetriesOnVersionConflict(t *testing.T) {
	store := &conflictStore{MemoryStore: NewMemoryStore(), failures: 2}
	sess := New(store, "user-1", "set-1")
	sess.now = func() int64 { return testNowMs }

	state, err := sess.RecordAnswer("card-1", true, intPtr(5), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Repetitions)
	assert.Zero(t, store.failures)
}

func TestRecordAnswerGivesUpAfterRetries(t *testing.T) {
	store := &conflictStore{MemoryStore: NewMemoryStore(), failures: 10}
	sess := New(store, "user-1", "set-1")
	sess.now = func() int64 { return testNowMs }

	_, err := sess.RecordAnswer("card-1", true, intPtr(5), nil)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestOverrideLastQualityGivesUpAfterRetries(t *testing.T) {
	store := &conflictStore{MemoryStore: NewMemoryStore()}
	sess := New(store, "user-1", "set-1")
	sess.now = func() int64 { return testNowMs }

	_, err := sess.RecordAnswer("card-1", true, intPtr(5), nil)
	require.NoError(t, err)

	// Exhausting the retry budget must still surface the sentinel so
	// callers can tell a conflict from a storage failure.
	store.failures = 10
	_, err = sess.OverrideLastQuality("card-1", 2)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestMemoryStoreVersionConflict(t *testing.T) {
	store := NewMemoryStore()

	state := &models.ScheduleState{CardID: "card-1", EaseFactor: 2.5}
	require.NoError(t, store.SaveState(state))
	assert.Equal(t, int64(1), state.Version)

	stale := &models.ScheduleState{CardID: "card-1", EaseFactor: 2.6, Version: 0}
	assert.ErrorIs(t, store.SaveState(stale), ErrVersionConflict)

	fresh := &models.ScheduleState{CardID: "card-1", EaseFactor: 2.6, Version: 1}
	require.NoError(t, store.SaveState(fresh))
	assert.Equal(t, int64(2), fresh.Version)
}

func TestMemoryStoreHistoryTrim(t *testing.T) {
	sess, store := newTestSession()

	for i := 0; i < DefaultHistoryLimit+5; i++ {
		_, err := sess.RecordAnswer(fmt.Sprintf("card-%d", i), true, intPtr(4), nil)
		require.NoError(t, err)
	}

	// The oldest entries were dropped to honor the cap.
	entries, err := store.EntriesForCard("card-0")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = store.EntriesForCard(fmt.Sprintf("card-%d", DefaultHistoryLimit+4))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
