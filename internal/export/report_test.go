package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/studycram/internal/database"
	"github.com/example/studycram/pkg/models"
)

const testNowMs = int64(1_700_000_000_000)

func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })
}

func TestProgressReport(t *testing.T) {
	setupTestDB(t)
	repo := database.NewProgressRepository()

	require.NoError(t, repo.Insert(&models.ScheduleState{
		UserID: "u1", StudySetID: "anatomy", CardID: "card-1",
		EaseFactor: 2.6, IntervalDays: 6, Repetitions: 3,
		NextReviewAt: testNowMs + 1000, LastReviewAt: testNowMs,
		LastAnsweredCorrect: true, TotalReviews: 3, CorrectReviews: 3,
	}))
	require.NoError(t, repo.Insert(&models.ScheduleState{
		UserID: "u1", StudySetID: "anatomy", CardID: "card-2",
		EaseFactor: 2.18, IntervalDays: 1, Repetitions: 0,
		NextReviewAt: testNowMs - 1000, LastReviewAt: testNowMs,
		LastAnsweredCorrect: false, TotalReviews: 2, CorrectReviews: 1,
	}))

	reporter := NewReporter()
	f, err := reporter.ProgressReport("u1", testNowMs)
	require.NoError(t, err)
	defer f.Close()

	setName, err := f.GetCellValue(summarySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "anatomy", setName)

	total, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	mastered, err := f.GetCellValue(summarySheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "1", mastered)

	struggling, err := f.GetCellValue(summarySheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "1", struggling)

	cardID, err := f.GetCellValue(cardsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "card-1", cardID)
}

func TestProgressReportEmpty(t *testing.T) {
	setupTestDB(t)

	reporter := NewReporter()
	f, err := reporter.ProgressReport("nobody", testNowMs)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(summarySheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Study Set", header)
}
