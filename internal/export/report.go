package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/studycram/internal/database"
	"github.com/example/studycram/internal/srs"
	"github.com/example/studycram/pkg/models"
)

// Sheet names in the generated workbook.
const (
	summarySheet = "Summary"
	cardsSheet   = "Cards"
)

// Reporter builds progress report workbooks from the relational store.
type Reporter struct {
	progress *database.ProgressRepository
}

// NewReporter creates a reporter backed by the progress repository.
func NewReporter() *Reporter {
	return &Reporter{progress: database.NewProgressRepository()}
}

// ProgressReport builds an xlsx workbook for one learner: a summary sheet
// with per-study-set stats and a detail sheet with one row per card.
func (r *Reporter) ProgressReport(userID string, nowMs int64) (*excelize.File, error) {
	states, err := r.progress.GetAllForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for report: %v", err)
	}

	// Group states per study set; stats are derived per group.
	bySet := make(map[string]map[string]models.ScheduleState)
	var setOrder []string
	for _, state := range states {
		if _, ok := bySet[state.StudySetID]; !ok {
			bySet[state.StudySetID] = make(map[string]models.ScheduleState)
			setOrder = append(setOrder, state.StudySetID)
		}
		bySet[state.StudySetID][state.CardID] = state
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(cardsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %v", err)
	}

	summaryHeader := []string{"Study Set", "Cards", "Mastered", "Learning", "Struggling", "Due Now"}
	for i, title := range summaryHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summarySheet, cell, title)
	}
	for row, setID := range setOrder {
		stats := srs.ComputeStats(bySet[setID], nowMs)
		values := []interface{}{
			displaySetID(setID),
			stats.TotalReviewed,
			stats.Mastered,
			stats.Learning,
			stats.Struggling,
			stats.DueNow,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(summarySheet, cell, v)
		}
	}

	cardsHeader := []string{
		"Study Set", "Card", "Ease Factor", "Interval (days)", "Repetitions",
		"Next Review", "Last Correct", "Total Reviews", "Correct Reviews", "Avg Response (ms)",
	}
	for i, title := range cardsHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(cardsSheet, cell, title)
	}
	for row, state := range states {
		var avgResponse interface{}
		if state.AvgResponseTimeMs != nil {
			avgResponse = *state.AvgResponseTimeMs
		}
		values := []interface{}{
			displaySetID(state.StudySetID),
			state.CardID,
			state.EaseFactor,
			state.IntervalDays,
			state.Repetitions,
			time.UnixMilli(state.NextReviewAt).UTC().Format(time.RFC3339),
			state.LastAnsweredCorrect,
			state.TotalReviews,
			state.CorrectReviews,
			avgResponse,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(cardsSheet, cell, v)
		}
	}

	return f, nil
}

func displaySetID(setID string) string {
	if setID == "" {
		return "(default)"
	}
	return setID
}
