package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/studycram/internal/session"
	"github.com/example/studycram/pkg/models"
)

// ProgressRepository handles database operations for per-card schedule states
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// GetByCard returns the schedule state for a specific user, study set and
// card, or nil if the card has never been reviewed.
func (r *ProgressRepository) GetByCard(userID, studySetID, cardID string) (*models.ScheduleState, error) {
	var state models.ScheduleState
	err := DB.Get(&state, `
		SELECT * FROM card_progress
		WHERE user_id = $1 AND study_set_id = $2 AND card_id = $3
	`, userID, studySetID, cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule state: %v", err)
	}
	return &state, nil
}

// GetAllForScope returns every schedule state for a user within one study set.
func (r *ProgressRepository) GetAllForScope(userID, studySetID string) ([]models.ScheduleState, error) {
	var states []models.ScheduleState
	err := DB.Select(&states, `
		SELECT * FROM card_progress
		WHERE user_id = $1 AND study_set_id = $2
	`, userID, studySetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule states: %v", err)
	}
	return states, nil
}

// GetAllForUser returns every schedule state for a user across all study
// sets, ordered by set then card for report generation.
func (r *ProgressRepository) GetAllForUser(userID string) ([]models.ScheduleState, error) {
	var states []models.ScheduleState
	err := DB.Select(&states, `
		SELECT * FROM card_progress
		WHERE user_id = $1
		ORDER BY study_set_id, card_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule states: %v", err)
	}
	return states, nil
}

// DueCountForUser counts cards due for review across all of a user's study
// sets as of nowMs.
func (r *ProgressRepository) DueCountForUser(userID string, nowMs int64) (int, error) {
	var count int
	err := DB.Get(&count, `
		SELECT COUNT(*) FROM card_progress
		WHERE user_id = $1 AND (next_review_at <= $2 OR last_answered_correct = FALSE)
	`, userID, nowMs)
	if err != nil {
		return 0, fmt.Errorf("failed to count due cards: %v", err)
	}
	return count, nil
}

// Insert creates a new schedule state row with version 1.
func (r *ProgressRepository) Insert(state *models.ScheduleState) error {
	query := `
		INSERT INTO card_progress (
			user_id, study_set_id, card_id, ease_factor, interval_days,
			repetitions, next_review_at, last_review_at, last_answered_correct,
			total_reviews, correct_reviews, avg_response_time_ms, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1)
	`
	args := []interface{}{
		state.UserID,
		state.StudySetID,
		state.CardID,
		state.EaseFactor,
		state.IntervalDays,
		state.Repetitions,
		state.NextReviewAt,
		state.LastReviewAt,
		state.LastAnsweredCorrect,
		state.TotalReviews,
		state.CorrectReviews,
		state.AvgResponseTimeMs,
	}

	if isPostgres() {
		err := DB.QueryRow(query+" RETURNING id", args...).Scan(&state.ID)
		if err != nil {
			return fmt.Errorf("failed to insert schedule state: %v", err)
		}
	} else {
		result, err := DB.Exec(query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert schedule state: %v", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		state.ID = id
	}

	state.Version = 1
	return nil
}

// UpdateCAS updates a schedule state row only if its stored version still
// matches state.Version, advancing the version on success. A stale version
// returns session.ErrVersionConflict so the caller can re-read and retry.
func (r *ProgressRepository) UpdateCAS(state *models.ScheduleState) error {
	result, err := DB.Exec(`
		UPDATE card_progress SET
			ease_factor = $1,
			interval_days = $2,
			repetitions = $3,
			next_review_at = $4,
			last_review_at = $5,
			last_answered_correct = $6,
			total_reviews = $7,
			correct_reviews = $8,
			avg_response_time_ms = $9,
			version = version + 1
		WHERE id = $10 AND version = $11
	`,
		state.EaseFactor,
		state.IntervalDays,
		state.Repetitions,
		state.NextReviewAt,
		state.LastReviewAt,
		state.LastAnsweredCorrect,
		state.TotalReviews,
		state.CorrectReviews,
		state.AvgResponseTimeMs,
		state.ID,
		state.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule state: %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %v", err)
	}
	if affected == 0 {
		return session.ErrVersionConflict
	}

	state.Version++
	return nil
}

// DeleteScope removes every schedule state for a user within one study set.
func (r *ProgressRepository) DeleteScope(userID, studySetID string) error {
	_, err := DB.Exec(`
		DELETE FROM card_progress
		WHERE user_id = $1 AND study_set_id = $2
	`, userID, studySetID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule states: %v", err)
	}
	return nil
}
