package database

import (
	"fmt"

	"github.com/example/studycram/pkg/models"
)

// HistoryRepository handles database operations for the append-only review
// ledger
type HistoryRepository struct{}

// NewHistoryRepository creates a new repository instance
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

// Append inserts one review ledger entry.
func (r *HistoryRepository) Append(entry *models.ReviewEntry) error {
	query := `
		INSERT INTO review_history (
			user_id, study_set_id, card_id, quality, correct, reviewed_at, response_time_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	args := []interface{}{
		entry.UserID,
		entry.StudySetID,
		entry.CardID,
		entry.Quality,
		entry.Correct,
		entry.ReviewedAt,
		entry.ResponseTimeMs,
	}

	if isPostgres() {
		err := DB.QueryRow(query+" RETURNING id", args...).Scan(&entry.ID)
		if err != nil {
			return fmt.Errorf("failed to append review entry: %v", err)
		}
		return nil
	}

	result, err := DB.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to append review entry: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	entry.ID = id
	return nil
}

// ForCard returns a card's full review history in chronological order, with
// insertion order breaking timestamp ties.
func (r *HistoryRepository) ForCard(userID, studySetID, cardID string) ([]models.ReviewEntry, error) {
	var entries []models.ReviewEntry
	err := DB.Select(&entries, `
		SELECT * FROM review_history
		WHERE user_id = $1 AND study_set_id = $2 AND card_id = $3
		ORDER BY reviewed_at ASC, id ASC
	`, userID, studySetID, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review history: %v", err)
	}
	return entries, nil
}

// OverrideLast replaces the quality of the card's most recent ledger entry,
// leaving its correct flag untouched. Returns false when the card has no
// history.
func (r *HistoryRepository) OverrideLast(userID, studySetID, cardID string, quality int) (bool, error) {
	result, err := DB.Exec(`
		UPDATE review_history SET quality = $1
		WHERE id = (
			SELECT id FROM review_history
			WHERE user_id = $2 AND study_set_id = $3 AND card_id = $4
			ORDER BY reviewed_at DESC, id DESC
			LIMIT 1
		)
	`, quality, userID, studySetID, cardID)
	if err != nil {
		return false, fmt.Errorf("failed to override review quality: %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check update result: %v", err)
	}
	return affected > 0, nil
}

// DeleteScope removes every ledger entry for a user within one study set.
func (r *HistoryRepository) DeleteScope(userID, studySetID string) error {
	_, err := DB.Exec(`
		DELETE FROM review_history
		WHERE user_id = $1 AND study_set_id = $2
	`, userID, studySetID)
	if err != nil {
		return fmt.Errorf("failed to delete review history: %v", err)
	}
	return nil
}
