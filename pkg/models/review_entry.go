package models

// ReviewEntry is one append-only record in the review ledger. Entries are
// never removed; the only permitted mutation is replacing the quality of the
// most recent entry for a card, after which the card's ScheduleState is
// rebuilt by replaying its full history.
type ReviewEntry struct {
	ID             int64  `json:"id" db:"id"`
	UserID         string `json:"user_id" db:"user_id"`
	StudySetID     string `json:"study_set_id" db:"study_set_id"`
	CardID         string `json:"card_id" db:"card_id"`
	Quality        int    `json:"quality" db:"quality"` // 0-5 self-assessed recall score
	Correct        bool   `json:"correct" db:"correct"`
	ReviewedAt     int64  `json:"reviewed_at" db:"reviewed_at"` // Unix ms
	ResponseTimeMs *int64 `json:"response_time_ms,omitempty" db:"response_time_ms"`
}
