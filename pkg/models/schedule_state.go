package models

// ScheduleState tracks a learner's spaced-repetition progress for a single card
// using the SM-2 algorithm. One record exists per (user, study set, card).
type ScheduleState struct {
	ID                  int64    `json:"id" db:"id"`
	UserID              string   `json:"user_id" db:"user_id"`
	StudySetID          string   `json:"study_set_id" db:"study_set_id"`
	CardID              string   `json:"card_id" db:"card_id"`
	EaseFactor          float64  `json:"ease_factor" db:"ease_factor"`                 // SM-2 EF parameter, never below 1.3
	IntervalDays        int      `json:"interval_days" db:"interval_days"`             // Days until the next scheduled review
	Repetitions         int      `json:"repetitions" db:"repetitions"`                 // Consecutive correct reviews since the last lapse
	NextReviewAt        int64    `json:"next_review_at" db:"next_review_at"`           // Unix ms
	LastReviewAt        int64    `json:"last_review_at" db:"last_review_at"`           // Unix ms
	LastAnsweredCorrect bool     `json:"last_answered_correct" db:"last_answered_correct"`
	TotalReviews        int      `json:"total_reviews" db:"total_reviews"`
	CorrectReviews      int      `json:"correct_reviews" db:"correct_reviews"`
	AvgResponseTimeMs   *float64 `json:"avg_response_time_ms,omitempty" db:"avg_response_time_ms"` // Rolling average, present only when timing is reported
	Version             int64    `json:"-" db:"version"`                               // Optimistic concurrency counter
}
