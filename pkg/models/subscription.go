package models

import "time"

// NotificationSubscription maps a learner to a Telegram chat that receives
// due-card reminder digests.
type NotificationSubscription struct {
	UserID     string    `json:"user_id" db:"user_id"`
	ChatID     int64     `json:"chat_id" db:"chat_id"`
	NotifyHour int       `json:"notify_hour" db:"notify_hour"` // Local hour (0-23) the digest should go out
	Enabled    bool      `json:"enabled" db:"enabled"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
