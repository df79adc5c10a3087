package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/studycram/pkg/models"
)

// SubscriptionRepository handles database operations for reminder
// subscriptions
type SubscriptionRepository struct{}

// NewSubscriptionRepository creates a new repository instance
func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{}
}

// Get returns the subscription for a user, or nil if they never subscribed.
func (r *SubscriptionRepository) Get(userID string) (*models.NotificationSubscription, error) {
	var sub models.NotificationSubscription
	err := DB.Get(&sub, `
		SELECT * FROM notification_subscriptions WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %v", err)
	}
	return &sub, nil
}

// Upsert creates or updates a user's reminder subscription.
func (r *SubscriptionRepository) Upsert(sub *models.NotificationSubscription) error {
	_, err := DB.Exec(`
		INSERT INTO notification_subscriptions (user_id, chat_id, notify_hour, enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			notify_hour = EXCLUDED.notify_hour,
			enabled = EXCLUDED.enabled,
			updated_at = CURRENT_TIMESTAMP
	`, sub.UserID, sub.ChatID, sub.NotifyHour, sub.Enabled)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %v", err)
	}
	return nil
}

// GetForHour returns enabled subscriptions whose digest is scheduled for the
// given hour.
func (r *SubscriptionRepository) GetForHour(hour int) ([]models.NotificationSubscription, error) {
	var subs []models.NotificationSubscription
	err := DB.Select(&subs, `
		SELECT * FROM notification_subscriptions
		WHERE enabled = TRUE AND notify_hour = $1
	`, hour)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions: %v", err)
	}
	return subs, nil
}
