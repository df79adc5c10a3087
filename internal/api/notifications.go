package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/studycram/internal/logger"
	"github.com/example/studycram/pkg/models"
)

// SubscriptionStore persists reminder subscriptions.
type SubscriptionStore interface {
	Upsert(sub *models.NotificationSubscription) error
}

// NotificationHandler manages reminder digest subscriptions.
type NotificationHandler struct {
	log  *logger.Logger
	subs SubscriptionStore
}

// NewNotificationHandler creates a handler backed by the given store.
func NewNotificationHandler(log *logger.Logger, subs SubscriptionStore) *NotificationHandler {
	return &NotificationHandler{
		log:  log.With("handler", "NotificationHandler"),
		subs: subs,
	}
}

type subscribeRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	ChatID     int64  `json:"chat_id" binding:"required"`
	NotifyHour *int   `json:"notify_hour"`
	Enabled    *bool  `json:"enabled"`
}

// PUT /api/notifications/subscription
// Creates or updates the learner's due-card reminder subscription.
func (h *NotificationHandler) UpsertSubscription(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	notifyHour := 9
	if req.NotifyHour != nil {
		notifyHour = *req.NotifyHour
	}
	if notifyHour < 0 || notifyHour > 23 {
		RespondError(c, http.StatusBadRequest, "invalid_hour", errors.New("notify_hour must be between 0 and 23"))
		return
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	sub := &models.NotificationSubscription{
		UserID:     req.UserID,
		ChatID:     req.ChatID,
		NotifyHour: notifyHour,
		Enabled:    enabled,
	}
	if err := h.subs.Upsert(sub); err != nil {
		h.log.Error("failed to upsert subscription", "user_id", req.UserID, "error", err)
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}

	RespondOK(c, sub)
}
