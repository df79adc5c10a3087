package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/studycram/internal/logger"
	"github.com/example/studycram/internal/session"
	"github.com/example/studycram/pkg/models"
)

// SessionFactory builds a review session scoped to one learner and study set.
// The HTTP layer resolves the scope from request parameters; everything below
// it is scope-agnostic.
type SessionFactory func(userID, studySetID string) *session.Session

// ProgressHandler exposes the spaced-repetition session operations over HTTP.
type ProgressHandler struct {
	log      *logger.Logger
	sessions SessionFactory
}

// NewProgressHandler creates a handler backed by the given session factory.
func NewProgressHandler(log *logger.Logger, sessions SessionFactory) *ProgressHandler {
	return &ProgressHandler{
		log:      log.With("handler", "ProgressHandler"),
		sessions: sessions,
	}
}

type recordAnswerRequest struct {
	UserID         string `json:"user_id" binding:"required"`
	StudySetID     string `json:"study_set_id"`
	CardID         string `json:"card_id" binding:"required"`
	Correct        *bool  `json:"correct" binding:"required"`
	Quality        *int   `json:"quality"`
	ResponseTimeMs *int64 `json:"response_time_ms"`
}

type overrideQualityRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	StudySetID string `json:"study_set_id"`
	CardID     string `json:"card_id" binding:"required"`
	Quality    *int   `json:"quality" binding:"required"`
}

type progressResponse struct {
	DueCards []string               `json:"due_cards"`
	Progress []models.ScheduleState `json:"progress"`
	Stats    models.ReviewStats     `json:"stats"`
}

// GET /api/progress
// Returns the due queue, schedule states and aggregate stats for a learner.
// Query: userId (required), studySetId, dueOnly, limit.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		RespondError(c, http.StatusBadRequest, "missing_user_id", errors.New("userId is required"))
		return
	}
	studySetID := c.Query("studySetId")
	dueOnly := c.Query("dueOnly") == "true"

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}

	sess := h.sessions(userID, studySetID)
	due, err := sess.GetDueCards()
	if err != nil {
		h.log.Error("failed to compute due cards", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}
	states, err := sess.States()
	if err != nil {
		h.log.Error("failed to load schedule states", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}

	var progress []models.ScheduleState
	if dueOnly {
		for _, id := range due.DueCards {
			if state, ok := states[id]; ok {
				progress = append(progress, state)
			}
			if len(progress) >= limit {
				break
			}
		}
	} else {
		ids := make([]string, 0, len(states))
		for id := range states {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			progress = append(progress, states[id])
			if len(progress) >= limit {
				break
			}
		}
	}

	RespondOK(c, progressResponse{
		DueCards: due.DueCards,
		Progress: progress,
		Stats:    due.Stats,
	})
}

// POST /api/progress
// Records one graded answer and returns the updated schedule state.
func (h *ProgressHandler) RecordAnswer(c *gin.Context) {
	var req recordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	sess := h.sessions(req.UserID, req.StudySetID)
	state, err := sess.RecordAnswer(req.CardID, *req.Correct, req.Quality, req.ResponseTimeMs)
	if err != nil {
		if errors.Is(err, session.ErrInvalidQuality) {
			RespondError(c, http.StatusBadRequest, "invalid_quality", err)
			return
		}
		h.log.Error("failed to record answer", "user_id", req.UserID, "card_id", req.CardID, "error", err)
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}

	RespondOK(c, state)
}

// POST /api/progress/override
// Regrades the most recent review of a card without recording a new one.
func (h *ProgressHandler) OverrideLastQuality(c *gin.Context) {
	var req overrideQualityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	sess := h.sessions(req.UserID, req.StudySetID)
	state, err := sess.OverrideLastQuality(req.CardID, *req.Quality)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidQuality):
			RespondError(c, http.StatusBadRequest, "invalid_quality", err)
		case errors.Is(err, session.ErrNoHistory):
			RespondError(c, http.StatusNotFound, "no_history", err)
		default:
			h.log.Error("failed to override quality", "user_id", req.UserID, "card_id", req.CardID, "error", err)
			RespondError(c, http.StatusInternalServerError, "storage_error", err)
		}
		return
	}

	RespondOK(c, state)
}

// GET /api/progress/stats
// Returns aggregate stats without the due list, for dashboard display.
func (h *ProgressHandler) GetStats(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		RespondError(c, http.StatusBadRequest, "missing_user_id", errors.New("userId is required"))
		return
	}

	sess := h.sessions(userID, c.Query("studySetId"))
	stats, err := sess.GetStats()
	if err != nil {
		h.log.Error("failed to compute stats", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}

	RespondOK(c, stats)
}

// DELETE /api/progress
// Irreversibly clears all review data in the learner's scope.
func (h *ProgressHandler) ClearProgress(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		RespondError(c, http.StatusBadRequest, "missing_user_id", errors.New("userId is required"))
		return
	}

	sess := h.sessions(userID, c.Query("studySetId"))
	if err := sess.ClearAll(); err != nil {
		h.log.Error("failed to clear progress", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}

	c.Status(http.StatusNoContent)
}
