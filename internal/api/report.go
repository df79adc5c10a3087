package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/example/studycram/internal/logger"
)

// ReportService builds downloadable progress reports.
type ReportService interface {
	ProgressReport(userID string, nowMs int64) (*excelize.File, error)
}

// ReportHandler serves xlsx progress reports.
type ReportHandler struct {
	log     *logger.Logger
	reports ReportService
}

// NewReportHandler creates a handler backed by the given report service.
func NewReportHandler(log *logger.Logger, reports ReportService) *ReportHandler {
	return &ReportHandler{
		log:     log.With("handler", "ReportHandler"),
		reports: reports,
	}
}

// GET /api/reports/progress
// Streams an xlsx workbook summarizing the learner's review progress.
func (h *ReportHandler) DownloadProgressReport(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		RespondError(c, http.StatusBadRequest, "missing_user_id", errors.New("userId is required"))
		return
	}

	f, err := h.reports.ProgressReport(userID, time.Now().UnixMilli())
	if err != nil {
		h.log.Error("failed to build progress report", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "report_error", err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=progress-%s.xlsx", userID))
	if err := f.Write(c.Writer); err != nil {
		h.log.Error("failed to stream progress report", "user_id", userID, "error", err)
	}
}
