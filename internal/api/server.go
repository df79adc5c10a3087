package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/studycram/internal/logger"
)

// RouterConfig wires handlers into the router. Notifications and Reports are
// optional; their routes are omitted when nil.
type RouterConfig struct {
	Log           *logger.Logger
	ProgressH     *ProgressHandler
	NotificationH *NotificationHandler
	ReportH       *ReportHandler
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Log != nil {
		router.Use(requestLogger(cfg.Log))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/progress", cfg.ProgressH.GetProgress)
		apiGroup.POST("/progress", cfg.ProgressH.RecordAnswer)
		apiGroup.POST("/progress/override", cfg.ProgressH.OverrideLastQuality)
		apiGroup.GET("/progress/stats", cfg.ProgressH.GetStats)
		apiGroup.DELETE("/progress", cfg.ProgressH.ClearProgress)

		if cfg.NotificationH != nil {
			apiGroup.PUT("/notifications/subscription", cfg.NotificationH.UpsertSubscription)
		}
		if cfg.ReportH != nil {
			apiGroup.GET("/reports/progress", cfg.ReportH.DownloadProgressReport)
		}
	}

	return router
}

// requestLogger logs one line per request with method, path, status and
// latency.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
