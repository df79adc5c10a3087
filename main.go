package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/studycram/internal/api"
	"github.com/example/studycram/internal/config"
	"github.com/example/studycram/internal/database"
	"github.com/example/studycram/internal/export"
	"github.com/example/studycram/internal/logger"
	"github.com/example/studycram/internal/notify"
	"github.com/example/studycram/internal/session"
)

func main() {
	cfg := config.Load()

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logg.Sync()

	if err := database.Connect(); err != nil {
		logg.Fatal("failed to connect to database", "error", err)
	}
	defer database.Close()

	sessions := api.SessionFactory(func(userID, studySetID string) *session.Session {
		return session.New(database.NewStore(userID, studySetID), userID, studySetID)
	})
	subs := database.NewSubscriptionRepository()

	router := api.NewRouter(api.RouterConfig{
		Log:           logg,
		ProgressH:     api.NewProgressHandler(logg, sessions),
		NotificationH: api.NewNotificationHandler(logg, subs),
		ReportH:       api.NewReportHandler(logg, export.NewReporter()),
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	// Reminder digests run only when a bot token is configured.
	var reminders *notify.Scheduler
	if cfg.TelegramToken != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken)
		if err != nil {
			logg.Fatal("failed to create telegram notifier", "error", err)
		}
		reminders = notify.New(notifier, logg, cfg.NotificationStartHour, cfg.NotificationEndHour)
		reminders.Start()
		logg.Info("reminder scheduler started")
	}

	go func() {
		logg.Info("server started", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server error", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logg.Info("received signal, shutting down", "signal", sig.String())

	if reminders != nil {
		reminders.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("error during shutdown", "error", err)
	}

	logg.Info("server stopped")
}
