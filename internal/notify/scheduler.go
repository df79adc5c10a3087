package notify

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/studycram/internal/database"
	"github.com/example/studycram/internal/logger"
)

// Scheduler runs the hourly reminder digest job: every subscribed learner
// whose notify hour matches the current hour gets a message with their
// due-card count.
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	log       *logger.Logger
	subs      *database.SubscriptionRepository
	progress  *database.ProgressRepository
	startHour int
	endHour   int
}

// New creates a scheduler instance. startHour and endHour bound the quiet
// hours: no digests go out outside [startHour, endHour].
func New(notifier Notifier, log *logger.Logger, startHour, endHour int) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		log:       log.With("component", "notify"),
		subs:      database.NewSubscriptionRepository(),
		progress:  database.NewProgressRepository(),
		startHour: startHour,
		endHour:   endHour,
	}
}

// Start begins running the hourly digest job in the background.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders sends a digest to every subscriber scheduled for the
// current hour who has at least one card due.
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().UTC().Hour()
	if currentHour < s.startHour || currentHour > s.endHour {
		s.log.Debug("outside notification hours, skipping reminders",
			"hour", currentHour, "start", s.startHour, "end", s.endHour)
		return
	}

	subs, err := s.subs.GetForHour(currentHour)
	if err != nil {
		s.log.Error("failed to load subscriptions", "error", err)
		return
	}

	nowMs := time.Now().UnixMilli()
	for _, sub := range subs {
		count, err := s.progress.DueCountForUser(sub.UserID, nowMs)
		if err != nil {
			s.log.Error("failed to count due cards", "user_id", sub.UserID, "error", err)
			continue
		}
		if count == 0 {
			continue
		}
		if err := s.notifier.SendReminder(sub.ChatID, count); err != nil {
			s.log.Error("failed to send reminder", "user_id", sub.UserID, "error", err)
		}
	}
}

// RunManualCheck sends an immediate digest for one learner, regardless of
// their scheduled hour.
func (s *Scheduler) RunManualCheck(userID string) error {
	sub, err := s.subs.Get(userID)
	if err != nil {
		return err
	}
	if sub == nil || !sub.Enabled {
		return nil
	}

	count, err := s.progress.DueCountForUser(userID, time.Now().UnixMilli())
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return s.notifier.SendReminder(sub.ChatID, count)
}
