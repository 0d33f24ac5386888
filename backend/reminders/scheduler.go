// Package reminders sends the daily challenge reminder at each user's chosen
// time of day.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glowup/backend/content"
	"glowup/backend/models"
	"glowup/backend/progression"
	"glowup/backend/repository"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type Scheduler struct {
	db         *gorm.DB
	profiles   *repository.ProfileRepository
	challenges *repository.ChallengeRepository
	engine     *progression.Engine
	notifier   Notifier
	clock      func() time.Time
	logger     *log.Logger
	cron       *cron.Cron
}

func NewScheduler(db *gorm.DB, engine *progression.Engine, notifier Notifier, clock func() time.Time, logger *log.Logger) *Scheduler {
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{
		db:         db,
		profiles:   repository.NewProfileRepository(db),
		challenges: repository.NewChallengeRepository(db),
		engine:     engine,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
		cron: cron.New(
			cron.WithLocation(engine.Location()),
			cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
		),
	}
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	*log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, append(keysAndValues, "err", err)...)
}

// Start runs Tick on schedule (a standard five-field cron spec) until Stop.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		if sent, err := s.Tick(ctx); err != nil {
			s.logger.Error("reminder tick", "err", err)
		} else if sent > 0 {
			s.logger.Info("reminders sent", "count", sent)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	return nil
}

// Stop waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Tick sends the reminders due at the current minute and returns how many
// went out. A profile is claimed before sending, so a reminder goes out at
// most once per calendar day even when ticks overlap or repeat.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	now := s.clock()
	local := now.In(s.engine.Location())
	day := local.Format("2006-01-02")

	due, err := s.profiles.DueReminders(ctx, local.Format("15:04"), day)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, profile := range due {
		reminder, skip, err := s.reminderFor(ctx, profile, now)
		if err != nil {
			s.logger.Error("build reminder", "user_id", profile.UserID, "err", err)
			continue
		}
		if skip {
			continue
		}

		claimed, err := s.profiles.ClaimReminder(ctx, profile.ID, day)
		if err != nil {
			s.logger.Error("claim reminder", "user_id", profile.UserID, "err", err)
			continue
		}
		if !claimed {
			continue
		}

		if err := s.notifier.Notify(ctx, reminder); err != nil {
			s.logger.Error("send reminder", "user_id", profile.UserID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// reminderFor builds the reminder of profile. skip is set once every day of
// the challenge is completed.
func (s *Scheduler) reminderFor(ctx context.Context, profile models.UserProfile, now time.Time) (Reminder, bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, profile.UserID).Error; err != nil {
		return Reminder{}, false, fmt.Errorf("load user: %w", err)
	}

	r := Reminder{UserID: user.ID, Email: user.Email, Name: user.Name}
	cp, err := s.challenges.Find(ctx, user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.Affirmation = content.AffirmationFor(now.In(s.engine.Location()))
		return r, false, nil
	}
	if err != nil {
		return Reminder{}, false, err
	}

	p := cp.State()
	if len(p.CompletedDays) == progression.TotalDays {
		return Reminder{}, true, nil
	}
	if p.StartDate == nil {
		r.Affirmation = content.AffirmationFor(now.In(s.engine.Location()))
		return r, false, nil
	}

	r.Day = s.engine.CurrentDay(p.StartDate, now)
	if d, ok := content.Day(r.Day); ok {
		r.Title = d.Title
		r.Affirmation = d.Affirmation
	}
	return r, false, nil
}
