// Package rollover fires a callback at each calendar-day boundary so a day
// left open overnight is closed even when no countdown is running.
package rollover

import (
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule fires at local midnight.
const DefaultSchedule = "0 0 * * *"

// Scheduler runs fn on a cron schedule. fn runs on the cron goroutine, so it
// must hand off to the control goroutine rather than touch state directly.
type Scheduler struct {
	schedule string
	loc      *time.Location
	logger   *slog.Logger
	fn       func(time.Time)

	mu     sync.Mutex
	cron   *cron.Cron
	ticker *time.Ticker
	done   chan struct{}
}

// New returns a stopped scheduler. An empty schedule means DefaultSchedule;
// a nil location means time.Local.
func New(schedule string, loc *time.Location, logger *slog.Logger, fn func(time.Time)) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{schedule: schedule, loc: loc, logger: logger, fn: fn}
}

// Validate reports whether schedule is a valid five-field cron expression.
func Validate(schedule string) error {
	_, err := cron.ParseStandard(schedule)
	return err
}

// Start begins firing. An invalid schedule falls back to an hourly ticker,
// which still catches the boundary within the hour.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil || s.ticker != nil {
		return
	}

	c := cron.New(cron.WithLocation(s.loc))
	_, err := c.AddFunc(s.schedule, func() {
		now := time.Now().In(s.loc)
		s.logger.Info("running scheduled rollover", "schedule", s.schedule)
		s.fn(now)
	})
	if err != nil {
		s.logger.Error("failed to add cron job, falling back to hourly ticker", "schedule", s.schedule, "error", err)
		s.ticker = time.NewTicker(time.Hour)
		s.done = make(chan struct{})
		go s.tick(s.ticker, s.done)
		return
	}

	s.logger.Info("scheduled day rollover", "schedule", s.schedule, "timezone", s.loc.String())
	s.cron = c
	c.Start()
}

func (s *Scheduler) tick(t *time.Ticker, done <-chan struct{}) {
	for {
		select {
		case now := <-t.C:
			s.fn(now.In(s.loc))
		case <-done:
			return
		}
	}
}

// Next returns the next time the schedule fires after now, or the zero time
// when the scheduler is not running on cron.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return time.Time{}
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.cron = nil
	}
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
		s.ticker = nil
	}
}
