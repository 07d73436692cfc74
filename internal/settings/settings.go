// Package settings owns the persisted user state: the interval, the rotation
// plan, the completion ledger and the open day. Every mutation is written
// through to the store.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"breather/internal/activity"
	"breather/internal/ledger"
	"breather/internal/storage"
	"breather/internal/timer"
)

// Defaults seed a first run with no saved settings.
type Defaults struct {
	IntervalMinutes int
}

// Settings is the state container. It is not safe for concurrent use; the
// UI event loop is its only caller.
type Settings struct {
	store  storage.Store
	logger *slog.Logger

	intervalMinutes int
	plan            *activity.Plan
	ledger          *ledger.Ledger
	day             timer.Day

	lastErr error
}

// Load reads settings and history from store. Recovered files are logged and
// their recovered contents used; a first run starts from defaults and is
// saved immediately.
func Load(store storage.Store, defaults Defaults, logger *slog.Logger) (*Settings, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults.IntervalMinutes == 0 {
		defaults.IntervalMinutes = timer.DefaultIntervalMinutes
	}

	s := &Settings{store: store, logger: logger}

	rec, err := store.LoadSettings()
	switch {
	case errors.Is(err, storage.ErrNotExist):
		s.intervalMinutes = clampInterval(defaults.IntervalMinutes)
		s.plan = activity.DefaultPlan()
		if err := s.saveSettings(); err != nil {
			return nil, err
		}
	case err != nil && !storage.IsRecovered(err):
		return nil, fmt.Errorf("load settings: %w", err)
	default:
		if err != nil {
			logger.Warn("settings recovered", "error", err)
		}
		s.intervalMinutes = rec.IntervalMinutes
		if s.intervalMinutes == 0 {
			s.intervalMinutes = defaults.IntervalMinutes
		}
		s.intervalMinutes = clampInterval(s.intervalMinutes)
		s.plan = activity.FromState(rec.Plan)
		s.day = rec.Day
	}

	hist, err := store.LoadHistory()
	if err != nil {
		if !storage.IsRecovered(err) {
			return nil, fmt.Errorf("load history: %w", err)
		}
		logger.Warn("history recovered", "error", err)
	}
	s.ledger = ledger.FromHistory(hist.History)

	return s, nil
}

func clampInterval(m int) int {
	if m < timer.MinIntervalMinutes {
		return timer.MinIntervalMinutes
	}
	if m > timer.MaxIntervalMinutes {
		return timer.MaxIntervalMinutes
	}
	return m
}

// IntervalMinutes is the countdown length between activities.
func (s *Settings) IntervalMinutes() int { return s.intervalMinutes }

// Plan returns the live rotation plan. Treat it as read-only; change it
// through UpdatePlan so the change is saved.
func (s *Settings) Plan() *activity.Plan { return s.plan }

// Ledger returns the live ledger. Treat it as read-only.
func (s *Settings) Ledger() *ledger.Ledger { return s.ledger }

// Day is the persisted day window as of the last save.
func (s *Settings) Day() timer.Day { return s.day }

// Err returns the most recent persistence error, or nil once a later save
// succeeds.
func (s *Settings) Err() error { return s.lastErr }

// Store exposes the backing store.
func (s *Settings) Store() storage.Store { return s.store }

func (s *Settings) SetIntervalMinutes(m int) error {
	s.intervalMinutes = clampInterval(m)
	return s.saveSettings()
}

// UpdatePlan applies fn to the plan and saves it.
func (s *Settings) UpdatePlan(fn func(p *activity.Plan)) error {
	fn(s.plan)
	return s.saveSettings()
}

// ReplacePlan swaps in a whole plan, as undo does, and saves it.
func (s *Settings) ReplacePlan(p *activity.Plan) error {
	s.plan = p
	return s.saveSettings()
}

func (s *Settings) SetDay(d timer.Day) error {
	s.day = d
	return s.saveSettings()
}

// RecordCompletion counts one completion of t at time at and saves the
// history. It returns the new count for that day.
func (s *Settings) RecordCompletion(t activity.Type, at time.Time) (int, error) {
	n := s.ledger.RecordCompletion(t, at)
	return n, s.saveHistory()
}

func (s *Settings) RecordDayStart(at time.Time) error {
	s.ledger.RecordDayStart(at)
	return s.saveHistory()
}

func (s *Settings) RecordDayEnd(at time.Time) error {
	s.ledger.RecordDayEnd(at)
	return s.saveHistory()
}

// ResetHistory clears every recorded completion and day time.
func (s *Settings) ResetHistory() error {
	s.ledger.Reset()
	return s.saveHistory()
}

// CompletionPercentage is today's share of enabled activities done.
func (s *Settings) CompletionPercentage(at time.Time) float64 {
	return s.ledger.CompletionPercentage(at, s.plan.EnabledTypes())
}

func (s *Settings) saveSettings() error {
	rec := &storage.SettingsRecord{
		IntervalMinutes: s.intervalMinutes,
		Plan:            s.plan.State(),
		Day:             s.day,
	}
	return s.track("save settings", s.store.SaveSettings(rec))
}

func (s *Settings) saveHistory() error {
	return s.track("save history", s.store.SaveHistory(&storage.HistoryRecord{History: s.ledger.History()}))
}

func (s *Settings) track(op string, err error) error {
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		s.logger.Error("persistence failed", "op", op, "error", err)
	}
	s.lastErr = err
	return err
}
