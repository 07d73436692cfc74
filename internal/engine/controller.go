// Package engine wires the countdown, the rotation plan, the sessions and the
// ledger together. The Controller is the only component that mutates them,
// and it must be driven from a single goroutine.
package engine

import (
	"errors"
	"log/slog"
	"time"

	"breather/internal/activity"
	"breather/internal/session"
	"breather/internal/settings"
	"breather/internal/timer"
)

// secondDebounce drops a 1 Hz tick that arrives too soon after the previous
// one, as happens when two tick loops overlap briefly.
const secondDebounce = 500 * time.Millisecond

// Mode is what the controller is currently showing.
type Mode int

const (
	ModeCountdown Mode = iota
	ModeBreathing
	ModeExercise
)

func (m Mode) String() string {
	switch m {
	case ModeBreathing:
		return "breathing"
	case ModeExercise:
		return "exercise"
	default:
		return "countdown"
	}
}

// Options configure a Controller. Zero values pick sensible defaults.
type Options struct {
	Now      func() time.Time
	Logger   *slog.Logger
	Notifier timer.Notifier
	// AutoStartSessions starts a session as soon as it opens instead of
	// waiting for the user.
	AutoStartSessions bool
}

// Controller orchestrates one user's day.
type Controller struct {
	settings  *settings.Settings
	timer     *timer.Manager
	breathing *session.Breathing
	exercise  *session.Exercise
	clock     *session.PhaseClock

	now       func() time.Time
	logger    *slog.Logger
	autoStart bool

	mode       Mode
	current    activity.Entry
	lastSecond time.Time

	subscribers []func(Event)
}

// New builds a controller over s. A persisted day that did not start today
// is discarded here.
func New(s *settings.Settings, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Controller{
		settings:  s,
		timer:     timer.New(s.IntervalMinutes()),
		breathing: session.NewBreathing(activity.DefaultBreathingCycles, false),
		exercise:  session.NewExercise(),
		clock:     session.NewPhaseClock(),
		now:       opts.Now,
		logger:    opts.Logger,
		autoStart: opts.AutoStartSessions,
	}

	c.timer.SetNowFunc(c.now)
	c.timer.SetLogger(c.logger)
	if opts.Notifier != nil {
		c.timer.SetNotifier(opts.Notifier)
	}
	c.timer.SetOnComplete(c.onTimerComplete)
	c.timer.SetOnDayStart(c.onDayStart)
	c.timer.SetOnDayEnd(c.onDayEnd)

	c.breathing.SetOnComplete(func() { c.finishSession(EventBreathingCompleted) })
	c.exercise.SetOnComplete(func() { c.finishSession(EventExerciseCompleted) })
	c.clock.OnTick(c.breathing.Tick)

	persisted := s.Day()
	c.timer.RestoreDay(persisted)
	if restored := c.timer.Day(); persisted.Active() && !restored.Active() {
		c.logger.Info("discarded day from a previous date", "start", persisted.StartTime)
		c.persistDay()
	}

	return c
}

// Subscribe registers fn for every event. Subscribers run synchronously and
// must not call back into the controller.
func (c *Controller) Subscribe(fn func(Event)) {
	c.subscribers = append(c.subscribers, fn)
}

func (c *Controller) emit(ev Event) {
	if ev.At.IsZero() {
		ev.At = c.now()
	}
	for _, fn := range c.subscribers {
		fn(ev)
	}
}

func (c *Controller) changed() {
	c.emit(Event{Kind: EventStateChanged})
}

// ----------------------------------------------------------------------------
// Clock inputs
// ----------------------------------------------------------------------------

// SecondTick advances the countdown. Ticks closer together than half a
// second are dropped. It also closes a day left open past midnight.
func (c *Controller) SecondTick(now time.Time) {
	if !c.lastSecond.IsZero() && now.Sub(c.lastSecond) < secondDebounce {
		return
	}
	c.lastSecond = now
	c.Rollover()
	if c.timer.State() == timer.Running {
		c.timer.Tick()
		c.changed()
	}
}

// FrameTick advances an active breathing session.
func (c *Controller) FrameTick(now time.Time) {
	if c.mode != ModeBreathing {
		return
	}
	if c.clock.Frame(now) {
		c.changed()
	}
}

// Rollover closes a day that began on an earlier date. It reports whether a
// day was closed.
func (c *Controller) Rollover() bool {
	if !c.timer.ExpireDay() {
		return false
	}
	if c.mode != ModeCountdown {
		c.closeSession()
	}
	c.changed()
	return true
}

// ----------------------------------------------------------------------------
// Countdown commands
// ----------------------------------------------------------------------------

// StartTimer starts or resumes the countdown. Ignored while a session is open.
func (c *Controller) StartTimer() {
	if c.mode != ModeCountdown {
		return
	}
	c.timer.Start()
	c.changed()
}

func (c *Controller) PauseTimer() {
	c.timer.Pause()
	c.changed()
}

func (c *Controller) ResumeTimer() {
	if c.mode != ModeCountdown {
		return
	}
	c.timer.Resume()
	c.changed()
}

func (c *Controller) ToggleTimer() {
	if c.mode != ModeCountdown {
		return
	}
	c.timer.Toggle()
	c.changed()
}

// SkipTimer ends the countdown now, which opens the next activity.
func (c *Controller) SkipTimer() {
	if c.mode != ModeCountdown {
		return
	}
	c.timer.Skip()
	c.changed()
}

func (c *Controller) ResetTimer() {
	if c.mode != ModeCountdown {
		return
	}
	c.timer.Reset()
	c.changed()
}

// EndDay closes any open session without crediting it, stops the countdown
// and ends the day.
func (c *Controller) EndDay() {
	if c.mode != ModeCountdown {
		c.closeSession()
	}
	c.timer.EndDay()
	c.changed()
}

// SetIntervalMinutes changes and saves the countdown length.
func (c *Controller) SetIntervalMinutes(m int) error {
	err := c.settings.SetIntervalMinutes(m)
	c.timer.SetIntervalMinutes(c.settings.IntervalMinutes())
	c.changed()
	return err
}

// ----------------------------------------------------------------------------
// Session commands
// ----------------------------------------------------------------------------

// OpenNextActivity opens a session for the activity due next. With nothing
// enabled it re-arms the countdown instead. Ignored while a session is open.
func (c *Controller) OpenNextActivity() {
	if c.mode != ModeCountdown {
		return
	}
	entry, ok := c.settings.Plan().NextEntry()
	if !ok {
		c.logger.Info("no activities enabled; restarting countdown")
		c.emit(Event{Kind: EventNothingEnabled})
		c.timer.RestartAfterBreathing()
		c.changed()
		return
	}
	c.openSession(entry)
	c.changed()
}

func (c *Controller) openSession(entry activity.Entry) {
	cfg := c.settings.Plan().Config(entry.Type)
	c.current = entry

	if entry.Type.IsBreathing() {
		c.mode = ModeBreathing
		c.breathing.Reset()
		c.breathing.Configure(cfg.BreathingCycles, cfg.IncludeHoldEmpty)
		if c.autoStart {
			c.breathing.Start()
			c.clock.Start(c.now())
		}
	} else {
		c.mode = ModeExercise
		c.exercise.Configure(string(entry.Type), cfg.RepCount)
		if c.autoStart {
			c.exercise.Start()
		}
	}

	c.logger.Info("session opened", "activity", entry.Type, "entry", entry.ID)
	c.emit(Event{Kind: EventSessionOpened, Activity: entry.Type})
}

// ToggleBreathing starts, pauses or resumes the breathing session.
func (c *Controller) ToggleBreathing() {
	if c.mode != ModeBreathing {
		return
	}
	c.breathing.Toggle()
	if c.breathing.Active() {
		c.clock.Start(c.now())
	} else {
		c.clock.Stop()
	}
	c.changed()
}

// SetIncludeHoldEmpty changes the rest phase for the running session and
// saves it as the breathwork default.
func (c *Controller) SetIncludeHoldEmpty(v bool) error {
	err := c.settings.UpdatePlan(func(p *activity.Plan) {
		p.SetIncludeHoldEmpty(activity.Breathwork, v)
	})
	if c.mode == ModeBreathing {
		c.breathing.SetIncludeHoldEmpty(v)
	}
	c.changed()
	return err
}

// StartExercise marks the exercise as underway.
func (c *Controller) StartExercise() {
	if c.mode != ModeExercise {
		return
	}
	c.exercise.Start()
	c.changed()
}

// CompleteExercise records the exercise as done.
func (c *Controller) CompleteExercise() {
	if c.mode != ModeExercise {
		return
	}
	c.exercise.Complete()
}

// SkipActivity closes the open session without credit. An override naming
// it is consumed, but the rotation does not advance.
func (c *Controller) SkipActivity() {
	if c.mode == ModeCountdown {
		return
	}
	skipped := c.current
	err := c.settings.UpdatePlan(func(p *activity.Plan) {
		p.MarkEntrySkipped(skipped.ID)
	})
	c.closeSession()
	c.logger.Info("session skipped", "activity", skipped.Type)
	c.emit(Event{Kind: EventSessionSkipped, Activity: skipped.Type, Err: err})
	c.timer.RestartAfterBreathing()
	c.changed()
}

// CloseSession dismisses the open session. Unlike SkipActivity it leaves a
// pending override in place, so the same activity comes up next time.
func (c *Controller) CloseSession() {
	if c.mode == ModeCountdown {
		return
	}
	closed := c.current.Type
	c.closeSession()
	c.logger.Info("session closed", "activity", closed)
	c.timer.RestartAfterBreathing()
	c.changed()
}

func (c *Controller) finishSession(kind EventKind) {
	done := c.current
	at := c.now()

	n, recErr := c.settings.RecordCompletion(done.Type, at)
	planErr := c.settings.UpdatePlan(func(p *activity.Plan) {
		p.MarkEntryCompleted(done.ID)
	})

	c.closeSession()
	c.logger.Info("session completed", "activity", done.Type, "count_today", n)
	c.emit(Event{Kind: kind, Activity: done.Type, At: at, Err: errors.Join(recErr, planErr)})

	c.timer.RestartAfterBreathing()
	c.changed()
}

func (c *Controller) closeSession() {
	c.clock.Stop()
	c.breathing.Reset()
	c.exercise.Reset()
	c.mode = ModeCountdown
	c.current = activity.Entry{}
}

// ----------------------------------------------------------------------------
// Callbacks
// ----------------------------------------------------------------------------

func (c *Controller) onTimerComplete() {
	c.emit(Event{Kind: EventTimerCompleted})
	c.OpenNextActivity()
}

func (c *Controller) onDayStart(at time.Time) {
	err := errors.Join(c.settings.RecordDayStart(at), c.persistDay())
	c.logger.Info("day started", "at", at)
	c.emit(Event{Kind: EventDayStarted, At: at, Err: err})
}

func (c *Controller) onDayEnd(at time.Time) {
	err := errors.Join(
		c.settings.RecordDayEnd(at),
		c.settings.UpdatePlan(func(p *activity.Plan) { p.ResetCompletionTracking() }),
		c.persistDay(),
	)
	c.logger.Info("day ended", "at", at)
	c.emit(Event{Kind: EventDayEnded, At: at, Err: err})
}

func (c *Controller) persistDay() error {
	return c.settings.SetDay(c.timer.Day())
}

// ----------------------------------------------------------------------------
// Read access
// ----------------------------------------------------------------------------

func (c *Controller) Settings() *settings.Settings { return c.settings }
func (c *Controller) Mode() Mode                   { return c.mode }

// Current is the activity entry of the open session.
func (c *Controller) Current() (activity.Entry, bool) {
	return c.current, c.mode != ModeCountdown
}

// Snapshot is a consistent read-only view for rendering.
type Snapshot struct {
	Mode Mode

	TimerState       timer.State
	RemainingSeconds int
	TotalSeconds     int
	Progress         float64
	DayActive        bool
	DayStart         *time.Time

	Next         activity.Type
	HasNext      bool
	NextOverride bool

	Current activity.Type

	Phase          session.Phase
	Expansion      float64
	PhaseRemaining float64
	Cycle          int
	TotalCycles    int
	BreathActive   bool
	HoldEmpty      bool

	ExerciseState session.ExerciseState
	TargetReps    int

	TodayPercent float64
	TodayTotal   int
}

// Snapshot captures the current state.
func (c *Controller) Snapshot() Snapshot {
	now := c.now()
	plan := c.settings.Plan()
	day := c.timer.Day()

	s := Snapshot{
		Mode:             c.mode,
		TimerState:       c.timer.State(),
		RemainingSeconds: c.timer.RemainingSeconds(),
		TotalSeconds:     c.timer.TotalSeconds(),
		Progress:         c.timer.Progress(),
		DayActive:        day.Active(),
		DayStart:         day.StartTime,
		Current:          c.current.Type,
		Phase:            c.breathing.Phase(),
		Expansion:        c.breathing.Expansion(),
		PhaseRemaining:   c.breathing.Remaining(),
		Cycle:            c.breathing.CycleCount(),
		TotalCycles:      c.breathing.TotalCycles(),
		BreathActive:     c.breathing.Active(),
		HoldEmpty:        c.breathing.IncludeHoldEmpty(),
		ExerciseState:    c.exercise.State(),
		TargetReps:       c.exercise.TargetReps(),
		TodayPercent:     c.settings.CompletionPercentage(now),
		TodayTotal:       c.settings.Ledger().Total(now),
	}
	s.Next, s.HasNext = plan.GetNextActivity()
	_, s.NextOverride = plan.NextUpIndex()
	return s
}
