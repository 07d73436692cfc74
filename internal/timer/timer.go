// Package timer implements the interval countdown and the day lifecycle.
package timer

import (
	"log/slog"
	"time"
)

// State is the countdown state.
type State int

const (
	Idle State = iota
	Running
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

const (
	DefaultIntervalMinutes = 30
	MinIntervalMinutes     = 1
	MaxIntervalMinutes     = 240

	NotificationTitle = "Time to breathe"
	NotificationBody  = "Your next activity is ready."
)

// Notifier delivers the desktop notification shown when the countdown ends.
type Notifier interface {
	Send(title, message string) error
}

// Day is the persisted day window. Active only while Started and StartTime
// is set.
type Day struct {
	Started   bool       `json:"started"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// Active reports whether the day window is open.
func (d Day) Active() bool {
	return d.Started && d.StartTime != nil
}

// Manager is the countdown state machine. It has no goroutines; the caller
// invokes Tick once per second while Running.
type Manager struct {
	state     State
	remaining int
	total     int
	day       Day

	now      func() time.Time
	notifier Notifier
	logger   *slog.Logger

	onComplete func()
	onDayStart func(time.Time)
	onDayEnd   func(time.Time)
}

// New returns an idle manager with the given interval.
func New(intervalMinutes int) *Manager {
	m := &Manager{now: time.Now, logger: slog.Default()}
	m.SetIntervalMinutes(intervalMinutes)
	m.remaining = m.total
	return m
}

// SetNowFunc overrides the clock. Passing nil resets it to time.Now.
func (m *Manager) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.now = now
}

func (m *Manager) SetNotifier(n Notifier) { m.notifier = n }

func (m *Manager) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	m.logger = l
}

// SetOnComplete registers the callback fired when the countdown completes,
// by reaching zero or by Skip.
func (m *Manager) SetOnComplete(fn func()) { m.onComplete = fn }

// SetOnDayStart registers the callback fired when Start opens a new day.
func (m *Manager) SetOnDayStart(fn func(time.Time)) { m.onDayStart = fn }

// SetOnDayEnd registers the callback fired when a day is closed.
func (m *Manager) SetOnDayEnd(fn func(time.Time)) { m.onDayEnd = fn }

// SetIntervalMinutes changes the countdown length, clamped to
// [MinIntervalMinutes, MaxIntervalMinutes]. While Idle the remaining time is
// reset immediately; otherwise the new length applies from the next start.
func (m *Manager) SetIntervalMinutes(minutes int) {
	if minutes < MinIntervalMinutes {
		minutes = MinIntervalMinutes
	}
	if minutes > MaxIntervalMinutes {
		minutes = MaxIntervalMinutes
	}
	m.total = minutes * 60
	if m.state == Idle {
		m.remaining = m.total
	}
}

// Start runs the countdown, opening the day first if needed. From Idle or
// Completed the countdown restarts at full length; from Paused it resumes.
func (m *Manager) Start() {
	if m.state == Running {
		return
	}
	if !m.day.Active() {
		now := m.now()
		m.day = Day{Started: true, StartTime: &now}
		if m.onDayStart != nil {
			m.onDayStart(now)
		}
	}
	if m.state == Idle || m.state == Completed {
		m.remaining = m.total
	}
	m.state = Running
}

// Tick advances a running countdown by one second.
func (m *Manager) Tick() {
	if m.state != Running {
		return
	}
	if m.remaining > 0 {
		m.remaining--
	}
	if m.remaining == 0 {
		m.complete(true)
	}
}

func (m *Manager) complete(notify bool) {
	m.state = Completed
	m.remaining = 0
	if notify && m.notifier != nil {
		if err := m.notifier.Send(NotificationTitle, NotificationBody); err != nil {
			m.logger.Warn("notification failed", "error", err)
		}
	}
	if m.onComplete != nil {
		m.onComplete()
	}
}

// Pause stops a running countdown. It is a no-op in any other state.
func (m *Manager) Pause() {
	if m.state == Running {
		m.state = Paused
	}
}

// Resume continues a paused countdown. It is a no-op in any other state.
func (m *Manager) Resume() {
	if m.state == Paused {
		m.state = Running
	}
}

// Toggle pauses a running countdown, resumes a paused one, and starts
// otherwise.
func (m *Manager) Toggle() {
	switch m.state {
	case Running:
		m.Pause()
	case Paused:
		m.Resume()
	default:
		m.Start()
	}
}

// Skip completes the countdown now. It fires the completion callback once;
// skipping an already completed countdown does nothing.
func (m *Manager) Skip() {
	if m.state == Completed {
		return
	}
	m.complete(false)
}

// Reset returns to Idle with a full countdown. The day is unaffected.
func (m *Manager) Reset() {
	m.state = Idle
	m.remaining = m.total
}

// RestartAfterBreathing re-arms the countdown after a session closes.
func (m *Manager) RestartAfterBreathing() {
	m.Reset()
	m.Start()
}

// EndDay stops the countdown and closes the day. It reports whether a day
// was actually open.
func (m *Manager) EndDay() bool {
	m.Reset()
	if !m.day.Active() {
		return false
	}
	now := m.now()
	m.closeDay(now)
	return true
}

// ExpireDay closes a day that started on an earlier calendar date than now,
// stamping its end at the last instant of its own date. It reports whether
// anything was closed.
func (m *Manager) ExpireDay() bool {
	if !m.day.Active() || sameDay(*m.day.StartTime, m.now()) {
		return false
	}
	m.Reset()
	m.closeDay(endOfDay(*m.day.StartTime))
	return true
}

func (m *Manager) closeDay(end time.Time) {
	m.day.Started = false
	m.day.EndTime = &end
	if m.onDayEnd != nil {
		m.onDayEnd(end)
	}
}

// RestoreDay loads a persisted day. A day that did not start on today's
// calendar date is discarded.
func (m *Manager) RestoreDay(d Day) {
	now := m.now()
	if d.StartTime != nil && !sameDay(*d.StartTime, now) {
		d = Day{}
	}
	if d.StartTime == nil {
		d.Started = false
	}
	if d.EndTime != nil && !sameDay(*d.EndTime, now) {
		d.EndTime = nil
	}
	m.day = d
}

// Day returns a copy of the day window.
func (m *Manager) Day() Day { return m.day }

// IsDayActive reports whether a day is open.
func (m *Manager) IsDayActive() bool { return m.day.Active() }

func (m *Manager) State() State          { return m.state }
func (m *Manager) RemainingSeconds() int { return m.remaining }
func (m *Manager) TotalSeconds() int     { return m.total }
func (m *Manager) IntervalMinutes() int  { return m.total / 60 }

// Progress is the elapsed fraction of the current countdown.
func (m *Manager) Progress() float64 {
	if m.total == 0 {
		return 0
	}
	return 1 - float64(m.remaining)/float64(m.total)
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func endOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 23, 59, 59, 0, t.Location())
}
