package engine

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breather/internal/activity"
	"breather/internal/session"
	"breather/internal/settings"
	"breather/internal/storage"
	"breather/internal/timer"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

type recordingNotifier struct{ sent int }

func (n *recordingNotifier) Send(title, message string) error {
	n.sent++
	return nil
}

type harness struct {
	c        *Controller
	clock    *fakeClock
	notifier *recordingNotifier
	events   []Event
	dir      string
}

func (h *harness) kinds() []EventKind {
	var out []EventKind
	for _, ev := range h.events {
		if ev.Kind != EventStateChanged {
			out = append(out, ev.Kind)
		}
	}
	return out
}

// advance feeds whole seconds to the countdown.
func (h *harness) advance(seconds int) {
	for i := 0; i < seconds; i++ {
		h.clock.t = h.clock.t.Add(time.Second)
		h.c.SecondTick(h.clock.t)
	}
}

// breathe feeds quarter-second frames covering the given duration.
func (h *harness) breathe(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += 250 * time.Millisecond {
		h.clock.t = h.clock.t.Add(250 * time.Millisecond)
		h.c.FrameTick(h.clock.t)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, interval int, configure func(p *activity.Plan)) *harness {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.Open(storage.BackendJSON, dir)
	require.NoError(t, err)
	s, err := settings.Load(store, settings.Defaults{IntervalMinutes: interval}, quietLogger())
	require.NoError(t, err)
	if configure != nil {
		require.NoError(t, s.UpdatePlan(configure))
	}
	return newHarnessFrom(t, s, dir, time.Date(2025, 6, 14, 9, 0, 0, 0, time.Local))
}

func newHarnessFrom(t *testing.T, s *settings.Settings, dir string, start time.Time) *harness {
	t.Helper()
	h := &harness{clock: &fakeClock{t: start}, notifier: &recordingNotifier{}, dir: dir}
	h.c = New(s, Options{
		Now:               h.clock.now,
		Logger:            quietLogger(),
		Notifier:          h.notifier,
		AutoStartSessions: true,
	})
	h.c.Subscribe(func(ev Event) { h.events = append(h.events, ev) })
	return h
}

func TestEndToEndBreathwork(t *testing.T) {
	h := newHarness(t, 30, nil)
	c := h.c

	c.StartTimer()
	snap := c.Snapshot()
	require.True(t, snap.DayActive)
	require.Equal(t, timer.Running, snap.TimerState)
	require.Equal(t, 1800, snap.RemainingSeconds)

	h.advance(30 * 60)

	assert.Equal(t, 1, h.notifier.sent)
	require.Equal(t, ModeBreathing, c.Mode())
	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, activity.Breathwork, cur.Type)
	assert.Equal(t, session.PhaseInhale, c.Snapshot().Phase)
	assert.Equal(t, 4, c.Snapshot().TotalCycles)

	h.breathe(72 * time.Second)

	assert.Equal(t, ModeCountdown, c.Mode())
	assert.Equal(t, 1, c.Settings().Ledger().Count(activity.Breathwork, h.clock.t))
	snap = c.Snapshot()
	assert.Equal(t, timer.Running, snap.TimerState)
	assert.Equal(t, snap.TotalSeconds, snap.RemainingSeconds)
	assert.InDelta(t, 1.0, snap.TodayPercent, 1e-9)

	assert.Equal(t, []EventKind{
		EventDayStarted,
		EventTimerCompleted,
		EventSessionOpened,
		EventBreathingCompleted,
	}, h.kinds())
}

func TestExerciseRotation(t *testing.T) {
	h := newHarness(t, 5, func(p *activity.Plan) {
		p.SetEnabled(activity.Pushups, true)
		p.SetRepCount(activity.Pushups, 12)
	})
	c := h.c

	c.StartTimer()
	c.SkipTimer()
	require.Equal(t, ModeBreathing, c.Mode(), "breathwork comes first")
	h.breathe(72 * time.Second)

	c.SkipTimer()
	require.Equal(t, ModeExercise, c.Mode())
	snap := c.Snapshot()
	assert.Equal(t, 12, snap.TargetReps)
	assert.Equal(t, session.ExerciseActive, snap.ExerciseState)

	c.CompleteExercise()
	assert.Equal(t, ModeCountdown, c.Mode())
	assert.Equal(t, 1, c.Settings().Ledger().Count(activity.Pushups, h.clock.t))
	assert.Equal(t, timer.Running, c.Snapshot().TimerState)

	next, ok := c.Settings().Plan().GetNextActivity()
	require.True(t, ok)
	assert.Equal(t, activity.Breathwork, next, "rotation wraps")
}

func TestSkipActivityDoesNotAdvanceRotation(t *testing.T) {
	h := newHarness(t, 5, func(p *activity.Plan) {
		p.SetEnabled(activity.Squats, true)
	})
	c := h.c

	c.StartTimer()
	c.SkipTimer()
	require.Equal(t, ModeBreathing, c.Mode())

	c.SkipActivity()
	assert.Equal(t, ModeCountdown, c.Mode())
	assert.Equal(t, timer.Running, c.Snapshot().TimerState)
	assert.Zero(t, c.Settings().Ledger().Total(h.clock.t))

	c.SkipTimer()
	cur, _ := c.Current()
	assert.Equal(t, activity.Breathwork, cur.Type, "skipped activity comes up again")
	assert.Contains(t, h.kinds(), EventSessionSkipped)
}

func TestOverrideConsumedByCompletion(t *testing.T) {
	h := newHarness(t, 5, func(p *activity.Plan) {
		p.SetEnabled(activity.Squats, true)
		p.SetNextUp(1)
	})
	c := h.c

	c.StartTimer()
	c.SkipTimer()
	cur, _ := c.Current()
	require.Equal(t, activity.Squats, cur.Type)
	c.CompleteExercise()

	_, ok := c.Settings().Plan().NextUpIndex()
	assert.False(t, ok)
}

func TestNothingEnabledRestartsCountdown(t *testing.T) {
	h := newHarness(t, 1, func(p *activity.Plan) {
		p.SetEnabled(activity.Breathwork, false)
	})
	c := h.c

	c.StartTimer()
	h.advance(60)

	assert.Equal(t, ModeCountdown, c.Mode())
	snap := c.Snapshot()
	assert.Equal(t, timer.Running, snap.TimerState)
	assert.Equal(t, 60, snap.RemainingSeconds)
	assert.False(t, snap.HasNext)
	assert.Contains(t, h.kinds(), EventNothingEnabled)
}

func TestSecondTickDebounce(t *testing.T) {
	h := newHarness(t, 30, nil)
	c := h.c
	c.StartTimer()

	t0 := h.clock.t.Add(time.Second)
	c.SecondTick(t0)
	c.SecondTick(t0)
	c.SecondTick(t0.Add(100 * time.Millisecond))
	c.SecondTick(t0.Add(-time.Second))
	assert.Equal(t, 1799, c.Snapshot().RemainingSeconds)

	c.SecondTick(t0.Add(time.Second))
	assert.Equal(t, 1798, c.Snapshot().RemainingSeconds)
}

func TestToggleBreathingPausesClock(t *testing.T) {
	h := newHarness(t, 5, nil)
	c := h.c
	c.StartTimer()
	c.SkipTimer()
	require.Equal(t, ModeBreathing, c.Mode())

	h.breathe(2 * time.Second)
	c.ToggleBreathing()
	assert.False(t, c.Snapshot().BreathActive)

	h.clock.t = h.clock.t.Add(time.Minute)
	c.FrameTick(h.clock.t)
	assert.Equal(t, session.PhaseInhale, c.Snapshot().Phase)

	c.ToggleBreathing()
	h.breathe(2 * time.Second)
	assert.Equal(t, session.PhaseHoldFull, c.Snapshot().Phase, "paused time is not counted")
}

func TestManualStartWhenAutoStartOff(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(storage.BackendJSON, dir)
	require.NoError(t, err)
	s, err := settings.Load(store, settings.Defaults{IntervalMinutes: 5}, quietLogger())
	require.NoError(t, err)
	clock := &fakeClock{t: time.Date(2025, 6, 14, 9, 0, 0, 0, time.Local)}
	c := New(s, Options{Now: clock.now, Logger: quietLogger()})

	c.StartTimer()
	c.SkipTimer()
	require.Equal(t, ModeBreathing, c.Mode())
	assert.Equal(t, session.PhaseIdle, c.Snapshot().Phase)

	clock.t = clock.t.Add(time.Second)
	c.FrameTick(clock.t)
	assert.Equal(t, session.PhaseIdle, c.Snapshot().Phase, "nothing runs until started")

	c.ToggleBreathing()
	assert.Equal(t, session.PhaseInhale, c.Snapshot().Phase)
}

func TestTimerCommandsIgnoredDuringSession(t *testing.T) {
	h := newHarness(t, 5, nil)
	c := h.c
	c.StartTimer()
	c.SkipTimer()
	require.Equal(t, ModeBreathing, c.Mode())

	c.StartTimer()
	c.ResetTimer()
	c.SkipTimer()
	assert.Equal(t, timer.Completed, c.Snapshot().TimerState)
	assert.Equal(t, ModeBreathing, c.Mode())
}

func TestPauseAndResumeTimer(t *testing.T) {
	h := newHarness(t, 5, nil)
	c := h.c

	c.StartTimer()
	h.advance(10)
	require.Equal(t, 290, c.Snapshot().RemainingSeconds)

	c.PauseTimer()
	c.PauseTimer()
	h.advance(30)
	assert.Equal(t, timer.Paused, c.Snapshot().TimerState)
	assert.Equal(t, 290, c.Snapshot().RemainingSeconds, "paused time does not count")

	c.ResumeTimer()
	h.advance(5)
	assert.Equal(t, timer.Running, c.Snapshot().TimerState)
	assert.Equal(t, 285, c.Snapshot().RemainingSeconds)
	assert.True(t, c.Snapshot().DayActive)
}

func TestEndDayResetsRotation(t *testing.T) {
	h := newHarness(t, 5, func(p *activity.Plan) {
		p.SetEnabled(activity.Squats, true)
	})
	c := h.c

	c.StartTimer()
	c.SkipTimer()
	h.breathe(72 * time.Second)
	next, _ := c.Settings().Plan().GetNextActivity()
	require.Equal(t, activity.Squats, next)

	h.clock.t = h.clock.t.Add(8 * time.Hour)
	c.EndDay()

	snap := c.Snapshot()
	assert.False(t, snap.DayActive)
	assert.Equal(t, timer.Idle, snap.TimerState)
	next, _ = c.Settings().Plan().GetNextActivity()
	assert.Equal(t, activity.Breathwork, next, "rotation starts over")

	times, ok := c.Settings().Ledger().Times(h.clock.t)
	require.True(t, ok)
	require.NotNil(t, times.End)
	assert.True(t, times.End.Equal(h.clock.t))
	assert.Contains(t, h.kinds(), EventDayEnded)
	assert.False(t, c.Settings().Day().Started, "day end is persisted")
}

func TestEndDayDuringSession(t *testing.T) {
	h := newHarness(t, 5, nil)
	c := h.c
	c.StartTimer()
	c.SkipTimer()
	require.Equal(t, ModeBreathing, c.Mode())

	c.EndDay()
	assert.Equal(t, ModeCountdown, c.Mode())
	assert.Zero(t, c.Settings().Ledger().Total(h.clock.t), "no credit for an abandoned session")
}

func TestYesterdaysDayIsDiscardedOnLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(storage.BackendJSON, dir)
	require.NoError(t, err)
	s, err := settings.Load(store, settings.Defaults{}, quietLogger())
	require.NoError(t, err)

	today := time.Date(2025, 6, 14, 9, 0, 0, 0, time.Local)
	yesterday := today.AddDate(0, 0, -1)
	require.NoError(t, s.SetDay(timer.Day{Started: true, StartTime: &yesterday}))

	h := newHarnessFrom(t, s, dir, today)
	assert.False(t, h.c.Snapshot().DayActive)
	assert.False(t, s.Day().Active(), "discarded day is saved")
}

func TestRolloverAtMidnight(t *testing.T) {
	h := newHarness(t, 30, nil)
	c := h.c
	h.clock.t = time.Date(2025, 6, 14, 23, 59, 58, 0, time.Local)
	c.StartTimer()

	assert.False(t, c.Rollover())
	h.advance(3)

	snap := c.Snapshot()
	assert.False(t, snap.DayActive)
	assert.Equal(t, timer.Idle, snap.TimerState)

	times, ok := c.Settings().Ledger().Times(time.Date(2025, 6, 14, 12, 0, 0, 0, time.Local))
	require.True(t, ok)
	require.NotNil(t, times.End)
	assert.Equal(t, "23:59:59", times.End.Format("15:04:05"))
}

func TestSetIncludeHoldEmptyMidSession(t *testing.T) {
	h := newHarness(t, 5, nil)
	c := h.c
	c.StartTimer()
	c.SkipTimer()

	require.NoError(t, c.SetIncludeHoldEmpty(true))
	assert.True(t, c.Snapshot().HoldEmpty)
	assert.True(t, c.Settings().Plan().Config(activity.Breathwork).IncludeHoldEmpty)
}

func TestSetIntervalMinutes(t *testing.T) {
	h := newHarness(t, 30, nil)
	require.NoError(t, h.c.SetIntervalMinutes(10))
	assert.Equal(t, 600, h.c.Snapshot().RemainingSeconds)
	assert.Equal(t, 10, h.c.Settings().IntervalMinutes())
}

// failingStore rejects every history save.
type failingStore struct{ storage.Store }

func (f failingStore) SaveHistory(*storage.HistoryRecord) error { return errors.New("disk full") }

func TestPersistenceErrorsTravelWithEvents(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(storage.BackendJSON, dir)
	require.NoError(t, err)
	s, err := settings.Load(failingStore{store}, settings.Defaults{IntervalMinutes: 5}, quietLogger())
	require.NoError(t, err)
	h := newHarnessFrom(t, s, dir, time.Date(2025, 6, 14, 9, 0, 0, 0, time.Local))

	h.c.StartTimer()
	h.c.SkipTimer()
	h.breathe(72 * time.Second)

	var completed *Event
	for i := range h.events {
		if h.events[i].Kind == EventBreathingCompleted {
			completed = &h.events[i]
		}
	}
	require.NotNil(t, completed)
	assert.Error(t, completed.Err)
	assert.Equal(t, 1, s.Ledger().Count(activity.Breathwork, h.clock.t), "state still advances")
	assert.Equal(t, timer.Running, h.c.Snapshot().TimerState)
}

func TestCloseSessionKeepsOverride(t *testing.T) {
	h := newHarness(t, 5, func(p *activity.Plan) {
		p.SetEnabled(activity.Squats, true)
		p.SetNextUp(1)
	})
	c := h.c

	c.StartTimer()
	c.SkipTimer()
	cur, _ := c.Current()
	require.Equal(t, activity.Squats, cur.Type)

	c.CloseSession()
	assert.Equal(t, ModeCountdown, c.Mode())
	assert.Equal(t, timer.Running, c.Snapshot().TimerState)
	assert.Zero(t, c.Settings().Ledger().Total(h.clock.t))

	idx, ok := c.Settings().Plan().NextUpIndex()
	require.True(t, ok, "override survives a dismissed session")
	assert.Equal(t, 1, idx)

	c.CloseSession()
	assert.Equal(t, ModeCountdown, c.Mode(), "no-op without a session")
}
