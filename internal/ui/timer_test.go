package ui

import (
	"testing"
	"time"

	"breather/internal/config"
	"breather/internal/engine"
	"breather/internal/timer"
)

func newTestTimerPane(t *testing.T) (*TimerPane, *engine.Controller, *testClock) {
	t.Helper()
	ctrl, clock := createTestController(t, nil)
	p := NewTimerPane(ctrl, createTestStyles(), &config.KeysConfig{})
	p.SetSize(40, 20)
	p.SetFocused(true)
	return p, ctrl, clock
}

func TestTimerPaneView_Idle(t *testing.T) {
	setupTest(t)
	p, _, _ := newTestTimerPane(t)

	view := p.View()
	for _, want := range []string{"COUNTDOWN", "20:00", "Press space to start", "Interval:", "20 min", "not started", "Breathwork"} {
		if !contains(view, want) {
			t.Errorf("idle view should contain %q", want)
		}
	}
}

func TestTimerPane_SpaceStartsAndPauses(t *testing.T) {
	setupTest(t)
	p, ctrl, _ := newTestTimerPane(t)

	p.Update(keySpace())
	if got := ctrl.Snapshot().TimerState; got != timer.Running {
		t.Fatalf("state after space = %v, want running", got)
	}

	view := p.View()
	if !contains(view, "▶") {
		t.Error("running view should show the play marker")
	}
	if !contains(view, "since 09:00") {
		t.Errorf("running view should show the day start, got:\n%s", view)
	}

	p.Update(keySpace())
	if got := ctrl.Snapshot().TimerState; got != timer.Paused {
		t.Fatalf("state after second space = %v, want paused", got)
	}
	if !contains(p.View(), "paused") {
		t.Error("paused view should say paused")
	}
}

func TestTimerPane_UnfocusedIgnoresKeys(t *testing.T) {
	p, ctrl, _ := newTestTimerPane(t)
	p.SetFocused(false)

	p.Update(keySpace())
	if got := ctrl.Snapshot().TimerState; got != timer.Idle {
		t.Errorf("unfocused pane changed the timer to %v", got)
	}
}

func TestTimerPane_SkipOpensSession(t *testing.T) {
	p, ctrl, _ := newTestTimerPane(t)

	p.Update(keyRunes("s"))
	if ctrl.Mode() != engine.ModeBreathing {
		t.Errorf("mode after skip = %v, want breathing", ctrl.Mode())
	}
}

func TestTimerPane_IntervalSteps(t *testing.T) {
	p, ctrl, _ := newTestTimerPane(t)

	p.Update(keyRunes("+"))
	if got := ctrl.Settings().IntervalMinutes(); got != 25 {
		t.Errorf("interval after + = %d, want 25", got)
	}
	p.Update(keyRunes("-"))
	p.Update(keyRunes("-"))
	if got := ctrl.Settings().IntervalMinutes(); got != 15 {
		t.Errorf("interval after two - = %d, want 15", got)
	}
}

func TestStepInterval(t *testing.T) {
	tests := []struct {
		m, dir, want int
	}{
		{1, +1, 2},
		{4, +1, 5},
		{5, +1, 10},
		{20, +1, 25},
		{20, -1, 15},
		{10, -1, 5},
		{5, -1, 4},
		{2, -1, 1},
	}
	for _, tc := range tests {
		if got := stepInterval(tc.m, tc.dir); got != tc.want {
			t.Errorf("stepInterval(%d, %d) = %d, want %d", tc.m, tc.dir, got, tc.want)
		}
	}
}

func TestTimerPane_SetIntervalInput(t *testing.T) {
	p, ctrl, _ := newTestTimerPane(t)

	p.Update(keyRunes("i"))
	if !p.IsEditing() {
		t.Fatal("i should open the interval input")
	}
	p.input.SetValue("45")
	cmd := p.Update(keyEnter())
	if p.IsEditing() {
		t.Error("enter should close the input")
	}
	if got := ctrl.Settings().IntervalMinutes(); got != 45 {
		t.Errorf("interval = %d, want 45", got)
	}
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	if msg, ok := cmd().(statusMsg); !ok || msg.err || msg.text != "Interval: 45 min" {
		t.Errorf("status = %+v", msg)
	}
}

func TestTimerPane_SetIntervalCancel(t *testing.T) {
	p, ctrl, _ := newTestTimerPane(t)

	p.Update(keyRunes("i"))
	p.input.SetValue("45")
	p.Update(keyEsc())
	if p.IsEditing() {
		t.Error("esc should close the input")
	}
	if got := ctrl.Settings().IntervalMinutes(); got != 20 {
		t.Errorf("interval changed to %d on cancel", got)
	}
}

func TestTimerPane_EndDayWithoutDay(t *testing.T) {
	p, _, _ := newTestTimerPane(t)

	cmd := p.Update(keyRunes("E"))
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	if msg := cmd().(statusMsg); msg.text != "No day in progress" {
		t.Errorf("status = %q", msg.text)
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{-3, "00:00"},
		{59, "00:59"},
		{20 * 60, "20:00"},
		{3600, "1:00:00"},
		{2*3600 + 5*60 + 9, "2:05:09"},
	}
	for _, tc := range tests {
		if got := formatCountdown(tc.seconds); got != tc.want {
			t.Errorf("formatCountdown(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatDurationShort(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{29 * time.Second, "0m"},
		{45 * time.Minute, "45m"},
		{2*time.Hour + 10*time.Minute, "2h 10m"},
	}
	for _, tc := range tests {
		if got := formatDurationShort(tc.d); got != tc.want {
			t.Errorf("formatDurationShort(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
