package ui

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"breather/internal/activity"
	"breather/internal/config"
	"breather/internal/engine"
	"breather/internal/settings"
	"breather/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest prepares the test environment for deterministic rendering.
// It disables colors so views can be matched as plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// testClock is a settable clock shared by the controller and the views.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) add(d time.Duration) { c.t = c.t.Add(d) }

// createTestSettings loads settings from a JSON store in a temp directory.
func createTestSettings(t *testing.T, configure func(p *activity.Plan)) *settings.Settings {
	t.Helper()
	store, err := storage.Open(storage.BackendJSON, t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := settings.Load(store, settings.Defaults{IntervalMinutes: 20}, logger)
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	if configure != nil {
		if err := s.UpdatePlan(configure); err != nil {
			t.Fatalf("failed to configure plan: %v", err)
		}
	}
	return s
}

// createTestController builds a controller over fresh settings on a fixed
// clock. Sessions wait for the user to start them.
func createTestController(t *testing.T, configure func(p *activity.Plan)) (*engine.Controller, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2025, 6, 14, 9, 0, 0, 0, time.Local)}
	s := createTestSettings(t, configure)
	ctrl := engine.New(s, engine.Options{
		Now:    clock.now,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return ctrl, clock
}

// createTestApp builds an app sized for the wide layout.
func createTestApp(t *testing.T, configure func(p *activity.Plan)) (*App, *testClock) {
	t.Helper()
	ctrl, clock := createTestController(t, configure)
	app := NewApp(ctrl, createTestStyles(), &AppConfig{
		Keys:                  &config.KeysConfig{},
		NarrowLayoutThreshold: 80,
	})
	app.now = clock.now
	app.historyPane.now = clock.now
	app.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return app, clock
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keySpace() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func keyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func keyEsc() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEsc}
}

// contains reports whether s contains substr.
func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
