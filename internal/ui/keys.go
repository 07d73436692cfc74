// Package ui provides the terminal user interface for breather.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation, and user customization.
package ui

import (
	"strings"

	"breather/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys. "space" is accepted as a
// name for the space bar.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "space" {
			trimmed = " "
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	return result
}

// helpLabel is the first key of a binding, spelled for the help bar.
func helpLabel(b key.Binding) string {
	keys := b.Keys()
	if len(keys) == 0 {
		return ""
	}
	if keys[0] == " " {
		return "space"
	}
	return keys[0]
}

// =============================================================================
// Global Keys (available in all contexts)
// =============================================================================

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextPane key.Binding
	Pane1    key.Binding
	Pane2    key.Binding
	Pane3    key.Binding
	Undo     key.Binding
	Redo     key.Binding
}

// DefaultGlobalKeyMap returns the default global key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return NewGlobalKeyMap(&config.KeysConfig{})
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Quit, "q", "ctrl+c")...),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Help, "?")...),
			key.WithHelp("?", "help"),
		),
		NextPane: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextPane, "tab")...),
			key.WithHelp("tab", "next pane"),
		),
		Pane1: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Pane1, "1")...),
			key.WithHelp("1", "timer"),
		),
		Pane2: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Pane2, "2")...),
			key.WithHelp("2", "plan"),
		),
		Pane3: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Pane3, "3")...),
			key.WithHelp("3", "history"),
		),
		Undo: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Undo, "ctrl+z", "u")...),
			key.WithHelp("ctrl+z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Redo, "ctrl+y")...),
			key.WithHelp("ctrl+y", "redo"),
		),
	}
}

// =============================================================================
// Navigation Keys (shared by list-based panes)
// =============================================================================

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Up, "k", "up")...),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Down, "j", "down")...),
			key.WithHelp("j/↓", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Top, "g")...),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Bottom, "G")...),
			key.WithHelp("G", "bottom"),
		),
	}
}

// =============================================================================
// Input Keys (shared by text input fields and confirmations)
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Confirm, "enter")...),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "esc")...),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// =============================================================================
// Timer Pane Keys
// =============================================================================

// TimerKeyMap defines keys for the timer pane.
type TimerKeyMap struct {
	Toggle       key.Binding
	Skip         key.Binding
	Reset        key.Binding
	EndDay       key.Binding
	IntervalUp   key.Binding
	IntervalDown key.Binding
	SetInterval  key.Binding
}

// NewTimerKeyMap creates timer key bindings from config.
func NewTimerKeyMap(cfg *config.KeysConfig) TimerKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return TimerKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ToggleTimer, " ", "enter")...),
			key.WithHelp("space", "start/pause"),
		),
		Skip: key.NewBinding(
			key.WithKeys(parseKeys(cfg.SkipTimer, "s")...),
			key.WithHelp("s", "breathe now"),
		),
		Reset: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ResetTimer, "r")...),
			key.WithHelp("r", "reset"),
		),
		EndDay: key.NewBinding(
			key.WithKeys(parseKeys(cfg.EndDay, "E")...),
			key.WithHelp("E", "end day"),
		),
		IntervalUp: key.NewBinding(
			key.WithKeys(parseKeys(cfg.IntervalUp, "+", "=")...),
			key.WithHelp("+", "longer"),
		),
		IntervalDown: key.NewBinding(
			key.WithKeys(parseKeys(cfg.IntervalDown, "-")...),
			key.WithHelp("-", "shorter"),
		),
		SetInterval: key.NewBinding(
			key.WithKeys(parseKeys(cfg.SetInterval, "i")...),
			key.WithHelp("i", "set interval"),
		),
	}
}

// ShortHelp returns the short help for the timer pane (implements help.KeyMap).
func (k TimerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Skip, k.Reset, k.EndDay}
}

// FullHelp returns the full help for the timer pane (implements help.KeyMap).
func (k TimerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Skip, k.Reset, k.EndDay},
		{k.IntervalUp, k.IntervalDown, k.SetInterval},
	}
}

// =============================================================================
// Plan Pane Keys
// =============================================================================

// PlanKeyMap defines keys for the activity plan pane.
type PlanKeyMap struct {
	Toggle    key.Binding
	Edit      key.Binding
	Duplicate key.Binding
	Remove    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	SetNextUp key.Binding
	HoldEmpty key.Binding
	NavigationKeyMap
}

// NewPlanKeyMap creates plan key bindings from config.
func NewPlanKeyMap(cfg *config.KeysConfig) PlanKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return PlanKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ToggleActivity, " ", "enter")...),
			key.WithHelp("space", "enable/disable"),
		),
		Edit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.EditActivity, "e")...),
			key.WithHelp("e", "edit"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys(parseKeys(cfg.DuplicateActivity, "d")...),
			key.WithHelp("d", "duplicate"),
		),
		Remove: key.NewBinding(
			key.WithKeys(parseKeys(cfg.RemoveActivity, "x")...),
			key.WithHelp("x", "remove"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys(parseKeys(cfg.MoveUp, "K", "shift+up")...),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys(parseKeys(cfg.MoveDown, "J", "shift+down")...),
			key.WithHelp("J", "move down"),
		),
		SetNextUp: key.NewBinding(
			key.WithKeys(parseKeys(cfg.SetNextUp, "n")...),
			key.WithHelp("n", "next up"),
		),
		HoldEmpty: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ToggleHoldEmpty, "h")...),
			key.WithHelp("h", "rest phase"),
		),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the plan pane (implements help.KeyMap).
func (k PlanKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Edit, k.SetNextUp, k.Down}
}

// FullHelp returns the full help for the plan pane (implements help.KeyMap).
func (k PlanKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Edit, k.SetNextUp, k.HoldEmpty},
		{k.Duplicate, k.Remove, k.MoveUp, k.MoveDown},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Session Keys (breathing and exercise overlay)
// =============================================================================

// SessionKeyMap defines keys while a breathing or exercise session is open.
type SessionKeyMap struct {
	Toggle    key.Binding
	Complete  key.Binding
	Skip      key.Binding
	HoldEmpty key.Binding
	Close     key.Binding
}

// NewSessionKeyMap creates session key bindings from config.
func NewSessionKeyMap(cfg *config.KeysConfig) SessionKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return SessionKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ToggleBreathing, " ")...),
			key.WithHelp("space", "start/pause"),
		),
		Complete: key.NewBinding(
			key.WithKeys(parseKeys(cfg.CompleteExercise, "enter")...),
			key.WithHelp("enter", "done"),
		),
		Skip: key.NewBinding(
			key.WithKeys(parseKeys(cfg.SkipActivity, "s")...),
			key.WithHelp("s", "skip"),
		),
		HoldEmpty: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ToggleHoldEmpty, "h")...),
			key.WithHelp("h", "rest phase"),
		),
		Close: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "esc")...),
			key.WithHelp("esc", "close"),
		),
	}
}

// ShortHelp returns the short help for the session overlay (implements help.KeyMap).
func (k SessionKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Complete, k.Skip, k.Close}
}

// FullHelp returns the full help for the session overlay (implements help.KeyMap).
func (k SessionKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Complete, k.Skip},
		{k.HoldEmpty, k.Close},
	}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
