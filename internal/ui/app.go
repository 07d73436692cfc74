// Package ui provides terminal user interface components for breather.
// This file contains the main App model which coordinates all panes and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"breather/internal/config"
	"breather/internal/engine"
	"breather/internal/session"
	"breather/internal/timer"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneTimer PaneID = iota
	PanePlan
	PaneHistory
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows all three panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmRemovals       bool
	NarrowLayoutThreshold int
	// FrameInterval is the breathing animation period.
	FrameInterval time.Duration
}

// App is the main application model that coordinates all panes.
type App struct {
	ctrl        *engine.Controller
	styles      *Styles
	config      *AppConfig
	timerPane   *TimerPane
	planPane    *PlanPane
	historyPane *HistoryPane
	sessionView *SessionView
	helpOverlay *HelpOverlay
	undoManager *UndoManager
	confirm     *confirmState
	activePane  PaneID
	layoutMode  LayoutMode
	showHelp    bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	// outcome is set when a session result was announced in the current
	// Update; a day start triggered by the same key must not hide it.
	outcome  bool
	quitting bool
	now      func() time.Time

	// Breathing animation loop
	framing  bool
	frameGen int

	// Key bindings
	keys        GlobalKeyMap
	helpKeys    HelpKeyMap
	sessionKeys SessionKeyMap
	inputKeys   InputKeyMap

	// Pane positions for mouse click detection (x coordinates)
	timerPaneStart   int
	timerPaneEnd     int
	planPaneStart    int
	planPaneEnd      int
	historyPaneStart int
	historyPaneEnd   int
	contentTop       int // Y coordinate where content starts
}

type confirmState struct {
	title string
	body  string
	run   func() tea.Cmd
}

// NewApp creates a new application over ctrl.
func NewApp(ctrl *engine.Controller, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmRemovals:       true,
			NarrowLayoutThreshold: 80,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	undo := NewUndoManager()
	timerPane := NewTimerPane(ctrl, styles, cfg.Keys)
	planPane := NewPlanPane(ctrl.Settings(), undo, styles, cfg.Keys)
	historyPane := NewHistoryPane(ctrl.Settings(), styles)
	sessionKeys := NewSessionKeyMap(cfg.Keys)
	global := NewGlobalKeyMap(cfg.Keys)
	inputKeys := NewInputKeyMap(cfg.Keys)

	app := &App{
		ctrl:        ctrl,
		styles:      styles,
		config:      cfg,
		timerPane:   timerPane,
		planPane:    planPane,
		historyPane: historyPane,
		sessionView: NewSessionView(styles, sessionKeys),
		helpOverlay: NewHelpOverlay(styles, global, timerPane.keys, planPane.keys, sessionKeys, inputKeys),
		undoManager: undo,
		activePane:  PaneTimer,
		now:         time.Now,
		keys:        global,
		helpKeys:    DefaultHelpKeyMap(),
		sessionKeys: sessionKeys,
		inputKeys:   inputKeys,
	}

	timerPane.SetFocused(true)
	planPane.SetFocused(false)
	historyPane.SetFocused(false)

	ctrl.Subscribe(app.onEvent)
	return app
}

// onEvent turns controller events into status lines. It runs inside Update
// because the controller is only driven from there.
func (a *App) onEvent(ev engine.Event) {
	name := ev.Activity.Name()
	switch ev.Kind {
	case engine.EventSessionOpened:
		a.SetStatus("Time for "+name, false)
	case engine.EventBreathingCompleted, engine.EventExerciseCompleted:
		n := a.ctrl.Settings().Ledger().Count(ev.Activity, ev.At)
		a.SetStatus(fmt.Sprintf("Nice! %s done (%d today)", name, n), false)
		a.outcome = true
		// Snapshots taken before the session would roll the rotation back.
		a.undoManager.Clear()
	case engine.EventSessionSkipped:
		a.SetStatus("Skipped "+name, false)
		a.outcome = true
		a.undoManager.Clear()
	case engine.EventNothingEnabled:
		a.SetStatus("Nothing enabled in the rotation", true)
		a.outcome = true
	case engine.EventDayStarted:
		if !a.outcome {
			a.SetStatus("Day started", false)
		}
	case engine.EventDayEnded:
		a.SetStatus("Day ended", false)
		a.undoManager.Clear()
	}
	if ev.Err != nil {
		a.SetStatus("Save failed: "+ev.Err.Error(), true)
	}
}

// Init starts the clocks.
func (a *App) Init() tea.Cmd {
	return tea.Batch(secondTickCmd(), a.frameCmd())
}

// Update handles all messages and routes them appropriately. Every
// controller call happens here.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a.outcome = false
	cmd := a.update(msg)
	return a, tea.Batch(cmd, a.frameCmd())
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case secondTickMsg:
		a.ctrl.SecondTick(time.Time(msg))
		if a.status != "" && !a.statusUntil.IsZero() && a.now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return secondTickCmd()

	case frameTickMsg:
		return a.onFrame(msg)

	case rolloverMsg:
		if a.ctrl.Rollover() {
			a.SetStatus("New day", false)
		}
		return nil

	case statusMsg:
		a.SetStatus(msg.text, msg.err)
		return nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.forward(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.confirm != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			run := a.confirm.run
			a.confirm = nil
			return run()
		case "n", "N", "esc":
			a.confirm = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	// Help overlay takes priority
	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return nil
	}

	if a.ctrl.Mode() != engine.ModeCountdown {
		return a.handleSessionKey(msg)
	}

	inInputMode := a.timerPane.IsEditing() || a.planPane.IsEditing()
	if inInputMode {
		return a.forward(msg)
	}

	if a.config.ConfirmRemovals && a.activePane == PanePlan && key.Matches(msg, a.planPane.keys.Remove) {
		entry, reason, ok := a.planPane.CanRemoveSelected()
		if !ok {
			a.SetStatus(reason, true)
			return nil
		}
		a.confirm = &confirmState{
			title: "Remove from rotation?",
			body:  entry.Type.Icon() + " " + entry.Type.Name() + " · " + a.planPane.detail(entry.Type),
			run:   a.planPane.RemoveSelected,
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil

	case key.Matches(msg, a.keys.NextPane):
		a.switchPane()
		return nil

	case key.Matches(msg, a.keys.Pane1):
		a.setActivePane(PaneTimer)
		return nil

	case key.Matches(msg, a.keys.Pane2):
		a.setActivePane(PanePlan)
		return nil

	case key.Matches(msg, a.keys.Pane3):
		a.setActivePane(PaneHistory)
		return nil

	case key.Matches(msg, a.keys.Undo):
		desc, err := a.undoManager.Undo()
		switch {
		case err != nil:
			a.SetStatus("Undo failed: "+err.Error(), true)
		case desc != "":
			a.SetStatus("Undid: "+desc, false)
		default:
			a.SetStatus("Nothing to undo", false)
		}
		return nil

	case key.Matches(msg, a.keys.Redo):
		desc, err := a.undoManager.Redo()
		switch {
		case err != nil:
			a.SetStatus("Redo failed: "+err.Error(), true)
		case desc != "":
			a.SetStatus("Redid: "+desc, false)
		default:
			a.SetStatus("Nothing to redo", false)
		}
		return nil
	}

	return a.forward(msg)
}

// handleSessionKey drives the open session. The overlay is modal, so pane
// keys are not reachable until it closes.
func (a *App) handleSessionKey(msg tea.KeyMsg) tea.Cmd {
	snap := a.ctrl.Snapshot()
	breathing := snap.Mode == engine.ModeBreathing

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true

	case key.Matches(msg, a.sessionKeys.Toggle):
		if breathing {
			a.ctrl.ToggleBreathing()
		} else if snap.ExerciseState == session.ExerciseIdle {
			a.ctrl.StartExercise()
		}

	case key.Matches(msg, a.sessionKeys.Complete):
		if !breathing {
			a.ctrl.CompleteExercise()
		}

	case key.Matches(msg, a.sessionKeys.Skip):
		a.ctrl.SkipActivity()

	case key.Matches(msg, a.sessionKeys.HoldEmpty):
		if !breathing {
			return nil
		}
		if err := a.ctrl.SetIncludeHoldEmpty(!snap.HoldEmpty); err != nil {
			a.SetStatus("Save failed: "+err.Error(), true)
		} else if snap.HoldEmpty {
			a.SetStatus("Rest phase off", false)
		} else {
			a.SetStatus("Rest phase on", false)
		}

	case key.Matches(msg, a.sessionKeys.Close):
		a.ctrl.CloseSession()
	}
	return nil
}

// forward hands msg to the active pane.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	if a.showHelp || a.ctrl.Mode() != engine.ModeCountdown {
		return nil
	}
	switch a.activePane {
	case PaneTimer:
		return a.timerPane.Update(msg)
	case PanePlan:
		return a.planPane.Update(msg)
	case PaneHistory:
		return a.historyPane.Update(msg)
	}
	return nil
}

// frameCmd starts the animation loop when a breathing session is running and
// no loop is pending.
func (a *App) frameCmd() tea.Cmd {
	if a.framing || !a.breathingActive() {
		return nil
	}
	a.framing = true
	a.frameGen++
	return frameTickCmd(a.config.FrameInterval, a.frameGen)
}

func (a *App) onFrame(msg frameTickMsg) tea.Cmd {
	if msg.gen != a.frameGen {
		return nil
	}
	if !a.breathingActive() {
		a.framing = false
		return nil
	}
	a.ctrl.FrameTick(msg.at)
	if !a.breathingActive() {
		a.framing = false
		return nil
	}
	return frameTickCmd(a.config.FrameInterval, msg.gen)
}

func (a *App) breathingActive() bool {
	if a.ctrl.Mode() != engine.ModeBreathing {
		return false
	}
	return a.ctrl.Snapshot().BreathActive
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.confirm != nil {
		if msg.Action == tea.MouseActionPress {
			a.confirm = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	// Any click closes help
	if a.showHelp {
		if msg.Action == tea.MouseActionPress {
			a.showHelp = false
		}
		return nil
	}

	// A click on the session overlay toggles breathing
	if a.ctrl.Mode() != engine.ModeCountdown {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && a.ctrl.Mode() == engine.ModeBreathing {
			a.ctrl.ToggleBreathing()
		}
		return nil
	}

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		localMsg := msg
		localMsg.Y = msg.Y - a.contentTop
		return a.forward(localMsg)
	}

	if msg.Action != tea.MouseActionPress {
		return nil
	}

	// In narrow mode, check for tab bar clicks
	if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 {
		tabWidth := a.width / 3
		switch {
		case msg.X < tabWidth:
			a.setActivePane(PaneTimer)
		case msg.X < tabWidth*2:
			a.setActivePane(PanePlan)
		default:
			a.setActivePane(PaneHistory)
		}
		return nil
	}

	clickedPane := a.paneAtPosition(msg.X)
	if clickedPane >= 0 && clickedPane != a.activePane {
		a.setActivePane(clickedPane)
	}

	if msg.Y < a.contentTop {
		return nil
	}
	localMsg := msg
	localMsg.Y = msg.Y - a.contentTop
	if a.layoutMode == LayoutWide {
		switch a.activePane {
		case PanePlan:
			localMsg.X = msg.X - a.planPaneStart
		case PaneHistory:
			localMsg.X = msg.X - a.historyPaneStart
		}
	}
	return a.forward(localMsg)
}

// switchPane cycles through panes.
func (a *App) switchPane() {
	switch a.activePane {
	case PaneTimer:
		a.setActivePane(PanePlan)
	case PanePlan:
		a.setActivePane(PaneHistory)
	case PaneHistory:
		a.setActivePane(PaneTimer)
	}
}

// setActivePane sets the active pane and updates focus states.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane

	a.timerPane.SetFocused(pane == PaneTimer)
	a.planPane.SetFocused(pane == PanePlan)
	a.historyPane.SetFocused(pane == PaneHistory)
}

// paneAtPosition returns which pane is at the given X coordinate.
// Returns -1 if no pane is at that position.
func (a *App) paneAtPosition(x int) PaneID {
	if a.layoutMode == LayoutNarrow {
		return a.activePane
	}

	if x >= a.timerPaneStart && x < a.timerPaneEnd {
		return PaneTimer
	}
	if x >= a.planPaneStart && x < a.planPaneEnd {
		return PanePlan
	}
	if x >= a.historyPaneStart && x < a.historyPaneEnd {
		return PaneHistory
	}
	return -1
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for title bar (2) and help bar (1)
	contentHeight := a.height - 4
	if contentHeight < 10 {
		contentHeight = 10
	}

	a.contentTop = 1
	a.helpOverlay.SetSize(a.width, a.height)

	totalWidth := a.width - 4

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}

	if a.width < threshold {
		a.layoutMode = LayoutNarrow

		// Leave room for the tab bar
		narrowHeight := contentHeight - 1
		if narrowHeight < 8 {
			narrowHeight = 8
		}

		paneWidth := totalWidth
		if paneWidth < 20 {
			paneWidth = 20
		}

		a.timerPane.SetSize(paneWidth, narrowHeight)
		a.planPane.SetSize(paneWidth, narrowHeight)
		a.historyPane.SetSize(paneWidth, narrowHeight)

		a.timerPaneStart, a.timerPaneEnd = 0, a.width
		a.planPaneStart, a.planPaneEnd = 0, a.width
		a.historyPaneStart, a.historyPaneEnd = 0, a.width
		a.contentTop = 2
		return
	}

	a.layoutMode = LayoutWide

	var timerWidth, planWidth, historyWidth int
	if totalWidth < 120 {
		timerWidth = (totalWidth * 30) / 100
		planWidth = (totalWidth * 33) / 100
		historyWidth = totalWidth - timerWidth - planWidth - 2
	} else {
		timerWidth = min((totalWidth*30)/100, 42)
		planWidth = min((totalWidth*33)/100, 48)
		historyWidth = min(totalWidth-timerWidth-planWidth-2, 60)
	}

	a.timerPane.SetSize(timerWidth, contentHeight)
	a.planPane.SetSize(planWidth, contentHeight)
	a.historyPane.SetSize(historyWidth, contentHeight)

	// One space gap between panes
	a.timerPaneStart = 0
	a.timerPaneEnd = timerWidth
	a.planPaneStart = timerWidth + 1
	a.planPaneEnd = a.planPaneStart + planWidth
	a.historyPaneStart = a.planPaneEnd + 1
	a.historyPaneEnd = a.historyPaneStart + historyWidth
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.confirm != nil {
		return a.renderConfirm()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	snap := a.ctrl.Snapshot()
	if snap.Mode != engine.ModeCountdown {
		var b strings.Builder
		b.WriteString(a.renderTitleBar(snap))
		b.WriteString("\n")
		b.WriteString(RenderCentered(a.sessionView.View(snap), a.width, max(a.height-2, 0)))
		b.WriteString("\n")
		b.WriteString(a.renderHelpBar())
		return b.String()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar(snap))
	b.WriteString("\n")

	switch a.layoutMode {
	case LayoutNarrow:
		b.WriteString(a.renderNarrowContent())
	default:
		b.WriteString(a.renderWideContent())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) renderConfirm() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirm.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(truncateText(a.confirm.body, 60)))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] remove    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderWideContent renders all three panes side by side.
func (a *App) renderWideContent() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		a.timerPane.View(), " ", a.planPane.View(), " ", a.historyPane.View())
}

// renderNarrowContent renders the focused pane with a tab bar.
func (a *App) renderNarrowContent() string {
	var b strings.Builder

	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")

	switch a.activePane {
	case PaneTimer:
		b.WriteString(a.timerPane.View())
	case PanePlan:
		b.WriteString(a.planPane.View())
	case PaneHistory:
		b.WriteString(a.historyPane.View())
	}

	return b.String()
}

// renderPaneTabs renders a tab bar showing available panes.
func (a *App) renderPaneTabs() string {
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneTimer, "Countdown"},
		{PanePlan, "Rotation"},
		{PaneHistory, "History"},
	}

	activeTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorPrimary).
		Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var parts []string
	for _, tab := range tabs {
		label := tab.label
		if tab.id == a.activePane {
			label = activeTabStyle.Render("[" + label + "]")
		} else {
			label = inactiveTabStyle.Render(" " + label + " ")
		}
		parts = append(parts, label)
	}

	tabBar := strings.Join(parts, "  ")
	padding := (a.width - lipgloss.Width(tabBar)) / 2
	if padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}

	return tabBar
}

// renderGoodbye shows an exit message with today's completions.
func (a *App) renderGoodbye() string {
	now := a.now()
	snap := a.ctrl.Snapshot()
	s := a.ctrl.Settings()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  Keep breathing!\n")
	b.WriteString("\n")

	if snap.TodayTotal > 0 {
		b.WriteString("  Today's progress:\n")
		for _, t := range s.Plan().EnabledTypes() {
			if n := s.Ledger().Count(t, now); n > 0 {
				b.WriteString(fmt.Sprintf("     %s %-11s %d\n", t.Icon(), t.Name(), n))
			}
		}
		b.WriteString(fmt.Sprintf("     %d done · %.0f%%\n", snap.TodayTotal, snap.TodayPercent*100))
		b.WriteString("\n")
	}
	if snap.DayActive && snap.DayStart != nil {
		b.WriteString(fmt.Sprintf("  Day running for %s\n\n", formatDurationShort(now.Sub(*snap.DayStart))))
	}

	return b.String()
}

// renderTitleBar creates the top title bar with today's stats and the
// countdown.
func (a *App) renderTitleBar(snap engine.Snapshot) string {
	title := a.styles.TitleStyle.Render(" breather ")

	stats := a.styles.StatLabelStyle.Render(
		fmt.Sprintf("Today: %d done · %.0f%%", snap.TodayTotal, snap.TodayPercent*100))

	var timerStatus string
	switch snap.TimerState {
	case timer.Running:
		timerStatus = a.styles.TimerRunningStyle.Render("▶ " + formatCountdown(snap.RemainingSeconds))
	case timer.Paused:
		timerStatus = a.styles.TimerPausedStyle.Render("❚❚ " + formatCountdown(snap.RemainingSeconds))
	}

	date := a.styles.DateStyle.Render(a.now().Format("Mon Jan 2 · 15:04"))

	usedWidth := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(timerStatus) + lipgloss.Width(date)
	spacerWidth := a.width - usedWidth - 6
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	parts := []string{title, "  " + stats}
	parts = append(parts, strings.Repeat(" ", spacerWidth/2))
	if timerStatus != "" {
		parts = append(parts, timerStatus)
	}
	parts = append(parts, strings.Repeat(" ", spacerWidth-spacerWidth/2))
	parts = append(parts, date)

	return strings.Join(parts, "")
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.ctrl.Mode() != engine.ModeCountdown {
		return a.styles.RenderHelp(bindingHelp(a.sessionKeys.ShortHelp()...)...)
	}

	if a.timerPane.IsEditing() || a.planPane.IsEditing() {
		return a.styles.RenderHelp(bindingHelp(a.inputKeys.Confirm, a.inputKeys.Cancel)...)
	}

	var pairs []string
	switch a.activePane {
	case PaneTimer:
		pairs = bindingHelp(a.timerPane.keys.ShortHelp()...)
	case PanePlan:
		pairs = bindingHelp(a.planPane.keys.ShortHelp()...)
	}
	pairs = append(pairs, bindingHelp(a.keys.NextPane, a.keys.Help)...)
	return a.styles.RenderHelp(pairs...)
}

// bindingHelp flattens bindings into key/description pairs for RenderHelp.
func bindingHelp(bindings ...key.Binding) []string {
	pairs := make([]string, 0, len(bindings)*2)
	for _, b := range bindings {
		h := b.Help()
		pairs = append(pairs, h.Key, h.Desc)
	}
	return pairs
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = a.now().Add(ttl)
}

// NewProgram builds the Bubble Tea program for ctrl. Pass it to RolloverFunc
// to let the rollover scheduler reach the event loop.
func NewProgram(ctrl *engine.Controller, styles *Styles, cfg *AppConfig) *tea.Program {
	return tea.NewProgram(NewApp(ctrl, styles, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
}
