package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"breather/internal/config"
	"breather/internal/engine"
	"breather/internal/timer"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// intervalStep is how far + and - move the interval once it is past
// intervalStep minutes; below that they move by one.
const intervalStep = 5

// TimerPane shows the countdown and the day, and drives the countdown
// commands.
type TimerPane struct {
	ctrl    *engine.Controller
	styles  *Styles
	focused bool
	width   int
	height  int
	editing bool // typing a new interval
	input   textinput.Model

	// Key bindings
	keys      TimerKeyMap
	inputKeys InputKeyMap
}

// NewTimerPane creates a new timer pane with custom key bindings.
func NewTimerPane(ctrl *engine.Controller, styles *Styles, keyCfg *config.KeysConfig) *TimerPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = "minutes"
	ti.CharLimit = 3
	ti.Width = 10
	ti.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return fmt.Errorf("digits only")
			}
		}
		return nil
	}

	return &TimerPane{
		ctrl:      ctrl,
		styles:    styles,
		input:     ti,
		keys:      NewTimerKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the pane dimensions.
func (p *TimerPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *TimerPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsEditing returns whether the interval input is open.
func (p *TimerPane) IsEditing() bool {
	return p.editing
}

// Update handles messages for the timer pane.
func (p *TimerPane) Update(msg tea.Msg) tea.Cmd {
	if p.editing {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				value := strings.TrimSpace(p.input.Value())
				p.closeInput()
				if value == "" {
					return nil
				}
				m, err := strconv.Atoi(value)
				if err != nil {
					return statusCmd("Interval must be a number", true)
				}
				return p.setInterval(m)

			case key.Matches(msg, p.inputKeys.Cancel):
				p.closeInput()
				return nil
			}
		}

		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Toggle):
			p.ctrl.ToggleTimer()
		case key.Matches(msg, p.keys.Skip):
			p.ctrl.SkipTimer()
		case key.Matches(msg, p.keys.Reset):
			p.ctrl.ResetTimer()
			return statusCmd("Countdown reset", false)
		case key.Matches(msg, p.keys.EndDay):
			if !p.ctrl.Snapshot().DayActive {
				return statusCmd("No day in progress", false)
			}
			p.ctrl.EndDay()
		case key.Matches(msg, p.keys.IntervalUp):
			return p.setInterval(stepInterval(p.ctrl.Settings().IntervalMinutes(), +1))
		case key.Matches(msg, p.keys.IntervalDown):
			return p.setInterval(stepInterval(p.ctrl.Settings().IntervalMinutes(), -1))
		case key.Matches(msg, p.keys.SetInterval):
			p.editing = true
			p.input.SetValue(strconv.Itoa(p.ctrl.Settings().IntervalMinutes()))
			p.input.CursorEnd()
			p.input.Focus()
			return textinput.Blink
		}
	}

	return nil
}

func (p *TimerPane) closeInput() {
	p.editing = false
	p.input.Reset()
	p.input.Blur()
}

func (p *TimerPane) setInterval(m int) tea.Cmd {
	if err := p.ctrl.SetIntervalMinutes(m); err != nil {
		return statusCmd("Save interval: "+err.Error(), true)
	}
	return statusCmd(fmt.Sprintf("Interval: %d min", p.ctrl.Settings().IntervalMinutes()), false)
}

// stepInterval moves m one step in dir, by one minute up to intervalStep and
// by intervalStep beyond it.
func stepInterval(m, dir int) int {
	if dir > 0 {
		if m < intervalStep {
			return m + 1
		}
		return m + intervalStep
	}
	if m <= intervalStep {
		return m - 1
	}
	return m - intervalStep
}

// handleMouse processes mouse events for the timer pane.
func (p *TimerPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	// Countdown rows start after title (1) + separator (1) + blank (1)
	const headerRows = 3

	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
		if msg.Y >= headerRows && msg.Y < headerRows+3 {
			p.ctrl.ToggleTimer()
		}
	}
	return nil
}

// View renders the timer pane.
func (p *TimerPane) View() string {
	snap := p.ctrl.Snapshot()
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("⏱  COUNTDOWN"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styleMutedText(strings.Repeat("─", sepWidth)))
	b.WriteString("\n\n")

	clock := formatCountdown(snap.RemainingSeconds)
	switch snap.TimerState {
	case timer.Running:
		b.WriteString("  " + p.styles.TimerRunningStyle.Render("▶ "+clock))
	case timer.Paused:
		b.WriteString("  " + p.styles.TimerPausedStyle.Render("❚❚ "+clock+"  paused"))
	case timer.Completed:
		b.WriteString("  " + p.styles.TimerRunningStyle.Render("✓ Time's up"))
	default:
		b.WriteString("  " + p.styles.TimerStoppedStyle.Render("■ "+clock))
	}
	b.WriteString("\n")
	b.WriteString("  " + p.renderProgress(snap.Progress, max(10, sepWidth-4)))
	b.WriteString("\n\n")

	if snap.TimerState == timer.Idle {
		b.WriteString("  " + p.styleMutedText("Press space to start"))
		b.WriteString("\n\n")
	}

	interval := p.ctrl.Settings().IntervalMinutes()
	b.WriteString("  " + p.stat("Interval: ", fmt.Sprintf("%d min", interval)))
	b.WriteString("\n")

	day := "not started"
	if snap.DayActive && snap.DayStart != nil {
		day = "since " + snap.DayStart.Format("15:04")
	}
	b.WriteString("  " + p.stat("Day:      ", day))
	b.WriteString("\n")

	next := "nothing enabled"
	if snap.HasNext {
		next = snap.Next.Icon() + " " + snap.Next.Name()
		if snap.NextOverride {
			next += " (picked)"
		}
	}
	b.WriteString("  " + p.stat("Next:     ", next))
	b.WriteString("\n")

	today := fmt.Sprintf("%d done · %.0f%%", snap.TodayTotal, snap.TodayPercent*100)
	b.WriteString("  " + p.stat("Today:    ", today))
	b.WriteString("\n")

	if p.editing {
		b.WriteString("\n")
		b.WriteString("  " + p.styles.InputPromptStyle.Render("Minutes: ") + p.input.View())
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

func (p *TimerPane) stat(label, value string) string {
	return p.styles.StatLabelStyle.Render(label) + p.styles.StatValueStyle.Render(value)
}

func (p *TimerPane) renderProgress(progress float64, width int) string {
	return renderBar(progress, width, p.styles.ProgressFull, p.styles.ProgressEmpty)
}

// styleMutedText applies muted style to text.
func (p *TimerPane) styleMutedText(s string) string {
	return p.styles.StatLabelStyle.Render(s)
}

// formatCountdown formats seconds as MM:SS, or H:MM:SS from an hour up.
func formatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// formatDurationShort formats a duration as Xh Xm.
func formatDurationShort(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
