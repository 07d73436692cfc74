package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders a help screen
type HelpOverlay struct {
	width  int
	height int
	styles *Styles

	global  GlobalKeyMap
	timer   TimerKeyMap
	plan    PlanKeyMap
	session SessionKeyMap
	input   InputKeyMap
}

// NewHelpOverlay creates a new help overlay listing the given bindings.
func NewHelpOverlay(styles *Styles, global GlobalKeyMap, timer TimerKeyMap, plan PlanKeyMap, session SessionKeyMap, input InputKeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles:  styles,
		global:  global,
		timer:   timer,
		plan:    plan,
		session: session,
		input:   input,
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder

	b.WriteString(titleStyle.Render("🌬  breather - Keyboard Shortcuts"))
	b.WriteString("\n")

	section := func(name string, bindings ...key.Binding) {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, kb := range bindings {
			hp := kb.Help()
			if hp.Key == "" {
				continue
			}
			b.WriteString(keyStyle.Render(hp.Key) + descStyle.Render(hp.Desc) + "\n")
		}
	}

	g := h.global
	section("Global", g.NextPane, g.Pane1, g.Pane2, g.Pane3, g.Undo, g.Redo, g.Help, g.Quit)
	section("Countdown", flatten(h.timer.FullHelp())...)
	section("Rotation", flatten(h.plan.FullHelp())...)
	section("Session", flatten(h.session.FullHelp())...)
	section("Input Mode", h.input.Confirm, h.input.Cancel)

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	content := overlayStyle.Render(b.String())

	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

func flatten(groups [][]key.Binding) []key.Binding {
	var out []key.Binding
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
