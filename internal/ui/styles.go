package ui

import (
	"breather/internal/config"
	"breather/internal/session"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all application styles, initialized with theme configuration.
type Styles struct {
	// Colors
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorBg        lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	// Component styles
	TitleStyle       lipgloss.Style
	DateStyle        lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style

	// Plan list
	EntryEnabledStyle  lipgloss.Style
	EntryDisabledStyle lipgloss.Style
	EntrySelectedStyle lipgloss.Style
	EntryNextStyle     lipgloss.Style
	CheckboxOn         string
	CheckboxOff        string

	// Countdown
	TimerRunningStyle lipgloss.Style
	TimerPausedStyle  lipgloss.Style
	TimerStoppedStyle lipgloss.Style
	ProgressFull      lipgloss.Style
	ProgressEmpty     lipgloss.Style

	// Session overlay
	OverlayStyle     lipgloss.Style
	PhaseLabelStyle  lipgloss.Style
	InstructionStyle lipgloss.Style
	RepsStyle        lipgloss.Style

	// History heat-map, indexed by level 0-4
	HeatStyles [5]lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style

	InputPromptStyle lipgloss.Style
	InputTextStyle   lipgloss.Style

	StatLabelStyle lipgloss.Style
	StatValueStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from the given config.
// If a theme color is empty, it uses the appropriate default.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme creates a new Styles instance from a ThemeConfig.
// If a theme color is empty, it uses the appropriate default.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{}

	s.ColorPrimary = colorOrDefault(theme.Primary, "#4FC3F7")
	s.ColorSecondary = colorOrDefault(theme.Accent, "#81C784")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")

	// Fixed semantic colors (not configurable from theme)
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorWarning = lipgloss.Color("#FFB74D")
	s.ColorSuccess = lipgloss.Color("#66BB6A")
	s.ColorAccent = colorOrDefault(theme.Accent, "#81C784")

	s.ColorBg = colorOrDefault(theme.Background, "#1F2937")
	s.ColorBgLight = lipgloss.Color("#374151")
	s.ColorText = colorOrDefault(theme.Text, "#F9FAFB")
	s.ColorTextMuted = lipgloss.Color("#9CA3AF")

	s.initComponentStyles()

	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

func (s *Styles) initComponentStyles() {
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorBg).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.DateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorMuted).
		Padding(0, 1)

	s.PaneFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(0, 1)

	s.PaneTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary).
		MarginBottom(1)

	// Plan list
	s.EntryEnabledStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.EntryDisabledStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.EntrySelectedStyle = lipgloss.NewStyle().
		Background(s.ColorBgLight).
		Foreground(s.ColorText).
		Bold(true)

	s.EntryNextStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning).
		Bold(true)

	s.CheckboxOn = lipgloss.NewStyle().Foreground(s.ColorSuccess).Render("[✓]")
	s.CheckboxOff = lipgloss.NewStyle().Foreground(s.ColorMuted).Render("[ ]")

	// Countdown
	s.TimerRunningStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Bold(true)

	s.TimerPausedStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning).
		Bold(true)

	s.TimerStoppedStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted)

	s.ProgressFull = lipgloss.NewStyle().Foreground(s.ColorPrimary)
	s.ProgressEmpty = lipgloss.NewStyle().Foreground(s.ColorBgLight)

	// Session overlay
	s.OverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(1, 3)

	s.PhaseLabelStyle = lipgloss.NewStyle().Bold(true)

	s.InstructionStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Italic(true)

	s.RepsStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	// Heat-map levels from empty to every enabled activity done
	heat := []lipgloss.Color{"#374151", "#1B5E20", "#388E3C", "#66BB6A", "#A5D6A7"}
	for i, c := range heat {
		s.HeatStyles[i] = lipgloss.NewStyle().Foreground(c)
	}

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.InputTextStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.StatLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.StatValueStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)
}

// PhaseStyle colors text in the breathing phase's own color.
func (s *Styles) PhaseStyle(p session.Phase) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color().Hex()))
}

// RenderHelp renders help text with key bindings using the given styles.
func (s *Styles) RenderHelp(keys ...string) string {
	var result string
	for i := 0; i+1 < len(keys); i += 2 {
		if i > 0 {
			result += "  "
		}
		result += s.HelpKeyStyle.Render("["+keys[i]+"]") + " " + s.HelpStyle.Render(keys[i+1])
	}
	return result
}
