package ui

import (
	"fmt"
	"strings"
	"time"

	"breather/internal/reports"
	"breather/internal/settings"

	tea "github.com/charmbracelet/bubbletea"
)

// heatCell is the glyph drawn for one day.
const heatCell = "■"

// HistoryPane shows the completion heat-map with today's counts and the
// current streak. It is read-only.
type HistoryPane struct {
	settings *settings.Settings
	styles   *Styles
	focused  bool
	width    int
	height   int
	now      func() time.Time
}

// NewHistoryPane creates a history pane over s.
func NewHistoryPane(s *settings.Settings, styles *Styles) *HistoryPane {
	return &HistoryPane{settings: s, styles: styles, now: time.Now}
}

// SetSize sets the pane dimensions.
func (p *HistoryPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *HistoryPane) SetFocused(focused bool) {
	p.focused = focused
}

// Update handles messages for the history pane. Nothing here is editable.
func (p *HistoryPane) Update(tea.Msg) tea.Cmd {
	return nil
}

func (p *HistoryPane) generator() *reports.Generator {
	g := reports.NewGenerator(p.settings.Ledger(), p.settings.Plan().EnabledTypes())
	g.SetNowFunc(p.now)
	return g
}

// weeks is how many heat-map columns fit, capped at the default window.
func (p *HistoryPane) weeks() int {
	maxWeeks := (reports.DefaultHeatmapDays + 6) / 7
	if p.width <= 0 {
		return maxWeeks
	}
	// Row label (4) plus two cells per week inside borders and padding
	fit := (p.width - 4 - 4) / 2
	return min(max(fit, 4), maxWeeks)
}

// View renders the history pane.
func (p *HistoryPane) View() string {
	now := p.now()
	g := p.generator()
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("📅 HISTORY"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	b.WriteString(p.renderHeatmap(g, now))
	b.WriteString("\n")

	daily := g.GenerateDaily(now)
	b.WriteString("  " + p.styles.StatLabelStyle.Render("Today"))
	b.WriteString("\n")
	if len(daily.Activities) == 0 {
		b.WriteString("    " + p.styles.StatLabelStyle.Render("Nothing enabled"))
		b.WriteString("\n")
	}
	for _, a := range daily.Activities {
		line := fmt.Sprintf("%s %-11s %d", a.Icon, a.Name, a.Count)
		if a.Count > 0 {
			b.WriteString("    " + p.styles.StatValueStyle.Render(line))
		} else {
			b.WriteString("    " + p.styles.StatLabelStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	streak := g.StreakAt(now)
	week := g.GenerateWeekly(now)
	b.WriteString("  " + p.styles.StatLabelStyle.Render("Streak: ") +
		p.styles.StatValueStyle.Render(fmt.Sprintf("%d %s", streak, plural(streak, "day", "days"))))
	b.WriteString("\n")
	b.WriteString("  " + p.styles.StatLabelStyle.Render("Week:   ") +
		p.styles.StatValueStyle.Render(fmt.Sprintf("%d done · %d/7 days", week.Total, week.ActiveDays)))
	b.WriteString("\n")

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// renderHeatmap draws one row per weekday and one column per week, oldest
// week on the left, ending with the week that contains now.
func (p *HistoryPane) renderHeatmap(g *reports.Generator, now time.Time) string {
	weeks := p.weeks()
	// Cover whole weeks so every column starts on Sunday.
	days := (weeks-1)*7 + int(now.Weekday()) + 1
	cells := g.Heatmap(now, days)

	var grid [7][]string
	for i := range grid {
		grid[i] = make([]string, weeks)
		for w := range grid[i] {
			grid[i][w] = " "
		}
	}
	for i, c := range cells {
		grid[c.Weekday][i/7] = p.styles.HeatStyles[c.Level].Render(heatCell)
	}

	labels := [7]string{"Sun", "", "Tue", "", "Thu", "", "Sat"}
	var b strings.Builder
	for d := 0; d < 7; d++ {
		b.WriteString(fmt.Sprintf("  %-3s ", labels[d]))
		b.WriteString(strings.Join(grid[d], " "))
		b.WriteString("\n")
	}

	legend := "  less "
	for _, s := range p.styles.HeatStyles {
		legend += s.Render(heatCell) + " "
	}
	b.WriteString(p.styles.StatLabelStyle.Render(legend + "more"))
	b.WriteString("\n")
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
