package reports

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts json, markdown or md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or markdown)", s)
	}
}

// FormatDaily renders a daily report in f.
func FormatDaily(report *DailyReport, f Format) ([]byte, error) {
	if f == FormatMarkdown {
		return []byte(FormatDailyMarkdown(report)), nil
	}
	return json.MarshalIndent(report, "", "  ")
}

// FormatWeekly renders a weekly report in f.
func FormatWeekly(report *WeeklyReport, f Format) ([]byte, error) {
	if f == FormatMarkdown {
		return []byte(FormatWeeklyMarkdown(report)), nil
	}
	return json.MarshalIndent(report, "", "  ")
}

// FormatDailyMarkdown renders a daily report as a Markdown document.
func FormatDailyMarkdown(r *DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily report: %s (%s)\n\n", r.Date, r.DayOfWeek)

	if r.Started != nil {
		fmt.Fprintf(&b, "- Day started: %s\n", r.Started.Format("15:04"))
	}
	if r.Ended != nil {
		fmt.Fprintf(&b, "- Day ended: %s\n", r.Ended.Format("15:04"))
	}
	if d := r.ActiveDuration(); d > 0 {
		fmt.Fprintf(&b, "- Active for: %s\n", formatDuration(d))
	}
	fmt.Fprintf(&b, "- Completions: %d\n", r.Total)
	fmt.Fprintf(&b, "- Completion: %.0f%%\n\n", r.Percentage)

	writeActivityTable(&b, r.Activities)
	return b.String()
}

// FormatWeeklyMarkdown renders a weekly report as a Markdown document.
func FormatWeeklyMarkdown(r *WeeklyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly report: %s to %s\n\n", r.StartDate, r.EndDate)
	fmt.Fprintf(&b, "- Completions: %d\n", r.Total)
	fmt.Fprintf(&b, "- Active days: %d/7\n", r.ActiveDays)
	fmt.Fprintf(&b, "- Daily average: %.1f\n", r.DailyAverage)
	fmt.Fprintf(&b, "- Current streak: %d %s\n\n", r.Streak, plural(r.Streak, "day", "days"))

	writeActivityTable(&b, r.Activities)

	b.WriteString("\n## By day\n\n")
	b.WriteString("| Day | Date | Completions | Completion |\n")
	b.WriteString("|-----|------|------------:|-----------:|\n")
	for _, d := range r.DailyBreakdown {
		fmt.Fprintf(&b, "| %s | %s | %d | %.0f%% |\n", d.DayOfWeek, d.Date, d.Total, d.Percentage)
	}
	return b.String()
}

func writeActivityTable(b *strings.Builder, acts []ActivityCount) {
	if len(acts) == 0 {
		b.WriteString("_No activities._\n")
		return
	}
	b.WriteString("| Activity | Count | Enabled |\n")
	b.WriteString("|----------|------:|:-------:|\n")
	for _, a := range acts {
		enabled := ""
		if a.Enabled {
			enabled = "yes"
		}
		fmt.Fprintf(b, "| %s %s | %d | %s |\n", a.Icon, a.Name, a.Count, enabled)
	}
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
