package reports

import (
	"time"

	"breather/internal/activity"
	"breather/internal/ledger"
)

// maxStreakDays bounds the streak walk.
const maxStreakDays = 3660

// Generator creates reports from a completion ledger. Percentages are
// measured against the enabled activity types given at construction.
type Generator struct {
	ledger  *ledger.Ledger
	enabled []activity.Type
	now     func() time.Time
}

// NewGenerator creates a new report generator.
func NewGenerator(l *ledger.Ledger, enabled []activity.Type) *Generator {
	if l == nil {
		l = ledger.New()
	}
	return &Generator{ledger: l, enabled: enabled, now: time.Now}
}

// SetNowFunc overrides the clock used for GeneratedAt.
func (g *Generator) SetNowFunc(now func() time.Time) {
	if now != nil {
		g.now = now
	}
}

// GenerateDaily generates a report for a specific date.
func (g *Generator) GenerateDaily(date time.Time) *DailyReport {
	date = startOfDay(date)
	counts := g.ledger.Completions(date)

	r := &DailyReport{
		Date:        ledger.DateKey(date),
		DayOfWeek:   date.Format("Mon"),
		Activities:  g.activityCounts(counts),
		Total:       g.ledger.Total(date),
		Percentage:  g.ledger.CompletionPercentage(date, g.enabled) * 100,
		GeneratedAt: g.now(),
	}
	if dt, ok := g.ledger.Times(date); ok {
		r.Started = dt.Start
		r.Ended = dt.End
	}
	return r
}

// GenerateWeekly generates a report for the week containing startDate,
// aligned to Sunday.
func (g *Generator) GenerateWeekly(startDate time.Time) *WeeklyReport {
	start := startOfWeekSunday(startDate)
	end := start.AddDate(0, 0, 6)

	totals := map[activity.Type]int{}
	breakdown := make([]DailySummary, 0, 7)
	total, activeDays := 0, 0

	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		for t, n := range g.ledger.Completions(day) {
			totals[t] += n
		}
		dayTotal := g.ledger.Total(day)
		total += dayTotal
		if dayTotal > 0 {
			activeDays++
		}
		breakdown = append(breakdown, DailySummary{
			Date:       ledger.DateKey(day),
			DayOfWeek:  day.Format("Mon"),
			Total:      dayTotal,
			Percentage: g.ledger.CompletionPercentage(day, g.enabled) * 100,
		})
	}

	return &WeeklyReport{
		StartDate:      ledger.DateKey(start),
		EndDate:        ledger.DateKey(end),
		Activities:     g.activityCounts(totals),
		Total:          total,
		ActiveDays:     activeDays,
		DailyAverage:   float64(total) / 7,
		Streak:         g.StreakAt(g.streakAnchor(end)),
		DailyBreakdown: breakdown,
		GeneratedAt:    g.now(),
	}
}

// StreakAt counts consecutive days with at least one completion, ending at
// date. A date with nothing yet does not break the streak; counting starts
// from the day before.
func (g *Generator) StreakAt(date time.Time) int {
	day := startOfDay(date)
	if g.ledger.Total(day) == 0 {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for streak < maxStreakDays && g.ledger.Total(day) > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// streakAnchor is the week's last day, or now if the week is still running.
func (g *Generator) streakAnchor(weekEnd time.Time) time.Time {
	now := g.now()
	if now.Before(weekEnd.AddDate(0, 0, 1)) {
		return now
	}
	return weekEnd
}

// activityCounts lists enabled types first in catalog order, then any other
// type that has completions.
func (g *Generator) activityCounts(counts map[activity.Type]int) []ActivityCount {
	enabled := map[activity.Type]bool{}
	for _, t := range g.enabled {
		enabled[t] = true
	}

	var out []ActivityCount
	add := func(t activity.Type) {
		out = append(out, ActivityCount{
			Type:    t,
			Name:    t.Name(),
			Icon:    t.Icon(),
			Count:   counts[t],
			Enabled: enabled[t],
		})
	}
	for _, t := range activity.Types {
		if enabled[t] || counts[t] > 0 {
			add(t)
		}
	}
	// Types no longer in the catalog still show up if the history has them.
	for t, n := range counts {
		if !t.Valid() && n > 0 {
			add(t)
		}
	}
	return out
}

// startOfDay returns the start of the day (midnight).
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeekSunday returns the start of the week (Sunday).
func startOfWeekSunday(t time.Time) time.Time {
	t = startOfDay(t)
	return t.AddDate(0, 0, -int(t.Weekday()))
}
