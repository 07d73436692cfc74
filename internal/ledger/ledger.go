// Package ledger records per-day activity completions and day start/end
// times.
package ledger

import (
	"sort"
	"time"

	"breather/internal/activity"
)

// DateLayout is the calendar-day key format.
const DateLayout = "2006-01-02"

// DateKey returns the calendar day of t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a key produced by DateKey into local midnight.
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, key, time.Local)
}

// DayTimes holds the start and end of a user's active day.
type DayTimes struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Ledger is the completion history. Counts only grow; nothing is pruned.
type Ledger struct {
	completions map[string]map[activity.Type]int
	times       map[string]DayTimes
}

// History is the persisted form of a Ledger.
type History struct {
	DailyCompletions map[string]map[activity.Type]int `json:"daily_completions"`
	DailyTimes       map[string]DayTimes              `json:"daily_times"`
}

func New() *Ledger {
	return &Ledger{
		completions: map[string]map[activity.Type]int{},
		times:       map[string]DayTimes{},
	}
}

// FromHistory rebuilds a ledger. Non-positive counts are dropped.
func FromHistory(h History) *Ledger {
	l := New()
	for day, counts := range h.DailyCompletions {
		for t, n := range counts {
			if n <= 0 {
				continue
			}
			if l.completions[day] == nil {
				l.completions[day] = map[activity.Type]int{}
			}
			l.completions[day][t] = n
		}
	}
	for day, dt := range h.DailyTimes {
		l.times[day] = dt
	}
	return l
}

// History returns a deep copy for persistence.
func (l *Ledger) History() History {
	h := History{
		DailyCompletions: make(map[string]map[activity.Type]int, len(l.completions)),
		DailyTimes:       make(map[string]DayTimes, len(l.times)),
	}
	for day, counts := range l.completions {
		c := make(map[activity.Type]int, len(counts))
		for t, n := range counts {
			c[t] = n
		}
		h.DailyCompletions[day] = c
	}
	for day, dt := range l.times {
		h.DailyTimes[day] = dt
	}
	return h
}

// RecordCompletion adds one completion of t on date's calendar day.
func (l *Ledger) RecordCompletion(t activity.Type, date time.Time) int {
	key := DateKey(date)
	if l.completions[key] == nil {
		l.completions[key] = map[activity.Type]int{}
	}
	l.completions[key][t]++
	return l.completions[key][t]
}

// Count returns how many times t was completed on date's day.
func (l *Ledger) Count(t activity.Type, date time.Time) int {
	return l.completions[DateKey(date)][t]
}

// Completions returns a copy of the counts for date's day.
func (l *Ledger) Completions(date time.Time) map[activity.Type]int {
	out := map[activity.Type]int{}
	for t, n := range l.completions[DateKey(date)] {
		out[t] = n
	}
	return out
}

// Total is the number of completions of any activity on date's day.
func (l *Ledger) Total(date time.Time) int {
	n := 0
	for _, c := range l.completions[DateKey(date)] {
		n += c
	}
	return n
}

// CompletionPercentage is the fraction, in [0, 1], of the distinct enabled
// activities completed at least once on date's day. It is 0 when nothing is
// enabled.
func (l *Ledger) CompletionPercentage(date time.Time, enabled []activity.Type) float64 {
	distinct := map[activity.Type]bool{}
	for _, t := range enabled {
		distinct[t] = true
	}
	if len(distinct) == 0 {
		return 0
	}
	counts := l.completions[DateKey(date)]
	done := 0
	for t := range distinct {
		if counts[t] > 0 {
			done++
		}
	}
	return float64(done) / float64(len(distinct))
}

// RecordDayStart sets the start of date's day and clears any end time.
func (l *Ledger) RecordDayStart(date time.Time) {
	key := DateKey(date)
	dt := l.times[key]
	start := date
	dt.Start = &start
	dt.End = nil
	l.times[key] = dt
}

// RecordDayEnd sets the end of date's day.
func (l *Ledger) RecordDayEnd(date time.Time) {
	key := DateKey(date)
	dt := l.times[key]
	end := date
	dt.End = &end
	l.times[key] = dt
}

// Times returns the recorded start/end for date's day.
func (l *Ledger) Times(date time.Time) (DayTimes, bool) {
	dt, ok := l.times[DateKey(date)]
	return dt, ok
}

// Days lists every day with any recorded data, oldest first.
func (l *Ledger) Days() []string {
	seen := map[string]bool{}
	for day := range l.completions {
		seen[day] = true
	}
	for day := range l.times {
		seen[day] = true
	}
	out := make([]string, 0, len(seen))
	for day := range seen {
		out = append(out, day)
	}
	sort.Strings(out)
	return out
}

// Reset clears all history.
func (l *Ledger) Reset() {
	l.completions = map[string]map[activity.Type]int{}
	l.times = map[string]DayTimes{}
}
