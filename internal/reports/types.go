// Package reports provides daily and weekly report generation for breather.
// Reports aggregate the completion ledger and the day start/end times.
package reports

import (
	"time"

	"breather/internal/activity"
)

// DailyReport contains aggregated data for a single day.
type DailyReport struct {
	Date        string          `json:"date"`
	DayOfWeek   string          `json:"day_of_week"`
	Activities  []ActivityCount `json:"activities"`
	Total       int             `json:"total"`
	Percentage  float64         `json:"percentage"`
	Started     *time.Time      `json:"started,omitempty"`
	Ended       *time.Time      `json:"ended,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// ActiveDuration is the span between the day's start and end, or zero when
// either is missing.
func (r *DailyReport) ActiveDuration() time.Duration {
	if r.Started == nil || r.Ended == nil || r.Ended.Before(*r.Started) {
		return 0
	}
	return r.Ended.Sub(*r.Started)
}

// ActivityCount is the number of completions of one activity type.
type ActivityCount struct {
	Type    activity.Type `json:"type"`
	Name    string        `json:"name"`
	Icon    string        `json:"icon"`
	Count   int           `json:"count"`
	Enabled bool          `json:"enabled"`
}

// WeeklyReport contains aggregated data for a week.
type WeeklyReport struct {
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	Activities     []ActivityCount `json:"activities"`
	Total          int             `json:"total"`
	ActiveDays     int             `json:"active_days"`
	DailyAverage   float64         `json:"daily_average"`
	Streak         int             `json:"streak"`
	DailyBreakdown []DailySummary  `json:"daily_breakdown"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// DailySummary provides a quick overview of a single day within a week.
type DailySummary struct {
	Date       string  `json:"date"`
	DayOfWeek  string  `json:"day_of_week"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// HeatCell is one day of the history heat-map.
type HeatCell struct {
	Date       string       `json:"date"`
	Weekday    time.Weekday `json:"weekday"`
	Total      int          `json:"total"`
	Percentage float64      `json:"percentage"`
	Level      int          `json:"level"`
}
