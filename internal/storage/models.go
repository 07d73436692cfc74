package storage

import (
	"breather/internal/activity"
	"breather/internal/ledger"
	"breather/internal/timer"
)

// schemaVersion is written into every JSON file.
const schemaVersion = 1

// SettingsRecord is the persisted user state: interval, rotation plan and the
// open day.
type SettingsRecord struct {
	Version         int            `json:"version"`
	IntervalMinutes int            `json:"interval_minutes"`
	Plan            activity.State `json:"plan"`
	Day             timer.Day      `json:"day"`
}

// HistoryRecord is the persisted completion ledger.
type HistoryRecord struct {
	Version int `json:"version"`
	ledger.History
}

func emptyHistory() *HistoryRecord {
	return &HistoryRecord{
		Version: schemaVersion,
		History: ledger.History{
			DailyCompletions: map[string]map[activity.Type]int{},
			DailyTimes:       map[string]ledger.DayTimes{},
		},
	}
}
