package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"breather/internal/activity"
	"breather/internal/ledger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Settings keys in the key-value table.
const (
	keyVersion         = "schema_version"
	keyIntervalMinutes = "timer_interval_minutes"
	keyActivityOrder   = "activity_order"
	keyActivities      = "activities"
	keyLastCompleted   = "last_completed_entry"
	keyNextUp          = "next_up_entry"
	keyDayStarted      = "day_started"
	keyDayStartTime    = "day_start_time"
	keyDayEndTime      = "day_end_time"
)

// SQLiteStore keeps settings as key-value rows and history in two tables.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at path and applies pending
// migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := RunMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	// sqlite takes one writer at a time.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db, path: path}, nil
}

// RunMigrations applies all embedded migrations to the database at path.
// The migrator uses its own connection, which it closes when done.
func RunMigrations(path string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+path)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Location() string { return s.path }

func (s *SQLiteStore) Close() error { return s.db.Close() }

// LoadSettings reads the key-value rows back into a record.
func (s *SQLiteStore) LoadSettings() (*SettingsRecord, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	defer rows.Close()

	kv := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning settings: %w", err)
		}
		kv[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if len(kv) == 0 {
		return nil, ErrNotExist
	}

	rec := &SettingsRecord{Version: schemaVersion}
	if v, ok := kv[keyVersion]; ok {
		rec.Version, _ = strconv.Atoi(v)
	}
	if v, ok := kv[keyIntervalMinutes]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", keyIntervalMinutes, err)
		}
		rec.IntervalMinutes = n
	}
	if v, ok := kv[keyActivityOrder]; ok {
		if err := json.Unmarshal([]byte(v), &rec.Plan.Order); err != nil {
			return nil, fmt.Errorf("parse %s: %w", keyActivityOrder, err)
		}
	}
	if v, ok := kv[keyActivities]; ok {
		if err := json.Unmarshal([]byte(v), &rec.Plan.Activities); err != nil {
			return nil, fmt.Errorf("parse %s: %w", keyActivities, err)
		}
	}
	rec.Plan.LastCompleted = kv[keyLastCompleted]
	rec.Plan.NextUp = kv[keyNextUp]
	rec.Day.Started = kv[keyDayStarted] == "true"
	if rec.Day.StartTime, err = parseOptionalTime(kv[keyDayStartTime]); err != nil {
		return nil, fmt.Errorf("parse %s: %w", keyDayStartTime, err)
	}
	if rec.Day.EndTime, err = parseOptionalTime(kv[keyDayEndTime]); err != nil {
		return nil, fmt.Errorf("parse %s: %w", keyDayEndTime, err)
	}
	return rec, nil
}

// SaveSettings upserts every key in one transaction.
func (s *SQLiteStore) SaveSettings(rec *SettingsRecord) error {
	order, err := json.Marshal(rec.Plan.Order)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", keyActivityOrder, err)
	}
	activities, err := json.Marshal(rec.Plan.Activities)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", keyActivities, err)
	}

	kv := map[string]string{
		keyVersion:         strconv.Itoa(schemaVersion),
		keyIntervalMinutes: strconv.Itoa(rec.IntervalMinutes),
		keyActivityOrder:   string(order),
		keyActivities:      string(activities),
		keyLastCompleted:   rec.Plan.LastCompleted,
		keyNextUp:          rec.Plan.NextUp,
		keyDayStarted:      strconv.FormatBool(rec.Day.Started),
		keyDayStartTime:    formatOptionalTime(rec.Day.StartTime),
		keyDayEndTime:      formatOptionalTime(rec.Day.EndTime),
	}

	return s.inTx(func(tx *sql.Tx) error {
		for k, v := range kv {
			_, err := tx.Exec(
				`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				k, v,
			)
			if err != nil {
				return fmt.Errorf("saving setting %s: %w", k, err)
			}
		}
		return nil
	})
}

// LoadHistory reads both history tables.
func (s *SQLiteStore) LoadHistory() (*HistoryRecord, error) {
	rec := emptyHistory()

	rows, err := s.db.Query(`SELECT day, activity, count FROM daily_completions WHERE count > 0`)
	if err != nil {
		return nil, fmt.Errorf("querying completions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var day, act string
		var n int
		if err := rows.Scan(&day, &act, &n); err != nil {
			return nil, fmt.Errorf("scanning completions: %w", err)
		}
		if rec.DailyCompletions[day] == nil {
			rec.DailyCompletions[day] = map[activity.Type]int{}
		}
		rec.DailyCompletions[day][activity.Type(act)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading completions: %w", err)
	}

	trows, err := s.db.Query(`SELECT day, COALESCE(start_time, ''), COALESCE(end_time, '') FROM daily_times`)
	if err != nil {
		return nil, fmt.Errorf("querying day times: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var day, start, end string
		if err := trows.Scan(&day, &start, &end); err != nil {
			return nil, fmt.Errorf("scanning day times: %w", err)
		}
		var dt ledger.DayTimes
		if dt.Start, err = parseOptionalTime(start); err != nil {
			return nil, fmt.Errorf("parse start time for %s: %w", day, err)
		}
		if dt.End, err = parseOptionalTime(end); err != nil {
			return nil, fmt.Errorf("parse end time for %s: %w", day, err)
		}
		rec.DailyTimes[day] = dt
	}
	if err := trows.Err(); err != nil {
		return nil, fmt.Errorf("reading day times: %w", err)
	}
	return rec, nil
}

// SaveHistory replaces both history tables with rec.
func (s *SQLiteStore) SaveHistory(rec *HistoryRecord) error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM daily_completions`); err != nil {
			return fmt.Errorf("clearing completions: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM daily_times`); err != nil {
			return fmt.Errorf("clearing day times: %w", err)
		}

		insCount, err := tx.Prepare(`INSERT INTO daily_completions (day, activity, count) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing completions insert: %w", err)
		}
		defer insCount.Close()
		for day, counts := range rec.DailyCompletions {
			for act, n := range counts {
				if n <= 0 {
					continue
				}
				if _, err := insCount.Exec(day, string(act), n); err != nil {
					return fmt.Errorf("saving completions for %s: %w", day, err)
				}
			}
		}

		insTimes, err := tx.Prepare(`INSERT INTO daily_times (day, start_time, end_time) VALUES (?, NULLIF(?, ''), NULLIF(?, ''))`)
		if err != nil {
			return fmt.Errorf("preparing day times insert: %w", err)
		}
		defer insTimes.Close()
		for day, dt := range rec.DailyTimes {
			if _, err := insTimes.Exec(day, formatOptionalTime(dt.Start), formatOptionalTime(dt.End)); err != nil {
				return fmt.Errorf("saving day times for %s: %w", day, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
