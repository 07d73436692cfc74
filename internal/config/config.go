// Package config handles configuration loading and defaults for breather.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/breather/config.yaml).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"breather/internal/fsutil"
	"breather/internal/notify"
	"breather/internal/rollover"
	"breather/internal/storage"
	"breather/internal/timer"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.breather)
	DataDir string `yaml:"data_dir,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`

	// Notifications configures the "activity due" desktop notification
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	Storage  StorageConfig  `yaml:"storage,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Schedule ScheduleConfig `yaml:"schedule,omitempty"`

	// Defaults seed the persisted settings on first run
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
}

// NotificationConfig defines desktop notification settings.
type NotificationConfig struct {
	Enabled bool `yaml:"enabled"`
	Sound   bool `yaml:"sound"`
}

// Notify converts the section into the notifier's own config type.
func (n NotificationConfig) Notify() notify.Config {
	return notify.Config{Enabled: n.Enabled, Sound: n.Sound}
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	// Global keys
	Quit     string `yaml:"quit,omitempty"`      // default: "q,ctrl+c"
	Help     string `yaml:"help,omitempty"`      // default: "?"
	NextPane string `yaml:"next_pane,omitempty"` // default: "tab"
	Pane1    string `yaml:"pane_1,omitempty"`    // default: "1"
	Pane2    string `yaml:"pane_2,omitempty"`    // default: "2"
	Pane3    string `yaml:"pane_3,omitempty"`    // default: "3"

	// Navigation keys
	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Top    string `yaml:"top,omitempty"`    // default: "g"
	Bottom string `yaml:"bottom,omitempty"` // default: "G"

	// Timer keys
	ToggleTimer  string `yaml:"toggle_timer,omitempty"`  // default: "space,enter"
	SkipTimer    string `yaml:"skip_timer,omitempty"`    // default: "s"
	ResetTimer   string `yaml:"reset_timer,omitempty"`   // default: "r"
	EndDay       string `yaml:"end_day,omitempty"`       // default: "E"
	IntervalUp   string `yaml:"interval_up,omitempty"`   // default: "+,="
	IntervalDown string `yaml:"interval_down,omitempty"` // default: "-"
	SetInterval  string `yaml:"set_interval,omitempty"`  // default: "i"

	// Plan keys
	ToggleActivity    string `yaml:"toggle_activity,omitempty"`    // default: "space,enter"
	EditActivity      string `yaml:"edit_activity,omitempty"`      // default: "e"
	DuplicateActivity string `yaml:"duplicate_activity,omitempty"` // default: "d"
	RemoveActivity    string `yaml:"remove_activity,omitempty"`    // default: "x"
	MoveUp            string `yaml:"move_up,omitempty"`            // default: "K,shift+up"
	MoveDown          string `yaml:"move_down,omitempty"`          // default: "J,shift+down"
	SetNextUp         string `yaml:"set_next_up,omitempty"`        // default: "n"

	// Session keys
	ToggleBreathing  string `yaml:"toggle_breathing,omitempty"`  // default: "space"
	CompleteExercise string `yaml:"complete_exercise,omitempty"` // default: "enter"
	SkipActivity     string `yaml:"skip_activity,omitempty"`     // default: "s"
	ToggleHoldEmpty  string `yaml:"toggle_hold_empty,omitempty"` // default: "h"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"

	// Undo/Redo keys
	Undo string `yaml:"undo,omitempty"` // default: "ctrl+z,u"
	Redo string `yaml:"redo,omitempty"` // default: "ctrl+y"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmRemovals asks before removing a plan entry
	ConfirmRemovals bool `yaml:"confirm_removals"` // default: true

	// NarrowLayoutThreshold is the terminal width below which to use stacked layout
	NarrowLayoutThreshold int `yaml:"narrow_layout_threshold,omitempty"` // default: 80

	// AutoStartSessions starts breathing or an exercise as soon as it opens
	AutoStartSessions bool `yaml:"auto_start_sessions"` // default: false

	// FrameRate is the animation rate of the breathing guide, in frames per second
	FrameRate int `yaml:"frame_rate,omitempty"` // default: 30
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty"` // json or sqlite
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
	File  string `yaml:"file,omitempty"`  // default: <data_dir>/breather.log
}

// ScheduleConfig controls the day rollover job.
type ScheduleConfig struct {
	Rollover string `yaml:"rollover,omitempty"` // cron expression
	Timezone string `yaml:"timezone,omitempty"` // IANA name or "Local"
}

// DefaultsConfig holds first-run values.
type DefaultsConfig struct {
	IntervalMinutes int `yaml:"interval_minutes,omitempty"`
}

const (
	defaultFrameRate = 30
	maxFrameRate     = 120
	logFileName      = "breather.log"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Theme: ThemeConfig{
			Primary:    "#4FC3F7", // Inhale blue
			Accent:     "#81C784", // Green
			Muted:      "#6B7280", // Gray
			Background: "",        // Terminal default
			Text:       "",        // Terminal default
		},
		UX: UXConfig{
			ConfirmRemovals:       true,
			NarrowLayoutThreshold: 80,
			AutoStartSessions:     false,
			FrameRate:             defaultFrameRate,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
		},
		Storage: StorageConfig{
			Backend: storage.BackendJSON,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Schedule: ScheduleConfig{
			Rollover: rollover.DefaultSchedule,
			Timezone: "Local",
		},
		Defaults: DefaultsConfig{
			IntervalMinutes: timer.DefaultIntervalMinutes,
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".breather"
	}
	return filepath.Join(home, ".breather")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "breather")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "breather")
}

// Path returns the path to the config file.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults, then applies
// environment overrides. If no config file exists, the defaults are used.
//
// Environment overrides use the BREATHER_ prefix:
//
//	BREATHER_DATA_DIR, BREATHER_STORAGE_BACKEND,
//	BREATHER_LOG_LEVEL, BREATHER_LOG_FILE,
//	BREATHER_TIMEZONE, BREATHER_ROLLOVER_SCHEDULE,
//	BREATHER_INTERVAL_MINUTES, BREATHER_NOTIFICATIONS
func Load() (*Config, error) {
	cfg := Default()

	if path := Path(); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.mergeYAML(data); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeYAML(data []byte) error {
	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	// Merge user config with defaults (presence-aware for booleans)
	c.mergeFromYAML(&userCfg, &doc)
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BREATHER_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("BREATHER_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("BREATHER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BREATHER_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("BREATHER_TIMEZONE"); v != "" {
		cfg.Schedule.Timezone = v
	}
	if v := os.Getenv("BREATHER_ROLLOVER_SCHEDULE"); v != "" {
		cfg.Schedule.Rollover = v
	}
	if v := os.Getenv("BREATHER_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.IntervalMinutes = n
		}
	}
	if v := os.Getenv("BREATHER_NOTIFICATIONS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Notifications.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "", storage.BackendJSON, storage.BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", storage.BackendJSON, storage.BackendSQLite, c.Storage.Backend)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Schedule.Rollover != "" {
		if err := rollover.Validate(c.Schedule.Rollover); err != nil {
			return fmt.Errorf("schedule.rollover: %w", err)
		}
	}
	if tz := c.Schedule.Timezone; tz != "" && tz != "Local" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("schedule.timezone: %w", err)
		}
	}
	if n := c.Defaults.IntervalMinutes; n != 0 && (n < timer.MinIntervalMinutes || n > timer.MaxIntervalMinutes) {
		return fmt.Errorf("defaults.interval_minutes must be between %d and %d, got %d", timer.MinIntervalMinutes, timer.MaxIntervalMinutes, n)
	}
	if c.UX.FrameRate < 0 || c.UX.FrameRate > maxFrameRate {
		return fmt.Errorf("ux.frame_rate must be between 1 and %d, got %d", maxFrameRate, c.UX.FrameRate)
	}
	return nil
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	setString(&c.DataDir, other.DataDir)

	setString(&c.Theme.Primary, other.Theme.Primary)
	setString(&c.Theme.Accent, other.Theme.Accent)
	setString(&c.Theme.Muted, other.Theme.Muted)
	setString(&c.Theme.Background, other.Theme.Background)
	setString(&c.Theme.Text, other.Theme.Text)

	k, o := &c.Keys, other.Keys
	for dst, src := range map[*string]string{
		&k.Quit: o.Quit, &k.Help: o.Help, &k.NextPane: o.NextPane,
		&k.Pane1: o.Pane1, &k.Pane2: o.Pane2, &k.Pane3: o.Pane3,
		&k.Up: o.Up, &k.Down: o.Down, &k.Top: o.Top, &k.Bottom: o.Bottom,
		&k.ToggleTimer: o.ToggleTimer,
		&k.SkipTimer:   o.SkipTimer, &k.ResetTimer: o.ResetTimer, &k.EndDay: o.EndDay,
		&k.IntervalUp: o.IntervalUp, &k.IntervalDown: o.IntervalDown, &k.SetInterval: o.SetInterval,
		&k.ToggleActivity: o.ToggleActivity, &k.EditActivity: o.EditActivity,
		&k.DuplicateActivity: o.DuplicateActivity, &k.RemoveActivity: o.RemoveActivity,
		&k.MoveUp: o.MoveUp, &k.MoveDown: o.MoveDown, &k.SetNextUp: o.SetNextUp,
		&k.ToggleBreathing: o.ToggleBreathing, &k.CompleteExercise: o.CompleteExercise,
		&k.SkipActivity: o.SkipActivity, &k.ToggleHoldEmpty: o.ToggleHoldEmpty,
		&k.Confirm: o.Confirm, &k.Cancel: o.Cancel, &k.Undo: o.Undo, &k.Redo: o.Redo,
	} {
		setString(dst, src)
	}

	if other.UX.NarrowLayoutThreshold > 0 {
		c.UX.NarrowLayoutThreshold = other.UX.NarrowLayoutThreshold
	}
	if other.UX.FrameRate != 0 {
		c.UX.FrameRate = other.UX.FrameRate
	}

	setString(&c.Storage.Backend, other.Storage.Backend)
	setString(&c.Logging.Level, other.Logging.Level)
	setString(&c.Logging.File, other.Logging.File)
	setString(&c.Schedule.Rollover, other.Schedule.Rollover)
	setString(&c.Schedule.Timezone, other.Schedule.Timezone)

	if other.Defaults.IntervalMinutes != 0 {
		c.Defaults.IntervalMinutes = other.Defaults.IntervalMinutes
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a document we cannot tell an explicit false from a missing key.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "ux", "confirm_removals") {
		c.UX.ConfirmRemovals = other.UX.ConfirmRemovals
	}
	if yamlHasPath(doc, "ux", "auto_start_sessions") {
		c.UX.AutoStartSessions = other.UX.AutoStartSessions
	}
	if yamlHasPath(doc, "notifications", "enabled") {
		c.Notifications.Enabled = other.Notifications.Enabled
	}
	if yamlHasPath(doc, "notifications", "sound") {
		c.Notifications.Sound = other.Notifications.Sound
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// GetLogFile returns the log file path, defaulting to breather.log in the
// data directory.
func (c *Config) GetLogFile() string {
	if c.Logging.File != "" {
		return expandHome(c.Logging.File)
	}
	return filepath.Join(c.GetDataDir(), logFileName)
}

// GetLogLevel returns the configured level, or info when unset.
func (c *Config) GetLogLevel() slog.Level {
	lvl, err := parseLevel(c.Logging.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// GetTimezone returns the configured location, falling back to time.Local.
func (c *Config) GetTimezone() *time.Location {
	if c.Schedule.Timezone == "" || c.Schedule.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetFrameInterval returns the breathing animation frame period.
func (c *Config) GetFrameInterval() time.Duration {
	fps := c.UX.FrameRate
	if fps <= 0 {
		fps = defaultFrameRate
	}
	return time.Second / time.Duration(fps)
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return lvl, nil
}

func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
