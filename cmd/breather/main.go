// Package main is the entry point for the breather application.
// It loads configuration, opens storage, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"breather/internal/config"
	"breather/internal/engine"
	"breather/internal/notify"
	"breather/internal/rollover"
	"breather/internal/settings"
	"breather/internal/storage"
	"breather/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `breather - Breathing and movement breaks for your terminal

USAGE:
    breather [OPTIONS]
    breather <command> [ARGS]

COMMANDS:
    backup             Create a backup of all data
    backup --list      List available backups
    restore NAME       Restore from a specific backup
    restore --latest   Restore from the most recent backup
    export             Generate a daily report (JSON)
    export --weekly    Generate a weekly report
    export -f markdown Output report as Markdown
    history            Print the completion heat-map

OPTIONS:
    -h, --help         Show this help message
    -v, --version      Show version information

DESCRIPTION:
    breather counts down a work interval, then walks you through the next
    activity in your rotation: a guided 4-6-8 breathing exercise or a set
    of push-ups, sit-ups or squats. Completions are tallied per day.

KEYBINDINGS:
    Global:
        Tab          Switch between panes
        1, 2, 3      Jump to specific pane
        ?            Show help overlay
        Ctrl+Z, u    Undo last rotation edit
        Ctrl+Y       Redo
        q            Quit

    Countdown Pane:
        Space        Start/pause countdown
        s            Breathe now (skip the wait)
        r            Reset countdown
        +/-          Change interval
        i            Type an interval
        E            End the day

    Rotation Pane:
        j/k, ↓/↑     Navigate
        Space        Enable/disable activity
        K/J          Move up/down
        d            Duplicate entry
        x            Remove entry
        n            Make next up
        e            Edit reps or cycles
        h            Toggle the breathing rest phase

    Session:
        Space        Start/pause
        Enter        Done (exercises)
        s            Skip
        Esc          Close

DATA STORAGE:
    Data lives in ~/.breather/ as settings.json and history.json, or as
    breather.db with storage.backend: sqlite.

CONFIGURATION:
    Optional config file: ~/.config/breather/config.yaml
    BREATHER_* environment variables override it.

EXAMPLES:
    # Start the app
    breather

    # Create a backup
    breather backup

    # This week's report as Markdown
    breather export --weekly --format markdown

    # The last four weeks
    breather history --days 28
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		case "history":
			runHistory(os.Args[2:])
			return
		}
	}

	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("breather version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	cfg := mustLoadConfig()

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	s := mustLoadSettings(cfg, logger)
	defer s.Store().Close()

	ctrl := engine.New(s, engine.Options{
		Logger:            logger,
		Notifier:          notify.FromConfig(cfg.Notifications.Notify(), notify.New(), logger),
		AutoStartSessions: cfg.UX.AutoStartSessions,
	})

	appCfg := &ui.AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmRemovals:       cfg.UX.ConfirmRemovals,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
		FrameInterval:         cfg.GetFrameInterval(),
	}
	p := ui.NewProgram(ctrl, ui.NewStyles(cfg), appCfg)

	sched := rollover.New(cfg.Schedule.Rollover, cfg.GetTimezone(), logger, ui.RolloverFunc(p))
	sched.Start()
	defer sched.Stop()

	logger.Info("breather started", "version", version, "backend", cfg.Storage.Backend, "data_dir", cfg.GetDataDir())

	if _, err := p.Run(); err != nil {
		logger.Error("app exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// mustLoadConfig loads ~/.config/breather/config.yaml or exits.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// mustLoadSettings opens the configured backend and loads persisted state.
// Recovered corrupt files are logged by settings.Load, not reported here.
func mustLoadSettings(cfg *config.Config, logger *slog.Logger) *settings.Settings {
	store, err := storage.Open(cfg.Storage.Backend, cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	s, err := settings.Load(store, settings.Defaults{IntervalMinutes: cfg.Defaults.IntervalMinutes}, logger)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		os.Exit(1)
	}
	return s
}

// openLogger sends structured logs to the configured file, since the TUI
// owns stdout.
func openLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	path := cfg.GetLogFile()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.GetLogLevel()}))
	return logger, func() { f.Close() }, nil
}

// quietLogger is used by subcommands, which report on stdout/stderr.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
