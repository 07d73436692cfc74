// This file contains the backup subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"breather/internal/backup"
)

const backupHelpText = `breather backup - Create and manage backups

USAGE:
    breather backup [OPTIONS]

OPTIONS:
    -l, --list       List available backups
    -p, --prune N    Keep only the N most recent backups
    -h, --help       Show this help message

DESCRIPTION:
    Creates a timestamped backup of your data files (settings and history,
    or the SQLite database). Backups are stored in ~/.breather/backups/.

EXAMPLES:
    # Create a new backup
    breather backup

    # List all available backups
    breather backup --list

    # Keep the last ten
    breather backup --prune 10
`

// runBackup handles the "breather backup" subcommand.
func runBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)

	listFlag := fs.Bool("list", false, "list available backups")
	fs.BoolVar(listFlag, "l", false, "list available backups (shorthand)")

	pruneFlag := fs.Int("prune", 0, "keep only the N most recent backups")
	fs.IntVar(pruneFlag, "p", 0, "keep only the N most recent backups (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, backupHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(backupHelpText)
		os.Exit(0)
	}

	cfg := mustLoadConfig()
	manager := backup.NewManager(cfg.GetDataDir(), version)

	switch {
	case *listFlag:
		listBackups(manager)
	case *pruneFlag > 0:
		removed, err := manager.Prune(*pruneFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error pruning backups: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ Removed %d old backup(s)\n", removed)
	default:
		createBackup(manager)
	}
}

// createBackup creates a new backup and displays the result.
func createBackup(manager *backup.Manager) {
	name, err := manager.Create()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating backup: %v\n", err)
		os.Exit(1)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading backup info: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Backup created: %s\n", name)
	printStats(info)
	fmt.Printf("  Location: %s\n", info.Path)
}

// listBackups lists all available backups, newest first.
func listBackups(manager *backup.Manager) {
	backups, err := manager.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing backups: %v\n", err)
		os.Exit(1)
	}

	if len(backups) == 0 {
		fmt.Println("No backups available.")
		fmt.Println("Run 'breather backup' to create one.")
		return
	}

	fmt.Println("Available backups:")
	for _, b := range backups {
		fmt.Printf("  %s  (%s)   Days: %d, Completions: %d\n",
			b.Name, formatAge(b.CreatedAt), b.Stats[backup.StatDays], b.Stats[backup.StatCompletions])
	}
}

func printStats(info *backup.BackupInfo) {
	fmt.Printf("  Activities: %d, Days: %d, Completions: %d\n",
		info.Stats[backup.StatActivities], info.Stats[backup.StatDays], info.Stats[backup.StatCompletions])
}

// formatAge returns a human-readable age string.
func formatAge(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return plural(int(d.Hours()/24/7), "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
