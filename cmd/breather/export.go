// This file contains the export subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"breather/internal/fsutil"
	"breather/internal/reports"
)

const exportHelpText = `breather export - Generate activity reports

USAGE:
    breather export [OPTIONS] [DATE]

OPTIONS:
    -d, --daily        Generate daily report (default)
    -w, --weekly       Generate weekly report
    -f, --format FMT   Output format: json (default) or markdown
    -o, --output FILE  Write to file instead of stdout
    -h, --help         Show this help message

ARGUMENTS:
    DATE               Date for report (YYYY-MM-DD). Defaults to today.
                       For weekly reports, any day inside the week.

DESCRIPTION:
    Summarizes completed activities per type, the completion percentage
    against the enabled rotation, and when the day started and ended.
    Weekly reports add a per-day breakdown and the current streak.

EXAMPLES:
    # Today's report as JSON
    breather export

    # Specific date
    breather export 2026-10-14

    # This week in Markdown, saved to a file
    breather export --weekly --format markdown --output week.md
`

// runExport handles the "breather export" subcommand.
func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	dailyFlag := fs.Bool("daily", false, "generate daily report")
	fs.BoolVar(dailyFlag, "d", false, "generate daily report (shorthand)")

	weeklyFlag := fs.Bool("weekly", false, "generate weekly report")
	fs.BoolVar(weeklyFlag, "w", false, "generate weekly report (shorthand)")

	formatFlag := fs.String("format", "json", "output format: json or markdown")
	fs.StringVar(formatFlag, "f", "json", "output format (shorthand)")

	outputFlag := fs.String("output", "", "write to file instead of stdout")
	fs.StringVar(outputFlag, "o", "", "write to file (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, exportHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(exportHelpText)
		os.Exit(0)
	}

	format, err := reports.ParseFormat(*formatFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	date := time.Now()
	if fs.NArg() > 0 {
		parsed, err := time.ParseInLocation("2006-01-02", fs.Arg(0), time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid date %q. Use YYYY-MM-DD format.\n", fs.Arg(0))
			os.Exit(1)
		}
		date = parsed
	}

	cfg := mustLoadConfig()
	s := mustLoadSettings(cfg, quietLogger())
	defer s.Store().Close()

	gen := reports.NewGenerator(s.Ledger(), s.Plan().EnabledTypes())

	var output []byte
	if *weeklyFlag && !*dailyFlag {
		output, err = reports.FormatWeekly(gen.GenerateWeekly(date), format)
	} else {
		output, err = reports.FormatDaily(gen.GenerateDaily(date), format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting report: %v\n", err)
		os.Exit(1)
	}
	if format == reports.FormatJSON {
		output = append(output, '\n')
	}

	if *outputFlag == "" {
		os.Stdout.Write(output)
		return
	}

	if dir := filepath.Dir(*outputFlag); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
	}
	if err := fsutil.WriteFileAtomic(*outputFlag, output, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Report written to %s\n", *outputFlag)
}
