// This file contains the history subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"breather/internal/reports"
)

const historyHelpText = `breather history - Print the completion heat-map

USAGE:
    breather history [OPTIONS]

OPTIONS:
    -n, --days N   Number of days to show (default 90)
    -h, --help     Show this help message

DESCRIPTION:
    Prints one cell per day, one row per weekday, shaded by how much of the
    enabled rotation was completed that day:

        ·  nothing   ░  some   ▒  half   ▓  most   █  all
`

// heatGlyphs index by reports.HeatCell.Level.
var heatGlyphs = [...]string{"·", "░", "▒", "▓", "█"}

// runHistory handles the "breather history" subcommand.
func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)

	daysFlag := fs.Int("days", reports.DefaultHeatmapDays, "number of days to show")
	fs.IntVar(daysFlag, "n", reports.DefaultHeatmapDays, "number of days to show (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, historyHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(historyHelpText)
		os.Exit(0)
	}

	if *daysFlag < 1 {
		fmt.Fprintln(os.Stderr, "Error: --days must be at least 1")
		os.Exit(1)
	}

	cfg := mustLoadConfig()
	s := mustLoadSettings(cfg, quietLogger())
	defer s.Store().Close()

	gen := reports.NewGenerator(s.Ledger(), s.Plan().EnabledTypes())
	now := time.Now()
	cells := gen.Heatmap(now, *daysFlag)

	fmt.Print(renderHeatmap(cells))
	fmt.Println()

	total, active := 0, 0
	for _, c := range cells {
		total += c.Total
		if c.Total > 0 {
			active++
		}
	}
	fmt.Printf("%d completions on %d of %d days\n", total, active, len(cells))
	fmt.Printf("Current streak: %d day(s)\n", gen.StreakAt(now))
}

// renderHeatmap lays cells out in week columns, Sunday on top. The first
// column is padded so every row lines up on its weekday.
func renderHeatmap(cells []reports.HeatCell) string {
	if len(cells) == 0 {
		return ""
	}
	lead := int(cells[0].Weekday)
	cols := (lead + len(cells) + 6) / 7

	rows := make([][]string, 7)
	for d := range rows {
		rows[d] = make([]string, cols)
		for c := range rows[d] {
			rows[d][c] = " "
		}
	}
	for i, cell := range cells {
		pos := lead + i
		rows[pos%7][pos/7] = heatGlyphs[min(max(cell.Level, 0), len(heatGlyphs)-1)]
	}

	var b strings.Builder
	for d, row := range rows {
		fmt.Fprintf(&b, "%s  %s\n", time.Weekday(d).String()[:3], strings.Join(row, " "))
	}
	return b.String()
}
