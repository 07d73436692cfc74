package reports

import (
	"time"

	"breather/internal/ledger"
)

// DefaultHeatmapDays is the rolling window shown in the history view.
const DefaultHeatmapDays = 90

// Heatmap returns one cell per day for the days ending at end, oldest first.
func (g *Generator) Heatmap(end time.Time, days int) []HeatCell {
	if days <= 0 {
		days = DefaultHeatmapDays
	}
	end = startOfDay(end)
	start := end.AddDate(0, 0, -(days - 1))

	cells := make([]HeatCell, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		pct := g.ledger.CompletionPercentage(day, g.enabled)
		total := g.ledger.Total(day)
		cells = append(cells, HeatCell{
			Date:       ledger.DateKey(day),
			Weekday:    day.Weekday(),
			Total:      total,
			Percentage: pct * 100,
			Level:      heatLevel(total, pct),
		})
	}
	return cells
}

// heatLevel buckets a day into 0..4. Any completion is at least level 1.
func heatLevel(total int, pct float64) int {
	switch {
	case total == 0:
		return 0
	case pct >= 1:
		return 4
	case pct >= 0.5:
		return 3
	case pct > 0:
		return 2
	default:
		return 1
	}
}
