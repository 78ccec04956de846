package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RenderMarkdown renders the comparison as a Markdown string.
func RenderMarkdown(c *Comparison) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Scenario Comparison: %s\n\n", c.PortfolioName))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", c.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Scenarios: %d\n\n", c.ScenarioCount))

	if len(c.Rows) == 0 {
		sb.WriteString("No metrics available.\n")
		return sb.String()
	}

	// Header row: metric, baseline, then value/delta pairs per scenario.
	sb.WriteString("| Metric | Baseline |")
	if len(c.Rows[0].Cells) > 0 {
		for _, cell := range c.Rows[0].Cells {
			sb.WriteString(fmt.Sprintf(" %s | Δ%% |", cell.ScenarioName))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("|--------|----------|")
	for range c.Rows[0].Cells {
		sb.WriteString("-------|-----|")
	}
	sb.WriteString("\n")

	for _, row := range c.Rows {
		sb.WriteString(fmt.Sprintf("| %s | %s |", row.Key, formatValue(row.Baseline)))
		for _, cell := range row.Cells {
			sb.WriteString(fmt.Sprintf(" %s | %s |", formatValue(cell.Value), formatPct(cell.DeltaPct)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// formatValue renders a metric value, keeping sentinel values readable.
func formatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "n/a"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return fmt.Sprintf("%.4f", v)
	}
}

// formatPct renders a delta percentage.
func formatPct(v float64) string {
	switch {
	case math.IsNaN(v):
		return "n/a"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return fmt.Sprintf("%+.2f%%", v)
	}
}
