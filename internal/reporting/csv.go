package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the comparison as a CSV string. One row per
// (metric, scenario) pair so the output stays flat regardless of how many
// scenarios the portfolio holds.
func RenderCSV(c *Comparison) string {
	var sb strings.Builder

	sb.WriteString("metric,baseline,scenario,value,delta,delta_pct\n")

	for _, row := range c.Rows {
		for _, cell := range row.Cells {
			sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s\n",
				row.Key,
				formatValue(row.Baseline),
				csvEscape(cell.ScenarioName),
				formatValue(cell.Value),
				formatValue(cell.Delta),
				formatValue(cell.DeltaPct),
			))
		}
	}

	return sb.String()
}

// csvEscape quotes a field when it contains a comma or quote.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
