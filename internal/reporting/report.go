// Package reporting shapes scenario evaluation output into a comparison
// matrix against the baseline and renders it as Markdown or CSV.
package reporting

import (
	"math"
	"time"

	"trade-scenario-lab/internal/metrics"
	"trade-scenario-lab/internal/scenario"
)

// Comparison is the per-portfolio comparison report: the baseline column plus
// one column per evaluated scenario, across the canonical metric key set.
type Comparison struct {
	GeneratedAt   time.Time
	PortfolioName string
	ScenarioCount int

	// Rows, in metrics.MetricKeys order.
	Rows []MetricRow
}

// MetricRow is one metric across baseline and all scenarios.
type MetricRow struct {
	Key      string
	Baseline float64
	Cells    []Cell
}

// Cell is one scenario's value for one metric.
type Cell struct {
	ScenarioName string
	Value        float64
	Delta        float64
	DeltaPct     float64 // NaN when the baseline value is zero
}

// BuildComparison assembles the matrix from a baseline report and the
// scenario results, column order following the results slice.
func BuildComparison(portfolioName string, baseline *metrics.Report, results []*scenario.Result) *Comparison {
	base := baseline.Mapping()

	rows := make([]MetricRow, 0, len(metrics.MetricKeys))
	for _, key := range metrics.MetricKeys {
		row := MetricRow{
			Key:      key,
			Baseline: base[key],
			Cells:    make([]Cell, 0, len(results)),
		}
		for _, res := range results {
			value := res.Metrics[key]
			row.Cells = append(row.Cells, Cell{
				ScenarioName: res.ScenarioName,
				Value:        value,
				Delta:        value - row.Baseline,
				DeltaPct:     deltaPct(value, row.Baseline),
			})
		}
		rows = append(rows, row)
	}

	return &Comparison{
		GeneratedAt:   time.Now().UTC(),
		PortfolioName: portfolioName,
		ScenarioCount: len(results),
		Rows:          rows,
	}
}

// deltaPct is the relative change vs baseline in percent. A zero baseline has
// no meaningful relative change; NaN marks the cell rather than faking one.
func deltaPct(value, baseline float64) float64 {
	if baseline == 0 {
		return math.NaN()
	}
	return (value - baseline) / math.Abs(baseline) * 100
}
