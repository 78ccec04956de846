package metrics

import (
	"time"

	"trade-scenario-lab/internal/domain"
)

// EquityPoint is one step of the cumulative equity curve.
type EquityPoint struct {
	ExitTime      time.Time
	NetPnL        float64
	Equity        float64 // starting capital + cumulative net P&L
	HighWaterMark float64
	Drawdown      float64 // equity - high water mark, <= 0
}

// equityCurve accumulates net P&L over trades already sorted by exit time.
func equityCurve(sorted []*domain.SimulatedTrade, startingCapital float64) []EquityPoint {
	curve := make([]EquityPoint, len(sorted))
	equity := startingCapital
	hwm := startingCapital
	for i, t := range sorted {
		equity += t.NetPnL
		if equity > hwm {
			hwm = equity
		}
		curve[i] = EquityPoint{
			ExitTime:      t.ExitTime,
			NetPnL:        t.NetPnL,
			Equity:        equity,
			HighWaterMark: hwm,
			Drawdown:      equity - hwm,
		}
	}
	return curve
}

// drawdownStats walks the curve for the high-water mark, the largest
// peak-to-trough decline (dollars and percent of starting capital), and the
// longest underwater stretch in days.
func drawdownStats(curve []EquityPoint, startingCapital float64) (hwm, maxDD, maxDDPct float64, durationDays int) {
	hwm = startingCapital
	if len(curve) == 0 {
		return hwm, 0, 0, 0
	}

	for _, p := range curve {
		if p.HighWaterMark > hwm {
			hwm = p.HighWaterMark
		}
		if dd := -p.Drawdown; dd > maxDD {
			maxDD = dd
		}
	}
	if startingCapital > 0 {
		maxDDPct = maxDD / startingCapital * 100
	}

	// Longest underwater run, measured in calendar days between exits.
	current := 0
	var prevDate time.Time
	for _, p := range curve {
		date := p.ExitTime.Truncate(24 * time.Hour)
		if p.Drawdown < 0 {
			if current == 0 {
				current = 1
			} else {
				days := int(date.Sub(prevDate).Hours() / 24)
				if days < 1 {
					days = 1
				}
				current += days
			}
			if current > durationDays {
				durationDays = current
			}
		} else {
			current = 0
		}
		prevDate = date
	}

	return hwm, maxDD, maxDDPct, durationDays
}
