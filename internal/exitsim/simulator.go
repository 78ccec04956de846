// Package exitsim re-derives the exit of one historical trade under
// hypothetical stop-loss, take-profit and holding-time constraints by
// walking the intraperiod bars of its holding window.
package exitsim

import (
	"time"

	"trade-scenario-lab/internal/domain"
)

// Result is the simulated exit decision for one trade. ExitPrice is the
// signal price at the level or close that fired; slippage adjustment of the
// fill is the cost model's job.
type Result struct {
	ExitTime  time.Time
	ExitPrice float64
	Reason    domain.ExitReason
}

// Simulate walks the bars covering the trade's holding window, in
// chronological order, and decides which constraint would have fired first.
// bars must be the trade's instrument, sorted by Timestamp ascending; the
// scenario engine guarantees both. Missing or empty bar coverage degrades
// this one trade to its original exit, never the batch.
func Simulate(trade *domain.Trade, params *domain.ScenarioParams, bars []*domain.PriceBar) Result {
	original := Result{
		ExitTime:  trade.ExitTime,
		ExitPrice: trade.ExitPrice,
		Reason:    domain.ExitReasonOriginalExit,
	}

	stopActive := params.StopLossActive()
	targetActive := params.TakeProfitActive()

	// The window closes at the original exit, or earlier at the max-hold
	// boundary when one applies inside the recorded holding time.
	windowEnd := trade.ExitTime
	var boundary time.Time
	maxHoldActive := false
	if params.MaxHoldingMinutes != nil {
		boundary = trade.EntryTime.Add(minutes(*params.MaxHoldingMinutes))
		if boundary.Before(trade.ExitTime) {
			maxHoldActive = true
			windowEnd = boundary
		}
	}

	if !stopActive && !targetActive && !maxHoldActive {
		return original
	}

	stopLevel := stopLossLevel(trade, params)
	targetLevel := takeProfitLevel(trade, params)

	// No stop or target may fire before the minimum holding time elapses.
	earliestExit := trade.EntryTime.Add(minutes(params.MinHoldingMinutes))

	var lastBar *domain.PriceBar
	for _, bar := range bars {
		if bar.Timestamp.Before(trade.EntryTime) {
			continue
		}
		if bar.Timestamp.After(windowEnd) {
			break
		}
		lastBar = bar

		if bar.Timestamp.Before(earliestExit) {
			continue
		}

		stopTouched := stopActive && touchesStop(trade.Direction, bar, stopLevel)
		targetTouched := targetActive && touchesTarget(trade.Direction, bar, targetLevel)

		switch {
		case stopTouched && targetTouched:
			if params.SameBarPolicy == domain.SameBarTakeProfitFirst {
				return Result{ExitTime: bar.Timestamp, ExitPrice: targetLevel, Reason: domain.ExitReasonTakeProfit}
			}
			return Result{ExitTime: bar.Timestamp, ExitPrice: stopLevel, Reason: domain.ExitReasonStopLoss}
		case stopTouched:
			return Result{ExitTime: bar.Timestamp, ExitPrice: stopLevel, Reason: domain.ExitReasonStopLoss}
		case targetTouched:
			return Result{ExitTime: bar.Timestamp, ExitPrice: targetLevel, Reason: domain.ExitReasonTakeProfit}
		}
	}

	if lastBar == nil {
		// No bars cover the window: recover locally.
		return original
	}

	if maxHoldActive {
		return Result{ExitTime: boundary, ExitPrice: lastBar.Close, Reason: domain.ExitReasonMaxHoldTime}
	}

	// Window exhausted with no trigger: the simulator never invents an exit
	// the record does not show.
	return original
}

// stopLossLevel resolves the configured stop to an absolute price.
func stopLossLevel(trade *domain.Trade, params *domain.ScenarioParams) float64 {
	switch {
	case params.StopLossPct != nil:
		return trade.EntryPrice * (1 - trade.Direction.Sign()**params.StopLossPct)
	case params.StopLossTicks != nil:
		return trade.EntryPrice - trade.Direction.Sign()**params.StopLossTicks
	default:
		return 0
	}
}

// takeProfitLevel resolves the configured target to an absolute price.
func takeProfitLevel(trade *domain.Trade, params *domain.ScenarioParams) float64 {
	switch {
	case params.TakeProfitPct != nil:
		return trade.EntryPrice * (1 + trade.Direction.Sign()**params.TakeProfitPct)
	case params.TakeProfitTicks != nil:
		return trade.EntryPrice + trade.Direction.Sign()**params.TakeProfitTicks
	default:
		return 0
	}
}

// touchesStop checks the adverse extreme of the bar against the stop level.
func touchesStop(d domain.Direction, bar *domain.PriceBar, level float64) bool {
	if d == domain.DirectionShort {
		return bar.High >= level
	}
	return bar.Low <= level
}

// touchesTarget checks the favorable extreme of the bar against the target.
func touchesTarget(d domain.Direction, bar *domain.PriceBar, level float64) bool {
	if d == domain.DirectionShort {
		return bar.Low <= level
	}
	return bar.High >= level
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
