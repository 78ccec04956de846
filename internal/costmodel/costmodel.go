// Package costmodel prices the friction of a simulated trade: slippage on
// each fill and a round-trip commission. Pure numeric functions; validation
// of tick values belongs to the caller's boundary.
package costmodel

import "trade-scenario-lab/internal/domain"

// LegsPerTrade is the number of fills slippage applies to: one entry, one
// exit. Exactly two, never four.
const LegsPerTrade = 2

// SlippagePoints returns the adverse price adjustment per fill, in points.
func SlippagePoints(params *domain.ScenarioParams) float64 {
	return params.SlippageTicks
}

// EntryFill returns the entry price after slippage worsens the fill:
// longs pay up, shorts sell down.
func EntryFill(entryPrice float64, direction domain.Direction, params *domain.ScenarioParams) float64 {
	return entryPrice + direction.Sign()*SlippagePoints(params)
}

// ExitFill returns the exit price after slippage worsens the fill:
// longs sell down, shorts cover up.
func ExitFill(exitPrice float64, direction domain.Direction, params *domain.ScenarioParams) float64 {
	return exitPrice - direction.Sign()*SlippagePoints(params)
}

// SlippageCost is the dollar value of both slippage legs for the position.
// The legs are already embedded in the fill prices; this figure is reported
// on the trade and must never be subtracted from a P&L computed off fills.
func SlippageCost(spec domain.InstrumentSpec, params *domain.ScenarioParams, contracts int) float64 {
	return float64(LegsPerTrade) * SlippagePoints(params) * spec.TickValue * float64(contracts)
}

// Commission is the single round-trip charge for the position, applied once
// per trade regardless of how the exit fired.
func Commission(params *domain.ScenarioParams, contracts int) float64 {
	return params.CommissionPerContract * float64(contracts)
}
