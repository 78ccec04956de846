// Package sizing computes contract quantity from capital allocation
// parameters. Every component that sizes positions must go through
// Contracts; applying allocation without the instrument split share
// double-counts capital.
package sizing

import (
	"math"

	"trade-scenario-lab/internal/domain"
)

// Contracts returns the whole number of contracts the scenario deploys on
// one trade. capital_for_trade = starting_capital * allocation_pct *
// instrument_split_pct * capital_multiplier; contracts floor to zero when
// the slice of capital cannot cover one margin requirement.
func Contracts(startingCapital float64, params *domain.ScenarioParams, marginRequirement float64) int {
	if marginRequirement <= 0 {
		return 0
	}
	capitalForTrade := startingCapital * params.AllocationPct * params.InstrumentSplitPct * params.CapitalMultiplier
	contracts := int(math.Floor(capitalForTrade / marginRequirement))
	if contracts < 0 {
		return 0
	}
	return contracts
}
