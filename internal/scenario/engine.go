// Package scenario orchestrates the simulation core: it filters trades,
// sizes positions, re-derives exits against price bars, applies costs and
// reduces the result to metrics. Each Evaluate call is pure and independent;
// concurrent evaluations share nothing but the borrowed inputs.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"trade-scenario-lab/internal/costmodel"
	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/exitsim"
	"trade-scenario-lab/internal/metrics"
	"trade-scenario-lab/internal/sizing"
	"trade-scenario-lab/internal/validate"
)

// ErrUnknownInstrument is returned when a trade references an instrument the
// engine has no spec for. Structural: the whole batch is rejected.
var ErrUnknownInstrument = errors.New("unknown instrument")

// Result is the output of one scenario evaluation: the simulated trade set
// and its metrics, owned by the caller.
type Result struct {
	ScenarioID      string
	ScenarioName    string
	SimulatedTrades []*domain.SimulatedTrade
	Report          *metrics.Report
	Metrics         map[string]float64
}

// Engine evaluates scenarios over baseline trades and price bars.
type Engine struct {
	instruments map[string]domain.InstrumentSpec
}

// NewEngine creates an engine knowing the given instrument specs.
func NewEngine(specs ...domain.InstrumentSpec) *Engine {
	instruments := make(map[string]domain.InstrumentSpec, len(specs))
	for _, s := range specs {
		instruments[s.InstrumentID] = s
	}
	return &Engine{instruments: instruments}
}

// Evaluate replays trades under the scenario's constraints. bars is keyed by
// instrument ID and may be nil; trades whose windows lack bar coverage fall
// back to their original exits individually. Structural problems (bad
// params, malformed trades, unknown instruments) reject the whole batch.
func (e *Engine) Evaluate(trades []*domain.Trade, bars map[string][]*domain.PriceBar, sc *domain.Scenario, startingCapital float64) (*Result, error) {
	params := sc.Params
	if err := validate.Params(&params); err != nil {
		return nil, err
	}
	if err := validate.Trades(trades); err != nil {
		return nil, err
	}
	for _, t := range trades {
		if _, ok := e.instruments[t.InstrumentID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownInstrument, t.InstrumentID)
		}
	}

	sortedBars := sortBarsByInstrument(bars)

	// Entry filters first: excluded trades contribute to neither side of
	// this scenario's comparison.
	eligible := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if entryAllowed(t, &params) {
			eligible = append(eligible, t)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].EntryTime.Before(eligible[j].EntryTime)
	})

	simulated := make([]*domain.SimulatedTrade, 0, len(eligible))
	for _, t := range eligible {
		spec := e.instruments[t.InstrumentID]
		st := e.simulateOne(t, spec, &params, sortedBars[t.InstrumentID], startingCapital)

		if params.MaxConcurrentPositions != nil &&
			openPositionsAt(simulated, st.EntryTime) >= *params.MaxConcurrentPositions {
			continue
		}
		simulated = append(simulated, st)
	}

	report := metrics.Compute(simulated, startingCapital)
	return &Result{
		ScenarioID:      sc.ID,
		ScenarioName:    sc.Name,
		SimulatedTrades: simulated,
		Report:          report,
		Metrics:         report.Mapping(),
	}, nil
}

// Baseline reduces the unmodified trade set, the comparison anchor for every
// scenario.
func (e *Engine) Baseline(trades []*domain.Trade, startingCapital float64) (*metrics.Report, error) {
	if err := validate.Trades(trades); err != nil {
		return nil, err
	}
	baseline := make([]*domain.SimulatedTrade, len(trades))
	for i, t := range trades {
		baseline[i] = domain.FromBaseline(t)
	}
	return metrics.Compute(baseline, startingCapital), nil
}

// simulateOne derives the simulated trade for one baseline record.
func (e *Engine) simulateOne(t *domain.Trade, spec domain.InstrumentSpec, params *domain.ScenarioParams, bars []*domain.PriceBar, startingCapital float64) *domain.SimulatedTrade {
	contracts := sizing.Contracts(startingCapital, params, spec.MarginRequirement)
	exit := exitsim.Simulate(t, params, bars)

	entryFill := costmodel.EntryFill(t.EntryPrice, t.Direction, params)
	exitFill := costmodel.ExitFill(exit.ExitPrice, t.Direction, params)
	slippageCost := costmodel.SlippageCost(spec, params, contracts)
	commission := costmodel.Commission(params, contracts)

	// Slippage already lives inside the fills; only commission is deducted
	// here. Subtracting slippageCost again would double-count it.
	netPnL := t.Direction.Sign() * (exitFill - entryFill) * spec.TickValue * float64(contracts)
	netPnL -= commission

	st := &domain.SimulatedTrade{
		InstrumentID:   t.InstrumentID,
		Direction:      t.Direction,
		EntryTime:      t.EntryTime,
		ExitTime:       exit.ExitTime,
		EntryPrice:     entryFill,
		ExitPrice:      exitFill,
		HoldingMinutes: exit.ExitTime.Sub(t.EntryTime).Minutes(),
		ExitReason:     exit.Reason,
		Contracts:      contracts,
		SlippageCost:   slippageCost,
		CommissionCost: commission,
		NetPnL:         netPnL,
	}
	st.RMultiple = rMultiple(t, netPnL)
	return st
}

// rMultiple normalizes the simulated P&L by the trade's initial risk,
// estimating risk as half the absolute outcome when none was recorded.
func rMultiple(t *domain.Trade, netPnL float64) *float64 {
	risk := 0.0
	if t.InitialRisk != nil {
		risk = math.Abs(*t.InitialRisk)
	} else if netPnL != 0 {
		risk = math.Abs(netPnL) * 0.5
	}
	if risk == 0 {
		zero := 0.0
		return &zero
	}
	r := netPnL / risk
	return &r
}

// openPositionsAt counts already-accepted simulated trades still open at the
// given entry time. Accepted trades arrive in entry-time order, so a linear
// scan over their exit times is enough.
func openPositionsAt(accepted []*domain.SimulatedTrade, at time.Time) int {
	open := 0
	for _, st := range accepted {
		if st.ExitTime.After(at) {
			open++
		}
	}
	return open
}

// sortBarsByInstrument returns per-instrument copies sorted chronologically,
// the ordering contract the exit simulator relies on.
func sortBarsByInstrument(bars map[string][]*domain.PriceBar) map[string][]*domain.PriceBar {
	sorted := make(map[string][]*domain.PriceBar, len(bars))
	for id, series := range bars {
		cp := make([]*domain.PriceBar, len(series))
		copy(cp, series)
		sort.SliceStable(cp, func(i, j int) bool {
			return cp[i].Timestamp.Before(cp[j].Timestamp)
		})
		sorted[id] = cp
	}
	return sorted
}
