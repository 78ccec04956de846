package metrics

import (
	"math"
	"testing"
	"time"

	"trade-scenario-lab/internal/domain"
)

var baseTime = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

// simTrade builds a simulated trade with the given net P&L, entered
// dayOffset days and hourOffset hours after the base time and held one hour.
func simTrade(netPnL float64, dayOffset, hourOffset int) *domain.SimulatedTrade {
	entry := baseTime.AddDate(0, 0, dayOffset).Add(time.Duration(hourOffset) * time.Hour)
	return &domain.SimulatedTrade{
		InstrumentID:   "MES",
		Direction:      domain.DirectionLong,
		EntryTime:      entry,
		ExitTime:       entry.Add(time.Hour),
		HoldingMinutes: 60,
		Contracts:      1,
		NetPnL:         netPnL,
	}
}

func withR(t *domain.SimulatedTrade, r float64) *domain.SimulatedTrade {
	t.RMultiple = &r
	return t
}

func TestCompute_EmptySet(t *testing.T) {
	r := Compute(nil, 50000)

	if r.TotalTrades != 0 {
		t.Errorf("expected 0 trades, got %d", r.TotalTrades)
	}
	if r.WinRate != 0 || r.TotalPnL != 0 || r.ProfitFactor != 0 {
		t.Errorf("expected zeroed stats, got winRate %f, pnl %f, pf %f", r.WinRate, r.TotalPnL, r.ProfitFactor)
	}
	if r.HighWaterMark != 50000 {
		t.Errorf("expected high-water mark at starting capital, got %f", r.HighWaterMark)
	}
	if len(r.EquityCurve) != 0 {
		t.Errorf("expected empty equity curve, got %d points", len(r.EquityCurve))
	}
}

func TestCompute_CountsAndPnL(t *testing.T) {
	trades := []*domain.SimulatedTrade{
		simTrade(100, 0, 0),
		simTrade(-50, 1, 0),
		simTrade(200, 2, 0),
		simTrade(0, 3, 0), // breakeven: neither win nor loss
		simTrade(-25, 4, 0),
	}

	r := Compute(trades, 50000)

	if r.TotalTrades != 5 {
		t.Errorf("expected 5 trades, got %d", r.TotalTrades)
	}
	if r.Wins != 2 || r.Losses != 2 {
		t.Errorf("expected 2 wins and 2 losses, got %d/%d", r.Wins, r.Losses)
	}
	if math.Abs(r.WinRate-0.4) > 1e-9 {
		t.Errorf("expected win rate 0.4, got %f", r.WinRate)
	}
	if math.Abs(r.TotalPnL-225) > 1e-9 {
		t.Errorf("expected total pnl 225, got %f", r.TotalPnL)
	}
	if math.Abs(r.GrossProfit-300) > 1e-9 || math.Abs(r.GrossLoss-75) > 1e-9 {
		t.Errorf("expected gross 300/75, got %f/%f", r.GrossProfit, r.GrossLoss)
	}
	if math.Abs(r.ProfitFactor-4.0) > 1e-9 {
		t.Errorf("expected profit factor 4.0, got %f", r.ProfitFactor)
	}
	if math.Abs(r.ExpectancyDollar-45) > 1e-9 {
		t.Errorf("expected expectancy 45, got %f", r.ExpectancyDollar)
	}
	if math.Abs(r.AvgWin-150) > 1e-9 {
		t.Errorf("expected avg win 150, got %f", r.AvgWin)
	}
	if math.Abs(r.AvgLoss-(-37.5)) > 1e-9 {
		t.Errorf("expected avg loss -37.5, got %f", r.AvgLoss)
	}
	if r.LargestWin != 200 || r.LargestLoss != -50 {
		t.Errorf("expected largest 200/-50, got %f/%f", r.LargestWin, r.LargestLoss)
	}
}

func TestCompute_ProfitFactorSentinels(t *testing.T) {
	// All winners: +Inf, not a division fault.
	allWins := Compute([]*domain.SimulatedTrade{simTrade(100, 0, 0), simTrade(50, 1, 0)}, 50000)
	if !math.IsInf(allWins.ProfitFactor, 1) {
		t.Errorf("expected +Inf profit factor, got %f", allWins.ProfitFactor)
	}

	// All losers: 0.
	allLosses := Compute([]*domain.SimulatedTrade{simTrade(-100, 0, 0)}, 50000)
	if allLosses.ProfitFactor != 0 {
		t.Errorf("expected 0 profit factor, got %f", allLosses.ProfitFactor)
	}
}

func TestCompute_EquityCurveRecurrence(t *testing.T) {
	trades := []*domain.SimulatedTrade{
		simTrade(100, 0, 0),
		simTrade(-300, 1, 0),
		simTrade(250, 2, 0),
	}

	r := Compute(trades, 1000)

	if len(r.EquityCurve) != 3 {
		t.Fatalf("expected 3 equity points, got %d", len(r.EquityCurve))
	}

	// equity[i] = equity[i-1] + netPnL[i]
	equity := 1000.0
	for i, p := range r.EquityCurve {
		equity += p.NetPnL
		if math.Abs(p.Equity-equity) > 1e-9 {
			t.Errorf("point %d: expected equity %f, got %f", i, equity, p.Equity)
		}
		if p.Drawdown > 0 {
			t.Errorf("point %d: drawdown must be <= 0, got %f", i, p.Drawdown)
		}
	}

	// Peak 1100, trough 800: drawdown 300 dollars, 30% of capital.
	if math.Abs(r.HighWaterMark-1100) > 1e-9 {
		t.Errorf("expected high-water mark 1100, got %f", r.HighWaterMark)
	}
	if math.Abs(r.MaxDrawdown-300) > 1e-9 {
		t.Errorf("expected max drawdown 300, got %f", r.MaxDrawdown)
	}
	if math.Abs(r.MaxDrawdownPct-30) > 1e-9 {
		t.Errorf("expected max drawdown 30%%, got %f", r.MaxDrawdownPct)
	}
	if math.Abs(r.RecoveryFactor-50.0/300.0) > 1e-9 {
		t.Errorf("expected recovery factor %f, got %f", 50.0/300.0, r.RecoveryFactor)
	}
}

func TestCompute_SortsObservationsByExitTime(t *testing.T) {
	// Same trades fed in reverse order produce the same curve.
	forward := []*domain.SimulatedTrade{simTrade(100, 0, 0), simTrade(-300, 1, 0), simTrade(250, 2, 0)}
	backward := []*domain.SimulatedTrade{forward[2], forward[1], forward[0]}

	a := Compute(forward, 1000)
	b := Compute(backward, 1000)

	if math.Abs(a.MaxDrawdown-b.MaxDrawdown) > 1e-9 {
		t.Errorf("drawdown differs by input order: %f vs %f", a.MaxDrawdown, b.MaxDrawdown)
	}
	for i := range a.EquityCurve {
		if math.Abs(a.EquityCurve[i].Equity-b.EquityCurve[i].Equity) > 1e-9 {
			t.Errorf("equity point %d differs by input order", i)
		}
	}
}

func TestCompute_Streaks(t *testing.T) {
	trades := []*domain.SimulatedTrade{
		simTrade(10, 0, 0),
		simTrade(10, 1, 0),
		simTrade(10, 2, 0),
		simTrade(0, 3, 0), // breakeven interrupts
		simTrade(10, 4, 0),
		simTrade(-10, 5, 0),
		simTrade(-10, 6, 0),
	}

	r := Compute(trades, 50000)

	if r.WinStreak != 3 {
		t.Errorf("expected win streak 3, got %d", r.WinStreak)
	}
	if r.LossStreak != 2 {
		t.Errorf("expected loss streak 2, got %d", r.LossStreak)
	}
}

func TestCompute_SortinoNaNWithoutLosses(t *testing.T) {
	r := Compute([]*domain.SimulatedTrade{simTrade(100, 0, 0), simTrade(50, 1, 0)}, 50000)

	if !math.IsNaN(r.SortinoRatio) {
		t.Errorf("expected NaN sortino with no negative returns, got %f", r.SortinoRatio)
	}
}

func TestCompute_SharpeZeroForDegenerateSeries(t *testing.T) {
	// Single trade: no variance to normalize by.
	one := Compute([]*domain.SimulatedTrade{simTrade(100, 0, 0)}, 50000)
	if one.SharpeRatio != 0 {
		t.Errorf("expected sharpe 0 for a single trade, got %f", one.SharpeRatio)
	}

	// Identical returns: stddev 0.
	flat := Compute([]*domain.SimulatedTrade{simTrade(100, 0, 0), simTrade(100, 1, 0)}, 50000)
	if flat.SharpeRatio != 0 {
		t.Errorf("expected sharpe 0 for zero variance, got %f", flat.SharpeRatio)
	}
}

func TestCompute_SharpeHandComputed(t *testing.T) {
	// Returns 0.01 and -0.005 on capital 10000: mean 0.0025,
	// sample sd = 0.0106066..., sharpe = mean/sd*sqrt(252).
	trades := []*domain.SimulatedTrade{simTrade(100, 0, 0), simTrade(-50, 1, 0)}
	r := Compute(trades, 10000)

	m := (0.01 + -0.005) / 2
	sd := math.Sqrt((math.Pow(0.01-m, 2) + math.Pow(-0.005-m, 2)) / 1)
	want := m / sd * math.Sqrt(252)

	if math.Abs(r.SharpeRatio-want) > 1e-9 {
		t.Errorf("expected sharpe %f, got %f", want, r.SharpeRatio)
	}
}

func TestCompute_ExpectancyROnlyRecordedValues(t *testing.T) {
	trades := []*domain.SimulatedTrade{
		withR(simTrade(100, 0, 0), 2.0),
		withR(simTrade(-50, 1, 0), -1.0),
		simTrade(10, 2, 0), // no R recorded
	}

	r := Compute(trades, 50000)

	if math.Abs(r.ExpectancyR-0.5) > 1e-9 {
		t.Errorf("expected expectancy 0.5R over recorded values, got %f", r.ExpectancyR)
	}
	if r.RMultipleDistribution.Count != 2 {
		t.Errorf("expected R distribution over 2 values, got %d", r.RMultipleDistribution.Count)
	}
}

func TestCompute_TradesPerDay(t *testing.T) {
	trades := []*domain.SimulatedTrade{
		simTrade(10, 0, 0),
		simTrade(10, 0, 2), // same exit date
		simTrade(10, 1, 0),
	}

	r := Compute(trades, 50000)

	if math.Abs(r.TradesPerDay-1.5) > 1e-9 {
		t.Errorf("expected 1.5 trades/day, got %f", r.TradesPerDay)
	}
}

func TestCompute_TimeBuckets(t *testing.T) {
	trades := []*domain.SimulatedTrade{
		simTrade(10, 0, 0),  // Monday 09:30
		simTrade(-10, 0, 0), // same bucket
		simTrade(20, 1, 1),  // Tuesday 10:30
	}

	r := Compute(trades, 50000)

	if len(r.TimeBuckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(r.TimeBuckets))
	}

	monday := r.TimeBuckets[0]
	if monday.Weekday != time.Monday || monday.Hour != 9 {
		t.Errorf("expected Monday 9h bucket first, got %v %dh", monday.Weekday, monday.Hour)
	}
	if monday.Trades != 2 || math.Abs(monday.TotalPnL-0) > 1e-9 {
		t.Errorf("expected 2 trades netting 0, got %d netting %f", monday.Trades, monday.TotalPnL)
	}
	if math.Abs(monday.WinRate-0.5) > 1e-9 {
		t.Errorf("expected bucket win rate 0.5, got %f", monday.WinRate)
	}
}

func TestCompute_MonthlyReturns(t *testing.T) {
	// Base time is 2025-03-10; offsets of 30 and 400 days land in April 2025
	// and April 2026. Insertion order is scrambled on purpose.
	trades := []*domain.SimulatedTrade{
		simTrade(75, 400, 0), // 2026-04
		simTrade(100, 0, 0),  // 2025-03
		simTrade(-40, 1, 0),  // 2025-03
		simTrade(50, 30, 0),  // 2025-04
	}

	r := Compute(trades, 50000)

	if len(r.MonthlyReturns) != 3 {
		t.Fatalf("expected 3 months, got %d", len(r.MonthlyReturns))
	}

	march := r.MonthlyReturns[0]
	if march.Year != 2025 || march.Month != time.March {
		t.Errorf("expected 2025-03 first, got %d-%v", march.Year, march.Month)
	}
	if march.Trades != 2 || math.Abs(march.TotalPnL-60) > 1e-9 {
		t.Errorf("expected 2 trades netting 60, got %d netting %f", march.Trades, march.TotalPnL)
	}

	april := r.MonthlyReturns[1]
	if april.Year != 2025 || april.Month != time.April || math.Abs(april.TotalPnL-50) > 1e-9 {
		t.Errorf("expected 2025-04 netting 50, got %d-%v netting %f", april.Year, april.Month, april.TotalPnL)
	}

	nextYear := r.MonthlyReturns[2]
	if nextYear.Year != 2026 || nextYear.Month != time.April {
		t.Errorf("expected 2026-04 last, got %d-%v", nextYear.Year, nextYear.Month)
	}
}

func TestCompute_MonthlyReturnsKeyedByExitTime(t *testing.T) {
	// A trade entered on the last day of March exiting in April counts
	// toward April.
	entry := time.Date(2025, 3, 31, 23, 30, 0, 0, time.UTC)
	tr := &domain.SimulatedTrade{
		InstrumentID:   "MES",
		Direction:      domain.DirectionLong,
		EntryTime:      entry,
		ExitTime:       entry.Add(time.Hour),
		HoldingMinutes: 60,
		Contracts:      1,
		NetPnL:         25,
	}

	r := Compute([]*domain.SimulatedTrade{tr}, 50000)

	if len(r.MonthlyReturns) != 1 {
		t.Fatalf("expected 1 month, got %d", len(r.MonthlyReturns))
	}
	if r.MonthlyReturns[0].Month != time.April {
		t.Errorf("expected April, got %v", r.MonthlyReturns[0].Month)
	}
}

func TestDescribe_HandComputed(t *testing.T) {
	d := describe([]float64{1, 2, 3, 4})

	if d.Count != 4 {
		t.Errorf("expected count 4, got %d", d.Count)
	}
	if math.Abs(d.Mean-2.5) > 1e-9 {
		t.Errorf("expected mean 2.5, got %f", d.Mean)
	}
	if math.Abs(d.Median-2.5) > 1e-9 {
		t.Errorf("expected median 2.5, got %f", d.Median)
	}
	// Sample variance of {1,2,3,4} is 5/3.
	if math.Abs(d.StdDev-math.Sqrt(5.0/3.0)) > 1e-9 {
		t.Errorf("expected stddev %f, got %f", math.Sqrt(5.0/3.0), d.StdDev)
	}
	if d.Min != 1 || d.Max != 4 {
		t.Errorf("expected min/max 1/4, got %f/%f", d.Min, d.Max)
	}
	// Symmetric series: zero skew. Population kurtosis of this series is
	// 1.64, excess -1.36.
	if math.Abs(d.Skewness) > 1e-9 {
		t.Errorf("expected zero skewness, got %f", d.Skewness)
	}
	if math.Abs(d.Kurtosis-(-1.36)) > 1e-9 {
		t.Errorf("expected excess kurtosis -1.36, got %f", d.Kurtosis)
	}
}

func TestDescribe_Degenerate(t *testing.T) {
	empty := describe(nil)
	if empty.Count != 0 || empty.Mean != 0 {
		t.Errorf("expected zeroed distribution, got %+v", empty)
	}

	constant := describe([]float64{5, 5, 5})
	if constant.StdDev != 0 || constant.Skewness != 0 || constant.Kurtosis != 0 {
		t.Errorf("expected zero shape stats for constant series, got %+v", constant)
	}

	odd := describe([]float64{3, 1, 2})
	if odd.Median != 2 {
		t.Errorf("expected median 2, got %f", odd.Median)
	}
}

func TestCompute_DrawdownDurationDays(t *testing.T) {
	// Underwater from day 1 through day 3.
	trades := []*domain.SimulatedTrade{
		simTrade(100, 0, 0),
		simTrade(-200, 1, 0),
		simTrade(50, 2, 0),
		simTrade(40, 3, 0),
		simTrade(500, 4, 0), // recovers above the mark
	}

	r := Compute(trades, 1000)

	if r.DrawdownDurationDays != 3 {
		t.Errorf("expected 3 underwater days, got %d", r.DrawdownDurationDays)
	}
}

func TestMapping_CoversAllKeys(t *testing.T) {
	m := (&Report{}).Mapping()

	if len(m) != len(MetricKeys) {
		t.Fatalf("mapping has %d entries, MetricKeys lists %d", len(m), len(MetricKeys))
	}
	for _, key := range MetricKeys {
		if _, ok := m[key]; !ok {
			t.Errorf("key %q missing from mapping", key)
		}
	}
}
