// Package metrics reduces a trade set, baseline or simulated, to the
// canonical performance statistics used to rank and compare scenarios.
// Everything here is pure; an empty input yields a zeroed report, never an
// error, so comparison surfaces can render "no data" instead of crashing.
package metrics

import (
	"math"
	"sort"

	"trade-scenario-lab/internal/domain"
)

// AnnualizationPeriods is the trading-day factor applied to Sharpe and
// Sortino, consistent with one aggregate return per trade day.
const AnnualizationPeriods = 252

// Report holds every computed statistic for one trade set.
type Report struct {
	// Counts
	TotalTrades int
	Wins        int
	Losses      int
	WinRate     float64 // wins / total, in [0, 1]

	// P&L
	TotalPnL         float64
	GrossProfit      float64
	GrossLoss        float64 // absolute value
	ProfitFactor     float64 // +Inf when gross loss is zero and profit positive
	ExpectancyDollar float64 // mean net P&L
	ExpectancyR      float64 // mean R-multiple where recorded
	AvgWin           float64
	AvgLoss          float64
	LargestWin       float64
	LargestLoss      float64

	// Durations (minutes)
	AvgWinHoldingMinutes  float64
	AvgLossHoldingMinutes float64

	// Equity, ordered by exit time
	EquityCurve          []EquityPoint
	HighWaterMark        float64
	MaxDrawdown          float64
	MaxDrawdownPct       float64
	DrawdownDurationDays int
	RecoveryFactor       float64

	// Risk-adjusted
	SharpeRatio  float64
	SortinoRatio float64 // NaN when no negative returns exist

	// Streaks
	WinStreak  int
	LossStreak int

	// Composite
	RiskOfRuin        float64 // percent, 0..100
	TradeQualityScore float64 // 0..100
	TradesPerDay      float64

	// Distributions
	PnLDistribution       Distribution
	RMultipleDistribution Distribution

	// Time-bucketed aggregates keyed by (weekday, entry hour)
	TimeBuckets []TimeBucket

	// Calendar-month P&L keyed by exit (year, month)
	MonthlyReturns []MonthlyReturn
}

// Compute reduces trades to a full report. Ordering by exit time (stable on
// ties by entry time, then input order) is enforced here, never assumed of
// the caller.
func Compute(trades []*domain.SimulatedTrade, startingCapital float64) *Report {
	n := len(trades)
	if n == 0 {
		return &Report{HighWaterMark: startingCapital}
	}

	sorted := make([]*domain.SimulatedTrade, n)
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ExitTime.Equal(sorted[j].ExitTime) {
			return sorted[i].ExitTime.Before(sorted[j].ExitTime)
		}
		return sorted[i].EntryTime.Before(sorted[j].EntryTime)
	})

	r := &Report{TotalTrades: n}

	var (
		winPnL, lossPnL         float64
		winMinutes, lossMinutes float64
		largestWin, largestLoss float64
		curWins, curLosses      int
		rValues                 []float64
	)
	pnls := make([]float64, 0, n)

	for _, t := range sorted {
		pnl := t.NetPnL
		pnls = append(pnls, pnl)
		r.TotalPnL += pnl

		switch {
		case pnl > 0:
			r.Wins++
			winPnL += pnl
			winMinutes += t.HoldingMinutes
			if pnl > largestWin {
				largestWin = pnl
			}
			curWins++
			curLosses = 0
			if curWins > r.WinStreak {
				r.WinStreak = curWins
			}
		case pnl < 0:
			r.Losses++
			lossPnL += pnl
			lossMinutes += t.HoldingMinutes
			if pnl < largestLoss {
				largestLoss = pnl
			}
			curLosses++
			curWins = 0
			if curLosses > r.LossStreak {
				r.LossStreak = curLosses
			}
		default:
			// Breakeven counts as neither, but it interrupts streaks.
			curWins = 0
			curLosses = 0
		}

		if t.RMultiple != nil {
			rValues = append(rValues, *t.RMultiple)
		}
	}

	r.WinRate = float64(r.Wins) / float64(n)
	r.GrossProfit = winPnL
	r.GrossLoss = math.Abs(lossPnL)
	r.ProfitFactor = profitFactor(r.GrossProfit, r.GrossLoss)
	r.ExpectancyDollar = r.TotalPnL / float64(n)
	r.ExpectancyR = mean(rValues)
	r.LargestWin = largestWin
	r.LargestLoss = largestLoss

	if r.Wins > 0 {
		r.AvgWin = winPnL / float64(r.Wins)
		r.AvgWinHoldingMinutes = winMinutes / float64(r.Wins)
	}
	if r.Losses > 0 {
		r.AvgLoss = lossPnL / float64(r.Losses)
		r.AvgLossHoldingMinutes = lossMinutes / float64(r.Losses)
	}

	r.EquityCurve = equityCurve(sorted, startingCapital)
	r.HighWaterMark, r.MaxDrawdown, r.MaxDrawdownPct, r.DrawdownDurationDays = drawdownStats(r.EquityCurve, startingCapital)
	if r.MaxDrawdown > 0 {
		r.RecoveryFactor = r.TotalPnL / r.MaxDrawdown
	}

	returns := make([]float64, n)
	for i, pnl := range pnls {
		returns[i] = pnl / startingCapital
	}
	r.SharpeRatio = sharpe(returns)
	r.SortinoRatio = sortino(returns)

	r.RiskOfRuin = riskOfRuin(r.WinRate, r.AvgWin, math.Abs(r.AvgLoss), startingCapital)
	r.TradeQualityScore = tradeQualityScore(r.SharpeRatio, r.ExpectancyR, r.ProfitFactor)
	r.TradesPerDay = tradesPerDay(sorted)

	r.PnLDistribution = describe(pnls)
	r.RMultipleDistribution = describe(rValues)
	r.TimeBuckets = timeBuckets(sorted)
	r.MonthlyReturns = monthlyReturns(sorted)

	return r
}

// profitFactor returns gross profit over absolute gross loss. A zero gross
// loss yields +Inf when there is profit and 0 otherwise, never a division
// fault.
func profitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss == 0 {
		if grossProfit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossProfit / grossLoss
}

// sharpe is mean over sample stddev of per-trade returns, annualized.
func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	m := mean(returns)
	sd := stddev(returns, m)
	if sd == 0 {
		return 0
	}
	return m / sd * math.Sqrt(AnnualizationPeriods)
}

// sortino uses downside deviation computed over negative returns only.
// With no negative returns the ratio is undefined and reported as NaN.
func sortino(returns []float64) float64 {
	var sumSq float64
	negatives := 0
	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
			negatives++
		}
	}
	if negatives == 0 {
		return math.NaN()
	}
	downside := math.Sqrt(sumSq / float64(negatives))
	if downside == 0 {
		return math.NaN()
	}
	return mean(returns) / downside * math.Sqrt(AnnualizationPeriods)
}

// riskOfRuin is a Kelly-style estimate: probability, in percent, of drawing
// down the full capital given the observed win rate and payoff ratio.
func riskOfRuin(winProb, avgWin, avgLoss, capital float64) float64 {
	if avgLoss == 0 || winProb == 0 {
		return 0
	}
	payoff := avgWin / avgLoss
	if payoff == 0 {
		return 100
	}
	if winProb >= 1 {
		return 0
	}
	q := 1 - winProb
	exponent := capital / avgLoss
	var ror float64
	if payoff == 1 {
		ror = math.Pow(q/winProb, exponent)
	} else {
		ror = math.Pow(q/winProb*payoff, exponent)
	}
	return math.Min(ror*100, 100)
}

// tradeQualityScore folds Sharpe, R expectancy and profit factor into a
// 0-100 composite, one third each.
func tradeQualityScore(sharpeRatio, expectancyR, pf float64) float64 {
	var score float64
	if sharpeRatio > 0 {
		score += math.Min(sharpeRatio/3*33.33, 33.33)
	}
	if expectancyR > 0 {
		score += math.Min(expectancyR/2*33.33, 33.33)
	}
	if pf > 1 && !math.IsInf(pf, 1) {
		score += math.Min((pf-1)/2*33.33, 33.33)
	} else if math.IsInf(pf, 1) {
		score += 33.33
	}
	return score
}

// tradesPerDay is the mean trade count over distinct exit dates.
func tradesPerDay(sorted []*domain.SimulatedTrade) float64 {
	if len(sorted) == 0 {
		return 0
	}
	days := make(map[string]struct{})
	for _, t := range sorted {
		days[t.ExitTime.Format("2006-01-02")] = struct{}{}
	}
	return float64(len(sorted)) / float64(len(days))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation (n-1 denominator).
func stddev(values []float64, m float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}
