package metrics

// Mapping flattens the report into the canonical key -> value form the
// comparison layer consumes. Equity curve and bucket series are shaped data
// and stay on the report itself.
func (r *Report) Mapping() map[string]float64 {
	return map[string]float64{
		"total_trades":           float64(r.TotalTrades),
		"num_wins":               float64(r.Wins),
		"num_losses":             float64(r.Losses),
		"win_rate":               r.WinRate,
		"total_pnl":              r.TotalPnL,
		"gross_profit":           r.GrossProfit,
		"gross_loss":             r.GrossLoss,
		"profit_factor":          r.ProfitFactor,
		"expectancy_dollar":      r.ExpectancyDollar,
		"expectancy_r":           r.ExpectancyR,
		"avg_win":                r.AvgWin,
		"avg_loss":               r.AvgLoss,
		"largest_win":            r.LargestWin,
		"largest_loss":           r.LargestLoss,
		"avg_win_duration":       r.AvgWinHoldingMinutes,
		"avg_loss_duration":      r.AvgLossHoldingMinutes,
		"high_water_mark":        r.HighWaterMark,
		"max_drawdown":           r.MaxDrawdown,
		"max_drawdown_pct":       r.MaxDrawdownPct,
		"drawdown_duration_days": float64(r.DrawdownDurationDays),
		"recovery_factor":        r.RecoveryFactor,
		"sharpe_ratio":           r.SharpeRatio,
		"sortino_ratio":          r.SortinoRatio,
		"win_streak":             float64(r.WinStreak),
		"loss_streak":            float64(r.LossStreak),
		"risk_of_ruin":           r.RiskOfRuin,
		"trade_quality_score":    r.TradeQualityScore,
		"trades_per_day":         r.TradesPerDay,
		"pnl_mean":               r.PnLDistribution.Mean,
		"pnl_median":             r.PnLDistribution.Median,
		"pnl_stddev":             r.PnLDistribution.StdDev,
		"pnl_skewness":           r.PnLDistribution.Skewness,
		"pnl_kurtosis":           r.PnLDistribution.Kurtosis,
		"pnl_min":                r.PnLDistribution.Min,
		"pnl_max":                r.PnLDistribution.Max,
		"r_mean":                 r.RMultipleDistribution.Mean,
		"r_median":               r.RMultipleDistribution.Median,
		"r_stddev":               r.RMultipleDistribution.StdDev,
	}
}

// MetricKeys is the ordered key set for tabular rendering of a mapping.
var MetricKeys = []string{
	"total_trades", "num_wins", "num_losses", "win_rate",
	"total_pnl", "gross_profit", "gross_loss", "profit_factor",
	"expectancy_dollar", "expectancy_r",
	"avg_win", "avg_loss", "largest_win", "largest_loss",
	"avg_win_duration", "avg_loss_duration",
	"high_water_mark", "max_drawdown", "max_drawdown_pct",
	"drawdown_duration_days", "recovery_factor",
	"sharpe_ratio", "sortino_ratio",
	"win_streak", "loss_streak",
	"risk_of_ruin", "trade_quality_score", "trades_per_day",
	"pnl_mean", "pnl_median", "pnl_stddev", "pnl_skewness", "pnl_kurtosis",
	"pnl_min", "pnl_max", "r_mean", "r_median", "r_stddev",
}
