package metrics

import (
	"sort"
	"time"

	"trade-scenario-lab/internal/domain"
)

// TimeBucket aggregates P&L for one (weekday, entry hour) cell of the
// performance heatmap.
type TimeBucket struct {
	Weekday  time.Weekday
	Hour     int
	Trades   int
	TotalPnL float64
	MeanPnL  float64
	WinRate  float64
}

// MonthlyReturn aggregates P&L for one calendar month, keyed by the trades'
// exit times.
type MonthlyReturn struct {
	Year     int
	Month    time.Month
	Trades   int
	TotalPnL float64
}

// monthlyReturns groups trades by exit year and month, sorted
// chronologically. Months without trades are absent, not zero rows.
func monthlyReturns(trades []*domain.SimulatedTrade) []MonthlyReturn {
	type key struct {
		year  int
		month time.Month
	}
	cells := make(map[key]*MonthlyReturn)

	for _, t := range trades {
		k := key{t.ExitTime.Year(), t.ExitTime.Month()}
		m, ok := cells[k]
		if !ok {
			m = &MonthlyReturn{Year: k.year, Month: k.month}
			cells[k] = m
		}
		m.Trades++
		m.TotalPnL += t.NetPnL
	}

	months := make([]MonthlyReturn, 0, len(cells))
	for _, m := range cells {
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})
	return months
}

// timeBuckets groups trades by weekday and hour of entry. Buckets are
// returned sorted by (weekday, hour) for deterministic output.
func timeBuckets(trades []*domain.SimulatedTrade) []TimeBucket {
	type key struct {
		weekday time.Weekday
		hour    int
	}
	cells := make(map[key]*TimeBucket)

	for _, t := range trades {
		k := key{t.EntryTime.Weekday(), t.EntryTime.Hour()}
		b, ok := cells[k]
		if !ok {
			b = &TimeBucket{Weekday: k.weekday, Hour: k.hour}
			cells[k] = b
		}
		b.Trades++
		b.TotalPnL += t.NetPnL
		if t.NetPnL > 0 {
			b.WinRate++ // win count until the final pass
		}
	}

	buckets := make([]TimeBucket, 0, len(cells))
	for _, b := range cells {
		b.MeanPnL = b.TotalPnL / float64(b.Trades)
		b.WinRate = b.WinRate / float64(b.Trades)
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Weekday != buckets[j].Weekday {
			return buckets[i].Weekday < buckets[j].Weekday
		}
		return buckets[i].Hour < buckets[j].Hour
	})
	return buckets
}
