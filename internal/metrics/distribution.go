package metrics

import (
	"math"
	"sort"
)

// Distribution describes the shape of one numeric series.
type Distribution struct {
	Count    int
	Mean     float64
	Median   float64
	StdDev   float64 // sample, n-1
	Skewness float64 // moment coefficient
	Kurtosis float64 // excess
	Min      float64
	Max      float64
}

// describe computes distribution statistics. Degenerate series (too few
// points or zero variance) report zero shape coefficients rather than NaN.
func describe(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	m := mean(values)
	d := Distribution{
		Count:  n,
		Mean:   m,
		Median: median(sorted),
		StdDev: stddev(values, m),
		Min:    sorted[0],
		Max:    sorted[n-1],
	}

	// Central moments for shape.
	var m2, m3, m4 float64
	for _, v := range values {
		diff := v - m
		m2 += diff * diff
		m3 += diff * diff * diff
		m4 += diff * diff * diff * diff
	}
	m2 /= float64(n)
	m3 /= float64(n)
	m4 /= float64(n)

	if m2 > 0 {
		d.Skewness = m3 / math.Pow(m2, 1.5)
		d.Kurtosis = m4/(m2*m2) - 3
	}

	return d
}

// median over a pre-sorted series, interpolating even lengths.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
