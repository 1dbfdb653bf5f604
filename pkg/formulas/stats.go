package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// CAGR calculates the compound annual growth rate implied by a periodic
// series (oldest first). periodsPerYear converts series length to years
// (4 for quarterly data, 1 for annual data).
//
// Returns nil when the series is too short or the endpoints are not
// positive — a growth rate from a zero or negative base is undefined.
func CAGR(series []float64, periodsPerYear int) *float64 {
	if len(series) < 2 || periodsPerYear <= 0 {
		return nil
	}

	first := series[0]
	last := series[len(series)-1]
	if first <= 0 || last <= 0 {
		return nil
	}

	years := float64(len(series)-1) / float64(periodsPerYear)
	if years <= 0 {
		return nil
	}

	rate := math.Pow(last/first, 1/years) - 1
	return &rate
}

// CoefficientOfVariation calculates stddev/|mean| for a series — the
// scale-free dispersion used for margin and revenue stability.
//
// Returns nil when the series is too short or its mean is ~zero.
func CoefficientOfVariation(series []float64) *float64 {
	if len(series) < 2 {
		return nil
	}

	mean := Mean(series)
	if math.Abs(mean) < 1e-12 {
		return nil
	}

	cv := StdDev(series) / math.Abs(mean)
	return &cv
}

// PercentileRank returns the empirical percentile of value within its own
// history, in [0,1]. A low percentile means the value is cheap relative
// to its history.
//
// Returns nil for an empty history.
func PercentileRank(history []float64, value float64) *float64 {
	if len(history) == 0 {
		return nil
	}

	sorted := make([]float64, len(history))
	copy(sorted, history)
	sort.Float64s(sorted)

	p := stat.CDF(value, stat.Empirical, sorted, nil)
	return &p
}
