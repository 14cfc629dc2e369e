package core

import (
	"math"

	"gonum.org/v1/gonum/stat"

	ex "ratios.service/data/extensions"
)

// PercentChanges returns each value's fractional change against the one before it.
// The first value has nothing to compare against and 0/0 changes are undefined, both are dropped.
// A change from zero is +Inf and is kept.
func PercentChanges(values []float64) []float64 {
	res := make([]float64, 0, max(len(values)-1, 0))
	for i := 1; i < len(values); i++ {
		change := values[i]/values[i-1] - 1
		if math.IsNaN(change) {
			continue
		}
		res = append(res, change)
	}
	return res
}

// CalculateDividendGrowth is the geometric mean growth rate of a cash amount history
// delivered newest first. An empty or single entry history has no growth and yields NaN.
func CalculateDividendGrowth(amountsNewestFirst []float64) float64 {
	changes := PercentChanges(ex.Reverse(amountsNewestFirst))

	multipliers := make([]float64, len(changes))
	for i, rate := range changes {
		multipliers[i] = 1 + rate
	}

	return Round(stat.GeometricMean(multipliers, nil)-1, dividendGrowthPlaces)
}
