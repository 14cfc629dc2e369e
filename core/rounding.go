package core

import (
	"math"
	"strconv"
)

// Round rounds to the given decimal places, ties go to even on the exact binary value.
// 2.675 is stored just below the tie so it rounds to 2.67, 0.125 is an exact tie and rounds to 0.12.
func Round(value float64, places int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', places, 64), 64)
	if err != nil {
		return value
	}
	return rounded
}
