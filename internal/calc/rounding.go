// Package calc is the load and progression engine: rounding, plate math,
// warm-up ramps, one-rep-max estimates, week schemes, training max
// progression, joker ladders and cycle completion. Every function is pure and
// total; invalid input produces a safe default instead of an error.
package calc

import "math"

// fallbackIncrement is used when a rounding increment is missing or invalid.
const fallbackIncrement = 0.5

// Round rounds x to the nearest multiple of increment, halves away from zero.
// A non-finite or non-positive increment falls back to 0.5.
func Round(x, increment float64) float64 {
	inc := increment
	if !isFinite(inc) || inc <= 0 {
		inc = fallbackIncrement
	}
	return math.Round(x/inc) * inc
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
