// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/brew-water/pkg/constants"
)

// Round rounds a concentration to the displayed precision of 0.01 mg/L.
func Round(ppm float64) float64 {
	return math.Round(ppm*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero reports whether a concentration is below constants.PPMTolerance.
func IsZero(ppm float64) bool {
	return math.Abs(ppm) <= constants.PPMTolerance
}

// WithinTolerance reports whether a and b differ by at most tolerance.
func WithinTolerance(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// Clamp bounds value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// WeightedAverage returns (a*wa + b*wb) / (wa + wb). A zero total weight
// yields 0. Weights are normalized first so large weights cannot overflow.
func WeightedAverage(a, wa, b, wb float64) float64 {
	total := wa + wb
	if total == 0 {
		return 0
	}
	return a*(wa/total) + b*(wb/total)
}
