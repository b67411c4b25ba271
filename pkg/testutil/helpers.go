// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/brew-water/pkg/water"
)

// Tolerance is the absolute difference under which two computed values are
// treated as equal in tests.
const Tolerance = 1e-6

// AlmostEqual reports whether a and b differ by at most Tolerance.
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}

// ProfilesAlmostEqual compares every field of two profiles within Tolerance.
func ProfilesAlmostEqual(a, b water.Profile) bool {
	return AlmostEqual(a.Calcium, b.Calcium) &&
		AlmostEqual(a.Magnesium, b.Magnesium) &&
		AlmostEqual(a.Sodium, b.Sodium) &&
		AlmostEqual(a.Bicarbonate, b.Bicarbonate) &&
		AlmostEqual(a.PH, b.PH) &&
		AlmostEqual(a.TDS, b.TDS)
}

// Distilled returns a mineral-free profile at pH 7.
func Distilled() water.Profile {
	return water.New(0, 0, 0, 0)
}

// HardTap returns a hard, alkaline tap water that scores poorly.
func HardTap() water.Profile {
	p := water.New(80, 25, 40, 250)
	p.PH = 7.8
	return p
}
