// Package standards holds the reference ranges water profiles are scored
// against and the canonical ideal target profile.
//
// A Table is a plain value. Default returns a fresh copy each call, so callers
// may inject a modified table into an evaluator or optimizer without
// affecting anyone else.
package standards

import (
	"math"

	"github.com/iwvelando/brew-water/pkg/mathutil"
	"github.com/iwvelando/brew-water/pkg/water"
)

// Range is an inclusive numeric band. Low == High describes a single point.
type Range struct {
	Low  float64 `json:"low" yaml:"low" mapstructure:"low"`
	High float64 `json:"high" yaml:"high" mapstructure:"high"`
}

// Contains reports whether Low <= value <= High. NaN is never contained.
func (r Range) Contains(value float64) bool {
	return r.Low <= value && value <= r.High
}

// Center returns the midpoint of the range.
func (r Range) Center() float64 {
	return (r.Low + r.High) / 2
}

// Width returns High - Low.
func (r Range) Width() float64 {
	return r.High - r.Low
}

// Band groups the ideal range of a parameter with the ranges that are
// acceptable but not ideal.
type Band struct {
	Ideal      Range   `json:"ideal" yaml:"ideal"`
	Acceptable []Range `json:"acceptable" yaml:"acceptable"`
}

// IsIdeal reports whether value is inside the ideal range.
func (b Band) IsIdeal(value float64) bool {
	return b.Ideal.Contains(value)
}

// IsAcceptable reports whether value is inside one of the acceptable ranges.
func (b Band) IsAcceptable(value float64) bool {
	for _, r := range b.Acceptable {
		if r.Contains(value) {
			return true
		}
	}
	return false
}

// Targets are the values the optimizer doses toward: the center of each
// ideal band rather than its edge.
type Targets struct {
	Hardness   float64 `json:"hardness" yaml:"hardness"`
	Alkalinity float64 `json:"alkalinity" yaml:"alkalinity"`
	Sodium     float64 `json:"sodium" yaml:"sodium"`
}

// Table is the complete set of reference data.
type Table struct {
	Alkalinity Band `json:"alkalinity" yaml:"alkalinity"`
	Hardness   Band `json:"hardness" yaml:"hardness"`
	Sodium     Band `json:"sodium" yaml:"sodium"`
	TDS        Band `json:"tds" yaml:"tds"`
	PH         Band `json:"ph" yaml:"ph"`

	// CorrosionAlkalinity is half-open: [Low, High).
	CorrosionAlkalinity   Range   `json:"corrosionAlkalinity" yaml:"corrosionAlkalinity"`
	CalciumMagnesiumRatio Range   `json:"calciumMagnesiumRatio" yaml:"calciumMagnesiumRatio"`
	TDSExcessive          float64 `json:"tdsExcessive" yaml:"tdsExcessive"`
	SodiumFlavorLimit     float64 `json:"sodiumFlavorLimit" yaml:"sodiumFlavorLimit"`

	Targets Targets       `json:"targets" yaml:"targets"`
	Ideal   water.Profile `json:"ideal" yaml:"ideal"`
}

// Default returns the brewing-water reference table.
func Default() Table {
	return Table{
		Alkalinity: Band{
			Ideal:      Range{30, 50},
			Acceptable: []Range{{51, 75}},
		},
		Hardness: Band{
			Ideal:      Range{50, 90},
			Acceptable: []Range{{91, 110}},
		},
		Sodium: Band{
			Ideal:      Range{0, 10},
			Acceptable: []Range{{11, 30}},
		},
		TDS: Band{
			Ideal:      Range{100, 180},
			Acceptable: []Range{{75, 99.99}, {181, 250}},
		},
		PH: Band{
			Ideal:      Range{6.5, 7.5},
			Acceptable: []Range{{6.0, 6.49}, {7.51, 8.0}},
		},
		CorrosionAlkalinity:   Range{30, 40},
		CalciumMagnesiumRatio: Range{1.5, 3.0},
		TDSExcessive:          250,
		SodiumFlavorLimit:     30,
		Targets: Targets{
			Hardness:   70,
			Alkalinity: 40,
			Sodium:     5,
		},
		Ideal: IdealProfile(),
	}
}

// IdealProfile returns the canonical optimizer target. Its hardness (~68)
// and alkalinity (~40) sit near the middle of the ideal bands.
func IdealProfile() water.Profile {
	return water.Profile{
		Calcium:     18.15,
		Magnesium:   5.50,
		Sodium:      10.0,
		Bicarbonate: 48.8,
		PH:          7.0,
		TDS:         150.0,
	}
}

// IsInRange reports whether low <= value <= high.
func IsInRange(value float64, r Range) bool {
	return r.Contains(value)
}

// IsCorrosive reports whether alkalinity falls in the corrosion band.
func (t Table) IsCorrosive(alkalinity float64) bool {
	return t.CorrosionAlkalinity.Low <= alkalinity && alkalinity < t.CorrosionAlkalinity.High
}

// ProximityScore scores how close value is to the center of idealRange:
// 100 at the center, 50 at either edge, 0 at two half-widths or beyond.
func ProximityScore(value float64, idealRange Range) float64 {
	half := idealRange.Width() / 2
	if half <= 0 {
		if value == idealRange.Low {
			return 100
		}
		return 0
	}
	distance := math.Min(math.Abs(value-idealRange.Center())/half, 2)
	score := 100 * (1 - distance/2)
	if math.IsNaN(score) {
		return 0
	}
	return mathutil.Clamp(score, 0, 100)
}

// Proximity weights. They must sum to 1.0.
const (
	proximityWeightHardness   = 0.50
	proximityWeightAlkalinity = 0.30
	proximityWeightSodium     = 0.10
	proximityWeightTDS        = 0.10
)

// ProfileScore is the proximity-curve aggregate used by the optimizer's
// improvement metric. It is not the evaluator's weighted step score.
func (t Table) ProfileScore(p water.Profile) float64 {
	return proximityWeightHardness*ProximityScore(p.Hardness(), t.Hardness.Ideal) +
		proximityWeightAlkalinity*ProximityScore(p.Alkalinity(), t.Alkalinity.Ideal) +
		proximityWeightSodium*ProximityScore(p.Sodium, t.Sodium.Ideal) +
		proximityWeightTDS*ProximityScore(p.TDS, t.TDS.Ideal)
}
