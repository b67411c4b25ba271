// Package evaluation scores a water profile against brewing standards.
//
// Each of alkalinity, hardness, sodium and tds maps through a three-tier
// step function (100, 50 or 0 points) and the tiers are combined as
//
//	total = 0.50*alkalinity + 0.30*hardness + 0.10*sodium + 0.10*tds
//
// pH is reported separately by PHStatus and never enters the total.
// Negative and NaN inputs fall through to the zero tier; nothing here
// returns an error.
package evaluation

import (
	"github.com/iwvelando/brew-water/pkg/standards"
	"github.com/iwvelando/brew-water/pkg/water"
)

// Tier points.
const (
	IdealPoints      = 100.0
	AcceptablePoints = 50.0
	ZeroPoints       = 0.0
)

// Score weights. They must sum to 1.0.
const (
	WeightAlkalinity = 0.50
	WeightHardness   = 0.30
	WeightSodium     = 0.10
	WeightTDS        = 0.10
)

// Status thresholds on the weighted total.
const (
	ThresholdIdeal      = 80.0
	ThresholdAcceptable = 40.0
)

// Score is the result of one scoring call.
type Score struct {
	TotalPoints      float64 `json:"totalPoints"`
	Status           Status  `json:"status"`
	CorrosionWarning bool    `json:"corrosionWarning"`
}

// Evaluator scores profiles against a standards table.
type Evaluator struct {
	table standards.Table
}

// NewEvaluator returns an evaluator bound to table.
func NewEvaluator(table standards.Table) *Evaluator {
	return &Evaluator{table: table}
}

// Table returns the reference table the evaluator scores against.
func (e *Evaluator) Table() standards.Table {
	return e.table
}

func tierPoints(band standards.Band, value float64) float64 {
	switch {
	case band.IsIdeal(value):
		return IdealPoints
	case band.IsAcceptable(value):
		return AcceptablePoints
	default:
		return ZeroPoints
	}
}

// AlkalinityPoints scores alkalinity (mg/L as CaCO3).
func (e *Evaluator) AlkalinityPoints(alkalinity float64) float64 {
	return tierPoints(e.table.Alkalinity, alkalinity)
}

// HardnessPoints scores total hardness (mg/L as CaCO3).
func (e *Evaluator) HardnessPoints(hardness float64) float64 {
	return tierPoints(e.table.Hardness, hardness)
}

// SodiumPoints scores sodium (mg/L).
func (e *Evaluator) SodiumPoints(sodium float64) float64 {
	return tierPoints(e.table.Sodium, sodium)
}

// TDSPoints scores total dissolved solids (mg/L).
func (e *Evaluator) TDSPoints(tds float64) float64 {
	return tierPoints(e.table.TDS, tds)
}

// CalculateScore combines the four parameter tiers into a weighted total,
// a status and the corrosion flag.
func (e *Evaluator) CalculateScore(alkalinity, hardness, sodium, tds float64) Score {
	total := WeightAlkalinity*e.AlkalinityPoints(alkalinity) +
		WeightHardness*e.HardnessPoints(hardness) +
		WeightSodium*e.SodiumPoints(sodium) +
		WeightTDS*e.TDSPoints(tds)

	return Score{
		TotalPoints:      total,
		Status:           statusForTotal(total),
		CorrosionWarning: e.table.IsCorrosive(alkalinity),
	}
}

// ScoreProfile scores the derived quantities of p.
func (e *Evaluator) ScoreProfile(p water.Profile) Score {
	return e.CalculateScore(p.Alkalinity(), p.Hardness(), p.Sodium, p.TDS)
}

func statusForTotal(total float64) Status {
	switch {
	case total >= ThresholdIdeal:
		return Ideal
	case total >= ThresholdAcceptable:
		return Acceptable
	default:
		return NotRecommended
	}
}

// PHStatus maps a pH reading to a status. Exactly 0 means no reading.
func (e *Evaluator) PHStatus(ph float64) Status {
	switch {
	case ph == 0:
		return NotApplicable
	case e.table.PH.IsIdeal(ph):
		return Ideal
	case e.table.PH.IsAcceptable(ph):
		return Acceptable
	default:
		return NotRecommended
	}
}

// StatusForPoints maps a single parameter's tier points to a badge status.
func StatusForPoints(points float64) Status {
	switch {
	case points >= IdealPoints:
		return Ideal
	case points >= AcceptablePoints:
		return Acceptable
	default:
		return NotRecommended
	}
}
