// Package blend simulates mixing two water profiles and reports how the
// mix scores compared with its inputs.
//
// Ca, Mg, Na, HCO3 and pH are averaged by volume. The blended tds is the sum
// of the four blended minerals, never an average of the input tds values.
package blend

import (
	"fmt"
	"math"

	"github.com/iwvelando/brew-water/pkg/evaluation"
	"github.com/iwvelando/brew-water/pkg/mathutil"
	"github.com/iwvelando/brew-water/pkg/standards"
	"github.com/iwvelando/brew-water/pkg/water"
	"go.uber.org/zap"
)

// Parameter labels used in messages.
const (
	labelHardness   = "hardness"
	labelAlkalinity = "alkalinity"
	labelSodium     = "sodium"
	labelTDS        = "tds"
)

// Message templates.
const (
	msgReachedIdeal  = "%s reaches the ideal range in the blend (%.1f mg/L)"
	msgLeftIdeal     = "%s leaves the ideal range in the blend (%.1f mg/L)"
	msgCorrosion     = "alkalinity of %.1f mg/L is low enough to risk equipment corrosion"
	msgTDSExcessive  = "tds of %.1f mg/L gives an excessive mineral taste"
	msgSodiumFlavor  = "sodium of %.1f mg/L may affect flavor"
	msgRatioBalanced = "calcium:magnesium ratio improves to a balanced %.2f:1"
)

// Result is the outcome of one blend.
type Result struct {
	Profile      water.Profile    `json:"profile"`
	TotalVolume  float64          `json:"totalVolume"`
	ProportionA  float64          `json:"proportionA"`
	ProportionB  float64          `json:"proportionB"`
	Score        evaluation.Score `json:"score"`
	Improvements []string         `json:"improvements"`
	Warnings     []string         `json:"warnings"`
}

// Blender mixes profiles and scores the result.
type Blender struct {
	logger    *zap.Logger
	evaluator *evaluation.Evaluator
}

// New constructs a Blender. A nil logger is replaced by a no-op logger and
// a nil evaluator by evaluation.Default().
func New(logger *zap.Logger, evaluator *evaluation.Evaluator) *Blender {
	if logger == nil {
		logger = zap.NewNop()
	}
	if evaluator == nil {
		evaluator = evaluation.Default()
	}
	return &Blender{logger: logger, evaluator: evaluator}
}

// Blend mixes volumeA mL of a with volumeB mL of b.
func (b *Blender) Blend(a water.Profile, volumeA float64, other water.Profile, volumeB float64) (Result, error) {
	total := volumeA + volumeB
	if !positive(volumeA) || !positive(volumeB) || math.IsInf(total, 0) {
		return Result{}, fmt.Errorf("%w: got %v mL and %v mL", ErrInvalidVolume, volumeA, volumeB)
	}

	mixed := water.Profile{
		PH: mathutil.WeightedAverage(a.PH, volumeA, other.PH, volumeB),
	}.WithMinerals(
		mathutil.WeightedAverage(a.Calcium, volumeA, other.Calcium, volumeB),
		mathutil.WeightedAverage(a.Magnesium, volumeA, other.Magnesium, volumeB),
		mathutil.WeightedAverage(a.Sodium, volumeA, other.Sodium, volumeB),
		mathutil.WeightedAverage(a.Bicarbonate, volumeA, other.Bicarbonate, volumeB),
	)

	result := Result{
		Profile:      mixed,
		TotalVolume:  total,
		ProportionA:  mathutil.CalculatePercentage(volumeA, total),
		ProportionB:  mathutil.CalculatePercentage(volumeB, total),
		Score:        b.evaluator.ScoreProfile(mixed),
		Improvements: []string{},
		Warnings:     []string{},
	}

	b.analyze(&result, a, other)

	b.logger.Debug("blended profiles",
		zap.String("op", "blend.Blend"),
		zap.Float64("volumeA", volumeA),
		zap.Float64("volumeB", volumeB),
		zap.Float64("hardness", mixed.Hardness()),
		zap.Float64("alkalinity", mixed.Alkalinity()),
		zap.Float64("score", result.Score.TotalPoints),
		zap.Stringer("status", result.Score.Status),
	)

	return result, nil
}

type parameter struct {
	label string
	band  standards.Band
	value func(water.Profile) float64
}

func (b *Blender) analyze(result *Result, a, other water.Profile) {
	table := b.evaluator.Table()
	mixed := result.Profile

	parameters := []parameter{
		{labelHardness, table.Hardness, water.Profile.Hardness},
		{labelAlkalinity, table.Alkalinity, water.Profile.Alkalinity},
		{labelSodium, table.Sodium, func(p water.Profile) float64 { return p.Sodium }},
		{labelTDS, table.TDS, func(p water.Profile) float64 { return p.TDS }},
	}

	for _, p := range parameters {
		aIdeal := p.band.IsIdeal(p.value(a))
		bIdeal := p.band.IsIdeal(p.value(other))
		value := p.value(mixed)
		mixedIdeal := p.band.IsIdeal(value)

		switch {
		case !aIdeal && !bIdeal && mixedIdeal:
			result.Improvements = append(result.Improvements, fmt.Sprintf(msgReachedIdeal, p.label, value))
		case (aIdeal || bIdeal) && !mixedIdeal:
			result.Warnings = append(result.Warnings, fmt.Sprintf(msgLeftIdeal, p.label, value))
		}
	}

	if result.Score.CorrosionWarning {
		result.Warnings = append(result.Warnings, fmt.Sprintf(msgCorrosion, mixed.Alkalinity()))
	}
	if mixed.TDS > table.TDSExcessive {
		result.Warnings = append(result.Warnings, fmt.Sprintf(msgTDSExcessive, mixed.TDS))
	}
	if mixed.Sodium > table.SodiumFlavorLimit {
		result.Warnings = append(result.Warnings, fmt.Sprintf(msgSodiumFlavor, mixed.Sodium))
	}

	if ratio, ok := mixed.CalciumMagnesiumRatio(); ok && table.CalciumMagnesiumRatio.Contains(ratio) {
		if !balanced(table, a) && !balanced(table, other) {
			result.Improvements = append(result.Improvements, fmt.Sprintf(msgRatioBalanced, ratio))
		}
	}
}

func balanced(table standards.Table, p water.Profile) bool {
	ratio, ok := p.CalciumMagnesiumRatio()
	return ok && table.CalciumMagnesiumRatio.Contains(ratio)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
