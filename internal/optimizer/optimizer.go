// Package optimizer recommends whole drops of concentrated mineral solutions
// that move a water profile toward a target.
//
// Minerals are treated independently: calcium takes 70% of any hardness
// shortfall and magnesium 30%, sodium is dosed 1:1 and alkalinity is dosed
// as bicarbonate through the alkalinity carrier (potassium bicarbonate
// unless another solution is selected). No single solution is ever dosed
// beyond constants.MaxDropsPerSolution drops.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/brew-water/pkg/constants"
	"github.com/iwvelando/brew-water/pkg/mathutil"
	"github.com/iwvelando/brew-water/pkg/optimization"
	"github.com/iwvelando/brew-water/pkg/standards"
	"github.com/iwvelando/brew-water/pkg/water"
	"go.uber.org/zap"
)

// Dose targets reported on each recommendation.
const (
	TargetCalcium     = "calcium"
	TargetMagnesium   = "magnesium"
	TargetSodium      = "sodium"
	TargetBicarbonate = "bicarbonate"
)

// Share of a hardness shortfall assigned to each mineral.
const (
	calciumHardnessShare   = 0.70
	magnesiumHardnessShare = 0.30
)

// Warning messages.
const (
	MsgAlreadyIdeal   = "water profile is already within the ideal ranges; no adjustments needed"
	MsgNoDropsNeeded  = "water profile is as close to the target as whole drops allow; no adjustments needed"
	msgNoSolution     = "no available solution to raise %s"
	msgDropsCapped    = "%s dose capped at %d drops of %s; target not fully reached"
	msgNotOptimal     = "%s remains outside its ideal range after %d drops of %s"
	msgInvalidReading = "%s reading is not a number; skipped"
)

// Optimizer computes dosing recommendations against a standards table.
type Optimizer struct {
	logger *zap.Logger
	table  standards.Table
}

type options struct {
	target    *water.Profile
	solutions []water.Solution
	carrier   string
}

// Option customizes a single Optimize call.
type Option func(*options)

// WithTarget replaces the default ideal target. Dosing then aims at the
// target's own hardness, alkalinity and sodium. A target carrying the
// table's ideal minerals behaves exactly like no target.
func WithTarget(target water.Profile) Option {
	return func(o *options) {
		t := target
		o.target = &t
	}
}

// WithSolutions replaces the default solution catalog.
func WithSolutions(solutions []water.Solution) Option {
	return func(o *options) {
		o.solutions = solutions
	}
}

// WithAlkalinityCarrier selects the solution, by name, used to raise
// alkalinity. An empty name keeps potassium bicarbonate.
func WithAlkalinityCarrier(name string) Option {
	return func(o *options) {
		if name != "" {
			o.carrier = name
		}
	}
}

// New constructs an Optimizer. A nil logger is replaced by a no-op logger.
func New(logger *zap.Logger, table standards.Table) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{logger: logger, table: table}
}

type dose struct {
	target   string
	increase float64
	current  float64
	solution water.Solution
	found    bool
}

// Optimize computes the drops that move current toward the target.
func (o *Optimizer) Optimize(current water.Profile, opts ...Option) optimization.Result {
	cfg := options{carrier: water.PotassiumBicarbonate}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.solutions == nil {
		cfg.solutions = water.Catalog()
	}

	target := o.table.Ideal
	targets := o.table.Targets
	customTarget := cfg.target != nil && !o.isDefaultTarget(*cfg.target)
	if cfg.target != nil {
		target = *cfg.target
	}
	if customTarget {
		targets = standards.Targets{
			Hardness:   target.Hardness(),
			Alkalinity: target.Alkalinity(),
			Sodium:     target.Sodium,
		}
	}

	result := optimization.Result{
		Current:         current,
		Target:          target,
		Recommendations: []optimization.DropRecommendation{},
		Achievable:      current,
	}

	if !customTarget && o.withinIdeal(current) {
		result.Warnings = append(result.Warnings, MsgAlreadyIdeal)
		o.logger.Debug("profile already ideal",
			zap.String("op", "optimizer.Optimize"),
			zap.Float64("hardness", current.Hardness()),
			zap.Float64("alkalinity", current.Alkalinity()),
			zap.Float64("sodium", current.Sodium),
			zap.Float64("tds", current.TDS),
		)
		return result
	}

	hardnessGap := gap(targets.Hardness, current.Hardness())
	alkalinityGap := gap(targets.Alkalinity, current.Alkalinity())
	sodiumGap := gap(targets.Sodium, current.Sodium)

	doses := []dose{
		{target: TargetCalcium, increase: hardnessGap * calciumHardnessShare / water.HardnessCalciumFactor, current: current.Calcium},
		{target: TargetMagnesium, increase: hardnessGap * magnesiumHardnessShare / water.HardnessMagnesiumFactor, current: current.Magnesium},
		{target: TargetSodium, increase: sodiumGap, current: current.Sodium},
		{target: TargetBicarbonate, increase: alkalinityGap / water.AlkalinityBicarbonateFactor, current: current.Bicarbonate},
	}

	for i := range doses {
		d := &doses[i]
		if math.IsNaN(d.current) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(msgInvalidReading, d.target))
			d.increase = 0
			continue
		}
		if d.increase <= 0 || mathutil.IsZero(d.increase) {
			continue
		}
		solution, err := o.solutionFor(d.target, cfg)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf(msgNoSolution, d.target))
			o.logger.Debug("no solution for dose",
				zap.String("op", "optimizer.Optimize"),
				zap.String("target", d.target),
				zap.Error(err),
			)
			continue
		}
		d.solution = solution
		d.found = true
	}

	finals := map[string]float64{
		TargetCalcium:     current.Calcium,
		TargetMagnesium:   current.Magnesium,
		TargetSodium:      current.Sodium,
		TargetBicarbonate: current.Bicarbonate,
	}

	for _, d := range doses {
		if !d.found || d.increase <= 0 {
			continue
		}

		rawDrops := math.Round(d.increase / d.solution.PPMPerDrop)
		drops := int(mathutil.Clamp(rawDrops, constants.MinDropsPerSolution, constants.MaxDropsPerSolution))
		if drops == 0 {
			o.logger.Debug("dose rounds to zero drops",
				zap.String("op", "optimizer.Optimize"),
				zap.String("target", d.target),
				zap.Float64("increase", d.increase),
				zap.Float64("ppmPerDrop", d.solution.PPMPerDrop),
			)
			continue
		}
		if rawDrops > constants.MaxDropsPerSolution {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf(msgDropsCapped, d.target, constants.MaxDropsPerSolution, d.solution.Name))
		}

		added := d.solution.PPMFor(drops)
		final := d.current + added
		finals[d.target] = final

		result.Recommendations = append(result.Recommendations, optimization.DropRecommendation{
			Solution: d.solution,
			Target:   d.target,
			Drops:    drops,
			PPMAdded: added,
			FinalPPM: final,
		})
	}

	if len(result.Recommendations) == 0 {
		if len(result.Warnings) == 0 {
			result.Warnings = append(result.Warnings, MsgNoDropsNeeded)
		}
		return result
	}

	result.Achievable = current.WithMinerals(
		finals[TargetCalcium],
		finals[TargetMagnesium],
		finals[TargetSodium],
		finals[TargetBicarbonate],
	)

	// optimality is judged on the achievable profile so calcium and
	// magnesium doses see each other's contribution to hardness
	for i := range result.Recommendations {
		rec := &result.Recommendations[i]
		rec.IsOptimal = o.isOptimal(rec.Target, rec.FinalPPM, result.Achievable)
		if !rec.IsOptimal {
			result.Warnings = append(result.Warnings, fmt.Sprintf(msgNotOptimal, rec.Target, rec.Drops, rec.Solution.Name))
		}

		o.logger.Debug("optimizer recommended dose",
			zap.String("op", "optimizer.Optimize"),
			zap.String("target", rec.Target),
			zap.String("solution", rec.Solution.Name),
			zap.Int("drops", rec.Drops),
			zap.Float64("ppmAdded", rec.PPMAdded),
			zap.Float64("finalPpm", rec.FinalPPM),
			zap.Bool("optimal", rec.IsOptimal),
		)
	}

	result.ImprovementScore = o.improvement(current, result.Achievable)

	return result
}

func (o *Optimizer) withinIdeal(p water.Profile) bool {
	return o.table.Hardness.IsIdeal(p.Hardness()) &&
		o.table.Alkalinity.IsIdeal(p.Alkalinity()) &&
		o.table.Sodium.IsIdeal(p.Sodium) &&
		o.table.TDS.IsIdeal(p.TDS)
}

// isDefaultTarget reports whether target carries the table's ideal minerals.
// pH and tds are not dosed, so they do not make a target custom.
func (o *Optimizer) isDefaultTarget(target water.Profile) bool {
	ideal := o.table.Ideal
	return mathutil.WithinTolerance(target.Calcium, ideal.Calcium, constants.PPMTolerance) &&
		mathutil.WithinTolerance(target.Magnesium, ideal.Magnesium, constants.PPMTolerance) &&
		mathutil.WithinTolerance(target.Sodium, ideal.Sodium, constants.PPMTolerance) &&
		mathutil.WithinTolerance(target.Bicarbonate, ideal.Bicarbonate, constants.PPMTolerance)
}

func (o *Optimizer) solutionFor(target string, cfg options) (water.Solution, error) {
	switch target {
	case TargetCalcium:
		return water.FindByElement(cfg.solutions, water.Calcium)
	case TargetMagnesium:
		return water.FindByElement(cfg.solutions, water.Magnesium)
	case TargetSodium:
		return water.FindByElement(cfg.solutions, water.Sodium)
	case TargetBicarbonate:
		s, err := water.FindByName(cfg.solutions, cfg.carrier)
		if err != nil {
			return water.Solution{}, err
		}
		if !s.Available || s.PPMPerDrop <= 0 {
			return water.Solution{}, fmt.Errorf("%w: %s is unavailable", water.ErrSolutionNotFound, s.Name)
		}
		return s, nil
	default:
		return water.Solution{}, fmt.Errorf("optimizer: unsupported dose target %q", target)
	}
}

// isOptimal checks the dosed mineral's own ideal range. Calcium and
// magnesium are judged by the hardness of the achievable profile, not their
// raw ppm.
func (o *Optimizer) isOptimal(target string, final float64, achievable water.Profile) bool {
	switch target {
	case TargetCalcium, TargetMagnesium:
		return o.table.Hardness.IsIdeal(achievable.Hardness())
	case TargetSodium:
		return o.table.Sodium.IsIdeal(final)
	case TargetBicarbonate:
		return o.table.Alkalinity.IsIdeal(final * water.AlkalinityBicarbonateFactor)
	default:
		return false
	}
}

// improvement is the share of the remaining distance to a perfect proximity
// score that the achievable profile closes.
func (o *Optimizer) improvement(before, after water.Profile) float64 {
	beforeScore := o.table.ProfileScore(before)
	if beforeScore >= constants.MaxScore || math.IsNaN(beforeScore) {
		return 0
	}
	afterScore := o.table.ProfileScore(after)
	ratio := (afterScore - beforeScore) / (constants.MaxScore - beforeScore)
	return mathutil.Clamp(constants.PercentageMultiplier*ratio, 0, constants.MaxScore)
}

func gap(target, value float64) float64 {
	g := target - value
	if math.IsNaN(g) || g < 0 {
		return 0
	}
	return g
}
