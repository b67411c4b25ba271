// Package analysis runs the evaluate, optimize and blend tasks of a
// configuration and collects their reports.
package analysis

import (
	"context"
	"fmt"

	"github.com/iwvelando/brew-water/internal/blend"
	"github.com/iwvelando/brew-water/internal/config"
	"github.com/iwvelando/brew-water/internal/history"
	"github.com/iwvelando/brew-water/internal/optimizer"
	"github.com/iwvelando/brew-water/pkg/evaluation"
	"github.com/iwvelando/brew-water/pkg/optimization"
	"github.com/iwvelando/brew-water/pkg/standards"
	"github.com/iwvelando/brew-water/pkg/validation"
	"github.com/iwvelando/brew-water/pkg/water"
	"go.uber.org/zap"
)

// Report kinds.
const (
	KindEvaluate = history.KindEvaluate
	KindOptimize = history.KindOptimize
	KindBlend    = history.KindBlend
)

// Report holds the outcome of one task.
type Report struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	// Profile is the evaluated profile, the current profile of an optimize
	// task or the blended profile.
	Profile   water.Profile                `json:"profile"`
	Score     evaluation.Score             `json:"score"`
	Breakdown []evaluation.ParameterResult `json:"breakdown,omitempty"`
	// Projected scores the achievable profile of an optimize task.
	Projected    *evaluation.Score    `json:"projected,omitempty"`
	Optimization *optimization.Result `json:"optimization,omitempty"`
	Blend        *blend.Result        `json:"blend,omitempty"`
	Notes        []string             `json:"notes,omitempty"`
}

// ResultSaver stores a report payload. *history.Store satisfies it.
type ResultSaver interface {
	SaveResult(ctx context.Context, kind, name string, payload any) (history.Record, error)
}

// Run processes every task in conf in the order evaluate, optimize, blend.
func Run(logger *zap.Logger, conf config.Configuration) ([]Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conf.Normalize()
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	catalog, err := conf.Solutions.Catalog()
	if err != nil {
		return nil, err
	}

	table := standards.Default()
	evaluator := evaluation.NewEvaluator(table)
	opt := optimizer.New(logger, table)
	blender := blend.New(logger, evaluator)

	var reports []Report

	for _, name := range conf.Evaluate {
		p, err := conf.Profile(name)
		if err != nil {
			return reports, err
		}
		logger.Debug(fmt.Sprintf("evaluating profile %s", name),
			zap.String("op", "analysis.Run"),
		)
		reports = append(reports, Report{
			Kind:      KindEvaluate,
			Name:      name,
			Profile:   p,
			Score:     evaluator.ScoreProfile(p),
			Breakdown: evaluator.Breakdown(p),
			Notes:     validation.ValidateProfile(name, p),
		})
	}

	for _, task := range conf.Optimize {
		current, err := conf.Profile(task.Current)
		if err != nil {
			return reports, err
		}
		opts := []optimizer.Option{
			optimizer.WithSolutions(catalog),
			optimizer.WithAlkalinityCarrier(task.Carrier(conf.Solutions)),
		}
		name := task.Current
		if targetName := task.TargetName(conf.Standards); targetName != "" {
			target, err := conf.Profile(targetName)
			if err != nil {
				return reports, err
			}
			opts = append(opts, optimizer.WithTarget(target))
			name = fmt.Sprintf("%s -> %s", task.Current, targetName)
		}
		logger.Debug(fmt.Sprintf("optimizing profile %s", name),
			zap.String("op", "analysis.Run"),
		)

		result := opt.Optimize(current, opts...)
		projected := evaluator.ScoreProfile(result.Achievable)
		reports = append(reports, Report{
			Kind:         KindOptimize,
			Name:         name,
			Profile:      current,
			Score:        evaluator.ScoreProfile(current),
			Projected:    &projected,
			Optimization: &result,
			Notes:        append(validation.ValidateProfile(task.Current, current), result.Warnings...),
		})
	}

	for _, task := range conf.Blend {
		a, err := conf.Profile(task.A)
		if err != nil {
			return reports, err
		}
		b, err := conf.Profile(task.B)
		if err != nil {
			return reports, err
		}
		logger.Debug(fmt.Sprintf("blending %s", task.Name),
			zap.String("op", "analysis.Run"),
		)

		result, err := blender.Blend(a, task.VolumeA, b, task.VolumeB)
		if err != nil {
			return reports, fmt.Errorf("blend %q: %w", task.Name, err)
		}
		notes := append([]string{}, result.Improvements...)
		reports = append(reports, Report{
			Kind:      KindBlend,
			Name:      task.Name,
			Profile:   result.Profile,
			Score:     result.Score,
			Breakdown: evaluator.Breakdown(result.Profile),
			Blend:     &result,
			Notes:     append(notes, result.Warnings...),
		})
	}

	return reports, nil
}

// Save stores every report through saver and returns the ids in report order.
func Save(ctx context.Context, logger *zap.Logger, saver ResultSaver, reports []Report) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		rec, err := saver.SaveResult(ctx, r.Kind, r.Name, r)
		if err != nil {
			return ids, fmt.Errorf("save %s report %q: %w", r.Kind, r.Name, err)
		}
		logger.Debug(fmt.Sprintf("saved %s report %s as %s", r.Kind, r.Name, rec.ID),
			zap.String("op", "analysis.Save"),
		)
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

// FindReport returns the report with the given kind and name, or nil.
func FindReport(reports []Report, kind, name string) *Report {
	for i := range reports {
		if reports[i].Kind == kind && reports[i].Name == name {
			return &reports[i]
		}
	}
	return nil
}
