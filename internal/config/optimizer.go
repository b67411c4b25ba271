package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/brew-water/pkg/water"
)

// SolutionsConfig adjusts the built-in solution catalog.
type SolutionsConfig struct {
	// AlkalinityCarrier names the solution used to raise alkalinity.
	AlkalinityCarrier string             `yaml:"alkalinityCarrier,omitempty"`
	Overrides         []SolutionOverride `yaml:"overrides,omitempty"`
}

// SolutionOverride changes the strength or availability of one catalog entry.
type SolutionOverride struct {
	Name       string   `yaml:"name"`
	PPMPerDrop *float64 `yaml:"ppmPerDrop,omitempty"`
	Available  *bool    `yaml:"available,omitempty"`
}

// OptimizeTask asks for drops that move one profile toward a target.
type OptimizeTask struct {
	Current string `yaml:"current"`
	// Target is a profile name. Empty falls back to standards.target, then to
	// the ideal profile.
	Target            string `yaml:"target,omitempty"`
	AlkalinityCarrier string `yaml:"alkalinityCarrier,omitempty"`
}

// Normalize trims names and resolves them to catalog spelling.
func (s *SolutionsConfig) Normalize() {
	if s == nil {
		return
	}
	s.AlkalinityCarrier = canonicalSolutionName(s.AlkalinityCarrier)
	for i := range s.Overrides {
		s.Overrides[i].Name = canonicalSolutionName(s.Overrides[i].Name)
	}
}

// Validate returns an error when an override or carrier is unsupported.
func (s *SolutionsConfig) Validate() error {
	if s == nil {
		return fmt.Errorf("solutions configuration cannot be nil")
	}

	s.Normalize()

	catalog := water.Catalog()
	if s.AlkalinityCarrier != "" {
		if _, err := water.FindByName(catalog, s.AlkalinityCarrier); err != nil {
			return fmt.Errorf("alkalinity carrier: %w", err)
		}
	}
	for _, o := range s.Overrides {
		if _, err := water.FindByName(catalog, o.Name); err != nil {
			return fmt.Errorf("solution override: %w", err)
		}
		if o.PPMPerDrop != nil {
			if math.IsNaN(*o.PPMPerDrop) || math.IsInf(*o.PPMPerDrop, 0) || *o.PPMPerDrop <= 0 {
				return fmt.Errorf("solution %q ppmPerDrop %v must be positive", o.Name, *o.PPMPerDrop)
			}
		}
	}
	return nil
}

// Catalog returns the built-in catalog with the overrides applied.
func (s SolutionsConfig) Catalog() ([]water.Solution, error) {
	catalog := water.Catalog()
	for _, o := range s.Overrides {
		found := false
		for i := range catalog {
			if !strings.EqualFold(catalog[i].Name, o.Name) {
				continue
			}
			found = true
			if o.PPMPerDrop != nil {
				catalog[i].PPMPerDrop = *o.PPMPerDrop
			}
			if o.Available != nil {
				catalog[i].Available = *o.Available
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", water.ErrSolutionNotFound, o.Name)
		}
	}
	return catalog, nil
}

// Normalize trims the profile references and resolves the carrier name.
func (o *OptimizeTask) Normalize() {
	if o == nil {
		return
	}
	o.Current = strings.TrimSpace(o.Current)
	o.Target = strings.TrimSpace(o.Target)
	o.AlkalinityCarrier = canonicalSolutionName(o.AlkalinityCarrier)
}

// Validate returns an error when the task references unknown profiles or
// solutions.
func (o *OptimizeTask) Validate(c *Configuration) error {
	if o == nil {
		return fmt.Errorf("optimize task cannot be nil")
	}

	o.Normalize()

	if o.Current == "" {
		return fmt.Errorf("optimize task requires a current profile")
	}
	if _, err := c.Profile(o.Current); err != nil {
		return fmt.Errorf("optimize %q: %w", o.Current, err)
	}
	if o.Target != "" {
		if _, err := c.Profile(o.Target); err != nil {
			return fmt.Errorf("optimize %q target: %w", o.Current, err)
		}
	}
	if o.AlkalinityCarrier != "" {
		if _, err := water.FindByName(water.Catalog(), o.AlkalinityCarrier); err != nil {
			return fmt.Errorf("optimize %q alkalinity carrier: %w", o.Current, err)
		}
	}
	return nil
}

// Carrier returns the task's alkalinity carrier, falling back to the
// solutions-wide setting.
func (o OptimizeTask) Carrier(s SolutionsConfig) string {
	if o.AlkalinityCarrier != "" {
		return o.AlkalinityCarrier
	}
	return s.AlkalinityCarrier
}

// TargetName returns the task's target profile name, falling back to the
// standards-wide setting. Empty means the ideal profile.
func (o OptimizeTask) TargetName(s StandardsConfig) string {
	if o.Target != "" {
		return o.Target
	}
	return s.Target
}

// canonicalSolutionName maps case and spacing variants onto the catalog name.
func canonicalSolutionName(value string) string {
	trimmed := strings.Join(strings.Fields(value), " ")
	if trimmed == "" {
		return ""
	}
	if s, err := water.FindByName(water.Catalog(), trimmed); err == nil {
		return s.Name
	}
	return trimmed
}
