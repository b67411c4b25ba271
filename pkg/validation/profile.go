package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/brew-water/pkg/water"
)

// Sanity limits for readings. Values outside them are still scored; these
// only drive warnings.
const (
	minPH = 0.0
	maxPH = 14.0
	// tdsMismatchRatio flags a measured tds below this share of the mineral sum.
	tdsMismatchRatio = 0.9
)

// ValidateProfile returns warnings about readings that the engine will score
// but that are probably entry or OCR mistakes.
func ValidateProfile(name string, p water.Profile) []string {
	var warnings []string

	minerals := []struct {
		label string
		value float64
	}{
		{"calcium", p.Calcium},
		{"magnesium", p.Magnesium},
		{"sodium", p.Sodium},
		{"bicarbonate", p.Bicarbonate},
		{"tds", p.TDS},
	}
	for _, m := range minerals {
		switch {
		case math.IsNaN(m.value) || math.IsInf(m.value, 0):
			warnings = append(warnings, fmt.Sprintf("Profile '%s' %s is not a finite number", name, m.label))
		case m.value < 0:
			warnings = append(warnings, fmt.Sprintf("Profile '%s' %s is negative (%.2f mg/L)", name, m.label, m.value))
		}
	}

	switch {
	case math.IsNaN(p.PH):
		warnings = append(warnings, fmt.Sprintf("Profile '%s' ph is not a number", name))
	case p.PH < minPH || p.PH > maxPH:
		warnings = append(warnings, fmt.Sprintf("Profile '%s' ph %.2f is outside %.0f-%.0f", name, p.PH, minPH, maxPH))
	}

	if sum := p.MineralSum(); p.TDS > 0 && sum > 0 && p.TDS < sum*tdsMismatchRatio {
		warnings = append(warnings, fmt.Sprintf("Profile '%s' tds %.2f is lower than its mineral sum %.2f", name, p.TDS, sum))
	}

	return warnings
}

// ValidateVolume checks a blend volume in mL.
func ValidateVolume(label string, volume float64) error {
	if math.IsNaN(volume) || math.IsInf(volume, 0) || volume <= 0 {
		return fmt.Errorf("%s volume must be a positive number of mL, got %v", label, volume)
	}
	return nil
}
