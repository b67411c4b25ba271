// Package reading turns text typed or scanned from a water report into
// numbers and profiles.
package reading

import (
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/brew-water/pkg/constants"
	"github.com/iwvelando/brew-water/pkg/water"
)

// Form field names accepted by ParseProfile.
const (
	FieldCalcium     = "calcium"
	FieldMagnesium   = "magnesium"
	FieldSodium      = "sodium"
	FieldBicarbonate = "bicarbonate"
	FieldPH          = "ph"
	FieldTDS         = "tds"
)

// ParseDecimal reads a decimal written with either a comma or a dot as the
// separator. Blank, malformed or non-finite text yields 0.
func ParseDecimal(text string) float64 {
	value, ok := parseDecimal(text)
	if !ok {
		return 0
	}
	return value
}

// MustParseDecimal parses text and panics when it is not a finite decimal.
// This is intended for use in tests where the text is known to be valid.
func MustParseDecimal(text string) float64 {
	value, ok := parseDecimal(text)
	if !ok {
		panic("reading: invalid decimal " + strconv.Quote(text))
	}
	return value
}

func parseDecimal(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	// A single comma is a decimal separator; more than one is ambiguous.
	if strings.Count(text, ",") > 1 || (strings.Contains(text, ",") && strings.Contains(text, ".")) {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// ParseProfile builds a profile from form fields keyed by the Field
// constants. Missing or invalid minerals read as 0. pH defaults to
// constants.DefaultPH and tds to the mineral sum when absent.
func ParseProfile(fields map[string]string) water.Profile {
	p := water.Profile{
		Calcium:     ParseDecimal(fields[FieldCalcium]),
		Magnesium:   ParseDecimal(fields[FieldMagnesium]),
		Sodium:      ParseDecimal(fields[FieldSodium]),
		Bicarbonate: ParseDecimal(fields[FieldBicarbonate]),
		PH:          constants.DefaultPH,
	}
	if ph, ok := parseDecimal(fields[FieldPH]); ok {
		p.PH = ph
	}
	if tds, ok := parseDecimal(fields[FieldTDS]); ok {
		p.TDS = tds
	} else {
		p.TDS = p.MineralSum()
	}
	return p
}
