package water

import (
	"fmt"
	"strings"
)

// ElementType identifies the ion a solution adds to the water.
type ElementType int

const (
	Calcium ElementType = iota
	Magnesium
	Sodium
	Potassium
	Bicarbonate
)

var elementNames = [...]string{
	Calcium:     "CALCIUM",
	Magnesium:   "MAGNESIUM",
	Sodium:      "SODIUM",
	Potassium:   "POTASSIUM",
	Bicarbonate: "BICARBONATE",
}

func (e ElementType) String() string {
	if e < 0 || int(e) >= len(elementNames) {
		return fmt.Sprintf("ElementType(%d)", int(e))
	}
	return elementNames[e]
}

// MarshalText implements encoding.TextMarshaler.
func (e ElementType) MarshalText() ([]byte, error) {
	if e < 0 || int(e) >= len(elementNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownElement, int(e))
	}
	return []byte(elementNames[e]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *ElementType) UnmarshalText(text []byte) error {
	parsed, err := ParseElementType(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseElementType accepts element names case-insensitively.
func ParseElementType(name string) (ElementType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range elementNames {
		if n == normalized {
			return ElementType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownElement, name)
}

// Solution is a concentrated mineral solution dosed by the drop.
type Solution struct {
	Name    string      `json:"name" yaml:"name"`
	Formula string      `json:"formula" yaml:"formula"`
	Element ElementType `json:"element" yaml:"element"`
	// PPMPerDrop is the concentration increase of Element one drop adds to the target water volume.
	PPMPerDrop float64 `json:"ppmPerDrop" yaml:"ppmPerDrop"`
	// ConcentrationPct is informational, used only for prep instructions.
	ConcentrationPct float64 `json:"concentrationPct" yaml:"concentrationPct"`
	Available        bool    `json:"available" yaml:"available"`
}

// PPMFor returns the concentration added by the given number of drops.
func (s Solution) PPMFor(drops int) float64 {
	return float64(drops) * s.PPMPerDrop
}

// PrepInstructions describes how to make the stock solution, reading the
// concentration as grams per 100 mL.
func (s Solution) PrepInstructions() string {
	return fmt.Sprintf("Dissolve %.1f g of %s (%s) in distilled water and top up to 100 mL for a %.1f%% w/v solution",
		s.ConcentrationPct, strings.ToLower(s.Name), s.Formula, s.ConcentrationPct)
}

// Catalog solution names.
const (
	CalciumChloride      = "Calcium Chloride"
	MagnesiumSulfate     = "Magnesium Sulfate"
	SodiumBicarbonate    = "Sodium Bicarbonate"
	PotassiumBicarbonate = "Potassium Bicarbonate"
)

// Catalog returns a fresh copy of the fixed solution catalog. Potassium
// bicarbonate is the default alkalinity carrier; sodium bicarbonate doses
// sodium unless explicitly selected as the carrier.
func Catalog() []Solution {
	return []Solution{
		{Name: CalciumChloride, Formula: "CaCl2", Element: Calcium, PPMPerDrop: 2.0, ConcentrationPct: 10.0, Available: true},
		{Name: MagnesiumSulfate, Formula: "MgSO4", Element: Magnesium, PPMPerDrop: 1.0, ConcentrationPct: 10.0, Available: true},
		{Name: SodiumBicarbonate, Formula: "NaHCO3", Element: Sodium, PPMPerDrop: 1.4, ConcentrationPct: 5.0, Available: true},
		{Name: PotassiumBicarbonate, Formula: "KHCO3", Element: Potassium, PPMPerDrop: 3.0, ConcentrationPct: 10.0, Available: true},
	}
}

// FindByElement returns the first available solution carrying element.
func FindByElement(solutions []Solution, element ElementType) (Solution, error) {
	for _, s := range solutions {
		if s.Element == element && s.Available && s.PPMPerDrop > 0 {
			return s, nil
		}
	}
	return Solution{}, fmt.Errorf("%w: no available %s solution", ErrSolutionNotFound, element)
}

// FindByName returns the solution with the given name, ignoring case.
func FindByName(solutions []Solution, name string) (Solution, error) {
	for _, s := range solutions {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return Solution{}, fmt.Errorf("%w: %q", ErrSolutionNotFound, name)
}
