package water

import "github.com/iwvelando/brew-water/pkg/constants"

// Conversion factors from mg/L of an ion to mg/L as CaCO3.
const (
	HardnessCalciumFactor       = 2.497
	HardnessMagnesiumFactor     = 4.118
	AlkalinityBicarbonateFactor = 0.820
)

// DefaultPH is the pH assumed when a reading does not provide one.
const DefaultPH = constants.DefaultPH

// Profile holds the readings of one water sample.
type Profile struct {
	Calcium     float64 `json:"calcium" yaml:"calcium" mapstructure:"calcium"`
	Magnesium   float64 `json:"magnesium" yaml:"magnesium" mapstructure:"magnesium"`
	Sodium      float64 `json:"sodium" yaml:"sodium" mapstructure:"sodium"`
	Bicarbonate float64 `json:"bicarbonate" yaml:"bicarbonate" mapstructure:"bicarbonate"`
	PH          float64 `json:"ph" yaml:"ph" mapstructure:"ph"`
	TDS         float64 `json:"tds" yaml:"tds" mapstructure:"tds"`
}

// New returns a profile from the four base minerals with the default pH and
// a tds equal to the mineral sum.
func New(calcium, magnesium, sodium, bicarbonate float64) Profile {
	p := Profile{
		Calcium:     calcium,
		Magnesium:   magnesium,
		Sodium:      sodium,
		Bicarbonate: bicarbonate,
		PH:          DefaultPH,
	}
	p.TDS = p.MineralSum()
	return p
}

// Hardness returns the total hardness as CaCO3.
func (p Profile) Hardness() float64 {
	return CalciumHardness(p.Calcium) + MagnesiumHardness(p.Magnesium)
}

// Alkalinity returns the total alkalinity as CaCO3.
func (p Profile) Alkalinity() float64 {
	return AlkalinityBicarbonateFactor * p.Bicarbonate
}

// MineralSum returns Ca + Mg + Na + HCO3.
func (p Profile) MineralSum() float64 {
	return p.Calcium + p.Magnesium + p.Sodium + p.Bicarbonate
}

// WithMinerals returns a copy of p with the four base minerals replaced and
// tds recomputed as their sum. pH is kept.
func (p Profile) WithMinerals(calcium, magnesium, sodium, bicarbonate float64) Profile {
	p.Calcium = calcium
	p.Magnesium = magnesium
	p.Sodium = sodium
	p.Bicarbonate = bicarbonate
	p.TDS = p.MineralSum()
	return p
}

// CalciumMagnesiumRatio returns Ca/Mg. ok is false when there is no
// magnesium to divide by.
func (p Profile) CalciumMagnesiumRatio() (ratio float64, ok bool) {
	if p.Magnesium <= 0 {
		return 0, false
	}
	return p.Calcium / p.Magnesium, true
}

// CalciumHardness returns the hardness contributed by calcium alone.
func CalciumHardness(calcium float64) float64 {
	return HardnessCalciumFactor * calcium
}

// MagnesiumHardness returns the hardness contributed by magnesium alone.
func MagnesiumHardness(magnesium float64) float64 {
	return HardnessMagnesiumFactor * magnesium
}
