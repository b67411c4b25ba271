package evaluation

import "github.com/iwvelando/brew-water/pkg/water"

// Parameter names used in breakdowns.
const (
	ParamAlkalinity = "alkalinity"
	ParamHardness   = "hardness"
	ParamSodium     = "sodium"
	ParamTDS        = "tds"
	ParamPH         = "ph"
)

// ParameterResult is the per-parameter badge shown next to a reading.
type ParameterResult struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Points float64 `json:"points"`
	Weight float64 `json:"weight"`
	Status Status  `json:"status"`
}

// Breakdown returns one entry per scored parameter followed by pH. pH
// carries no points or weight.
func (e *Evaluator) Breakdown(p water.Profile) []ParameterResult {
	alkalinity := p.Alkalinity()
	hardness := p.Hardness()

	results := []ParameterResult{
		{Name: ParamAlkalinity, Value: alkalinity, Points: e.AlkalinityPoints(alkalinity), Weight: WeightAlkalinity},
		{Name: ParamHardness, Value: hardness, Points: e.HardnessPoints(hardness), Weight: WeightHardness},
		{Name: ParamSodium, Value: p.Sodium, Points: e.SodiumPoints(p.Sodium), Weight: WeightSodium},
		{Name: ParamTDS, Value: p.TDS, Points: e.TDSPoints(p.TDS), Weight: WeightTDS},
	}
	for i := range results {
		results[i].Status = StatusForPoints(results[i].Points)
	}

	return append(results, ParameterResult{
		Name:   ParamPH,
		Value:  p.PH,
		Status: e.PHStatus(p.PH),
	})
}
