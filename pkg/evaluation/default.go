package evaluation

import "github.com/iwvelando/brew-water/pkg/standards"

var defaultEvaluator = NewEvaluator(standards.Default())

// Default returns an evaluator bound to standards.Default().
func Default() *Evaluator {
	return defaultEvaluator
}

// CalculateScore scores against the default table.
func CalculateScore(alkalinity, hardness, sodium, tds float64) Score {
	return defaultEvaluator.CalculateScore(alkalinity, hardness, sodium, tds)
}

// AlkalinityPoints scores alkalinity against the default table.
func AlkalinityPoints(alkalinity float64) float64 {
	return defaultEvaluator.AlkalinityPoints(alkalinity)
}

// HardnessPoints scores hardness against the default table.
func HardnessPoints(hardness float64) float64 {
	return defaultEvaluator.HardnessPoints(hardness)
}

// SodiumPoints scores sodium against the default table.
func SodiumPoints(sodium float64) float64 {
	return defaultEvaluator.SodiumPoints(sodium)
}

// TDSPoints scores tds against the default table.
func TDSPoints(tds float64) float64 {
	return defaultEvaluator.TDSPoints(tds)
}

// PHStatus maps pH to a status against the default table.
func PHStatus(ph float64) Status {
	return defaultEvaluator.PHStatus(ph)
}
