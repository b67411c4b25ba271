package evaluation_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwvelando/brew-water/pkg/evaluation"
	"github.com/iwvelando/brew-water/pkg/standards"
	"github.com/iwvelando/brew-water/pkg/water"
)

func TestParameterPointBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(float64) float64
		value float64
		want  float64
	}{
		{"Alkalinity lower ideal edge", evaluation.AlkalinityPoints, 30.0, 100},
		{"Alkalinity below ideal", evaluation.AlkalinityPoints, 29.99, 0},
		{"Alkalinity upper ideal edge", evaluation.AlkalinityPoints, 50.0, 100},
		{"Alkalinity acceptable lower", evaluation.AlkalinityPoints, 51.0, 50},
		{"Alkalinity acceptable upper", evaluation.AlkalinityPoints, 75.0, 50},
		{"Alkalinity above acceptable", evaluation.AlkalinityPoints, 76.0, 0},

		{"Hardness lower ideal edge", evaluation.HardnessPoints, 50.0, 100},
		{"Hardness below ideal", evaluation.HardnessPoints, 49.0, 0},
		{"Hardness upper ideal edge", evaluation.HardnessPoints, 90.0, 100},
		{"Hardness acceptable lower", evaluation.HardnessPoints, 91.0, 50},
		{"Hardness acceptable upper", evaluation.HardnessPoints, 110.0, 50},
		{"Hardness above acceptable", evaluation.HardnessPoints, 111.0, 0},

		{"Sodium zero", evaluation.SodiumPoints, 0.0, 100},
		{"Sodium upper ideal edge", evaluation.SodiumPoints, 10.0, 100},
		{"Sodium acceptable lower", evaluation.SodiumPoints, 11.0, 50},
		{"Sodium acceptable upper", evaluation.SodiumPoints, 30.0, 50},
		{"Sodium above acceptable", evaluation.SodiumPoints, 31.0, 0},

		{"TDS lower ideal edge", evaluation.TDSPoints, 100.0, 100},
		{"TDS upper ideal edge", evaluation.TDSPoints, 180.0, 100},
		{"TDS low acceptable upper", evaluation.TDSPoints, 99.99, 50},
		{"TDS low acceptable lower", evaluation.TDSPoints, 75.0, 50},
		{"TDS below acceptable", evaluation.TDSPoints, 74.0, 0},
		{"TDS high acceptable lower", evaluation.TDSPoints, 181.0, 50},
		{"TDS high acceptable upper", evaluation.TDSPoints, 250.0, 50},
		{"TDS above acceptable", evaluation.TDSPoints, 251.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.value))
		})
	}
}

func TestOutOfDomainFallsToZeroTier(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Equal(t, 0.0, evaluation.AlkalinityPoints(v))
		assert.Equal(t, 0.0, evaluation.HardnessPoints(v))
		assert.Equal(t, 0.0, evaluation.TDSPoints(v))
	}
	assert.Equal(t, 0.0, evaluation.SodiumPoints(-0.5))
	assert.Equal(t, 0.0, evaluation.SodiumPoints(math.NaN()))

	score := evaluation.CalculateScore(math.NaN(), -5, math.NaN(), -1)
	assert.Equal(t, 0.0, score.TotalPoints)
	assert.Equal(t, evaluation.NotRecommended, score.Status)
	assert.False(t, score.CorrosionWarning)
}

func TestCalculateScoreScenarios(t *testing.T) {
	ideal := standards.IdealProfile()

	tests := []struct {
		name      string
		alk       float64
		hardness  float64
		sodium    float64
		tds       float64
		total     float64
		status    evaluation.Status
		corrosion bool
	}{
		{"Ideal profile", ideal.Alkalinity(), ideal.Hardness(), ideal.Sodium, ideal.TDS, 100, evaluation.Ideal, false},
		{"All ideal with corrosion band", 35, 70, 5, 150, 100, evaluation.Ideal, true},
		{"All zero tiers", 20, 150, 50, 400, 0, evaluation.NotRecommended, false},
		{"All acceptable", 60, 100, 20, 200, 50, evaluation.Acceptable, false},
		{"Alkalinity only", 45, 0, 100, 0, 50, evaluation.Acceptable, false},
		{"Everything but alkalinity", 0, 70, 5, 150, 50, evaluation.Acceptable, false},
		{"Hardness and minor", 0, 70, 0, 0, 40, evaluation.Acceptable, false},
		{"Just under acceptable", 0, 100, 5, 150, 35, evaluation.NotRecommended, false},
		{"Ideal threshold exactly", 45, 70, 50, 400, 80, evaluation.Ideal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := evaluation.CalculateScore(tt.alk, tt.hardness, tt.sodium, tt.tds)
			assert.InDelta(t, tt.total, score.TotalPoints, 1e-9)
			assert.Equal(t, tt.status, score.Status)
			assert.Equal(t, tt.corrosion, score.CorrosionWarning)
		})
	}
}

func TestCalculateScoreIsPure(t *testing.T) {
	first := evaluation.CalculateScore(42, 77, 8, 130)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, evaluation.CalculateScore(42, 77, 8, 130))
	}
}

func TestWeightedTotalBounds(t *testing.T) {
	tiers := []float64{0, 50, 100}
	for _, a := range tiers {
		for _, h := range tiers {
			for _, s := range tiers {
				for _, d := range tiers {
					total := evaluation.WeightAlkalinity*a + evaluation.WeightHardness*h +
						evaluation.WeightSodium*s + evaluation.WeightTDS*d
					assert.GreaterOrEqual(t, total, 0.0)
					assert.LessOrEqual(t, total, 100.0+1e-9)
				}
			}
		}
	}
	assert.InDelta(t, 1.0, evaluation.WeightAlkalinity+evaluation.WeightHardness+evaluation.WeightSodium+evaluation.WeightTDS, 1e-12)
}

func TestCorrosionWarningIndependentOfScore(t *testing.T) {
	tests := []struct {
		alk  float64
		want bool
	}{
		{29.99, false},
		{30, true},
		{39.99, true},
		{40, false},
		{50, false},
	}
	for _, tt := range tests {
		// hardness, sodium and tds all in the zero tier
		score := evaluation.CalculateScore(tt.alk, 500, 500, 500)
		assert.Equal(t, tt.want, score.CorrosionWarning, "alkalinity %v", tt.alk)
	}
}

func TestPHStatus(t *testing.T) {
	tests := []struct {
		ph   float64
		want evaluation.Status
	}{
		{0, evaluation.NotApplicable},
		{6.5, evaluation.Ideal},
		{7.0, evaluation.Ideal},
		{7.5, evaluation.Ideal},
		{6.0, evaluation.Acceptable},
		{6.49, evaluation.Acceptable},
		{7.51, evaluation.Acceptable},
		{8.0, evaluation.Acceptable},
		{6.495, evaluation.NotRecommended},
		{5.9, evaluation.NotRecommended},
		{8.1, evaluation.NotRecommended},
		{14, evaluation.NotRecommended},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evaluation.PHStatus(tt.ph), "ph %v", tt.ph)
	}
}

func TestScoreProfileUsesDerivedQuantities(t *testing.T) {
	score := evaluation.Default().ScoreProfile(standards.IdealProfile())
	assert.Equal(t, 100.0, score.TotalPoints)
	assert.Equal(t, evaluation.Ideal, score.Status)
	assert.False(t, score.CorrosionWarning)
}

func TestCustomTableIsInjected(t *testing.T) {
	table := standards.Default()
	table.Sodium.Ideal = standards.Range{Low: 0, High: 50}
	e := evaluation.NewEvaluator(table)

	assert.Equal(t, 100.0, e.SodiumPoints(40))
	assert.Equal(t, 50.0, evaluation.SodiumPoints(25))
	assert.Equal(t, 50.0, e.Table().Sodium.Ideal.High)
}

func TestBreakdown(t *testing.T) {
	p := water.Profile{Calcium: 40, Magnesium: 0, Sodium: 20, Bicarbonate: 48.8, PH: 0, TDS: 60}

	results := evaluation.Default().Breakdown(p)
	require.Len(t, results, 5)

	byName := make(map[string]evaluation.ParameterResult)
	for _, r := range results {
		byName[r.Name] = r
	}

	assert.Equal(t, evaluation.Ideal, byName[evaluation.ParamAlkalinity].Status)
	assert.Equal(t, evaluation.Acceptable, byName[evaluation.ParamHardness].Status) // 99.88
	assert.Equal(t, evaluation.Acceptable, byName[evaluation.ParamSodium].Status)
	assert.Equal(t, evaluation.NotRecommended, byName[evaluation.ParamTDS].Status)
	assert.Equal(t, evaluation.NotApplicable, byName[evaluation.ParamPH].Status)
	assert.Equal(t, 0.0, byName[evaluation.ParamPH].Weight)
}

func TestStatusText(t *testing.T) {
	data, err := json.Marshal(evaluation.Score{TotalPoints: 85, Status: evaluation.Ideal})
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalPoints":85,"status":"IDEAL","corrosionWarning":false}`, string(data))

	var s evaluation.Status
	require.NoError(t, s.UnmarshalText([]byte("not_applicable")))
	assert.Equal(t, evaluation.NotApplicable, s)
	assert.Error(t, s.UnmarshalText([]byte("perfect")))
	assert.Equal(t, "Status(7)", evaluation.Status(7).String())
}
