package analysis_test

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/brew-water/internal/analysis"
	"github.com/iwvelando/brew-water/internal/config"
	"github.com/iwvelando/brew-water/pkg/constants"
	"github.com/iwvelando/brew-water/pkg/evaluation"
	"github.com/iwvelando/brew-water/pkg/output"
	"github.com/iwvelando/brew-water/pkg/testutil"
	"go.uber.org/zap"
)

var exampleConfig = filepath.Join("..", "..", "config.yaml.example")

func loadExample(t testing.TB) *config.Configuration {
	t.Helper()
	conf, err := config.LoadConfiguration(exampleConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	return conf
}

func TestExampleConfigurationEndToEnd(t *testing.T) {
	conf := loadExample(t)

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no configuration warnings, got %v", warnings)
	}

	reports, err := analysis.Run(zap.NewNop(), *conf)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(reports) != 4 {
		t.Fatalf("expected 4 reports, got %d", len(reports))
	}

	tap := analysis.FindReport(reports, analysis.KindEvaluate, "tap")
	if tap == nil {
		t.Fatal("missing tap evaluation")
	}
	if tap.Score.Status != evaluation.NotRecommended {
		t.Errorf("tap status = %s, expected NOT_RECOMMENDED", tap.Score.Status)
	}

	optimize := analysis.FindReport(reports, analysis.KindOptimize, "distilled")
	if optimize == nil || optimize.Optimization == nil {
		t.Fatal("missing distilled optimization")
	}
	if optimize.Optimization.Empty() {
		t.Error("distilled water should need drops")
	}

	mix := analysis.FindReport(reports, analysis.KindBlend, "tap + distilled")
	if mix == nil || mix.Blend == nil {
		t.Fatal("missing blend report")
	}
	if !testutil.AlmostEqual(mix.Blend.ProportionA, 40) {
		t.Errorf("ProportionA = %v, expected 40", mix.Blend.ProportionA)
	}

	for _, f := range []string{constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON} {
		var buf bytes.Buffer
		if err := output.Write(&buf, f, reports); err != nil {
			t.Fatalf("output.Write(%s) failed: %v", f, err)
		}
		if f == constants.OutputFormatCSV {
			rows, err := csv.NewReader(&buf).ReadAll()
			if err != nil {
				t.Fatalf("invalid CSV: %v", err)
			}
			if len(rows) != len(reports)+1 {
				t.Errorf("expected %d CSV rows, got %d", len(reports)+1, len(rows))
			}
			continue
		}
		if !strings.Contains(buf.String(), "tap + distilled") {
			t.Errorf("%s output does not mention the blend", f)
		}
	}
}

func TestDataConsistency(t *testing.T) {
	var first []analysis.Report
	for run := 0; run < 3; run++ {
		reports, err := analysis.Run(nil, *loadExample(t))
		if err != nil {
			t.Fatalf("Run failed on run %d: %v", run, err)
		}
		if run == 0 {
			first = reports
			continue
		}
		if !reflect.DeepEqual(first, reports) {
			t.Fatalf("run %d produced different reports", run)
		}
	}
}

func TestPerformance(t *testing.T) {
	// Skip this test unless running in verbose mode to avoid timing noise in CI
	if !testing.Verbose() {
		t.Skip("Skipping performance test. Run with -v to enable.")
	}

	start := time.Now()
	conf := loadExample(t)
	loadTime := time.Since(start)

	start = time.Now()
	for i := 0; i < 1000; i++ {
		if _, err := analysis.Run(nil, *conf); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	}
	runTime := time.Since(start)

	t.Logf("Performance metrics:")
	t.Logf("  Load config: %v", loadTime)
	t.Logf("  1000 analysis runs: %v", runTime)

	if runTime > 5*time.Second {
		t.Errorf("analysis time %v exceeds 5 second threshold", runTime)
	}
}

func BenchmarkRun(b *testing.B) {
	conf := loadExample(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := analysis.Run(nil, *conf); err != nil {
			b.Fatal(err)
		}
	}
}
