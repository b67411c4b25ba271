package reading

import (
	"math"
	"testing"

	"github.com/iwvelando/brew-water/pkg/mathutil"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"Dot separator", "7.5", 7.5},
		{"Comma separator", "7,5", 7.5},
		{"Integer", "42", 42},
		{"Surrounding whitespace", "  18,15 ", 18.15},
		{"Negative value", "-3.2", -3.2},
		{"Blank", "", 0},
		{"Whitespace only", "   ", 0},
		{"Letters", "abc", 0},
		{"Two commas", "1,000,5", 0},
		{"Comma and dot", "1.000,5", 0},
		{"NaN text", "NaN", 0},
		{"Infinity text", "Inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseDecimal(tt.text)
			if !mathutil.WithinTolerance(result, tt.expected, 1e-9) {
				t.Errorf("ParseDecimal(%q) = %v, expected %v", tt.text, result, tt.expected)
			}
		})
	}
}

func TestMustParseDecimal(t *testing.T) {
	if got := MustParseDecimal("48,8"); got != 48.8 {
		t.Errorf("MustParseDecimal() = %v, expected 48.8", got)
	}
}

func TestMustParseDecimalPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseDecimal to panic with invalid text")
		}
	}()

	MustParseDecimal("not-a-number")
}

func TestParseProfile(t *testing.T) {
	t.Run("All fields", func(t *testing.T) {
		p := ParseProfile(map[string]string{
			FieldCalcium:     "18,15",
			FieldMagnesium:   "5.5",
			FieldSodium:      "10",
			FieldBicarbonate: "48,8",
			FieldPH:          "6,8",
			FieldTDS:         "150",
		})
		if p.Calcium != 18.15 || p.Magnesium != 5.5 || p.Sodium != 10 || p.Bicarbonate != 48.8 {
			t.Errorf("unexpected minerals: %+v", p)
		}
		if p.PH != 6.8 {
			t.Errorf("PH = %v, expected 6.8", p.PH)
		}
		if p.TDS != 150 {
			t.Errorf("TDS = %v, expected 150", p.TDS)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		p := ParseProfile(map[string]string{
			FieldCalcium:     "20",
			FieldBicarbonate: "30",
			FieldSodium:      "oops",
		})
		if p.Sodium != 0 {
			t.Errorf("Sodium = %v, expected 0 for invalid text", p.Sodium)
		}
		if p.PH != 7.0 {
			t.Errorf("PH = %v, expected default 7.0", p.PH)
		}
		if p.TDS != 50 {
			t.Errorf("TDS = %v, expected mineral sum 50", p.TDS)
		}
	})

	t.Run("Empty form", func(t *testing.T) {
		p := ParseProfile(nil)
		if p.MineralSum() != 0 || p.TDS != 0 || p.PH != 7.0 {
			t.Errorf("unexpected profile from empty form: %+v", p)
		}
		if math.IsNaN(p.Hardness()) {
			t.Errorf("hardness should be finite")
		}
	})
}
