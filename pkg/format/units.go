// Package format renders engine values for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/brew-water/pkg/mathutil"
)

// PPM returns a concentration with thousands separators and a unit (e.g., "1,234.56 mg/L").
func PPM(value float64) string {
	return Number(value) + " mg/L"
}

// Number returns a value with two decimals and thousands separators (e.g., "-1,234.56").
// Values that round to zero never carry a sign.
func Number(value float64) string {
	if math.IsNaN(value) {
		return "NaN"
	}
	rounded := mathutil.Round(value)
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	return sign + formatPositive(math.Abs(rounded))
}

// Percent returns a percentage with one decimal (e.g., "62.5%").
func Percent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// Drops returns a drop count with the right plural (e.g., "1 drop", "12 drops").
func Drops(n int) string {
	if n == 1 {
		return "1 drop"
	}
	return fmt.Sprintf("%d drops", n)
}

func formatPositive(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
