// Package output provides utilities for formatting and displaying analysis reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/brew-water/internal/analysis"
	"github.com/iwvelando/brew-water/pkg/constants"
	"github.com/iwvelando/brew-water/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders reports in the named output format.
func Write(w io.Writer, outputFormat string, reports []analysis.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, reports)
	case constants.OutputFormatCSV:
		return CsvFormat(w, reports)
	case constants.OutputFormatJSON:
		return JSONFormat(w, reports)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, reports []analysis.Report) error {
	p := message.NewPrinter(language.English)
	for i, r := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		lines := prettyLines(p, r)
		if _, err := io.WriteString(w, strings.Join(lines, "\n")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func prettyLines(p *message.Printer, r analysis.Report) []string {
	lines := []string{
		fmt.Sprintf("--- %s: %s ---", r.Kind, r.Name),
		p.Sprintf("Profile | Ca %.2f | Mg %.2f | Na %.2f | HCO3 %.2f | pH %.2f | TDS %.2f",
			r.Profile.Calcium, r.Profile.Magnesium, r.Profile.Sodium, r.Profile.Bicarbonate, r.Profile.PH, r.Profile.TDS),
		fmt.Sprintf("Hardness %s | Alkalinity %s", format.PPM(r.Profile.Hardness()), format.PPM(r.Profile.Alkalinity())),
		p.Sprintf("Score   | %.1f (%s)", r.Score.TotalPoints, r.Score.Status),
	}
	if r.Score.CorrosionWarning {
		lines = append(lines, "Warning | alkalinity is in the corrosion risk range")
	}

	if len(r.Breakdown) > 0 {
		lines = append(lines,
			"Parameter  | Value            | Points | Status",
			"_________  | ________________ | ______ | ______")
		for _, b := range r.Breakdown {
			lines = append(lines, p.Sprintf("%-10s | %-16s | %6.1f | %s", b.Name, format.Number(b.Value), b.Points, b.Status))
		}
	}

	if o := r.Optimization; o != nil {
		if len(o.Recommendations) > 0 {
			lines = append(lines,
				"Solution              | Drops    | Added        | Final        | Optimal",
				"________              | _____    | _____        | _____        | _______")
			for _, rec := range o.Recommendations {
				lines = append(lines, fmt.Sprintf("%-21s | %-8s | %-12s | %-12s | %t",
					rec.Solution.Name, format.Drops(rec.Drops), format.PPM(rec.PPMAdded), format.PPM(rec.FinalPPM), rec.IsOptimal))
			}
		}
		lines = append(lines, fmt.Sprintf("Improvement | %s", format.Percent(o.ImprovementScore)))
		if r.Projected != nil {
			lines = append(lines, p.Sprintf("Projected   | %.1f (%s)", r.Projected.TotalPoints, r.Projected.Status))
		}
	}

	if b := r.Blend; b != nil {
		lines = append(lines, p.Sprintf("Blend   | %.0f mL total | %s A | %s B",
			b.TotalVolume, format.Percent(b.ProportionA*constants.PercentageMultiplier), format.Percent(b.ProportionB*constants.PercentageMultiplier)))
	}

	if len(r.Notes) > 0 {
		lines = append(lines, "Notes:")
		for _, note := range r.Notes {
			lines = append(lines, "  - "+note)
		}
	}
	return lines
}

// csvHeader lists the columns written by CsvFormat.
var csvHeader = []string{
	"kind", "name",
	"calcium", "magnesium", "sodium", "bicarbonate", "ph", "tds",
	"hardness", "alkalinity",
	"score", "status", "corrosion",
	"projected score", "total drops", "notes",
}

// CsvFormat outputs one comma-separated row per report.
func CsvFormat(w io.Writer, reports []analysis.Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range reports {
		projected, drops := "", ""
		if r.Projected != nil {
			projected = formatFloat(r.Projected.TotalPoints)
		}
		if r.Optimization != nil {
			drops = strconv.Itoa(r.Optimization.TotalDrops())
		}
		row := []string{
			r.Kind, r.Name,
			formatFloat(r.Profile.Calcium),
			formatFloat(r.Profile.Magnesium),
			formatFloat(r.Profile.Sodium),
			formatFloat(r.Profile.Bicarbonate),
			formatFloat(r.Profile.PH),
			formatFloat(r.Profile.TDS),
			formatFloat(r.Profile.Hardness()),
			formatFloat(r.Profile.Alkalinity()),
			formatFloat(r.Score.TotalPoints),
			r.Score.Status.String(),
			strconv.FormatBool(r.Score.CorrosionWarning),
			projected, drops,
			strings.Join(r.Notes, "; "),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// JSONFormat outputs the reports as an indented JSON array.
func JSONFormat(w io.Writer, reports []analysis.Report) error {
	if reports == nil {
		reports = []analysis.Report{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
