package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/laurencehw/fiscal-policy-calculator/internal/validation"
)

var (
	ratingGoodStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	ratingPoorStyle = lipgloss.NewStyle().Foreground(colorDanger)
)

// FormatBenchmarkReport renders a validation report as a console table or,
// for format "json", as indented JSON.
func FormatBenchmarkReport(r *validation.Report, format string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report cannot be nil")
	}
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal benchmark report: %w", err)
		}
		return string(data) + "\n", nil
	case "", "console", "table", "text":
		return formatBenchmarkConsole(r), nil
	default:
		return "", fmt.Errorf("unsupported benchmark format %q (available: console, json)", format)
	}
}

func formatBenchmarkConsole(r *validation.Report) string {
	var b strings.Builder
	mode := "conventional"
	if r.Dynamic {
		mode = "dynamic"
	}
	b.WriteString(TitleStyle.Render("VALIDATION AGAINST OFFICIAL SCORES") + "\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d benchmarks, %s scoring", len(r.Results), mode)) + "\n\n")

	headers := []string{"Benchmark", "Source", "Official", "Model", "Diff", "Diff %", "Rating"}
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		direction := "✓"
		if !res.DirectionMatch {
			direction = "✗"
		}
		rows = append(rows, []string{
			res.Benchmark.Name,
			string(res.Benchmark.Source),
			FormatBillions(res.Benchmark.TenYearCost),
			FormatBillions(res.ModelTenYear),
			FormatBillions(res.Difference),
			res.PercentDifference.StringFixed(1) + "%",
			string(res.Rating) + " " + direction,
		})
	}
	ratingCol := len(headers) - 1
	b.WriteString(renderTable(headers, rows, func(row, col int) lipgloss.Style {
		if col != ratingCol || row < 0 || row >= len(r.Results) {
			return lipgloss.NewStyle()
		}
		if r.Results[row].Accurate() {
			return ratingGoodStyle
		}
		return ratingPoorStyle
	}))
	b.WriteString("\n\n")

	s := r.Summary
	fmt.Fprintf(&b, "Within %s%%: %d of %d   Direction matches: %d   Mean |diff|: %s%%\n",
		validation.AccurateWithin.String(), s.Accurate, s.Scored, s.DirectionMatches, s.MeanAbsPercent.StringFixed(1))
	for _, res := range r.Results {
		if res.Error != "" {
			fmt.Fprintf(&b, "  %s: %s\n", res.Benchmark.ID, res.Error)
		}
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "Not replicable: %s\n", strings.Join(r.Skipped, ", "))
	}
	b.WriteString(SubtitleStyle.Render("Ten-year totals in billions. Positive values increase the deficit.") + "\n")
	return b.String()
}
