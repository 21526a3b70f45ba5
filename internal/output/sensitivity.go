package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/laurencehw/fiscal-policy-calculator/internal/sensitivity"
	"github.com/shopspring/decimal"
)

var barWidth = decimal.NewFromInt(20)

// SensitivityFormatter renders sweep and tornado results.
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis any) (string, error)
	Name() string
}

// NewSensitivityFormatter returns the formatter for name: console or json.
func NewSensitivityFormatter(name string) (SensitivityFormatter, error) {
	switch strings.ToLower(name) {
	case "", "console", "table", "text":
		return SensitivityConsoleFormatter{}, nil
	case "json":
		return SensitivityJSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported sensitivity format %q (available: console, json)", name)
	}
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis any) (string, error) {
	var buf bytes.Buffer

	switch a := analysis.(type) {
	case *sensitivity.Sweep:
		return scf.formatSweep(&buf, a)
	case *sensitivity.Tornado:
		return scf.formatTornado(&buf, a)
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
}

func (scf SensitivityConsoleFormatter) formatSweep(buf *bytes.Buffer, s *sensitivity.Sweep) (string, error) {
	if len(s.Points) == 0 {
		return "", fmt.Errorf("no results in analysis")
	}

	name := strings.ToUpper(strings.ReplaceAll(string(s.Parameter.Name), "_", " "))
	fmt.Fprintln(buf, TitleStyle.Render("SENSITIVITY ANALYSIS: "+name))
	fmt.Fprintln(buf, SubtitleStyle.Render(s.Parameter.Description))
	fmt.Fprintf(buf, "Policy: %s\n", s.PolicyName)
	fmt.Fprintf(buf, "Base case: %s = %s (total %s)\n", s.Parameter.Name, s.BaseValue.String(), FormatBillions(s.BaseTotal))
	if s.Dynamic {
		fmt.Fprintln(buf, "Scoring: dynamic")
	}
	fmt.Fprintln(buf)

	headers := []string{"Value", "Final", "Behavioral", "Change", "Change %"}
	if s.Dynamic {
		headers = []string{"Value", "Final", "Behavioral", "Feedback", "Change", "Change %"}
	}
	rows := make([][]string, 0, len(s.Points))
	for _, pt := range s.Points {
		value := pt.Value.String()
		if pt.IsBase {
			value += " ← BASE"
		}
		row := []string{value, FormatBillions(pt.TotalFinal), FormatBillions(pt.TotalBehavioral)}
		if s.Dynamic {
			row = append(row, FormatBillions(pt.TotalFeedback))
		}
		row = append(row, FormatBillions(pt.ChangeFromBase), pt.ChangePct.StringFixed(1)+"%")
		rows = append(rows, row)
	}
	fmt.Fprintln(buf, renderTable(headers, rows, nil))
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "Largest move: %s%%  Elasticity of score: %s\n",
		s.Summary.MaxChangePct.StringFixed(1), s.Summary.Elasticity.StringFixed(3))
	fmt.Fprintf(buf, "RISK LEVEL: %s %s\n", riskEmoji(s.Summary.RiskLevel), s.Summary.RiskLevel)
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "RECOMMENDATIONS:")
	for _, rec := range s.Summary.Recommendations {
		fmt.Fprintf(buf, "  • %s\n", rec)
	}
	return buf.String(), nil
}

func (scf SensitivityConsoleFormatter) formatTornado(buf *bytes.Buffer, t *sensitivity.Tornado) (string, error) {
	if len(t.Bars) == 0 {
		return "", fmt.Errorf("no parameters in tornado")
	}

	fmt.Fprintln(buf, TitleStyle.Render("TORNADO: "+strings.ToUpper(t.PolicyName)))
	fmt.Fprintln(buf, SubtitleStyle.Render(fmt.Sprintf("±%s%% on each assumption, base total %s",
		t.SwingPct.StringFixed(0), FormatBillions(t.BaseTotal))))
	fmt.Fprintln(buf)

	widest := t.Bars[0].Swing
	rows := make([][]string, 0, len(t.Bars))
	for _, bar := range t.Bars {
		width := 0
		if widest.IsPositive() {
			width = int(bar.Swing.Div(widest).Mul(barWidth).IntPart())
		}
		rows = append(rows, []string{
			string(bar.Parameter),
			bar.LowValue.StringFixed(3) + " / " + bar.HighValue.StringFixed(3),
			FormatBillions(bar.LowTotal),
			FormatBillions(bar.HighTotal),
			FormatBillions(bar.Swing),
			strings.Repeat("█", width),
		})
	}
	fmt.Fprintln(buf, renderTable([]string{"Parameter", "Low / High", "Low Total", "High Total", "Swing", ""}, rows, nil))

	if len(t.Skipped) > 0 {
		skipped := make([]string, len(t.Skipped))
		for i, p := range t.Skipped {
			skipped[i] = string(p)
		}
		fmt.Fprintf(buf, "\nNot applicable: %s\n", strings.Join(skipped, ", "))
	}
	return buf.String(), nil
}

func riskEmoji(level string) string {
	switch level {
	case sensitivity.RiskLow:
		return "✅"
	case sensitivity.RiskMedium:
		return "⚠️"
	case sensitivity.RiskHigh:
		return "🔴"
	case sensitivity.RiskCritical:
		return "🚨"
	}
	return ""
}

// SensitivityJSONFormatter formats sensitivity analysis as indented JSON.
type SensitivityJSONFormatter struct{}

func (SensitivityJSONFormatter) Name() string { return "json" }

func (SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis any) (string, error) {
	switch analysis.(type) {
	case *sensitivity.Sweep, *sensitivity.Tornado:
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal sensitivity analysis: %w", err)
	}
	return string(data), nil
}
