package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// Format renders a single solve.
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN RATE SOLUTION\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Policy:          %s (%s)\n", result.PolicyName, result.Kind))
	sb.WriteString(fmt.Sprintf("Status:          %s\n", tf.formatStatus(result.Converged)))
	sb.WriteString(fmt.Sprintf("Iterations:      %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:     %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("SOLUTION\n")
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Rate change:     %s%s pts\n", tf.deltaSymbol(result.RateChange), result.RateChange.Mul(hundred).StringFixed(3)))
	sb.WriteString(fmt.Sprintf("Target:          %s\n", tf.formatBillions(result.Target)))
	sb.WriteString(fmt.Sprintf("Achieved:        %s\n", tf.formatBillions(result.Achieved)))
	sb.WriteString(fmt.Sprintf("Gap:             %s%s\n", tf.deltaSymbol(result.Gap), tf.formatBillions(result.Gap)))

	if result.Score != nil {
		sb.WriteString("\n")
		sb.WriteString("SCORE AT SOLUTION\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		sb.WriteString(fmt.Sprintf("Static:          %s\n", tf.formatBillions(result.Score.TotalStatic())))
		sb.WriteString(fmt.Sprintf("Behavioral:      %s\n", tf.formatBillions(result.Score.TotalBehavioral())))
		if result.Score.IsDynamic() {
			sb.WriteString(fmt.Sprintf("Macro feedback:  %s\n", tf.formatBillions(result.Score.TotalRevenueFeedback())))
		}
		sb.WriteString(fmt.Sprintf("Final:           %s\n", tf.formatBillions(result.Score.TotalFinal())))
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatSchedule renders a multi-target schedule.
func (tf *TableFormatter) FormatSchedule(sched *Schedule) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("BREAK-EVEN SCHEDULE: %s\n", sched.PolicyName))
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("%-14s %14s %14s %10s %10s\n", "Target", "Rate Change", "Achieved", "Iter", "Status"))
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	for _, r := range sched.Results {
		sb.WriteString(fmt.Sprintf("%-14s %14s %14s %10d %10s\n",
			tf.formatBillions(r.Target),
			r.RateChange.Mul(hundred).StringFixed(3)+" pts",
			tf.formatBillions(r.Achieved),
			r.Iterations,
			tf.shortStatus(r.Converged)))
	}
	for _, f := range sched.Failed {
		sb.WriteString(fmt.Sprintf("%-14s %14s %14s %10s %10s\n", tf.formatBillions(f.Target), "-", "-", "-", "failed"))
	}
	sb.WriteString("\n")

	if len(sched.Recommendations) > 0 {
		sb.WriteString("NOTES\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		for _, rec := range sched.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *Result) (string, error) {
	return jf.marshal(result)
}

// FormatSchedule generates JSON output for a schedule.
func (jf *JSONFormatter) FormatSchedule(sched *Schedule) (string, error) {
	return jf.marshal(sched)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (tf *TableFormatter) formatStatus(converged bool) string {
	if converged {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) shortStatus(converged bool) string {
	if converged {
		return "ok"
	}
	return "partial"
}

func (tf *TableFormatter) formatBillions(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2) + "B"
	}
	return "$" + d.StringFixed(2) + "B"
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}
