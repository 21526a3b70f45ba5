package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing policies
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	mode := "conventional"
	if compSet.Dynamic {
		mode = "dynamic"
	}

	sb.WriteString("POLICY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 88) + "\n")
	sb.WriteString(fmt.Sprintf("Base Policy: %s\n", compSet.BasePolicyName))
	if len(compSet.Years) > 0 {
		sb.WriteString(fmt.Sprintf("Window: %d-%d (%s scoring)\n", compSet.Years[0], compSet.Years[len(compSet.Years)-1], mode))
	}
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Policy",
		numWidth, "Static",
		numWidth, "Behavioral",
		numWidth, "Final",
		numWidth, "Per Year"))
	sb.WriteString(strings.Repeat("-", 88) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}
	sb.WriteString(strings.Repeat("=", 88) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.PolicyName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}
			sb.WriteString(fmt.Sprintf("  Deficit Effect:   %s%s (%s%%)\n",
				tf.deltaSymbol(alt.DiffFromBase), tf.formatBillions(alt.DiffFromBase), alt.PctFromBase.StringFixed(1)))
			if !alt.StaticDiffFrom.IsZero() {
				sb.WriteString(fmt.Sprintf("  Static Effect:    %s%s\n",
					tf.deltaSymbol(alt.StaticDiffFrom), tf.formatBillions(alt.StaticDiffFrom)))
			}
			if compSet.Dynamic {
				sb.WriteString(fmt.Sprintf("  Revenue Feedback: %s\n", tf.formatBillions(alt.TotalFeedback)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nHIGHLIGHTS\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("* %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.PolicyName
	if isBase {
		name += " (base)"
	}
	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, tf.formatBillions(result.TotalStatic),
		numWidth, tf.formatBillions(result.TotalBehavioral),
		numWidth, tf.formatBillions(result.TotalFinal),
		numWidth, tf.formatBillions(result.AverageAnnual))
}

// formatBillions formats billions, switching to trillions at 1000.
func (tf *TableFormatter) formatBillions(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	abs := d.Abs()
	if abs.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return sign + "$" + abs.Div(decimal.NewFromInt(1000)).StringFixed(2) + "T"
	}
	return sign + "$" + abs.StringFixed(1) + "B"
}

// deltaSymbol prefixes positive deltas with "+"; negatives carry their own sign.
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each alternative
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Base: %s %s | ", compSet.BasePolicyName, tf.formatBillions(compSet.BaseResult.TotalFinal)))
	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.DiffFromBase.IsZero() {
			change = tf.deltaSymbol(alt.DiffFromBase) + tf.formatBillions(alt.DiffFromBase)
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.PolicyName, change))
	}
	return sb.String()
}
