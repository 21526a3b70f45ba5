package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Policy",
		"Type",
		"Kind",
		"Total Static",
		"Total Behavioral",
		"Total Feedback",
		"Total Final",
		"Low",
		"High",
		"Offset %",
		"Diff from Base",
		"% Change",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}
	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *ComparisonResult, role string) []string {
	return []string{
		result.PolicyName,
		role,
		string(result.Kind),
		result.TotalStatic.StringFixed(2),
		result.TotalBehavioral.StringFixed(2),
		result.TotalFeedback.StringFixed(2),
		result.TotalFinal.StringFixed(2),
		result.TotalLow.StringFixed(2),
		result.TotalHigh.StringFixed(2),
		result.OffsetPercent.StringFixed(2),
		result.DiffFromBase.StringFixed(2),
		result.PctFromBase.StringFixed(2),
	}
}
