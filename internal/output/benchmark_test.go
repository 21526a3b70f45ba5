package output

import (
	"encoding/json"
	"testing"

	"github.com/laurencehw/fiscal-policy-calculator/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestReport() *validation.Report {
	d := decimal.NewFromFloat
	return &validation.Report{
		Results: []validation.Result{
			{
				Benchmark:         validation.Benchmark{ID: "tcja_extension_full", Name: "TCJA Full Extension", TenYearCost: d(4600), Source: validation.SourceCBO},
				ModelTenYear:      d(4582),
				Difference:        d(-18),
				PercentDifference: d(-0.39),
				DirectionMatch:    true,
				Rating:            validation.RatingExcellent,
			},
			{
				Benchmark:         validation.Benchmark{ID: "broken", Name: "Broken", TenYearCost: d(-100), Source: validation.SourceJCT},
				Difference:        d(100),
				PercentDifference: d(100),
				Rating:            validation.RatingError,
				Error:             "no bracket table",
			},
		},
		Skipped: []string{"ira_2022"},
		Summary: validation.Summary{Scored: 1, Accurate: 1, DirectionMatches: 1, Errors: 1, MeanAbsPercent: d(0.39)},
	}
}

func TestFormatBenchmarkReport_Console(t *testing.T) {
	out, err := FormatBenchmarkReport(buildTestReport(), "table")
	require.NoError(t, err)
	for _, want := range []string{
		"VALIDATION AGAINST OFFICIAL SCORES",
		"TCJA Full Extension",
		"$4600.0B",
		"Excellent ✓",
		"Within 20%: 1 of 1",
		"broken: no bracket table",
		"Not replicable: ira_2022",
	} {
		assert.Contains(t, out, want)
	}
}

func TestFormatBenchmarkReport_JSON(t *testing.T) {
	out, err := FormatBenchmarkReport(buildTestReport(), "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	results := decoded["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, "Excellent", first["rating"])
	assert.Equal(t, "tcja_extension_full", first["benchmark"].(map[string]any)["id"])

	_, err = FormatBenchmarkReport(buildTestReport(), "xml")
	assert.Error(t, err)
	_, err = FormatBenchmarkReport(nil, "json")
	assert.Error(t, err)
}
