package compare

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

func sampleSet() *ComparisonSet {
	return &ComparisonSet{
		BasePolicyName: "Top rate",
		ConfigPath:     "/path/to/policy.yaml",
		Years:          []int{2025, 2034},
		Dynamic:        true,
		BaseResult: &ComparisonResult{
			PolicyName:      "Top rate",
			TotalStatic:     decimal.NewFromFloat(-374.4),
			TotalBehavioral: decimal.NewFromFloat(46.8),
			TotalFinal:      decimal.NewFromFloat(-327.6),
			AverageAnnual:   decimal.NewFromFloat(-32.76),
		},
		AlternativeResults: []ComparisonResult{
			{
				PolicyName:     "Top rate_double_size",
				Description:    "Double the rate change",
				TotalStatic:    decimal.NewFromFloat(-748.8),
				TotalFinal:     decimal.NewFromFloat(-1655.2),
				DiffFromBase:   decimal.NewFromFloat(-1327.6),
				PctFromBase:    decimal.NewFromFloat(-405.2),
				StaticDiffFrom: decimal.NewFromFloat(-374.4),
				TotalFeedback:  decimal.NewFromFloat(12),
			},
		},
		Recommendations: []string{"Largest deficit reduction: Top rate_double_size"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(sampleSet())

	for _, want := range []string{
		"POLICY COMPARISON",
		"Base Policy: Top rate",
		"Window: 2025-2034 (dynamic scoring)",
		"Configuration: /path/to/policy.yaml",
		"Top rate (base)",
		"-$327.6B",
		"-$1.66T",
		"Deficit Effect:   -$1.33T (-405.2%)",
		"Revenue Feedback: $12.0B",
		"HIGHLIGHTS",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestTableFormatter_EmptyAlternatives(t *testing.T) {
	set := sampleSet()
	set.AlternativeResults = nil
	set.Recommendations = nil
	out := (&TableFormatter{}).Format(set)
	if strings.Contains(out, "COMPARISON TO BASE") || strings.Contains(out, "HIGHLIGHTS") {
		t.Error("Expected no comparison sections without alternatives")
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	out := (&TableFormatter{}).FormatCompact(sampleSet())
	if out != "Base: Top rate -$327.6B | Top rate_double_size: -$1.33T" {
		t.Errorf("Unexpected compact output: %s", out)
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := (&JSONFormatter{Pretty: true}).Format(sampleSet())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded["basePolicyName"] != "Top rate" {
		t.Errorf("Unexpected base name: %v", decoded["basePolicyName"])
	}
	if !strings.Contains(out, "\n  ") {
		t.Error("Expected indented output")
	}
}

func TestJSONFormatter_Paths(t *testing.T) {
	set := sampleSet()
	set.BaseResult.Result = &domain.ScoringResult{
		Years: []int{2025, 2026},
		Final: []decimal.Decimal{decimal.NewFromFloat(-32.76), decimal.NewFromFloat(-32.76)},
	}

	out, err := (&JSONFormatter{}).Format(set)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(out, "finalPaths") {
		t.Error("Expected no paths unless requested")
	}

	out, err = (&JSONFormatter{Paths: true}).Format(set)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var decoded struct {
		BasePolicyName string `json:"basePolicyName"`
		FinalPaths     map[string][]struct {
			Year  int             `json:"year"`
			Final decimal.Decimal `json:"final"`
		} `json:"finalPaths"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.BasePolicyName != "Top rate" {
		t.Errorf("Expected set fields inline, got base %q", decoded.BasePolicyName)
	}
	path := decoded.FinalPaths["Top rate"]
	if len(path) != 2 || path[1].Year != 2026 || !path[1].Final.Equal(decimal.NewFromFloat(-32.76)) {
		t.Errorf("Unexpected base path: %+v", path)
	}
	if _, ok := decoded.FinalPaths["Top rate_double_size"]; ok {
		t.Error("Expected no path for a result without a scored path")
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleSet())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus two rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "Top rate,base,") {
		t.Errorf("Unexpected base row: %s", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Top rate_double_size,alternative,") {
		t.Errorf("Unexpected alternative row: %s", lines[2])
	}
}
