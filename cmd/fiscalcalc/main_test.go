package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/laurencehw/fiscal-policy-calculator/internal/breakeven"
	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

func example(name string) string {
	return filepath.Join("..", "..", "examples", name)
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "fiscalcalc" {
		t.Errorf("Expected root command use to be 'fiscalcalc', got %s", rootCmd.Use)
	}
	if rootCmd.Short == "" || rootCmd.Long == "" {
		t.Error("Expected root command to have short and long descriptions")
	}
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{"score", "distribute", "compare", "solve", "sensitivity", "validate", "benchmark", "serve", "runs", "version"}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("Expected command %q to be registered", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "fiscalcalc dev") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", example("package.yaml"))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "is valid") || !strings.Contains(out, "Family support package (3 policies)") {
		t.Errorf("unexpected validate output:\n%s", out)
	}

	if _, err := execute(t, "validate", example("missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestScoreCommand_JSON(t *testing.T) {
	out, err := execute(t, "score", example("top_rate.yaml"), "--format", "json")
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	var r domain.ScoringResult
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("score output is not JSON: %v\n%s", err, out)
	}
	if r.Kind != domain.KindIncomeTax || len(r.Years) != 10 {
		t.Errorf("unexpected result: kind %s, %d years", r.Kind, len(r.Years))
	}
	if !r.TotalFinal().IsNegative() {
		t.Errorf("a rate increase should reduce the deficit, got %s", r.TotalFinal())
	}
}

func TestScoreCommand_SaveAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	if _, err := execute(t, "score", example("ctc_expansion.yaml"), "--format", "csv", "--save", "--db", db); err != nil {
		t.Fatalf("score --save failed: %v", err)
	}
	out, err := execute(t, "runs", "list", "--db", db)
	if err != nil {
		t.Fatalf("runs list failed: %v", err)
	}
	if !strings.Contains(out, "CTC expansion") || !strings.Contains(out, "cli") {
		t.Errorf("saved run not listed:\n%s", out)
	}
}

func TestDistributeCommand(t *testing.T) {
	out, err := execute(t, "distribute", example("top_rate.yaml"), "--format", "json", "--scheme", "decile")
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}
	var a domain.DistributionalAnalysis
	if err := json.Unmarshal([]byte(out), &a); err != nil {
		t.Fatalf("distribute output is not JSON: %v", err)
	}
	if a.Scheme != domain.SchemeDecile || len(a.Results) != 10 {
		t.Errorf("expected 10 decile rows, got %s with %d", a.Scheme, len(a.Results))
	}
}

func TestParseGroups(t *testing.T) {
	bounds, err := parseGroups("0-50000, 50000-200000, 200000+")
	if err != nil {
		t.Fatalf("parseGroups failed: %v", err)
	}
	want := []data.GroupBound{
		data.CustomBound(decimal.Zero, dp(50_000)),
		data.CustomBound(decimal.NewFromInt(50_000), dp(200_000)),
		data.CustomBound(decimal.NewFromInt(200_000), nil),
	}
	if len(bounds) != len(want) {
		t.Fatalf("expected %d bounds, got %d", len(want), len(bounds))
	}
	for i := range want {
		if bounds[i].Name != want[i].Name {
			t.Errorf("bound %d: expected %s, got %s", i, want[i].Name, bounds[i].Name)
		}
	}

	for _, bad := range []string{"abc", "100-50", "10-x", "x+"} {
		if _, err := parseGroups(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func dp(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", example("top_rate.yaml"), "--with", "delay_1yr,high_eti", "--format", "csv")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 4 {
		t.Errorf("expected a header, the base and two alternatives, got:\n%s", out)
	}

	if _, err := execute(t, "compare", example("infrastructure.yaml"), "--with", ""); err == nil {
		t.Error("expected an error when there is nothing to compare")
	}
}

func TestSolveCommand(t *testing.T) {
	out, err := execute(t, "solve", example("top_rate.yaml"), "--target", "-400", "--format", "json")
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	var r breakeven.Result
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("solve output is not JSON: %v", err)
	}
	if !r.Converged || !r.RateChange.IsPositive() {
		t.Errorf("expected a converged positive rate change, got %+v", r)
	}
}

func TestSensitivityCommand_List(t *testing.T) {
	out, err := execute(t, "sensitivity", "--list")
	if err != nil {
		t.Fatalf("sensitivity --list failed: %v", err)
	}
	for _, name := range []string{"eti", "lock_in_multiplier", "crowding_out"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected parameter %s in listing:\n%s", name, out)
		}
	}
}

func TestBenchmarkCommand(t *testing.T) {
	out, err := execute(t, "benchmark", "--list")
	if err != nil {
		t.Fatalf("benchmark --list failed: %v", err)
	}
	if !strings.Contains(out, "tcja_extension_full") || !strings.Contains(out, "(reference only)") {
		t.Errorf("unexpected catalog listing:\n%s", out)
	}

	out, err = execute(t, "benchmark", "--list=false", "--id", "tcja_extension_full", "--format", "json")
	if err != nil {
		t.Fatalf("benchmark failed: %v", err)
	}
	var report struct {
		Results []struct {
			Rating string `json:"rating"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("benchmark output is not JSON: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Rating != "Excellent" {
		t.Errorf("expected one excellent result, got %+v", report.Results)
	}

	if _, err := execute(t, "benchmark", "--id", "nope"); err == nil {
		t.Error("expected an error for an unknown benchmark id")
	}
}
