package transform

import (
	"strings"
	"testing"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
)

func TestParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec     string
		wantName string
		wantErr  string
	}{
		{spec: "adjust_rate:delta=0.01", wantName: "adjust_rate"},
		{spec: "set_rate: value = 0.3", wantName: "set_rate"},
		{spec: "set_start:year=2027", wantName: "set_start"},
		{spec: "set_phase_in:years=3", wantName: "set_phase_in"},
		{spec: "set_sunset:enabled=false", wantName: "set_sunset"},
		{spec: "set_sunset:years=5", wantName: "set_sunset"},
		{spec: "set_eti:value=0.4", wantName: "set_eti"},
		{spec: "set_lock_in:value=2.5", wantName: "set_lock_in"},
		{spec: "eliminate_step_up", wantName: "eliminate_step_up"},
		{spec: "eliminate_step_up:exemption=1000000", wantName: "eliminate_step_up"},
		{spec: "scale_spending:factor=2", wantName: "scale_spending"},
		{spec: "adjust_rate", wantErr: "requires 'delta'"},
		{spec: "adjust_rate:delta=abc", wantErr: "invalid delta"},
		{spec: "set_start:year", wantErr: "expected 'key=value'"},
		{spec: "set_sunset:enabled=maybe", wantErr: "invalid enabled"},
		{spec: "tariff:rate=0.1", wantErr: "unknown transform"},
		{spec: ":delta=0.1", wantErr: "invalid transform spec"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			transform, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if transform.Name() != tt.wantName {
				t.Errorf("Expected %s, got %s", tt.wantName, transform.Name())
			}
		})
	}
}

func TestParseTransformSpecs_Apply(t *testing.T) {
	registry := NewTransformRegistry()
	transforms, err := registry.ParseTransformSpecs([]string{"adjust_rate:delta=-0.006", "set_sunset:years=8"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	p, err := ApplyTransforms(incomeTaxPolicy(), transforms)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !p.Variant.(domain.IncomeTax).RateChange.Equal(d(0.02)) {
		t.Errorf("Expected 0.02, got %s", p.Variant.(domain.IncomeTax).RateChange)
	}
	if !p.Sunset || p.DurationYears != 8 {
		t.Error("Expected 8-year sunset")
	}

	if _, err := registry.ParseTransformSpecs([]string{"bogus:x=1"}); err == nil {
		t.Error("Expected error for unknown transform")
	}
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	if len(names) != 9 {
		t.Errorf("Expected 9 transforms, got %d: %v", len(names), names)
	}
	if names[0] != "adjust_rate" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestTemplateRegistry(t *testing.T) {
	registry := CreateBuiltInTemplates()

	if _, ok := registry.Get("DELAY_1YR"); !ok {
		t.Error("Expected case-insensitive lookup to work")
	}
	if _, ok := registry.Get("nonexistent"); ok {
		t.Error("Expected not to find nonexistent template")
	}

	tmpl, _ := registry.Get("delay_2yr")
	p, err := ApplyTemplate(incomeTaxPolicy(), tmpl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.StartYear != 2027 {
		t.Errorf("Expected start 2027, got %d", p.StartYear)
	}

	half, _ := registry.Get("half_size")
	p, err = ApplyTemplate(incomeTaxPolicy(), half)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !p.Variant.(domain.IncomeTax).RateChange.Equal(d(0.013)) {
		t.Errorf("Expected halved rate change, got %s", p.Variant.(domain.IncomeTax).RateChange)
	}

	p, err = ApplyTemplate(spendingPolicy(), half)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !p.Variant.(domain.Spending).AnnualChange.Equal(d(50)) {
		t.Error("half_size should halve spending policies")
	}

	highETI, _ := registry.Get("high_eti")
	if _, err := ApplyTemplate(capitalGainsPolicy(), highETI); err == nil {
		t.Error("high_eti should not apply to capital gains")
	}
}

func TestParseTemplateList(t *testing.T) {
	got := ParseTemplateList(" delay_1yr, ,high_eti ")
	if len(got) != 2 || got[0] != "delay_1yr" || got[1] != "high_eti" {
		t.Errorf("Unexpected parse: %v", got)
	}
	if ParseTemplateList("") != nil {
		t.Error("Expected nil for empty list")
	}
	help := GetTemplateHelp(CreateBuiltInTemplates())
	if !strings.Contains(help, "phase_in_3yr") {
		t.Error("Help should list templates")
	}
}
