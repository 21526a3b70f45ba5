// Package sensitivity rescores a policy while sweeping one behavioral or
// macro assumption, and ranks assumptions by how far they move the score.
package sensitivity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/laurencehw/fiscal-policy-calculator/internal/transform"
	"github.com/shopspring/decimal"
)

// Parameter names an assumption the analyzer can sweep.
type Parameter string

const (
	ParamETI                Parameter = "eti"
	ParamCGShortRun         Parameter = "cg_short_run_elasticity"
	ParamCGLongRun          Parameter = "cg_long_run_elasticity"
	ParamLockIn             Parameter = "lock_in_multiplier"
	ParamSpendingMultiplier Parameter = "spending_multiplier"
	ParamCrowdingOut        Parameter = "crowding_out"
)

// ParameterInfo describes a sweepable parameter.
type ParameterInfo struct {
	Name        Parameter `json:"name"`
	Description string    `json:"description"`
	// Macro parameters live in the scorer configuration and only move
	// dynamic scores.
	Macro bool `json:"macro"`
}

var parameters = map[Parameter]ParameterInfo{
	ParamETI:                {ParamETI, "Elasticity of taxable income (income tax, corporate, tax expenditure)", false},
	ParamCGShortRun:         {ParamCGShortRun, "Short-run capital gains realization elasticity", false},
	ParamCGLongRun:          {ParamCGLongRun, "Long-run capital gains realization elasticity", false},
	ParamLockIn:             {ParamLockIn, "Step-up basis lock-in multiplier", false},
	ParamSpendingMultiplier: {ParamSpendingMultiplier, "First-year GDP multiplier on spending", true},
	ParamCrowdingOut:        {ParamCrowdingOut, "Crowding-out rate per $1T of cumulative deficit", true},
}

// Parameters lists the sweepable parameters by name.
func Parameters() []ParameterInfo {
	out := make([]ParameterInfo, 0, len(parameters))
	for _, info := range parameters {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ParseParameter resolves a parameter name, case-insensitively.
func ParseParameter(s string) (Parameter, error) {
	p := Parameter(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := parameters[p]; !ok {
		names := make([]string, 0, len(parameters))
		for _, info := range Parameters() {
			names = append(names, string(info.Name))
		}
		return "", domain.NewPolicyError("", "parameter",
			fmt.Sprintf("unknown sensitivity parameter %q (available: %s)", s, strings.Join(names, ", ")))
	}
	return p, nil
}

// IsMacro reports whether p is a scorer configuration parameter.
func (p Parameter) IsMacro() bool {
	return parameters[p].Macro
}

// BaseValue returns the value of param currently in effect for policy under
// cfg. It fails when the parameter does not apply to the policy's kind.
func BaseValue(p domain.Policy, cfg scoring.Config, param Parameter) (decimal.Decimal, error) {
	switch param {
	case ParamSpendingMultiplier:
		if sp, ok := p.Variant.(domain.Spending); ok && sp.GDPMultiplier != nil {
			return *sp.GDPMultiplier, nil
		}
		return cfg.Macro.SpendingMultiplier, nil
	case ParamCrowdingOut:
		return cfg.Macro.CrowdingOut, nil
	}

	switch v := p.Variant.(type) {
	case domain.IncomeTax:
		if param == ParamETI {
			if v.TaxableIncomeElasticity != nil {
				return *v.TaxableIncomeElasticity, nil
			}
			return cfg.DefaultETI, nil
		}
	case domain.Corporate:
		if param == ParamETI {
			return v.Elasticity, nil
		}
	case domain.TaxExpenditure:
		if param == ParamETI && v.Elasticity != nil {
			return *v.Elasticity, nil
		}
	case domain.CapitalGains:
		switch param {
		case ParamCGShortRun:
			return v.ShortRunElasticity, nil
		case ParamCGLongRun:
			return v.LongRunElasticity, nil
		case ParamLockIn:
			return v.LockInMultiplier, nil
		}
	}
	return decimal.Zero, notApplicable(p, param)
}

// apply returns the policy and scorer config with param set to value.
func apply(p domain.Policy, cfg scoring.Config, param Parameter, value decimal.Decimal) (domain.Policy, scoring.Config, error) {
	switch param {
	case ParamSpendingMultiplier:
		cfg.Macro.SpendingMultiplier = value
		if sp, ok := p.Variant.(domain.Spending); ok && sp.GDPMultiplier != nil {
			v := value
			sp.GDPMultiplier = &v
			p = p.WithVariant(sp)
		}
		return p, cfg, nil
	case ParamCrowdingOut:
		cfg.Macro.CrowdingOut = value
		return p, cfg, nil
	case ParamETI:
		out, err := transform.ApplyTransforms(p, []transform.PolicyTransform{&transform.SetETI{Value: value}})
		return out, cfg, err
	case ParamLockIn:
		out, err := transform.ApplyTransforms(p, []transform.PolicyTransform{&transform.SetLockIn{Value: value}})
		return out, cfg, err
	case ParamCGShortRun, ParamCGLongRun:
		cg, ok := p.Variant.(domain.CapitalGains)
		if !ok {
			return p, cfg, notApplicable(p, param)
		}
		if value.IsNegative() {
			return p, cfg, domain.NewPolicyError(p.Name, string(param), "elasticity must be non-negative")
		}
		if param == ParamCGShortRun {
			cg.ShortRunElasticity = value
		} else {
			cg.LongRunElasticity = value
		}
		return p.WithVariant(cg), cfg, nil
	}
	return p, cfg, notApplicable(p, param)
}

func notApplicable(p domain.Policy, param Parameter) error {
	return domain.NewPolicyError(p.Name, string(param),
		fmt.Sprintf("parameter does not apply to %s policies", p.Kind()))
}
