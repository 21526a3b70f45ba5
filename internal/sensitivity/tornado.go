package sensitivity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Bar is one row of a tornado chart.
type Bar struct {
	Parameter Parameter       `json:"parameter"`
	BaseValue decimal.Decimal `json:"baseValue"`
	LowValue  decimal.Decimal `json:"lowValue"`
	HighValue decimal.Decimal `json:"highValue"`
	LowTotal  decimal.Decimal `json:"lowTotal"`
	HighTotal decimal.Decimal `json:"highTotal"`
	// Swing is |HighTotal - LowTotal|.
	Swing decimal.Decimal `json:"swing"`
}

// Tornado ranks parameters by the swing they cause.
type Tornado struct {
	PolicyName string          `json:"policyName"`
	SwingPct   decimal.Decimal `json:"swingPct"`
	BaseTotal  decimal.Decimal `json:"baseTotal"`
	Bars       []Bar           `json:"bars"`
	// Skipped lists parameters that do not apply to the policy.
	Skipped []Parameter `json:"skipped,omitempty"`
}

// Tornado moves each parameter swingPct percent below and above its base
// value and ranks parameters by the resulting swing in the total final
// effect. An empty params list uses every parameter; ones that do not apply
// to the policy are skipped.
func (a *Analyzer) Tornado(ctx context.Context, p domain.Policy, baseline domain.Baseline, params []Parameter, swingPct decimal.Decimal) (*Tornado, error) {
	if !swingPct.IsPositive() || swingPct.GreaterThanOrEqual(hundred) {
		return nil, domain.NewPolicyError(p.Name, "swing_pct", fmt.Sprintf("must be in (0, 100), got %s", swingPct))
	}
	if len(params) == 0 {
		for _, info := range Parameters() {
			params = append(params, info.Name)
		}
	}

	out := &Tornado{PolicyName: p.Name, SwingPct: swingPct}
	frac := swingPct.Div(hundred)
	one := decimal.NewFromInt(1)
	for _, param := range params {
		base, err := BaseValue(p, a.Config, param)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidPolicyParameters) {
				out.Skipped = append(out.Skipped, param)
				continue
			}
			return nil, err
		}
		low := base.Mul(one.Sub(frac))
		high := base.Mul(one.Add(frac))
		if param == ParamLockIn {
			low = decimal.Max(low, one)
		}

		sweep, err := a.Run(ctx, p, baseline, param, []decimal.Decimal{low, high})
		if err != nil {
			return nil, err
		}
		bar := Bar{Parameter: param, BaseValue: base, LowValue: low, HighValue: high}
		for _, pt := range sweep.Points {
			if pt.Value.Equal(low) {
				bar.LowTotal = pt.TotalFinal
			}
			if pt.Value.Equal(high) {
				bar.HighTotal = pt.TotalFinal
			}
		}
		bar.Swing = bar.HighTotal.Sub(bar.LowTotal).Abs()
		if !sweep.Parameter.Macro || out.BaseTotal.IsZero() {
			out.BaseTotal = sweep.BaseTotal
		}
		out.Bars = append(out.Bars, bar)
	}

	if len(out.Bars) == 0 {
		return nil, domain.NewPolicyError(p.Name, "parameters",
			fmt.Sprintf("no sensitivity parameter applies to %s policies", p.Kind()))
	}
	sort.SliceStable(out.Bars, func(i, j int) bool { return out.Bars[i].Swing.GreaterThan(out.Bars[j].Swing) })
	return out, nil
}
