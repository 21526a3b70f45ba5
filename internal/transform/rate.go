package transform

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// RateChange returns the rate lever of a policy: the statutory rate change
// for income tax, capital gains and corporate policies. A set NewRate is
// reported as the change from the baseline rate.
func RateChange(p domain.Policy) (decimal.Decimal, error) {
	switch v := p.Variant.(type) {
	case domain.IncomeTax:
		return v.RateChange, nil
	case domain.CapitalGains:
		return v.ReformRate().Sub(v.BaselineRate), nil
	case domain.Corporate:
		return v.ReformRate().Sub(v.BaselineRate), nil
	default:
		return decimal.Zero, domain.NewPolicyError(p.Name, "rate_change",
			fmt.Sprintf("%s policies have no rate lever", p.Kind()))
	}
}

// WithRateChange returns p with its rate lever set to change. Any NewRate
// override is cleared so the change is expressed relative to the baseline.
func WithRateChange(p domain.Policy, change decimal.Decimal) (domain.Policy, error) {
	switch v := p.Variant.(type) {
	case domain.IncomeTax:
		v.RateChange = change
		return p.WithVariant(v), nil
	case domain.CapitalGains:
		v.NewRate = nil
		v.RateChange = change
		return p.WithVariant(v), nil
	case domain.Corporate:
		v.NewRate = nil
		v.RateChange = change
		return p.WithVariant(v), nil
	default:
		return p, domain.NewPolicyError(p.Name, "rate_change",
			fmt.Sprintf("%s policies have no rate lever", p.Kind()))
	}
}

// AdjustRate adds Delta to the policy's rate change.
type AdjustRate struct {
	Delta decimal.Decimal
}

func (t *AdjustRate) Name() string { return "adjust_rate" }

func (t *AdjustRate) Description() string {
	return fmt.Sprintf("Adjust rate change by %s points", t.Delta.Mul(decimal.NewFromInt(100)).StringFixed(1))
}

func (t *AdjustRate) Validate(base domain.Policy) error {
	if _, err := RateChange(base); err != nil {
		return unsupported(t.Name(), base.Kind())
	}
	return nil
}

func (t *AdjustRate) Apply(base domain.Policy) (domain.Policy, error) {
	current, err := RateChange(base)
	if err != nil {
		return base, err
	}
	return WithRateChange(base, current.Add(t.Delta))
}

// SetRate sets the reform rate. For income tax, which carries no baseline
// rate, Value is the rate change itself.
type SetRate struct {
	Value decimal.Decimal
}

func (t *SetRate) Name() string { return "set_rate" }

func (t *SetRate) Description() string {
	return fmt.Sprintf("Set rate to %s%%", t.Value.Mul(decimal.NewFromInt(100)).StringFixed(1))
}

func (t *SetRate) Validate(base domain.Policy) error {
	if _, err := RateChange(base); err != nil {
		return unsupported(t.Name(), base.Kind())
	}
	if t.Value.LessThan(decimal.NewFromInt(-1)) || t.Value.GreaterThan(decimal.NewFromInt(1)) {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("rate must be in [-1, 1], got %s", t.Value), nil)
	}
	return nil
}

func (t *SetRate) Apply(base domain.Policy) (domain.Policy, error) {
	switch v := base.Variant.(type) {
	case domain.CapitalGains:
		rate := t.Value
		v.NewRate = &rate
		return base.WithVariant(v), nil
	case domain.Corporate:
		rate := t.Value
		v.NewRate = &rate
		return base.WithVariant(v), nil
	default:
		return WithRateChange(base, t.Value)
	}
}
