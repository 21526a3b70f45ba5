package transform

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// SetETI overrides the behavioral elasticity of income tax, corporate and
// tax expenditure policies.
type SetETI struct {
	Value decimal.Decimal
}

func (t *SetETI) Name() string        { return "set_eti" }
func (t *SetETI) Description() string { return fmt.Sprintf("Set elasticity to %s", t.Value) }

func (t *SetETI) Validate(base domain.Policy) error {
	if t.Value.IsNegative() {
		return NewTransformError(t.Name(), "validate", "elasticity must be non-negative", nil)
	}
	switch base.Variant.(type) {
	case domain.IncomeTax, domain.Corporate, domain.TaxExpenditure:
		return nil
	default:
		return unsupported(t.Name(), base.Kind())
	}
}

func (t *SetETI) Apply(base domain.Policy) (domain.Policy, error) {
	value := t.Value
	switch v := base.Variant.(type) {
	case domain.IncomeTax:
		v.TaxableIncomeElasticity = &value
		return base.WithVariant(v), nil
	case domain.Corporate:
		v.Elasticity = value
		return base.WithVariant(v), nil
	case domain.TaxExpenditure:
		v.Elasticity = &value
		return base.WithVariant(v), nil
	default:
		return base, unsupported(t.Name(), base.Kind())
	}
}

// SetLockIn sets the step-up lock-in multiplier on a capital gains policy.
type SetLockIn struct {
	Value decimal.Decimal
}

func (t *SetLockIn) Name() string        { return "set_lock_in" }
func (t *SetLockIn) Description() string { return fmt.Sprintf("Set lock-in multiplier to %s", t.Value) }

func (t *SetLockIn) Validate(base domain.Policy) error {
	if _, ok := base.Variant.(domain.CapitalGains); !ok {
		return unsupported(t.Name(), base.Kind())
	}
	if t.Value.LessThan(decimal.NewFromInt(1)) {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("multiplier must be at least 1, got %s", t.Value), nil)
	}
	return nil
}

func (t *SetLockIn) Apply(base domain.Policy) (domain.Policy, error) {
	cg, ok := base.Variant.(domain.CapitalGains)
	if !ok {
		return base, unsupported(t.Name(), base.Kind())
	}
	cg.LockInMultiplier = t.Value
	return base.WithVariant(cg), nil
}

// EliminateStepUp taxes gains at death above a per-decedent exemption.
type EliminateStepUp struct {
	Exemption decimal.Decimal
}

func (t *EliminateStepUp) Name() string { return "eliminate_step_up" }

func (t *EliminateStepUp) Description() string {
	return fmt.Sprintf("Eliminate step-up basis with a $%s exemption", t.Exemption.StringFixed(0))
}

func (t *EliminateStepUp) Validate(base domain.Policy) error {
	if _, ok := base.Variant.(domain.CapitalGains); !ok {
		return unsupported(t.Name(), base.Kind())
	}
	if t.Exemption.IsNegative() {
		return NewTransformError(t.Name(), "validate", "exemption must be non-negative", nil)
	}
	return nil
}

func (t *EliminateStepUp) Apply(base domain.Policy) (domain.Policy, error) {
	cg, ok := base.Variant.(domain.CapitalGains)
	if !ok {
		return base, unsupported(t.Name(), base.Kind())
	}
	cg.EliminateStepUp = true
	cg.StepUpExemption = t.Exemption
	return base.WithVariant(cg), nil
}
