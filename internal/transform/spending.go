package transform

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ScaleSpending multiplies the size of a spending or transfer policy.
type ScaleSpending struct {
	Factor decimal.Decimal
}

func (t *ScaleSpending) Name() string { return "scale_spending" }

func (t *ScaleSpending) Description() string {
	return fmt.Sprintf("Scale outlays by %s", t.Factor)
}

func (t *ScaleSpending) Validate(base domain.Policy) error {
	if t.Factor.IsNegative() {
		return NewTransformError(t.Name(), "validate", "factor must be non-negative", nil)
	}
	switch base.Variant.(type) {
	case domain.Spending, domain.Transfer:
		return nil
	default:
		return unsupported(t.Name(), base.Kind())
	}
}

func (t *ScaleSpending) Apply(base domain.Policy) (domain.Policy, error) {
	switch v := base.Variant.(type) {
	case domain.Spending:
		v.AnnualChange = v.AnnualChange.Mul(t.Factor)
		return base.WithVariant(v), nil
	case domain.Transfer:
		v.BenefitChangePercent = v.BenefitChangePercent.Mul(t.Factor)
		v.NewBeneficiariesMillions = v.NewBeneficiariesMillions.Mul(t.Factor)
		if v.AnnualCostChange != nil {
			scaled := v.AnnualCostChange.Mul(t.Factor)
			v.AnnualCostChange = &scaled
		}
		return base.WithVariant(v), nil
	default:
		return base, unsupported(t.Name(), base.Kind())
	}
}
