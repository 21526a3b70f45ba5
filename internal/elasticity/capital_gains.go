package elasticity

import (
	"fmt"
	"math"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)

	// Each $1M of per-decedent exemption shields roughly 40% of gains at death,
	// up to 90%.
	exemptionShieldPerMillion = decimal.NewFromFloat(0.4)
	maxExemptionShare         = decimal.NewFromFloat(0.9)
)

// CapitalGainsModel evaluates the realizations response to a capital gains
// rate change. Years are 1-based: t=1 is the policy's first year.
type CapitalGainsModel struct {
	params domain.CapitalGains
	tau0   decimal.Decimal
	tau1   decimal.Decimal
}

// NewCapitalGainsModel checks the rate and elasticity domain and returns a model.
func NewCapitalGainsModel(cg domain.CapitalGains) (*CapitalGainsModel, error) {
	tau0, tau1 := cg.BaselineRate, cg.ReformRate()
	if tau0.IsNegative() || tau0.GreaterThanOrEqual(one) || tau1.IsNegative() || tau1.GreaterThanOrEqual(one) {
		return nil, domain.NewPolicyError("", "capital_gains_rate",
			fmt.Sprintf("rates must be in [0, 1), got baseline %s reform %s", tau0, tau1))
	}
	if !cg.BaselineRealizations.IsPositive() {
		return nil, domain.NewPolicyError("", "baseline_realizations_billions",
			fmt.Sprintf("must be positive, got %s", cg.BaselineRealizations))
	}
	if cg.ShortRunElasticity.IsNegative() || cg.LongRunElasticity.IsNegative() {
		return nil, domain.NewPolicyError("", "elasticity", "realization elasticities must be non-negative")
	}
	return &CapitalGainsModel{params: cg, tau0: tau0, tau1: tau1}, nil
}

// BaseElasticity returns the realization elasticity in year t before lock-in.
//
// With the step shape it is the short-run value for t <= TransitionYears and
// the long-run value afterwards. With the linear shape it moves from the
// short-run value at t=1 to the long-run value at t=TransitionYears+1.
func (m *CapitalGainsModel) BaseElasticity(t int) decimal.Decimal {
	short, long := m.params.ShortRunElasticity, m.params.LongRunElasticity
	k := m.params.TransitionYears
	if t <= 1 && k > 0 {
		return short
	}
	if t > k {
		return long
	}
	if m.params.Transition != domain.TransitionLinear {
		return short
	}
	weight := decimal.NewFromInt(int64(t - 1)).Div(decimal.NewFromInt(int64(k)))
	return short.Mul(one.Sub(weight)).Add(long.Mul(weight))
}

// LockInMultiplier is the step-up lock-in scaling in effect. It is 1 when
// step-up at death is absent or eliminated.
func (m *CapitalGainsModel) LockInMultiplier() decimal.Decimal {
	if m.params.StepUpAtDeath && !m.params.EliminateStepUp {
		return m.params.LockInMultiplier
	}
	return one
}

// Elasticity returns the effective elasticity in year t, including lock-in.
func (m *CapitalGainsModel) Elasticity(t int) decimal.Decimal {
	return m.BaseElasticity(t).Mul(m.LockInMultiplier())
}

// Realizations returns R1(t) = R0 * ((1-tau1)/(1-tau0))^eps(t), in billions.
func (m *CapitalGainsModel) Realizations(t int) decimal.Decimal {
	ratio := one.Sub(m.tau1).Div(one.Sub(m.tau0)).InexactFloat64()
	eps := m.Elasticity(t).InexactFloat64()
	return m.params.BaselineRealizations.Mul(decimal.NewFromFloat(math.Pow(ratio, eps)))
}

// StaticRevenue holds realizations fixed: (tau1 - tau0) * R0.
func (m *CapitalGainsModel) StaticRevenue() decimal.Decimal {
	return m.tau1.Sub(m.tau0).Mul(m.params.BaselineRealizations)
}

// TotalRevenue is tau1*R1(t) - tau0*R0, the revenue change after the
// realizations response.
func (m *CapitalGainsModel) TotalRevenue(t int) decimal.Decimal {
	return m.tau1.Mul(m.Realizations(t)).Sub(m.tau0.Mul(m.params.BaselineRealizations))
}

// Offset is the behavioral offset in deficit terms: static revenue minus
// revenue after the realizations response.
func (m *CapitalGainsModel) Offset(t int) decimal.Decimal {
	return m.StaticRevenue().Sub(m.TotalRevenue(t))
}

// ExemptionShare is the share of gains at death shielded by the exemption.
func (m *CapitalGainsModel) ExemptionShare() decimal.Decimal {
	if !m.params.StepUpExemption.IsPositive() {
		return decimal.Zero
	}
	millions := m.params.StepUpExemption.Div(domain.Million)
	return decimal.Min(maxExemptionShare, exemptionShieldPerMillion.Mul(millions))
}

// DeathRevenue is the annual revenue from taxing gains at death when step-up
// is eliminated: tau1 * GainsAtDeath * (1 - exemption share). It is zero when
// step-up is kept, and zero when GainsAtDeath is not supplied.
func (m *CapitalGainsModel) DeathRevenue() decimal.Decimal {
	if !m.params.EliminateStepUp || m.params.GainsAtDeath == nil {
		return decimal.Zero
	}
	return m.tau1.Mul(*m.params.GainsAtDeath).Mul(one.Sub(m.ExemptionShare()))
}
