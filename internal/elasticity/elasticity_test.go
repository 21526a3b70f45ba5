package elasticity

import (
	"testing"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func rateIncrease() domain.CapitalGains {
	cg := domain.DefaultCapitalGains()
	cg.BaselineRealizations = d(1000)
	cg.RateChange = d(0.05)
	return cg
}

func TestETIOffset_OpposesStatic(t *testing.T) {
	tests := []struct {
		name   string
		static decimal.Decimal
		eti    decimal.Decimal
		want   decimal.Decimal
	}{
		{"tax increase lowers deficit", d(-40), d(0.25), d(5)},
		{"tax cut raises deficit", d(100), d(0.25), d(-12.5)},
		{"zero static", decimal.Zero, d(0.25), decimal.Zero},
		{"zero elasticity", d(100), decimal.Zero, decimal.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ETIOffset(tt.static, tt.eti)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
			if !tt.static.IsZero() && tt.eti.IsPositive() {
				assert.Equal(t, -tt.static.Sign(), got.Sign())
			}
		})
	}
}

func TestCapitalGains_StepSchedule(t *testing.T) {
	cg := rateIncrease()
	cg.StepUpAtDeath = false
	m, err := NewCapitalGainsModel(cg)
	require.NoError(t, err)

	for year := 1; year <= 3; year++ {
		assert.True(t, m.Elasticity(year).Equal(d(0.8)), "year %d should use short-run elasticity", year)
	}
	for year := 4; year <= 10; year++ {
		assert.True(t, m.Elasticity(year).Equal(d(0.4)), "year %d should use long-run elasticity", year)
	}
}

func TestCapitalGains_LinearSchedule(t *testing.T) {
	cg := rateIncrease()
	cg.StepUpAtDeath = false
	cg.Transition = domain.TransitionLinear
	m, err := NewCapitalGainsModel(cg)
	require.NoError(t, err)

	assert.True(t, m.Elasticity(1).Equal(d(0.8)))
	assert.InDelta(t, 0.6667, m.Elasticity(2).InexactFloat64(), 1e-4)
	assert.InDelta(t, 0.5333, m.Elasticity(3).InexactFloat64(), 1e-4)
	assert.True(t, m.Elasticity(4).Equal(d(0.4)))
}

func TestCapitalGains_LockInMultiplier(t *testing.T) {
	cg := rateIncrease()
	m, err := NewCapitalGainsModel(cg)
	require.NoError(t, err)
	assert.True(t, m.LockInMultiplier().Equal(d(2)))
	assert.True(t, m.Elasticity(1).Equal(d(1.6)))

	cg.EliminateStepUp = true
	m, err = NewCapitalGainsModel(cg)
	require.NoError(t, err)
	assert.True(t, m.LockInMultiplier().Equal(d(1)), "eliminating step-up resets lock-in")
}

func TestCapitalGains_LockInMonotonicity(t *testing.T) {
	previous := decimal.NewFromInt(1 << 30)
	for _, mult := range []float64{1.0, 1.5, 2.0, 3.0} {
		cg := rateIncrease()
		cg.LockInMultiplier = d(mult)
		m, err := NewCapitalGainsModel(cg)
		require.NoError(t, err)

		total := m.TotalRevenue(1)
		assert.True(t, total.LessThan(previous), "multiplier %.1f should reduce revenue below %s, got %s", mult, previous, total)
		previous = total
	}
}

func TestCapitalGains_OffsetSign(t *testing.T) {
	m, err := NewCapitalGainsModel(rateIncrease())
	require.NoError(t, err)
	assert.True(t, m.StaticRevenue().Equal(d(50)))
	assert.True(t, m.Offset(1).IsPositive(), "rate increase loses revenue to deferral")
	assert.True(t, m.Offset(1).LessThan(m.StaticRevenue().Add(d(1000))))

	cut := rateIncrease()
	cut.RateChange = d(-0.05)
	m, err = NewCapitalGainsModel(cut)
	require.NoError(t, err)
	assert.True(t, m.Offset(1).IsNegative(), "rate cut recovers revenue from realizations")
}

func TestCapitalGains_DeathRevenue(t *testing.T) {
	cg := rateIncrease()
	cg.EliminateStepUp = true
	m, err := NewCapitalGainsModel(cg)
	require.NoError(t, err)
	assert.True(t, m.DeathRevenue().IsZero(), "unset gains at death contributes nothing")

	gains := d(54)
	cg.GainsAtDeath = &gains
	m, err = NewCapitalGainsModel(cg)
	require.NoError(t, err)
	// 0.25 * 54 * (1 - 0.4)
	assert.True(t, m.DeathRevenue().Equal(d(8.1)), "got %s", m.DeathRevenue())

	cg.StepUpExemption = d(5_000_000)
	m, err = NewCapitalGainsModel(cg)
	require.NoError(t, err)
	assert.True(t, m.ExemptionShare().Equal(d(0.9)), "exemption share caps at ninety percent")

	cg.EliminateStepUp = false
	m, err = NewCapitalGainsModel(cg)
	require.NoError(t, err)
	assert.True(t, m.DeathRevenue().IsZero())
}

func TestNewCapitalGainsModel_Invalid(t *testing.T) {
	cg := rateIncrease()
	cg.BaselineRealizations = decimal.Zero
	_, err := NewCapitalGainsModel(cg)
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyParameters)

	cg = rateIncrease()
	cg.RateChange = d(0.9)
	_, err = NewCapitalGainsModel(cg)
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyParameters)
}
