package sensitivity

import (
	"context"
	"errors"
	"testing"

	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func dp(f float64) *decimal.Decimal {
	v := decimal.NewFromFloat(f)
	return &v
}

func topRatePolicy() domain.Policy {
	return domain.Policy{
		Name:          "Top rate",
		StartYear:     2025,
		DurationYears: 10,
		Variant: domain.IncomeTax{
			RateChange:                d(0.026),
			AffectedIncomeThreshold:   d(400_000),
			AffectedTaxpayersMillions: dp(1.8),
			AvgTaxableIncome:          dp(1_200_000),
		},
	}
}

func capitalGainsPolicy() domain.Policy {
	cg := domain.DefaultCapitalGains()
	cg.BaselineRealizations = d(1000)
	cg.RateChange = d(0.05)
	return domain.Policy{Name: "CG hike", StartYear: 2025, DurationYears: 10, Variant: cg}
}

func spendingPolicy() domain.Policy {
	sp := domain.DefaultSpending()
	sp.AnnualChange = d(50)
	sp.GrowthRate = decimal.Zero
	return domain.Policy{Name: "Infrastructure", StartYear: 2025, DurationYears: 10, Variant: sp}
}

func testBaseline(t *testing.T) domain.Baseline {
	t.Helper()
	b, err := data.NewCBOBaseline().Baseline(2025, 10)
	require.NoError(t, err)
	return b
}

func newAnalyzer() *Analyzer {
	return NewAnalyzer(data.DefaultSOITable(), scoring.DefaultConfig())
}

func TestRun_ETISweep(t *testing.T) {
	sweep, err := newAnalyzer().Run(context.Background(), topRatePolicy(), testBaseline(t), ParamETI,
		[]decimal.Decimal{d(0.5), d(0)})
	require.NoError(t, err)

	assert.True(t, sweep.BaseValue.Equal(d(0.25)))
	assert.InDelta(t, -327.6, sweep.BaseTotal.InexactFloat64(), 1e-6)
	assert.False(t, sweep.Dynamic)

	require.Len(t, sweep.Points, 3, "base point is added when not swept")
	want := []struct {
		value  float64
		total  float64
		isBase bool
	}{
		{0, -374.4, false},
		{0.25, -327.6, true},
		{0.5, -280.8, false},
	}
	for i, w := range want {
		pt := sweep.Points[i]
		assert.InDelta(t, w.value, pt.Value.InexactFloat64(), 1e-9)
		assert.InDelta(t, w.total, pt.TotalFinal.InexactFloat64(), 1e-6, "value %v", w.value)
		assert.Equal(t, w.isBase, pt.IsBase)
		assert.NotNil(t, pt.Result)
	}
	assert.InDelta(t, -14.2857, sweep.Points[0].ChangePct.InexactFloat64(), 1e-3)

	assert.InDelta(t, 14.2857, sweep.Summary.MaxChangePct.InexactFloat64(), 1e-3)
	assert.InDelta(t, 0.142857, sweep.Summary.Elasticity.InexactFloat64(), 1e-5)
	assert.Equal(t, RiskMedium, sweep.Summary.RiskLevel)
	assert.NotEmpty(t, sweep.Summary.Recommendations)
}

func TestRun_MacroParameterForcesDynamic(t *testing.T) {
	sweep, err := newAnalyzer().Run(context.Background(), spendingPolicy(), testBaseline(t), ParamSpendingMultiplier,
		[]decimal.Decimal{d(0.5), d(2.0)})
	require.NoError(t, err)

	assert.True(t, sweep.Dynamic)
	assert.True(t, sweep.Parameter.Macro)
	require.Len(t, sweep.Points, 3)
	for _, pt := range sweep.Points {
		assert.True(t, pt.Result.IsDynamic())
	}
	assert.False(t, sweep.Points[0].TotalFinal.Equal(sweep.Points[2].TotalFinal),
		"multiplier should move the dynamic score")
}

func TestRun_Errors(t *testing.T) {
	baseline := testBaseline(t)
	tests := []struct {
		name   string
		policy domain.Policy
		param  Parameter
		values []decimal.Decimal
	}{
		{"unknown parameter", topRatePolicy(), Parameter("nope"), []decimal.Decimal{d(1)}},
		{"no values", topRatePolicy(), ParamETI, nil},
		{"not applicable", topRatePolicy(), ParamCGShortRun, []decimal.Decimal{d(1)}},
		{"negative elasticity", capitalGainsPolicy(), ParamCGLongRun, []decimal.Decimal{d(-0.1)}},
		{"lock-in below one", capitalGainsPolicy(), ParamLockIn, []decimal.Decimal{d(0.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newAnalyzer().Run(context.Background(), tt.policy, baseline, tt.param, tt.values)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidPolicyParameters)
		})
	}
}

type failingScorer struct{}

func (failingScorer) Score(context.Context, domain.Policy, domain.Baseline, scoring.Options) (*domain.ScoringResult, error) {
	return nil, errors.New("boom")
}

func TestRun_ScorerFailure(t *testing.T) {
	a := newAnalyzer()
	a.NewScorer = func(scoring.Config) PolicyScorer { return failingScorer{} }
	_, err := a.Run(context.Background(), topRatePolicy(), testBaseline(t), ParamETI, []decimal.Decimal{d(0.1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestTornado(t *testing.T) {
	tor, err := newAnalyzer().Tornado(context.Background(), capitalGainsPolicy(), testBaseline(t), nil, d(20))
	require.NoError(t, err)

	assert.Equal(t, []Parameter{ParamETI}, tor.Skipped)
	require.Len(t, tor.Bars, 5)
	for i := 1; i < len(tor.Bars); i++ {
		assert.True(t, tor.Bars[i-1].Swing.GreaterThanOrEqual(tor.Bars[i].Swing), "bars are ordered by swing")
	}
	for _, bar := range tor.Bars {
		if bar.Parameter == ParamLockIn {
			assert.True(t, bar.LowValue.Equal(d(1.6)))
			assert.True(t, bar.HighValue.Equal(d(2.4)))
			assert.True(t, bar.Swing.IsPositive())
		}
	}
}

func TestTornado_Errors(t *testing.T) {
	baseline := testBaseline(t)

	_, err := newAnalyzer().Tornado(context.Background(), topRatePolicy(), baseline, nil, d(0))
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyParameters)

	_, err = newAnalyzer().Tornado(context.Background(), spendingPolicy(), baseline, []Parameter{ParamETI, ParamLockIn}, d(10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sensitivity parameter applies")
}

func TestParseParameter(t *testing.T) {
	p, err := ParseParameter(" ETI ")
	require.NoError(t, err)
	assert.Equal(t, ParamETI, p)

	_, err = ParseParameter("gdp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crowding_out")

	assert.True(t, ParamCrowdingOut.IsMacro())
	assert.False(t, ParamLockIn.IsMacro())
	assert.Len(t, Parameters(), 6)
}

func TestRange(t *testing.T) {
	got := Range(d(0.1), d(0.5), 5)
	require.Len(t, got, 5)
	for i, want := range []float64{0.1, 0.2, 0.3, 0.4, 0.5} {
		assert.InDelta(t, want, got[i].InexactFloat64(), 1e-12)
	}
	assert.Len(t, Range(d(1), d(2), 1), 1)
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, RiskLow},
		{4.9, RiskLow},
		{5, RiskMedium},
		{20, RiskHigh},
		{45, RiskCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevel(d(tt.pct)), "pct %v", tt.pct)
	}
}
