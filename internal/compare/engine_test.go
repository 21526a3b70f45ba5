package compare

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

func newEngine() *CompareEngine {
	return NewCompareEngine(scoring.NewScorer(data.DefaultSOITable(), scoring.DefaultConfig()))
}

func TestCompare_Templates(t *testing.T) {
	set, err := newEngine().Compare(context.Background(), []domain.Policy{topRatePolicy()}, testBaseline(t),
		CompareOptions{Templates: []string{"double_size", "delay_1yr"}})
	require.NoError(t, err)

	assert.Equal(t, "Top rate", set.BasePolicyName)
	assert.True(t, set.BaseResult.TotalFinal.Equal(d(-327.6)), "got %s", set.BaseResult.TotalFinal)
	assert.True(t, set.BaseResult.OffsetPercent.Equal(d(12.5)), "got %s", set.BaseResult.OffsetPercent)
	assert.Equal(t, 2025, set.Years[0])

	require.Len(t, set.AlternativeResults, 2)
	double := set.AlternativeResults[0]
	assert.Equal(t, "Top rate_double_size", double.PolicyName)
	assert.Equal(t, "Double the rate change", double.Description)
	assert.True(t, double.DiffFromBase.Equal(d(-327.6)), "got %s", double.DiffFromBase)
	assert.True(t, double.PctFromBase.Equal(d(-100)), "got %s", double.PctFromBase)

	delayed := set.AlternativeResults[1]
	assert.True(t, delayed.FirstYearFinal.IsZero(), "delayed policy has no first-year effect")
	assert.True(t, delayed.TotalFinal.Equal(d(-294.84)), "got %s", delayed.TotalFinal)

	require.NotEmpty(t, set.Recommendations)
	assert.Contains(t, set.Recommendations[0], "Top rate_double_size")
}

func TestCompare_ExplicitPolicies(t *testing.T) {
	set, err := newEngine().Compare(context.Background(), []domain.Policy{topRatePolicy(), spendingPolicy()}, testBaseline(t),
		CompareOptions{Scoring: scoring.Options{Dynamic: true, Uncertainty: true}})
	require.NoError(t, err)

	assert.True(t, set.Dynamic)
	require.Len(t, set.AlternativeResults, 1)
	spend := set.AlternativeResults[0]
	assert.Equal(t, domain.KindSpending, spend.Kind)
	assert.True(t, spend.TotalStatic.Equal(d(500)))
	assert.True(t, spend.TotalFeedback.IsPositive(), "spending growth feeds back revenue")
	assert.True(t, spend.TotalLow.LessThan(spend.TotalHigh))
	assert.Len(t, set.All(), 2)

	last := set.Recommendations[len(set.Recommendations)-1]
	assert.Contains(t, last, "Largest macro feedback")
}

type failingScorer struct{ failOn string }

func (f failingScorer) Score(_ context.Context, p domain.Policy, b domain.Baseline, _ scoring.Options) (*domain.ScoringResult, error) {
	if p.Name == f.failOn {
		return nil, domain.NewDataError("irs_soi", 1999, "missing")
	}
	n := b.Len()
	return &domain.ScoringResult{
		PolicyName: p.Name, Kind: p.Kind(), Years: b.YearList(),
		StaticRevenue: domain.Zeros(n), StaticSpending: domain.Zeros(n), StaticDeficit: domain.Zeros(n),
		Behavioral: domain.Zeros(n), Final: domain.Zeros(n), Low: domain.Zeros(n), High: domain.Zeros(n),
	}, nil
}

func TestCompare_Errors(t *testing.T) {
	ctx := context.Background()
	baseline := testBaseline(t)

	_, err := newEngine().Compare(ctx, nil, baseline, CompareOptions{})
	assert.True(t, domain.IsClientError(err))

	_, err = newEngine().Compare(ctx, []domain.Policy{topRatePolicy()}, baseline, CompareOptions{Templates: []string{"nope"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template nope not found")

	_, err = newEngine().Compare(ctx, []domain.Policy{spendingPolicy()}, baseline, CompareOptions{Templates: []string{"high_eti"}})
	assert.ErrorContains(t, err, "failed to apply template high_eti")

	engine := NewCompareEngine(failingScorer{failOn: "Infrastructure"})
	_, err = engine.Compare(ctx, []domain.Policy{topRatePolicy(), spendingPolicy()}, baseline, CompareOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDataUnavailable))
	assert.Contains(t, err.Error(), "failed to score policy Infrastructure")

	engine = NewCompareEngine(failingScorer{failOn: "Top rate"})
	_, err = engine.Compare(ctx, []domain.Policy{topRatePolicy()}, baseline, CompareOptions{})
	assert.ErrorContains(t, err, "failed to score base policy")
}

func TestMetricsCalculator(t *testing.T) {
	calc := NewMetricsCalculator()
	base := ComparisonResult{PolicyName: "Base", TotalFinal: d(-200), TotalStatic: d(-250)}
	alt := ComparisonResult{PolicyName: "Alt", TotalFinal: d(-300), TotalStatic: d(-250)}

	got := calc.CalculateComparison(alt, base)
	assert.True(t, got.DiffFromBase.Equal(d(-100)))
	assert.True(t, got.PctFromBase.Equal(d(-50)))
	assert.True(t, got.StaticDiffFrom.IsZero())

	zeroBase := ComparisonResult{}
	got = calc.CalculateComparison(alt, zeroBase)
	assert.True(t, got.PctFromBase.IsZero())
}
