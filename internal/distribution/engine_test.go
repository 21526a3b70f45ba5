package distribution

import (
	"testing"

	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func dp(f float64) *decimal.Decimal {
	v := decimal.NewFromFloat(f)
	return &v
}

func newEngine() *Engine {
	return NewEngine(data.NewSOIGroups(data.DefaultSOITable(), data.DefaultSOIYear))
}

// scored builds a one-year result with the given revenue gain.
func scored(revenue float64) *domain.ScoringResult {
	final := d(-revenue)
	return &domain.ScoringResult{Years: []int{2025}, Final: []decimal.Decimal{final}}
}

func policy(v domain.Variant) domain.Policy {
	return domain.Policy{Name: "test", StartYear: 2025, DurationYears: 10, Variant: v}
}

func shareSum(rows []domain.DistributionalResult) float64 {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.ShareOfTotal)
	}
	return total.InexactFloat64()
}

func TestAllocate_SharesSumToOne(t *testing.T) {
	payroll := domain.DefaultPayroll()
	payroll.SSRateChange = d(0.01)

	variants := map[string]domain.Variant{
		"income tax": domain.IncomeTax{RateChange: d(0.01), AffectedIncomeThreshold: d(100_000)},
		"capital gains": func() domain.CapitalGains {
			cg := domain.DefaultCapitalGains()
			cg.BaselineRealizations = d(1_000)
			cg.RateChange = d(0.05)
			return cg
		}(),
		"corporate": domain.DefaultCorporate(),
		"payroll":   payroll,
		"credit":    domain.DefaultCredit(),
	}
	for name, v := range variants {
		for _, scheme := range []domain.GroupScheme{domain.SchemeQuintile, domain.SchemeDecile, domain.SchemeJCTDollar} {
			t.Run(name+"/"+string(scheme), func(t *testing.T) {
				rows, err := newEngine().Allocate(policy(v), scored(50), scheme, Options{})
				require.NoError(t, err)
				assert.InDelta(t, 1.0, shareSum(rows), 1e-9)

				total := decimal.Zero
				for _, r := range rows {
					total = total.Add(r.TaxChangeTotal)
					assert.InDelta(t, 100, r.PctWithIncrease.Add(r.PctWithDecrease).Add(r.PctUnchanged).InexactFloat64(), 1e-9)
				}
				assert.InDelta(t, 50, total.InexactFloat64(), 1e-9)
			})
		}
	}
}

func TestAllocate_TopRateFallsOnTopQuintile(t *testing.T) {
	v := domain.IncomeTax{RateChange: d(0.026), AffectedIncomeThreshold: d(400_000)}
	rows, err := newEngine().Allocate(policy(v), scored(37.44), domain.SchemeQuintile, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 5)

	for _, r := range rows[:4] {
		assert.True(t, r.TaxChangeTotal.IsZero(), "%s should be unaffected", r.Group.Name)
		assert.True(t, r.PctUnchanged.Equal(hundred))
	}
	top := rows[4]
	assert.Equal(t, "Top Quintile", top.Group.Name)
	assert.InDelta(t, 1.0, top.ShareOfTotal.InexactFloat64(), 1e-9)
	assert.True(t, top.PctWithIncrease.IsPositive())
	assert.True(t, top.PctWithIncrease.LessThan(hundred), "only part of the open-ended group is above the threshold")
	assert.True(t, top.ETRChange.IsPositive())
	assert.True(t, top.TaxChangeAverage.GreaterThan(d(1_000)))
}

func millionDollarCapitalGains() domain.CapitalGains {
	cg := domain.DefaultCapitalGains()
	cg.BaselineRealizations = d(1_000)
	cg.RateChange = d(0.158)
	cg.AffectedThreshold = d(1_000_000)
	return cg
}

func TestAllocate_ThresholdAboveGroupAverage(t *testing.T) {
	// The top quintile and top decile average well under $1M, so the
	// average-based estimate leaves every group unaffected.
	v := millionDollarCapitalGains()

	for _, scheme := range []domain.GroupScheme{domain.SchemeQuintile, domain.SchemeDecile, domain.SchemeJCTDollar, domain.SchemeTopIncome} {
		t.Run(string(scheme), func(t *testing.T) {
			rows, err := newEngine().Allocate(policy(v), scored(60), scheme, Options{})
			require.NoError(t, err)
			assert.InDelta(t, 1.0, shareSum(rows), 1e-9)

			top := rows[len(rows)-1]
			assert.True(t, top.TaxChangeTotal.IsPositive(), "%s should bear the effect", top.Group.Name)
			assert.True(t, top.PctWithIncrease.IsPositive())
			assert.True(t, top.PctWithIncrease.LessThanOrEqual(hundred))
		})
	}

	t.Run("quintile falls only on the top group", func(t *testing.T) {
		rows, err := newEngine().Allocate(policy(v), scored(60), domain.SchemeQuintile, Options{})
		require.NoError(t, err)
		for _, r := range rows[:4] {
			assert.True(t, r.TaxChangeTotal.IsZero(), "%s has no filers above $1M", r.Group.Name)
		}
		assert.InDelta(t, 60, rows[4].TaxChangeTotal.InexactFloat64(), 1e-9)
		assert.True(t, rows[4].PctWithIncrease.LessThan(d(10)))
	})

	t.Run("income tax", func(t *testing.T) {
		it := domain.IncomeTax{RateChange: d(0.05), AffectedIncomeThreshold: d(1_000_000)}
		rows, err := newEngine().Allocate(policy(it), scored(40), domain.SchemeDecile, Options{})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, rows[9].ShareOfTotal.InexactFloat64(), 1e-9)
	})
}

// boundedGroups hides the bracket-level returns counter of the provider.
type boundedGroups struct {
	data.GroupProvider
}

func TestAllocate_ThresholdFallsToTopGroup(t *testing.T) {
	e := NewEngine(boundedGroups{data.NewSOIGroups(data.DefaultSOITable(), data.DefaultSOIYear)})
	rows, err := e.Allocate(policy(millionDollarCapitalGains()), scored(60), domain.SchemeQuintile, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rows[4].ShareOfTotal.InexactFloat64(), 1e-9)
	assert.InDelta(t, 1.0, shareSum(rows), 1e-9)
}

func TestAllocate_CorporateSplit(t *testing.T) {
	rows, err := newEngine().Allocate(policy(domain.DefaultCorporate()), scored(100), domain.SchemeQuintile, Options{})
	require.NoError(t, err)

	for _, r := range rows {
		assert.True(t, r.TaxChangeTotal.IsPositive(), "%s bears some corporate tax", r.Group.Name)
		assert.True(t, r.PctWithIncrease.Equal(hundred))
	}
	assert.True(t, rows[4].ShareOfTotal.GreaterThan(rows[0].ShareOfTotal))
}

func TestAllocate_PayrollCapElimination(t *testing.T) {
	v := domain.DefaultPayroll()
	v.EliminateCap = true
	rows, err := newEngine().Allocate(policy(v), scored(320), domain.SchemeQuintile, Options{})
	require.NoError(t, err)

	for _, r := range rows[:4] {
		assert.True(t, r.TaxChangeTotal.IsZero(), "%s has average wages below the cap", r.Group.Name)
	}
	assert.InDelta(t, 1.0, rows[4].ShareOfTotal.InexactFloat64(), 1e-9)
}

func TestAllocate_CreditIncomeLimit(t *testing.T) {
	v := domain.DefaultCredit()
	v.IncomeLimit = dp(50_000)
	rows, err := newEngine().Allocate(policy(v), scored(-20), domain.SchemeQuintile, Options{})
	require.NoError(t, err)

	assert.True(t, rows[0].TaxChangeTotal.IsNegative())
	assert.True(t, rows[0].PctWithDecrease.Equal(hundred))
	assert.True(t, rows[4].TaxChangeTotal.IsZero())
	assert.InDelta(t, 1.0, shareSum(rows), 1e-9)
}

func TestAllocate_Errors(t *testing.T) {
	_, err := newEngine().Allocate(policy(domain.DefaultSpending()), scored(10), domain.SchemeQuintile, Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyParameters)

	v := domain.IncomeTax{RateChange: d(0.01)}
	_, err = newEngine().Allocate(policy(v), scored(10), domain.SchemeQuintile, Options{Year: 2040})
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = newEngine().Allocate(policy(v), scored(10), "vigintile", Options{})
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = newEngine().Allocate(policy(v), nil, domain.SchemeQuintile, Options{})
	assert.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	v := domain.IncomeTax{RateChange: d(0.01)}
	ceil := d(75_000)
	custom := []data.GroupBound{data.CustomBound(decimal.Zero, &ceil), data.CustomBound(ceil, nil)}

	a, err := newEngine().Analyze(policy(v), scored(80), domain.SchemeCustom, Options{Custom: custom})
	require.NoError(t, err)
	assert.Equal(t, 2025, a.Year)
	assert.Equal(t, domain.SchemeCustom, a.Scheme)
	require.Len(t, a.Results, 2)
	assert.InDelta(t, 80, a.TotalTaxChange.InexactFloat64(), 1e-9)
	assert.True(t, a.Results[1].TaxChangeTotal.GreaterThan(a.Results[0].TaxChangeTotal))
}

func TestAffectedFraction(t *testing.T) {
	ceil := d(200_000)
	bounded := domain.IncomeGroup{Floor: d(100_000), Ceiling: &ceil, Returns: d(1e6), TotalAGI: d(150)}
	// average AGI is $2M
	top := domain.IncomeGroup{Floor: d(500_000), Returns: d(1e6), TotalAGI: d(2_000)}

	tests := []struct {
		name      string
		group     domain.IncomeGroup
		threshold float64
		want      float64
	}{
		{"below floor", bounded, 50_000, 1},
		{"mid bracket", bounded, 150_000, 0.5},
		{"above ceiling", bounded, 250_000, 0},
		{"top group below average", top, 1_500_000, 0.75},
		{"top group at average", top, 2_000_000, 0.5},
		{"top group above average", top, 2_500_000, 0.25},
		{"top group far above average", top, 10_000_000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AffectedFraction(tt.group, d(tt.threshold))
			assert.InDelta(t, tt.want, got.InexactFloat64(), 1e-12)
		})
	}
}

func TestAllocate_TCJAExtensionSkewsToTop(t *testing.T) {
	rows, err := newEngine().Allocate(policy(domain.DefaultTCJAExtension()), scored(-400), domain.SchemeQuintile, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.InDelta(t, 1.0, shareSum(rows), 1e-9)
	for _, r := range rows {
		assert.True(t, r.TaxChangeTotal.IsNegative(), "%s gets a cut", r.Group.Name)
	}
	assert.Greater(t, rows[4].ShareOfTotal.InexactFloat64(), 0.5)
}
