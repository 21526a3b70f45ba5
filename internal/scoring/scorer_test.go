package scoring

import (
	"context"
	"errors"
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

func newTestScorer() *Scorer {
	return NewScorer(data.DefaultSOITable(), DefaultConfig())
}

func testBaseline(t *testing.T) domain.Baseline {
	t.Helper()
	b, err := data.NewCBOBaseline().Baseline(2025, 10)
	require.NoError(t, err)
	return b
}

func topRatePolicy() domain.Policy {
	return domain.Policy{
		Name:          "Top rate +2.6pp",
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

func TestScore_IncomeTaxScenario(t *testing.T) {
	r, err := newTestScorer().Score(context.Background(), topRatePolicy(), testBaseline(t), Options{})
	require.NoError(t, err)

	// 0.026 * 800,000 * 1,800,000
	assert.True(t, r.StaticRevenue[0].Equal(d(37.44)), "got %s", r.StaticRevenue[0])
	assert.True(t, r.StaticDeficit[0].Equal(d(-37.44)))
	// ETI 0.25 * 0.5 opposes the gain
	assert.True(t, r.Behavioral[0].Equal(d(4.68)), "got %s", r.Behavioral[0])
	assert.True(t, r.Final[0].Equal(d(-32.76)))
	assert.Nil(t, r.Dynamic)
	assert.Equal(t, r.Final, r.Low)
	assert.Equal(t, r.Final, r.High)
}

func TestScore_ZeroRateChangeIsZero(t *testing.T) {
	p := topRatePolicy()
	v := p.Variant.(domain.IncomeTax)
	v.RateChange = decimal.Zero
	p = p.WithVariant(v)

	for _, opts := range []Options{{}, {Dynamic: true, Uncertainty: true}} {
		r, err := newTestScorer().Score(context.Background(), p, testBaseline(t), opts)
		require.NoError(t, err)
		for i := range r.Years {
			assert.True(t, r.Final[i].IsZero(), "year %d", r.Years[i])
			assert.True(t, r.Low[i].IsZero())
			assert.True(t, r.High[i].IsZero())
		}
	}
}

func TestScore_UsesBracketData(t *testing.T) {
	p := domain.Policy{
		Name: "Rate above 400k", StartYear: 2025, DurationYears: 10,
		Variant: domain.IncomeTax{RateChange: d(0.01), AffectedIncomeThreshold: d(400_000)},
	}
	r, err := newTestScorer().Score(context.Background(), p, testBaseline(t), Options{})
	require.NoError(t, err)
	assert.True(t, r.StaticRevenue[0].IsPositive())

	p.DataYear = 1990
	_, err = newTestScorer().Score(context.Background(), p, testBaseline(t), Options{})
	assert.True(t, errors.Is(err, domain.ErrDataUnavailable), "missing bracket year must surface, got %v", err)

	var se *ScoringError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "static", se.Operation)
}

func TestScore_SunsetAndPhaseIn(t *testing.T) {
	p := topRatePolicy()
	p.DurationYears = 4
	p.PhaseInYears = 2
	p.Sunset = true

	r, err := newTestScorer().Score(context.Background(), p, testBaseline(t), Options{})
	require.NoError(t, err)

	assert.True(t, r.StaticRevenue[0].Equal(d(18.72)), "half in year one, got %s", r.StaticRevenue[0])
	assert.True(t, r.StaticRevenue[1].Equal(d(37.44)))
	assert.True(t, r.StaticRevenue[3].Equal(d(37.44)))
	for i := 4; i < 10; i++ {
		assert.True(t, r.Final[i].IsZero(), "year %d should be past sunset", r.Years[i])
	}
}

func TestScore_LateStart(t *testing.T) {
	p := topRatePolicy()
	p.StartYear = 2027
	r, err := newTestScorer().Score(context.Background(), p, testBaseline(t), Options{})
	require.NoError(t, err)
	assert.True(t, r.Final[0].IsZero())
	assert.True(t, r.Final[1].IsZero())
	assert.False(t, r.Final[2].IsZero())
}

func TestScore_OffsetOpposesStatic(t *testing.T) {
	baseline := testBaseline(t)
	cg := domain.DefaultCapitalGains()
	cg.BaselineRealizations = d(1_000)
	cg.RateChange = d(0.05)

	credit := domain.DefaultCredit()
	credit.CreditType = domain.CreditCTC
	credit.AmountChange = d(1_000)
	credit.BeneficiariesMillions = d(40)

	payroll := domain.DefaultPayroll()
	payroll.EliminateCap = true

	amt := domain.DefaultAMT()
	amt.ExtendTCJARelief = true

	ptc := domain.DefaultPremiumTaxCredit()
	ptc.Repeal = true

	estate := domain.DefaultEstate()
	estate.NewRate = dp(0.45)

	corp := domain.DefaultCorporate()
	corp.NewRate = dp(0.28)

	variants := map[string]domain.Variant{
		"capital gains":   cg,
		"credit":          credit,
		"payroll":         payroll,
		"amt":             amt,
		"ptc":             ptc,
		"estate":          estate,
		"corporate":       corp,
		"tax expenditure": domain.TaxExpenditure{ExpenditureType: domain.ExpenditureSALT, Action: domain.ActionEliminate},
	}
	for name, v := range variants {
		t.Run(name, func(t *testing.T) {
			p := domain.Policy{Name: name, StartYear: 2025, DurationYears: 10, Variant: v}
			r, err := newTestScorer().Score(context.Background(), p, baseline, Options{})
			require.NoError(t, err)
			for i := range r.Years {
				require.False(t, r.StaticDeficit[i].IsZero(), "year %d static effect", r.Years[i])
				assert.Equal(t, -r.StaticDeficit[i].Sign(), r.Behavioral[i].Sign(), "year %d", r.Years[i])
			}
		})
	}
}

func TestScore_VariantStaticEffects(t *testing.T) {
	baseline := testBaseline(t)

	payroll := domain.DefaultPayroll()
	payroll.SSRateChange = d(0.01)

	credit := domain.DefaultCredit()
	credit.AmountChange = d(500)
	credit.BeneficiariesMillions = d(20)

	corp := domain.DefaultCorporate()
	corp.BaselineProfits = d(2_000)
	corp.RateChange = d(0.07)
	corp.EliminateFDII = true

	amt := domain.DefaultAMT()
	amt.AMTType = domain.AMTCorporate
	amt.RepealCorporate = true

	tests := []struct {
		name        string
		variant     domain.Variant
		wantRevenue float64
		wantSpend   float64
	}{
		{"payroll one point", payroll, 90, 0},
		{"refundable credit", credit, -10, 0},
		{"corporate rate and fdii", corp, 160, 0},
		{"repeal corporate amt", amt, -22, 0},
		{"extend estate exemption", domain.Estate{ExtendTCJAExemption: true}, -16.7, 0},
		{"salt expansion", domain.TaxExpenditure{ExpenditureType: domain.ExpenditureSALT, Action: domain.ActionExpand}, -95, 0},
		{"cap charitable rate", domain.TaxExpenditure{ExpenditureType: domain.ExpenditureCharitable, Action: domain.ActionCap, CapRate: dp(0.28)}, 10.5, 0},
		{"spending", domain.Spending{AnnualChange: d(100), GrowthRate: d(0.02)}, 0, 100},
		{"transfer override", domain.Transfer{Program: domain.ProgramOther, AnnualCostChange: dp(12)}, 0, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.Policy{Name: tt.name, StartYear: 2025, DurationYears: 10, Variant: tt.variant}
			r, err := newTestScorer().Score(context.Background(), p, baseline, Options{})
			require.NoError(t, err)
			assert.InDelta(t, tt.wantRevenue, r.StaticRevenue[0].InexactFloat64(), 1e-9)
			assert.InDelta(t, tt.wantSpend, r.StaticSpending[0].InexactFloat64(), 1e-9)
		})
	}
}

func TestScore_SpendingGrowthAndOneTime(t *testing.T) {
	baseline := testBaseline(t)
	p := domain.Policy{Name: "infra", StartYear: 2025, DurationYears: 10,
		Variant: domain.Spending{AnnualChange: d(100), GrowthRate: d(0.02)}}

	r, err := newTestScorer().Score(context.Background(), p, baseline, Options{})
	require.NoError(t, err)
	assert.True(t, r.StaticSpending[1].Equal(d(102)))
	assert.True(t, r.Behavioral[0].IsZero(), "spending has no behavioral stage")

	p.Variant = domain.Spending{AnnualChange: d(100), IsOneTime: true}
	r, err = newTestScorer().Score(context.Background(), p, baseline, Options{})
	require.NoError(t, err)
	assert.True(t, r.StaticSpending[0].Equal(d(100)))
	assert.True(t, r.TotalStatic().Equal(d(100)))
}

func TestScore_TransferTracksProgramCost(t *testing.T) {
	baseline := testBaseline(t)
	p := domain.Policy{Name: "ss boost", StartYear: 2025, DurationYears: 10,
		Variant: domain.Transfer{Program: domain.ProgramSocialSecurity, BenefitChangePercent: d(0.05)}}

	r, err := newTestScorer().Score(context.Background(), p, baseline, Options{})
	require.NoError(t, err)
	for i, by := range baseline.Years {
		assert.True(t, r.StaticSpending[i].Equal(by.SocialSecurity.Mul(d(0.05))), "year %d", by.Year)
	}
}

func TestScore_Dynamic(t *testing.T) {
	r, err := newTestScorer().Score(context.Background(), topRatePolicy(), testBaseline(t), Options{Dynamic: true, Uncertainty: true})
	require.NoError(t, err)
	require.NotNil(t, r.Dynamic)
	assert.True(t, r.IsDynamic())

	for i := range r.Years {
		want := r.StaticDeficit[i].Add(r.Behavioral[i]).Sub(r.Dynamic.RevenueFeedback[i])
		assert.True(t, r.Final[i].Equal(want), "year %d", r.Years[i])
		assert.True(t, r.Low[i].LessThanOrEqual(r.Final[i]))
		assert.True(t, r.High[i].GreaterThanOrEqual(r.Final[i]))
	}
	assert.True(t, r.Dynamic.GDPPercent[0].IsNegative(), "a tax increase is contractionary")
}

func TestScore_InvalidInputs(t *testing.T) {
	p := topRatePolicy()
	p.PhaseInYears = 10
	_, err := newTestScorer().Score(context.Background(), p, testBaseline(t), Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyParameters)

	_, err = newTestScorer().Score(context.Background(), topRatePolicy(), domain.Baseline{}, Options{})
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = newTestScorer().Score(ctx, topRatePolicy(), testBaseline(t), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScorePackage(t *testing.T) {
	baseline := testBaseline(t)
	spend := domain.Policy{Name: "spend", StartYear: 2025, DurationYears: 10,
		Variant: domain.Spending{AnnualChange: d(50)}}
	pkg := domain.PolicyPackage{
		Name:              "combo",
		Policies:          []domain.Policy{topRatePolicy(), spend},
		InteractionFactor: d(0.9),
	}

	s := newTestScorer()
	total, members, err := s.ScorePackage(context.Background(), pkg, baseline, Options{Dynamic: true})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "spend", members[1].PolicyName)

	wantRev := members[0].StaticRevenue[0].Add(members[1].StaticRevenue[0]).Mul(d(0.9))
	assert.True(t, total.StaticRevenue[0].Equal(wantRev))
	assert.True(t, total.StaticSpending[0].Equal(d(45)))
	assert.True(t, total.StaticDeficit[0].Equal(total.StaticSpending[0].Sub(total.StaticRevenue[0])))
	assert.True(t, total.Dynamic.RevenueFeedback[0].Equal(
		members[0].Dynamic.RevenueFeedback[0].Add(members[1].Dynamic.RevenueFeedback[0])))

	_, _, err = s.ScorePackage(context.Background(), domain.PolicyPackage{Name: "empty"}, baseline, Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyParameters)

	bad := topRatePolicy()
	bad.DurationYears = 0
	pkg.Policies = append(pkg.Policies, bad)
	_, _, err = s.ScorePackage(context.Background(), pkg, baseline, Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyParameters)
}

type recordingLogger struct {
	NopLogger
	debug []string
}

func (l *recordingLogger) Debugf(format string, _ ...any) { l.debug = append(l.debug, format) }

func TestScorer_SetLogger(t *testing.T) {
	s := newTestScorer()
	assert.IsType(t, NopLogger{}, s.logger)

	rec := &recordingLogger{}
	s.SetLogger(rec)
	_, err := s.Score(context.Background(), topRatePolicy(), testBaseline(t), Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.debug)

	s.SetLogger(nil)
	assert.IsType(t, NopLogger{}, s.logger)
}
