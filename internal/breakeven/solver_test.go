package breakeven

import (
	"context"
	"errors"
	"strings"
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

func testBaseline(t *testing.T) domain.Baseline {
	t.Helper()
	b, err := data.NewCBOBaseline().Baseline(2025, 10)
	require.NoError(t, err)
	return b
}

func newSolver() *Solver {
	return NewDefaultSolver(scoring.NewScorer(data.DefaultSOITable(), scoring.DefaultConfig()))
}

// linearScorer scores every year at slope times the income tax rate change.
type linearScorer struct {
	slope decimal.Decimal
	calls int
	err   error
}

func (s *linearScorer) Score(_ context.Context, p domain.Policy, b domain.Baseline, _ scoring.Options) (*domain.ScoringResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	rate := p.Variant.(domain.IncomeTax).RateChange
	years := b.YearList()
	final := make([]decimal.Decimal, len(years))
	for i := range final {
		final[i] = s.slope.Mul(rate)
	}
	return &domain.ScoringResult{PolicyName: p.Name, Years: years, Final: final}, nil
}

func TestNewDefaultSolver(t *testing.T) {
	scorer := &linearScorer{}
	solver := NewDefaultSolver(scorer)

	if solver == nil {
		t.Fatal("Expected solver to be created, got nil")
	}
	if solver.Scorer != scorer {
		t.Error("Expected Scorer to match input")
	}
	expected := DefaultSolverOptions()
	if !solver.Options.Tolerance.Equal(expected.Tolerance) || solver.Options.MaxIterations != expected.MaxIterations {
		t.Error("Expected default options to be applied")
	}
}

func TestSolve_RecoversRate(t *testing.T) {
	res, err := newSolver().Solve(context.Background(), Request{
		Policy:   topRatePolicy(),
		Baseline: testBaseline(t),
		Target:   d(-327.6),
	})
	require.NoError(t, err)

	assert.True(t, res.Converged, res.ConvergenceInfo)
	assert.InDelta(t, 0.026, res.RateChange.InexactFloat64(), 1e-4)
	assert.InDelta(t, -327.6, res.Achieved.InexactFloat64(), 0.1)
	assert.LessOrEqual(t, res.Gap.Abs().InexactFloat64(), 0.1)
	assert.Equal(t, domain.KindIncomeTax, res.Kind)
	require.NotNil(t, res.Score)
	assert.True(t, res.Score.TotalFinal().Equal(res.Achieved))
}

func TestSolve_ZeroTargetHitsMidpoint(t *testing.T) {
	scorer := &linearScorer{slope: d(-1260)}
	res, err := NewDefaultSolver(scorer).Solve(context.Background(), Request{
		Policy:   topRatePolicy(),
		Baseline: testBaseline(t),
		Target:   decimal.Zero,
	})
	require.NoError(t, err)
	assert.True(t, res.RateChange.IsZero(), "got %s", res.RateChange)
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, 3, scorer.calls)
}

func TestSolve_Errors(t *testing.T) {
	baseline := testBaseline(t)
	spending := domain.Policy{Name: "Roads", StartYear: 2025, DurationYears: 10, Variant: domain.DefaultSpending()}

	tests := []struct {
		name    string
		scorer  PolicyScorer
		req     Request
		wantMsg string
	}{
		{
			name:    "no rate lever",
			scorer:  &linearScorer{slope: d(-1260)},
			req:     Request{Policy: spending, Baseline: baseline, Target: d(-100)},
			wantMsg: "policy has no rate lever",
		},
		{
			name:    "target out of reach",
			scorer:  &linearScorer{slope: d(-1260)},
			req:     Request{Policy: topRatePolicy(), Baseline: baseline, Target: d(-5000)},
			wantMsg: "not bracketed",
		},
		{
			name:    "inverted bounds",
			scorer:  &linearScorer{slope: d(-1260)},
			req:     Request{Policy: topRatePolicy(), Baseline: baseline, Target: d(-100), Min: dp(0.1), Max: dp(0.05)},
			wantMsg: "must be below max rate",
		},
		{
			name:    "scorer failure",
			scorer:  &linearScorer{err: errors.New("boom")},
			req:     Request{Policy: topRatePolicy(), Baseline: baseline, Target: d(-100)},
			wantMsg: "failed to score policy: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDefaultSolver(tt.scorer).Solve(context.Background(), tt.req)
			require.Error(t, err)
			var be *BreakEvenError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "solve", be.Operation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSolve_NoRateLeverUnwrapsPolicyError(t *testing.T) {
	spending := domain.Policy{Name: "Roads", StartYear: 2025, DurationYears: 10, Variant: domain.DefaultSpending()}
	_, err := newSolver().Solve(context.Background(), Request{Policy: spending, Baseline: testBaseline(t)})
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyParameters)
}

func TestSolve_MaxIterations(t *testing.T) {
	res, err := NewDefaultSolver(&linearScorer{slope: d(-1260)}).Solve(context.Background(), Request{
		Policy:        topRatePolicy(),
		Baseline:      testBaseline(t),
		Target:        d(-327.6),
		Tolerance:     dp(0.000001),
		MaxIterations: 4,
	})
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 4, res.Iterations)
	assert.Contains(t, res.ConvergenceInfo, "max iterations (4)")
}

func TestSolve_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDefaultSolver(&linearScorer{slope: d(-1260)}).Solve(ctx, Request{
		Policy:   topRatePolicy(),
		Baseline: testBaseline(t),
		Target:   d(-327.6),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveTargets(t *testing.T) {
	sched, err := NewDefaultSolver(&linearScorer{slope: d(-1260)}).SolveTargets(context.Background(),
		Request{Policy: topRatePolicy(), Baseline: testBaseline(t)},
		[]decimal.Decimal{d(-327.6), d(-100), d(-5000)})
	require.NoError(t, err)

	require.Len(t, sched.Results, 2)
	assert.True(t, sched.Results[0].Target.Equal(d(-100)), "results are ordered by target")
	require.Len(t, sched.Failed, 1)
	assert.True(t, sched.Failed[0].Target.Equal(d(-5000)))
	require.NotNil(t, sched.RatePer100B)
	assert.InDelta(t, 100.0/12600.0, sched.RatePer100B.InexactFloat64(), 1e-5)
	assert.NotEmpty(t, sched.Recommendations)
}

func TestSolveTargets_NoneReached(t *testing.T) {
	_, err := NewDefaultSolver(&linearScorer{slope: d(-1260)}).SolveTargets(context.Background(),
		Request{Policy: topRatePolicy(), Baseline: testBaseline(t)},
		[]decimal.Decimal{d(-5000)})
	var be *BreakEvenError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "solve_targets", be.Operation)

	_, err = newSolver().SolveTargets(context.Background(), Request{Policy: topRatePolicy()}, nil)
	assert.Error(t, err)
}

func TestFormatters(t *testing.T) {
	res, err := NewDefaultSolver(&linearScorer{slope: d(-1260)}).Solve(context.Background(), Request{
		Policy:   topRatePolicy(),
		Baseline: testBaseline(t),
		Target:   d(-327.6),
	})
	require.NoError(t, err)

	tf := &TableFormatter{}
	out := tf.Format(res)
	for _, want := range []string{"BREAK-EVEN RATE SOLUTION", "Top rate (income_tax)", "Converged", "-$327.60B"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}

	js, err := (&JSONFormatter{Pretty: true}).Format(res)
	require.NoError(t, err)
	assert.Contains(t, js, `"rateChange"`)
	assert.Contains(t, js, `"converged": true`)
}

func TestBreakEvenError(t *testing.T) {
	cause := errors.New("inner")
	err := &BreakEvenError{Operation: "solve", Message: "failed", Cause: cause}
	if err.Error() != "solve: failed: inner" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose cause")
	}
	if (&BreakEvenError{Operation: "solve", Message: "failed"}).Error() != "solve: failed" {
		t.Error("unexpected message without cause")
	}
}
