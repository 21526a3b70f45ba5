package breakeven

import (
	"context"
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/laurencehw/fiscal-policy-calculator/internal/transform"
	"github.com/shopspring/decimal"
)

// PolicyScorer scores one policy.
type PolicyScorer interface {
	Score(ctx context.Context, p domain.Policy, baseline domain.Baseline, opts scoring.Options) (*domain.ScoringResult, error)
}

// Solver finds break-even rate changes by bisection.
type Solver struct {
	Scorer  PolicyScorer
	Options SolverOptions
}

// NewSolver creates a solver with explicit options.
func NewSolver(scorer PolicyScorer, options SolverOptions) *Solver {
	return &Solver{Scorer: scorer, Options: options}
}

// NewDefaultSolver creates a solver with DefaultSolverOptions.
func NewDefaultSolver(scorer PolicyScorer) *Solver {
	return NewSolver(scorer, DefaultSolverOptions())
}

type sample struct {
	rate  decimal.Decimal
	gap   decimal.Decimal
	score *domain.ScoringResult
}

// Solve bisects on the policy's rate lever until the window total final
// deficit effect is within tolerance of req.Target. The target must lie
// between the totals at the two bounds.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if _, err := transform.RateChange(req.Policy); err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "policy has no rate lever", Cause: err}
	}

	lo, hi := s.Options.MinRate, s.Options.MaxRate
	if req.Min != nil {
		lo = *req.Min
	}
	if req.Max != nil {
		hi = *req.Max
	}
	if !lo.LessThan(hi) {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("min rate %s must be below max rate %s", lo, hi),
		}
	}
	tolerance := s.Options.Tolerance
	if req.Tolerance != nil {
		tolerance = *req.Tolerance
	}
	maxIter := s.Options.MaxIterations
	if req.MaxIterations > 0 {
		maxIter = req.MaxIterations
	}

	low, err := s.evaluate(ctx, req, lo)
	if err != nil {
		return nil, err
	}
	if low.gap.Abs().LessThanOrEqual(tolerance) {
		return s.result(req, low, 1, true, "target met at lower bound"), nil
	}
	high, err := s.evaluate(ctx, req, hi)
	if err != nil {
		return nil, err
	}
	if high.gap.Abs().LessThanOrEqual(tolerance) {
		return s.result(req, high, 2, true, "target met at upper bound"), nil
	}
	if low.gap.Sign() == high.gap.Sign() {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message: fmt.Sprintf("target %s not bracketed: totals are %s at rate %s and %s at rate %s",
				req.Target.StringFixed(2),
				low.gap.Add(req.Target).StringFixed(2), lo,
				high.gap.Add(req.Target).StringFixed(2), hi),
		}
	}

	best := low
	if high.gap.Abs().LessThan(low.gap.Abs()) {
		best = high
	}
	two := decimal.NewFromInt(2)
	iterations := 2
	for iterations < maxIter {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		iterations++

		mid, err := s.evaluate(ctx, req, low.rate.Add(high.rate).Div(two))
		if err != nil {
			return nil, err
		}
		if mid.gap.Abs().LessThan(best.gap.Abs()) {
			best = mid
		}
		if mid.gap.Abs().LessThanOrEqual(tolerance) {
			return s.result(req, mid, iterations,
				true, fmt.Sprintf("converged within %s billion", tolerance.String())), nil
		}
		if mid.gap.Sign() == low.gap.Sign() {
			low = mid
		} else {
			high = mid
		}
		if high.rate.Sub(low.rate).Abs().LessThan(s.Options.RateTolerance) {
			return s.result(req, best, iterations, false, "rate bracket collapsed before reaching tolerance"), nil
		}
	}

	return s.result(req, best, iterations, false, fmt.Sprintf("max iterations (%d) reached", maxIter)), nil
}

func (s *Solver) evaluate(ctx context.Context, req Request, rate decimal.Decimal) (sample, error) {
	p, err := transform.WithRateChange(req.Policy, rate)
	if err != nil {
		return sample{}, &BreakEvenError{Operation: "solve", Message: "failed to apply rate change", Cause: err}
	}
	score, err := s.Scorer.Score(ctx, p, req.Baseline, scoring.Options{Dynamic: req.Dynamic})
	if err != nil {
		return sample{}, &BreakEvenError{Operation: "solve", Message: "failed to score policy", Cause: err}
	}
	return sample{rate: rate, gap: score.TotalFinal().Sub(req.Target), score: score}, nil
}

func (s *Solver) result(req Request, p sample, iterations int, converged bool, info string) *Result {
	return &Result{
		PolicyName:      req.Policy.Name,
		Kind:            req.Policy.Kind(),
		Target:          req.Target,
		RateChange:      p.rate,
		Achieved:        p.gap.Add(req.Target),
		Gap:             p.gap,
		Iterations:      iterations,
		Converged:       converged,
		ConvergenceInfo: info,
		Score:           p.score,
	}
}
