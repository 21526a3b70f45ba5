package breakeven

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Schedule collects solves for several targets on one policy.
type Schedule struct {
	PolicyName string   `json:"policyName"`
	Results    []Result `json:"results"`
	// Failed lists the targets that could not be reached, with the reason.
	Failed []TargetFailure `json:"failed,omitempty"`
	// RatePer100B is the rate change needed per $100B of additional window
	// deficit reduction, estimated from the converged results.
	RatePer100B     *decimal.Decimal `json:"ratePer100B,omitempty"`
	Recommendations []string         `json:"recommendations,omitempty"`
}

// TargetFailure records one target the solver could not reach.
type TargetFailure struct {
	Target decimal.Decimal `json:"target"`
	Reason string          `json:"reason"`
}

// SolveTargets solves req once per target. Unreachable targets are recorded
// and skipped; the call fails only when no target is reached or ctx ends.
func (s *Solver) SolveTargets(ctx context.Context, req Request, targets []decimal.Decimal) (*Schedule, error) {
	if len(targets) == 0 {
		return nil, &BreakEvenError{Operation: "solve_targets", Message: "at least one target is required"}
	}

	sched := &Schedule{PolicyName: req.Policy.Name}
	for _, target := range targets {
		r := req
		r.Target = target
		result, err := s.Solve(ctx, r)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			sched.Failed = append(sched.Failed, TargetFailure{Target: target, Reason: err.Error()})
			continue
		}
		sched.Results = append(sched.Results, *result)
	}

	if len(sched.Results) == 0 {
		return nil, &BreakEvenError{
			Operation: "solve_targets",
			Message:   fmt.Sprintf("no target reached (%d tried)", len(targets)),
		}
	}

	sort.Slice(sched.Results, func(i, j int) bool {
		return sched.Results[i].Target.GreaterThan(sched.Results[j].Target)
	})
	sched.RatePer100B = ratePer100B(sched.Results)
	sched.Recommendations = recommendations(sched)
	return sched, nil
}

func ratePer100B(results []Result) *decimal.Decimal {
	var converged []Result
	for _, r := range results {
		if r.Converged {
			converged = append(converged, r)
		}
	}
	if len(converged) < 2 {
		return nil
	}
	first, last := converged[0], converged[len(converged)-1]
	span := first.Achieved.Sub(last.Achieved)
	if span.IsZero() {
		return nil
	}
	slope := last.RateChange.Sub(first.RateChange).Div(span).Mul(decimal.NewFromInt(100))
	return &slope
}

func recommendations(sched *Schedule) []string {
	var recs []string
	if sched.RatePer100B != nil {
		recs = append(recs, fmt.Sprintf("Each additional $100B of deficit reduction needs about %s points of rate change",
			sched.RatePer100B.Mul(decimal.NewFromInt(100)).StringFixed(2)))
	}
	for _, r := range sched.Results {
		if !r.Converged {
			recs = append(recs, fmt.Sprintf("Target %s did not converge: %s", r.Target.StringFixed(1), r.ConvergenceInfo))
		}
	}
	if len(sched.Failed) > 0 {
		recs = append(recs, fmt.Sprintf("%d target(s) lie outside the searched rate range; widen the bounds to reach them", len(sched.Failed)))
	}
	return recs
}
