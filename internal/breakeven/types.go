// Package breakeven solves for the rate change that makes a policy's
// ten-year deficit effect hit a target.
package breakeven

import (
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Request describes one solve.
type Request struct {
	Policy   domain.Policy
	Baseline domain.Baseline
	// Target is the window total final deficit effect in billions. Negative
	// targets ask for deficit reduction.
	Target decimal.Decimal
	// Min and Max bound the rate change searched. Nil uses the solver
	// defaults.
	Min *decimal.Decimal
	Max *decimal.Decimal
	// Tolerance and MaxIterations override the solver options when set.
	Tolerance     *decimal.Decimal
	MaxIterations int
	Dynamic       bool
}

// Result reports the rate change found and the score at that rate.
type Result struct {
	PolicyName      string                `json:"policyName"`
	Kind            domain.Kind           `json:"kind"`
	Target          decimal.Decimal       `json:"target"`
	RateChange      decimal.Decimal       `json:"rateChange"`
	Achieved        decimal.Decimal       `json:"achieved"`
	Gap             decimal.Decimal       `json:"gap"`
	Iterations      int                   `json:"iterations"`
	Converged       bool                  `json:"converged"`
	ConvergenceInfo string                `json:"convergenceInfo,omitempty"`
	Score           *domain.ScoringResult `json:"score,omitempty"`
}

// SolverOptions configures the bisection.
type SolverOptions struct {
	// Tolerance is the accepted gap between achieved and target, in billions.
	Tolerance     decimal.Decimal
	MaxIterations int
	MinRate       decimal.Decimal
	MaxRate       decimal.Decimal
	// RateTolerance stops the search once the bracket is this narrow.
	RateTolerance decimal.Decimal
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.1),
		MaxIterations: 60,
		MinRate:       decimal.NewFromFloat(-0.2),
		MaxRate:       decimal.NewFromFloat(0.2),
		RateTolerance: decimal.NewFromFloat(0.0000001),
	}
}

// BreakEvenError reports a solve that could not be carried out.
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
