package api

import (
	"github.com/laurencehw/fiscal-policy-calculator/internal/config"
	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/shopspring/decimal"
)

// ScoreRequest is the body of POST /api/score.
type ScoreRequest struct {
	Policy  config.PolicySpec `json:"policy"`
	Dynamic bool              `json:"dynamic"`
	// Uncertainty defaults to true.
	Uncertainty *bool `json:"uncertainty,omitempty"`
	// StartYear moves the baseline window; it defaults to the policy start.
	StartYear  int      `json:"start_year,omitempty"`
	Transforms []string `json:"transforms,omitempty"`
}

// GroupBoundDTO is one custom income group.
type GroupBoundDTO struct {
	Name    string           `json:"name"`
	Floor   decimal.Decimal  `json:"floor"`
	Ceiling *decimal.Decimal `json:"ceiling,omitempty"`
}

// DistributionRequest is the body of POST /api/distribution.
type DistributionRequest struct {
	Policy  config.PolicySpec `json:"policy"`
	Scheme  string            `json:"scheme,omitempty"`
	Year    int               `json:"year,omitempty"`
	Custom  []GroupBoundDTO   `json:"custom,omitempty"`
	Dynamic bool              `json:"dynamic"`
}

func (r DistributionRequest) bounds() []data.GroupBound {
	if len(r.Custom) == 0 {
		return nil
	}
	out := make([]data.GroupBound, len(r.Custom))
	for i, c := range r.Custom {
		out[i] = data.GroupBound{Name: c.Name, Floor: c.Floor, Ceiling: c.Ceiling}
	}
	return out
}

// CompareRequest is the body of POST /api/compare. The first policy is the
// base.
type CompareRequest struct {
	Policies  []config.PolicySpec `json:"policies"`
	Templates []string            `json:"templates,omitempty"`
	Dynamic   bool                `json:"dynamic"`
	StartYear int                 `json:"start_year,omitempty"`
}

// SolveRequest is the body of POST /api/solve.
type SolveRequest struct {
	Policy  config.PolicySpec `json:"policy"`
	Target  decimal.Decimal   `json:"target"`
	Min     *decimal.Decimal  `json:"min,omitempty"`
	Max     *decimal.Decimal  `json:"max,omitempty"`
	Dynamic bool              `json:"dynamic"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	DataYear   int    `json:"dataYear"`
	RunHistory bool   `json:"runHistory"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
