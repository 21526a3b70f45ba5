package sensitivity

import (
	"context"
	"fmt"
	"sort"

	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var hundred = decimal.NewFromInt(100)

// PolicyScorer scores one policy.
type PolicyScorer interface {
	Score(ctx context.Context, p domain.Policy, baseline domain.Baseline, opts scoring.Options) (*domain.ScoringResult, error)
}

// Point is the score at one parameter value.
type Point struct {
	Value           decimal.Decimal       `json:"value"`
	IsBase          bool                  `json:"isBase"`
	TotalFinal      decimal.Decimal       `json:"totalFinal"`
	TotalBehavioral decimal.Decimal       `json:"totalBehavioral"`
	TotalFeedback   decimal.Decimal       `json:"totalFeedback"`
	ChangeFromBase  decimal.Decimal       `json:"changeFromBase"`
	ChangePct       decimal.Decimal       `json:"changePct"`
	Result          *domain.ScoringResult `json:"-"`
}

// Sweep is the outcome of one parameter sweep.
type Sweep struct {
	PolicyName string          `json:"policyName"`
	Parameter  ParameterInfo   `json:"parameter"`
	BaseValue  decimal.Decimal `json:"baseValue"`
	BaseTotal  decimal.Decimal `json:"baseTotal"`
	Dynamic    bool            `json:"dynamic"`
	Points     []Point         `json:"points"`
	Summary    Summary         `json:"summary"`
}

// Analyzer rescores policies under alternative assumptions.
type Analyzer struct {
	Config scoring.Config
	// NewScorer builds a scorer for a configuration.
	NewScorer func(cfg scoring.Config) PolicyScorer
	Options   scoring.Options
	// Workers bounds concurrent scoring; zero means unbounded.
	Workers int
}

// NewAnalyzer creates an analyzer that scores with brackets under cfg.
func NewAnalyzer(brackets data.BracketProvider, cfg scoring.Config) *Analyzer {
	return &Analyzer{
		Config: cfg,
		NewScorer: func(c scoring.Config) PolicyScorer {
			return scoring.NewScorer(brackets, c)
		},
		Workers: 4,
	}
}

// Run scores the policy at its current value of param and at each of
// values. Macro parameters force dynamic scoring.
func (a *Analyzer) Run(ctx context.Context, p domain.Policy, baseline domain.Baseline, param Parameter, values []decimal.Decimal) (*Sweep, error) {
	info, ok := parameters[param]
	if !ok {
		return nil, domain.NewPolicyError(p.Name, "parameter", fmt.Sprintf("unknown sensitivity parameter %q", param))
	}
	if len(values) == 0 {
		return nil, domain.NewPolicyError(p.Name, "values", "at least one parameter value is required")
	}
	base, err := BaseValue(p, a.Config, param)
	if err != nil {
		return nil, err
	}

	opts := a.Options
	if info.Macro {
		opts.Dynamic = true
	}

	all := append([]decimal.Decimal{base}, values...)
	results := make([]*domain.ScoringResult, len(all))

	g, gctx := errgroup.WithContext(ctx)
	if a.Workers > 0 {
		g.SetLimit(a.Workers)
	}
	for i, value := range all {
		g.Go(func() error {
			variant, cfg, err := apply(p, a.Config, param, value)
			if err != nil {
				return fmt.Errorf("%s=%s: %w", param, value, err)
			}
			res, err := a.NewScorer(cfg).Score(gctx, variant, baseline, opts)
			if err != nil {
				return fmt.Errorf("failed to score %s=%s: %w", param, value, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sweep := &Sweep{
		PolicyName: p.Name,
		Parameter:  info,
		BaseValue:  base,
		BaseTotal:  results[0].TotalFinal(),
		Dynamic:    opts.Dynamic,
	}
	seenBase := false
	for i, value := range values {
		res := results[i+1]
		pt := Point{
			Value:           value,
			IsBase:          value.Equal(base),
			TotalFinal:      res.TotalFinal(),
			TotalBehavioral: res.TotalBehavioral(),
			Result:          res,
		}
		if res.IsDynamic() {
			pt.TotalFeedback = res.TotalRevenueFeedback()
		}
		pt.ChangeFromBase = pt.TotalFinal.Sub(sweep.BaseTotal)
		if !sweep.BaseTotal.IsZero() {
			pt.ChangePct = pt.ChangeFromBase.Div(sweep.BaseTotal.Abs()).Mul(hundred)
		}
		seenBase = seenBase || pt.IsBase
		sweep.Points = append(sweep.Points, pt)
	}
	if !seenBase {
		res := results[0]
		pt := Point{
			Value:           base,
			IsBase:          true,
			TotalFinal:      res.TotalFinal(),
			TotalBehavioral: res.TotalBehavioral(),
			Result:          res,
		}
		if res.IsDynamic() {
			pt.TotalFeedback = res.TotalRevenueFeedback()
		}
		sweep.Points = append(sweep.Points, pt)
	}
	sort.SliceStable(sweep.Points, func(i, j int) bool { return sweep.Points[i].Value.LessThan(sweep.Points[j].Value) })

	sweep.Summary = summarize(sweep)
	return sweep, nil
}

// Range returns steps evenly spaced values from lo to hi inclusive.
func Range(lo, hi decimal.Decimal, steps int) []decimal.Decimal {
	if steps <= 1 {
		return []decimal.Decimal{lo}
	}
	step := hi.Sub(lo).Div(decimal.NewFromInt(int64(steps - 1)))
	out := make([]decimal.Decimal, steps)
	for i := range out {
		out[i] = lo.Add(step.Mul(decimal.NewFromInt(int64(i))))
	}
	out[steps-1] = hi
	return out
}
