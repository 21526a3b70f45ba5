package validation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Rating grades a model estimate by its percent difference from the
// published one.
type Rating string

const (
	RatingExcellent  Rating = "Excellent"
	RatingGood       Rating = "Good"
	RatingAcceptable Rating = "Acceptable"
	RatingPoor       Rating = "Poor"
	RatingError      Rating = "Error"
)

var (
	hundred = decimal.NewFromInt(100)
	// AccurateWithin is the percent difference still counted as accurate.
	AccurateWithin = decimal.NewFromInt(20)
)

// RatePercentDifference grades pct: within 5% is excellent, 10% good and
// 20% acceptable.
func RatePercentDifference(pct decimal.Decimal) Rating {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return RatingExcellent
	case abs.LessThanOrEqual(decimal.NewFromInt(10)):
		return RatingGood
	case abs.LessThanOrEqual(AccurateWithin):
		return RatingAcceptable
	default:
		return RatingPoor
	}
}

// Result compares one model score with its benchmark.
type Result struct {
	Benchmark      Benchmark       `json:"benchmark"`
	ModelTenYear   decimal.Decimal `json:"modelTenYear"`
	ModelFirstYear decimal.Decimal `json:"modelFirstYear"`
	// Difference is model minus official.
	Difference        decimal.Decimal `json:"difference"`
	PercentDifference decimal.Decimal `json:"percentDifference"`
	DirectionMatch    bool            `json:"directionMatch"`
	Rating            Rating          `json:"rating"`
	Error             string          `json:"error,omitempty"`
}

// Accurate reports a scored result within AccurateWithin percent.
func (r Result) Accurate() bool {
	return r.Rating != RatingError && r.PercentDifference.Abs().LessThanOrEqual(AccurateWithin)
}

// Summary aggregates a report.
type Summary struct {
	Scored           int             `json:"scored"`
	Accurate         int             `json:"accurate"`
	DirectionMatches int             `json:"directionMatches"`
	Errors           int             `json:"errors"`
	MeanAbsPercent   decimal.Decimal `json:"meanAbsPercentDifference"`
}

// Report is the outcome of validating a set of benchmarks.
type Report struct {
	Dynamic bool     `json:"dynamic"`
	Results []Result `json:"results"`
	// Skipped lists benchmarks with no replicating policy.
	Skipped []string `json:"skipped,omitempty"`
	Summary Summary  `json:"summary"`
}

// PolicyScorer scores one policy.
type PolicyScorer interface {
	Score(ctx context.Context, p domain.Policy, baseline domain.Baseline, opts scoring.Options) (*domain.ScoringResult, error)
}

// Validator scores benchmark policies and compares them with the published
// estimates.
type Validator struct {
	Scorer    PolicyScorer
	Baselines data.BaselineProvider
	// Horizon is the number of projection years; published scores use ten.
	Horizon int
	// Workers bounds concurrent scoring; zero means unbounded.
	Workers int
}

// NewValidator returns a validator over the built-in CBO projection.
func NewValidator(scorer PolicyScorer) *Validator {
	return &Validator{Scorer: scorer, Baselines: data.NewCBOBaseline(), Horizon: 10, Workers: 4}
}

// Validate scores one benchmark. A policy that fails to score gives a
// result rated RatingError rather than an error, so one bad benchmark does
// not hide the rest; only context cancellation is returned.
func (v *Validator) Validate(ctx context.Context, b Benchmark, opts scoring.Options) (Result, error) {
	if !b.Replicable() {
		return Result{}, domain.NewPolicyError(b.ID, "policy", "benchmark has no replicating policy")
	}
	res := Result{Benchmark: b}

	baseline, err := v.Baselines.Baseline(b.Policy.StartYear, v.Horizon)
	if err == nil {
		var r *domain.ScoringResult
		if r, err = v.Scorer.Score(ctx, *b.Policy, baseline, opts); err == nil {
			res.ModelTenYear = r.TotalFinal()
			if len(r.Final) > 0 {
				res.ModelFirstYear = r.Final[0]
			}
		}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, err
		}
		res.Rating = RatingError
		res.Error = err.Error()
		res.Difference = b.TenYearCost.Neg()
		res.PercentDifference = hundred
		return res, nil
	}

	official := b.TenYearCost
	res.Difference = res.ModelTenYear.Sub(official)
	switch {
	case !official.IsZero():
		res.PercentDifference = res.Difference.Div(official.Abs()).Mul(hundred)
	case !res.ModelTenYear.IsZero():
		res.PercentDifference = hundred
	}
	res.DirectionMatch = res.ModelTenYear.Sign() == official.Sign()
	res.Rating = RatePercentDifference(res.PercentDifference)
	return res, nil
}

// ValidateAll scores every replicable benchmark concurrently. Results keep
// the order of benchmarks.
func (v *Validator) ValidateAll(ctx context.Context, benchmarks []Benchmark, opts scoring.Options) (*Report, error) {
	report := &Report{Dynamic: opts.Dynamic}
	var todo []Benchmark
	for _, b := range benchmarks {
		if b.Replicable() {
			todo = append(todo, b)
		} else {
			report.Skipped = append(report.Skipped, b.ID)
		}
	}

	results := make([]Result, len(todo))
	g, gctx := errgroup.WithContext(ctx)
	if v.Workers > 0 {
		g.SetLimit(v.Workers)
	}
	for i, b := range todo {
		g.Go(func() error {
			r, err := v.Validate(gctx, b, opts)
			if err != nil {
				return fmt.Errorf("benchmark %s: %w", b.ID, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Results = results
	report.Summary = summarize(results)
	return report, nil
}

func summarize(results []Result) Summary {
	var s Summary
	total := decimal.Zero
	for _, r := range results {
		if r.Rating == RatingError {
			s.Errors++
			continue
		}
		s.Scored++
		total = total.Add(r.PercentDifference.Abs())
		if r.Accurate() {
			s.Accurate++
		}
		if r.DirectionMatch {
			s.DirectionMatches++
		}
	}
	if s.Scored > 0 {
		s.MeanAbsPercent = total.Div(decimal.NewFromInt(int64(s.Scored)))
	}
	return s
}

// Filter returns the benchmarks named by ids in catalog order. An unknown
// id is an error.
func Filter(benchmarks []Benchmark, ids []string) ([]Benchmark, error) {
	if len(ids) == 0 {
		return benchmarks, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Benchmark
	for _, b := range benchmarks {
		if want[b.ID] {
			out = append(out, b)
			delete(want, b.ID)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for id := range want {
			unknown = append(unknown, id)
		}
		sort.Strings(unknown)
		return nil, domain.NewPolicyError("", "benchmark", fmt.Sprintf("unknown benchmark ids %v", unknown))
	}
	return out, nil
}
