// Package scoring turns a policy and a baseline into year-by-year budget
// effects: a static estimate, a behavioral offset, optional macro feedback
// and an uncertainty range.
package scoring

import (
	"context"
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/elasticity"
	"github.com/laurencehw/fiscal-policy-calculator/internal/macro"
	"github.com/laurencehw/fiscal-policy-calculator/internal/uncertainty"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Config holds scorer defaults.
type Config struct {
	// DataYear is the SOI year used when a policy does not set one.
	DataYear    int
	DefaultETI  decimal.Decimal
	Macro       macro.Config
	Uncertainty uncertainty.Config
	// PackageWorkers bounds concurrent member scoring; zero means unbounded.
	PackageWorkers int
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		DataYear:       data.DefaultSOIYear,
		DefaultETI:     elasticity.DefaultETI,
		Macro:          macro.DefaultConfig(),
		Uncertainty:    uncertainty.DefaultConfig(),
		PackageWorkers: 4,
	}
}

// Options selects the optional pipeline stages.
type Options struct {
	Dynamic     bool
	Uncertainty bool
}

// Scorer scores policies. It holds no per-policy state and is safe for
// concurrent use.
type Scorer struct {
	brackets data.BracketProvider
	gains    data.GainsProvider
	cfg      Config
	macro    *macro.Adapter
	logger   Logger
}

// NewScorer creates a scorer that reads filer counts from brackets.
func NewScorer(brackets data.BracketProvider, cfg Config) *Scorer {
	return &Scorer{
		brackets: brackets,
		gains:    data.DefaultGainsTable(),
		cfg:      cfg,
		macro:    macro.NewAdapter(cfg.Macro),
		logger:   NopLogger{},
	}
}

// SetLogger sets the logger; nil restores the no-op logger.
func (s *Scorer) SetLogger(l Logger) {
	if l == nil {
		s.logger = NopLogger{}
		return
	}
	s.logger = l
}

// SetGainsProvider sets the capital gains baseline used when a policy leaves
// realizations unset; nil disables auto-population.
func (s *Scorer) SetGainsProvider(g data.GainsProvider) {
	s.gains = g
}

// Config returns the scorer configuration.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score runs the pipeline over every year of baseline.
func (s *Scorer) Score(ctx context.Context, p domain.Policy, baseline domain.Baseline, opts Options) (*domain.ScoringResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := baseline.Validate(); err != nil {
		return nil, &ScoringError{Operation: "score", Policy: p.Name, Message: "invalid baseline", Cause: err}
	}

	m, err := s.buildModel(p, baseline)
	if err != nil {
		return nil, &ScoringError{Operation: "static", Policy: p.Name, Message: "cannot estimate static effect", Cause: err}
	}

	growth := m.growth
	if p.GrowthRate != nil {
		growth = *p.GrowthRate
	}

	n := baseline.Len()
	r := &domain.ScoringResult{
		PolicyName:     p.Name,
		Kind:           p.Kind(),
		Years:          baseline.YearList(),
		StaticRevenue:  domain.Zeros(n),
		StaticSpending: domain.Zeros(n),
		StaticDeficit:  domain.Zeros(n),
		Behavioral:     domain.Zeros(n),
	}

	for i, by := range baseline.Years {
		if !p.IsActive(by.Year) {
			continue
		}
		elapsed := p.YearsSinceStart(by.Year)
		if m.oneTime && elapsed > 0 {
			continue
		}

		rev, spend := m.revenue, m.spending
		if m.perYear != nil {
			rev, spend = m.perYear(by)
		}
		scale := p.PhaseInFactor(by.Year).Mul(growthFactor(growth, elapsed))
		rev, spend = rev.Mul(scale), spend.Mul(scale)

		staticDeficit := spend.Sub(rev)
		r.StaticRevenue[i] = rev
		r.StaticSpending[i] = spend
		r.StaticDeficit[i] = staticDeficit
		if m.offset != nil {
			r.Behavioral[i] = m.offset(elapsed+1, staticDeficit).Mul(scale)
		} else {
			r.Behavioral[i] = elasticity.OpposingOffset(staticDeficit, m.k)
		}
	}

	r.Final = make([]decimal.Decimal, n)
	shock := make([]decimal.Decimal, n)
	for i := range shock {
		shock[i] = r.StaticDeficit[i].Add(r.Behavioral[i])
		r.Final[i] = shock[i]
	}

	if opts.Dynamic {
		adapter := s.macro
		if m.spendingMultiplier != nil {
			adapter = adapter.WithSpendingMultiplier(*m.spendingMultiplier)
		}
		fx, err := adapter.Run(shock, baseline, p.Kind())
		if err != nil {
			return nil, &ScoringError{Operation: "dynamic", Policy: p.Name, Message: "macro feedback failed", Cause: err}
		}
		r.Dynamic = fx
		for i := range r.Final {
			r.Final[i] = r.Final[i].Sub(fx.RevenueFeedback[i])
		}
	}

	s.band(r, opts)
	s.logger.Debugf("scored %q (%s): 10-year deficit effect %s", p.Name, p.Kind(), r.TotalFinal().StringFixed(1))
	return r, nil
}

func (s *Scorer) band(r *domain.ScoringResult, opts Options) {
	if !opts.Uncertainty {
		r.Low = append([]decimal.Decimal(nil), r.Final...)
		r.High = append([]decimal.Decimal(nil), r.Final...)
		return
	}
	r.Low, r.High = s.cfg.Uncertainty.Band(r.Final, r.Kind, opts.Dynamic)
}

// growthFactor returns (1+g)^years.
func growthFactor(g decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 || g.IsZero() {
		return one
	}
	return one.Add(g).Pow(decimal.NewFromInt(int64(years)))
}

// ScorePackage scores each member independently and in parallel, then sums
// the paths. Static revenue and spending are scaled by the package
// interaction factor, which adjusts for overlapping provisions.
func (s *Scorer) ScorePackage(ctx context.Context, pkg domain.PolicyPackage, baseline domain.Baseline, opts Options) (*domain.ScoringResult, []*domain.ScoringResult, error) {
	if len(pkg.Policies) == 0 {
		return nil, nil, domain.NewPolicyError(pkg.Name, "policies", "package has no policies")
	}
	factor := pkg.InteractionFactor
	if factor.IsZero() {
		factor = one
	}
	if factor.IsNegative() {
		return nil, nil, domain.NewPolicyError(pkg.Name, "interaction_factor", fmt.Sprintf("must be positive, got %s", factor))
	}

	members := make([]*domain.ScoringResult, len(pkg.Policies))
	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.PackageWorkers > 0 {
		g.SetLimit(s.cfg.PackageWorkers)
	}
	for i, p := range pkg.Policies {
		g.Go(func() error {
			r, err := s.Score(gctx, p, baseline, opts)
			if err != nil {
				return fmt.Errorf("package %q member %d: %w", pkg.Name, i, err)
			}
			members[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	n := baseline.Len()
	total := &domain.ScoringResult{
		PolicyName:     pkg.Name,
		Kind:           members[0].Kind,
		Years:          baseline.YearList(),
		StaticRevenue:  domain.Zeros(n),
		StaticSpending: domain.Zeros(n),
		StaticDeficit:  domain.Zeros(n),
		Behavioral:     domain.Zeros(n),
		Final:          domain.Zeros(n),
	}
	var dynamic *domain.DynamicEffects
	if opts.Dynamic {
		dynamic = &domain.DynamicEffects{
			GDPLevel:            domain.Zeros(n),
			GDPPercent:          domain.Zeros(n),
			EmploymentPercent:   domain.Zeros(n),
			EmploymentThousands: domain.Zeros(n),
			RevenueFeedback:     domain.Zeros(n),
			InterestCost:        domain.Zeros(n),
			CumulativeDeficit:   domain.Zeros(n),
		}
	}

	for _, m := range members {
		for i := 0; i < n; i++ {
			total.StaticRevenue[i] = total.StaticRevenue[i].Add(m.StaticRevenue[i])
			total.StaticSpending[i] = total.StaticSpending[i].Add(m.StaticSpending[i])
			total.Behavioral[i] = total.Behavioral[i].Add(m.Behavioral[i])
			if dynamic != nil {
				addDynamic(dynamic, m.Dynamic, i)
			}
		}
		if dynamic != nil {
			dynamic.NetBudgetEffect = dynamic.NetBudgetEffect.Add(m.Dynamic.NetBudgetEffect)
		}
	}

	for i := 0; i < n; i++ {
		total.StaticRevenue[i] = total.StaticRevenue[i].Mul(factor)
		total.StaticSpending[i] = total.StaticSpending[i].Mul(factor)
		total.StaticDeficit[i] = total.StaticSpending[i].Sub(total.StaticRevenue[i])
		total.Final[i] = total.StaticDeficit[i].Add(total.Behavioral[i])
		if dynamic != nil {
			total.Final[i] = total.Final[i].Sub(dynamic.RevenueFeedback[i])
		}
	}
	total.Dynamic = dynamic
	s.band(total, opts)

	s.logger.Infof("scored package %q with %d policies: 10-year deficit effect %s",
		pkg.Name, len(members), total.TotalFinal().StringFixed(1))
	return total, members, nil
}

func addDynamic(dst, src *domain.DynamicEffects, i int) {
	dst.GDPLevel[i] = dst.GDPLevel[i].Add(src.GDPLevel[i])
	dst.GDPPercent[i] = dst.GDPPercent[i].Add(src.GDPPercent[i])
	dst.EmploymentPercent[i] = dst.EmploymentPercent[i].Add(src.EmploymentPercent[i])
	dst.EmploymentThousands[i] = dst.EmploymentThousands[i].Add(src.EmploymentThousands[i])
	dst.RevenueFeedback[i] = dst.RevenueFeedback[i].Add(src.RevenueFeedback[i])
	dst.InterestCost[i] = dst.InterestCost[i].Add(src.InterestCost[i])
	dst.CumulativeDeficit[i] = dst.CumulativeDeficit[i].Add(src.CumulativeDeficit[i])
}
