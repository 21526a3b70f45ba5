// Package compare scores several policies against one baseline and reports
// their headline budget metrics side by side.
package compare

import (
	"context"
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/laurencehw/fiscal-policy-calculator/internal/transform"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PolicyScorer scores one policy.
type PolicyScorer interface {
	Score(ctx context.Context, p domain.Policy, baseline domain.Baseline, opts scoring.Options) (*domain.ScoringResult, error)
}

// CompareEngine orchestrates policy comparison
type CompareEngine struct {
	Scorer            PolicyScorer
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	// Workers bounds concurrent scoring; zero means unbounded.
	Workers int
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(scorer PolicyScorer) *CompareEngine {
	return &CompareEngine{
		Scorer:            scorer,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		Workers:           4,
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Scoring scoring.Options
	// Templates adds one alternative per named template, applied to the base.
	Templates []string
}

type candidate struct {
	policy      domain.Policy
	name        string
	description string
}

// Compare scores the first policy as the base and every other policy, plus
// any template variants of the base, as alternatives.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	policies []domain.Policy,
	baseline domain.Baseline,
	options CompareOptions,
) (*ComparisonSet, error) {
	if len(policies) == 0 {
		return nil, domain.NewPolicyError("", "policies", "at least one policy is required to compare")
	}

	base := policies[0]
	candidates := []candidate{{policy: base, name: base.Name, description: base.Description}}
	for _, p := range policies[1:] {
		candidates = append(candidates, candidate{policy: p, name: p.Name, description: p.Description})
	}

	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, domain.NewPolicyError(base.Name, "templates", fmt.Sprintf("template %s not found", templateName))
		}
		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		modified.Name = base.Name + "_" + template.Name
		candidates = append(candidates, candidate{policy: modified, name: modified.Name, description: template.Description})
	}

	results := make([]*domain.ScoringResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	if ce.Workers > 0 {
		g.SetLimit(ce.Workers)
	}
	for i, c := range candidates {
		g.Go(func() error {
			r, err := ce.Scorer.Score(gctx, c.policy, baseline, options.Scoring)
			if err != nil {
				if i == 0 {
					return fmt.Errorf("failed to score base policy: %w", err)
				}
				return fmt.Errorf("failed to score policy %s: %w", c.name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	baseResult := ce.MetricsCalculator.CalculateMetrics(results[0])
	baseResult.Description = candidates[0].description

	alternatives := make([]ComparisonResult, 0, len(candidates)-1)
	for i := 1; i < len(candidates); i++ {
		alt := ce.MetricsCalculator.CalculateMetrics(results[i])
		alt.PolicyName = candidates[i].name
		alt.Description = candidates[i].description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		BasePolicyName:     base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		Years:              results[0].Years,
		Dynamic:            options.Scoring.Dynamic,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

// MetricsCalculator extracts key metrics from scoring results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a scoring result
func (mc *MetricsCalculator) CalculateMetrics(r *domain.ScoringResult) ComparisonResult {
	result := ComparisonResult{
		PolicyName:      r.PolicyName,
		Kind:            r.Kind,
		Result:          r,
		TotalStatic:     r.TotalStatic(),
		TotalBehavioral: r.TotalBehavioral(),
		TotalFeedback:   r.TotalRevenueFeedback(),
		TotalFinal:      r.TotalFinal(),
		AverageAnnual:   r.AverageAnnual(),
		TotalLow:        domain.Sum(r.Low),
		TotalHigh:       domain.Sum(r.High),
	}
	if len(r.Final) > 0 {
		result.FirstYearFinal = r.Final[0]
	}
	if !result.TotalStatic.IsZero() {
		result.OffsetPercent = result.TotalBehavioral.Div(result.TotalStatic).Mul(decimal.NewFromInt(100)).Abs()
	}
	return result
}

// CalculateComparison computes comparison metrics between a policy and a base
func (mc *MetricsCalculator) CalculateComparison(alt, base ComparisonResult) ComparisonResult {
	alt.DiffFromBase = alt.TotalFinal.Sub(base.TotalFinal)
	alt.StaticDiffFrom = alt.TotalStatic.Sub(base.TotalStatic)
	if !base.TotalFinal.IsZero() {
		alt.PctFromBase = alt.DiffFromBase.Div(base.TotalFinal.Abs()).Mul(decimal.NewFromInt(100))
	}
	return alt
}

// GenerateRecommendations summarizes which alternative stands out.
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	lowestDeficit := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalFinal.LessThan(lowestDeficit.TotalFinal) {
			lowestDeficit = alt
		}
	}
	if lowestDeficit != compSet.BaseResult {
		diff := compSet.BaseResult.TotalFinal.Sub(lowestDeficit.TotalFinal)
		recommendations = append(recommendations, fmt.Sprintf(
			"Largest deficit reduction: %s lowers the deficit by $%sB more than %s",
			lowestDeficit.PolicyName, diff.StringFixed(1), compSet.BasePolicyName))
	}

	smallestOffset := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if !alt.TotalStatic.IsZero() && alt.OffsetPercent.LessThan(smallestOffset.OffsetPercent) {
			smallestOffset = alt
		}
	}
	if smallestOffset != compSet.BaseResult {
		recommendations = append(recommendations, fmt.Sprintf(
			"Smallest behavioral offset: %s loses %s%% of its static effect to behavior",
			smallestOffset.PolicyName, smallestOffset.OffsetPercent.StringFixed(1)))
	}

	if compSet.Dynamic {
		strongest := compSet.BaseResult
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if alt.TotalFeedback.Abs().GreaterThan(strongest.TotalFeedback.Abs()) {
				strongest = alt
			}
		}
		recommendations = append(recommendations, fmt.Sprintf(
			"Largest macro feedback: %s with $%sB of revenue feedback",
			strongest.PolicyName, strongest.TotalFeedback.StringFixed(1)))
	}
	return recommendations
}
