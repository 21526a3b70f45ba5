// Package distribution allocates a scored revenue effect across income
// groups using incidence rules specific to each policy variant.
package distribution

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	half    = decimal.NewFromFloat(0.5)
	hundred = decimal.NewFromInt(100)

	// Corporate tax falls 75% on capital and 25% on labor.
	capitalIncidence = decimal.NewFromFloat(0.75)
	laborIncidence   = decimal.NewFromFloat(0.25)
)

// Options selects the analysis year and custom group bounds.
type Options struct {
	// Year defaults to the policy start year.
	Year   int
	Custom []data.GroupBound
}

// Engine allocates scored effects to income groups.
type Engine struct {
	groups data.GroupProvider
}

// NewEngine creates an engine reading group definitions from groups.
func NewEngine(groups data.GroupProvider) *Engine {
	return &Engine{groups: groups}
}

// incidence is the weight and affected share of one group.
type incidence struct {
	weight   decimal.Decimal
	affected decimal.Decimal
}

// Analyze allocates result across the scheme's groups and wraps the rows
// with their totals.
func (e *Engine) Analyze(p domain.Policy, result *domain.ScoringResult, scheme domain.GroupScheme, opts Options) (*domain.DistributionalAnalysis, error) {
	rows, err := e.Allocate(p, result, scheme, opts)
	if err != nil {
		return nil, err
	}
	year := opts.Year
	if year == 0 {
		year = p.StartYear
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TaxChangeTotal)
	}
	return &domain.DistributionalAnalysis{
		PolicyName:     p.Name,
		Year:           year,
		Scheme:         scheme,
		Results:        rows,
		TotalTaxChange: total,
	}, nil
}

// Allocate splits the analysis year's revenue effect (the negated final
// deficit effect) across groups in proportion to incidence weights.
func (e *Engine) Allocate(p domain.Policy, result *domain.ScoringResult, scheme domain.GroupScheme, opts Options) ([]domain.DistributionalResult, error) {
	if result == nil {
		return nil, fmt.Errorf("allocate %q: nil scoring result", p.Name)
	}
	year := opts.Year
	if year == 0 {
		year = p.StartYear
	}
	idx := result.YearIndex(year)
	if idx < 0 {
		return nil, domain.NewDataError("scoring_result", year, "year is outside the scored horizon")
	}
	revenue := result.Final[idx].Neg()

	groups, err := e.groups.Groups(scheme, opts.Custom)
	if err != nil {
		return nil, fmt.Errorf("income groups: %w", err)
	}

	inc, err := incidenceFor(p, groups)
	if err != nil {
		return nil, err
	}

	totalWeight := weightSum(inc)
	if !totalWeight.IsPositive() && !revenue.IsZero() {
		if inc, err = e.thresholdFallback(p, groups); err != nil {
			return nil, err
		}
		totalWeight = weightSum(inc)
	}
	if !totalWeight.IsPositive() && !revenue.IsZero() {
		return nil, domain.NewDataError("income_groups", year, fmt.Sprintf("no %s group bears the effect of %q", scheme, p.Name))
	}

	out := make([]domain.DistributionalResult, len(groups))
	for i, g := range groups {
		total := decimal.Zero
		if totalWeight.IsPositive() {
			total = revenue.Mul(inc[i].weight).Div(totalWeight)
		}
		out[i] = groupResult(g, total, inc[i].affected, revenue)
	}
	return out, nil
}

func groupResult(g domain.IncomeGroup, total, affected, revenue decimal.Decimal) domain.DistributionalResult {
	r := domain.DistributionalResult{
		Group:          g,
		TaxChangeTotal: total,
		BaselineETR:    g.EffectiveTaxRate(),
	}

	affectedReturns := g.Returns.Mul(affected)
	if affectedReturns.IsPositive() {
		r.TaxChangeAverage = total.Mul(domain.Billion).Div(affectedReturns)
	}
	if after := g.AfterTaxIncome(); after.IsPositive() {
		r.PercentOfAfterTaxIncome = total.Div(after).Mul(hundred)
	}
	if !revenue.IsZero() {
		r.ShareOfTotal = total.Div(revenue)
	}

	pct := affected.Mul(hundred)
	switch total.Sign() {
	case 1:
		r.PctWithIncrease = pct
	case -1:
		r.PctWithDecrease = pct
	}
	r.PctUnchanged = hundred.Sub(r.PctWithIncrease).Sub(r.PctWithDecrease)

	r.NewETR = r.BaselineETR
	if g.TotalAGI.IsPositive() {
		r.NewETR = g.BaselineTax.Add(total).Div(g.TotalAGI)
	}
	r.ETRChange = r.NewETR.Sub(r.BaselineETR)
	return r
}

// incidenceFor dispatches on the policy variant.
func incidenceFor(p domain.Policy, groups []domain.IncomeGroup) ([]incidence, error) {
	out := make([]incidence, len(groups))
	switch v := p.Variant.(type) {
	case domain.IncomeTax:
		for i, g := range groups {
			f := AffectedFraction(g, v.AffectedIncomeThreshold)
			out[i] = incidence{weight: g.TaxableIncome.Mul(f), affected: f}
		}
	case domain.CapitalGains:
		for i, g := range groups {
			f := AffectedFraction(g, v.AffectedThreshold)
			out[i] = incidence{weight: g.CapitalIncome.Mul(f), affected: f}
		}
	case domain.Corporate:
		capTotal, wageTotal := decimal.Zero, decimal.Zero
		for _, g := range groups {
			capTotal = capTotal.Add(g.CapitalIncome)
			wageTotal = wageTotal.Add(g.Wages)
		}
		for i, g := range groups {
			w := decimal.Zero
			if capTotal.IsPositive() {
				w = w.Add(capitalIncidence.Mul(g.CapitalIncome).Div(capTotal))
			}
			if wageTotal.IsPositive() {
				w = w.Add(laborIncidence.Mul(g.Wages).Div(wageTotal))
			}
			out[i] = incidence{weight: w, affected: one}
		}
	case domain.Payroll:
		lower, upper := payrollBand(v)
		for i, g := range groups {
			taxed := decimal.Max(decimal.Zero, g.AvgWage().Sub(lower))
			if upper != nil {
				taxed = decimal.Min(taxed, upper.Sub(lower))
			}
			affected := decimal.Zero
			if taxed.IsPositive() {
				affected = one
			}
			out[i] = incidence{weight: g.Returns.Mul(taxed), affected: affected}
		}
	case domain.Credit:
		for i, g := range groups {
			f := one
			if v.IncomeLimit != nil {
				f = one.Sub(AffectedFraction(g, *v.IncomeLimit))
			}
			out[i] = incidence{weight: g.Returns.Mul(f), affected: f}
		}
	case domain.TCJAExtension:
		for i, g := range groups {
			out[i] = incidence{weight: g.TaxableIncome, affected: one}
		}
	default:
		return nil, domain.NewPolicyError(p.Name, "type", fmt.Sprintf("no incidence rule for %s policies", p.Kind()))
	}
	return out, nil
}

func weightSum(inc []incidence) decimal.Decimal {
	total := decimal.Zero
	for _, in := range inc {
		total = total.Add(in.weight)
	}
	return total
}

// ReturnsCounter counts the returns in an income range above a threshold
// at bracket resolution. data.SOIGroups implements it.
type ReturnsCounter interface {
	ReturnsAbove(bound data.GroupBound, threshold decimal.Decimal) (decimal.Decimal, error)
}

// thresholdFallback re-weights threshold policies whose threshold lies above
// every group's average-based estimate, as with a $1M threshold against the
// top quintile. Affected fractions come from bracket-level return counts
// when the group provider can supply them. Failing that, the whole effect
// goes to the top group.
func (e *Engine) thresholdFallback(p domain.Policy, groups []domain.IncomeGroup) ([]incidence, error) {
	var (
		threshold decimal.Decimal
		base      func(domain.IncomeGroup) decimal.Decimal
	)
	switch v := p.Variant.(type) {
	case domain.IncomeTax:
		threshold = v.AffectedIncomeThreshold
		base = func(g domain.IncomeGroup) decimal.Decimal { return g.TaxableIncome }
	case domain.CapitalGains:
		threshold = v.AffectedThreshold
		base = func(g domain.IncomeGroup) decimal.Decimal { return g.CapitalIncome }
	default:
		return make([]incidence, len(groups)), nil
	}

	out := make([]incidence, len(groups))
	if counter, ok := e.groups.(ReturnsCounter); ok {
		for i, g := range groups {
			if !g.Returns.IsPositive() {
				continue
			}
			n, err := counter.ReturnsAbove(data.GroupBound{Name: g.Name, Floor: g.Floor, Ceiling: g.Ceiling}, threshold)
			if err != nil {
				return nil, fmt.Errorf("income groups: %w", err)
			}
			f := clamp01(n.Div(g.Returns))
			out[i] = incidence{weight: base(g).Mul(f), affected: f}
		}
		if weightSum(out).IsPositive() {
			return out, nil
		}
	}

	top := topGroup(groups)
	if top >= 0 {
		out[top] = incidence{weight: one, affected: out[top].affected}
	}
	return out, nil
}

// topGroup returns the index of the open-ended group, or of the group with
// the highest floor when every group is bounded.
func topGroup(groups []domain.IncomeGroup) int {
	top := -1
	for i, g := range groups {
		if g.Ceiling == nil {
			return i
		}
		if top < 0 || g.Floor.GreaterThan(groups[top].Floor) {
			top = i
		}
	}
	return top
}

// payrollBand returns the wage range whose tax changes. Rate changes apply
// up to the cap; cap changes apply above the cap or the donut-hole start.
func payrollBand(v domain.Payroll) (decimal.Decimal, *decimal.Decimal) {
	if !v.ChangesCap() {
		limit := v.WageCap
		return decimal.Zero, &limit
	}
	if v.DonutHoleStart != nil && !v.EliminateCap && !v.Cover90Percent {
		return *v.DonutHoleStart, nil
	}
	return v.WageCap, nil
}

// AffectedFraction estimates the share of a group with income above
// threshold. Bounded groups assume income is spread evenly across the
// bracket. The open-ended top group has no ceiling, so the estimate is
// centered on the group's average income instead.
func AffectedFraction(g domain.IncomeGroup, threshold decimal.Decimal) decimal.Decimal {
	if threshold.LessThanOrEqual(g.Floor) {
		return one
	}
	if g.Ceiling == nil {
		avg := g.AvgAGI()
		if !avg.IsPositive() {
			return decimal.Zero
		}
		var f decimal.Decimal
		if avg.GreaterThan(threshold) {
			f = decimal.Min(one, avg.Sub(threshold).Div(avg).Add(half))
		} else {
			f = decimal.Max(decimal.Zero, half.Sub(threshold.Sub(avg).Div(avg)))
		}
		return clamp01(f)
	}
	if threshold.GreaterThanOrEqual(*g.Ceiling) {
		return decimal.Zero
	}
	return clamp01(g.Ceiling.Sub(threshold).Div(g.Ceiling.Sub(g.Floor)))
}

func clamp01(v decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(v, decimal.Zero), one)
}
