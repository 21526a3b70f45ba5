package domain

import (
	"github.com/shopspring/decimal"
)

// DynamicEffects is the macro feedback produced for one scored policy.
// All level paths are in billions; percentages are in percent.
type DynamicEffects struct {
	GDPLevel            []decimal.Decimal `json:"gdpLevel"`
	GDPPercent          []decimal.Decimal `json:"gdpPercent"`
	EmploymentPercent   []decimal.Decimal `json:"employmentPercent"`
	EmploymentThousands []decimal.Decimal `json:"employmentThousands"`
	RevenueFeedback     []decimal.Decimal `json:"revenueFeedback"`
	InterestCost        []decimal.Decimal `json:"interestCost"`
	CumulativeDeficit   []decimal.Decimal `json:"cumulativeDeficit"`
	NetBudgetEffect     decimal.Decimal   `json:"netBudgetEffect"`
}

// TotalRevenueFeedback sums revenue feedback over the horizon.
func (d *DynamicEffects) TotalRevenueFeedback() decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return Sum(d.RevenueFeedback)
}

// ScoringResult is the immutable output of scoring one policy.
//
// Sign conventions: StaticRevenue is positive for a revenue gain and
// StaticSpending positive for an outlay increase. StaticDeficit, Behavioral
// and Final are deficit effects: positive values increase the deficit.
type ScoringResult struct {
	PolicyName string `json:"policyName"`
	Kind       Kind   `json:"kind"`
	Years      []int  `json:"years"`

	StaticRevenue  []decimal.Decimal `json:"staticRevenue"`
	StaticSpending []decimal.Decimal `json:"staticSpending"`
	StaticDeficit  []decimal.Decimal `json:"staticDeficit"`
	Behavioral     []decimal.Decimal `json:"behavioral"`

	Dynamic *DynamicEffects `json:"dynamic,omitempty"`

	Final []decimal.Decimal `json:"final"`
	Low   []decimal.Decimal `json:"low"`
	High  []decimal.Decimal `json:"high"`
}

// IsDynamic reports whether macro feedback was included.
func (r *ScoringResult) IsDynamic() bool {
	return r.Dynamic != nil
}

// TotalFinal is the sum of the final deficit effect over the horizon.
func (r *ScoringResult) TotalFinal() decimal.Decimal {
	return Sum(r.Final)
}

// TotalStatic is the sum of the static deficit effect over the horizon.
func (r *ScoringResult) TotalStatic() decimal.Decimal {
	return Sum(r.StaticDeficit)
}

// TotalBehavioral is the sum of the behavioral offset over the horizon.
func (r *ScoringResult) TotalBehavioral() decimal.Decimal {
	return Sum(r.Behavioral)
}

// TotalRevenueFeedback is zero for static scores.
func (r *ScoringResult) TotalRevenueFeedback() decimal.Decimal {
	return r.Dynamic.TotalRevenueFeedback()
}

// AverageAnnual is the mean final deficit effect.
func (r *ScoringResult) AverageAnnual() decimal.Decimal {
	if len(r.Final) == 0 {
		return decimal.Zero
	}
	return r.TotalFinal().Div(decimal.NewFromInt(int64(len(r.Final))))
}

// YearIndex returns the position of year in the result, or -1.
func (r *ScoringResult) YearIndex(year int) int {
	for i, y := range r.Years {
		if y == year {
			return i
		}
	}
	return -1
}

// YearEffect is a single year of a ScoringResult.
type YearEffect struct {
	Year            int             `json:"year"`
	StaticRevenue   decimal.Decimal `json:"staticRevenue"`
	StaticSpending  decimal.Decimal `json:"staticSpending"`
	StaticDeficit   decimal.Decimal `json:"staticDeficit"`
	Behavioral      decimal.Decimal `json:"behavioral"`
	RevenueFeedback decimal.Decimal `json:"revenueFeedback"`
	Final           decimal.Decimal `json:"final"`
	Low             decimal.Decimal `json:"low"`
	High            decimal.Decimal `json:"high"`
}

// YearEffect returns the effects for year. ok is false when the year is outside the horizon.
func (r *ScoringResult) YearEffect(year int) (YearEffect, bool) {
	i := r.YearIndex(year)
	if i < 0 {
		return YearEffect{}, false
	}
	ye := YearEffect{
		Year:           year,
		StaticRevenue:  r.StaticRevenue[i],
		StaticSpending: r.StaticSpending[i],
		StaticDeficit:  r.StaticDeficit[i],
		Behavioral:     r.Behavioral[i],
		Final:          r.Final[i],
		Low:            r.Low[i],
		High:           r.High[i],
	}
	if r.Dynamic != nil {
		ye.RevenueFeedback = r.Dynamic.RevenueFeedback[i]
	}
	return ye, true
}

// GroupScheme selects an income grouping.
type GroupScheme string

const (
	SchemeQuintile  GroupScheme = "quintile"
	SchemeDecile    GroupScheme = "decile"
	SchemeJCTDollar GroupScheme = "jct_dollar"
	// SchemeTopIncome splits the top quintile into percentile bands up to
	// the top 0.1%.
	SchemeTopIncome GroupScheme = "top_income"
	SchemeCustom    GroupScheme = "custom"
)

// IncomeGroup is static reference data for one income bracket. Aggregates are
// in billions; Floor and Ceiling in dollars. A nil Ceiling is open-ended.
type IncomeGroup struct {
	Name            string           `json:"name"`
	Floor           decimal.Decimal  `json:"floor"`
	Ceiling         *decimal.Decimal `json:"ceiling,omitempty"`
	Returns         decimal.Decimal  `json:"returns"`
	TotalAGI        decimal.Decimal  `json:"totalAgi"`
	TaxableIncome   decimal.Decimal  `json:"taxableIncome"`
	BaselineTax     decimal.Decimal  `json:"baselineTax"`
	Wages           decimal.Decimal  `json:"wages"`
	CapitalIncome   decimal.Decimal  `json:"capitalIncome"`
	PopulationShare decimal.Decimal  `json:"populationShare"`
}

// AvgAGI is the average AGI per return in dollars.
func (g IncomeGroup) AvgAGI() decimal.Decimal {
	if g.Returns.IsZero() {
		return decimal.Zero
	}
	return g.TotalAGI.Mul(Billion).Div(g.Returns)
}

// AvgWage is the average wage per return in dollars.
func (g IncomeGroup) AvgWage() decimal.Decimal {
	if g.Returns.IsZero() {
		return decimal.Zero
	}
	return g.Wages.Mul(Billion).Div(g.Returns)
}

// EffectiveTaxRate is baseline tax over AGI.
func (g IncomeGroup) EffectiveTaxRate() decimal.Decimal {
	if g.TotalAGI.IsZero() {
		return decimal.Zero
	}
	return g.BaselineTax.Div(g.TotalAGI)
}

// AfterTaxIncome is AGI less baseline tax, in billions.
func (g IncomeGroup) AfterTaxIncome() decimal.Decimal {
	return g.TotalAGI.Sub(g.BaselineTax)
}

// DistributionalResult is the effect of one policy on one income group.
// TaxChangeTotal is in billions, TaxChangeAverage in dollars per affected return.
type DistributionalResult struct {
	Group                   IncomeGroup     `json:"group"`
	TaxChangeTotal          decimal.Decimal `json:"taxChangeTotal"`
	TaxChangeAverage        decimal.Decimal `json:"taxChangeAverage"`
	PercentOfAfterTaxIncome decimal.Decimal `json:"percentOfAfterTaxIncome"`
	ShareOfTotal            decimal.Decimal `json:"shareOfTotal"`
	PctWithIncrease         decimal.Decimal `json:"pctWithIncrease"`
	PctWithDecrease         decimal.Decimal `json:"pctWithDecrease"`
	PctUnchanged            decimal.Decimal `json:"pctUnchanged"`
	BaselineETR             decimal.Decimal `json:"baselineEtr"`
	NewETR                  decimal.Decimal `json:"newEtr"`
	ETRChange               decimal.Decimal `json:"etrChange"`
}

// DistributionalAnalysis bundles the per-group results for one policy.
type DistributionalAnalysis struct {
	PolicyName     string                 `json:"policyName"`
	Year           int                    `json:"year"`
	Scheme         GroupScheme            `json:"scheme"`
	Results        []DistributionalResult `json:"results"`
	TotalTaxChange decimal.Decimal        `json:"totalTaxChange"`
}

// Billion converts between billions and dollars.
var Billion = decimal.NewFromInt(1_000_000_000)

// Million converts between millions and units.
var Million = decimal.NewFromInt(1_000_000)

// Sum adds a path of values.
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Zeros returns a path of n zero values.
func Zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}
