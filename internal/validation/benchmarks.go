// Package validation checks model scores against published CBO, JCT and
// Treasury estimates. Each benchmark carries the policy that replicates it
// when one of the scoring variants can express the proposal.
package validation

import (
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Source is the organization that published an estimate.
type Source string

const (
	SourceCBO      Source = "Congressional Budget Office"
	SourceJCT      Source = "Joint Committee on Taxation"
	SourceTreasury Source = "U.S. Treasury"
	SourceTPC      Source = "Tax Policy Center"
	SourcePWBM     Source = "Penn Wharton Budget Model"
)

// Benchmark is a published ten-year estimate in billions; positive values
// increase the deficit.
type Benchmark struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	TenYearCost   decimal.Decimal  `json:"tenYearCost"`
	FirstYearCost *decimal.Decimal `json:"firstYearCost,omitempty"`
	Source        Source           `json:"source"`
	SourceDate    string           `json:"sourceDate"`
	URL           string           `json:"url,omitempty"`
	BudgetWindow  string           `json:"budgetWindow,omitempty"`
	Notes         string           `json:"notes,omitempty"`

	// Policy replicates the estimate. Nil when the estimate covers
	// provisions no policy variant models.
	Policy *domain.Policy `json:"-"`
}

// Replicable reports whether the benchmark can be scored.
func (b Benchmark) Replicable() bool { return b.Policy != nil }

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func decp(f float64) *decimal.Decimal {
	v := dec(f)
	return &v
}

func tenYear(name string, start int, v domain.Variant) *domain.Policy {
	return &domain.Policy{Name: name, StartYear: start, DurationYears: 10, Variant: v}
}

func incomeTax(name string, rate, threshold float64) *domain.Policy {
	return tenYear(name, 2025, domain.IncomeTax{RateChange: dec(rate), AffectedIncomeThreshold: dec(threshold)})
}

func capitalGains(name string, mutate func(*domain.CapitalGains)) *domain.Policy {
	cg := domain.DefaultCapitalGains()
	mutate(&cg)
	return tenYear(name, 2025, cg)
}

// Catalog returns every known benchmark in display order. Each call builds
// fresh policies, so callers may modify them.
func Catalog() []Benchmark {
	corp28 := domain.DefaultCorporate()
	corp28.NewRate = decp(0.28)

	return []Benchmark{
		{
			ID:           "tcja_extension_full",
			Name:         "TCJA Full Extension",
			Description:  "Extend all individual TCJA provisions beyond the 2025 sunset.",
			TenYearCost:  dec(4_600),
			Source:       SourceCBO,
			SourceDate:   "2024-05",
			URL:          "https://www.cbo.gov/publication/59710",
			BudgetWindow: "FY2025-2034",
			Notes:        "Cost varies with baseline assumptions.",
			Policy:       tenYear("TCJA Full Extension", 2026, domain.DefaultTCJAExtension()),
		},
		{
			ID:            "biden_high_income_tax",
			Name:          "Top Rate to 39.6% Above $400K",
			Description:   "Restore the pre-TCJA 39.6% top rate for income above $400K.",
			TenYearCost:   dec(-252),
			FirstYearCost: decp(-22),
			Source:        SourceTreasury,
			SourceDate:    "2024-03",
			URL:           "https://home.treasury.gov/system/files/131/General-Explanations-FY2025.pdf",
			BudgetWindow:  "FY2025-2034",
			Notes:         "Green Book FY2025, scored with other provisions.",
			Policy:        incomeTax("Top Rate to 39.6% Above $400K", 0.026, 400_000),
		},
		{
			ID:           "biden_corporate_28",
			Name:         "Corporate Rate to 28%",
			Description:  "Raise the corporate rate from 21% to 28%.",
			TenYearCost:  dec(-1_347),
			Source:       SourceTreasury,
			SourceDate:   "2024-03",
			BudgetWindow: "FY2025-2034",
			Policy:       tenYear("Corporate Rate to 28%", 2025, corp28),
		},
		{
			ID:           "cbo_capgains_2pp_all",
			Name:         "+2pp Capital Gains (All Brackets)",
			Description:  "Raise every long-term capital gains and qualified dividend rate by 2 points.",
			TenYearCost:  dec(-70),
			Source:       SourceJCT,
			SourceDate:   "2018-12",
			URL:          "https://www.cbo.gov/budget-options/54788",
			BudgetWindow: "FY2019-2028",
			Notes:        "Implied elasticity is well above the academic range.",
			Policy: capitalGains("+2pp Capital Gains (All Brackets)", func(cg *domain.CapitalGains) {
				cg.RateChange = dec(0.02)
				cg.BaselineRate = dec(0.15)
				cg.BaselineRealizations = dec(955)
				cg.ShortRunElasticity = dec(3.2)
				cg.LongRunElasticity = dec(2.8)
				cg.LockInMultiplier = dec(1)
			}),
		},
		{
			ID:           "pwbm_capgains_39_with_stepup",
			Name:         "39.6% Capital Gains Above $1M, Step-Up Kept",
			Description:  "Top capital gains rate to 39.6% above $1M with step-up basis at death unchanged.",
			TenYearCost:  dec(33),
			Source:       SourcePWBM,
			SourceDate:   "2021-04",
			URL:          "https://budgetmodel.wharton.upenn.edu/issues/2021/4/23/revenue-effects-of-president-bidens-capital-gains-tax-increase",
			BudgetWindow: "FY2022-2031",
			Notes:        "Lock-in makes the increase lose revenue while step-up remains.",
			Policy: capitalGains("39.6% Capital Gains Above $1M, Step-Up Kept", func(cg *domain.CapitalGains) {
				cg.RateChange = dec(0.196)
				cg.BaselineRate = dec(0.238)
				cg.BaselineRealizations = dec(100)
				cg.AffectedThreshold = dec(1_000_000)
				cg.LockInMultiplier = dec(5.3)
			}),
		},
		{
			ID:           "pwbm_capgains_39_no_stepup",
			Name:         "39.6% Capital Gains Above $1M, Step-Up Repealed",
			Description:  "Top capital gains rate to 39.6% above $1M with step-up basis eliminated.",
			TenYearCost:  dec(-113),
			Source:       SourcePWBM,
			SourceDate:   "2021-04",
			URL:          "https://budgetmodel.wharton.upenn.edu/issues/2021/4/23/revenue-effects-of-president-bidens-capital-gains-tax-increase",
			BudgetWindow: "FY2022-2031",
			Notes:        "Covers the rate change only; at-death revenue is scored separately.",
			Policy: capitalGains("39.6% Capital Gains Above $1M, Step-Up Repealed", func(cg *domain.CapitalGains) {
				cg.RateChange = dec(0.196)
				cg.BaselineRate = dec(0.238)
				cg.BaselineRealizations = dec(100)
				cg.AffectedThreshold = dec(1_000_000)
				cg.EliminateStepUp = true
				cg.StepUpExemption = decimal.Zero
				cg.LockInMultiplier = dec(1)
			}),
		},
		{
			ID:            "illustrative_1pp_all",
			Name:          "1pp Rate Increase (All Brackets)",
			TenYearCost:   dec(-960),
			FirstYearCost: decp(-85),
			Source:        SourceJCT,
			SourceDate:    "2023-01",
			Notes:         "Rule of thumb: 1pp raises $85-100B a year.",
			Policy:        incomeTax("1pp Rate Increase (All Brackets)", 0.01, 0),
		},
		{
			ID:            "illustrative_top_rate_5pp",
			Name:          "5pp Top Rate Increase Above $1M",
			TenYearCost:   dec(-700),
			FirstYearCost: decp(-70),
			Source:        SourceTPC,
			SourceDate:    "2023-06",
			Policy:        incomeTax("5pp Top Rate Increase Above $1M", 0.05, 1_000_000),
		},
		{
			ID:            "illustrative_500k_2pp",
			Name:          "2pp Rate Cut Above $500K",
			TenYearCost:   dec(400),
			FirstYearCost: decp(40),
			Source:        SourceTPC,
			SourceDate:    "2023-06",
			Policy:        incomeTax("2pp Rate Cut Above $500K", -0.02, 500_000),
		},
		{
			ID:           "iija_2021",
			Name:         "Infrastructure Investment and Jobs Act",
			Description:  "About $550B of new infrastructure outlays, partly offset.",
			TenYearCost:  dec(256),
			Source:       SourceCBO,
			SourceDate:   "2021-08",
			URL:          "https://www.cbo.gov/publication/57406",
			BudgetWindow: "FY2022-2031",
			Notes:        "Net of offsets the model does not represent.",
		},
		{
			ID:           "ira_2022",
			Name:         "Inflation Reduction Act",
			Description:  "Energy credits, drug price negotiation, ACA subsidies and a 15% book minimum tax.",
			TenYearCost:  dec(-90),
			Source:       SourceCBO,
			SourceDate:   "2022-08",
			URL:          "https://www.cbo.gov/publication/58366",
			BudgetWindow: "FY2022-2031",
			Notes:        "Excludes IRS enforcement revenue.",
		},
		{
			ID:           "fiscal_responsibility_act_2023",
			Name:         "Fiscal Responsibility Act of 2023",
			Description:  "Discretionary caps attached to the debt limit suspension.",
			TenYearCost:  dec(-1_500),
			Source:       SourceCBO,
			SourceDate:   "2023-05",
			URL:          "https://www.cbo.gov/publication/59225",
			BudgetWindow: "FY2023-2033",
		},
	}
}

// Lookup returns the benchmark with id.
func Lookup(id string) (Benchmark, bool) {
	for _, b := range Catalog() {
		if b.ID == id {
			return b, true
		}
	}
	return Benchmark{}, false
}
