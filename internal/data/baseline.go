package data

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// BaselineProvider produces a baseline covering horizon years from start.
type BaselineProvider interface {
	Baseline(start, horizon int) (domain.Baseline, error)
}

// EconomicAssumptions are per-year macro rates. Years past the end of a slice
// reuse its last value.
type EconomicAssumptions struct {
	RealGrowth   []float64
	Inflation    []float64
	Unemployment []float64
	InterestRate []float64
}

// DefaultAssumptions returns the February 2024 CBO economic outlook.
func DefaultAssumptions() EconomicAssumptions {
	return EconomicAssumptions{
		RealGrowth:   []float64{0.024, 0.021, 0.019, 0.018, 0.018, 0.018, 0.018, 0.018, 0.018, 0.018},
		Inflation:    []float64{0.023, 0.022, 0.021, 0.020, 0.020, 0.020, 0.020, 0.020, 0.020, 0.020},
		Unemployment: []float64{0.042, 0.044, 0.045, 0.045, 0.045, 0.045, 0.045, 0.045, 0.045, 0.045},
		InterestRate: []float64{0.044, 0.043, 0.042, 0.041, 0.040, 0.040, 0.040, 0.040, 0.040, 0.040},
	}
}

func at(series []float64, i int) float64 {
	if len(series) == 0 {
		return 0
	}
	if i >= len(series) {
		return series[len(series)-1]
	}
	return series[i]
}

// BaseLevels are the base-year levels, in billions, that projections grow from.
type BaseLevels struct {
	GDP                 float64
	IndividualIncomeTax float64
	CorporateIncomeTax  float64
	PayrollTaxes        float64
	OtherRevenue        float64
	SocialSecurity      float64
	Medicare            float64
	Medicaid            float64
	OtherMandatory      float64
}

// DefaultBaseLevels returns fiscal year 2024 levels.
func DefaultBaseLevels() BaseLevels {
	return BaseLevels{
		GDP:                 28_500,
		IndividualIncomeTax: 2_500,
		CorporateIncomeTax:  450,
		PayrollTaxes:        1_700,
		OtherRevenue:        400,
		SocialSecurity:      1_500,
		Medicare:            900,
		Medicaid:            600,
		OtherMandatory:      900,
	}
}

// CBOBaseline projects a CBO-style baseline from base levels and assumptions.
type CBOBaseline struct {
	Levels      BaseLevels
	Assumptions EconomicAssumptions
}

// NewCBOBaseline returns a generator with the default levels and assumptions.
func NewCBOBaseline() *CBOBaseline {
	return &CBOBaseline{Levels: DefaultBaseLevels(), Assumptions: DefaultAssumptions()}
}

// Baseline grows each series from its base level. Nominal GDP and individual
// income tax compound with real growth plus inflation (income tax adds 0.3
// points of bracket creep); corporate tax grows one point faster than GDP
// after its first year; the rest use fixed rates.
func (c *CBOBaseline) Baseline(start, horizon int) (domain.Baseline, error) {
	if horizon < 1 {
		return domain.Baseline{}, domain.NewDataError("cbo_baseline", start, fmt.Sprintf("horizon must be positive, got %d", horizon))
	}
	if c.Levels.GDP <= 0 {
		return domain.Baseline{}, domain.NewDataError("cbo_baseline", start, "base GDP is not set")
	}

	a := c.Assumptions
	l := c.Levels
	years := make([]domain.BaselineYear, horizon)

	gdp := l.GDP * (1 + at(a.RealGrowth, 0) + at(a.Inflation, 0))
	indiv := l.IndividualIncomeTax * (1 + at(a.RealGrowth, 0) + at(a.Inflation, 0) + 0.003)
	corp := l.CorporateIncomeTax * 1.04
	payroll := l.PayrollTaxes * 1.04
	other := l.OtherRevenue * 1.03
	ss := l.SocialSecurity * 1.06
	medicare := l.Medicare * 1.07
	medicaid := l.Medicaid * 1.05
	mandatory := l.OtherMandatory * 1.03

	for i := 0; i < horizon; i++ {
		if i > 0 {
			nominal := at(a.RealGrowth, i) + at(a.Inflation, i)
			gdp *= 1 + nominal
			indiv *= 1 + nominal + 0.003
			corp *= 1 + nominal + 0.01
			payroll *= 1 + nominal
			other *= 1.02
			ss *= 1.05
			medicare *= 1.06
			medicaid *= 1.05
			mandatory *= 1.03
		}
		years[i] = domain.BaselineYear{
			Year:                start + i,
			GDP:                 round(gdp),
			IndividualIncomeTax: round(indiv),
			CorporateIncomeTax:  round(corp),
			PayrollTaxes:        round(payroll),
			OtherRevenue:        round(other),
			InterestRate:        decimal.NewFromFloat(at(a.InterestRate, i)),
			Unemployment:        decimal.NewFromFloat(at(a.Unemployment, i)),
			SocialSecurity:      round(ss),
			Medicare:            round(medicare),
			Medicaid:            round(medicaid),
			OtherMandatory:      round(mandatory),
		}
	}
	return domain.Baseline{Source: "cbo_2024", Years: years}, nil
}

func round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(6)
}

// StaticBaseline serves windows of a fixed baseline, such as one loaded from a file.
type StaticBaseline struct {
	data domain.Baseline
}

// NewStaticBaseline validates b and wraps it as a provider.
func NewStaticBaseline(b domain.Baseline) (*StaticBaseline, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &StaticBaseline{data: b}, nil
}

// Baseline returns the requested window or ErrDataUnavailable.
func (s *StaticBaseline) Baseline(start, horizon int) (domain.Baseline, error) {
	return s.data.Window(start, horizon)
}
