package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BaselineYear is one year of the macro and fiscal baseline, in billions
// except for the rates.
type BaselineYear struct {
	Year int `yaml:"year" json:"year"`

	GDP decimal.Decimal `yaml:"gdp" json:"gdp"`

	IndividualIncomeTax decimal.Decimal `yaml:"individual_income_tax" json:"individualIncomeTax"`
	CorporateIncomeTax  decimal.Decimal `yaml:"corporate_income_tax" json:"corporateIncomeTax"`
	PayrollTaxes        decimal.Decimal `yaml:"payroll_taxes" json:"payrollTaxes"`
	OtherRevenue        decimal.Decimal `yaml:"other_revenue" json:"otherRevenue"`

	InterestRate decimal.Decimal `yaml:"interest_rate" json:"interestRate"`
	Unemployment decimal.Decimal `yaml:"unemployment" json:"unemployment"`

	SocialSecurity decimal.Decimal `yaml:"social_security" json:"socialSecurity"`
	Medicare       decimal.Decimal `yaml:"medicare" json:"medicare"`
	Medicaid       decimal.Decimal `yaml:"medicaid" json:"medicaid"`
	OtherMandatory decimal.Decimal `yaml:"other_mandatory" json:"otherMandatory"`
}

// TotalRevenue sums the revenue components.
func (b BaselineYear) TotalRevenue() decimal.Decimal {
	return b.IndividualIncomeTax.Add(b.CorporateIncomeTax).Add(b.PayrollTaxes).Add(b.OtherRevenue)
}

// ProgramCost returns the baseline outlay for a transfer program.
func (b BaselineYear) ProgramCost(p Program) decimal.Decimal {
	switch p {
	case ProgramSocialSecurity:
		return b.SocialSecurity
	case ProgramMedicare:
		return b.Medicare
	case ProgramMedicaid:
		return b.Medicaid
	default:
		return b.OtherMandatory
	}
}

// Baseline is an ordered, read-only sequence of annual records.
type Baseline struct {
	Source string         `yaml:"source" json:"source"`
	Years  []BaselineYear `yaml:"years" json:"years"`
}

// Len returns the number of years in the baseline.
func (b Baseline) Len() int {
	return len(b.Years)
}

// YearList returns the calendar years covered.
func (b Baseline) YearList() []int {
	out := make([]int, len(b.Years))
	for i, y := range b.Years {
		out[i] = y.Year
	}
	return out
}

// Validate checks that the baseline is non-empty and strictly increasing by one year.
func (b Baseline) Validate() error {
	if len(b.Years) == 0 {
		return NewDataError("baseline", 0, "no years supplied")
	}
	for i := 1; i < len(b.Years); i++ {
		if b.Years[i].Year != b.Years[i-1].Year+1 {
			return NewDataError("baseline", b.Years[i].Year,
				fmt.Sprintf("years must be consecutive, previous was %d", b.Years[i-1].Year))
		}
	}
	return nil
}

// Window returns the horizon records starting at start. It fails with
// ErrDataUnavailable when the baseline does not cover the full range.
func (b Baseline) Window(start, horizon int) (Baseline, error) {
	if err := b.Validate(); err != nil {
		return Baseline{}, err
	}
	first := b.Years[0].Year
	offset := start - first
	if offset < 0 || offset+horizon > len(b.Years) {
		return Baseline{}, NewDataError("baseline", start,
			fmt.Sprintf("covers %d-%d, need %d years from %d", first, b.Years[len(b.Years)-1].Year, horizon, start))
	}
	years := make([]BaselineYear, horizon)
	copy(years, b.Years[offset:offset+horizon])
	return Baseline{Source: b.Source, Years: years}, nil
}
