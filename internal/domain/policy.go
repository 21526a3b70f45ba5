package domain

import (
	"github.com/shopspring/decimal"
)

// Kind identifies a policy variant.
type Kind string

const (
	KindIncomeTax        Kind = "income_tax"
	KindCapitalGains     Kind = "capital_gains"
	KindCorporate        Kind = "corporate"
	KindCredit           Kind = "credit"
	KindEstate           Kind = "estate"
	KindPayroll          Kind = "payroll"
	KindAMT              Kind = "amt"
	KindPremiumTaxCredit Kind = "premium_tax_credit"
	KindTaxExpenditure   Kind = "tax_expenditure"
	KindSpending         Kind = "spending"
	KindTransfer         Kind = "transfer"
	KindTCJAExtension    Kind = "tcja_extension"
)

// Kinds lists every variant kind in display order.
func Kinds() []Kind {
	return []Kind{
		KindIncomeTax, KindCapitalGains, KindCorporate, KindCredit, KindEstate,
		KindPayroll, KindAMT, KindPremiumTaxCredit, KindTaxExpenditure,
		KindTCJAExtension, KindSpending, KindTransfer,
	}
}

// IsTax reports whether the kind changes revenue rather than outlays.
func (k Kind) IsTax() bool {
	switch k {
	case KindSpending, KindTransfer:
		return false
	default:
		return true
	}
}

// Valid reports whether k names a known variant.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Variant holds the parameters specific to one kind of policy.
// The set of variants is closed: only types in this package implement it.
type Variant interface {
	Kind() Kind
	variant()
}

// Policy is an immutable description of a proposed fiscal change.
// Scoring is a pure function of a Policy, a Baseline and options.
type Policy struct {
	Name          string
	Description   string
	StartYear     int
	DurationYears int
	PhaseInYears  int
	Sunset        bool

	// GrowthRate overrides the variant's default annual growth of the static effect.
	GrowthRate *decimal.Decimal

	// DataYear selects the bracket data year; zero uses the scorer default.
	DataYear int

	Variant Variant
}

// Kind returns the variant kind, or an empty Kind when no variant is set.
func (p Policy) Kind() Kind {
	if p.Variant == nil {
		return ""
	}
	return p.Variant.Kind()
}

// EndYear returns the first year after the nominal duration.
func (p Policy) EndYear() int {
	return p.StartYear + p.DurationYears
}

// YearsSinceStart returns the 0-based offset of year from the start year.
func (p Policy) YearsSinceStart(year int) int {
	return year - p.StartYear
}

// IsActive reports whether the policy has any effect in year.
// Sunset policies stop abruptly after DurationYears; others are permanent.
func (p Policy) IsActive(year int) bool {
	if year < p.StartYear {
		return false
	}
	if p.Sunset && year >= p.EndYear() {
		return false
	}
	return true
}

// PhaseInFactor returns the share of the full effect applied in year.
// Year one of an N-year phase-in receives 1/N.
func (p Policy) PhaseInFactor(year int) decimal.Decimal {
	if !p.IsActive(year) {
		return decimal.Zero
	}
	if p.PhaseInYears <= 1 {
		return decimal.NewFromInt(1)
	}
	elapsed := decimal.NewFromInt(int64(p.YearsSinceStart(year) + 1))
	factor := elapsed.Div(decimal.NewFromInt(int64(p.PhaseInYears)))
	return decimal.Min(factor, decimal.NewFromInt(1))
}

// WithVariant returns a copy of the policy carrying v.
func (p Policy) WithVariant(v Variant) Policy {
	p.Variant = v
	return p
}

// PolicyPackage groups policies that are scored together.
type PolicyPackage struct {
	Name              string
	Description       string
	Policies          []Policy
	InteractionFactor decimal.Decimal
}

// YearRange returns the first start year and the last end year of the package.
func (pp PolicyPackage) YearRange() (int, int) {
	if len(pp.Policies) == 0 {
		return 0, 0
	}
	start, end := pp.Policies[0].StartYear, pp.Policies[0].EndYear()
	for _, p := range pp.Policies[1:] {
		if p.StartYear < start {
			start = p.StartYear
		}
		if p.EndYear() > end {
			end = p.EndYear()
		}
	}
	return start, end
}
