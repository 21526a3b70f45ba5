package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// TCJAComponent names one expiring provision of the 2017 tax law.
type TCJAComponent string

const (
	TCJARateCuts          TCJAComponent = "rate_cuts"
	TCJAStandardDeduction TCJAComponent = "standard_deduction"
	TCJAExemptions        TCJAComponent = "exemption_elimination"
	TCJASALTCap           TCJAComponent = "salt_cap"
	TCJAChildTaxCredit    TCJAComponent = "child_tax_credit"
	TCJAPassThrough       TCJAComponent = "passthrough_deduction"
	TCJAEstate            TCJAComponent = "estate_exemption"
	TCJAAMT               TCJAComponent = "amt_relief"
)

// TCJAComponentData is a provision's uncalibrated cost. Offsets raise
// revenue and carry negative costs.
type TCJAComponentData struct {
	Component   TCJAComponent
	Description string
	TenYearCost decimal.Decimal
	AnnualCost  decimal.Decimal
	GrowthRate  decimal.Decimal
	IsOffset    bool
}

func tcjaComponent(c TCJAComponent, desc string, tenYear, annual, growth float64) TCJAComponentData {
	return TCJAComponentData{
		Component:   c,
		Description: desc,
		TenYearCost: decimal.NewFromFloat(tenYear),
		AnnualCost:  decimal.NewFromFloat(annual),
		GrowthRate:  decimal.NewFromFloat(growth),
		IsOffset:    tenYear < 0,
	}
}

// TCJACatalog lists the provisions in display order. Costs are billions,
// first-year annual cost for the 2026 expiration.
var TCJACatalog = []TCJAComponentData{
	tcjaComponent(TCJARateCuts, "Individual rate cuts", 1_800, 150, 0.035),
	tcjaComponent(TCJAStandardDeduction, "Doubled standard deduction", 720, 60, 0.03),
	tcjaComponent(TCJAExemptions, "Personal exemption elimination", -650, -55, 0.03),
	tcjaComponent(TCJASALTCap, "$10,000 SALT deduction cap", -1_100, -90, 0.04),
	tcjaComponent(TCJAChildTaxCredit, "$2,000 child tax credit", 550, 50, 0.02),
	tcjaComponent(TCJAPassThrough, "20% pass-through deduction", 700, 60, 0.04),
	tcjaComponent(TCJAEstate, "Doubled estate exemption", 130, 10, 0.05),
	tcjaComponent(TCJAAMT, "Higher AMT exemption", 450, 40, 0.03),
}

// TCJAExtension extends some or all of the expiring individual provisions.
// Component costs are scaled by CalibrationFactor so the full extension
// matches the official ten-year estimate; behavioral response is embedded
// in that calibration.
type TCJAExtension struct {
	ExtendRateCuts           bool
	ExtendStandardDeduction  bool
	KeepExemptionElimination bool
	KeepSALTCap              bool
	ExtendChildTaxCredit     bool
	ExtendPassThrough        bool
	ExtendEstateExemption    bool
	ExtendAMTRelief          bool

	CalibrationFactor decimal.Decimal
	// DynamicOffset reduces the cost by a share of itself, in [0, 1).
	DynamicOffset decimal.Decimal
}

func (TCJAExtension) Kind() Kind { return KindTCJAExtension }
func (TCJAExtension) variant()   {}

// DefaultTCJAExtension returns the full extension calibrated to $4.6T.
func DefaultTCJAExtension() TCJAExtension {
	return TCJAExtension{
		ExtendRateCuts:           true,
		ExtendStandardDeduction:  true,
		KeepExemptionElimination: true,
		KeepSALTCap:              true,
		ExtendChildTaxCredit:     true,
		ExtendPassThrough:        true,
		ExtendEstateExemption:    true,
		ExtendAMTRelief:          true,
		CalibrationFactor:        decimal.NewFromFloat(1.77),
	}
}

// Includes reports whether the extension keeps component c.
func (t TCJAExtension) Includes(c TCJAComponent) bool {
	switch c {
	case TCJARateCuts:
		return t.ExtendRateCuts
	case TCJAStandardDeduction:
		return t.ExtendStandardDeduction
	case TCJAExemptions:
		return t.KeepExemptionElimination
	case TCJASALTCap:
		return t.KeepSALTCap
	case TCJAChildTaxCredit:
		return t.ExtendChildTaxCredit
	case TCJAPassThrough:
		return t.ExtendPassThrough
	case TCJAEstate:
		return t.ExtendEstateExemption
	case TCJAAMT:
		return t.ExtendAMTRelief
	}
	return false
}

func (t TCJAExtension) scale() decimal.Decimal {
	return t.CalibrationFactor.Mul(one.Sub(t.DynamicOffset))
}

// AnnualCost is the calibrated cost in policy year t, counted from zero.
// Each component grows at its own rate.
func (t TCJAExtension) AnnualCost(year int) decimal.Decimal {
	total := decimal.Zero
	for _, c := range TCJACatalog {
		if !t.Includes(c.Component) {
			continue
		}
		g := math.Pow(1+c.GrowthRate.InexactFloat64(), float64(year))
		total = total.Add(c.AnnualCost.Mul(decimal.NewFromFloat(g)))
	}
	return total.Mul(t.scale())
}

// TCJABreakdown is one included component after calibration.
type TCJABreakdown struct {
	Component   TCJAComponent
	Description string
	TenYearCost decimal.Decimal
	AnnualCost  decimal.Decimal
	IsOffset    bool
}

// Breakdown lists the included components with calibrated costs.
func (t TCJAExtension) Breakdown() []TCJABreakdown {
	var out []TCJABreakdown
	for _, c := range TCJACatalog {
		if !t.Includes(c.Component) {
			continue
		}
		out = append(out, TCJABreakdown{
			Component:   c.Component,
			Description: c.Description,
			TenYearCost: c.TenYearCost.Mul(t.CalibrationFactor),
			AnnualCost:  c.AnnualCost.Mul(t.CalibrationFactor),
			IsOffset:    c.IsOffset,
		})
	}
	return out
}
