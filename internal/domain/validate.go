package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	zero = decimal.Zero
	one  = decimal.NewFromInt(1)
)

// maxRateMagnitude bounds rate changes; anything larger is not a finite tax rate change.
var maxRateMagnitude = decimal.NewFromInt(1)

// Validate checks the common policy invariants and the variant parameters.
// It returns every violation joined into one error; each unwraps to
// ErrInvalidPolicyParameters.
func (p Policy) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, NewPolicyError(p.Name, field, fmt.Sprintf(format, args...)))
	}

	if p.Name == "" {
		add("name", "is required")
	}
	if p.DurationYears < 1 {
		add("duration_years", "must be at least 1, got %d", p.DurationYears)
	}
	if p.PhaseInYears < 0 {
		add("phase_in_years", "cannot be negative, got %d", p.PhaseInYears)
	}
	if p.DurationYears >= 1 && p.PhaseInYears >= p.DurationYears {
		add("phase_in_years", "must be less than duration_years (%d), got %d", p.DurationYears, p.PhaseInYears)
	}
	if p.GrowthRate != nil && p.GrowthRate.LessThanOrEqual(one.Neg()) {
		add("growth_rate", "must be greater than -1, got %s", p.GrowthRate)
	}
	if p.Variant == nil {
		add("type", "policy variant is required")
		return errors.Join(errs...)
	}

	for _, v := range validateVariant(p.Variant) {
		add(v.field, "%s", v.message)
	}
	return errors.Join(errs...)
}

type violation struct {
	field   string
	message string
}

func validateVariant(v Variant) []violation {
	var out []violation
	check := func(ok bool, field, format string, args ...any) {
		if !ok {
			out = append(out, violation{field: field, message: fmt.Sprintf(format, args...)})
		}
	}
	rate := func(field string, d decimal.Decimal) {
		check(d.Abs().LessThanOrEqual(maxRateMagnitude), field, "rate change magnitude must be at most 1, got %s", d)
	}
	nonNeg := func(field string, d decimal.Decimal) {
		check(!d.IsNegative(), field, "cannot be negative, got %s", d)
	}
	unitRate := func(field string, d decimal.Decimal) {
		check(!d.IsNegative() && d.LessThan(one), field, "must be in [0, 1), got %s", d)
	}

	switch pv := v.(type) {
	case IncomeTax:
		rate("rate_change", pv.RateChange)
		nonNeg("affected_income_threshold", pv.AffectedIncomeThreshold)
		if pv.TaxableIncomeElasticity != nil {
			nonNeg("taxable_income_elasticity", *pv.TaxableIncomeElasticity)
		}
		if pv.AffectedTaxpayersMillions != nil {
			nonNeg("affected_taxpayers_millions", *pv.AffectedTaxpayersMillions)
		}
		if pv.AvgTaxableIncome != nil {
			nonNeg("avg_taxable_income", *pv.AvgTaxableIncome)
		}
	case CapitalGains:
		rate("rate_change", pv.RateChange)
		unitRate("baseline_rate", pv.BaselineRate)
		unitRate("reform_rate", pv.ReformRate())
		nonNeg("baseline_realizations_billions", pv.BaselineRealizations)
		nonNeg("short_run_elasticity", pv.ShortRunElasticity)
		nonNeg("long_run_elasticity", pv.LongRunElasticity)
		check(pv.TransitionYears >= 0, "transition_years", "cannot be negative, got %d", pv.TransitionYears)
		check(pv.Transition == "" || pv.Transition == TransitionStep || pv.Transition == TransitionLinear,
			"transition", "must be %q or %q, got %q", TransitionStep, TransitionLinear, pv.Transition)
		check(pv.LockInMultiplier.GreaterThanOrEqual(one), "step_up_lock_in_multiplier", "must be at least 1, got %s", pv.LockInMultiplier)
		nonNeg("step_up_exemption", pv.StepUpExemption)
		if pv.GainsAtDeath != nil {
			nonNeg("gains_at_death_billions", *pv.GainsAtDeath)
		}
	case Corporate:
		rate("rate_change", pv.RateChange)
		unitRate("baseline_rate", pv.BaselineRate)
		unitRate("reform_rate", pv.ReformRate())
		nonNeg("baseline_profits_billions", pv.BaselineProfits)
		check(pv.BaselineProfits.IsPositive() || pv.BaselineRate.IsPositive(),
			"baseline_rate", "must be positive when baseline profits are derived from revenue")
		rate("gilti_rate_change", pv.GILTIRateChange)
		rate("book_minimum_rate_change", pv.BookMinimumRateChange)
		nonNeg("corporate_elasticity", pv.Elasticity)
	case Credit:
		check(pv.CreditType == CreditEITC || pv.CreditType == CreditCTC || pv.CreditType == CreditOther,
			"credit_type", "unknown credit type %q", pv.CreditType)
		nonNeg("beneficiaries_millions", pv.BeneficiariesMillions)
		check(!pv.AvgLiabilityRate.IsNegative() && pv.AvgLiabilityRate.LessThanOrEqual(one),
			"avg_liability_rate", "must be in [0, 1], got %s", pv.AvgLiabilityRate)
		check(!pv.ParticipationRate.IsNegative() && pv.ParticipationRate.LessThanOrEqual(one),
			"participation_rate", "must be in [0, 1], got %s", pv.ParticipationRate)
		nonNeg("labor_supply_elasticity", pv.LaborSupplyElasticity)
	case Estate:
		if pv.NewRate != nil {
			unitRate("new_rate", *pv.NewRate)
		}
		if pv.NewExemption != nil {
			check(pv.NewExemption.IsPositive(), "new_exemption", "must be positive, got %s", pv.NewExemption)
		}
		nonNeg("planning_elasticity", pv.PlanningElasticity)
		nonNeg("gift_shifting_elasticity", pv.GiftShiftingElasticity)
	case Payroll:
		rate("ss_rate_change", pv.SSRateChange)
		rate("medicare_rate_change", pv.MedicareRateChange)
		check(pv.WageCap.IsPositive(), "wage_cap", "must be positive, got %s", pv.WageCap)
		if pv.DonutHoleStart != nil {
			check(pv.DonutHoleStart.IsPositive(), "donut_hole_start", "must be positive, got %s", pv.DonutHoleStart)
		}
		nonNeg("labor_supply_elasticity", pv.LaborSupplyElasticity)
		nonNeg("tax_avoidance_elasticity", pv.TaxAvoidanceElasticity)
	case AMT:
		check(pv.AMTType == AMTIndividual || pv.AMTType == AMTCorporate, "amt_type", "unknown AMT type %q", pv.AMTType)
		rate("corporate_rate_change", pv.CorporateRateChange)
		nonNeg("timing_elasticity", pv.TimingElasticity)
		nonNeg("avoidance_elasticity", pv.AvoidanceElasticity)
	case PremiumTaxCredit:
		check(!(pv.Repeal && pv.ExtendEnhanced), "repeal", "cannot both repeal and extend enhanced credits")
		rate("premium_cap_change", pv.PremiumCapChange)
		nonNeg("coverage_elasticity", pv.CoverageElasticity)
		nonNeg("adverse_selection_factor", pv.AdverseSelectionFactor)
	case TaxExpenditure:
		_, known := ExpenditureCatalog[pv.ExpenditureType]
		check(known, "expenditure_type", "unknown expenditure %q", pv.ExpenditureType)
		switch pv.Action {
		case ActionEliminate, ActionPhaseOut, ActionConvert, ActionExpand:
		case ActionCap:
			check(pv.CapAmount != nil || pv.CapRate != nil, "cap_amount", "cap action requires cap_amount or cap_rate")
			if pv.CapAmount != nil {
				check(pv.CapAmount.IsPositive(), "cap_amount", "must be positive, got %s", pv.CapAmount)
			}
		default:
			check(false, "action", "unknown action %q", pv.Action)
		}
		if pv.Elasticity != nil {
			nonNeg("elasticity", *pv.Elasticity)
		}
	case TCJAExtension:
		check(pv.CalibrationFactor.IsPositive(), "calibration_factor", "must be positive, got %s", pv.CalibrationFactor)
		unitRate("dynamic_offset_pct", pv.DynamicOffset)
	case Spending:
		check(pv.GrowthRate.GreaterThan(one.Neg()), "annual_growth_rate", "must be greater than -1, got %s", pv.GrowthRate)
		if pv.GDPMultiplier != nil {
			nonNeg("gdp_multiplier", *pv.GDPMultiplier)
		}
	case Transfer:
		switch pv.Program {
		case ProgramSocialSecurity, ProgramMedicare, ProgramMedicaid, ProgramOther:
		default:
			check(false, "program", "unknown program %q", pv.Program)
		}
		check(pv.BenefitChangePercent.GreaterThanOrEqual(one.Neg()), "benefit_change_percent", "cannot cut benefits by more than 100%%")
	default:
		check(false, "type", "unsupported policy variant %T", v)
	}
	return out
}

// CheckFinite converts f to a decimal, rejecting NaN and infinities.
// decimal.NewFromFloat panics on those, so float inputs go through here.
func CheckFinite(field string, f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return zero, NewPolicyError("", field, fmt.Sprintf("must be finite, got %v", f))
	}
	return decimal.NewFromFloat(f), nil
}
