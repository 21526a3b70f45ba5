package config

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// PolicySpec is the file and wire form of a policy: common fields, a type
// tag and the matching variant block.
type PolicySpec struct {
	Name          string           `yaml:"name" json:"name"`
	Description   string           `yaml:"description,omitempty" json:"description,omitempty"`
	Type          domain.Kind      `yaml:"type" json:"type"`
	StartYear     int              `yaml:"start_year" json:"startYear"`
	DurationYears int              `yaml:"duration_years" json:"durationYears"`
	PhaseInYears  int              `yaml:"phase_in_years,omitempty" json:"phaseInYears,omitempty"`
	Sunset        bool             `yaml:"sunset,omitempty" json:"sunset,omitempty"`
	GrowthRate    *decimal.Decimal `yaml:"growth_rate,omitempty" json:"growthRate,omitempty"`
	DataYear      int              `yaml:"data_year,omitempty" json:"dataYear,omitempty"`

	IncomeTax        *IncomeTaxSpec        `yaml:"income_tax,omitempty" json:"incomeTax,omitempty"`
	CapitalGains     *CapitalGainsSpec     `yaml:"capital_gains,omitempty" json:"capitalGains,omitempty"`
	Corporate        *CorporateSpec        `yaml:"corporate,omitempty" json:"corporate,omitempty"`
	Credit           *CreditSpec           `yaml:"credit,omitempty" json:"credit,omitempty"`
	Estate           *EstateSpec           `yaml:"estate,omitempty" json:"estate,omitempty"`
	Payroll          *PayrollSpec          `yaml:"payroll,omitempty" json:"payroll,omitempty"`
	AMT              *AMTSpec              `yaml:"amt,omitempty" json:"amt,omitempty"`
	PremiumTaxCredit *PremiumTaxCreditSpec `yaml:"premium_tax_credit,omitempty" json:"premiumTaxCredit,omitempty"`
	TaxExpenditure   *TaxExpenditureSpec   `yaml:"tax_expenditure,omitempty" json:"taxExpenditure,omitempty"`
	TCJAExtension    *TCJAExtensionSpec    `yaml:"tcja_extension,omitempty" json:"tcjaExtension,omitempty"`
	Spending         *SpendingSpec         `yaml:"spending,omitempty" json:"spending,omitempty"`
	Transfer         *TransferSpec         `yaml:"transfer,omitempty" json:"transfer,omitempty"`
}

type IncomeTaxSpec struct {
	RateChange                decimal.Decimal  `yaml:"rate_change" json:"rateChange"`
	AffectedIncomeThreshold   decimal.Decimal  `yaml:"affected_income_threshold" json:"affectedIncomeThreshold"`
	TaxableIncomeElasticity   *decimal.Decimal `yaml:"taxable_income_elasticity,omitempty" json:"taxableIncomeElasticity,omitempty"`
	AffectedTaxpayersMillions *decimal.Decimal `yaml:"affected_taxpayers_millions,omitempty" json:"affectedTaxpayersMillions,omitempty"`
	AvgTaxableIncome          *decimal.Decimal `yaml:"avg_taxable_income,omitempty" json:"avgTaxableIncome,omitempty"`
	AnnualRevenueChange       *decimal.Decimal `yaml:"annual_revenue_change_billions,omitempty" json:"annualRevenueChangeBillions,omitempty"`
}

type CapitalGainsSpec struct {
	RateChange           decimal.Decimal        `yaml:"rate_change" json:"rateChange"`
	NewRate              *decimal.Decimal       `yaml:"new_rate,omitempty" json:"newRate,omitempty"`
	BaselineRate         *decimal.Decimal       `yaml:"baseline_rate,omitempty" json:"baselineRate,omitempty"`
	BaselineRealizations decimal.Decimal        `yaml:"baseline_realizations_billions,omitempty" json:"baselineRealizationsBillions,omitempty"`
	AffectedThreshold    decimal.Decimal        `yaml:"affected_threshold,omitempty" json:"affectedThreshold,omitempty"`
	ShortRunElasticity   *decimal.Decimal       `yaml:"short_run_elasticity,omitempty" json:"shortRunElasticity,omitempty"`
	LongRunElasticity    *decimal.Decimal       `yaml:"long_run_elasticity,omitempty" json:"longRunElasticity,omitempty"`
	TransitionYears      *int                   `yaml:"transition_years,omitempty" json:"transitionYears,omitempty"`
	Transition           domain.TransitionShape `yaml:"transition,omitempty" json:"transition,omitempty"`
	StepUpAtDeath        *bool                  `yaml:"step_up_at_death,omitempty" json:"stepUpAtDeath,omitempty"`
	EliminateStepUp      bool                   `yaml:"eliminate_step_up,omitempty" json:"eliminateStepUp,omitempty"`
	StepUpExemption      *decimal.Decimal       `yaml:"step_up_exemption,omitempty" json:"stepUpExemption,omitempty"`
	LockInMultiplier     *decimal.Decimal       `yaml:"step_up_lock_in_multiplier,omitempty" json:"stepUpLockInMultiplier,omitempty"`
	GainsAtDeath         *decimal.Decimal       `yaml:"gains_at_death_billions,omitempty" json:"gainsAtDeathBillions,omitempty"`
	AnnualRevenueChange  *decimal.Decimal       `yaml:"annual_revenue_change_billions,omitempty" json:"annualRevenueChangeBillions,omitempty"`
}

type CorporateSpec struct {
	RateChange              decimal.Decimal  `yaml:"rate_change" json:"rateChange"`
	NewRate                 *decimal.Decimal `yaml:"new_rate,omitempty" json:"newRate,omitempty"`
	BaselineRate            *decimal.Decimal `yaml:"baseline_rate,omitempty" json:"baselineRate,omitempty"`
	BaselineProfits         decimal.Decimal  `yaml:"baseline_profits_billions,omitempty" json:"baselineProfitsBillions,omitempty"`
	GILTIRateChange         decimal.Decimal  `yaml:"gilti_rate_change,omitempty" json:"giltiRateChange,omitempty"`
	EliminateFDII           bool             `yaml:"eliminate_fdii,omitempty" json:"eliminateFdii,omitempty"`
	RestoreRDExpensing      bool             `yaml:"restore_rd_expensing,omitempty" json:"restoreRdExpensing,omitempty"`
	ExtendBonusDepreciation bool             `yaml:"extend_bonus_depreciation,omitempty" json:"extendBonusDepreciation,omitempty"`
	BookMinimumRateChange   decimal.Decimal  `yaml:"book_minimum_rate_change,omitempty" json:"bookMinimumRateChange,omitempty"`
	Elasticity              *decimal.Decimal `yaml:"corporate_elasticity,omitempty" json:"corporateElasticity,omitempty"`
	AnnualRevenueChange     *decimal.Decimal `yaml:"annual_revenue_change_billions,omitempty" json:"annualRevenueChangeBillions,omitempty"`
}

type CreditSpec struct {
	CreditType            domain.CreditType `yaml:"credit_type,omitempty" json:"creditType,omitempty"`
	AmountChange          decimal.Decimal   `yaml:"amount_change" json:"amountChange"`
	BeneficiariesMillions decimal.Decimal   `yaml:"beneficiaries_millions" json:"beneficiariesMillions"`
	Refundable            *bool             `yaml:"refundable,omitempty" json:"refundable,omitempty"`
	AvgLiabilityRate      *decimal.Decimal  `yaml:"avg_liability_rate,omitempty" json:"avgLiabilityRate,omitempty"`
	ParticipationRate     *decimal.Decimal  `yaml:"participation_rate,omitempty" json:"participationRate,omitempty"`
	IncomeLimit           *decimal.Decimal  `yaml:"income_limit,omitempty" json:"incomeLimit,omitempty"`
	LaborSupplyElasticity *decimal.Decimal  `yaml:"labor_supply_elasticity,omitempty" json:"laborSupplyElasticity,omitempty"`
	AnnualRevenueChange   *decimal.Decimal  `yaml:"annual_revenue_change_billions,omitempty" json:"annualRevenueChangeBillions,omitempty"`
}

type EstateSpec struct {
	NewRate                *decimal.Decimal `yaml:"new_rate,omitempty" json:"newRate,omitempty"`
	NewExemption           *decimal.Decimal `yaml:"new_exemption,omitempty" json:"newExemption,omitempty"`
	ExtendTCJAExemption    bool             `yaml:"extend_tcja_exemption,omitempty" json:"extendTcjaExemption,omitempty"`
	PlanningElasticity     *decimal.Decimal `yaml:"planning_elasticity,omitempty" json:"planningElasticity,omitempty"`
	GiftShiftingElasticity *decimal.Decimal `yaml:"gift_shifting_elasticity,omitempty" json:"giftShiftingElasticity,omitempty"`
	AnnualRevenueChange    *decimal.Decimal `yaml:"annual_revenue_change_billions,omitempty" json:"annualRevenueChangeBillions,omitempty"`
}

type PayrollSpec struct {
	SSRateChange           decimal.Decimal  `yaml:"ss_rate_change,omitempty" json:"ssRateChange,omitempty"`
	MedicareRateChange     decimal.Decimal  `yaml:"medicare_rate_change,omitempty" json:"medicareRateChange,omitempty"`
	EliminateCap           bool             `yaml:"eliminate_cap,omitempty" json:"eliminateCap,omitempty"`
	Cover90Percent         bool             `yaml:"cover_90_percent,omitempty" json:"cover90Percent,omitempty"`
	DonutHoleStart         *decimal.Decimal `yaml:"donut_hole_start,omitempty" json:"donutHoleStart,omitempty"`
	ExpandNIIT             bool             `yaml:"expand_niit,omitempty" json:"expandNiit,omitempty"`
	WageCap                *decimal.Decimal `yaml:"wage_cap,omitempty" json:"wageCap,omitempty"`
	LaborSupplyElasticity  *decimal.Decimal `yaml:"labor_supply_elasticity,omitempty" json:"laborSupplyElasticity,omitempty"`
	TaxAvoidanceElasticity *decimal.Decimal `yaml:"tax_avoidance_elasticity,omitempty" json:"taxAvoidanceElasticity,omitempty"`
	AnnualRevenueChange    *decimal.Decimal `yaml:"annual_revenue_change_billions,omitempty" json:"annualRevenueChangeBillions,omitempty"`
}

type AMTSpec struct {
	AMTType             domain.AMTType   `yaml:"amt_type,omitempty" json:"amtType,omitempty"`
	RepealIndividual    bool             `yaml:"repeal_individual,omitempty" json:"repealIndividual,omitempty"`
	ExtendTCJARelief    bool             `yaml:"extend_tcja_relief,omitempty" json:"extendTcjaRelief,omitempty"`
	RepealCorporate     bool             `yaml:"repeal_corporate,omitempty" json:"repealCorporate,omitempty"`
	CorporateRateChange decimal.Decimal  `yaml:"corporate_rate_change,omitempty" json:"corporateRateChange,omitempty"`
	TimingElasticity    *decimal.Decimal `yaml:"timing_elasticity,omitempty" json:"timingElasticity,omitempty"`
	AvoidanceElasticity *decimal.Decimal `yaml:"avoidance_elasticity,omitempty" json:"avoidanceElasticity,omitempty"`
	AnnualRevenueChange *decimal.Decimal `yaml:"annual_revenue_change_billions,omitempty" json:"annualRevenueChangeBillions,omitempty"`
}

type PremiumTaxCreditSpec struct {
	Repeal                 bool             `yaml:"repeal,omitempty" json:"repeal,omitempty"`
	ExtendEnhanced         bool             `yaml:"extend_enhanced,omitempty" json:"extendEnhanced,omitempty"`
	PremiumCapChange       decimal.Decimal  `yaml:"premium_cap_change,omitempty" json:"premiumCapChange,omitempty"`
	CoverageElasticity     *decimal.Decimal `yaml:"coverage_elasticity,omitempty" json:"coverageElasticity,omitempty"`
	AdverseSelectionFactor *decimal.Decimal `yaml:"adverse_selection_factor,omitempty" json:"adverseSelectionFactor,omitempty"`
	AnnualRevenueChange    *decimal.Decimal `yaml:"annual_revenue_change_billions,omitempty" json:"annualRevenueChangeBillions,omitempty"`
}

type TaxExpenditureSpec struct {
	ExpenditureType     domain.ExpenditureType   `yaml:"expenditure_type" json:"expenditureType"`
	Action              domain.ExpenditureAction `yaml:"action" json:"action"`
	CapAmount           *decimal.Decimal         `yaml:"cap_amount,omitempty" json:"capAmount,omitempty"`
	CapRate             *decimal.Decimal         `yaml:"cap_rate,omitempty" json:"capRate,omitempty"`
	Elasticity          *decimal.Decimal         `yaml:"elasticity,omitempty" json:"elasticity,omitempty"`
	AnnualRevenueChange *decimal.Decimal         `yaml:"annual_revenue_change_billions,omitempty" json:"annualRevenueChangeBillions,omitempty"`
}

// TCJAExtensionSpec flags default to extending every provision, so an empty
// block is the full extension.
type TCJAExtensionSpec struct {
	ExtendRateCuts           *bool            `yaml:"extend_rate_cuts,omitempty" json:"extendRateCuts,omitempty"`
	ExtendStandardDeduction  *bool            `yaml:"extend_standard_deduction,omitempty" json:"extendStandardDeduction,omitempty"`
	KeepExemptionElimination *bool            `yaml:"keep_exemption_elimination,omitempty" json:"keepExemptionElimination,omitempty"`
	KeepSALTCap              *bool            `yaml:"keep_salt_cap,omitempty" json:"keepSaltCap,omitempty"`
	ExtendChildTaxCredit     *bool            `yaml:"extend_ctc_expansion,omitempty" json:"extendCtcExpansion,omitempty"`
	ExtendPassThrough        *bool            `yaml:"extend_passthrough_deduction,omitempty" json:"extendPassthroughDeduction,omitempty"`
	ExtendEstateExemption    *bool            `yaml:"extend_estate_exemption,omitempty" json:"extendEstateExemption,omitempty"`
	ExtendAMTRelief          *bool            `yaml:"extend_amt_relief,omitempty" json:"extendAmtRelief,omitempty"`
	CalibrationFactor        *decimal.Decimal `yaml:"calibration_factor,omitempty" json:"calibrationFactor,omitempty"`
	DynamicOffset            *decimal.Decimal `yaml:"dynamic_offset_pct,omitempty" json:"dynamicOffsetPct,omitempty"`
}

type SpendingSpec struct {
	AnnualChange  decimal.Decimal  `yaml:"annual_spending_change_billions" json:"annualSpendingChangeBillions"`
	GrowthRate    *decimal.Decimal `yaml:"annual_growth_rate,omitempty" json:"annualGrowthRate,omitempty"`
	IsOneTime     bool             `yaml:"is_one_time,omitempty" json:"isOneTime,omitempty"`
	Category      string           `yaml:"category,omitempty" json:"category,omitempty"`
	GDPMultiplier *decimal.Decimal `yaml:"gdp_multiplier,omitempty" json:"gdpMultiplier,omitempty"`
}

type TransferSpec struct {
	Program                  domain.Program   `yaml:"program" json:"program"`
	BenefitChangePercent     decimal.Decimal  `yaml:"benefit_change_percent,omitempty" json:"benefitChangePercent,omitempty"`
	NewBeneficiariesMillions decimal.Decimal  `yaml:"new_beneficiaries_millions,omitempty" json:"newBeneficiariesMillions,omitempty"`
	AnnualCostChange         *decimal.Decimal `yaml:"annual_cost_change_billions,omitempty" json:"annualCostChangeBillions,omitempty"`
}

// PackageSpec is the file and wire form of a policy package.
type PackageSpec struct {
	Name              string           `yaml:"name" json:"name"`
	Description       string           `yaml:"description,omitempty" json:"description,omitempty"`
	InteractionFactor *decimal.Decimal `yaml:"interaction_factor,omitempty" json:"interactionFactor,omitempty"`
	Policies          []PolicySpec     `yaml:"policies" json:"policies"`
}

func or(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v != nil {
		return *v
	}
	return def
}

// ToPolicy converts the spec to a domain policy, filling variant defaults.
// It checks that exactly the block named by Type is present; parameter
// checks are left to Policy.Validate.
func (s PolicySpec) ToPolicy() (domain.Policy, error) {
	p := domain.Policy{
		Name:          s.Name,
		Description:   s.Description,
		StartYear:     s.StartYear,
		DurationYears: s.DurationYears,
		PhaseInYears:  s.PhaseInYears,
		Sunset:        s.Sunset,
		GrowthRate:    s.GrowthRate,
		DataYear:      s.DataYear,
	}

	if n := s.blockCount(); n != 1 {
		return p, domain.NewPolicyError(s.Name, "type", fmt.Sprintf("expected exactly one variant block, found %d", n))
	}

	var v domain.Variant
	switch s.Type {
	case domain.KindIncomeTax:
		v = s.IncomeTax.toVariant()
	case domain.KindCapitalGains:
		v = s.CapitalGains.toVariant()
	case domain.KindCorporate:
		v = s.Corporate.toVariant()
	case domain.KindCredit:
		v = s.Credit.toVariant()
	case domain.KindEstate:
		v = s.Estate.toVariant()
	case domain.KindPayroll:
		v = s.Payroll.toVariant()
	case domain.KindAMT:
		v = s.AMT.toVariant()
	case domain.KindPremiumTaxCredit:
		v = s.PremiumTaxCredit.toVariant()
	case domain.KindTaxExpenditure:
		v = s.TaxExpenditure.toVariant()
	case domain.KindTCJAExtension:
		v = s.TCJAExtension.toVariant()
	case domain.KindSpending:
		v = s.Spending.toVariant()
	case domain.KindTransfer:
		v = s.Transfer.toVariant()
	default:
		return p, domain.NewPolicyError(s.Name, "type", fmt.Sprintf("unknown policy type %q", s.Type))
	}
	if v == nil {
		return p, domain.NewPolicyError(s.Name, string(s.Type), "variant block is missing for this type")
	}
	p.Variant = v
	return p, nil
}

func (s PolicySpec) blockCount() int {
	n := 0
	for _, present := range []bool{
		s.IncomeTax != nil, s.CapitalGains != nil, s.Corporate != nil, s.Credit != nil,
		s.Estate != nil, s.Payroll != nil, s.AMT != nil, s.PremiumTaxCredit != nil,
		s.TaxExpenditure != nil, s.TCJAExtension != nil, s.Spending != nil, s.Transfer != nil,
	} {
		if present {
			n++
		}
	}
	return n
}

// Each toVariant returns nil for a nil receiver so ToPolicy can report a
// type tag that does not match the block supplied.

func (s *IncomeTaxSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	return domain.IncomeTax{
		RateChange:                s.RateChange,
		AffectedIncomeThreshold:   s.AffectedIncomeThreshold,
		TaxableIncomeElasticity:   s.TaxableIncomeElasticity,
		AffectedTaxpayersMillions: s.AffectedTaxpayersMillions,
		AvgTaxableIncome:          s.AvgTaxableIncome,
		AnnualRevenueChange:       s.AnnualRevenueChange,
	}
}

func (s *CapitalGainsSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	cg := domain.DefaultCapitalGains()
	cg.RateChange = s.RateChange
	cg.NewRate = s.NewRate
	cg.BaselineRate = or(s.BaselineRate, cg.BaselineRate)
	cg.BaselineRealizations = s.BaselineRealizations
	cg.AffectedThreshold = s.AffectedThreshold
	cg.ShortRunElasticity = or(s.ShortRunElasticity, cg.ShortRunElasticity)
	cg.LongRunElasticity = or(s.LongRunElasticity, cg.LongRunElasticity)
	if s.TransitionYears != nil {
		cg.TransitionYears = *s.TransitionYears
	}
	if s.Transition != "" {
		cg.Transition = s.Transition
	}
	if s.StepUpAtDeath != nil {
		cg.StepUpAtDeath = *s.StepUpAtDeath
	}
	cg.EliminateStepUp = s.EliminateStepUp
	cg.StepUpExemption = or(s.StepUpExemption, cg.StepUpExemption)
	cg.LockInMultiplier = or(s.LockInMultiplier, cg.LockInMultiplier)
	cg.GainsAtDeath = s.GainsAtDeath
	cg.AnnualRevenueChange = s.AnnualRevenueChange
	return cg
}

func (s *CorporateSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	c := domain.DefaultCorporate()
	c.RateChange = s.RateChange
	c.NewRate = s.NewRate
	c.BaselineRate = or(s.BaselineRate, c.BaselineRate)
	c.BaselineProfits = s.BaselineProfits
	c.GILTIRateChange = s.GILTIRateChange
	c.EliminateFDII = s.EliminateFDII
	c.RestoreRDExpensing = s.RestoreRDExpensing
	c.ExtendBonusDepreciation = s.ExtendBonusDepreciation
	c.BookMinimumRateChange = s.BookMinimumRateChange
	c.Elasticity = or(s.Elasticity, c.Elasticity)
	c.AnnualRevenueChange = s.AnnualRevenueChange
	return c
}

func (s *CreditSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	c := domain.DefaultCredit()
	if s.CreditType != "" {
		c.CreditType = s.CreditType
	}
	c.AmountChange = s.AmountChange
	c.BeneficiariesMillions = s.BeneficiariesMillions
	if s.Refundable != nil {
		c.Refundable = *s.Refundable
	}
	c.AvgLiabilityRate = or(s.AvgLiabilityRate, c.AvgLiabilityRate)
	c.ParticipationRate = or(s.ParticipationRate, c.ParticipationRate)
	c.IncomeLimit = s.IncomeLimit
	c.LaborSupplyElasticity = or(s.LaborSupplyElasticity, c.LaborSupplyElasticity)
	c.AnnualRevenueChange = s.AnnualRevenueChange
	return c
}

func (s *EstateSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	e := domain.DefaultEstate()
	e.NewRate = s.NewRate
	e.NewExemption = s.NewExemption
	e.ExtendTCJAExemption = s.ExtendTCJAExemption
	e.PlanningElasticity = or(s.PlanningElasticity, e.PlanningElasticity)
	e.GiftShiftingElasticity = or(s.GiftShiftingElasticity, e.GiftShiftingElasticity)
	e.AnnualRevenueChange = s.AnnualRevenueChange
	return e
}

func (s *PayrollSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	p := domain.DefaultPayroll()
	p.SSRateChange = s.SSRateChange
	p.MedicareRateChange = s.MedicareRateChange
	p.EliminateCap = s.EliminateCap
	p.Cover90Percent = s.Cover90Percent
	p.DonutHoleStart = s.DonutHoleStart
	p.ExpandNIIT = s.ExpandNIIT
	p.WageCap = or(s.WageCap, p.WageCap)
	p.LaborSupplyElasticity = or(s.LaborSupplyElasticity, p.LaborSupplyElasticity)
	p.TaxAvoidanceElasticity = or(s.TaxAvoidanceElasticity, p.TaxAvoidanceElasticity)
	p.AnnualRevenueChange = s.AnnualRevenueChange
	return p
}

func (s *AMTSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	a := domain.DefaultAMT()
	if s.AMTType != "" {
		a.AMTType = s.AMTType
	}
	a.RepealIndividual = s.RepealIndividual
	a.ExtendTCJARelief = s.ExtendTCJARelief
	a.RepealCorporate = s.RepealCorporate
	a.CorporateRateChange = s.CorporateRateChange
	a.TimingElasticity = or(s.TimingElasticity, a.TimingElasticity)
	a.AvoidanceElasticity = or(s.AvoidanceElasticity, a.AvoidanceElasticity)
	a.AnnualRevenueChange = s.AnnualRevenueChange
	return a
}

func (s *PremiumTaxCreditSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	p := domain.DefaultPremiumTaxCredit()
	p.Repeal = s.Repeal
	p.ExtendEnhanced = s.ExtendEnhanced
	p.PremiumCapChange = s.PremiumCapChange
	p.CoverageElasticity = or(s.CoverageElasticity, p.CoverageElasticity)
	p.AdverseSelectionFactor = or(s.AdverseSelectionFactor, p.AdverseSelectionFactor)
	p.AnnualRevenueChange = s.AnnualRevenueChange
	return p
}

func (s *TaxExpenditureSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	return domain.TaxExpenditure{
		ExpenditureType:     s.ExpenditureType,
		Action:              s.Action,
		CapAmount:           s.CapAmount,
		CapRate:             s.CapRate,
		Elasticity:          s.Elasticity,
		AnnualRevenueChange: s.AnnualRevenueChange,
	}
}

func flag(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}

func (s *TCJAExtensionSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	t := domain.DefaultTCJAExtension()
	t.ExtendRateCuts = flag(s.ExtendRateCuts, t.ExtendRateCuts)
	t.ExtendStandardDeduction = flag(s.ExtendStandardDeduction, t.ExtendStandardDeduction)
	t.KeepExemptionElimination = flag(s.KeepExemptionElimination, t.KeepExemptionElimination)
	t.KeepSALTCap = flag(s.KeepSALTCap, t.KeepSALTCap)
	t.ExtendChildTaxCredit = flag(s.ExtendChildTaxCredit, t.ExtendChildTaxCredit)
	t.ExtendPassThrough = flag(s.ExtendPassThrough, t.ExtendPassThrough)
	t.ExtendEstateExemption = flag(s.ExtendEstateExemption, t.ExtendEstateExemption)
	t.ExtendAMTRelief = flag(s.ExtendAMTRelief, t.ExtendAMTRelief)
	t.CalibrationFactor = or(s.CalibrationFactor, t.CalibrationFactor)
	t.DynamicOffset = or(s.DynamicOffset, t.DynamicOffset)
	return t
}

func (s *SpendingSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	sp := domain.DefaultSpending()
	sp.AnnualChange = s.AnnualChange
	sp.GrowthRate = or(s.GrowthRate, sp.GrowthRate)
	sp.IsOneTime = s.IsOneTime
	if s.Category != "" {
		sp.Category = s.Category
	}
	sp.GDPMultiplier = s.GDPMultiplier
	return sp
}

func (s *TransferSpec) toVariant() domain.Variant {
	if s == nil {
		return nil
	}
	return domain.Transfer{
		Program:                  s.Program,
		BenefitChangePercent:     s.BenefitChangePercent,
		NewBeneficiariesMillions: s.NewBeneficiariesMillions,
		AnnualCostChange:         s.AnnualCostChange,
	}
}

// ToPackage converts the spec to a domain package. A missing interaction
// factor defaults to 1.
func (s PackageSpec) ToPackage() (domain.PolicyPackage, error) {
	pkg := domain.PolicyPackage{
		Name:              s.Name,
		Description:       s.Description,
		InteractionFactor: or(s.InteractionFactor, decimal.NewFromInt(1)),
	}
	for i, ps := range s.Policies {
		p, err := ps.ToPolicy()
		if err != nil {
			return pkg, fmt.Errorf("policy %d: %w", i, err)
		}
		pkg.Policies = append(pkg.Policies, p)
	}
	return pkg, nil
}
