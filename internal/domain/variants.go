package domain

import "github.com/shopspring/decimal"

// Per-return amounts (thresholds, incomes, credit amounts, exemptions) are in
// dollars. Aggregates (realizations, profits, annual changes) are in billions.

// IncomeTax changes the ordinary income tax rate above a threshold.
type IncomeTax struct {
	RateChange              decimal.Decimal
	AffectedIncomeThreshold decimal.Decimal

	// TaxableIncomeElasticity is the ETI; nil uses the scorer default.
	TaxableIncomeElasticity *decimal.Decimal

	// Explicit affected-population overrides. When both are set the bracket
	// provider is not consulted.
	AffectedTaxpayersMillions *decimal.Decimal
	AvgTaxableIncome          *decimal.Decimal

	AnnualRevenueChange *decimal.Decimal
}

func (IncomeTax) Kind() Kind { return KindIncomeTax }
func (IncomeTax) variant()   {}

// TransitionShape selects how the capital gains elasticity moves from its
// short-run to its long-run value.
type TransitionShape string

const (
	// TransitionStep holds the short-run value for years 1..k and the long-run
	// value afterwards.
	TransitionStep TransitionShape = "step"
	// TransitionLinear interpolates over the first k years, reaching the
	// long-run value in year k+1.
	TransitionLinear TransitionShape = "linear"
)

// CapitalGains changes the rate on realized capital gains.
type CapitalGains struct {
	RateChange           decimal.Decimal
	NewRate              *decimal.Decimal
	BaselineRate         decimal.Decimal
	BaselineRealizations decimal.Decimal
	AffectedThreshold    decimal.Decimal

	ShortRunElasticity decimal.Decimal
	LongRunElasticity  decimal.Decimal
	TransitionYears    int
	Transition         TransitionShape

	StepUpAtDeath    bool
	EliminateStepUp  bool
	StepUpExemption  decimal.Decimal
	LockInMultiplier decimal.Decimal

	// GainsAtDeath is the annual unrealized gain transferred at death. When nil
	// and EliminateStepUp is set, the at-death revenue channel is zero.
	GainsAtDeath *decimal.Decimal

	AnnualRevenueChange *decimal.Decimal
}

func (CapitalGains) Kind() Kind { return KindCapitalGains }
func (CapitalGains) variant()   {}

// ReformRate returns NewRate when set, otherwise BaselineRate + RateChange.
func (c CapitalGains) ReformRate() decimal.Decimal {
	if c.NewRate != nil {
		return *c.NewRate
	}
	return c.BaselineRate.Add(c.RateChange)
}

// DefaultCapitalGains returns current-law parameters with the standard
// short-run/long-run elasticity schedule.
func DefaultCapitalGains() CapitalGains {
	return CapitalGains{
		BaselineRate:       decimal.NewFromFloat(0.20),
		ShortRunElasticity: decimal.NewFromFloat(0.8),
		LongRunElasticity:  decimal.NewFromFloat(0.4),
		TransitionYears:    3,
		Transition:         TransitionStep,
		StepUpAtDeath:      true,
		StepUpExemption:    decimal.NewFromInt(1_000_000),
		LockInMultiplier:   decimal.NewFromFloat(2.0),
	}
}

// Corporate changes the corporate income tax.
type Corporate struct {
	RateChange   decimal.Decimal
	NewRate      *decimal.Decimal
	BaselineRate decimal.Decimal

	// BaselineProfits of zero derives profits from baseline corporate revenue.
	BaselineProfits decimal.Decimal

	GILTIRateChange         decimal.Decimal
	EliminateFDII           bool
	RestoreRDExpensing      bool
	ExtendBonusDepreciation bool
	BookMinimumRateChange   decimal.Decimal

	Elasticity decimal.Decimal

	AnnualRevenueChange *decimal.Decimal
}

func (Corporate) Kind() Kind { return KindCorporate }
func (Corporate) variant()   {}

// ReformRate returns the statutory rate under the policy.
func (c Corporate) ReformRate() decimal.Decimal {
	if c.NewRate != nil {
		return *c.NewRate
	}
	return c.BaselineRate.Add(c.RateChange)
}

// DefaultCorporate returns the current-law corporate parameters.
func DefaultCorporate() Corporate {
	return Corporate{
		BaselineRate: decimal.NewFromFloat(0.21),
		Elasticity:   decimal.NewFromFloat(0.25),
	}
}

// CreditType distinguishes credits with calibrated labor-supply offsets.
type CreditType string

const (
	CreditEITC  CreditType = "eitc"
	CreditCTC   CreditType = "ctc"
	CreditOther CreditType = "other"
)

// Credit changes a per-unit tax credit.
type Credit struct {
	CreditType            CreditType
	AmountChange          decimal.Decimal
	BeneficiariesMillions decimal.Decimal
	Refundable            bool
	// AvgLiabilityRate is the share of a non-refundable credit that filers can use.
	AvgLiabilityRate      decimal.Decimal
	ParticipationRate     decimal.Decimal
	IncomeLimit           *decimal.Decimal
	LaborSupplyElasticity decimal.Decimal

	AnnualRevenueChange *decimal.Decimal
}

func (Credit) Kind() Kind { return KindCredit }
func (Credit) variant()   {}

// DefaultCredit returns a fully participating, refundable credit.
func DefaultCredit() Credit {
	return Credit{
		CreditType:            CreditOther,
		Refundable:            true,
		AvgLiabilityRate:      decimal.NewFromInt(1),
		ParticipationRate:     decimal.NewFromInt(1),
		LaborSupplyElasticity: decimal.NewFromFloat(0.1),
	}
}

// Estate changes the estate tax rate or exemption.
type Estate struct {
	NewRate             *decimal.Decimal
	NewExemption        *decimal.Decimal
	ExtendTCJAExemption bool

	PlanningElasticity     decimal.Decimal
	GiftShiftingElasticity decimal.Decimal

	AnnualRevenueChange *decimal.Decimal
}

func (Estate) Kind() Kind { return KindEstate }
func (Estate) variant()   {}

// DefaultEstate returns the calibrated estate planning responses.
func DefaultEstate() Estate {
	return Estate{
		PlanningElasticity:     decimal.NewFromFloat(0.15),
		GiftShiftingElasticity: decimal.NewFromFloat(0.10),
	}
}

// Payroll changes Social Security or Medicare payroll taxes.
type Payroll struct {
	SSRateChange       decimal.Decimal
	MedicareRateChange decimal.Decimal
	EliminateCap       bool
	Cover90Percent     bool
	DonutHoleStart     *decimal.Decimal
	ExpandNIIT         bool
	WageCap            decimal.Decimal

	LaborSupplyElasticity  decimal.Decimal
	TaxAvoidanceElasticity decimal.Decimal

	AnnualRevenueChange *decimal.Decimal
}

func (Payroll) Kind() Kind { return KindPayroll }
func (Payroll) variant()   {}

// ChangesCap reports whether the policy taxes wages above the current cap.
func (p Payroll) ChangesCap() bool {
	return p.EliminateCap || p.Cover90Percent || p.DonutHoleStart != nil
}

// DefaultPayroll returns 2025 payroll parameters.
func DefaultPayroll() Payroll {
	return Payroll{
		WageCap:                decimal.NewFromInt(176_100),
		LaborSupplyElasticity:  decimal.NewFromFloat(0.1),
		TaxAvoidanceElasticity: decimal.NewFromFloat(0.15),
	}
}

// AMTType selects the individual or corporate alternative minimum tax.
type AMTType string

const (
	AMTIndividual AMTType = "individual"
	AMTCorporate  AMTType = "corporate"
)

// AMT changes an alternative minimum tax.
type AMT struct {
	AMTType             AMTType
	RepealIndividual    bool
	ExtendTCJARelief    bool
	RepealCorporate     bool
	CorporateRateChange decimal.Decimal

	TimingElasticity    decimal.Decimal
	AvoidanceElasticity decimal.Decimal

	AnnualRevenueChange *decimal.Decimal
}

func (AMT) Kind() Kind { return KindAMT }
func (AMT) variant()   {}

// DefaultAMT returns the calibrated AMT responses.
func DefaultAMT() AMT {
	return AMT{
		AMTType:             AMTIndividual,
		TimingElasticity:    decimal.NewFromFloat(0.15),
		AvoidanceElasticity: decimal.NewFromFloat(0.10),
	}
}

// PremiumTaxCredit changes ACA marketplace subsidies.
type PremiumTaxCredit struct {
	Repeal           bool
	ExtendEnhanced   bool
	PremiumCapChange decimal.Decimal

	CoverageElasticity     decimal.Decimal
	AdverseSelectionFactor decimal.Decimal

	AnnualRevenueChange *decimal.Decimal
}

func (PremiumTaxCredit) Kind() Kind { return KindPremiumTaxCredit }
func (PremiumTaxCredit) variant()   {}

// DefaultPremiumTaxCredit returns the calibrated coverage responses.
func DefaultPremiumTaxCredit() PremiumTaxCredit {
	return PremiumTaxCredit{
		CoverageElasticity:     decimal.NewFromFloat(0.3),
		AdverseSelectionFactor: decimal.NewFromFloat(0.1),
	}
}

// ExpenditureType names a tax expenditure tracked by JCT.
type ExpenditureType string

const (
	ExpenditureEmployerHealth ExpenditureType = "employer_health"
	ExpenditureRetirement401k ExpenditureType = "retirement_401k"
	ExpenditureRetirementDB   ExpenditureType = "retirement_db"
	ExpenditureRetirementIRA  ExpenditureType = "retirement_ira"
	ExpenditureMortgage       ExpenditureType = "mortgage_interest"
	ExpenditureSALT           ExpenditureType = "salt"
	ExpenditureCharitable     ExpenditureType = "charitable"
	ExpenditureCapitalGains   ExpenditureType = "capital_gains_dividends"
	ExpenditureStepUp         ExpenditureType = "step_up_basis"
	ExpenditureLikeKind       ExpenditureType = "like_kind_exchange"
)

// ExpenditureAction is the reform applied to a tax expenditure.
type ExpenditureAction string

const (
	ActionEliminate ExpenditureAction = "eliminate"
	ActionCap       ExpenditureAction = "cap"
	ActionPhaseOut  ExpenditureAction = "phase_out"
	ActionConvert   ExpenditureAction = "convert"
	ActionExpand    ExpenditureAction = "expand"
)

// TaxExpenditure reforms an exclusion, deduction or preference.
type TaxExpenditure struct {
	ExpenditureType ExpenditureType
	Action          ExpenditureAction
	CapAmount       *decimal.Decimal
	CapRate         *decimal.Decimal

	// Elasticity overrides the per-type behavioral elasticity.
	Elasticity *decimal.Decimal

	AnnualRevenueChange *decimal.Decimal
}

func (TaxExpenditure) Kind() Kind { return KindTaxExpenditure }
func (TaxExpenditure) variant()   {}

// Spending changes discretionary or mandatory outlays.
type Spending struct {
	AnnualChange decimal.Decimal
	GrowthRate   decimal.Decimal
	IsOneTime    bool
	Category     string

	// GDPMultiplier overrides the macro spending multiplier for this policy.
	GDPMultiplier *decimal.Decimal
}

func (Spending) Kind() Kind { return KindSpending }
func (Spending) variant()   {}

// DefaultSpending returns recurring nondefense spending with 2% growth.
func DefaultSpending() Spending {
	return Spending{
		GrowthRate: decimal.NewFromFloat(0.02),
		Category:   "nondefense",
	}
}

// Program names the transfer program whose baseline cost a policy modifies.
type Program string

const (
	ProgramSocialSecurity Program = "social_security"
	ProgramMedicare       Program = "medicare"
	ProgramMedicaid       Program = "medicaid"
	ProgramOther          Program = "other"
)

// Transfer changes benefits of a transfer program.
type Transfer struct {
	Program                  Program
	BenefitChangePercent     decimal.Decimal
	NewBeneficiariesMillions decimal.Decimal
	AnnualCostChange         *decimal.Decimal
}

func (Transfer) Kind() Kind { return KindTransfer }
func (Transfer) variant()   {}
