package scoring

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/elasticity"
	"github.com/shopspring/decimal"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

var (
	one  = decimal.NewFromInt(1)
	half = dec(0.5)
)

// Default growth of the static effect, compounded from the start year.
var (
	corporateGrowth = dec(0.04)
	creditGrowth    = dec(0.03)
	estateGrowth    = dec(0.03)
	payrollGrowth   = dec(0.04)
	amtGrowth       = dec(0.03)
	ptcGrowth       = dec(0.04)
)

// model is the annual static effect of a policy at full phase-in, in
// billions, with the growth and offset rules used to project it.
type model struct {
	revenue  decimal.Decimal
	spending decimal.Decimal
	growth   decimal.Decimal

	// k scales the opposing behavioral offset.
	k decimal.Decimal
	// oneTime limits the effect to the start year.
	oneTime bool
	// perYear replaces revenue and spending with values tied to a baseline year.
	perYear func(by domain.BaselineYear) (revenue, spending decimal.Decimal)
	// offset replaces the k rule; t is the 1-based policy year.
	offset func(t int, staticDeficit decimal.Decimal) decimal.Decimal
	// spendingMultiplier overrides the macro multiplier.
	spendingMultiplier *decimal.Decimal
}

// buildModel dispatches on the policy variant.
func (s *Scorer) buildModel(p domain.Policy, baseline domain.Baseline) (model, error) {
	switch v := p.Variant.(type) {
	case domain.IncomeTax:
		return s.incomeTaxModel(p, v)
	case domain.CapitalGains:
		return s.capitalGainsModel(p, v)
	case domain.Corporate:
		return corporateModel(p, v, baseline)
	case domain.Credit:
		return creditModel(v), nil
	case domain.Estate:
		return estateModel(v), nil
	case domain.Payroll:
		return payrollModel(v), nil
	case domain.AMT:
		return amtModel(v), nil
	case domain.PremiumTaxCredit:
		return ptcModel(v), nil
	case domain.TaxExpenditure:
		return taxExpenditureModel(v)
	case domain.TCJAExtension:
		return tcjaModel(p, v), nil
	case domain.Spending:
		return spendingModel(v), nil
	case domain.Transfer:
		return transferModel(v), nil
	default:
		return model{}, domain.NewPolicyError(p.Name, "type", "no scoring rule for this policy variant")
	}
}

func (s *Scorer) incomeTaxModel(p domain.Policy, v domain.IncomeTax) (model, error) {
	eti := s.cfg.DefaultETI
	if v.TaxableIncomeElasticity != nil {
		eti = *v.TaxableIncomeElasticity
	}
	m := model{k: eti.Mul(half)}
	if v.AnnualRevenueChange != nil {
		m.revenue = *v.AnnualRevenueChange
		return m, nil
	}

	count, avg, err := s.affectedTaxpayers(p, v)
	if err != nil {
		return model{}, err
	}
	excess := avg
	if v.AffectedIncomeThreshold.IsPositive() {
		excess = decimal.Max(decimal.Zero, avg.Sub(v.AffectedIncomeThreshold))
	}
	m.revenue = v.RateChange.Mul(excess).Mul(count).Div(domain.Billion)
	return m, nil
}

// affectedTaxpayers returns the number of filers above the threshold and
// their average income, preferring explicit policy values over bracket data.
func (s *Scorer) affectedTaxpayers(p domain.Policy, v domain.IncomeTax) (count, avg decimal.Decimal, err error) {
	if v.AffectedTaxpayersMillions != nil && v.AvgTaxableIncome != nil {
		return v.AffectedTaxpayersMillions.Mul(domain.Million), *v.AvgTaxableIncome, nil
	}
	if s.brackets == nil {
		return count, avg, domain.NewDataError("irs_soi", s.dataYear(p), "no bracket provider configured")
	}

	stats, err := s.brackets.FilersAbove(s.dataYear(p), v.AffectedIncomeThreshold)
	if err != nil {
		return count, avg, err
	}
	count, avg = stats.Filers, stats.AvgTaxableIncome
	if v.AffectedTaxpayersMillions != nil {
		count = v.AffectedTaxpayersMillions.Mul(domain.Million)
	}
	if v.AvgTaxableIncome != nil {
		avg = *v.AvgTaxableIncome
	}
	s.logger.Debugf("income tax %q: %s filers above $%s, average taxable income $%s",
		p.Name, count.StringFixed(0), v.AffectedIncomeThreshold.StringFixed(0), avg.StringFixed(0))
	return count, avg, nil
}

func (s *Scorer) dataYear(p domain.Policy) int {
	if p.DataYear != 0 {
		return p.DataYear
	}
	if s.cfg.DataYear != 0 {
		return s.cfg.DataYear
	}
	return data.DefaultSOIYear
}

func (s *Scorer) capitalGainsModel(p domain.Policy, v domain.CapitalGains) (model, error) {
	if v.AnnualRevenueChange != nil && !v.BaselineRealizations.IsPositive() {
		return model{revenue: *v.AnnualRevenueChange}, nil
	}
	if !v.BaselineRealizations.IsPositive() {
		var err error
		if v, err = s.populateGains(p, v); err != nil {
			return model{}, err
		}
	}
	cg, err := elasticity.NewCapitalGainsModel(v)
	if err != nil {
		return model{}, err
	}
	m := model{revenue: cg.StaticRevenue().Add(cg.DeathRevenue())}
	if v.AnnualRevenueChange != nil {
		m.revenue = *v.AnnualRevenueChange
	}
	m.offset = func(t int, _ decimal.Decimal) decimal.Decimal {
		return cg.Offset(t)
	}
	return m, nil
}

// populateGains fills the realizations base and baseline rate from the gains
// table for the policy's data year. An explicit NewRate keeps its meaning;
// otherwise the rate change applies to the estimated baseline rate.
func (s *Scorer) populateGains(p domain.Policy, v domain.CapitalGains) (domain.CapitalGains, error) {
	year := s.dataYear(p)
	if s.gains == nil {
		return v, domain.NewDataError("capital_gains", year, "no realizations given and no gains baseline configured")
	}
	g, err := s.gains.GainsAbove(year, v.AffectedThreshold)
	if err != nil {
		return v, err
	}
	if !g.Realizations.IsPositive() {
		return v, domain.NewDataError("capital_gains", year,
			fmt.Sprintf("no positive realizations above $%s", v.AffectedThreshold.StringFixed(0)))
	}
	s.logger.Debugf("capital gains %q: realizations $%sB above $%s at %s effective rate",
		p.Name, g.Realizations.StringFixed(1), v.AffectedThreshold.StringFixed(0), g.EffectiveRate.StringFixed(3))
	v.BaselineRealizations = g.Realizations
	v.BaselineRate = g.EffectiveRate
	return v, nil
}

var (
	giltiBase         = dec(250)
	fdiiRevenue       = dec(20)
	rdExpensingCost   = dec(-12)
	bonusDepreciation = dec(-28)
	bookMinimumBase   = dec(100)
)

func corporateModel(p domain.Policy, v domain.Corporate, baseline domain.Baseline) (model, error) {
	profits := v.BaselineProfits
	if !profits.IsPositive() {
		by, err := baselineYearFor(baseline, p.StartYear)
		if err != nil {
			return model{}, err
		}
		profits = by.CorporateIncomeTax.Div(v.BaselineRate)
	}

	rev := v.ReformRate().Sub(v.BaselineRate).Mul(profits)
	rev = rev.Add(v.GILTIRateChange.Mul(giltiBase))
	if v.EliminateFDII {
		rev = rev.Add(fdiiRevenue)
	}
	if v.RestoreRDExpensing {
		rev = rev.Add(rdExpensingCost)
	}
	if v.ExtendBonusDepreciation {
		rev = rev.Add(bonusDepreciation)
	}
	rev = rev.Add(v.BookMinimumRateChange.Mul(bookMinimumBase))
	if v.AnnualRevenueChange != nil {
		rev = *v.AnnualRevenueChange
	}
	return model{revenue: rev, growth: corporateGrowth, k: v.Elasticity.Mul(half)}, nil
}

// baselineYearFor returns year's baseline row. Profits are never derived
// from another year's receipts.
func baselineYearFor(b domain.Baseline, year int) (domain.BaselineYear, error) {
	for _, by := range b.Years {
		if by.Year == year {
			return by, nil
		}
	}
	return domain.BaselineYear{}, domain.NewDataError("baseline", year, "no corporate income tax receipts for the start year")
}

func creditModel(v domain.Credit) model {
	usable := one
	if !v.Refundable {
		usable = v.AvgLiabilityRate
	}
	rev := v.AmountChange.Mul(v.BeneficiariesMillions).Mul(domain.Million).
		Mul(v.ParticipationRate).Mul(usable).Div(domain.Billion).Neg()
	if v.AnnualRevenueChange != nil {
		rev = *v.AnnualRevenueChange
	}

	var k decimal.Decimal
	switch v.CreditType {
	case domain.CreditEITC:
		k = dec(0.12)
	case domain.CreditCTC:
		k = dec(0.05)
	default:
		k = v.LaborSupplyElasticity.Mul(dec(0.3))
	}
	return model{revenue: rev, growth: creditGrowth, k: k}
}

var (
	estateRate           = dec(0.40)
	estateBaselineExempt = dec(6_400_000)
	estateTCJAExempt     = dec(14_000_000)
	estatesAtTCJA        = dec(7_000)
	estatesAtBaseline    = dec(19_000)
	avgEstateAtTCJA      = dec(8_000_000)
	avgEstateAtBaseline  = dec(4_000_000)
	extendTCJAEstateCost = dec(-16.7)
)

// taxableEstates interpolates the number of taxable estates and their
// average taxable value for an exemption level.
func taxableEstates(exemption decimal.Decimal) (count, avg decimal.Decimal) {
	switch {
	case exemption.GreaterThanOrEqual(estateTCJAExempt):
		count = estatesAtTCJA.Mul(estateTCJAExempt).Div(exemption)
		avg = avgEstateAtTCJA.Mul(one.Add(exemption.Sub(estateTCJAExempt).Div(estateTCJAExempt)))
	case exemption.LessThanOrEqual(estateBaselineExempt):
		count = estatesAtBaseline.Mul(estateBaselineExempt).Div(exemption)
		avg = avgEstateAtBaseline.Mul(exemption).Div(estateBaselineExempt)
	default:
		frac := exemption.Sub(estateBaselineExempt).Div(estateTCJAExempt.Sub(estateBaselineExempt))
		count = estatesAtBaseline.Add(estatesAtTCJA.Sub(estatesAtBaseline).Mul(frac))
		avg = avgEstateAtBaseline.Add(avgEstateAtTCJA.Sub(avgEstateAtBaseline).Mul(frac))
	}
	return count, avg
}

func estateRevenue(exemption, rate decimal.Decimal) decimal.Decimal {
	count, avg := taxableEstates(exemption)
	return count.Mul(avg).Mul(rate).Div(domain.Billion)
}

func estateModel(v domain.Estate) model {
	m := model{growth: estateGrowth, k: v.PlanningElasticity.Add(v.GiftShiftingElasticity)}
	switch {
	case v.AnnualRevenueChange != nil:
		m.revenue = *v.AnnualRevenueChange
	case v.ExtendTCJAExemption:
		m.revenue = extendTCJAEstateCost
	default:
		rate, exemption := estateRate, estateBaselineExempt
		if v.NewRate != nil {
			rate = *v.NewRate
		}
		if v.NewExemption != nil {
			exemption = *v.NewExemption
		}
		m.revenue = estateRevenue(exemption, rate).Sub(estateRevenue(estateBaselineExempt, estateRate))
	}
	return m
}

var (
	eliminateCapRevenue  = dec(320)
	cover90Revenue       = dec(80)
	donutAt250kRevenue   = dec(270)
	donutReference       = dec(250_000)
	wagesAbove250k       = dec(2_500)
	combinedSSRate       = dec(0.124)
	ssRevenuePerPoint    = dec(90)
	medicareRevPerPoint  = dec(140)
	niitExpansionRevenue = dec(25)
	hundred              = decimal.NewFromInt(100)
)

func payrollModel(v domain.Payroll) model {
	rev := decimal.Zero
	switch {
	case v.EliminateCap:
		rev = rev.Add(eliminateCapRevenue)
	case v.Cover90Percent:
		rev = rev.Add(cover90Revenue)
	case v.DonutHoleStart != nil:
		if v.DonutHoleStart.LessThanOrEqual(donutReference) {
			rev = rev.Add(donutAt250kRevenue)
		} else {
			scaled := wagesAbove250k.Mul(donutReference).Div(*v.DonutHoleStart)
			rev = rev.Add(scaled.Mul(combinedSSRate))
		}
	}
	rev = rev.Add(v.SSRateChange.Mul(hundred).Mul(ssRevenuePerPoint))
	rev = rev.Add(v.MedicareRateChange.Mul(hundred).Mul(medicareRevPerPoint))
	if v.ExpandNIIT {
		rev = rev.Add(niitExpansionRevenue)
	}
	if v.AnnualRevenueChange != nil {
		rev = *v.AnnualRevenueChange
	}

	avoidance := v.TaxAvoidanceElasticity
	if !v.ChangesCap() {
		avoidance = avoidance.Mul(half)
	}
	return model{revenue: rev, growth: payrollGrowth, k: v.LaborSupplyElasticity.Add(avoidance)}
}

var (
	corporateAMTRevenue  = dec(22)
	corporateAMTRate     = dec(0.15)
	individualAMTRevenue = dec(5)
	extendAMTReliefCost  = dec(-39.3)
)

func amtModel(v domain.AMT) model {
	rev := decimal.Zero
	if v.AMTType == domain.AMTCorporate {
		if v.RepealCorporate {
			rev = corporateAMTRevenue.Neg()
		} else {
			rev = corporateAMTRevenue.Mul(v.CorporateRateChange).Div(corporateAMTRate)
		}
	} else {
		if v.RepealIndividual {
			rev = rev.Sub(individualAMTRevenue)
		}
		if v.ExtendTCJARelief {
			rev = rev.Add(extendAMTReliefCost)
		}
	}
	if v.AnnualRevenueChange != nil {
		rev = *v.AnnualRevenueChange
	}
	return model{revenue: rev, growth: amtGrowth, k: v.TimingElasticity.Add(v.AvoidanceElasticity)}
}

var (
	ptcRepealSavings    = dec(95)
	ptcExtendCost       = dec(-35)
	ptcPremiumCapBase   = dec(1_000)
	ptcCoverageResponse = dec(0.1)
)

func ptcModel(v domain.PremiumTaxCredit) model {
	rev := v.PremiumCapChange.Mul(ptcPremiumCapBase)
	if v.Repeal {
		rev = rev.Add(ptcRepealSavings)
	}
	if v.ExtendEnhanced {
		rev = rev.Add(ptcExtendCost)
	}
	if v.AnnualRevenueChange != nil {
		rev = *v.AnnualRevenueChange
	}
	k := v.CoverageElasticity.Mul(ptcCoverageResponse)
	if rev.IsPositive() {
		k = k.Add(v.AdverseSelectionFactor)
	}
	return model{revenue: rev, growth: ptcGrowth, k: k}
}

func taxExpenditureModel(v domain.TaxExpenditure) (model, error) {
	ref, ok := domain.ExpenditureCatalog[v.ExpenditureType]
	if !ok {
		return model{}, domain.NewDataError("jct_tax_expenditures", 0, "no estimate for "+string(v.ExpenditureType))
	}
	k := ref.Elasticity
	if v.Elasticity != nil {
		k = *v.Elasticity
	}
	m := model{growth: ref.GrowthRate, k: k}
	if v.AnnualRevenueChange != nil {
		m.revenue = *v.AnnualRevenueChange
		return m, nil
	}

	cost := ref.AnnualCost
	switch v.Action {
	case domain.ActionEliminate:
		m.revenue = cost
	case domain.ActionCap:
		switch {
		case v.CapAmount != nil && v.CapAmount.GreaterThanOrEqual(ref.AvgBenefit):
			m.revenue = cost.Mul(dec(0.1)).Mul(ref.AvgBenefit).Div(*v.CapAmount)
		case v.CapAmount != nil:
			share := dec(0.3).Add(dec(0.4).Mul(one.Sub(v.CapAmount.Div(ref.AvgBenefit))))
			m.revenue = cost.Mul(share)
		default:
			m.revenue = cost.Mul(dec(0.15))
		}
	case domain.ActionPhaseOut:
		m.revenue = cost.Mul(dec(0.20))
	case domain.ActionConvert:
		m.revenue = cost.Mul(dec(0.10))
	case domain.ActionExpand:
		if ref.AnnualCostNoCap.IsPositive() && v.ExpenditureType == domain.ExpenditureSALT {
			m.revenue = ref.AnnualCostNoCap.Sub(cost).Neg()
		} else {
			m.revenue = cost.Mul(dec(0.20)).Neg()
		}
	default:
		return model{}, domain.NewPolicyError("", "action", "unknown action "+string(v.Action))
	}
	return m, nil
}

// tcjaModel costs the extension year by year from its component paths.
// The calibration already carries the behavioral response, so k stays zero.
func tcjaModel(p domain.Policy, v domain.TCJAExtension) model {
	return model{
		perYear: func(by domain.BaselineYear) (decimal.Decimal, decimal.Decimal) {
			return v.AnnualCost(p.YearsSinceStart(by.Year)).Neg(), decimal.Zero
		},
	}
}

func spendingModel(v domain.Spending) model {
	return model{
		spending:           v.AnnualChange,
		growth:             v.GrowthRate,
		oneTime:            v.IsOneTime,
		spendingMultiplier: v.GDPMultiplier,
	}
}

// New beneficiaries cost the program's average per-beneficiary outlay,
// approximated as program cost over 60 million.
var programBeneficiaries = dec(60)

func transferModel(v domain.Transfer) model {
	m := model{}
	if v.AnnualCostChange != nil {
		m.spending = *v.AnnualCostChange
		return m
	}
	m.perYear = func(by domain.BaselineYear) (decimal.Decimal, decimal.Decimal) {
		cost := by.ProgramCost(v.Program)
		spend := v.BenefitChangePercent.Mul(cost).
			Add(cost.Div(programBeneficiaries).Mul(v.NewBeneficiariesMillions))
		return decimal.Zero, spend
	}
	return m
}
