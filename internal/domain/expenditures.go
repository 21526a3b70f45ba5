package domain

import "github.com/shopspring/decimal"

// ExpenditureData is the JCT reference estimate for one tax expenditure.
type ExpenditureData struct {
	AnnualCost       decimal.Decimal // billions per year, current law
	AnnualCostNoCap  decimal.Decimal // billions per year without statutory limits; zero when not applicable
	AffectedMillions decimal.Decimal
	AvgBenefit       decimal.Decimal // dollars per affected filer
	GrowthRate       decimal.Decimal
	Elasticity       decimal.Decimal
}

func expenditure(cost, noCap, affected, benefit, growth, elasticity float64) ExpenditureData {
	return ExpenditureData{
		AnnualCost:       decimal.NewFromFloat(cost),
		AnnualCostNoCap:  decimal.NewFromFloat(noCap),
		AffectedMillions: decimal.NewFromFloat(affected),
		AvgBenefit:       decimal.NewFromFloat(benefit),
		GrowthRate:       decimal.NewFromFloat(growth),
		Elasticity:       decimal.NewFromFloat(elasticity),
	}
}

// ExpenditureCatalog holds 2024 JCT tax expenditure estimates.
var ExpenditureCatalog = map[ExpenditureType]ExpenditureData{
	ExpenditureEmployerHealth: expenditure(250, 0, 155, 1_600, 0.04, 0.2),
	ExpenditureRetirement401k: expenditure(251, 0, 70, 3_600, 0.03, 0.3),
	ExpenditureRetirementDB:   expenditure(122, 0, 35, 3_500, 0.02, 0.3),
	ExpenditureRetirementIRA:  expenditure(27, 0, 50, 540, 0.03, 0.3),
	ExpenditureMortgage:       expenditure(25, 100, 20, 1_250, 0.03, 0.1),
	ExpenditureSALT:           expenditure(25, 120, 15, 1_700, 0.03, 0.05),
	ExpenditureCharitable:     expenditure(70, 0, 25, 2_800, 0.03, 0.4),
	ExpenditureCapitalGains:   expenditure(225, 0, 25, 9_000, 0.04, 0.2),
	ExpenditureStepUp:         expenditure(50, 0, 2.5, 20_000, 0.04, 0.2),
	ExpenditureLikeKind:       expenditure(7, 0, 0.5, 14_000, 0.03, 0.2),
}
