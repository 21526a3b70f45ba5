// Package macro estimates the GDP, employment and budget feedback of a
// deficit shock with a decaying fiscal multiplier and crowding-out.
package macro

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Config holds the macro parameters.
type Config struct {
	SpendingMultiplier    decimal.Decimal
	TaxCutMultiplier      decimal.Decimal
	TaxIncreaseMultiplier decimal.Decimal
	MultiplierDecay       decimal.Decimal
	OkunCoefficient       decimal.Decimal
	MarginalRevenueRate   decimal.Decimal
	CrowdingOut           decimal.Decimal
	// LaborForce is the number of workers.
	LaborForce decimal.Decimal
}

// DefaultConfig returns the calibrated parameters.
func DefaultConfig() Config {
	return Config{
		SpendingMultiplier:    decimal.NewFromFloat(1.4),
		TaxCutMultiplier:      decimal.NewFromFloat(0.7),
		TaxIncreaseMultiplier: decimal.NewFromFloat(-0.7),
		MultiplierDecay:       decimal.NewFromFloat(0.75),
		OkunCoefficient:       decimal.NewFromFloat(0.5),
		MarginalRevenueRate:   decimal.NewFromFloat(0.25),
		CrowdingOut:           decimal.NewFromFloat(0.15),
		LaborForce:            decimal.NewFromInt(160_000_000),
	}
}

// Adapter runs the macro feedback recurrence.
type Adapter struct {
	cfg Config
}

// NewAdapter returns an Adapter using cfg.
func NewAdapter(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

// Config returns the adapter parameters.
func (a *Adapter) Config() Config {
	return a.cfg
}

// WithSpendingMultiplier returns a copy of the adapter using m for spending shocks.
func (a *Adapter) WithSpendingMultiplier(m decimal.Decimal) *Adapter {
	cfg := a.cfg
	cfg.SpendingMultiplier = m
	return &Adapter{cfg: cfg}
}

// BaseMultiplier selects the year-one multiplier for a shock. Its sign
// follows the direction of the stimulus and is applied to the shock's
// magnitude. A positive tax shock raises the deficit and is a tax cut; a
// negative one is a tax increase. Spending and transfer cuts are contractionary.
func (a *Adapter) BaseMultiplier(kind domain.Kind, shock decimal.Decimal) decimal.Decimal {
	if !kind.IsTax() {
		if shock.IsNegative() {
			return a.cfg.SpendingMultiplier.Neg()
		}
		return a.cfg.SpendingMultiplier
	}
	if shock.IsNegative() {
		return a.cfg.TaxIncreaseMultiplier
	}
	return a.cfg.TaxCutMultiplier
}

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1_000)
	one      = decimal.NewFromInt(1)
)

// state is carried between years of the recurrence.
type state struct {
	cumulativeDeficit decimal.Decimal
	decay             decimal.Decimal
}

// yearOutput is one year of macro effects.
type yearOutput struct {
	gdpLevel  decimal.Decimal
	gdpPct    decimal.Decimal
	empPct    decimal.Decimal
	jobs      decimal.Decimal
	feedback  decimal.Decimal
	interest  decimal.Decimal
	cumDefEnd decimal.Decimal
}

// step advances the recurrence by one year. shock is in deficit terms.
func (a *Adapter) step(s state, kind domain.Kind, shock decimal.Decimal, by domain.BaselineYear) (state, yearOutput, error) {
	if !by.GDP.IsPositive() {
		return s, yearOutput{}, &domain.DegenerateError{Quantity: "GDP", Year: by.Year}
	}

	multiplier := a.BaseMultiplier(kind, shock).Mul(s.decay)
	gross := shock.Abs().Mul(multiplier)

	crowding := decimal.Min(one, a.cfg.CrowdingOut.Mul(s.cumulativeDeficit).Div(thousand))
	net := gross.Mul(one.Sub(crowding))

	gdpPct := net.Div(by.GDP).Mul(hundred)
	empPct := gdpPct.Mul(a.cfg.OkunCoefficient)
	feedback := net.Mul(a.cfg.MarginalRevenueRate)
	cumDef := s.cumulativeDeficit.Add(shock).Sub(feedback)

	out := yearOutput{
		gdpLevel:  net,
		gdpPct:    gdpPct,
		empPct:    empPct,
		jobs:      empPct.Div(hundred).Mul(a.cfg.LaborForce).Div(thousand),
		feedback:  feedback,
		interest:  cumDef.Mul(a.cfg.CrowdingOut),
		cumDefEnd: cumDef,
	}
	next := state{cumulativeDeficit: cumDef, decay: s.decay.Mul(a.cfg.MultiplierDecay)}
	return next, out, nil
}

// Run folds step over the horizon. shock is the per-year deficit effect
// before feedback, aligned with baseline.Years. Years depend on the prior
// year's cumulative deficit and are evaluated in order.
func (a *Adapter) Run(shock []decimal.Decimal, baseline domain.Baseline, kind domain.Kind) (*domain.DynamicEffects, error) {
	if len(shock) != baseline.Len() {
		return nil, fmt.Errorf("macro: shock covers %d years, baseline %d", len(shock), baseline.Len())
	}

	n := len(shock)
	fx := &domain.DynamicEffects{
		GDPLevel:            make([]decimal.Decimal, n),
		GDPPercent:          make([]decimal.Decimal, n),
		EmploymentPercent:   make([]decimal.Decimal, n),
		EmploymentThousands: make([]decimal.Decimal, n),
		RevenueFeedback:     make([]decimal.Decimal, n),
		InterestCost:        make([]decimal.Decimal, n),
		CumulativeDeficit:   make([]decimal.Decimal, n),
	}

	s := state{cumulativeDeficit: decimal.Zero, decay: one}
	for i, by := range baseline.Years {
		next, out, err := a.step(s, kind, shock[i], by)
		if err != nil {
			return nil, fmt.Errorf("macro feedback: %w", err)
		}
		fx.GDPLevel[i] = out.gdpLevel
		fx.GDPPercent[i] = out.gdpPct
		fx.EmploymentPercent[i] = out.empPct
		fx.EmploymentThousands[i] = out.jobs
		fx.RevenueFeedback[i] = out.feedback
		fx.InterestCost[i] = out.interest
		fx.CumulativeDeficit[i] = out.cumDefEnd
		s = next
	}

	fx.NetBudgetEffect = domain.Sum(fx.RevenueFeedback).Sub(domain.Sum(fx.InterestCost))
	return fx, nil
}
