package data

import (
	"fmt"
	"sort"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// GainsBracket is net capital gain for one AGI bracket, in billions.
// A nil Ceiling marks the open-ended top bracket.
type GainsBracket struct {
	Floor   decimal.Decimal
	Ceiling *decimal.Decimal
	NetGain decimal.Decimal
}

// GainsBaseline is the realizations base above an AGI threshold and the
// gain-weighted effective rate on it.
type GainsBaseline struct {
	Year          int
	Threshold     decimal.Decimal
	Realizations  decimal.Decimal
	EffectiveRate decimal.Decimal
}

// GainsProvider estimates the capital gains base for policies that leave
// realizations unset.
type GainsProvider interface {
	GainsAbove(year int, threshold decimal.Decimal) (GainsBaseline, error)
}

// GainsTable holds net capital gain by AGI bracket for a reference year and
// aggregate realization totals used to scale it to later years.
type GainsTable struct {
	referenceYear int
	brackets      []GainsBracket
	totals        map[int]decimal.Decimal
}

// NewGainsTable builds a table from reference-year brackets and aggregate
// realizations per year. totals must include referenceYear for any other
// year to be served.
func NewGainsTable(referenceYear int, brackets []GainsBracket, totals map[int]decimal.Decimal) *GainsTable {
	sorted := append([]GainsBracket(nil), brackets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Floor.LessThan(sorted[j].Floor) })
	return &GainsTable{referenceYear: referenceYear, brackets: sorted, totals: totals}
}

// Years lists the years the table can serve, ascending.
func (t *GainsTable) Years() []int {
	years := []int{t.referenceYear}
	if _, ok := t.totals[t.referenceYear]; ok {
		for y := range t.totals {
			if y != t.referenceYear {
				years = append(years, y)
			}
		}
	}
	sort.Ints(years)
	return years
}

// Brackets returns net gains by bracket for year. Years other than the
// reference year keep the reference distribution and scale it by the ratio
// of aggregate realizations.
func (t *GainsTable) Brackets(year int) ([]GainsBracket, error) {
	if year == t.referenceYear {
		return t.brackets, nil
	}
	ref, okRef := t.totals[t.referenceYear]
	total, ok := t.totals[year]
	if !ok || !okRef || !ref.IsPositive() {
		return nil, domain.NewDataError("capital_gains", year, fmt.Sprintf("no realizations data (available: %v)", t.Years()))
	}
	ratio := total.Div(ref)
	out := make([]GainsBracket, len(t.brackets))
	for i, b := range t.brackets {
		out[i] = GainsBracket{Floor: b.Floor, Ceiling: b.Ceiling, NetGain: b.NetGain.Mul(ratio)}
	}
	return out, nil
}

// GainsAbove sums brackets whose floor is at or above threshold. A bracket
// straddling the threshold is left out entirely. The effective rate weights
// a statutory proxy per bracket by its net gain.
func (t *GainsTable) GainsAbove(year int, threshold decimal.Decimal) (GainsBaseline, error) {
	brackets, err := t.Brackets(year)
	if err != nil {
		return GainsBaseline{}, err
	}

	out := GainsBaseline{Year: year, Threshold: threshold}
	var weighted, positive decimal.Decimal
	found := false
	for _, b := range brackets {
		if b.Floor.LessThan(threshold) {
			continue
		}
		found = true
		out.Realizations = out.Realizations.Add(b.NetGain)
		g := decimal.Max(b.NetGain, decimal.Zero)
		positive = positive.Add(g)
		weighted = weighted.Add(g.Mul(statutoryGainsRate(b)))
	}
	if !found {
		return GainsBaseline{}, domain.NewDataError("capital_gains", year,
			fmt.Sprintf("no bracket at or above $%s", threshold.StringFixed(0)))
	}

	out.EffectiveRate = decimal.NewFromFloat(0.20)
	if positive.IsPositive() {
		out.EffectiveRate = weighted.Div(positive)
	}
	return out, nil
}

var (
	niitFloor    = decimal.NewFromInt(200_000)
	zeroRateTop  = decimal.NewFromInt(50_000)
	fifteenTop   = decimal.NewFromInt(500_000)
	niitRate     = decimal.NewFromFloat(0.038)
	midGainsRate = decimal.NewFromFloat(0.15)
	topGainsRate = decimal.NewFromFloat(0.20)
)

// statutoryGainsRate approximates the long-term gains rate plus net
// investment income tax from the bracket bounds, ignoring filing status.
func statutoryGainsRate(b GainsBracket) decimal.Decimal {
	rate := topGainsRate
	if b.Ceiling != nil {
		switch {
		case b.Ceiling.LessThanOrEqual(zeroRateTop):
			rate = decimal.Zero
		case b.Ceiling.LessThanOrEqual(fifteenTop):
			rate = midGainsRate
		}
	}
	if b.Floor.GreaterThanOrEqual(niitFloor) {
		rate = rate.Add(niitRate)
	}
	return rate
}

type gainsRow struct {
	floor, ceiling float64 // ceiling 0 marks the open-ended row
	netGain        float64
}

// IRS SOI preliminary Table 1, tax year 2022: net capital gain by AGI, in
// billions.
var gains2022 = []gainsRow{
	{0, 15_000, 12},
	{15_000, 30_000, 10},
	{30_000, 50_000, 17},
	{50_000, 100_000, 58},
	{100_000, 200_000, 112},
	{200_000, 500_000, 165},
	{500_000, 1_000_000, 128},
	{1_000_000, 0, 648},
}

// Aggregate realized gains, billions.
var realizedGains = map[int]float64{
	2022: 1_150,
	2023: 1_010,
	2024: 1_180,
}

// DefaultGainsTable returns the embedded capital gains baseline.
func DefaultGainsTable() *GainsTable {
	brackets := make([]GainsBracket, len(gains2022))
	for i, r := range gains2022 {
		b := GainsBracket{Floor: decimal.NewFromFloat(r.floor), NetGain: decimal.NewFromFloat(r.netGain)}
		if r.ceiling > 0 {
			c := decimal.NewFromFloat(r.ceiling)
			b.Ceiling = &c
		}
		brackets[i] = b
	}
	totals := make(map[int]decimal.Decimal, len(realizedGains))
	for y, v := range realizedGains {
		totals[y] = decimal.NewFromFloat(v)
	}
	return NewGainsTable(DefaultSOIYear, brackets, totals)
}
