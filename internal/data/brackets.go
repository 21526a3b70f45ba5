// Package data provides the reference data consumed by the scoring core:
// IRS Statistics of Income brackets, the budget baseline, and income group
// tables. Each provider reports missing data with domain.ErrDataUnavailable.
package data

import (
	"fmt"
	"sort"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Bracket is one AGI row of an SOI table. Floor and Ceiling are in dollars;
// aggregates are in billions. A nil Ceiling marks the open-ended top row.
type Bracket struct {
	Floor         decimal.Decimal
	Ceiling       *decimal.Decimal
	Returns       decimal.Decimal
	TotalAGI      decimal.Decimal
	TaxableIncome decimal.Decimal
	TotalTax      decimal.Decimal
	// WageShare is the share of AGI received as wages and salaries.
	WageShare decimal.Decimal
}

// AvgAGI is the average AGI per return in dollars.
func (b Bracket) AvgAGI() decimal.Decimal {
	if !b.Returns.IsPositive() {
		return b.Floor
	}
	return b.TotalAGI.Mul(domain.Billion).Div(b.Returns)
}

// FilerStats aggregates the filers above an income threshold.
type FilerStats struct {
	Filers             decimal.Decimal
	AvgAGI             decimal.Decimal
	AvgTaxableIncome   decimal.Decimal
	TotalAGI           decimal.Decimal
	TotalTaxableIncome decimal.Decimal
	TotalTax           decimal.Decimal
	EffectiveTaxRate   decimal.Decimal
}

// FilersMillions returns the filer count in millions.
func (s FilerStats) FilersMillions() decimal.Decimal {
	return s.Filers.Div(domain.Million)
}

// BracketProvider looks up filers by income threshold.
type BracketProvider interface {
	FilersAbove(year int, threshold decimal.Decimal) (FilerStats, error)
	Brackets(year int) ([]Bracket, error)
	Years() []int
}

// SOITable is an in-memory BracketProvider keyed by tax year.
type SOITable struct {
	byYear map[int][]Bracket
}

// NewSOITable builds a provider from bracket rows per year.
func NewSOITable(rows map[int][]Bracket) *SOITable {
	byYear := make(map[int][]Bracket, len(rows))
	for year, brackets := range rows {
		sorted := append([]Bracket(nil), brackets...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Floor.LessThan(sorted[j].Floor) })
		byYear[year] = sorted
	}
	return &SOITable{byYear: byYear}
}

// Years lists the tax years available, ascending.
func (t *SOITable) Years() []int {
	years := make([]int, 0, len(t.byYear))
	for y := range t.byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Brackets returns the rows for year.
func (t *SOITable) Brackets(year int) ([]Bracket, error) {
	rows, ok := t.byYear[year]
	if !ok || len(rows) == 0 {
		return nil, domain.NewDataError("irs_soi", year, fmt.Sprintf("no bracket table (available: %v)", t.Years()))
	}
	return rows, nil
}

// FilersAbove aggregates filers with AGI above threshold. Rows straddling the
// threshold contribute the share of their width above it; the open-ended top
// row uses its average AGI instead of a ceiling. It fails with
// ErrDataUnavailable when no row covers the threshold.
func (t *SOITable) FilersAbove(year int, threshold decimal.Decimal) (FilerStats, error) {
	rows, err := t.Brackets(year)
	if err != nil {
		return FilerStats{}, err
	}
	threshold = decimal.Max(threshold, decimal.Zero)

	var stats FilerStats
	for _, b := range rows {
		share := ShareAboveThreshold(b, threshold)
		if !share.IsPositive() {
			continue
		}
		stats.Filers = stats.Filers.Add(b.Returns.Mul(share))
		stats.TotalAGI = stats.TotalAGI.Add(b.TotalAGI.Mul(share))
		stats.TotalTaxableIncome = stats.TotalTaxableIncome.Add(b.TaxableIncome.Mul(share))
		stats.TotalTax = stats.TotalTax.Add(b.TotalTax.Mul(share))
	}

	if !stats.Filers.IsPositive() {
		return FilerStats{}, domain.NewDataError("irs_soi", year,
			fmt.Sprintf("no bracket covers threshold $%s", threshold.StringFixed(0)))
	}

	stats.AvgAGI = stats.TotalAGI.Mul(domain.Billion).Div(stats.Filers)
	stats.AvgTaxableIncome = stats.TotalTaxableIncome.Mul(domain.Billion).Div(stats.Filers)
	if stats.TotalAGI.IsPositive() {
		stats.EffectiveTaxRate = stats.TotalTax.Div(stats.TotalAGI)
	}
	return stats, nil
}

// ShareAboveThreshold returns the fraction of a bracket's filers above threshold.
func ShareAboveThreshold(b Bracket, threshold decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if threshold.LessThanOrEqual(b.Floor) {
		return one
	}
	if b.Ceiling != nil {
		if threshold.GreaterThanOrEqual(*b.Ceiling) {
			return decimal.Zero
		}
		width := decimal.Max(b.Ceiling.Sub(b.Floor), one)
		return clamp01(b.Ceiling.Sub(threshold).Div(width))
	}

	avg := b.AvgAGI()
	if avg.LessThanOrEqual(threshold) {
		return decimal.Zero
	}
	denom := decimal.Max(avg.Sub(b.Floor), one)
	return clamp01(avg.Sub(threshold).Div(denom))
}

func clamp01(v decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(v, decimal.Zero), decimal.NewFromInt(1))
}
