package data

import (
	"github.com/shopspring/decimal"
)

// DefaultSOIYear is the most recent tax year with bracket data.
const DefaultSOIYear = 2022

type soiRow struct {
	floor, ceiling                   float64 // ceiling 0 marks the open-ended row
	returns, agi, taxable, tax, wage float64
}

// IRS SOI Table 1.1, tax year 2022. Returns in millions, aggregates in
// billions. Wage shares fall with income as capital income takes over.
var soi2022 = []soiRow{
	{1, 5_000, 8.5, 25, 5, 0.3, 0.80},
	{5_000, 10_000, 10.2, 76, 20, 0.8, 0.80},
	{10_000, 15_000, 10.8, 135, 45, 2.1, 0.80},
	{15_000, 20_000, 9.5, 166, 68, 3.8, 0.80},
	{20_000, 25_000, 8.2, 184, 82, 5.2, 0.80},
	{25_000, 30_000, 7.3, 201, 96, 7.1, 0.80},
	{30_000, 40_000, 12.5, 437, 230, 18.5, 0.78},
	{40_000, 50_000, 10.1, 455, 265, 24.2, 0.78},
	{50_000, 75_000, 18.2, 1_140, 720, 75, 0.76},
	{75_000, 100_000, 12.8, 1_100, 750, 90.5, 0.74},
	{100_000, 200_000, 21.5, 3_050, 2_200, 310, 0.70},
	{200_000, 500_000, 8.5, 2_550, 2_000, 380, 0.60},
	{500_000, 1_000_000, 1.8, 1_200, 1_000, 250, 0.45},
	{1_000_000, 1_500_000, 0.42, 510, 430, 120, 0.35},
	{1_500_000, 2_000_000, 0.18, 310, 270, 78, 0.30},
	{2_000_000, 5_000_000, 0.25, 750, 660, 195, 0.25},
	{5_000_000, 10_000_000, 0.065, 450, 400, 125, 0.20},
	{10_000_000, 0, 0.045, 850, 780, 260, 0.15},
}

func toBrackets(rows []soiRow) []Bracket {
	out := make([]Bracket, len(rows))
	for i, r := range rows {
		b := Bracket{
			Floor:         decimal.NewFromFloat(r.floor),
			Returns:       decimal.NewFromFloat(r.returns).Mul(decimal.NewFromInt(1_000_000)),
			TotalAGI:      decimal.NewFromFloat(r.agi),
			TaxableIncome: decimal.NewFromFloat(r.taxable),
			TotalTax:      decimal.NewFromFloat(r.tax),
			WageShare:     decimal.NewFromFloat(r.wage),
		}
		if r.ceiling > 0 {
			c := decimal.NewFromFloat(r.ceiling)
			b.Ceiling = &c
		}
		out[i] = b
	}
	return out
}

// DefaultSOITable returns the embedded SOI bracket table.
func DefaultSOITable() *SOITable {
	return NewSOITable(map[int][]Bracket{DefaultSOIYear: toBrackets(soi2022)})
}
