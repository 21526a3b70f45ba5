package data

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// GroupBound is a named income range in dollars. A nil Ceiling is open-ended.
type GroupBound struct {
	Name    string
	Floor   decimal.Decimal
	Ceiling *decimal.Decimal
}

// GroupProvider returns the income groups for a grouping scheme.
type GroupProvider interface {
	Groups(scheme domain.GroupScheme, custom []GroupBound) ([]domain.IncomeGroup, error)
}

type namedRange struct {
	name           string
	floor, ceiling int64 // ceiling 0 marks the open-ended group
}

var schemeRanges = map[domain.GroupScheme][]namedRange{
	domain.SchemeQuintile: {
		{"Lowest Quintile", 0, 35_000},
		{"Second Quintile", 35_000, 65_000},
		{"Middle Quintile", 65_000, 105_000},
		{"Fourth Quintile", 105_000, 170_000},
		{"Top Quintile", 170_000, 0},
	},
	domain.SchemeDecile: {
		{"1st Decile", 0, 15_000},
		{"2nd Decile", 15_000, 28_000},
		{"3rd Decile", 28_000, 42_000},
		{"4th Decile", 42_000, 55_000},
		{"5th Decile", 55_000, 72_000},
		{"6th Decile", 72_000, 92_000},
		{"7th Decile", 92_000, 118_000},
		{"8th Decile", 118_000, 155_000},
		{"9th Decile", 155_000, 220_000},
		{"10th Decile", 220_000, 0},
	},
	domain.SchemeJCTDollar: {
		{"Less than $10K", 0, 10_000},
		{"$10K-$20K", 10_000, 20_000},
		{"$20K-$30K", 20_000, 30_000},
		{"$30K-$40K", 30_000, 40_000},
		{"$40K-$50K", 40_000, 50_000},
		{"$50K-$75K", 50_000, 75_000},
		{"$75K-$100K", 75_000, 100_000},
		{"$100K-$200K", 100_000, 200_000},
		{"$200K-$500K", 200_000, 500_000},
		{"$500K-$1M", 500_000, 1_000_000},
		{"$1M and over", 1_000_000, 0},
	},
	domain.SchemeTopIncome: {
		{"Bottom 80%", 0, 170_000},
		{"80th-90th Percentile", 170_000, 215_000},
		{"90th-95th Percentile", 215_000, 335_000},
		{"95th-99th Percentile", 335_000, 800_000},
		{"Top 1% (excl. 0.1%)", 800_000, 3_500_000},
		{"Top 0.1%", 3_500_000, 0},
	},
}

// SchemeBounds returns the fixed bounds of a built-in scheme.
func SchemeBounds(scheme domain.GroupScheme) ([]GroupBound, error) {
	ranges, ok := schemeRanges[scheme]
	if !ok {
		return nil, domain.NewDataError("income_groups", 0, fmt.Sprintf("unknown grouping scheme %q", scheme))
	}
	out := make([]GroupBound, len(ranges))
	for i, r := range ranges {
		out[i] = GroupBound{Name: r.name, Floor: decimal.NewFromInt(r.floor)}
		if r.ceiling > 0 {
			c := decimal.NewFromInt(r.ceiling)
			out[i].Ceiling = &c
		}
	}
	return out, nil
}

// CustomBound builds a bound named "$xK-$yK", or "$xK+" when ceiling is nil.
func CustomBound(floor decimal.Decimal, ceiling *decimal.Decimal) GroupBound {
	k := decimal.NewFromInt(1_000)
	name := fmt.Sprintf("$%sK+", floor.Div(k).StringFixed(0))
	if ceiling != nil {
		name = fmt.Sprintf("$%sK-$%sK", floor.Div(k).StringFixed(0), ceiling.Div(k).StringFixed(0))
	}
	return GroupBound{Name: name, Floor: floor, Ceiling: ceiling}
}

// SOIGroups aggregates SOI brackets into income groups.
type SOIGroups struct {
	table *SOITable
	year  int
}

// NewSOIGroups builds a group provider over year's brackets in table.
func NewSOIGroups(table *SOITable, year int) *SOIGroups {
	return &SOIGroups{table: table, year: year}
}

// Groups aggregates brackets into the scheme's groups. A bracket is split
// across the groups it overlaps in proportion to the overlapping width; the
// open-ended top bracket goes to the group containing its average AGI.
func (s *SOIGroups) Groups(scheme domain.GroupScheme, custom []GroupBound) ([]domain.IncomeGroup, error) {
	var bounds []GroupBound
	if scheme == domain.SchemeCustom {
		if len(custom) == 0 {
			return nil, domain.NewPolicyError("", "custom_brackets", "required for the custom scheme")
		}
		bounds = custom
	} else {
		var err error
		if bounds, err = SchemeBounds(scheme); err != nil {
			return nil, err
		}
	}

	brackets, err := s.table.Brackets(s.year)
	if err != nil {
		return nil, err
	}

	totalReturns := decimal.Zero
	for _, b := range brackets {
		totalReturns = totalReturns.Add(b.Returns)
	}
	if !totalReturns.IsPositive() {
		return nil, domain.NewDataError("income_groups", s.year, "bracket table has no returns")
	}

	groups := make([]domain.IncomeGroup, len(bounds))
	for i, gb := range bounds {
		g := domain.IncomeGroup{Name: gb.Name, Floor: gb.Floor, Ceiling: gb.Ceiling}
		for _, b := range brackets {
			frac := overlapFraction(b, gb)
			if !frac.IsPositive() {
				continue
			}
			agi := b.TotalAGI.Mul(frac)
			g.Returns = g.Returns.Add(b.Returns.Mul(frac))
			g.TotalAGI = g.TotalAGI.Add(agi)
			g.TaxableIncome = g.TaxableIncome.Add(b.TaxableIncome.Mul(frac))
			g.BaselineTax = g.BaselineTax.Add(b.TotalTax.Mul(frac))
			g.Wages = g.Wages.Add(agi.Mul(b.WageShare))
			g.CapitalIncome = g.CapitalIncome.Add(agi.Mul(decimal.NewFromInt(1).Sub(b.WageShare)))
		}
		g.PopulationShare = g.Returns.Div(totalReturns)
		groups[i] = g
	}
	return groups, nil
}

// ReturnsAbove counts the returns in bound with AGI above threshold. Each
// bracket contributes the part of its overlap with bound that lies above
// threshold, with filers spread evenly across a bounded bracket. The
// open-ended top bracket uses ShareAboveThreshold.
func (s *SOIGroups) ReturnsAbove(bound GroupBound, threshold decimal.Decimal) (decimal.Decimal, error) {
	brackets, err := s.table.Brackets(s.year)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, b := range brackets {
		if !overlapFraction(b, bound).IsPositive() {
			continue
		}
		if b.Ceiling == nil {
			total = total.Add(b.Returns.Mul(ShareAboveThreshold(b, threshold)))
			continue
		}
		width := b.Ceiling.Sub(b.Floor)
		if !width.IsPositive() {
			continue
		}
		hi := *b.Ceiling
		if bound.Ceiling != nil {
			hi = decimal.Min(hi, *bound.Ceiling)
		}
		start := decimal.Max(decimal.Max(b.Floor, bound.Floor), threshold)
		if start.GreaterThanOrEqual(hi) {
			continue
		}
		total = total.Add(b.Returns.Mul(hi.Sub(start)).Div(width))
	}
	return total, nil
}

func overlapFraction(b Bracket, g GroupBound) decimal.Decimal {
	if b.Ceiling == nil {
		avg := b.AvgAGI()
		if avg.GreaterThanOrEqual(g.Floor) && (g.Ceiling == nil || avg.LessThan(*g.Ceiling)) {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	}

	start := decimal.Max(b.Floor, g.Floor)
	end := *b.Ceiling
	if g.Ceiling != nil {
		end = decimal.Min(end, *g.Ceiling)
	}
	if start.GreaterThanOrEqual(end) {
		return decimal.Zero
	}
	width := b.Ceiling.Sub(b.Floor)
	if !width.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return end.Sub(start).Div(width)
}
