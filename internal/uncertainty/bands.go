// Package uncertainty produces low/high ranges around a central estimate.
package uncertainty

import (
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Config holds the band parameters.
type Config struct {
	BaseWidth     decimal.Decimal
	WidthPerYear  decimal.Decimal
	TaxFactor     decimal.Decimal
	OtherFactor   decimal.Decimal
	DynamicFactor decimal.Decimal
	LowSkew       decimal.Decimal
	HighSkew      decimal.Decimal
}

// DefaultConfig returns a 10% first-year band widening two points a year.
// Tax estimates are wider than outlay estimates, and dynamic ones wider still.
func DefaultConfig() Config {
	return Config{
		BaseWidth:     decimal.NewFromFloat(0.10),
		WidthPerYear:  decimal.NewFromFloat(0.02),
		TaxFactor:     decimal.NewFromFloat(1.2),
		OtherFactor:   decimal.NewFromFloat(0.8),
		DynamicFactor: decimal.NewFromFloat(1.5),
		LowSkew:       decimal.NewFromFloat(0.9),
		HighSkew:      decimal.NewFromFloat(1.1),
	}
}

var one = decimal.NewFromInt(1)

// Width returns the relative band width for 0-based year index i.
func (c Config) Width(i int, kind domain.Kind, dynamic bool) decimal.Decimal {
	w := c.BaseWidth.Add(c.WidthPerYear.Mul(decimal.NewFromInt(int64(i))))
	if kind.IsTax() {
		w = w.Mul(c.TaxFactor)
	} else {
		w = w.Mul(c.OtherFactor)
	}
	if dynamic {
		w = w.Mul(c.DynamicFactor)
	}
	return w
}

// Band returns the low and high paths around central. The band is skewed
// upward, and for negative central values the ends are swapped so that
// low <= central <= high in every year.
func (c Config) Band(central []decimal.Decimal, kind domain.Kind, dynamic bool) (low, high []decimal.Decimal) {
	low = make([]decimal.Decimal, len(central))
	high = make([]decimal.Decimal, len(central))
	for i, v := range central {
		w := c.Width(i, kind, dynamic)
		lo := v.Mul(one.Sub(c.LowSkew.Mul(w)))
		hi := v.Mul(one.Add(c.HighSkew.Mul(w)))
		if lo.GreaterThan(hi) {
			lo, hi = hi, lo
		}
		low[i], high[i] = lo, hi
	}
	return low, high
}

// Band applies DefaultConfig.
func Band(central []decimal.Decimal, kind domain.Kind, dynamic bool) (low, high []decimal.Decimal) {
	return DefaultConfig().Band(central, kind, dynamic)
}
