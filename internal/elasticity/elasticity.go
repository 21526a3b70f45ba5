// Package elasticity computes behavioral offsets to static revenue estimates.
//
// Offsets are expressed in deficit terms, like the static deficit they adjust:
// a positive offset increases the deficit. For every channel the offset points
// against the static effect, so a tax increase loses part of its revenue gain
// and a tax cut recovers part of its revenue loss.
package elasticity

import (
	"github.com/shopspring/decimal"
)

// DefaultETI is the elasticity of taxable income used when a policy does not set one.
var DefaultETI = decimal.NewFromFloat(0.25)

var half = decimal.NewFromFloat(0.5)

// ETIOffset returns -eti * 0.5 * staticDeficit.
func ETIOffset(staticDeficit, eti decimal.Decimal) decimal.Decimal {
	return OpposingOffset(staticDeficit, eti.Mul(half))
}

// OpposingOffset returns -k * staticDeficit. With k >= 0 the result never
// shares the sign of the static effect.
func OpposingOffset(staticDeficit, k decimal.Decimal) decimal.Decimal {
	return staticDeficit.Mul(k).Neg()
}
