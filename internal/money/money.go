// Package money implements the amount arithmetic rules shared by budgets
// and the transaction ledger.
package money

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Tolerance is the acceptance window used when checking an amount against a
// limit. It absorbs the floating point rounding of clients that compute
// amounts as binary floats before submitting them.
var Tolerance = decimal.New(1, -6)

// RoundCents rounds an amount to whole cents, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FloorCents rounds an amount down to whole cents.
func FloorCents(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Floor().Div(hundred)
}

// NonNegative clamps an amount to zero if it is negative.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

// WithinLimit reports whether amount <= limit + Tolerance.
func WithinLimit(amount, limit decimal.Decimal) bool {
	return amount.LessThanOrEqual(limit.Add(Tolerance))
}
