// Package money converts between stored cents and decimal amounts.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FromCents returns the decimal amount for a value stored in cents.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToCents rounds a decimal amount half away from zero to whole cents.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// Percent returns round(cents × rate / 100), rate given in percent.
func Percent(cents int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(cents).Mul(rate).Div(hundred).Round(0).IntPart()
}

// Float renders cents as a float for JSON payloads.
func Float(cents int64) float64 {
	return FromCents(cents).InexactFloat64()
}
