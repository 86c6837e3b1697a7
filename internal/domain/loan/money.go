package loan

import (
	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// Precision is the rounding configuration for one calculation. It is passed
// by value into every computation; nothing in this package reads or mutates a
// package-level decimal setting.
type Precision struct {
	// Division is the number of fraction digits kept by non-terminating divisions.
	Division int32
	// Money is the number of fraction digits of persisted and presented amounts.
	Money int32
}

// DefaultPrecision keeps 16 fraction digits internally and 2 for money.
var DefaultPrecision = Precision{Division: 16, Money: 2}

// Div divides a by b. A zero divisor yields zero.
func (p Precision) Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, p.Division)
}

// Round rounds half away from zero (HALF_UP) to the money scale.
func (p Precision) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(p.Money)
}

// Format renders d at the money scale, e.g. "1120.00".
func (p Precision) Format(d decimal.Decimal) string {
	return d.StringFixed(p.Money)
}

// TotalObligation is principal plus simple interest over the term:
// principal + principal * (rate/100) * (term/12), at full precision.
func (p Precision) TotalObligation(principal, ratePct decimal.Decimal, termMonths int) decimal.Decimal {
	interest := p.Div(
		principal.Mul(ratePct).Mul(decimal.NewFromInt(int64(termMonths))),
		hundred.Mul(monthsInYear),
	)
	return principal.Add(interest)
}

// HasMaxPlaces reports whether d has at most places fraction digits.
func HasMaxPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
