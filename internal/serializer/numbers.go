// Package serializer maps stored models to API responses and computes the
// derived fields (growth rates, daily changes, market aggregates).
//
// Absent numbers stay nil all the way to JSON; a stored 0 is a value and is
// emitted as 0.
package serializer

import "github.com/shopspring/decimal"

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// PercentChange returns (current - previous) / previous * 100 rounded to two
// decimals, or nil when either side is missing or previous is zero.
func PercentChange(current, previous *float64) *float64 {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	cur := decimal.NewFromFloat(*current)
	prev := decimal.NewFromFloat(*previous)
	pct := cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	return &pct
}

// Growth is the year-over-year change of a metric in percent.
func Growth(latest, previous *float64) *float64 {
	return PercentChange(latest, previous)
}

// Difference returns current - previous, or nil when either is missing.
func Difference(current, previous *float64) *float64 {
	if current == nil || previous == nil {
		return nil
	}
	d := decimal.NewFromFloat(*current).Sub(decimal.NewFromFloat(*previous)).InexactFloat64()
	return &d
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}
