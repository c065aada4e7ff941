// Package money does ledger arithmetic on float64 amounts through decimal
// values so repeated add/subtract cycles do not accumulate binary drift.
package money

import (
	"github.com/shopspring/decimal"
)

// CentPlaces is the number of decimal places amounts are displayed with.
const CentPlaces = 2

// Add returns a + b.
func Add(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}

// Sub returns a - b.
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
}

// SubFloor returns a - b, floored at zero.
func SubFloor(a, b float64) float64 {
	d := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b))
	if d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

// Sum adds all amounts.
func Sum(amounts []float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.InexactFloat64()
}

// Round2 rounds to cents, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(CentPlaces).InexactFloat64()
}

// Percent returns part as a percentage of whole, or 0 when whole is not positive.
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()
}

// Format renders v with thousands separators and two decimals, e.g. "1,933.28".
func Format(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(CentPlaces)

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	intPart, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i:]
			break
		}
	}

	out := make([]byte, 0, len(s)+len(intPart)/3)
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}

	if neg {
		return "-" + string(out) + frac
	}
	return string(out) + frac
}
