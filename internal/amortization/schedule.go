package amortization

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleEntry is one period of a repayment schedule.
type ScheduleEntry struct {
	Period           int       `json:"period"`
	DueDate          time.Time `json:"due_date"`
	Payment          float64   `json:"payment"`
	Interest         float64   `json:"interest"`
	Principal        float64   `json:"principal"`
	RemainingBalance float64   `json:"remaining_balance"`
}

// Schedule splits the periodic payment into interest and principal for each
// period. Fractional period counts are rounded to the nearest whole period
// (at least one); the first payment falls due one period after the grace
// period ends and the final entry absorbs rounding so the balance reaches zero.
func Schedule(t Terms) ([]ScheduleEntry, error) {
	b, err := t.breakdown()
	if err != nil {
		return nil, err
	}

	n := int(math.Round(b.periods))
	if n < 1 {
		n = 1
	}

	periodic := annuity(t.Principal, b.periodRate, float64(n))
	if !finite(periodic, periodic*float64(n)) {
		return nil, errOverflow
	}
	payment := decimal.NewFromFloat(periodic).Round(2)
	rate := decimal.NewFromFloat(b.periodRate)
	remaining := decimal.NewFromFloat(t.Principal)
	repaymentStart := t.StartDate.AddDate(0, 0, t.GracePeriodDays)

	entries := make([]ScheduleEntry, 0, n)
	for period := 1; period <= n; period++ {
		interest := remaining.Mul(rate).Round(2)
		principal := payment.Sub(interest)
		total := payment

		if period == n || principal.GreaterThan(remaining) {
			principal = remaining
			total = principal.Add(interest)
		}

		remaining = remaining.Sub(principal)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		entries = append(entries, ScheduleEntry{
			Period:           period,
			DueDate:          dueDate(repaymentStart, t.cadence(), period),
			Payment:          total.InexactFloat64(),
			Interest:         interest.InexactFloat64(),
			Principal:        principal.InexactFloat64(),
			RemainingBalance: remaining.InexactFloat64(),
		})

		if remaining.IsZero() {
			break
		}
	}

	return entries, nil
}

func dueDate(from time.Time, c Cadence, period int) time.Time {
	if c == CadenceYearly {
		return from.AddDate(period, 0, 0)
	}
	return from.AddDate(0, period, 0)
}
