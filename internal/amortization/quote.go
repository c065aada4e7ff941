package amortization

import (
	"errors"

	"buildledger/internal/money"
)

// UndeterminedDisplay is shown in place of an amount when the terms are
// incomplete or inconsistent.
const UndeterminedDisplay = "Cannot calculate"

// Quote is the live result shown while terms are being entered. It never
// fails: invalid terms produce an undetermined quote with a reason.
type Quote struct {
	Determined      bool    `json:"determined"`
	Cadence         Cadence `json:"cadence"`
	PeriodicPayment float64 `json:"periodic_payment"`
	Display         string  `json:"display"`
	Reason          string  `json:"reason,omitempty"`
	Periods         float64 `json:"periods"`
	TotalYears      float64 `json:"total_years"`
	RepaymentYears  float64 `json:"repayment_years"`
	TotalPaid       float64 `json:"total_paid"`
	MoneyMultiple   float64 `json:"money_multiple"`
	TotalReturn     float64 `json:"total_return"`
}

// NewQuote evaluates t for display.
func NewQuote(t Terms) Quote {
	q := Quote{Cadence: t.cadence()}

	b, err := t.breakdown()
	if err != nil {
		return undetermined(q, err)
	}
	multiple, totalReturn, err := MoneyMultiple(t)
	if err != nil {
		return undetermined(q, err)
	}

	q.Determined = true
	q.PeriodicPayment = money.Round2(b.payment)
	q.Display = money.Format(b.payment)
	q.Periods = b.periods
	q.TotalYears = b.totalYears
	q.RepaymentYears = b.repaymentYears
	q.TotalPaid = money.Round2(b.payment * b.periods)
	q.MoneyMultiple = multiple
	q.TotalReturn = money.Round2(totalReturn)
	return q
}

func undetermined(q Quote, err error) Quote {
	q.Display = UndeterminedDisplay
	var ite *InvalidTermsError
	if errors.As(err, &ite) {
		q.Reason = ite.Reason
	}
	return q
}
