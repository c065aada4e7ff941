// Package amortization turns the terms of a financing commitment into a
// periodic payment and a projected money multiple.
//
// Everything here is pure: no I/O, no shared state, safe for concurrent use.
// Results are advisory; persisting them onto a commitment is the caller's call.
package amortization

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Cadence is how often a payment falls due.
type Cadence string

const (
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

const (
	// DefaultTermYears is the total term assumed when no maturity date is given.
	DefaultTermYears = 10.0
	// MinRepaymentYears floors the repayment span after the grace period is
	// removed. Kept for compatibility with figures already shown to users.
	MinRepaymentYears = 0.1
	// DaysPerYear converts grace-period days into years.
	DaysPerYear = 365.0
	// MonthsPerYear is the number of monthly periods in a year.
	MonthsPerYear = 12.0
)

// ErrInvalidTerms is matched by every *InvalidTermsError.
var ErrInvalidTerms = errors.New("invalid commitment terms")

// InvalidTermsError explains why a payment cannot be determined.
type InvalidTermsError struct {
	Reason string
}

func (e *InvalidTermsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidTerms.Error(), e.Reason)
}

// Is lets errors.Is(err, ErrInvalidTerms) match.
func (e *InvalidTermsError) Is(target error) bool {
	return target == ErrInvalidTerms
}

func invalid(format string, args ...any) error {
	return &InvalidTermsError{Reason: fmt.Sprintf(format, args...)}
}

// Terms are the inputs of a fixed-rate amortizing commitment.
type Terms struct {
	Principal         float64
	AnnualRatePercent float64
	StartDate         time.Time
	MaturityDate      *time.Time
	GracePeriodDays   int
	Cadence           Cadence
}

// breakdown holds the intermediate spans every calculation is derived from.
type breakdown struct {
	totalYears     float64
	repaymentYears float64
	periods        float64
	periodRate     float64
	annualRate     float64
	payment        float64
}

func (t Terms) cadence() Cadence {
	if t.Cadence == "" {
		return CadenceMonthly
	}
	return t.Cadence
}

// TotalYears is the full commitment term in years: the span from start to
// maturity, or DefaultTermYears when there is no maturity date.
func (t Terms) TotalYears() float64 {
	if t.MaturityDate == nil {
		return DefaultTermYears
	}
	return YearsBetween(t.StartDate, *t.MaturityDate)
}

// RepaymentYears is the term left after the grace period, never below
// MinRepaymentYears.
func (t Terms) RepaymentYears() float64 {
	graceYears := float64(t.GracePeriodDays) / DaysPerYear
	return math.Max(MinRepaymentYears, t.TotalYears()-graceYears)
}

func (t Terms) validate() error {
	if t.Principal <= 0 || math.IsNaN(t.Principal) || math.IsInf(t.Principal, 0) {
		return invalid("principal must be greater than zero")
	}
	if t.AnnualRatePercent < 0 || math.IsNaN(t.AnnualRatePercent) || math.IsInf(t.AnnualRatePercent, 0) {
		return invalid("annual rate must not be negative")
	}
	if t.GracePeriodDays < 0 {
		return invalid("grace period must not be negative")
	}
	switch t.cadence() {
	case CadenceMonthly, CadenceYearly:
	default:
		return invalid("unsupported cadence %q", t.Cadence)
	}
	if t.MaturityDate != nil && t.StartDate.IsZero() {
		return invalid("start date is required when a maturity date is set")
	}
	if t.TotalYears() <= 0 {
		return invalid("maturity date must be after start date")
	}
	return nil
}

func (t Terms) breakdown() (breakdown, error) {
	if err := t.validate(); err != nil {
		return breakdown{}, err
	}

	b := breakdown{
		totalYears:     t.TotalYears(),
		repaymentYears: t.RepaymentYears(),
		annualRate:     t.AnnualRatePercent / 100,
	}
	if t.cadence() == CadenceYearly {
		b.periods = b.repaymentYears
		b.periodRate = b.annualRate
	} else {
		b.periods = b.repaymentYears * MonthsPerYear
		b.periodRate = b.annualRate / MonthsPerYear
	}

	b.payment = annuity(t.Principal, b.periodRate, b.periods)
	if !finite(b.payment, b.payment*b.periods) {
		return breakdown{}, errOverflow
	}
	return b, nil
}

// errOverflow is returned when the rate and term compound past float64 range.
var errOverflow = invalid("terms overflow")

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// PeriodicPayment returns the payment due each period. With a zero rate the
// principal is split evenly across the periods; otherwise the fixed-rate
// annuity formula P·r·(1+r)^n / ((1+r)^n − 1) is applied with per-period r and n.
func PeriodicPayment(t Terms) (float64, error) {
	b, err := t.breakdown()
	if err != nil {
		return 0, err
	}
	return b.payment, nil
}

func annuity(principal, rate, periods float64) float64 {
	if rate == 0 {
		return principal / periods
	}
	growth := math.Pow(1+rate, periods)
	return principal * rate * growth / (growth - 1)
}

// MoneyMultiple projects the total return of the principal compounded once a
// year at the nominal rate over the full term (grace included) and divides it
// by the principal. This is the figure the back office has always displayed;
// it is not an IRR of the payment stream.
func MoneyMultiple(t Terms) (multiple, totalReturn float64, err error) {
	b, err := t.breakdown()
	if err != nil {
		return 0, 0, err
	}
	totalReturn = t.Principal * math.Pow(1+b.annualRate, b.totalYears)
	multiple = totalReturn / t.Principal
	if !finite(totalReturn, multiple) {
		return 0, 0, errOverflow
	}
	return multiple, totalReturn, nil
}

// YearsBetween measures the span between two dates in calendar years: whole
// anniversaries plus the elapsed fraction of the following year. A span that
// ends before it starts is negative.
func YearsBetween(start, end time.Time) float64 {
	if end.Equal(start) {
		return 0
	}
	if end.Before(start) {
		return -YearsBetween(end, start)
	}

	years := end.Year() - start.Year()
	anchor := start.AddDate(years, 0, 0)
	if anchor.After(end) {
		years--
		anchor = start.AddDate(years, 0, 0)
	}
	next := start.AddDate(years+1, 0, 0)

	fraction := float64(end.Sub(anchor)) / float64(next.Sub(anchor))
	return float64(years) + fraction
}
