package amortization

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func fiveYearTerms(rate float64, cadence Cadence) Terms {
	return Terms{
		Principal:         100000,
		AnnualRatePercent: rate,
		StartDate:         date(2024, 1, 1),
		MaturityDate:      datePtr(2029, 1, 1),
		Cadence:           cadence,
	}
}

func TestPeriodicPayment_ReferenceScenarios(t *testing.T) {
	t.Run("six_percent_monthly_five_years", func(t *testing.T) {
		payment, err := PeriodicPayment(fiveYearTerms(6, CadenceMonthly))
		require.NoError(t, err)
		assert.InDelta(t, 1933.28, payment, 0.005)
	})

	t.Run("zero_rate_monthly_five_years", func(t *testing.T) {
		payment, err := PeriodicPayment(fiveYearTerms(0, CadenceMonthly))
		require.NoError(t, err)
		assert.Equal(t, 100000.0/60, payment)
		assert.Equal(t, "1,666.67", NewQuote(fiveYearTerms(0, CadenceMonthly)).Display)
	})

	t.Run("six_percent_yearly_five_years", func(t *testing.T) {
		payment, err := PeriodicPayment(fiveYearTerms(6, CadenceYearly))
		require.NoError(t, err)
		assert.InDelta(t, 23739.64, payment, 0.005)
	})

	t.Run("empty_cadence_is_monthly", func(t *testing.T) {
		monthly, err := PeriodicPayment(fiveYearTerms(6, CadenceMonthly))
		require.NoError(t, err)
		unset, err := PeriodicPayment(fiveYearTerms(6, ""))
		require.NoError(t, err)
		assert.Equal(t, monthly, unset)
	})
}

func TestPeriodicPayment_ZeroRateIsPrincipalOverPeriods(t *testing.T) {
	principals := []float64{1, 2500.5, 100000, 7.5e6}
	for _, p := range principals {
		for _, c := range []Cadence{CadenceMonthly, CadenceYearly} {
			terms := Terms{
				Principal:    p,
				StartDate:    date(2023, 6, 15),
				MaturityDate: datePtr(2031, 6, 15),
				Cadence:      c,
			}
			periods := 8.0
			if c == CadenceMonthly {
				periods = 96
			}

			payment, err := PeriodicPayment(terms)
			require.NoError(t, err)
			assert.Equal(t, p/periods, payment, "principal %v cadence %s", p, c)
		}
	}
}

func TestPeriodicPayment_AnnuityIdentity(t *testing.T) {
	cases := []struct {
		rate    float64
		years   int
		cadence Cadence
	}{
		{6, 5, CadenceMonthly},
		{4.5, 30, CadenceMonthly},
		{12, 3, CadenceMonthly},
		{0.25, 10, CadenceMonthly},
		{8, 7, CadenceYearly},
		{15, 20, CadenceYearly},
	}

	for _, tc := range cases {
		terms := Terms{
			Principal:         250000,
			AnnualRatePercent: tc.rate,
			StartDate:         date(2020, 1, 1),
			MaturityDate:      datePtr(2020+tc.years, 1, 1),
			Cadence:           tc.cadence,
		}

		payment, err := PeriodicPayment(terms)
		require.NoError(t, err)

		r := tc.rate / 100
		n := tc.years
		if tc.cadence == CadenceMonthly {
			r /= 12
			n *= 12
		}

		presentValue := 0.0
		for k := 1; k <= n; k++ {
			presentValue += payment / math.Pow(1+r, float64(k))
		}
		assert.InDelta(t, terms.Principal, presentValue, 1e-6, "rate %v years %d %s", tc.rate, tc.years, tc.cadence)
	}
}

func TestRepaymentYears_Floor(t *testing.T) {
	t.Run("grace_longer_than_term", func(t *testing.T) {
		terms := fiveYearTerms(0, CadenceMonthly)
		terms.GracePeriodDays = 365 * 8
		assert.Equal(t, MinRepaymentYears, terms.RepaymentYears())

		payment, err := PeriodicPayment(terms)
		require.NoError(t, err)
		assert.InDelta(t, 100000/(MinRepaymentYears*12), payment, 1e-9)
	})

	t.Run("grace_equal_to_term", func(t *testing.T) {
		terms := Terms{Principal: 1000, StartDate: date(2024, 1, 1), GracePeriodDays: 3650}
		assert.Equal(t, MinRepaymentYears, terms.RepaymentYears())
	})

	t.Run("grace_shortens_term", func(t *testing.T) {
		terms := fiveYearTerms(0, CadenceYearly)
		terms.GracePeriodDays = 365
		assert.InDelta(t, 4.0, terms.RepaymentYears(), 1e-12)

		payment, err := PeriodicPayment(terms)
		require.NoError(t, err)
		assert.InDelta(t, 25000.0, payment, 1e-9)
	})

	t.Run("never_below_floor", func(t *testing.T) {
		for grace := 0; grace <= 365*12; grace += 73 {
			terms := fiveYearTerms(5, CadenceMonthly)
			terms.GracePeriodDays = grace
			assert.GreaterOrEqual(t, terms.RepaymentYears(), MinRepaymentYears)
		}
	})
}

func TestTotalYears_DefaultTerm(t *testing.T) {
	terms := Terms{Principal: 120000, StartDate: date(2024, 3, 1)}
	assert.Equal(t, 10.0, terms.TotalYears())

	payment, err := PeriodicPayment(terms)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, payment)

	q := NewQuote(terms)
	assert.True(t, q.Determined)
	assert.Equal(t, 10.0, q.TotalYears)
	assert.Equal(t, 120.0, q.Periods)
}

func TestPeriodicPayment_InvalidTerms(t *testing.T) {
	tests := []struct {
		name  string
		terms Terms
	}{
		{"zero_principal", Terms{Principal: 0, StartDate: date(2024, 1, 1)}},
		{"negative_principal", Terms{Principal: -5, StartDate: date(2024, 1, 1)}},
		{"negative_rate", Terms{Principal: 100, AnnualRatePercent: -1, StartDate: date(2024, 1, 1)}},
		{"negative_grace", Terms{Principal: 100, GracePeriodDays: -1, StartDate: date(2024, 1, 1)}},
		{"unknown_cadence", Terms{Principal: 100, Cadence: "weekly", StartDate: date(2024, 1, 1)}},
		{"maturity_before_start", Terms{Principal: 100, StartDate: date(2024, 1, 1), MaturityDate: datePtr(2023, 1, 1)}},
		{"maturity_equals_start", Terms{Principal: 100, StartDate: date(2024, 1, 1), MaturityDate: datePtr(2024, 1, 1)}},
		{"maturity_without_start", Terms{Principal: 100, MaturityDate: datePtr(2030, 1, 1)}},
		{"growth_overflows_monthly", Terms{Principal: 100000, AnnualRatePercent: 1e6, StartDate: date(2024, 1, 1), Cadence: CadenceMonthly}},
		{"growth_overflows_yearly", Terms{Principal: 100000, AnnualRatePercent: 1000, StartDate: date(2024, 1, 1), MaturityDate: datePtr(2424, 1, 1), Cadence: CadenceYearly}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PeriodicPayment(tt.terms)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTerms))

			var ite *InvalidTermsError
			require.True(t, errors.As(err, &ite))
			assert.NotEmpty(t, ite.Reason)

			q := NewQuote(tt.terms)
			assert.False(t, q.Determined)
			assert.Equal(t, UndeterminedDisplay, q.Display)
			assert.Equal(t, ite.Reason, q.Reason)
		})
	}
}

func TestMoneyMultiple(t *testing.T) {
	t.Run("compounds_over_full_term", func(t *testing.T) {
		multiple, totalReturn, err := MoneyMultiple(fiveYearTerms(6, CadenceMonthly))
		require.NoError(t, err)
		assert.InDelta(t, math.Pow(1.06, 5), multiple, 1e-12)
		assert.InDelta(t, 133822.56, totalReturn, 0.005)
	})

	t.Run("ignores_grace_period", func(t *testing.T) {
		terms := fiveYearTerms(6, CadenceMonthly)
		base, _, err := MoneyMultiple(terms)
		require.NoError(t, err)

		terms.GracePeriodDays = 730
		withGrace, _, err := MoneyMultiple(terms)
		require.NoError(t, err)
		assert.Equal(t, base, withGrace)
	})

	t.Run("zero_rate_is_one", func(t *testing.T) {
		multiple, totalReturn, err := MoneyMultiple(fiveYearTerms(0, CadenceYearly))
		require.NoError(t, err)
		assert.Equal(t, 1.0, multiple)
		assert.Equal(t, 100000.0, totalReturn)
	})

	t.Run("default_term", func(t *testing.T) {
		multiple, _, err := MoneyMultiple(Terms{Principal: 50000, AnnualRatePercent: 10, StartDate: date(2024, 1, 1)})
		require.NoError(t, err)
		assert.InDelta(t, math.Pow(1.1, 10), multiple, 1e-12)
	})

	t.Run("invalid", func(t *testing.T) {
		_, _, err := MoneyMultiple(Terms{Principal: 0})
		assert.ErrorIs(t, err, ErrInvalidTerms)
	})

	t.Run("overflow", func(t *testing.T) {
		_, _, err := MoneyMultiple(longGraceTerms())
		assert.ErrorIs(t, err, ErrInvalidTerms)
	})
}

// longGraceTerms compound past float64 range over the full term while the
// repayment span after grace stays short enough to price.
func longGraceTerms() Terms {
	return Terms{
		Principal:         100000,
		AnnualRatePercent: 1000,
		StartDate:         date(2024, 1, 1),
		MaturityDate:      datePtr(2424, 1, 1),
		GracePeriodDays:   400 * 365,
		Cadence:           CadenceYearly,
	}
}

func TestYearsBetween(t *testing.T) {
	assert.Equal(t, 5.0, YearsBetween(date(2024, 1, 1), date(2029, 1, 1)))
	assert.Equal(t, 1.0, YearsBetween(date(2020, 3, 1), date(2021, 3, 1)))
	assert.Equal(t, 0.0, YearsBetween(date(2024, 1, 1), date(2024, 1, 1)))
	assert.Equal(t, -5.0, YearsBetween(date(2029, 1, 1), date(2024, 1, 1)))
	assert.InDelta(t, 182.0/366.0, YearsBetween(date(2024, 1, 1), date(2024, 7, 1)), 1e-12)
	assert.InDelta(t, 2+181.0/365.0, YearsBetween(date(2025, 1, 1), date(2027, 7, 1)), 1e-12)
}

func TestNewQuote(t *testing.T) {
	q := NewQuote(fiveYearTerms(6, CadenceMonthly))

	assert.True(t, q.Determined)
	assert.Equal(t, CadenceMonthly, q.Cadence)
	assert.Equal(t, 1933.28, q.PeriodicPayment)
	assert.Equal(t, "1,933.28", q.Display)
	assert.Equal(t, 60.0, q.Periods)
	assert.Equal(t, 5.0, q.TotalYears)
	assert.Equal(t, 5.0, q.RepaymentYears)
	assert.InDelta(t, 115996.81, q.TotalPaid, 0.02)
	assert.Empty(t, q.Reason)
}

func TestNewQuote_Overflow(t *testing.T) {
	t.Run("payment", func(t *testing.T) {
		q := NewQuote(Terms{Principal: 100000, AnnualRatePercent: 1e6, StartDate: date(2024, 1, 1), Cadence: CadenceMonthly})
		assert.False(t, q.Determined)
		assert.Equal(t, UndeterminedDisplay, q.Display)
		assert.Equal(t, "terms overflow", q.Reason)
		assert.Zero(t, q.PeriodicPayment)
	})

	t.Run("money_multiple", func(t *testing.T) {
		terms := longGraceTerms()
		payment, err := PeriodicPayment(terms)
		require.NoError(t, err)
		assert.False(t, math.IsInf(payment, 0) || math.IsNaN(payment))

		q := NewQuote(terms)
		assert.False(t, q.Determined)
		assert.Equal(t, UndeterminedDisplay, q.Display)
		assert.Equal(t, "terms overflow", q.Reason)
	})

	t.Run("schedule", func(t *testing.T) {
		_, err := Schedule(Terms{Principal: 100000, AnnualRatePercent: 1e6, StartDate: date(2024, 1, 1)})
		assert.ErrorIs(t, err, ErrInvalidTerms)
	})
}

func TestSchedule(t *testing.T) {
	t.Run("clears_balance", func(t *testing.T) {
		entries, err := Schedule(fiveYearTerms(6, CadenceMonthly))
		require.NoError(t, err)
		require.Len(t, entries, 60)

		first := entries[0]
		assert.Equal(t, date(2024, 2, 1), first.DueDate)
		assert.InDelta(t, 500.0, first.Interest, 1e-9)
		assert.InDelta(t, 1933.28, first.Payment, 1e-9)

		principalSum := 0.0
		for _, e := range entries {
			principalSum += e.Principal
		}
		assert.InDelta(t, 100000.0, principalSum, 0.01)
		assert.Equal(t, 0.0, entries[len(entries)-1].RemainingBalance)
	})

	t.Run("grace_delays_first_due_date", func(t *testing.T) {
		terms := fiveYearTerms(6, CadenceYearly)
		terms.GracePeriodDays = 365

		entries, err := Schedule(terms)
		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, date(2024, 12, 31).AddDate(1, 0, 0), entries[0].DueDate)
	})

	t.Run("zero_rate_has_no_interest", func(t *testing.T) {
		entries, err := Schedule(fiveYearTerms(0, CadenceYearly))
		require.NoError(t, err)
		require.Len(t, entries, 5)
		for _, e := range entries {
			assert.Equal(t, 0.0, e.Interest)
			assert.Equal(t, 20000.0, e.Principal)
		}
	})

	t.Run("invalid_terms", func(t *testing.T) {
		_, err := Schedule(Terms{Principal: 100, AnnualRatePercent: -2})
		assert.ErrorIs(t, err, ErrInvalidTerms)
	})
}
