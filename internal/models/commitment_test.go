package models

import (
	"testing"
	"time"
)

func TestCommitment_GracePeriodDays(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period int
		unit   GraceUnit
		start  time.Time
		want   int
	}{
		{"none", 0, GraceUnitMonths, jan1, 0},
		{"negative", -2, GraceUnitMonths, jan1, 0},
		{"days", 45, GraceUnitDays, jan1, 45},
		{"quarter_leap_year", 3, GraceUnitMonths, jan1, 91},
		{"quarter", 3, GraceUnitMonths, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 90},
		{"one_year", 12, GraceUnitMonths, jan1, 366},
		// 400 Gregorian years hold 146097 days, beyond time.Duration range.
		{"four_centuries", 12 * 400, GraceUnitMonths, jan1, 146097},
		{"eight_centuries", 12 * 800, GraceUnitMonths, jan1, 2 * 146097},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Commitment{GracePeriod: tt.period, GraceUnit: tt.unit, StartDate: tt.start}
			if got := c.GracePeriodDays(); got != tt.want {
				t.Errorf("expected %d days, got %d", tt.want, got)
			}
		})
	}
}

func TestCommitment_TermsCarriesGraceInDays(t *testing.T) {
	c := &Commitment{
		Principal:   1000,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		GracePeriod: 6,
		GraceUnit:   GraceUnitMonths,
		Cadence:     "monthly",
	}
	if got := c.Terms().GracePeriodDays; got != 182 {
		t.Errorf("expected 182 grace days, got %d", got)
	}
}
