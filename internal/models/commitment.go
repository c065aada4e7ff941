package models

import (
	"math"
	"time"

	"buildledger/internal/amortization"
	"buildledger/internal/money"
)

// CommitmentKind distinguishes bank credit facilities from investor stakes.
type CommitmentKind string

const (
	CommitmentKindCredit     CommitmentKind = "credit"
	CommitmentKindInvestment CommitmentKind = "investment"
)

// Seniority ranks a commitment in the project's capital stack.
type Seniority string

const (
	SenioritySenior Seniority = "senior"
	SeniorityJunior Seniority = "junior"
)

// GraceUnit is the unit GracePeriod is expressed in.
type GraceUnit string

const (
	GraceUnitDays   GraceUnit = "days"
	GraceUnitMonths GraceUnit = "months"
)

// Commitment is a financing obligation of a project: a bank credit or an
// investor's investment. AmountPaid is maintained by the ledger and must
// equal the sum of the commitment's payments.
type Commitment struct {
	Base
	ProjectID         string               `gorm:"type:uuid;not null;index" json:"project_id"`
	Kind              CommitmentKind       `gorm:"type:varchar(20);not null" json:"kind"`
	Counterparty      string               `gorm:"not null" json:"counterparty"`
	Principal         float64              `gorm:"not null" json:"principal"`
	AnnualRatePercent float64              `gorm:"not null;default:0" json:"annual_rate_percent"`
	StartDate         time.Time            `gorm:"not null" json:"start_date"`
	MaturityDate      *time.Time           `json:"maturity_date,omitempty"`
	GracePeriod       int                  `gorm:"not null;default:0" json:"grace_period"`
	GraceUnit         GraceUnit            `gorm:"type:varchar(10);not null;default:'days'" json:"grace_unit"`
	Cadence           amortization.Cadence `gorm:"type:varchar(10);not null;default:'monthly'" json:"cadence"`
	Seniority         Seniority            `gorm:"type:varchar(10);not null;default:'senior'" json:"seniority"`
	AmountPaid        float64              `gorm:"not null;default:0" json:"amount_paid"`
	PeriodicPayment   *float64             `json:"periodic_payment,omitempty"`
	StakePercent      float64              `gorm:"not null;default:0" json:"stake_percent,omitempty"`
	InsuranceAddOn    float64              `gorm:"not null;default:0" json:"insurance_add_on,omitempty"`
	Notes             string               `json:"notes,omitempty"`
}

// GracePeriodDays converts the grace period to days. Months are counted on
// the calendar from StartDate, so three months from January 1st is 90 days
// (91 in a leap year).
func (c *Commitment) GracePeriodDays() int {
	if c.GracePeriod <= 0 {
		return 0
	}
	if c.GraceUnit != GraceUnitMonths {
		return c.GracePeriod
	}
	end := c.StartDate.AddDate(0, c.GracePeriod, 0)
	return int(math.Round(float64(end.Unix()-c.StartDate.Unix()) / (24 * 60 * 60)))
}

// Terms returns the amortization inputs of the commitment.
func (c *Commitment) Terms() amortization.Terms {
	return amortization.Terms{
		Principal:         c.Principal,
		AnnualRatePercent: c.AnnualRatePercent,
		StartDate:         c.StartDate,
		MaturityDate:      c.MaturityDate,
		GracePeriodDays:   c.GracePeriodDays(),
		Cadence:           c.Cadence,
	}
}

// Remaining is principal minus what has been paid. Negative when overpaid.
func (c *Commitment) Remaining() float64 {
	return money.Sub(c.Principal, c.AmountPaid)
}

func (c *Commitment) IsOverpaid() bool {
	return c.AmountPaid > c.Principal
}

func (c *Commitment) UtilizationPercent() float64 {
	return money.Percent(c.AmountPaid, c.Principal)
}
