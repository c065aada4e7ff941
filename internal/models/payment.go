package models

import "time"

// PaymentOwnerType names the kind of record a payment belongs to.
type PaymentOwnerType string

const (
	PaymentOwnerCommitment     PaymentOwnerType = "commitment"
	PaymentOwnerCostAssignment PaymentOwnerType = "cost_assignment"
)

// Valid reports whether t is a known owner type.
func (t PaymentOwnerType) Valid() bool {
	return t == PaymentOwnerCommitment || t == PaymentOwnerCostAssignment
}

// Payment is a single disbursement against a commitment, or a wire paid to a
// subcontractor under a contract. It always belongs to exactly one owner.
type Payment struct {
	Base
	OwnerType   PaymentOwnerType `gorm:"type:varchar(32);not null;index:idx_payments_owner" json:"owner_type"`
	OwnerID     string           `gorm:"type:uuid;not null;index:idx_payments_owner" json:"owner_id"`
	Amount      float64          `gorm:"not null" json:"amount"`
	PaymentDate *time.Time       `json:"payment_date,omitempty"`
	Note        string           `json:"note,omitempty"`
}
