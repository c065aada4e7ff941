package models

import "buildledger/internal/money"

// SubcontractorContract assigns a cost to a project, optionally within a
// phase. BudgetRealized is the running total of wires paid against it.
type SubcontractorContract struct {
	Base
	ProjectID      string  `gorm:"type:uuid;not null;index" json:"project_id"`
	PhaseID        *string `gorm:"type:uuid;index" json:"phase_id"`
	Subcontractor  string  `gorm:"not null" json:"subcontractor"`
	Description    string  `json:"description,omitempty"`
	Cost           float64 `gorm:"not null;default:0" json:"cost"`
	BudgetRealized float64 `gorm:"not null;default:0" json:"budget_realized"`
}

// Outstanding is what is still owed on the contract.
func (c *SubcontractorContract) Outstanding() float64 {
	return money.Sub(c.Cost, c.BudgetRealized)
}
