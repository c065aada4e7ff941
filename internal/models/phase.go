package models

import (
	"time"

	"buildledger/internal/money"
)

// Phase is a budget container within a project. BudgetUsed is the committed
// cost of the contracts assigned to it and is never edited directly.
type Phase struct {
	Base
	ProjectID       string     `gorm:"type:uuid;not null;index" json:"project_id"`
	Name            string     `gorm:"not null" json:"name"`
	BudgetAllocated float64    `gorm:"not null;default:0" json:"budget_allocated"`
	BudgetUsed      float64    `gorm:"not null;default:0" json:"budget_used"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
}

// Available is the unspent allocation; negative when over-allocated.
func (p *Phase) Available() float64 {
	return money.Sub(p.BudgetAllocated, p.BudgetUsed)
}

// IsOverAllocated reports whether more has been committed than was allocated.
func (p *Phase) IsOverAllocated() bool {
	return p.BudgetUsed > p.BudgetAllocated
}

func (p *Phase) UtilizationPercent() float64 {
	return money.Percent(p.BudgetUsed, p.BudgetAllocated)
}
