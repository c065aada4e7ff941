// Package repository persists commitments, payments, phases and contracts.
//
// CommitmentRepository is the only way services touch storage. Multi-record
// writes go through WithinTransaction so that a payment and the aggregate it
// moves are committed together or not at all.
package repository

import (
	"context"
	"errors"

	"buildledger/internal/models"
	"buildledger/internal/pagination"
)

// ErrNotFound is returned when the addressed record does not exist or has
// been deleted.
var ErrNotFound = errors.New("record not found")

// Fields is a partial update keyed by column name.
type Fields map[string]interface{}

// CommitmentFilter narrows a commitment listing. Nil fields do not filter.
type CommitmentFilter struct {
	Kind      *models.CommitmentKind
	Seniority *models.Seniority
}

// ContractFilter narrows a contract listing. Unassigned selects contracts
// without a phase and takes precedence over PhaseID.
type ContractFilter struct {
	PhaseID    *string
	Unassigned bool
}

// CommitmentRepository is the storage contract of the financial engine.
type CommitmentRepository interface {
	CreateCommitment(ctx context.Context, c *models.Commitment) error
	GetCommitment(ctx context.Context, id string) (*models.Commitment, error)
	ListCommitments(ctx context.Context, projectID string, filter CommitmentFilter, page pagination.PageRequest) ([]models.Commitment, int64, error)
	ListProjectCommitments(ctx context.Context, projectID string) ([]models.Commitment, error)
	UpdateCommitment(ctx context.Context, id string, fields Fields) error
	DeleteCommitment(ctx context.Context, id string) error
	SetCommitmentAmountPaid(ctx context.Context, id string, amount float64) error

	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	ListPaymentsByOwner(ctx context.Context, ownerType models.PaymentOwnerType, ownerID string) ([]models.Payment, error)
	CountPaymentsByOwner(ctx context.Context, ownerType models.PaymentOwnerType, ownerID string) (int64, error)
	UpdatePayment(ctx context.Context, id string, fields Fields) error
	DeletePayment(ctx context.Context, id string) error
	DeletePaymentsByOwner(ctx context.Context, ownerType models.PaymentOwnerType, ownerID string) (int64, error)
	SumPaymentsByOwner(ctx context.Context, ownerType models.PaymentOwnerType, ownerID string) (float64, error)

	CreatePhase(ctx context.Context, p *models.Phase) error
	GetPhase(ctx context.Context, id string) (*models.Phase, error)
	ListPhases(ctx context.Context, projectID string, page pagination.PageRequest) ([]models.Phase, int64, error)
	ListAllPhaseIDs(ctx context.Context) ([]string, error)
	UpdatePhase(ctx context.Context, id string, fields Fields) error
	DeletePhase(ctx context.Context, id string) error
	SetPhaseBudgetUsed(ctx context.Context, id string, amount float64) error

	CreateContract(ctx context.Context, c *models.SubcontractorContract) error
	GetContract(ctx context.Context, id string) (*models.SubcontractorContract, error)
	ListContracts(ctx context.Context, projectID string, filter ContractFilter, page pagination.PageRequest) ([]models.SubcontractorContract, int64, error)
	ListContractsByPhase(ctx context.Context, phaseID string) ([]models.SubcontractorContract, error)
	UpdateContract(ctx context.Context, id string, fields Fields) error
	DeleteContract(ctx context.Context, id string) error
	UnassignContractsFromPhase(ctx context.Context, phaseID string) ([]string, error)
	SetContractBudgetRealized(ctx context.Context, id string, amount float64) error

	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error

	// WithinTransaction runs fn against a repository bound to a single
	// transaction. A non-nil error from fn rolls every write back. Reads made
	// through the transactional repository lock the row where the database
	// supports it.
	WithinTransaction(ctx context.Context, fn func(tx CommitmentRepository) error) error
}
