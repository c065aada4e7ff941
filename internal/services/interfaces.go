package services

import (
	"context"
	"time"

	"buildledger/internal/amortization"
	"buildledger/internal/models"
	"buildledger/internal/pagination"
	"buildledger/internal/repository"
)

// PaymentOwner addresses the record a payment is booked against.
type PaymentOwner struct {
	Type models.PaymentOwnerType `json:"owner_type"`
	ID   string                  `json:"owner_id"`
}

// CommitmentOwner is shorthand for a commitment owner.
func CommitmentOwner(id string) PaymentOwner {
	return PaymentOwner{Type: models.PaymentOwnerCommitment, ID: id}
}

// ContractOwner is shorthand for a cost-assignment owner.
func ContractOwner(id string) PaymentOwner {
	return PaymentOwner{Type: models.PaymentOwnerCostAssignment, ID: id}
}

// AggregateCheck compares a stored aggregate with the payments behind it.
type AggregateCheck struct {
	OwnerType     models.PaymentOwnerType `json:"owner_type"`
	OwnerID       string                  `json:"owner_id"`
	Stored        float64                 `json:"stored"`
	PaymentsTotal float64                 `json:"payments_total"`
	Drift         float64                 `json:"drift"`
	PaymentCount  int64                   `json:"payment_count"`
	InSync        bool                    `json:"in_sync"`
}

// PaymentEdit holds the new values of a payment. Amount is always replaced;
// a nil PaymentDate or Note keeps the stored value.
type PaymentEdit struct {
	Amount           float64
	PaymentDate      *time.Time
	ClearPaymentDate bool
	Note             *string
}

// LedgerServicer keeps AmountPaid, BudgetRealized and BudgetUsed consistent
// with the payments recorded against them.
type LedgerServicer interface {
	RecordPayment(ctx context.Context, owner PaymentOwner, amount float64, date *time.Time, note string) (*models.Payment, error)
	EditPayment(ctx context.Context, paymentID string, edit PaymentEdit) (*models.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) error
	RecomputeContainer(ctx context.Context, phaseID string) (*models.Phase, error)
	RecomputeContainerTx(ctx context.Context, tx repository.CommitmentRepository, phaseID string) error
	RecomputeAllContainers(ctx context.Context) (int, error)
	VerifyAggregate(ctx context.Context, owner PaymentOwner) (*AggregateCheck, error)
}

// CommitmentInput holds the fields of a new commitment. Empty enum fields
// take their defaults.
type CommitmentInput struct {
	ProjectID         string
	Kind              models.CommitmentKind
	Counterparty      string
	Principal         float64
	AnnualRatePercent float64
	StartDate         time.Time
	MaturityDate      *time.Time
	GracePeriod       int
	GraceUnit         models.GraceUnit
	Cadence           amortization.Cadence
	Seniority         models.Seniority
	StakePercent      float64
	InsuranceAddOn    float64
	Notes             string
}

// CommitmentUpdate holds the fields to change. Nil fields are left alone.
// AmountPaid is written only by the ledger.
type CommitmentUpdate struct {
	Counterparty      *string
	Principal         *float64
	AnnualRatePercent *float64
	StartDate         *time.Time
	MaturityDate      *time.Time
	ClearMaturityDate bool
	GracePeriod       *int
	GraceUnit         *models.GraceUnit
	Cadence           *amortization.Cadence
	Seniority         *models.Seniority
	StakePercent      *float64
	InsuranceAddOn    *float64
	Notes             *string
	// RecalculatePayment re-derives the stored periodic payment from the
	// updated terms. Without it the stored value is kept as is.
	RecalculatePayment bool
}

// CommitmentSummary is the financial position of one commitment.
type CommitmentSummary struct {
	Commitment         *models.Commitment `json:"commitment"`
	AmountPaid         float64            `json:"amount_paid"`
	Remaining          float64            `json:"remaining"`
	UtilizationPercent float64            `json:"utilization_percent"`
	IsOverpaid         bool               `json:"is_overpaid"`
	PaymentCount       int64              `json:"payment_count"`
	Quote              amortization.Quote `json:"quote"`
}

// FinanceTotals aggregates a group of commitments.
type FinanceTotals struct {
	Count             int     `json:"count"`
	Principal         float64 `json:"principal"`
	Paid              float64 `json:"paid"`
	Remaining         float64 `json:"remaining"`
	MonthlyEquivalent float64 `json:"monthly_equivalent"`
}

// ProjectFinanceSummary totals a project's commitments by kind and seniority.
type ProjectFinanceSummary struct {
	ProjectID   string                                  `json:"project_id"`
	Total       FinanceTotals                           `json:"total"`
	ByKind      map[models.CommitmentKind]FinanceTotals `json:"by_kind"`
	BySeniority map[models.Seniority]FinanceTotals      `json:"by_seniority"`
}

// CommitmentServicer defines the contract for commitment business logic.
type CommitmentServicer interface {
	CreateCommitment(ctx context.Context, in CommitmentInput) (*models.Commitment, error)
	GetCommitment(ctx context.Context, id string) (*models.Commitment, error)
	ListCommitments(ctx context.Context, projectID string, filter repository.CommitmentFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Commitment], error)
	UpdateCommitment(ctx context.Context, id string, in CommitmentUpdate) (*models.Commitment, error)
	DeleteCommitment(ctx context.Context, id string) error
	GetCommitmentSummary(ctx context.Context, id string) (*CommitmentSummary, error)
	ListCommitmentPayments(ctx context.Context, id string) ([]models.Payment, error)
	GetProjectFinanceSummary(ctx context.Context, projectID string) (*ProjectFinanceSummary, error)
}

// PhaseInput holds the fields of a new phase.
type PhaseInput struct {
	ProjectID       string
	Name            string
	BudgetAllocated float64
	StartDate       *time.Time
	EndDate         *time.Time
}

// PhaseUpdate holds the fields to change. BudgetUsed is not editable.
type PhaseUpdate struct {
	Name            *string
	BudgetAllocated *float64
	StartDate       *time.Time
	EndDate         *time.Time
}

// PhaseBudgetStatus reports how much of a phase's allocation is committed to
// contracts and how much of that has been disbursed.
type PhaseBudgetStatus struct {
	PhaseID            string  `json:"phase_id"`
	Allocated          float64 `json:"allocated"`
	Used               float64 `json:"used"`
	Available          float64 `json:"available"`
	UtilizationPercent float64 `json:"utilization_percent"`
	OverAllocated      bool    `json:"over_allocated"`
	ContractCount      int     `json:"contract_count"`
	Disbursed          float64 `json:"disbursed"`
	Warning            string  `json:"warning,omitempty"`
}

// PhaseServicer defines the contract for phase business logic.
type PhaseServicer interface {
	CreatePhase(ctx context.Context, in PhaseInput) (*models.Phase, error)
	GetPhase(ctx context.Context, id string) (*models.Phase, error)
	ListPhases(ctx context.Context, projectID string, page pagination.PageRequest) (*pagination.PageResponse[models.Phase], error)
	UpdatePhase(ctx context.Context, id string, in PhaseUpdate) (*models.Phase, error)
	DeletePhase(ctx context.Context, id string) error
	GetPhaseBudgetStatus(ctx context.Context, id string) (*PhaseBudgetStatus, error)
}

// ContractInput holds the fields of a new subcontractor contract.
type ContractInput struct {
	ProjectID     string
	PhaseID       *string
	Subcontractor string
	Description   string
	Cost          float64
}

// ContractUpdate holds the fields to change. Use ReassignContract to move
// a contract between phases.
type ContractUpdate struct {
	Subcontractor *string
	Description   *string
	Cost          *float64
}

// ContractServicer defines the contract for subcontractor contract business logic.
type ContractServicer interface {
	CreateContract(ctx context.Context, in ContractInput) (*models.SubcontractorContract, error)
	GetContract(ctx context.Context, id string) (*models.SubcontractorContract, error)
	ListContracts(ctx context.Context, projectID string, filter repository.ContractFilter, page pagination.PageRequest) (*pagination.PageResponse[models.SubcontractorContract], error)
	UpdateContract(ctx context.Context, id string, in ContractUpdate) (*models.SubcontractorContract, error)
	ReassignContract(ctx context.Context, id string, phaseID *string) (*models.SubcontractorContract, error)
	DeleteContract(ctx context.Context, id string) error
	ListContractPayments(ctx context.Context, id string) ([]models.Payment, error)
}

// AuditServicer records audit events. Implementations must never fail the caller.
type AuditServicer interface {
	Log(profileID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
