package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"buildledger/internal/amortization"
	"buildledger/internal/models"
	"buildledger/internal/uuid"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewProjectID returns a fresh project identifier. Projects live outside
// this service, so any UUID will do.
func NewProjectID() string {
	return uuid.New()
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestCommitment creates a monthly senior bank credit of 100,000 at 6%
// running 2024-01-01 to 2029-01-01.
func CreateTestCommitment(t *testing.T, db *gorm.DB, projectID string) *models.Commitment {
	t.Helper()
	return CreateTestCommitmentWithPrincipal(t, db, projectID, 100000)
}

// CreateTestCommitmentWithPrincipal creates the default credit with the given principal.
func CreateTestCommitmentWithPrincipal(t *testing.T, db *gorm.DB, projectID string, principal float64) *models.Commitment {
	t.Helper()

	maturity := Date(2029, 1, 1)
	c := &models.Commitment{
		ProjectID:         projectID,
		Kind:              models.CommitmentKindCredit,
		Counterparty:      fmt.Sprintf("Bank %d", nextID()),
		Principal:         principal,
		AnnualRatePercent: 6,
		StartDate:         Date(2024, 1, 1),
		MaturityDate:      &maturity,
		GraceUnit:         models.GraceUnitMonths,
		Cadence:           amortization.CadenceMonthly,
		Seniority:         models.SenioritySenior,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create test commitment: %v", err)
	}
	return c
}

// CreateTestInvestment creates a junior investor commitment with a stake.
func CreateTestInvestment(t *testing.T, db *gorm.DB, projectID string, principal float64) *models.Commitment {
	t.Helper()

	c := &models.Commitment{
		ProjectID:         projectID,
		Kind:              models.CommitmentKindInvestment,
		Counterparty:      fmt.Sprintf("Investor %d", nextID()),
		Principal:         principal,
		AnnualRatePercent: 8,
		StartDate:         Date(2024, 1, 1),
		GraceUnit:         models.GraceUnitDays,
		Cadence:           amortization.CadenceYearly,
		Seniority:         models.SeniorityJunior,
		StakePercent:      10,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return c
}

// CreateTestPhase creates a phase with the given allocation.
func CreateTestPhase(t *testing.T, db *gorm.DB, projectID string, allocated float64) *models.Phase {
	t.Helper()

	p := &models.Phase{
		ProjectID:       projectID,
		Name:            fmt.Sprintf("Phase %d", nextID()),
		BudgetAllocated: allocated,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test phase: %v", err)
	}
	return p
}

// CreateTestContract creates a contract, optionally assigned to a phase.
func CreateTestContract(t *testing.T, db *gorm.DB, projectID string, phaseID *string, cost float64) *models.SubcontractorContract {
	t.Helper()

	c := &models.SubcontractorContract{
		ProjectID:     projectID,
		PhaseID:       phaseID,
		Subcontractor: fmt.Sprintf("Subcontractor %d", nextID()),
		Cost:          cost,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create test contract: %v", err)
	}
	return c
}

// InsertRawPayment stores a payment without touching any aggregate. Use it to
// build drifted ledgers.
func InsertRawPayment(t *testing.T, db *gorm.DB, ownerType models.PaymentOwnerType, ownerID string, amount float64) *models.Payment {
	t.Helper()

	p := &models.Payment{OwnerType: ownerType, OwnerID: ownerID, Amount: amount}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to insert payment: %v", err)
	}
	return p
}
