package handlers

import (
	"context"
	"time"

	"buildledger/internal/models"
	"buildledger/internal/pagination"
	"buildledger/internal/repository"
	"buildledger/internal/services"
)

// --- mock audit service ---

type mockAuditService struct {
	actions []string
}

func (m *mockAuditService) Log(_, action, _, _, _ string, _ map[string]any) {
	m.actions = append(m.actions, action)
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- mock commitment service ---

type mockCommitmentService struct {
	createCommitmentFn       func(in services.CommitmentInput) (*models.Commitment, error)
	getCommitmentFn          func(id string) (*models.Commitment, error)
	listCommitmentsFn        func(projectID string, filter repository.CommitmentFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Commitment], error)
	updateCommitmentFn       func(id string, in services.CommitmentUpdate) (*models.Commitment, error)
	deleteCommitmentFn       func(id string) error
	getCommitmentSummaryFn   func(id string) (*services.CommitmentSummary, error)
	listCommitmentPaymentsFn func(id string) ([]models.Payment, error)
	getFinanceSummaryFn      func(projectID string) (*services.ProjectFinanceSummary, error)
}

func (m *mockCommitmentService) CreateCommitment(_ context.Context, in services.CommitmentInput) (*models.Commitment, error) {
	if m.createCommitmentFn != nil {
		return m.createCommitmentFn(in)
	}
	return &models.Commitment{}, nil
}

func (m *mockCommitmentService) GetCommitment(_ context.Context, id string) (*models.Commitment, error) {
	if m.getCommitmentFn != nil {
		return m.getCommitmentFn(id)
	}
	return &models.Commitment{}, nil
}

func (m *mockCommitmentService) ListCommitments(_ context.Context, projectID string, filter repository.CommitmentFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Commitment], error) {
	if m.listCommitmentsFn != nil {
		return m.listCommitmentsFn(projectID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Commitment{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCommitmentService) UpdateCommitment(_ context.Context, id string, in services.CommitmentUpdate) (*models.Commitment, error) {
	if m.updateCommitmentFn != nil {
		return m.updateCommitmentFn(id, in)
	}
	return &models.Commitment{}, nil
}

func (m *mockCommitmentService) DeleteCommitment(_ context.Context, id string) error {
	if m.deleteCommitmentFn != nil {
		return m.deleteCommitmentFn(id)
	}
	return nil
}

func (m *mockCommitmentService) GetCommitmentSummary(_ context.Context, id string) (*services.CommitmentSummary, error) {
	if m.getCommitmentSummaryFn != nil {
		return m.getCommitmentSummaryFn(id)
	}
	return &services.CommitmentSummary{}, nil
}

func (m *mockCommitmentService) ListCommitmentPayments(_ context.Context, id string) ([]models.Payment, error) {
	if m.listCommitmentPaymentsFn != nil {
		return m.listCommitmentPaymentsFn(id)
	}
	return []models.Payment{}, nil
}

func (m *mockCommitmentService) GetProjectFinanceSummary(_ context.Context, projectID string) (*services.ProjectFinanceSummary, error) {
	if m.getFinanceSummaryFn != nil {
		return m.getFinanceSummaryFn(projectID)
	}
	return &services.ProjectFinanceSummary{ProjectID: projectID}, nil
}

var _ services.CommitmentServicer = (*mockCommitmentService)(nil)

// --- mock ledger service ---

type mockLedgerService struct {
	recordPaymentFn      func(owner services.PaymentOwner, amount float64, date *time.Time, note string) (*models.Payment, error)
	editPaymentFn        func(paymentID string, edit services.PaymentEdit) (*models.Payment, error)
	deletePaymentFn      func(paymentID string) error
	recomputeContainerFn func(phaseID string) (*models.Phase, error)
	recomputeAllFn       func() (int, error)
	verifyAggregateFn    func(owner services.PaymentOwner) (*services.AggregateCheck, error)
}

func (m *mockLedgerService) RecordPayment(_ context.Context, owner services.PaymentOwner, amount float64, date *time.Time, note string) (*models.Payment, error) {
	if m.recordPaymentFn != nil {
		return m.recordPaymentFn(owner, amount, date, note)
	}
	return &models.Payment{OwnerType: owner.Type, OwnerID: owner.ID, Amount: amount}, nil
}

func (m *mockLedgerService) EditPayment(_ context.Context, paymentID string, edit services.PaymentEdit) (*models.Payment, error) {
	if m.editPaymentFn != nil {
		return m.editPaymentFn(paymentID, edit)
	}
	return &models.Payment{Base: models.Base{ID: paymentID}, Amount: edit.Amount}, nil
}

func (m *mockLedgerService) DeletePayment(_ context.Context, paymentID string) error {
	if m.deletePaymentFn != nil {
		return m.deletePaymentFn(paymentID)
	}
	return nil
}

func (m *mockLedgerService) RecomputeContainer(_ context.Context, phaseID string) (*models.Phase, error) {
	if m.recomputeContainerFn != nil {
		return m.recomputeContainerFn(phaseID)
	}
	return &models.Phase{Base: models.Base{ID: phaseID}}, nil
}

func (m *mockLedgerService) RecomputeContainerTx(_ context.Context, _ repository.CommitmentRepository, _ string) error {
	return nil
}

func (m *mockLedgerService) RecomputeAllContainers(_ context.Context) (int, error) {
	if m.recomputeAllFn != nil {
		return m.recomputeAllFn()
	}
	return 0, nil
}

func (m *mockLedgerService) VerifyAggregate(_ context.Context, owner services.PaymentOwner) (*services.AggregateCheck, error) {
	if m.verifyAggregateFn != nil {
		return m.verifyAggregateFn(owner)
	}
	return &services.AggregateCheck{OwnerType: owner.Type, OwnerID: owner.ID, InSync: true}, nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

// --- mock phase service ---

type mockPhaseService struct {
	createPhaseFn     func(in services.PhaseInput) (*models.Phase, error)
	getPhaseFn        func(id string) (*models.Phase, error)
	listPhasesFn      func(projectID string, page pagination.PageRequest) (*pagination.PageResponse[models.Phase], error)
	updatePhaseFn     func(id string, in services.PhaseUpdate) (*models.Phase, error)
	deletePhaseFn     func(id string) error
	getBudgetStatusFn func(id string) (*services.PhaseBudgetStatus, error)
}

func (m *mockPhaseService) CreatePhase(_ context.Context, in services.PhaseInput) (*models.Phase, error) {
	if m.createPhaseFn != nil {
		return m.createPhaseFn(in)
	}
	return &models.Phase{}, nil
}

func (m *mockPhaseService) GetPhase(_ context.Context, id string) (*models.Phase, error) {
	if m.getPhaseFn != nil {
		return m.getPhaseFn(id)
	}
	return &models.Phase{}, nil
}

func (m *mockPhaseService) ListPhases(_ context.Context, projectID string, page pagination.PageRequest) (*pagination.PageResponse[models.Phase], error) {
	if m.listPhasesFn != nil {
		return m.listPhasesFn(projectID, page)
	}
	resp := pagination.NewPageResponse([]models.Phase{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPhaseService) UpdatePhase(_ context.Context, id string, in services.PhaseUpdate) (*models.Phase, error) {
	if m.updatePhaseFn != nil {
		return m.updatePhaseFn(id, in)
	}
	return &models.Phase{}, nil
}

func (m *mockPhaseService) DeletePhase(_ context.Context, id string) error {
	if m.deletePhaseFn != nil {
		return m.deletePhaseFn(id)
	}
	return nil
}

func (m *mockPhaseService) GetPhaseBudgetStatus(_ context.Context, id string) (*services.PhaseBudgetStatus, error) {
	if m.getBudgetStatusFn != nil {
		return m.getBudgetStatusFn(id)
	}
	return &services.PhaseBudgetStatus{PhaseID: id}, nil
}

var _ services.PhaseServicer = (*mockPhaseService)(nil)

// --- mock contract service ---

type mockContractService struct {
	createContractFn       func(in services.ContractInput) (*models.SubcontractorContract, error)
	getContractFn          func(id string) (*models.SubcontractorContract, error)
	listContractsFn        func(projectID string, filter repository.ContractFilter, page pagination.PageRequest) (*pagination.PageResponse[models.SubcontractorContract], error)
	updateContractFn       func(id string, in services.ContractUpdate) (*models.SubcontractorContract, error)
	reassignContractFn     func(id string, phaseID *string) (*models.SubcontractorContract, error)
	deleteContractFn       func(id string) error
	listContractPaymentsFn func(id string) ([]models.Payment, error)
}

func (m *mockContractService) CreateContract(_ context.Context, in services.ContractInput) (*models.SubcontractorContract, error) {
	if m.createContractFn != nil {
		return m.createContractFn(in)
	}
	return &models.SubcontractorContract{}, nil
}

func (m *mockContractService) GetContract(_ context.Context, id string) (*models.SubcontractorContract, error) {
	if m.getContractFn != nil {
		return m.getContractFn(id)
	}
	return &models.SubcontractorContract{}, nil
}

func (m *mockContractService) ListContracts(_ context.Context, projectID string, filter repository.ContractFilter, page pagination.PageRequest) (*pagination.PageResponse[models.SubcontractorContract], error) {
	if m.listContractsFn != nil {
		return m.listContractsFn(projectID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.SubcontractorContract{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockContractService) UpdateContract(_ context.Context, id string, in services.ContractUpdate) (*models.SubcontractorContract, error) {
	if m.updateContractFn != nil {
		return m.updateContractFn(id, in)
	}
	return &models.SubcontractorContract{}, nil
}

func (m *mockContractService) ReassignContract(_ context.Context, id string, phaseID *string) (*models.SubcontractorContract, error) {
	if m.reassignContractFn != nil {
		return m.reassignContractFn(id, phaseID)
	}
	return &models.SubcontractorContract{PhaseID: phaseID}, nil
}

func (m *mockContractService) DeleteContract(_ context.Context, id string) error {
	if m.deleteContractFn != nil {
		return m.deleteContractFn(id)
	}
	return nil
}

func (m *mockContractService) ListContractPayments(_ context.Context, id string) ([]models.Payment, error) {
	if m.listContractPaymentsFn != nil {
		return m.listContractPaymentsFn(id)
	}
	return []models.Payment{}, nil
}

var _ services.ContractServicer = (*mockContractService)(nil)
