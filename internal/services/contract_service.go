package services

import (
	"context"
	"strings"

	apperrors "buildledger/internal/errors"
	"buildledger/internal/logger"
	"buildledger/internal/models"
	"buildledger/internal/pagination"
	"buildledger/internal/repository"
)

// contractService handles subcontractor contracts. Any change to a
// contract's cost, phase or existence rebuilds the affected phases in the
// same transaction.
type contractService struct {
	repo   repository.CommitmentRepository
	ledger LedgerServicer
}

// NewContractService creates a new ContractServicer.
func NewContractService(repo repository.CommitmentRepository, ledger LedgerServicer) ContractServicer {
	return &contractService{repo: repo, ledger: ledger}
}

func validateContract(k *models.SubcontractorContract) error {
	switch {
	case k.ProjectID == "":
		return invalidInput("project_id is required")
	case strings.TrimSpace(k.Subcontractor) == "":
		return invalidInput("subcontractor is required")
	case k.Cost < 0 || !isFinite(k.Cost):
		return invalidInput("cost must not be negative")
	}
	return nil
}

// checkPhase verifies that phaseID exists within projectID.
func checkPhase(ctx context.Context, tx repository.CommitmentRepository, projectID, phaseID string) error {
	p, err := tx.GetPhase(ctx, phaseID)
	if err != nil {
		return storeErr(err, apperrors.ErrPhaseNotFound)
	}
	if p.ProjectID != projectID {
		return apperrors.ErrPhaseProjectMismatch
	}
	return nil
}

// recompute rebuilds each distinct, non-nil phase.
func (s *contractService) recompute(ctx context.Context, tx repository.CommitmentRepository, phaseIDs ...*string) error {
	seen := make(map[string]bool, len(phaseIDs))
	for _, id := range phaseIDs {
		if id == nil || seen[*id] {
			continue
		}
		seen[*id] = true
		if err := s.ledger.RecomputeContainerTx(ctx, tx, *id); err != nil {
			return err
		}
	}
	return nil
}

// CreateContract creates a contract and, when it is assigned, rebuilds its phase.
func (s *contractService) CreateContract(ctx context.Context, in ContractInput) (*models.SubcontractorContract, error) {
	k := &models.SubcontractorContract{
		ProjectID:     in.ProjectID,
		PhaseID:       in.PhaseID,
		Subcontractor: strings.TrimSpace(in.Subcontractor),
		Description:   in.Description,
		Cost:          in.Cost,
	}
	if err := validateContract(k); err != nil {
		return nil, err
	}

	err := s.repo.WithinTransaction(ctx, func(tx repository.CommitmentRepository) error {
		if k.PhaseID != nil {
			if err := checkPhase(ctx, tx, k.ProjectID, *k.PhaseID); err != nil {
				return err
			}
		}
		if err := tx.CreateContract(ctx, k); err != nil {
			return storeErr(err, nil)
		}
		return s.recompute(ctx, tx, k.PhaseID)
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	return k, nil
}

func (s *contractService) GetContract(ctx context.Context, id string) (*models.SubcontractorContract, error) {
	k, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return nil, storeErr(err, apperrors.ErrContractNotFound)
	}
	return k, nil
}

func (s *contractService) ListContracts(
	ctx context.Context,
	projectID string,
	filter repository.ContractFilter,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.SubcontractorContract], error) {
	page.Defaults()

	items, total, err := s.repo.ListContracts(ctx, projectID, filter, page)
	if err != nil {
		return nil, storeErr(err, nil)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, total)
	return &result, nil
}

// UpdateContract edits the contract and rebuilds its phase.
func (s *contractService) UpdateContract(ctx context.Context, id string, in ContractUpdate) (*models.SubcontractorContract, error) {
	var updated *models.SubcontractorContract
	err := s.repo.WithinTransaction(ctx, func(tx repository.CommitmentRepository) error {
		k, err := tx.GetContract(ctx, id)
		if err != nil {
			return storeErr(err, apperrors.ErrContractNotFound)
		}

		fields := repository.Fields{}
		if in.Subcontractor != nil {
			k.Subcontractor = strings.TrimSpace(*in.Subcontractor)
			fields["subcontractor"] = k.Subcontractor
		}
		if in.Description != nil {
			k.Description = *in.Description
			fields["description"] = k.Description
		}
		if in.Cost != nil {
			k.Cost = *in.Cost
			fields["cost"] = k.Cost
		}
		if err := validateContract(k); err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := tx.UpdateContract(ctx, id, fields); err != nil {
				return storeErr(err, apperrors.ErrContractNotFound)
			}
		}
		if err := s.recompute(ctx, tx, k.PhaseID); err != nil {
			return err
		}

		updated, err = tx.GetContract(ctx, id)
		return storeErr(err, apperrors.ErrContractNotFound)
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	return updated, nil
}

// ReassignContract moves a contract to phaseID, or unassigns it when phaseID
// is nil. Both the old and the new phase are rebuilt.
func (s *contractService) ReassignContract(ctx context.Context, id string, phaseID *string) (*models.SubcontractorContract, error) {
	var updated *models.SubcontractorContract
	var previous *string
	err := s.repo.WithinTransaction(ctx, func(tx repository.CommitmentRepository) error {
		k, err := tx.GetContract(ctx, id)
		if err != nil {
			return storeErr(err, apperrors.ErrContractNotFound)
		}
		previous = k.PhaseID

		if phaseID != nil {
			if err := checkPhase(ctx, tx, k.ProjectID, *phaseID); err != nil {
				return err
			}
		}

		var value interface{}
		if phaseID != nil {
			value = *phaseID
		}
		if err := tx.UpdateContract(ctx, id, repository.Fields{"phase_id": value}); err != nil {
			return storeErr(err, apperrors.ErrContractNotFound)
		}
		if err := s.recompute(ctx, tx, previous, phaseID); err != nil {
			return err
		}

		updated, err = tx.GetContract(ctx, id)
		return storeErr(err, apperrors.ErrContractNotFound)
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}

	logger.Get().Infow("contract reassigned", "contract_id", id, "from_phase", previous, "to_phase", phaseID)
	return updated, nil
}

// DeleteContract removes a contract with its wire payments and rebuilds its phase.
func (s *contractService) DeleteContract(ctx context.Context, id string) error {
	err := s.repo.WithinTransaction(ctx, func(tx repository.CommitmentRepository) error {
		k, err := tx.GetContract(ctx, id)
		if err != nil {
			return storeErr(err, apperrors.ErrContractNotFound)
		}
		if _, err := tx.DeletePaymentsByOwner(ctx, models.PaymentOwnerCostAssignment, id); err != nil {
			return storeErr(err, nil)
		}
		if err := tx.DeleteContract(ctx, id); err != nil {
			return storeErr(err, apperrors.ErrContractNotFound)
		}
		return s.recompute(ctx, tx, k.PhaseID)
	})
	return storeErr(err, nil)
}

// ListContractPayments returns the wires paid under a contract.
func (s *contractService) ListContractPayments(ctx context.Context, id string) ([]models.Payment, error) {
	if _, err := s.GetContract(ctx, id); err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPaymentsByOwner(ctx, models.PaymentOwnerCostAssignment, id)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}
