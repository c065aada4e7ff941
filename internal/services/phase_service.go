package services

import (
	"context"
	"fmt"
	"strings"

	apperrors "buildledger/internal/errors"
	"buildledger/internal/models"
	"buildledger/internal/money"
	"buildledger/internal/pagination"
	"buildledger/internal/repository"
)

// phaseService handles budget containers.
type phaseService struct {
	repo repository.CommitmentRepository
}

// NewPhaseService creates a new PhaseServicer.
func NewPhaseService(repo repository.CommitmentRepository) PhaseServicer {
	return &phaseService{repo: repo}
}

func validatePhase(p *models.Phase) error {
	switch {
	case p.ProjectID == "":
		return invalidInput("project_id is required")
	case strings.TrimSpace(p.Name) == "":
		return invalidInput("name is required")
	case p.BudgetAllocated < 0 || !isFinite(p.BudgetAllocated):
		return invalidInput("budget_allocated must not be negative")
	case p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate):
		return invalidInput("end_date must not be before start_date")
	}
	return nil
}

// CreatePhase creates an empty phase. BudgetUsed starts at zero.
func (s *phaseService) CreatePhase(ctx context.Context, in PhaseInput) (*models.Phase, error) {
	p := &models.Phase{
		ProjectID:       in.ProjectID,
		Name:            strings.TrimSpace(in.Name),
		BudgetAllocated: in.BudgetAllocated,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
	}
	if err := validatePhase(p); err != nil {
		return nil, err
	}

	if err := s.repo.CreatePhase(ctx, p); err != nil {
		return nil, storeErr(err, nil)
	}
	return p, nil
}

func (s *phaseService) GetPhase(ctx context.Context, id string) (*models.Phase, error) {
	p, err := s.repo.GetPhase(ctx, id)
	if err != nil {
		return nil, storeErr(err, apperrors.ErrPhaseNotFound)
	}
	return p, nil
}

func (s *phaseService) ListPhases(
	ctx context.Context,
	projectID string,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.Phase], error) {
	page.Defaults()

	items, total, err := s.repo.ListPhases(ctx, projectID, page)
	if err != nil {
		return nil, storeErr(err, nil)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, total)
	return &result, nil
}

// UpdatePhase changes name, allocation and dates.
func (s *phaseService) UpdatePhase(ctx context.Context, id string, in PhaseUpdate) (*models.Phase, error) {
	p, err := s.GetPhase(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := repository.Fields{}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
		fields["name"] = p.Name
	}
	if in.BudgetAllocated != nil {
		p.BudgetAllocated = *in.BudgetAllocated
		fields["budget_allocated"] = p.BudgetAllocated
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate
		fields["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = in.EndDate
		fields["end_date"] = *in.EndDate
	}

	if err := validatePhase(p); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := s.repo.UpdatePhase(ctx, id, fields); err != nil {
			return nil, storeErr(err, apperrors.ErrPhaseNotFound)
		}
	}
	return s.GetPhase(ctx, id)
}

// DeletePhase deletes a phase and leaves its contracts unassigned.
func (s *phaseService) DeletePhase(ctx context.Context, id string) error {
	err := s.repo.WithinTransaction(ctx, func(tx repository.CommitmentRepository) error {
		if _, err := tx.GetPhase(ctx, id); err != nil {
			return storeErr(err, apperrors.ErrPhaseNotFound)
		}
		if _, err := tx.UnassignContractsFromPhase(ctx, id); err != nil {
			return storeErr(err, nil)
		}
		return storeErr(tx.DeletePhase(ctx, id), apperrors.ErrPhaseNotFound)
	})
	return storeErr(err, nil)
}

// GetPhaseBudgetStatus reports allocation against committed cost.
// Over-allocation is reported as a warning, never rejected.
func (s *phaseService) GetPhaseBudgetStatus(ctx context.Context, id string) (*PhaseBudgetStatus, error) {
	p, err := s.GetPhase(ctx, id)
	if err != nil {
		return nil, err
	}

	contracts, err := s.repo.ListContractsByPhase(ctx, id)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	disbursed := make([]float64, 0, len(contracts))
	for i := range contracts {
		disbursed = append(disbursed, contracts[i].BudgetRealized)
	}

	status := &PhaseBudgetStatus{
		PhaseID:            p.ID,
		Allocated:          p.BudgetAllocated,
		Used:               p.BudgetUsed,
		Available:          p.Available(),
		UtilizationPercent: money.Round2(p.UtilizationPercent()),
		OverAllocated:      p.IsOverAllocated(),
		ContractCount:      len(contracts),
		Disbursed:          money.Sum(disbursed),
	}
	if status.OverAllocated {
		status.Warning = fmt.Sprintf("phase is over-allocated by %s", money.Format(-status.Available))
	}
	return status, nil
}
