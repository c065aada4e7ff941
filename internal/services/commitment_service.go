package services

import (
	"context"
	"errors"
	"strings"

	"buildledger/internal/amortization"
	apperrors "buildledger/internal/errors"
	"buildledger/internal/models"
	"buildledger/internal/money"
	"buildledger/internal/pagination"
	"buildledger/internal/repository"
)

// commitmentService handles bank credits and investor investments.
type commitmentService struct {
	repo repository.CommitmentRepository
}

// NewCommitmentService creates a new CommitmentServicer.
func NewCommitmentService(repo repository.CommitmentRepository) CommitmentServicer {
	return &commitmentService{repo: repo}
}

// applyDefaults fills enum fields left empty. Credits count grace in months,
// investments in days.
func applyDefaults(c *models.Commitment) {
	if c.GraceUnit == "" {
		if c.Kind == models.CommitmentKindCredit {
			c.GraceUnit = models.GraceUnitMonths
		} else {
			c.GraceUnit = models.GraceUnitDays
		}
	}
	if c.Cadence == "" {
		c.Cadence = amortization.CadenceMonthly
	}
	if c.Seniority == "" {
		c.Seniority = models.SenioritySenior
	}
}

func validateCommitment(c *models.Commitment) error {
	switch {
	case c.ProjectID == "":
		return invalidInput("project_id is required")
	case c.Kind != models.CommitmentKindCredit && c.Kind != models.CommitmentKindInvestment:
		return invalidInput("kind must be credit or investment")
	case strings.TrimSpace(c.Counterparty) == "":
		return invalidInput("counterparty is required")
	case c.StartDate.IsZero():
		return invalidInput("start_date is required")
	case c.GraceUnit != models.GraceUnitDays && c.GraceUnit != models.GraceUnitMonths:
		return invalidInput("grace_unit must be days or months")
	case c.Seniority != models.SenioritySenior && c.Seniority != models.SeniorityJunior:
		return invalidInput("seniority must be senior or junior")
	case c.StakePercent < 0 || c.StakePercent > 100 || !isFinite(c.StakePercent):
		return invalidInput("stake_percent must be between 0 and 100")
	case c.InsuranceAddOn < 0 || !isFinite(c.InsuranceAddOn):
		return invalidInput("insurance_add_on must not be negative")
	}

	if _, err := amortization.PeriodicPayment(c.Terms()); err != nil {
		var ite *amortization.InvalidTermsError
		if errors.As(err, &ite) {
			return apperrors.WithMessage(apperrors.ErrInvalidTerms, ite.Reason)
		}
		return apperrors.Wrap(apperrors.ErrInvalidTerms, err)
	}
	return nil
}

// periodicPayment is the rounded payment for the commitment's current terms,
// or nil when it cannot be determined.
func periodicPayment(c *models.Commitment) *float64 {
	p, err := amortization.PeriodicPayment(c.Terms())
	if err != nil {
		return nil
	}
	rounded := money.Round2(p)
	return &rounded
}

// CreateCommitment registers a credit or investment and stores the periodic
// payment computed from its terms.
func (s *commitmentService) CreateCommitment(ctx context.Context, in CommitmentInput) (*models.Commitment, error) {
	c := &models.Commitment{
		ProjectID:         in.ProjectID,
		Kind:              in.Kind,
		Counterparty:      strings.TrimSpace(in.Counterparty),
		Principal:         in.Principal,
		AnnualRatePercent: in.AnnualRatePercent,
		StartDate:         in.StartDate,
		MaturityDate:      in.MaturityDate,
		GracePeriod:       in.GracePeriod,
		GraceUnit:         in.GraceUnit,
		Cadence:           in.Cadence,
		Seniority:         in.Seniority,
		StakePercent:      in.StakePercent,
		InsuranceAddOn:    in.InsuranceAddOn,
		Notes:             in.Notes,
	}
	applyDefaults(c)

	if err := validateCommitment(c); err != nil {
		return nil, err
	}
	c.PeriodicPayment = periodicPayment(c)

	if err := s.repo.CreateCommitment(ctx, c); err != nil {
		return nil, storeErr(err, nil)
	}
	return c, nil
}

// GetCommitment returns a commitment by ID.
func (s *commitmentService) GetCommitment(ctx context.Context, id string) (*models.Commitment, error) {
	c, err := s.repo.GetCommitment(ctx, id)
	if err != nil {
		return nil, storeErr(err, apperrors.ErrCommitmentNotFound)
	}
	return c, nil
}

// ListCommitments returns a page of a project's commitments.
func (s *commitmentService) ListCommitments(
	ctx context.Context,
	projectID string,
	filter repository.CommitmentFilter,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.Commitment], error) {
	page.Defaults()

	items, total, err := s.repo.ListCommitments(ctx, projectID, filter, page)
	if err != nil {
		return nil, storeErr(err, nil)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, total)
	return &result, nil
}

// UpdateCommitment edits terms and metadata. The stored periodic payment
// only changes when RecalculatePayment is set.
func (s *commitmentService) UpdateCommitment(ctx context.Context, id string, in CommitmentUpdate) (*models.Commitment, error) {
	c, err := s.GetCommitment(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := repository.Fields{}
	if in.Counterparty != nil {
		c.Counterparty = strings.TrimSpace(*in.Counterparty)
		fields["counterparty"] = c.Counterparty
	}
	if in.Principal != nil {
		c.Principal = *in.Principal
		fields["principal"] = c.Principal
	}
	if in.AnnualRatePercent != nil {
		c.AnnualRatePercent = *in.AnnualRatePercent
		fields["annual_rate_percent"] = c.AnnualRatePercent
	}
	if in.StartDate != nil {
		c.StartDate = *in.StartDate
		fields["start_date"] = c.StartDate
	}
	switch {
	case in.ClearMaturityDate:
		c.MaturityDate = nil
		fields["maturity_date"] = nil
	case in.MaturityDate != nil:
		c.MaturityDate = in.MaturityDate
		fields["maturity_date"] = *in.MaturityDate
	}
	if in.GracePeriod != nil {
		c.GracePeriod = *in.GracePeriod
		fields["grace_period"] = c.GracePeriod
	}
	if in.GraceUnit != nil {
		c.GraceUnit = *in.GraceUnit
		fields["grace_unit"] = c.GraceUnit
	}
	if in.Cadence != nil {
		c.Cadence = *in.Cadence
		fields["cadence"] = c.Cadence
	}
	if in.Seniority != nil {
		c.Seniority = *in.Seniority
		fields["seniority"] = c.Seniority
	}
	if in.StakePercent != nil {
		c.StakePercent = *in.StakePercent
		fields["stake_percent"] = c.StakePercent
	}
	if in.InsuranceAddOn != nil {
		c.InsuranceAddOn = *in.InsuranceAddOn
		fields["insurance_add_on"] = c.InsuranceAddOn
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
		fields["notes"] = c.Notes
	}

	if err := validateCommitment(c); err != nil {
		return nil, err
	}
	if in.RecalculatePayment {
		c.PeriodicPayment = periodicPayment(c)
		fields["periodic_payment"] = c.PeriodicPayment
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateCommitment(ctx, id, fields); err != nil {
			return nil, storeErr(err, apperrors.ErrCommitmentNotFound)
		}
	}
	return s.GetCommitment(ctx, id)
}

// DeleteCommitment removes a commitment together with its payments.
func (s *commitmentService) DeleteCommitment(ctx context.Context, id string) error {
	err := s.repo.WithinTransaction(ctx, func(tx repository.CommitmentRepository) error {
		if _, err := tx.GetCommitment(ctx, id); err != nil {
			return storeErr(err, apperrors.ErrCommitmentNotFound)
		}
		if _, err := tx.DeletePaymentsByOwner(ctx, models.PaymentOwnerCommitment, id); err != nil {
			return storeErr(err, nil)
		}
		return storeErr(tx.DeleteCommitment(ctx, id), apperrors.ErrCommitmentNotFound)
	})
	return storeErr(err, nil)
}

// GetCommitmentSummary returns the paid/remaining position of a commitment
// together with a fresh quote for its current terms.
func (s *commitmentService) GetCommitmentSummary(ctx context.Context, id string) (*CommitmentSummary, error) {
	c, err := s.GetCommitment(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountPaymentsByOwner(ctx, models.PaymentOwnerCommitment, id)
	if err != nil {
		return nil, storeErr(err, nil)
	}

	return &CommitmentSummary{
		Commitment:         c,
		AmountPaid:         c.AmountPaid,
		Remaining:          c.Remaining(),
		UtilizationPercent: money.Round2(c.UtilizationPercent()),
		IsOverpaid:         c.IsOverpaid(),
		PaymentCount:       count,
		Quote:              amortization.NewQuote(c.Terms()),
	}, nil
}

// ListCommitmentPayments returns a commitment's payments in recording order.
func (s *commitmentService) ListCommitmentPayments(ctx context.Context, id string) ([]models.Payment, error) {
	if _, err := s.GetCommitment(ctx, id); err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPaymentsByOwner(ctx, models.PaymentOwnerCommitment, id)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

// add folds one commitment into the totals. Yearly payments count as a
// twelfth per month.
func (t *FinanceTotals) add(c *models.Commitment) {
	t.Count++
	t.Principal = money.Add(t.Principal, c.Principal)
	t.Paid = money.Add(t.Paid, c.AmountPaid)
	t.Remaining = money.Add(t.Remaining, c.Remaining())

	if c.PeriodicPayment == nil {
		return
	}
	monthly := *c.PeriodicPayment
	if c.Cadence == amortization.CadenceYearly {
		monthly /= amortization.MonthsPerYear
	}
	t.MonthlyEquivalent = money.Round2(money.Add(t.MonthlyEquivalent, monthly))
}

// GetProjectFinanceSummary totals a project's commitments overall, per kind
// and per seniority.
func (s *commitmentService) GetProjectFinanceSummary(ctx context.Context, projectID string) (*ProjectFinanceSummary, error) {
	commitments, err := s.repo.ListProjectCommitments(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, nil)
	}

	summary := &ProjectFinanceSummary{
		ProjectID:   projectID,
		ByKind:      map[models.CommitmentKind]FinanceTotals{},
		BySeniority: map[models.Seniority]FinanceTotals{},
	}
	for i := range commitments {
		c := &commitments[i]
		summary.Total.add(c)

		byKind := summary.ByKind[c.Kind]
		byKind.add(c)
		summary.ByKind[c.Kind] = byKind

		bySeniority := summary.BySeniority[c.Seniority]
		bySeniority.add(c)
		summary.BySeniority[c.Seniority] = bySeniority
	}
	return summary, nil
}
