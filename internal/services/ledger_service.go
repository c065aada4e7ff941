package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "buildledger/internal/errors"
	"buildledger/internal/logger"
	"buildledger/internal/metrics"
	"buildledger/internal/models"
	"buildledger/internal/money"
	"buildledger/internal/repository"
)

// ledgerService applies payments to the aggregates they feed. Every payment
// write and the aggregate update it causes share one transaction.
type ledgerService struct {
	repo repository.CommitmentRepository
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(repo repository.CommitmentRepository) LedgerServicer {
	return &ledgerService{repo: repo}
}

// aggregateChange is the before/after value of an owner's aggregate.
type aggregateChange struct {
	before float64
	after  float64
}

func validOwner(owner PaymentOwner) bool {
	return owner.Type.Valid() && owner.ID != ""
}

// adjustOwner rewrites the owner's aggregate as next(current). For a contract
// the phase it belongs to is rebuilt as well; BudgetUsed tracks committed
// cost, so the rebuild only repairs drift and never adds the payment.
func (s *ledgerService) adjustOwner(
	ctx context.Context,
	tx repository.CommitmentRepository,
	owner PaymentOwner,
	next func(current float64) float64,
) (aggregateChange, error) {
	switch owner.Type {
	case models.PaymentOwnerCommitment:
		c, err := tx.GetCommitment(ctx, owner.ID)
		if err != nil {
			return aggregateChange{}, storeErr(err, apperrors.ErrCommitmentNotFound)
		}
		change := aggregateChange{before: c.AmountPaid, after: next(c.AmountPaid)}
		if err := tx.SetCommitmentAmountPaid(ctx, c.ID, change.after); err != nil {
			return change, storeErr(err, apperrors.ErrCommitmentNotFound)
		}
		return change, nil

	case models.PaymentOwnerCostAssignment:
		k, err := tx.GetContract(ctx, owner.ID)
		if err != nil {
			return aggregateChange{}, storeErr(err, apperrors.ErrContractNotFound)
		}
		change := aggregateChange{before: k.BudgetRealized, after: next(k.BudgetRealized)}
		if err := tx.SetContractBudgetRealized(ctx, k.ID, change.after); err != nil {
			return change, storeErr(err, apperrors.ErrContractNotFound)
		}
		if k.PhaseID != nil {
			if err := s.RecomputeContainerTx(ctx, tx, *k.PhaseID); err != nil {
				return change, err
			}
		}
		return change, nil
	}
	return aggregateChange{}, apperrors.ErrInvalidPaymentOwner
}

// RecordPayment stores a new payment and adds its amount to the owner's
// aggregate. There is no upper bound: paying past the principal is allowed
// and shows up as a negative remainder.
func (s *ledgerService) RecordPayment(
	ctx context.Context,
	owner PaymentOwner,
	amount float64,
	date *time.Time,
	note string,
) (payment *models.Payment, err error) {
	if !validAmount(amount) {
		return nil, apperrors.ErrInvalidAmount
	}
	if !validOwner(owner) {
		return nil, apperrors.ErrInvalidPaymentOwner
	}
	defer func() { metrics.LedgerOperation("record", string(owner.Type), err) }()

	var change aggregateChange
	err = s.repo.WithinTransaction(ctx, func(tx repository.CommitmentRepository) error {
		payment = &models.Payment{
			OwnerType:   owner.Type,
			OwnerID:     owner.ID,
			Amount:      amount,
			PaymentDate: date,
			Note:        note,
		}
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return storeErr(err, nil)
		}

		var err error
		change, err = s.adjustOwner(ctx, tx, owner, func(current float64) float64 {
			return money.Add(current, amount)
		})
		return err
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}

	logger.Get().Infow("payment recorded",
		"payment_id", payment.ID,
		"owner_type", owner.Type,
		"owner_id", owner.ID,
		"amount", amount,
		"aggregate_before", change.before,
		"aggregate_after", change.after,
	)
	return payment, nil
}

// EditPayment replaces the amount of a payment, and its date and note when
// given, and moves the owner's aggregate by the difference. Unlike
// DeletePayment the aggregate is not floored at zero.
func (s *ledgerService) EditPayment(
	ctx context.Context,
	paymentID string,
	edit PaymentEdit,
) (payment *models.Payment, err error) {
	amount := edit.Amount
	if !validAmount(amount) {
		return nil, apperrors.ErrInvalidAmount
	}

	var ownerType models.PaymentOwnerType
	defer func() { metrics.LedgerOperation("edit", string(ownerType), err) }()

	var change aggregateChange
	var previous float64
	err = s.repo.WithinTransaction(ctx, func(tx repository.CommitmentRepository) error {
		existing, err := tx.GetPayment(ctx, paymentID)
		if err != nil {
			return storeErr(err, apperrors.ErrPaymentNotFound)
		}
		ownerType = existing.OwnerType
		previous = existing.Amount

		fields := repository.Fields{"amount": amount}
		switch {
		case edit.ClearPaymentDate:
			fields["payment_date"] = nil
		case edit.PaymentDate != nil:
			fields["payment_date"] = *edit.PaymentDate
		}
		if edit.Note != nil {
			fields["note"] = *edit.Note
		}
		if err := tx.UpdatePayment(ctx, paymentID, fields); err != nil {
			return storeErr(err, apperrors.ErrPaymentNotFound)
		}

		delta := money.Sub(amount, existing.Amount)
		change, err = s.adjustOwner(ctx, tx, PaymentOwner{Type: existing.OwnerType, ID: existing.OwnerID},
			func(current float64) float64 { return money.Add(current, delta) })
		if err != nil {
			return err
		}

		payment, err = tx.GetPayment(ctx, paymentID)
		return storeErr(err, apperrors.ErrPaymentNotFound)
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}

	logger.Get().Infow("payment edited",
		"payment_id", paymentID,
		"owner_type", payment.OwnerType,
		"owner_id", payment.OwnerID,
		"amount_before", previous,
		"amount_after", amount,
		"aggregate_before", change.before,
		"aggregate_after", change.after,
	)
	return payment, nil
}

// DeletePayment removes a payment and subtracts its amount from the owner's
// aggregate, never letting the aggregate drop below zero.
func (s *ledgerService) DeletePayment(ctx context.Context, paymentID string) (err error) {
	var ownerType models.PaymentOwnerType
	defer func() { metrics.LedgerOperation("delete", string(ownerType), err) }()

	var existing *models.Payment
	var change aggregateChange
	err = s.repo.WithinTransaction(ctx, func(tx repository.CommitmentRepository) error {
		var err error
		existing, err = tx.GetPayment(ctx, paymentID)
		if err != nil {
			return storeErr(err, apperrors.ErrPaymentNotFound)
		}
		ownerType = existing.OwnerType

		if err := tx.DeletePayment(ctx, paymentID); err != nil {
			return storeErr(err, apperrors.ErrPaymentNotFound)
		}

		change, err = s.adjustOwner(ctx, tx, PaymentOwner{Type: existing.OwnerType, ID: existing.OwnerID},
			func(current float64) float64 { return money.SubFloor(current, existing.Amount) })
		return err
	})
	if err != nil {
		return storeErr(err, nil)
	}

	logger.Get().Infow("payment deleted",
		"payment_id", paymentID,
		"owner_type", existing.OwnerType,
		"owner_id", existing.OwnerID,
		"amount", existing.Amount,
		"aggregate_before", change.before,
		"aggregate_after", change.after,
	)
	return nil
}

// RecomputeContainer rebuilds a phase's BudgetUsed from its contracts' costs.
func (s *ledgerService) RecomputeContainer(ctx context.Context, phaseID string) (*models.Phase, error) {
	var phase *models.Phase
	err := s.repo.WithinTransaction(ctx, func(tx repository.CommitmentRepository) error {
		if err := s.RecomputeContainerTx(ctx, tx, phaseID); err != nil {
			return err
		}
		var err error
		phase, err = tx.GetPhase(ctx, phaseID)
		return storeErr(err, apperrors.ErrPhaseNotFound)
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}

	metrics.ContainersRecomputed(1)
	return phase, nil
}

// RecomputeContainerTx sets BudgetUsed to the total cost of the contracts
// currently assigned to the phase, inside the caller's transaction. It is a
// full rescan and idempotent.
func (s *ledgerService) RecomputeContainerTx(ctx context.Context, tx repository.CommitmentRepository, phaseID string) error {
	if _, err := tx.GetPhase(ctx, phaseID); err != nil {
		return storeErr(err, apperrors.ErrPhaseNotFound)
	}

	contracts, err := tx.ListContractsByPhase(ctx, phaseID)
	if err != nil {
		return storeErr(err, nil)
	}

	costs := make([]float64, 0, len(contracts))
	for i := range contracts {
		costs = append(costs, contracts[i].Cost)
	}

	return storeErr(tx.SetPhaseBudgetUsed(ctx, phaseID, money.Sum(costs)), apperrors.ErrPhaseNotFound)
}

// RecomputeAllContainers rebuilds every phase, each in its own transaction.
// A failing phase does not stop the others; the count of rebuilt phases is
// returned alongside the combined error.
func (s *ledgerService) RecomputeAllContainers(ctx context.Context) (int, error) {
	ids, err := s.repo.ListAllPhaseIDs(ctx)
	if err != nil {
		return 0, storeErr(err, nil)
	}

	var failures []error
	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}
		err := s.repo.WithinTransaction(ctx, func(tx repository.CommitmentRepository) error {
			return s.RecomputeContainerTx(ctx, tx, id)
		})
		if err != nil {
			logger.Get().Errorw("failed to recompute phase", "phase_id", id, "error", err)
			failures = append(failures, fmt.Errorf("phase %s: %w", id, err))
			continue
		}
		done++
	}

	metrics.ContainersRecomputed(done)
	logger.Get().Infow("phases recomputed", "total", len(ids), "recomputed", done, "failed", len(failures))

	if len(failures) > 0 {
		return done, apperrors.Wrap(apperrors.ErrPersistence, errors.Join(failures...))
	}
	return done, nil
}

// VerifyAggregate reports whether the owner's stored aggregate matches the
// sum of its payments. It never writes.
func (s *ledgerService) VerifyAggregate(ctx context.Context, owner PaymentOwner) (*AggregateCheck, error) {
	if !validOwner(owner) {
		return nil, apperrors.ErrInvalidPaymentOwner
	}

	var stored float64
	switch owner.Type {
	case models.PaymentOwnerCommitment:
		c, err := s.repo.GetCommitment(ctx, owner.ID)
		if err != nil {
			return nil, storeErr(err, apperrors.ErrCommitmentNotFound)
		}
		stored = c.AmountPaid
	case models.PaymentOwnerCostAssignment:
		k, err := s.repo.GetContract(ctx, owner.ID)
		if err != nil {
			return nil, storeErr(err, apperrors.ErrContractNotFound)
		}
		stored = k.BudgetRealized
	}

	total, err := s.repo.SumPaymentsByOwner(ctx, owner.Type, owner.ID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	count, err := s.repo.CountPaymentsByOwner(ctx, owner.Type, owner.ID)
	if err != nil {
		return nil, storeErr(err, nil)
	}

	drift := money.Round2(money.Sub(stored, total))
	return &AggregateCheck{
		OwnerType:     owner.Type,
		OwnerID:       owner.ID,
		Stored:        stored,
		PaymentsTotal: total,
		Drift:         drift,
		PaymentCount:  count,
		InSync:        drift == 0,
	}, nil
}
