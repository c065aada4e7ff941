package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"buildledger/internal/models"
	"buildledger/internal/money"
	"buildledger/internal/pagination"
)

// gormRepository implements CommitmentRepository on top of GORM.
type gormRepository struct {
	db *gorm.DB
	// inTx is set on repositories handed to WithinTransaction callbacks.
	inTx bool
}

// NewGormRepository creates a CommitmentRepository backed by db.
func NewGormRepository(db *gorm.DB) CommitmentRepository {
	return &gormRepository{db: db}
}

func (r *gormRepository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// reader returns a query builder for single-row reads. Inside a transaction
// on Postgres the row is locked until commit so concurrent ledger updates of
// the same aggregate serialize. SQLite serializes writers on its own.
func (r *gormRepository) reader(ctx context.Context) *gorm.DB {
	db := r.conn(ctx)
	if r.inTx && r.db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func (r *gormRepository) WithinTransaction(ctx context.Context, fn func(tx CommitmentRepository) error) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx, inTx: true})
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func first[T any](db *gorm.DB, id string) (*T, error) {
	var out T
	if err := db.Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func updateByID[T any](db *gorm.DB, id string, fields map[string]interface{}) error {
	var model T
	result := db.Model(&model).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID[T any](db *gorm.DB, id string) error {
	var model T
	result := db.Where("id = ?", id).Delete(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func list[T any](base *gorm.DB, page pagination.PageRequest, order string) ([]T, int64, error) {
	page.Defaults()

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []T
	if err := base.Order(order).Scopes(pagination.Paginate(page)).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Commitments

func (r *gormRepository) CreateCommitment(ctx context.Context, c *models.Commitment) error {
	return r.conn(ctx).Create(c).Error
}

func (r *gormRepository) GetCommitment(ctx context.Context, id string) (*models.Commitment, error) {
	return first[models.Commitment](r.reader(ctx), id)
}

func (r *gormRepository) ListCommitments(
	ctx context.Context,
	projectID string,
	filter CommitmentFilter,
	page pagination.PageRequest,
) ([]models.Commitment, int64, error) {
	base := r.conn(ctx).Model(&models.Commitment{}).Where("project_id = ?", projectID)
	if filter.Kind != nil {
		base = base.Where("kind = ?", *filter.Kind)
	}
	if filter.Seniority != nil {
		base = base.Where("seniority = ?", *filter.Seniority)
	}
	return list[models.Commitment](base, page, "start_date ASC, id ASC")
}

func (r *gormRepository) ListProjectCommitments(ctx context.Context, projectID string) ([]models.Commitment, error) {
	var out []models.Commitment
	err := r.conn(ctx).Where("project_id = ?", projectID).Order("start_date ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *gormRepository) UpdateCommitment(ctx context.Context, id string, fields Fields) error {
	return updateByID[models.Commitment](r.conn(ctx), id, fields)
}

func (r *gormRepository) DeleteCommitment(ctx context.Context, id string) error {
	return deleteByID[models.Commitment](r.conn(ctx), id)
}

func (r *gormRepository) SetCommitmentAmountPaid(ctx context.Context, id string, amount float64) error {
	return updateByID[models.Commitment](r.conn(ctx), id, Fields{"amount_paid": amount})
}

// Payments

func (r *gormRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.conn(ctx).Create(p).Error
}

func (r *gormRepository) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	return first[models.Payment](r.reader(ctx), id)
}

func (r *gormRepository) ownerPayments(ctx context.Context, ownerType models.PaymentOwnerType, ownerID string) *gorm.DB {
	return r.conn(ctx).Model(&models.Payment{}).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID)
}

// ListPaymentsByOwner returns the owner's payments in creation order.
func (r *gormRepository) ListPaymentsByOwner(
	ctx context.Context,
	ownerType models.PaymentOwnerType,
	ownerID string,
) ([]models.Payment, error) {
	var out []models.Payment
	err := r.ownerPayments(ctx, ownerType, ownerID).Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *gormRepository) CountPaymentsByOwner(ctx context.Context, ownerType models.PaymentOwnerType, ownerID string) (int64, error) {
	var n int64
	err := r.ownerPayments(ctx, ownerType, ownerID).Count(&n).Error
	return n, err
}

func (r *gormRepository) UpdatePayment(ctx context.Context, id string, fields Fields) error {
	return updateByID[models.Payment](r.conn(ctx), id, fields)
}

func (r *gormRepository) DeletePayment(ctx context.Context, id string) error {
	return deleteByID[models.Payment](r.conn(ctx), id)
}

func (r *gormRepository) DeletePaymentsByOwner(ctx context.Context, ownerType models.PaymentOwnerType, ownerID string) (int64, error) {
	result := r.conn(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Delete(&models.Payment{})
	return result.RowsAffected, result.Error
}

// SumPaymentsByOwner adds the owner's payment amounts in decimal.
func (r *gormRepository) SumPaymentsByOwner(ctx context.Context, ownerType models.PaymentOwnerType, ownerID string) (float64, error) {
	var amounts []float64
	if err := r.ownerPayments(ctx, ownerType, ownerID).Pluck("amount", &amounts).Error; err != nil {
		return 0, err
	}
	return money.Sum(amounts), nil
}

// Phases

func (r *gormRepository) CreatePhase(ctx context.Context, p *models.Phase) error {
	return r.conn(ctx).Create(p).Error
}

func (r *gormRepository) GetPhase(ctx context.Context, id string) (*models.Phase, error) {
	return first[models.Phase](r.reader(ctx), id)
}

func (r *gormRepository) ListPhases(ctx context.Context, projectID string, page pagination.PageRequest) ([]models.Phase, int64, error) {
	base := r.conn(ctx).Model(&models.Phase{}).Where("project_id = ?", projectID)
	return list[models.Phase](base, page, "created_at ASC, id ASC")
}

func (r *gormRepository) ListAllPhaseIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.conn(ctx).Model(&models.Phase{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *gormRepository) UpdatePhase(ctx context.Context, id string, fields Fields) error {
	return updateByID[models.Phase](r.conn(ctx), id, fields)
}

func (r *gormRepository) DeletePhase(ctx context.Context, id string) error {
	return deleteByID[models.Phase](r.conn(ctx), id)
}

func (r *gormRepository) SetPhaseBudgetUsed(ctx context.Context, id string, amount float64) error {
	return updateByID[models.Phase](r.conn(ctx), id, Fields{"budget_used": amount})
}

// Contracts

func (r *gormRepository) CreateContract(ctx context.Context, c *models.SubcontractorContract) error {
	return r.conn(ctx).Create(c).Error
}

func (r *gormRepository) GetContract(ctx context.Context, id string) (*models.SubcontractorContract, error) {
	return first[models.SubcontractorContract](r.reader(ctx), id)
}

func (r *gormRepository) ListContracts(
	ctx context.Context,
	projectID string,
	filter ContractFilter,
	page pagination.PageRequest,
) ([]models.SubcontractorContract, int64, error) {
	base := r.conn(ctx).Model(&models.SubcontractorContract{}).Where("project_id = ?", projectID)
	switch {
	case filter.Unassigned:
		base = base.Where("phase_id IS NULL")
	case filter.PhaseID != nil:
		base = base.Where("phase_id = ?", *filter.PhaseID)
	}
	return list[models.SubcontractorContract](base, page, "created_at ASC, id ASC")
}

func (r *gormRepository) ListContractsByPhase(ctx context.Context, phaseID string) ([]models.SubcontractorContract, error) {
	var out []models.SubcontractorContract
	err := r.conn(ctx).Where("phase_id = ?", phaseID).Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *gormRepository) UpdateContract(ctx context.Context, id string, fields Fields) error {
	return updateByID[models.SubcontractorContract](r.conn(ctx), id, fields)
}

func (r *gormRepository) DeleteContract(ctx context.Context, id string) error {
	return deleteByID[models.SubcontractorContract](r.conn(ctx), id)
}

// UnassignContractsFromPhase clears phase_id on every contract of the phase
// and returns the IDs that were detached.
func (r *gormRepository) UnassignContractsFromPhase(ctx context.Context, phaseID string) ([]string, error) {
	var ids []string
	db := r.conn(ctx)
	if err := db.Model(&models.SubcontractorContract{}).Where("phase_id = ?", phaseID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	err := db.Model(&models.SubcontractorContract{}).
		Where("id IN ?", ids).
		Update("phase_id", gorm.Expr("NULL")).Error
	return ids, err
}

func (r *gormRepository) SetContractBudgetRealized(ctx context.Context, id string, amount float64) error {
	return updateByID[models.SubcontractorContract](r.conn(ctx), id, Fields{"budget_realized": amount})
}

// Audit

func (r *gormRepository) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return r.conn(ctx).Create(entry).Error
}
