package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

func (r *CommissionRepository) Create(ctx context.Context, c *domain.SalesCommission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *CommissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesCommission, error) {
	var c domain.SalesCommission
	err := r.db.WithContext(ctx).
		Preload("Salesperson").
		Preload("Salesperson.User").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByJobID returns the commission snapshot for a job, at most one exists
func (r *CommissionRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*domain.SalesCommission, error) {
	var c domain.SalesCommission
	err := r.db.WithContext(ctx).First(&c, "job_id = ?", jobID).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommissionRepository) Update(ctx context.Context, c *domain.SalesCommission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *CommissionRepository) ListBySalesperson(ctx context.Context, salespersonID uuid.UUID, status *domain.CommissionStatus) ([]domain.SalesCommission, error) {
	var commissions []domain.SalesCommission
	query := r.db.WithContext(ctx).Where("salesperson_id = ?", salespersonID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("calculated_at DESC").Find(&commissions).Error
	return commissions, err
}

func (r *CommissionRepository) List(ctx context.Context, status *domain.CommissionStatus) ([]domain.SalesCommission, error) {
	var commissions []domain.SalesCommission
	query := r.db.WithContext(ctx).
		Preload("Salesperson").
		Preload("Salesperson.User")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("calculated_at DESC").Find(&commissions).Error
	return commissions, err
}

// SumForPeriod totals commission amounts calculated inside the window
func (r *CommissionRepository) SumForPeriod(ctx context.Context, salespersonID uuid.UUID, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.SalesCommission{}).
		Where("salesperson_id = ?", salespersonID).
		Where("calculated_at >= ? AND calculated_at < ?", from, to).
		Select("COALESCE(SUM(commission_amount), 0)").
		Scan(&total).Error
	return total, err
}
