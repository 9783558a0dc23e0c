package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

func (r *PayrollRepository) Create(ctx context.Context, stmt *domain.PayrollStatement) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(stmt).Error
}

func (r *PayrollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PayrollStatement, error) {
	var stmt domain.PayrollStatement
	err := r.db.WithContext(ctx).
		Preload("Technician").
		Preload("Technician.User").
		First(&stmt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &stmt, nil
}

// GetForPeriod finds an existing statement for the exact period, used to
// keep payroll runs idempotent.
func (r *PayrollRepository) GetForPeriod(ctx context.Context, technicianID uuid.UUID, periodStart, periodEnd time.Time) (*domain.PayrollStatement, error) {
	var stmt domain.PayrollStatement
	err := r.db.WithContext(ctx).
		Where("technician_id = ?", technicianID).
		Where("period_start = ? AND period_end = ?", periodStart, periodEnd).
		First(&stmt).Error
	if err != nil {
		return nil, err
	}
	return &stmt, nil
}

func (r *PayrollRepository) ListByTechnician(ctx context.Context, technicianID uuid.UUID) ([]domain.PayrollStatement, error) {
	var stmts []domain.PayrollStatement
	err := r.db.WithContext(ctx).
		Where("technician_id = ?", technicianID).
		Order("period_start DESC").
		Find(&stmts).Error
	return stmts, err
}

func (r *PayrollRepository) List(ctx context.Context, from, to *time.Time) ([]domain.PayrollStatement, error) {
	var stmts []domain.PayrollStatement
	query := r.db.WithContext(ctx).
		Preload("Technician").
		Preload("Technician.User")
	if from != nil {
		query = query.Where("period_start >= ?", *from)
	}
	if to != nil {
		query = query.Where("period_end <= ?", *to)
	}
	err := query.Order("period_start DESC").Find(&stmts).Error
	return stmts, err
}
