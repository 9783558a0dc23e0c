package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"gorm.io/gorm"
)

type CallRepository struct {
	db *gorm.DB
}

func NewCallRepository(db *gorm.DB) *CallRepository {
	return &CallRepository{db: db}
}

func (r *CallRepository) Create(ctx context.Context, call *domain.Call) error {
	return r.db.WithContext(ctx).Create(call).Error
}

func (r *CallRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Call, error) {
	var call domain.Call
	if err := r.db.WithContext(ctx).First(&call, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *CallRepository) Update(ctx context.Context, call *domain.Call) error {
	return r.db.WithContext(ctx).Save(call).Error
}

func (r *CallRepository) List(ctx context.Context, page, pageSize int, outcome *domain.CallOutcome, from, to *time.Time) ([]domain.Call, int64, error) {
	var calls []domain.Call
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Call{})
	if outcome != nil {
		query = query.Where("outcome = ?", *outcome)
	}
	if from != nil {
		query = query.Where("occurred_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("occurred_at < ?", *to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("occurred_at DESC").Offset(offset).Limit(pageSize).Find(&calls).Error
	return calls, total, err
}
