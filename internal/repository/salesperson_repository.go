package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SalespersonRepository struct {
	db *gorm.DB
}

func NewSalespersonRepository(db *gorm.DB) *SalespersonRepository {
	return &SalespersonRepository{db: db}
}

func (r *SalespersonRepository) Create(ctx context.Context, sp *domain.Salesperson) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sp).Error
}

func (r *SalespersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Salesperson, error) {
	var sp domain.Salesperson
	err := r.db.WithContext(ctx).Preload("User").First(&sp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *SalespersonRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Salesperson, error) {
	var sp domain.Salesperson
	err := r.db.WithContext(ctx).Preload("User").First(&sp, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *SalespersonRepository) Update(ctx context.Context, sp *domain.Salesperson) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sp).Error
}

func (r *SalespersonRepository) List(ctx context.Context, activeOnly bool) ([]domain.Salesperson, error) {
	var sps []domain.Salesperson
	query := r.db.WithContext(ctx).Preload("User")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("created_at ASC").Find(&sps).Error
	return sps, err
}
