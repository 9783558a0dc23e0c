package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TechnicianRepository struct {
	db *gorm.DB
}

func NewTechnicianRepository(db *gorm.DB) *TechnicianRepository {
	return &TechnicianRepository{db: db}
}

func (r *TechnicianRepository) Create(ctx context.Context, tech *domain.Technician) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tech).Error
}

func (r *TechnicianRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Technician, error) {
	var tech domain.Technician
	err := r.db.WithContext(ctx).Preload("User").First(&tech, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *TechnicianRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Technician, error) {
	var tech domain.Technician
	err := r.db.WithContext(ctx).Preload("User").First(&tech, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *TechnicianRepository) Update(ctx context.Context, tech *domain.Technician) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(tech).Error
}

func (r *TechnicianRepository) List(ctx context.Context, status *domain.TechnicianStatus) ([]domain.Technician, error) {
	var techs []domain.Technician
	query := r.db.WithContext(ctx).Preload("User")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("created_at ASC").Find(&techs).Error
	return techs, err
}

func (r *TechnicianRepository) ListAll(ctx context.Context) ([]domain.Technician, error) {
	return r.List(ctx, nil)
}

// UpdateStatus flips the duty status without touching the rest of the row
func (r *TechnicianRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TechnicianStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Technician{}).
		Where("id = ?", id).
		Update("status", status).Error
}
