package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuoteFilters contains filter options for listing quotes
type QuoteFilters struct {
	Status        *domain.QuoteStatus
	JobID         *uuid.UUID
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	SearchQuery   *string
}

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	if err := r.db.WithContext(ctx).First(&quote, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

// GetByToken resolves a quote from its public access token
func (r *QuoteRepository) GetByToken(ctx context.Context, token string) (*domain.Quote, error) {
	var quote domain.Quote
	if err := r.db.WithContext(ctx).First(&quote, "access_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(quote).Error
}

func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Quote{}, "id = ?", id).Error
}

func (r *QuoteRepository) List(ctx context.Context, page, pageSize int, filters *QuoteFilters) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Quote{})
	if filters != nil {
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.JobID != nil {
			query = query.Where("job_id = ?", *filters.JobID)
		}
		if filters.CreatedAfter != nil {
			query = query.Where("created_at >= ?", *filters.CreatedAfter)
		}
		if filters.CreatedBefore != nil {
			query = query.Where("created_at <= ?", *filters.CreatedBefore)
		}
		if filters.SearchQuery != nil && *filters.SearchQuery != "" {
			search := "%" + *filters.SearchQuery + "%"
			query = query.Where("customer_name ILIKE ? OR title ILIKE ?", search, search)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&quotes).Error
	return quotes, total, err
}

// FindExpired returns open quotes whose expiry has passed
func (r *QuoteRepository) FindExpired(ctx context.Context, now time.Time) ([]domain.Quote, error) {
	var quotes []domain.Quote
	err := r.db.WithContext(ctx).
		Where("status IN ?", []domain.QuoteStatus{domain.QuoteStatusSent, domain.QuoteStatusViewed}).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Find(&quotes).Error
	return quotes, err
}

// CountOpen counts quotes awaiting a customer response
func (r *QuoteRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("status IN ?", []domain.QuoteStatus{domain.QuoteStatusSent, domain.QuoteStatusViewed}).
		Count(&count).Error
	return count, err
}

// CountByStatuses returns counts for resolved quote outcomes
func (r *QuoteRepository) CountByStatus(ctx context.Context, status domain.QuoteStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
