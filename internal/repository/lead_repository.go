package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"gorm.io/gorm"
)

// LeadFilters contains filter options for listing leads
type LeadFilters struct {
	Status        *domain.LeadStatus
	Source        *domain.LeadSource
	SLABreached   *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	SearchQuery   *string
}

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	if err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *LeadRepository) List(ctx context.Context, page, pageSize int, filters *LeadFilters) ([]domain.Lead, int64, error) {
	var leads []domain.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Lead{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&leads).Error
	return leads, total, err
}

func (r *LeadRepository) applyFilters(query *gorm.DB, filters *LeadFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Source != nil {
		query = query.Where("source = ?", *filters.Source)
	}
	if filters.SLABreached != nil {
		query = query.Where("sla_breached = ?", *filters.SLABreached)
	}
	if filters.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filters.CreatedAfter)
	}
	if filters.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filters.CreatedBefore)
	}
	if filters.SearchQuery != nil && *filters.SearchQuery != "" {
		search := "%" + *filters.SearchQuery + "%"
		query = query.Where("name ILIKE ? OR phone LIKE ? OR email ILIKE ?", search, search, search)
	}
	return query
}

// FindRecentMatch looks for a non-terminal lead sharing a phone number or
// email address within the dedupe window. Empty values never match.
func (r *LeadRepository) FindRecentMatch(ctx context.Context, phone, email string, since time.Time) (*domain.Lead, error) {
	if phone == "" && email == "" {
		return nil, gorm.ErrRecordNotFound
	}

	query := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("created_at >= ?", since).
		Where("status NOT IN ?", []domain.LeadStatus{
			domain.LeadStatusDuplicate, domain.LeadStatusSpam,
		})

	switch {
	case phone != "" && email != "":
		query = query.Where("phone = ? OR email = ?", phone, email)
	case phone != "":
		query = query.Where("phone = ?", phone)
	default:
		query = query.Where("email = ?", email)
	}

	var lead domain.Lead
	if err := query.Order("created_at DESC").First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// FindSLABreaches returns untouched leads whose response deadline has passed
// and that have not been flagged yet.
func (r *LeadRepository) FindSLABreaches(ctx context.Context, now time.Time) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.LeadStatusNew).
		Where("sla_breached = ?", false).
		Where("sla_deadline IS NOT NULL AND sla_deadline < ?", now).
		Find(&leads).Error
	return leads, err
}

// MarkSLABreached flags a lead as having missed its response deadline
func (r *LeadRepository) MarkSLABreached(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("id = ?", id).
		Update("sla_breached", true).Error
}

// CountBySourceSince counts leads per source created on or after the cutoff
func (r *LeadRepository) CountBySourceSince(ctx context.Context, source domain.LeadSource, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("source = ? AND created_at >= ?", source, since).
		Count(&count).Error
	return count, err
}

// CountByStatus counts leads currently in the given status
func (r *LeadRepository) CountByStatus(ctx context.Context, status domain.LeadStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CountBreached counts leads flagged for SLA breach
func (r *LeadRepository) CountBreached(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("sla_breached = ?", true).
		Count(&count).Error
	return count, err
}
