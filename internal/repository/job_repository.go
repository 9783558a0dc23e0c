package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobFilters contains filter options for listing jobs
type JobFilters struct {
	Status          *domain.JobStatus
	Priority        *domain.JobPriority
	TechnicianID    *uuid.UUID
	SalespersonID   *uuid.UUID
	ServiceType     *string
	ScheduledAfter  *time.Time
	ScheduledBefore *time.Time
	SearchQuery     *string
}

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(job).Error
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var job domain.Job
	err := r.db.WithContext(ctx).
		Preload("AssignedTechnician").
		Preload("AssignedTechnician.User").
		Preload("Salesperson").
		First(&job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(job).Error
}

func (r *JobRepository) List(ctx context.Context, page, pageSize int, filters *JobFilters) ([]domain.Job, int64, error) {
	var jobs []domain.Job
	var total int64

	query := r.db.WithContext(ctx).
		Model(&domain.Job{}).
		Preload("AssignedTechnician").
		Preload("AssignedTechnician.User")
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepository) applyFilters(query *gorm.DB, filters *JobFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.TechnicianID != nil {
		query = query.Where("assigned_technician_id = ?", *filters.TechnicianID)
	}
	if filters.SalespersonID != nil {
		query = query.Where("salesperson_id = ?", *filters.SalespersonID)
	}
	if filters.ServiceType != nil {
		query = query.Where("service_type = ?", *filters.ServiceType)
	}
	if filters.ScheduledAfter != nil {
		query = query.Where("scheduled_at >= ?", *filters.ScheduledAfter)
	}
	if filters.ScheduledBefore != nil {
		query = query.Where("scheduled_at <= ?", *filters.ScheduledBefore)
	}
	if filters.SearchQuery != nil && *filters.SearchQuery != "" {
		search := "%" + *filters.SearchQuery + "%"
		query = query.Where("customer_name ILIKE ? OR address ILIKE ?", search, search)
	}
	return query
}

// ListPool returns unassigned pending jobs open for self-claiming
func (r *JobRepository) ListPool(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Where("status = ? AND assigned_technician_id IS NULL", domain.JobStatusPending).
		Order("priority DESC, created_at ASC").
		Find(&jobs).Error
	return jobs, err
}

// Claim assigns a pool job to a technician with a conditional update so two
// concurrent claims cannot both win. Returns the number of rows changed;
// zero means another technician got there first or the job left the pool.
func (r *JobRepository) Claim(ctx context.Context, jobID, technicianID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Job{}).
		Where("id = ? AND status = ? AND assigned_technician_id IS NULL", jobID, domain.JobStatusPending).
		Updates(map[string]interface{}{
			"assigned_technician_id": technicianID,
			"status":                 domain.JobStatusAssigned,
		})
	return result.RowsAffected, result.Error
}

// CountScheduledForDay counts a technician's non-cancelled jobs scheduled
// within the given day, used to enforce the daily cap.
func (r *JobRepository) CountScheduledForDay(ctx context.Context, technicianID uuid.UUID, dayStart, dayEnd time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Job{}).
		Where("assigned_technician_id = ?", technicianID).
		Where("status <> ?", domain.JobStatusCancelled).
		Where("scheduled_at >= ? AND scheduled_at < ?", dayStart, dayEnd).
		Count(&count).Error
	return count, err
}

// ListCompletedInPeriod returns a technician's completed jobs within the
// period, used by payroll.
func (r *JobRepository) ListCompletedInPeriod(ctx context.Context, technicianID uuid.UUID, from, to time.Time) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Where("assigned_technician_id = ?", technicianID).
		Where("status = ?", domain.JobStatusCompleted).
		Where("completed_at >= ? AND completed_at < ?", from, to).
		Order("completed_at ASC").
		Find(&jobs).Error
	return jobs, err
}

// ListCompletedSince returns all completed jobs with completion on or after
// the cutoff, used by revenue reconciliation.
func (r *JobRepository) ListCompletedSince(ctx context.Context, from, to time.Time) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Preload("AssignedTechnician.User").
		Where("status = ?", domain.JobStatusCompleted).
		Where("completed_at >= ? AND completed_at < ?", from, to).
		Find(&jobs).Error
	return jobs, err
}

// CountOpen counts jobs not in a terminal status
func (r *JobRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Job{}).
		Where("status NOT IN ?", []domain.JobStatus{domain.JobStatusCompleted, domain.JobStatusCancelled}).
		Count(&count).Error
	return count, err
}

// CountScheduledBetween counts jobs scheduled inside the window
func (r *JobRepository) CountScheduledBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Job{}).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Where("status <> ?", domain.JobStatusCancelled).
		Count(&count).Error
	return count, err
}

// CountCompletedBetween counts jobs completed inside the window
func (r *JobRepository) CountCompletedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Job{}).
		Where("status = ?", domain.JobStatusCompleted).
		Where("completed_at >= ? AND completed_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// ListByLeadIDs returns converted jobs for the given leads
func (r *JobRepository) ListByLeadIDs(ctx context.Context, leadIDs []uuid.UUID) ([]domain.Job, error) {
	if len(leadIDs) == 0 {
		return nil, nil
	}
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Where("lead_id IN ?", leadIDs).
		Find(&jobs).Error
	return jobs, err
}
