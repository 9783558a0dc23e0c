package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RevenueEventRepository struct {
	db *gorm.DB
}

func NewRevenueEventRepository(db *gorm.DB) *RevenueEventRepository {
	return &RevenueEventRepository{db: db}
}

func (r *RevenueEventRepository) Create(ctx context.Context, event *domain.RevenueEvent) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error
}

func (r *RevenueEventRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.RevenueEvent, error) {
	var events []domain.RevenueEvent
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("occurred_at ASC").
		Find(&events).Error
	return events, err
}

// ListInPeriod returns all revenue events with occurrence inside the window
func (r *RevenueEventRepository) ListInPeriod(ctx context.Context, from, to time.Time) ([]domain.RevenueEvent, error) {
	var events []domain.RevenueEvent
	err := r.db.WithContext(ctx).
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Order("occurred_at ASC").
		Find(&events).Error
	return events, err
}

// SumForJobs totals event amounts per job for the given job set
func (r *RevenueEventRepository) SumForJobs(ctx context.Context, jobIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	totals := make(map[uuid.UUID]float64)
	if len(jobIDs) == 0 {
		return totals, nil
	}

	var rows []struct {
		JobID uuid.UUID
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.RevenueEvent{}).
		Select("job_id, COALESCE(SUM(amount), 0) AS total").
		Where("job_id IN ?", jobIDs).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		totals[row.JobID] = row.Total
	}
	return totals, nil
}
