package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"github.com/webslinger-cto/fieldserve-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createPayrollService(db *gorm.DB) *service.PayrollService {
	return service.NewPayrollService(
		repository.NewPayrollRepository(db),
		repository.NewJobRepository(db),
		repository.NewTechnicianRepository(db),
		repository.NewIntakeRepository(db),
		&config.PayrollConfig{TaxRate: 0.20, DefaultEmergencyRate: 1.5},
		zap.NewNop(),
	)
}

// completedJob persists a completed job worked by the technician with exact
// start/end timestamps so hour math is deterministic.
func completedJob(t *testing.T, db *gorm.DB, tech *domain.Technician, priority domain.JobPriority, start time.Time, hours float64, revenue float64) *domain.Job {
	t.Helper()

	end := start.Add(time.Duration(hours * float64(time.Hour)))
	job := &domain.Job{
		CustomerName:         "Pat Homeowner",
		Address:              "12 Oak Street",
		ServiceType:          "drain_cleaning",
		Priority:             priority,
		Status:               domain.JobStatusCompleted,
		AssignedTechnicianID: &tech.ID,
		StartedAt:            &start,
		CompletedAt:          &end,
		TotalRevenue:         revenue,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

func TestPayrollPreview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createPayrollService(db)
	ctx := context.Background()

	periodStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)

	t.Run("splits hours by priority and deducts fees and tax", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)

		// 2h regular at 50/h, 3h urgent at 50 * 1.5, revenue 1000 each
		completedJob(t, db, tech, domain.JobPriorityMedium, periodStart.Add(24*time.Hour), 2, 1000)
		completedJob(t, db, tech, domain.JobPriorityUrgent, periodStart.Add(48*time.Hour), 3, 1000)

		stmt, err := svc.Preview(ctx, tech.ID, periodStart, periodEnd)
		require.NoError(t, err)

		assert.Equal(t, 2, stmt.JobCount)
		assert.InDelta(t, 2.0, stmt.RegularHours, 0.001)
		assert.InDelta(t, 3.0, stmt.EmergencyHours, 0.001)
		assert.InDelta(t, 100.0, stmt.RegularPay, 0.001)
		assert.InDelta(t, 225.0, stmt.EmergencyPay, 0.001)
		assert.InDelta(t, 100.0, stmt.CommissionEarned, 0.001) // 5% of 2000
		assert.InDelta(t, 425.0, stmt.GrossPay, 0.001)
		assert.InDelta(t, 85.0, stmt.EstimatedTax, 0.001)
		assert.InDelta(t, 20.0, stmt.LeadFees, 0.001) // flat 10 per job
		assert.InDelta(t, 320.0, stmt.NetPay, 0.001)
	})

	t.Run("high priority is paid as emergency", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		completedJob(t, db, tech, domain.JobPriorityHigh, periodStart.Add(24*time.Hour), 1, 0)

		stmt, err := svc.Preview(ctx, tech.ID, periodStart, periodEnd)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, stmt.EmergencyHours, 0.001)
		assert.InDelta(t, 0.0, stmt.RegularHours, 0.001)
	})

	t.Run("falls back to the estimated duration without timestamps", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)

		completedAt := periodStart.Add(24 * time.Hour)
		job := &domain.Job{
			CustomerName:         "Pat Homeowner",
			Address:              "12 Oak Street",
			ServiceType:          "drain_cleaning",
			Priority:             domain.JobPriorityMedium,
			Status:               domain.JobStatusCompleted,
			AssignedTechnicianID: &tech.ID,
			CompletedAt:          &completedAt,
			EstimatedDuration:    90,
		}
		require.NoError(t, db.Create(job).Error)

		stmt, err := svc.Preview(ctx, tech.ID, periodStart, periodEnd)
		require.NoError(t, err)
		assert.InDelta(t, 1.5, stmt.RegularHours, 0.001)
		assert.InDelta(t, 75.0, stmt.RegularPay, 0.001)
	})

	t.Run("jobs outside the period are excluded", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		completedJob(t, db, tech, domain.JobPriorityMedium, periodEnd.Add(time.Hour), 2, 500)

		stmt, err := svc.Preview(ctx, tech.ID, periodStart, periodEnd)
		require.NoError(t, err)
		assert.Equal(t, 0, stmt.JobCount)
		assert.InDelta(t, 0.0, stmt.GrossPay, 0.001)
	})

	t.Run("unknown technician", func(t *testing.T) {
		_, err := svc.Preview(ctx, uuid.New(), periodStart, periodEnd)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("does not persist anything", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		_, err := svc.Preview(ctx, tech.ID, periodStart, periodEnd)
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&domain.PayrollStatement{}).
			Where("technician_id = ?", tech.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}

func TestPayrollRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createPayrollService(db)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	ctx := testutil.ContextWithRole(admin)

	periodStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)

	t.Run("persists a statement for a single technician", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		completedJob(t, db, tech, domain.JobPriorityMedium, periodStart.Add(24*time.Hour), 4, 800)

		results, err := svc.Run(ctx, &domain.PayrollRunRequest{
			TechnicianID: &tech.ID,
			PeriodStart:  periodStart,
			PeriodEnd:    periodEnd,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.InDelta(t, 200.0, results[0].RegularPay, 0.001)

		var stored domain.PayrollStatement
		require.NoError(t, db.First(&stored, "technician_id = ?", tech.ID).Error)
		assert.Equal(t, 1, stored.JobCount)
	})

	t.Run("rerunning the same period is a conflict", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		req := &domain.PayrollRunRequest{
			TechnicianID: &tech.ID,
			PeriodStart:  periodStart,
			PeriodEnd:    periodEnd,
		}

		_, err := svc.Run(ctx, req)
		require.NoError(t, err)

		_, err = svc.Run(ctx, req)
		assert.ErrorIs(t, err, service.ErrStatementExists)
	})

	t.Run("statements are immutable once generated", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		completedJob(t, db, tech, domain.JobPriorityMedium, periodStart.Add(24*time.Hour), 2, 400)

		results, err := svc.Run(ctx, &domain.PayrollRunRequest{
			TechnicianID: &tech.ID,
			PeriodStart:  periodStart,
			PeriodEnd:    periodEnd,
		})
		require.NoError(t, err)
		original := results[0].NetPay

		// More completed work after the run must not change the snapshot.
		completedJob(t, db, tech, domain.JobPriorityMedium, periodStart.Add(72*time.Hour), 8, 2000)

		var stored domain.PayrollStatement
		require.NoError(t, db.First(&stored, "technician_id = ?", tech.ID).Error)
		assert.InDelta(t, original, stored.NetPay, 0.001)
	})

	t.Run("run-all skips already generated periods", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPayrollService(db)

		done := testutil.CreateTestTechnician(t, db)
		testutil.CreateTestTechnician(t, db)

		_, err := svc.Run(ctx, &domain.PayrollRunRequest{
			TechnicianID: &done.ID,
			PeriodStart:  periodStart,
			PeriodEnd:    periodEnd,
		})
		require.NoError(t, err)

		results, err := svc.Run(ctx, &domain.PayrollRunRequest{
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)

		var count int64
		require.NoError(t, db.Model(&domain.PayrollStatement{}).Count(&count).Error)
		assert.Equal(t, int64(2), count, "one statement per technician, no rewrites")
	})

	t.Run("rejects an inverted period", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		_, err := svc.Run(ctx, &domain.PayrollRunRequest{
			TechnicianID: &tech.ID,
			PeriodStart:  periodEnd,
			PeriodEnd:    periodStart,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}
