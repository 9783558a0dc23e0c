package service_test

import (
	"testing"
	"time"

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

func createJobService(db *gorm.DB) *service.JobService {
	return service.NewJobService(
		repository.NewJobRepository(db),
		repository.NewTechnicianRepository(db),
		repository.NewSalespersonRepository(db),
		repository.NewCommissionRepository(db),
		repository.NewNotificationRepository(db),
		&config.DispatchConfig{ArrivalRadiusMeters: 150, DefaultMaxDailyJobs: 8},
		zap.NewNop(),
	)
}

func floatPtr(v float64) *float64 { return &v }

func TestJobStatusTransitions(t *testing.T) {
	t.Run("happy path is linear", func(t *testing.T) {
		path := []domain.JobStatus{
			domain.JobStatusPending,
			domain.JobStatusAssigned,
			domain.JobStatusConfirmed,
			domain.JobStatusEnRoute,
			domain.JobStatusOnSite,
			domain.JobStatusInProgress,
			domain.JobStatusCompleted,
		}
		for i := 0; i < len(path)-1; i++ {
			assert.True(t, service.CanTransition(path[i], path[i+1]),
				"%s -> %s should be allowed", path[i], path[i+1])
		}
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		assert.False(t, service.CanTransition(domain.JobStatusPending, domain.JobStatusConfirmed))
		assert.False(t, service.CanTransition(domain.JobStatusAssigned, domain.JobStatusOnSite))
		assert.False(t, service.CanTransition(domain.JobStatusEnRoute, domain.JobStatusCompleted))
	})

	t.Run("no going backwards", func(t *testing.T) {
		assert.False(t, service.CanTransition(domain.JobStatusOnSite, domain.JobStatusEnRoute))
		assert.False(t, service.CanTransition(domain.JobStatusAssigned, domain.JobStatusPending))
	})

	t.Run("cancel allowed from any non-terminal status", func(t *testing.T) {
		for _, from := range []domain.JobStatus{
			domain.JobStatusPending, domain.JobStatusAssigned, domain.JobStatusConfirmed,
			domain.JobStatusEnRoute, domain.JobStatusOnSite, domain.JobStatusInProgress,
		} {
			assert.True(t, service.CanTransition(from, domain.JobStatusCancelled), "cancel from %s", from)
		}
	})

	t.Run("terminal statuses are dead ends", func(t *testing.T) {
		assert.False(t, service.CanTransition(domain.JobStatusCompleted, domain.JobStatusCancelled))
		assert.False(t, service.CanTransition(domain.JobStatusCancelled, domain.JobStatusPending))
	})
}

func TestJobAssign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createJobService(db)
	dispatcher := testutil.CreateTestUser(t, db, domain.RoleDispatcher)
	ctx := testutil.ContextWithRole(dispatcher)

	t.Run("assigns a pending job", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		job := testutil.CreateTestJob(t, db, domain.JobStatusPending)

		resp, err := svc.Assign(ctx, job.ID, &domain.AssignJobRequest{TechnicianID: tech.ID})
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusAssigned, resp.Status)
		require.NotNil(t, resp.AssignedTechnicianID)
		assert.Equal(t, tech.ID, *resp.AssignedTechnicianID)
	})

	t.Run("creates a notification for the technician", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		job := testutil.CreateTestJob(t, db, domain.JobStatusPending)

		_, err := svc.Assign(ctx, job.ID, &domain.AssignJobRequest{TechnicianID: tech.ID})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&domain.Notification{}).
			Where("user_id = ?", tech.UserID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects assigning a completed job", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		job := testutil.CreateTestJob(t, db, domain.JobStatusCompleted)

		_, err := svc.Assign(ctx, job.ID, &domain.AssignJobRequest{TechnicianID: tech.ID})
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})

	t.Run("enforces the daily cap", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		tech.MaxDailyJobs = 1
		require.NoError(t, db.Save(tech).Error)

		day := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
		booked := testutil.CreateTestJob(t, db, domain.JobStatusAssigned)
		booked.AssignedTechnicianID = &tech.ID
		booked.ScheduledAt = &day
		require.NoError(t, db.Save(booked).Error)

		later := day.Add(4 * time.Hour)
		job := testutil.CreateTestJob(t, db, domain.JobStatusPending)
		job.ScheduledAt = &later
		require.NoError(t, db.Save(job).Error)

		_, err := svc.Assign(ctx, job.ID, &domain.AssignJobRequest{TechnicianID: tech.ID})
		assert.ErrorIs(t, err, service.ErrDailyCapReached)
	})

	t.Run("unscheduled jobs bypass the cap", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		tech.MaxDailyJobs = 1
		require.NoError(t, db.Save(tech).Error)

		job := testutil.CreateTestJob(t, db, domain.JobStatusPending)
		_, err := svc.Assign(ctx, job.ID, &domain.AssignJobRequest{TechnicianID: tech.ID})
		assert.NoError(t, err)
	})
}

func TestJobClaim(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createJobService(db)

	t.Run("technician claims a pool job", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		job := testutil.CreateTestJob(t, db, domain.JobStatusPending)

		resp, err := svc.Claim(testutil.ContextWithTechnician(tech), job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusAssigned, resp.Status)
		require.NotNil(t, resp.AssignedTechnicianID)
		assert.Equal(t, tech.ID, *resp.AssignedTechnicianID)
	})

	t.Run("second claim is a conflict", func(t *testing.T) {
		first := testutil.CreateTestTechnician(t, db)
		second := testutil.CreateTestTechnician(t, db)
		job := testutil.CreateTestJob(t, db, domain.JobStatusPending)

		_, err := svc.Claim(testutil.ContextWithTechnician(first), job.ID)
		require.NoError(t, err)

		_, err = svc.Claim(testutil.ContextWithTechnician(second), job.ID)
		assert.ErrorIs(t, err, service.ErrJobAlreadyClaimed)
	})

	t.Run("non-technician cannot claim", func(t *testing.T) {
		dispatcher := testutil.CreateTestUser(t, db, domain.RoleDispatcher)
		job := testutil.CreateTestJob(t, db, domain.JobStatusPending)

		_, err := svc.Claim(testutil.ContextWithRole(dispatcher), job.ID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})
}

func TestJobArrive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createJobService(db)
	dispatcher := testutil.CreateTestUser(t, db, domain.RoleDispatcher)
	ctx := testutil.ContextWithRole(dispatcher)

	newEnRouteJob := func(t *testing.T, lat, lng float64) *domain.Job {
		job := testutil.CreateTestJob(t, db, domain.JobStatusEnRoute)
		job.Latitude = &lat
		job.Longitude = &lng
		require.NoError(t, db.Save(job).Error)
		return job
	}

	t.Run("arrival inside the radius is verified", func(t *testing.T) {
		job := newEnRouteJob(t, 59.9139, 10.7522)

		resp, err := svc.Arrive(ctx, job.ID, &domain.ArriveRequest{Latitude: floatPtr(59.9139), Longitude: floatPtr(10.7522)})
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusOnSite, resp.Status)
		assert.True(t, resp.ArrivalVerified)
		assert.NotNil(t, resp.ArrivalAt)
	})

	t.Run("arrival outside the radius flags but does not block", func(t *testing.T) {
		job := newEnRouteJob(t, 59.9139, 10.7522)

		// roughly 11km north
		resp, err := svc.Arrive(ctx, job.ID, &domain.ArriveRequest{Latitude: floatPtr(60.0139), Longitude: floatPtr(10.7522)})
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusOnSite, resp.Status)
		assert.False(t, resp.ArrivalVerified)
		require.NotNil(t, resp.ArrivalDistance)
		assert.Greater(t, *resp.ArrivalDistance, 150.0)
	})

	t.Run("job without coordinates records arrival unverified", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, domain.JobStatusEnRoute)

		resp, err := svc.Arrive(ctx, job.ID, &domain.ArriveRequest{Latitude: floatPtr(59.9), Longitude: floatPtr(10.7)})
		require.NoError(t, err)
		assert.False(t, resp.ArrivalVerified)
		assert.Nil(t, resp.ArrivalDistance)
	})

	t.Run("report without coordinates still moves the job on site", func(t *testing.T) {
		job := newEnRouteJob(t, 59.9139, 10.7522)

		resp, err := svc.Arrive(ctx, job.ID, &domain.ArriveRequest{})
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusOnSite, resp.Status)
		assert.False(t, resp.ArrivalVerified)
		assert.Nil(t, resp.ArrivalDistance)
		assert.NotNil(t, resp.ArrivalAt)

		// no position must be invented for the report
		var stored domain.Job
		require.NoError(t, db.First(&stored, "id = ?", job.ID).Error)
		assert.Nil(t, stored.ArrivalLat)
		assert.Nil(t, stored.ArrivalLng)
	})
}

func TestJobTransitionAuthorization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createJobService(db)

	t.Run("assigned technician can move their own job", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		job := testutil.CreateTestJob(t, db, domain.JobStatusAssigned)
		job.AssignedTechnicianID = &tech.ID
		require.NoError(t, db.Save(job).Error)

		resp, err := svc.Confirm(testutil.ContextWithTechnician(tech), job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusConfirmed, resp.Status)
	})

	t.Run("technician cannot move someone else's job", func(t *testing.T) {
		owner := testutil.CreateTestTechnician(t, db)
		other := testutil.CreateTestTechnician(t, db)
		job := testutil.CreateTestJob(t, db, domain.JobStatusAssigned)
		job.AssignedTechnicianID = &owner.ID
		require.NoError(t, db.Save(job).Error)

		_, err := svc.Confirm(testutil.ContextWithTechnician(other), job.ID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("dispatcher can move any job", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		job := testutil.CreateTestJob(t, db, domain.JobStatusAssigned)
		job.AssignedTechnicianID = &tech.ID
		require.NoError(t, db.Save(job).Error)

		dispatcher := testutil.CreateTestUser(t, db, domain.RoleDispatcher)
		_, err := svc.Confirm(testutil.ContextWithRole(dispatcher), job.ID)
		assert.NoError(t, err)
	})
}

func TestJobComplete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createJobService(db)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	ctx := testutil.ContextWithRole(admin)

	t.Run("records financials and frees the technician", func(t *testing.T) {
		tech := testutil.CreateTestTechnician(t, db)
		require.NoError(t, db.Model(tech).Update("status", domain.TechnicianStatusBusy).Error)

		job := testutil.CreateTestJob(t, db, domain.JobStatusInProgress)
		job.AssignedTechnicianID = &tech.ID
		require.NoError(t, db.Save(job).Error)

		resp, err := svc.Complete(ctx, job.ID, &domain.CompleteJobRequest{
			LaborCost:     floatPtr(200),
			MaterialsCost: floatPtr(150),
			TotalRevenue:  floatPtr(1000),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusCompleted, resp.Status)
		assert.Equal(t, 1000.0, resp.TotalRevenue)
		assert.Equal(t, 350.0, resp.TotalCost)
		assert.Equal(t, 650.0, resp.Profit)

		var reloaded domain.Technician
		require.NoError(t, db.First(&reloaded, "id = ?", tech.ID).Error)
		assert.Equal(t, domain.TechnicianStatusAvailable, reloaded.Status)
	})

	t.Run("snapshots the sales commission at the current rate", func(t *testing.T) {
		sp := testutil.CreateTestSalesperson(t, db, 0.10)
		job := testutil.CreateTestJob(t, db, domain.JobStatusInProgress)
		job.SalespersonID = &sp.ID
		require.NoError(t, db.Save(job).Error)

		_, err := svc.Complete(ctx, job.ID, &domain.CompleteJobRequest{
			LaborCost:    floatPtr(300),
			TotalRevenue: floatPtr(1300),
		})
		require.NoError(t, err)

		var commission domain.SalesCommission
		require.NoError(t, db.First(&commission, "job_id = ?", job.ID).Error)
		assert.Equal(t, sp.ID, commission.SalespersonID)
		assert.Equal(t, 0.10, commission.CommissionRate)
		assert.InDelta(t, 1000.0, commission.NetProfit, 0.001)
		assert.InDelta(t, 100.0, commission.CommissionAmount, 0.001)
		assert.Equal(t, domain.CommissionStatusPending, commission.Status)

		// A later rate change must not touch the recorded snapshot.
		require.NoError(t, db.Model(sp).Update("commission_rate", 0.25).Error)
		var unchanged domain.SalesCommission
		require.NoError(t, db.First(&unchanged, "job_id = ?", job.ID).Error)
		assert.Equal(t, 0.10, unchanged.CommissionRate)
	})

	t.Run("no commission without a salesperson", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, domain.JobStatusInProgress)

		_, err := svc.Complete(ctx, job.ID, &domain.CompleteJobRequest{TotalRevenue: floatPtr(500)})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&domain.SalesCommission{}).
			Where("job_id = ?", job.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("cannot complete a pending job", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, domain.JobStatusPending)

		_, err := svc.Complete(ctx, job.ID, &domain.CompleteJobRequest{})
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})
}

func TestJobCancel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createJobService(db)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	ctx := testutil.ContextWithRole(admin)

	t.Run("cancels mid-lifecycle with a reason", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, domain.JobStatusEnRoute)

		resp, err := svc.Cancel(ctx, job.ID, &domain.CancelJobRequest{Reason: "customer rescheduled"})
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusCancelled, resp.Status)
		assert.Equal(t, "customer rescheduled", resp.CancelReason)
	})

	t.Run("cannot cancel a completed job", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, domain.JobStatusCompleted)

		_, err := svc.Cancel(ctx, job.ID, &domain.CancelJobRequest{Reason: "too late"})
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})
}

func TestJobPool(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createJobService(db)

	pool := testutil.CreateTestJob(t, db, domain.JobStatusPending)

	tech := testutil.CreateTestTechnician(t, db)
	taken := testutil.CreateTestJob(t, db, domain.JobStatusAssigned)
	taken.AssignedTechnicianID = &tech.ID
	require.NoError(t, db.Save(taken).Error)

	jobs, err := svc.ListPool(testutil.ContextWithTechnician(tech))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, pool.ID, jobs[0].ID)
}
