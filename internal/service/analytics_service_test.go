package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"github.com/webslinger-cto/fieldserve-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createAnalyticsService(db *gorm.DB) *service.AnalyticsService {
	return service.NewAnalyticsService(
		repository.NewJobRepository(db),
		repository.NewLeadRepository(db),
		repository.NewQuoteRepository(db),
		repository.NewRevenueEventRepository(db),
		repository.NewCampaignRepository(db),
		zap.NewNop(),
	)
}

// completedJobAt persists a completed job with the given revenue field
func completedJobAt(t *testing.T, db *gorm.DB, completedAt time.Time, revenue float64) *domain.Job {
	t.Helper()

	job := &domain.Job{
		CustomerName: "Pat Homeowner",
		Address:      "12 Oak Street",
		ServiceType:  "drain_cleaning",
		Priority:     domain.JobPriorityMedium,
		Status:       domain.JobStatusCompleted,
		CompletedAt:  &completedAt,
		TotalRevenue: revenue,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

func TestRevenueEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAnalyticsService(db)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	ctx := testutil.ContextWithRole(admin)

	t.Run("records a payment against a job", func(t *testing.T) {
		job := completedJobAt(t, db, time.Now().UTC(), 500)

		resp, err := svc.CreateRevenueEvent(ctx, &domain.CreateRevenueEventRequest{
			JobID:  job.ID,
			Amount: 250,
			Notes:  "deposit",
		})
		require.NoError(t, err)
		assert.Equal(t, job.ID, resp.JobID)
		assert.Equal(t, 250.0, resp.Amount)

		var stored domain.RevenueEvent
		require.NoError(t, db.First(&stored, "job_id = ?", job.ID).Error)
		require.NotNil(t, stored.RecordedByID)
		assert.Equal(t, admin.ID, *stored.RecordedByID)
	})

	t.Run("events accumulate", func(t *testing.T) {
		job := completedJobAt(t, db, time.Now().UTC(), 500)

		for _, amount := range []float64{100, 200} {
			_, err := svc.CreateRevenueEvent(ctx, &domain.CreateRevenueEventRequest{
				JobID:  job.ID,
				Amount: amount,
			})
			require.NoError(t, err)
		}

		events, err := svc.ListRevenueEvents(ctx, job.ID)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("unknown job is not found", func(t *testing.T) {
		_, err := svc.CreateRevenueEvent(ctx, &domain.CreateRevenueEventRequest{
			JobID:  uuid.New(),
			Amount: 100,
		})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestRevenueSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAnalyticsService(db)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	ctx := testutil.ContextWithRole(admin)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mid := from.Add(10 * 24 * time.Hour)

	// One job counted through its payment events, one through its revenue
	// field, and one outside the window.
	withEvents := completedJobAt(t, db, mid, 999)
	completedJobAt(t, db, mid, 400)
	completedJobAt(t, db, to.Add(time.Hour), 5000)

	for _, amount := range []float64{300, 200} {
		_, err := svc.CreateRevenueEvent(ctx, &domain.CreateRevenueEventRequest{
			JobID:  withEvents.ID,
			Amount: amount,
		})
		require.NoError(t, err)
	}

	summary, err := svc.RevenueSummary(ctx, from, to)
	require.NoError(t, err)

	t.Run("event sum is authoritative when events exist", func(t *testing.T) {
		assert.InDelta(t, 500.0, summary.EventRevenue, 0.001)
		assert.Equal(t, 1, summary.JobsWithEvents)
	})

	t.Run("jobs without events fall back to their revenue field", func(t *testing.T) {
		assert.InDelta(t, 400.0, summary.FallbackRevenue, 0.001)
		assert.Equal(t, 1, summary.JobsFallback)
	})

	t.Run("each job is counted exactly once", func(t *testing.T) {
		// withEvents contributes its 500 of payments, never its 999 field
		assert.InDelta(t, 900.0, summary.TotalRevenue, 0.001)
		assert.Equal(t, 2, summary.JobsWithEvents+summary.JobsFallback)
	})
}

func TestRevenueSummaryByTechnician(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAnalyticsService(db)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	ctx := testutil.ContextWithRole(admin)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mid := from.Add(10 * 24 * time.Hour)

	assignTo := func(job *domain.Job, tech *domain.Technician) {
		job.AssignedTechnicianID = &tech.ID
		require.NoError(t, db.Save(job).Error)
	}

	alfa := testutil.CreateTestTechnician(t, db)
	bravo := testutil.CreateTestTechnician(t, db)

	// alfa: one event-backed job and one fallback job; bravo: fallback only;
	// plus one completed job nobody is assigned to
	withEvents := completedJobAt(t, db, mid, 999)
	assignTo(withEvents, alfa)
	assignTo(completedJobAt(t, db, mid, 400), alfa)
	assignTo(completedJobAt(t, db, mid, 250), bravo)
	completedJobAt(t, db, mid, 100)

	_, err := svc.CreateRevenueEvent(ctx, &domain.CreateRevenueEventRequest{
		JobID:  withEvents.ID,
		Amount: 500,
	})
	require.NoError(t, err)

	summary, err := svc.RevenueSummary(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, summary.ByTechnician, 3)

	entryFor := func(id *uuid.UUID) *domain.TechnicianRevenueEntry {
		for i := range summary.ByTechnician {
			entry := &summary.ByTechnician[i]
			if id == nil && entry.TechnicianID == nil {
				return entry
			}
			if id != nil && entry.TechnicianID != nil && *entry.TechnicianID == *id {
				return entry
			}
		}
		t.Fatal("no entry for technician")
		return nil
	}

	t.Run("the event-first rule applies within each group", func(t *testing.T) {
		entry := entryFor(&alfa.ID)
		assert.InDelta(t, 500.0, entry.EventRevenue, 0.001)
		assert.InDelta(t, 400.0, entry.FallbackRevenue, 0.001)
		assert.InDelta(t, 900.0, entry.TotalRevenue, 0.001)
		assert.Equal(t, 1, entry.JobsWithEvents)
		assert.Equal(t, 1, entry.JobsFallback)
	})

	t.Run("unassigned jobs share a nil entry", func(t *testing.T) {
		entry := entryFor(nil)
		assert.InDelta(t, 100.0, entry.TotalRevenue, 0.001)
		assert.Equal(t, 1, entry.JobsFallback)
	})

	t.Run("entries partition the totals", func(t *testing.T) {
		var revenue float64
		var jobs int
		for _, entry := range summary.ByTechnician {
			revenue += entry.TotalRevenue
			jobs += entry.JobsWithEvents + entry.JobsFallback
		}
		assert.InDelta(t, summary.TotalRevenue, revenue, 0.001)
		assert.Equal(t, summary.JobsWithEvents+summary.JobsFallback, jobs)
		assert.InDelta(t, 1250.0, summary.TotalRevenue, 0.001)
	})
}

func TestMarketingROI(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAnalyticsService(db)
	leadSvc := createLeadService(db)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	ctx := testutil.ContextWithRole(admin)

	from := time.Now().UTC().Add(-30 * 24 * time.Hour)
	to := time.Now().UTC().Add(24 * time.Hour)
	month := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	if month.Before(from) {
		month = from
	}

	campaign := &domain.Campaign{
		Name:     "Angi summer push",
		Source:   domain.LeadSourceAngi,
		IsActive: true,
		Spend: []domain.MarketingSpend{
			{Month: month, Amount: 500},
		},
	}
	require.NoError(t, db.Create(campaign).Error)

	// Two leads from the campaign source, one converted and completed.
	converted, err := leadSvc.Ingest(ctx, domain.LeadSourceAngi, &service.WebhookLead{
		Name:  "Converted Lead",
		Phone: "555-8001",
	})
	require.NoError(t, err)
	_, err = leadSvc.Ingest(ctx, domain.LeadSourceAngi, &service.WebhookLead{
		Name:  "Idle Lead",
		Phone: "555-8002",
	})
	require.NoError(t, err)

	job, err := leadSvc.Convert(ctx, converted.ID, &domain.ConvertLeadRequest{})
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, db.Model(&domain.Job{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"status":        domain.JobStatusCompleted,
		"completed_at":  now,
		"total_revenue": 2000.0,
	}).Error)

	entries, err := svc.MarketingROI(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, campaign.ID, entry.CampaignID)
	assert.InDelta(t, 500.0, entry.Spend, 0.001)
	assert.Equal(t, 2, entry.Leads)
	assert.Equal(t, 1, entry.ConvertedJobs)
	assert.InDelta(t, 2000.0, entry.Revenue, 0.001)
	assert.InDelta(t, 250.0, entry.CostPerLead, 0.001)
	assert.InDelta(t, 3.0, entry.ROI, 0.001) // (2000 - 500) / 500
}

func TestDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAnalyticsService(db)
	leadSvc := createLeadService(db)
	quoteSvc := createQuoteService(db)
	ctx := context.Background()

	testutil.CreateTestJob(t, db, domain.JobStatusPending)
	testutil.CreateTestJob(t, db, domain.JobStatusInProgress)
	completedJobAt(t, db, time.Now().UTC(), 750)

	_, err := leadSvc.Create(ctx, &domain.CreateLeadRequest{
		Name:   "Dash Lead",
		Phone:  "555-9001",
		Source: domain.LeadSourcePhone,
	})
	require.NoError(t, err)

	accepted := sendQuote(t, db, quoteSvc)
	_, err = quoteSvc.Accept(ctx, *accepted.AccessToken, &domain.AcceptQuoteRequest{})
	require.NoError(t, err)
	sendQuote(t, db, quoteSvc)

	resp, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.OpenJobs)
	assert.Equal(t, 1, resp.NewLeads)
	assert.Equal(t, 1, resp.OpenQuotes)
	assert.InDelta(t, 1.0, resp.QuoteAcceptRate, 0.001)
	assert.InDelta(t, 750.0, resp.RevenueThisMonth, 0.001)
}
