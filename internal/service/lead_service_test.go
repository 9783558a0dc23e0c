package service_test

import (
	"context"
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

func createLeadService(db *gorm.DB) *service.LeadService {
	return service.NewLeadService(
		repository.NewLeadRepository(db),
		repository.NewJobRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		&config.LeadConfig{SLAMinutes: 15, DedupWindowHours: 24},
		zap.NewNop(),
	)
}

func TestLeadCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db)
	ctx := context.Background()

	t.Run("sets the response deadline", func(t *testing.T) {
		resp, err := svc.Create(ctx, &domain.CreateLeadRequest{
			Name:   "Sam Caller",
			Phone:  "555-0100",
			Source: domain.LeadSourcePhone,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.LeadStatusNew, resp.Status)
		require.NotNil(t, resp.SLADeadline)
		assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), *resp.SLADeadline, 5*time.Second)
	})

	t.Run("defaults the source to phone", func(t *testing.T) {
		resp, err := svc.Create(ctx, &domain.CreateLeadRequest{Name: "Walk In", Phone: "555-0199"})
		require.NoError(t, err)
		assert.Equal(t, domain.LeadSourcePhone, resp.Source)
	})

	t.Run("rejects an unknown source", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateLeadRequest{Name: "X", Source: "carrier_pigeon"})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestLeadIngest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db)
	ctx := context.Background()

	t.Run("stores the lead with its raw payload", func(t *testing.T) {
		resp, err := svc.Ingest(ctx, domain.LeadSourceAngi, &service.WebhookLead{
			Name:       "Jordan Roof",
			Phone:      "555-0234",
			RawPayload: `{"lead":{"name":"Jordan Roof"}}`,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.LeadStatusNew, resp.Status)
		assert.Equal(t, domain.LeadSourceAngi, resp.Source)

		var stored domain.Lead
		require.NoError(t, db.First(&stored, "id = ?", resp.ID).Error)
		assert.Contains(t, stored.RawPayload, "Jordan Roof")
	})

	t.Run("names an anonymous lead", func(t *testing.T) {
		resp, err := svc.Ingest(ctx, domain.LeadSourceZapier, &service.WebhookLead{Phone: "555-0300"})
		require.NoError(t, err)
		assert.Equal(t, "Unknown caller", resp.Name)
	})

	t.Run("rejects a payload with no contact information", func(t *testing.T) {
		_, err := svc.Ingest(ctx, domain.LeadSourceZapier, &service.WebhookLead{Description: "help"})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("notifies dispatchers of a new lead", func(t *testing.T) {
		dispatcher := testutil.CreateTestUser(t, db, domain.RoleDispatcher)

		_, err := svc.Ingest(ctx, domain.LeadSourceELocal, &service.WebhookLead{
			Name:  "Noisy Pipes",
			Phone: "555-0401",
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&domain.Notification{}).
			Where("user_id = ?", dispatcher.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestLeadDedupe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db)
	ctx := context.Background()

	t.Run("repeat phone number is flagged, never rejected", func(t *testing.T) {
		first, err := svc.Ingest(ctx, domain.LeadSourceNetworx, &service.WebhookLead{
			Name:  "Repeat Caller",
			Phone: "555-1111",
		})
		require.NoError(t, err)

		second, err := svc.Ingest(ctx, domain.LeadSourceThumbtack, &service.WebhookLead{
			Name:  "Repeat Caller",
			Phone: "555-1111",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.LeadStatusDuplicate, second.Status)
		require.NotNil(t, second.DuplicateOfID)
		assert.Equal(t, first.ID, *second.DuplicateOfID)
		assert.Nil(t, second.SLADeadline, "duplicates carry no response deadline")
	})

	t.Run("matches on email too", func(t *testing.T) {
		_, err := svc.Ingest(ctx, domain.LeadSourceInquirly, &service.WebhookLead{
			Name:  "Mail Only",
			Email: "mail.only@example.com",
		})
		require.NoError(t, err)

		second, err := svc.Ingest(ctx, domain.LeadSourceWebsite, &service.WebhookLead{
			Name:  "Mail Only",
			Email: "mail.only@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.LeadStatusDuplicate, second.Status)
	})

	t.Run("different contact details do not match", func(t *testing.T) {
		resp, err := svc.Ingest(ctx, domain.LeadSourceWebsite, &service.WebhookLead{
			Name:  "Fresh Face",
			Phone: "555-9999",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.LeadStatusNew, resp.Status)
	})
}

func TestLeadConvert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db)
	ctx := context.Background()

	newLead := func(t *testing.T, phone string) *domain.LeadResponse {
		resp, err := svc.Create(ctx, &domain.CreateLeadRequest{
			Name:        "Casey Customer",
			Phone:       phone,
			Address:     "44 Birch Lane",
			ServiceType: "sewer_inspection",
			Source:      domain.LeadSourceReferral,
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("creates a pool job from the lead", func(t *testing.T) {
		lead := newLead(t, "555-2001")

		job, err := svc.Convert(ctx, lead.ID, &domain.ConvertLeadRequest{})
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusPending, job.Status)
		assert.Nil(t, job.AssignedTechnicianID)
		assert.Equal(t, "Casey Customer", job.CustomerName)
		assert.Equal(t, "sewer_inspection", job.ServiceType)
		require.NotNil(t, job.LeadID)
		assert.Equal(t, lead.ID, *job.LeadID)

		var stored domain.Lead
		require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
		assert.Equal(t, domain.LeadStatusConverted, stored.Status)
		require.NotNil(t, stored.ConvertedJobID)
		assert.Equal(t, job.ID, *stored.ConvertedJobID)
	})

	t.Run("converting twice is a conflict", func(t *testing.T) {
		lead := newLead(t, "555-2002")

		_, err := svc.Convert(ctx, lead.ID, &domain.ConvertLeadRequest{})
		require.NoError(t, err)

		_, err = svc.Convert(ctx, lead.ID, &domain.ConvertLeadRequest{})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("spam and duplicate leads cannot convert", func(t *testing.T) {
		for _, status := range []domain.LeadStatus{domain.LeadStatusSpam, domain.LeadStatusDuplicate} {
			lead := newLead(t, "555-2003")
			require.NoError(t, db.Model(&domain.Lead{}).
				Where("id = ?", lead.ID).Update("status", status).Error)

			_, err := svc.Convert(ctx, lead.ID, &domain.ConvertLeadRequest{})
			assert.ErrorIs(t, err, service.ErrInvalidInput, "status %s", status)
		}
	})

	t.Run("request overrides the service type", func(t *testing.T) {
		lead := newLead(t, "555-2004")

		job, err := svc.Convert(ctx, lead.ID, &domain.ConvertLeadRequest{
			ServiceType: "hydro_jetting",
			Priority:    domain.JobPriorityUrgent,
		})
		require.NoError(t, err)
		assert.Equal(t, "hydro_jetting", job.ServiceType)
		assert.Equal(t, domain.JobPriorityUrgent, job.Priority)
	})
}

func TestLeadStatusUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db)
	ctx := context.Background()

	lead, err := svc.Create(ctx, &domain.CreateLeadRequest{
		Name:   "Status Lead",
		Phone:  "555-3001",
		Source: domain.LeadSourcePhone,
	})
	require.NoError(t, err)

	t.Run("normal pipeline moves are allowed", func(t *testing.T) {
		contacted := domain.LeadStatusContacted
		resp, err := svc.Update(ctx, lead.ID, &domain.UpdateLeadRequest{Status: &contacted})
		require.NoError(t, err)
		assert.Equal(t, domain.LeadStatusContacted, resp.Status)
	})

	t.Run("converted cannot be set directly", func(t *testing.T) {
		converted := domain.LeadStatusConverted
		_, err := svc.Update(ctx, lead.ID, &domain.UpdateLeadRequest{Status: &converted})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestLeadSLASweep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db)
	ctx := context.Background()

	dispatcher := testutil.CreateTestUser(t, db, domain.RoleDispatcher)

	overdue, err := svc.Create(ctx, &domain.CreateLeadRequest{
		Name:   "Overdue Lead",
		Phone:  "555-4001",
		Source: domain.LeadSourcePhone,
	})
	require.NoError(t, err)
	past := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, db.Model(&domain.Lead{}).
		Where("id = ?", overdue.ID).Update("sla_deadline", past).Error)

	fresh, err := svc.Create(ctx, &domain.CreateLeadRequest{
		Name:   "Fresh Lead",
		Phone:  "555-4002",
		Source: domain.LeadSourcePhone,
	})
	require.NoError(t, err)

	breached, err := svc.SweepSLABreaches(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, breached)

	var a, b domain.Lead
	require.NoError(t, db.First(&a, "id = ?", overdue.ID).Error)
	require.NoError(t, db.First(&b, "id = ?", fresh.ID).Error)
	assert.True(t, a.SLABreached)
	assert.False(t, b.SLABreached)

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("user_id = ? AND type = ?", dispatcher.ID, string(domain.NotificationTypeSLABreach)).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	t.Run("second sweep finds nothing new", func(t *testing.T) {
		breached, err := svc.SweepSLABreaches(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, breached)
	})
}
