package service_test

import (
	"context"
	"testing"

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

func createTechnicianService(db *gorm.DB) *service.TechnicianService {
	return service.NewTechnicianService(
		repository.NewTechnicianRepository(db),
		repository.NewUserRepository(db),
		&config.PayrollConfig{DefaultEmergencyRate: 1.5},
		&config.DispatchConfig{DefaultMaxDailyJobs: 8},
		zap.NewNop(),
	)
}

func TestTechnicianCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createTechnicianService(db)
	ctx := context.Background()

	t.Run("fills defaults from config", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db, domain.RoleTechnician)

		resp, err := svc.Create(ctx, &domain.CreateTechnicianRequest{
			UserID:     user.ID,
			HourlyRate: 45,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ClassificationJourneyman, resp.Classification)
		assert.Equal(t, domain.TechnicianStatusAvailable, resp.Status)
		assert.InDelta(t, 1.5, resp.EmergencyRate, 0.001)
		assert.Equal(t, 8, resp.MaxDailyJobs)
	})

	t.Run("explicit values win over defaults", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db, domain.RoleTechnician)

		resp, err := svc.Create(ctx, &domain.CreateTechnicianRequest{
			UserID:         user.ID,
			Classification: domain.ClassificationMaster,
			HourlyRate:     80,
			EmergencyRate:  2.0,
			MaxDailyJobs:   4,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ClassificationMaster, resp.Classification)
		assert.InDelta(t, 2.0, resp.EmergencyRate, 0.001)
		assert.Equal(t, 4, resp.MaxDailyJobs)
	})

	t.Run("one profile per user", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db, domain.RoleTechnician)

		_, err := svc.Create(ctx, &domain.CreateTechnicianRequest{UserID: user.ID, HourlyRate: 45})
		require.NoError(t, err)

		_, err = svc.Create(ctx, &domain.CreateTechnicianRequest{UserID: user.ID, HourlyRate: 50})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("salesperson accounts cannot hold a technician profile", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db, domain.RoleSalesperson)

		_, err := svc.Create(ctx, &domain.CreateTechnicianRequest{UserID: user.ID, HourlyRate: 45})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestTechnicianStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createTechnicianService(db)
	ctx := context.Background()

	tech := testutil.CreateTestTechnician(t, db)

	t.Run("duty status updates", func(t *testing.T) {
		resp, err := svc.SetStatus(ctx, tech.ID, domain.TechnicianStatusOnBreak)
		require.NoError(t, err)
		assert.Equal(t, domain.TechnicianStatusOnBreak, resp.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := svc.SetStatus(ctx, tech.ID, "asleep")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}
