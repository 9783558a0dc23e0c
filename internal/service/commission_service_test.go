package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"github.com/webslinger-cto/fieldserve-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createCommissionService(db *gorm.DB) *service.CommissionService {
	return service.NewCommissionService(repository.NewCommissionRepository(db), zap.NewNop())
}

func createCommission(t *testing.T, db *gorm.DB, sp *domain.Salesperson, amount float64, calculatedAt time.Time) *domain.SalesCommission {
	t.Helper()

	job := testutil.CreateTestJob(t, db, domain.JobStatusCompleted)
	c := &domain.SalesCommission{
		JobID:            job.ID,
		SalespersonID:    sp.ID,
		NetProfit:        amount * 10,
		CommissionRate:   0.10,
		CommissionAmount: amount,
		Status:           domain.CommissionStatusPending,
		CalculatedAt:     calculatedAt,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestCommissionStatusFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCommissionService(db)
	ctx := context.Background()
	sp := testutil.CreateTestSalesperson(t, db, 0.10)

	t.Run("pending to approved to paid", func(t *testing.T) {
		c := createCommission(t, db, sp, 100, time.Now().UTC())

		resp, err := svc.SetStatus(ctx, c.ID, domain.CommissionStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, domain.CommissionStatusApproved, resp.Status)

		resp, err = svc.SetStatus(ctx, c.ID, domain.CommissionStatusPaid)
		require.NoError(t, err)
		assert.Equal(t, domain.CommissionStatusPaid, resp.Status)
	})

	t.Run("cannot pay a pending commission", func(t *testing.T) {
		c := createCommission(t, db, sp, 100, time.Now().UTC())

		_, err := svc.SetStatus(ctx, c.ID, domain.CommissionStatusPaid)
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})

	t.Run("paid is final", func(t *testing.T) {
		c := createCommission(t, db, sp, 100, time.Now().UTC())
		require.NoError(t, db.Model(c).Update("status", domain.CommissionStatusPaid).Error)

		_, err := svc.SetStatus(ctx, c.ID, domain.CommissionStatusApproved)
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})

	t.Run("amounts survive status changes", func(t *testing.T) {
		c := createCommission(t, db, sp, 123.45, time.Now().UTC())

		_, err := svc.SetStatus(ctx, c.ID, domain.CommissionStatusApproved)
		require.NoError(t, err)

		var reloaded domain.SalesCommission
		require.NoError(t, db.First(&reloaded, "id = ?", c.ID).Error)
		assert.InDelta(t, 123.45, reloaded.CommissionAmount, 0.001)
		assert.InDelta(t, 0.10, reloaded.CommissionRate, 0.0001)
	})
}

func TestCommissionEarnings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCommissionService(db)
	ctx := context.Background()

	sp := testutil.CreateTestSalesperson(t, db, 0.10)
	other := testutil.CreateTestSalesperson(t, db, 0.10)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	createCommission(t, db, sp, 100, from.Add(24*time.Hour))
	createCommission(t, db, sp, 50, from.Add(48*time.Hour))
	// outside the window, and another salesperson's earnings
	createCommission(t, db, sp, 999, to.Add(time.Hour))
	createCommission(t, db, other, 77, from.Add(24*time.Hour))

	summary, err := svc.EarningsSummary(ctx, sp.ID, from, to)
	require.NoError(t, err)
	assert.InDelta(t, 150.0, summary.TotalEarned, 0.001)
	assert.Equal(t, sp.ID, summary.SalespersonID)
}

func TestCommissionList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCommissionService(db)
	ctx := context.Background()

	sp := testutil.CreateTestSalesperson(t, db, 0.10)
	pending := createCommission(t, db, sp, 100, time.Now().UTC())
	paid := createCommission(t, db, sp, 200, time.Now().UTC())
	require.NoError(t, db.Model(paid).Update("status", domain.CommissionStatusPaid).Error)

	status := domain.CommissionStatusPending
	items, err := svc.List(ctx, &status)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, pending.ID, items[0].ID)

	all, err := svc.ListBySalesperson(ctx, sp.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
