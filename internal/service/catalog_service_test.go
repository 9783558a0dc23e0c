package service_test

import (
	"context"
	"testing"

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

func createCatalogService(db *gorm.DB) *service.CatalogService {
	return service.NewCatalogService(
		repository.NewPricebookRepository(db),
		repository.NewCampaignRepository(db),
		repository.NewIntakeRepository(db),
		&config.PayrollConfig{DefaultEmergencyRate: 1.5, DefaultLeadFee: 10},
		zap.NewNop(),
	)
}

func boolPtr(v bool) *bool { return &v }

func TestPricebook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCatalogService(db)
	ctx := context.Background()

	t.Run("creates item active by default", func(t *testing.T) {
		item, err := svc.CreatePricebookItem(ctx, &domain.PricebookItemRequest{
			Code:         "DRN-100",
			Name:         "Drain cleaning, main line",
			Category:     "drains",
			UnitPrice:    249,
			LaborMinutes: 90,
		})
		require.NoError(t, err)
		assert.True(t, item.IsActive)
		assert.Equal(t, "DRN-100", item.Code)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		_, err := svc.CreatePricebookItem(ctx, &domain.PricebookItemRequest{
			Code:      "DRN-100",
			Name:      "Drain cleaning, branch line",
			UnitPrice: 179,
		})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("update rejects code collision", func(t *testing.T) {
		other, err := svc.CreatePricebookItem(ctx, &domain.PricebookItemRequest{
			Code:      "WH-200",
			Name:      "Water heater install, 50 gal",
			UnitPrice: 1800,
		})
		require.NoError(t, err)

		_, err = svc.UpdatePricebookItem(ctx, other.ID, &domain.PricebookItemRequest{
			Code:      "DRN-100",
			Name:      "Water heater install, 50 gal",
			UnitPrice: 1800,
		})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("update keeping own code is not a collision", func(t *testing.T) {
		item, err := svc.CreatePricebookItem(ctx, &domain.PricebookItemRequest{
			Code:      "SWR-300",
			Name:      "Sewer camera inspection",
			UnitPrice: 350,
		})
		require.NoError(t, err)

		updated, err := svc.UpdatePricebookItem(ctx, item.ID, &domain.PricebookItemRequest{
			Code:      "SWR-300",
			Name:      "Sewer camera inspection",
			UnitPrice: 295,
			IsActive:  boolPtr(false),
		})
		require.NoError(t, err)
		assert.InDelta(t, 295, updated.UnitPrice, 0.001)
		assert.False(t, updated.IsActive)
	})

	t.Run("list filters by category and active flag", func(t *testing.T) {
		category := "drains"
		items, err := svc.ListPricebookItems(ctx, &category, true)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "DRN-100", items[0].Code)
	})

	t.Run("delete removes the item and frees its code", func(t *testing.T) {
		item, err := svc.CreatePricebookItem(ctx, &domain.PricebookItemRequest{
			Code:      "HYD-400",
			Name:      "Hydro jetting",
			UnitPrice: 495,
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeletePricebookItem(ctx, item.ID))
		_, err = svc.GetPricebookItem(ctx, item.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)

		_, err = svc.CreatePricebookItem(ctx, &domain.PricebookItemRequest{
			Code:      "HYD-400",
			Name:      "Hydro jetting",
			UnitPrice: 450,
		})
		assert.NoError(t, err)
	})

	t.Run("deleting an unknown item", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeletePricebookItem(ctx, uuid.New()), service.ErrNotFound)
	})
}

func TestCampaigns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCatalogService(db)
	ctx := context.Background()

	t.Run("rejects unknown lead source", func(t *testing.T) {
		_, err := svc.CreateCampaign(ctx, &domain.CampaignRequest{
			Name:   "Billboards",
			Source: domain.LeadSource("billboard"),
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("creates and updates campaign", func(t *testing.T) {
		campaign, err := svc.CreateCampaign(ctx, &domain.CampaignRequest{
			Name:   "Angi spring push",
			Source: domain.LeadSourceAngi,
		})
		require.NoError(t, err)
		assert.True(t, campaign.IsActive)

		updated, err := svc.UpdateCampaign(ctx, campaign.ID, &domain.CampaignRequest{
			Name:     "Angi spring push",
			Source:   domain.LeadSourceAngi,
			IsActive: boolPtr(false),
			Notes:    "paused pending budget review",
		})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
		assert.Equal(t, "paused pending budget review", updated.Notes)
	})
}

func TestCampaignSpend(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCatalogService(db)
	ctx := context.Background()

	campaign, err := svc.CreateCampaign(ctx, &domain.CampaignRequest{
		Name:   "Thumbtack always-on",
		Source: domain.LeadSourceThumbtack,
	})
	require.NoError(t, err)

	t.Run("records monthly spend", func(t *testing.T) {
		got, err := svc.RecordSpend(ctx, campaign.ID, &domain.MarketingSpendRequest{
			Month:  "2026-08",
			Amount: 1200,
		})
		require.NoError(t, err)
		require.Len(t, got.Spend, 1)
		assert.InDelta(t, 1200, got.Spend[0].Amount, 0.001)
	})

	t.Run("re-posting a month overwrites instead of accumulating", func(t *testing.T) {
		got, err := svc.RecordSpend(ctx, campaign.ID, &domain.MarketingSpendRequest{
			Month:  "2026-08",
			Amount: 950,
		})
		require.NoError(t, err)
		require.Len(t, got.Spend, 1)
		assert.InDelta(t, 950, got.Spend[0].Amount, 0.001)
	})

	t.Run("distinct months accumulate as separate rows", func(t *testing.T) {
		got, err := svc.RecordSpend(ctx, campaign.ID, &domain.MarketingSpendRequest{
			Month:  "2026-09",
			Amount: 400,
		})
		require.NoError(t, err)
		assert.Len(t, got.Spend, 2)
	})

	t.Run("rejects malformed month", func(t *testing.T) {
		_, err := svc.RecordSpend(ctx, campaign.ID, &domain.MarketingSpendRequest{
			Month:  "August 2026",
			Amount: 100,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("delete removes the campaign and its spend rows", func(t *testing.T) {
		require.NoError(t, svc.DeleteCampaign(ctx, campaign.ID))

		_, err := svc.GetCampaign(ctx, campaign.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)

		var count int64
		require.NoError(t, db.Model(&domain.MarketingSpend{}).
			Where("campaign_id = ?", campaign.ID).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("deleting an unknown campaign", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteCampaign(ctx, uuid.New()), service.ErrNotFound)
	})
}

func TestBusinessIntake(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCatalogService(db)
	ctx := context.Background()

	t.Run("seeds config defaults before first save", func(t *testing.T) {
		intake, err := svc.GetIntake(ctx)
		require.NoError(t, err)
		assert.Empty(t, intake.CompanyName)
		assert.InDelta(t, 10, intake.DefaultLeadFee, 0.001)
		assert.InDelta(t, 1.5, intake.DefaultEmergencyRate, 0.001)
	})

	t.Run("save creates the record", func(t *testing.T) {
		saved, err := svc.SaveIntake(ctx, &domain.BusinessIntakeRequest{
			CompanyName:    "Rooter Bros Plumbing",
			LicenseNumber:  "C36-445821",
			ServiceArea:    "Sacramento metro",
			DefaultTaxRate: floatPtr(0.0825),
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.0825, saved.DefaultTaxRate, 0.0001)
		assert.InDelta(t, 10, saved.DefaultLeadFee, 0.001)

		got, err := svc.GetIntake(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Rooter Bros Plumbing", got.CompanyName)
	})

	t.Run("save replaces the single record", func(t *testing.T) {
		_, err := svc.SaveIntake(ctx, &domain.BusinessIntakeRequest{
			CompanyName:          "Rooter Bros Plumbing & Sewer",
			DefaultLeadFee:       floatPtr(15),
			DefaultEmergencyRate: floatPtr(2),
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&domain.BusinessIntake{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		got, err := svc.GetIntake(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Rooter Bros Plumbing & Sewer", got.CompanyName)
		assert.InDelta(t, 15, got.DefaultLeadFee, 0.001)
		assert.InDelta(t, 2, got.DefaultEmergencyRate, 0.001)
	})
}
