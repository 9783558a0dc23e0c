package service_test

import (
	"context"
	"testing"

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

func createCallService(db *gorm.DB) *service.CallService {
	return service.NewCallService(
		repository.NewCallRepository(db),
		repository.NewLeadRepository(db),
		createQuoteService(db),
		zap.NewNop(),
	)
}

func TestCallCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCallService(db)
	ctx := context.Background()

	t.Run("defaults the outcome to answered", func(t *testing.T) {
		resp, err := svc.Create(ctx, &domain.CreateCallRequest{CallerNumber: "555-0500"})
		require.NoError(t, err)
		assert.Equal(t, domain.CallOutcomeAnswered, resp.Outcome)
		assert.False(t, resp.OccurredAt.IsZero())
	})

	t.Run("keeps an explicit outcome", func(t *testing.T) {
		resp, err := svc.Create(ctx, &domain.CreateCallRequest{
			CallerNumber: "555-0501",
			Outcome:      domain.CallOutcomeVoicemail,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.CallOutcomeVoicemail, resp.Outcome)
	})
}

func TestCallLinkLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCallService(db)
	leadSvc := createLeadService(db)
	ctx := context.Background()

	call, err := svc.Create(ctx, &domain.CreateCallRequest{CallerNumber: "555-0600"})
	require.NoError(t, err)

	lead, err := leadSvc.Create(ctx, &domain.CreateLeadRequest{
		Name:   "Call Origin",
		Phone:  "555-0600",
		Source: domain.LeadSourcePhone,
	})
	require.NoError(t, err)

	t.Run("ties the call to its lead", func(t *testing.T) {
		resp, err := svc.LinkLead(ctx, call.ID, lead.ID)
		require.NoError(t, err)
		require.NotNil(t, resp.LeadID)
		assert.Equal(t, lead.ID, *resp.LeadID)
	})

	t.Run("unknown lead is invalid input", func(t *testing.T) {
		_, err := svc.LinkLead(ctx, call.ID, uuid.New())
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("unknown call is not found", func(t *testing.T) {
		_, err := svc.LinkLead(ctx, uuid.New(), lead.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestCallConvertToQuote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCallService(db)
	ctx := context.Background()

	t.Run("prefills the quote from caller details", func(t *testing.T) {
		call, err := svc.Create(ctx, &domain.CreateCallRequest{
			CallerName:   "Robin Caller",
			CallerNumber: "555-0700",
		})
		require.NoError(t, err)

		quote, err := svc.ConvertToQuote(ctx, call.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, "Robin Caller", quote.CustomerName)
		assert.Equal(t, "555-0700", quote.CustomerPhone)
		assert.Equal(t, "Quote for Robin Caller", quote.Title)
		assert.Equal(t, domain.QuoteStatusDraft, quote.Status)

		var stored domain.Call
		require.NoError(t, db.First(&stored, "id = ?", call.ID).Error)
		require.NotNil(t, stored.ConvertedQuoteID)
		assert.Equal(t, quote.ID, *stored.ConvertedQuoteID)
		assert.Equal(t, domain.CallOutcomeBooked, stored.Outcome)
	})

	t.Run("anonymous caller gets a placeholder name", func(t *testing.T) {
		call, err := svc.Create(ctx, &domain.CreateCallRequest{CallerNumber: "555-0701"})
		require.NoError(t, err)

		quote, err := svc.ConvertToQuote(ctx, call.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, "Unknown caller", quote.CustomerName)
	})

	t.Run("explicit request fields win over caller details", func(t *testing.T) {
		call, err := svc.Create(ctx, &domain.CreateCallRequest{
			CallerName:   "Robin Caller",
			CallerNumber: "555-0702",
		})
		require.NoError(t, err)

		quote, err := svc.ConvertToQuote(ctx, call.ID, &domain.CreateQuoteRequest{
			CustomerName: "Business Account LLC",
			Title:        "Annual maintenance",
			LineItems: []domain.QuoteLineItem{
				{Description: "Inspection", Quantity: 1, UnitPrice: 250},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "Business Account LLC", quote.CustomerName)
		assert.Equal(t, "Annual maintenance", quote.Title)
		assert.InDelta(t, 250.0, quote.Subtotal, 0.001)
	})

	t.Run("converting twice is a conflict", func(t *testing.T) {
		call, err := svc.Create(ctx, &domain.CreateCallRequest{CallerNumber: "555-0703"})
		require.NoError(t, err)

		_, err = svc.ConvertToQuote(ctx, call.ID, nil)
		require.NoError(t, err)

		_, err = svc.ConvertToQuote(ctx, call.ID, nil)
		assert.ErrorIs(t, err, service.ErrConflict)
	})
}
