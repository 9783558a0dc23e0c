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

func createQuoteService(db *gorm.DB) *service.QuoteService {
	return service.NewQuoteService(
		repository.NewQuoteRepository(db),
		repository.NewJobRepository(db),
		repository.NewIntakeRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		&config.QuoteConfig{ExpiryDays: 14, TokenBytes: 32, DefaultTaxRate: 0.08},
		zap.NewNop(),
	)
}

func newQuoteRequest() *domain.CreateQuoteRequest {
	return &domain.CreateQuoteRequest{
		CustomerName: "Pat Homeowner",
		Title:        "Water heater replacement",
		LineItems: []domain.QuoteLineItem{
			{Description: "50 gal water heater", Quantity: 1, UnitPrice: 800},
			{Description: "Fittings", Quantity: 4, UnitPrice: 25},
		},
		LaborEntries: []domain.QuoteLaborEntry{
			{Description: "Installation", Hours: 3, Rate: 100},
		},
	}
}

// sendQuote creates and sends a quote, returning the stored row with its
// access token populated.
func sendQuote(t *testing.T, db *gorm.DB, svc *service.QuoteService) *domain.Quote {
	t.Helper()
	ctx := context.Background()

	created, err := svc.Create(ctx, newQuoteRequest())
	require.NoError(t, err)
	_, err = svc.Send(ctx, created.ID)
	require.NoError(t, err)

	var quote domain.Quote
	require.NoError(t, db.First(&quote, "id = ?", created.ID).Error)
	require.NotNil(t, quote.AccessToken)
	return &quote
}

func TestQuoteTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)
	ctx := context.Background()

	t.Run("tax applies to parts only", func(t *testing.T) {
		taxRate := 0.10
		req := newQuoteRequest()
		req.TaxRate = &taxRate

		resp, err := svc.Create(ctx, req)
		require.NoError(t, err)

		assert.InDelta(t, 900.0, resp.Subtotal, 0.001)   // 800 + 4*25
		assert.InDelta(t, 300.0, resp.LaborTotal, 0.001) // 3h * 100
		assert.InDelta(t, 90.0, resp.TaxAmount, 0.001)   // 10% of parts, labor untaxed
		assert.InDelta(t, 1290.0, resp.Total, 0.001)
		assert.Equal(t, domain.QuoteStatusDraft, resp.Status)
	})

	t.Run("falls back to the configured tax rate", func(t *testing.T) {
		resp, err := svc.Create(ctx, newQuoteRequest())
		require.NoError(t, err)
		assert.InDelta(t, 0.08, resp.TaxRate, 0.0001)
		assert.InDelta(t, 72.0, resp.TaxAmount, 0.001)
	})

	t.Run("totals are recomputed on update", func(t *testing.T) {
		taxRate := 0.10
		req := newQuoteRequest()
		req.TaxRate = &taxRate
		created, err := svc.Create(ctx, req)
		require.NoError(t, err)

		newItems := []domain.QuoteLineItem{
			{Description: "Tankless unit", Quantity: 1, UnitPrice: 1500},
		}
		updated, err := svc.Update(ctx, created.ID, &domain.UpdateQuoteRequest{LineItems: newItems})
		require.NoError(t, err)

		assert.InDelta(t, 1500.0, updated.Subtotal, 0.001)
		assert.InDelta(t, 150.0, updated.TaxAmount, 0.001)
		assert.InDelta(t, 300.0, updated.LaborTotal, 0.001) // labor untouched
		assert.InDelta(t, 1950.0, updated.Total, 0.001)
	})
}

func TestQuoteSend(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)
	ctx := context.Background()

	t.Run("issues a token and an expiry", func(t *testing.T) {
		created, err := svc.Create(ctx, newQuoteRequest())
		require.NoError(t, err)

		resp, err := svc.Send(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusSent, resp.Status)
		assert.NotNil(t, resp.SentAt)
		assert.NotNil(t, resp.ExpiresAt)

		var quote domain.Quote
		require.NoError(t, db.First(&quote, "id = ?", created.ID).Error)
		require.NotNil(t, quote.AccessToken)
		assert.Len(t, *quote.AccessToken, 64) // 32 random bytes, hex encoded
	})

	t.Run("resending an open quote keeps the token", func(t *testing.T) {
		quote := sendQuote(t, db, svc)
		original := *quote.AccessToken

		_, err := svc.Send(ctx, quote.ID)
		require.NoError(t, err)

		var reloaded domain.Quote
		require.NoError(t, db.First(&reloaded, "id = ?", quote.ID).Error)
		assert.Equal(t, original, *reloaded.AccessToken)
	})

	t.Run("cannot send a resolved quote", func(t *testing.T) {
		quote := sendQuote(t, db, svc)
		require.NoError(t, db.Model(quote).Update("status", domain.QuoteStatusDeclined).Error)

		_, err := svc.Send(ctx, quote.ID)
		assert.ErrorIs(t, err, service.ErrQuoteNotOpen)
	})
}

func TestQuotePublicView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)
	ctx := context.Background()

	t.Run("first view flips sent to viewed", func(t *testing.T) {
		quote := sendQuote(t, db, svc)

		resp, err := svc.GetByToken(ctx, *quote.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusViewed, resp.Status)

		var reloaded domain.Quote
		require.NoError(t, db.First(&reloaded, "id = ?", quote.ID).Error)
		assert.NotNil(t, reloaded.ViewedAt)
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		_, err := svc.GetByToken(ctx, "nosuchtoken")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("overdue quote expires on read", func(t *testing.T) {
		quote := sendQuote(t, db, svc)
		past := time.Now().UTC().Add(-time.Hour)
		require.NoError(t, db.Model(quote).Update("expires_at", past).Error)

		resp, err := svc.GetByToken(ctx, *quote.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusExpired, resp.Status)
	})
}

func TestQuoteAccept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)
	ctx := context.Background()

	t.Run("accepts with full consent", func(t *testing.T) {
		quote := sendQuote(t, db, svc)

		resp, err := svc.Accept(ctx, *quote.AccessToken, &domain.AcceptQuoteRequest{
			SMSOptIn:                true,
			SMSOwnershipConfirmed:   true,
			EmailOptIn:              true,
			EmailOwnershipConfirmed: true,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusAccepted, resp.Status)

		var reloaded domain.Quote
		require.NoError(t, db.First(&reloaded, "id = ?", quote.ID).Error)
		assert.True(t, reloaded.SMSOptIn)
		assert.True(t, reloaded.SMSOwnershipConfirmed)
		assert.NotNil(t, reloaded.RespondedAt)
	})

	t.Run("accepts without any opt-in", func(t *testing.T) {
		quote := sendQuote(t, db, svc)

		resp, err := svc.Accept(ctx, *quote.AccessToken, &domain.AcceptQuoteRequest{})
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusAccepted, resp.Status)
	})

	t.Run("sms opt-in without ownership confirmation is rejected", func(t *testing.T) {
		quote := sendQuote(t, db, svc)

		_, err := svc.Accept(ctx, *quote.AccessToken, &domain.AcceptQuoteRequest{SMSOptIn: true})
		assert.ErrorIs(t, err, service.ErrConsentRequired)

		var reloaded domain.Quote
		require.NoError(t, db.First(&reloaded, "id = ?", quote.ID).Error)
		assert.Equal(t, domain.QuoteStatusSent, reloaded.Status, "rejected acceptance must not resolve the quote")
	})

	t.Run("email opt-in without ownership confirmation is rejected", func(t *testing.T) {
		quote := sendQuote(t, db, svc)

		_, err := svc.Accept(ctx, *quote.AccessToken, &domain.AcceptQuoteRequest{EmailOptIn: true})
		assert.ErrorIs(t, err, service.ErrConsentRequired)
	})

	t.Run("cannot accept an expired quote", func(t *testing.T) {
		quote := sendQuote(t, db, svc)
		past := time.Now().UTC().Add(-time.Hour)
		require.NoError(t, db.Model(quote).Update("expires_at", past).Error)

		_, err := svc.Accept(ctx, *quote.AccessToken, &domain.AcceptQuoteRequest{})
		assert.ErrorIs(t, err, service.ErrQuoteExpired)
	})

	t.Run("cannot accept twice", func(t *testing.T) {
		quote := sendQuote(t, db, svc)

		_, err := svc.Accept(ctx, *quote.AccessToken, &domain.AcceptQuoteRequest{})
		require.NoError(t, err)

		_, err = svc.Accept(ctx, *quote.AccessToken, &domain.AcceptQuoteRequest{})
		assert.ErrorIs(t, err, service.ErrQuoteNotOpen)
	})
}

func TestQuoteDecline(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)
	ctx := context.Background()

	t.Run("records the reason", func(t *testing.T) {
		quote := sendQuote(t, db, svc)

		resp, err := svc.Decline(ctx, *quote.AccessToken, &domain.DeclineQuoteRequest{Reason: "went with another company"})
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusDeclined, resp.Status)

		var reloaded domain.Quote
		require.NoError(t, db.First(&reloaded, "id = ?", quote.ID).Error)
		assert.Equal(t, "went with another company", reloaded.DeclineReason)
	})

	t.Run("cannot decline after accepting", func(t *testing.T) {
		quote := sendQuote(t, db, svc)

		_, err := svc.Accept(ctx, *quote.AccessToken, &domain.AcceptQuoteRequest{})
		require.NoError(t, err)

		_, err = svc.Decline(ctx, *quote.AccessToken, &domain.DeclineQuoteRequest{})
		assert.ErrorIs(t, err, service.ErrQuoteNotOpen)
	})
}

func TestQuoteSweepExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)
	ctx := context.Background()

	overdue := sendQuote(t, db, svc)
	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(overdue).Update("expires_at", past).Error)

	current := sendQuote(t, db, svc)

	expired, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	var a, b domain.Quote
	require.NoError(t, db.First(&a, "id = ?", overdue.ID).Error)
	require.NoError(t, db.First(&b, "id = ?", current.ID).Error)
	assert.Equal(t, domain.QuoteStatusExpired, a.Status)
	assert.Equal(t, domain.QuoteStatusSent, b.Status)
}

func TestQuoteDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createQuoteService(db)
	ctx := context.Background()

	t.Run("drafts can be deleted", func(t *testing.T) {
		created, err := svc.Create(ctx, newQuoteRequest())
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, created.ID))

		_, err = svc.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("sent quotes cannot be deleted", func(t *testing.T) {
		quote := sendQuote(t, db, svc)
		err := svc.Delete(ctx, quote.ID)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}
