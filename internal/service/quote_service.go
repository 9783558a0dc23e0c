package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/mapper"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuoteService struct {
	quoteRepo  *repository.QuoteRepository
	jobRepo    *repository.JobRepository
	intakeRepo *repository.IntakeRepository
	userRepo   *repository.UserRepository
	notifRepo  *repository.NotificationRepository
	cfg        *config.QuoteConfig
	logger     *zap.Logger
}

func NewQuoteService(
	quoteRepo *repository.QuoteRepository,
	jobRepo *repository.JobRepository,
	intakeRepo *repository.IntakeRepository,
	userRepo *repository.UserRepository,
	notifRepo *repository.NotificationRepository,
	cfg *config.QuoteConfig,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:  quoteRepo,
		jobRepo:    jobRepo,
		intakeRepo: intakeRepo,
		userRepo:   userRepo,
		notifRepo:  notifRepo,
		cfg:        cfg,
		logger:     logger,
	}
}

// recomputeTotals derives all money fields from the item lists. Tax applies
// to parts only, never labor.
func recomputeTotals(q *domain.Quote, items []domain.QuoteLineItem, labor []domain.QuoteLaborEntry) error {
	subtotal := 0.0
	for _, li := range items {
		subtotal += li.Total()
	}
	laborTotal := 0.0
	for _, le := range labor {
		laborTotal += le.Total()
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}
	laborJSON, err := json.Marshal(labor)
	if err != nil {
		return fmt.Errorf("failed to encode labor entries: %w", err)
	}

	q.LineItemsJSON = string(itemsJSON)
	q.LaborEntriesJSON = string(laborJSON)
	q.Subtotal = subtotal
	q.LaborTotal = laborTotal
	q.TaxAmount = subtotal * q.TaxRate
	q.Total = subtotal + laborTotal + q.TaxAmount
	return nil
}

func (s *QuoteService) defaultTaxRate(ctx context.Context) float64 {
	if intake, err := s.intakeRepo.Get(ctx); err == nil && intake.DefaultTaxRate > 0 {
		return intake.DefaultTaxRate
	}
	return s.cfg.DefaultTaxRate
}

func (s *QuoteService) Create(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.QuoteResponse, error) {
	if req.JobID != nil {
		if _, err := s.jobRepo.GetByID(ctx, *req.JobID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: job not found", ErrInvalidInput)
			}
			return nil, fmt.Errorf("failed to get job: %w", err)
		}
	}

	quote := &domain.Quote{
		JobID:         req.JobID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Title:         req.Title,
		Status:        domain.QuoteStatusDraft,
	}
	if req.TaxRate != nil {
		quote.TaxRate = *req.TaxRate
	} else {
		quote.TaxRate = s.defaultTaxRate(ctx)
	}

	if err := recomputeTotals(quote, req.LineItems, req.LaborEntries); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	s.logger.Info("quote created",
		zap.String("quote_id", quote.ID.String()),
		zap.Float64("total", quote.Total),
	)
	return mapper.ToQuoteResponse(quote), nil
}

func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteResponse, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapper.ToQuoteResponse(quote), nil
}

func (s *QuoteService) getQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return quote, nil
}

// Update edits a quote that hasn't been resolved yet. Totals are always
// recomputed server-side; client-sent totals are ignored.
func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuoteRequest) (*domain.QuoteResponse, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != domain.QuoteStatusDraft && !quote.Status.IsOpen() {
		return nil, fmt.Errorf("%w: quote is %s", ErrQuoteNotOpen, quote.Status)
	}

	if req.CustomerName != nil {
		quote.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		quote.CustomerPhone = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		quote.CustomerEmail = *req.CustomerEmail
	}
	if req.Title != nil {
		quote.Title = *req.Title
	}
	if req.TaxRate != nil {
		quote.TaxRate = *req.TaxRate
	}

	items := mapper.ParseLineItems(quote.LineItemsJSON)
	if req.LineItems != nil {
		items = req.LineItems
	}
	labor := mapper.ParseLaborEntries(quote.LaborEntriesJSON)
	if req.LaborEntries != nil {
		labor = req.LaborEntries
	}
	if err := recomputeTotals(quote, items, labor); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}
	return mapper.ToQuoteResponse(quote), nil
}

func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return err
	}
	if quote.Status != domain.QuoteStatusDraft {
		return fmt.Errorf("%w: only draft quotes can be deleted", ErrInvalidInput)
	}
	return s.quoteRepo.Delete(ctx, id)
}

// Send issues the public access token and opens the quote for customer
// response. Resending an already open quote reuses the token.
func (s *QuoteService) Send(ctx context.Context, id uuid.UUID) (*domain.QuoteResponse, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	switch quote.Status {
	case domain.QuoteStatusDraft:
		// first send
	case domain.QuoteStatusSent, domain.QuoteStatusViewed:
		return mapper.ToQuoteResponse(quote), nil
	default:
		return nil, fmt.Errorf("%w: quote is %s", ErrQuoteNotOpen, quote.Status)
	}

	token, err := s.newAccessToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expires := now.AddDate(0, 0, s.cfg.ExpiryDays)
	quote.AccessToken = &token
	quote.SentAt = &now
	quote.ExpiresAt = &expires
	quote.Status = domain.QuoteStatusSent

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to send quote: %w", err)
	}

	s.logger.Info("quote sent",
		zap.String("quote_id", quote.ID.String()),
		zap.Time("expires_at", expires),
	)
	return mapper.ToQuoteResponse(quote), nil
}

func (s *QuoteService) newAccessToken() (string, error) {
	n := s.cfg.TokenBytes
	if n < 16 {
		n = 32
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GetByToken serves the customer-facing quote view and records the first
// view. An expired quote is flagged on read.
func (s *QuoteService) GetByToken(ctx context.Context, token string) (*domain.PublicQuoteResponse, error) {
	quote, err := s.quoteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve quote token: %w", err)
	}

	if s.expireIfDue(ctx, quote) {
		return mapper.ToPublicQuoteResponse(quote), nil
	}

	if quote.Status == domain.QuoteStatusSent {
		now := time.Now().UTC()
		quote.ViewedAt = &now
		quote.Status = domain.QuoteStatusViewed
		if err := s.quoteRepo.Update(ctx, quote); err != nil {
			s.logger.Warn("failed to record quote view", zap.Error(err))
		}
	}

	return mapper.ToPublicQuoteResponse(quote), nil
}

// expireIfDue flips an overdue open quote to expired, returning true when
// it did.
func (s *QuoteService) expireIfDue(ctx context.Context, quote *domain.Quote) bool {
	if !quote.Status.IsOpen() || quote.ExpiresAt == nil || time.Now().UTC().Before(*quote.ExpiresAt) {
		return false
	}
	quote.Status = domain.QuoteStatusExpired
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		s.logger.Warn("failed to expire quote", zap.Error(err))
	}
	return true
}

// Accept records customer acceptance via the public token. An opt-in
// without the matching ownership confirmation rejects the whole acceptance;
// consent is enforced here, not trusted from the client.
func (s *QuoteService) Accept(ctx context.Context, token string, req *domain.AcceptQuoteRequest) (*domain.PublicQuoteResponse, error) {
	quote, err := s.quoteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve quote token: %w", err)
	}

	if req.SMSOptIn && !req.SMSOwnershipConfirmed {
		return nil, ErrConsentRequired
	}
	if req.EmailOptIn && !req.EmailOwnershipConfirmed {
		return nil, fmt.Errorf("%w: email opt-in requires address ownership confirmation", ErrConsentRequired)
	}

	if s.expireIfDue(ctx, quote) {
		return nil, ErrQuoteExpired
	}
	if !quote.Status.IsOpen() {
		return nil, ErrQuoteNotOpen
	}

	now := time.Now().UTC()
	quote.Status = domain.QuoteStatusAccepted
	quote.RespondedAt = &now

	quote.SMSOptIn = req.SMSOptIn
	quote.SMSOwnershipConfirmed = req.SMSOwnershipConfirmed
	quote.EmailOptIn = req.EmailOptIn
	quote.EmailOwnershipConfirmed = req.EmailOwnershipConfirmed

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to accept quote: %w", err)
	}

	s.notifyStaff(ctx, quote,
		string(domain.NotificationTypeQuoteAccepted),
		"Quote accepted",
		fmt.Sprintf("%s accepted quote %q (%.2f)", quote.CustomerName, quote.Title, quote.Total),
	)

	s.logger.Info("quote accepted",
		zap.String("quote_id", quote.ID.String()),
		zap.Bool("sms_opt_in", quote.SMSOptIn),
	)
	return mapper.ToPublicQuoteResponse(quote), nil
}

// Decline records customer rejection via the public token
func (s *QuoteService) Decline(ctx context.Context, token string, req *domain.DeclineQuoteRequest) (*domain.PublicQuoteResponse, error) {
	quote, err := s.quoteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve quote token: %w", err)
	}

	if s.expireIfDue(ctx, quote) {
		return nil, ErrQuoteExpired
	}
	if !quote.Status.IsOpen() {
		return nil, ErrQuoteNotOpen
	}

	now := time.Now().UTC()
	quote.Status = domain.QuoteStatusDeclined
	quote.RespondedAt = &now
	quote.DeclineReason = req.Reason

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to decline quote: %w", err)
	}

	s.notifyStaff(ctx, quote,
		string(domain.NotificationTypeQuoteDeclined),
		"Quote declined",
		fmt.Sprintf("%s declined quote %q", quote.CustomerName, quote.Title),
	)

	s.logger.Info("quote declined", zap.String("quote_id", quote.ID.String()))
	return mapper.ToPublicQuoteResponse(quote), nil
}

func (s *QuoteService) List(ctx context.Context, page, pageSize int, filters *repository.QuoteFilters) (*domain.ListResponse[domain.QuoteResponse], error) {
	quotes, total, err := s.quoteRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	items := make([]domain.QuoteResponse, len(quotes))
	for i := range quotes {
		items[i] = *mapper.ToQuoteResponse(&quotes[i])
	}
	return &domain.ListResponse[domain.QuoteResponse]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// SweepExpired flips overdue open quotes to expired. Run periodically by
// the scheduler. Returns the number expired.
func (s *QuoteService) SweepExpired(ctx context.Context) (int, error) {
	quotes, err := s.quoteRepo.FindExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to find expired quotes: %w", err)
	}

	expired := 0
	for i := range quotes {
		quotes[i].Status = domain.QuoteStatusExpired
		if err := s.quoteRepo.Update(ctx, &quotes[i]); err != nil {
			s.logger.Error("failed to expire quote",
				zap.String("quote_id", quotes[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info("quotes expired", zap.Int("count", expired))
	}
	return expired, nil
}

func (s *QuoteService) notifyStaff(ctx context.Context, quote *domain.Quote, notifType, title, message string) {
	for _, role := range []domain.UserRole{domain.RoleAdmin, domain.RoleDispatcher} {
		r := role
		users, _, err := s.userRepo.List(ctx, &r, true, 1, 100)
		if err != nil {
			s.logger.Warn("failed to list users for notification", zap.Error(err))
			continue
		}
		for i := range users {
			n := &domain.Notification{
				UserID:     users[i].ID,
				Type:       notifType,
				Title:      title,
				Message:    message,
				EntityID:   &quote.ID,
				EntityType: "quote",
			}
			if err := s.notifRepo.Create(ctx, n); err != nil {
				s.logger.Warn("failed to create notification", zap.Error(err))
			}
		}
	}
}
