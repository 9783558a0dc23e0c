package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/mapper"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CallService struct {
	callRepo     *repository.CallRepository
	leadRepo     *repository.LeadRepository
	quoteService *QuoteService
	logger       *zap.Logger
}

func NewCallService(callRepo *repository.CallRepository, leadRepo *repository.LeadRepository, quoteService *QuoteService, logger *zap.Logger) *CallService {
	return &CallService{
		callRepo:     callRepo,
		leadRepo:     leadRepo,
		quoteService: quoteService,
		logger:       logger,
	}
}

func (s *CallService) Create(ctx context.Context, req *domain.CreateCallRequest) (*domain.CallResponse, error) {
	outcome := req.Outcome
	if outcome == "" {
		outcome = domain.CallOutcomeAnswered
	}
	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	call := &domain.Call{
		CallerName:      req.CallerName,
		CallerNumber:    req.CallerNumber,
		DurationSeconds: req.DurationSeconds,
		Outcome:         outcome,
		Notes:           req.Notes,
		OccurredAt:      occurredAt,
	}

	if err := s.callRepo.Create(ctx, call); err != nil {
		return nil, fmt.Errorf("failed to record call: %w", err)
	}

	s.logger.Info("call recorded",
		zap.String("call_id", call.ID.String()),
		zap.String("outcome", string(call.Outcome)),
	)
	return mapper.ToCallResponse(call), nil
}

// LinkLead ties a call to the lead it produced
func (s *CallService) LinkLead(ctx context.Context, callID, leadID uuid.UUID) (*domain.CallResponse, error) {
	call, err := s.callRepo.GetByID(ctx, callID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get call: %w", err)
	}

	if _, err := s.leadRepo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lead not found", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	call.LeadID = &leadID
	if err := s.callRepo.Update(ctx, call); err != nil {
		return nil, fmt.Errorf("failed to link call: %w", err)
	}
	return mapper.ToCallResponse(call), nil
}

// ConvertToQuote creates a draft quote prefilled from the caller details
// and links it back to the call. A call converts at most once.
func (s *CallService) ConvertToQuote(ctx context.Context, callID uuid.UUID, req *domain.CreateQuoteRequest) (*domain.QuoteResponse, error) {
	call, err := s.callRepo.GetByID(ctx, callID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: call %s", ErrNotFound, callID)
		}
		return nil, fmt.Errorf("failed to get call: %w", err)
	}
	if call.ConvertedQuoteID != nil {
		return nil, fmt.Errorf("%w: call already converted to a quote", ErrConflict)
	}

	if req == nil {
		req = &domain.CreateQuoteRequest{}
	}
	if req.CustomerName == "" {
		req.CustomerName = call.CallerName
	}
	if req.CustomerName == "" {
		req.CustomerName = "Unknown caller"
	}
	if req.CustomerPhone == "" {
		req.CustomerPhone = call.CallerNumber
	}
	if req.Title == "" {
		req.Title = "Quote for " + req.CustomerName
	}

	quote, err := s.quoteService.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	call.ConvertedQuoteID = &quote.ID
	call.Outcome = domain.CallOutcomeBooked
	if err := s.callRepo.Update(ctx, call); err != nil {
		s.logger.Error("failed to link converted quote to call",
			zap.String("call_id", call.ID.String()),
			zap.String("quote_id", quote.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("call converted to quote",
		zap.String("call_id", call.ID.String()),
		zap.String("quote_id", quote.ID.String()),
	)
	return quote, nil
}

func (s *CallService) List(ctx context.Context, page, pageSize int, outcome *domain.CallOutcome, from, to *time.Time) (*domain.ListResponse[domain.CallResponse], error) {
	calls, total, err := s.callRepo.List(ctx, page, pageSize, outcome, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}

	items := make([]domain.CallResponse, len(calls))
	for i := range calls {
		items[i] = *mapper.ToCallResponse(&calls[i])
	}
	return &domain.ListResponse[domain.CallResponse]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
