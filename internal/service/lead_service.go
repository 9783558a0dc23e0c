package service

import (
	"context"
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

// WebhookLead is the normalized form of an inbound webhook payload. Each
// source handler maps its own wire format into this before ingestion; the
// original body is kept verbatim on the lead.
type WebhookLead struct {
	Name        string
	Phone       string
	Email       string
	Address     string
	City        string
	PostalCode  string
	ServiceType string
	Description string
	RawPayload  string
}

type LeadService struct {
	leadRepo  *repository.LeadRepository
	jobRepo   *repository.JobRepository
	userRepo  *repository.UserRepository
	notifRepo *repository.NotificationRepository
	cfg       *config.LeadConfig
	logger    *zap.Logger
}

func NewLeadService(
	leadRepo *repository.LeadRepository,
	jobRepo *repository.JobRepository,
	userRepo *repository.UserRepository,
	notifRepo *repository.NotificationRepository,
	cfg *config.LeadConfig,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		leadRepo:  leadRepo,
		jobRepo:   jobRepo,
		userRepo:  userRepo,
		notifRepo: notifRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

// Create records a manually entered lead
func (s *LeadService) Create(ctx context.Context, req *domain.CreateLeadRequest) (*domain.LeadResponse, error) {
	source := req.Source
	if source == "" {
		source = domain.LeadSourcePhone
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, source)
	}

	lead := s.newLead(req.Name, req.Phone, req.Email, source)
	lead.Address = req.Address
	lead.City = req.City
	lead.PostalCode = req.PostalCode
	lead.ServiceType = req.ServiceType
	lead.Description = req.Description

	if err := s.dedupe(ctx, lead); err != nil {
		return nil, err
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.logger.Info("lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.String("source", string(lead.Source)),
		zap.String("status", string(lead.Status)),
	)
	return mapper.ToLeadResponse(lead), nil
}

// Ingest records a lead arriving from an external webhook. Ingestion never
// rejects a duplicate; the lead is stored flagged so the pipeline can see
// repeat inquiries.
func (s *LeadService) Ingest(ctx context.Context, source domain.LeadSource, payload *WebhookLead) (*domain.LeadResponse, error) {
	if payload.Name == "" && payload.Phone == "" && payload.Email == "" {
		return nil, fmt.Errorf("%w: payload carries no contact information", ErrInvalidInput)
	}

	lead := s.newLead(payload.Name, payload.Phone, payload.Email, source)
	lead.Address = payload.Address
	lead.City = payload.City
	lead.PostalCode = payload.PostalCode
	lead.ServiceType = payload.ServiceType
	lead.Description = payload.Description
	lead.RawPayload = payload.RawPayload

	if err := s.dedupe(ctx, lead); err != nil {
		return nil, err
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to store lead: %w", err)
	}

	if lead.Status == domain.LeadStatusNew {
		s.notifyDispatchers(ctx, lead)
	}

	s.logger.Info("webhook lead ingested",
		zap.String("lead_id", lead.ID.String()),
		zap.String("source", string(source)),
		zap.Bool("duplicate", lead.Status == domain.LeadStatusDuplicate),
	)
	return mapper.ToLeadResponse(lead), nil
}

func (s *LeadService) newLead(name, phone, email string, source domain.LeadSource) *domain.Lead {
	deadline := time.Now().UTC().Add(s.cfg.SLADuration())
	if name == "" {
		name = "Unknown caller"
	}
	return &domain.Lead{
		Name:        name,
		Phone:       phone,
		Email:       email,
		Source:      source,
		Status:      domain.LeadStatusNew,
		SLADeadline: &deadline,
	}
}

// dedupe flags the lead as duplicate when a recent open lead shares its
// phone or email. Duplicates get no SLA deadline.
func (s *LeadService) dedupe(ctx context.Context, lead *domain.Lead) error {
	since := time.Now().UTC().Add(-s.cfg.DedupWindow())
	match, err := s.leadRepo.FindRecentMatch(ctx, lead.Phone, lead.Email, since)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check duplicates: %w", err)
	}

	lead.Status = domain.LeadStatusDuplicate
	lead.DuplicateOfID = &match.ID
	lead.SLADeadline = nil
	return nil
}

func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadResponse, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return mapper.ToLeadResponse(lead), nil
}

func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateLeadRequest) (*domain.LeadResponse, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	if req.Name != nil {
		lead.Name = *req.Name
	}
	if req.Phone != nil {
		lead.Phone = *req.Phone
	}
	if req.Email != nil {
		lead.Email = *req.Email
	}
	if req.Address != nil {
		lead.Address = *req.Address
	}
	if req.City != nil {
		lead.City = *req.City
	}
	if req.PostalCode != nil {
		lead.PostalCode = *req.PostalCode
	}
	if req.ServiceType != nil {
		lead.ServiceType = *req.ServiceType
	}
	if req.Description != nil {
		lead.Description = *req.Description
	}
	if req.Score != nil {
		lead.Score = *req.Score
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		// Converted is only reachable through Convert, which creates the job.
		if *req.Status == domain.LeadStatusConverted {
			return nil, fmt.Errorf("%w: use the convert operation", ErrInvalidInput)
		}
		lead.Status = *req.Status
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	return mapper.ToLeadResponse(lead), nil
}

// Convert turns a lead into a pool job and marks the lead converted.
// Converting twice is a conflict.
func (s *LeadService) Convert(ctx context.Context, id uuid.UUID, req *domain.ConvertLeadRequest) (*domain.JobResponse, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	if lead.ConvertedJobID != nil {
		return nil, fmt.Errorf("%w: lead already converted", ErrConflict)
	}
	if lead.Status == domain.LeadStatusSpam || lead.Status == domain.LeadStatusDuplicate {
		return nil, fmt.Errorf("%w: cannot convert a %s lead", ErrInvalidInput, lead.Status)
	}

	serviceType := req.ServiceType
	if serviceType == "" {
		serviceType = lead.ServiceType
	}
	if serviceType == "" {
		serviceType = "general"
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.JobPriorityMedium
	}
	estimated := req.EstimatedDuration
	if estimated == 0 {
		estimated = 60
	}

	job := &domain.Job{
		CustomerName:      lead.Name,
		CustomerPhone:     lead.Phone,
		CustomerEmail:     lead.Email,
		Address:           lead.Address,
		City:              lead.City,
		PostalCode:        lead.PostalCode,
		ServiceType:       serviceType,
		Description:       lead.Description,
		Priority:          priority,
		Status:            domain.JobStatusPending,
		LeadID:            &lead.ID,
		SalespersonID:     req.SalespersonID,
		ScheduledAt:       req.ScheduledAt,
		EstimatedDuration: estimated,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job from lead: %w", err)
	}

	lead.Status = domain.LeadStatusConverted
	lead.ConvertedJobID = &job.ID
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to mark lead converted: %w", err)
	}

	s.logger.Info("lead converted",
		zap.String("lead_id", lead.ID.String()),
		zap.String("job_id", job.ID.String()),
	)
	return mapper.ToJobResponse(job), nil
}

func (s *LeadService) List(ctx context.Context, page, pageSize int, filters *repository.LeadFilters) (*domain.ListResponse[domain.LeadResponse], error) {
	leads, total, err := s.leadRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	items := make([]domain.LeadResponse, len(leads))
	for i := range leads {
		items[i] = *mapper.ToLeadResponse(&leads[i])
	}
	return &domain.ListResponse[domain.LeadResponse]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// SweepSLABreaches flags new leads past their deadline and notifies
// dispatchers. Run periodically by the scheduler. Returns the breach count.
func (s *LeadService) SweepSLABreaches(ctx context.Context) (int, error) {
	leads, err := s.leadRepo.FindSLABreaches(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to find sla breaches: %w", err)
	}

	breached := 0
	for i := range leads {
		lead := &leads[i]
		if err := s.leadRepo.MarkSLABreached(ctx, lead.ID); err != nil {
			s.logger.Error("failed to flag sla breach",
				zap.String("lead_id", lead.ID.String()),
				zap.Error(err),
			)
			continue
		}
		breached++
		s.notifyBreach(ctx, lead)
	}

	if breached > 0 {
		s.logger.Warn("lead sla breaches flagged", zap.Int("count", breached))
	}
	return breached, nil
}

func (s *LeadService) notifyDispatchers(ctx context.Context, lead *domain.Lead) {
	s.notifyRoles(ctx, lead,
		string(domain.NotificationTypeLeadAssigned),
		"New lead",
		fmt.Sprintf("New %s lead from %s", lead.Source, lead.Name),
	)
}

func (s *LeadService) notifyBreach(ctx context.Context, lead *domain.Lead) {
	s.notifyRoles(ctx, lead,
		string(domain.NotificationTypeSLABreach),
		"Lead response overdue",
		fmt.Sprintf("Lead from %s (%s) passed its response deadline", lead.Name, lead.Source),
	)
}

func (s *LeadService) notifyRoles(ctx context.Context, lead *domain.Lead, notifType, title, message string) {
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
				EntityID:   &lead.ID,
				EntityType: "lead",
			}
			if err := s.notifRepo.Create(ctx, n); err != nil {
				s.logger.Warn("failed to create notification", zap.Error(err))
			}
		}
	}
}
