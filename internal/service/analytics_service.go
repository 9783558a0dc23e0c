package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/mapper"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"go.uber.org/zap"
)

type AnalyticsService struct {
	jobRepo      *repository.JobRepository
	leadRepo     *repository.LeadRepository
	quoteRepo    *repository.QuoteRepository
	revenueRepo  *repository.RevenueEventRepository
	campaignRepo *repository.CampaignRepository
	logger       *zap.Logger
}

func NewAnalyticsService(
	jobRepo *repository.JobRepository,
	leadRepo *repository.LeadRepository,
	quoteRepo *repository.QuoteRepository,
	revenueRepo *repository.RevenueEventRepository,
	campaignRepo *repository.CampaignRepository,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		jobRepo:      jobRepo,
		leadRepo:     leadRepo,
		quoteRepo:    quoteRepo,
		revenueRepo:  revenueRepo,
		campaignRepo: campaignRepo,
		logger:       logger,
	}
}

// CreateRevenueEvent records a payment against a job. Events accumulate,
// they never overwrite the revenue captured at completion.
func (s *AnalyticsService) CreateRevenueEvent(ctx context.Context, req *domain.CreateRevenueEventRequest) (*domain.RevenueEventResponse, error) {
	if _, err := s.jobRepo.GetByID(ctx, req.JobID); err != nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, req.JobID)
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	event := &domain.RevenueEvent{
		JobID:      req.JobID,
		Amount:     req.Amount,
		OccurredAt: occurredAt,
		Notes:      req.Notes,
	}
	if user, ok := auth.FromContext(ctx); ok {
		event.RecordedByID = &user.UserID
	}

	if err := s.revenueRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create revenue event: %w", err)
	}
	s.logger.Info("revenue event recorded",
		zap.String("jobId", req.JobID.String()),
		zap.Float64("amount", req.Amount))

	return mapper.ToRevenueEventResponse(event), nil
}

// ListRevenueEvents returns the events recorded against a job
func (s *AnalyticsService) ListRevenueEvents(ctx context.Context, jobID uuid.UUID) ([]domain.RevenueEventResponse, error) {
	events, err := s.revenueRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revenue events: %w", err)
	}
	responses := make([]domain.RevenueEventResponse, len(events))
	for i := range events {
		responses[i] = *mapper.ToRevenueEventResponse(&events[i])
	}
	return responses, nil
}

// RevenueSummary reconciles the two revenue sources over the window. For a
// job with at least one revenue event the event sum is authoritative; a
// completed job with no events contributes its own revenue field instead.
// Every completed job is counted through exactly one of the two paths. The
// same rule is applied per assigned technician for the breakdown entries.
func (s *AnalyticsService) RevenueSummary(ctx context.Context, from, to time.Time) (*domain.RevenueSummaryResponse, error) {
	jobs, err := s.jobRepo.ListCompletedSince(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed jobs: %w", err)
	}

	jobIDs := make([]uuid.UUID, len(jobs))
	for i := range jobs {
		jobIDs[i] = jobs[i].ID
	}

	eventTotals, err := s.revenueRepo.SumForJobs(ctx, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue events: %w", err)
	}

	resp := &domain.RevenueSummaryResponse{From: from, To: to}
	byTech := map[uuid.UUID]*domain.TechnicianRevenueEntry{}
	techOrder := []uuid.UUID{}

	for i := range jobs {
		job := &jobs[i]

		// jobs without a technician share a single zero-key entry
		var key uuid.UUID
		if job.AssignedTechnicianID != nil {
			key = *job.AssignedTechnicianID
		}
		entry, ok := byTech[key]
		if !ok {
			entry = &domain.TechnicianRevenueEntry{TechnicianID: job.AssignedTechnicianID}
			if job.AssignedTechnician != nil && job.AssignedTechnician.User != nil {
				entry.TechnicianName = job.AssignedTechnician.User.DisplayName
			}
			byTech[key] = entry
			techOrder = append(techOrder, key)
		}

		if total, ok := eventTotals[job.ID]; ok {
			resp.EventRevenue += total
			resp.JobsWithEvents++
			entry.EventRevenue += total
			entry.JobsWithEvents++
		} else {
			resp.FallbackRevenue += job.TotalRevenue
			resp.JobsFallback++
			entry.FallbackRevenue += job.TotalRevenue
			entry.JobsFallback++
		}
	}
	resp.TotalRevenue = resp.EventRevenue + resp.FallbackRevenue

	resp.ByTechnician = make([]domain.TechnicianRevenueEntry, 0, len(techOrder))
	for _, key := range techOrder {
		entry := byTech[key]
		entry.TotalRevenue = entry.EventRevenue + entry.FallbackRevenue
		resp.ByTechnician = append(resp.ByTechnician, *entry)
	}

	return resp, nil
}

// MarketingROI computes spend, lead volume, conversions and attributed
// revenue per campaign. Revenue attribution follows the same event-first,
// fallback-second rule as RevenueSummary.
func (s *AnalyticsService) MarketingROI(ctx context.Context, from, to time.Time) ([]domain.MarketingROIEntry, error) {
	campaigns, err := s.campaignRepo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	entries := make([]domain.MarketingROIEntry, 0, len(campaigns))
	for i := range campaigns {
		campaign := &campaigns[i]

		spend := 0.0
		for _, sp := range campaign.Spend {
			if !sp.Month.Before(from) && sp.Month.Before(to) {
				spend += sp.Amount
			}
		}

		filters := &repository.LeadFilters{
			Source:        &campaign.Source,
			CreatedAfter:  &from,
			CreatedBefore: &to,
		}
		leads, leadCount, err := s.leadRepo.List(ctx, 1, 1000, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list campaign leads: %w", err)
		}

		leadIDs := make([]uuid.UUID, 0, len(leads))
		for j := range leads {
			if leads[j].ConvertedJobID != nil {
				leadIDs = append(leadIDs, leads[j].ID)
			}
		}

		jobs, err := s.jobRepo.ListByLeadIDs(ctx, leadIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to list converted jobs: %w", err)
		}

		jobIDs := make([]uuid.UUID, 0, len(jobs))
		for j := range jobs {
			if jobs[j].Status == domain.JobStatusCompleted {
				jobIDs = append(jobIDs, jobs[j].ID)
			}
		}
		eventTotals, err := s.revenueRepo.SumForJobs(ctx, jobIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to sum revenue events: %w", err)
		}

		revenue := 0.0
		converted := 0
		for j := range jobs {
			job := &jobs[j]
			if job.Status != domain.JobStatusCompleted {
				continue
			}
			converted++
			if total, ok := eventTotals[job.ID]; ok {
				revenue += total
			} else {
				revenue += job.TotalRevenue
			}
		}

		entry := domain.MarketingROIEntry{
			CampaignID:    campaign.ID,
			CampaignName:  campaign.Name,
			Source:        campaign.Source,
			Spend:         spend,
			Leads:         int(leadCount),
			ConvertedJobs: converted,
			Revenue:       revenue,
		}
		if leadCount > 0 {
			entry.CostPerLead = spend / float64(leadCount)
		}
		if spend > 0 {
			entry.ROI = (revenue - spend) / spend
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Dashboard assembles the operational overview counters
func (s *AnalyticsService) Dashboard(ctx context.Context) (*domain.DashboardResponse, error) {
	now := time.Now().UTC()
	dayStart := now.Truncate(24 * time.Hour)
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	resp := &domain.DashboardResponse{}

	openJobs, err := s.jobRepo.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count open jobs: %w", err)
	}
	resp.OpenJobs = int(openJobs)

	jobsToday, err := s.jobRepo.CountScheduledBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to count today's jobs: %w", err)
	}
	resp.JobsToday = int(jobsToday)

	completedWeek, err := s.jobRepo.CountCompletedBetween(ctx, weekStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed jobs: %w", err)
	}
	resp.CompletedThisWeek = int(completedWeek)

	newLeads, err := s.leadRepo.CountByStatus(ctx, domain.LeadStatusNew)
	if err != nil {
		return nil, fmt.Errorf("failed to count new leads: %w", err)
	}
	resp.NewLeads = int(newLeads)

	breaches, err := s.leadRepo.CountBreached(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sla breaches: %w", err)
	}
	resp.SLABreaches = int(breaches)

	openQuotes, err := s.quoteRepo.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count open quotes: %w", err)
	}
	resp.OpenQuotes = int(openQuotes)

	accepted, err := s.quoteRepo.CountByStatus(ctx, domain.QuoteStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to count accepted quotes: %w", err)
	}
	declined, err := s.quoteRepo.CountByStatus(ctx, domain.QuoteStatusDeclined)
	if err != nil {
		return nil, fmt.Errorf("failed to count declined quotes: %w", err)
	}
	if accepted+declined > 0 {
		resp.QuoteAcceptRate = float64(accepted) / float64(accepted+declined)
	}

	revenue, err := s.RevenueSummary(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	resp.RevenueThisMonth = revenue.TotalRevenue

	return resp, nil
}
