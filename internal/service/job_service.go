package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/geo"
	"github.com/webslinger-cto/fieldserve-api/internal/mapper"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Status transition rules: each status lists the statuses reachable from it.
// The happy path is strictly linear; cancellation is reachable from every
// non-terminal status.
var validStatusTransitions = map[domain.JobStatus][]domain.JobStatus{
	domain.JobStatusPending:    {domain.JobStatusAssigned, domain.JobStatusCancelled},
	domain.JobStatusAssigned:   {domain.JobStatusConfirmed, domain.JobStatusCancelled},
	domain.JobStatusConfirmed:  {domain.JobStatusEnRoute, domain.JobStatusCancelled},
	domain.JobStatusEnRoute:    {domain.JobStatusOnSite, domain.JobStatusCancelled},
	domain.JobStatusOnSite:     {domain.JobStatusInProgress, domain.JobStatusCancelled},
	domain.JobStatusInProgress: {domain.JobStatusCompleted, domain.JobStatusCancelled},
	domain.JobStatusCompleted:  {},
	domain.JobStatusCancelled:  {},
}

// CanTransition reports whether moving from one status to another is allowed
func CanTransition(from, to domain.JobStatus) bool {
	for _, allowed := range validStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type JobService struct {
	jobRepo        *repository.JobRepository
	techRepo       *repository.TechnicianRepository
	spRepo         *repository.SalespersonRepository
	commissionRepo *repository.CommissionRepository
	notifRepo      *repository.NotificationRepository
	dispatch       *config.DispatchConfig
	logger         *zap.Logger
}

func NewJobService(
	jobRepo *repository.JobRepository,
	techRepo *repository.TechnicianRepository,
	spRepo *repository.SalespersonRepository,
	commissionRepo *repository.CommissionRepository,
	notifRepo *repository.NotificationRepository,
	dispatch *config.DispatchConfig,
	logger *zap.Logger,
) *JobService {
	return &JobService{
		jobRepo:        jobRepo,
		techRepo:       techRepo,
		spRepo:         spRepo,
		commissionRepo: commissionRepo,
		notifRepo:      notifRepo,
		dispatch:       dispatch,
		logger:         logger,
	}
}

func (s *JobService) Create(ctx context.Context, req *domain.CreateJobRequest) (*domain.JobResponse, error) {
	priority := req.Priority
	if priority == "" {
		priority = domain.JobPriorityMedium
	}
	estimated := req.EstimatedDuration
	if estimated == 0 {
		estimated = 60
	}

	job := &domain.Job{
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		CustomerEmail:     req.CustomerEmail,
		Address:           req.Address,
		City:              req.City,
		PostalCode:        req.PostalCode,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		ServiceType:       req.ServiceType,
		Description:       req.Description,
		Priority:          priority,
		Status:            domain.JobStatusPending,
		SalespersonID:     req.SalespersonID,
		ScheduledAt:       req.ScheduledAt,
		EstimatedDuration: estimated,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("priority", string(job.Priority)),
	)
	return mapper.ToJobResponse(job), nil
}

func (s *JobService) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobResponse, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapper.ToJobResponse(job), nil
}

func (s *JobService) getJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (s *JobService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateJobRequest) (*domain.JobResponse, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: job is %s", ErrInvalidTransition, job.Status)
	}

	if req.CustomerName != nil {
		job.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		job.CustomerPhone = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		job.CustomerEmail = *req.CustomerEmail
	}
	if req.Address != nil {
		job.Address = *req.Address
	}
	if req.City != nil {
		job.City = *req.City
	}
	if req.PostalCode != nil {
		job.PostalCode = *req.PostalCode
	}
	if req.Latitude != nil {
		job.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		job.Longitude = req.Longitude
	}
	if req.ServiceType != nil {
		job.ServiceType = *req.ServiceType
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Priority != nil {
		job.Priority = *req.Priority
	}
	if req.SalespersonID != nil {
		job.SalespersonID = req.SalespersonID
	}
	if req.ScheduledAt != nil {
		job.ScheduledAt = req.ScheduledAt
	}
	if req.EstimatedDuration != nil {
		job.EstimatedDuration = *req.EstimatedDuration
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return mapper.ToJobResponse(job), nil
}

func (s *JobService) List(ctx context.Context, page, pageSize int, filters *repository.JobFilters) (*domain.ListResponse[domain.JobResponse], error) {
	jobs, total, err := s.jobRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	items := make([]domain.JobResponse, len(jobs))
	for i := range jobs {
		items[i] = *mapper.ToJobResponse(&jobs[i])
	}
	return &domain.ListResponse[domain.JobResponse]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// ListPool returns unassigned pending jobs open for claiming
func (s *JobService) ListPool(ctx context.Context) ([]domain.JobResponse, error) {
	jobs, err := s.jobRepo.ListPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pool: %w", err)
	}
	items := make([]domain.JobResponse, len(jobs))
	for i := range jobs {
		items[i] = *mapper.ToJobResponse(&jobs[i])
	}
	return items, nil
}

// Assign gives a pending job to a technician, enforcing the daily cap
func (s *JobService) Assign(ctx context.Context, jobID uuid.UUID, req *domain.AssignJobRequest) (*domain.JobResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(job.Status, domain.JobStatusAssigned) {
		return nil, fmt.Errorf("%w: cannot assign a %s job", ErrInvalidTransition, job.Status)
	}

	tech, err := s.techRepo.GetByID(ctx, req.TechnicianID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: technician not found", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}

	if err := s.checkDailyCap(ctx, tech, job); err != nil {
		return nil, err
	}

	job.AssignedTechnicianID = &tech.ID
	job.Status = domain.JobStatusAssigned
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to assign job: %w", err)
	}

	s.notifyTechnician(ctx, tech, job,
		string(domain.NotificationTypeJobAssigned),
		"Job assigned",
		fmt.Sprintf("You have been assigned to %s at %s", job.ServiceType, job.Address),
	)

	s.logger.Info("job assigned",
		zap.String("job_id", job.ID.String()),
		zap.String("technician_id", tech.ID.String()),
	)

	job.AssignedTechnician = tech
	return mapper.ToJobResponse(job), nil
}

// Claim lets a technician take a pool job. The winner is decided by a
// conditional update; losers get a conflict.
func (s *JobService) Claim(ctx context.Context, jobID uuid.UUID) (*domain.JobResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	tech, err := s.techRepo.GetByUserID(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no technician profile", ErrPermissionDenied)
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsPoolJob() {
		return nil, ErrJobAlreadyClaimed
	}

	if err := s.checkDailyCap(ctx, tech, job); err != nil {
		return nil, err
	}

	rows, err := s.jobRepo.Claim(ctx, jobID, tech.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}
	if rows == 0 {
		return nil, ErrJobAlreadyClaimed
	}

	s.logger.Info("job claimed",
		zap.String("job_id", jobID.String()),
		zap.String("technician_id", tech.ID.String()),
	)

	job, err = s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return mapper.ToJobResponse(job), nil
}

func (s *JobService) checkDailyCap(ctx context.Context, tech *domain.Technician, job *domain.Job) error {
	if job.ScheduledAt == nil || tech.MaxDailyJobs <= 0 {
		return nil
	}
	dayStart := job.ScheduledAt.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)
	count, err := s.jobRepo.CountScheduledForDay(ctx, tech.ID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("failed to count daily jobs: %w", err)
	}
	if count >= int64(tech.MaxDailyJobs) {
		return ErrDailyCapReached
	}
	return nil
}

// Confirm acknowledges an assignment
func (s *JobService) Confirm(ctx context.Context, jobID uuid.UUID) (*domain.JobResponse, error) {
	return s.transition(ctx, jobID, domain.JobStatusConfirmed, nil)
}

// EnRoute marks the technician as travelling to the site
func (s *JobService) EnRoute(ctx context.Context, jobID uuid.UUID) (*domain.JobResponse, error) {
	return s.transition(ctx, jobID, domain.JobStatusEnRoute, func(job *domain.Job) error {
		if job.AssignedTechnicianID != nil {
			if err := s.techRepo.UpdateStatus(ctx, *job.AssignedTechnicianID, domain.TechnicianStatusBusy); err != nil {
				s.logger.Warn("failed to mark technician busy", zap.Error(err))
			}
		}
		return nil
	})
}

// Arrive records the on-site transition with the reported position. Arrival
// is verified against the job coordinates but a failed check only flags the
// job; it never blocks the transition. Clients without a GPS fix may omit
// the coordinates entirely; the arrival is then recorded unverified.
func (s *JobService) Arrive(ctx context.Context, jobID uuid.UUID, req *domain.ArriveRequest) (*domain.JobResponse, error) {
	return s.transition(ctx, jobID, domain.JobStatusOnSite, func(job *domain.Job) error {
		now := time.Now().UTC()
		job.ArrivalAt = &now

		if req == nil || req.Latitude == nil || req.Longitude == nil {
			return nil
		}
		job.ArrivalLat = req.Latitude
		job.ArrivalLng = req.Longitude

		if job.Latitude != nil && job.Longitude != nil {
			within, dist := geo.WithinRadius(
				*job.Latitude, *job.Longitude,
				*req.Latitude, *req.Longitude,
				s.dispatch.ArrivalRadiusMeters,
			)
			job.ArrivalDistance = &dist
			job.ArrivalVerified = within
			if !within {
				s.logger.Warn("arrival outside radius",
					zap.String("job_id", job.ID.String()),
					zap.Float64("distance_m", dist),
				)
			}
		}
		return nil
	})
}

// Start marks work as begun
func (s *JobService) Start(ctx context.Context, jobID uuid.UUID) (*domain.JobResponse, error) {
	return s.transition(ctx, jobID, domain.JobStatusInProgress, func(job *domain.Job) error {
		now := time.Now().UTC()
		job.StartedAt = &now
		return nil
	})
}

// Complete finishes the job, records financials and triggers the sales
// commission snapshot.
func (s *JobService) Complete(ctx context.Context, jobID uuid.UUID, req *domain.CompleteJobRequest) (*domain.JobResponse, error) {
	resp, err := s.transition(ctx, jobID, domain.JobStatusCompleted, func(job *domain.Job) error {
		now := time.Now().UTC()
		job.CompletedAt = &now

		if req.LaborCost != nil {
			job.LaborCost = *req.LaborCost
		}
		if req.MaterialsCost != nil {
			job.MaterialsCost = *req.MaterialsCost
		}
		if req.TravelExpense != nil {
			job.TravelExpense = *req.TravelExpense
		}
		if req.EquipmentCost != nil {
			job.EquipmentCost = *req.EquipmentCost
		}
		if req.OtherExpenses != nil {
			job.OtherExpenses = *req.OtherExpenses
		}
		if req.TotalRevenue != nil {
			job.TotalRevenue = *req.TotalRevenue
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.AssignedTechnicianID != nil {
		if err := s.techRepo.UpdateStatus(ctx, *job.AssignedTechnicianID, domain.TechnicianStatusAvailable); err != nil {
			s.logger.Warn("failed to mark technician available", zap.Error(err))
		}
	}

	if err := s.recordCommission(ctx, job); err != nil {
		s.logger.Error("failed to record sales commission",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("job completed",
		zap.String("job_id", job.ID.String()),
		zap.Float64("revenue", job.TotalRevenue),
		zap.Float64("profit", job.Profit()),
	)
	return resp, nil
}

// notifyTechnician creates an in-app notification for the technician's user
// account. Notification failure is logged, never surfaced to the caller.
func (s *JobService) notifyTechnician(ctx context.Context, tech *domain.Technician, job *domain.Job, notifType, title, message string) {
	n := &domain.Notification{
		UserID:     tech.UserID,
		Type:       notifType,
		Title:      title,
		Message:    message,
		EntityID:   &job.ID,
		EntityType: "job",
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		s.logger.Warn("failed to create job notification",
			zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}

// recordCommission snapshots the salesperson commission for a completed job.
// The rate is copied so later profile changes don't rewrite history. At most
// one snapshot exists per job.
func (s *JobService) recordCommission(ctx context.Context, job *domain.Job) error {
	if job.SalespersonID == nil {
		return nil
	}

	if _, err := s.commissionRepo.GetByJobID(ctx, job.ID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	sp, err := s.spRepo.GetByID(ctx, *job.SalespersonID)
	if err != nil {
		return fmt.Errorf("failed to get salesperson: %w", err)
	}

	netProfit := job.Profit()
	commission := &domain.SalesCommission{
		JobID:            job.ID,
		SalespersonID:    sp.ID,
		NetProfit:        netProfit,
		CommissionRate:   sp.CommissionRate,
		CommissionAmount: netProfit * sp.CommissionRate,
		Status:           domain.CommissionStatusPending,
		CalculatedAt:     time.Now().UTC(),
	}
	if err := s.commissionRepo.Create(ctx, commission); err != nil {
		return err
	}

	if sp.User != nil {
		n := &domain.Notification{
			UserID:     sp.UserID,
			Type:       string(domain.NotificationTypeCommission),
			Title:      "Commission recorded",
			Message:    fmt.Sprintf("Commission of %.2f recorded for %s", commission.CommissionAmount, job.CustomerName),
			EntityID:   &commission.ID,
			EntityType: "commission",
		}
		if err := s.notifRepo.Create(ctx, n); err != nil {
			s.logger.Warn("failed to create commission notification", zap.Error(err))
		}
	}
	return nil
}

// Cancel aborts a job from any non-terminal status
func (s *JobService) Cancel(ctx context.Context, jobID uuid.UUID, req *domain.CancelJobRequest) (*domain.JobResponse, error) {
	return s.transition(ctx, jobID, domain.JobStatusCancelled, func(job *domain.Job) error {
		job.CancelReason = req.Reason
		if job.AssignedTechnicianID != nil {
			if err := s.techRepo.UpdateStatus(ctx, *job.AssignedTechnicianID, domain.TechnicianStatusAvailable); err != nil {
				s.logger.Warn("failed to mark technician available", zap.Error(err))
			}
		}
		return nil
	})
}

// transition applies the guarded status change with an optional mutation run
// before saving. Callers needing side effects after the save do them on the
// returned job.
func (s *JobService) transition(ctx context.Context, jobID uuid.UUID, to domain.JobStatus, mutate func(*domain.Job) error) (*domain.JobResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeTransition(ctx, job); err != nil {
		return nil, err
	}

	if !CanTransition(job.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, to)
	}

	from := job.Status
	job.Status = to
	if mutate != nil {
		if err := mutate(job); err != nil {
			return nil, err
		}
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	s.logger.Info("job status changed",
		zap.String("job_id", job.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return mapper.ToJobResponse(job), nil
}

// authorizeTransition lets dispatchers and admins move any job; technicians
// only their own.
func (s *JobService) authorizeTransition(ctx context.Context, job *domain.Job) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if userCtx.CanDispatch() {
		return nil
	}
	if userCtx.EffectiveRole != domain.RoleTechnician {
		return ErrPermissionDenied
	}

	tech, err := s.techRepo.GetByUserID(ctx, userCtx.UserID)
	if err != nil {
		return fmt.Errorf("%w: no technician profile", ErrPermissionDenied)
	}
	if job.AssignedTechnicianID == nil || *job.AssignedTechnicianID != tech.ID {
		return fmt.Errorf("%w: job is not assigned to you", ErrPermissionDenied)
	}
	return nil
}
