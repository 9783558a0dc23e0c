package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/mapper"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TechnicianService struct {
	techRepo *repository.TechnicianRepository
	userRepo *repository.UserRepository
	cfg      *config.PayrollConfig
	dispatch *config.DispatchConfig
	logger   *zap.Logger
}

func NewTechnicianService(
	techRepo *repository.TechnicianRepository,
	userRepo *repository.UserRepository,
	cfg *config.PayrollConfig,
	dispatch *config.DispatchConfig,
	logger *zap.Logger,
) *TechnicianService {
	return &TechnicianService{
		techRepo: techRepo,
		userRepo: userRepo,
		cfg:      cfg,
		dispatch: dispatch,
		logger:   logger,
	}
}

func (s *TechnicianService) Create(ctx context.Context, req *domain.CreateTechnicianRequest) (*domain.TechnicianResponse, error) {
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Role != domain.RoleTechnician && user.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: user role %q cannot hold a technician profile", ErrInvalidInput, user.Role)
	}

	if _, err := s.techRepo.GetByUserID(ctx, req.UserID); err == nil {
		return nil, fmt.Errorf("%w: technician profile already exists for user", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	tech := &domain.Technician{
		UserID:         req.UserID,
		Status:         domain.TechnicianStatusAvailable,
		Classification: req.Classification,
		CommissionRate: req.CommissionRate,
		HourlyRate:     req.HourlyRate,
		EmergencyRate:  req.EmergencyRate,
		LeadFee:        req.LeadFee,
		MaxDailyJobs:   req.MaxDailyJobs,
		ServiceTypes:   mapper.JoinServiceTypes(req.ServiceTypes),
	}
	if tech.Classification == "" {
		tech.Classification = domain.ClassificationJourneyman
	}
	if tech.EmergencyRate == 0 {
		tech.EmergencyRate = s.cfg.DefaultEmergencyRate
	}
	if tech.MaxDailyJobs == 0 {
		tech.MaxDailyJobs = s.dispatch.DefaultMaxDailyJobs
	}

	if err := s.techRepo.Create(ctx, tech); err != nil {
		return nil, fmt.Errorf("failed to create technician: %w", err)
	}
	tech.User = user

	s.logger.Info("technician created",
		zap.String("technician_id", tech.ID.String()),
		zap.String("user_id", req.UserID.String()),
	)

	return mapper.ToTechnicianResponse(tech), nil
}

func (s *TechnicianService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TechnicianResponse, error) {
	tech, err := s.techRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return mapper.ToTechnicianResponse(tech), nil
}

// GetByUserID resolves the technician profile belonging to a user account
func (s *TechnicianService) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Technician, error) {
	tech, err := s.techRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return tech, nil
}

func (s *TechnicianService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTechnicianRequest) (*domain.TechnicianResponse, error) {
	tech, err := s.techRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}

	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		tech.Status = *req.Status
	}
	if req.Classification != nil {
		tech.Classification = *req.Classification
	}
	if req.CommissionRate != nil {
		tech.CommissionRate = *req.CommissionRate
	}
	if req.HourlyRate != nil {
		tech.HourlyRate = *req.HourlyRate
	}
	if req.EmergencyRate != nil {
		tech.EmergencyRate = *req.EmergencyRate
	}
	if req.LeadFee != nil {
		tech.LeadFee = *req.LeadFee
	}
	if req.MaxDailyJobs != nil {
		tech.MaxDailyJobs = *req.MaxDailyJobs
	}
	if req.ServiceTypes != nil {
		tech.ServiceTypes = mapper.JoinServiceTypes(req.ServiceTypes)
	}

	if err := s.techRepo.Update(ctx, tech); err != nil {
		return nil, fmt.Errorf("failed to update technician: %w", err)
	}

	return mapper.ToTechnicianResponse(tech), nil
}

// SetStatus updates only the availability status. Technicians may set their
// own, dispatch staff may set anyone's.
func (s *TechnicianService) SetStatus(ctx context.Context, id uuid.UUID, status domain.TechnicianStatus) (*domain.TechnicianResponse, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	tech, err := s.techRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}

	if user, ok := auth.FromContext(ctx); ok {
		if !user.CanDispatch() && tech.UserID != user.UserID {
			return nil, fmt.Errorf("%w: cannot change another technician's status", ErrPermissionDenied)
		}
	}

	tech.Status = status
	if err := s.techRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update technician status: %w", err)
	}
	return mapper.ToTechnicianResponse(tech), nil
}

func (s *TechnicianService) List(ctx context.Context, status *domain.TechnicianStatus) ([]domain.TechnicianResponse, error) {
	techs, err := s.techRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}

	items := make([]domain.TechnicianResponse, len(techs))
	for i := range techs {
		items[i] = *mapper.ToTechnicianResponse(&techs[i])
	}
	return items, nil
}
