package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/mapper"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SalespersonService struct {
	spRepo   *repository.SalespersonRepository
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewSalespersonService(spRepo *repository.SalespersonRepository, userRepo *repository.UserRepository, logger *zap.Logger) *SalespersonService {
	return &SalespersonService{spRepo: spRepo, userRepo: userRepo, logger: logger}
}

func (s *SalespersonService) Create(ctx context.Context, req *domain.CreateSalespersonRequest) (*domain.SalespersonResponse, error) {
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Role != domain.RoleSalesperson && user.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: user role %q cannot hold a sales profile", ErrInvalidInput, user.Role)
	}

	if _, err := s.spRepo.GetByUserID(ctx, req.UserID); err == nil {
		return nil, fmt.Errorf("%w: sales profile already exists for user", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	sp := &domain.Salesperson{
		UserID:         req.UserID,
		CommissionRate: req.CommissionRate,
		Territory:      req.Territory,
		IsActive:       true,
	}

	if err := s.spRepo.Create(ctx, sp); err != nil {
		return nil, fmt.Errorf("failed to create salesperson: %w", err)
	}
	sp.User = user

	s.logger.Info("salesperson created",
		zap.String("salesperson_id", sp.ID.String()),
		zap.String("user_id", req.UserID.String()),
	)

	return mapper.ToSalespersonResponse(sp), nil
}

func (s *SalespersonService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalespersonResponse, error) {
	sp, err := s.spRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get salesperson: %w", err)
	}
	return mapper.ToSalespersonResponse(sp), nil
}

// GetByUserID resolves the sales profile belonging to a user account
func (s *SalespersonService) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Salesperson, error) {
	sp, err := s.spRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get salesperson: %w", err)
	}
	return sp, nil
}

// Update changes profile fields. Rate changes apply only to commissions
// calculated after the change; existing snapshots keep their copied rate.
func (s *SalespersonService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateSalespersonRequest) (*domain.SalespersonResponse, error) {
	sp, err := s.spRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get salesperson: %w", err)
	}

	if req.CommissionRate != nil {
		sp.CommissionRate = *req.CommissionRate
	}
	if req.Territory != nil {
		sp.Territory = *req.Territory
	}
	if req.IsActive != nil {
		sp.IsActive = *req.IsActive
	}

	if err := s.spRepo.Update(ctx, sp); err != nil {
		return nil, fmt.Errorf("failed to update salesperson: %w", err)
	}

	return mapper.ToSalespersonResponse(sp), nil
}

func (s *SalespersonService) List(ctx context.Context, activeOnly bool) ([]domain.SalespersonResponse, error) {
	sps, err := s.spRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list salespersons: %w", err)
	}

	items := make([]domain.SalespersonResponse, len(sps))
	for i := range sps {
		items[i] = *mapper.ToSalespersonResponse(&sps[i])
	}
	return items, nil
}
