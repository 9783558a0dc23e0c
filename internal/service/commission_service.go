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

// Commission payment states move forward only
var validCommissionTransitions = map[domain.CommissionStatus][]domain.CommissionStatus{
	domain.CommissionStatusPending:  {domain.CommissionStatusApproved},
	domain.CommissionStatusApproved: {domain.CommissionStatusPaid},
	domain.CommissionStatusPaid:     {},
}

type CommissionService struct {
	commissionRepo *repository.CommissionRepository
	logger         *zap.Logger
}

func NewCommissionService(commissionRepo *repository.CommissionRepository, logger *zap.Logger) *CommissionService {
	return &CommissionService{commissionRepo: commissionRepo, logger: logger}
}

func (s *CommissionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CommissionResponse, error) {
	c, err := s.commissionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get commission: %w", err)
	}
	return mapper.ToCommissionResponse(c), nil
}

func (s *CommissionService) List(ctx context.Context, status *domain.CommissionStatus) ([]domain.CommissionResponse, error) {
	commissions, err := s.commissionRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	items := make([]domain.CommissionResponse, len(commissions))
	for i := range commissions {
		items[i] = *mapper.ToCommissionResponse(&commissions[i])
	}
	return items, nil
}

func (s *CommissionService) ListBySalesperson(ctx context.Context, salespersonID uuid.UUID, status *domain.CommissionStatus) ([]domain.CommissionResponse, error) {
	commissions, err := s.commissionRepo.ListBySalesperson(ctx, salespersonID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	items := make([]domain.CommissionResponse, len(commissions))
	for i := range commissions {
		items[i] = *mapper.ToCommissionResponse(&commissions[i])
	}
	return items, nil
}

// EarningsSummary sums commission amounts for a salesperson over a period
func (s *CommissionService) EarningsSummary(ctx context.Context, salespersonID uuid.UUID, from, to time.Time) (*domain.CommissionEarningsResponse, error) {
	total, err := s.commissionRepo.SumForPeriod(ctx, salespersonID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum commissions: %w", err)
	}
	return &domain.CommissionEarningsResponse{
		SalespersonID: salespersonID,
		From:          from,
		To:            to,
		TotalEarned:   total,
	}, nil
}

// SetStatus advances the payment state. Amounts never change; the snapshot
// taken at job completion is final.
func (s *CommissionService) SetStatus(ctx context.Context, id uuid.UUID, status domain.CommissionStatus) (*domain.CommissionResponse, error) {
	c, err := s.commissionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get commission: %w", err)
	}

	allowed := false
	for _, next := range validCommissionTransitions[c.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, status)
	}

	c.Status = status
	if err := s.commissionRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update commission: %w", err)
	}

	s.logger.Info("commission status changed",
		zap.String("commission_id", c.ID.String()),
		zap.String("status", string(status)),
	)
	return mapper.ToCommissionResponse(c), nil
}
