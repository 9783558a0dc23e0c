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
	"github.com/webslinger-cto/fieldserve-api/internal/mapper"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PayrollService struct {
	payrollRepo *repository.PayrollRepository
	jobRepo     *repository.JobRepository
	techRepo    *repository.TechnicianRepository
	intakeRepo  *repository.IntakeRepository
	cfg         *config.PayrollConfig
	logger      *zap.Logger
}

func NewPayrollService(
	payrollRepo *repository.PayrollRepository,
	jobRepo *repository.JobRepository,
	techRepo *repository.TechnicianRepository,
	intakeRepo *repository.IntakeRepository,
	cfg *config.PayrollConfig,
	logger *zap.Logger,
) *PayrollService {
	return &PayrollService{
		payrollRepo: payrollRepo,
		jobRepo:     jobRepo,
		techRepo:    techRepo,
		intakeRepo:  intakeRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// compute aggregates a technician's completed jobs for the period into a
// statement. Hours from high and urgent priority jobs are paid at the
// emergency multiplier; the rest at the plain hourly rate. Technician
// commission applies to job revenue, and the per-job lead fee plus flat
// estimated tax come off gross.
func (s *PayrollService) compute(ctx context.Context, tech *domain.Technician, periodStart, periodEnd time.Time) (*domain.PayrollStatement, error) {
	jobs, err := s.jobRepo.ListCompletedInPeriod(ctx, tech.ID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed jobs: %w", err)
	}

	leadFee := tech.LeadFee
	emergencyMult := tech.EmergencyRate
	if intake, err := s.intakeRepo.Get(ctx); err == nil {
		if leadFee == 0 {
			leadFee = intake.DefaultLeadFee
		}
		if emergencyMult == 0 {
			emergencyMult = intake.DefaultEmergencyRate
		}
	}
	if emergencyMult == 0 {
		emergencyMult = s.cfg.DefaultEmergencyRate
	}

	stmt := &domain.PayrollStatement{
		TechnicianID: tech.ID,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		JobCount:     len(jobs),
		GeneratedAt:  time.Now().UTC(),
	}

	for i := range jobs {
		job := &jobs[i]
		hours := job.WorkedHours()
		if job.Priority.IsEmergency() {
			stmt.EmergencyHours += hours
		} else {
			stmt.RegularHours += hours
		}
		stmt.CommissionEarned += job.TotalRevenue * tech.CommissionRate
		stmt.LeadFees += leadFee
	}

	stmt.RegularPay = stmt.RegularHours * tech.HourlyRate
	stmt.EmergencyPay = stmt.EmergencyHours * tech.HourlyRate * emergencyMult
	stmt.GrossPay = stmt.RegularPay + stmt.EmergencyPay + stmt.CommissionEarned
	stmt.EstimatedTax = stmt.GrossPay * s.cfg.TaxRate
	stmt.NetPay = stmt.GrossPay - stmt.EstimatedTax - stmt.LeadFees

	return stmt, nil
}

// Preview computes a statement without persisting it
func (s *PayrollService) Preview(ctx context.Context, technicianID uuid.UUID, periodStart, periodEnd time.Time) (*domain.PayrollStatementResponse, error) {
	tech, err := s.techRepo.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}

	stmt, err := s.compute(ctx, tech, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	stmt.Technician = tech
	return mapper.ToPayrollStatementResponse(stmt), nil
}

// Run computes and persists statements for the period. With a technician ID
// it runs one; without, all of them. Statements are immutable snapshots and
// a period that was already run for a technician is skipped, not rewritten.
func (s *PayrollService) Run(ctx context.Context, req *domain.PayrollRunRequest) ([]domain.PayrollStatementResponse, error) {
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, fmt.Errorf("%w: period end must be after period start", ErrInvalidInput)
	}

	var techs []domain.Technician
	if req.TechnicianID != nil {
		tech, err := s.techRepo.GetByID(ctx, *req.TechnicianID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to get technician: %w", err)
		}
		techs = []domain.Technician{*tech}
	} else {
		all, err := s.techRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list technicians: %w", err)
		}
		techs = all
	}

	var generatedBy *uuid.UUID
	if userCtx, ok := auth.FromContext(ctx); ok {
		id := userCtx.UserID
		generatedBy = &id
	}

	results := make([]domain.PayrollStatementResponse, 0, len(techs))
	for i := range techs {
		tech := &techs[i]

		if existing, err := s.payrollRepo.GetForPeriod(ctx, tech.ID, req.PeriodStart, req.PeriodEnd); err == nil {
			if req.TechnicianID != nil {
				return nil, ErrStatementExists
			}
			existing.Technician = tech
			results = append(results, *mapper.ToPayrollStatementResponse(existing))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing statement: %w", err)
		}

		stmt, err := s.compute(ctx, tech, req.PeriodStart, req.PeriodEnd)
		if err != nil {
			return nil, err
		}
		stmt.GeneratedByID = generatedBy

		if err := s.payrollRepo.Create(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to persist statement: %w", err)
		}

		s.logger.Info("payroll statement generated",
			zap.String("technician_id", tech.ID.String()),
			zap.Time("period_start", req.PeriodStart),
			zap.Float64("net_pay", stmt.NetPay),
		)

		stmt.Technician = tech
		results = append(results, *mapper.ToPayrollStatementResponse(stmt))
	}

	return results, nil
}

func (s *PayrollService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PayrollStatementResponse, error) {
	stmt, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get statement: %w", err)
	}
	return mapper.ToPayrollStatementResponse(stmt), nil
}

func (s *PayrollService) ListByTechnician(ctx context.Context, technicianID uuid.UUID) ([]domain.PayrollStatementResponse, error) {
	stmts, err := s.payrollRepo.ListByTechnician(ctx, technicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	items := make([]domain.PayrollStatementResponse, len(stmts))
	for i := range stmts {
		items[i] = *mapper.ToPayrollStatementResponse(&stmts[i])
	}
	return items, nil
}

func (s *PayrollService) List(ctx context.Context, from, to *time.Time) ([]domain.PayrollStatementResponse, error) {
	stmts, err := s.payrollRepo.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	items := make([]domain.PayrollStatementResponse, len(stmts))
	for i := range stmts {
		items[i] = *mapper.ToPayrollStatementResponse(&stmts[i])
	}
	return items, nil
}
