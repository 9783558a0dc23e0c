package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogService covers the pricebook, marketing campaigns and the business
// intake record. These are low-churn admin-managed reference data.
type CatalogService struct {
	pricebookRepo *repository.PricebookRepository
	campaignRepo  *repository.CampaignRepository
	intakeRepo    *repository.IntakeRepository
	cfg           *config.PayrollConfig
	logger        *zap.Logger
}

func NewCatalogService(
	pricebookRepo *repository.PricebookRepository,
	campaignRepo *repository.CampaignRepository,
	intakeRepo *repository.IntakeRepository,
	cfg *config.PayrollConfig,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		pricebookRepo: pricebookRepo,
		campaignRepo:  campaignRepo,
		intakeRepo:    intakeRepo,
		cfg:           cfg,
		logger:        logger,
	}
}

// --- Pricebook ---

func (s *CatalogService) CreatePricebookItem(ctx context.Context, req *domain.PricebookItemRequest) (*domain.PricebookItem, error) {
	if existing, err := s.pricebookRepo.GetByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: pricebook code %s already exists", ErrConflict, req.Code)
	}

	item := &domain.PricebookItem{
		Code:         req.Code,
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		UnitPrice:    req.UnitPrice,
		LaborMinutes: req.LaborMinutes,
		IsActive:     true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.pricebookRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create pricebook item: %w", err)
	}
	return item, nil
}

func (s *CatalogService) GetPricebookItem(ctx context.Context, id uuid.UUID) (*domain.PricebookItem, error) {
	item, err := s.pricebookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: pricebook item %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get pricebook item: %w", err)
	}
	return item, nil
}

func (s *CatalogService) UpdatePricebookItem(ctx context.Context, id uuid.UUID, req *domain.PricebookItemRequest) (*domain.PricebookItem, error) {
	item, err := s.GetPricebookItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != item.Code {
		if existing, err := s.pricebookRepo.GetByCode(ctx, req.Code); err == nil && existing != nil {
			return nil, fmt.Errorf("%w: pricebook code %s already exists", ErrConflict, req.Code)
		}
	}

	item.Code = req.Code
	item.Name = req.Name
	item.Category = req.Category
	item.Description = req.Description
	item.UnitPrice = req.UnitPrice
	item.LaborMinutes = req.LaborMinutes
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.pricebookRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update pricebook item: %w", err)
	}
	return item, nil
}

func (s *CatalogService) DeletePricebookItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPricebookItem(ctx, id); err != nil {
		return err
	}
	if err := s.pricebookRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pricebook item: %w", err)
	}
	return nil
}

func (s *CatalogService) ListPricebookItems(ctx context.Context, category *string, activeOnly bool) ([]domain.PricebookItem, error) {
	items, err := s.pricebookRepo.List(ctx, category, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricebook items: %w", err)
	}
	return items, nil
}

// --- Campaigns ---

func (s *CatalogService) CreateCampaign(ctx context.Context, req *domain.CampaignRequest) (*domain.Campaign, error) {
	if !req.Source.IsValid() {
		return nil, fmt.Errorf("%w: unknown lead source %q", ErrInvalidInput, req.Source)
	}

	campaign := &domain.Campaign{
		Name:     req.Name,
		Source:   req.Source,
		IsActive: true,
		Notes:    req.Notes,
	}
	if req.IsActive != nil {
		campaign.IsActive = *req.IsActive
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return campaign, nil
}

func (s *CatalogService) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: campaign %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

func (s *CatalogService) UpdateCampaign(ctx context.Context, id uuid.UUID, req *domain.CampaignRequest) (*domain.Campaign, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Source.IsValid() {
		return nil, fmt.Errorf("%w: unknown lead source %q", ErrInvalidInput, req.Source)
	}

	campaign.Name = req.Name
	campaign.Source = req.Source
	campaign.Notes = req.Notes
	if req.IsActive != nil {
		campaign.IsActive = *req.IsActive
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	return campaign, nil
}

// DeleteCampaign removes a campaign along with its spend history
func (s *CatalogService) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCampaign(ctx, id); err != nil {
		return err
	}
	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	s.logger.Info("campaign deleted", zap.String("campaignId", id.String()))
	return nil
}

func (s *CatalogService) ListCampaigns(ctx context.Context, activeOnly bool) ([]domain.Campaign, error) {
	campaigns, err := s.campaignRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// RecordSpend upserts the spend amount for a campaign month. Re-posting the
// same month overwrites rather than accumulates, so corrections are a re-post.
func (s *CatalogService) RecordSpend(ctx context.Context, campaignID uuid.UUID, req *domain.MarketingSpendRequest) (*domain.Campaign, error) {
	if _, err := s.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}

	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		return nil, fmt.Errorf("%w: month must be formatted YYYY-MM", ErrInvalidInput)
	}

	if err := s.campaignRepo.UpsertSpend(ctx, campaignID, month, req.Amount); err != nil {
		return nil, fmt.Errorf("failed to record spend: %w", err)
	}
	s.logger.Info("marketing spend recorded",
		zap.String("campaignId", campaignID.String()),
		zap.String("month", req.Month),
		zap.Float64("amount", req.Amount))

	return s.GetCampaign(ctx, campaignID)
}

// --- Business intake ---

// GetIntake returns the business intake record, seeding defaults when none
// has been saved yet
func (s *CatalogService) GetIntake(ctx context.Context) (*domain.BusinessIntake, error) {
	intake, err := s.intakeRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.BusinessIntake{
				DefaultLeadFee:       s.cfg.DefaultLeadFee,
				DefaultEmergencyRate: s.cfg.DefaultEmergencyRate,
			}, nil
		}
		return nil, fmt.Errorf("failed to get business intake: %w", err)
	}
	return intake, nil
}

// SaveIntake creates or replaces the single business intake record
func (s *CatalogService) SaveIntake(ctx context.Context, req *domain.BusinessIntakeRequest) (*domain.BusinessIntake, error) {
	intake := &domain.BusinessIntake{
		CompanyName:          req.CompanyName,
		LicenseNumber:        req.LicenseNumber,
		ServiceArea:          req.ServiceArea,
		DefaultLeadFee:       s.cfg.DefaultLeadFee,
		DefaultEmergencyRate: s.cfg.DefaultEmergencyRate,
	}
	if req.DefaultTaxRate != nil {
		intake.DefaultTaxRate = *req.DefaultTaxRate
	}
	if req.DefaultLeadFee != nil {
		intake.DefaultLeadFee = *req.DefaultLeadFee
	}
	if req.DefaultEmergencyRate != nil {
		intake.DefaultEmergencyRate = *req.DefaultEmergencyRate
	}

	if err := s.intakeRepo.Save(ctx, intake); err != nil {
		return nil, fmt.Errorf("failed to save business intake: %w", err)
	}
	return intake, nil
}
