package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PricebookRepository manages the service catalog
type PricebookRepository struct {
	db *gorm.DB
}

func NewPricebookRepository(db *gorm.DB) *PricebookRepository {
	return &PricebookRepository{db: db}
}

func (r *PricebookRepository) Create(ctx context.Context, item *domain.PricebookItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PricebookRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PricebookItem, error) {
	var item domain.PricebookItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PricebookRepository) GetByCode(ctx context.Context, code string) (*domain.PricebookItem, error) {
	var item domain.PricebookItem
	if err := r.db.WithContext(ctx).First(&item, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PricebookRepository) Update(ctx context.Context, item *domain.PricebookItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *PricebookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.PricebookItem{}, "id = ?", id).Error
}

func (r *PricebookRepository) List(ctx context.Context, category *string, activeOnly bool) ([]domain.PricebookItem, error) {
	var items []domain.PricebookItem
	query := r.db.WithContext(ctx)
	if category != nil {
		query = query.Where("category = ?", *category)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("code ASC").Find(&items).Error
	return items, err
}

// CampaignRepository manages marketing campaigns and their spend
type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(campaign).Error
}

func (r *CampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	var campaign domain.Campaign
	err := r.db.WithContext(ctx).Preload("Spend").First(&campaign, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *CampaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(campaign).Error
}

// Delete removes a campaign and its spend rows
func (r *CampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.MarketingSpend{}, "campaign_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Campaign{}, "id = ?", id).Error
	})
}

func (r *CampaignRepository) List(ctx context.Context, activeOnly bool) ([]domain.Campaign, error) {
	var campaigns []domain.Campaign
	query := r.db.WithContext(ctx).Preload("Spend")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("created_at DESC").Find(&campaigns).Error
	return campaigns, err
}

// UpsertSpend records spend for a campaign month, replacing any existing row
func (r *CampaignRepository) UpsertSpend(ctx context.Context, campaignID uuid.UUID, month time.Time, amount float64) error {
	var existing domain.MarketingSpend
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND month = ?", campaignID, month).
		First(&existing).Error
	if err == nil {
		existing.Amount = amount
		return r.db.WithContext(ctx).Save(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	spend := domain.MarketingSpend{
		CampaignID: campaignID,
		Month:      month,
		Amount:     amount,
	}
	return r.db.WithContext(ctx).Create(&spend).Error
}

// SumSpend totals spend for a campaign across all months
func (r *CampaignRepository) SumSpend(ctx context.Context, campaignID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.MarketingSpend{}).
		Where("campaign_id = ?", campaignID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// IntakeRepository manages the single business profile row
type IntakeRepository struct {
	db *gorm.DB
}

func NewIntakeRepository(db *gorm.DB) *IntakeRepository {
	return &IntakeRepository{db: db}
}

// Get returns the business profile when one has been saved
func (r *IntakeRepository) Get(ctx context.Context) (*domain.BusinessIntake, error) {
	var intake domain.BusinessIntake
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&intake).Error
	if err != nil {
		return nil, err
	}
	return &intake, nil
}

// Save creates the profile on first write and updates it afterwards
func (r *IntakeRepository) Save(ctx context.Context, intake *domain.BusinessIntake) error {
	existing, err := r.Get(ctx)
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(intake).Error
	}
	if err != nil {
		return err
	}
	intake.ID = existing.ID
	intake.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(intake).Error
}
