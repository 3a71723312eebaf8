package repositories

import (
	"context"
	"time"

	"cultivate/internal/models"

	"gorm.io/gorm"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id uint) (*models.Campaign, error)
	ListByStatus(ctx context.Context, status models.CampaignStatus) ([]models.Campaign, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Campaign, error)
	List(ctx context.Context, filter models.CampaignFilter) ([]models.Campaign, int64, error)
	All(ctx context.Context) ([]models.Campaign, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
}

type campaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *campaignRepository) GetByID(ctx context.Context, id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &campaign, nil
}

func (r *campaignRepository) ListByStatus(ctx context.Context, status models.CampaignStatus) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepository) List(ctx context.Context, filter models.CampaignFilter) ([]models.Campaign, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Campaign{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Sector != "" {
		q = q.Where("sector = ?", filter.Sector)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var campaigns []models.Campaign
	err := q.Order("created_at DESC, id DESC").Find(&campaigns).Error
	return campaigns, total, err
}

func (r *campaignRepository) All(ctx context.Context) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&campaigns).Error
	return campaigns, err
}

// UpdateFields patches the given columns and refreshes updated_at.
func (r *campaignRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&models.Campaign{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
