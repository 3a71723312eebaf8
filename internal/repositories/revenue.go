package repositories

import (
	"context"

	"cultivate/internal/models"

	"gorm.io/gorm"
)

type RevenueRepository interface {
	Create(ctx context.Context, revenue *models.Revenue) error
	GetByID(ctx context.Context, id uint) (*models.Revenue, error)
	ListAll(ctx context.Context) ([]models.Revenue, error)
	ListByCampaign(ctx context.Context, campaignID uint) ([]models.Revenue, error)
	ListByInvestor(ctx context.Context, investorID uint) ([]models.Revenue, error)
	UpdateStatus(ctx context.Context, id uint, status models.RevenueStatus) error
}

type revenueRepository struct {
	db *gorm.DB
}

func NewRevenueRepository(db *gorm.DB) RevenueRepository {
	return &revenueRepository{db: db}
}

func (r *revenueRepository) Create(ctx context.Context, revenue *models.Revenue) error {
	return r.db.WithContext(ctx).Create(revenue).Error
}

func (r *revenueRepository) GetByID(ctx context.Context, id uint) (*models.Revenue, error) {
	var revenue models.Revenue
	if err := r.db.WithContext(ctx).First(&revenue, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &revenue, nil
}

func (r *revenueRepository) ListAll(ctx context.Context) ([]models.Revenue, error) {
	var revenues []models.Revenue
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&revenues).Error
	return revenues, err
}

func (r *revenueRepository) ListByCampaign(ctx context.Context, campaignID uint) ([]models.Revenue, error) {
	var revenues []models.Revenue
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC, id DESC").
		Find(&revenues).Error
	return revenues, err
}

func (r *revenueRepository) ListByInvestor(ctx context.Context, investorID uint) ([]models.Revenue, error) {
	var revenues []models.Revenue
	err := r.db.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("created_at DESC, id DESC").
		Find(&revenues).Error
	return revenues, err
}

func (r *revenueRepository) UpdateStatus(ctx context.Context, id uint, status models.RevenueStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Revenue{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
