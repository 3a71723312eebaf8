package repositories

import (
	"context"

	"cultivate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BidRepository interface {
	Create(ctx context.Context, bid *models.Bid) error
	GetByID(ctx context.Context, id uint) (*models.Bid, error)
	// GetForUpdate locks the row for the rest of the surrounding transaction.
	GetForUpdate(ctx context.Context, id uint) (*models.Bid, error)
	ListByCampaign(ctx context.Context, campaignID uint) ([]models.Bid, error)
	ListByInvestor(ctx context.Context, investorID uint) ([]models.Bid, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
}

type bidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) Create(ctx context.Context, bid *models.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

func (r *bidRepository) GetByID(ctx context.Context, id uint) (*models.Bid, error) {
	var bid models.Bid
	if err := r.db.WithContext(ctx).First(&bid, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &bid, nil
}

func (r *bidRepository) GetForUpdate(ctx context.Context, id uint) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&bid, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &bid, nil
}

func (r *bidRepository) ListByCampaign(ctx context.Context, campaignID uint) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC, id DESC").
		Find(&bids).Error
	return bids, err
}

func (r *bidRepository) ListByInvestor(ctx context.Context, investorID uint) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("created_at DESC, id DESC").
		Find(&bids).Error
	return bids, err
}

func (r *bidRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Bid{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
