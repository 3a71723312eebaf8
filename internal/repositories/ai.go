package repositories

import (
	"context"

	"cultivate/internal/models"

	"gorm.io/gorm"
)

type RecommendationRepository interface {
	Create(ctx context.Context, rec *models.AIRecommendation) error
	LatestByCampaign(ctx context.Context, campaignID uint) (*models.AIRecommendation, error)
}

type recommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) Create(ctx context.Context, rec *models.AIRecommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recommendationRepository) LatestByCampaign(ctx context.Context, campaignID uint) (*models.AIRecommendation, error) {
	var rec models.AIRecommendation
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC, id DESC").
		First(&rec).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

type AIContentRepository interface {
	Create(ctx context.Context, content *models.AIContent) error
	ListByCampaign(ctx context.Context, campaignID uint) ([]models.AIContent, error)
}

type aiContentRepository struct {
	db *gorm.DB
}

func NewAIContentRepository(db *gorm.DB) AIContentRepository {
	return &aiContentRepository{db: db}
}

func (r *aiContentRepository) Create(ctx context.Context, content *models.AIContent) error {
	return r.db.WithContext(ctx).Create(content).Error
}

func (r *aiContentRepository) ListByCampaign(ctx context.Context, campaignID uint) ([]models.AIContent, error) {
	var contents []models.AIContent
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC, id DESC").
		Find(&contents).Error
	return contents, err
}
