package repositories

import (
	"context"

	"cultivate/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	GetByID(ctx context.Context, id uint) (*models.UserProfile, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.UserProfile, error)
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)
	Update(ctx context.Context, profile *models.UserProfile) error
	ListByRole(ctx context.Context, role string) ([]models.UserProfile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByExternalID(ctx context.Context, externalID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&profile).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

func (r *profileRepository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("external_id = ?", externalID).
		Count(&count).Error
	return count > 0, err
}

func (r *profileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) ListByRole(ctx context.Context, role string) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Find(&profiles).Error
	return profiles, err
}
