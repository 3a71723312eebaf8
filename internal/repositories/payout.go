package repositories

import (
	"context"

	"cultivate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PayoutRepository interface {
	Create(ctx context.Context, payout *models.PayoutRequest) error
	GetForUpdate(ctx context.Context, id uint) (*models.PayoutRequest, error)
	GetByID(ctx context.Context, id uint) (*models.PayoutRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]models.PayoutRequest, error)
	ListAll(ctx context.Context, status models.PayoutStatus) ([]models.PayoutRequest, error)
	Update(ctx context.Context, payout *models.PayoutRequest) error
	AddAudit(ctx context.Context, entry *models.PayoutAudit) error
	ListAudit(ctx context.Context, payoutID uint) ([]models.PayoutAudit, error)
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) Create(ctx context.Context, payout *models.PayoutRequest) error {
	return r.db.WithContext(ctx).Create(payout).Error
}

func (r *payoutRepository) GetByID(ctx context.Context, id uint) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	if err := r.db.WithContext(ctx).First(&payout, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &payout, nil
}

func (r *payoutRepository) GetForUpdate(ctx context.Context, id uint) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payout, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &payout, nil
}

func (r *payoutRepository) ListByUser(ctx context.Context, userID uint) ([]models.PayoutRequest, error) {
	var payouts []models.PayoutRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&payouts).Error
	return payouts, err
}

// ListAll returns every payout, optionally narrowed to one status.
func (r *payoutRepository) ListAll(ctx context.Context, status models.PayoutStatus) ([]models.PayoutRequest, error) {
	var payouts []models.PayoutRequest
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&payouts).Error
	return payouts, err
}

func (r *payoutRepository) Update(ctx context.Context, payout *models.PayoutRequest) error {
	return r.db.WithContext(ctx).Save(payout).Error
}

func (r *payoutRepository) AddAudit(ctx context.Context, entry *models.PayoutAudit) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *payoutRepository) ListAudit(ctx context.Context, payoutID uint) ([]models.PayoutAudit, error) {
	var entries []models.PayoutAudit
	err := r.db.WithContext(ctx).
		Where("payout_id = ?", payoutID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
