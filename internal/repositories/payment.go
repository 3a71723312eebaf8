package repositories

import (
	"context"

	"cultivate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Payment, error)
	GetByTxRef(ctx context.Context, txRef string) (*models.Payment, error)
	GetByTxRefForUpdate(ctx context.Context, txRef string) (*models.Payment, error)
	ListByBidIDs(ctx context.Context, bidIDs []uint) ([]models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

func (r *paymentRepository) GetForUpdate(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payment, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

// GetByTxRef returns the most recent payment carrying txRef.
func (r *paymentRepository) GetByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	return r.byTxRef(r.db.WithContext(ctx), txRef)
}

// GetByTxRefForUpdate is GetByTxRef with the row locked until the
// surrounding transaction ends.
func (r *paymentRepository) GetByTxRefForUpdate(ctx context.Context, txRef string) (*models.Payment, error) {
	return r.byTxRef(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), txRef)
}

func (r *paymentRepository) byTxRef(db *gorm.DB, txRef string) (*models.Payment, error) {
	var payment models.Payment
	err := db.
		Where("tx_ref = ?", txRef).
		Order("created_at DESC, id DESC").
		First(&payment).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

func (r *paymentRepository) ListByBidIDs(ctx context.Context, bidIDs []uint) ([]models.Payment, error) {
	var payments []models.Payment
	if len(bidIDs) == 0 {
		return payments, nil
	}
	err := r.db.WithContext(ctx).
		Where("bid_id IN ?", bidIDs).
		Order("created_at DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}
