package payment

import (
	"context"

	"cultivate/internal/models"
)

// Service defines the payment record store.
type Service interface {
	Create(ctx context.Context, input models.CreatePaymentInput) (*models.Payment, error)
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	// Get returns the payment if actor is an admin or the investor behind it.
	Get(ctx context.Context, actor models.Actor, id uint) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id uint, status models.PaymentStatus, response map[string]interface{}) (*models.Payment, error)
	UpdateStatusByTxRef(ctx context.Context, txRef string, status models.PaymentStatus, response map[string]interface{}) (*models.Payment, error)
	ListByInvestor(ctx context.Context, investorID uint) ([]models.Payment, error)
}
