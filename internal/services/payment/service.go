// Package payment keeps one record per processor transaction and fans a
// successful payment out into the ledger and the investor's notifications.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cultivate/internal/events"
	"cultivate/internal/models"
	"cultivate/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// TxRefPrefix marks references generated by this service.
const TxRefPrefix = "CLT-"

type service struct {
	store     *repositories.Store
	publisher events.Publisher
	log       *logrus.Logger
}

// NewService creates a new payment service
func NewService(store *repositories.Store, publisher events.Publisher, log *logrus.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &service{store: store, publisher: publisher, log: log}
}

func (s *service) Create(ctx context.Context, input models.CreatePaymentInput) (*models.Payment, error) {
	if input.Amount == 0 || strings.TrimSpace(input.Currency) == "" {
		return nil, ErrMissingFields
	}
	if input.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	txRef := input.TxRef
	if txRef == "" {
		txRef = TxRefPrefix + uuid.NewString()
	}
	method := input.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCard
	}

	payment := &models.Payment{
		BidID:         input.BidID,
		TxRef:         txRef,
		Amount:        input.Amount,
		Currency:      strings.ToUpper(input.Currency),
		PaymentMethod: method,
		Status:        models.PaymentStatusPending,
	}
	if input.Response != nil {
		payment.Response = datatypes.JSONMap(input.Response)
	}

	if err := s.store.Payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"tx_ref":     payment.TxRef,
		"amount":     payment.Amount,
		"currency":   payment.Currency,
	}).Info("payment created")
	return payment, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.store.Payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

func (s *service) Get(ctx context.Context, actor models.Actor, id uint) (*models.Payment, error) {
	payment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return payment, nil
	}
	if payment.BidID == nil {
		return nil, ErrForbidden
	}
	bid, err := s.store.Bids.GetByID(ctx, *payment.BidID)
	if err != nil || !actor.Owns(bid.InvestorID) {
		return nil, ErrForbidden
	}
	return payment, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uint, status models.PaymentStatus, response map[string]interface{}) (*models.Payment, error) {
	return s.updateStatus(ctx, status, response, func(tx *repositories.Store) (*models.Payment, error) {
		return tx.Payments.GetForUpdate(ctx, id)
	})
}

func (s *service) UpdateStatusByTxRef(ctx context.Context, txRef string, status models.PaymentStatus, response map[string]interface{}) (*models.Payment, error) {
	if txRef == "" {
		return nil, ErrMissingFields
	}
	return s.updateStatus(ctx, status, response, func(tx *repositories.Store) (*models.Payment, error) {
		return tx.Payments.GetByTxRefForUpdate(ctx, txRef)
	})
}

// updateStatus patches the payment and, on the first transition into
// success, records the investment transaction and notifies the investor.
// All writes share one database transaction. A successful payment is
// final: repeating success is a no-op and any other status is refused.
func (s *service) updateStatus(
	ctx context.Context,
	status models.PaymentStatus,
	response map[string]interface{},
	find func(tx *repositories.Store) (*models.Payment, error),
) (*models.Payment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var (
		payment      *models.Payment
		notification *models.Notification
	)
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		payment, err = find(tx)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("failed to get payment: %w", err)
		}

		prior := payment.Status
		if prior == models.PaymentStatusSuccess && status != models.PaymentStatusSuccess {
			return fmt.Errorf("%w: payment %d cannot move to %s", ErrInvalidTransition, payment.ID, status)
		}
		payment.Status = status
		if response != nil {
			payment.Response = datatypes.JSONMap(response)
		}
		if err := tx.Payments.Update(ctx, payment); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		if status != models.PaymentStatusSuccess || prior == models.PaymentStatusSuccess || payment.BidID == nil {
			return nil
		}

		notification, err = s.cascadeSuccess(ctx, tx, payment)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"tx_ref":     payment.TxRef,
		"status":     status,
	}).Info("payment status updated")

	if notification != nil {
		s.publish(ctx, events.PaymentSucceeded, strconv.FormatUint(uint64(payment.ID), 10), payment)
		s.publish(ctx, events.NotificationCreated, strconv.FormatUint(uint64(notification.ID), 10), notification)
	}
	return payment, nil
}

func (s *service) cascadeSuccess(ctx context.Context, tx *repositories.Store, payment *models.Payment) (*models.Notification, error) {
	bid, err := tx.Bids.GetByID(ctx, *payment.BidID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.log.WithField("bid_id", *payment.BidID).Warn("payment references a missing bid, skipping ledger entry")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}

	ref := payment.TxRef
	if ref == "" {
		ref = strconv.FormatUint(uint64(payment.ID), 10)
	}

	if err := tx.Transactions.Create(ctx, &models.Transaction{
		UserID:      bid.InvestorID,
		Type:        models.TransactionTypeInvestment,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Description: fmt.Sprintf("Payment successful (txRef: %s)", ref),
		RelatedID:   ref,
	}); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	notification := &models.Notification{
		UserID:  bid.InvestorID,
		Message: fmt.Sprintf("Your payment of %s %s was successful.", payment.Currency, formatAmount(payment.Amount)),
		Type:    models.NotificationTypeSystem,
		Meta: datatypes.JSONMap{
			"paymentId": payment.ID,
			"bidId":     bid.ID,
		},
	}
	if err := tx.Notifications.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

func (s *service) publish(ctx context.Context, eventType, id string, data interface{}) {
	if err := s.publisher.Publish(ctx, events.Event{ID: eventType + ":" + id, Type: eventType, Data: data}); err != nil {
		s.log.WithError(err).WithField("type", eventType).Warn("failed to publish event")
	}
}

// ListByInvestor collects the payments of every bid the investor placed.
func (s *service) ListByInvestor(ctx context.Context, investorID uint) ([]models.Payment, error) {
	bids, err := s.store.Bids.ListByInvestor(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	if len(bids) == 0 {
		return []models.Payment{}, nil
	}

	ids := make([]uint, 0, len(bids))
	for _, b := range bids {
		ids = append(ids, b.ID)
	}

	payments, err := s.store.Payments.ListByBidIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
