package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by every repository when a row does not exist.
var ErrNotFound = errors.New("record not found")

// Store bundles the repositories bound to one database handle. A Store
// created inside Transaction shares the transaction's connection.
type Store struct {
	db *gorm.DB

	Profiles        ProfileRepository
	Campaigns       CampaignRepository
	Bids            BidRepository
	Payments        PaymentRepository
	Transactions    TransactionRepository
	Revenues        RevenueRepository
	Payouts         PayoutRepository
	Notifications   NotificationRepository
	Recommendations RecommendationRepository
	AIContents      AIContentRepository
	WebhookEvents   WebhookEventRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:              db,
		Profiles:        NewProfileRepository(db),
		Campaigns:       NewCampaignRepository(db),
		Bids:            NewBidRepository(db),
		Payments:        NewPaymentRepository(db),
		Transactions:    NewTransactionRepository(db),
		Revenues:        NewRevenueRepository(db),
		Payouts:         NewPayoutRepository(db),
		Notifications:   NewNotificationRepository(db),
		Recommendations: NewRecommendationRepository(db),
		AIContents:      NewAIContentRepository(db),
		WebhookEvents:   NewWebhookEventRepository(db),
	}
}

// Transaction runs fn inside a database transaction. Everything written
// through the Store passed to fn commits or rolls back together.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
