// Package investment records investor commitments (bids) and tracks the
// principal still owed on each of them.
package investment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"cultivate/internal/models"
	"cultivate/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// moneyScale is the number of decimal places kept on outstanding principal.
const moneyScale = 2

type Service interface {
	Create(ctx context.Context, input models.CreateInvestmentInput) (*models.Bid, error)
	GetByID(ctx context.Context, id uint) (*models.Bid, error)
	Repay(ctx context.Context, bidID uint, amount float64) (*models.RepaymentResult, error)
	MarkFunded(ctx context.Context, bidID uint) (*models.Bid, error)
	ListByCampaign(ctx context.Context, campaignID uint) ([]models.Bid, error)
	ListByInvestor(ctx context.Context, investorID uint) ([]models.Bid, error)
}

type service struct {
	store *repositories.Store
	log   *logrus.Logger
}

func NewService(store *repositories.Store, log *logrus.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	return &service{store: store, log: log}
}

// Create records a pending bid with the full principal outstanding.
// Minimum investment and funding goal are not enforced here.
func (s *service) Create(ctx context.Context, input models.CreateInvestmentInput) (*models.Bid, error) {
	if input.Principal <= 0 || math.IsNaN(input.Principal) || math.IsInf(input.Principal, 0) {
		return nil, ErrInvalidAmount
	}

	if _, err := s.store.Campaigns.GetByID(ctx, input.CampaignID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	bid := &models.Bid{
		CampaignID:  input.CampaignID,
		InvestorID:  input.InvestorID,
		AffiliateID: input.AffiliateID,
		Amount:      input.Principal,
		Remaining:   input.Principal,
		Status:      models.BidStatusPending,
	}
	if err := s.store.Bids.Create(ctx, bid); err != nil {
		return nil, fmt.Errorf("failed to create investment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"bid_id":      bid.ID,
		"campaign_id": bid.CampaignID,
		"investor_id": bid.InvestorID,
		"amount":      bid.Amount,
	}).Info("investment created")
	return bid, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.Bid, error) {
	bid, err := s.store.Bids.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBidNotFound
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	return bid, nil
}

// Repay reduces the outstanding principal, flooring at zero. A bid whose
// remaining principal reaches zero is settled; otherwise its status is kept.
func (s *service) Repay(ctx context.Context, bidID uint, amount float64) (*models.RepaymentResult, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}

	var result models.RepaymentResult
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		bid, err := tx.Bids.GetForUpdate(ctx, bidID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrBidNotFound
			}
			return fmt.Errorf("failed to get investment: %w", err)
		}

		left := decimal.NewFromFloat(bid.Remaining).
			Sub(decimal.NewFromFloat(amount)).
			Round(moneyScale)
		if left.IsNegative() {
			left = decimal.Zero
		}
		status := bid.Status
		if left.IsZero() {
			status = models.BidStatusSettled
		}
		remaining := left.InexactFloat64()

		if err := tx.Bids.UpdateFields(ctx, bidID, map[string]interface{}{
			"remaining": remaining,
			"status":    status,
		}); err != nil {
			return fmt.Errorf("failed to update investment: %w", err)
		}

		result = models.RepaymentResult{Remaining: remaining, Status: status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"bid_id":    bidID,
		"amount":    amount,
		"remaining": result.Remaining,
		"status":    result.Status,
	}).Info("investment repaid")
	return &result, nil
}

// MarkFunded flags the bid as funded. Calling it again is a no-op; a
// settled bid cannot go back to funded.
func (s *service) MarkFunded(ctx context.Context, bidID uint) (*models.Bid, error) {
	var out *models.Bid
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		bid, err := tx.Bids.GetForUpdate(ctx, bidID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrBidNotFound
			}
			return fmt.Errorf("failed to get investment: %w", err)
		}

		switch bid.Status {
		case models.BidStatusFunded:
			out = bid
			return nil
		case models.BidStatusSettled:
			return fmt.Errorf("%w: bid %d is settled", ErrInvalidTransition, bidID)
		}

		if err := tx.Bids.UpdateFields(ctx, bidID, map[string]interface{}{"status": models.BidStatusFunded}); err != nil {
			return fmt.Errorf("failed to update investment: %w", err)
		}
		bid.Status = models.BidStatusFunded
		out = bid
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ListByCampaign(ctx context.Context, campaignID uint) ([]models.Bid, error) {
	bids, err := s.store.Bids.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	return bids, nil
}

func (s *service) ListByInvestor(ctx context.Context, investorID uint) ([]models.Bid, error) {
	bids, err := s.store.Bids.ListByInvestor(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	return bids, nil
}
