// Package payout handles user withdrawal requests. Requests move
// pending -> approved -> paid, or pending -> rejected, and every step is
// written to an audit trail.
package payout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"cultivate/internal/events"
	"cultivate/internal/models"
	"cultivate/internal/repositories"

	"github.com/sirupsen/logrus"
)

const payoutCurrency = "USD"

type Service interface {
	Create(ctx context.Context, userID uint, input models.CreatePayoutInput) (*models.PayoutRequest, error)
	Approve(ctx context.Context, actor models.Actor, id uint) (*models.PayoutRequest, error)
	Reject(ctx context.Context, actor models.Actor, id uint, reason string) (*models.PayoutRequest, error)
	Complete(ctx context.Context, actor models.Actor, id uint) (*models.PayoutRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]models.PayoutRequest, error)
	ListAll(ctx context.Context, status models.PayoutStatus) ([]models.PayoutRequest, error)
	AuditTrail(ctx context.Context, id uint) ([]models.PayoutAudit, error)
}

type service struct {
	store     *repositories.Store
	publisher events.Publisher
	log       *logrus.Logger
	now       func() time.Time
}

func NewService(store *repositories.Store, publisher events.Publisher, log *logrus.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &service{store: store, publisher: publisher, log: log, now: time.Now}
}

func (s *service) Create(ctx context.Context, userID uint, input models.CreatePayoutInput) (*models.PayoutRequest, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidPayout)
	}
	if input.Amount <= 0 || math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidPayout)
	}
	if strings.TrimSpace(input.Method) == "" {
		return nil, fmt.Errorf("%w: method is required", ErrInvalidPayout)
	}

	payout := &models.PayoutRequest{
		UserID:  userID,
		Amount:  input.Amount,
		Method:  input.Method,
		Details: input.Details,
		Status:  models.PayoutStatusPending,
	}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Payouts.Create(ctx, payout); err != nil {
			return fmt.Errorf("failed to create payout: %w", err)
		}
		return tx.Payouts.AddAudit(ctx, &models.PayoutAudit{
			PayoutID: payout.ID,
			ActorID:  userID,
			Action:   models.PayoutActionRequested,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payout_id": payout.ID,
		"user_id":   userID,
		"amount":    payout.Amount,
	}).Info("payout requested")
	return payout, nil
}

// Approve moves a pending request to approved and appends the approval
// note to its details.
func (s *service) Approve(ctx context.Context, actor models.Actor, id uint) (*models.PayoutRequest, error) {
	return s.transition(ctx, actor, id, models.PayoutStatusPending, models.PayoutStatusApproved, models.PayoutActionApproved, "",
		func(tx *repositories.Store, p *models.PayoutRequest) error {
			p.Details = fmt.Sprintf("%s | Approved by: %s at %d", p.Details, approver(actor), s.now().UnixMilli())
			return nil
		})
}

func (s *service) Reject(ctx context.Context, actor models.Actor, id uint, reason string) (*models.PayoutRequest, error) {
	return s.transition(ctx, actor, id, models.PayoutStatusPending, models.PayoutStatusRejected, models.PayoutActionRejected, reason, nil)
}

// Complete marks an approved payout as paid and records the outgoing
// transaction in the same database transaction.
func (s *service) Complete(ctx context.Context, actor models.Actor, id uint) (*models.PayoutRequest, error) {
	p, err := s.transition(ctx, actor, id, models.PayoutStatusApproved, models.PayoutStatusPaid, models.PayoutActionPaid, "",
		func(tx *repositories.Store, p *models.PayoutRequest) error {
			return tx.Transactions.Create(ctx, &models.Transaction{
				UserID:      p.UserID,
				Type:        models.TransactionTypePayout,
				Amount:      p.Amount,
				Currency:    payoutCurrency,
				Description: "Payout completed",
				RelatedID:   strconv.FormatUint(uint64(p.ID), 10),
			})
		})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.Event{
		ID:   events.PayoutCompleted + ":" + strconv.FormatUint(uint64(p.ID), 10),
		Type: events.PayoutCompleted,
		Data: p,
	}); err != nil {
		s.log.WithError(err).Warn("failed to publish payout event")
	}
	return p, nil
}

func (s *service) transition(
	ctx context.Context,
	actor models.Actor,
	id uint,
	from, to models.PayoutStatus,
	action, note string,
	apply func(tx *repositories.Store, p *models.PayoutRequest) error,
) (*models.PayoutRequest, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	var payout *models.PayoutRequest
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		p, err := tx.Payouts.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPayoutNotFound
			}
			return fmt.Errorf("failed to get payout: %w", err)
		}
		if p.Status != from {
			return fmt.Errorf("%w: payout %d is %s", ErrInvalidTransition, id, p.Status)
		}

		p.Status = to
		if apply != nil {
			if err := apply(tx, p); err != nil {
				return err
			}
		}
		if err := tx.Payouts.Update(ctx, p); err != nil {
			return fmt.Errorf("failed to update payout: %w", err)
		}
		if err := tx.Payouts.AddAudit(ctx, &models.PayoutAudit{
			PayoutID: p.ID,
			ActorID:  actor.ProfileID,
			Action:   action,
			Note:     note,
		}); err != nil {
			return fmt.Errorf("failed to write payout audit: %w", err)
		}
		payout = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payout_id": id,
		"from":      from,
		"to":        to,
		"actor_id":  actor.ProfileID,
	}).Info("payout status changed")
	return payout, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]models.PayoutRequest, error) {
	payouts, err := s.store.Payouts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	return payouts, nil
}

func (s *service) ListAll(ctx context.Context, status models.PayoutStatus) ([]models.PayoutRequest, error) {
	payouts, err := s.store.Payouts.ListAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	return payouts, nil
}

func (s *service) AuditTrail(ctx context.Context, id uint) ([]models.PayoutAudit, error) {
	if _, err := s.store.Payouts.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	trail, err := s.store.Payouts.ListAudit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list payout audit: %w", err)
	}
	return trail, nil
}

func approver(actor models.Actor) string {
	if actor.ProfileID != 0 {
		return strconv.FormatUint(uint64(actor.ProfileID), 10)
	}
	return actor.ExternalID
}
