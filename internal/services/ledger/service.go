// Package ledger is the append-only log of money movements. Rows only
// change through an explicit admin reconciliation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"cultivate/internal/models"
	"cultivate/internal/repositories"

	"github.com/sirupsen/logrus"
)

type Service interface {
	Record(ctx context.Context, input models.RecordTransactionInput) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Transaction, error)
	ListByRelated(ctx context.Context, relatedID string) ([]models.Transaction, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error)
	Reconcile(ctx context.Context, actor models.Actor, id uint, input models.ReconcileInput) (*models.Transaction, error)
}

type service struct {
	repo repositories.TransactionRepository
	log  *logrus.Logger
}

func NewService(repo repositories.TransactionRepository, log *logrus.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo, log: log}
}

func (s *service) Record(ctx context.Context, input models.RecordTransactionInput) (*models.Transaction, error) {
	if !models.IsValidTransactionType(input.Type) {
		return nil, ErrInvalidType
	}
	if input.Amount < 0 || math.IsNaN(input.Amount) {
		return nil, ErrInvalidAmount
	}

	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = "USD"
	}

	tx := &models.Transaction{
		UserID:      input.UserID,
		Type:        input.Type,
		Amount:      input.Amount,
		Currency:    currency,
		Description: input.Description,
		RelatedID:   input.RelatedID,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return tx, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]models.Transaction, error) {
	txs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (s *service) ListByRelated(ctx context.Context, relatedID string) ([]models.Transaction, error) {
	txs, err := s.repo.ListByRelated(ctx, relatedID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (s *service) ListAll(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error) {
	if offset < 0 {
		offset = 0
	}
	txs, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}

// Reconcile corrects the amount or description of a recorded transaction.
func (s *service) Reconcile(ctx context.Context, actor models.Actor, id uint, input models.ReconcileInput) (*models.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	fields := map[string]interface{}{}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Amount != nil {
		if *input.Amount < 0 || math.IsNaN(*input.Amount) {
			return nil, ErrInvalidAmount
		}
		fields["amount"] = *input.Amount
	}
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to reconcile transaction: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"transaction_id": id,
		"actor_id":       actor.ProfileID,
		"fields":         len(fields),
	}).Info("transaction reconciled")

	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}
