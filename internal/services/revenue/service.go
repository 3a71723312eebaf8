// Package revenue tracks profit shares, affiliate rewards and platform fees.
package revenue

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

type Service interface {
	Record(ctx context.Context, input models.RecordRevenueInput) (*models.Revenue, error)
	ListAll(ctx context.Context) ([]models.Revenue, error)
	PlatformRevenue(ctx context.Context) (*models.RevenueSummary, error)
	CampaignRevenue(ctx context.Context, campaignID uint) (*models.RevenueSummary, error)
	UserRevenue(ctx context.Context, investorID uint) (*models.RevenueSummary, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id uint, status models.RevenueStatus) (*models.Revenue, error)
	MarkCompleted(ctx context.Context, id uint) (*models.Revenue, error)
}

type service struct {
	repo repositories.RevenueRepository
	log  *logrus.Logger
}

func NewService(repo repositories.RevenueRepository, log *logrus.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo, log: log}
}

func (s *service) Record(ctx context.Context, input models.RecordRevenueInput) (*models.Revenue, error) {
	switch input.Type {
	case models.RevenueTypeInvestorProfit, models.RevenueTypeAffiliateReward, models.RevenueTypePlatformFee:
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidRevenue, input.Type)
	}
	if input.Amount < 0 || math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidRevenue)
	}

	status := input.Status
	if status == "" {
		status = models.RevenueStatusPending
	}
	if status != models.RevenueStatusPending && status != models.RevenueStatusCompleted {
		return nil, ErrInvalidStatus
	}

	rev := &models.Revenue{
		InvestorID: input.InvestorID,
		CampaignID: input.CampaignID,
		Type:       input.Type,
		Amount:     input.Amount,
		Status:     status,
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, fmt.Errorf("failed to record revenue: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"revenue_id":  rev.ID,
		"campaign_id": rev.CampaignID,
		"type":        rev.Type,
	}).Info("revenue recorded")
	return rev, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Revenue, error) {
	revs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list revenues: %w", err)
	}
	return revs, nil
}

// PlatformRevenue sums completed platform fees. Count covers every revenue
// row regardless of type or status.
func (s *service) PlatformRevenue(ctx context.Context) (*models.RevenueSummary, error) {
	revs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list revenues: %w", err)
	}

	total := decimal.Zero
	for _, r := range revs {
		if r.Type == models.RevenueTypePlatformFee && r.Status == models.RevenueStatusCompleted {
			total = total.Add(decimal.NewFromFloat(r.Amount))
		}
	}

	f, _ := total.Float64()
	return &models.RevenueSummary{Total: f, Completed: f, Count: len(revs)}, nil
}

func (s *service) CampaignRevenue(ctx context.Context, campaignID uint) (*models.RevenueSummary, error) {
	revs, err := s.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revenues: %w", err)
	}
	return summarize(revs), nil
}

func (s *service) UserRevenue(ctx context.Context, investorID uint) (*models.RevenueSummary, error) {
	revs, err := s.repo.ListByInvestor(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revenues: %w", err)
	}
	return summarize(revs), nil
}

// UpdateStatus is the admin path. Completed revenue cannot be reopened.
func (s *service) UpdateStatus(ctx context.Context, actor models.Actor, id uint, status models.RevenueStatus) (*models.Revenue, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if status != models.RevenueStatusPending && status != models.RevenueStatusCompleted {
		return nil, ErrInvalidStatus
	}

	rev, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rev.Status == status {
		return rev, nil
	}
	if rev.Status == models.RevenueStatusCompleted {
		return nil, fmt.Errorf("%w: revenue %d is already completed", ErrInvalidTransition, id)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update revenue: %w", err)
	}
	rev.Status = status

	s.log.WithFields(logrus.Fields{
		"revenue_id": id,
		"status":     status,
		"actor_id":   actor.ProfileID,
	}).Info("revenue status updated")
	return rev, nil
}

// MarkCompleted is used by payment webhooks.
func (s *service) MarkCompleted(ctx context.Context, id uint) (*models.Revenue, error) {
	return s.UpdateStatus(ctx, models.SystemActor, id, models.RevenueStatusCompleted)
}

func (s *service) get(ctx context.Context, id uint) (*models.Revenue, error) {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRevenueNotFound
		}
		return nil, fmt.Errorf("failed to get revenue: %w", err)
	}
	return rev, nil
}

func summarize(revs []models.Revenue) *models.RevenueSummary {
	total, completed := decimal.Zero, decimal.Zero
	for _, r := range revs {
		amount := decimal.NewFromFloat(r.Amount)
		total = total.Add(amount)
		if r.Status == models.RevenueStatusCompleted {
			completed = completed.Add(amount)
		}
	}

	t, _ := total.Float64()
	c, _ := completed.Float64()
	if revs == nil {
		revs = []models.Revenue{}
	}
	return &models.RevenueSummary{Total: t, Completed: c, Count: len(revs), Entries: revs}
}
