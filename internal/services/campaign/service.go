// Package campaign manages funding proposals and their lifecycle.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cultivate/internal/models"
	"cultivate/internal/repositories"
	"cultivate/internal/repositories/cache"
	"cultivate/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, ownerID uint, input models.CreateCampaignInput) (*models.Campaign, error)
	GetByID(ctx context.Context, id uint) (*models.Campaign, error)
	ListActive(ctx context.Context) ([]models.Campaign, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Campaign, error)
	List(ctx context.Context, filter models.CampaignFilter) ([]models.Campaign, int64, error)
	All(ctx context.Context) ([]models.Campaign, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id uint, status models.CampaignStatus) (*models.Campaign, error)
	SetThumbnail(ctx context.Context, actor models.Actor, id uint, filename string, r io.Reader) (*models.Campaign, error)
	SetAssessment(ctx context.Context, id uint, score *float64, summary string) (*models.Campaign, error)
}

type service struct {
	repo    repositories.CampaignRepository
	cache   cache.Store
	objects storage.ObjectStore
	log     *logrus.Logger
}

func NewService(
	repo repositories.CampaignRepository,
	store cache.Store,
	objects storage.ObjectStore,
	log *logrus.Logger,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if store == nil {
		store = cache.Noop{}
	}
	if objects == nil {
		objects = storage.Disabled{}
	}
	return &service{repo: repo, cache: store, objects: objects, log: log}
}

// Create stores a new pending campaign. Only presence is checked; the
// relation between goal and minimum investment is left to the caller.
func (s *service) Create(ctx context.Context, ownerID uint, input models.CreateCampaignInput) (*models.Campaign, error) {
	switch {
	case ownerID == 0:
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidCampaign)
	case strings.TrimSpace(input.Title) == "":
		return nil, fmt.Errorf("%w: title is required", ErrInvalidCampaign)
	case strings.TrimSpace(input.Description) == "":
		return nil, fmt.Errorf("%w: description is required", ErrInvalidCampaign)
	case strings.TrimSpace(input.Sector) == "":
		return nil, fmt.Errorf("%w: sector is required", ErrInvalidCampaign)
	case input.FundingGoal == 0:
		return nil, fmt.Errorf("%w: funding goal is required", ErrInvalidCampaign)
	case input.MinInvestment == 0:
		return nil, fmt.Errorf("%w: minimum investment is required", ErrInvalidCampaign)
	}

	campaign := &models.Campaign{
		OwnerID:       ownerID,
		Title:         input.Title,
		Description:   input.Description,
		Sector:        input.Sector,
		Location:      input.Location,
		FundingGoal:   input.FundingGoal,
		MinInvestment: input.MinInvestment,
		ThumbnailURL:  input.ThumbnailURL,
		RaisedAmount:  0,
		Status:        models.CampaignStatusPending,
	}
	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"owner_id":    ownerID,
	}).Info("campaign created")
	return campaign, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.Campaign, error) {
	key := cache.CampaignKey(id)

	var cached models.Campaign
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.WithError(err).Warn("campaign cache read failed")
	} else if hit {
		return &cached, nil
	}

	campaign, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, campaign); err != nil {
		s.log.WithError(err).Warn("campaign cache write failed")
	}
	return campaign, nil
}

func (s *service) load(ctx context.Context, id uint) (*models.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Campaign, error) {
	campaigns, err := s.repo.ListByStatus(ctx, models.CampaignStatusFunding)
	if err != nil {
		return nil, fmt.Errorf("failed to list active campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID uint) ([]models.Campaign, error) {
	campaigns, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *service) List(ctx context.Context, filter models.CampaignFilter) ([]models.Campaign, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	campaigns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, total, nil
}

func (s *service) All(ctx context.Context) ([]models.Campaign, error) {
	campaigns, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *service) UpdateStatus(ctx context.Context, actor models.Actor, id uint, status models.CampaignStatus) (*models.Campaign, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	campaign, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !models.CanSetCampaignStatus(actor, campaign.OwnerID, campaign.Status, status) {
		return nil, fmt.Errorf("%w: cannot move campaign from %s to %s", ErrForbidden, campaign.Status, status)
	}

	if err := s.patch(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"campaign_id": id,
		"from":        campaign.Status,
		"to":          status,
		"actor_id":    actor.ProfileID,
	}).Info("campaign status changed")
	return s.load(ctx, id)
}

// SetThumbnail resizes the uploaded image and stores it as the campaign's
// thumbnail.
func (s *service) SetThumbnail(ctx context.Context, actor models.Actor, id uint, filename string, r io.Reader) (*models.Campaign, error) {
	campaign, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(campaign.OwnerID) {
		return nil, ErrForbidden
	}

	thumb, err := storage.MakeThumbnail(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCampaign, err)
	}

	key := fmt.Sprintf("campaigns/%d/%s.jpg", id, uuid.NewString())
	url, err := s.objects.Put(ctx, key, thumb, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	if err := s.patch(ctx, id, map[string]interface{}{"thumbnail_url": url}); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"campaign_id": id,
		"filename":    filename,
		"key":         key,
	}).Info("campaign thumbnail stored")
	return s.load(ctx, id)
}

// SetAssessment stores the generated score and summary on the campaign.
func (s *service) SetAssessment(ctx context.Context, id uint, score *float64, summary string) (*models.Campaign, error) {
	if err := s.patch(ctx, id, map[string]interface{}{
		"ai_score":   score,
		"ai_summary": summary,
	}); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *service) patch(ctx context.Context, id uint, fields map[string]interface{}) error {
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCampaignNotFound
		}
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	if err := s.cache.Delete(ctx, cache.CampaignKey(id)); err != nil {
		s.log.WithError(err).Warn("campaign cache invalidation failed")
	}
	return nil
}
