// Package profile manages user profiles keyed by the identity provider's
// subject.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cultivate/internal/models"
	"cultivate/internal/repositories"
	"cultivate/internal/repositories/cache"

	"github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, externalID string, input models.CreateProfileInput) (*models.UserProfile, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.UserProfile, error)
	GetByID(ctx context.Context, id uint) (*models.UserProfile, error)
	Update(ctx context.Context, actor models.Actor, id uint, input models.UpdateProfileInput) (*models.UserProfile, error)
	ListByRole(ctx context.Context, role string) ([]models.UserProfile, error)
}

type service struct {
	repo  repositories.ProfileRepository
	cache cache.Store
	log   *logrus.Logger
}

func NewService(repo repositories.ProfileRepository, store cache.Store, log *logrus.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	if store == nil {
		store = cache.Noop{}
	}
	return &service{repo: repo, cache: store, log: log}
}

func (s *service) Create(ctx context.Context, externalID string, input models.CreateProfileInput) (*models.UserProfile, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" || strings.TrimSpace(input.FullName) == "" {
		return nil, ErrInvalidProfile
	}

	role := input.Role
	if role == "" {
		role = models.RoleInvestor
	}
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	if role == models.RoleAdmin {
		return nil, fmt.Errorf("%w: admin role cannot be self-assigned", ErrForbidden)
	}

	exists, err := s.repo.ExistsByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to check profile: %w", err)
	}
	if exists {
		return nil, ErrProfileExists
	}

	profile := &models.UserProfile{
		ExternalID: externalID,
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		Role:       role,
		AvatarURL:  input.AvatarURL,
		Country:    input.Country,
		Bio:        input.Bio,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"profile_id": profile.ID,
		"role":       profile.Role,
	}).Info("profile created")
	return profile, nil
}

func (s *service) GetByExternalID(ctx context.Context, externalID string) (*models.UserProfile, error) {
	key := cache.ProfileExternalKey(externalID)

	var cached models.UserProfile
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.WithError(err).Warn("profile cache read failed")
	} else if hit {
		return &cached, nil
	}

	profile, err := s.repo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := s.cache.Set(ctx, key, profile); err != nil {
		s.log.WithError(err).Warn("profile cache write failed")
	}
	return profile, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.UserProfile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// Update applies the non-nil fields of input. Role and verification changes
// are reserved to admins.
func (s *service) Update(ctx context.Context, actor models.Actor, id uint, input models.UpdateProfileInput) (*models.UserProfile, error) {
	if !actor.CanManage(id) {
		return nil, ErrForbidden
	}

	profile, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && *input.Role != profile.Role {
		if !actor.IsAdmin() {
			return nil, fmt.Errorf("%w: only admins may change roles", ErrForbidden)
		}
		if !models.IsValidRole(*input.Role) {
			return nil, ErrInvalidRole
		}
		profile.Role = *input.Role
	}
	if input.Verified != nil && *input.Verified != profile.Verified {
		if !actor.IsAdmin() {
			return nil, fmt.Errorf("%w: only admins may verify profiles", ErrForbidden)
		}
		profile.Verified = *input.Verified
	}

	if input.FullName != nil {
		if strings.TrimSpace(*input.FullName) == "" {
			return nil, ErrInvalidProfile
		}
		profile.FullName = *input.FullName
	}
	if input.Email != nil {
		profile.Email = *input.Email
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = *input.AvatarURL
	}
	if input.Country != nil {
		profile.Country = *input.Country
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if err := s.cache.Delete(ctx, cache.ProfileExternalKey(profile.ExternalID), cache.ProfileIDKey(profile.ID)); err != nil {
		s.log.WithError(err).Warn("profile cache invalidation failed")
	}
	return profile, nil
}

func (s *service) ListByRole(ctx context.Context, role string) ([]models.UserProfile, error) {
	if role != "" && !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	profiles, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}
