package main

import (
	"context"
	"errors"
	"fmt"

	"cultivate/internal/models"
	"cultivate/internal/services/profile"
)

// seedAdmin makes sure externalID has an admin profile. The profile is
// created as an investor first because admin cannot be self-assigned.
func seedAdmin(ctx context.Context, profiles profile.Service, externalID, fullName, email string) (*models.UserProfile, bool, error) {
	created := false
	p, err := profiles.GetByExternalID(ctx, externalID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		p, err = profiles.Create(ctx, externalID, models.CreateProfileInput{
			FullName: fullName,
			Email:    email,
		})
		created = true
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load profile: %w", err)
	}

	if p.Role == models.RoleAdmin && p.Verified {
		return p, created, nil
	}

	role := models.RoleAdmin
	verified := true
	p, err = profiles.Update(ctx, models.SystemActor, p.ID, models.UpdateProfileInput{
		Role:     &role,
		Verified: &verified,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to promote profile: %w", err)
	}
	return p, created, nil
}
