package main

import (
	"context"
	"testing"

	"cultivate/internal/logger"
	"cultivate/internal/models"
	"cultivate/internal/repositories/cache"
	"cultivate/internal/repositories/repotest"
	"cultivate/internal/services/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	profiles := profile.NewService(store.Profiles, cache.Noop{}, logger.Discard())

	p, created, err := seedAdmin(ctx, profiles, "user_admin", "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleAdmin, p.Role)
	assert.True(t, p.Verified)

	again, created, err := seedAdmin(ctx, profiles, "user_admin", "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, again.ID)
}

func TestSeedAdmin_PromotesExisting(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	profiles := profile.NewService(store.Profiles, cache.Noop{}, logger.Discard())

	existing, err := profiles.Create(ctx, "user_inv", models.CreateProfileInput{FullName: "Ivy"})
	require.NoError(t, err)
	require.Equal(t, models.RoleInvestor, existing.Role)

	p, created, err := seedAdmin(ctx, profiles, "user_inv", "ignored", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, p.ID)
	assert.Equal(t, models.RoleAdmin, p.Role)
	assert.Equal(t, "Ivy", p.FullName)
}
