package profile

import (
	"context"
	"errors"
	"testing"

	"cultivate/internal/logger"
	"cultivate/internal/models"
	"cultivate/internal/repositories"
	"cultivate/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func newService(t *testing.T) (Service, repositories.ProfileRepository) {
	repo := repositories.NewProfileRepository(repotest.NewDB(t))
	return NewService(repo, nil, logger.Discard()), repo
}

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	tests := []struct {
		name     string
		input    models.CreateProfileInput
		wantRole string
		wantErr  error
	}{
		{
			name:     "defaults to investor",
			input:    models.CreateProfileInput{FullName: "Ada"},
			wantRole: models.RoleInvestor,
		},
		{
			name:     "explicit innovator",
			input:    models.CreateProfileInput{FullName: "Ada", Role: models.RoleInnovator},
			wantRole: models.RoleInnovator,
		},
		{
			name:    "admin cannot be self-assigned",
			input:   models.CreateProfileInput{FullName: "Ada", Role: models.RoleAdmin},
			wantErr: ErrForbidden,
		},
		{
			name:    "unknown role",
			input:   models.CreateProfileInput{FullName: "Ada", Role: "wizard"},
			wantErr: ErrInvalidRole,
		},
		{
			name:    "missing name",
			input:   models.CreateProfileInput{},
			wantErr: ErrInvalidProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			p, err := svc.Create(context.Background(), "user_1", tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, p.Role)
			assert.Equal(t, "user_1", p.ExternalID)
		})
	}
}

func TestService_CreateDuplicate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user_1", models.CreateProfileInput{FullName: "Ada"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user_1", models.CreateProfileInput{FullName: "Ada again"})
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestService_GetByExternalID(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.GetByExternalID(ctx, "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	created, err := svc.Create(ctx, "user_1", models.CreateProfileInput{FullName: "Ada"})
	require.NoError(t, err)

	got, err := svc.GetByExternalID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestService_GetByExternalID_CacheHit(t *testing.T) {
	repo := repositories.NewProfileRepository(repotest.NewDB(t))
	mc := new(MockCache)
	svc := NewService(repo, mc, logger.Discard())

	mc.On("Get", mock.Anything, "profile:external:user_9", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*models.UserProfile)
			dest.ID = 42
			dest.ExternalID = "user_9"
		}).
		Return(true, nil)

	got, err := svc.GetByExternalID(context.Background(), "user_9")
	require.NoError(t, err)
	assert.Equal(t, uint(42), got.ID)
	mc.AssertExpectations(t)
}

func TestService_GetByExternalID_CacheErrorFallsBack(t *testing.T) {
	repo := repositories.NewProfileRepository(repotest.NewDB(t))
	mc := new(MockCache)
	svc := NewService(repo, mc, logger.Discard())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.UserProfile{ExternalID: "user_1", FullName: "Ada", Role: models.RoleInvestor}))

	mc.On("Get", mock.Anything, "profile:external:user_1", mock.Anything).Return(false, errors.New("redis down"))
	mc.On("Set", mock.Anything, "profile:external:user_1", mock.Anything).Return(nil)

	got, err := svc.GetByExternalID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FullName)
	mc.AssertExpectations(t)
}

func TestService_Update(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "user_1", models.CreateProfileInput{FullName: "Ada"})
	require.NoError(t, err)
	owner := models.NewActor(p)

	t.Run("owner edits bio", func(t *testing.T) {
		updated, err := svc.Update(ctx, owner, p.ID, models.UpdateProfileInput{Bio: strPtr("solar")})
		require.NoError(t, err)
		assert.Equal(t, "solar", updated.Bio)
	})

	t.Run("owner cannot change role", func(t *testing.T) {
		_, err := svc.Update(ctx, owner, p.ID, models.UpdateProfileInput{Role: strPtr(models.RoleAdmin)})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		stranger := models.Actor{ProfileID: p.ID + 1, Role: models.RoleInvestor}
		_, err := svc.Update(ctx, stranger, p.ID, models.UpdateProfileInput{Bio: strPtr("x")})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin changes role", func(t *testing.T) {
		updated, err := svc.Update(ctx, models.SystemActor, p.ID, models.UpdateProfileInput{Role: strPtr(models.RoleInnovator)})
		require.NoError(t, err)
		assert.Equal(t, models.RoleInnovator, updated.Role)
	})

	t.Run("admin missing profile", func(t *testing.T) {
		_, err := svc.Update(ctx, models.SystemActor, 999, models.UpdateProfileInput{})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestService_ListByRole(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "a", models.CreateProfileInput{FullName: "A", Role: models.RoleInnovator})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "b", models.CreateProfileInput{FullName: "B"})
	require.NoError(t, err)

	innovators, err := svc.ListByRole(ctx, models.RoleInnovator)
	require.NoError(t, err)
	assert.Len(t, innovators, 1)

	all, err := svc.ListByRole(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListByRole(ctx, "wizard")
	assert.ErrorIs(t, err, ErrInvalidRole)
}
