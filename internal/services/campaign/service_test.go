package campaign

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"cultivate/internal/logger"
	"cultivate/internal/models"
	"cultivate/internal/repositories"
	"cultivate/internal/repositories/repotest"
	"cultivate/internal/storage"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() models.CreateCampaignInput {
	return models.CreateCampaignInput{
		Title:         "Mangrove restoration",
		Description:   "Replant 40ha of coastal mangroves",
		Sector:        "nature",
		FundingGoal:   50000,
		MinInvestment: 100,
	}
}

func newService(t *testing.T, objects storage.ObjectStore) Service {
	repo := repositories.NewCampaignRepository(repotest.NewDB(t))
	return NewService(repo, nil, objects, logger.Discard())
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name    string
		owner   uint
		mutate  func(*models.CreateCampaignInput)
		wantErr bool
	}{
		{name: "valid", owner: 1},
		{name: "missing owner", owner: 0, wantErr: true},
		{name: "missing title", owner: 1, mutate: func(in *models.CreateCampaignInput) { in.Title = " " }, wantErr: true},
		{name: "missing sector", owner: 1, mutate: func(in *models.CreateCampaignInput) { in.Sector = "" }, wantErr: true},
		{name: "zero goal", owner: 1, mutate: func(in *models.CreateCampaignInput) { in.FundingGoal = 0 }, wantErr: true},
		{name: "zero minimum", owner: 1, mutate: func(in *models.CreateCampaignInput) { in.MinInvestment = 0 }, wantErr: true},
		{
			name:   "minimum above goal is accepted",
			owner:  1,
			mutate: func(in *models.CreateCampaignInput) { in.MinInvestment = in.FundingGoal * 2 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, nil)
			input := validInput()
			if tt.mutate != nil {
				tt.mutate(&input)
			}

			c, err := svc.Create(context.Background(), tt.owner, input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCampaign)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.CampaignStatusPending, c.Status)
			assert.Zero(t, c.RaisedAmount)
		})
	}
}

func TestService_ListActive(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, validInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, validInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, validInput())
	require.NoError(t, err)

	for _, id := range []uint{first.ID, second.ID} {
		_, err := svc.UpdateStatus(ctx, models.SystemActor, id, models.CampaignStatusFunding)
		require.NoError(t, err)
	}

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, second.ID, active[0].ID)
}

func TestService_UpdateStatus(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, 7, validInput())
	require.NoError(t, err)
	owner := models.Actor{ProfileID: 7, Role: models.RoleInnovator}

	_, err = svc.UpdateStatus(ctx, owner, c.ID, models.CampaignStatusApproved)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateStatus(ctx, models.SystemActor, c.ID, "launched")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	approved, err := svc.UpdateStatus(ctx, models.SystemActor, c.ID, models.CampaignStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusApproved, approved.Status)

	funding, err := svc.UpdateStatus(ctx, owner, c.ID, models.CampaignStatusFunding)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusFunding, funding.Status)
	assert.False(t, funding.UpdatedAt.Before(approved.UpdatedAt))

	_, err = svc.UpdateStatus(ctx, models.SystemActor, 999, models.CampaignStatusFunding)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestService_SetThumbnail(t *testing.T) {
	objects := &storage.Memory{BaseURL: "https://cdn.test"}
	svc := newService(t, objects)
	ctx := context.Background()

	c, err := svc.Create(ctx, 7, validInput())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(1600, 800, color.NRGBA{A: 255})))

	updated, err := svc.SetThumbnail(ctx, models.Actor{ProfileID: 7, Role: models.RoleInnovator}, c.ID, "cover.png", &buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.ThumbnailURL, "https://cdn.test/campaigns/"))
	assert.Len(t, objects.Objects, 1)

	_, err = svc.SetThumbnail(ctx, models.Actor{ProfileID: 8, Role: models.RoleInnovator}, c.ID, "cover.png", &buf)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SetThumbnail(ctx, models.SystemActor, c.ID, "notes.txt", strings.NewReader("text"))
	assert.ErrorIs(t, err, ErrInvalidCampaign)
}

func TestService_SetThumbnail_StorageDisabled(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, 7, validInput())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(10, 10, color.NRGBA{A: 255})))

	_, err = svc.SetThumbnail(ctx, models.SystemActor, c.ID, "cover.png", &buf)
	assert.ErrorIs(t, err, storage.ErrDisabled)
}

func TestService_SetAssessment(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, 7, validInput())
	require.NoError(t, err)
	assert.Nil(t, c.AIScore)

	score := 0.82
	updated, err := svc.SetAssessment(ctx, c.ID, &score, "High coastal impact.")
	require.NoError(t, err)
	require.NotNil(t, updated.AIScore)
	assert.Equal(t, 0.82, *updated.AIScore)
	assert.Equal(t, "High coastal impact.", updated.AISummary)

	_, err = svc.SetAssessment(ctx, 999, &score, "x")
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}
