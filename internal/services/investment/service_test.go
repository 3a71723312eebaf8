package investment

import (
	"context"
	"testing"

	"cultivate/internal/logger"
	"cultivate/internal/models"
	"cultivate/internal/repositories"
	"cultivate/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (Service, *repositories.Store, uint) {
	store := repotest.NewStore(t)
	c := &models.Campaign{
		OwnerID: 1, Title: "Solar school", Description: "Panels", Sector: "energy",
		FundingGoal: 1000, MinInvestment: 10, Status: models.CampaignStatusFunding,
	}
	require.NoError(t, store.Campaigns.Create(context.Background(), c))
	return NewService(store, logger.Discard()), store, c.ID
}

func TestService_Create(t *testing.T) {
	svc, _, campaignID := setup(t)
	ctx := context.Background()
	affiliate := uint(9)

	tests := []struct {
		name    string
		input   models.CreateInvestmentInput
		wantErr error
	}{
		{"valid", models.CreateInvestmentInput{CampaignID: campaignID, InvestorID: 2, Principal: 250, AffiliateID: &affiliate}, nil},
		{"below campaign minimum is accepted", models.CreateInvestmentInput{CampaignID: campaignID, InvestorID: 2, Principal: 1}, nil},
		{"zero principal", models.CreateInvestmentInput{CampaignID: campaignID, InvestorID: 2}, ErrInvalidAmount},
		{"negative principal", models.CreateInvestmentInput{CampaignID: campaignID, InvestorID: 2, Principal: -5}, ErrInvalidAmount},
		{"unknown campaign", models.CreateInvestmentInput{CampaignID: 999, InvestorID: 2, Principal: 5}, ErrCampaignNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bid, err := svc.Create(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.BidStatusPending, bid.Status)
			assert.Equal(t, tt.input.Principal, bid.Remaining)
			assert.Equal(t, tt.input.AffiliateID, bid.AffiliateID)
		})
	}
}

func TestService_Repay(t *testing.T) {
	svc, _, campaignID := setup(t)
	ctx := context.Background()

	bid, err := svc.Create(ctx, models.CreateInvestmentInput{CampaignID: campaignID, InvestorID: 2, Principal: 100})
	require.NoError(t, err)

	res, err := svc.Repay(ctx, bid.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 60.0, res.Remaining)
	assert.Equal(t, models.BidStatusPending, res.Status)

	res, err = svc.Repay(ctx, bid.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 60.0, res.Remaining)

	res, err = svc.Repay(ctx, bid.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Remaining)
	assert.Equal(t, models.BidStatusSettled, res.Status)

	stored, err := svc.GetByID(ctx, bid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BidStatusSettled, stored.Status)
	assert.Equal(t, 100.0, stored.Amount)

	_, err = svc.Repay(ctx, bid.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Repay(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrBidNotFound)
}

func TestService_RepayFractional(t *testing.T) {
	svc, _, campaignID := setup(t)
	ctx := context.Background()

	bid, err := svc.Create(ctx, models.CreateInvestmentInput{CampaignID: campaignID, InvestorID: 2, Principal: 1.1})
	require.NoError(t, err)

	res, err := svc.Repay(ctx, bid.ID, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 0.1, res.Remaining)
	assert.Equal(t, models.BidStatusPending, res.Status)

	res, err = svc.Repay(ctx, bid.ID, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Remaining)
	assert.Equal(t, models.BidStatusSettled, res.Status)

	stored, err := svc.GetByID(ctx, bid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BidStatusSettled, stored.Status)
	assert.Equal(t, 0.0, stored.Remaining)
}

func TestService_MarkFunded(t *testing.T) {
	svc, _, campaignID := setup(t)
	ctx := context.Background()

	bid, err := svc.Create(ctx, models.CreateInvestmentInput{CampaignID: campaignID, InvestorID: 2, Principal: 100})
	require.NoError(t, err)

	funded, err := svc.MarkFunded(ctx, bid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BidStatusFunded, funded.Status)

	again, err := svc.MarkFunded(ctx, bid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BidStatusFunded, again.Status)

	_, err = svc.Repay(ctx, bid.ID, 100)
	require.NoError(t, err)

	_, err = svc.MarkFunded(ctx, bid.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.MarkFunded(ctx, 999)
	assert.ErrorIs(t, err, ErrBidNotFound)
}

func TestService_Lists(t *testing.T) {
	svc, _, campaignID := setup(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, models.CreateInvestmentInput{CampaignID: campaignID, InvestorID: 2, Principal: 10})
	require.NoError(t, err)
	second, err := svc.Create(ctx, models.CreateInvestmentInput{CampaignID: campaignID, InvestorID: 3, Principal: 20})
	require.NoError(t, err)

	byCampaign, err := svc.ListByCampaign(ctx, campaignID)
	require.NoError(t, err)
	require.Len(t, byCampaign, 2)
	assert.Equal(t, second.ID, byCampaign[0].ID)
	assert.Equal(t, first.ID, byCampaign[1].ID)

	byInvestor, err := svc.ListByInvestor(ctx, 3)
	require.NoError(t, err)
	require.Len(t, byInvestor, 1)
	assert.Equal(t, second.ID, byInvestor[0].ID)
}
