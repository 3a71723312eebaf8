package revenue

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

func newService(t *testing.T) Service {
	return NewService(repositories.NewRevenueRepository(repotest.NewDB(t)), logger.Discard())
}

func record(t *testing.T, svc Service, investor, campaign uint, typ string, amount float64, status models.RevenueStatus) *models.Revenue {
	t.Helper()
	rev, err := svc.Record(context.Background(), models.RecordRevenueInput{
		InvestorID: investor, CampaignID: campaign, Type: typ, Amount: amount, Status: status,
	})
	require.NoError(t, err)
	return rev
}

func TestService_Record(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	rev := record(t, svc, 1, 1, models.RevenueTypeInvestorProfit, 10, "")
	assert.Equal(t, models.RevenueStatusPending, rev.Status)

	_, err := svc.Record(ctx, models.RecordRevenueInput{InvestorID: 1, CampaignID: 1, Type: models.RevenueTypePlatformFee, Amount: -1})
	assert.ErrorIs(t, err, ErrInvalidRevenue)

	_, err = svc.Record(ctx, models.RecordRevenueInput{InvestorID: 1, CampaignID: 1, Type: "tip", Amount: 1})
	assert.ErrorIs(t, err, ErrInvalidRevenue)

	_, err = svc.Record(ctx, models.RecordRevenueInput{InvestorID: 1, CampaignID: 1, Type: models.RevenueTypePlatformFee, Amount: 1, Status: "void"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_Summaries(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	record(t, svc, 1, 10, models.RevenueTypePlatformFee, 0.1, models.RevenueStatusCompleted)
	record(t, svc, 1, 10, models.RevenueTypePlatformFee, 0.2, models.RevenueStatusCompleted)
	record(t, svc, 1, 10, models.RevenueTypePlatformFee, 5, models.RevenueStatusPending)
	record(t, svc, 2, 10, models.RevenueTypeInvestorProfit, 40, models.RevenueStatusCompleted)
	record(t, svc, 2, 11, models.RevenueTypeAffiliateReward, 3, models.RevenueStatusPending)

	platform, err := svc.PlatformRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.3, platform.Total)
	assert.Equal(t, 5, platform.Count)

	campaign, err := svc.CampaignRevenue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 45.3, campaign.Total)
	assert.Equal(t, 40.3, campaign.Completed)
	assert.Len(t, campaign.Entries, 4)

	user, err := svc.UserRevenue(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 43.0, user.Total)
	assert.Equal(t, 40.0, user.Completed)
	assert.Equal(t, 2, user.Count)

	empty, err := svc.UserRevenue(ctx, 99)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.NotNil(t, empty.Entries)
}

func TestService_UpdateStatus(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	rev := record(t, svc, 1, 1, models.RevenueTypeInvestorProfit, 10, "")

	_, err := svc.UpdateStatus(ctx, models.Actor{ProfileID: 1, Role: models.RoleInvestor}, rev.ID, models.RevenueStatusCompleted)
	assert.ErrorIs(t, err, ErrForbidden)

	done, err := svc.UpdateStatus(ctx, models.SystemActor, rev.ID, models.RevenueStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.RevenueStatusCompleted, done.Status)

	again, err := svc.MarkCompleted(ctx, rev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RevenueStatusCompleted, again.Status)

	_, err = svc.UpdateStatus(ctx, models.SystemActor, rev.ID, models.RevenueStatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.MarkCompleted(ctx, 999)
	assert.ErrorIs(t, err, ErrRevenueNotFound)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
