package repositories_test

import (
	"context"
	"errors"
	"testing"

	"cultivate/internal/models"
	"cultivate/internal/repositories"
	"cultivate/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TransactionRollsBack(t *testing.T) {
	store := repotest.NewStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx *repositories.Store) error {
		require.NoError(t, tx.Transactions.Create(ctx, &models.Transaction{
			UserID: 1, Type: models.TransactionTypeInvestment, Amount: 10, Currency: "USD",
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, err := store.Transactions.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_TransactionCommits(t *testing.T) {
	store := repotest.NewStore(t)
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Transactions.Create(ctx, &models.Transaction{
			UserID: 1, Type: models.TransactionTypePayout, Amount: 5, Currency: "USD",
		}); err != nil {
			return err
		}
		return tx.Notifications.Create(ctx, &models.Notification{UserID: 1, Message: "hi", Type: models.NotificationTypeSystem})
	})
	require.NoError(t, err)

	rows, err := store.Transactions.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	notes, err := store.Notifications.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestRepositories_NotFound(t *testing.T) {
	store := repotest.NewStore(t)
	ctx := context.Background()

	_, err := store.Profiles.GetByID(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.Campaigns.GetByID(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.Bids.GetForUpdate(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.Payouts.GetByID(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.Recommendations.LatestByCampaign(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, store.Notifications.MarkRead(ctx, 99), repositories.ErrNotFound)
	assert.ErrorIs(t, store.Campaigns.UpdateFields(ctx, 99, map[string]interface{}{"title": "x"}), repositories.ErrNotFound)
}

func TestCampaignRepository_List(t *testing.T) {
	store := repotest.NewStore(t)
	ctx := context.Background()

	for i, sector := range []string{"solar", "wind", "solar"} {
		c := &models.Campaign{
			OwnerID: uint(i + 1), Title: "c", Description: "d", Sector: sector,
			FundingGoal: 100, MinInvestment: 10, Status: models.CampaignStatusPending,
		}
		require.NoError(t, store.Campaigns.Create(ctx, c))
	}

	rows, total, err := store.Campaigns.List(ctx, models.CampaignFilter{Sector: "solar", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(3), rows[0].ID)
}

func TestWebhookEventRepository_Exists(t *testing.T) {
	store := repotest.NewStore(t)
	ctx := context.Background()

	ok, err := store.WebhookEvents.Exists(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.WebhookEvents.MarkProcessed(ctx, &models.WebhookEvent{
		Provider: "flutterwave", EventID: "evt-1", Payload: map[string]interface{}{"a": 1},
	}))

	ok, err = store.WebhookEvents.Exists(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, ok)

	err = store.WebhookEvents.MarkProcessed(ctx, &models.WebhookEvent{Provider: "flutterwave", EventID: "evt-1"})
	assert.Error(t, err)
}

func TestPayoutRepository_AuditOrder(t *testing.T) {
	store := repotest.NewStore(t)
	ctx := context.Background()

	p := &models.PayoutRequest{UserID: 1, Amount: 10, Method: "bank", Status: models.PayoutStatusPending}
	require.NoError(t, store.Payouts.Create(ctx, p))
	require.NoError(t, store.Payouts.AddAudit(ctx, &models.PayoutAudit{PayoutID: p.ID, ActorID: 1, Action: models.PayoutActionRequested}))
	require.NoError(t, store.Payouts.AddAudit(ctx, &models.PayoutAudit{PayoutID: p.ID, ActorID: 2, Action: models.PayoutActionApproved}))

	trail, err := store.Payouts.ListAudit(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, models.PayoutActionRequested, trail[0].Action)
	assert.Equal(t, models.PayoutActionApproved, trail[1].Action)

	pending, err := store.Payouts.ListAll(ctx, models.PayoutStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	paid, err := store.Payouts.ListAll(ctx, models.PayoutStatusPaid)
	require.NoError(t, err)
	assert.Empty(t, paid)
}
