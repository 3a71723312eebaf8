package payment

import (
	"context"
	"strings"
	"testing"

	"cultivate/internal/events"
	"cultivate/internal/logger"
	"cultivate/internal/models"
	"cultivate/internal/repositories"
	"cultivate/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc       Service
	store     *repositories.Store
	published *events.Recorder
	bid       *models.Bid
}

func setup(t *testing.T) fixture {
	store := repotest.NewStore(t)
	ctx := context.Background()

	c := &models.Campaign{
		OwnerID: 1, Title: "Wind farm", Description: "Turbines", Sector: "energy",
		FundingGoal: 1000, MinInvestment: 10, Status: models.CampaignStatusFunding,
	}
	require.NoError(t, store.Campaigns.Create(ctx, c))
	bid := &models.Bid{CampaignID: c.ID, InvestorID: 5, Amount: 100, Remaining: 100, Status: models.BidStatusPending}
	require.NoError(t, store.Bids.Create(ctx, bid))

	rec := &events.Recorder{}
	return fixture{
		svc:       NewService(store, rec, logger.Discard()),
		store:     store,
		published: rec,
		bid:       bid,
	}
}

func TestService_Create(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   models.CreatePaymentInput
		wantErr error
		check   func(t *testing.T, p *models.Payment)
	}{
		{
			name:  "generates reference and defaults method",
			input: models.CreatePaymentInput{Amount: 100, Currency: "usd"},
			check: func(t *testing.T, p *models.Payment) {
				assert.True(t, strings.HasPrefix(p.TxRef, TxRefPrefix))
				assert.Equal(t, models.PaymentMethodCard, p.PaymentMethod)
				assert.Equal(t, "USD", p.Currency)
				assert.Equal(t, models.PaymentStatusPending, p.Status)
			},
		},
		{
			name: "keeps caller reference",
			input: models.CreatePaymentInput{
				Amount: 50, Currency: "NGN", TxRef: "FLW-1", PaymentMethod: models.PaymentMethodFlutterwave,
				Response: map[string]interface{}{"status": "initiated"},
			},
			check: func(t *testing.T, p *models.Payment) {
				assert.Equal(t, "FLW-1", p.TxRef)
				assert.Equal(t, "initiated", p.Response["status"])
			},
		},
		{name: "missing amount", input: models.CreatePaymentInput{Currency: "USD"}, wantErr: ErrMissingFields},
		{name: "missing currency", input: models.CreatePaymentInput{Amount: 10}, wantErr: ErrMissingFields},
		{name: "negative amount", input: models.CreatePaymentInput{Amount: -1, Currency: "USD"}, wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.svc.Create(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestService_UpdateStatus_SuccessCascade(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, models.CreatePaymentInput{Amount: 100, Currency: "USD", BidID: &f.bid.ID, TxRef: "TX-1"})
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(ctx, p.ID, models.PaymentStatusSuccess, map[string]interface{}{"flw": "ok"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, updated.Status)

	txs, err := f.store.Transactions.ListByUser(ctx, f.bid.InvestorID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionTypeInvestment, txs[0].Type)
	assert.Equal(t, 100.0, txs[0].Amount)
	assert.Equal(t, "TX-1", txs[0].RelatedID)
	assert.Equal(t, "Payment successful (txRef: TX-1)", txs[0].Description)

	notes, err := f.store.Notifications.ListByUser(ctx, f.bid.InvestorID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationTypeSystem, notes[0].Type)
	assert.Equal(t, "Your payment of USD 100 was successful.", notes[0].Message)
	assert.False(t, notes[0].Read)
	assert.EqualValues(t, p.ID, notes[0].Meta["paymentId"])

	assert.Equal(t, []string{events.PaymentSucceeded, events.NotificationCreated}, f.published.Types())

	// A repeated success must not cascade again.
	_, err = f.svc.UpdateStatus(ctx, p.ID, models.PaymentStatusSuccess, nil)
	require.NoError(t, err)
	txs, err = f.store.Transactions.ListByUser(ctx, f.bid.InvestorID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	stored, err := f.svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ok", stored.Response["flw"])
}

func TestService_UpdateStatus_NoCascade(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	missingBid := uint(999)

	tests := []struct {
		name   string
		input  models.CreatePaymentInput
		status models.PaymentStatus
	}{
		{"failed payment", models.CreatePaymentInput{Amount: 10, Currency: "USD", BidID: &f.bid.ID}, models.PaymentStatusFailed},
		{"no bid reference", models.CreatePaymentInput{Amount: 10, Currency: "USD"}, models.PaymentStatusSuccess},
		{"missing bid", models.CreatePaymentInput{Amount: 10, Currency: "USD", BidID: &missingBid}, models.PaymentStatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.svc.Create(ctx, tt.input)
			require.NoError(t, err)

			updated, err := f.svc.UpdateStatus(ctx, p.ID, tt.status, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.status, updated.Status)
		})
	}

	txs, err := f.store.Transactions.ListByUser(ctx, f.bid.InvestorID)
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.Empty(t, f.published.Types())
}

func TestService_UpdateStatus_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpdateStatus(ctx, 999, models.PaymentStatusSuccess, nil)
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	p, err := f.svc.Create(ctx, models.CreatePaymentInput{Amount: 10, Currency: "USD"})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, p.ID, "refunded", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_UpdateStatus_SuccessIsFinal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, models.CreatePaymentInput{Amount: 40, Currency: "USD", BidID: &f.bid.ID, TxRef: "TX-2"})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, p.ID, models.PaymentStatusSuccess, nil)
	require.NoError(t, err)

	for _, status := range []models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusFailed} {
		_, err = f.svc.UpdateStatus(ctx, p.ID, status, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
	_, err = f.svc.UpdateStatusByTxRef(ctx, "TX-2", models.PaymentStatusPending, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.UpdateStatus(ctx, p.ID, models.PaymentStatusSuccess, nil)
	require.NoError(t, err)

	stored, err := f.svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, stored.Status)

	txs, err := f.store.Transactions.ListByRelated(ctx, "TX-2")
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	notes, err := f.store.Notifications.ListByUser(ctx, f.bid.InvestorID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestService_UpdateStatusByTxRef(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, models.CreatePaymentInput{Amount: 70, Currency: "USD", BidID: &f.bid.ID, TxRef: "FLW-9"})
	require.NoError(t, err)

	p, err := f.svc.UpdateStatusByTxRef(ctx, "FLW-9", models.PaymentStatusSuccess, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, p.Status)

	_, err = f.svc.UpdateStatusByTxRef(ctx, "unknown", models.PaymentStatusSuccess, nil)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestService_ListByInvestorAndGet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, models.CreatePaymentInput{Amount: 10, Currency: "USD", BidID: &f.bid.ID})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, models.CreatePaymentInput{Amount: 20, Currency: "USD", BidID: &f.bid.ID})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, models.CreatePaymentInput{Amount: 30, Currency: "USD"})
	require.NoError(t, err)

	payments, err := f.svc.ListByInvestor(ctx, f.bid.InvestorID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, second.ID, payments[0].ID)
	assert.Equal(t, first.ID, payments[1].ID)

	none, err := f.svc.ListByInvestor(ctx, 77)
	require.NoError(t, err)
	assert.Empty(t, none)

	investor := models.Actor{ProfileID: f.bid.InvestorID, Role: models.RoleInvestor}
	got, err := f.svc.Get(ctx, investor, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = f.svc.Get(ctx, models.Actor{ProfileID: 77, Role: models.RoleInvestor}, first.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
