package payout

import (
	"context"
	"testing"
	"time"

	"cultivate/internal/events"
	"cultivate/internal/logger"
	"cultivate/internal/models"
	"cultivate/internal/repositories"
	"cultivate/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = models.Actor{ProfileID: 1, Role: models.RoleAdmin}

func setup(t *testing.T) (*service, *repositories.Store, *events.Recorder) {
	store := repotest.NewStore(t)
	rec := &events.Recorder{}
	svc := NewService(store, rec, logger.Discard()).(*service)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, store, rec
}

func TestService_Create(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  uint
		input   models.CreatePayoutInput
		wantErr bool
	}{
		{"valid", 5, models.CreatePayoutInput{Amount: 20, Method: "bank_transfer", Details: "GTB 0123"}, false},
		{"zero amount", 5, models.CreatePayoutInput{Method: "bank_transfer"}, true},
		{"missing method", 5, models.CreatePayoutInput{Amount: 20}, true},
		{"missing user", 0, models.CreatePayoutInput{Amount: 20, Method: "flutterwave"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Create(ctx, tt.userID, tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPayout)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.PayoutStatusPending, p.Status)

			trail, err := svc.AuditTrail(ctx, p.ID)
			require.NoError(t, err)
			require.Len(t, trail, 1)
			assert.Equal(t, models.PayoutActionRequested, trail[0].Action)
		})
	}
}

func TestService_Lifecycle(t *testing.T) {
	svc, store, rec := setup(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, 5, models.CreatePayoutInput{Amount: 20, Method: "bank_transfer", Details: "GTB"})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, admin, p.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Approve(ctx, models.Actor{ProfileID: 5, Role: models.RoleInvestor}, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	approved, err := svc.Approve(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusApproved, approved.Status)
	assert.Equal(t, "GTB | Approved by: 1 at 1700000000000", approved.Details)

	_, err = svc.Approve(ctx, admin, p.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Reject(ctx, admin, p.ID, "late")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	paid, err := svc.Complete(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPaid, paid.Status)

	txs, err := store.Transactions.ListByUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionTypePayout, txs[0].Type)
	assert.Equal(t, "USD", txs[0].Currency)
	assert.Equal(t, "Payout completed", txs[0].Description)
	assert.Equal(t, 20.0, txs[0].Amount)

	_, err = svc.Complete(ctx, admin, p.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	txs, err = store.Transactions.ListByUser(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	trail, err := svc.AuditTrail(ctx, p.ID)
	require.NoError(t, err)
	actions := make([]string, 0, len(trail))
	for _, a := range trail {
		actions = append(actions, a.Action)
	}
	assert.Equal(t, []string{models.PayoutActionRequested, models.PayoutActionApproved, models.PayoutActionPaid}, actions)
	assert.Equal(t, []string{events.PayoutCompleted}, rec.Types())
}

func TestService_Reject(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, 5, models.CreatePayoutInput{Amount: 20, Method: "bank_transfer"})
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, admin, p.ID, "account mismatch")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusRejected, rejected.Status)

	_, err = svc.Approve(ctx, admin, p.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	trail, err := svc.AuditTrail(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, "account mismatch", trail[1].Note)

	_, err = svc.AuditTrail(ctx, 999)
	assert.ErrorIs(t, err, ErrPayoutNotFound)
	_, err = svc.Approve(ctx, admin, 999)
	assert.ErrorIs(t, err, ErrPayoutNotFound)
}

func TestService_Lists(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, 5, models.CreatePayoutInput{Amount: 1, Method: "m"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, 5, models.CreatePayoutInput{Amount: 2, Method: "m"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 6, models.CreatePayoutInput{Amount: 3, Method: "m"})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, admin, first.ID)
	require.NoError(t, err)

	mine, err := svc.ListByUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	all, err := svc.ListAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	approved, err := svc.ListAll(ctx, models.PayoutStatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, first.ID, approved[0].ID)
}
