package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var p Publisher = &Recorder{}
	require.NoError(t, p.Publish(context.Background(), Event{ID: "1", Type: NotificationCreated}))
	require.NoError(t, p.Publish(context.Background(), Event{ID: "2", Type: PayoutCompleted}))

	assert.Equal(t, []string{NotificationCreated, PayoutCompleted}, p.(*Recorder).Types())
	assert.NoError(t, p.Close())
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: PaymentSucceeded}))
	assert.NoError(t, p.Close())
}
