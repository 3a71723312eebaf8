package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "profile:external:user_2abc", ProfileExternalKey("user_2abc"))
	assert.Equal(t, "profile:id:7", ProfileIDKey(7))
	assert.Equal(t, "campaign:id:12", CampaignKey(12))
}

func TestNoop(t *testing.T) {
	var s Store = Noop{}
	var dest map[string]string

	found, err := s.Get(context.Background(), "k", &dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, s.Set(context.Background(), "k", "v"))
	assert.NoError(t, s.Delete(context.Background(), "k"))
}
