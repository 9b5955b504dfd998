package persister

import (
	"context"
	"os"
	"testing"
	"time"

	"ai-agent-platform/pkg/profile"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a live server: REDIS_TEST_URL=redis://localhost:6379/15
func TestRedisPersister(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	p := NewRedisPersister(rdb, time.Minute)
	id := uuid.NewString()

	missing, err := p.LoadProfile(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, p.SaveProfile(ctx, id, map[string]string{"name": "Ada"}))
	got, err := p.LoadProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Ada"}, got)

	require.NoError(t, p.SaveSession(ctx, profile.Snapshot{ID: id, State: profile.StateActive}))
	ttl, err := rdb.TTL(ctx, sessionKeyPrefix+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	rdb.Del(ctx, profileKeyPrefix+id, sessionKeyPrefix+id)
}
