package mazecache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server only when REDIS_TEST_ADDR is set.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestNewRedisMazeCacheNeedsClient(t *testing.T) {
	_, err := NewRedisMazeCache(nil, time.Minute)
	assert.Error(t, err)
}

func TestRedisMazeCache(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	c, err := NewRedisMazeCache(client, time.Minute)
	require.NoError(t, err)

	key := "test:maze:" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), key) })

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	g, err := maze.Generate(maze.Config{Width: 21, Height: 21, Seed: 12345, ExtraPassageFraction: 0.2})
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, key, g))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, g.Equal(got))
	assert.Equal(t, g.Seed(), got.Seed())

	unlock, err := c.Lock(ctx, key)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = c.Lock(short, key)
	assert.Error(t, err, "second holder waits for the first")

	unlock()
	unlock2, err := c.Lock(ctx, key)
	require.NoError(t, err)
	unlock2()
}
