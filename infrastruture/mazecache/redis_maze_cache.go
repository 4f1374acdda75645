// Package mazecache keeps generated mazes so identical generation requests
// are served without carving the grid again.
package mazecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const lockExpiry = 5 * time.Second

// RedisMazeCache stores encoded grids in Redis with a TTL and guards
// generation with a redsync mutex per key.
type RedisMazeCache struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
}

// NewRedisMazeCache initializes a RedisMazeCache with the provided Redis client and TTL.
func NewRedisMazeCache(client *redis.Client, ttl time.Duration) (i.MazeCache, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	pool := goredis.NewPool(client)
	return &RedisMazeCache{
		client: client,
		locker: redsync.New(pool),
		ttl:    ttl,
	}, nil
}

// Get fetches and decodes the grid stored under key.
func (c *RedisMazeCache) Get(ctx context.Context, key string) (*maze.Grid, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var g maze.Grid
	if err := g.UnmarshalBinary(payload); err != nil {
		return nil, false, fmt.Errorf("decode cached maze %s: %w", key, err)
	}
	return &g, true, nil
}

// Set encodes grid and stores it under key with the cache TTL.
func (c *RedisMazeCache) Set(ctx context.Context, key string, grid *maze.Grid) error {
	payload, err := grid.MarshalBinary()
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// Lock takes the distributed generation lock for key.
func (c *RedisMazeCache) Lock(ctx context.Context, key string) (func(), error) {
	mutex := c.locker.NewMutex(key+":generate_lock", redsync.WithExpiry(lockExpiry))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}
	return func() {
		_, _ = mutex.Unlock()
	}, nil
}
