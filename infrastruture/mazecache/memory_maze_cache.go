package mazecache

import (
	"context"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/beka-birhanu/vinom-chase/service/i"
)

type memoryEntry struct {
	grid    *maze.Grid
	expires time.Time
}

// MemoryMazeCache is an in-process MazeCache for single-node runs and tests.
// Grids are immutable, so entries are shared rather than copied.
type MemoryMazeCache struct {
	entries map[string]memoryEntry
	locks   map[string]*sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
}

// NewMemoryMazeCache creates a cache whose entries live for ttl; zero keeps them forever.
func NewMemoryMazeCache(ttl time.Duration) i.MazeCache {
	return &MemoryMazeCache{
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]*sync.Mutex),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryMazeCache) Get(_ context.Context, key string) (*maze.Grid, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.grid, true, nil
}

func (c *MemoryMazeCache) Set(_ context.Context, key string, grid *maze.Grid) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := memoryEntry{grid: grid}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryMazeCache) Lock(ctx context.Context, key string) (func(), error) {
	c.mu.Lock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.Lock()
	return l.Unlock, nil
}
