package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Info(msg string)    { l.add("INFO " + msg) }
func (l *recordingLogger) Warning(msg string) { l.add("WARNING " + msg) }
func (l *recordingLogger) Error(msg string)   { l.add("ERROR " + msg) }

func (l *recordingLogger) add(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
}

type countingCache struct {
	mu      sync.Mutex
	grids   map[string]*maze.Grid
	gets    int
	sets    int
	locks   int
	failGet bool
}

func newCountingCache() *countingCache {
	return &countingCache{grids: make(map[string]*maze.Grid)}
}

func (c *countingCache) Get(_ context.Context, key string) (*maze.Grid, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return nil, false, errors.New("connection refused")
	}
	g, ok := c.grids[key]
	return g, ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, g *maze.Grid) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.grids[key] = g
	return nil
}

func (c *countingCache) Lock(context.Context, string) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locks++
	return func() {}, nil
}

var providerMaze = maze.Config{Width: 21, Height: 21, Seed: 12345, ExtraPassageFraction: 0.2}

func TestMazeProviderWithoutCache(t *testing.T) {
	p := NewMazeProvider(&MazeProviderConfig{Logger: &recordingLogger{}})

	g, err := p.Maze(context.Background(), providerMaze)
	require.NoError(t, err)
	want, err := maze.Generate(providerMaze)
	require.NoError(t, err)
	assert.True(t, want.Equal(g))
}

func TestMazeProviderCachesGenerations(t *testing.T) {
	cache := newCountingCache()
	p := NewMazeProvider(&MazeProviderConfig{Cache: cache, Logger: &recordingLogger{}})
	ctx := context.Background()

	first, err := p.Maze(ctx, providerMaze)
	require.NoError(t, err)
	second, err := p.Maze(ctx, providerMaze)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, cache.locks)
	assert.Equal(t, 3, cache.gets, "miss, re-check under lock, hit")

	other := providerMaze
	other.Seed = 54321
	third, err := p.Maze(ctx, other)
	require.NoError(t, err)
	assert.False(t, third.Equal(first))
	assert.Equal(t, 2, cache.sets)
}

func TestMazeProviderFallsBackOnCacheErrors(t *testing.T) {
	cache := newCountingCache()
	cache.failGet = true
	log := &recordingLogger{}
	p := NewMazeProvider(&MazeProviderConfig{Cache: cache, Logger: log})

	g, err := p.Maze(context.Background(), providerMaze)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), g.Seed())
	assert.NotEmpty(t, log.lines)
}

func TestMazeProviderRejectsInvalidConfig(t *testing.T) {
	cache := newCountingCache()
	p := NewMazeProvider(&MazeProviderConfig{Cache: cache, Logger: &recordingLogger{}})

	_, err := p.Maze(context.Background(), maze.Config{Width: 1, Height: 21})
	assert.ErrorIs(t, err, maze.ErrInvalidDimensions)
	assert.Zero(t, cache.gets)
}

func TestCacheKeyCoversAllParameters(t *testing.T) {
	base := CacheKey(providerMaze)
	for _, cfg := range []maze.Config{
		{Width: 23, Height: 21, Seed: 12345, ExtraPassageFraction: 0.2},
		{Width: 21, Height: 23, Seed: 12345, ExtraPassageFraction: 0.2},
		{Width: 21, Height: 21, Seed: 1, ExtraPassageFraction: 0.2},
		{Width: 21, Height: 21, Seed: 12345, ExtraPassageFraction: 0.3},
	} {
		assert.NotEqual(t, base, CacheKey(cfg))
	}
}
