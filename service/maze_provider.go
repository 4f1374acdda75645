package service

import (
	"context"
	"fmt"

	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/beka-birhanu/vinom-chase/service/i"
)

// MazeProvider serves generated mazes, consulting a shared cache first so that
// workers asking for the same parameters reuse one generation.
type MazeProvider struct {
	cache  i.MazeCache
	logger i.Logger
}

type MazeProviderConfig struct {
	Cache  i.MazeCache // optional
	Logger i.Logger
}

func NewMazeProvider(c *MazeProviderConfig) *MazeProvider {
	return &MazeProvider{cache: c.Cache, logger: c.Logger}
}

// CacheKey identifies a maze by every parameter that affects generation.
func CacheKey(cfg maze.Config) string {
	return fmt.Sprintf("maze:%dx%d:%d:%g", cfg.Width, cfg.Height, cfg.Seed, cfg.ExtraPassageFraction)
}

// Maze returns the grid for cfg. On a miss it takes the key's lock, checks the
// cache again, and only then generates and stores the grid. Cache failures
// fall back to generating locally.
func (p *MazeProvider) Maze(ctx context.Context, cfg maze.Config) (*maze.Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if p.cache == nil {
		return maze.Generate(cfg)
	}

	key := CacheKey(cfg)
	if g, ok := p.lookup(ctx, key); ok {
		return g, nil
	}

	unlock, err := p.cache.Lock(ctx, key)
	if err != nil {
		p.logger.Warning(fmt.Sprintf("locking %s: %s", key, err))
		return maze.Generate(cfg)
	}
	defer unlock()

	if g, ok := p.lookup(ctx, key); ok {
		return g, nil
	}

	g, err := maze.Generate(cfg)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Set(ctx, key, g); err != nil {
		p.logger.Warning(fmt.Sprintf("caching %s: %s", key, err))
	} else {
		p.logger.Info(fmt.Sprintf("generated and cached %s", key))
	}
	return g, nil
}

func (p *MazeProvider) lookup(ctx context.Context, key string) (*maze.Grid, bool) {
	g, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warning(fmt.Sprintf("reading %s: %s", key, err))
		return nil, false
	}
	return g, ok
}
