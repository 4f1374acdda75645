package i

import (
	"context"

	"github.com/beka-birhanu/vinom-chase/maze"
)

// MazeCache stores generated grids keyed by their generation parameters.
type MazeCache interface {
	// Get returns the cached grid, or ok=false on a miss.
	Get(ctx context.Context, key string) (grid *maze.Grid, ok bool, err error)

	Set(ctx context.Context, key string, grid *maze.Grid) error

	// Lock serializes generation of one key across workers. The returned
	// function releases the lock.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// MazeProvider returns the grid for a set of generation parameters.
type MazeProvider interface {
	Maze(ctx context.Context, cfg maze.Config) (*maze.Grid, error)
}
