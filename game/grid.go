package game

import "github.com/beka-birhanu/vinom-chase/maze"

// GridSource yields the currently published maze and its version. A version
// change tells holders of paths that those paths may cross new walls.
// *maze.Store implements it.
type GridSource interface {
	Snapshot() (*maze.Grid, uint64)
}

// staticGrid serves a single grid that never changes.
type staticGrid struct {
	grid *maze.Grid
}

// StaticGrid wraps a fixed grid as a GridSource.
func StaticGrid(g *maze.Grid) GridSource {
	return staticGrid{grid: g}
}

func (s staticGrid) Snapshot() (*maze.Grid, uint64) {
	return s.grid, 1
}
