/*
Package maze provides seeded procedural maze generation on a wall/floor grid.

A Grid is an immutable snapshot: it is built completely by Generate and never
mutated afterwards. Consumers that need to follow regenerations hold a Store,
which publishes new grids by swapping a pointer.

Generation carves a randomized spanning tree (Prim's style) from cell (1,1),
optionally removes a fraction of the walls that separate two floor cells to
create loops, and finally re-asserts the border and corner invariants.
*/
package maze

import (
	"strings"
)

// Grid represents a rectangular maze of wall and floor cells.
// The outer ring is always Wall; (1,1) and (Width-2,Height-2) are always Floor.
type Grid struct {
	width  int    // Width of the maze (number of columns)
	height int    // Height of the maze (number of rows)
	seed   int64  // Seed the grid was generated from
	cells  []Cell // Row-major cell states, index = y*width + x
}

// newGrid allocates a grid with every cell set to Wall.
func newGrid(width, height int, seed int64) *Grid {
	return &Grid{
		width:  width,
		height: height,
		seed:   seed,
		cells:  make([]Cell, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// Seed returns the seed the grid was generated from.
func (g *Grid) Seed() int64 {
	return g.seed
}

// InBound reports whether (x, y) lies inside the grid.
func (g *Grid) InBound(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the state of (x, y). Out-of-bound coordinates read as Wall.
func (g *Grid) At(x, y int) Cell {
	if !g.InBound(x, y) {
		return Wall
	}
	return g.cells[y*g.width+x]
}

// IsFloor reports whether pos is an in-bound floor cell.
func (g *Grid) IsFloor(pos CellPosition) bool {
	return g.At(pos.X, pos.Y) == Floor
}

// IsWall reports whether pos is a wall or lies outside the grid.
func (g *Grid) IsWall(pos CellPosition) bool {
	return g.At(pos.X, pos.Y) == Wall
}

// FloorCells enumerates the floor cells excluding the border, x-major.
func (g *Grid) FloorCells() []CellPosition {
	cells := make([]CellPosition, 0, len(g.cells)/2)
	for x := 1; x < g.width-1; x++ {
		for y := 1; y < g.height-1; y++ {
			if g.cells[y*g.width+x] == Floor {
				cells = append(cells, CellPosition{X: x, Y: y})
			}
		}
	}
	return cells
}

// Rows returns a copy of the grid as rows of booleans, true for walls.
// Row 0 is y = 0.
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, g.height)
	for y := range rows {
		rows[y] = make([]bool, g.width)
		for x := range rows[y] {
			rows[y][x] = g.cells[y*g.width+x] == Wall
		}
	}
	return rows
}

// Equal reports whether two grids have identical dimensions and cells.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// String provides a textual representation of the maze, top row first.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.width + 1) * g.height)
	for y := g.height - 1; y >= 0; y-- {
		for x := 0; x < g.width; x++ {
			b.WriteString(g.cells[y*g.width+x].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// set is only used while the grid is under construction.
func (g *Grid) set(x, y int, c Cell) {
	g.cells[y*g.width+x] = c
}
