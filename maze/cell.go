package maze

import "math"

// Cell is the state of a single grid unit.
type Cell uint8

const (
	Wall  Cell = iota // Wall blocks movement.
	Floor             // Floor is traversable.
)

// String returns the ASCII glyph used when rendering the grid.
func (c Cell) String() string {
	if c == Floor {
		return " "
	}
	return "#"
}

// CellPosition represents the integer coordinate of a cell in the grid.
type CellPosition struct {
	X int `json:"x"` // Column index of the cell
	Y int `json:"y"` // Row index of the cell
}

// Directions lists the 4-connected unit offsets in a fixed order.
// Iteration order matters for reproducible searches, so this is a slice.
var Directions = []CellPosition{
	{X: 0, Y: 1},  // Up
	{X: 0, Y: -1}, // Down
	{X: -1, Y: 0}, // Left
	{X: 1, Y: 0},  // Right
}

// Add returns the position offset by d.
func (p CellPosition) Add(d CellPosition) CellPosition {
	return CellPosition{X: p.X + d.X, Y: p.Y + d.Y}
}

// Manhattan returns the L1 distance between two cells.
func (p CellPosition) Manhattan(o CellPosition) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// Euclidean returns the straight-line distance between two cell centers.
func (p CellPosition) Euclidean(o CellPosition) float64 {
	return math.Hypot(float64(p.X-o.X), float64(p.Y-o.Y))
}

// Adjacent reports whether o is one of the 4 neighbours of p.
func (p CellPosition) Adjacent(o CellPosition) bool {
	return p.Manhattan(o) == 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
