package game

import (
	"math"

	"github.com/beka-birhanu/vinom-chase/maze"
)

// Vec2 is a continuous position or direction in grid units. Cell (x, y) has
// its center at Vec2{x, y}.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CellCenter returns the continuous position of a cell.
func CellCenter(c maze.CellPosition) Vec2 {
	return Vec2{X: float64(c.X), Y: float64(c.Y)}
}

// Cell returns the grid cell containing v.
func (v Vec2) Cell() maze.CellPosition {
	return maze.CellPosition{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalized returns the unit vector along v, or the zero vector.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Distance returns the Euclidean distance between v and o.
func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Len()
}

// MoveTowards moves cur toward target by at most maxDelta without overshooting.
func MoveTowards(cur, target Vec2, maxDelta float64) Vec2 {
	delta := target.Sub(cur)
	dist := delta.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return cur.Add(delta.Scale(maxDelta / dist))
}

// AngleBetween returns the angle in degrees between two non-zero vectors.
func AngleBetween(a, b Vec2) float64 {
	cos := a.Normalized().Dot(b.Normalized())
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
