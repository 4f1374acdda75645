package game

import (
	"math/rand"

	"github.com/beka-birhanu/vinom-chase/maze"
)

// DefaultMinSeparation is the Manhattan distance kept between spawned actors.
const DefaultMinSeparation = 15

// PlaceActors picks spawn cells for the target and the pursuer among the
// non-border floor cells of g.
//
// The target cell is uniform. The pursuer cell is uniform among cells at
// Manhattan distance >= minSeparation from the target; when none qualifies it
// is the cell farthest from the target in Euclidean distance, the first one in
// enumeration order on ties. Grids with fewer than two floor cells get the two
// opposite corners.
func PlaceActors(g *maze.Grid, minSeparation int, rng *rand.Rand) (target, pursuer maze.CellPosition) {
	cells := g.FloorCells()
	if len(cells) < 2 {
		return maze.CellPosition{X: 1, Y: 1}, maze.CellPosition{X: g.Width() - 2, Y: g.Height() - 2}
	}

	target = cells[rng.Intn(len(cells))]

	candidates := make([]maze.CellPosition, 0, len(cells))
	for _, c := range cells {
		if c != target && c.Manhattan(target) >= minSeparation {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) > 0 {
		return target, candidates[rng.Intn(len(candidates))]
	}

	return target, farthestFrom(cells, target)
}

func farthestFrom(cells []maze.CellPosition, from maze.CellPosition) maze.CellPosition {
	best, bestDist := from, -1.0
	for _, c := range cells {
		if d := c.Euclidean(from); d > bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
