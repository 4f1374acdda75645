package maze

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
)

const (
	// MinDimension is the smallest accepted width or height.
	MinDimension = 5
	// MaxDimension bounds the grid so a single BFS stays cheap.
	MaxDimension = 501
)

var (
	ErrInvalidDimensions      = errors.New("invalid maze dimensions")
	ErrInvalidPassageFraction = errors.New("extra passage fraction must be within [0, 1]")
)

// Config describes one maze generation.
type Config struct {
	Width                int     // Number of columns, at least MinDimension (odd preferred)
	Height               int     // Number of rows, at least MinDimension (odd preferred)
	Seed                 int64   // Seed of the random stream driving the whole generation
	ExtraPassageFraction float64 // Share of breakable walls removed after the spanning tree
}

// Validate rejects configurations that cannot produce a maze.
func (c Config) Validate() error {
	if min(c.Width, c.Height) < MinDimension || max(c.Width, c.Height) > MaxDimension {
		return fmt.Errorf("%w: %dx%d (each side must be within [%d, %d])", ErrInvalidDimensions, c.Width, c.Height, MinDimension, MaxDimension)
	}
	if c.ExtraPassageFraction < 0 || c.ExtraPassageFraction > 1 || math.IsNaN(c.ExtraPassageFraction) {
		return fmt.Errorf("%w: got %v", ErrInvalidPassageFraction, c.ExtraPassageFraction)
	}
	return nil
}

// carveDirections are the distance-2 steps of the spanning-tree lattice.
var carveDirections = []CellPosition{
	{X: 0, Y: 2},
	{X: 0, Y: -2},
	{X: -2, Y: 0},
	{X: 2, Y: 0},
}

// Generate builds a new grid from cfg. The same Config always yields an
// identical grid.
func Generate(cfg Config) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := newGrid(cfg.Width, cfg.Height, cfg.Seed)
	rng := rand.New(rand.NewSource(cfg.Seed))

	carveSpanningTree(g, rng)
	addExtraPassages(g, cfg.ExtraPassageFraction, rng)
	enforceInvariants(g)
	return g, nil
}

// carveSpanningTree runs a randomized Prim's carve starting at (1,1).
// Frontier cells are wall cells two steps away from the carved region; each
// is connected to a random carved neighbour through the wall between them.
func carveSpanningTree(g *Grid, rng *rand.Rand) {
	g.set(1, 1, Floor)

	var frontiers []CellPosition
	queued := make(map[CellPosition]struct{})
	addFrontiers := func(from CellPosition) {
		for _, d := range carveDirections {
			next := from.Add(d)
			if !g.interior(next) || g.At(next.X, next.Y) != Wall {
				continue
			}
			if _, ok := queued[next]; ok {
				continue
			}
			queued[next] = struct{}{}
			frontiers = append(frontiers, next)
		}
	}
	addFrontiers(CellPosition{X: 1, Y: 1})

	for len(frontiers) > 0 {
		i := rng.Intn(len(frontiers))
		frontier := frontiers[i]
		frontiers = slices.Delete(frontiers, i, i+1)
		delete(queued, frontier)

		neighbors := g.carvedNeighbors(frontier)
		if len(neighbors) == 0 {
			continue
		}
		neighbor := neighbors[rng.Intn(len(neighbors))]

		g.set(frontier.X, frontier.Y, Floor)
		g.set((frontier.X+neighbor.X)/2, (frontier.Y+neighbor.Y)/2, Floor)
		addFrontiers(frontier)
	}
}

// carvedNeighbors lists the floor cells two steps away from pos, in carveDirections order.
func (g *Grid) carvedNeighbors(pos CellPosition) []CellPosition {
	neighbors := make([]CellPosition, 0, len(carveDirections))
	for _, d := range carveDirections {
		next := pos.Add(d)
		if g.interior(next) && g.At(next.X, next.Y) == Floor {
			neighbors = append(neighbors, next)
		}
	}
	return neighbors
}

// interior reports whether pos is inside the border ring.
func (g *Grid) interior(pos CellPosition) bool {
	return pos.X > 0 && pos.Y > 0 && pos.X < g.width-1 && pos.Y < g.height-1
}

// addExtraPassages removes round(breakable*fraction) breakable walls, chosen
// uniformly without replacement from the same random stream. A drawn wall is
// skipped when earlier removals mean opening it would complete a 2x2 room.
func addExtraPassages(g *Grid, fraction float64, rng *rand.Rand) {
	if fraction <= 0 {
		return
	}

	breakable := g.breakableWalls()
	toBreak := int(math.Round(float64(len(breakable)) * fraction))
	for i := 0; i < toBreak && len(breakable) > 0; i++ {
		j := rng.Intn(len(breakable))
		wall := breakable[j]
		breakable = slices.Delete(breakable, j, j+1)
		if g.opensRoom(wall.X, wall.Y) {
			continue
		}
		g.set(wall.X, wall.Y, Floor)
	}
}

// breakableWalls lists interior walls that qualify for removal, x-major.
func (g *Grid) breakableWalls() []CellPosition {
	var breakable []CellPosition
	for x := 1; x < g.width-1; x++ {
		for y := 1; y < g.height-1; y++ {
			if g.At(x, y) == Wall && g.canBreakWall(x, y) {
				breakable = append(breakable, CellPosition{X: x, Y: y})
			}
		}
	}
	return breakable
}

// canBreakWall holds when the wall separates two floor cells along one axis
// and is flanked by walls on the other. Junction walls, where passages meet
// from both axes, never qualify.
func (g *Grid) canBreakWall(x, y int) bool {
	horizontalOpen := g.At(x-1, y) == Floor && g.At(x+1, y) == Floor
	horizontalBlocked := g.At(x-1, y) == Wall && g.At(x+1, y) == Wall
	verticalOpen := g.At(x, y-1) == Floor && g.At(x, y+1) == Floor
	verticalBlocked := g.At(x, y-1) == Wall && g.At(x, y+1) == Wall
	return (horizontalOpen && verticalBlocked) || (verticalOpen && horizontalBlocked)
}

// opensRoom reports whether turning (x, y) into floor would complete a fully
// open 2x2 square.
func (g *Grid) opensRoom(x, y int) bool {
	for dx := -1; dx <= 0; dx++ {
		for dy := -1; dy <= 0; dy++ {
			open := true
			for cx := x + dx; cx <= x+dx+1 && open; cx++ {
				for cy := y + dy; cy <= y+dy+1; cy++ {
					if (cx != x || cy != y) && g.At(cx, cy) != Floor {
						open = false
						break
					}
				}
			}
			if open {
				return true
			}
		}
	}
	return false
}

// enforceInvariants re-asserts the border ring and the two corner floors.
func enforceInvariants(g *Grid) {
	for x := 0; x < g.width; x++ {
		g.set(x, 0, Wall)
		g.set(x, g.height-1, Wall)
	}
	for y := 0; y < g.height; y++ {
		g.set(0, y, Wall)
		g.set(g.width-1, y, Wall)
	}

	g.set(1, 1, Floor)
	far := CellPosition{X: g.width - 2, Y: g.height - 2}
	if g.At(far.X, far.Y) == Floor {
		return
	}
	g.set(far.X, far.Y, Floor)
	connectCorner(g, far)
}

// connectCorner links a forced-open corner to the carved region. With even
// dimensions the far corner sits off the carving lattice and would otherwise
// be an isolated floor cell.
func connectCorner(g *Grid, corner CellPosition) {
	for _, d := range Directions {
		n := corner.Add(d)
		if g.At(n.X, n.Y) == Floor {
			return
		}
	}
	for _, d := range Directions {
		n := corner.Add(d)
		if !g.interior(n) {
			continue
		}
		for _, d2 := range Directions {
			nn := n.Add(d2)
			if nn != corner && g.At(nn.X, nn.Y) == Floor {
				g.set(n.X, n.Y, Floor)
				return
			}
		}
	}
}
