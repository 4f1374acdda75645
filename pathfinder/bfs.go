// Package pathfinder computes shortest walkable routes over maze grids.
//
// All searches are breadth-first over 4-connected floor cells. Grids are
// treated as immutable input; a Pathfinder may keep the adjacency of the last
// grid it saw and rebuilds it whenever a different grid is passed in.
package pathfinder

import (
	"math"
	"slices"
	"sync"

	"github.com/beka-birhanu/vinom-chase/maze"
)

// Unreachable is the distance reported when no path exists.
const Unreachable = math.MaxInt

// Path is an ordered sequence of cells from (excluding) a start to (including) a goal.
type Path []maze.CellPosition

// Pathfinder runs BFS queries and caches adjacency for the most recent grid.
type Pathfinder struct {
	mu        sync.Mutex
	grid      *maze.Grid
	adjacency [][]int32 // floor cell index -> floor neighbour indices
}

// New creates a Pathfinder with an empty cache.
func New() *Pathfinder {
	return &Pathfinder{}
}

// ShortestPath returns some shortest path from start to goal, or nil when the
// goal is unreachable, either endpoint is a wall, or start equals goal.
func (p *Pathfinder) ShortestPath(g *maze.Grid, start, goal maze.CellPosition) Path {
	if !g.IsFloor(start) || !g.IsFloor(goal) || start == goal {
		return nil
	}

	adj := p.adjacencyFor(g)
	w := g.Width()
	from, to := index(w, start), index(w, goal)
	parent := search(adj, len(adj), from, to)
	if parent == nil {
		return nil
	}

	var path Path
	for step := to; step != from; step = parent[step] {
		path = append(path, position(w, step))
	}
	slices.Reverse(path)
	return path
}

// ShortestDistance returns the number of steps between start and goal, or Unreachable.
func (p *Pathfinder) ShortestDistance(g *maze.Grid, start, goal maze.CellPosition) int {
	if !g.IsFloor(start) || !g.IsFloor(goal) {
		return Unreachable
	}
	if start == goal {
		return 0
	}

	adj := p.adjacencyFor(g)
	w := g.Width()
	from, to := index(w, start), index(w, goal)
	parent := search(adj, len(adj), from, to)
	if parent == nil {
		return Unreachable
	}

	steps := 0
	for step := to; step != from; step = parent[step] {
		steps++
	}
	return steps
}

// DistanceField returns BFS distances from start to every cell, indexed
// y*width+x, with Unreachable for walls and disconnected cells.
func (p *Pathfinder) DistanceField(g *maze.Grid, start maze.CellPosition) []int {
	dist := make([]int, g.Width()*g.Height())
	for i := range dist {
		dist[i] = Unreachable
	}
	if !g.IsFloor(start) {
		return dist
	}

	adj := p.adjacencyFor(g)
	from := index(g.Width(), start)
	dist[from] = 0
	queue := []int32{int32(from)}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if dist[next] != Unreachable {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// search runs BFS from -> to over adj and returns parent pointers, or nil
// when to is not reached. Each cell keeps the first discoverer as its parent.
func search(adj [][]int32, size, from, to int) []int {
	parent := make([]int, size)
	for i := range parent {
		parent[i] = -1
	}
	parent[from] = from

	queue := []int32{int32(from)}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if int(cur) == to {
			return parent
		}
		for _, next := range adj[cur] {
			if parent[next] != -1 {
				continue
			}
			parent[next] = int(cur)
			queue = append(queue, next)
		}
	}
	return nil
}

// adjacencyFor returns the cached adjacency of g, building it on first use.
func (p *Pathfinder) adjacencyFor(g *maze.Grid) [][]int32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.grid == g && p.adjacency != nil {
		return p.adjacency
	}

	w, h := g.Width(), g.Height()
	adj := make([][]int32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cur := maze.CellPosition{X: x, Y: y}
			if !g.IsFloor(cur) {
				continue
			}
			for _, d := range maze.Directions {
				n := cur.Add(d)
				if g.IsFloor(n) {
					adj[index(w, cur)] = append(adj[index(w, cur)], int32(index(w, n)))
				}
			}
		}
	}

	p.grid = g
	p.adjacency = adj
	return adj
}

func index(width int, pos maze.CellPosition) int {
	return pos.Y*width + pos.X
}

func position(width, i int) maze.CellPosition {
	return maze.CellPosition{X: i % width, Y: i / width}
}

var shared = New()

// ShortestPath runs a query on a package-level Pathfinder.
func ShortestPath(g *maze.Grid, start, goal maze.CellPosition) Path {
	return shared.ShortestPath(g, start, goal)
}

// ShortestDistance runs a query on a package-level Pathfinder.
func ShortestDistance(g *maze.Grid, start, goal maze.CellPosition) int {
	return shared.ShortestDistance(g, start, goal)
}
