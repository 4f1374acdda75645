package pathfinder

import "github.com/beka-birhanu/vinom-chase/maze"

// LocalDegree counts the floor cells among the 4 neighbours of pos.
func LocalDegree(g *maze.Grid, pos maze.CellPosition) int {
	degree := 0
	for _, d := range maze.Directions {
		if g.IsFloor(pos.Add(d)) {
			degree++
		}
	}
	return degree
}

// IsDeadEnd reports whether pos is bordered by walls on 3 or more sides.
func IsDeadEnd(g *maze.Grid, pos maze.CellPosition) bool {
	return LocalDegree(g, pos) <= 1
}

// PredictNextStep searches backwards from the target towards the pursuer and
// returns the cell the target would enter first on that shortest route. This
// is where a pursuer intercepts a target running at it. When no route exists
// the target cell itself is returned.
func (p *Pathfinder) PredictNextStep(g *maze.Grid, target, pursuer maze.CellPosition) maze.CellPosition {
	path := p.ShortestPath(g, target, pursuer)
	if len(path) == 0 {
		return target
	}
	return path[0]
}

// Components counts 4-connected regions of floor cells.
func (p *Pathfinder) Components(g *maze.Grid) int {
	adj := p.adjacencyFor(g)
	seen := make([]bool, len(adj))
	components := 0
	for i := range adj {
		if seen[i] || !g.IsFloor(position(g.Width(), i)) {
			continue
		}
		components++
		seen[i] = true
		queue := []int32{int32(i)}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adj[cur] {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return components
}
