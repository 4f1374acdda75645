package game

import (
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-chase/maze"
)

var moveActions = []Action{Up, Down, Left, Right}

// Wanderer is a scripted evader. It keeps its heading while the next cell is
// open, turns to a random open direction otherwise, and re-rolls its heading
// every changeEvery.
type Wanderer struct {
	rng         *rand.Rand
	heading     Action
	changeEvery time.Duration
	sinceChange time.Duration
}

// NewWanderer seeds a wanderer. A non-positive changeEvery disables re-rolls.
func NewWanderer(seed int64, changeEvery time.Duration) *Wanderer {
	w := &Wanderer{rng: rand.New(rand.NewSource(seed)), changeEvery: changeEvery}
	w.heading = moveActions[w.rng.Intn(len(moveActions))]
	return w
}

// Next returns the action for an actor standing on cell.
func (w *Wanderer) Next(g *maze.Grid, cell maze.CellPosition, dt time.Duration) Action {
	w.sinceChange += dt
	if w.changeEvery > 0 && w.sinceChange >= w.changeEvery {
		w.sinceChange = 0
		w.heading = moveActions[w.rng.Intn(len(moveActions))]
	}

	if g.IsFloor(cell.Add(w.heading.Delta())) {
		return w.heading
	}

	open := make([]Action, 0, len(moveActions))
	for _, a := range moveActions {
		if g.IsFloor(cell.Add(a.Delta())) {
			open = append(open, a)
		}
	}
	if len(open) == 0 {
		return Stay
	}
	w.heading = open[w.rng.Intn(len(open))]
	return w.heading
}
