package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-chase/maze"
)

// Action is a discrete movement command.
type Action int

// Auto lets an Episode's Wanderer pick the evader's move.
const Auto Action = -1

const (
	Stay Action = iota
	Up
	Down
	Left
	Right
)

var actionNames = [...]string{"stay", "up", "down", "left", "right"}

func (a Action) String() string {
	if a == Auto {
		return "auto"
	}
	if a < Stay || a > Right {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// Delta returns the cell offset of the action. Up increases Y.
func (a Action) Delta() maze.CellPosition {
	switch a {
	case Up:
		return maze.CellPosition{X: 0, Y: 1}
	case Down:
		return maze.CellPosition{X: 0, Y: -1}
	case Left:
		return maze.CellPosition{X: -1, Y: 0}
	case Right:
		return maze.CellPosition{X: 1, Y: 0}
	}
	return maze.CellPosition{}
}

// ParseAction accepts an action name or its number.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "auto" {
		return Auto, nil
	}
	for i, name := range actionNames {
		if s == name || s == fmt.Sprint(i) {
			return Action(i), nil
		}
	}
	return Stay, fmt.Errorf("%w: unknown action %q", ErrInvalidConfig, s)
}

// GridMover moves an actor from cell to cell at a constant speed.
type GridMover struct {
	position Vec2
	target   Vec2
	moving   bool
	speed    float64
	snap     float64
}

// NewGridMover places a mover on start.
func NewGridMover(start maze.CellPosition, speed float64) *GridMover {
	m := &GridMover{speed: speed, snap: 0.01}
	m.Reset(start)
	return m
}

// Reset puts the mover back on cell c, idle.
func (m *GridMover) Reset(c maze.CellPosition) {
	m.position = CellCenter(c)
	m.target = m.position
	m.moving = false
}

// TryMove starts a move in the direction of a when the mover is idle and the
// adjacent cell is floor.
func (m *GridMover) TryMove(g *maze.Grid, a Action) bool {
	if m.moving || a == Stay {
		return false
	}
	next := m.position.Cell().Add(a.Delta())
	if !g.IsFloor(next) {
		return false
	}
	m.target = CellCenter(next)
	m.moving = true
	return true
}

// Advance interpolates toward the move target and snaps on arrival.
func (m *GridMover) Advance(dt time.Duration) {
	if !m.moving {
		return
	}
	m.position = MoveTowards(m.position, m.target, m.speed*dt.Seconds())
	if m.position.Distance(m.target) < m.snap {
		m.position = m.target
		m.moving = false
	}
}

func (m *GridMover) Position() Vec2 {
	return m.position
}

func (m *GridMover) Moving() bool {
	return m.moving
}
