package game

import (
	"slices"
	"time"

	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/beka-birhanu/vinom-chase/pathfinder"
)

// Phase is the movement state of a Pursuer.
type Phase int

const (
	Idle   Phase = iota // standing on a cell
	Moving              // interpolating toward an adjacent cell
)

func (p Phase) String() string {
	if p == Moving {
		return "moving"
	}
	return "idle"
}

// TickResult reports what happened during one Pursuer tick.
type TickResult struct {
	Position     Vec2
	Phase        Phase
	Speed        float64 // effective speed this tick, slowdown included
	Replanned    bool
	TurnDetected bool
	Slowed       bool
	Captured     bool // set only on the tick the capture is signalled
}

// Pursuer chases a target through the published maze. It is driven by Tick
// from a fixed-timestep loop and is not safe for concurrent use.
type Pursuer struct {
	cfg       PursuerConfig
	grids     GridSource
	finder    *pathfinder.Pathfinder
	onCapture func()

	clock       time.Duration
	gridVersion uint64

	position   Vec2
	moveTarget Vec2
	heading    Vec2 // direction of the last started move
	phase      Phase
	speed      float64

	path        pathfinder.Path
	pathIndex   int
	planned     bool
	forceReplan bool
	lastReplan  time.Duration

	turnSuppress time.Duration
	slowTimer    time.Duration
	wasInDanger  bool
	target       TargetObservation

	captured bool
}

// NewPursuer builds a controller standing at start and watching a target at
// target. onCapture may be nil.
func NewPursuer(cfg PursuerConfig, grids GridSource, start, target Vec2, onCapture func()) (*Pursuer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if grids == nil {
		return nil, ErrInvalidConfig
	}

	p := &Pursuer{
		cfg:       cfg,
		grids:     grids,
		finder:    pathfinder.New(),
		onCapture: onCapture,
	}
	p.Reset(start, target)
	return p, nil
}

// Reset repositions the pursuer and clears every piece of chase state, leaving
// it indistinguishable from a freshly constructed controller.
func (p *Pursuer) Reset(start, target Vec2) {
	_, version := p.grids.Snapshot()

	p.clock = 0
	p.gridVersion = version
	p.position = start
	p.moveTarget = start
	p.heading = Vec2{}
	p.phase = Idle
	p.speed = p.cfg.NormalSpeed
	p.path = nil
	p.pathIndex = 0
	p.planned = false
	p.forceReplan = false
	p.lastReplan = 0
	p.turnSuppress = 0
	p.slowTimer = 0
	p.wasInDanger = false
	p.target.reseed(target, 0)
	p.captured = false
}

// Tick advances the controller by dt given the target's live position.
func (p *Pursuer) Tick(dt time.Duration, targetPos Vec2) TickResult {
	grid, version := p.grids.Snapshot()
	if version != p.gridVersion {
		p.invalidate(version)
	}

	p.clock += dt
	if p.turnSuppress > 0 {
		p.turnSuppress = max(0, p.turnSuppress-dt)
	}

	var res TickResult
	dist := p.position.Distance(targetPos)
	inDanger := dist < p.cfg.DangerRadius
	if inDanger {
		res.TurnDetected = p.watchTarget(targetPos)
	}
	p.wasInDanger = inDanger

	p.speed = p.cfg.NormalSpeed
	interval := p.cfg.NormalReplanInterval
	if inDanger {
		p.speed = p.cfg.AggressiveSpeed
		interval = p.cfg.AggressiveReplanInterval
	}

	due := !p.planned || p.forceReplan || p.clock-p.lastReplan >= interval
	suppressed := inDanger && p.turnSuppress > 0
	if due && !suppressed {
		p.replan(grid, targetPos)
		res.Replanned = true
	}

	if p.phase == Idle {
		p.advance(grid)
	}
	res.Speed = p.speed
	if p.phase == Moving {
		res.Speed, res.Slowed = p.move(dt, targetPos, dist)
	}

	if !p.captured && p.position.Distance(targetPos) <= p.cfg.CatchRadius {
		p.captured = true
		res.Captured = true
		if p.onCapture != nil {
			p.onCapture()
		}
	}

	res.Position = p.position
	res.Phase = p.phase
	return res
}

// watchTarget samples the target's motion and reports a turn event.
func (p *Pursuer) watchTarget(targetPos Vec2) bool {
	if !p.wasInDanger {
		p.target.reseed(targetPos, p.clock)
		return false
	}
	if !p.target.observe(targetPos, p.clock, p.cfg.TurnDetectionMinDistance) {
		return false
	}
	angle, ok := p.target.TurnAngle()
	if !ok || angle <= p.cfg.TurnAngleThreshold || angle >= maxTurnAngle {
		return false
	}
	p.turnSuppress = p.cfg.TurnSuppressDelay
	return true
}

// replan searches from the cell the pursuer will next stand on to the
// target's cell. Planning from the move target keeps every waypoint adjacent
// to the cell the pursuer arrives at.
func (p *Pursuer) replan(grid *maze.Grid, targetPos Vec2) {
	from := p.position.Cell()
	if p.phase == Moving {
		from = p.moveTarget.Cell()
	}
	p.path = p.finder.ShortestPath(grid, from, targetPos.Cell())
	p.pathIndex = 0
	p.planned = true
	p.forceReplan = false
	p.lastReplan = p.clock
}

// advance starts a move toward the next usable waypoint. When the path is
// exhausted or the waypoint cannot be entered the pursuer stays Idle and the
// remaining path is kept for the next replan to supersede.
func (p *Pursuer) advance(grid *maze.Grid) {
	for p.pathIndex < len(p.path) && CellCenter(p.path[p.pathIndex]).Distance(p.position) <= p.cfg.ArrivalTolerance {
		p.pathIndex++
	}
	if p.pathIndex >= len(p.path) {
		return
	}

	next := p.path[p.pathIndex]
	if !grid.IsFloor(next) || !p.position.Cell().Adjacent(next) {
		p.forceReplan = true
		return
	}
	// Dead ends are only entered when they are the goal itself.
	if p.pathIndex < len(p.path)-1 && pathfinder.IsDeadEnd(grid, next) {
		p.forceReplan = true
		return
	}

	p.moveTarget = CellCenter(next)
	p.heading = p.moveTarget.Sub(p.position).Normalized()
	p.phase = Moving
	p.pathIndex++
}

// move interpolates toward the move target and returns the effective speed.
func (p *Pursuer) move(dt time.Duration, targetPos Vec2, dist float64) (float64, bool) {
	rear := false
	if !p.heading.IsZero() {
		rear = p.heading.Dot(targetPos.Sub(p.position).Normalized()) > p.cfg.RearDotThreshold
	}
	if rear && dist < p.cfg.CloseDistance && p.target.consumeTurn(p.cfg.TurnDotThreshold) {
		p.slowTimer = p.cfg.SlowDuration
	}
	if p.slowTimer > 0 {
		p.slowTimer = max(0, p.slowTimer-dt)
	}

	speed := p.speed
	slowed := p.slowTimer > 0
	if slowed {
		speed *= p.cfg.SlowScale
	}

	p.position = MoveTowards(p.position, p.moveTarget, speed*dt.Seconds())
	if p.position.Distance(p.moveTarget) < p.cfg.SnapTolerance {
		p.position = p.moveTarget
		p.phase = Idle
	}
	return speed, slowed
}

// invalidate drops everything computed against an older grid.
func (p *Pursuer) invalidate(version uint64) {
	p.gridVersion = version
	p.path = nil
	p.pathIndex = 0
	p.forceReplan = true
	if p.phase == Moving {
		p.position = CellCenter(p.position.Cell())
		p.moveTarget = p.position
		p.phase = Idle
	}
}

// Position returns the pursuer's continuous position.
func (p *Pursuer) Position() Vec2 {
	return p.position
}

// Phase returns the current movement phase.
func (p *Pursuer) Phase() Phase {
	return p.phase
}

// Path returns a copy of the remaining waypoints.
func (p *Pursuer) Path() pathfinder.Path {
	if p.pathIndex >= len(p.path) {
		return nil
	}
	return slices.Clone(p.path[p.pathIndex:])
}

// Captured reports whether capture was signalled since the last reset.
func (p *Pursuer) Captured() bool {
	return p.captured
}

// Observation returns the pursuer's current view of the target.
func (p *Pursuer) Observation() TargetObservation {
	return p.target
}
