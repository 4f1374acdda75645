package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/beka-birhanu/vinom-chase/pathfinder"
)

// Status of an episode.
type Status string

const (
	StatusRunning Status = "running"
	StatusCaught  Status = "caught"
	StatusTimeout Status = "timeout"
)

// EpisodeConfig configures the host loop around one pursuer and one evader.
type EpisodeConfig struct {
	Pursuer       PursuerConfig
	Timestep      time.Duration // fixed simulation step
	MaxDuration   time.Duration // the episode times out after this much simulated time
	TargetSpeed   float64       // evader speed in cells per second
	MinSeparation int           // Manhattan distance between spawned actors
	WanderChange  time.Duration // how often the scripted evader re-rolls its heading
	Seed          int64         // seeds spawning and the scripted evader
}

// DefaultEpisodeConfig returns the training-environment settings.
func DefaultEpisodeConfig() EpisodeConfig {
	return EpisodeConfig{
		Pursuer:       DefaultPursuerConfig(),
		Timestep:      20 * time.Millisecond,
		MaxDuration:   30 * time.Second,
		TargetSpeed:   3,
		MinSeparation: DefaultMinSeparation,
		WanderChange:  4 * time.Second,
	}
}

func (c EpisodeConfig) Validate() error {
	if c.Timestep <= 0 || c.MaxDuration <= 0 {
		return fmt.Errorf("%w: timestep and max duration must be positive", ErrInvalidConfig)
	}
	if c.TargetSpeed <= 0 {
		return fmt.Errorf("%w: target speed must be positive", ErrInvalidConfig)
	}
	return c.Pursuer.Validate()
}

// Snapshot is the observable state of an episode after a step.
type Snapshot struct {
	Status      Status              `json:"status"`
	Tick        int                 `json:"tick"`
	Elapsed     float64             `json:"elapsed"` // seconds
	MapSeed     int64               `json:"mapSeed"`
	GridVersion uint64              `json:"gridVersion"`
	Pursuer     Vec2                `json:"pursuer"`
	Target      Vec2                `json:"target"`
	Phase       string              `json:"phase"`
	Distance    float64             `json:"distance"`
	Path        []maze.CellPosition `json:"path,omitempty"`
	Round       int                 `json:"round"`

	// Final holds the statistics of the round this snapshot ended, nil while
	// the round is running.
	Final *Stats `json:"-"`
}

// Stats summarizes a finished (or running) episode.
type Stats struct {
	Round        int // increments on every respawn
	Status       Status
	MapSeed      int64
	SurvivalTime time.Duration
	AvgDistance  float64
	Ticks        int
}

// Episode hosts the fixed-timestep loop of one chase: the scripted or
// externally driven evader moves, then the pursuer ticks, then the timeout is
// checked.
type Episode struct {
	cfg      EpisodeConfig
	store    *maze.Store
	pursuer  *Pursuer
	evader   *GridMover
	wanderer *Wanderer
	rng      *rand.Rand

	status       Status
	caught       bool
	elapsed      time.Duration
	ticks        int
	round        int
	distanceSum  float64
	sinceDecided time.Duration

	sync.RWMutex
}

// NewEpisode spawns both actors on the store's current maze.
func NewEpisode(store *maze.Store, cfg EpisodeConfig) (*Episode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Episode{
		cfg:      cfg,
		store:    store,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		wanderer: NewWanderer(cfg.Seed+1, cfg.WanderChange),
	}
	e.evader = NewGridMover(maze.CellPosition{X: 1, Y: 1}, cfg.TargetSpeed)

	pursuer, err := NewPursuer(cfg.Pursuer, store, Vec2{}, Vec2{}, e.handleCapture)
	if err != nil {
		return nil, err
	}
	e.pursuer = pursuer
	e.respawn()
	return e, nil
}

func (e *Episode) handleCapture() {
	e.caught = true
}

// respawn places both actors on fresh spawn cells and restarts the clock.
func (e *Episode) respawn() {
	grid := e.store.Current()
	targetCell, pursuerCell := PlaceActors(grid, e.cfg.MinSeparation, e.rng)

	e.evader.Reset(targetCell)
	e.pursuer.Reset(CellCenter(pursuerCell), CellCenter(targetCell))
	e.round++
	e.status = StatusRunning
	e.caught = false
	e.elapsed = 0
	e.ticks = 0
	e.distanceSum = 0
	e.sinceDecided = 0
}

// Step advances the episode by one timestep. Once the episode has ended it is
// a no-op returning the final snapshot.
func (e *Episode) Step(a Action) Snapshot {
	e.Lock()
	defer e.Unlock()

	if e.status != StatusRunning {
		return e.snapshot()
	}

	dt := e.cfg.Timestep
	grid, _ := e.store.Snapshot()

	e.sinceDecided += dt
	if !e.evader.Moving() {
		if a == Auto {
			a = e.wanderer.Next(grid, e.evader.Position().Cell(), e.sinceDecided)
		}
		e.evader.TryMove(grid, a)
		e.sinceDecided = 0
	}
	e.evader.Advance(dt)

	res := e.pursuer.Tick(dt, e.evader.Position())
	e.elapsed += dt
	e.ticks++
	e.distanceSum += res.Position.Distance(e.evader.Position())

	switch {
	case e.caught:
		e.status = StatusCaught
	case e.elapsed >= e.cfg.MaxDuration:
		e.status = StatusTimeout
	}
	return e.snapshot()
}

// Reset re-spawns both actors on the current maze.
func (e *Episode) Reset() Snapshot {
	e.Lock()
	defer e.Unlock()

	e.respawn()
	return e.snapshot()
}

// Regenerate publishes a maze built from seed and then resets the episode.
func (e *Episode) Regenerate(seed int64) (Snapshot, error) {
	e.Lock()
	defer e.Unlock()

	if _, err := e.store.Regenerate(seed); err != nil {
		return e.snapshot(), err
	}
	e.respawn()
	return e.snapshot(), nil
}

// Load publishes an already built grid, for example one served from a cache,
// and resets the episode on it.
func (e *Episode) Load(g *maze.Grid) Snapshot {
	e.Lock()
	defer e.Unlock()

	e.store.Publish(g)
	e.respawn()
	return e.snapshot()
}

// State returns the current snapshot without stepping.
func (e *Episode) State() Snapshot {
	e.RLock()
	defer e.RUnlock()
	return e.snapshot()
}

// Stats returns the episode statistics so far.
func (e *Episode) Stats() Stats {
	e.RLock()
	defer e.RUnlock()
	return e.stats()
}

// stats must be called with the lock held.
func (e *Episode) stats() Stats {
	avg := 0.0
	if e.ticks > 0 {
		avg = e.distanceSum / float64(e.ticks)
	}
	return Stats{
		Round:        e.round,
		Status:       e.status,
		MapSeed:      e.store.Current().Seed(),
		SurvivalTime: e.elapsed,
		AvgDistance:  avg,
		Ticks:        e.ticks,
	}
}

// Grid returns the maze the episode is played on.
func (e *Episode) Grid() *maze.Grid {
	return e.store.Current()
}

// Play steps with the scripted evader until the episode ends and returns the
// final snapshot. It does not wait between steps.
func (e *Episode) Play() Snapshot {
	for {
		snap := e.Step(Auto)
		if snap.Status != StatusRunning {
			return snap
		}
	}
}

// Run steps the episode in real time with the scripted evader and publishes a
// snapshot after every step. The channel is closed when the episode ends or
// ctx is done.
func (e *Episode) Run(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(e.cfg.Timestep)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap := e.Step(Auto)
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
				if snap.Status != StatusRunning {
					return
				}
			}
		}
	}()
	return out
}

// snapshot must be called with the lock held.
func (e *Episode) snapshot() Snapshot {
	grid, version := e.store.Snapshot()
	pursuer, target := e.pursuer.Position(), e.evader.Position()

	var path []maze.CellPosition
	if remaining := e.pursuer.Path(); len(remaining) > 0 {
		path = []maze.CellPosition(remaining)
	}
	var final *Stats
	if e.status != StatusRunning {
		stats := e.stats()
		final = &stats
	}
	return Snapshot{
		Status:      e.status,
		Tick:        e.ticks,
		Elapsed:     e.elapsed.Seconds(),
		MapSeed:     grid.Seed(),
		GridVersion: version,
		Pursuer:     pursuer,
		Target:      target,
		Phase:       e.pursuer.Phase().String(),
		Distance:    pursuer.Distance(target),
		Path:        path,
		Round:       e.round,
		Final:       final,
	}
}

// PathLength is the BFS distance between the actors' cells, or
// pathfinder.Unreachable.
func (e *Episode) PathLength() int {
	e.RLock()
	defer e.RUnlock()
	return pathfinder.ShortestDistance(e.store.Current(), e.pursuer.Position().Cell(), e.evader.Position().Cell())
}
