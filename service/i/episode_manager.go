package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-chase/domain"
	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/google/uuid"
)

// SessionRequest describes the maze and episode a new session plays on.
// Zero values fall back to the manager's defaults.
type SessionRequest struct {
	Width       int
	Height      int
	Seed        *int64 // explicit maze seed
	MapIndex    *int   // index into maze.MapSeeds, ignored when Seed is set
	EpisodeSeed int64  // seeds spawning and the scripted evader
}

// SessionInfo is returned when a session is opened.
type SessionInfo struct {
	ID       uuid.UUID
	Token    string
	Snapshot game.Snapshot
	Grid     *maze.Grid
}

// EpisodeManager hosts chase episodes on behalf of remote clients.
type EpisodeManager interface {
	NewSession(ctx context.Context, req SessionRequest) (*SessionInfo, error)

	// Step advances the episode one timestep with the evader's action.
	Step(ctx context.Context, id uuid.UUID, action game.Action) (game.Snapshot, error)

	Reset(ctx context.Context, id uuid.UUID) (game.Snapshot, error)

	// Regenerate swaps the session's maze for the one built from seed and
	// restarts the episode on it.
	Regenerate(ctx context.Context, id uuid.UUID, seed int64) (game.Snapshot, error)

	Snapshot(id uuid.UUID) (game.Snapshot, error)
	Grid(id uuid.UUID) (*maze.Grid, error)

	// Subscribe streams snapshots of the session. The returned function
	// cancels the subscription.
	Subscribe(id uuid.UUID) (<-chan game.Snapshot, func(), error)

	// Autoplay runs the episode in real time with the scripted evader.
	Autoplay(ctx context.Context, id uuid.UUID) error

	Close(id uuid.UUID) error

	Results(ctx context.Context, id uuid.UUID) ([]dmn.EpisodeResult, error)
	Summary(ctx context.Context) (dmn.Summary, error)
}
