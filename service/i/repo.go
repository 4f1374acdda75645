package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-chase/domain"
	"github.com/google/uuid"
)

// EpisodeRepo defines the interface for episode result persistence.
type EpisodeRepo interface {
	// Save inserts or replaces a result keyed by its ID.
	Save(ctx context.Context, result *dmn.EpisodeResult) error

	// BySession returns the results of one session, oldest first.
	BySession(ctx context.Context, sessionID uuid.UUID) ([]dmn.EpisodeResult, error)

	// All returns every stored result, oldest first.
	All(ctx context.Context) ([]dmn.EpisodeResult, error)

	Close(ctx context.Context) error
}
