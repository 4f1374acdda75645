// Package repo persists episode results in memory, SQLite or MongoDB.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-chase/service/i"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUnsupportedBackend = errors.New("unsupported repo backend")
	ErrUnexpected         = errors.New("unexpected repo error")
	ErrClosed             = errors.New("repo is closed")
)

const episodesCollection = "episodes"

// Config selects and configures an episode repo backend.
type Config struct {
	Backend     string        // memory, sqlite or mongo
	SQLitePath  string        // sqlite only
	MongoClient *mongo.Client // mongo only
	DBName      string        // mongo only
}

// NewEpisodeRepo builds the repo named by c.Backend.
func NewEpisodeRepo(ctx context.Context, c Config) (i.EpisodeRepo, error) {
	switch c.Backend {
	case "", "memory":
		return NewMemoryEpisodeRepo(), nil
	case "sqlite":
		return NewSQLiteEpisodeRepo(ctx, c.SQLitePath)
	case "mongo":
		if c.MongoClient == nil {
			return nil, fmt.Errorf("%w: mongo backend needs a client", ErrUnsupportedBackend)
		}
		return NewMongoEpisodeRepo(c.MongoClient, c.DBName, episodesCollection), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, c.Backend)
}
