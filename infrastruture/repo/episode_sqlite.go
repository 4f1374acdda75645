package repo

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-chase/domain"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// SQLiteEpisodeRepo keeps episode results in a local SQLite file, which suits
// offline training runs without a database server.
type SQLiteEpisodeRepo struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteEpisodeRepo opens (creating if needed) the database at path.
func NewSQLiteEpisodeRepo(ctx context.Context, path string) (*SQLiteEpisodeRepo, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteEpisodeRepo{path: path, db: db}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			map_seed INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			survival_ms INTEGER NOT NULL,
			avg_distance REAL NOT NULL,
			ticks INTEGER NOT NULL,
			finished_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS episodes_session ON episodes (session_id);
	`)
	return err
}

func (s *SQLiteEpisodeRepo) Save(ctx context.Context, r *dmn.EpisodeResult) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO episodes (id, session_id, map_seed, outcome, survival_ms, avg_distance, ticks, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			map_seed = excluded.map_seed,
			outcome = excluded.outcome,
			survival_ms = excluded.survival_ms,
			avg_distance = excluded.avg_distance,
			ticks = excluded.ticks,
			finished_at = excluded.finished_at
	`, r.ID.String(), r.SessionID.String(), r.MapSeed, string(r.Outcome), r.SurvivalTime.Milliseconds(),
		r.AvgDistance, r.Ticks, r.FinishedAt.UnixNano())
	return err
}

func (s *SQLiteEpisodeRepo) BySession(ctx context.Context, sessionID uuid.UUID) ([]dmn.EpisodeResult, error) {
	return s.query(ctx, `
		SELECT id, session_id, map_seed, outcome, survival_ms, avg_distance, ticks, finished_at
		FROM episodes WHERE session_id = ? ORDER BY finished_at, id
	`, sessionID.String())
}

func (s *SQLiteEpisodeRepo) All(ctx context.Context) ([]dmn.EpisodeResult, error) {
	return s.query(ctx, `
		SELECT id, session_id, map_seed, outcome, survival_ms, avg_distance, ticks, finished_at
		FROM episodes ORDER BY finished_at, id
	`)
}

func (s *SQLiteEpisodeRepo) query(ctx context.Context, query string, args ...any) ([]dmn.EpisodeResult, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []dmn.EpisodeResult
	for rows.Next() {
		var (
			id, sessionID, outcome string
			survivalMs, finishedAt int64
			r                      dmn.EpisodeResult
		)
		if err := rows.Scan(&id, &sessionID, &r.MapSeed, &outcome, &survivalMs, &r.AvgDistance, &r.Ticks, &finishedAt); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if r.SessionID, err = uuid.Parse(sessionID); err != nil {
			return nil, err
		}
		r.Outcome = dmn.Outcome(outcome)
		r.SurvivalTime = time.Duration(survivalMs) * time.Millisecond
		r.FinishedAt = time.Unix(0, finishedAt).UTC()
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *SQLiteEpisodeRepo) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteEpisodeRepo) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}
