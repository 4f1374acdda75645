package repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-chase/domain"
	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults(session uuid.UUID) []dmn.EpisodeResult {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []dmn.EpisodeResult{
		{ID: uuid.New(), SessionID: session, MapSeed: 12345, Outcome: dmn.OutcomeCaught, SurvivalTime: 7500 * time.Millisecond, AvgDistance: 6.25, Ticks: 375, FinishedAt: base},
		{ID: uuid.New(), SessionID: session, MapSeed: 23456, Outcome: dmn.OutcomeTimeout, SurvivalTime: 30 * time.Second, AvgDistance: 9.5, Ticks: 1500, FinishedAt: base.Add(time.Minute)},
		{ID: uuid.New(), SessionID: uuid.New(), MapSeed: 12345, Outcome: dmn.OutcomeCaught, SurvivalTime: 2 * time.Second, AvgDistance: 3, Ticks: 100, FinishedAt: base.Add(2 * time.Minute)},
	}
}

func exerciseRepo(t *testing.T, r i.EpisodeRepo) {
	ctx := context.Background()
	session := uuid.New()
	results := sampleResults(session)

	for idx := len(results) - 1; idx >= 0; idx-- {
		require.NoError(t, r.Save(ctx, &results[idx]))
	}

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, results, all)

	mine, err := r.BySession(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, results[:2], mine)

	updated := results[0]
	updated.Outcome = dmn.OutcomeTimeout
	require.NoError(t, r.Save(ctx, &updated))
	all, err = r.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, dmn.OutcomeTimeout, all[0].Outcome)

	none, err := r.BySession(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryEpisodeRepo(t *testing.T) {
	exerciseRepo(t, NewMemoryEpisodeRepo())
}

func TestSQLiteEpisodeRepo(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "episodes.db")

	r, err := NewSQLiteEpisodeRepo(ctx, path)
	require.NoError(t, err)
	exerciseRepo(t, r)
	require.NoError(t, r.Close(ctx))

	_, err = r.All(ctx)
	assert.ErrorIs(t, err, ErrClosed)

	reopened, err := NewSQLiteEpisodeRepo(ctx, path)
	require.NoError(t, err)
	defer reopened.Close(ctx)
	all, err := reopened.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3, "results persist across reopen")
}

func TestNewEpisodeRepo(t *testing.T) {
	ctx := context.Background()

	r, err := NewEpisodeRepo(ctx, Config{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryEpisodeRepo{}, r)

	r, err = NewEpisodeRepo(ctx, Config{Backend: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteEpisodeRepo{}, r)
	require.NoError(t, r.Close(ctx))

	_, err = NewEpisodeRepo(ctx, Config{Backend: "mongo"})
	assert.ErrorIs(t, err, ErrUnsupportedBackend)

	_, err = NewEpisodeRepo(ctx, Config{Backend: "postgres"})
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}
