package game

import (
	"context"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorHelpers(t *testing.T) {
	assert.Equal(t, Vec2{X: 1, Y: 0}, MoveTowards(Vec2{}, Vec2{X: 3, Y: 0}, 1))
	assert.Equal(t, Vec2{X: 3, Y: 0}, MoveTowards(Vec2{}, Vec2{X: 3, Y: 0}, 5), "no overshoot")
	assert.InDelta(t, 90, AngleBetween(Vec2{X: 1}, Vec2{Y: 2}), 1e-9)
	assert.InDelta(t, 180, AngleBetween(Vec2{X: 1}, Vec2{X: -1}), 1e-9)
	assert.Equal(t, Vec2{}, Vec2{}.Normalized())
	assert.Equal(t, maze.CellPosition{X: 2, Y: 3}, Vec2{X: 1.6, Y: 3.4}.Cell())
}

func TestGridMover(t *testing.T) {
	g := corridor(3)
	m := NewGridMover(maze.CellPosition{X: 1, Y: 1}, 5)

	assert.False(t, m.TryMove(g, Up), "wall above")
	assert.False(t, m.TryMove(g, Left), "wall to the left")
	require.True(t, m.TryMove(g, Right))
	assert.False(t, m.TryMove(g, Right), "already moving")

	for i := 0; i < 20 && m.Moving(); i++ {
		m.Advance(tick)
	}
	assert.False(t, m.Moving())
	assert.Equal(t, Vec2{X: 2, Y: 1}, m.Position())
}

func TestParseAction(t *testing.T) {
	for in, want := range map[string]Action{"up": Up, "2": Down, " LEFT ": Left, "right": Right, "stay": Stay, "": Auto, "auto": Auto} {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseAction("jump")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, "left", Left.String())
}

func TestWandererOnlyPicksOpenCells(t *testing.T) {
	g, err := maze.Generate(maze.Config{Width: 15, Height: 15, Seed: 8, ExtraPassageFraction: 0.2})
	require.NoError(t, err)
	w := NewWanderer(1, time.Second)

	cell := maze.CellPosition{X: 1, Y: 1}
	for i := 0; i < 500; i++ {
		a := w.Next(g, cell, tick)
		require.NotEqual(t, Stay, a)
		next := cell.Add(a.Delta())
		require.True(t, g.IsFloor(next))
		cell = next
	}
}

func newTestEpisode(t *testing.T, seed int64) *Episode {
	t.Helper()
	store, err := maze.NewStore(maze.Config{Width: 21, Height: 21, Seed: 12345, ExtraPassageFraction: 0.2})
	require.NoError(t, err)
	cfg := DefaultEpisodeConfig()
	cfg.Seed = seed
	e, err := NewEpisode(store, cfg)
	require.NoError(t, err)
	return e
}

func TestEpisodePlaysToAnEnd(t *testing.T) {
	e := newTestEpisode(t, 1)
	start := e.State()
	assert.Equal(t, StatusRunning, start.Status)
	assert.Greater(t, start.Distance, DefaultPursuerConfig().CatchRadius)

	final := e.Play()
	assert.Contains(t, []Status{StatusCaught, StatusTimeout}, final.Status)
	assert.LessOrEqual(t, final.Tick, 1500)
	if final.Status == StatusTimeout {
		assert.Equal(t, 1500, final.Tick)
	} else {
		assert.LessOrEqual(t, final.Distance, DefaultPursuerConfig().CatchRadius)
	}

	stats := e.Stats()
	assert.Equal(t, final.Status, stats.Status)
	assert.Equal(t, final.Tick, stats.Ticks)
	assert.Greater(t, stats.AvgDistance, 0.0)
	assert.Equal(t, int64(12345), stats.MapSeed)

	again := e.Step(Up)
	assert.Equal(t, final, again, "stepping an ended episode changes nothing")
}

func TestFinalStatsTravelWithEndingSnapshot(t *testing.T) {
	e := newTestEpisode(t, 5)
	first := e.Step(Auto)
	assert.Nil(t, first.Final)
	assert.Equal(t, 1, first.Round)

	final := e.Play()
	require.NotNil(t, final.Final)
	assert.Equal(t, 1, final.Final.Round)
	assert.Equal(t, final.Status, final.Final.Status)
	assert.Equal(t, final.Tick, final.Final.Ticks)

	restarted := e.Reset()
	assert.Nil(t, restarted.Final)
	assert.Equal(t, 2, restarted.Round)
	assert.Equal(t, 1, final.Final.Round, "captured stats are not touched by a reset")
	assert.Equal(t, 2, e.Stats().Round)
}

func TestEpisodeIsDeterministic(t *testing.T) {
	a := newTestEpisode(t, 42).Play()
	b := newTestEpisode(t, 42).Play()
	assert.Equal(t, a, b)
}

func TestEpisodeResetAndRegenerate(t *testing.T) {
	e := newTestEpisode(t, 3)
	for i := 0; i < 10; i++ {
		e.Step(Auto)
	}

	snap := e.Reset()
	assert.Equal(t, StatusRunning, snap.Status)
	assert.Zero(t, snap.Tick)
	assert.Zero(t, snap.Elapsed)

	snap, err := e.Regenerate(maze.SeedForMap(7))
	require.NoError(t, err)
	assert.Equal(t, maze.SeedForMap(7), snap.MapSeed)
	assert.Equal(t, uint64(2), snap.GridVersion)
	assert.True(t, e.Grid().IsFloor(snap.Pursuer.Cell()))
	assert.True(t, e.Grid().IsFloor(snap.Target.Cell()))

	snap = e.Step(Auto)
	assert.Equal(t, 1, snap.Tick)
	for _, cell := range snap.Path {
		assert.True(t, e.Grid().IsFloor(cell))
	}
}

func TestEpisodeLoadPublishesGrid(t *testing.T) {
	e := newTestEpisode(t, 4)
	e.Step(Auto)

	g, err := maze.Generate(maze.Config{Width: 15, Height: 11, Seed: 99, ExtraPassageFraction: 0.2})
	require.NoError(t, err)

	snap := e.Load(g)
	assert.Same(t, g, e.Grid())
	assert.Equal(t, int64(99), snap.MapSeed)
	assert.Equal(t, uint64(2), snap.GridVersion)
	assert.Zero(t, snap.Tick)
	assert.True(t, g.IsFloor(snap.Pursuer.Cell()))
	assert.True(t, g.IsFloor(snap.Target.Cell()))
}

func TestEpisodeRunStreamsUntilEnd(t *testing.T) {
	store, err := maze.NewStore(maze.Config{Width: 21, Height: 21, Seed: 12345})
	require.NoError(t, err)
	cfg := DefaultEpisodeConfig()
	cfg.Timestep = time.Millisecond
	cfg.MaxDuration = 40 * time.Millisecond
	e, err := NewEpisode(store, cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var last Snapshot
	count := 0
	for snap := range e.Run(ctx) {
		last = snap
		count++
	}
	assert.NotEqual(t, StatusRunning, last.Status)
	assert.LessOrEqual(t, count, 40)
}

func TestEpisodeRunStopsOnCancel(t *testing.T) {
	e := newTestEpisode(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	stream := e.Run(ctx)
	<-stream
	cancel()
	for range stream {
	}
	assert.Equal(t, StatusRunning, e.State().Status)
}
