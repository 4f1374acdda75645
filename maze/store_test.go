package maze

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedForMapWraps(t *testing.T) {
	assert.Equal(t, int64(12345), SeedForMap(0))
	assert.Equal(t, int64(10001), SeedForMap(len(MapSeeds)-1))
	assert.Equal(t, SeedForMap(3), SeedForMap(3+len(MapSeeds)))
	assert.Equal(t, SeedForMap(len(MapSeeds)-1), SeedForMap(-1))
}

func TestStoreRegeneratePublishesNewGrid(t *testing.T) {
	s, err := NewStore(Config{Width: 21, Height: 21, Seed: 12345, ExtraPassageFraction: 0.2})
	require.NoError(t, err)

	first, v1 := s.Snapshot()
	assert.Equal(t, uint64(1), v1)

	second, err := s.Regenerate(23456)
	require.NoError(t, err)
	assert.Same(t, second, s.Current())
	assert.Equal(t, uint64(2), s.Version())
	assert.False(t, first.Equal(second))
	assert.Equal(t, int64(23456), s.Config().Seed)
	assert.Equal(t, 0.2, s.Config().ExtraPassageFraction)

	expected, err := Generate(Config{Width: 21, Height: 21, Seed: 23456, ExtraPassageFraction: 0.2})
	require.NoError(t, err)
	assert.True(t, expected.Equal(second))

	third, err := s.SwitchToMap(4)
	require.NoError(t, err)
	assert.Equal(t, SeedForMap(4), third.Seed())
	assert.Equal(t, uint64(3), s.Version())
}

func TestStoreRejectsInvalidConfig(t *testing.T) {
	_, err := NewStore(Config{Width: 2, Height: 2})
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestStoreReadersNeverSeePartialGrids(t *testing.T) {
	s, err := NewStore(Config{Width: 15, Height: 15, Seed: 1})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for seed := int64(2); seed < 40; seed++ {
			_, err := s.Regenerate(seed)
			assert.NoError(t, err)
		}
	}()

	for i := 0; i < 200; i++ {
		g := s.Current()
		assert.Equal(t, 1, floorComponents(g))
		assert.True(t, g.IsFloor(CellPosition{X: 13, Y: 13}))
	}
	wg.Wait()
}
