package game

import (
	"math/rand"
	"testing"

	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceActorsKeepsSeparation(t *testing.T) {
	for seed := int64(0); seed < 1000; seed++ {
		g, err := maze.Generate(maze.Config{Width: 21, Height: 21, Seed: seed, ExtraPassageFraction: 0.2})
		require.NoError(t, err)

		target, pursuer := PlaceActors(g, DefaultMinSeparation, rand.New(rand.NewSource(seed)))
		require.True(t, g.IsFloor(target))
		require.True(t, g.IsFloor(pursuer))
		require.NotEqual(t, target, pursuer)

		qualifying := false
		for _, c := range g.FloorCells() {
			if c.Manhattan(target) >= DefaultMinSeparation {
				qualifying = true
				break
			}
		}
		if qualifying {
			assert.GreaterOrEqual(t, pursuer.Manhattan(target), DefaultMinSeparation, "seed %d", seed)
		} else {
			assert.Equal(t, farthestFrom(g.FloorCells(), target), pursuer, "seed %d", seed)
		}
	}
}

func TestPlaceActorsFallsBackToFarthestCell(t *testing.T) {
	g := maze.MustParse(`
#####
#...#
#.#.#
#...#
#####`)
	cells := g.FloorCells()

	for seed := int64(0); seed < 50; seed++ {
		target, pursuer := PlaceActors(g, DefaultMinSeparation, rand.New(rand.NewSource(seed)))

		best := 0.0
		for _, c := range cells {
			best = max(best, c.Euclidean(target))
		}
		assert.Equal(t, best, pursuer.Euclidean(target))
		// ties resolve to the first cell in x-major order
		for _, c := range cells {
			if c.Euclidean(target) == best {
				assert.Equal(t, c, pursuer)
				break
			}
		}
	}
}

func TestPlaceActorsDegenerateGrid(t *testing.T) {
	g := maze.MustParse(`
#####
#.###
#####
#####
#####`)
	target, pursuer := PlaceActors(g, DefaultMinSeparation, rand.New(rand.NewSource(1)))
	assert.Equal(t, maze.CellPosition{X: 1, Y: 1}, target)
	assert.Equal(t, maze.CellPosition{X: 3, Y: 3}, pursuer)
}

func TestPlaceActorsIsReproducible(t *testing.T) {
	g, err := maze.Generate(maze.Config{Width: 21, Height: 21, Seed: 5})
	require.NoError(t, err)

	t1, p1 := PlaceActors(g, DefaultMinSeparation, rand.New(rand.NewSource(9)))
	t2, p2 := PlaceActors(g, DefaultMinSeparation, rand.New(rand.NewSource(9)))
	assert.Equal(t, t1, t2)
	assert.Equal(t, p1, p2)
}
