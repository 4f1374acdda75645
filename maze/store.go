package maze

import (
	"sync"
	"sync/atomic"
)

// MapSeeds is the fixed rotation of seeds used when mazes are addressed by map index.
var MapSeeds = [...]int64{
	12345, 23456, 34567, 45678, 56789,
	67890, 78901, 89012, 90123, 11234,
	22345, 33456, 44567, 55678, 66789,
	77890, 88901, 99012, 10123, 21234,
	99999, 88888, 77777, 66666, 55555,
	44444, 33333, 22222, 11111, 10001,
}

// SeedForMap returns the seed for a map index, wrapping around MapSeeds.
func SeedForMap(index int) int64 {
	n := len(MapSeeds)
	return MapSeeds[((index%n)+n)%n]
}

// snapshot pairs a published grid with its publication number.
type snapshot struct {
	grid    *Grid
	version uint64
}

// Store publishes the current grid. Readers always observe a fully built grid;
// a regeneration builds the replacement off to the side and swaps it in.
type Store struct {
	current atomic.Pointer[snapshot]
	cfg     Config
	mu      sync.Mutex // serializes regenerations
}

// NewStore generates the first grid from cfg and publishes it.
func NewStore(cfg Config) (*Store, error) {
	g, err := Generate(cfg)
	if err != nil {
		return nil, err
	}
	s := &Store{cfg: cfg}
	s.current.Store(&snapshot{grid: g, version: 1})
	return s, nil
}

// NewStoreFromGrid publishes an already built grid, for example one loaded from a cache.
func NewStoreFromGrid(g *Grid, cfg Config) *Store {
	cfg.Width, cfg.Height, cfg.Seed = g.Width(), g.Height(), g.Seed()
	s := &Store{cfg: cfg}
	s.current.Store(&snapshot{grid: g, version: 1})
	return s
}

// Current returns the published grid.
func (s *Store) Current() *Grid {
	return s.current.Load().grid
}

// Version increases by one on every publication.
func (s *Store) Version() uint64 {
	return s.current.Load().version
}

// Snapshot returns the published grid together with its version in one read.
func (s *Store) Snapshot() (*Grid, uint64) {
	snap := s.current.Load()
	return snap.grid, snap.version
}

// Config returns the generation parameters of the published grid.
func (s *Store) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Regenerate rebuilds the maze with a new seed, keeping dimensions and passage
// fraction, and publishes it. Holders of paths computed on the previous grid
// detect the change through Version.
func (s *Store) Regenerate(seed int64) (*Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg
	cfg.Seed = seed
	g, err := Generate(cfg)
	if err != nil {
		return nil, err
	}
	s.publish(g, cfg)
	return g, nil
}

// SwitchToMap regenerates the maze from the seed assigned to a map index.
func (s *Store) SwitchToMap(index int) (*Grid, error) {
	return s.Regenerate(SeedForMap(index))
}

// Publish replaces the current grid with g.
func (s *Store) Publish(g *Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg
	cfg.Width, cfg.Height, cfg.Seed = g.Width(), g.Height(), g.Seed()
	s.publish(g, cfg)
}

func (s *Store) publish(g *Grid, cfg Config) {
	prev := s.current.Load()
	s.cfg = cfg
	s.current.Store(&snapshot{grid: g, version: prev.version + 1})
}
