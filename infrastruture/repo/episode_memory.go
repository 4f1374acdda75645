package repo

import (
	"context"
	"slices"
	"sync"

	dmn "github.com/beka-birhanu/vinom-chase/domain"
	"github.com/google/uuid"
)

// MemoryEpisodeRepo keeps results in process memory.
type MemoryEpisodeRepo struct {
	results map[uuid.UUID]dmn.EpisodeResult
	mu      sync.RWMutex
}

func NewMemoryEpisodeRepo() *MemoryEpisodeRepo {
	return &MemoryEpisodeRepo{results: make(map[uuid.UUID]dmn.EpisodeResult)}
}

func (m *MemoryEpisodeRepo) Save(_ context.Context, r *dmn.EpisodeResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[r.ID] = *r
	return nil
}

func (m *MemoryEpisodeRepo) BySession(_ context.Context, sessionID uuid.UUID) ([]dmn.EpisodeResult, error) {
	return m.filter(func(r dmn.EpisodeResult) bool { return r.SessionID == sessionID }), nil
}

func (m *MemoryEpisodeRepo) All(context.Context) ([]dmn.EpisodeResult, error) {
	return m.filter(func(dmn.EpisodeResult) bool { return true }), nil
}

func (m *MemoryEpisodeRepo) filter(keep func(dmn.EpisodeResult) bool) []dmn.EpisodeResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []dmn.EpisodeResult
	for _, r := range m.results {
		if keep(r) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b dmn.EpisodeResult) int {
		if c := a.FinishedAt.Compare(b.FinishedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out
}

func (m *MemoryEpisodeRepo) Close(context.Context) error {
	return nil
}
