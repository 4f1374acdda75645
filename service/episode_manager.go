package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-chase/domain"
	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/google/uuid"
)

// SessionClaim is the token claim carrying the session ID.
const SessionClaim = "session_id"

const subscriberBuffer = 16

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionEnded    = errors.New("episode has ended")
	ErrTooManySessions = errors.New("too many open sessions")
)

type session struct {
	id          uuid.UUID
	episode     *game.Episode
	mazeCfg     maze.Config
	subscribers map[int]chan game.Snapshot
	nextSubID   int
	recorded    int // last round saved to the repo
	stopAuto    context.CancelFunc
	mu          sync.Mutex
}

// EpisodeManager keeps one episode per session and records every finished
// episode in the repo.
type EpisodeManager struct {
	mazes       *MazeProvider
	repo        i.EpisodeRepo
	tokenizer   i.Tokenizer
	logger      i.Logger
	episodeCfg  game.EpisodeConfig
	mazeCfg     maze.Config
	tokenTTL    time.Duration
	maxSessions int
	now         func() time.Time
	sessions    map[uuid.UUID]*session
	sync.RWMutex
}

type Config struct {
	Mazes       *MazeProvider
	Repo        i.EpisodeRepo
	Tokenizer   i.Tokenizer
	Logger      i.Logger
	Episode     game.EpisodeConfig
	Maze        maze.Config // default maze parameters
	TokenTTL    time.Duration
	MaxSessions int // zero means unlimited
}

func NewEpisodeManager(c *Config) (*EpisodeManager, error) {
	if err := c.Episode.Validate(); err != nil {
		return nil, err
	}
	if err := c.Maze.Validate(); err != nil {
		return nil, err
	}
	if c.Mazes == nil || c.Repo == nil || c.Tokenizer == nil || c.Logger == nil {
		return nil, errors.New("episode manager needs a maze provider, repo, tokenizer and logger")
	}

	return &EpisodeManager{
		mazes:       c.Mazes,
		repo:        c.Repo,
		tokenizer:   c.Tokenizer,
		logger:      c.Logger,
		episodeCfg:  c.Episode,
		mazeCfg:     c.Maze,
		tokenTTL:    c.TokenTTL,
		maxSessions: c.MaxSessions,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*session),
	}, nil
}

func (m *EpisodeManager) NewSession(ctx context.Context, req i.SessionRequest) (*i.SessionInfo, error) {
	m.RLock()
	full := m.maxSessions > 0 && len(m.sessions) >= m.maxSessions
	m.RUnlock()
	if full {
		return nil, ErrTooManySessions
	}

	mazeCfg := m.mazeConfig(req)
	grid, err := m.mazes.Maze(ctx, mazeCfg)
	if err != nil {
		return nil, err
	}

	episodeCfg := m.episodeCfg
	episodeCfg.Seed = req.EpisodeSeed
	episode, err := game.NewEpisode(maze.NewStoreFromGrid(grid, mazeCfg), episodeCfg)
	if err != nil {
		return nil, err
	}

	s := &session{
		episode:     episode,
		mazeCfg:     mazeCfg,
		subscribers: make(map[int]chan game.Snapshot),
	}
	if err := m.saveSession(s); err != nil {
		return nil, err
	}

	token, err := m.tokenizer.Generate(map[string]any{SessionClaim: s.id.String()}, m.tokenTTL)
	if err != nil {
		m.remove(s.id)
		return nil, err
	}

	m.logger.Info(fmt.Sprintf("opened session %s on maze %dx%d seed %d", s.id, grid.Width(), grid.Height(), grid.Seed()))
	return &i.SessionInfo{ID: s.id, Token: token, Snapshot: episode.State(), Grid: grid}, nil
}

func (m *EpisodeManager) mazeConfig(req i.SessionRequest) maze.Config {
	cfg := m.mazeCfg
	if req.Width > 0 {
		cfg.Width = req.Width
	}
	if req.Height > 0 {
		cfg.Height = req.Height
	}
	switch {
	case req.Seed != nil:
		cfg.Seed = *req.Seed
	case req.MapIndex != nil:
		cfg.Seed = maze.SeedForMap(*req.MapIndex)
	}
	return cfg
}

func (m *EpisodeManager) saveSession(s *session) error {
	m.Lock()
	defer m.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return ErrTooManySessions
	}
	s.id = uuid.New()
	for {
		if _, ok := m.sessions[s.id]; !ok {
			break
		}
		s.id = uuid.New()
	}
	m.sessions[s.id] = s
	return nil
}

func (m *EpisodeManager) session(id uuid.UUID) (*session, error) {
	m.RLock()
	defer m.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Step returns ErrSessionEnded together with the final snapshot once the
// episode is over; Reset or Regenerate start a new one.
func (m *EpisodeManager) Step(ctx context.Context, id uuid.UUID, action game.Action) (game.Snapshot, error) {
	s, err := m.session(id)
	if err != nil {
		return game.Snapshot{}, err
	}

	if snap := s.episode.State(); snap.Status != game.StatusRunning {
		return snap, ErrSessionEnded
	}
	snap := s.episode.Step(action)
	m.afterStep(ctx, s, snap)
	return snap, nil
}

func (m *EpisodeManager) Reset(ctx context.Context, id uuid.UUID) (game.Snapshot, error) {
	s, err := m.session(id)
	if err != nil {
		return game.Snapshot{}, err
	}

	s.mu.Lock()
	m.stopAutoplay(s)
	snap := s.episode.Reset()
	s.mu.Unlock()

	m.broadcast(s, snap)
	return snap, nil
}

func (m *EpisodeManager) Regenerate(ctx context.Context, id uuid.UUID, seed int64) (game.Snapshot, error) {
	s, err := m.session(id)
	if err != nil {
		return game.Snapshot{}, err
	}

	s.mu.Lock()
	cfg := s.mazeCfg
	s.mu.Unlock()
	cfg.Seed = seed

	grid, err := m.mazes.Maze(ctx, cfg)
	if err != nil {
		return game.Snapshot{}, err
	}

	s.mu.Lock()
	m.stopAutoplay(s)
	s.mazeCfg = cfg
	snap := s.episode.Load(grid)
	s.mu.Unlock()

	m.logger.Info(fmt.Sprintf("session %s switched to maze seed %d", id, seed))
	m.broadcast(s, snap)
	return snap, nil
}

func (m *EpisodeManager) Snapshot(id uuid.UUID) (game.Snapshot, error) {
	s, err := m.session(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return s.episode.State(), nil
}

func (m *EpisodeManager) Grid(id uuid.UUID) (*maze.Grid, error) {
	s, err := m.session(id)
	if err != nil {
		return nil, err
	}
	return s.episode.Grid(), nil
}

// Subscribe delivers every snapshot produced after the call. A subscriber that
// falls behind misses snapshots rather than stalling the episode.
func (m *EpisodeManager) Subscribe(id uuid.UUID) (<-chan game.Snapshot, func(), error) {
	s, err := m.session(id)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subID := s.nextSubID
	s.nextSubID++
	ch := make(chan game.Snapshot, subscriberBuffer)
	s.subscribers[subID] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[subID]; ok {
				delete(s.subscribers, subID)
				close(sub)
			}
		})
	}
	return ch, cancel, nil
}

// Autoplay steps the episode in real time with the scripted evader until it
// ends, ctx is done, or the session is reset. A running autoplay is replaced.
func (m *EpisodeManager) Autoplay(ctx context.Context, id uuid.UUID) error {
	s, err := m.session(id)
	if err != nil {
		return err
	}
	if s.episode.State().Status != game.StatusRunning {
		return ErrSessionEnded
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Lock()
	m.stopAutoplay(s)
	s.stopAuto = cancel
	s.mu.Unlock()

	stream := s.episode.Run(runCtx)
	go func() {
		defer cancel()
		for snap := range stream {
			m.afterStep(runCtx, s, snap)
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	m.logger.Info(fmt.Sprintf("autoplay started for session %s", id))
	return nil
}

// stopAutoplay must be called with s.mu held.
func (m *EpisodeManager) stopAutoplay(s *session) {
	if s.stopAuto != nil {
		s.stopAuto()
		s.stopAuto = nil
	}
}

func (m *EpisodeManager) afterStep(ctx context.Context, s *session, snap game.Snapshot) {
	m.broadcast(s, snap)
	stats := snap.Final
	if stats == nil {
		return
	}

	s.mu.Lock()
	if stats.Round <= s.recorded {
		s.mu.Unlock()
		return
	}
	s.recorded = stats.Round
	s.mu.Unlock()

	m.record(ctx, s, *stats)
}

// record saves the stats captured with the snapshot that ended the round.
func (m *EpisodeManager) record(ctx context.Context, s *session, stats game.Stats) {
	result := &dmn.EpisodeResult{
		ID:           uuid.New(),
		SessionID:    s.id,
		MapSeed:      stats.MapSeed,
		Outcome:      dmn.Outcome(stats.Status),
		SurvivalTime: stats.SurvivalTime,
		AvgDistance:  stats.AvgDistance,
		Ticks:        stats.Ticks,
		FinishedAt:   m.now().UTC(),
	}

	if err := m.repo.Save(context.WithoutCancel(ctx), result); err != nil {
		m.logger.Error(fmt.Sprintf("saving result of session %s: %s", s.id, err))
		return
	}
	m.logger.Info(fmt.Sprintf("session %s episode %s after %s on seed %d", s.id, result.Outcome, result.SurvivalTime, result.MapSeed))
}

func (m *EpisodeManager) broadcast(s *session, snap game.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (m *EpisodeManager) Close(id uuid.UUID) error {
	s := m.remove(id)
	if s == nil {
		return ErrSessionNotFound
	}
	m.logger.Info(fmt.Sprintf("closed session %s", id))
	return nil
}

func (m *EpisodeManager) remove(id uuid.UUID) *session {
	m.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.Unlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m.stopAutoplay(s)
	for subID, ch := range s.subscribers {
		delete(s.subscribers, subID)
		close(ch)
	}
	return s
}

func (m *EpisodeManager) Results(ctx context.Context, id uuid.UUID) ([]dmn.EpisodeResult, error) {
	return m.repo.BySession(ctx, id)
}

func (m *EpisodeManager) Summary(ctx context.Context) (dmn.Summary, error) {
	results, err := m.repo.All(ctx)
	if err != nil {
		return dmn.Summary{}, err
	}
	return Summarize(results), nil
}

// Sessions returns the number of open sessions.
func (m *EpisodeManager) Sessions() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.sessions)
}

// StopAll closes every session.
func (m *EpisodeManager) StopAll() {
	m.RLock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.RUnlock()

	for _, id := range ids {
		m.remove(id)
	}
}
