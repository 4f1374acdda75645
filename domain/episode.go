package dmn

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is how an episode ended.
type Outcome string

const (
	OutcomeCaught  Outcome = "caught"
	OutcomeTimeout Outcome = "timeout"
)

// EpisodeResult is the record kept for every finished episode.
type EpisodeResult struct {
	ID           uuid.UUID     `json:"id"`
	SessionID    uuid.UUID     `json:"sessionId"`
	MapSeed      int64         `json:"mapSeed"`
	Outcome      Outcome       `json:"outcome"`
	SurvivalTime time.Duration `json:"survivalTime"`
	AvgDistance  float64       `json:"avgDistance"`
	Ticks        int           `json:"ticks"`
	FinishedAt   time.Time     `json:"finishedAt"`
}

// Totals aggregates a set of episode results.
type Totals struct {
	Episodes    int     `json:"episodes"`
	Caught      int     `json:"caught"`
	Timeouts    int     `json:"timeouts"`
	TimeoutRate float64 `json:"timeoutRate"`
	AvgSurvival float64 `json:"avgSurvival"` // seconds
	AvgDistance float64 `json:"avgDistance"`
}

// Summary holds totals over all results and per map seed.
type Summary struct {
	Overall Totals           `json:"overall"`
	PerSeed map[int64]Totals `json:"perSeed"`
}
