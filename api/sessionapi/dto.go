// Package sessionapi exposes chase episodes over HTTP and a websocket stream.
package sessionapi

import (
	"github.com/beka-birhanu/vinom-chase/api/mazeapi"
	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/google/uuid"
)

// CreateSessionRequest opens a session. Omitted maze fields use the server defaults.
type CreateSessionRequest struct {
	Width       int    `json:"width" binding:"omitempty,min=5,max=501"`
	Height      int    `json:"height" binding:"omitempty,min=5,max=501"`
	Seed        *int64 `json:"seed"`
	MapIndex    *int   `json:"map_index"`
	EpisodeSeed int64  `json:"episode_seed"`
	Autoplay    bool   `json:"autoplay"`
}

// SessionResponse is returned when a session is opened. The token authorizes
// every other request on the session.
type SessionResponse struct {
	ID       uuid.UUID             `json:"id"`
	Token    string                `json:"token"`
	Snapshot game.Snapshot         `json:"snapshot"`
	Maze     *mazeapi.MazeResponse `json:"maze"`
}

// StepRequest carries the evader's action: stay, up, down, left, right, auto
// or their numeric codes.
type StepRequest struct {
	Action string `json:"action"`
}

// RegenerateRequest selects the next maze by seed or by map index.
type RegenerateRequest struct {
	Seed     *int64 `json:"seed"`
	MapIndex *int   `json:"map_index"`
}

// StreamMessage is one websocket frame sent to stream subscribers.
type StreamMessage struct {
	Type     string         `json:"type"` // snapshot or error
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Error    string         `json:"error,omitempty"`
}
