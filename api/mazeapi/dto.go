// Package mazeapi exposes maze generation, spawn planning and path queries over HTTP.
package mazeapi

import (
	"strings"

	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/beka-birhanu/vinom-chase/pathfinder"
)

// MazeRequest selects generation parameters. Omitted fields use the server defaults.
type MazeRequest struct {
	Width                int      `json:"width" binding:"omitempty,min=5,max=501"`
	Height               int      `json:"height" binding:"omitempty,min=5,max=501"`
	Seed                 *int64   `json:"seed"`
	MapIndex             *int     `json:"map_index"`
	ExtraPassageFraction *float64 `json:"extra_passage_fraction" binding:"omitempty,min=0,max=1"`
}

// SpawnRequest asks for a spawn plan on a maze.
type SpawnRequest struct {
	MazeRequest
	MinSeparation *int  `json:"min_separation" binding:"omitempty,min=0"`
	SpawnSeed     int64 `json:"spawn_seed"`
}

// PathRequest asks for the shortest route between two cells of a maze.
type PathRequest struct {
	MazeRequest
	From maze.CellPosition `json:"from"`
	To   maze.CellPosition `json:"to"`
}

// MazeResponse describes a generated maze. Walls is indexed [y][x] with row 0
// at y = 0, while ASCII lists the top row first.
type MazeResponse struct {
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Seed       int64    `json:"seed"`
	FloorCells int      `json:"floor_cells"`
	Components int      `json:"components"`
	Walls      [][]bool `json:"walls"`
	ASCII      []string `json:"ascii"`
}

// SpawnResponse is a spawn plan together with the BFS distance between the actors.
type SpawnResponse struct {
	Seed         int64             `json:"seed"`
	Target       maze.CellPosition `json:"target"`
	Pursuer      maze.CellPosition `json:"pursuer"`
	Manhattan    int               `json:"manhattan"`
	PathDistance int               `json:"path_distance"`
}

// PathResponse is a shortest route; Reachable is false when no route exists.
type PathResponse struct {
	Reachable bool                `json:"reachable"`
	Distance  int                 `json:"distance"`
	Path      []maze.CellPosition `json:"path"`
}

// SeedResponse maps a map index to its seed.
type SeedResponse struct {
	Index int   `json:"index"`
	Seed  int64 `json:"seed"`
}

// NewMazeResponse renders g for clients.
func NewMazeResponse(g *maze.Grid) *MazeResponse {
	return &MazeResponse{
		Width:      g.Width(),
		Height:     g.Height(),
		Seed:       g.Seed(),
		FloorCells: len(g.FloorCells()),
		Components: pathfinder.New().Components(g),
		Walls:      g.Rows(),
		ASCII:      strings.Split(strings.TrimSuffix(g.String(), "\n"), "\n"),
	}
}
