package mazeapi

import (
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/beka-birhanu/vinom-chase/pathfinder"
	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/gin-gonic/gin"
)

// MazeController serves mazes and queries on them.
type MazeController struct {
	mazes         i.MazeProvider
	defaults      maze.Config
	minSeparation int
	pathfinder    *pathfinder.Pathfinder
}

// NewMazeController initializes a MazeController; defaults and minSeparation
// fill omitted request fields.
func NewMazeController(mazes i.MazeProvider, defaults maze.Config, minSeparation int) *MazeController {
	return &MazeController{
		mazes:         mazes,
		defaults:      defaults,
		minSeparation: minSeparation,
		pathfinder:    pathfinder.New(),
	}
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.POST("", mc.generate)
		mazes.POST("/spawn", mc.spawn)
		mazes.POST("/path", mc.path)
		mazes.GET("/seeds/:index", mc.seed)
	}
}

// RegisterProtected registers protected routes.
func (mc *MazeController) RegisterProtected(route *gin.RouterGroup) {}

func (mc *MazeController) config(req MazeRequest) maze.Config {
	cfg := mc.defaults
	if req.Width > 0 {
		cfg.Width = req.Width
	}
	if req.Height > 0 {
		cfg.Height = req.Height
	}
	if req.ExtraPassageFraction != nil {
		cfg.ExtraPassageFraction = *req.ExtraPassageFraction
	}
	switch {
	case req.Seed != nil:
		cfg.Seed = *req.Seed
	case req.MapIndex != nil:
		cfg.Seed = maze.SeedForMap(*req.MapIndex)
	}
	return cfg
}

func (mc *MazeController) grid(ctx *gin.Context, req MazeRequest) (*maze.Grid, bool) {
	g, err := mc.mazes.Maze(ctx.Request.Context(), mc.config(req))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, maze.ErrInvalidDimensions) || errors.Is(err, maze.ErrInvalidPassageFraction) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return nil, false
	}
	return g, true
}

// generate handles maze generation requests.
func (mc *MazeController) generate(ctx *gin.Context) {
	var request MazeRequest
	if err := bindOptional(ctx, &request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, ok := mc.grid(ctx, request)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, NewMazeResponse(g))
}

// spawn places a target and a pursuer on the requested maze.
func (mc *MazeController) spawn(ctx *gin.Context) {
	var request SpawnRequest
	if err := bindOptional(ctx, &request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, ok := mc.grid(ctx, request.MazeRequest)
	if !ok {
		return
	}

	minSeparation := mc.minSeparation
	if request.MinSeparation != nil {
		minSeparation = *request.MinSeparation
	}
	target, pursuer := game.PlaceActors(g, minSeparation, rand.New(rand.NewSource(request.SpawnSeed)))

	ctx.JSON(http.StatusOK, &SpawnResponse{
		Seed:         g.Seed(),
		Target:       target,
		Pursuer:      pursuer,
		Manhattan:    target.Manhattan(pursuer),
		PathDistance: mc.distance(g, pursuer, target),
	})
}

// path answers a shortest route query.
func (mc *MazeController) path(ctx *gin.Context) {
	var request PathRequest
	if err := bindOptional(ctx, &request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, ok := mc.grid(ctx, request.MazeRequest)
	if !ok {
		return
	}

	response := &PathResponse{Distance: mc.distance(g, request.From, request.To), Path: []maze.CellPosition{}}
	response.Reachable = response.Distance >= 0
	if p := mc.pathfinder.ShortestPath(g, request.From, request.To); p != nil {
		response.Path = p
	}
	ctx.JSON(http.StatusOK, response)
}

// bindOptional binds a JSON body, treating an empty body as all defaults.
func bindOptional(ctx *gin.Context, request any) error {
	if err := ctx.ShouldBindJSON(request); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// distance reports -1 for unreachable goals so it survives JSON encoding.
func (mc *MazeController) distance(g *maze.Grid, from, to maze.CellPosition) int {
	d := mc.pathfinder.ShortestDistance(g, from, to)
	if d == pathfinder.Unreachable {
		return -1
	}
	return d
}

// seed resolves a map index to its seed.
func (mc *MazeController) seed(ctx *gin.Context) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}
	ctx.JSON(http.StatusOK, &SeedResponse{Index: index, Seed: maze.SeedForMap(index)})
}
