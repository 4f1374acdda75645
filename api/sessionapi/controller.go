package sessionapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/beka-birhanu/vinom-chase/api"
	"github.com/beka-birhanu/vinom-chase/api/mazeapi"
	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/beka-birhanu/vinom-chase/service"
	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// SessionController manages chase sessions.
type SessionController struct {
	sessions i.EpisodeManager
	logger   i.Logger
	upgrader websocket.Upgrader
}

// NewSessionController initializes a SessionController.
func NewSessionController(sessions i.EpisodeManager, logger i.Logger) *SessionController {
	return &SessionController{
		sessions: sessions,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterPublic registers public routes.
func (sc *SessionController) RegisterPublic(route *gin.RouterGroup) {
	route.POST("/sessions", sc.create)
}

// RegisterProtected registers protected routes.
func (sc *SessionController) RegisterProtected(route *gin.RouterGroup) {
	sessions := route.Group("/sessions/:ID")
	{
		sessions.GET("", sc.snapshot)
		sessions.DELETE("", sc.close)
		sessions.POST("/step", sc.step)
		sessions.POST("/reset", sc.reset)
		sessions.POST("/regenerate", sc.regenerate)
		sessions.POST("/autoplay", sc.autoplay)
		sessions.GET("/results", sc.results)
		sessions.GET("/stream", sc.stream)
	}
	route.GET("/results/summary", sc.summary)
}

// create opens a new session.
func (sc *SessionController) create(ctx *gin.Context) {
	var request CreateSessionRequest
	if err := bindOptional(ctx, &request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := sc.sessions.NewSession(ctx.Request.Context(), i.SessionRequest{
		Width:       request.Width,
		Height:      request.Height,
		Seed:        request.Seed,
		MapIndex:    request.MapIndex,
		EpisodeSeed: request.EpisodeSeed,
	})
	if err != nil {
		sc.fail(ctx, err)
		return
	}

	if request.Autoplay {
		if err := sc.sessions.Autoplay(context.Background(), info.ID); err != nil {
			sc.fail(ctx, err)
			return
		}
	}

	ctx.JSON(http.StatusCreated, &SessionResponse{
		ID:       info.ID,
		Token:    info.Token,
		Snapshot: info.Snapshot,
		Maze:     mazeapi.NewMazeResponse(info.Grid),
	})
}

// snapshot returns the current state of the session.
func (sc *SessionController) snapshot(ctx *gin.Context) {
	id, ok := sc.authorize(ctx)
	if !ok {
		return
	}

	snap, err := sc.sessions.Snapshot(id)
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

// step advances the episode by one timestep.
func (sc *SessionController) step(ctx *gin.Context) {
	id, ok := sc.authorize(ctx)
	if !ok {
		return
	}

	var request StepRequest
	if err := bindOptional(ctx, &request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	action, err := game.ParseAction(request.Action)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := sc.sessions.Step(ctx.Request.Context(), id, action)
	if errors.Is(err, service.ErrSessionEnded) {
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error(), "snapshot": snap})
		return
	}
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

// reset re-spawns both actors on the current maze.
func (sc *SessionController) reset(ctx *gin.Context) {
	id, ok := sc.authorize(ctx)
	if !ok {
		return
	}

	snap, err := sc.sessions.Reset(ctx.Request.Context(), id)
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

// regenerate switches the session to another maze.
func (sc *SessionController) regenerate(ctx *gin.Context) {
	id, ok := sc.authorize(ctx)
	if !ok {
		return
	}

	var request RegenerateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var seed int64
	switch {
	case request.Seed != nil:
		seed = *request.Seed
	case request.MapIndex != nil:
		seed = maze.SeedForMap(*request.MapIndex)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "seed or map_index is required"})
		return
	}

	snap, err := sc.sessions.Regenerate(ctx.Request.Context(), id, seed)
	if err != nil {
		sc.fail(ctx, err)
		return
	}

	grid, err := sc.sessions.Grid(id)
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"snapshot": snap, "maze": mazeapi.NewMazeResponse(grid)})
}

// autoplay runs the episode in real time with the scripted evader.
func (sc *SessionController) autoplay(ctx *gin.Context) {
	id, ok := sc.authorize(ctx)
	if !ok {
		return
	}

	// The run outlives this request.
	if err := sc.sessions.Autoplay(context.Background(), id); err != nil {
		sc.fail(ctx, err)
		return
	}
	ctx.Status(http.StatusAccepted)
}

// close ends the session.
func (sc *SessionController) close(ctx *gin.Context) {
	id, ok := sc.authorize(ctx)
	if !ok {
		return
	}

	if err := sc.sessions.Close(id); err != nil {
		sc.fail(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// results lists the finished episodes of the session.
func (sc *SessionController) results(ctx *gin.Context) {
	id, ok := sc.authorize(ctx)
	if !ok {
		return
	}

	results, err := sc.sessions.Results(ctx.Request.Context(), id)
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": results})
}

// summary aggregates every recorded episode.
func (sc *SessionController) summary(ctx *gin.Context) {
	summary, err := sc.sessions.Summary(ctx.Request.Context())
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// authorize checks that the token was issued for the session in the path.
func (sc *SessionController) authorize(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, false
	}

	claims, ok := api.Claims(ctx)
	if !ok || claims[service.SessionClaim] != id.String() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "token does not grant access to this session"})
		return uuid.Nil, false
	}
	return id, true
}

func (sc *SessionController) fail(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSessionEnded):
		status = http.StatusConflict
	case errors.Is(err, service.ErrTooManySessions):
		status = http.StatusServiceUnavailable
	case errors.Is(err, maze.ErrInvalidDimensions), errors.Is(err, maze.ErrInvalidPassageFraction), errors.Is(err, game.ErrInvalidConfig):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		sc.logger.Error(fmt.Sprintf("%s %s: %s", ctx.Request.Method, ctx.FullPath(), err))
		ctx.JSON(status, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

// bindOptional binds a JSON body, treating an empty body as all defaults.
func bindOptional(ctx *gin.Context, request any) error {
	if err := ctx.ShouldBindJSON(request); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
