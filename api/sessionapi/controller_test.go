package sessionapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-chase/api"
	"github.com/beka-birhanu/vinom-chase/api/i"
	dmn "github.com/beka-birhanu/vinom-chase/domain"
	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/infrastruture/repo"
	"github.com/beka-birhanu/vinom-chase/infrastruture/token"
	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/beka-birhanu/vinom-chase/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardLogger struct{}

func (discardLogger) Info(string)    {}
func (discardLogger) Warning(string) {}
func (discardLogger) Error(string)   {}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokenizer := token.NewJwtService("test-secret", "vinom-chase")
	episode := game.DefaultEpisodeConfig()
	episode.MaxDuration = 200 * time.Millisecond

	manager, err := service.NewEpisodeManager(&service.Config{
		Mazes:     service.NewMazeProvider(&service.MazeProviderConfig{Logger: discardLogger{}}),
		Repo:      repo.NewMemoryEpisodeRepo(),
		Tokenizer: tokenizer,
		Logger:    discardLogger{},
		Episode:   episode,
		Maze:      maze.Config{Width: 21, Height: 21, Seed: 12345, ExtraPassageFraction: 0.2},
		TokenTTL:  time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(manager.StopAll)

	router := api.NewRouter(api.Config{
		BaseURL:                 "/api",
		Controllers:             []i.Controller{NewSessionController(manager, discardLogger{})},
		AuthorizationMiddleware: api.Authoriz(tokenizer),
	})
	return router.Handler()
}

func request(t *testing.T, h http.Handler, method, path, tok, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func openSession(t *testing.T, h http.Handler, body string) SessionResponse {
	t.Helper()
	rec := request(t, h, http.MethodPost, "/api/v1/sessions", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[SessionResponse](t, rec)
}

func TestCreateSession(t *testing.T) {
	h := newTestServer(t)

	s := openSession(t, h, `{"map_index": 4, "episode_seed": 3}`)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, game.StatusRunning, s.Snapshot.Status)
	assert.Equal(t, maze.SeedForMap(4), s.Maze.Seed)
	assert.Equal(t, maze.SeedForMap(4), s.Snapshot.MapSeed)

	rec := request(t, h, http.MethodPost, "/api/v1/sessions", "", `{"width": 2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesNeedMatchingToken(t *testing.T) {
	h := newTestServer(t)
	a := openSession(t, h, "")
	b := openSession(t, h, "")
	path := "/api/v1/sessions/" + a.ID.String()

	assert.Equal(t, http.StatusUnauthorized, request(t, h, http.MethodGet, path, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(t, h, http.MethodGet, path, "garbage", "").Code)
	assert.Equal(t, http.StatusForbidden, request(t, h, http.MethodGet, path, b.Token, "").Code)
	assert.Equal(t, http.StatusBadRequest, request(t, h, http.MethodGet, "/api/v1/sessions/not-a-uuid", a.Token, "").Code)

	rec := request(t, h, http.MethodGet, path, a.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, a.Snapshot, decode[game.Snapshot](t, rec))
}

func TestStepUntilEpisodeEnds(t *testing.T) {
	h := newTestServer(t)
	s := openSession(t, h, `{"episode_seed": 11}`)
	base := "/api/v1/sessions/" + s.ID.String()

	rec := request(t, h, http.MethodPost, base+"/step", s.Token, `{"action": "sideways"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var last game.Snapshot
	for n := 0; n < 100; n++ {
		rec = request(t, h, http.MethodPost, base+"/step", s.Token, `{"action": "left"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		last = decode[game.Snapshot](t, rec)
		if last.Status != game.StatusRunning {
			break
		}
	}
	require.NotEqual(t, game.StatusRunning, last.Status)

	rec = request(t, h, http.MethodPost, base+"/step", s.Token, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = request(t, h, http.MethodGet, base+"/results", s.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode[struct {
		Results []dmn.EpisodeResult `json:"results"`
	}](t, rec)
	require.Len(t, results.Results, 1)
	assert.Equal(t, dmn.Outcome(last.Status), results.Results[0].Outcome)

	rec = request(t, h, http.MethodGet, "/api/v1/results/summary", s.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[dmn.Summary](t, rec)
	assert.Equal(t, 1, summary.Overall.Episodes)

	rec = request(t, h, http.MethodPost, base+"/reset", s.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, game.StatusRunning, decode[game.Snapshot](t, rec).Status)
}

func TestRegenerate(t *testing.T) {
	h := newTestServer(t)
	s := openSession(t, h, "")
	base := "/api/v1/sessions/" + s.ID.String()

	assert.Equal(t, http.StatusBadRequest, request(t, h, http.MethodPost, base+"/regenerate", s.Token, `{}`).Code)

	rec := request(t, h, http.MethodPost, base+"/regenerate", s.Token, `{"map_index": 9}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Snapshot game.Snapshot `json:"snapshot"`
		Maze     struct {
			Seed int64 `json:"seed"`
		} `json:"maze"`
	}](t, rec)
	assert.Equal(t, maze.SeedForMap(9), body.Snapshot.MapSeed)
	assert.Equal(t, maze.SeedForMap(9), body.Maze.Seed)
	assert.Zero(t, body.Snapshot.Tick)
}

func TestCloseSession(t *testing.T) {
	h := newTestServer(t)
	s := openSession(t, h, "")
	base := "/api/v1/sessions/" + s.ID.String()

	assert.Equal(t, http.StatusNoContent, request(t, h, http.MethodDelete, base, s.Token, "").Code)
	assert.Equal(t, http.StatusNotFound, request(t, h, http.MethodGet, base, s.Token, "").Code)
	assert.Equal(t, http.StatusNotFound, request(t, h, http.MethodDelete, base, s.Token, "").Code)
}

func TestStreamPushesSnapshots(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t))
	defer srv.Close()

	s := openSession(t, srv.Config.Handler, `{}`)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/" + s.ID.String() + "/stream?token=" + s.Token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	var first StreamMessage
	require.NoError(t, conn.ReadJSON(&first))
	require.Equal(t, "snapshot", first.Type)
	assert.Zero(t, first.Snapshot.Tick)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("up")))
	var next StreamMessage
	require.NoError(t, conn.ReadJSON(&next))
	require.Equal(t, "snapshot", next.Type)
	assert.Equal(t, 1, next.Snapshot.Tick)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("jump")))
	var bad StreamMessage
	require.NoError(t, conn.ReadJSON(&bad))
	assert.Equal(t, "error", bad.Type)
	assert.NotEmpty(t, bad.Error)
}

func TestStreamRejectsForeignToken(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t))
	defer srv.Close()

	h := srv.Config.Handler
	a := openSession(t, h, "")
	b := openSession(t, h, "")

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/" + a.ID.String() + "/stream?token=" + b.Token
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
