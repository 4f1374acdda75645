package sessionapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// stream upgrades to a websocket that pushes a snapshot after every step.
// Text frames from the client are parsed as actions and stepped.
func (sc *SessionController) stream(ctx *gin.Context) {
	id, ok := sc.authorize(ctx)
	if !ok {
		return
	}

	snapshots, cancel, err := sc.sessions.Subscribe(id)
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	defer cancel()

	current, err := sc.sessions.Snapshot(id)
	if err != nil {
		sc.fail(ctx, err)
		return
	}

	conn, err := sc.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		sc.logger.Warning(fmt.Sprintf("upgrade failed for session %s: %s", id, err))
		return
	}
	defer conn.Close()

	if err := writeMessage(conn, StreamMessage{Type: "snapshot", Snapshot: &current}); err != nil {
		return
	}

	errs := make(chan string, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}

			action, err := game.ParseAction(strings.TrimSpace(string(payload)))
			if err == nil {
				_, err = sc.sessions.Step(ctx.Request.Context(), id, action)
			}
			if err != nil {
				select {
				case errs <- err.Error():
				default:
				}
			}
		}
	}()

	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed")
				_ = conn.WriteMessage(websocket.CloseMessage, message)
				return
			}
			if err := writeMessage(conn, StreamMessage{Type: "snapshot", Snapshot: &snap}); err != nil {
				return
			}
		case msg := <-errs:
			if err := writeMessage(conn, StreamMessage{Type: "error", Error: msg}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func writeMessage(conn *websocket.Conn, msg StreamMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
