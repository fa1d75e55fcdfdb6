package ws

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/hoopdesk/gm-league-backend/internal/engine"
	"github.com/hoopdesk/gm-league-backend/internal/hub"
	"github.com/hoopdesk/gm-league-backend/internal/league"
	"github.com/hoopdesk/gm-league-backend/internal/store"
	"github.com/hoopdesk/gm-league-backend/pkg/types"
)

// Handler subscribes a client to one league's snapshot stream and relays
// the live lottery commands back into the actor.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("league")
		if id == "" {
			http.Error(w, "missing league", http.StatusBadRequest)
			return
		}

		reply := make(chan hub.Reply, 1)
		h.Inbox() <- hub.OpenLeague{ID: id, Reply: reply}
		res := <-reply
		if res.Err != nil {
			if errors.Is(res.Err, store.ErrNotFound) {
				http.Error(w, "league not found", http.StatusNotFound)
			} else {
				http.Error(w, "league unavailable", http.StatusInternalServerError)
			}
			return
		}
		a := res.Actor

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan league.Snapshot, 8)
		clientID := randID(6)

		a.Inbox() <- league.Join{ClientID: clientID, Outbox: out}
		defer func() { a.Inbox() <- league.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				state, err := json.Marshal(snap.League)
				if err != nil {
					log.Error("encode snapshot", zap.String("league", id), zap.Error(err))
					continue
				}
				payload, _ := json.Marshal(types.ServerMessage{
					Type:    "StateSnapshot",
					Version: snap.Version,
					State:   state,
				})
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			cmd, ok := toEngineCommand(cm)
			if !ok {
				writeError(r.Context(), conn, "unknown type")
				continue
			}

			res := make(chan league.Result, 1)
			a.Inbox() <- league.Do{Cmd: cmd, Reply: res}
			if out := <-res; out.Err != nil {
				writeError(r.Context(), conn, out.Err.Error())
			}
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: msg})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

// toEngineCommand maps the socket vocabulary onto engine commands. Trade
// building stays on the HTTP surface.
func toEngineCommand(m types.ClientMessage) (engine.Command, bool) {
	now := time.Now().UTC()
	switch m.Type {
	case "Register":
		return engine.Command{Type: engine.CmdRegister, ParticipantID: m.ParticipantID, Now: now}, true
	case "Unregister":
		return engine.Command{Type: engine.CmdUnregister, ParticipantID: m.ParticipantID, Now: now}, true
	case "Draw":
		return engine.Command{Type: engine.CmdDraw, Now: now}, true
	case "ClaimFranchise":
		return engine.Command{Type: engine.CmdClaimFranchise, ParticipantID: m.ParticipantID, FranchiseID: m.FranchiseID, Now: now}, true
	default:
		return engine.Command{}, false
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
