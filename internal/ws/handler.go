package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
	"github.com/DoyleJ11/lineup-backend/internal/hub"
	"github.com/DoyleJ11/lineup-backend/internal/session"
	"github.com/DoyleJ11/lineup-backend/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	readTimeout  = 5 * time.Minute
)

// Handler streams session snapshots to the client and applies the commands
// it sends. Rejected commands are answered with an Error message to the
// sender only.
func Handler(h *hub.Hub, cat catalog.Catalog, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Info("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := uuid.NewString()
		log := log.With(zap.String("session", code), zap.String("client", clientID))

		sess.Inbox() <- session.Join{ClientID: clientID, Outbox: out}
		defer func() {
			select {
			case sess.Inbox() <- session.Leave{ClientID: clientID}:
			case <-sess.Done():
			}
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				if err := send(writeCtx, conn, types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap}); err != nil {
					log.Debug("snapshot write failed", zap.Error(err))
				}
			}
			// Outbox closed: the session is gone or dropped us as too slow.
			conn.Close(websocket.StatusGoingAway, "session closed")
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("websocket read ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = send(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "bad json"})
				continue
			}

			cmd, err := types.ToCommand(cm, cat)
			if err != nil {
				_ = send(r.Context(), conn, types.ServerMessage{Type: "Error", Error: err.Error()})
				continue
			}

			errc := make(chan error, 1)
			select {
			case sess.Inbox() <- session.FromClient{Cmd: cmd, TeamName: cm.TeamName, Reply: errc}:
			case <-sess.Done():
				return
			}
			select {
			case err := <-errc:
				if err != nil {
					_ = send(r.Context(), conn, types.ServerMessage{Type: "Error", Error: err.Error()})
				}
			case <-sess.Done():
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}

func send(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
