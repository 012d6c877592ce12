package hub

import (
	"context"

	"github.com/DoyleJ11/lineup-backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

type CreateSession struct {
	Code  string
	Reply chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type EnsureSession struct {
	Code  string
	Reply chan *session.Session
}

type RemoveSession struct {
	Code string
}

// ListSessions replies with the codes of all live sessions.
type ListSessions struct {
	Reply chan []string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ListSessions) isHubMsg()  {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	deps     session.Deps
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, deps session.Deps) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed after ShutdownHub or when the parent context ends.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				msg.Reply <- h.ensure(msg.Code)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case EnsureSession:
				msg.Reply <- h.ensure(msg.Code)

			case RemoveSession:
				if s := h.sessions[msg.Code]; s != nil {
					s.Inbox() <- session.Shutdown{}
					delete(h.sessions, msg.Code)
				}

			case ListSessions:
				codes := make([]string, 0, len(h.sessions))
				for code := range h.sessions {
					codes = append(codes, code)
				}
				msg.Reply <- codes

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) ensure(code string) *session.Session {
	if s := h.sessions[code]; s != nil {
		return s
	}
	s := session.New(h.ctx, code, h.deps)
	h.sessions[code] = s
	return s
}

func (h *Hub) shutdown() {
	for _, s := range h.sessions {
		select {
		case s.Inbox() <- session.Shutdown{}:
		default:
		}
	}
	clear(h.sessions)
	h.cancel()
}
