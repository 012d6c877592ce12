// Package session runs one editing session: a goroutine that owns a single
// engine.Store, applies client commands in order, autosaves the working
// lineup and broadcasts a snapshot to every joined client after each change.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
	"github.com/DoyleJ11/lineup-backend/internal/engine"
	"github.com/DoyleJ11/lineup-backend/internal/migrate"
	"github.com/DoyleJ11/lineup-backend/internal/persist"
	"github.com/DoyleJ11/lineup-backend/internal/reconcile"
	"github.com/DoyleJ11/lineup-backend/internal/saved"
	"github.com/DoyleJ11/lineup-backend/internal/snapshot"
	"github.com/DoyleJ11/lineup-backend/pkg/types"
)

// KeyPrefix namespaces the working lineup record of each session.
const KeyPrefix = "lineup_working_v1:"

var ErrNoLineup = errors.New("no working lineup")

func Key(code string) string { return KeyPrefix + code }

type Deps struct {
	Gateway persist.Gateway
	Catalog catalog.Catalog
	Library *saved.Library
	Logger  *zap.Logger
}

type Snapshot struct {
	Version       int            `json:"version"`
	Lineup        *engine.Lineup `json:"lineup,omitempty"`
	FormationName string         `json:"formationName,omitempty"`
	TeamName      string         `json:"teamName,omitempty"`
	Dirty         bool           `json:"dirty"`
	LoadedID      string         `json:"loadedId,omitempty"`
	LoadedName    string         `json:"loadedName,omitempty"`
	StorageFull   bool           `json:"storageFull"`
	Events        []engine.Event `json:"events,omitempty"`
	Roster        []string       `json:"roster,omitempty"`
}

type View struct {
	Snapshot
	NumClients int `json:"numClients"`
}

type write struct {
	data   []byte
	remove bool
}

type Session struct {
	code    string
	inbox   chan Msg
	writes  chan write
	store   *engine.Store
	version int
	clients map[string]chan Snapshot

	teamName    string
	lastSaved   *types.Snapshot
	loadedID    string
	loadedName  string
	storageFull bool

	deps   Deps
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New starts a session for code, restoring whatever working lineup was
// persisted under Key(code). An unreadable record starts the session empty.
func New(parent context.Context, code string, deps Deps) *Session {
	ctx, cancel := context.WithCancel(parent)
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Session{
		code:    code,
		inbox:   make(chan Msg, 64),
		writes:  make(chan write, 1),
		store:   engine.NewStore(),
		clients: make(map[string]chan Snapshot),
		deps:    deps,
		log:     deps.Logger.With(zap.String("session", code)),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.restore()

	go s.persister()
	go s.loop()
	return s
}

func (s *Session) Code() string { return s.code }

// Inbox is where the transport layers send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

func (s *Session) restore() {
	data, ok, err := s.deps.Gateway.Load(s.ctx, Key(s.code))
	if err != nil {
		s.log.Warn("failed to load working lineup", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	l := migrate.Load(data, s.deps.Catalog)
	if l == nil {
		s.log.Info("working lineup not recoverable, starting empty")
		return
	}
	s.store.Restore(l)
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- s.snapshot(nil)

			case Leave:
				delete(s.clients, msg.ClientID)

			case FromClient:
				events, err := s.store.Dispatch(msg.Cmd)
				reply(msg.Reply, err)
				if err != nil {
					s.log.Info("command rejected", zap.String("type", string(msg.Cmd.Type)), zap.Error(err))
					break
				}
				s.log.Debug("command applied", zap.String("type", string(msg.Cmd.Type)), zap.Int("events", len(events)))
				s.afterCommand(msg)
				s.commit(events)

			case Diff:
				d, err := s.diff(msg)
				reply(msg.Reply, DiffResult{Diff: d, Err: err})

			case Load:
				res, err := s.load(msg)
				reply(msg.Reply, LoadResult{Result: res, Err: err})
				if err == nil {
					s.commit(nil)
				}

			case Save:
				sv, err := s.save(msg)
				reply(msg.Reply, SaveResult{Saved: sv, Err: err})
				s.broadcast(s.snapshot(nil))

			case persisted:
				full := errors.Is(msg.err, persist.ErrStorageFull)
				switch {
				case full:
					s.log.Warn("autosave refused: storage full", zap.Error(msg.err))
				case msg.err != nil:
					s.log.Error("autosave failed", zap.Error(msg.err))
				}
				if full != s.storageFull {
					s.storageFull = full
					s.broadcast(s.snapshot(nil))
				}

			case GetState:
				msg.Reply <- View{Snapshot: s.snapshot(nil), NumClients: len(s.clients)}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) afterCommand(msg FromClient) {
	switch msg.Cmd.Type {
	case engine.CmdStartLineup, engine.CmdSetTeam:
		s.teamName = msg.TeamName
	case engine.CmdReset:
		s.teamName = ""
		s.lastSaved = nil
		s.loadedID, s.loadedName = "", ""
	}
}

// commit bumps the version, queues an autosave and broadcasts.
func (s *Session) commit(events []engine.Event) {
	s.version++
	s.queueWrite(s.record())
	s.broadcast(s.snapshot(events))
}

func (s *Session) record() write {
	l, ok := s.store.Lineup()
	if !ok {
		return write{remove: true}
	}
	data, err := json.Marshal(l)
	if err != nil {
		s.log.Error("failed to encode working lineup", zap.Error(err))
		return write{remove: true}
	}
	return write{data: data}
}

// queueWrite keeps only the newest pending write.
func (s *Session) queueWrite(w write) {
	select {
	case s.writes <- w:
	default:
		select {
		case <-s.writes:
		default:
		}
		s.writes <- w
	}
}

func (s *Session) persister() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case w := <-s.writes:
			var err error
			if w.remove {
				err = s.deps.Gateway.Remove(s.ctx, Key(s.code))
			} else {
				err = s.deps.Gateway.Save(s.ctx, Key(s.code), w.data)
			}
			select {
			case s.inbox <- persisted{err: err}:
			case <-s.ctx.Done():
				return
			}
		}
	}
}

func (s *Session) current() *types.Snapshot {
	l, ok := s.store.Lineup()
	if !ok {
		return nil
	}
	return snapshot.Serialize(l, catalog.Name(s.deps.Catalog, l.FormationCode), s.teamName)
}

func (s *Session) diff(msg Diff) (snapshot.Diff, error) {
	sv, err := s.deps.Library.Get(s.ctx, msg.SavedID)
	if err != nil {
		return snapshot.Diff{}, err
	}
	roster := msg.Roster
	if roster == nil {
		roster = s.store.Roster()
	}
	return snapshot.ComputeDiff(s.current(), sv, roster), nil
}

func (s *Session) load(msg Load) (reconcile.Result, error) {
	sv, err := s.deps.Library.Get(s.ctx, msg.SavedID)
	if err != nil {
		return reconcile.Result{}, err
	}
	res, err := reconcile.Apply(s.store, sv, s.deps.Catalog, msg.Options)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("load %s: %w", sv.ID, err)
	}
	if l, _ := s.store.Lineup(); l.TeamID == sv.TeamID {
		s.teamName = sv.TeamName
	}
	s.loadedID, s.loadedName = sv.ID, sv.Name
	s.lastSaved = snapshot.FromSaved(sv)
	s.log.Info("saved lineup loaded", zap.String("id", sv.ID),
		zap.Strings("missing", res.Missing), zap.Strings("skipped", res.Skipped))
	return res, nil
}

func (s *Session) save(msg Save) (types.SavedLineup, error) {
	l, ok := s.store.Lineup()
	if !ok {
		return types.SavedLineup{}, ErrNoLineup
	}
	cur := s.current()

	var (
		sv  types.SavedLineup
		err error
	)
	if s.loadedID != "" && !msg.AsNew {
		sv, err = s.deps.Library.Get(s.ctx, s.loadedID)
		if err == nil {
			if msg.Name != "" {
				sv.Name = msg.Name
			}
			if msg.Notes != "" {
				sv.Notes = msg.Notes
			}
			sv.Formation = cur.Formation
			sv.Assignments = cur.Assignments
			sv.TeamID, sv.TeamName = cur.TeamID, cur.TeamName
			sv.Roles = l.Roles
			sv, err = s.deps.Library.Update(s.ctx, sv)
		}
	} else {
		sv, err = s.deps.Library.SaveNew(s.ctx, saved.Draft{
			Name:        msg.Name,
			Notes:       msg.Notes,
			Formation:   cur.Formation,
			Assignments: cur.Assignments,
			TeamID:      cur.TeamID,
			TeamName:    cur.TeamName,
			Roles:       l.Roles,
		})
	}
	if err != nil {
		if errors.Is(err, persist.ErrStorageFull) {
			s.storageFull = true
			s.log.Warn("save refused: storage full", zap.Error(err))
		}
		return types.SavedLineup{}, err
	}

	s.storageFull = false
	s.loadedID, s.loadedName = sv.ID, sv.Name
	s.lastSaved = cur
	return sv, nil
}

func (s *Session) snapshot(events []engine.Event) Snapshot {
	snap := Snapshot{
		Version:     s.version,
		TeamName:    s.teamName,
		LoadedID:    s.loadedID,
		LoadedName:  s.loadedName,
		StorageFull: s.storageFull,
		Events:      events,
		Roster:      s.store.Roster(),
	}
	if l, ok := s.store.Lineup(); ok {
		snap.Lineup = l
		snap.FormationName = catalog.Name(s.deps.Catalog, l.FormationCode)
		snap.Dirty = snapshot.Dirty(s.current(), s.lastSaved)
	}
	return snap
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		select {
		case ch <- snap:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
		}
	}
}

func reply[T any](ch chan T, v T) {
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
	}
}
