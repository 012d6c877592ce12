package session

import (
	"github.com/DoyleJ11/lineup-backend/internal/engine"
	"github.com/DoyleJ11/lineup-backend/internal/reconcile"
	"github.com/DoyleJ11/lineup-backend/internal/snapshot"
	"github.com/DoyleJ11/lineup-backend/pkg/types"
)

// Msg is anything the session loop accepts. Reply channels must be buffered;
// the loop never blocks on a reply.
type Msg interface{ isSessionMsg() }

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

type Leave struct{ ClientID string }

// FromClient applies one engine command. TeamName, when set alongside a
// StartLineup or SetTeam, becomes the display name for the new team.
type FromClient struct {
	Cmd      engine.Command
	TeamName string
	Reply    chan error // optional
}

// Diff previews how a saved lineup differs from the working one. A nil
// Roster uses the roster the lineup was started with.
type Diff struct {
	SavedID string
	Roster  []string
	Reply   chan DiffResult
}

type DiffResult struct {
	Diff snapshot.Diff
	Err  error
}

// Load reconciles a saved lineup into the working one.
type Load struct {
	SavedID string
	Options reconcile.Options
	Reply   chan LoadResult
}

type LoadResult struct {
	Result reconcile.Result
	Err    error
}

// Save stores the working lineup. It updates the loaded saved lineup unless
// AsNew is set or nothing is loaded, in which case Name is required.
type Save struct {
	Name  string
	Notes string
	AsNew bool
	Reply chan SaveResult
}

type SaveResult struct {
	Saved types.SavedLineup
	Err   error
}

type GetState struct {
	Reply chan View
}

type Shutdown struct{}

// persisted reports the outcome of a background autosave.
type persisted struct{ err error }

func (Join) isSessionMsg()       {}
func (Leave) isSessionMsg()      {}
func (FromClient) isSessionMsg() {}
func (Diff) isSessionMsg()       {}
func (Load) isSessionMsg()       {}
func (Save) isSessionMsg()       {}
func (GetState) isSessionMsg()   {}
func (Shutdown) isSessionMsg()   {}
func (persisted) isSessionMsg()  {}
