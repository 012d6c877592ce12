package types

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
	"github.com/DoyleJ11/lineup-backend/internal/engine"
	"github.com/DoyleJ11/lineup-backend/internal/session"
)

var (
	ErrUnknownType      = errors.New("unknown message type")
	ErrUnknownFormation = errors.New("unknown formation")
)

type ClientMessage struct {
	Type          string   `json:"type"`
	TeamID        string   `json:"teamId,omitempty"`
	TeamName      string   `json:"teamName,omitempty"`
	FormationCode string   `json:"formationCode,omitempty"`
	RosterIDs     []string `json:"rosterIds,omitempty"`
	Slot          string   `json:"slot,omitempty"`
	OtherSlot     string   `json:"otherSlot,omitempty"`
	Index         int      `json:"index,omitempty"`
	OtherIndex    int      `json:"otherIndex,omitempty"`
	PlayerID      string   `json:"playerId,omitempty"`
	Role          string   `json:"role,omitempty"`
}

type ServerMessage struct {
	Type    string            `json:"type"` // "StateSnapshot" | "Error"
	Version int               `json:"version,omitempty"`
	State   *session.Snapshot `json:"state,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// ToCommand maps a client message onto an engine command. Formation slot
// codes are resolved through cat, so clients only send the formation code.
func ToCommand(m ClientMessage, cat catalog.Catalog) (engine.Command, error) {
	typ := engine.CommandType(m.Type)
	cmd := engine.Command{
		Type:       typ,
		TeamID:     m.TeamID,
		RosterIDs:  m.RosterIDs,
		Slot:       m.Slot,
		OtherSlot:  m.OtherSlot,
		Index:      m.Index,
		OtherIndex: m.OtherIndex,
		PlayerID:   m.PlayerID,
		Role:       engine.Role(m.Role),
	}

	switch typ {
	case engine.CmdStartLineup, engine.CmdSetFormation:
		f, ok := cat.Resolve(m.FormationCode)
		if !ok {
			return engine.Command{}, fmt.Errorf("%q: %w", m.FormationCode, ErrUnknownFormation)
		}
		cmd.FormationCode = f.Code
		cmd.SlotCodes = f.SlotCodes()
	case engine.CmdPlacePlayer, engine.CmdRemoveFromSlot, engine.CmdSwapSlots,
		engine.CmdAssignToBench, engine.CmdRemoveFromBench, engine.CmdSwapBenchBench,
		engine.CmdMoveToBench, engine.CmdSetRole, engine.CmdSetTeam, engine.CmdReset:
	default:
		return engine.Command{}, fmt.Errorf("%q: %w", m.Type, ErrUnknownType)
	}
	return cmd, nil
}
