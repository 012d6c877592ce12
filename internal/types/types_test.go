package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
	"github.com/DoyleJ11/lineup-backend/internal/engine"
)

func TestToCommand(t *testing.T) {
	cat := catalog.Default()

	cmd, err := ToCommand(ClientMessage{Type: "StartLineup", TeamID: "t1", FormationCode: "4-4-2", RosterIDs: []string{"p1"}}, cat)
	require.NoError(t, err)
	assert.Equal(t, engine.CmdStartLineup, cmd.Type)
	assert.Len(t, cmd.SlotCodes, 11)
	assert.Equal(t, "GK", cmd.SlotCodes[0])
	assert.Equal(t, []string{"p1"}, cmd.RosterIDs)

	cmd, err = ToCommand(ClientMessage{Type: "SwapBenchBench", Index: 1, OtherIndex: 3}, cat)
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.Index)
	assert.Equal(t, 3, cmd.OtherIndex)

	cmd, err = ToCommand(ClientMessage{Type: "SetRole", Role: "captain", PlayerID: "p1"}, cat)
	require.NoError(t, err)
	assert.Equal(t, engine.RoleCaptain, cmd.Role)

	_, err = ToCommand(ClientMessage{Type: "SetFormation", FormationCode: "2-3-5"}, cat)
	assert.ErrorIs(t, err, ErrUnknownFormation)

	_, err = ToCommand(ClientMessage{Type: "LockPick"}, cat)
	assert.ErrorIs(t, err, ErrUnknownType)
}
