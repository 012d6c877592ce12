package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
	"github.com/DoyleJ11/lineup-backend/internal/engine"
	"github.com/DoyleJ11/lineup-backend/pkg/types"
)

func saved442() types.SavedLineup {
	return types.SavedLineup{
		ID:        "s1",
		Name:      "Cup final",
		Formation: types.FormationRef{Code: "4-4-2", Name: "4-4-2 Flat"},
		Assignments: types.Assignments{
			OnField: engine.Placements{"GK": "g1", "LST": "s1", "RST": "s2", "LM": ""},
			Bench:   []string{"b1", "b2"},
		},
		TeamID: "t2",
		Roles:  engine.Roles{engine.RoleCaptain: "s1"},
	}
}

func active433(t *testing.T, roster []string) *engine.Store {
	t.Helper()
	f, ok := catalog.Default().Resolve("4-3-3")
	require.True(t, ok)
	s := engine.NewStore()
	s.StartLineup("t1", f.Code, f.SlotCodes(), roster)
	return s
}

func TestApply_SwitchFormationDiscardsCurrent(t *testing.T) {
	s := active433(t, nil)
	require.NoError(t, s.PlacePlayer("ST", "old9"))

	res, err := Apply(s, saved442(), catalog.Default(), Options{SwitchFormation: true})
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)

	l, ok := s.Lineup()
	require.True(t, ok)
	assert.Equal(t, "4-4-2", l.FormationCode)
	assert.Equal(t, "t2", l.TeamID)
	assert.False(t, l.Placed("old9"))
	assert.Equal(t, "g1", l.OnField["GK"])
	assert.Equal(t, "s1", l.OnField["LST"])
	assert.Equal(t, "s2", l.OnField["RST"])
	assert.Equal(t, engine.Bench{"b1", "b2"}, l.BenchSlots)
	assert.Equal(t, "s1", l.Roles[engine.RoleCaptain])
}

func TestApply_KeepsFormationAndSkipsUnknownSlots(t *testing.T) {
	s := active433(t, nil)
	require.NoError(t, s.PlacePlayer("CM", "c1"))

	res, err := Apply(s, saved442(), catalog.Default(), Options{SwitchTeam: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"LST", "RST"}, res.Skipped)

	l, _ := s.Lineup()
	assert.Equal(t, "4-3-3", l.FormationCode)
	assert.Equal(t, "t2", l.TeamID)
	assert.Equal(t, "c1", l.OnField["CM"])
	assert.Equal(t, "g1", l.OnField["GK"])
	_, hasLST := l.OnField["LST"]
	assert.False(t, hasLST)
}

func TestApply_MissingPlayersAreLeftOut(t *testing.T) {
	roster := []string{"g1", "s1", "b1", "x1", "x2"}
	s := active433(t, roster)

	res, err := Apply(s, saved442(), catalog.Default(), Options{SwitchFormation: true, AutoFillBench: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s2", "b2"}, res.Missing)
	assert.Equal(t, []string{"x1", "x2"}, res.Filled)

	l, _ := s.Lineup()
	assert.Equal(t, "", l.OnField["RST"])
	assert.Equal(t, engine.Bench{"b1", "x1", "x2"}, l.BenchSlots)
}

func TestApply_StartsUninitializedStore(t *testing.T) {
	s := engine.NewStore()

	_, err := Apply(s, saved442(), catalog.Default(), Options{})
	require.NoError(t, err)

	l, ok := s.Lineup()
	require.True(t, ok)
	assert.Equal(t, "4-4-2", l.FormationCode)
	assert.Equal(t, "t2", l.TeamID)
	assert.Equal(t, "g1", l.OnField["GK"])
}

func TestApply_UnknownFormationLeavesStoreUntouched(t *testing.T) {
	s := engine.NewStore()
	saved := saved442()
	saved.Formation.Code = "2-3-5"

	_, err := Apply(s, saved, catalog.Default(), Options{SwitchFormation: true})
	require.ErrorIs(t, err, ErrUnknownFormation)
	assert.False(t, s.Active())
}

func TestApply_IsAllOrNothing(t *testing.T) {
	s := active433(t, nil)
	require.NoError(t, s.PlacePlayer("GK", "keep"))
	before, _ := s.Lineup()

	saved := saved442()
	saved.Roles = engine.Roles{"vice": "s1"}

	_, err := Apply(s, saved, catalog.Default(), Options{SwitchFormation: true})
	require.ErrorIs(t, err, engine.ErrInvalidRole)

	after, _ := s.Lineup()
	assert.Equal(t, before, after)
}

func TestApply_BenchBoundedToEight(t *testing.T) {
	s := active433(t, nil)
	saved := saved442()
	saved.Assignments.OnField = engine.Placements{}
	saved.Assignments.Bench = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}

	_, err := Apply(s, saved, catalog.Default(), Options{})
	require.NoError(t, err)

	l, _ := s.Lineup()
	assert.Equal(t, engine.Bench{"1", "2", "3", "4", "5", "6", "7", "8"}, l.BenchSlots)
	assert.False(t, l.Placed("9"))
}

func TestApply_SwitchFormationKeepsCurrentTeamWhenSavedHasNone(t *testing.T) {
	s := active433(t, nil)
	saved := saved442()
	saved.TeamID = ""

	_, err := Apply(s, saved, catalog.Default(), Options{SwitchFormation: true})
	require.NoError(t, err)

	l, _ := s.Lineup()
	assert.Equal(t, "4-4-2", l.FormationCode)
	assert.Equal(t, "t1", l.TeamID)
}

func TestApply_UnknownFormationOnActiveStoreKeepsCurrent(t *testing.T) {
	s := active433(t, nil)
	require.NoError(t, s.PlacePlayer("CM", "c1"))
	saved := saved442()
	saved.Formation.Code = "9-9-9"

	res, err := Apply(s, saved, catalog.Default(), Options{SwitchFormation: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"LST", "RST"}, res.Skipped)

	l, _ := s.Lineup()
	assert.Equal(t, "4-3-3", l.FormationCode)
	assert.Equal(t, "t1", l.TeamID)
	assert.Equal(t, "c1", l.OnField["CM"])
	assert.Equal(t, "g1", l.OnField["GK"])
	assert.Equal(t, engine.Bench{"b1", "b2"}, l.BenchSlots)
}

func TestApply_EmptySavedRoleKeepsExisting(t *testing.T) {
	s := active433(t, nil)
	require.NoError(t, s.PlacePlayer("GK", "g1"))
	require.NoError(t, s.SetRole(engine.RoleCaptain, "g1"))

	saved := saved442()
	saved.Roles = engine.Roles{engine.RoleCaptain: ""}

	_, err := Apply(s, saved, catalog.Default(), Options{})
	require.NoError(t, err)

	l, _ := s.Lineup()
	assert.Equal(t, "g1", l.Roles[engine.RoleCaptain])
}
