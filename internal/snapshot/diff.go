package snapshot

import (
	"github.com/DoyleJ11/lineup-backend/pkg/types"
)

type Diff struct {
	TeamChanged     bool   `json:"teamChanged"`
	CurrentTeamName string `json:"currentTeamName,omitempty"`
	SavedTeamName   string `json:"savedTeamName,omitempty"`

	FormationChanged     bool   `json:"formationChanged"`
	CurrentFormationName string `json:"currentFormationName,omitempty"`
	SavedFormationName   string `json:"savedFormationName,omitempty"`

	// MissingPlayers are saved ids not on the available roster.
	MissingPlayers []string `json:"missingPlayers"`
}

func (d Diff) HasDifferences() bool {
	return d.TeamChanged || d.FormationChanged || len(d.MissingPlayers) > 0
}

// ComputeDiff classifies how saved differs from the current snapshot and the
// available roster. A nil current never reports team or formation changes.
func ComputeDiff(current *types.Snapshot, saved types.SavedLineup, availableRosterIDs []string) Diff {
	d := Diff{
		SavedTeamName:      saved.TeamName,
		SavedFormationName: saved.Formation.Name,
		MissingPlayers:     []string{},
	}
	if current != nil {
		d.TeamChanged = current.TeamID != saved.TeamID
		d.FormationChanged = current.Formation.Code != saved.Formation.Code
		d.CurrentTeamName = current.TeamName
		d.CurrentFormationName = current.Formation.Name
	}

	available := make(map[string]bool, len(availableRosterIDs))
	for _, id := range availableRosterIDs {
		available[id] = true
	}
	seen := make(map[string]bool)
	check := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		if !available[id] {
			d.MissingPlayers = append(d.MissingPlayers, id)
		}
	}
	for _, id := range saved.Assignments.OnField {
		check(id)
	}
	for _, id := range saved.Assignments.Bench {
		check(id)
	}
	return d
}
