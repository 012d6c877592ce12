// Package snapshot converts working lineups into comparable snapshots and
// diffs them against saved lineups.
package snapshot

import (
	"maps"
	"slices"

	"github.com/DoyleJ11/lineup-backend/internal/engine"
	"github.com/DoyleJ11/lineup-backend/pkg/types"
)

// Serialize copies l into a snapshot. The positional bench becomes a dense
// list; vacant bench slots are dropped in order.
func Serialize(l *engine.Lineup, formationName, teamName string) *types.Snapshot {
	if l == nil {
		return nil
	}
	onField := maps.Clone(l.OnField)
	if onField == nil {
		onField = engine.Placements{}
	}
	return &types.Snapshot{
		Formation: types.FormationRef{Code: l.FormationCode, Name: formationName},
		Assignments: types.Assignments{
			OnField: onField,
			Bench:   l.BenchSlots.Dense(),
		},
		TeamID:   l.TeamID,
		TeamName: teamName,
	}
}

// FromSaved returns the snapshot view of a saved lineup.
func FromSaved(saved types.SavedLineup) *types.Snapshot {
	return &types.Snapshot{
		Formation: saved.Formation,
		Assignments: types.Assignments{
			OnField: maps.Clone(saved.Assignments.OnField),
			Bench:   slices.Clone(saved.Assignments.Bench),
		},
		TeamID:   saved.TeamID,
		TeamName: saved.TeamName,
	}
}

// Equal compares formation code, team, the slot mapping and the bench order.
// Display names are ignored.
func Equal(a, b *types.Snapshot) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Formation.Code != b.Formation.Code || a.TeamID != b.TeamID {
		return false
	}
	if !maps.Equal(a.Assignments.OnField, b.Assignments.OnField) {
		return false
	}
	return slices.Equal(a.Assignments.Bench, b.Assignments.Bench)
}

// Dirty reports unsaved changes: always when nothing was saved yet,
// otherwise when a current snapshot exists and differs.
func Dirty(current, lastSaved *types.Snapshot) bool {
	if lastSaved == nil {
		return true
	}
	if current == nil {
		return false
	}
	return !Equal(current, lastSaved)
}
