// Package reconcile applies a saved lineup onto a live store. The steps run
// in a fixed order against a staged copy of the store and are committed in
// one go, so no caller ever observes a half-applied load.
package reconcile

import (
	"fmt"
	"maps"
	"slices"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
	"github.com/DoyleJ11/lineup-backend/internal/engine"
	"github.com/DoyleJ11/lineup-backend/pkg/types"
)

type Options struct {
	SwitchTeam      bool `json:"switchTeam"`
	SwitchFormation bool `json:"switchFormation"`
	AutoFillBench   bool `json:"autoFillBench"`

	// Roster is the available player ids. When nil the store's roster is used;
	// when that is empty too, no saved player is treated as missing.
	Roster []string `json:"roster,omitempty"`
}

type Result struct {
	// Skipped lists saved slot codes absent from the resulting formation.
	Skipped []string `json:"skipped,omitempty"`
	// Missing lists saved players left out because they are not on the roster.
	Missing []string `json:"missing,omitempty"`
	// Filled lists players placed on the bench by auto-fill.
	Filled []string `json:"filled,omitempty"`
}

// Apply loads saved into store.
//
//  1. SwitchFormation restarts the lineup on the saved formation and team,
//     discarding current placements. A saved formation the catalog does not
//     know keeps the current one. An uninitialized store is always started.
//  2. SwitchTeam moves the lineup to the saved team.
//  3. Saved field placements are applied to slots the formation has.
//  4. The saved bench is applied from index 0, at most engine.BenchSize.
//  5. Saved roles with a player are applied.
//  6. AutoFillBench fills the remaining bench slots from the roster.
//
// On error store is left untouched.
func Apply(store *engine.Store, saved types.SavedLineup, cat catalog.Catalog, opts Options) (Result, error) {
	var res Result
	stage := store.Clone()

	roster := opts.Roster
	if roster == nil {
		roster = stage.Roster()
	}
	available := func(id string) bool {
		return len(roster) == 0 || slices.Contains(roster, id)
	}

	if opts.SwitchFormation || !stage.Active() {
		f, ok := cat.Resolve(saved.Formation.Code)
		switch {
		case ok:
			teamID := saved.TeamID
			if cur, active := stage.Lineup(); active && teamID == "" {
				teamID = cur.TeamID
			}
			stage.StartLineup(teamID, f.Code, f.SlotCodes(), roster)
		case !stage.Active():
			return res, fmt.Errorf("formation %q: %w", saved.Formation.Code, ErrUnknownFormation)
		}
	}

	if opts.SwitchTeam && saved.TeamID != "" {
		stage.SetTeam(saved.TeamID)
	}

	cur, _ := stage.Lineup()
	for _, slot := range sortedSlots(saved.Assignments.OnField, cur.Slots) {
		id := saved.Assignments.OnField[slot]
		if id == "" {
			continue
		}
		if !cur.HasSlot(slot) {
			res.Skipped = append(res.Skipped, slot)
			continue
		}
		if !available(id) {
			res.Missing = append(res.Missing, id)
			continue
		}
		if err := stage.PlacePlayer(slot, id); err != nil {
			return Result{}, fmt.Errorf("place %s in %s: %w", id, slot, err)
		}
	}

	for i, id := range saved.Assignments.Bench {
		if i == engine.BenchSize {
			break
		}
		if id == "" {
			continue
		}
		if !available(id) {
			res.Missing = append(res.Missing, id)
			continue
		}
		if err := stage.AssignToBench(i, id); err != nil {
			return Result{}, fmt.Errorf("bench %s at %d: %w", id, i, err)
		}
	}

	for _, role := range slices.Sorted(maps.Keys(saved.Roles)) {
		if saved.Roles[role] == "" {
			continue
		}
		if err := stage.SetRole(role, saved.Roles[role]); err != nil {
			return Result{}, fmt.Errorf("role %s: %w", role, err)
		}
	}

	if opts.AutoFillBench {
		res.Filled = autoFill(stage, roster)
	}

	*store = *stage
	return res, nil
}

// autoFill puts unplaced roster players into empty bench slots, in roster
// order.
func autoFill(store *engine.Store, roster []string) []string {
	var filled []string
	for _, id := range roster {
		l, _ := store.Lineup()
		idx := l.BenchSlots.FirstEmpty()
		if idx < 0 {
			break
		}
		if id == "" || l.Placed(id) {
			continue
		}
		if err := store.AssignToBench(idx, id); err == nil {
			filled = append(filled, id)
		}
	}
	return filled
}

// sortedSlots orders saved slot codes by the current formation order, with
// codes the formation does not have at the end.
func sortedSlots(onField engine.Placements, order []string) []string {
	out := make([]string, 0, len(onField))
	for _, slot := range order {
		if _, ok := onField[slot]; ok {
			out = append(out, slot)
		}
	}
	var rest []string
	for slot := range onField {
		if !slices.Contains(out, slot) {
			rest = append(rest, slot)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}
