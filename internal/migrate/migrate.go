// Package migrate turns whatever an older version persisted as the working
// lineup into a current engine.Lineup. It never fails loudly: an
// unrecoverable record yields nil, meaning "start with no working lineup".
package migrate

import (
	"encoding/json"
	"sort"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
	"github.com/DoyleJ11/lineup-backend/internal/engine"
	"github.com/DoyleJ11/lineup-backend/pkg/types"
)

// Decode parses a stored record field by field so that one malformed field
// does not lose the rest. It returns nil for data that is not a JSON object.
func Decode(data []byte) *types.LineupRecord {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}
	var rec types.LineupRecord
	_ = json.Unmarshal(fields["teamId"], &rec.TeamID)
	_ = json.Unmarshal(fields["formationCode"], &rec.FormationCode)
	rec.OnField = fields["onField"]
	rec.Bench = decodeIDs(fields["bench"])
	rec.BenchSlots = decodeIDs(fields["benchSlots"])
	rec.Roles = decodeRoles(fields["roles"])
	return &rec
}

// Migrate builds a lineup from raw using cat for the formation's slots.
func Migrate(raw *types.LineupRecord, cat catalog.Catalog) *engine.Lineup {
	if raw == nil || raw.TeamID == "" {
		return nil
	}

	l := &engine.Lineup{
		TeamID:        raw.TeamID,
		FormationCode: raw.FormationCode,
		BenchSlots:    normalizeBench(raw),
		Roles:         engine.Roles{},
	}
	for k, v := range raw.Roles {
		if r := engine.Role(k); r.Valid() && v != "" {
			l.Roles[r] = v
		}
	}

	if l.FormationCode == "" {
		if list := cat.List(); len(list) > 0 {
			l.FormationCode = list[0].Code
		}
	}

	old, wellFormed := parseOnField(raw.OnField)
	if f, ok := cat.Resolve(l.FormationCode); ok {
		// Slots outside the formation are dropped, occupants included.
		l.Slots = f.SlotCodes()
		l.OnField = make(engine.Placements, len(l.Slots))
		for _, slot := range l.Slots {
			l.OnField[slot] = old[slot]
		}
	} else if wellFormed {
		l.OnField = old
		l.Slots = sortedKeys(old)
	} else {
		l.OnField = engine.Placements{}
	}

	dedupe(l)
	return l
}

// Load decodes and migrates in one step.
func Load(data []byte, cat catalog.Catalog) *engine.Lineup {
	return Migrate(Decode(data), cat)
}

// normalizeBench accepts the positional 8-slot array, the legacy dense list,
// or a positional array of the wrong length, in that order of preference.
func normalizeBench(raw *types.LineupRecord) engine.Bench {
	switch {
	case len(raw.BenchSlots) == engine.BenchSize:
		return engine.BenchFromPositional(raw.BenchSlots)
	case len(raw.Bench) > 0:
		var b engine.Bench
		for i, id := range raw.Bench {
			if i == engine.BenchSize {
				break
			}
			if id != nil {
				b[i] = *id
			}
		}
		return b
	case raw.BenchSlots != nil:
		return engine.BenchFromPositional(raw.BenchSlots)
	}
	return engine.Bench{}
}

// parseOnField reports whether msg is a slot -> id|null object.
func parseOnField(msg json.RawMessage) (engine.Placements, bool) {
	if len(msg) == 0 {
		return engine.Placements{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil || fields == nil {
		return engine.Placements{}, false
	}
	out := make(engine.Placements, len(fields))
	wellFormed := true
	for slot, v := range fields {
		var id *string
		if err := json.Unmarshal(v, &id); err != nil {
			wellFormed = false
			continue
		}
		if id != nil {
			out[slot] = *id
		} else {
			out[slot] = ""
		}
	}
	return out, wellFormed
}

// dedupe keeps each player's first placement: field slots in order, then
// bench by index.
func dedupe(l *engine.Lineup) {
	seen := make(map[string]bool)
	for _, slot := range l.Slots {
		id := l.OnField[slot]
		if id == "" {
			continue
		}
		if seen[id] {
			l.OnField[slot] = ""
			continue
		}
		seen[id] = true
	}
	for i, id := range l.BenchSlots {
		if id == "" {
			continue
		}
		if seen[id] {
			l.BenchSlots[i] = ""
			continue
		}
		seen[id] = true
	}
}

func decodeIDs(msg json.RawMessage) []*string {
	if len(msg) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil || items == nil {
		return nil
	}
	out := make([]*string, len(items))
	for i, item := range items {
		var id string
		if err := json.Unmarshal(item, &id); err == nil && id != "" {
			out[i] = &id
		}
	}
	return out
}

func decodeRoles(msg json.RawMessage) map[string]string {
	if len(msg) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		var id string
		if err := json.Unmarshal(v, &id); err == nil && id != "" {
			out[k] = id
		}
	}
	return out
}

func sortedKeys(p engine.Placements) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
