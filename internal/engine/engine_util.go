package engine

import (
	"maps"
	"slices"
	"sort"
)

// NewLineup returns an empty lineup keyed by slotCodes.
func NewLineup(teamID, formationCode string, slotCodes []string) *Lineup {
	slots := uniqueSlots(slotCodes)
	onField := make(Placements, len(slots))
	for _, slot := range slots {
		onField[slot] = ""
	}
	return &Lineup{
		TeamID:        teamID,
		FormationCode: formationCode,
		OnField:       onField,
		Roles:         Roles{},
		Slots:         slots,
	}
}

func (l *Lineup) Clone() *Lineup {
	if l == nil {
		return nil
	}
	c := *l
	c.OnField = maps.Clone(l.OnField)
	if c.OnField == nil {
		c.OnField = Placements{}
	}
	c.Roles = maps.Clone(l.Roles)
	if c.Roles == nil {
		c.Roles = Roles{}
	}
	c.Slots = slices.Clone(l.Slots)
	return &c
}

func (l *Lineup) HasSlot(slot string) bool {
	_, ok := l.OnField[slot]
	return ok
}

// Normalize makes Slots agree with the OnField key set. Slots already present
// keep their order; unknown keys are appended sorted.
func (l *Lineup) Normalize() {
	if l.OnField == nil {
		l.OnField = Placements{}
	}
	if l.Roles == nil {
		l.Roles = Roles{}
	}
	slots := make([]string, 0, len(l.OnField))
	seen := make(map[string]bool, len(l.OnField))
	for _, slot := range l.Slots {
		if _, ok := l.OnField[slot]; ok && !seen[slot] {
			slots = append(slots, slot)
			seen[slot] = true
		}
	}
	var extra []string
	for slot := range l.OnField {
		if !seen[slot] {
			extra = append(extra, slot)
		}
	}
	sort.Strings(extra)
	l.Slots = append(slots, extra...)
}

// Placed reports whether playerID is on the field or on the bench.
func (l *Lineup) Placed(playerID string) bool {
	for _, id := range l.OnField {
		if id == playerID {
			return true
		}
	}
	return slices.Contains(l.BenchSlots[:], playerID)
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func uniqueSlots(slotCodes []string) []string {
	out := make([]string, 0, len(slotCodes))
	for _, code := range slotCodes {
		if !slices.Contains(out, code) {
			out = append(out, code)
		}
	}
	return out
}
