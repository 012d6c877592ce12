package types

import (
	"encoding/json"
	"time"

	"github.com/DoyleJ11/lineup-backend/internal/engine"
)

// SavedLineup is a named lineup kept in the saved-lineup library.
type SavedLineup struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Formation   FormationRef `json:"formation"`
	Assignments Assignments  `json:"assignments"`
	TeamID      string       `json:"teamId,omitempty"`
	TeamName    string       `json:"teamName,omitempty"`
	Roles       engine.Roles `json:"roles,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// LineupRecord is the persisted working lineup as found in storage. Every
// field is loose because older versions wrote different shapes: Bench is the
// legacy dense list, BenchSlots the positional one, and OnField is kept raw
// so a malformed map can be told apart from a missing one.
type LineupRecord struct {
	TeamID        string            `json:"teamId"`
	FormationCode string            `json:"formationCode"`
	OnField       json.RawMessage   `json:"onField,omitempty"`
	Bench         []*string         `json:"bench,omitempty"`
	BenchSlots    []*string         `json:"benchSlots,omitempty"`
	Roles         map[string]string `json:"roles,omitempty"`
}

// Player is a roster entry. The engine only stores ids.
type Player struct {
	ID           string   `json:"id"`
	Jersey       int      `json:"jersey"`
	Name         string   `json:"name"`
	PrimaryPos   string   `json:"primaryPos,omitempty"`
	SecondaryPos []string `json:"secondaryPos,omitempty"`
}

func PlayerIDs(players []Player) []string {
	ids := make([]string, 0, len(players))
	for _, p := range players {
		if p.ID != "" {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
