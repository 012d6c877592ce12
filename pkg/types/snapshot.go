package types

import "github.com/DoyleJ11/lineup-backend/internal/engine"

type FormationRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Assignments is the saved shape of a lineup: the bench is dense, so slot
// indices past ordering are not kept.
type Assignments struct {
	OnField engine.Placements `json:"onField"`
	Bench   []string          `json:"bench"`
}

// Snapshot is the comparable form of a lineup used for dirty checks and
// reconciliation diffs.
type Snapshot struct {
	Formation   FormationRef `json:"formation"`
	Assignments Assignments  `json:"assignments"`
	TeamID      string       `json:"teamId,omitempty"`
	TeamName    string       `json:"teamName,omitempty"`
}
