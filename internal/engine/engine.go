package engine

import (
	"errors"
	"slices"
)

var ErrInvalidSlot = errors.New("slot not in current formation")
var ErrInvalidIndex = errors.New("bench index out of range")
var ErrBenchOverflow = errors.New("no free bench slot")
var ErrInvalidRole = errors.New("unknown role")
var ErrEmptyPlayer = errors.New("empty player id")
var ErrUnsupportedCommand = errors.New("unsupported command")

// State is either Uninitialized (Working == nil) or Active.
type State struct {
	Working *Lineup
}

func (s State) Active() bool { return s.Working != nil }

// Lineup is the working assignment state. Every player id appears in at most
// one place across OnField and BenchSlots, and the OnField key set always
// equals the formation's slot codes.
type Lineup struct {
	TeamID        string     `json:"teamId"`
	FormationCode string     `json:"formationCode"`
	OnField       Placements `json:"onField"`
	BenchSlots    Bench      `json:"benchSlots"`
	Roles         Roles      `json:"roles"`

	// Slots keeps the formation's slot order; OnField is unordered.
	Slots []string `json:"-"`
}

type CommandType string

const (
	CmdStartLineup     CommandType = "StartLineup"
	CmdPlacePlayer     CommandType = "PlacePlayer"
	CmdRemoveFromSlot  CommandType = "RemoveFromSlot"
	CmdSwapSlots       CommandType = "SwapSlots"
	CmdAssignToBench   CommandType = "AssignToBench"
	CmdRemoveFromBench CommandType = "RemoveFromBench"
	CmdSwapBenchBench  CommandType = "SwapBenchBench"
	CmdMoveToBench     CommandType = "MoveToBench"
	CmdSetFormation    CommandType = "SetFormation"
	CmdSetRole         CommandType = "SetRole"
	CmdSetTeam         CommandType = "SetTeam"
	CmdReset           CommandType = "Reset"
)

/*
	CmdPlacePlayer    -> EvtSlotCleared/EvtBenchCleared (old spot) -> EvtPlayerPlaced
	CmdRemoveFromSlot -> EvtSlotCleared -> EvtPlayerBenched
	CmdSetFormation   -> EvtPlayerBenched (per displaced player) -> EvtFormationChanged
	CmdMoveToBench    -> EvtSlotCleared (fromSlot) -> EvtPlayerBenched
*/

type Command struct {
	Type          CommandType
	TeamID        string
	FormationCode string
	SlotCodes     []string
	RosterIDs     []string
	Slot          string
	OtherSlot     string
	Index         int
	OtherIndex    int
	PlayerID      string
	Role          Role
}

type EventType string

const (
	EvtLineupStarted    EventType = "LineupStarted"
	EvtPlayerPlaced     EventType = "PlayerPlaced"
	EvtSlotCleared      EventType = "SlotCleared"
	EvtSlotsSwapped     EventType = "SlotsSwapped"
	EvtPlayerBenched    EventType = "PlayerBenched"
	EvtBenchCleared     EventType = "BenchCleared"
	EvtBenchSwapped     EventType = "BenchSwapped"
	EvtFormationChanged EventType = "FormationChanged"
	EvtRoleSet          EventType = "RoleSet"
	EvtTeamChanged      EventType = "TeamChanged"
	EvtLineupReset      EventType = "LineupReset"
)

type Event struct {
	Type     EventType
	Slot     string
	Index    int
	PlayerID string
}

// Apply runs cmd against s and returns the resulting state. s is never
// mutated; on error the returned state is s itself.
func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdStartLineup:
		l := NewLineup(cmd.TeamID, cmd.FormationCode, cmd.SlotCodes)
		return []Event{{Type: EvtLineupStarted}}, State{Working: l}, nil

	case CmdReset:
		if !s.Active() {
			return nil, s, nil
		}
		return []Event{{Type: EvtLineupReset}}, State{}, nil
	}

	// Everything else is a no-op until a lineup exists
	if !s.Active() {
		if !knownCommand(cmd.Type) {
			return nil, s, ErrUnsupportedCommand
		}
		return nil, s, nil
	}

	l := s.Working.Clone()
	var events []Event

	switch cmd.Type {
	case CmdPlacePlayer:
		if cmd.PlayerID == "" {
			return nil, s, ErrEmptyPlayer
		}
		if !l.HasSlot(cmd.Slot) {
			return nil, s, ErrInvalidSlot
		}
		events = l.evict(cmd.PlayerID)
		l.OnField[cmd.Slot] = cmd.PlayerID
		events = append(events, Event{Type: EvtPlayerPlaced, Slot: cmd.Slot, PlayerID: cmd.PlayerID})

	case CmdRemoveFromSlot:
		if !l.HasSlot(cmd.Slot) {
			return nil, s, ErrInvalidSlot
		}
		player := l.OnField[cmd.Slot]
		if player == "" {
			return nil, s, nil
		}
		idx := l.BenchSlots.FirstEmpty()
		if idx < 0 {
			return nil, s, ErrBenchOverflow
		}
		l.OnField[cmd.Slot] = ""
		l.BenchSlots[idx] = player
		events = []Event{
			{Type: EvtSlotCleared, Slot: cmd.Slot, PlayerID: player},
			{Type: EvtPlayerBenched, Index: idx, PlayerID: player},
		}

	case CmdSwapSlots:
		if !l.HasSlot(cmd.Slot) || !l.HasSlot(cmd.OtherSlot) {
			return nil, s, ErrInvalidSlot
		}
		l.OnField[cmd.Slot], l.OnField[cmd.OtherSlot] = l.OnField[cmd.OtherSlot], l.OnField[cmd.Slot]
		events = []Event{{Type: EvtSlotsSwapped, Slot: cmd.Slot}}

	case CmdAssignToBench:
		if !validIndex(cmd.Index) {
			return nil, s, ErrInvalidIndex
		}
		if cmd.PlayerID == "" {
			return nil, s, ErrEmptyPlayer
		}
		events = l.evict(cmd.PlayerID)
		l.BenchSlots[cmd.Index] = cmd.PlayerID
		events = append(events, Event{Type: EvtPlayerBenched, Index: cmd.Index, PlayerID: cmd.PlayerID})

	case CmdRemoveFromBench:
		if !validIndex(cmd.Index) {
			return nil, s, ErrInvalidIndex
		}
		player := l.BenchSlots[cmd.Index]
		l.BenchSlots[cmd.Index] = ""
		events = []Event{{Type: EvtBenchCleared, Index: cmd.Index, PlayerID: player}}

	case CmdSwapBenchBench:
		if !validIndex(cmd.Index) || !validIndex(cmd.OtherIndex) {
			return nil, s, ErrInvalidIndex
		}
		l.BenchSlots[cmd.Index], l.BenchSlots[cmd.OtherIndex] = l.BenchSlots[cmd.OtherIndex], l.BenchSlots[cmd.Index]
		events = []Event{{Type: EvtBenchSwapped, Index: cmd.Index}}

	case CmdMoveToBench:
		if !validIndex(cmd.Index) {
			return nil, s, ErrInvalidIndex
		}
		if cmd.PlayerID == "" {
			return nil, s, ErrEmptyPlayer
		}
		if cmd.Slot != "" && !l.HasSlot(cmd.Slot) {
			return nil, s, ErrInvalidSlot
		}
		if cmd.Slot != "" {
			events = append(events, Event{Type: EvtSlotCleared, Slot: cmd.Slot, PlayerID: l.OnField[cmd.Slot]})
			l.OnField[cmd.Slot] = ""
		}
		events = append(events, l.evict(cmd.PlayerID)...)
		l.BenchSlots[cmd.Index] = cmd.PlayerID
		events = append(events, Event{Type: EvtPlayerBenched, Index: cmd.Index, PlayerID: cmd.PlayerID})

	case CmdSetFormation:
		evs, err := l.reshape(cmd.FormationCode, cmd.SlotCodes)
		if err != nil {
			return nil, s, err
		}
		events = evs

	case CmdSetRole:
		if !cmd.Role.Valid() {
			return nil, s, ErrInvalidRole
		}
		if cmd.PlayerID == "" {
			delete(l.Roles, cmd.Role)
		} else {
			l.Roles[cmd.Role] = cmd.PlayerID
		}
		events = []Event{{Type: EvtRoleSet, Slot: string(cmd.Role), PlayerID: cmd.PlayerID}}

	case CmdSetTeam:
		l.TeamID = cmd.TeamID
		events = []Event{{Type: EvtTeamChanged}}

	default:
		return nil, s, ErrUnsupportedCommand
	}

	return events, State{Working: l}, nil
}

// evict clears every occurrence of playerID on the field and on the bench.
func (l *Lineup) evict(playerID string) []Event {
	var events []Event
	for _, slot := range l.Slots {
		if l.OnField[slot] == playerID {
			l.OnField[slot] = ""
			events = append(events, Event{Type: EvtSlotCleared, Slot: slot, PlayerID: playerID})
		}
	}
	for i, id := range l.BenchSlots {
		if id == playerID {
			l.BenchSlots[i] = ""
			events = append(events, Event{Type: EvtBenchCleared, Index: i, PlayerID: playerID})
		}
	}
	return events
}

// reshape rebuilds OnField for a new formation. Occupants of dropped slots go
// to the first free bench slots in old slot order; if they do not all fit the
// lineup is left untouched.
func (l *Lineup) reshape(code string, slotCodes []string) ([]Event, error) {
	slotCodes = uniqueSlots(slotCodes)
	bench := l.BenchSlots
	var events []Event
	for _, slot := range l.Slots {
		player := l.OnField[slot]
		if player == "" || slices.Contains(slotCodes, slot) {
			continue
		}
		idx := bench.FirstEmpty()
		if idx < 0 {
			return nil, ErrBenchOverflow
		}
		bench[idx] = player
		events = append(events, Event{Type: EvtPlayerBenched, Index: idx, Slot: slot, PlayerID: player})
	}

	onField := make(Placements, len(slotCodes))
	for _, slot := range slotCodes {
		onField[slot] = l.OnField[slot]
	}

	l.FormationCode = code
	l.OnField = onField
	l.Slots = slotCodes
	l.BenchSlots = bench
	return append(events, Event{Type: EvtFormationChanged}), nil
}

func validIndex(i int) bool {
	return i >= 0 && i < BenchSize
}

func knownCommand(t CommandType) bool {
	switch t {
	case CmdPlacePlayer, CmdRemoveFromSlot, CmdSwapSlots, CmdAssignToBench, CmdRemoveFromBench,
		CmdSwapBenchBench, CmdMoveToBench, CmdSetFormation, CmdSetRole, CmdSetTeam:
		return true
	}
	return false
}
