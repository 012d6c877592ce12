package engine

import "slices"

// Store owns one working lineup and funnels every mutation through Apply, so
// a rejected operation leaves the previous state in place. It is not safe for
// concurrent use; a session goroutine owns it.
type Store struct {
	state  State
	roster []string
}

func NewStore() *Store {
	return &Store{}
}

// Restore installs an already-built lineup, e.g. one produced by migration.
// A nil lineup leaves the store Uninitialized.
func (s *Store) Restore(l *Lineup) {
	if l == nil {
		s.state = State{}
		return
	}
	c := l.Clone()
	c.Normalize()
	s.state = State{Working: c}
}

// Dispatch applies cmd and commits the result on success.
func (s *Store) Dispatch(cmd Command) ([]Event, error) {
	events, next, err := Apply(s.state, cmd)
	if err != nil {
		return nil, err
	}
	s.state = next
	switch cmd.Type {
	case CmdStartLineup:
		s.roster = slices.Clone(cmd.RosterIDs)
	case CmdReset:
		s.roster = nil
	}
	return events, nil
}

func (s *Store) StartLineup(teamID, formationCode string, slotCodes, rosterIDs []string) {
	_, _ = s.Dispatch(Command{Type: CmdStartLineup, TeamID: teamID, FormationCode: formationCode, SlotCodes: slotCodes, RosterIDs: rosterIDs})
}

func (s *Store) PlacePlayer(slot, playerID string) error {
	_, err := s.Dispatch(Command{Type: CmdPlacePlayer, Slot: slot, PlayerID: playerID})
	return err
}

func (s *Store) RemoveFromSlot(slot string) error {
	_, err := s.Dispatch(Command{Type: CmdRemoveFromSlot, Slot: slot})
	return err
}

func (s *Store) SwapSlots(slotA, slotB string) error {
	_, err := s.Dispatch(Command{Type: CmdSwapSlots, Slot: slotA, OtherSlot: slotB})
	return err
}

func (s *Store) AssignToBench(index int, playerID string) error {
	_, err := s.Dispatch(Command{Type: CmdAssignToBench, Index: index, PlayerID: playerID})
	return err
}

func (s *Store) RemoveFromBench(index int) error {
	_, err := s.Dispatch(Command{Type: CmdRemoveFromBench, Index: index})
	return err
}

func (s *Store) SwapBenchBench(indexA, indexB int) error {
	_, err := s.Dispatch(Command{Type: CmdSwapBenchBench, Index: indexA, OtherIndex: indexB})
	return err
}

// MoveToBench puts playerID at bench index, clearing fromSlot first when given.
func (s *Store) MoveToBench(index int, playerID, fromSlot string) error {
	_, err := s.Dispatch(Command{Type: CmdMoveToBench, Index: index, PlayerID: playerID, Slot: fromSlot})
	return err
}

func (s *Store) SetFormation(code string, slotCodes []string) error {
	_, err := s.Dispatch(Command{Type: CmdSetFormation, FormationCode: code, SlotCodes: slotCodes})
	return err
}

// SetRole maps role to playerID; an empty playerID clears the role.
func (s *Store) SetRole(role Role, playerID string) error {
	_, err := s.Dispatch(Command{Type: CmdSetRole, Role: role, PlayerID: playerID})
	return err
}

func (s *Store) SetTeam(teamID string) {
	_, _ = s.Dispatch(Command{Type: CmdSetTeam, TeamID: teamID})
}

func (s *Store) ResetWorking() {
	_, _ = s.Dispatch(Command{Type: CmdReset})
}

func (s *Store) Active() bool { return s.state.Active() }

// Lineup returns a copy of the working lineup.
func (s *Store) Lineup() (*Lineup, bool) {
	if !s.state.Active() {
		return nil, false
	}
	return s.state.Working.Clone(), true
}

// Roster returns the roster ids given to the last StartLineup.
func (s *Store) Roster() []string {
	return slices.Clone(s.roster)
}

func (s *Store) SetRoster(ids []string) {
	s.roster = slices.Clone(ids)
}

// Clone returns an independent store for staged, all-or-nothing updates.
func (s *Store) Clone() *Store {
	return &Store{
		state:  State{Working: s.state.Working.Clone()},
		roster: slices.Clone(s.roster),
	}
}
