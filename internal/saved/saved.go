// Package saved is the named-lineup library. All lineups live as one JSON
// array under a single gateway key.
package saved

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/DoyleJ11/lineup-backend/internal/clock"
	"github.com/DoyleJ11/lineup-backend/internal/engine"
	"github.com/DoyleJ11/lineup-backend/internal/persist"
	"github.com/DoyleJ11/lineup-backend/pkg/types"
)

const Key = "saved_lineups_v1"

var (
	ErrNotFound  = errors.New("saved lineup not found")
	ErrEmptyName = errors.New("lineup name is required")
)

type SortOrder string

const (
	SortUpdatedDesc SortOrder = "updated-desc"
	SortUpdatedAsc  SortOrder = "updated-asc"
	SortNameAsc     SortOrder = "name-asc"
	SortNameDesc    SortOrder = "name-desc"
)

type ListOptions struct {
	// Query matches name or notes, case-insensitively.
	Query         string
	TeamName      string
	FormationCode string
	Sort          SortOrder
}

// Draft is what a caller supplies to create a saved lineup.
type Draft struct {
	Name        string
	Notes       string
	Formation   types.FormationRef
	Assignments types.Assignments
	TeamID      string
	TeamName    string
	Roles       engine.Roles
}

type Library struct {
	mu    sync.Mutex
	gw    persist.Gateway
	clock clock.Clock
	newID func() string
}

func New(gw persist.Gateway, clk clock.Clock) *Library {
	return &Library{gw: gw, clock: clk, newID: uuid.NewString}
}

func (lib *Library) List(ctx context.Context, opts ListOptions) ([]types.SavedLineup, error) {
	lib.mu.Lock()
	all, err := lib.read(ctx)
	lib.mu.Unlock()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(opts.Query))
	out := all[:0]
	for _, l := range all {
		if q != "" && !strings.Contains(strings.ToLower(l.Name), q) && !strings.Contains(strings.ToLower(l.Notes), q) {
			continue
		}
		if opts.TeamName != "" && l.TeamName != opts.TeamName {
			continue
		}
		if opts.FormationCode != "" && l.Formation.Code != opts.FormationCode {
			continue
		}
		out = append(out, l)
	}

	col := collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b types.SavedLineup) int {
		switch opts.Sort {
		case SortUpdatedAsc:
			return a.UpdatedAt.Compare(b.UpdatedAt)
		case SortNameAsc:
			return col.CompareString(a.Name, b.Name)
		case SortNameDesc:
			return col.CompareString(b.Name, a.Name)
		default:
			return b.UpdatedAt.Compare(a.UpdatedAt)
		}
	})
	return out, nil
}

func (lib *Library) Get(ctx context.Context, id string) (types.SavedLineup, error) {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	all, err := lib.read(ctx)
	if err != nil {
		return types.SavedLineup{}, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return types.SavedLineup{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return all[i], nil
}

func (lib *Library) SaveNew(ctx context.Context, d Draft) (types.SavedLineup, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return types.SavedLineup{}, ErrEmptyName
	}
	now := lib.clock.Now()
	l := types.SavedLineup{
		ID:          lib.newID(),
		Name:        name,
		Formation:   d.Formation,
		Assignments: d.Assignments,
		TeamID:      d.TeamID,
		TeamName:    d.TeamName,
		Roles:       d.Roles,
		Notes:       d.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	lib.mu.Lock()
	defer lib.mu.Unlock()
	all, err := lib.read(ctx)
	if err != nil {
		return types.SavedLineup{}, err
	}
	if err := lib.write(ctx, append(all, l)); err != nil {
		return types.SavedLineup{}, err
	}
	return l, nil
}

// Update replaces the lineup with l.ID and bumps its UpdatedAt.
func (lib *Library) Update(ctx context.Context, l types.SavedLineup) (types.SavedLineup, error) {
	return lib.modify(ctx, l.ID, func(types.SavedLineup) types.SavedLineup { return l })
}

func (lib *Library) Rename(ctx context.Context, id, name string) (types.SavedLineup, error) {
	return lib.modify(ctx, id, func(l types.SavedLineup) types.SavedLineup {
		l.Name = strings.TrimSpace(name)
		return l
	})
}

// modify rewrites the lineup with id under a single lock hold.
func (lib *Library) modify(ctx context.Context, id string, fn func(types.SavedLineup) types.SavedLineup) (types.SavedLineup, error) {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	all, err := lib.read(ctx)
	if err != nil {
		return types.SavedLineup{}, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return types.SavedLineup{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	l := fn(all[i])
	if strings.TrimSpace(l.Name) == "" {
		return types.SavedLineup{}, ErrEmptyName
	}
	l.ID = id
	l.CreatedAt = all[i].CreatedAt
	l.UpdatedAt = lib.clock.Now()
	all[i] = l
	if err := lib.write(ctx, all); err != nil {
		return types.SavedLineup{}, err
	}
	return l, nil
}

// Duplicate stores a copy under a new id with " (copy)" appended to the name.
func (lib *Library) Duplicate(ctx context.Context, id string) (types.SavedLineup, error) {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	all, err := lib.read(ctx)
	if err != nil {
		return types.SavedLineup{}, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return types.SavedLineup{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	src := all[i]
	now := lib.clock.Now()
	dup := types.SavedLineup{
		ID:        lib.newID(),
		Name:      src.Name + " (copy)",
		Notes:     src.Notes,
		Formation: src.Formation,
		Assignments: types.Assignments{
			OnField: maps.Clone(src.Assignments.OnField),
			Bench:   slices.Clone(src.Assignments.Bench),
		},
		TeamID:    src.TeamID,
		TeamName:  src.TeamName,
		Roles:     maps.Clone(src.Roles),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := lib.write(ctx, append(all, dup)); err != nil {
		return types.SavedLineup{}, err
	}
	return dup, nil
}

func (lib *Library) Remove(ctx context.Context, id string) error {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	all, err := lib.read(ctx)
	if err != nil {
		return err
	}
	i := indexOf(all, id)
	if i < 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return lib.write(ctx, slices.Delete(all, i, i+1))
}

func (lib *Library) read(ctx context.Context) ([]types.SavedLineup, error) {
	data, ok, err := lib.gw.Load(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved lineups: %w", err)
	}
	if !ok || len(data) == 0 {
		return []types.SavedLineup{}, nil
	}
	var all []types.SavedLineup
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to decode saved lineups: %w", err)
	}
	return all, nil
}

func (lib *Library) write(ctx context.Context, all []types.SavedLineup) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to encode saved lineups: %w", err)
	}
	if err := lib.gw.Save(ctx, Key, data); err != nil {
		return fmt.Errorf("failed to save lineups: %w", err)
	}
	return nil
}

func indexOf(all []types.SavedLineup, id string) int {
	return slices.IndexFunc(all, func(l types.SavedLineup) bool { return l.ID == id })
}
