package saved

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/lineup-backend/internal/clock"
	"github.com/DoyleJ11/lineup-backend/internal/engine"
	"github.com/DoyleJ11/lineup-backend/internal/persist"
	"github.com/DoyleJ11/lineup-backend/pkg/types"
)

func newLibrary(t *testing.T, gw persist.Gateway) (*Library, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	lib := New(gw, clk)
	n := 0
	lib.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return lib, clk
}

func draft(name, team, formation string) Draft {
	return Draft{
		Name:      name,
		Formation: types.FormationRef{Code: formation, Name: formation},
		Assignments: types.Assignments{
			OnField: engine.Placements{"GK": "g1", "ST": ""},
			Bench:   []string{"b1"},
		},
		TeamID:   "team-" + team,
		TeamName: team,
		Roles:    engine.Roles{engine.RoleCaptain: "g1"},
	}
}

func TestLibrary_SaveGetUpdate(t *testing.T) {
	ctx := context.Background()
	lib, clk := newLibrary(t, persist.NewMemory(0))

	saved, err := lib.SaveNew(ctx, draft("  Derby  ", "Rovers", "4-4-2"))
	require.NoError(t, err)
	assert.Equal(t, "id-1", saved.ID)
	assert.Equal(t, "Derby", saved.Name)
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)

	got, err := lib.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	clk.Advance(time.Hour)
	got.Notes = "press high"
	updated, err := lib.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "press high", updated.Notes)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(saved.UpdatedAt))

	_, err = lib.Get(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = lib.Update(ctx, types.SavedLineup{ID: "nope", Name: "x"})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = lib.SaveNew(ctx, Draft{Name: "   "})
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestLibrary_RenameDuplicateRemove(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t, persist.NewMemory(0))
	_, err := lib.SaveNew(ctx, draft("Derby", "Rovers", "4-4-2"))
	require.NoError(t, err)

	renamed, err := lib.Rename(ctx, "id-1", "Cup final")
	require.NoError(t, err)
	assert.Equal(t, "Cup final", renamed.Name)

	dup, err := lib.Duplicate(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "id-2", dup.ID)
	assert.Equal(t, "Cup final (copy)", dup.Name)
	assert.Equal(t, renamed.Assignments, dup.Assignments)
	assert.Equal(t, renamed.Roles, dup.Roles)

	require.NoError(t, lib.Remove(ctx, "id-1"))
	all, err := lib.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "id-2", all[0].ID)

	require.ErrorIs(t, lib.Remove(ctx, "id-1"), ErrNotFound)
}

func TestLibrary_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	lib, clk := newLibrary(t, persist.NewMemory(0))
	for _, d := range []Draft{
		draft("Lineup 10", "Rovers", "4-4-2"),
		draft("lineup 9", "United", "4-3-3"),
		draft("Away day", "Rovers", "4-3-3"),
	} {
		_, err := lib.SaveNew(ctx, d)
		require.NoError(t, err)
		clk.Advance(time.Minute)
	}

	names := func(ls []types.SavedLineup) []string {
		out := make([]string, len(ls))
		for i, l := range ls {
			out[i] = l.Name
		}
		return out
	}

	cases := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{name: "default newest first", opts: ListOptions{}, want: []string{"Away day", "lineup 9", "Lineup 10"}},
		{name: "oldest first", opts: ListOptions{Sort: SortUpdatedAsc}, want: []string{"Lineup 10", "lineup 9", "Away day"}},
		{name: "natural name order", opts: ListOptions{Sort: SortNameAsc}, want: []string{"Away day", "lineup 9", "Lineup 10"}},
		{name: "name descending", opts: ListOptions{Sort: SortNameDesc}, want: []string{"Lineup 10", "lineup 9", "Away day"}},
		{name: "query", opts: ListOptions{Query: "LINEUP"}, want: []string{"lineup 9", "Lineup 10"}},
		{name: "team", opts: ListOptions{TeamName: "Rovers", Sort: SortNameAsc}, want: []string{"Away day", "Lineup 10"}},
		{name: "formation", opts: ListOptions{FormationCode: "4-3-3", Sort: SortNameAsc}, want: []string{"Away day", "lineup 9"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := lib.List(ctx, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(got))
		})
	}
}

func TestLibrary_StorageFull(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t, persist.NewMemory(64))

	_, err := lib.SaveNew(ctx, draft("Derby", "Rovers", "4-4-2"))
	require.ErrorIs(t, err, persist.ErrStorageFull)

	all, err := lib.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLibrary_CorruptData(t *testing.T) {
	ctx := context.Background()
	gw := persist.NewMemory(0)
	require.NoError(t, gw.Save(ctx, Key, []byte("{not json")))
	lib, _ := newLibrary(t, gw)

	_, err := lib.List(ctx, ListOptions{})
	require.Error(t, err)
}

func TestLibrary_ConcurrentRenameAndDuplicate(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t, persist.NewMemory(0))
	src, err := lib.SaveNew(ctx, draft("Derby", "Rovers", "4-4-2"))
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := lib.Duplicate(ctx, src.ID)
			return err
		})
		g.Go(func() error {
			_, err := lib.Rename(ctx, src.ID, fmt.Sprintf("Derby %d", i))
			return err
		})
	}
	require.NoError(t, g.Wait())

	all, err := lib.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 11)
	ids := map[string]bool{}
	for _, l := range all {
		ids[l.ID] = true
	}
	assert.Len(t, ids, 11)

	got, err := lib.Get(ctx, src.ID)
	require.NoError(t, err)
	assert.Regexp(t, `^Derby \d$`, got.Name)
	assert.Equal(t, src.CreatedAt, got.CreatedAt)
}
