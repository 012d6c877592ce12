package migrate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
	"github.com/DoyleJ11/lineup-backend/internal/engine"
)

func slotSet(t *testing.T, cat catalog.Catalog, code string) []string {
	t.Helper()
	f, ok := cat.Resolve(code)
	require.True(t, ok)
	return f.SlotCodes()
}

func keys(p engine.Placements) []string {
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	return out
}

func TestLoad_LegacyDenseBench(t *testing.T) {
	cat := catalog.Default()
	l := Load([]byte(`{"teamId":"t1","bench":["a","b"],"formationCode":"4-4-2"}`), cat)
	require.NotNil(t, l)

	assert.Equal(t, engine.Bench{"a", "b", "", "", "", "", "", ""}, l.BenchSlots)
	assert.ElementsMatch(t, slotSet(t, cat, "4-4-2"), keys(l.OnField))
	assert.Equal(t, slotSet(t, cat, "4-4-2"), l.Slots)
}

func TestLoad_Abandoned(t *testing.T) {
	cat := catalog.Default()
	cases := map[string]string{
		"missing team":   `{"formationCode":"4-4-2"}`,
		"empty team":     `{"teamId":""}`,
		"team not text":  `{"teamId":42}`,
		"not an object":  `["t1"]`,
		"not json":       `{{{`,
		"json null":      `null`,
		"empty document": ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, Load([]byte(body), cat))
		})
	}
	assert.Nil(t, Migrate(nil, cat))
}

func TestLoad_BenchShapes(t *testing.T) {
	cat := catalog.Default()
	cases := []struct {
		name string
		body string
		want engine.Bench
	}{
		{
			name: "positional eight",
			body: `{"teamId":"t","benchSlots":[null,"x",null,null,null,null,null,"y"]}`,
			want: engine.Bench{"", "x", "", "", "", "", "", "y"},
		},
		{
			name: "positional wins over dense",
			body: `{"teamId":"t","bench":["d"],"benchSlots":[null,"x",null,null,null,null,null,null]}`,
			want: engine.Bench{"", "x"},
		},
		{
			name: "dense truncated",
			body: `{"teamId":"t","bench":["1","2","3","4","5","6","7","8","9"]}`,
			want: engine.Bench{"1", "2", "3", "4", "5", "6", "7", "8"},
		},
		{
			name: "short positional padded",
			body: `{"teamId":"t","benchSlots":[null,"x"]}`,
			want: engine.Bench{"", "x"},
		},
		{
			name: "long positional truncated",
			body: `{"teamId":"t","benchSlots":["1",null,null,null,null,null,null,"8","9","10"]}`,
			want: engine.Bench{"1", "", "", "", "", "", "", "8"},
		},
		{
			name: "bench garbage ignored",
			body: `{"teamId":"t","bench":"nope"}`,
			want: engine.Bench{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := Load([]byte(tc.body), cat)
			require.NotNil(t, l)
			assert.Equal(t, tc.want, l.BenchSlots)
		})
	}
}

func TestLoad_FormationFallbackAndRebuild(t *testing.T) {
	cat := catalog.Default()

	t.Run("missing formation uses first in catalog", func(t *testing.T) {
		l := Load([]byte(`{"teamId":"t"}`), cat)
		require.NotNil(t, l)
		assert.Equal(t, cat.List()[0].Code, l.FormationCode)
		assert.ElementsMatch(t, slotSet(t, cat, l.FormationCode), keys(l.OnField))
	})

	t.Run("carries matching slots and drops the rest", func(t *testing.T) {
		l := Load([]byte(`{"teamId":"t","formationCode":"4-3-3","onField":{"GK":"g","ST":"s","LWB":"gone","LW":null}}`), cat)
		require.NotNil(t, l)
		assert.Equal(t, "g", l.OnField["GK"])
		assert.Equal(t, "s", l.OnField["ST"])
		assert.Empty(t, l.OnField["LW"])
		assert.False(t, l.HasSlot("LWB"))
		assert.False(t, l.Placed("gone"), "dropped slot occupants are not benched")
	})

	t.Run("unknown formation keeps well-formed onField", func(t *testing.T) {
		l := Load([]byte(`{"teamId":"t","formationCode":"9-1","onField":{"A":"a","B":null}}`), cat)
		require.NotNil(t, l)
		assert.Equal(t, "9-1", l.FormationCode)
		assert.Equal(t, engine.Placements{"A": "a", "B": ""}, l.OnField)
		assert.Equal(t, []string{"A", "B"}, l.Slots)
	})

	t.Run("unknown formation with malformed onField is empty", func(t *testing.T) {
		l := Load([]byte(`{"teamId":"t","formationCode":"9-1","onField":{"A":7}}`), cat)
		require.NotNil(t, l)
		assert.Empty(t, l.OnField)
	})

	t.Run("empty catalog", func(t *testing.T) {
		l := Load([]byte(`{"teamId":"t","onField":"nope"}`), catalog.NewStatic(nil))
		require.NotNil(t, l)
		assert.Empty(t, l.FormationCode)
		assert.Empty(t, l.OnField)
	})
}

func TestLoad_RolesAndDuplicates(t *testing.T) {
	cat := catalog.Default()
	l := Load([]byte(`{
		"teamId":"t","formationCode":"4-3-3",
		"onField":{"GK":"p1","ST":"p1"},
		"benchSlots":["p1","p2",null,null,null,null,null,"p2"],
		"roles":{"captain":"p1","vice":"p2","gk":7}
	}`), cat)
	require.NotNil(t, l)

	assert.Equal(t, "p1", l.OnField["GK"])
	assert.Empty(t, l.OnField["ST"])
	assert.Equal(t, engine.Bench{"", "p2"}, l.BenchSlots)
	assert.Equal(t, engine.Roles{engine.RoleCaptain: "p1"}, l.Roles)
}

func TestLoad_RoundTripsEngineLineup(t *testing.T) {
	cat := catalog.Default()
	s := engine.NewStore()
	s.StartLineup("t9", "3-5-2", slotSet(t, cat, "3-5-2"), nil)
	require.NoError(t, s.PlacePlayer("CB", "p1"))
	require.NoError(t, s.AssignToBench(5, "p2"))
	require.NoError(t, s.SetRole(engine.RolePK, "p1"))
	before, _ := s.Lineup()

	data, err := json.Marshal(before)
	require.NoError(t, err)
	after := Load(data, cat)
	require.NotNil(t, after)
	assert.Equal(t, before, after)
}
