package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestBuiltinIsValid(t *testing.T) {
	require.NoError(t, Validate(Builtin))
}

func TestStatic_ResolveAndList(t *testing.T) {
	c := Default()

	f, ok := c.Resolve("4-4-2")
	require.True(t, ok)
	assert.Equal(t, "GK", f.SlotCodes()[0])
	assert.Len(t, f.SlotCodes(), SlotsPerFormation)

	_, ok = c.Resolve("2-3-5")
	assert.False(t, ok)

	list := c.List()
	require.NotEmpty(t, list)
	assert.Equal(t, "4-4-2", list[0].Code)

	list[0].Code = "mutated"
	assert.Equal(t, "4-4-2", c.List()[0].Code)
}

func TestName(t *testing.T) {
	c := Default()
	assert.Equal(t, "4-4-2 Flat", Name(c, "4-4-2"))
	assert.Equal(t, "9-9-9", Name(c, "9-9-9"))
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	bad := []Formation{
		{Code: "", Slots: slots("GK")},
		{Code: "dup", Slots: slots("GK", "GK", "A", "B", "C", "D", "E", "F", "G", "H", "I")},
		{Code: "dup", Slots: slots("GK", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J")},
	}
	err := Validate(bad)
	require.Error(t, err)
	// missing code, wrong slot count, duplicate slot, duplicate formation
	assert.Len(t, multierr.Errors(err), 4)

	assert.ErrorIs(t, Validate(nil), ErrEmptyCatalog)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formations.toml")
	body := `
[[formation]]
code = "4-4-2"
name = "Classic"
slots = [
  { code = "GK" }, { code = "LB" }, { code = "LCB" }, { code = "RCB" }, { code = "RB" },
  { code = "LM" }, { code = "LCM" }, { code = "RCM" }, { code = "RM" },
  { id = "s1", code = "LST" }, { code = "RST" },
]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	f, ok := c.Resolve("4-4-2")
	require.True(t, ok)
	assert.Equal(t, "Classic", f.Name)
	assert.Equal(t, "GK", f.Slots[0].ID)
	assert.Equal(t, "s1", f.Slots[9].ID)

	t.Run("invalid catalog is rejected", func(t *testing.T) {
		p := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(p, []byte("[[formation]]\ncode = \"x\"\nslots = [{ code = \"GK\" }]\n"), 0o644))
		_, err := LoadFile(p)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.toml"))
		require.Error(t, err)
	})
}
