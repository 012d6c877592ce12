// Package catalog provides the read-only formation lookup used by the
// lineup engine. Slot codes are opaque keys; pitch geometry lives elsewhere.
package catalog

import "slices"

type Slot struct {
	ID   string `toml:"id" json:"slotId"`
	Code string `toml:"code" json:"slotCode"`
}

type Formation struct {
	Code  string `toml:"code" json:"code"`
	Name  string `toml:"name" json:"name"`
	Slots []Slot `toml:"slots" json:"slots"`
}

// SlotCodes returns the formation's slot codes in order.
func (f Formation) SlotCodes() []string {
	codes := make([]string, len(f.Slots))
	for i, s := range f.Slots {
		codes[i] = s.Code
	}
	return codes
}

type Catalog interface {
	Resolve(code string) (Formation, bool)
	List() []Formation
}

// Static is an in-memory catalog that keeps insertion order.
type Static struct {
	formations []Formation
}

func NewStatic(formations []Formation) *Static {
	return &Static{formations: slices.Clone(formations)}
}

func (c *Static) Resolve(code string) (Formation, bool) {
	for _, f := range c.formations {
		if f.Code == code {
			return f, true
		}
	}
	return Formation{}, false
}

func (c *Static) List() []Formation {
	return slices.Clone(c.formations)
}

// Default returns the built-in formations.
func Default() *Static {
	return NewStatic(Builtin)
}

// Name returns the display name for code, or code itself when unknown.
func Name(c Catalog, code string) string {
	if f, ok := c.Resolve(code); ok && f.Name != "" {
		return f.Name
	}
	return code
}
