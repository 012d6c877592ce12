package catalog

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type fileCatalog struct {
	Formations []Formation `toml:"formation"`
}

// LoadFile reads a TOML catalog of [[formation]] tables and validates it.
//
//	[[formation]]
//	code = "4-4-2"
//	name = "4-4-2 Flat"
//	slots = [{ id = "gk", code = "GK" }, ...]
func LoadFile(path string) (*Static, error) {
	formations, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(formations); err != nil {
		return nil, fmt.Errorf("catalog invalid (%s): %w", path, err)
	}
	return NewStatic(formations), nil
}

// ReadFile parses a catalog file without validating it. Slots without an id
// take their code as id.
func ReadFile(path string) ([]Formation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog load failed (%s): %w", path, err)
	}
	var fc fileCatalog
	if _, err := toml.Decode(string(data), &fc); err != nil {
		return nil, fmt.Errorf("catalog parse failed (%s): %w", path, err)
	}
	for i := range fc.Formations {
		for j, s := range fc.Formations[i].Slots {
			if s.ID == "" {
				fc.Formations[i].Slots[j].ID = s.Code
			}
		}
	}
	return fc.Formations, nil
}
