package catalog

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

const SlotsPerFormation = 11

var ErrEmptyCatalog = errors.New("catalog has no formations")

// Validate reports every problem found, combined into one error.
func Validate(formations []Formation) error {
	if len(formations) == 0 {
		return ErrEmptyCatalog
	}
	var err error
	codes := make(map[string]bool, len(formations))
	for i, f := range formations {
		name := f.Code
		if name == "" {
			name = fmt.Sprintf("#%d", i)
			err = multierr.Append(err, fmt.Errorf("%s: missing code", name))
		} else if codes[f.Code] {
			err = multierr.Append(err, fmt.Errorf("%s: duplicate formation code", name))
		}
		codes[f.Code] = true

		if len(f.Slots) != SlotsPerFormation {
			err = multierr.Append(err, fmt.Errorf("%s: expected %d slots, got %d", name, SlotsPerFormation, len(f.Slots)))
		}
		seen := make(map[string]bool, len(f.Slots))
		for _, s := range f.Slots {
			switch {
			case s.Code == "":
				err = multierr.Append(err, fmt.Errorf("%s: slot with empty code", name))
			case seen[s.Code]:
				err = multierr.Append(err, fmt.Errorf("%s: duplicate slot code %q", name, s.Code))
			}
			seen[s.Code] = true
		}
	}
	return err
}
