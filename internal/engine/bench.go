package engine

import (
	"encoding/json"
	"fmt"
)

const BenchSize = 8

// Bench is the positional substitute list. An empty string is a vacant slot
// and is written as null on the wire.
type Bench [BenchSize]string

func (b Bench) FirstEmpty() int {
	for i, id := range b {
		if id == "" {
			return i
		}
	}
	return -1
}

// Dense drops vacant slots, keeping order. This is the saved-lineup shape.
func (b Bench) Dense() []string {
	out := make([]string, 0, BenchSize)
	for _, id := range b {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// BenchFromDense fills slots from index 0 with the first BenchSize ids.
func BenchFromDense(ids []string) Bench {
	var b Bench
	i := 0
	for _, id := range ids {
		if i == BenchSize {
			break
		}
		if id == "" {
			continue
		}
		b[i] = id
		i++
	}
	return b
}

// BenchFromPositional keeps each id at its index, truncating or padding to
// BenchSize.
func BenchFromPositional(ids []*string) Bench {
	var b Bench
	for i, id := range ids {
		if i == BenchSize {
			break
		}
		if id != nil {
			b[i] = *id
		}
	}
	return b
}

func (b Bench) MarshalJSON() ([]byte, error) {
	out := make([]*string, BenchSize)
	for i := range b {
		if b[i] != "" {
			out[i] = &b[i]
		}
	}
	return json.Marshal(out)
}

func (b *Bench) UnmarshalJSON(data []byte) error {
	var ids []*string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("bench: %w", err)
	}
	*b = BenchFromPositional(ids)
	return nil
}

// Placements maps slot code to player id; vacant slots hold "" and are
// written as null.
type Placements map[string]string

func (p Placements) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, len(p))
	for slot, id := range p {
		if id == "" {
			out[slot] = nil
			continue
		}
		v := id
		out[slot] = &v
	}
	return json.Marshal(out)
}

func (p *Placements) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("onField: %w", err)
	}
	if raw == nil {
		*p = nil
		return nil
	}
	out := make(Placements, len(raw))
	for slot, id := range raw {
		if id != nil {
			out[slot] = *id
		} else {
			out[slot] = ""
		}
	}
	*p = out
	return nil
}

// Occupied returns the non-vacant player ids.
func (p Placements) Occupied() []string {
	var out []string
	for _, id := range p {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
