// Package persist holds the raw key/value capability the lineup engine
// persists through. Values are opaque bytes; callers own the encoding.
package persist

import (
	"context"
	"errors"
)

// ErrStorageFull means the backend refused a write for lack of capacity.
// Callers match it with errors.Is to show a capacity warning.
var ErrStorageFull = errors.New("storage full")

type Gateway interface {
	// Load returns ok=false when key is absent.
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
