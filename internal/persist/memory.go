package persist

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Memory is an in-process gateway. A positive quota caps the total size of
// stored values, mirroring browser storage limits.
type Memory struct {
	mu     sync.Mutex
	quota  int
	values map[string][]byte
}

func NewMemory(quotaBytes int) *Memory {
	return &Memory{quota: quotaBytes, values: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quota > 0 {
		used := len(value)
		for k, v := range m.values {
			if k != key {
				used += len(v)
			}
		}
		if used > m.quota {
			return fmt.Errorf("save %q: %d of %d bytes: %w", key, used, m.quota, ErrStorageFull)
		}
	}
	m.values[key] = slices.Clone(value)
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
