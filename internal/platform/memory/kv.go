// Package memory provides an in-process KV backend. State is lost when the
// process exits; it backs tests and the "memory" storage driver.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/flashquest/internal/store"
)

// KV is a map-backed store.KV safe for concurrent use.
type KV struct {
	mu      sync.RWMutex
	entries map[string]store.Entry
	closed  bool
}

var _ store.KV = (*KV)(nil)

// NewKV creates an empty KV.
func NewKV() *KV {
	return &KV{entries: make(map[string]store.Entry)}
}

// Get implements store.KV.
func (m *KV) Get(ctx context.Context, key string) (store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return store.Entry{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return store.Entry{}, store.ErrNotFound
	}
	return e, nil
}

// Commit implements store.KV. All versions are checked before anything is applied.
func (m *KV) Commit(ctx context.Context, writes []store.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return store.NewStoreError("memory", "commit", "kv is closed", nil)
	}

	for _, w := range writes {
		current := m.entries[w.Key].Version
		if current != w.ExpectedVersion {
			return fmt.Errorf("%w: key %s at version %d, expected %d",
				store.ErrConflict, w.Key, current, w.ExpectedVersion)
		}
	}

	for _, w := range writes {
		switch w.Op {
		case store.OpPut:
			m.entries[w.Key] = store.Entry{Value: w.Value, Version: w.ExpectedVersion + 1}
		case store.OpDelete:
			delete(m.entries, w.Key)
		}
	}
	return nil
}

// Set writes key unconditionally, bumping its version. Tests use it to
// simulate a concurrent writer.
func (m *KV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entries[key]
	m.entries[key] = store.Entry{Value: value, Version: e.Version + 1}
}

// Len reports the number of stored keys.
func (m *KV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close implements store.KV.
func (m *KV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
