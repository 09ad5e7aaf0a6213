package events

import (
	"context"
	"sync"
)

// Revisions is a point-in-time view of the tracker.
type Revisions struct {
	// Revision increases by one for every event observed.
	Revision uint64 `json:"revision"`
	// Keys maps each key to the Revision at which it last changed.
	Keys map[string]uint64 `json:"keys"`
}

// VersionTracker counts changes per key so that clients can poll for what to
// refresh instead of re-reading every namespace.
type VersionTracker struct {
	mu       sync.Mutex
	revision uint64
	keys     map[string]uint64
}

// NewVersionTracker creates an empty tracker.
func NewVersionTracker() *VersionTracker {
	return &VersionTracker{keys: make(map[string]uint64)}
}

// HandleEvent implements EventHandler.
func (t *VersionTracker) HandleEvent(_ context.Context, event *ChangeEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revision++
	for _, k := range event.Keys {
		t.keys[k] = t.revision
	}
	return nil
}

// Snapshot returns the current revisions.
func (t *VersionTracker) Snapshot() Revisions {
	t.mu.Lock()
	defer t.mu.Unlock()
	keys := make(map[string]uint64, len(t.keys))
	for k, v := range t.keys {
		keys[k] = v
	}
	return Revisions{Revision: t.revision, Keys: keys}
}

// ChangedSince returns the keys that changed after revision since.
func (t *VersionTracker) ChangedSince(since uint64) Revisions {
	snap := t.Snapshot()
	for k, v := range snap.Keys {
		if v <= since {
			delete(snap.Keys, k)
		}
	}
	return snap
}
