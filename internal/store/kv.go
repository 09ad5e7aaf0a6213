package store

import "context"

// Op is the kind of a Write.
type Op int

const (
	// OpPut creates or replaces the value of a key.
	OpPut Op = iota
	// OpDelete removes a key. Deleting an absent key is a no-op.
	OpDelete
	// OpCheck only verifies ExpectedVersion; it is emitted for keys a
	// transaction read but did not write.
	OpCheck
)

// String returns the lower-case name of the operation.
func (o Op) String() string {
	switch o {
	case OpPut:
		return "put"
	case OpDelete:
		return "delete"
	case OpCheck:
		return "check"
	default:
		return "unknown"
	}
}

// Entry is a stored value together with its version.
// Versions start at 1 when a key is created and grow by one per put.
type Entry struct {
	Value   string
	Version int64
}

// Write is one element of an atomic commit.
type Write struct {
	Key   string
	Value string
	Op    Op
	// ExpectedVersion is the version the writer observed; 0 means the key was absent.
	ExpectedVersion int64
}

// KV is a key/value backend with atomic, version-checked multi-key commits.
type KV interface {
	// Get returns the entry stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (Entry, error)

	// Commit applies every write atomically. If any key's current version differs
	// from its ExpectedVersion nothing is applied and an error wrapping
	// ErrConflict is returned.
	Commit(ctx context.Context, writes []Write) error

	// Close releases backend resources.
	Close() error
}
