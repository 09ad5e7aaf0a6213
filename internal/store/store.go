package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/phrazzld/flashquest/internal/events"
	"github.com/phrazzld/flashquest/internal/platform/logger"
)

// Default retry policy for conflicting commits.
const (
	DefaultMaxRetries    = 5
	DefaultRetryInterval = 20 * time.Millisecond
)

// ErrNilKV is returned by NewStore when no backend is supplied.
var ErrNilKV = errors.New("kv backend cannot be nil")

// Store runs transactional functions against a KV backend.
//
// Update calls are serialised inside the process. Conflicts with other
// processes sharing the same database are detected by version checks at
// commit time, and the whole function is re-run.
type Store struct {
	kv            KV
	emitter       events.EventEmitter
	logger        *slog.Logger
	mu            sync.Mutex
	maxRetries    uint64
	retryInterval time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithRetry overrides the conflict retry policy.
func WithRetry(maxRetries uint64, interval time.Duration) Option {
	return func(s *Store) {
		s.maxRetries = maxRetries
		s.retryInterval = interval
	}
}

// NewStore creates a Store over kv. emitter may be nil, in which case no
// change notifications are published.
func NewStore(kv KV, emitter events.EventEmitter, log *slog.Logger, opts ...Option) (*Store, error) {
	if kv == nil {
		return nil, ErrNilKV
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		kv:            kv,
		emitter:       emitter,
		logger:        log.With(slog.String("component", "store")),
		maxRetries:    DefaultMaxRetries,
		retryInterval: DefaultRetryInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// View runs fn against a read-only transaction. Writes fail with ErrReadOnly.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error) error {
	return fn(newTx(ctx, s.kv, true))
}

// Update runs fn and atomically commits every write it buffered.
//
// If fn returns an error nothing is written and the error is returned as is.
// If the commit conflicts, fn is re-run on fresh reads according to the retry
// policy, so fn must not have side effects outside the transaction. After a
// successful commit a TypeKeysChanged event naming the changed keys is emitted.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	changed, err := s.commitLocked(ctx, log, fn)
	if err != nil {
		return err
	}

	if len(changed) > 0 && s.emitter != nil {
		event, err := events.NewChangeEvent(events.TypeKeysChanged, changed, nil)
		if err != nil {
			log.Error("failed to build change event", slog.String("error", err.Error()))
			return nil
		}
		// The commit has happened; a failing subscriber must not undo it.
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			log.Warn("change notification handler failed",
				slog.String("error", err.Error()),
				slog.Any("keys", changed))
		}
	}
	return nil
}

func (s *Store) commitLocked(ctx context.Context, log *slog.Logger, fn func(tx *Tx) error) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []string
	attempt := 0
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewConstant(s.retryInterval))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		tx := newTx(ctx, s.kv, false)
		if err := fn(tx); err != nil {
			return err
		}

		writes, keys := tx.pending()
		if len(keys) == 0 {
			changed = nil
			return nil
		}

		if err := s.kv.Commit(ctx, writes); err != nil {
			if IsConflictError(err) {
				log.Debug("commit conflict, retrying",
					slog.Int("attempt", attempt),
					slog.Any("keys", keys))
				return retry.RetryableError(err)
			}
			return NewStoreError("kv", "commit", "failed to commit writes", err)
		}

		changed = keys
		return nil
	})
	if err != nil {
		if IsConflictError(err) {
			log.Warn("commit conflict persisted after retries",
				slog.Int("attempts", attempt))
			return nil, NewStoreError("kv", "commit",
				fmt.Sprintf("conflict persisted after %d attempts", attempt), err)
		}
		return nil, err
	}

	if len(changed) > 0 {
		log.Debug("committed writes", slog.Any("keys", changed))
	}
	return changed, nil
}
