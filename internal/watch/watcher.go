package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/events"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/store"
)

// DefaultInterval is used when the configured interval is not positive.
const DefaultInterval = time.Minute

// PetSource reads the persisted pet records.
type PetSource interface {
	Records(ctx context.Context) (domain.PetRecords, error)
}

// ExpiredPayload is the payload of a pet.expired event.
type ExpiredPayload struct {
	PetID     string `json:"pet_id"`
	DeathTime int64  `json:"death_time"`
}

// Watcher detects pets that died since the previous poll.
type Watcher struct {
	pets      PetSource
	clock     domain.Clock
	emitter   events.EventEmitter
	interval  time.Duration
	logger    *slog.Logger
	scheduler *gocron.Scheduler

	mu    sync.Mutex
	alive map[string]bool
}

// NewWatcher creates a Watcher. It does not poll until Start is called.
func NewWatcher(
	pets PetSource,
	clock domain.Clock,
	emitter events.EventEmitter,
	interval time.Duration,
	log *slog.Logger,
) (*Watcher, error) {
	if pets == nil {
		return nil, domain.NewValidationError("pets", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		pets:     pets,
		clock:    clock,
		emitter:  emitter,
		interval: interval,
		logger:   log.With(slog.String("component", "pet_watcher")),
		alive:    make(map[string]bool),
	}, nil
}

// Start schedules the poll and returns immediately. The first poll runs at once.
func (w *Watcher) Start() error {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if _, err := s.Every(w.interval).Do(w.runScheduled); err != nil {
		return fmt.Errorf("failed to schedule pet watcher: %w", err)
	}
	s.StartAsync()
	w.scheduler = s

	w.logger.Info("pet watcher started", slog.Duration("interval", w.interval))
	return nil
}

// Stop halts the scheduler. It is safe to call when Start was never called.
func (w *Watcher) Stop() {
	if w.scheduler == nil {
		return
	}
	w.scheduler.Stop()
	w.scheduler = nil
	w.logger.Info("pet watcher stopped")
}

func (w *Watcher) runScheduled() {
	ctx := logger.WithLogger(context.Background(), w.logger)
	ctx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	if _, err := w.Poll(ctx); err != nil {
		w.logger.Error("pet watcher poll failed", slog.String("error", err.Error()))
	}
}

// Poll compares the liveness of every pet with the previous poll and publishes
// one pet.expired event per pet that went from alive to dead. Pets first seen
// dead only set the baseline. It returns the ids of the expired pets.
func (w *Watcher) Poll(ctx context.Context) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, w.logger)

	records, err := w.pets.Records(ctx)
	if err != nil {
		return nil, err
	}

	now := w.clock.Now()
	w.mu.Lock()
	var expired []domain.PetStatus
	next := make(map[string]bool, len(records))
	for _, status := range records {
		alive := status.IsAlive(now)
		if wasAlive, seen := w.alive[status.ID]; seen && wasAlive && !alive {
			expired = append(expired, status)
		}
		next[status.ID] = alive
	}
	w.alive = next
	w.mu.Unlock()

	ids := make([]string, 0, len(expired))
	for _, status := range expired {
		event, err := events.NewChangeEvent(events.TypePetExpired, []string{store.KeyPets},
			ExpiredPayload{PetID: status.ID, DeathTime: status.DeathTime})
		if err != nil {
			return ids, fmt.Errorf("failed to build pet.expired event: %w", err)
		}
		if err := w.emitter.EmitEvent(ctx, event); err != nil {
			log.Warn("failed to publish pet expiry",
				slog.String("pet_id", status.ID),
				slog.String("error", err.Error()))
		}
		log.Info("pet expired", slog.String("pet_id", status.ID))
		ids = append(ids, status.ID)
	}
	return ids, nil
}
