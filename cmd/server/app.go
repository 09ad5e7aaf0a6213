package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/flashquest/internal/config"
	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/catalog"
	"github.com/phrazzld/flashquest/internal/events"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/platform/memory"
	"github.com/phrazzld/flashquest/internal/platform/postgres"
	"github.com/phrazzld/flashquest/internal/platform/sqlite"
	"github.com/phrazzld/flashquest/internal/service"
	"github.com/phrazzld/flashquest/internal/store"
	"github.com/phrazzld/flashquest/internal/watch"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	clock  domain.Clock

	// Storage
	kv    store.KV
	store *store.Store

	// Event system
	eventEmitter *events.InMemoryEventEmitter
	tracker      *events.VersionTracker

	// Service interfaces
	ledger      service.LedgerService
	collection  service.CollectionService
	avatars     service.UnlockService
	backgrounds service.UnlockService
	tickets     service.TicketService
	games       service.GameService
	pets        service.PetService
	quiz        service.QuizService
	dev         service.DevService

	// Background work
	watcher *watch.Watcher
}

// newApplication opens the configured storage backend and builds every
// service on top of it. The pet watcher is started when enabled.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	if cfg == nil {
		return nil, domain.NewValidationError("config", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}
	app := &application{
		config: cfg,
		logger: log,
		clock:  domain.SystemClock{},
	}
	ctx = logger.WithLogger(ctx, log)

	var err error
	app.kv, err = openKV(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(log)
	app.tracker = events.NewVersionTracker()
	app.eventEmitter.RegisterHandler(app.tracker)

	app.store, err = store.NewStore(app.kv, app.eventEmitter, log)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	if err := app.buildServices(); err != nil {
		app.cleanup()
		return nil, err
	}

	if err := service.SeedDefaults(ctx, app.store); err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to seed defaults: %w", err)
	}

	if cfg.Watch.Enabled {
		app.watcher, err = watch.NewWatcher(app.pets, app.clock, app.eventEmitter, cfg.Watch.Interval, log)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to create pet watcher: %w", err)
		}
		if err := app.watcher.Start(); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to start pet watcher: %w", err)
		}
	}

	log.Info("Application initialized successfully")
	return app, nil
}

// openKV selects the key/value backend named by cfg.Driver.
func openKV(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (store.KV, error) {
	switch cfg.Driver {
	case "memory":
		log.Warn("using in-memory storage, data will not survive a restart")
		return memory.NewKV(), nil
	case "sqlite":
		kv, err := sqlite.Open(ctx, cfg.Path, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return kv, nil
	case "postgres":
		kv, err := postgres.Open(ctx, cfg.URL, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres storage: %w", err)
		}
		return kv, nil
	default:
		return nil, domain.NewValidationError("storage.driver", "unknown driver "+cfg.Driver, domain.ErrValidation)
	}
}

func (app *application) buildServices() error {
	economy := service.EconomyFromConfig(app.config.Economy)
	st, clock, log := app.store, app.clock, app.logger

	var err error
	if app.ledger, err = service.NewLedgerService(st, log); err != nil {
		return fmt.Errorf("failed to create ledger service: %w", err)
	}
	if app.collection, err = service.NewCollectionService(st, clock, economy, log); err != nil {
		return fmt.Errorf("failed to create collection service: %w", err)
	}
	if app.avatars, err = service.NewUnlockService(catalog.Avatars, st, log); err != nil {
		return fmt.Errorf("failed to create avatar service: %w", err)
	}
	if app.backgrounds, err = service.NewUnlockService(catalog.Backgrounds, st, log); err != nil {
		return fmt.Errorf("failed to create background service: %w", err)
	}
	if app.tickets, err = service.NewTicketService(catalog.Games, st, log); err != nil {
		return fmt.Errorf("failed to create ticket service: %w", err)
	}
	if app.games, err = service.NewGameService(catalog.Games, st, clock, economy, log); err != nil {
		return fmt.Errorf("failed to create game service: %w", err)
	}
	if app.pets, err = service.NewPetService(catalog.Pets, st, clock, economy, log); err != nil {
		return fmt.Errorf("failed to create pet service: %w", err)
	}
	if app.quiz, err = service.NewQuizService(st, clock, economy, log); err != nil {
		return fmt.Errorf("failed to create quiz service: %w", err)
	}
	if app.dev, err = service.NewDevService(st, economy, log); err != nil {
		return fmt.Errorf("failed to create dev service: %w", err)
	}
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.watcher != nil {
		app.watcher.Stop()
	}

	if closer, ok := app.kv.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			app.logger.Error("Error closing storage", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
