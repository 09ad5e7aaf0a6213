package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/catalog"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/store"
)

// PetView is a catalog pet annotated with the user's record, if any.
// Alive and Remaining are computed at read time.
type PetView struct {
	catalog.Item
	Owned       bool              `json:"owned"`
	Status      *domain.PetStatus `json:"status,omitempty"`
	Alive       bool              `json:"alive"`
	RemainingMs int64             `json:"remaining_ms"`
	ReviveCost  int               `json:"revive_cost"`
}

// PetResult reports the record and balance after a pet operation.
type PetResult struct {
	Status  domain.PetStatus `json:"status"`
	Cost    int              `json:"cost"`
	Balance int              `json:"balance"`
}

// PetService runs the pet lifecycle: adopt, feed, revive.
type PetService interface {
	// List returns every catalog pet with ownership and liveness.
	List(ctx context.Context) ([]PetView, error)

	// Records returns the persisted records.
	Records(ctx context.Context) (domain.PetRecords, error)

	// IsAlive reports liveness of status at the current clock time.
	IsAlive(status domain.PetStatus) bool

	// Purchase adopts petID at full price with a fresh lifespan.
	Purchase(ctx context.Context, petID string) (*PetResult, error)

	// Feed debits the feed cost and extends a living pet's lifetime.
	Feed(ctx context.Context, petID string) (*PetResult, error)

	// Revive debits half the price and restarts a dead pet's lifetime.
	Revive(ctx context.Context, petID string) (*PetResult, error)
}

type petServiceImpl struct {
	catalog *catalog.Catalog
	store   *store.Store
	clock   domain.Clock
	economy Economy
	logger  *slog.Logger
}

// NewPetService creates a PetService.
func NewPetService(
	pets *catalog.Catalog,
	st *store.Store,
	clock domain.Clock,
	economy Economy,
	logger *slog.Logger,
) (PetService, error) {
	if pets == nil {
		return nil, domain.NewValidationError("catalog", "cannot be nil", domain.ErrValidation)
	}
	if st == nil {
		return nil, domain.NewValidationError("store", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if economy.PetLifespan <= 0 {
		return nil, domain.NewValidationError("economy.PetLifespan", "must be positive", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &petServiceImpl{
		catalog: pets,
		store:   st,
		clock:   clock,
		economy: economy,
		logger:  logger.With(slog.String("component", "pet_service")),
	}, nil
}

// IsAlive implements PetService.IsAlive
func (s *petServiceImpl) IsAlive(status domain.PetStatus) bool {
	return status.IsAlive(s.clock.Now())
}

// Records implements PetService.Records
func (s *petServiceImpl) Records(ctx context.Context) (domain.PetRecords, error) {
	var records domain.PetRecords
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		records, err = readPets(tx)
		return err
	})
	if err != nil {
		return nil, wrap("pet", "records", err)
	}
	return records, nil
}

// List implements PetService.List
func (s *petServiceImpl) List(ctx context.Context) ([]PetView, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	items := s.catalog.Items()
	out := make([]PetView, 0, len(items))
	for _, item := range items {
		view := PetView{Item: item, ReviveCost: domain.ReviveCost(item.Price)}
		if i := records.IndexOf(item.ID); i >= 0 {
			status := records[i]
			view.Owned = true
			view.Status = &status
			view.Alive = status.IsAlive(now)
			view.RemainingMs = status.Remaining(now).Milliseconds()
		}
		out = append(out, view)
	}
	return out, nil
}

// Purchase implements PetService.Purchase
func (s *petServiceImpl) Purchase(ctx context.Context, petID string) (*PetResult, error) {
	item, err := s.catalog.Lookup(petID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, "purchase", petID, func(tx *store.Tx, records domain.PetRecords, now time.Time) (domain.PetRecords, *PetResult, error) {
		if records.IndexOf(item.ID) >= 0 {
			return nil, nil, domain.ErrAlreadyOwned
		}
		balance, err := spend(tx, item.Price)
		if err != nil {
			return nil, nil, err
		}
		status := domain.NewPetStatus(item.ID, now, s.economy.PetLifespan)
		return append(records, status), &PetResult{Status: status, Cost: item.Price, Balance: balance}, nil
	})
}

// Feed implements PetService.Feed
func (s *petServiceImpl) Feed(ctx context.Context, petID string) (*PetResult, error) {
	return s.mutate(ctx, "feed", petID, func(tx *store.Tx, records domain.PetRecords, now time.Time) (domain.PetRecords, *PetResult, error) {
		i := records.IndexOf(petID)
		if i < 0 {
			return nil, nil, domain.ErrPetNotFound
		}
		status := records[i]
		// Liveness is checked before funds so a dead pet reports NotAlive
		if !status.IsAlive(now) {
			return nil, nil, domain.ErrNotAlive
		}
		balance, err := spend(tx, s.economy.FeedCost)
		if err != nil {
			return nil, nil, err
		}
		if err := status.Feed(now, s.economy.FeedBonus); err != nil {
			return nil, nil, err
		}
		records[i] = status
		return records, &PetResult{Status: status, Cost: s.economy.FeedCost, Balance: balance}, nil
	})
}

// Revive implements PetService.Revive
func (s *petServiceImpl) Revive(ctx context.Context, petID string) (*PetResult, error) {
	item, err := s.catalog.Lookup(petID)
	if err != nil {
		return nil, err
	}
	cost := domain.ReviveCost(item.Price)

	return s.mutate(ctx, "revive", petID, func(tx *store.Tx, records domain.PetRecords, now time.Time) (domain.PetRecords, *PetResult, error) {
		i := records.IndexOf(petID)
		if i < 0 {
			return nil, nil, domain.ErrPetNotFound
		}
		status := records[i]
		if status.IsAlive(now) {
			return nil, nil, domain.ErrPetAlive
		}
		balance, err := spend(tx, cost)
		if err != nil {
			return nil, nil, err
		}
		if err := status.Revive(now, s.economy.PetLifespan); err != nil {
			return nil, nil, err
		}
		records[i] = status
		return records, &PetResult{Status: status, Cost: cost, Balance: balance}, nil
	})
}

type petMutation func(tx *store.Tx, records domain.PetRecords, now time.Time) (domain.PetRecords, *PetResult, error)

// mutate runs fn on the current records inside one transaction and persists
// the records it returns. The clock is read once per attempt.
func (s *petServiceImpl) mutate(ctx context.Context, op, petID string, fn petMutation) (*PetResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *PetResult
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		records, err := readPets(tx)
		if err != nil {
			return err
		}
		updated, res, err := fn(tx, records, s.clock.Now())
		if err != nil {
			return err
		}
		result = res
		return tx.SetJSON(store.KeyPets, updated)
	})
	if err != nil {
		log.Debug(fmt.Sprintf("pet %s rejected", op),
			slog.String("pet_id", petID),
			slog.String("error", err.Error()))
		return nil, wrap("pet", op, err)
	}

	log.Info(fmt.Sprintf("pet %s", op),
		slog.String("pet_id", petID),
		slog.Int("cost", result.Cost),
		slog.Int("balance", result.Balance),
		slog.Int64("death_time", result.Status.DeathTime))
	return result, nil
}

func readPets(tx *store.Tx) (domain.PetRecords, error) {
	var records domain.PetRecords
	if _, err := tx.GetJSON(store.KeyPets, &records); err != nil {
		return nil, err
	}
	return records, nil
}
