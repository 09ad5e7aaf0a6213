package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/store"
)

// DevService backs the developer panel.
type DevService interface {
	// GrantCoins credits the configured developer grant.
	GrantCoins(ctx context.Context) (int, error)

	// Reset deletes every persisted key and re-seeds the defaults.
	Reset(ctx context.Context) error
}

type devServiceImpl struct {
	store  *store.Store
	grant  int
	logger *slog.Logger
}

// NewDevService creates a DevService.
func NewDevService(st *store.Store, economy Economy, logger *slog.Logger) (DevService, error) {
	if st == nil {
		return nil, domain.NewValidationError("store", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &devServiceImpl{
		store:  st,
		grant:  economy.DevGrant,
		logger: logger.With(slog.String("component", "dev_service")),
	}, nil
}

// GrantCoins implements DevService.GrantCoins
func (s *devServiceImpl) GrantCoins(ctx context.Context) (int, error) {
	var balance int
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		balance, err = credit(tx, s.grant)
		return err
	})
	if err != nil {
		return 0, wrap("dev", "grant coins", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Warn("developer coin grant",
		slog.Int("amount", s.grant), slog.Int("balance", balance))
	return balance, nil
}

// Reset implements DevService.Reset
func (s *devServiceImpl) Reset(ctx context.Context) error {
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		for _, key := range store.AllKeys() {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		_, err := seedDefaults(tx)
		return err
	})
	if err != nil {
		return wrap("dev", "reset", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Warn("all data reset")
	return nil
}
