package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/store"
)

var (
	// ErrNegativeAmount is returned for credits and debits below zero.
	ErrNegativeAmount = errors.New("amount cannot be negative")
	// ErrBalanceOverflow is returned when a credit would exceed math.MaxInt.
	ErrBalanceOverflow = errors.New("balance would overflow")
)

// LedgerService owns the coin balance.
type LedgerService interface {
	// Balance returns the current balance; 0 when nothing has been earned yet.
	Balance(ctx context.Context) (int, error)

	// Credit adds amount and returns the new balance.
	Credit(ctx context.Context, amount int) (int, error)

	// Debit subtracts amount, clamping at zero, and returns the new balance.
	// It never fails for lack of funds; purchases check funds themselves.
	Debit(ctx context.Context, amount int) (int, error)
}

type ledgerServiceImpl struct {
	store  *store.Store
	logger *slog.Logger
}

// NewLedgerService creates a LedgerService.
// It returns an error if any of the required dependencies are nil.
func NewLedgerService(st *store.Store, logger *slog.Logger) (LedgerService, error) {
	if st == nil {
		return nil, domain.NewValidationError("store", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ledgerServiceImpl{
		store:  st,
		logger: logger.With(slog.String("component", "ledger_service")),
	}, nil
}

// Balance implements LedgerService.Balance
func (s *ledgerServiceImpl) Balance(ctx context.Context) (int, error) {
	var balance int
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		balance, err = readBalance(tx)
		return err
	})
	if err != nil {
		return 0, wrap("ledger", "balance", err)
	}
	return balance, nil
}

// Credit implements LedgerService.Credit
func (s *ledgerServiceImpl) Credit(ctx context.Context, amount int) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if amount < 0 {
		return 0, domain.NewValidationError("amount", "cannot be negative", ErrNegativeAmount)
	}

	var balance int
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		balance, err = credit(tx, amount)
		return err
	})
	if err != nil {
		if !IsExpected(err) {
			log.Error("failed to credit coins", slog.Int("amount", amount), slog.String("error", err.Error()))
		}
		return 0, wrap("ledger", "credit", err)
	}

	log.Debug("credited coins", slog.Int("amount", amount), slog.Int("balance", balance))
	return balance, nil
}

// Debit implements LedgerService.Debit
func (s *ledgerServiceImpl) Debit(ctx context.Context, amount int) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if amount < 0 {
		return 0, domain.NewValidationError("amount", "cannot be negative", ErrNegativeAmount)
	}

	var balance int
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		current, err := readBalance(tx)
		if err != nil {
			return err
		}
		balance = max(0, current-amount)
		return tx.SetInt(store.KeyCoins, balance)
	})
	if err != nil {
		log.Error("failed to debit coins", slog.Int("amount", amount), slog.String("error", err.Error()))
		return 0, wrap("ledger", "debit", err)
	}

	log.Debug("debited coins", slog.Int("amount", amount), slog.Int("balance", balance))
	return balance, nil
}

// readBalance reads the balance inside a transaction. Negative persisted
// values read as zero.
func readBalance(tx *store.Tx) (int, error) {
	n, err := tx.GetInt(store.KeyCoins)
	if err != nil {
		return 0, err
	}
	return max(0, n), nil
}

func credit(tx *store.Tx, amount int) (int, error) {
	current, err := readBalance(tx)
	if err != nil {
		return 0, err
	}
	if amount > math.MaxInt-current {
		return current, domain.NewValidationError("amount", "would exceed the maximum balance", ErrBalanceOverflow)
	}
	balance := current + amount
	return balance, tx.SetInt(store.KeyCoins, balance)
}

// spend debits price inside a purchase transaction, failing with
// ErrInsufficientFunds instead of clamping.
func spend(tx *store.Tx, price int) (int, error) {
	current, err := readBalance(tx)
	if err != nil {
		return 0, err
	}
	if current < price {
		return current, domain.ErrInsufficientFunds
	}
	balance := current - price
	return balance, tx.SetInt(store.KeyCoins, balance)
}
