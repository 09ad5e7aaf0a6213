package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/platform/memory"
	"github.com/phrazzld/flashquest/internal/store"
)

var t0 = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	kv     *memory.KV
	store  *store.Store
	clock  *domain.FixedClock
	logger *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := memory.NewKV()
	st, err := store.NewStore(kv, nil, logger, store.WithRetry(2, time.Millisecond))
	require.NoError(t, err)
	return &testEnv{
		kv:     kv,
		store:  st,
		clock:  &domain.FixedClock{T: t0},
		logger: logger,
	}
}

func (e *testEnv) setBalance(t *testing.T, n int) {
	t.Helper()
	require.NoError(t, e.store.Update(context.Background(), func(tx *store.Tx) error {
		return tx.SetInt(store.KeyCoins, n)
	}))
}

func (e *testEnv) balance(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.store.View(context.Background(), func(tx *store.Tx) error {
		var err error
		n, err = tx.GetInt(store.KeyCoins)
		return err
	}))
	return n
}
