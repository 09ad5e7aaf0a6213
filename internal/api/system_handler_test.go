package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashquest/internal/events"
	"github.com/phrazzld/flashquest/internal/platform/memory"
	"github.com/phrazzld/flashquest/internal/service"
	"github.com/phrazzld/flashquest/internal/store"
)

func TestChangesHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	emitter := events.NewInMemoryEventEmitter(log)
	tracker := events.NewVersionTracker()
	emitter.RegisterHandler(tracker)
	st, err := store.NewStore(memory.NewKV(), emitter, log)
	require.NoError(t, err)
	ledger, err := service.NewLedgerService(st, log)
	require.NoError(t, err)

	router := newRouter(route{http.MethodGet, "/api/changes", NewChangesHandler(tracker).GetChanges})
	ctx := context.Background()

	_, err = ledger.Credit(ctx, 5)
	require.NoError(t, err)
	w := doJSON(t, router, http.MethodGet, "/api/changes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[events.Revisions](t, w)
	assert.Equal(t, uint64(1), first.Revision)
	assert.Contains(t, first.Keys, store.KeyCoins)

	w = doJSON(t, router, http.MethodGet, "/api/changes?since=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[events.Revisions](t, w).Keys)

	_, err = ledger.Credit(ctx, 5)
	require.NoError(t, err)
	w = doJSON(t, router, http.MethodGet, "/api/changes?since=1", nil)
	assert.Equal(t, map[string]uint64{store.KeyCoins: 2}, decode[events.Revisions](t, w).Keys)

	w = doJSON(t, router, http.MethodGet, "/api/changes?since=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDevHandler(t *testing.T) {
	svc := newTestServices(t)
	h := NewDevHandler(svc.dev, svc.logger)
	router := newRouter(
		route{http.MethodPost, "/api/dev/coins", h.GrantCoins},
		route{http.MethodPost, "/api/dev/reset", h.Reset},
	)

	w := doJSON(t, router, http.MethodPost, "/api/dev/coins", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1000, decode[BalanceResponse](t, w).Balance)

	w = doJSON(t, router, http.MethodPost, "/api/dev/reset", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	balance, err := svc.ledger.Balance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, balance)
}
