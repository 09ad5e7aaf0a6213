package api

import (
	"context"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashquest/internal/store"
)

func TestEconomyHandler(t *testing.T) {
	svc := newTestServices(t)
	h := NewEconomyHandler(svc.ledger, svc.logger)
	router := newRouter(
		route{http.MethodGet, "/api/coins", h.GetBalance},
		route{http.MethodPost, "/api/coins/credit", h.Credit},
		route{http.MethodPost, "/api/coins/debit", h.Debit},
		route{http.MethodGet, "/api/catalog", h.GetCatalog},
	)

	w := doJSON(t, router, http.MethodGet, "/api/coins", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[BalanceResponse](t, w).Balance)

	w = doJSON(t, router, http.MethodPost, "/api/coins/credit", AmountRequest{Amount: 30})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30, decode[BalanceResponse](t, w).Balance)

	w = doJSON(t, router, http.MethodPost, "/api/coins/debit", AmountRequest{Amount: 100})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[BalanceResponse](t, w).Balance, "debit clamps at zero")

	tests := []struct {
		name string
		body interface{}
	}{
		{"negative", `{"amount":-5}`},
		{"above cap", `{"amount":1000000001}`},
		{"malformed", `{"amount":`},
		{"unknown field", `{"amount":1,"bonus":2}`},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/coins/credit", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w = doJSON(t, router, http.MethodGet, "/api/catalog", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	cat := decode[CatalogResponse](t, w)
	assert.Len(t, cat.Pets, 3)
	assert.Equal(t, "default", cat.Avatars[0].ID)
}

func TestEconomyHandler_CreditOverflow(t *testing.T) {
	svc := newTestServices(t)
	require.NoError(t, svc.store.Update(context.Background(), func(tx *store.Tx) error {
		return tx.SetInt(store.KeyCoins, math.MaxInt-5)
	}))
	h := NewEconomyHandler(svc.ledger, svc.logger)
	router := newRouter(route{http.MethodPost, "/api/coins/credit", h.Credit})

	w := doJSON(t, router, http.MethodPost, "/api/coins/credit", AmountRequest{Amount: 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Amount would exceed the maximum balance", decode[errorBody](t, w).Error)

	balance, err := svc.ledger.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt-5, balance)
}
