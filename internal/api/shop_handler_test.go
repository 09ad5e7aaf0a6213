package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashquest/internal/service"
)

func TestUnlockHandler_PurchaseAndEquip(t *testing.T) {
	svc := newTestServices(t)
	require.NoError(t, service.SeedDefaults(context.Background(), svc.store))
	h := NewUnlockHandler(svc.avatars, svc.logger)
	router := newRouter(
		route{http.MethodGet, "/api/avatars", h.GetState},
		route{http.MethodPost, "/api/avatars/{id}/purchase", h.Purchase},
		route{http.MethodPost, "/api/avatars/{id}/equip", h.Equip},
	)

	w := doJSON(t, router, http.MethodPost, "/api/avatars/robot/purchase", nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	_, err := svc.ledger.Credit(context.Background(), 200)
	require.NoError(t, err)

	w = doJSON(t, router, http.MethodPost, "/api/avatars/robot/equip", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "cannot equip before buying")

	w = doJSON(t, router, http.MethodPost, "/api/avatars/robot/purchase", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, decode[service.PurchaseResult](t, w).Balance)

	w = doJSON(t, router, http.MethodPost, "/api/avatars/robot/purchase", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/avatars/robot/equip", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[service.UnlockState](t, w)
	assert.Equal(t, "robot", state.Equipped)
	assert.ElementsMatch(t, []string{"default", "robot"}, state.Owned)

	w = doJSON(t, router, http.MethodPost, "/api/avatars/unicorn/purchase", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGameHandler_TicketFlow(t *testing.T) {
	svc := newTestServices(t)
	h := NewGameHandler(svc.tickets, svc.games, svc.logger)
	router := newRouter(
		route{http.MethodGet, "/api/games", h.ListGames},
		route{http.MethodPost, "/api/games/{id}/purchase", h.PurchaseTicket},
		route{http.MethodPost, "/api/games/{id}/play", h.Play},
		route{http.MethodPost, "/api/games/plays/{playID}/complete", h.Complete},
	)

	w := doJSON(t, router, http.MethodPost, "/api/games/memory-game/play", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "no ticket")

	_, err := svc.ledger.Credit(context.Background(), 10)
	require.NoError(t, err)
	w = doJSON(t, router, http.MethodPost, "/api/games/memory-game/purchase", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[[]service.TicketItem](t, w)[0].Tickets)

	w = doJSON(t, router, http.MethodPost, "/api/games/memory-game/play", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	play := decode[service.Play](t, w)

	w = doJSON(t, router, http.MethodPost, "/api/games/plays/"+play.ID.String()+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decode[service.CompletionResult](t, w).Balance)

	w = doJSON(t, router, http.MethodPost, "/api/games/plays/"+play.ID.String()+"/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/games/plays/not-a-uuid/complete", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/games/plays/"+uuid.NewString()+"/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
