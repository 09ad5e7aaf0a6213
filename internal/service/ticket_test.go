package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/catalog"
)

func newTestTickets(t *testing.T) (TicketService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	svc, err := NewTicketService(catalog.Games, env.store, env.logger)
	require.NoError(t, err)
	return svc, env
}

func TestTicket_PurchaseAndConsume(t *testing.T) {
	svc, env := newTestTickets(t)
	ctx := context.Background()
	env.setBalance(t, 25)

	res, err := svc.Purchase(ctx, "memory-game")
	require.NoError(t, err)
	assert.Equal(t, 15, res.Balance)
	assert.Equal(t, 10, res.Price)

	_, err = svc.Purchase(ctx, "memory-game")
	assert.ErrorIs(t, err, domain.ErrAlreadyOwned, "one unused ticket at a time")
	assert.Equal(t, 15, env.balance(t))

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Tickets)

	require.NoError(t, svc.Consume(ctx, "memory-game"))
	assert.ErrorIs(t, svc.Consume(ctx, "memory-game"), domain.ErrNotOwned)

	// A consumed ticket can be bought again
	res, err = svc.Purchase(ctx, "memory-game")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Balance)
}

func TestTicket_Rejections(t *testing.T) {
	svc, env := newTestTickets(t)
	ctx := context.Background()
	env.setBalance(t, 9)

	tests := []struct {
		name   string
		gameID string
		want   error
	}{
		{"unknown game", "chess", domain.ErrItemNotFound},
		{"insufficient funds", "memory-game", domain.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Purchase(ctx, tt.gameID)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 9, env.balance(t))
}
