package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/catalog"
	"github.com/phrazzld/flashquest/internal/store"
)

func TestDev_GrantCoins(t *testing.T) {
	env := newTestEnv(t)
	dev, err := NewDevService(env.store, DefaultEconomy(), env.logger)
	require.NoError(t, err)
	env.setBalance(t, 5)

	balance, err := dev.GrantCoins(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1005, balance)
	assert.Equal(t, 1005, env.balance(t))
}

func TestDev_ResetReseeds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, SeedDefaults(ctx, env.store))

	dev, err := NewDevService(env.store, DefaultEconomy(), env.logger)
	require.NoError(t, err)
	avatars, err := NewUnlockService(catalog.Avatars, env.store, env.logger)
	require.NoError(t, err)
	collection, err := NewCollectionService(env.store, env.clock, DefaultEconomy(), env.logger)
	require.NoError(t, err)

	_, err = dev.GrantCoins(ctx)
	require.NoError(t, err)
	_, err = avatars.Purchase(ctx, "robot")
	require.NoError(t, err)
	require.NoError(t, avatars.Equip(ctx, "robot"))
	_, err = collection.CreateSet(ctx, "Spanish", nil)
	require.NoError(t, err)

	require.NoError(t, dev.Reset(ctx))

	assert.Zero(t, env.balance(t))
	sets, err := collection.ListSets(ctx)
	require.NoError(t, err)
	assert.Empty(t, sets)

	state, err := avatars.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.DefaultItemID}, state.Owned)
	assert.Equal(t, domain.DefaultItemID, state.Equipped)

	var marker string
	require.NoError(t, env.store.View(ctx, func(tx *store.Tx) error {
		var err error
		marker, _, err = tx.Get(store.KeySeeded)
		return err
	}))
	assert.Equal(t, seededMarker, marker)
}
