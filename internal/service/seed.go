package service

import (
	"context"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/store"
)

// seededMarker is the value stored under store.KeySeeded.
const seededMarker = "1"

// SeedDefaults grants and equips the default avatar and background the first
// time the profile is initialised. Later calls are no-ops, so an item the user
// has since equipped stays equipped.
func SeedDefaults(ctx context.Context, st *store.Store) error {
	log := logger.FromContext(ctx)
	seeded := false
	err := st.Update(ctx, func(tx *store.Tx) error {
		var err error
		seeded, err = seedDefaults(tx)
		return err
	})
	if err != nil {
		return NewServiceError("seed", "seed defaults", "failed to seed default unlocks", err)
	}
	if seeded {
		log.Info("seeded default unlocks")
	}
	return nil
}

func seedDefaults(tx *store.Tx) (bool, error) {
	_, found, err := tx.Get(store.KeySeeded)
	if err != nil || found {
		return false, err
	}
	for _, keys := range []unlockKeys{avatarKeys, backgroundKeys} {
		u, err := readUnlocks(tx, keys)
		if err != nil {
			return false, err
		}
		if !u.Owns(domain.DefaultItemID) {
			u.Owned = append([]string{domain.DefaultItemID}, u.Owned...)
		}
		if err := writeUnlocks(tx, keys, u); err != nil {
			return false, err
		}
	}
	return true, tx.Set(store.KeySeeded, seededMarker)
}
