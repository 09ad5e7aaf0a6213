package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/catalog"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/store"
)

type unlockKeys struct {
	owned    string
	equipped string
}

var (
	avatarKeys     = unlockKeys{owned: store.KeyAvatarsOwned, equipped: store.KeyAvatarCurrent}
	backgroundKeys = unlockKeys{owned: store.KeyBackgroundsOwned, equipped: store.KeyBackgroundActive}
)

// UnlockItem is a catalog entry annotated with the user's ownership.
type UnlockItem struct {
	catalog.Item
	Owned    bool `json:"owned"`
	Equipped bool `json:"equipped"`
}

// UnlockState is the full view of one cosmetic shop.
type UnlockState struct {
	Owned    []string     `json:"owned"`
	Equipped string       `json:"equipped"`
	Items    []UnlockItem `json:"items"`
}

// PurchaseResult reports a completed purchase.
type PurchaseResult struct {
	ItemID  string `json:"item_id"`
	Price   int    `json:"price"`
	Balance int    `json:"balance"`
}

// UnlockService manages ownership of one cosmetic catalog (avatars or backgrounds).
type UnlockService interface {
	// Kind returns the catalog kind this service manages.
	Kind() catalog.Kind

	// State returns owned ids, the equipped id and the annotated catalog.
	State(ctx context.Context) (*UnlockState, error)

	// Purchase debits the item's price and grants it in one commit.
	Purchase(ctx context.Context, itemID string) (*PurchaseResult, error)

	// Equip selects an owned item.
	Equip(ctx context.Context, itemID string) error
}

type unlockServiceImpl struct {
	kind    catalog.Kind
	catalog *catalog.Catalog
	keys    unlockKeys
	store   *store.Store
	logger  *slog.Logger
}

// NewUnlockService creates an UnlockService for an avatar or background catalog.
func NewUnlockService(cat *catalog.Catalog, st *store.Store, logger *slog.Logger) (UnlockService, error) {
	if cat == nil {
		return nil, domain.NewValidationError("catalog", "cannot be nil", domain.ErrValidation)
	}
	if st == nil {
		return nil, domain.NewValidationError("store", "cannot be nil", domain.ErrValidation)
	}

	var keys unlockKeys
	switch cat.Kind() {
	case catalog.KindAvatar:
		keys = avatarKeys
	case catalog.KindBackground:
		keys = backgroundKeys
	default:
		return nil, domain.NewValidationError("catalog",
			fmt.Sprintf("kind %q has no unlock namespace", cat.Kind()), domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &unlockServiceImpl{
		kind:    cat.Kind(),
		catalog: cat,
		keys:    keys,
		store:   st,
		logger:  logger.With(slog.String("component", string(cat.Kind())+"_unlock_service")),
	}, nil
}

// Kind implements UnlockService.Kind
func (s *unlockServiceImpl) Kind() catalog.Kind {
	return s.kind
}

// State implements UnlockService.State
func (s *unlockServiceImpl) State(ctx context.Context) (*UnlockState, error) {
	var u domain.Unlocks
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		u, err = readUnlocks(tx, s.keys)
		return err
	})
	if err != nil {
		return nil, wrap(string(s.kind), "state", err)
	}

	items := s.catalog.Items()
	state := &UnlockState{
		Owned:    u.Owned,
		Equipped: u.Equipped,
		Items:    make([]UnlockItem, 0, len(items)),
	}
	for _, item := range items {
		state.Items = append(state.Items, UnlockItem{
			Item:     item,
			Owned:    u.Owns(item.ID),
			Equipped: u.Equipped == item.ID,
		})
	}
	return state, nil
}

// Purchase implements UnlockService.Purchase
func (s *unlockServiceImpl) Purchase(ctx context.Context, itemID string) (*PurchaseResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.catalog.Lookup(itemID)
	if err != nil {
		return nil, err
	}

	result := &PurchaseResult{ItemID: item.ID, Price: item.Price}
	err = s.store.Update(ctx, func(tx *store.Tx) error {
		u, err := readUnlocks(tx, s.keys)
		if err != nil {
			return err
		}
		if u.Owns(item.ID) {
			return domain.ErrAlreadyOwned
		}
		balance, err := spend(tx, item.Price)
		if err != nil {
			return err
		}
		result.Balance = balance
		if err := u.Grant(item.ID); err != nil {
			return err
		}
		return writeUnlocks(tx, s.keys, u)
	})
	if err != nil {
		log.Debug("purchase rejected",
			slog.String("item_id", itemID),
			slog.String("error", err.Error()))
		return nil, wrap(string(s.kind), "purchase", err)
	}

	log.Info("item purchased",
		slog.String("item_id", item.ID),
		slog.Int("price", item.Price),
		slog.Int("balance", result.Balance))
	return result, nil
}

// Equip implements UnlockService.Equip
func (s *unlockServiceImpl) Equip(ctx context.Context, itemID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.catalog.Lookup(itemID); err != nil {
		return err
	}

	err := s.store.Update(ctx, func(tx *store.Tx) error {
		u, err := readUnlocks(tx, s.keys)
		if err != nil {
			return err
		}
		if err := u.Equip(itemID); err != nil {
			return err
		}
		return writeUnlocks(tx, s.keys, u)
	})
	if err != nil {
		return wrap(string(s.kind), "equip", err)
	}

	log.Debug("item equipped", slog.String("item_id", itemID))
	return nil
}

// readUnlocks loads the relation. Missing keys read as the seeded default so
// that the invariant equipped-is-owned holds before seeding has run.
func readUnlocks(tx *store.Tx, keys unlockKeys) (domain.Unlocks, error) {
	u := domain.NewUnlocks()

	var owned []string
	found, err := tx.GetJSON(keys.owned, &owned)
	if err != nil {
		return domain.Unlocks{}, err
	}
	if found {
		u.Owned = owned
	}

	var equipped string
	found, err = tx.GetJSON(keys.equipped, &equipped)
	if err != nil {
		return domain.Unlocks{}, err
	}
	if found {
		u.Equipped = equipped
	}

	if !u.Owns(u.Equipped) {
		u.Equipped = domain.DefaultItemID
		if !u.Owns(domain.DefaultItemID) {
			u.Owned = append([]string{domain.DefaultItemID}, u.Owned...)
		}
	}
	return u, nil
}

func writeUnlocks(tx *store.Tx, keys unlockKeys, u domain.Unlocks) error {
	if err := tx.SetJSON(keys.owned, u.Owned); err != nil {
		return err
	}
	return tx.SetJSON(keys.equipped, u.Equipped)
}
