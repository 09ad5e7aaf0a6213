// Package catalog holds the static, read-only reference data of the shop:
// avatars, backgrounds, pets and plants, and minigames.
package catalog

import (
	"fmt"

	"github.com/phrazzld/flashquest/internal/domain"
)

// Kind identifies one of the shop catalogs.
type Kind string

// Supported catalog kinds.
const (
	KindAvatar     Kind = "avatar"
	KindBackground Kind = "background"
	KindPet        Kind = "pet"
	KindGame       Kind = "game"
)

// PetType distinguishes animals from plants. Both follow the same lifecycle.
type PetType string

// Supported pet types.
const (
	PetTypeAnimal PetType = "pet"
	PetTypePlant  PetType = "plant"
)

// Item is a purchasable catalog entry.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       int     `json:"price"`
	Icon        string  `json:"icon,omitempty"`
	Style       string  `json:"style,omitempty"`
	Description string  `json:"description,omitempty"`
	PetType     PetType `json:"pet_type,omitempty"`
}

// Catalog is an ordered, immutable list of items of one kind.
type Catalog struct {
	kind  Kind
	items []Item
	index map[string]int
}

// New builds a catalog, rejecting duplicate ids and negative prices.
func New(kind Kind, items []Item) (*Catalog, error) {
	index := make(map[string]int, len(items))
	for i, item := range items {
		if item.ID == "" {
			return nil, domain.NewValidationError("id", fmt.Sprintf("of %s item %d is empty", kind, i), nil)
		}
		if item.Price < 0 {
			return nil, domain.NewValidationError("price", fmt.Sprintf("of %s %q is negative", kind, item.ID), nil)
		}
		if _, ok := index[item.ID]; ok {
			return nil, domain.NewValidationError("id", fmt.Sprintf("%q is duplicated in %s catalog", item.ID, kind), nil)
		}
		index[item.ID] = i
	}
	copied := make([]Item, len(items))
	copy(copied, items)
	return &Catalog{kind: kind, items: copied, index: index}, nil
}

// MustNew is New for package-level literals.
func MustNew(kind Kind, items []Item) *Catalog {
	c, err := New(kind, items)
	if err != nil {
		// ALLOW-PANIC: static catalog data is validated at start-up
		panic(err)
	}
	return c
}

// Kind returns the catalog kind.
func (c *Catalog) Kind() Kind {
	return c.kind
}

// Items returns a copy of the items in display order.
func (c *Catalog) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// Lookup finds an item by id. Unknown ids return domain.ErrItemNotFound.
func (c *Catalog) Lookup(id string) (Item, error) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s %q", domain.ErrItemNotFound, c.kind, id)
	}
	return c.items[i], nil
}
