package domain

import "slices"

// DefaultItemID is the free item every user owns from first initialisation.
const DefaultItemID = "default"

// Unlocks is the ownership relation between the user and one cosmetic catalog.
// Invariant: Equipped is always a member of Owned.
type Unlocks struct {
	Owned    []string `json:"owned"`
	Equipped string   `json:"equipped"`
}

// NewUnlocks returns the seeded relation: the default item owned and equipped.
func NewUnlocks() Unlocks {
	return Unlocks{Owned: []string{DefaultItemID}, Equipped: DefaultItemID}
}

// Owns reports whether id is in the owned set.
func (u Unlocks) Owns(id string) bool {
	return slices.Contains(u.Owned, id)
}

// Grant adds id to the owned set.
func (u *Unlocks) Grant(id string) error {
	if u.Owns(id) {
		return ErrAlreadyOwned
	}
	u.Owned = append(u.Owned, id)
	return nil
}

// Equip selects an owned item.
func (u *Unlocks) Equip(id string) error {
	if !u.Owns(id) {
		return ErrNotOwned
	}
	u.Equipped = id
	return nil
}

// Tickets is a multiset of single-use game entitlements.
type Tickets []string

// Count returns how many unused tickets exist for gameID.
func (t Tickets) Count(gameID string) int {
	n := 0
	for _, id := range t {
		if id == gameID {
			n++
		}
	}
	return n
}

// Consume removes one ticket for gameID.
func (t *Tickets) Consume(gameID string) error {
	i := slices.Index(*t, gameID)
	if i < 0 {
		return ErrNotOwned
	}
	*t = slices.Delete(*t, i, i+1)
	return nil
}
