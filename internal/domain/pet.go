package domain

import "time"

// Default pet economy values.
const (
	DefaultPetLifespan = 20 * time.Hour
	DefaultFeedCost    = 10
	DefaultFeedBonus   = 30 * time.Minute
)

// PetStatus is the persisted ownership record of a pet or plant.
// DeathTime is an epoch-millisecond timestamp.
type PetStatus struct {
	ID        string `json:"id"`
	DeathTime int64  `json:"deathTime"`
}

// NewPetStatus creates a record that dies lifespan after now.
func NewPetStatus(id string, now time.Time, lifespan time.Duration) PetStatus {
	return PetStatus{ID: id, DeathTime: now.Add(lifespan).UnixMilli()}
}

// IsAlive reports whether now is strictly before the death instant.
// It is recomputed on every call and must never be cached.
func (p PetStatus) IsAlive(now time.Time) bool {
	return now.UnixMilli() < p.DeathTime
}

// Remaining returns the time left before death, or zero for a dead pet.
func (p PetStatus) Remaining(now time.Time) time.Duration {
	left := time.Duration(p.DeathTime-now.UnixMilli()) * time.Millisecond
	if left < 0 {
		return 0
	}
	return left
}

// Feed extends the death time by bonus. Dead pets cannot be fed.
func (p *PetStatus) Feed(now time.Time, bonus time.Duration) error {
	if !p.IsAlive(now) {
		return ErrNotAlive
	}
	p.DeathTime += bonus.Milliseconds()
	return nil
}

// Revive resets the death time to now+lifespan. Only dead pets can be revived.
func (p *PetStatus) Revive(now time.Time, lifespan time.Duration) error {
	if p.IsAlive(now) {
		return ErrPetAlive
	}
	p.DeathTime = now.Add(lifespan).UnixMilli()
	return nil
}

// ReviveCost is half the purchase price, rounded down.
func ReviveCost(price int) int {
	return price / 2
}

// PetRecords is the persisted list of owned pets.
type PetRecords []PetStatus

// IndexOf returns the position of the pet with id, or -1.
func (r PetRecords) IndexOf(id string) int {
	for i := range r {
		if r[i].ID == id {
			return i
		}
	}
	return -1
}
