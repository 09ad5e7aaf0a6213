package store

// Persisted keys. Each service owns its own namespace.
const (
	KeyCoins            = "flashquest-coins"
	KeySets             = "flashquest-sets"
	KeyAvatarsOwned     = "flashquest-avatars-owned"
	KeyAvatarCurrent    = "flashquest-avatar-current"
	KeyBackgroundsOwned = "flashquest-owned-bgs"
	KeyBackgroundActive = "flashquest-active-bg"
	KeyTickets          = "flashquest-shop"
	KeyPets             = "flashquest-pets"
	KeySeeded           = "flashquest-seeded"
)

// AllKeys lists every key the application persists.
func AllKeys() []string {
	return []string{
		KeyCoins,
		KeySets,
		KeyAvatarsOwned,
		KeyAvatarCurrent,
		KeyBackgroundsOwned,
		KeyBackgroundActive,
		KeyTickets,
		KeyPets,
		KeySeeded,
	}
}
