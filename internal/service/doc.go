// Package service contains the application use cases of the coin economy:
// the ledger, the flashcard collection, cosmetic unlocks, game tickets, the
// pet lifecycle, quiz sessions, minigame plays and the developer tools.
//
// Every mutating operation is one store.Store.Update call, so all keys an
// operation touches (for example the balance and an owned list during a
// purchase) commit together or not at all. Services never cache persisted
// values; each call re-reads what it needs.
//
// Error handling:
//   - Expected conditions are returned as the domain sentinels (domain.ErrInsufficientFunds,
//     domain.ErrSetNotFound, ...), checked by callers with errors.Is.
//   - Unexpected failures are wrapped in ServiceError with the failing operation.
//   - The API layer maps both to HTTP status codes.
package service
