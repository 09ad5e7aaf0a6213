// Package watch runs the background pet watcher. It polls the pet records on a
// gocron schedule and publishes an events.TypePetExpired notification when a
// pet that was alive at the previous poll has passed its death time.
//
// The watcher is informational only. Liveness is always recomputed from the
// clock by the pet service, so a stopped watcher never changes game rules.
package watch
