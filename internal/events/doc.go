// Package events provides the change-notification bus of the application.
//
// Every committed store write is published as a ChangeEvent naming the keys it
// touched; background components publish their own event types on the same bus.
// Handlers subscribe without knowing who emits, which lets the HTTP layer offer
// publish/refresh polling without coupling services to it.
//
// The primary components are:
// - ChangeEvent: a notification naming changed keys
// - EventHandler: interface for components that react to events
// - InMemoryEventEmitter: synchronous fan-out with subscribe/unsubscribe
// - VersionTracker: per-key revision counters fed by the bus
package events
