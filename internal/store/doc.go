// Package store provides the persistence substrate of the application: a
// namespaced key/value space of opaque strings with per-key versions.
//
// Backends implement KV (see internal/platform/memory, internal/platform/sqlite
// and internal/platform/postgres). Services never talk to a KV directly; they
// run read-modify-write functions through Store.Update, which buffers writes,
// commits them atomically with optimistic version checks, retries on conflict
// and publishes a change notification once the commit succeeded.
package store
