// Package sqlite provides the SQLite key/value backend, the default storage
// driver for a single learner profile kept in one local file.
package sqlite
