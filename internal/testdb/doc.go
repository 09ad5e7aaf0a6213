// Package testdb locates the PostgreSQL database used by integration tests.
//
// Tests call RequireURL, which returns the configured URL or skips the test when
// none is set. On CI a missing URL fails the test instead, so a misconfigured
// pipeline cannot silently skip the PostgreSQL backend.
//
// The URL is read from the first non-empty variable in URLEnvVars.
package testdb
