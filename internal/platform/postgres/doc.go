// Package postgres provides the PostgreSQL key/value backend. It opens a
// pgx-backed sqlx pool, applies the embedded goose migrations and maps driver
// errors onto the error values of the internal/store package.
package postgres
