package sqlite

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/phrazzld/flashquest/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// busyTimeoutMillis bounds how long a writer waits for another process's lock.
const busyTimeoutMillis = 5000

// DSN builds the connection string for the database file at path.
// Transactions take the write lock up front so concurrent processes queue
// instead of failing half-way through a commit.
func DSN(path string) string {
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprint(busyTimeoutMillis))
	q.Set("_txlock", "immediate")
	q.Set("_journal_mode", "WAL")
	return "file:" + path + "?" + q.Encode()
}

// Open opens (creating if needed) the SQLite database at path, applies
// migrations and returns a KV.
func Open(ctx context.Context, path string, log *slog.Logger) (*store.SQLKV, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "sqlite"))

	db, err := sqlx.ConnectContext(ctx, "sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// SQLite supports a single writer; one connection keeps the process's
	// own transactions from contending with each other.
	db.SetMaxOpenConns(1)

	if err := Migrate(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info("sqlite database ready", slog.String("path", path))
	return store.NewSQLKV(db, store.SQLKVConfig{
		Name:     "sqlite",
		MapError: MapError,
	}, log)
}

// Migrate applies the embedded migrations to db.
func Migrate(ctx context.Context, db *sqlx.DB, log *slog.Logger) error {
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&gooseLogger{logger: log})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

type gooseLogger struct {
	logger *slog.Logger
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

// Fatalf logs without exiting; goose returns the error to Migrate.
func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
