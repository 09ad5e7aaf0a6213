package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/phrazzld/flashquest/internal/platform/logger"
)

// SQLKVConfig holds the dialect-specific parts of a SQLKV.
type SQLKVConfig struct {
	// Name identifies the backend in logs and errors (e.g. "sqlite").
	Name string
	// MapError translates driver errors to store errors. Optional.
	MapError func(error) error
	// LockRows appends FOR UPDATE to version reads inside a commit.
	LockRows bool
}

// SQLKV implements KV over a kv_entries table:
//
//	name TEXT PRIMARY KEY, value TEXT NOT NULL, version BIGINT NOT NULL
//
// The schema is created by the backend's migrations.
type SQLKV struct {
	db     *sqlx.DB
	cfg    SQLKVConfig
	logger *slog.Logger

	getQuery     string
	versionQuery string
	insertQuery  string
	updateQuery  string
	deleteQuery  string
}

var _ KV = (*SQLKV)(nil)

type kvRow struct {
	Name    string `db:"name"`
	Value   string `db:"value"`
	Version int64  `db:"version"`
}

// NewSQLKV creates a SQLKV over db. Queries are rebound to the driver's
// placeholder style.
func NewSQLKV(db *sqlx.DB, cfg SQLKVConfig, log *slog.Logger) (*SQLKV, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.Name == "" {
		cfg.Name = db.DriverName()
	}

	versionQuery := "SELECT version FROM kv_entries WHERE name = ?"
	if cfg.LockRows {
		versionQuery += " FOR UPDATE"
	}

	return &SQLKV{
		db:           db,
		cfg:          cfg,
		logger:       log.With(slog.String("component", "kv_"+cfg.Name)),
		getQuery:     db.Rebind("SELECT name, value, version FROM kv_entries WHERE name = ?"),
		versionQuery: db.Rebind(versionQuery),
		insertQuery:  db.Rebind("INSERT INTO kv_entries (name, value, version) VALUES (?, ?, 1)"),
		updateQuery: db.Rebind(
			"UPDATE kv_entries SET value = ?, version = version + 1 WHERE name = ? AND version = ?",
		),
		deleteQuery: db.Rebind("DELETE FROM kv_entries WHERE name = ? AND version = ?"),
	}, nil
}

// DB returns the underlying connection pool.
func (s *SQLKV) DB() *sqlx.DB {
	return s.db
}

func (s *SQLKV) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s.cfg.MapError != nil {
		err = s.cfg.MapError(err)
	}
	if errors.Is(err, ErrDuplicate) && !errors.Is(err, ErrConflict) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// Get implements KV.
func (s *SQLKV) Get(ctx context.Context, key string) (Entry, error) {
	var row kvRow
	if err := s.db.GetContext(ctx, &row, s.getQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read key",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return Entry{}, NewStoreError(key, "get", "query failed", s.mapError(err))
	}
	return Entry{Value: row.Value, Version: row.Version}, nil
}

// Commit implements KV.
func (s *SQLKV) Commit(ctx context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	err := RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, w := range writes {
			if err := s.apply(ctx, tx, w); err != nil {
				return err
			}
		}
		return nil
	})
	return s.mapError(err)
}

func (s *SQLKV) apply(ctx context.Context, tx *sqlx.Tx, w Write) error {
	var current int64
	if err := tx.GetContext(ctx, &current, s.versionQuery, w.Key); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		current = 0
	}
	if current != w.ExpectedVersion {
		return fmt.Errorf("%w: key %s at version %d, expected %d",
			ErrConflict, w.Key, current, w.ExpectedVersion)
	}

	switch w.Op {
	case OpCheck:
		return nil
	case OpPut:
		if current == 0 {
			_, err := tx.ExecContext(ctx, s.insertQuery, w.Key, w.Value)
			return err
		}
		res, err := tx.ExecContext(ctx, s.updateQuery, w.Value, w.Key, current)
		if err != nil {
			return err
		}
		return checkApplied(res, w)
	case OpDelete:
		if current == 0 {
			return nil
		}
		res, err := tx.ExecContext(ctx, s.deleteQuery, w.Key, current)
		if err != nil {
			return err
		}
		return checkApplied(res, w)
	default:
		return fmt.Errorf("unknown write op %d for key %s", w.Op, w.Key)
	}
}

func checkApplied(res sql.Result, w Write) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: key %s changed during %s", ErrConflict, w.Key, w.Op)
	}
	return nil
}

// Close implements KV.
func (s *SQLKV) Close() error {
	return s.db.Close()
}
