package kv

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikmy/klaro/pkg/errors"
)

// SQLite keeps every key as a row of the kv table.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, cfg SQLiteConfig) (*SQLite, error) {
	err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755)
	if err != nil {
		return nil, errors.WrapFail(err, "create db directory")
	}

	err = runMigrations(cfg.Path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, errors.WrapFail(err, "open sqlite database")
	}

	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, errors.WrapFail(err, "ping database")
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoKey
	}
	if err != nil {
		return nil, errors.WrapFailf(err, "select %q", key)
	}
	return value, nil
}

func (s *SQLite) Has(ctx context.Context, key string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM kv WHERE key = ?)`, key).Scan(&exists)
	if err != nil {
		return false, errors.WrapFailf(err, "check %q", key)
	}
	return exists, nil
}

func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	return errors.WrapFailf(err, "upsert %q", key)
}

func (s *SQLite) Delete(ctx context.Context, key string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return false, errors.WrapFailf(err, "delete %q", key)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.WrapFail(err, "get affected rows")
	}
	return n == 1, nil
}

func (s *SQLite) Close(context.Context) error {
	return errors.WrapFail(s.db.Close(), "close sqlite database")
}
