package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	// immediate transactions take the write lock up front, so a
	// read-modify-write in Update cannot interleave with another process
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps this process's writes ordered
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS records (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("read "+key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, unavailable("decode "+key, err)
	}
	return true, nil
}

const upsertRecord = `
INSERT INTO records (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at;
`

func (s *SQLiteStore) Set(ctx context.Context, entries map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for key, value := range entries {
		raw, err := json.Marshal(value)
		if err != nil {
			_ = tx.Rollback()
			return unavailable("encode "+key, err)
		}
		if _, err := tx.ExecContext(ctx, upsertRecord, key, string(raw), now); err != nil {
			_ = tx.Rollback()
			return unavailable("write "+key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, key string, dst any, fn func(found bool) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	found := true
	var raw string
	err = tx.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		found = false
	case err != nil:
		return unavailable("read "+key, err)
	default:
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return unavailable("decode "+key, err)
		}
	}

	if err := fn(found); err != nil {
		return err
	}
	encoded, err := json.Marshal(dst)
	if err != nil {
		return unavailable("encode "+key, err)
	}
	if _, err := tx.ExecContext(ctx, upsertRecord, key, string(encoded), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return unavailable("write "+key, err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
