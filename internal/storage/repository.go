package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finproject/internal/kv"

	_ "modernc.org/sqlite"
)

const (
	getValueQuery = `SELECT value FROM kv WHERE key = ?`
	setValueQuery = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

// SQLiteRepository implements kv.Store on a single-table SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ kv.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get implements kv.Store
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, getValueQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get value %q: %w", key, err)
	}
	return value, nil
}

// Set implements kv.Store
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, setValueQuery, key, value); err != nil {
		return fmt.Errorf("set value %q: %w", key, err)
	}

	slog.DebugContext(ctx, "Value saved to SQLite", "key", key, "bytes", len(value))
	return nil
}
