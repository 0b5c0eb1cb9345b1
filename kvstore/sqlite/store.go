// Package sqlite persists kvstore entries in a single SQLite file, giving the CLI the
// durable local storage a browser would provide.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jrsteele09/arcash/kvstore"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

var _ kvstore.Store = (*Store)(nil)

// Store provides SQLite-backed key-value persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the SQLite file at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, kvstore.ErrEmptyKey
	}

	var value []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT entry_value FROM kv_entries WHERE entry_key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get entry: %w", err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return kvstore.ErrEmptyKey
	}
	if value == nil {
		value = []byte{}
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO kv_entries (entry_key, entry_value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(entry_key) DO UPDATE SET
		    entry_value = excluded.entry_value,
		    updated_at = excluded.updated_at`,
		key,
		value,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put entry: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return kvstore.ErrEmptyKey
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM kv_entries WHERE entry_key = ?`, key); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT entry_key FROM kv_entries
		 WHERE substr(entry_key, 1, length(?)) = ?
		 ORDER BY entry_key`,
		prefix,
		prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

func (s *Store) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	res, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM kv_entries WHERE substr(entry_key, 1, length(?)) = ?`,
		prefix,
		prefix,
	)
	if err != nil {
		return 0, fmt.Errorf("delete prefix: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete prefix rows affected: %w", err)
	}
	return int(n), nil
}
