package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"modernc.org/sqlite" // SQLite driver
)

// sqliteFull is SQLITE_FULL, returned when max_page_count is reached.
const sqliteFull = 13

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and runs migrations.
// maxPages > 0 caps the database size through PRAGMA max_page_count; writes
// beyond it fail with ErrQuotaExceeded.
func NewSQLiteStore(path string, maxPages int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path, maxPages))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func sqliteDSN(path string, maxPages int) string {
	if maxPages <= 0 {
		return path
	}
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("max_page_count(%d)", maxPages))
	return "file:" + path + "?" + q.Encode()
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS cache_entries (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating cache_entries table: %w", err)
	}

	return nil
}

// Get returns the value for key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM cache_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying cache entry: %w", err)
	}
	return value, true, nil
}

// Set inserts or replaces the value for key.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO cache_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		if isSQLiteFull(err) {
			return fmt.Errorf("writing cache entry: %w", ErrQuotaExceeded)
		}
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Remove deletes the key.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isSQLiteFull(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqliteFull
}
