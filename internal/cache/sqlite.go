// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "references.db"

// SQLiteCache persists values in a SQLite database so computed maps survive
// between runs.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration

	// now is replaced in tests.
	now func() time.Time
}

// NewSQLiteCache opens or creates dir/references.db. ttl is the default
// lifetime used when Set is called with a zero ttl.
func NewSQLiteCache(dir string, ttl time.Duration) (*SQLiteCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	c := &SQLiteCache{db: db, ttl: ttl, now: time.Now}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_expires_at ON entries(expires_at)`,
	}
	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Close releases the database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get returns the value stored under key. Expired entries are deleted and
// reported as missing.
func (c *SQLiteCache) Get(key string) ([]byte, bool) {
	var (
		data      []byte
		expiresAt int64
	)
	err := c.db.QueryRow(
		`SELECT data, expires_at FROM entries WHERE key = ?`, key,
	).Scan(&data, &expiresAt)
	if err != nil {
		return nil, false
	}

	if c.now().UnixNano() >= expiresAt {
		_ = c.Delete(key)
		return nil, false
	}
	return data, true
}

// Set stores value under key, replacing any previous entry.
func (c *SQLiteCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	if ttl <= 0 {
		return errors.New("cache ttl must be positive")
	}

	_, err := c.db.Exec(
		`INSERT INTO entries (key, data, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data=excluded.data, expires_at=excluded.expires_at`,
		key, value, c.now().Add(ttl).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Delete(key string) error {
	if _, err := c.db.Exec(`DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed.
func (c *SQLiteCache) Purge() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM entries WHERE expires_at <= ?`, c.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}

// Len returns the number of stored entries, expired or not.
func (c *SQLiteCache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT count(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}
