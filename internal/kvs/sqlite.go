package kvs

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/folio/internal/apperr"
)

var tableNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// DB wraps the SQLite connection shared by every table-backed store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at dsn.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("kvs: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("kvs: ping: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// SQLite is a Store kept in one table of a SQLite database.
type SQLite struct {
	conn  *sql.DB
	table string
	quota int64
}

var _ Store = (*SQLite)(nil)

// Table creates (if needed) the named table and returns a Store over it.
// quota is the maximum total size in bytes; Unlimited disables the check.
func (db *DB) Table(name string, quota int64) (*SQLite, error) {
	if !tableNameRe.MatchString(name) {
		return nil, fmt.Errorf("kvs: invalid table name %q", name)
	}
	schema := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`, name)
	if _, err := db.conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("kvs: apply schema %s: %w", name, err)
	}
	return &SQLite{conn: db.conn, table: name, quota: quota}, nil
}

// Get returns the value stored under key.
func (s *SQLite) Get(key string) (string, bool, error) {
	var v string
	err := s.conn.QueryRow(`SELECT value FROM `+s.table+` WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kvs: get %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes value under key after checking the quota in the same transaction.
func (s *SQLite) Set(key, value string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("kvs: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if s.quota > Unlimited {
		var used int64
		err := tx.QueryRow(`SELECT COALESCE(SUM(length(CAST(key AS BLOB)) + length(CAST(value AS BLOB))), 0)
			FROM `+s.table+` WHERE key != ?`, key).Scan(&used)
		if err != nil {
			return fmt.Errorf("kvs: usage: %w", err)
		}
		if used+entrySize(key, value) > s.quota {
			return fmt.Errorf("kvs: set %s: %w", key, apperr.ErrQuotaExceeded)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO `+s.table+` (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("kvs: set %s: %w", key, err)
	}
	return tx.Commit()
}

// Remove deletes key.
func (s *SQLite) Remove(key string) error {
	if _, err := s.conn.Exec(`DELETE FROM `+s.table+` WHERE key = ?`, key); err != nil {
		return fmt.Errorf("kvs: remove %s: %w", key, err)
	}
	return nil
}

// Keys returns every key in the table.
func (s *SQLite) Keys() ([]string, error) {
	rows, err := s.conn.Query(`SELECT key FROM ` + s.table + ` ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("kvs: keys: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
