// Package sqlkv implements the key-value operations shared by the SQL
// backends on top of the kv_store table.
package sqlkv

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/studystreak/internal/storage"
)

// Table holds key-value rows in kv_store.
type Table struct {
	DB *sqlx.DB
	// Now stamps updated_at. Defaults to time.Now.
	Now func() time.Time
}

func (t *Table) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Table) Read(key string) ([]byte, bool, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, false, err
	}
	if t.DB == nil {
		return nil, false, storage.ErrNotInitialized
	}
	var value string
	err := t.DB.Get(&value, t.DB.Rebind("SELECT value FROM kv_store WHERE key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (t *Table) Write(key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if t.DB == nil {
		return storage.ErrNotInitialized
	}
	query := t.DB.Rebind(`
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if _, err := t.DB.Exec(query, key, string(value), t.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (t *Table) Remove(key string) error {
	if t.DB == nil {
		return storage.ErrNotInitialized
	}
	if _, err := t.DB.Exec(t.DB.Rebind("DELETE FROM kv_store WHERE key = ?"), key); err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

func (t *Table) Keys() ([]string, error) {
	if t.DB == nil {
		return nil, storage.ErrNotInitialized
	}
	var keys []string
	if err := t.DB.Select(&keys, "SELECT key FROM kv_store ORDER BY key"); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

// Entry is a row of kv_store with its modification time.
type Entry struct {
	Key       string `db:"key"`
	UpdatedAt string `db:"updated_at"`
}

// Entries lists keys with their last update time, newest first.
func (t *Table) Entries() ([]Entry, error) {
	if t.DB == nil {
		return nil, storage.ErrNotInitialized
	}
	var out []Entry
	if err := t.DB.Select(&out, "SELECT key, CAST(updated_at AS TEXT) AS updated_at FROM kv_store ORDER BY updated_at DESC"); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return out, nil
}
