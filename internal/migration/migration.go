// Package migration applies the embedded SQL files that create the
// key-value schema. The same runner serves SQLite and PostgreSQL.
package migration

import (
	"cmp"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNewerSchema means the database was migrated by a later build.
var ErrNewerSchema = errors.New("database schema is newer than this build supports")

type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner tracks the applied version in a one-row schema_version table.
// Queries use ? placeholders and are rebound for the driver.
type Runner struct {
	db *sqlx.DB
	fs fs.FS
}

func NewRunner(db *sqlx.DB, migrationFS fs.FS) *Runner {
	return &Runner{db: db, fs: migrationFS}
}

func (r *Runner) EnsureSchemaVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	return err
}

// GetCurrentVersion returns 0 for a fresh database.
func (r *Runner) GetCurrentVersion() (int, error) {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	var version int
	err := r.db.Get(&version, "SELECT version FROM schema_version")
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (r *Runner) SetVersion(version int) error {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return r.inTx(func(tx *sqlx.Tx) error { return writeVersion(tx, version) })
}

func (r *Runner) inTx(fn func(*sqlx.Tx) error) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func writeVersion(tx *sqlx.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	if _, err := tx.Exec(tx.Rebind("INSERT INTO schema_version (version) VALUES (?)"), version); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// parseFilename splits "001_init.sql" into 1 and "init".
func parseFilename(name string) (int, string, error) {
	prefix, rest, ok := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename %s: expected NNN_name.sql", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in filename %s: %w", name, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in filename %s: version must be at least 1", name)
	}
	return version, rest, nil
}

// ReadMigrationFiles returns the .sql files in ascending version order.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, name, err := parseFilename(e.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.fs, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}

	slices.SortFunc(out, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

func (r *Runner) GetLatestVersion() (int, error) {
	migrations, err := r.ReadMigrationFiles()
	if err != nil || len(migrations) == 0 {
		return 0, err
	}
	return migrations[len(migrations)-1].Version, nil
}

// ApplyMigrations runs every migration above the current version, each in
// its own transaction, and returns how many were applied. logFn may be nil.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	current, err := r.GetCurrentVersion()
	if err != nil {
		return 0, err
	}
	migrations, err := r.ReadMigrationFiles()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		logFn("No migration files found")
		return 0, nil
	}

	latest := migrations[len(migrations)-1].Version
	if current > latest {
		return 0, newerSchemaError(current, latest)
	}
	if current == latest {
		logFn(fmt.Sprintf("Database schema is up to date (version %d)", current))
		return 0, nil
	}

	logFn(fmt.Sprintf("Migrating schema from version %d to %d", current, latest))
	start := time.Now()
	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		err := r.inTx(func(tx *sqlx.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
			}
			return writeVersion(tx, m.Version)
		})
		if err != nil {
			return applied, err
		}
		applied++
		logFn(fmt.Sprintf("  ✓ Migration %d (%s) applied", m.Version, m.Name))
	}
	logFn(fmt.Sprintf("Applied %d migration(s) in %v", applied, time.Since(start)))
	return applied, nil
}

// ValidateVersion fails when the database is ahead of this build.
func (r *Runner) ValidateVersion() error {
	current, err := r.GetCurrentVersion()
	if err != nil {
		return err
	}
	latest, err := r.GetLatestVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return newerSchemaError(current, latest)
	}
	return nil
}

func newerSchemaError(current, latest int) error {
	return fmt.Errorf("%w: database is at version %d, latest known is %d; please upgrade studystreak", ErrNewerSchema, current, latest)
}
