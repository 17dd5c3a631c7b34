package sqlite

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/studystreak/internal/logger"
	"github.com/julianstephens/studystreak/internal/migration"
	"github.com/julianstephens/studystreak/internal/storage"
	"github.com/julianstephens/studystreak/internal/storage/sqlkv"
	"github.com/julianstephens/studystreak/migrations"
)

type Store struct {
	sqlkv.Table
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) open() error {
	db, err := sqlx.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable WAL: %w", err)
	}
	s.DB = db
	return nil
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if s.DB == nil {
		if err := s.open(); err != nil {
			return err
		}
	}
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.DB != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.ErrNotInitialized
	}

	if err := s.open(); err != nil {
		return err
	}

	// Older databases pick up new migrations on load.
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.DB != nil {
		err := s.DB.Close()
		s.DB = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.DB, subFS), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	if err := runner.ValidateVersion(); err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Debug(msg, "backend", "sqlite")
	})
	return err
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection, or nil before Init/Load.
func (s *Store) GetDB() *sqlx.DB {
	return s.DB
}

// SchemaVersion reports the applied and the latest embedded migration.
func (s *Store) SchemaVersion() (current, latest int, err error) {
	if s.DB == nil {
		return 0, 0, storage.ErrNotInitialized
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}
