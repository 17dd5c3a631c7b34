package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	pq "github.com/lib/pq"

	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/logger"
	"github.com/julianstephens/studystreak/internal/migration"
	"github.com/julianstephens/studystreak/internal/storage"
	"github.com/julianstephens/studystreak/internal/storage/sqlkv"
	"github.com/julianstephens/studystreak/migrations"
)

var ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")

type Store struct {
	sqlkv.Table
	connStr string
}

func New(connStr string) *Store {
	s := &Store{connStr: connStr}
	s.ensureSearchPath()
	return s
}

// IsConnString reports whether s looks like a PostgreSQL URI.
func IsConnString(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

func (s *Store) ensureSearchPath() {
	if IsConnString(s.connStr) {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
		return
	}
	if !hasParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasParam reports whether a DSN-style "k=v k=v" string sets key,
// compared case-insensitively.
func hasParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

// hasSSLMode checks both URL-style and DSN-style connection strings.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasParam(connStr, "sslmode")
}

// ValidateConnString checks that connStr is a valid PostgreSQL URI or DSN
// and that it carries no password. Credentials belong in .pgpass or the
// environment, never in the keyring entry.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := u.User.Password(); isSet {
			return storage.ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	if hasParam(connStr, "password") {
		return storage.ErrEmbeddedCredentials
	}
	return nil
}

func (s *Store) connect() error {
	db, err := sqlx.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.DB = db
	return nil
}

func (s *Store) Init() error {
	if s.DB == nil {
		if err := s.connect(); err != nil {
			return err
		}
	}
	if _, err := s.DB.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
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
	if err := s.connect(); err != nil {
		return err
	}
	runner, err := s.runner()
	if err != nil {
		return err
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return err
	}
	if current == 0 {
		return storage.ErrNotInitialized
	}
	return s.runMigrations()
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
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
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
		logger.Debug(msg, "backend", "postgres")
	})
	return err
}

// GetConfigPath returns a non-sensitive identifier instead of the
// connection string.
func (s *Store) GetConfigPath() string {
	return "postgresql"
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
