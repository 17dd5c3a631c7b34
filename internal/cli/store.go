package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/studystreak/internal/config"
	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/keyring"
	"github.com/julianstephens/studystreak/internal/storage"
	"github.com/julianstephens/studystreak/internal/storage/dirstore"
	"github.com/julianstephens/studystreak/internal/storage/postgres"
	"github.com/julianstephens/studystreak/internal/storage/sqlite"
)

// OpenStore builds the gateway selected by cfg without loading it.
func OpenStore(cfg *config.Config) (storage.Gateway, error) {
	if cfg.Storage.Backend == constants.BackendPostgres {
		connStr, err := postgresConnString(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil
	}
	if cfg.Storage.Backend == constants.BackendMemory {
		return storage.NewMemoryStore(), nil
	}

	path, err := cfg.StoragePath()
	if err != nil {
		return nil, err
	}
	switch cfg.Storage.Backend {
	case constants.BackendSQLite, "":
		return sqlite.NewStore(path), nil
	case constants.BackendJSON:
		return storage.NewJSONStore(path), nil
	case constants.BackendDir:
		return dirstore.New(path), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// postgresConnString prefers an explicit storage.path, which must not carry
// a password, and falls back to the keyring entry.
func postgresConnString(cfg *config.Config) (string, error) {
	if cfg.Storage.Path != "" {
		if err := postgres.ValidateConnString(cfg.Storage.Path); err != nil {
			return "", err
		}
		return cfg.Storage.Path, nil
	}
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("no PostgreSQL connection configured: run 'studystreak keyring set-connection' or set storage.path")
	}
	if err != nil {
		return "", err
	}
	return connStr, nil
}
