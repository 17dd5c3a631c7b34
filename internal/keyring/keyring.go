package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/studystreak/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested user
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(user string) (string, error) {
	v, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func set(user, value, what string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if err := keyring.Set(constants.AppName, user, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", what, err)
	}
	return nil
}

func del(user, what string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", what, err)
	}
	return nil
}

// GetConnectionString retrieves the PostgreSQL connection string.
// Returns ErrNotFound if none is stored.
func GetConnectionString() (string, error) {
	return get(constants.DefaultKeyringUser)
}

// SetConnectionString stores the PostgreSQL connection string.
func SetConnectionString(connStr string) error {
	return set(constants.DefaultKeyringUser, connStr, "connection string")
}

// DeleteConnectionString removes the PostgreSQL connection string.
func DeleteConnectionString() error {
	return del(constants.DefaultKeyringUser, "connection string")
}

// GetPassphrase retrieves the digest of the manual streak override passphrase.
func GetPassphrase() (string, error) {
	return get(constants.PassphraseUser)
}

// SetPassphrase stores the digest of the manual streak override passphrase.
func SetPassphrase(digest string) error {
	return set(constants.PassphraseUser, digest, "passphrase")
}

// DeletePassphrase removes the stored override passphrase.
func DeletePassphrase() error {
	return del(constants.PassphraseUser, "passphrase")
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
