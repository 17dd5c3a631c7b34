// Package auth guards the manual streak override and resolves the local
// user identity that namespaces stored state.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/julianstephens/studystreak/internal/keyring"
)

// PassphraseEnv overrides the keyring when set, for hosts without one.
const PassphraseEnv = "STUDYSTREAK_PASSPHRASE"

var (
	ErrNoPassphrase  = errors.New("no override passphrase has been configured")
	ErrBadPassphrase = errors.New("incorrect passphrase")
)

// Verifier checks a passphrase before a privileged operation.
type Verifier interface {
	Verify(passphrase string) error
}

// Digest returns the stored form of a passphrase.
func Digest(passphrase string) string {
	sum := sha256.Sum256([]byte(passphrase))
	return hex.EncodeToString(sum[:])
}

// StaticVerifier compares against a fixed digest.
type StaticVerifier struct {
	digest string
}

// NewStaticVerifier hashes passphrase once and returns a verifier for it.
func NewStaticVerifier(passphrase string) StaticVerifier {
	return StaticVerifier{digest: Digest(passphrase)}
}

func (v StaticVerifier) Verify(passphrase string) error {
	return compare(v.digest, passphrase)
}

// KeyringVerifier reads the digest from the OS keyring on every call.
type KeyringVerifier struct{}

func (KeyringVerifier) Verify(passphrase string) error {
	digest, err := keyring.GetPassphrase()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNoPassphrase
		}
		return err
	}
	return compare(digest, passphrase)
}

// SetPassphrase stores the digest of passphrase in the OS keyring.
func SetPassphrase(passphrase string) error {
	if strings.TrimSpace(passphrase) == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}
	return keyring.SetPassphrase(Digest(passphrase))
}

// DefaultVerifier prefers PassphraseEnv and falls back to the keyring.
func DefaultVerifier() Verifier {
	if p := os.Getenv(PassphraseEnv); p != "" {
		return NewStaticVerifier(p)
	}
	return KeyringVerifier{}
}

func compare(digest, passphrase string) error {
	if digest == "" {
		return ErrNoPassphrase
	}
	got := Digest(passphrase)
	if subtle.ConstantTimeCompare([]byte(got), []byte(digest)) != 1 {
		return ErrBadPassphrase
	}
	return nil
}

// UserID returns configured when set, otherwise the OS login name.
// The result is stable across runs on the same machine.
func UserID(configured string) (string, error) {
	if id := strings.TrimSpace(configured); id != "" {
		return id, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolving current user: %w", err)
	}
	return u.Username, nil
}
