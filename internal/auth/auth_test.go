package auth

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier("open sesame")

	if err := v.Verify("open sesame"); err != nil {
		t.Errorf("Verify() with correct passphrase = %v", err)
	}
	if err := v.Verify("open says me"); !errors.Is(err, ErrBadPassphrase) {
		t.Errorf("Verify() with wrong passphrase = %v, want %v", err, ErrBadPassphrase)
	}
}

func TestKeyringVerifier(t *testing.T) {
	gokeyring.MockInit()

	var v KeyringVerifier
	if err := v.Verify("anything"); !errors.Is(err, ErrNoPassphrase) {
		t.Fatalf("Verify() before setup = %v, want %v", err, ErrNoPassphrase)
	}

	if err := SetPassphrase("hunter2"); err != nil {
		t.Fatalf("SetPassphrase() failed: %v", err)
	}
	if err := v.Verify("hunter2"); err != nil {
		t.Errorf("Verify() = %v", err)
	}
	if err := v.Verify("hunter3"); !errors.Is(err, ErrBadPassphrase) {
		t.Errorf("Verify() = %v, want %v", err, ErrBadPassphrase)
	}
	if err := SetPassphrase("  "); err == nil {
		t.Error("SetPassphrase() accepted a blank passphrase")
	}
}

func TestDefaultVerifierPrefersEnv(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv(PassphraseEnv, "from-env")

	if err := DefaultVerifier().Verify("from-env"); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestUserID(t *testing.T) {
	id, err := UserID("  alice ")
	if err != nil || id != "alice" {
		t.Errorf("UserID() = %q, %v", id, err)
	}
	id, err = UserID("")
	if err != nil {
		t.Fatalf("UserID(\"\") failed: %v", err)
	}
	if id == "" {
		t.Error("UserID(\"\") returned an empty id")
	}
}
