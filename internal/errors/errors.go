package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/studystreak/internal/auth"
	"github.com/julianstephens/studystreak/internal/keyring"
	"github.com/julianstephens/studystreak/internal/logger"
	"github.com/julianstephens/studystreak/internal/storage"
	"github.com/julianstephens/studystreak/internal/streak"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint maps known failures to a short suggestion for the user.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, storage.ErrNotInitialized):
		return "run 'studystreak init' first"
	case stderrors.Is(err, storage.ErrEmbeddedCredentials):
		return "store the connection string with 'studystreak keyring set-connection' instead"
	case stderrors.Is(err, keyring.ErrKeyringUnavailable):
		return "the OS keyring could not be reached; set STUDYSTREAK_PASSPHRASE or use a local backend"
	case stderrors.Is(err, auth.ErrNoPassphrase):
		return "set one with 'studystreak keyring set-passphrase'"
	case stderrors.Is(err, auth.ErrBadPassphrase):
		return "the passphrase did not match the one stored in the keyring"
	case stderrors.Is(err, streak.ErrEmptyDayPlan):
		return "describe tomorrow's plan, e.g. studystreak plan \"review chapter 4\""
	case stderrors.Is(err, streak.ErrInvalidHours):
		return "pass hours as a number such as --hours 1.5"
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
