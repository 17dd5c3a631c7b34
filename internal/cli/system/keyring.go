package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/studystreak/internal/auth"
	"github.com/julianstephens/studystreak/internal/cli"
	"github.com/julianstephens/studystreak/internal/keyring"
	"github.com/julianstephens/studystreak/internal/storage"
	"github.com/julianstephens/studystreak/internal/storage/postgres"
)

// KeyringSetPassphraseCmd stores the manual streak override passphrase.
type KeyringSetPassphraseCmd struct {
	Passphrase string `help:"New passphrase. Prompts when omitted."`
}

func (cmd *KeyringSetPassphraseCmd) Run(ctx *cli.Context) error {
	passphrase := cmd.Passphrase
	if passphrase == "" {
		p, err := cli.PromptSecret("New override passphrase")
		if err != nil {
			return err
		}
		passphrase = p
	}
	if err := auth.SetPassphrase(passphrase); err != nil {
		return err
	}
	ctx.Println("✓ Override passphrase stored in OS keyring")
	return nil
}

// KeyringSetConnectionCmd stores the PostgreSQL connection string.
type KeyringSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetConnectionCmd) Run(ctx *cli.Context) error {
	if !postgres.IsConnString(cmd.ConnectionString) && !strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, storage.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.Println("   It will be stored as-is in the OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	ctx.Println("✓ Connection string stored successfully in OS keyring")
	return nil
}

type KeyringDeleteConnectionCmd struct{}

func (cmd *KeyringDeleteConnectionCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	ctx.Println("✓ Connection string removed from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring: not available")
		return nil
	}
	ctx.Println("✓ OS keyring: available")

	if connStr, err := keyring.GetConnectionString(); err == nil {
		ctx.Printf("✓ Connection string: %s\n", maskPassword(connStr))
	} else {
		ctx.Println("⊘ Connection string: not set")
	}
	if _, err := keyring.GetPassphrase(); err == nil {
		ctx.Println("✓ Override passphrase: set")
	} else {
		ctx.Println("⊘ Override passphrase: not set")
	}
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if postgres.IsConnString(connStr) {
		scheme, rest, _ := strings.Cut(connStr, "://")
		userinfo, host, found := strings.Cut(rest, "@")
		if !found {
			return connStr
		}
		if user, _, hasPass := strings.Cut(userinfo, ":"); hasPass {
			return scheme + "://" + user + ":****@" + host
		}
		return connStr
	}
	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
