package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/studystreak/internal/cli"
	"github.com/julianstephens/studystreak/internal/config"
	"github.com/julianstephens/studystreak/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Reset existing data after backing it up."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	err := ctx.Store.Init()
	switch {
	case errors.Is(err, storage.ErrAlreadyInitialized):
		if err := ctx.Store.Load(); err != nil {
			return err
		}
		ctx.Printf("Storage already initialized at: %s\n", ctx.Store.GetConfigPath())
	case err != nil:
		return err
	default:
		ctx.Printf("Initialized studystreak storage at: %s\n", ctx.Store.GetConfigPath())
	}

	if c.Force {
		ctx.PerformAutomaticBackup()
		if err := ctx.Service().Reset(); err != nil {
			return fmt.Errorf("failed to reset data: %w", err)
		}
		ctx.Println("✓ Existing data was reset. A backup was taken first.")
	}

	if ctx.ConfigPath == "" {
		return nil
	}
	if _, err := os.Stat(ctx.ConfigPath); os.IsNotExist(err) {
		if err := config.Set(ctx.ConfigPath, "storage.backend", ctx.Config.Storage.Backend); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		ctx.Printf("Wrote default config to: %s\n", ctx.ConfigPath)
	}
	return nil
}
