package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/studystreak/internal/cli"
	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/keyring"
	"github.com/julianstephens/studystreak/internal/milestone"
	"github.com/julianstephens/studystreak/internal/notifier"
	"github.com/julianstephens/studystreak/internal/repository"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsStore skips the check when storage could not be loaded.
	needsStore bool
	// warnOnly reports failures without failing the command.
	warnOnly bool
	run      func(*cli.Context) error
}

var checks = []check{
	{name: "Config valid", run: checkConfig},
	{name: "Storage reachable", run: checkStorage},
	{name: "Schema version", needsStore: true, run: checkSchema},
	{name: "State readable", needsStore: true, run: checkState},
	{name: "Milestone ledger", needsStore: true, warnOnly: true, run: checkLedger},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
	{name: "Tray app", warnOnly: true, run: checkTray},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	storeOK := true
	for _, c := range checks {
		if c.needsStore && !storeOK {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Storage reachable" {
				storeOK = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkConfig(ctx *cli.Context) error {
	if ctx.Config == nil {
		return errors.New("no configuration loaded")
	}
	return ctx.Config.Validate()
}

func checkStorage(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	return nil
}

type schemaReporter interface {
	SchemaVersion() (current, latest int, err error)
}

func checkSchema(ctx *cli.Context) error {
	s, ok := ctx.Store.(schemaReporter)
	if !ok {
		// File and memory backends have no schema.
		return nil
	}
	current, latest, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("schema version %d, expected %d", current, latest)
	}
	return nil
}

// checkState decodes the stored snapshot without repairing it.
func checkState(ctx *cli.Context) error {
	raw, ok, err := ctx.Gateway().Read(constants.AppStateKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	_, err = repository.DecodeState(raw)
	return err
}

func checkLedger(ctx *cli.Context) error {
	ledger, err := repository.New(ctx.Gateway()).LoadMilestone()
	if err != nil {
		return err
	}
	raw, ok, err := ctx.Gateway().Read(constants.AppStateKey)
	if err != nil || !ok {
		return err
	}
	state, err := repository.DecodeState(raw)
	if err != nil {
		return err
	}
	if next, ok := milestone.Next(state.Streak, ledger); ok {
		return fmt.Errorf("milestone %d reached but not yet celebrated (ledger at %d)", next, ledger)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if ctx.Config != nil {
		if _, err := ctx.Config.Location(); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
		}
	}
	if now := ctx.Now(); now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.BackupManager().ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s; create one with 'studystreak backup create'", ctx.BackupDir())
	}
	if age := ctx.Now().Sub(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkTray(ctx *cli.Context) error {
	if ctx.Config == nil || !ctx.Config.Notify.Tray {
		return nil
	}
	return notifier.TrayRunning()
}
