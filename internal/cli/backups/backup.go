package backups

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/studystreak/internal/cli"
	"github.com/julianstephens/studystreak/internal/constants"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr := ctx.BackupManager()
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := ctx.BackupManager()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	table := cli.NewTable("CREATED", "FILE", "SIZE")
	for _, b := range backups {
		table.AddRow(b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0))
	}
	ctx.Println(table)
	ctx.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := ctx.BackupManager()

	backupPath, err := resolveBackupPath(c.BackupFile, mgr.GetBackupDir())
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace your current data with the backup.")
		ctx.Println("A backup of your current data will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", backupPath)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	ctx.Printf("Created backup of current data: %s\n", filepath.Base(safety))
	ctx.Println("✓ Data restored successfully!")
	return nil
}

// resolveBackupPath accepts an absolute path, a path relative to the
// working directory, or a bare filename inside the backup directory.
func resolveBackupPath(name, backupDir string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		abs, err := filepath.Abs(name)
		if err != nil {
			return "", fmt.Errorf("failed to resolve backup path: %w", err)
		}
		return abs, nil
	}
	candidate := filepath.Join(backupDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", backupDir)
}
