package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/studystreak/internal/cli"
	"github.com/julianstephens/studystreak/internal/cli/backups"
	"github.com/julianstephens/studystreak/internal/cli/data"
	"github.com/julianstephens/studystreak/internal/cli/logs"
	"github.com/julianstephens/studystreak/internal/cli/system"
	"github.com/julianstephens/studystreak/internal/cli/tasks"
	"github.com/julianstephens/studystreak/internal/config"
	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/errors"
	"github.com/julianstephens/studystreak/internal/logger"
)

type CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}" env:"STUDYSTREAK_CONFIG"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd   `cmd:"" help:"Initialize studystreak storage."`
	Doctor  system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Status  logs.StatusCmd   `cmd:"" help:"Show the current streak and today's tasks."`
	Plan    logs.PlanCmd     `cmd:"" help:"Save today's plan with the task list and start fresh."`
	Share   logs.ShareCmd    `cmd:"" help:"Share what you studied."`
	Done    logs.DoneCmd     `cmd:"" help:"Log today's study and mark the day complete."`
	Feed    logs.FeedCmd     `cmd:"" help:"Show the study log, newest first."`
	Stats   logs.StatsCmd    `cmd:"" help:"Show study statistics."`
	Heatmap logs.HeatmapCmd  `cmd:"" help:"Show the activity heatmap."`
	Task    struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a task."`
		List   tasks.TaskListCmd   `cmd:"" help:"List today's tasks." default:"1"`
		Toggle tasks.TaskToggleCmd `cmd:"" help:"Mark a task done or not done."`
		Remove tasks.TaskRemoveCmd `cmd:"" help:"Remove a task."`
	} `cmd:"" help:"Manage today's tasks."`
	Streak struct {
		Set logs.StreakSetCmd `cmd:"" help:"Override the streak counter."`
	} `cmd:"" help:"Manage the streak counter."`
	Export data.ExportCmd `cmd:"" help:"Export study data."`
	Import data.ImportCmd `cmd:"" help:"Import a JSON export, replacing current data."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Keyring struct {
		SetPassphrase    system.KeyringSetPassphraseCmd    `cmd:"" help:"Store the streak override passphrase."`
		SetConnection    system.KeyringSetConnectionCmd    `cmd:"" help:"Store the PostgreSQL connection string."`
		DeleteConnection system.KeyringDeleteConnectionCmd `cmd:"" help:"Remove the stored connection string."`
		Status           system.KeyringStatusCmd           `cmd:"" help:"Show what the keyring holds." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
	Settings struct {
		Show system.ConfigShowCmd `cmd:"" help:"Show effective configuration." default:"1"`
		Set  system.ConfigSetCmd  `cmd:"" help:"Set a configuration value."`
	} `cmd:"" name:"config" help:"Manage configuration."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send a tray notification (used internally)."`
}

// storeFree lists commands that manage the store themselves or never touch it.
var storeFree = map[string]bool{
	"init":    true,
	"doctor":  true,
	"config":  true,
	"keyring": true,
	"notify":  true,
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stdin); err != nil {
		errors.Fatal(err)
	}
}

func run(args []string, out io.Writer, in io.Reader) error {
	var root CLI
	parser, err := kong.New(&root,
		kong.Name(constants.AppName),
		kong.Description("Study streak and habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
		kong.Writers(out, os.Stderr),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{Debug: root.Debug, ConfigDir: filepath.Dir(root.Config)}); err != nil {
		return err
	}
	logger.Debug("starting", "command", ctx.Command(), "backend", cfg.Storage.Backend)

	store, err := cli.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	command := strings.Fields(ctx.Command())[0]
	if !storeFree[command] {
		if err := store.Load(); err != nil {
			return err
		}
	}

	return ctx.Run(&cli.Context{
		Config:     cfg,
		ConfigPath: root.Config,
		Store:      store,
		Out:        out,
		In:         in,
	})
}
