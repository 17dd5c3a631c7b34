package system

import (
	"fmt"

	"github.com/julianstephens/studystreak/internal/cli"
	"github.com/julianstephens/studystreak/internal/config"
	"github.com/julianstephens/studystreak/internal/notifier"
)

type ConfigShowCmd struct{}

func (cmd *ConfigShowCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Config file: %s\n\n", ctx.ConfigPath)
	table := cli.NewTable("KEY", "VALUE")
	for _, kv := range ctx.Config.Values() {
		value := kv[1]
		if value == "" {
			value = "(default)"
		}
		table.AddRow(kv[0], value)
	}
	ctx.Println(table)

	path, err := ctx.Config.StoragePath()
	if err == nil && ctx.Config.Storage.Path == "" {
		ctx.Printf("\nEffective storage path: %s\n", path)
	}
	return nil
}

type ConfigSetCmd struct {
	Key   string `arg:"" help:"Config key, e.g. timezone or storage.backend."`
	Value string `arg:"" help:"New value."`
}

func (cmd *ConfigSetCmd) Run(ctx *cli.Context) error {
	if err := config.Set(ctx.ConfigPath, cmd.Key, cmd.Value); err != nil {
		return err
	}
	ctx.Printf("✓ %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

// NotifyCmd sends a test notification to the tray app.
type NotifyCmd struct {
	Text string `arg:"" optional:"" help:"Notification text."`
}

func (cmd *NotifyCmd) Run(ctx *cli.Context) error {
	text := cmd.Text
	if text == "" {
		text = "studystreak notifications are working"
	}
	if err := notifier.New().Notify(text); err != nil {
		return fmt.Errorf("failed to notify: %w", err)
	}
	ctx.Println("✓ Notification sent")
	return nil
}
