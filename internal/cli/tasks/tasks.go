package tasks

import (
	"fmt"
	"strings"

	"github.com/julianstephens/studystreak/internal/cli"
)

type TaskAddCmd struct {
	Text []string `arg:"" help:"Task description."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	text := strings.Join(c.Text, " ")
	res, err := ctx.Service().AddTask(text)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	if !res.Changed {
		ctx.Println("Nothing added: task text is empty.")
		return nil
	}
	added := res.State.Tasks[len(res.State.Tasks)-1]
	ctx.Printf("✓ Added task %d: %s (%s)\n", len(res.State.Tasks), added.Text, cli.ShortID(added.ID))
	return nil
}

type TaskListCmd struct{}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Service().Snapshot()
	if err != nil {
		return err
	}
	if len(res.State.Tasks) == 0 {
		ctx.Println("No tasks. Add one with 'studystreak task add <text>'.")
		return nil
	}
	ctx.Println(cli.TaskTable(res.State.Tasks))
	return nil
}

type TaskToggleCmd struct {
	Ref string `arg:"" help:"Task position, id or id prefix."`
}

func (c *TaskToggleCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Service().ToggleTask(c.Ref)
	if err != nil {
		return fmt.Errorf("failed to toggle task: %w", err)
	}
	if !res.Changed {
		ctx.Printf("No task matches %q.\n", c.Ref)
		return nil
	}
	ctx.Println(cli.TaskTable(res.State.Tasks))
	return nil
}

type TaskRemoveCmd struct {
	Ref string `arg:"" help:"Task position, id or id prefix."`
}

func (c *TaskRemoveCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Service().RemoveTask(c.Ref)
	if err != nil {
		return fmt.Errorf("failed to remove task: %w", err)
	}
	if !res.Changed {
		ctx.Printf("No task matches %q.\n", c.Ref)
		return nil
	}
	ctx.Printf("✓ Removed task. %d remaining.\n", len(res.State.Tasks))
	return nil
}
