package logs

import (
	"fmt"

	"github.com/julianstephens/studystreak/internal/cli"
	"github.com/julianstephens/studystreak/internal/streak"
	"github.com/julianstephens/studystreak/internal/tracker"
	"github.com/julianstephens/studystreak/internal/utils"
)

// PlanCmd records today's plan with the current task list.
type PlanCmd struct {
	Text []string `arg:"" optional:"" help:"Day plan text. Prompts when omitted."`
}

func (c *PlanCmd) Run(ctx *cli.Context) error {
	text, err := cli.TextOrPrompt(c.Text, "Today's plan", "What will you study today?")
	if err != nil {
		return err
	}
	res, err := ctx.Service().CompleteDay(text)
	if err != nil {
		return fmt.Errorf("failed to save day plan: %w", err)
	}
	ctx.Printf("✓ Day plan saved with %d task(s). Task list cleared for tomorrow.\n", len(res.Entry.Tasks))
	ctx.ReportResult(res)
	return nil
}

// ShareCmd posts a quick share, optionally completing the day.
type ShareCmd struct {
	Content  []string `arg:"" optional:"" help:"What you studied. Prompts when omitted."`
	Hours    string   `help:"Hours studied." short:"H"`
	Complete bool     `help:"Count this share as today's completed day." short:"c"`
}

func (c *ShareCmd) Run(ctx *cli.Context) error {
	hours, err := utils.ParseHours(c.Hours)
	if err != nil {
		return err
	}
	content, err := cli.TextOrPrompt(c.Content, "Quick share", "What did you study?")
	if err != nil {
		return err
	}
	res, err := ctx.Service().QuickShare(streak.QuickShareInput{
		Content:         content,
		Hours:           hours,
		IsDayCompletion: c.Complete,
	})
	if err != nil {
		return fmt.Errorf("failed to share: %w", err)
	}
	reportEntry(ctx, res)
	return nil
}

// DoneCmd writes the full day log and completes the day.
type DoneCmd struct {
	StudyLog []string `arg:"" optional:"" help:"Study log for the day. Prompts when omitted."`
	Hours    string   `help:"Hours studied." short:"H"`
	Plan     string   `help:"Day plan to attach."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	hours, err := utils.ParseHours(c.Hours)
	if err != nil {
		return err
	}
	log, err := cli.TextOrPrompt(c.StudyLog, "Study log", "How did today go?")
	if err != nil {
		return err
	}
	res, err := ctx.Service().MarkDayDone(streak.DayLogInput{
		StudyLog: log,
		DayPlan:  c.Plan,
		Hours:    hours,
	})
	if err != nil {
		return fmt.Errorf("failed to complete day: %w", err)
	}
	reportEntry(ctx, res)
	return nil
}

func reportEntry(ctx *cli.Context, res tracker.Result) {
	if res.Entry.IsDayCompletion() {
		ctx.Printf("✓ Day complete! Streak: %d day(s).\n", res.State.Streak)
	} else {
		ctx.Println("✓ Shared.")
	}
	ctx.ReportResult(res)
}
