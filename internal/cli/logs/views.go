package logs

import (
	"fmt"

	"github.com/julianstephens/studystreak/internal/cli"
	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/render"
	"github.com/julianstephens/studystreak/internal/streak"
	"github.com/julianstephens/studystreak/internal/utils"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Service().Snapshot()
	if err != nil {
		return err
	}
	s := res.Summary

	ctx.Printf("🔥 Streak: %d day(s)\n", s.Streak)
	if !s.LastCompletedDate.IsZero() {
		ctx.Printf("   Last completed: %s\n", s.LastCompletedDate)
	}
	switch s.Status {
	case streak.StatusNoEntries:
		ctx.Println("   No entries yet. Share what you studied with 'studystreak share'.")
	case streak.StatusCurrent:
		ctx.Println("   Today is done. Nice work!")
	case streak.StatusAtRisk:
		ctx.Println("   Today is not completed yet.")
	case streak.StatusLapsed:
		ctx.Println("   Streak at risk: complete today to keep it going.")
	}
	ctx.ReportResult(res)

	ctx.Println()
	done := models.CompletedCount(res.State.Tasks)
	ctx.Printf("Tasks: %d open, %d done\n", len(res.State.Tasks)-done, done)
	if len(res.State.Tasks) > 0 {
		ctx.Println(cli.TaskTable(res.State.Tasks))
	}
	return nil
}

type FeedCmd struct {
	Days   int  `help:"Only show the last N days (0 for all)." default:"0"`
	Pretty bool `help:"Render the feed as styled markdown."`
}

func (c *FeedCmd) Run(ctx *cli.Context) error {
	if c.Days < 0 {
		return fmt.Errorf("--days cannot be negative")
	}
	entries, err := ctx.Service().Feed(c.Days)
	if err != nil {
		return err
	}
	loc := ctx.Location()
	if c.Pretty {
		ctx.Printf("%s", cli.RenderMarkdown(cli.FeedMarkdown(entries, loc), 80))
		return nil
	}
	if len(entries) == 0 {
		ctx.Println("No log entries yet.")
		return nil
	}
	ctx.Println(cli.FeedTable(entries, loc))
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Service().Snapshot()
	if err != nil {
		return err
	}
	s := res.Summary
	goal := ctx.StatsOptions().ChallengeGoal

	table := cli.NewTable()
	table.AddRow("Current streak:", fmt.Sprintf("%d day(s)", s.Streak))
	table.AddRow("Days studied:", s.TotalDays)
	table.AddRow("Total hours:", utils.FormatHours(s.TotalHours))
	table.AddRow("Average hours/day:", fmt.Sprintf("%.1f", s.AverageHours))
	table.AddRow("Tasks completed:", s.CompletedTasks)
	table.AddRow("This week:", render.ProgressBar(s.WeeklyCompletionRate, 20))
	table.AddRow(fmt.Sprintf("%d-day challenge:", goal), render.ProgressBar(s.ChallengeProgress, 20))
	ctx.Println(table)

	ctx.Printf("\nStudy hours, last %d days:\n", len(s.RecentHours))
	ctx.Printf("%s", render.HoursChart(s.RecentHours, 30))
	ctx.ReportResult(res)
	return nil
}

type HeatmapCmd struct {
	Days int `help:"Window size in days. Defaults to heatmap.window_days."`
}

func (c *HeatmapCmd) Run(ctx *cli.Context) error {
	if c.Days < 0 {
		return fmt.Errorf("--days cannot be negative")
	}
	res, err := ctx.Service().Snapshot()
	if err != nil {
		return err
	}
	hm := res.Summary.Heatmap
	if c.Days > 0 && c.Days != ctx.StatsOptions().HeatmapWindowDays {
		hm = ctx.Aggregator(res.State).ActivityHeatmap(ctx.Service().Today(), c.Days)
	}
	ctx.Printf("Activity %s to %s\n\n", hm.Start, hm.End)
	ctx.Printf("%s", render.Heatmap(hm))
	return nil
}

type StreakSetCmd struct {
	Value      int    `arg:"" help:"New streak value."`
	Passphrase string `help:"Override passphrase. Prompts when omitted." env:"STUDYSTREAK_OVERRIDE_PASSPHRASE"`
}

func (c *StreakSetCmd) Run(ctx *cli.Context) error {
	if c.Value < 0 {
		return streak.ErrNegativeStreak
	}
	passphrase := c.Passphrase
	if passphrase == "" {
		p, err := cli.PromptSecret("Override passphrase")
		if err != nil {
			return err
		}
		passphrase = p
	}
	res, err := ctx.Service().SetManualStreak(c.Value, passphrase)
	if err != nil {
		return fmt.Errorf("failed to set streak: %w", err)
	}
	ctx.Printf("✓ Streak set to %d day(s).\n", res.State.Streak)
	ctx.ReportResult(res)
	return nil
}
