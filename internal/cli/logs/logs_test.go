package logs

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/studystreak/internal/auth"
	"github.com/julianstephens/studystreak/internal/cli"
	"github.com/julianstephens/studystreak/internal/config"
	"github.com/julianstephens/studystreak/internal/storage"
	"github.com/julianstephens/studystreak/internal/streak"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func setupContext(t *testing.T) (*cli.Context, *bytes.Buffer, *testClock) {
	t.Helper()
	out := &bytes.Buffer{}
	clock := &testClock{now: time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)}
	ctx := &cli.Context{
		Config:   &config.Config{Timezone: "UTC"},
		Store:    storage.NewMemoryStore(),
		Out:      out,
		Clock:    clock.Now,
		Verifier: auth.NewStaticVerifier("letmein"),
	}
	return ctx, out, clock
}

func TestShareAndDone(t *testing.T) {
	ctx, out, _ := setupContext(t)

	share := &ShareCmd{Content: []string{"flashcards"}, Hours: "1"}
	if err := share.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "✓ Shared.") {
		t.Errorf("share output = %q", out.String())
	}

	out.Reset()
	done := &DoneCmd{StudyLog: []string{"chapter", "3"}, Hours: "2"}
	if err := done.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Streak: 1 day(s)") {
		t.Errorf("done output = %q", out.String())
	}

	out.Reset()
	if err := done.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Streak: 1 day(s)") {
		t.Errorf("second completion on the same day changed the streak: %q", out.String())
	}
}

func TestShareCompletesAcrossDays(t *testing.T) {
	ctx, out, clock := setupContext(t)

	for range 3 {
		share := &ShareCmd{Content: []string{"review"}, Complete: true}
		if err := share.Run(ctx); err != nil {
			t.Fatal(err)
		}
		clock.now = clock.now.Add(24 * time.Hour)
	}
	if !strings.Contains(out.String(), "Streak: 3 day(s)") {
		t.Errorf("output = %q", out.String())
	}
}

func TestEntryValidation(t *testing.T) {
	ctx, _, _ := setupContext(t)

	tests := []struct {
		name string
		cmd  interface{ Run(*cli.Context) error }
	}{
		{"share bad hours", &ShareCmd{Content: []string{"x"}, Hours: "abc"}},
		{"share negative hours", &ShareCmd{Content: []string{"x"}, Hours: "-2"}},
		{"done bad hours", &DoneCmd{StudyLog: []string{"x"}, Hours: "1h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected an error")
			}
		})
	}

	res, err := ctx.Service().Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.State.Logs) != 0 {
		t.Errorf("rejected entries were stored: %d", len(res.State.Logs))
	}
}

func TestPlanSnapshotsTasks(t *testing.T) {
	ctx, out, _ := setupContext(t)
	if _, err := ctx.Service().AddTask("read chapter 4"); err != nil {
		t.Fatal(err)
	}

	cmd := &PlanCmd{Text: []string{"finish", "unit", "2"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "saved with 1 task(s)") {
		t.Errorf("output = %q", out.String())
	}

	res, err := ctx.Service().Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.State.Tasks) != 0 {
		t.Error("task list should be cleared")
	}
	if res.State.Streak != 0 {
		t.Error("a day plan must not change the streak")
	}
}

func TestStatus(t *testing.T) {
	ctx, out, _ := setupContext(t)

	if err := (&StatusCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No entries yet") {
		t.Errorf("output = %q", out.String())
	}

	if err := (&DoneCmd{StudyLog: []string{"done"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&StatusCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Streak: 1 day(s)", "Last completed: 2026-10-15", "Today is done"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status missing %q:\n%s", want, out.String())
		}
	}
}

func TestFeed(t *testing.T) {
	ctx, out, clock := setupContext(t)

	if err := (&FeedCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No log entries yet.") {
		t.Errorf("output = %q", out.String())
	}

	if err := (&ShareCmd{Content: []string{"old news"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	clock.now = clock.now.AddDate(0, 0, 10)
	if err := (&ShareCmd{Content: []string{"fresh"}, Hours: "1.5"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&FeedCmd{Days: 3}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "fresh") || strings.Contains(out.String(), "old news") {
		t.Errorf("windowed feed = %q", out.String())
	}

	out.Reset()
	if err := (&FeedCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.Index(out.String(), "fresh") > strings.Index(out.String(), "old news") {
		t.Errorf("feed should be newest first:\n%s", out.String())
	}

	if err := (&FeedCmd{Days: -1}).Run(ctx); err == nil {
		t.Error("expected error for negative days")
	}
}

func TestStatsAndHeatmap(t *testing.T) {
	ctx, out, _ := setupContext(t)
	if err := (&DoneCmd{StudyLog: []string{"x"}, Hours: "2.5"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Total hours:", "2.5", "Days studied:", "Oct 15"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stats missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := (&HeatmapCmd{Days: 7}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "to 2026-10-15") {
		t.Errorf("heatmap header = %q", out.String())
	}
}

func TestStreakSet(t *testing.T) {
	ctx, out, _ := setupContext(t)

	if err := (&StreakSetCmd{Value: -1, Passphrase: "letmein"}).Run(ctx); !errors.Is(err, streak.ErrNegativeStreak) {
		t.Errorf("negative value error = %v", err)
	}
	if err := (&StreakSetCmd{Value: 5, Passphrase: "wrong"}).Run(ctx); err == nil {
		t.Error("expected error for wrong passphrase")
	}
	if err := (&StreakSetCmd{Value: 5, Passphrase: "letmein"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Streak set to 5 day(s).") {
		t.Errorf("output = %q", out.String())
	}
}
