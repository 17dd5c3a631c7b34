package tracker

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/studystreak/internal/auth"
	"github.com/julianstephens/studystreak/internal/milestone"
	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/repository"
	"github.com/julianstephens/studystreak/internal/storage"
	"github.com/julianstephens/studystreak/internal/streak"
	"github.com/julianstephens/studystreak/internal/tasklist"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) advance(d time.Duration) { c.now = c.now.Add(d) }

func setupService(t *testing.T) (*Service, *clock, *milestone.Collector, *repository.Store) {
	t.Helper()

	n := 0
	oldNewID := tasklist.NewID
	tasklist.NewID = func() models.TaskID {
		n++
		return models.TaskID(fmt.Sprintf("task-%d", n))
	}
	t.Cleanup(func() { tasklist.NewID = oldNewID })

	c := &clock{now: time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)}
	sink := &milestone.Collector{}
	repo := repository.New(storage.NewMemoryStore())
	svc := New(repo, Options{
		Location: time.UTC,
		Clock:    c.Now,
		Sink:     sink,
		Verifier: auth.NewStaticVerifier("letmein"),
	})
	return svc, c, sink, repo
}

func TestTaskLifecycle(t *testing.T) {
	svc, _, _, repo := setupService(t)

	if _, err := svc.AddTask("read chapter 1"); err != nil {
		t.Fatal(err)
	}
	res, err := svc.AddTask("   ")
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed || len(res.State.Tasks) != 1 {
		t.Errorf("blank task changed state: %+v", res.State.Tasks)
	}

	if _, err := svc.AddTask("practice problems"); err != nil {
		t.Fatal(err)
	}
	res, err = svc.ToggleTask("2")
	if err != nil {
		t.Fatal(err)
	}
	if !res.State.Tasks[1].Completed {
		t.Error("task 2 should be completed")
	}

	res, err = svc.RemoveTask("task-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.State.Tasks) != 1 || res.State.Tasks[0].ID != "task-2" {
		t.Errorf("tasks = %+v", res.State.Tasks)
	}

	res, err = svc.RemoveTask("missing")
	if err != nil || res.Changed {
		t.Errorf("RemoveTask(missing) = %+v, %v", res.Changed, err)
	}

	stored, _ := repo.LoadState()
	if len(stored.Tasks) != 1 {
		t.Errorf("persisted tasks = %+v", stored.Tasks)
	}
}

func TestCompleteDayPersistsSnapshot(t *testing.T) {
	svc, _, _, repo := setupService(t)
	_, _ = svc.AddTask("flashcards")
	_, _ = svc.ToggleTask("1")

	res, err := svc.CompleteDay("Review notes tomorrow")
	if err != nil {
		t.Fatalf("CompleteDay() = %v", err)
	}
	if res.Entry == nil || res.Entry.Kind != models.EntryDayPlan || len(res.Entry.Tasks) != 1 {
		t.Fatalf("entry = %+v", res.Entry)
	}
	if res.State.Streak != 0 {
		t.Errorf("CompleteDay changed the streak to %d", res.State.Streak)
	}

	stored, _ := repo.LoadState()
	if len(stored.Tasks) != 0 || len(stored.Logs) != 1 || !stored.Logs[0].Tasks[0].Completed {
		t.Errorf("persisted state = %+v", stored)
	}
	if res.Summary.CompletedTasks != 1 || res.Summary.TotalDays != 1 {
		t.Errorf("summary = %+v", res.Summary)
	}
}

func TestRejectedInputDoesNotSave(t *testing.T) {
	svc, _, _, repo := setupService(t)
	_, _ = svc.AddTask("keep me")

	if _, err := svc.CompleteDay(""); !errors.Is(err, streak.ErrEmptyDayPlan) {
		t.Errorf("CompleteDay(\"\") = %v, want %v", err, streak.ErrEmptyDayPlan)
	}
	if _, err := svc.QuickShare(streak.QuickShareInput{Content: " "}); !errors.Is(err, streak.ErrEmptyContent) {
		t.Errorf("QuickShare() = %v, want %v", err, streak.ErrEmptyContent)
	}

	stored, _ := repo.LoadState()
	if len(stored.Tasks) != 1 || len(stored.Logs) != 0 {
		t.Errorf("rejected input modified stored state: %+v", stored)
	}
}

func TestStreakAndMilestones(t *testing.T) {
	svc, c, sink, repo := setupService(t)

	var res Result
	var err error
	for day := 1; day <= 7; day++ {
		res, err = svc.QuickShare(streak.QuickShareInput{Content: "study", Hours: models.HoursPtr(1), IsDayCompletion: true})
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		// A second completion on the same day never counts twice.
		if _, err := svc.QuickShare(streak.QuickShareInput{Content: "more", IsDayCompletion: true}); err != nil {
			t.Fatal(err)
		}
		if day < 7 {
			if res.Celebration != nil {
				t.Errorf("day %d: unexpected celebration %+v", day, res.Celebration)
			}
			c.advance(24 * time.Hour)
		}
	}

	if res.State.Streak != 7 {
		t.Errorf("Streak = %d, want 7", res.State.Streak)
	}
	if res.Celebration == nil || res.Celebration.Threshold != 7 {
		t.Fatalf("Celebration = %+v, want 7", res.Celebration)
	}
	if events := sink.Drain(); len(events) != 1 {
		t.Errorf("sink received %d celebrations, want 1", len(events))
	}
	if ledger, _ := repo.LoadMilestone(); ledger != 7 {
		t.Errorf("ledger = %d, want 7", ledger)
	}
	if res.Summary.WeeklyCompletionRate != 100 || res.Summary.TotalHours != 7 {
		t.Errorf("summary = %+v", res.Summary)
	}
}

func TestLapseWarning(t *testing.T) {
	svc, c, _, _ := setupService(t)
	if _, err := svc.MarkDayDone(streak.DayLogInput{StudyLog: "integrals"}); err != nil {
		t.Fatal(err)
	}

	c.advance(3 * 24 * time.Hour)
	res, err := svc.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Status != streak.StatusLapsed || res.Warning() == "" {
		t.Errorf("status = %s, warning = %q", res.Summary.Status, res.Warning())
	}
	if res.State.Streak != 1 {
		t.Errorf("lapse must not reset the streak, got %d", res.State.Streak)
	}
}

func TestSetManualStreak(t *testing.T) {
	svc, _, sink, _ := setupService(t)

	if _, err := svc.SetManualStreak(30, "wrong"); !errors.Is(err, auth.ErrBadPassphrase) {
		t.Errorf("SetManualStreak() = %v, want %v", err, auth.ErrBadPassphrase)
	}
	res, err := svc.SetManualStreak(30, "letmein")
	if err != nil {
		t.Fatalf("SetManualStreak() = %v", err)
	}
	if res.State.Streak != 30 || !res.State.LastCompletedDate.IsZero() {
		t.Errorf("state = %+v", res.State.StreakState)
	}
	// Only the lowest uncelebrated threshold fires per check.
	if res.Celebration == nil || res.Celebration.Threshold != 7 {
		t.Errorf("Celebration = %+v", res.Celebration)
	}
	sink.Drain()

	if _, err := svc.SetManualStreak(-1, "letmein"); !errors.Is(err, streak.ErrNegativeStreak) {
		t.Errorf("SetManualStreak(-1) = %v", err)
	}

	noAuth := New(repository.New(storage.NewMemoryStore()), Options{})
	if _, err := noAuth.SetManualStreak(1, ""); !errors.Is(err, ErrNoVerifier) {
		t.Errorf("SetManualStreak() without verifier = %v", err)
	}
}

func TestFeed(t *testing.T) {
	svc, c, _, _ := setupService(t)
	for i := 0; i < 5; i++ {
		if _, err := svc.QuickShare(streak.QuickShareInput{Content: fmt.Sprintf("day %d", i)}); err != nil {
			t.Fatal(err)
		}
		c.advance(24 * time.Hour)
	}

	all, err := svc.Feed(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 || all[0].StudyLog != "day 4" {
		t.Errorf("Feed(0) = %d entries, first %q", len(all), all[0].StudyLog)
	}

	recent, err := svc.Feed(3)
	if err != nil {
		t.Fatal(err)
	}
	// Today (day 5) has no entries, so only days 3 and 4 fall inside.
	if len(recent) != 2 {
		t.Errorf("Feed(3) = %d entries, want 2", len(recent))
	}
}

func TestReplaceAndReset(t *testing.T) {
	svc, _, _, repo := setupService(t)

	imported := models.DefaultAppState()
	imported.Streak = 14
	if _, err := svc.Replace(imported); err != nil {
		t.Fatal(err)
	}
	if ledger, _ := repo.LoadMilestone(); ledger != 7 {
		t.Errorf("ledger after import = %d, want 7", ledger)
	}

	if err := svc.Reset(); err != nil {
		t.Fatal(err)
	}
	stored, _ := repo.LoadState()
	ledger, _ := repo.LoadMilestone()
	if stored.Streak != 0 || ledger != 0 {
		t.Errorf("after reset: streak %d, ledger %d", stored.Streak, ledger)
	}
}
