package streak

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/julianstephens/studystreak/internal/models"
)

var (
	utc  = New(time.UTC)
	base = time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)
)

func day(n int) time.Time {
	return base.AddDate(0, 0, n)
}

func TestQuickShareCompletionOnDistinctDays(t *testing.T) {
	state := models.DefaultAppState()
	var err error
	for i := 0; i < 5; i++ {
		state, _, err = utc.QuickShare(state, day(i), QuickShareInput{Content: "studied", IsDayCompletion: true})
		if err != nil {
			t.Fatalf("QuickShare day %d failed: %v", i, err)
		}
	}
	if state.Streak != 5 {
		t.Errorf("Streak = %d, want 5", state.Streak)
	}
	if state.LastCompletedDate != models.DayFromTime(day(4)) {
		t.Errorf("LastCompletedDate = %v, want %v", state.LastCompletedDate, models.DayFromTime(day(4)))
	}
	if len(state.Logs) != 5 {
		t.Errorf("len(Logs) = %d, want 5", len(state.Logs))
	}
}

func TestQuickShareCompletionIsIdempotentPerDay(t *testing.T) {
	state := models.DefaultAppState()
	state.Streak = 3

	morning := day(0)
	evening := morning.Add(10 * time.Hour)

	state, first, err := utc.QuickShare(state, morning, QuickShareInput{Content: "morning", IsDayCompletion: true})
	if err != nil {
		t.Fatalf("first QuickShare failed: %v", err)
	}
	state, second, err := utc.QuickShare(state, evening, QuickShareInput{Content: "evening", IsDayCompletion: true})
	if err != nil {
		t.Fatalf("second QuickShare failed: %v", err)
	}

	if state.Streak != 4 {
		t.Errorf("Streak = %d, want 4", state.Streak)
	}
	if first.StreakAtLogging != 4 || second.StreakAtLogging != 4 {
		t.Errorf("StreakAtLogging = %d, %d, want 4, 4", first.StreakAtLogging, second.StreakAtLogging)
	}
	if len(state.Logs) != 2 {
		t.Errorf("both entries should be logged, got %d", len(state.Logs))
	}
	if second.Kind != models.EntryQuickCompletion {
		t.Errorf("Kind = %s, want %s", second.Kind, models.EntryQuickCompletion)
	}
}

func TestQuickShareUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	engine := New(loc)

	// 20:00 UTC on the 1st and 01:00 UTC on the 2nd are both the 2nd in UTC+10.
	a := time.Date(2026, time.October, 1, 20, 0, 0, 0, time.UTC)
	b := time.Date(2026, time.October, 2, 1, 0, 0, 0, time.UTC)

	state := models.DefaultAppState()
	state, _, _ = engine.QuickShare(state, a, QuickShareInput{Content: "a", IsDayCompletion: true})
	state, _, _ = engine.QuickShare(state, b, QuickShareInput{Content: "b", IsDayCompletion: true})
	if state.Streak != 1 {
		t.Errorf("Streak = %d, want 1", state.Streak)
	}
}

func TestQuickShareWithoutCompletion(t *testing.T) {
	state := models.DefaultAppState()
	state, entry, err := utc.QuickShare(state, day(0), QuickShareInput{Content: " note ", Hours: models.HoursPtr(1.5)})
	if err != nil {
		t.Fatalf("QuickShare failed: %v", err)
	}
	if state.Streak != 0 || !state.LastCompletedDate.IsZero() {
		t.Errorf("non-completion share changed the streak: %+v", state.StreakState)
	}
	if entry.StudyLog != "note" || entry.Hours() != 1.5 || entry.Kind != models.EntryQuickShare {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestQuickShareRejectsInvalidInput(t *testing.T) {
	state := models.DefaultAppState()
	state.Tasks = []models.Task{{ID: "1", Text: "keep"}}

	tests := []struct {
		name string
		in   QuickShareInput
		want error
	}{
		{"empty", QuickShareInput{Content: "", IsDayCompletion: true}, ErrEmptyContent},
		{"blank", QuickShareInput{Content: "   ", IsDayCompletion: true}, ErrEmptyContent},
		{"negative hours", QuickShareInput{Content: "x", Hours: models.HoursPtr(-1)}, ErrInvalidHours},
		{"nan hours", QuickShareInput{Content: "x", Hours: models.HoursPtr(math.NaN())}, ErrInvalidHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _, err := utc.QuickShare(state, day(0), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if next.Streak != 0 || len(next.Logs) != 0 || len(next.Tasks) != 1 {
				t.Errorf("rejected input changed state: %+v", next)
			}
		})
	}
}

func TestCompleteDayCapturesTasksWithoutIncrement(t *testing.T) {
	state := models.DefaultAppState()
	state.Streak = 7
	state.Tasks = []models.Task{{ID: "1", Text: "read", Completed: true}, {ID: "2", Text: "write"}}

	next, entry, err := utc.CompleteDay(state, day(0), "Finish chapter 3")
	if err != nil {
		t.Fatalf("CompleteDay failed: %v", err)
	}
	if next.Streak != 7 {
		t.Errorf("Streak = %d, want unchanged 7", next.Streak)
	}
	if len(next.Tasks) != 0 {
		t.Errorf("task list should be cleared, got %d", len(next.Tasks))
	}
	if len(entry.Tasks) != 2 || entry.Kind != models.EntryDayPlan || entry.HasHours() {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.StreakAtLogging != 7 {
		t.Errorf("StreakAtLogging = %d, want 7", entry.StreakAtLogging)
	}
	if len(state.Tasks) != 2 {
		t.Error("CompleteDay mutated its input state")
	}
}

func TestCompleteDayRequiresPlan(t *testing.T) {
	state := models.DefaultAppState()
	state.Tasks = []models.Task{{ID: "1", Text: "read"}}
	next, _, err := utc.CompleteDay(state, day(0), "  ")
	if !errors.Is(err, ErrEmptyDayPlan) {
		t.Fatalf("error = %v, want %v", err, ErrEmptyDayPlan)
	}
	if len(next.Tasks) != 1 || len(next.Logs) != 0 {
		t.Error("rejected plan changed state")
	}
}

func TestMarkDayDone(t *testing.T) {
	state := models.DefaultAppState()
	state.Tasks = []models.Task{{ID: "1", Text: "read", Completed: true}}

	next, entry, err := utc.MarkDayDone(state, day(0), DayLogInput{StudyLog: "calculus", DayPlan: "limits", Hours: models.HoursPtr(3)})
	if err != nil {
		t.Fatalf("MarkDayDone failed: %v", err)
	}
	if next.Streak != 1 || entry.StreakAtLogging != 1 {
		t.Errorf("Streak = %d / %d, want 1", next.Streak, entry.StreakAtLogging)
	}
	if entry.Kind != models.EntryDayCompletion || len(entry.Tasks) != 1 || len(next.Tasks) != 0 {
		t.Errorf("unexpected result: entry=%+v tasks=%d", entry, len(next.Tasks))
	}

	// A quick completion on the same day must not advance again.
	next, _, _ = utc.QuickShare(next, day(0).Add(time.Hour), QuickShareInput{Content: "more", IsDayCompletion: true})
	if next.Streak != 1 {
		t.Errorf("Streak = %d after same-day completion, want 1", next.Streak)
	}

	if _, _, err := utc.MarkDayDone(next, day(1), DayLogInput{}); !errors.Is(err, ErrEmptyStudyLog) {
		t.Errorf("error = %v, want %v", err, ErrEmptyStudyLog)
	}
}

func TestSetManualStreak(t *testing.T) {
	state := models.DefaultAppState()
	state.LastCompletedDate = models.NewDay(2026, time.October, 1)

	next, err := SetManualStreak(state, 42)
	if err != nil {
		t.Fatalf("SetManualStreak failed: %v", err)
	}
	if next.Streak != 42 {
		t.Errorf("Streak = %d, want 42", next.Streak)
	}
	if next.LastCompletedDate != state.LastCompletedDate {
		t.Error("manual override must not alter LastCompletedDate")
	}

	if _, err := SetManualStreak(state, -1); !errors.Is(err, ErrNegativeStreak) {
		t.Errorf("error = %v, want %v", err, ErrNegativeStreak)
	}
	if next, _ := SetManualStreak(state, 0); next.Streak != 0 {
		t.Errorf("Streak = %d, want 0", next.Streak)
	}
}

func TestAdvanced(t *testing.T) {
	before := models.DefaultAppState()
	after, _, _ := utc.QuickShare(before, day(0), QuickShareInput{Content: "x", IsDayCompletion: true})
	if !Advanced(before, after) {
		t.Error("Advanced() = false after a completion")
	}
	again, _, _ := utc.QuickShare(after, day(0), QuickShareInput{Content: "y", IsDayCompletion: true})
	if Advanced(after, again) {
		t.Error("Advanced() = true for a same-day completion")
	}
}

func TestEntryDateSurvivesStorage(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, time.October, 16, 11, 45, 3, 123456789, zone)

	_, entry, err := New(zone).QuickShare(models.DefaultAppState(), now, QuickShareInput{Content: "proofs"})
	if err != nil {
		t.Fatalf("QuickShare failed: %v", err)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded models.LogEntry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Date != entry.Date {
		t.Errorf("reloaded date = %v, want %v", decoded.Date, entry.Date)
	}
	if !entry.Date.Equal(now.Truncate(time.Millisecond)) {
		t.Errorf("entry date = %v, want %v", entry.Date, now)
	}
}
