// Package streak owns the streak counter and the rules for creating log
// entries. Every function is pure: it takes the current AppState and
// returns the next one without touching storage.
package streak

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/studystreak/internal/logstore"
	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/tasklist"
)

var (
	ErrEmptyDayPlan   = errors.New("day plan cannot be empty")
	ErrEmptyContent   = errors.New("share content cannot be empty")
	ErrEmptyStudyLog  = errors.New("study log cannot be empty")
	ErrInvalidHours   = errors.New("study hours must be a finite non-negative number")
	ErrNegativeStreak = errors.New("streak cannot be negative")
)

// Engine applies streak rules in a fixed time zone. The zone decides which
// calendar day an instant belongs to.
type Engine struct {
	Location *time.Location
}

// New returns an Engine for loc; nil means the system zone.
func New(loc *time.Location) Engine {
	if loc == nil {
		loc = time.Local
	}
	return Engine{Location: loc}
}

// Today returns the calendar day of now in the engine's zone.
func (e Engine) Today(now time.Time) models.Day {
	return models.DayIn(now, e.Location)
}

// QuickShareInput is the payload of the lightweight share path.
type QuickShareInput struct {
	Content         string
	Hours           *float64
	IsDayCompletion bool
}

// DayLogInput is the payload of the full day-completion path.
type DayLogInput struct {
	StudyLog string
	DayPlan  string
	Hours    *float64
}

// CompleteDay records today's plan together with a snapshot of the task
// list, then clears the list for tomorrow. It never changes the streak.
func (e Engine) CompleteDay(state models.AppState, now time.Time, dayPlan string) (models.AppState, models.LogEntry, error) {
	dayPlan = strings.TrimSpace(dayPlan)
	if dayPlan == "" {
		return state, models.LogEntry{}, ErrEmptyDayPlan
	}

	next := state.Clone()
	snapshot, remaining := tasklist.DrainForCompletion(next.Tasks)
	entry := models.LogEntry{
		Date:            models.EntryTime(now),
		Kind:            models.EntryDayPlan,
		DayPlan:         dayPlan,
		Tasks:           snapshot,
		StreakAtLogging: next.Streak,
	}
	return e.commit(state, next, remaining, entry)
}

// QuickShare records a short update. When IsDayCompletion is set the streak
// advances, at most once per calendar day.
func (e Engine) QuickShare(state models.AppState, now time.Time, in QuickShareInput) (models.AppState, models.LogEntry, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return state, models.LogEntry{}, ErrEmptyContent
	}
	if err := validateHours(in.Hours); err != nil {
		return state, models.LogEntry{}, err
	}

	next := state.Clone()
	kind := models.EntryQuickShare
	if in.IsDayCompletion {
		kind = models.EntryQuickCompletion
		e.advance(&next.StreakState, e.Today(now))
	}
	entry := models.LogEntry{
		Date:            models.EntryTime(now),
		Kind:            kind,
		StudyLog:        content,
		StudyHours:      copyHours(in.Hours),
		Tasks:           []models.Task{},
		StreakAtLogging: next.Streak,
	}
	return e.commit(state, next, next.Tasks, entry)
}

// MarkDayDone records a full study log that completes the day. The task
// list is captured into the entry and cleared, and the streak advances at
// most once per calendar day.
func (e Engine) MarkDayDone(state models.AppState, now time.Time, in DayLogInput) (models.AppState, models.LogEntry, error) {
	studyLog := strings.TrimSpace(in.StudyLog)
	if studyLog == "" {
		return state, models.LogEntry{}, ErrEmptyStudyLog
	}
	if err := validateHours(in.Hours); err != nil {
		return state, models.LogEntry{}, err
	}

	next := state.Clone()
	e.advance(&next.StreakState, e.Today(now))
	snapshot, remaining := tasklist.DrainForCompletion(next.Tasks)
	entry := models.LogEntry{
		Date:            models.EntryTime(now),
		Kind:            models.EntryDayCompletion,
		StudyLog:        studyLog,
		DayPlan:         strings.TrimSpace(in.DayPlan),
		StudyHours:      copyHours(in.Hours),
		Tasks:           snapshot,
		StreakAtLogging: next.Streak,
	}
	return e.commit(state, next, remaining, entry)
}

// SetManualStreak overrides the counter. LastCompletedDate is left alone.
// Callers are responsible for authenticating the request.
func SetManualStreak(state models.AppState, value int) (models.AppState, error) {
	if value < 0 {
		return state, ErrNegativeStreak
	}
	next := state.Clone()
	next.Streak = value
	return next, nil
}

// Advanced reports whether moving from before to after incremented the streak.
func Advanced(before, after models.AppState) bool {
	return after.Streak > before.Streak && after.LastCompletedDate != before.LastCompletedDate
}

func (e Engine) advance(s *models.StreakState, today models.Day) bool {
	if !s.LastCompletedDate.IsZero() && !today.After(s.LastCompletedDate) {
		return false
	}
	s.Streak++
	s.LastCompletedDate = today
	return true
}

func (e Engine) commit(orig, next models.AppState, tasks []models.Task, entry models.LogEntry) (models.AppState, models.LogEntry, error) {
	logs, err := logstore.Append(next.Logs, entry)
	if err != nil {
		return orig, models.LogEntry{}, fmt.Errorf("appending log entry: %w", err)
	}
	next.Logs = logs
	next.Tasks = tasks
	return next, entry, nil
}

func validateHours(h *float64) error {
	if h == nil {
		return nil
	}
	if math.IsNaN(*h) || math.IsInf(*h, 0) || *h < 0 {
		return ErrInvalidHours
	}
	return nil
}

func copyHours(h *float64) *float64 {
	if h == nil {
		return nil
	}
	v := *h
	return &v
}
