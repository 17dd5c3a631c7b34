package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EntryKind discriminates the ways a log entry can be created.
type EntryKind string

const (
	// EntryDayPlan records a day plan and the task snapshot; never counts toward the streak.
	EntryDayPlan EntryKind = "day_plan"
	// EntryQuickShare is a lightweight update with optional hours.
	EntryQuickShare EntryKind = "quick_share"
	// EntryQuickCompletion is a quick share that also completed the day.
	EntryQuickCompletion EntryKind = "quick_completion"
	// EntryDayCompletion is a full study log that completed the day.
	EntryDayCompletion EntryKind = "day_completion"
)

// KindFromFlags maps the persisted boolean pair onto an EntryKind.
func KindFromFlags(isQuickShare, isDayCompletion bool) EntryKind {
	switch {
	case isQuickShare && isDayCompletion:
		return EntryQuickCompletion
	case isQuickShare:
		return EntryQuickShare
	case isDayCompletion:
		return EntryDayCompletion
	default:
		return EntryDayPlan
	}
}

func (k EntryKind) IsQuickShare() bool {
	return k == EntryQuickShare || k == EntryQuickCompletion
}

func (k EntryKind) IsDayCompletion() bool {
	return k == EntryDayCompletion || k == EntryQuickCompletion
}

// Label is the short human name used in feeds and exports.
func (k EntryKind) Label() string {
	switch k {
	case EntryQuickShare:
		return "Quick Share"
	case EntryQuickCompletion:
		return "Quick Share (day complete)"
	case EntryDayCompletion:
		return "Day Complete"
	default:
		return "Day Plan"
	}
}

// isoLayout matches JavaScript's Date.toISOString output.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// EntryTime normalises an instant to what a stored entry can hold: UTC at
// millisecond precision.
func EntryTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// LogEntry is an immutable record in the study log.
type LogEntry struct {
	Date            time.Time
	Kind            EntryKind
	StudyLog        string
	StudyHours      *float64 // nil: no hours recorded (plan-only)
	DayPlan         string
	Tasks           []Task
	StreakAtLogging int

	// rawDate keeps an unparseable stored date so it survives a rewrite.
	rawDate string
}

// Hours returns the recorded study hours, treating absent as zero.
func (e LogEntry) Hours() float64 {
	if e.StudyHours == nil {
		return 0
	}
	return *e.StudyHours
}

func (e LogEntry) HasHours() bool {
	return e.StudyHours != nil
}

// DateValid reports whether the stored date could be parsed.
func (e LogEntry) DateValid() bool {
	return !e.Date.IsZero()
}

// RawDate returns the date exactly as it was stored when it could not be parsed.
func (e LogEntry) RawDate() string {
	return e.rawDate
}

// WithRawDate returns a copy of e carrying an unparsed stored date.
func (e LogEntry) WithRawDate(raw string) LogEntry {
	e.Date = time.Time{}
	e.rawDate = raw
	return e
}

// HasDate reports whether the entry carries any date at all.
func (e LogEntry) HasDate() bool {
	return e.DateValid() || strings.TrimSpace(e.rawDate) != ""
}

// EffectiveTime is the instant used for ordering and aggregation.
// Entries with unparseable dates are treated as happening now.
func (e LogEntry) EffectiveTime(now time.Time) time.Time {
	if e.DateValid() {
		return e.Date
	}
	return now
}

func (e LogEntry) IsQuickShare() bool    { return e.Kind.IsQuickShare() }
func (e LogEntry) IsDayCompletion() bool { return e.Kind.IsDayCompletion() }

// Clone returns a copy that shares no mutable memory with e.
func (e LogEntry) Clone() LogEntry {
	out := e
	out.Tasks = CloneTasks(e.Tasks)
	if e.StudyHours != nil {
		h := *e.StudyHours
		out.StudyHours = &h
	}
	return out
}

// HoursPtr is a convenience for building entries with recorded hours.
func HoursPtr(h float64) *float64 {
	return &h
}

type logEntryJSON struct {
	Date            string   `json:"date"`
	StudyLog        string   `json:"studyLog"`
	StudyHours      *float64 `json:"studyHours,omitempty"`
	DayPlan         string   `json:"dayPlan"`
	Tasks           []Task   `json:"tasks"`
	Streak          int      `json:"streak"`
	IsQuickShare    bool     `json:"isQuickShare"`
	IsDayCompletion bool     `json:"isDayCompletion"`
}

func (e LogEntry) MarshalJSON() ([]byte, error) {
	date := e.rawDate
	if e.DateValid() {
		date = e.Date.UTC().Format(isoLayout)
	}
	kind := e.Kind
	if kind == "" {
		kind = EntryDayPlan
	}
	return json.Marshal(logEntryJSON{
		Date:            date,
		StudyLog:        e.StudyLog,
		StudyHours:      e.StudyHours,
		DayPlan:         e.DayPlan,
		Tasks:           CloneTasks(e.Tasks),
		Streak:          e.StreakAtLogging,
		IsQuickShare:    kind.IsQuickShare(),
		IsDayCompletion: kind.IsDayCompletion(),
	})
}

func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var raw logEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding log entry: %w", err)
	}
	*e = LogEntry{
		Kind:            KindFromFlags(raw.IsQuickShare, raw.IsDayCompletion),
		StudyLog:        raw.StudyLog,
		StudyHours:      raw.StudyHours,
		DayPlan:         raw.DayPlan,
		Tasks:           CloneTasks(raw.Tasks),
		StreakAtLogging: raw.Streak,
	}
	if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw.Date)); err == nil {
		e.Date = t
	} else {
		e.rawDate = raw.Date
	}
	return nil
}
