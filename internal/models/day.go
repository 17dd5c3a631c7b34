package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/studystreak/internal/logger"
)

// dayLayouts are the layouts accepted when reading a stored calendar date.
// Besides YYYY-MM-DD the browser build wrote full ISO instants and
// Date.toDateString() values, so those are tolerated too.
var dayLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"Mon Jan 02 2006",
	"1/2/2006",
}

// Day is a calendar date with no time-of-day or zone attached.
// The zero value is "no day".
type Day struct {
	year  int
	month time.Month
	day   int
}

// NewDay returns the normalized calendar date for y-m-d.
func NewDay(y int, m time.Month, d int) Day {
	return DayFromTime(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// DayFromTime returns the calendar date of t in t's own location.
func DayFromTime(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// DayIn returns the calendar date of the instant t as seen in loc.
func DayIn(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	return DayFromTime(t.In(loc))
}

// ParseDay parses a stored calendar date.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Day{}, fmt.Errorf("empty date")
	}
	for _, layout := range dayLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return DayFromTime(t), nil
		}
	}
	return Day{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
}

func (d Day) IsZero() bool { return d == Day{} }

func (d Day) Year() int             { return d.year }
func (d Day) Month() time.Month     { return d.month }
func (d Day) DayOfMonth() int       { return d.day }
func (d Day) Weekday() time.Weekday { return d.utc().Weekday() }

func (d Day) utc() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Start returns midnight of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// End returns the last representable instant of d in loc.
func (d Day) End(loc *time.Location) time.Time {
	return d.AddDays(1).Start(loc).Add(-time.Nanosecond)
}

func (d Day) AddDays(n int) Day {
	return DayFromTime(d.utc().AddDate(0, 0, n))
}

// Sub returns the number of whole days from other to d.
func (d Day) Sub(other Day) int {
	return int(d.utc().Sub(other.utc()).Hours() / 24)
}

func (d Day) Before(other Day) bool { return d.utc().Before(other.utc()) }
func (d Day) After(other Day) bool  { return d.utc().After(other.utc()) }

// MondayOnOrBefore returns the Monday of the week containing d.
func (d Day) MondayOnOrBefore() Day {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.utc().Format("2006-01-02")
}

func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Day{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		// An unreadable date reads as never, so the rest of the snapshot survives.
		logger.Warn("Ignoring unparseable date", "value", s, "error", err)
		*d = Day{}
		return nil
	}
	*d = parsed
	return nil
}
