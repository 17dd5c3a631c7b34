package streak

import (
	"fmt"

	"github.com/julianstephens/studystreak/internal/models"
)

// Status is the advisory health of a streak relative to today.
type Status string

const (
	StatusNoEntries Status = "no-entries"
	StatusCurrent   Status = "current"
	StatusAtRisk    Status = "at-risk"
	StatusLapsed    Status = "lapsed"
)

// Lapse is the result of LapseStatus. It is purely informational: the
// engine never resets the counter on its own.
type Lapse struct {
	Lapsed    bool
	DaysSince int
}

// Warning returns the message shown to the user when the streak has lapsed.
func (l Lapse) Warning() string {
	if !l.Lapsed {
		return ""
	}
	return fmt.Sprintf("It's been %d days since your last completed day. Complete today's entry to avoid breaking your streak!", l.DaysSince)
}

// LapseStatus is current when last is unset, today or yesterday, and lapsed
// with the whole-day gap otherwise.
func LapseStatus(last, today models.Day) Lapse {
	if last.IsZero() {
		return Lapse{}
	}
	days := today.Sub(last)
	if days <= 1 {
		return Lapse{}
	}
	return Lapse{Lapsed: true, DaysSince: days}
}

// StatusOf derives the streak status for today.
func StatusOf(state models.AppState, today models.Day) Status {
	last := state.LastCompletedDate
	if last.IsZero() {
		if len(state.Logs) == 0 {
			return StatusNoEntries
		}
		return StatusAtRisk
	}
	switch days := today.Sub(last); {
	case days <= 0:
		return StatusCurrent
	case days == 1:
		return StatusAtRisk
	default:
		return StatusLapsed
	}
}
