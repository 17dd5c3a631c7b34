// Package stats derives read-only aggregates from the study log.
package stats

import (
	"iter"
	"math"
	"time"

	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/logstore"
	"github.com/julianstephens/studystreak/internal/models"
)

// Aggregator computes statistics over a fixed snapshot of log entries.
// Entries are bucketed by their calendar day in Location; entries with an
// unparseable date count as Now.
type Aggregator struct {
	logs     []models.LogEntry
	Location *time.Location
	Now      time.Time
}

// New returns an Aggregator over logs. A nil loc means the system zone.
func New(logs []models.LogEntry, loc *time.Location, now time.Time) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{logs: logs, Location: loc, Now: now}
}

func (a *Aggregator) dayOf(e models.LogEntry) models.Day {
	return models.DayIn(e.EffectiveTime(a.Now), a.Location)
}

// TotalDistinctDays counts the calendar days with at least one entry.
func (a *Aggregator) TotalDistinctDays() int {
	seen := make(map[models.Day]struct{})
	for e := range logstore.All(a.logs, a.Now) {
		seen[a.dayOf(e)] = struct{}{}
	}
	return len(seen)
}

// TotalHours sums StudyHours across all entries; absent hours count as 0.
func (a *Aggregator) TotalHours() float64 {
	var total float64
	for e := range logstore.All(a.logs, a.Now) {
		total += e.Hours()
	}
	return total
}

// AverageHoursPerLoggedDay divides TotalHours by the number of entries
// that logged a positive number of hours.
func (a *Aggregator) AverageHoursPerLoggedDay() float64 {
	var total float64
	var n int
	for e := range logstore.All(a.logs, a.Now) {
		if h := e.Hours(); h > 0 {
			total += h
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// CompletedTaskCount counts completed tasks across every entry's snapshot.
func (a *Aggregator) CompletedTaskCount() int {
	var n int
	for e := range logstore.All(a.logs, a.Now) {
		n += models.CompletedCount(e.Tasks)
	}
	return n
}

// WeeklyCompletionRate is the share of the seven days ending today that
// have at least one entry, as a rounded percentage.
func (a *Aggregator) WeeklyCompletionRate(today models.Day) int {
	window := constants.WeeklyWindowDays
	start := today.AddDays(-(window - 1))
	seen := make(map[models.Day]struct{})
	for e := range a.window(start, today) {
		seen[a.dayOf(e)] = struct{}{}
	}
	return percent(len(seen), window)
}

// RecentHours returns the hour total of each of the last days days, oldest
// first and ending today.
func (a *Aggregator) RecentHours(today models.Day, days int) []DayTotal {
	if days <= 0 {
		return nil
	}
	start := today.AddDays(-(days - 1))
	totals := a.bucket(start, today)
	out := make([]DayTotal, 0, days)
	for d := start; !d.After(today); d = d.AddDays(1) {
		out = append(out, totals[d].withDay(d))
	}
	return out
}

// ChallengeProgress is the streak as a rounded percentage of goal, capped at 100.
func ChallengeProgress(streak, goal int) int {
	if goal <= 0 {
		goal = constants.DefaultChallengeGoal
	}
	if streak < 0 {
		streak = 0
	}
	return percent(streak, goal)
}

// DayTotal aggregates the entries of a single calendar day.
type DayTotal struct {
	Day     models.Day
	Hours   float64
	Entries int
}

func (t DayTotal) withDay(d models.Day) DayTotal {
	t.Day = d
	return t
}

// window yields the entries whose local day falls in [start, end].
func (a *Aggregator) window(start, end models.Day) iter.Seq[models.LogEntry] {
	return logstore.WithinWindow(a.logs, start.Start(a.Location), end.End(a.Location), a.Now)
}

func (a *Aggregator) bucket(start, end models.Day) map[models.Day]DayTotal {
	totals := make(map[models.Day]DayTotal)
	for e := range a.window(start, end) {
		d := a.dayOf(e)
		t := totals[d]
		t.Hours += e.Hours()
		t.Entries++
		totals[d] = t
	}
	return totals
}

func percent(n, of int) int {
	if of <= 0 {
		return 0
	}
	p := int(math.Round(float64(n) / float64(of) * 100))
	return max(0, min(p, 100))
}
