package stats

import (
	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/models"
)

// MaxLevel is the highest heatmap intensity.
const MaxLevel = 5

// Level buckets a day's totals into 0..5. A day with entries but no hours
// is level 1 so that plan-only days still show on the calendar.
func Level(hours float64, entries int) int {
	switch {
	case entries == 0:
		return 0
	case hours <= 0:
		return 1
	case hours < 2:
		return 2
	case hours < 4:
		return 3
	case hours < 6:
		return 4
	default:
		return MaxLevel
	}
}

// Cell is one calendar day of the heatmap.
type Cell struct {
	DayTotal
	Level int
}

// Heatmap is a contiguous run of days starting on a Monday and ending today.
type Heatmap struct {
	Start models.Day
	End   models.Day
	Cells []Cell
}

// ActivityHeatmap aggregates the windowDays days before today, widened
// back to the preceding Monday so the grid has whole weeks on the left.
func (a *Aggregator) ActivityHeatmap(today models.Day, windowDays int) Heatmap {
	if windowDays <= 0 {
		windowDays = constants.DefaultHeatmapWindowDays
	}
	start := today.AddDays(-windowDays).MondayOnOrBefore()
	totals := a.bucket(start, today)

	hm := Heatmap{Start: start, End: today, Cells: make([]Cell, 0, today.Sub(start)+1)}
	for d := start; !d.After(today); d = d.AddDays(1) {
		t := totals[d].withDay(d)
		hm.Cells = append(hm.Cells, Cell{DayTotal: t, Level: Level(t.Hours, t.Entries)})
	}
	return hm
}

// Cell returns the cell for d, if it lies inside the heatmap.
func (h Heatmap) Cell(d models.Day) (Cell, bool) {
	if d.Before(h.Start) || d.After(h.End) {
		return Cell{}, false
	}
	return h.Cells[d.Sub(h.Start)], true
}

// Weeks splits the cells into columns of seven, Monday first. The last
// column may be short.
func (h Heatmap) Weeks() [][]Cell {
	var weeks [][]Cell
	for i := 0; i < len(h.Cells); i += 7 {
		end := min(i+7, len(h.Cells))
		weeks = append(weeks, h.Cells[i:end])
	}
	return weeks
}
