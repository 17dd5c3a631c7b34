package render

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/stats"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		pct, width     int
		filled, suffix string
	}{
		{0, 10, "", " 0%"},
		{50, 10, strings.Repeat(BarCell, 5), " 50%"},
		{100, 10, strings.Repeat(BarCell, 10), " 100%"},
		{43, 20, strings.Repeat(BarCell, 8), " 43%"},
	}
	for _, tt := range tests {
		got := ProgressBar(tt.pct, tt.width)
		if strings.Count(got, BarCell) != len([]rune(tt.filled)) {
			t.Errorf("ProgressBar(%d, %d) = %q, want %d filled cells", tt.pct, tt.width, got, len([]rune(tt.filled)))
		}
		if strings.Count(got, EmptyCell) != tt.width-len([]rune(tt.filled)) {
			t.Errorf("ProgressBar(%d, %d) = %q, wrong empty cells", tt.pct, tt.width, got)
		}
		if !strings.HasSuffix(got, tt.suffix) {
			t.Errorf("ProgressBar(%d, %d) = %q, want suffix %q", tt.pct, tt.width, got, tt.suffix)
		}
	}
}

func TestHeatmap(t *testing.T) {
	// Thursday: the grid starts on the Monday before the window.
	today := models.NewDay(2026, time.October, 15)
	hm := stats.New(nil, time.UTC, time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)).ActivityHeatmap(today, 14)

	out := Heatmap(hm)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("heatmap has %d lines, want 7 weekdays and a legend:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Mon") || !strings.HasPrefix(lines[6], "Sun") {
		t.Errorf("rows should run Monday to Sunday:\n%s", out)
	}
	if got, want := strings.Count(out, HeatCell), len(hm.Cells)+stats.MaxLevel+1; got != want {
		t.Errorf("heatmap draws %d cells, want %d", got, want)
	}
}

func TestHoursChart(t *testing.T) {
	days := []stats.DayTotal{
		{Day: models.NewDay(2026, time.October, 14), Hours: 2},
		{Day: models.NewDay(2026, time.October, 15), Hours: 4},
		{Day: models.NewDay(2026, time.October, 16), Hours: 0},
	}
	lines := strings.Split(strings.TrimSuffix(HoursChart(days, 10), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	for i, want := range []int{5, 10, 0} {
		if got := strings.Count(lines[i], BarCell); got != want {
			t.Errorf("line %d has %d bar cells, want %d: %q", i, got, want, lines[i])
		}
	}
	if !strings.HasPrefix(lines[0], "Oct 14") {
		t.Errorf("line should start with the day: %q", lines[0])
	}
}
