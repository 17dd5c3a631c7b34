package stats

import (
	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/streak"
)

// Options tunes the windows used by Summarize. Zero values fall back to
// the defaults in constants.
type Options struct {
	HeatmapWindowDays int
	RecentDays        int
	ChallengeGoal     int
}

// Summary bundles every derived view shown after a mutation.
type Summary struct {
	Streak               int
	LastCompletedDate    models.Day
	Status               streak.Status
	Lapse                streak.Lapse
	TotalDays            int
	TotalHours           float64
	AverageHours         float64
	CompletedTasks       int
	WeeklyCompletionRate int
	ChallengeProgress    int
	RecentHours          []DayTotal
	Heatmap              Heatmap
}

// Summarize computes the full Summary for state as of today.
func (a *Aggregator) Summarize(state models.AppState, today models.Day, opts Options) Summary {
	recent := opts.RecentDays
	if recent <= 0 {
		recent = constants.RecentHoursDays
	}
	return Summary{
		Streak:               state.Streak,
		LastCompletedDate:    state.LastCompletedDate,
		Status:               streak.StatusOf(state, today),
		Lapse:                streak.LapseStatus(state.LastCompletedDate, today),
		TotalDays:            a.TotalDistinctDays(),
		TotalHours:           a.TotalHours(),
		AverageHours:         a.AverageHoursPerLoggedDay(),
		CompletedTasks:       a.CompletedTaskCount(),
		WeeklyCompletionRate: a.WeeklyCompletionRate(today),
		ChallengeProgress:    ChallengeProgress(state.Streak, opts.ChallengeGoal),
		RecentHours:          a.RecentHours(today, recent),
		Heatmap:              a.ActivityHeatmap(today, opts.HeatmapWindowDays),
	}
}
