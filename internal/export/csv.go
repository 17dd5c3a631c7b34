package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/utils"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"Date", "Streak", "Hours", "Study Log", "Day Plan", "Tasks", "Type"}

// CSV writes one row per log entry. Zero streaks and zero or absent hours
// are left blank.
func CSV(w io.Writer, state models.AppState, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, e := range state.Logs {
		if err := cw.Write(csvRow(e, opts)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(e models.LogEntry, opts Options) []string {
	streak := ""
	if e.StreakAtLogging != 0 {
		streak = strconv.Itoa(e.StreakAtLogging)
	}
	hours := ""
	if e.Hours() != 0 {
		hours = utils.FormatHours(e.Hours())
	}
	texts := make([]string, len(e.Tasks))
	for i, t := range e.Tasks {
		texts[i] = t.Text
	}
	kind := "FullLog"
	if e.IsQuickShare() {
		kind = "QuickShare"
	}
	return []string{
		opts.displayDate(e),
		streak,
		hours,
		e.StudyLog,
		e.DayPlan,
		strings.Join(texts, ", "),
		kind,
	}
}
