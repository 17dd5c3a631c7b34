package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/utils"
)

// Markdown writes a readable journal of the log, newest entry first.
func Markdown(w io.Writer, state models.AppState, opts Options) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "# Study Streak Data\n\n")
	fmt.Fprintf(bw, "Current Streak: **%d** days\n\n", state.Streak)
	fmt.Fprint(bw, "## Log Entries\n\n")

	for _, e := range state.Logs {
		date := opts.displayDate(e)
		if e.IsQuickShare() {
			fmt.Fprintf(bw, "### %s (Quick Share)\n\n", date)
			fmt.Fprintf(bw, "%s\n\n", e.StudyLog)
		} else {
			fmt.Fprintf(bw, "### %s (Day %d)\n\n", date, e.StreakAtLogging)
			if e.HasHours() {
				fmt.Fprintf(bw, "**Hours Studied:** %s\n\n", utils.FormatHours(e.Hours()))
			}
			if e.StudyLog != "" {
				fmt.Fprintf(bw, "**Study Log:**\n%s\n\n", e.StudyLog)
			}
			if e.DayPlan != "" {
				fmt.Fprintf(bw, "**Day Plan:**\n%s\n\n", e.DayPlan)
			}
			if len(e.Tasks) > 0 {
				fmt.Fprint(bw, "**Tasks:**\n")
				for _, t := range e.Tasks {
					mark := " "
					if t.Completed {
						mark = "x"
					}
					fmt.Fprintf(bw, "- [%s] %s\n", mark, t.Text)
				}
				fmt.Fprint(bw, "\n")
			}
		}
		fmt.Fprint(bw, "---\n\n")
	}
	return bw.Flush()
}
