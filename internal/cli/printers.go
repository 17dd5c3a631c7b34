package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/utils"
)

// NewTable returns a wrapped table sized for terminal output.
func NewTable(header ...any) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true
	if len(header) > 0 {
		table.AddRow(header...)
	}
	return table
}

// TaskTable lists tasks with their 1-based position and short id.
func TaskTable(tasks []models.Task) *uitable.Table {
	table := NewTable("#", "ID", "DONE", "TASK")
	for i, t := range tasks {
		done := " "
		if t.Completed {
			done = "✓"
		}
		table.AddRow(i+1, ShortID(t.ID), done, t.Text)
	}
	return table
}

// ShortID trims a uuid to its first block.
func ShortID(id models.TaskID) string {
	s := string(id)
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}

// EntryDate renders an entry's calendar day in loc, or the raw stored
// value when it could not be parsed.
func EntryDate(e models.LogEntry, loc *time.Location) string {
	if !e.DateValid() {
		return e.RawDate()
	}
	return models.DayIn(e.Date, loc).String()
}

// FeedTable lists log entries, one row each.
func FeedTable(entries []models.LogEntry, loc *time.Location) *uitable.Table {
	table := NewTable("DATE", "TYPE", "STREAK", "HOURS", "ENTRY")
	for _, e := range entries {
		hours := "-"
		if e.HasHours() {
			hours = utils.FormatHours(e.Hours())
		}
		text := e.StudyLog
		if text == "" {
			text = e.DayPlan
		}
		if n := len(e.Tasks); n > 0 {
			text = fmt.Sprintf("%s (%d/%d tasks)", text, models.CompletedCount(e.Tasks), n)
		}
		table.AddRow(EntryDate(e, loc), e.Kind.Label(), e.StreakAtLogging, hours, text)
	}
	return table
}

// FeedMarkdown renders entries as a markdown journal for glamour.
func FeedMarkdown(entries []models.LogEntry, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("# Study feed\n\n")
	if len(entries) == 0 {
		b.WriteString("_No entries in this range._\n")
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "## %s · %s\n\n", EntryDate(e, loc), e.Kind.Label())
		if e.StreakAtLogging > 0 {
			fmt.Fprintf(&b, "**Day %d**", e.StreakAtLogging)
			if e.HasHours() {
				fmt.Fprintf(&b, " · %s h", utils.FormatHours(e.Hours()))
			}
			b.WriteString("\n\n")
		}
		if e.StudyLog != "" {
			b.WriteString(e.StudyLog + "\n\n")
		}
		if e.DayPlan != "" {
			b.WriteString("> " + strings.ReplaceAll(e.DayPlan, "\n", "\n> ") + "\n\n")
		}
		for _, t := range e.Tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, t.Text)
		}
		if len(e.Tasks) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderMarkdown styles md for the terminal, falling back to the source
// when rendering fails.
func RenderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
