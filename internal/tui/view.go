package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/render"
	"github.com/julianstephens/studystreak/internal/utils"
)

var tabTitles = []string{"Today", "Feed", "Stats"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateFeed:
		content = docStyle.Render(m.feedModel.View())
	case StateStats:
		content = m.viewStats()
	case StateForm:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStatus(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == StateForm {
		active = m.previousState
	}
	tabs := make([]string, 0, len(tabTitles))
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// viewStatus is the single line under the tabs: errors first, then
// celebrations, then the lapse warning.
func (m Model) viewStatus() string {
	switch {
	case m.err != nil:
		return dangerStyle.Render("✗ " + m.err.Error())
	case m.toast != "":
		return toastStyle.Render(m.toast)
	case !m.loaded:
		return labelStyle.Render("Loading...")
	}
	if w := m.result.Warning(); w != "" {
		return warningStyle.Render("⚠ " + w)
	}
	s := m.result.Summary
	return headerStyle.Render(fmt.Sprintf("🔥 %d day streak", s.Streak)) +
		labelStyle.Render(fmt.Sprintf("  %s", s.Status))
}

func (m Model) viewToday() string {
	tasks := m.result.State.Tasks
	header := headerStyle.Render(fmt.Sprintf("%d/%d tasks done", models.CompletedCount(tasks), len(tasks)))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.taskList.View()))
}

func (m Model) viewStats() string {
	s := m.result.Summary
	last := "never"
	if !s.LastCompletedDate.IsZero() {
		last = s.LastCompletedDate.String()
	}

	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", label)), value)
	}
	row("Current streak", fmt.Sprintf("%d days", s.Streak))
	row("Last completed", last)
	row("Days logged", fmt.Sprint(s.TotalDays))
	row("Total hours", utils.FormatHours(s.TotalHours))
	row("Avg hours/day", utils.FormatHours(s.AverageHours))
	row("Tasks completed", fmt.Sprint(s.CompletedTasks))
	row("This week", render.ProgressBar(s.WeeklyCompletionRate, 20))
	row("Challenge", render.ProgressBar(s.ChallengeProgress, 20))
	b.WriteString("\n")
	b.WriteString(render.HoursChart(s.RecentHours, 30))
	b.WriteString("\n")
	b.WriteString(render.Heatmap(s.Heatmap))

	return docStyle.Render(b.String())
}
