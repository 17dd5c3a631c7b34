package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/utils"
)

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)
)

type Model struct {
	viewport viewport.Model
	entries  []models.LogEntry
	loc      *time.Location
	width    int
	height   int
}

func New(loc *time.Location, width, height int) Model {
	if loc == nil {
		loc = time.Local
	}
	return Model{
		viewport: viewport.New(width, height),
		loc:      loc,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.entries) == 0 {
		return "No entries yet. Press 's' to share what you studied."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetEntries replaces the feed. entries are expected newest first.
func (m *Model) SetEntries(entries []models.LogEntry) {
	m.entries = entries
	m.Render()
}

func (m *Model) Render() {
	var b strings.Builder
	for _, e := range m.entries {
		date := e.RawDate()
		if e.DateValid() {
			date = models.DayIn(e.Date, m.loc).String()
		}

		meta := fmt.Sprintf("streak %d", e.StreakAtLogging)
		if e.HasHours() {
			meta += " | " + utils.FormatHours(e.Hours()) + "h"
		}
		if n := len(e.Tasks); n > 0 {
			meta += fmt.Sprintf(" | %d/%d tasks", models.CompletedCount(e.Tasks), n)
		}

		fmt.Fprintf(&b, "%s %s %s\n",
			dateStyle.Render(date),
			kindStyle.Render(e.Kind.Label()),
			metaStyle.Render(meta),
		)
		for _, text := range []string{e.StudyLog, e.DayPlan} {
			if strings.TrimSpace(text) != "" {
				b.WriteString(bodyStyle.Render(text) + "\n")
			}
		}
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}
