package tasklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studystreak/internal/models"
)

type AddTaskMsg struct{}

type ToggleTaskMsg struct {
	ID models.TaskID
}

type DeleteTaskMsg struct {
	ID models.TaskID
}

type Item struct {
	Task  models.Task
	Index int
}

func (i Item) Title() string {
	if i.Task.Completed {
		return "[x] " + i.Task.Text
	}
	return "[ ] " + i.Task.Text
}
func (i Item) Description() string { return fmt.Sprintf("#%d", i.Index) }
func (i Item) FilterValue() string { return i.Task.Text }

type KeyMap struct {
	Add    key.Binding
	Toggle key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x/space", "toggle"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(tasks []models.Task, width, height int) Model {
	l := list.New(items(tasks), list.NewDefaultDelegate(), width, height)
	l.Title = "Today's tasks"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func items(tasks []models.Task) []list.Item {
	out := make([]list.Item, len(tasks))
	for i, t := range tasks {
		out[i] = Item{Task: t, Index: i + 1}
	}
	return out
}

func (m *Model) SetTasks(tasks []models.Task) {
	m.list.SetItems(items(tasks))
}

// Len returns the number of tasks shown.
func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Selected() (models.Task, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Task, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddTaskMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if t, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleTaskMsg{ID: t.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if t, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteTaskMsg{ID: t.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No tasks yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
