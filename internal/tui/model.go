package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/tracker"
	"github.com/julianstephens/studystreak/internal/tui/components/feed"
	"github.com/julianstephens/studystreak/internal/tui/components/tasklist"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateFeed
	StateStats
	StateForm
)

// tabCount is the number of states reachable with tab.
const tabCount = 3

const toastDuration = 4 * time.Second

type FormKind int

const (
	FormAddTask FormKind = iota
	FormPlan
	FormShare
	FormDone
)

type EntryFormModel struct {
	Text     string
	Plan     string
	Hours    string
	Complete bool
}

// resultMsg carries the outcome of a tracker call back into Update.
type resultMsg struct {
	result tracker.Result
	feed   []models.LogEntry
	err    error
}

type clearToastMsg struct{}

type Model struct {
	svc           *tracker.Service
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	taskList      tasklist.Model
	feedModel     feed.Model
	result        tracker.Result
	loaded        bool
	form          *huh.Form
	formKind      FormKind
	entryForm     *EntryFormModel
	toast         string
	err           error
	quitting      bool
	width         int
	height        int
}

func NewModel(svc *tracker.Service) Model {
	return Model{
		svc:       svc,
		state:     StateToday,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		taskList:  tasklist.New(nil, 0, 0),
		feedModel: feed.New(svc.Location(), 0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateToday:
		tk := tasklist.DefaultKeyMap()
		keys = append(keys, tk.Add, tk.Toggle, tk.Delete)
	case StateFeed:
		keys = append(keys, m.keys.Up, m.keys.Down)
	}
	return append(keys, m.keys.Share, m.keys.Done, m.keys.Plan)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	actions := []key.Binding{m.keys.Share, m.keys.Done, m.keys.Plan}
	if m.state == StateToday {
		tk := tasklist.DefaultKeyMap()
		actions = append(actions, tk.Add, tk.Toggle, tk.Delete)
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.run(m.svc.Snapshot)
}

// run executes op off the UI goroutine and reloads the feed afterwards.
func (m Model) run(op func() (tracker.Result, error)) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		res, err := op()
		if err != nil {
			return resultMsg{err: err}
		}
		entries, err := svc.Feed(0)
		return resultMsg{result: res, feed: entries, err: err}
	}
}

func clearToastAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearToastMsg{} })
}
