package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studystreak/internal/streak"
	"github.com/julianstephens/studystreak/internal/tracker"
	"github.com/julianstephens/studystreak/internal/tui/components/tasklist"
	"github.com/julianstephens/studystreak/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		w, h := docStyle.GetFrameSize()
		// tabs, status line and help
		m.taskList.SetSize(msg.Width-w, msg.Height-h-4)
		m.feedModel.SetSize(msg.Width-w, msg.Height-h-4)
		return m, nil

	case resultMsg:
		return m.handleResult(msg)

	case clearToastMsg:
		m.toast = ""
		return m, nil
	}

	if m.state == StateForm {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasklist.AddTaskMsg:
		return m.openForm(FormAddTask)
	case tasklist.ToggleTaskMsg:
		ref := string(msg.ID)
		return m, m.run(func() (tracker.Result, error) { return m.svc.ToggleTask(ref) })
	case tasklist.DeleteTaskMsg:
		ref := string(msg.ID)
		return m, m.run(func() (tracker.Result, error) { return m.svc.RemoveTask(ref) })

	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.run(m.svc.Snapshot)
		case key.Matches(msg, m.keys.Plan):
			return m.openForm(FormPlan)
		case key.Matches(msg, m.keys.Share):
			return m.openForm(FormShare)
		case key.Matches(msg, m.keys.Done):
			return m.openForm(FormDone)
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.taskList, cmd = m.taskList.Update(msg)
	case StateFeed:
		m.feedModel, cmd = m.feedModel.Update(msg)
	}
	return m, cmd
}

func (m Model) handleResult(msg resultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.err = nil
	m.loaded = true
	m.result = msg.result
	m.taskList.SetTasks(msg.result.State.Tasks)
	m.feedModel.SetEntries(msg.feed)

	if c := msg.result.Celebration; c != nil {
		m.toast = c.Message()
		return m, clearToastAfter(toastDuration)
	}
	return m, nil
}

func (m Model) openForm(kind FormKind) (tea.Model, tea.Cmd) {
	m.entryForm = &EntryFormModel{}
	m.formKind = kind
	switch kind {
	case FormAddTask:
		m.form = NewAddTaskForm(m.entryForm)
	case FormPlan:
		m.form = NewPlanForm(m.entryForm)
	case FormShare:
		m.form = NewShareForm(m.entryForm)
	case FormDone:
		m.form = NewDoneForm(m.entryForm)
	}
	m.previousState = m.state
	m.state = StateForm
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.previousState
		return m, tea.Batch(cmd, m.submit())
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

// submit turns the completed form into the matching tracker call.
func (m Model) submit() tea.Cmd {
	fm := *m.entryForm
	svc := m.svc
	switch m.formKind {
	case FormAddTask:
		return m.run(func() (tracker.Result, error) { return svc.AddTask(fm.Text) })
	case FormPlan:
		return m.run(func() (tracker.Result, error) { return svc.CompleteDay(fm.Plan) })
	case FormShare:
		return m.run(func() (tracker.Result, error) {
			hours, err := utils.ParseHours(fm.Hours)
			if err != nil {
				return tracker.Result{}, err
			}
			return svc.QuickShare(streak.QuickShareInput{Content: fm.Text, Hours: hours, IsDayCompletion: fm.Complete})
		})
	case FormDone:
		return m.run(func() (tracker.Result, error) {
			hours, err := utils.ParseHours(fm.Hours)
			if err != nil {
				return tracker.Result{}, err
			}
			return svc.MarkDayDone(streak.DayLogInput{StudyLog: fm.Text, DayPlan: fm.Plan, Hours: hours})
		})
	}
	return nil
}
