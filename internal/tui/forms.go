package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studystreak/internal/utils"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " cannot be empty")
		}
		return nil
	}
}

func validHours(s string) error {
	_, err := utils.ParseHours(s)
	return err
}

func NewAddTaskForm(fm *EntryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Value(&fm.Text).
				Validate(required("task")),
		),
	)
}

func NewPlanForm(fm *EntryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Day plan").
				Description("Saved with a snapshot of today's tasks. The task list is cleared afterwards.").
				Value(&fm.Plan),
		),
	)
}

func NewShareForm(fm *EntryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What did you study?").
				Value(&fm.Text).
				Validate(required("share")),
			huh.NewInput().
				Title("Hours (optional)").
				Value(&fm.Hours).
				Validate(validHours),
			huh.NewConfirm().
				Title("Count this as today's completion?").
				Value(&fm.Complete),
		),
	)
}

func NewDoneForm(fm *EntryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Study log").
				Value(&fm.Text).
				Validate(required("study log")),
			huh.NewInput().
				Title("Hours (optional)").
				Value(&fm.Hours).
				Validate(validHours),
			huh.NewText().
				Title("Plan for tomorrow (optional)").
				Value(&fm.Plan),
		),
	)
}
