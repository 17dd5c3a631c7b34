package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptSecret asks for a value without echoing it.
func PromptSecret(title string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	return value, nil
}

// PromptText asks for free-form, possibly multi-line text.
func PromptText(title, placeholder string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(title).
				Placeholder(placeholder).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// TextOrPrompt joins args, prompting interactively when they are empty.
func TextOrPrompt(args []string, title, placeholder string) (string, error) {
	if text := strings.TrimSpace(strings.Join(args, " ")); text != "" {
		return text, nil
	}
	return PromptText(title, placeholder)
}
