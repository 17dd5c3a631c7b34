package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/studystreak/internal/export"
)

// TestEndToEndWorkflow drives the CLI the way a user would, against a
// SQLite store in a temp dir.
func TestEndToEndWorkflow(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "studystreak", "config.yaml")
	dbPath := filepath.Join(tempDir, "studystreak", "studystreak.db")
	t.Setenv("HOME", tempDir)

	exec := func(t *testing.T, args ...string) string {
		t.Helper()
		out := &bytes.Buffer{}
		full := append([]string{"--config", configPath}, args...)
		if err := run(full, out, strings.NewReader("")); err != nil {
			t.Fatalf("studystreak %s failed: %v\n%s", strings.Join(args, " "), err, out.String())
		}
		return out.String()
	}

	steps := []struct {
		name string
		args []string
		want []string
	}{
		{"configure storage", []string{"config", "set", "storage.path", dbPath}, []string{"storage.path = "}},
		{"init", []string{"init"}, []string{"Initialized studystreak storage"}},
		{"add task", []string{"task", "add", "read", "chapter", "1"}, []string{"Added task 1: read chapter 1"}},
		{"toggle task", []string{"task", "toggle", "1"}, []string{"read chapter 1"}},
		{"share", []string{"share", "--complete", "--hours", "1.5", "flashcards"}, []string{"Day complete! Streak: 1 day(s)."}},
		{"status", []string{"status"}, []string{"Streak: 1 day(s)", "Today is done"}},
		{"feed", []string{"feed"}, []string{"flashcards"}},
		{"stats", []string{"stats"}, []string{"Total hours:", "1.5"}},
		{"heatmap", []string{"heatmap", "--days", "14"}, []string{"Activity"}},
		{"export csv", []string{"export", "--format", "csv", "--output", "-"}, []string{export.CSVHeader, "flashcards"}},
		{"backup", []string{"backup", "create"}, []string{"Backup created"}},
		{"backup list", []string{"backup", "list"}, []string{"1 total"}},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			out := exec(t, step.args...)
			for _, want := range step.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database not created at %s: %v", dbPath, err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(configPath), "logs")); err != nil {
		t.Errorf("log directory not created: %v", err)
	}
}

func TestCommandsRequireInit(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	configPath := filepath.Join(tempDir, "config.yaml")

	out := &bytes.Buffer{}
	err := run([]string{"--config", configPath, "config", "set", "storage.path", filepath.Join(tempDir, "missing.db")}, out, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := run([]string{"--config", configPath, "status"}, out, nil); err == nil {
		t.Error("expected status to fail before init")
	}
}
