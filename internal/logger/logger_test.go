package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesLogDir(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	t.Cleanup(Reset)

	Debug("debug message")
	Warn("warning message", "key", "value")
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"normal mode drops debug", false, false},
		{"debug mode keeps debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Init(Config{Debug: tt.debug, Output: &buf}); err != nil {
				t.Fatalf("Init() failed: %v", err)
			}
			t.Cleanup(Reset)

			Debug("streak recomputed")
			Warn("state recovered")

			out := buf.String()
			if got := strings.Contains(out, "streak recomputed"); got != tt.wantDebug {
				t.Errorf("debug message present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "state recovered") {
				t.Errorf("warning message missing:\n%s", out)
			}
			if !strings.Contains(out, "studystreak") {
				t.Errorf("prefix missing:\n%s", out)
			}
		})
	}
}

func TestResetDiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Output: &buf}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	With("user", "alice").Warn("before reset")
	Reset()
	Error("after reset")

	out := buf.String()
	if !strings.Contains(out, "user=alice") {
		t.Errorf("child logger fields missing:\n%s", out)
	}
	if strings.Contains(out, "after reset") {
		t.Errorf("output written after Reset:\n%s", out)
	}
}
