package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/studystreak/internal/constants"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Storage.Backend != constants.BackendSQLite {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Heatmap.WindowDays != constants.DefaultHeatmapWindowDays || cfg.Challenge.Goal != constants.DefaultChallengeGoal {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `storage:
  backend: json
  path: /tmp/streak.json
timezone: UTC
heatmap:
  window_days: 28
notify:
  tray: true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STUDYSTREAK_USER", "alice")
	t.Setenv("STUDYSTREAK_CHALLENGE_GOAL", "30")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Storage.Backend != "json" || cfg.Storage.Path != "/tmp/streak.json" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Timezone != "UTC" || cfg.Heatmap.WindowDays != 28 || !cfg.Notify.Tray {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.User != "alice" || cfg.Challenge.Goal != 30 {
		t.Errorf("env overrides not applied: user=%q goal=%d", cfg.User, cfg.Challenge.Goal)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"backend", "storage:\n  backend: floppy\n"},
		{"timezone", "timezone: Mars/Base\n"},
		{"window", "heatmap:\n  window_days: 2\n"},
		{"syntax", "storage: [\n"},
		{"user traversal", "user: ../../x\n"},
		{"user dotdot", "user: ..\n"},
		{"user backslash", "user: a\\\\b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() accepted an invalid config")
			}
		})
	}
}

func TestSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := Set(path, "timezone", "Europe/Berlin"); err != nil {
		t.Fatalf("Set(timezone) = %v", err)
	}
	if err := Set(path, "heatmap.window_days", "182"); err != nil {
		t.Fatalf("Set(window) = %v", err)
	}
	if err := Set(path, "notify.tray", "yes"); err == nil {
		t.Error("Set() accepted a non-bool")
	}
	if err := Set(path, "storage.backend", "tape"); err == nil {
		t.Error("Set() accepted an invalid backend")
	}
	if err := Set(path, "user", "../escape"); err == nil {
		t.Error("Set() accepted a user with path separators")
	}
	if err := Set(path, "user", "alice"); err != nil {
		t.Errorf("Set(user) = %v", err)
	}
	if err := Set(path, "colour", "blue"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set(unknown) = %v, want %v", err, ErrUnknownKey)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timezone != "Europe/Berlin" || cfg.Heatmap.WindowDays != 182 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestStoragePath(t *testing.T) {
	home, err := ExpandPath("~")
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	cfg := &Config{Storage: StorageConfig{Backend: constants.BackendJSON}}
	got, _ := cfg.StoragePath()
	if !strings.HasSuffix(got, "studystreak.json") {
		t.Errorf("json default = %q", got)
	}

	cfg.Storage.Path = "~/streaks.db"
	got, _ = cfg.StoragePath()
	if got != filepath.Join(home, "streaks.db") {
		t.Errorf("expanded = %q", got)
	}
}

func TestKeysMatchValues(t *testing.T) {
	cfg := &Config{}
	values := cfg.Values()
	keys := Keys()
	if len(values) != len(keys) {
		t.Fatalf("Values() has %d keys, Keys() has %d", len(values), len(keys))
	}
	for i, kv := range values {
		if kv[0] != keys[i] {
			t.Errorf("key %d = %q, want %q", i, kv[0], keys[i])
		}
	}
}
