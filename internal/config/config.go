// Package config loads studystreak settings from a YAML file and
// STUDYSTREAK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/utils"
)

const EnvPrefix = "STUDYSTREAK"

var ErrUnknownKey = errors.New("unknown config key")

type StorageConfig struct {
	// Backend is one of sqlite, postgres, json, dir or memory.
	Backend string `mapstructure:"backend"`
	// Path is the database file, JSON file or directory. Unused for postgres.
	Path string `mapstructure:"path"`
}

type HeatmapConfig struct {
	WindowDays int `mapstructure:"window_days"`
}

type NotifyConfig struct {
	// Tray forwards milestone celebrations to the desktop tray app.
	Tray bool `mapstructure:"tray"`
}

type ChallengeConfig struct {
	Goal int `mapstructure:"goal"`
}

type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	User      string          `mapstructure:"user"`
	Timezone  string          `mapstructure:"timezone"`
	Heatmap   HeatmapConfig   `mapstructure:"heatmap"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Challenge ChallengeConfig `mapstructure:"challenge"`
}

var defaults = map[string]any{
	"storage.backend":     constants.BackendSQLite,
	"storage.path":        "",
	"user":                "",
	"timezone":            "Local",
	"heatmap.window_days": constants.DefaultHeatmapWindowDays,
	"notify.tray":         false,
	"challenge.goal":      constants.DefaultChallengeGoal,
}

// Keys lists every settable key in a stable order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", p, err)
	}
	return expanded, nil
}

// DefaultDir returns the expanded configuration directory.
func DefaultDir() string {
	dir, err := ExpandPath(constants.DefaultConfigDir)
	if err != nil {
		return filepath.Join(".", "."+constants.AppName)
	}
	return dir
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), constants.DefaultConfigFile)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

func readInto(v *viper.Viper, path string) error {
	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &pathErr) || errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// Load reads path, falling back to defaults when the file does not exist.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	v := newViper(path)
	if err := readInto(v, path); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case constants.BackendSQLite, constants.BackendPostgres, constants.BackendJSON,
		constants.BackendDir, constants.BackendMemory:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.Heatmap.WindowDays < 7 {
		return fmt.Errorf("heatmap.window_days must be at least 7, got %d", c.Heatmap.WindowDays)
	}
	if c.Challenge.Goal < 1 {
		return fmt.Errorf("challenge.goal must be positive, got %d", c.Challenge.Goal)
	}
	if err := validateUser(c.User); err != nil {
		return err
	}
	return nil
}

// validateUser keeps the user id usable as a single key segment.
func validateUser(user string) error {
	user = strings.TrimSpace(user)
	if user == "." || user == ".." || strings.ContainsAny(user, "/\\\x00") {
		return fmt.Errorf("invalid user %q: must not be . or .. or contain path separators", user)
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// StoragePath returns the expanded storage path, choosing a per-backend
// default inside the config directory when none is set.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return ExpandPath(c.Storage.Path)
	}
	dir := DefaultDir()
	switch c.Storage.Backend {
	case constants.BackendJSON:
		return filepath.Join(dir, constants.AppName+".json"), nil
	case constants.BackendDir:
		return filepath.Join(dir, "data"), nil
	default:
		return ExpandPath(constants.DefaultDataPath)
	}
}

// Set validates and writes a single key to the config file at path,
// keeping the other values already stored there.
func Set(path, key, value string) error {
	def, ok := defaults[key]
	if !ok {
		return fmt.Errorf("%w %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}

	var typed any = value
	switch def.(type) {
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		typed = n
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		typed = b
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if err := readInto(v, path); err != nil {
		return err
	}
	v.Set(key, typed)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Values returns every key with its effective value, for display.
func (c *Config) Values() [][2]string {
	return [][2]string{
		{"challenge.goal", strconv.Itoa(c.Challenge.Goal)},
		{"heatmap.window_days", strconv.Itoa(c.Heatmap.WindowDays)},
		{"notify.tray", strconv.FormatBool(c.Notify.Tray)},
		{"storage.backend", c.Storage.Backend},
		{"storage.path", c.Storage.Path},
		{"timezone", c.Timezone},
		{"user", c.User},
	}
}
