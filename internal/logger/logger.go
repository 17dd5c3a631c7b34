// Package logger holds the process-wide structured logger. Until Init runs,
// every call is discarded.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/studystreak/internal/constants"
)

var std = log.New(io.Discard)

type Config struct {
	Debug     bool
	ConfigDir string
	// Output replaces the rotating file under ConfigDir/logs.
	Output io.Writer
}

func rotatingFile(dir string) (io.Writer, error) {
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    5,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}, nil
}

// Init replaces the global logger. Debug lowers the level to debug, adds
// caller info and mirrors output to stderr.
func Init(cfg Config) error {
	out := cfg.Output
	if out == nil {
		w, err := rotatingFile(cfg.ConfigDir)
		if err != nil {
			return err
		}
		out = w
	}

	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          constants.AppName,
		Level:           log.WarnLevel,
	}
	if cfg.Debug {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
		out = io.MultiWriter(os.Stderr, out)
	}

	std = log.NewWithOptions(out, opts)
	return nil
}

// Reset discards all output again.
func Reset() { std = log.New(io.Discard) }

// With returns a child logger carrying keyvals.
func With(keyvals ...interface{}) *log.Logger { return std.With(keyvals...) }

func Debug(msg string, keyvals ...interface{}) { std.Debug(msg, keyvals...) }
func Info(msg string, keyvals ...interface{})  { std.Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { std.Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { std.Error(msg, keyvals...) }
