// Package cli holds the state shared by every studystreak command.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/studystreak/internal/auth"
	"github.com/julianstephens/studystreak/internal/backup"
	"github.com/julianstephens/studystreak/internal/config"
	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/logger"
	"github.com/julianstephens/studystreak/internal/milestone"
	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/notifier"
	"github.com/julianstephens/studystreak/internal/repository"
	"github.com/julianstephens/studystreak/internal/stats"
	"github.com/julianstephens/studystreak/internal/storage"
	"github.com/julianstephens/studystreak/internal/tracker"
)

type Context struct {
	Config     *config.Config
	ConfigPath string
	// Store is the root gateway. Commands reach user data through Gateway.
	Store storage.Gateway

	Out io.Writer
	In  io.Reader

	// Optional overrides, mostly for tests.
	Clock    func() time.Time
	Verifier auth.Verifier
	Sink     milestone.Sink

	service *tracker.Service
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Writer returns the command output stream.
func (c *Context) Writer() io.Writer { return c.out() }

// Gateway returns the store scoped to the configured user, if any.
func (c *Context) Gateway() storage.Gateway {
	if c.Config != nil && strings.TrimSpace(c.Config.User) != "" {
		return storage.WithNamespace(c.Store, constants.UserNamespacePrefix, strings.TrimSpace(c.Config.User))
	}
	return c.Store
}

// Location returns the configured zone, falling back to the system zone.
func (c *Context) Location() *time.Location {
	if c.Config == nil {
		return time.Local
	}
	loc, err := c.Config.Location()
	if err != nil {
		logger.Warn("invalid timezone, using local", "timezone", c.Config.Timezone, "error", err)
		return time.Local
	}
	return loc
}

func (c *Context) Now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// StatsOptions maps config values onto aggregator options.
func (c *Context) StatsOptions() stats.Options {
	opts := stats.Options{
		HeatmapWindowDays: constants.DefaultHeatmapWindowDays,
		RecentDays:        constants.RecentHoursDays,
		ChallengeGoal:     constants.DefaultChallengeGoal,
	}
	if c.Config != nil {
		if c.Config.Heatmap.WindowDays > 0 {
			opts.HeatmapWindowDays = c.Config.Heatmap.WindowDays
		}
		if c.Config.Challenge.Goal > 0 {
			opts.ChallengeGoal = c.Config.Challenge.Goal
		}
	}
	return opts
}

// Aggregator computes statistics over state as of now.
func (c *Context) Aggregator(state models.AppState) *stats.Aggregator {
	return stats.New(state.Logs, c.Location(), c.Now())
}

// Service builds the tracker on first use.
func (c *Context) Service() *tracker.Service {
	if c.service != nil {
		return c.service
	}

	verifier := c.Verifier
	if verifier == nil {
		verifier = auth.DefaultVerifier()
	}
	sinks := milestone.MultiSink{milestone.LogSink{}}
	if c.Sink != nil {
		sinks = append(sinks, c.Sink)
	}
	if c.Config != nil && c.Config.Notify.Tray {
		sinks = append(sinks, notifier.New())
	}

	c.service = tracker.New(repository.New(c.Gateway()), tracker.Options{
		Location: c.Location(),
		Clock:    c.Clock,
		Sink:     sinks,
		Verifier: verifier,
		Stats:    c.StatsOptions(),
	})
	return c.service
}

// BackupDir is where backups of the current store are kept.
func (c *Context) BackupDir() string {
	dir := config.DefaultDir()
	if c.ConfigPath != "" {
		dir = filepath.Dir(c.ConfigPath)
	}
	return filepath.Join(dir, constants.BackupDirName)
}

func (c *Context) BackupManager() *backup.Manager {
	return backup.NewManager(c.Store, c.BackupDir())
}

// PerformAutomaticBackup creates a backup before a destructive operation
// and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*storage.MemoryStore); ok {
		return
	}
	if _, err := c.BackupManager().CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question on In. Anything but y/yes is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// ReportResult prints the outcome shared by every state-changing command:
// the lapse warning and any milestone reached.
func (c *Context) ReportResult(res tracker.Result) {
	if w := res.Warning(); w != "" {
		c.Printf("⚠️  %s\n", w)
	}
	if res.Celebration != nil {
		c.Printf("🏆 %s\n", res.Celebration.Message())
	}
}
