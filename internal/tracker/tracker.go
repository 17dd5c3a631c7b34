// Package tracker is the single place where state is loaded, mutated and
// saved. Every method runs one read-modify-write cycle under a mutex and
// then refreshes the derived views.
package tracker

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/julianstephens/studystreak/internal/auth"
	"github.com/julianstephens/studystreak/internal/logger"
	"github.com/julianstephens/studystreak/internal/logstore"
	"github.com/julianstephens/studystreak/internal/milestone"
	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/repository"
	"github.com/julianstephens/studystreak/internal/stats"
	"github.com/julianstephens/studystreak/internal/streak"
	"github.com/julianstephens/studystreak/internal/tasklist"
)

// ErrNoVerifier is returned by SetManualStreak when no Verifier is configured.
var ErrNoVerifier = errors.New("manual streak override is disabled")

// Options configures a Service. Zero values are usable.
type Options struct {
	Location *time.Location
	Clock    func() time.Time
	Sink     milestone.Sink
	Verifier auth.Verifier
	Stats    stats.Options
}

// Result is what every operation reports back to the caller.
type Result struct {
	State   models.AppState
	Summary stats.Summary
	// Entry is the log entry created by the operation, if any.
	Entry *models.LogEntry
	// Changed is false when the operation was a no-op.
	Changed bool
	// Celebration is set when this operation crossed a new milestone.
	Celebration *milestone.Celebration
}

// Warning is the lapse warning to show, or "".
func (r Result) Warning() string {
	return r.Summary.Lapse.Warning()
}

type Service struct {
	mu     sync.Mutex
	repo   repository.Repository
	engine streak.Engine
	opts   Options
}

func New(repo repository.Repository, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	engine := streak.New(opts.Location)
	opts.Location = engine.Location
	return &Service{repo: repo, engine: engine, opts: opts}
}

// Today returns the current calendar day in the service's zone.
func (s *Service) Today() models.Day {
	return s.engine.Today(s.opts.Clock())
}

// Location returns the zone used for calendar days.
func (s *Service) Location() *time.Location {
	return s.opts.Location
}

type mutator func(now time.Time, state models.AppState) (models.AppState, *models.LogEntry, bool, error)

// apply runs one load-mutate-save cycle. Nothing is saved when fn fails
// or reports no change.
func (s *Service) apply(op string, fn mutator) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Clock()
	state, err := s.repo.LoadState()
	if err != nil {
		return Result{}, err
	}

	next, entry, changed, err := fn(now, state)
	if err != nil {
		logger.Debug("Operation rejected", "op", op, "error", err)
		return s.result(now, state, nil, false), err
	}
	if !changed {
		return s.result(now, state, nil, false), nil
	}

	if err := s.repo.SaveState(next); err != nil {
		return Result{}, err
	}
	logger.Debug("State saved", "op", op, "streak", next.Streak, "logs", len(next.Logs))

	res := s.result(now, next, entry, true)
	res.Celebration = s.checkMilestones(next.Streak)
	return res, nil
}

func (s *Service) result(now time.Time, state models.AppState, entry *models.LogEntry, changed bool) Result {
	today := s.engine.Today(now)
	agg := stats.New(state.Logs, s.opts.Location, now)
	return Result{
		State:   state,
		Summary: agg.Summarize(state, today, s.opts.Stats),
		Entry:   entry,
		Changed: changed,
	}
}

// checkMilestones fires at most one celebration and persists the ledger.
// Failures here never undo the state change that triggered them.
func (s *Service) checkMilestones(current int) *milestone.Celebration {
	last, err := s.repo.LoadMilestone()
	if err != nil {
		logger.Warn("Failed to load milestone ledger", "error", err)
		return nil
	}

	var collected milestone.Collector
	sink := milestone.MultiSink{&collected, s.opts.Sink}
	next := milestone.CheckAndFire(current, last, sink)
	if next == last {
		return nil
	}
	if err := s.repo.SaveMilestone(next); err != nil {
		logger.Warn("Failed to save milestone ledger", "error", err)
	}
	if events := collected.Drain(); len(events) > 0 {
		return &events[0]
	}
	return nil
}

// Snapshot loads the current state and its summary without mutating.
func (s *Service) Snapshot() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Clock()
	state, err := s.repo.LoadState()
	if err != nil {
		return Result{}, err
	}
	return s.result(now, state, nil, false), nil
}

// Feed returns log entries newest first. days > 0 limits the feed to the
// last days calendar days including today.
func (s *Service) Feed(days int) ([]models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Clock()
	state, err := s.repo.LoadState()
	if err != nil {
		return nil, err
	}

	seq := logstore.All(state.Logs, now)
	if days > 0 {
		today := s.engine.Today(now)
		start := today.AddDays(-(days - 1)).Start(s.opts.Location)
		seq = logstore.WithinWindow(state.Logs, start, today.End(s.opts.Location), now)
	}
	return slices.Collect(seq), nil
}

func (s *Service) AddTask(text string) (Result, error) {
	return s.apply("add-task", func(_ time.Time, st models.AppState) (models.AppState, *models.LogEntry, bool, error) {
		tasks, ok := tasklist.Add(st.Tasks, text)
		st.Tasks = tasks
		return st, nil, ok, nil
	})
}

// ToggleTask flips a task found by tasklist.Resolve. Unknown refs are a no-op.
func (s *Service) ToggleTask(ref string) (Result, error) {
	return s.apply("toggle-task", func(_ time.Time, st models.AppState) (models.AppState, *models.LogEntry, bool, error) {
		id, found := tasklist.Resolve(st.Tasks, ref)
		if !found {
			return st, nil, false, nil
		}
		tasks, ok := tasklist.Toggle(st.Tasks, id)
		st.Tasks = tasks
		return st, nil, ok, nil
	})
}

// RemoveTask deletes a task found by tasklist.Resolve. Unknown refs are a no-op.
func (s *Service) RemoveTask(ref string) (Result, error) {
	return s.apply("remove-task", func(_ time.Time, st models.AppState) (models.AppState, *models.LogEntry, bool, error) {
		id, found := tasklist.Resolve(st.Tasks, ref)
		if !found {
			return st, nil, false, nil
		}
		tasks, ok := tasklist.Remove(st.Tasks, id)
		st.Tasks = tasks
		return st, nil, ok, nil
	})
}

func entryResult(next models.AppState, entry models.LogEntry, err error) (models.AppState, *models.LogEntry, bool, error) {
	if err != nil {
		return next, nil, false, err
	}
	return next, &entry, true, nil
}

func (s *Service) CompleteDay(dayPlan string) (Result, error) {
	return s.apply("complete-day", func(now time.Time, st models.AppState) (models.AppState, *models.LogEntry, bool, error) {
		return entryResult(s.engine.CompleteDay(st, now, dayPlan))
	})
}

func (s *Service) QuickShare(in streak.QuickShareInput) (Result, error) {
	return s.apply("quick-share", func(now time.Time, st models.AppState) (models.AppState, *models.LogEntry, bool, error) {
		return entryResult(s.engine.QuickShare(st, now, in))
	})
}

func (s *Service) MarkDayDone(in streak.DayLogInput) (Result, error) {
	return s.apply("mark-day-done", func(now time.Time, st models.AppState) (models.AppState, *models.LogEntry, bool, error) {
		return entryResult(s.engine.MarkDayDone(st, now, in))
	})
}

// SetManualStreak overrides the counter after verifying passphrase.
func (s *Service) SetManualStreak(value int, passphrase string) (Result, error) {
	if s.opts.Verifier == nil {
		return Result{}, ErrNoVerifier
	}
	if err := s.opts.Verifier.Verify(passphrase); err != nil {
		logger.Warn("Manual streak override refused", "error", err)
		return Result{}, err
	}
	return s.apply("set-streak", func(_ time.Time, st models.AppState) (models.AppState, *models.LogEntry, bool, error) {
		next, err := streak.SetManualStreak(st, value)
		if err != nil {
			return st, nil, false, err
		}
		logger.Info("Streak overridden", "from", st.Streak, "to", value)
		return next, nil, next.Streak != st.Streak, nil
	})
}

// Replace overwrites the stored state, as done by import and reset.
func (s *Service) Replace(state models.AppState) (Result, error) {
	return s.apply("replace", func(_ time.Time, _ models.AppState) (models.AppState, *models.LogEntry, bool, error) {
		next := state.Clone()
		next.Normalize()
		return next, nil, true, nil
	})
}

// Reset clears all state and the milestone ledger.
func (s *Service) Reset() error {
	if _, err := s.Replace(models.DefaultAppState()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveMilestone(0); err != nil {
		return fmt.Errorf("failed to reset milestone ledger: %w", err)
	}
	return nil
}
