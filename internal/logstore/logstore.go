// Package logstore holds the append-only study log and its read-only views.
package logstore

import (
	"errors"
	"iter"
	"sort"
	"time"

	"github.com/julianstephens/studystreak/internal/models"
)

// ErrMissingDate is returned when appending an entry that carries no date at all.
var ErrMissingDate = errors.New("log entry has no date")

// Append inserts entry at the front of logs (most recent insertion first)
// and returns the new collection. The input slice is not modified.
func Append(logs []models.LogEntry, entry models.LogEntry) ([]models.LogEntry, error) {
	if !entry.HasDate() {
		return logs, ErrMissingDate
	}
	out := make([]models.LogEntry, 0, len(logs)+1)
	out = append(out, entry.Clone())
	out = append(out, logs...)
	return out, nil
}

// Sorted returns the entries ordered by effective date, newest first. Ties
// keep storage order, which is most recent insertion first.
func Sorted(logs []models.LogEntry, now time.Time) []models.LogEntry {
	out := make([]models.LogEntry, len(logs))
	copy(out, logs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveTime(now).After(out[j].EffectiveTime(now))
	})
	return out
}

// All yields every entry newest first. The sequence is lazy and can be
// ranged over any number of times; each pass re-sorts a private copy.
func All(logs []models.LogEntry, now time.Time) iter.Seq[models.LogEntry] {
	return func(yield func(models.LogEntry) bool) {
		for _, e := range Sorted(logs, now) {
			if !yield(e) {
				return
			}
		}
	}
}

// WithinWindow yields the entries of All whose effective date falls in
// [start, end], both ends inclusive.
func WithinWindow(logs []models.LogEntry, start, end, now time.Time) iter.Seq[models.LogEntry] {
	return func(yield func(models.LogEntry) bool) {
		for e := range All(logs, now) {
			t := e.EffectiveTime(now)
			if t.Before(start) || t.After(end) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Store is a method-set view over a log collection bound to a clock.
type Store struct {
	logs []models.LogEntry
	now  func() time.Time
}

// New wraps logs. A nil clock defaults to time.Now.
func New(logs []models.LogEntry, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{logs: logs, now: now}
}

func (s *Store) Append(entry models.LogEntry) error {
	logs, err := Append(s.logs, entry)
	if err != nil {
		return err
	}
	s.logs = logs
	return nil
}

func (s *Store) All() iter.Seq[models.LogEntry] {
	return All(s.logs, s.now())
}

func (s *Store) WithinWindow(start, end time.Time) iter.Seq[models.LogEntry] {
	return WithinWindow(s.logs, start, end, s.now())
}

func (s *Store) Len() int { return len(s.logs) }

// Entries returns the raw collection in storage order.
func (s *Store) Entries() []models.LogEntry {
	return s.logs
}
