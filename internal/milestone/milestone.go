// Package milestone celebrates streak thresholds, each at most once.
package milestone

import (
	"fmt"
	"sync"

	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/logger"
)

// Celebration is emitted when the streak first reaches a threshold.
type Celebration struct {
	Threshold int
	Streak    int
}

// Message is the text shown to the user.
func (c Celebration) Message() string {
	return fmt.Sprintf("Congratulations! You've reached a %d-day streak! 🎉", c.Threshold)
}

// Sink receives celebrations.
type Sink interface {
	Celebrate(c Celebration) error
}

// Next returns the first threshold reached by streak that is above
// lastCelebrated.
func Next(streak, lastCelebrated int) (int, bool) {
	for _, t := range constants.MilestoneThresholds {
		if streak >= t && t > lastCelebrated {
			return t, true
		}
	}
	return 0, false
}

// CheckAndFire emits at most one celebration and returns the new ledger
// value. Thresholds skipped over in a single jump are not replayed. The
// ledger advances even if the sink fails to deliver.
func CheckAndFire(streak, lastCelebrated int, sink Sink) int {
	t, ok := Next(streak, lastCelebrated)
	if !ok {
		return lastCelebrated
	}
	if sink != nil {
		if err := sink.Celebrate(Celebration{Threshold: t, Streak: streak}); err != nil {
			logger.Warn("Failed to deliver milestone celebration", "threshold", t, "error", err)
		}
	}
	return t
}

// LogSink records celebrations in the application log.
type LogSink struct{}

func (LogSink) Celebrate(c Celebration) error {
	logger.Info("Milestone reached", "threshold", c.Threshold, "streak", c.Streak)
	return nil
}

// MultiSink fans a celebration out to every sink and returns the first error.
type MultiSink []Sink

func (m MultiSink) Celebrate(c Celebration) error {
	var first error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Celebrate(c); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Collector keeps celebrations in memory until drained.
type Collector struct {
	mu     sync.Mutex
	events []Celebration
}

func (c *Collector) Celebrate(ev Celebration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

// Drain returns and clears the collected celebrations.
func (c *Collector) Drain() []Celebration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.events
	c.events = nil
	return out
}

// NotifierFunc adapts a plain text notifier into a Sink.
type NotifierFunc func(text string) error

func (f NotifierFunc) Celebrate(c Celebration) error {
	return f(c.Message())
}
