package models

// StreakState is the running streak counter and the last day it advanced.
type StreakState struct {
	Streak            int `json:"streak"`
	LastCompletedDate Day `json:"lastCompletedDate"`
}

// AppState is the per-user aggregate persisted as a single snapshot.
// Logs are kept most-recent-insertion first.
type AppState struct {
	StreakState
	Tasks []Task     `json:"tasks"`
	Logs  []LogEntry `json:"logs"`
}

// DefaultAppState returns the empty state used for new users and for
// recovering from unreadable snapshots.
func DefaultAppState() AppState {
	return AppState{
		Tasks: []Task{},
		Logs:  []LogEntry{},
	}
}

// Clone returns a deep copy of s.
func (s AppState) Clone() AppState {
	out := AppState{
		StreakState: s.StreakState,
		Tasks:       CloneTasks(s.Tasks),
		Logs:        make([]LogEntry, len(s.Logs)),
	}
	for i, e := range s.Logs {
		out.Logs[i] = e.Clone()
	}
	return out
}

// Normalize fills nil collections so the snapshot always serializes with
// empty arrays rather than null.
func (s *AppState) Normalize() {
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.Logs == nil {
		s.Logs = []LogEntry{}
	}
	if s.Streak < 0 {
		s.Streak = 0
	}
}
