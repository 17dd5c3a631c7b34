package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TaskID identifies a task. Older data written by the browser build used
// millisecond timestamps as numeric ids, so numbers are accepted on decode.
type TaskID string

func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = TaskID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = TaskID(n.String())
	return nil
}

type Task struct {
	ID        TaskID `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// CloneTasks returns a deep copy of tasks. A nil input yields an empty slice
// so snapshots always serialize as [].
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// CompletedCount returns how many tasks are marked completed.
func CompletedCount(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
