// Package tasklist manages today's open tasks.
package tasklist

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/studystreak/internal/models"
)

// NewID returns a fresh task identifier.
var NewID = func() models.TaskID {
	return models.TaskID(uuid.New().String())
}

// Add appends a new incomplete task. Text that trims to empty is ignored.
func Add(tasks []models.Task, text string) ([]models.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tasks, false
	}
	out := models.CloneTasks(tasks)
	out = append(out, models.Task{ID: NewID(), Text: text})
	return out, true
}

// Toggle flips the completed flag of the task with id. Unknown ids are a no-op.
func Toggle(tasks []models.Task, id models.TaskID) ([]models.Task, bool) {
	i := indexOf(tasks, id)
	if i < 0 {
		return tasks, false
	}
	out := models.CloneTasks(tasks)
	out[i].Completed = !out[i].Completed
	return out, true
}

// Remove deletes the task with id. Unknown ids are a no-op.
func Remove(tasks []models.Task, id models.TaskID) ([]models.Task, bool) {
	i := indexOf(tasks, id)
	if i < 0 {
		return tasks, false
	}
	out := make([]models.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	out = append(out, tasks[i+1:]...)
	return out, true
}

// DrainForCompletion returns a deep copy of the current tasks together with
// the cleared list that starts the next day.
func DrainForCompletion(tasks []models.Task) (snapshot []models.Task, remaining []models.Task) {
	return models.CloneTasks(tasks), []models.Task{}
}

// Find returns the task with id.
func Find(tasks []models.Task, id models.TaskID) (models.Task, bool) {
	i := indexOf(tasks, id)
	if i < 0 {
		return models.Task{}, false
	}
	return tasks[i], true
}

// Resolve matches a user-supplied reference against the list. A full id
// wins, then a 1-based position as shown in the task table, then a unique
// id prefix.
func Resolve(tasks []models.Task, ref string) (models.TaskID, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if i := indexOf(tasks, models.TaskID(ref)); i >= 0 {
		return tasks[i].ID, true
	}
	if pos, err := strconv.Atoi(ref); err == nil {
		if pos >= 1 && pos <= len(tasks) {
			return tasks[pos-1].ID, true
		}
		return "", false
	}
	var match models.TaskID
	matches := 0
	for _, t := range tasks {
		if strings.HasPrefix(string(t.ID), ref) {
			match = t.ID
			matches++
		}
	}
	return match, matches == 1
}

func indexOf(tasks []models.Task, id models.TaskID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
