package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/repository"
)

var ErrNotExport = errors.New("document is not a studystreak export")

// Import reads a JSON export or a raw appData dump and merges it over
// current. The imported streak, completion date and logs replace the
// current ones; tasks are replaced only when the document carries them.
func Import(r io.Reader, current models.AppState) (models.AppState, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return current, fmt.Errorf("failed to read import: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return current, fmt.Errorf("%w: %v", ErrNotExport, err)
	}
	_, hasLogs := probe["logs"]
	_, hasStreak := probe["streak"]
	if !hasLogs && !hasStreak {
		return current, ErrNotExport
	}

	imported, err := repository.DecodeState(raw)
	if err != nil {
		return current, err
	}
	if _, hasTasks := probe["tasks"]; !hasTasks {
		imported.Tasks = models.CloneTasks(current.Tasks)
	}
	imported.Normalize()
	return imported, nil
}
