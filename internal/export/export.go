// Package export renders an AppState as a downloadable document and reads
// such documents back for import.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/julianstephens/studystreak/internal/models"
)

// Format names an export document type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatPDF}

// ParseFormat accepts a format name or its file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want json, csv, markdown or pdf)", s)
}

// Extension returns the conventional file extension, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Filename is the default download name for f.
func (f Format) Filename() string {
	return "study-streak-data." + f.Extension()
}

// Document is the JSON export shape.
type Document struct {
	Streak            int               `json:"streak"`
	LastCompletedDate models.Day        `json:"lastCompletedDate"`
	Logs              []models.LogEntry `json:"logs"`
}

// Options controls how dates are rendered in the text formats.
type Options struct {
	Location *time.Location
	// Now stands in for entries whose date could not be parsed.
	Now time.Time
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// displayDate renders an entry date the way a US locale prints it, e.g.
// 10/16/2026.
func (o Options) displayDate(e models.LogEntry) string {
	if !e.DateValid() {
		return "Invalid Date"
	}
	return e.Date.In(o.location()).Format("1/2/2006")
}

// Write renders state in format f.
func Write(w io.Writer, f Format, state models.AppState, opts Options) error {
	switch f {
	case FormatJSON:
		return JSON(w, state)
	case FormatCSV:
		return CSV(w, state, opts)
	case FormatMarkdown:
		return Markdown(w, state, opts)
	case FormatPDF:
		return PDF(w, state, opts)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// JSON writes the streak, last completion date and logs, indented.
func JSON(w io.Writer, state models.AppState) error {
	state.Normalize()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{
		Streak:            state.Streak,
		LastCompletedDate: state.LastCompletedDate,
		Logs:              state.Logs,
	})
}
