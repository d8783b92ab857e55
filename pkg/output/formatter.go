package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/dircompare/pkg/models"
)

// Progress update types
const (
	UpdateHashStart    = "hash_start"
	UpdateHashProgress = "hash_progress"
	UpdateHashComplete = "hash_complete"
	UpdateOversized    = "oversized"
	UpdateReadError    = "read_error"
)

// ProgressUpdate represents a progress notification while common files are hashed
type ProgressUpdate struct {
	Type        string
	Name        string
	BytesHashed int64
	TotalBytes  int64
	CurrentFile int
	TotalFiles  int
	Notice      string
	Error       error
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Start is called once scanning is done, with the number of common files to hash
	Start(writer io.Writer, totalFiles int) error

	// Progress reports progress during hashing
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the report
	Complete(report *models.CompareReport) error

	// Error reports a failure that stopped the comparison
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter for an output format.
// The progress bar only replaces human output.
func NewFormatter(format string, progress bool) (Formatter, error) {
	switch format {
	case "json":
		return NewJSONFormatter(), nil
	case "human", "":
		if progress {
			return NewProgressFormatter(), nil
		}
		return NewHumanFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use: human, json)", format)
	}
}
