package models

import (
	"time"
)

// CompareReport represents the results of a comparison run
type CompareReport struct {
	// Operation details
	OperationID string
	LeftPath    string
	RightPath   string
	Algorithm   HashAlgorithm
	SizeCeiling int64

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Stats Statistics

	// Result is nil when the comparison failed before scanning finished
	Result *ComparisonResult

	// Error holds the failure message when Status is StatusFailed
	Error string

	Status CompareStatus
}

// Statistics holds comparison metrics
type Statistics struct {
	LeftEntries   int
	RightEntries  int
	CommonEntries int
	FilesHashed   int // common files whose both sides were hashed
	BytesHashed   int64
}

// CompareStatus represents the overall result
type CompareStatus string

const (
	// StatusIdentical indicates the directories have no differences
	StatusIdentical CompareStatus = "identical"
	// StatusDifferent indicates at least one difference was found
	StatusDifferent CompareStatus = "different"
	// StatusPartial indicates some entries could not be read
	StatusPartial CompareStatus = "partial"
	// StatusFailed indicates the comparison could not run
	StatusFailed CompareStatus = "failed"
)

// ExitCode returns the process exit code for the status
func (s CompareStatus) ExitCode() int {
	switch s {
	case StatusIdentical:
		return 0
	case StatusDifferent:
		return 1
	case StatusFailed:
		return 2
	case StatusPartial:
		return 3
	default:
		return 2
	}
}

// StatusFor derives the status of a finished comparison
func StatusFor(result *ComparisonResult) CompareStatus {
	switch {
	case result == nil:
		return StatusFailed
	case len(result.Errors) > 0:
		return StatusPartial
	case result.HasDifferences():
		return StatusDifferent
	default:
		return StatusIdentical
	}
}
