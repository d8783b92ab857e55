package models

import "sort"

// ComparisonResult is the outcome of comparing two directories.
// All name lists are sorted lexicographically.
type ComparisonResult struct {
	LeftPath  string `json:"left_path"`
	RightPath string `json:"right_path"`

	// LeftOnly holds names present only in the left directory
	LeftOnly []string `json:"left_only"`

	// RightOnly holds names present only in the right directory
	RightOnly []string `json:"right_only"`

	// Common holds names present in both directories
	Common []string `json:"common"`

	// CommonFiles are common names that are regular files on both sides
	CommonFiles []string `json:"common_files"`

	// CommonDirs are common names that are directories on both sides
	CommonDirs []string `json:"common_dirs"`

	// CommonMismatched are common names that are a file on one side and a directory on the other
	CommonMismatched []string `json:"common_mismatched,omitempty"`

	// DifferingByMetadata holds common entries whose size, modification time or type disagree
	DifferingByMetadata []string `json:"differing_by_metadata"`

	// DifferingByHash holds common files whose content digests disagree
	DifferingByHash []string `json:"differing_by_hash"`

	// Oversized holds common files skipped because one side exceeds the size ceiling
	Oversized []string `json:"oversized,omitempty"`

	// Errors holds per-entry read failures
	Errors []EntryError `json:"errors,omitempty"`
}

// HasDifferences reports whether the directories differ in any way
func (r *ComparisonResult) HasDifferences() bool {
	return len(r.LeftOnly) > 0 ||
		len(r.RightOnly) > 0 ||
		len(r.DifferingByMetadata) > 0 ||
		len(r.DifferingByHash) > 0
}

// Sort orders every name list and the error list by name
func (r *ComparisonResult) Sort() {
	for _, names := range [][]string{
		r.LeftOnly, r.RightOnly, r.Common, r.CommonFiles, r.CommonDirs,
		r.CommonMismatched, r.DifferingByMetadata, r.DifferingByHash, r.Oversized,
	} {
		sort.Strings(names)
	}
	sort.SliceStable(r.Errors, func(i, j int) bool {
		return r.Errors[i].Name < r.Errors[j].Name
	})
}

// DifferenceReason categorizes why an entry appears in a report
type DifferenceReason string

const (
	ReasonOnlyInLeft   DifferenceReason = "only_in_left"
	ReasonOnlyInRight  DifferenceReason = "only_in_right"
	ReasonMetadataDiff DifferenceReason = "metadata_differs"
	ReasonHashDiff     DifferenceReason = "hash_differs"
	ReasonOversized    DifferenceReason = "size_limit_exceeded"
	ReasonReadError    DifferenceReason = "read_error"
)

// Difference pairs an entry name with the reason it was reported
type Difference struct {
	Name   string           `json:"name"`
	Reason DifferenceReason `json:"reason"`
}

// Differences flattens the result into one list ordered by name, then reason.
// A name may appear more than once, e.g. with both metadata_differs and hash_differs.
func (r *ComparisonResult) Differences() []Difference {
	diffs := make([]Difference, 0)
	add := func(names []string, reason DifferenceReason) {
		for _, name := range names {
			diffs = append(diffs, Difference{Name: name, Reason: reason})
		}
	}
	add(r.LeftOnly, ReasonOnlyInLeft)
	add(r.RightOnly, ReasonOnlyInRight)
	add(r.DifferingByMetadata, ReasonMetadataDiff)
	add(r.DifferingByHash, ReasonHashDiff)
	add(r.Oversized, ReasonOversized)
	for _, e := range r.Errors {
		diffs = append(diffs, Difference{Name: e.Name, Reason: ReasonReadError})
	}

	sort.SliceStable(diffs, func(i, j int) bool {
		if diffs[i].Name != diffs[j].Name {
			return diffs[i].Name < diffs[j].Name
		}
		return diffs[i].Reason < diffs[j].Reason
	})
	return diffs
}
