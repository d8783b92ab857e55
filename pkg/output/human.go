package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/sdejongh/dircompare/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer      io.Writer
	totalFiles  int
	errReported bool
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, totalFiles int) error {
	f.writer = writer
	f.totalFiles = totalFiles
	return nil
}

// Progress prints size-limit notices and read errors as they happen
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case UpdateOversized:
		fmt.Fprintln(f.writer, update.Notice)
	case UpdateReadError:
		fmt.Fprintf(f.writer, "[%d/%d] ✗ %s: %v\n", update.CurrentFile, update.TotalFiles, update.Name, update.Error)
	}

	return nil
}

// Complete writes the full report
func (f *HumanFormatter) Complete(report *models.CompareReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	if report.Result == nil && f.errReported {
		fmt.Fprintf(f.writer, "Status: %s\n", report.Status)
		return nil
	}
	return writeReportHuman(report, f.writer)
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		fmt.Fprintf(f.writer, "Error: %v\n", err)
		f.errReported = true
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// writeReportHuman renders the result sections followed by a summary table
func writeReportHuman(report *models.CompareReport, w io.Writer) error {
	fmt.Fprintf(w, "\nComparing %s and %s\n", report.LeftPath, report.RightPath)

	if report.Result == nil {
		fmt.Fprintf(w, "Status: %s\n", report.Status)
		if report.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", report.Error)
		}
		return nil
	}

	r := report.Result
	writeSection(w, "Files only in "+r.LeftPath, r.LeftOnly)
	writeSection(w, "Files only in "+r.RightPath, r.RightOnly)
	writeSection(w, "Differing files (metadata)", r.DifferingByMetadata)
	writeSection(w, "Files differ", r.DifferingByHash)
	writeSection(w, fmt.Sprintf("Skipped, exceeds size limit (%s)", humanize.IBytes(uint64(report.SizeCeiling))), r.Oversized)

	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "\nRead errors (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s (%s): %s\n", e.Name, e.Side, e.Error)
		}
	}

	fmt.Fprintln(w)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Summary", "Count"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range summaryRows(report) {
		table.Append(row)
	}
	table.Render()

	fmt.Fprintf(w, "\nStatus: %s (%s, %s)\n", report.Status, report.Algorithm, report.Duration.Round(time.Millisecond))
	return nil
}

func writeSection(w io.Writer, title string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(names))
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

func summaryRows(report *models.CompareReport) [][]string {
	r := report.Result
	count := func(n int) string { return strconv.Itoa(n) }
	return [][]string{
		{"Left entries", count(report.Stats.LeftEntries)},
		{"Right entries", count(report.Stats.RightEntries)},
		{"Common entries", count(report.Stats.CommonEntries)},
		{"Only in left", count(len(r.LeftOnly))},
		{"Only in right", count(len(r.RightOnly))},
		{"Differing (metadata)", count(len(r.DifferingByMetadata))},
		{"Differing (hash)", count(len(r.DifferingByHash))},
		{"Oversized", count(len(r.Oversized))},
		{"Read errors", count(len(r.Errors))},
		{"Files hashed", count(report.Stats.FilesHashed)},
		{"Data hashed", humanize.IBytes(uint64(report.Stats.BytesHashed))},
	}
}
