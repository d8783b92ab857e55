package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/dircompare/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	writer io.Writer
}

// JSONReportData is the document written for a finished comparison
type JSONReportData struct {
	OperationID string                   `json:"operation_id"`
	LeftPath    string                   `json:"left_path"`
	RightPath   string                   `json:"right_path"`
	Algorithm   string                   `json:"algorithm"`
	SizeCeiling int64                    `json:"size_ceiling"`
	Status      string                   `json:"status"`
	Error       string                   `json:"error,omitempty"`
	StartTime   string                   `json:"start_time"`
	Duration    string                   `json:"duration"`
	DurationMs  int64                    `json:"duration_ms"`
	Stats       JSONStatsData            `json:"stats"`
	Result      *models.ComparisonResult `json:"result,omitempty"`
	Differences []models.Difference      `json:"differences,omitempty"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	LeftEntries   int    `json:"left_entries"`
	RightEntries  int    `json:"right_entries"`
	CommonEntries int    `json:"common_entries"`
	FilesHashed   int    `json:"files_hashed"`
	BytesHashed   int64  `json:"bytes_hashed"`
	DataHashed    string `json:"data_hashed"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, totalFiles int) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	return nil
}

// Progress is ignored to keep the output a single parseable document
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the report as one indented JSON document
func (f *JSONFormatter) Complete(report *models.CompareReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	return writeReportJSON(report, f.writer)
}

// Error is folded into the final report
func (f *JSONFormatter) Error(err error) error {
	return nil
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func toJSONReport(report *models.CompareReport) JSONReportData {
	data := JSONReportData{
		OperationID: report.OperationID,
		LeftPath:    report.LeftPath,
		RightPath:   report.RightPath,
		Algorithm:   string(report.Algorithm),
		SizeCeiling: report.SizeCeiling,
		Status:      string(report.Status),
		Error:       report.Error,
		StartTime:   report.StartTime.Format(time.RFC3339),
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			LeftEntries:   report.Stats.LeftEntries,
			RightEntries:  report.Stats.RightEntries,
			CommonEntries: report.Stats.CommonEntries,
			FilesHashed:   report.Stats.FilesHashed,
			BytesHashed:   report.Stats.BytesHashed,
			DataHashed:    formatBytes(report.Stats.BytesHashed),
		},
		Result: report.Result,
	}
	if report.Result != nil {
		data.Differences = report.Result.Differences()
	}
	return data
}

func writeReportJSON(report *models.CompareReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toJSONReport(report))
}
