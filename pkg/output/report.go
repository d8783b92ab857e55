package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/sdejongh/dircompare/pkg/models"
)

// WriteReport writes the comparison report to a file.
// Format can be "human" or "json"; an empty path writes to stdout.
func WriteReport(report *models.CompareReport, path string, format string) (err error) {
	var write func(*models.CompareReport, io.Writer) error
	switch format {
	case "json":
		write = writeReportJSON
	case "human", "":
		write = writeReportHuman
	default:
		return fmt.Errorf("unsupported report format: %s (use: human, json)", format)
	}

	if path == "" {
		return write(report, os.Stdout)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()

	return write(report, file)
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
