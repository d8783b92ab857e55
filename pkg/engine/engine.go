package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/output"
	"github.com/sdejongh/dircompare/pkg/ratelimit"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Engine orchestrates one comparison run
type Engine struct {
	operation *models.CompareOperation
	formatter output.Formatter
	logger    logging.Logger
	writer    io.Writer

	started bool
}

// NewEngine creates a new comparison engine writing formatter output to writer
func NewEngine(
	operation *models.CompareOperation,
	formatter output.Formatter,
	logger logging.Logger,
	writer io.Writer,
) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Engine{
		operation: operation,
		formatter: formatter,
		logger:    logger,
		writer:    writer,
	}
}

// Run executes the comparison and returns its report.
// The report is returned even when the comparison fails, with StatusFailed set.
func (e *Engine) Run(ctx context.Context) (*models.CompareReport, error) {
	op := e.operation
	report := &models.CompareReport{
		OperationID: op.ID,
		LeftPath:    op.LeftPath,
		RightPath:   op.RightPath,
		Algorithm:   op.Algorithm,
		SizeCeiling: op.SizeCeiling,
		StartTime:   time.Now(),
	}

	logger := e.logger.WithFields(logging.Fields{"operation_id": op.ID})
	logger.Info(ctx, "Starting comparison", logging.Fields{
		"left":      op.LeftPath,
		"right":     op.RightPath,
		"algorithm": string(op.Algorithm),
		"max_size":  op.SizeCeiling,
	})

	result, err := e.run(ctx, logger, report)
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Result = result
	report.Status = models.StatusFor(result)

	if err != nil {
		report.Status = models.StatusFailed
		report.Error = err.Error()
		logger.Error(ctx, "Comparison failed", err, nil)
	} else {
		logger.Info(ctx, "Comparison completed", logging.Fields{
			"duration":     report.Duration.String(),
			"status":       string(report.Status),
			"files_hashed": report.Stats.FilesHashed,
			"bytes_hashed": report.Stats.BytesHashed,
			"differing":    len(result.DifferingByHash),
			"oversized":    len(result.Oversized),
			"errors":       len(result.Errors),
		})
	}

	if e.formatter != nil {
		if !e.started {
			e.started = true
			if ferr := e.formatter.Start(e.writer, 0); ferr != nil {
				logger.Warn(ctx, "Failed to start output", logging.Fields{"error": ferr.Error()})
			}
		}
		if err != nil {
			e.formatter.Error(err)
		}
		if ferr := e.formatter.Complete(report); ferr != nil {
			logger.Warn(ctx, "Failed to write report", logging.Fields{"error": ferr.Error()})
		}
	}

	return report, err
}

func (e *Engine) run(ctx context.Context, logger logging.Logger, report *models.CompareReport) (*models.ComparisonResult, error) {
	op := e.operation
	if err := compare.ValidatePaths(op.LeftPath, op.RightPath); err != nil {
		return nil, err
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}

	comparator, err := compare.NewDirectoryComparator(compare.Options{
		Algorithm:       op.Algorithm,
		SizeCeiling:     op.SizeCeiling,
		ChunkSize:       op.ChunkSize,
		ExcludePatterns: op.ExcludePatterns,
	})
	if err != nil {
		return nil, err
	}
	comparator.SetLogger(logger)

	if limiter := ratelimit.NewLimiter(op.BandwidthLimit); limiter != nil {
		comparator.SetReaderWrapper(func(rc io.ReadCloser) io.ReadCloser {
			return ratelimit.NewReadCloser(ctx, rc, limiter)
		})
		logger.Debug(ctx, "Bandwidth limit enabled", logging.Fields{"bytes_per_second": op.BandwidthLimit})
	}

	left, err := storage.NewLocal(op.LeftPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open left directory: %w", err)
	}
	defer left.Close()

	right, err := storage.NewLocal(op.RightPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open right directory: %w", err)
	}
	defer right.Close()

	logger.Info(ctx, "Scanning directories", nil)
	scanned, err := comparator.Scan(ctx, left, right)
	if err != nil {
		return nil, err
	}

	report.Stats.LeftEntries = len(scanned.LeftOnly) + len(scanned.Common)
	report.Stats.RightEntries = len(scanned.RightOnly) + len(scanned.Common)
	report.Stats.CommonEntries = len(scanned.Common)

	if e.formatter != nil {
		e.started = true
		if err := e.formatter.Start(e.writer, len(scanned.CommonFiles)); err != nil {
			return nil, fmt.Errorf("failed to start output: %w", err)
		}
	}

	comparator.SetProgressCallback(func(event compare.Event) {
		if event.Type == compare.EventHashComplete {
			report.Stats.FilesHashed++
			report.Stats.BytesHashed += event.Current
		}
		if e.formatter != nil {
			e.formatter.Progress(toProgressUpdate(event))
		}
	})

	logger.Info(ctx, "Hashing common files", logging.Fields{"files": len(scanned.CommonFiles)})
	return comparator.HashCompare(ctx, left, right, scanned)
}

func toProgressUpdate(event compare.Event) output.ProgressUpdate {
	update := output.ProgressUpdate{
		Name:        event.Name,
		BytesHashed: event.Current,
		TotalBytes:  event.Size,
		CurrentFile: event.Index,
		TotalFiles:  event.Total,
		Notice:      event.Notice,
		Error:       event.Err,
	}

	switch event.Type {
	case compare.EventHashStart:
		update.Type = output.UpdateHashStart
	case compare.EventHashProgress:
		update.Type = output.UpdateHashProgress
	case compare.EventHashComplete:
		update.Type = output.UpdateHashComplete
	case compare.EventOversized:
		update.Type = output.UpdateOversized
	case compare.EventReadError:
		update.Type = output.UpdateReadError
	}
	return update
}
