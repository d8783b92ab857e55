package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dircompare/internal/platform"
	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/config"
	"github.com/sdejongh/dircompare/pkg/engine"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/output"
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	Left         string
	Right        string
	Algorithm    string
	MaxSize      string
	ChunkSize    string
	Bandwidth    string
	Exclude      []string
	Output       string
	Report       string
	ReportFormat string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var compareFlags CompareFlags

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [LEFT RIGHT]",
		Short: "Compare the contents of two directories",
		Long: `Compare the immediate entries of two directories and report names found
on one side only, common files whose size or modification time differ, and
common files whose content hashes differ. Subdirectories are not descended into.

Exit codes: 0 identical, 1 different, 2 failed, 3 completed with read errors.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().StringVarP(&compareFlags.Left, "left", "l", "", "first directory")
	cmd.Flags().StringVarP(&compareFlags.Right, "right", "r", "", "second directory")

	cmd.Flags().StringVar(&compareFlags.Algorithm, "algorithm", "", "hash algorithm: "+strings.Join(compare.SupportedAlgorithms(), ", ")+" (default sha256)")
	cmd.Flags().StringVar(&compareFlags.MaxSize, "max-size", "", "largest file hashed, per side (e.g. \"100MiB\")")
	cmd.Flags().StringVar(&compareFlags.ChunkSize, "chunk-size", "", "read size while hashing (e.g. \"8KiB\")")
	cmd.Flags().StringVarP(&compareFlags.Bandwidth, "bandwidth", "b", "", "read bandwidth limit (e.g. \"10MB\")")
	cmd.Flags().StringSliceVar(&compareFlags.Exclude, "exclude", []string{}, "glob patterns to exclude (a trailing / matches directories only)")
	cmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&compareFlags.Report, "report", "", "also write the report to a file")
	cmd.Flags().StringVar(&compareFlags.ReportFormat, "report-format", "human", "report file format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&compareFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&compareFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&compareFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) > 0 && compareFlags.Left == "" {
		compareFlags.Left = args[0]
	}
	if len(args) > 1 && compareFlags.Right == "" {
		compareFlags.Right = args[1]
	}

	// Load configuration
	cfg, err := config.Load(globalFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyFlagsToConfig(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	operation, err := createCompareOperation(cfg)
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg.Logging, cmd.Flags().Changed("log-level"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	formatter, err := output.NewFormatter(cfg.Output.Format, cfg.Output.Progress)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if cfg.Output.Quiet {
		out = io.Discard
	}

	report, _ := engine.NewEngine(operation, formatter, logger, out).Run(ctx)

	// Failures are still printed in quiet mode
	if report.Status == models.StatusFailed && cfg.Output.Quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", report.Error)
	}

	// Write report file if requested
	if compareFlags.Report != "" {
		if err := output.WriteReport(report, compareFlags.Report, compareFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if code := report.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) error {
	if compareFlags.Algorithm != "" {
		cfg.Compare.Algorithm = models.HashAlgorithm(strings.ToLower(compareFlags.Algorithm))
	}

	if compareFlags.MaxSize != "" {
		size, err := parseSize("max-size", compareFlags.MaxSize)
		if err != nil {
			return err
		}
		cfg.Compare.SizeCeiling = size
	}

	if compareFlags.ChunkSize != "" {
		size, err := parseSize("chunk-size", compareFlags.ChunkSize)
		if err != nil {
			return err
		}
		cfg.Performance.ChunkSize = int(size)
	}

	if compareFlags.Bandwidth != "" {
		limit, err := parseSize("bandwidth", compareFlags.Bandwidth)
		if err != nil {
			return err
		}
		cfg.Performance.BandwidthLimit = limit
	}

	// Exclude patterns
	if len(compareFlags.Exclude) > 0 {
		cfg.Exclude = compareFlags.Exclude
	}

	// Output format
	if compareFlags.Output != "" {
		cfg.Output.Format = compareFlags.Output
	}

	// Logging
	if compareFlags.LogFile != "" {
		cfg.Logging.File = compareFlags.LogFile
	}
	if compareFlags.LogFormat != "" {
		cfg.Logging.Format = compareFlags.LogFormat
	}
	if compareFlags.LogLevel != "" {
		cfg.Logging.Level = compareFlags.LogLevel
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	// Enable progress in verbose mode
	if globalFlags.Verbose && !globalFlags.Quiet {
		cfg.Output.Progress = true
	}

	return nil
}

// parseSize parses a human-readable byte count such as "100MiB" or "10MB"
func parseSize(flag, value string) (int64, error) {
	size, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s value %q: %w", flag, value, err)
	}
	if size > uint64(1<<62) {
		return 0, fmt.Errorf("invalid --%s value %q: too large", flag, value)
	}
	return int64(size), nil
}

// createCompareOperation creates a compare operation from configuration
func createCompareOperation(cfg *config.Config) (*models.CompareOperation, error) {
	left, err := normalizeInput(compareFlags.Left)
	if err != nil {
		return nil, err
	}
	right, err := normalizeInput(compareFlags.Right)
	if err != nil {
		return nil, err
	}

	return &models.CompareOperation{
		ID:              uuid.New().String(),
		LeftPath:        left,
		RightPath:       right,
		Algorithm:       cfg.Compare.Algorithm,
		SizeCeiling:     cfg.Compare.SizeCeiling,
		ChunkSize:       cfg.Performance.ChunkSize,
		ExcludePatterns: cfg.Exclude,
		BandwidthLimit:  cfg.Performance.BandwidthLimit,
		CreatedAt:       time.Now(),
	}, nil
}

// normalizeInput cleans a user-supplied path, leaving blank input blank
// so that the comparator reports it as missing.
func normalizeInput(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	if err := platform.ValidatePath(path); err != nil {
		return "", err
	}
	return platform.NormalizePath(path), nil
}

// createLogger creates a logger based on configuration.
// Without a log file, logs go to stderr only when a level was asked for explicitly.
func createLogger(cfg config.LoggingConfig, levelRequested bool) (logging.Logger, error) {
	format := logging.ParseFormat(cfg.Format)
	level := logging.ParseLevel(cfg.Level)

	if cfg.File == "" {
		if !levelRequested {
			return logging.NewNullLogger(), nil
		}
		return logging.NewStreamLogger(os.Stderr, format, level), nil
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.File,
		Format:     format,
		Level:      level,
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
}
