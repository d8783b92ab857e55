package config

import (
	"github.com/sdejongh/dircompare/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	Algorithm   models.HashAlgorithm `yaml:"algorithm"`
	SizeCeiling int64                `yaml:"size_ceiling"` // bytes, per file per side
}

// PerformanceConfig holds I/O settings
type PerformanceConfig struct {
	ChunkSize      int   `yaml:"chunk_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"` // bytes per second, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show a progress bar while hashing
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	File   string `yaml:"file"`   // Log file path (empty = no log file)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Algorithm:   models.HashSHA256,
			SizeCeiling: models.DefaultSizeCeiling,
		},
		Performance: PerformanceConfig{
			ChunkSize:      models.DefaultChunkSize,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: false,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
			File:   "",
		},
		Exclude: []string{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Compare.Algorithm {
	case models.HashSHA256, models.HashSHA512, models.HashMD5:
	default:
		return &models.ValidationError{
			Field:   "compare.algorithm",
			Message: "must be 'sha256', 'sha512', or 'md5'",
		}
	}

	if c.Compare.SizeCeiling < 1 {
		return &models.ValidationError{
			Field:   "compare.size_ceiling",
			Message: "must be at least 1 byte",
		}
	}

	if c.Performance.ChunkSize < models.MinChunkSize || c.Performance.ChunkSize > models.MaxChunkSize {
		return &models.ValidationError{
			Field:   "performance.chunk_size",
			Message: "must be between 512 bytes and 1 MiB",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "cannot be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
