package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// rotatingFile is an append-mode log file rotated by size into path.1 ... path.N
type rotatingFile struct {
	path       string
	file       *os.File
	size       int64
	maxSize    int64
	maxBackups int
}

// NewFileLogger creates a logger appending to a file, creating parent directories as needed
func NewFileLogger(config FileLoggerConfig) (*StreamLogger, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	rf := &rotatingFile{
		path:       config.Path,
		file:       file,
		size:       info.Size(),
		maxSize:    config.MaxSize,
		maxBackups: config.MaxBackups,
	}

	return &StreamLogger{
		sink: &sink{
			writer: file,
			format: config.Format,
			level:  config.Level,
			file:   rf,
		},
	}, nil
}

func (f *rotatingFile) writer() io.Writer {
	if f.file == nil {
		return nil
	}
	return f.file
}

func (f *rotatingFile) needsRotation() bool {
	return f.maxSize > 0 && f.size >= f.maxSize
}

// rotate shifts backups up by one and reopens an empty file
func (f *rotatingFile) rotate() {
	if f.file == nil {
		return
	}
	f.file.Close()
	f.file = nil

	for i := f.maxBackups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", f.path, i), fmt.Sprintf("%s.%d", f.path, i+1))
	}
	os.Rename(f.path, f.path+".1")

	if f.maxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", f.path, f.maxBackups+1))
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	f.file = file
	f.size = 0
}

func (f *rotatingFile) close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
