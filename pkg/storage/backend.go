package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a directory entry
type FileInfo struct {
	Name        string
	Path        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	Permissions uint32
}

// Backend defines the read-only operations a comparison needs from one directory.
// Names passed to Backend methods are base names of immediate children.
type Backend interface {
	// List returns the immediate entries of the root directory, sorted by name
	List(ctx context.Context) ([]FileInfo, error)

	// Read opens an entry for reading
	Read(ctx context.Context, name string) (io.ReadCloser, error)

	// Exists checks if an entry exists
	Exists(ctx context.Context, name string) (bool, error)

	// Stat returns entry metadata
	Stat(ctx context.Context, name string) (*FileInfo, error)

	// Root returns the absolute path of the directory
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
