package models

import (
	"time"
)

// HashAlgorithm names the digest used for content comparison
type HashAlgorithm string

const (
	// HashSHA256 is the default algorithm
	HashSHA256 HashAlgorithm = "sha256"
	// HashSHA512 trades speed for a longer digest
	HashSHA512 HashAlgorithm = "sha512"
	// HashMD5 is faster but not collision resistant
	HashMD5 HashAlgorithm = "md5"
)

const (
	// DefaultSizeCeiling is the largest file size, per side, that is hashed (100 MiB)
	DefaultSizeCeiling int64 = 100 * 1024 * 1024
	// DefaultChunkSize is the read size used when streaming a file through the hash
	DefaultChunkSize = 8192
	// MinChunkSize and MaxChunkSize bound the read size, and with it the hashing buffer
	MinChunkSize = 512
	MaxChunkSize = 1024 * 1024
)

// CompareOperation represents a directory comparison request
type CompareOperation struct {
	ID              string
	LeftPath        string
	RightPath       string
	Algorithm       HashAlgorithm
	SizeCeiling     int64
	ChunkSize       int
	ExcludePatterns []string
	BandwidthLimit  int64 // bytes per second, 0 = unlimited
	CreatedAt       time.Time
}

// Validate checks if the operation configuration is valid
func (op *CompareOperation) Validate() error {
	if op.LeftPath == "" {
		return &ValidationError{Field: "LeftPath", Message: "left path is required"}
	}
	if op.RightPath == "" {
		return &ValidationError{Field: "RightPath", Message: "right path is required"}
	}
	switch op.Algorithm {
	case HashSHA256, HashSHA512, HashMD5:
	default:
		return &ValidationError{Field: "Algorithm", Message: "unsupported hash algorithm: " + string(op.Algorithm)}
	}
	if op.SizeCeiling < 1 {
		return &ValidationError{Field: "SizeCeiling", Message: "size ceiling must be positive"}
	}
	if op.ChunkSize < MinChunkSize || op.ChunkSize > MaxChunkSize {
		return &ValidationError{Field: "ChunkSize", Message: "chunk size must be between 512 bytes and 1 MiB"}
	}
	if op.BandwidthLimit < 0 {
		return &ValidationError{Field: "BandwidthLimit", Message: "bandwidth limit cannot be negative"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
