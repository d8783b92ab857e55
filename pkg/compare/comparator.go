package compare

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"

	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Options configures a DirectoryComparator
type Options struct {
	Algorithm       models.HashAlgorithm
	SizeCeiling     int64 // largest file size hashed, per side
	ChunkSize       int
	ExcludePatterns []string
}

// DefaultOptions returns SHA-256 hashing of files up to 100 MiB in 8 KiB chunks
func DefaultOptions() Options {
	return Options{
		Algorithm:   models.HashSHA256,
		SizeCeiling: models.DefaultSizeCeiling,
		ChunkSize:   models.DefaultChunkSize,
	}
}

// EventType identifies a progress event emitted during hashCompare
type EventType string

const (
	EventHashStart    EventType = "hash_start"
	EventHashProgress EventType = "hash_progress"
	EventHashComplete EventType = "hash_complete"
	EventOversized    EventType = "oversized"
	EventReadError    EventType = "read_error"
)

// Event reports progress on one common file
type Event struct {
	Type    EventType
	Name    string
	Index   int // 1-based position among common files
	Total   int
	Current int64 // bytes hashed so far for EventHashProgress, both sides for EventHashComplete
	Size    int64
	Notice  string
	Err     error
}

// DirectoryComparator compares the immediate contents of two directories.
// It is not safe for concurrent use; a single call processes entries sequentially.
type DirectoryComparator struct {
	options  Options
	hasher   *Hasher
	logger   logging.Logger
	progress func(Event)
}

// NewDirectoryComparator creates a comparator, rejecting unknown algorithms and bad exclude patterns
func NewDirectoryComparator(options Options) (*DirectoryComparator, error) {
	if options.Algorithm == "" {
		options.Algorithm = models.HashSHA256
	}
	if options.SizeCeiling <= 0 {
		options.SizeCeiling = models.DefaultSizeCeiling
	}
	if options.ChunkSize <= 0 {
		options.ChunkSize = models.DefaultChunkSize
	}
	if err := validatePatterns(options.ExcludePatterns); err != nil {
		return nil, err
	}

	hasher, err := NewHasher(options.Algorithm, options.ChunkSize)
	if err != nil {
		return nil, err
	}

	return &DirectoryComparator{
		options: options,
		hasher:  hasher,
		logger:  logging.NewNullLogger(),
	}, nil
}

// SetLogger sets the logger used for notices and per-entry failures
func (c *DirectoryComparator) SetLogger(logger logging.Logger) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	c.logger = logger
}

// SetProgressCallback sets a callback receiving per-file events
func (c *DirectoryComparator) SetProgressCallback(callback func(Event)) {
	c.progress = callback
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *DirectoryComparator) SetReaderWrapper(wrapper ReaderWrapper) {
	c.hasher.SetReaderWrapper(wrapper)
}

// Options returns the effective options
func (c *DirectoryComparator) Options() Options {
	return c.options
}

// Validate checks that both paths are given and name existing directories
func (c *DirectoryComparator) Validate(leftPath, rightPath string) error {
	return ValidatePaths(leftPath, rightPath)
}

// ValidatePaths checks that both paths are given and name existing directories.
// Emptiness is checked before any filesystem access.
func ValidatePaths(leftPath, rightPath string) error {
	if strings.TrimSpace(leftPath) == "" || strings.TrimSpace(rightPath) == "" {
		return ErrMissingInput
	}

	for _, path := range []string{leftPath, rightPath} {
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		if err != nil {
			return fmt.Errorf("failed to access %s: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotDirectory, path)
		}
	}

	return nil
}

// Scan lists both directories without recursion, partitions names and applies the metadata pre-filter
func (c *DirectoryComparator) Scan(ctx context.Context, left, right storage.Backend) (*models.ComparisonResult, error) {
	leftIndex, err := c.listing(ctx, left)
	if err != nil {
		return nil, fmt.Errorf("failed to list left directory: %w", err)
	}
	rightIndex, err := c.listing(ctx, right)
	if err != nil {
		return nil, fmt.Errorf("failed to list right directory: %w", err)
	}

	if len(leftIndex) == 0 && len(rightIndex) == 0 {
		return nil, ErrNoFilesToCompare
	}

	leftNames := nameSet(leftIndex)
	rightNames := nameSet(rightIndex)

	result := &models.ComparisonResult{
		LeftPath:            left.Root(),
		RightPath:           right.Root(),
		LeftOnly:            leftNames.Difference(rightNames).ToSlice(),
		RightOnly:           rightNames.Difference(leftNames).ToSlice(),
		Common:              leftNames.Intersect(rightNames).ToSlice(),
		CommonFiles:         []string{},
		CommonDirs:          []string{},
		DifferingByMetadata: []string{},
		DifferingByHash:     []string{},
	}

	for _, name := range result.Common {
		l, r := leftIndex[name], rightIndex[name]
		switch {
		case l.IsDir && r.IsDir:
			result.CommonDirs = append(result.CommonDirs, name)
		case l.IsDir != r.IsDir:
			result.CommonMismatched = append(result.CommonMismatched, name)
			result.DifferingByMetadata = append(result.DifferingByMetadata, name)
		default:
			result.CommonFiles = append(result.CommonFiles, name)
			if metadataDiffers(l, r) {
				result.DifferingByMetadata = append(result.DifferingByMetadata, name)
			}
		}
	}

	result.Sort()

	c.logger.Debug(ctx, "Scanned directories", logging.Fields{
		"left_only":  len(result.LeftOnly),
		"right_only": len(result.RightOnly),
		"common":     len(result.Common),
		"metadata":   len(result.DifferingByMetadata),
	})

	return result, nil
}

// HashCompare hashes every common file on both sides and returns a new result
// with DifferingByHash, Oversized and Errors filled in. The scanned result is not modified.
// Only cancellation of ctx makes it return an error.
func (c *DirectoryComparator) HashCompare(ctx context.Context, left, right storage.Backend, scanned *models.ComparisonResult) (*models.ComparisonResult, error) {
	result := cloneResult(scanned)
	result.DifferingByHash = []string{}
	result.Oversized = nil
	result.Errors = nil

	total := len(result.CommonFiles)
	for i, name := range result.CommonFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome, err := c.compareEntry(ctx, left, right, name, i+1, total)
		if err != nil {
			var readErr *ReadError
			if !errors.As(err, &readErr) {
				return nil, err
			}
			result.Errors = append(result.Errors, readErr.entryError())
			c.logger.Error(ctx, "Failed to read file", readErr.Err, logging.Fields{
				"name": name,
				"side": string(readErr.Side),
			})
			c.emit(Event{Type: EventReadError, Name: name, Index: i + 1, Total: total, Err: readErr})
			continue
		}

		switch outcome {
		case outcomeOversized:
			result.Oversized = append(result.Oversized, name)
		case outcomeDiffers:
			result.DifferingByHash = append(result.DifferingByHash, name)
		}
	}

	result.Sort()
	return result, nil
}

// Compare runs validate, scan and hashCompare, stopping at the first classified failure
func (c *DirectoryComparator) Compare(ctx context.Context, leftPath, rightPath string) (*models.ComparisonResult, error) {
	if err := c.Validate(leftPath, rightPath); err != nil {
		return nil, err
	}

	left, err := storage.NewLocal(leftPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open left directory: %w", err)
	}
	defer left.Close()

	right, err := storage.NewLocal(rightPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open right directory: %w", err)
	}
	defer right.Close()

	scanned, err := c.Scan(ctx, left, right)
	if err != nil {
		return nil, err
	}

	return c.HashCompare(ctx, left, right, scanned)
}

type entryOutcome int

const (
	outcomeSame entryOutcome = iota
	outcomeDiffers
	outcomeOversized
)

// compareEntry handles one common file. Per-entry failures are returned as *ReadError.
func (c *DirectoryComparator) compareEntry(ctx context.Context, left, right storage.Backend, name string, index, total int) (entryOutcome, error) {
	leftInfo, err := left.Stat(ctx, name)
	if err != nil {
		return outcomeSame, &ReadError{Name: name, Side: models.SideLeft, Err: err}
	}
	rightInfo, err := right.Stat(ctx, name)
	if err != nil {
		return outcomeSame, &ReadError{Name: name, Side: models.SideRight, Err: err}
	}

	if leftInfo.Size > c.options.SizeCeiling || rightInfo.Size > c.options.SizeCeiling {
		notice := SizeLimitNotice(name, c.options.SizeCeiling)
		c.logger.Warn(ctx, notice, logging.Fields{
			"name":       name,
			"left_size":  leftInfo.Size,
			"right_size": rightInfo.Size,
			"limit":      c.options.SizeCeiling,
		})
		c.emit(Event{
			Type:   EventOversized,
			Name:   name,
			Index:  index,
			Total:  total,
			Size:   max(leftInfo.Size, rightInfo.Size),
			Notice: notice,
		})
		return outcomeOversized, nil
	}

	size := leftInfo.Size + rightInfo.Size
	c.emit(Event{Type: EventHashStart, Name: name, Index: index, Total: total, Size: size})

	var hashed int64
	c.hasher.SetProgressCallback(nil)
	if c.progress != nil {
		c.hasher.SetProgressCallback(func(_ string, current, _ int64) {
			c.emit(Event{Type: EventHashProgress, Name: name, Index: index, Total: total, Current: hashed + current, Size: size})
		})
	}

	leftDigest, n, err := c.hasher.Hash(ctx, left, name, leftInfo.Size)
	if err != nil {
		return outcomeSame, c.hashError(ctx, name, models.SideLeft, err)
	}
	hashed += n

	rightDigest, n, err := c.hasher.Hash(ctx, right, name, rightInfo.Size)
	if err != nil {
		return outcomeSame, c.hashError(ctx, name, models.SideRight, err)
	}
	hashed += n

	c.emit(Event{Type: EventHashComplete, Name: name, Index: index, Total: total, Current: hashed, Size: size})

	if leftDigest != rightDigest {
		c.logger.Info(ctx, "Files differ", logging.Fields{
			"name":      name,
			"algorithm": string(c.hasher.Algorithm()),
		})
		return outcomeDiffers, nil
	}
	return outcomeSame, nil
}

// hashError keeps cancellation fatal and turns everything else into a per-entry failure
func (c *DirectoryComparator) hashError(ctx context.Context, name string, side models.Side, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &ReadError{Name: name, Side: side, Err: err}
}

func (c *DirectoryComparator) emit(event Event) {
	if c.progress != nil {
		c.progress(event)
	}
}

// listing returns the non-excluded entries of a directory keyed by name
func (c *DirectoryComparator) listing(ctx context.Context, backend storage.Backend) (map[string]storage.FileInfo, error) {
	entries, err := backend.List(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]storage.FileInfo, len(entries))
	for _, entry := range entries {
		if shouldExclude(entry, c.options.ExcludePatterns) {
			continue
		}
		index[entry.Name] = entry
	}
	return index, nil
}

// SizeLimitNotice is the message reported for a file skipped by the size ceiling
func SizeLimitNotice(name string, ceiling int64) string {
	return fmt.Sprintf("File size exceeds the maximum limit (%s): %s", humanize.IBytes(uint64(ceiling)), name)
}

func nameSet(index map[string]storage.FileInfo) mapset.Set[string] {
	names := mapset.NewThreadUnsafeSet[string]()
	for name := range index {
		names.Add(name)
	}
	return names
}

func cloneResult(r *models.ComparisonResult) *models.ComparisonResult {
	clone := *r
	clone.LeftOnly = append([]string{}, r.LeftOnly...)
	clone.RightOnly = append([]string{}, r.RightOnly...)
	clone.Common = append([]string{}, r.Common...)
	clone.CommonFiles = append([]string{}, r.CommonFiles...)
	clone.CommonDirs = append([]string{}, r.CommonDirs...)
	clone.DifferingByMetadata = append([]string{}, r.DifferingByMetadata...)
	if r.CommonMismatched != nil {
		clone.CommonMismatched = append([]string{}, r.CommonMismatched...)
	}
	return &clone
}
