package compare

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// ReaderWrapper wraps readers before hashing (e.g., for rate limiting)
type ReaderWrapper func(io.ReadCloser) io.ReadCloser


var hashAlgorithms = map[models.HashAlgorithm]func() hash.Hash{
	models.HashSHA256: sha256.New,
	models.HashSHA512: sha512.New,
	models.HashMD5:    md5.New,
}

// SupportedAlgorithms returns the names of all registered hash algorithms
func SupportedAlgorithms() []string {
	names := make([]string, 0, len(hashAlgorithms))
	for name := range hashAlgorithms {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// Hasher streams files through a digest in fixed-size chunks.
// Memory use is bounded by one pooled chunk buffer per concurrent call.
type Hasher struct {
	algorithm      models.HashAlgorithm
	newHash        func() hash.Hash
	chunkSize      int
	bufferPool     *sync.Pool
	progressReport func(name string, current, total int64) // Optional progress callback
	readerWrapper  ReaderWrapper
}

// NewHasher creates a hasher for the named algorithm
func NewHasher(algorithm models.HashAlgorithm, chunkSize int) (*Hasher, error) {
	newHash, ok := hashAlgorithms[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm: %s", algorithm)
	}
	if chunkSize < models.MinChunkSize {
		chunkSize = models.MinChunkSize
	}
	if chunkSize > models.MaxChunkSize {
		chunkSize = models.MaxChunkSize
	}
	return &Hasher{
		algorithm: algorithm,
		newHash:   newHash,
		chunkSize: chunkSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, chunkSize)
				return &buf
			},
		},
	}, nil
}

// Hash computes the digest of one entry and returns it hex encoded with the number of bytes read.
// The reader is closed before Hash returns, on every path.
func (h *Hasher) Hash(ctx context.Context, backend storage.Backend, name string, size int64) (string, int64, error) {
	reader, err := backend.Read(ctx, name)
	if err != nil {
		return "", 0, err
	}
	if h.readerWrapper != nil {
		reader = h.readerWrapper(reader)
	}
	defer reader.Close()

	hasher := h.newHash()

	bufPtr := h.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer h.bufferPool.Put(bufPtr)

	const (
		progressReportInterval = 50 * time.Millisecond
		progressReportBytes    = 64 * 1024
	)
	var totalRead int64
	var lastReported int64
	lastReportTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return "", totalRead, ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
			totalRead += int64(n)

			if h.progressReport != nil &&
				(totalRead-lastReported >= progressReportBytes || time.Since(lastReportTime) >= progressReportInterval) {
				h.progressReport(name, totalRead, size)
				lastReported = totalRead
				lastReportTime = time.Now()
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", totalRead, fmt.Errorf("failed to read file: %w", err)
		}
	}

	if h.progressReport != nil && totalRead > lastReported {
		h.progressReport(name, totalRead, size)
	}

	return hex.EncodeToString(hasher.Sum(nil)), totalRead, nil
}

// SetProgressCallback sets a callback for progress reporting during hash calculation
func (h *Hasher) SetProgressCallback(callback func(name string, current, total int64)) {
	h.progressReport = callback
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (h *Hasher) SetReaderWrapper(wrapper ReaderWrapper) {
	h.readerWrapper = wrapper
}

// Algorithm returns the digest name
func (h *Hasher) Algorithm() models.HashAlgorithm {
	return h.algorithm
}

// ChunkSize returns the read size used per chunk
func (h *Hasher) ChunkSize() int {
	return h.chunkSize
}
