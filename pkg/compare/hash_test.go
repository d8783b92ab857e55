package compare

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

func TestHasher(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "dircompare-hash-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	content := []byte(strings.Repeat("0123456789", 5000))
	if err := os.WriteFile(filepath.Join(tempDir, "data.bin"), content, 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	backend, err := storage.NewLocal(tempDir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	ctx := context.Background()

	sha256Sum := sha256.Sum256(content)
	sha512Sum := sha512.Sum512(content)
	md5Sum := md5.Sum(content)

	tests := []struct {
		algorithm models.HashAlgorithm
		want      string
	}{
		{models.HashSHA256, hex.EncodeToString(sha256Sum[:])},
		{models.HashSHA512, hex.EncodeToString(sha512Sum[:])},
		{models.HashMD5, hex.EncodeToString(md5Sum[:])},
	}

	for _, tt := range tests {
		t.Run(string(tt.algorithm), func(t *testing.T) {
			hasher, err := NewHasher(tt.algorithm, models.DefaultChunkSize)
			if err != nil {
				t.Fatalf("NewHasher() error = %v", err)
			}

			digest, n, err := hasher.Hash(ctx, backend, "data.bin", int64(len(content)))
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if digest != tt.want {
				t.Errorf("Hash() = %s, want %s", digest, tt.want)
			}
			if n != int64(len(content)) {
				t.Errorf("Hash() read %d bytes, want %d", n, len(content))
			}
		})
	}

	t.Run("ChunkedReads", func(t *testing.T) {
		hasher, err := NewHasher(models.HashSHA256, models.DefaultChunkSize)
		if err != nil {
			t.Fatalf("NewHasher() error = %v", err)
		}

		var maxRead int
		hasher.SetReaderWrapper(func(rc io.ReadCloser) io.ReadCloser {
			return &sizeRecorder{ReadCloser: rc, max: &maxRead}
		})

		if _, _, err := hasher.Hash(ctx, backend, "data.bin", int64(len(content))); err != nil {
			t.Fatalf("Hash() error = %v", err)
		}
		if maxRead != models.DefaultChunkSize {
			t.Errorf("largest read = %d, want %d", maxRead, models.DefaultChunkSize)
		}
	})

	t.Run("ProgressReachesTotal", func(t *testing.T) {
		hasher, err := NewHasher(models.HashSHA256, models.DefaultChunkSize)
		if err != nil {
			t.Fatalf("NewHasher() error = %v", err)
		}

		var last int64
		hasher.SetProgressCallback(func(name string, current, total int64) {
			last = current
		})

		if _, _, err := hasher.Hash(ctx, backend, "data.bin", int64(len(content))); err != nil {
			t.Fatalf("Hash() error = %v", err)
		}
		if last != int64(len(content)) {
			t.Errorf("final progress = %d, want %d", last, len(content))
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		hasher, _ := NewHasher(models.HashSHA256, models.DefaultChunkSize)
		if _, _, err := hasher.Hash(ctx, backend, "missing.bin", 0); err == nil {
			t.Error("Hash() should fail for a missing file")
		}
	})

	t.Run("MinimumChunkSize", func(t *testing.T) {
		hasher, _ := NewHasher(models.HashSHA256, 1)
		if hasher.ChunkSize() != models.MinChunkSize {
			t.Errorf("ChunkSize() = %d, want %d", hasher.ChunkSize(), models.MinChunkSize)
		}
	})

	t.Run("MaximumChunkSize", func(t *testing.T) {
		hasher, _ := NewHasher(models.HashSHA256, 4<<30)
		if hasher.ChunkSize() != models.MaxChunkSize {
			t.Errorf("ChunkSize() = %d, want %d", hasher.ChunkSize(), models.MaxChunkSize)
		}
	})

	t.Run("UnknownAlgorithm", func(t *testing.T) {
		if _, err := NewHasher("whirlpool", models.DefaultChunkSize); err == nil {
			t.Error("NewHasher() should fail for an unknown algorithm")
		}
	})
}

func TestSupportedAlgorithms(t *testing.T) {
	got := strings.Join(SupportedAlgorithms(), ",")
	if got != "md5,sha256,sha512" {
		t.Errorf("SupportedAlgorithms() = %s, want md5,sha256,sha512", got)
	}
}

type sizeRecorder struct {
	io.ReadCloser
	max *int
}

func (r *sizeRecorder) Read(p []byte) (int, error) {
	if len(p) > *r.max {
		*r.max = len(p)
	}
	return r.ReadCloser.Read(p)
}
