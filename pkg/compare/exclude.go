package compare

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sdejongh/dircompare/pkg/storage"
)

// validatePatterns rejects malformed glob patterns up front so matching never fails silently
func validatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if _, err := filepath.Match(strings.TrimSuffix(pattern, "/"), ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// shouldExclude checks if an entry should be dropped from a listing.
// Patterns match the base name only:
//   - Simple glob patterns: *.tmp, .DS_Store
//   - Directory patterns: .git/, node_modules/ (match directories only)
func shouldExclude(entry storage.FileInfo, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		if strings.HasSuffix(pattern, "/") {
			if !entry.IsDir {
				continue
			}
			pattern = strings.TrimSuffix(pattern, "/")
		}

		if matched, _ := filepath.Match(pattern, entry.Name); matched {
			return true
		}
	}

	return false
}
