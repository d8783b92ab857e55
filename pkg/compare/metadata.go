package compare

import "github.com/sdejongh/dircompare/pkg/storage"

// metadataDiffers is the cheap pre-filter: size or modification time disagree
func metadataDiffers(left, right storage.FileInfo) bool {
	return left.Size != right.Size || !left.ModTime.Equal(right.ModTime)
}
