package driven

import "github.com/custodia-labs/dbgm/internal/core/domain"

// DimensionCache remembers the pixel size of image files by fingerprint, so
// unchanged originals are not decoded again.
// Fingerprints change whenever the file content may have changed.
type DimensionCache interface {
	// Get returns the cached size for a fingerprint.
	Get(fingerprint string) (domain.Size, bool)

	// Put stores the size for a fingerprint.
	Put(fingerprint string, size domain.Size) error

	// Forget removes a fingerprint.
	Forget(fingerprint string) error
}
