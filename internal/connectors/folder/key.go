package folder

import (
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/dbgm/internal/core/domain"
)

// FileKey identifies a file by absolute path and records the modification
// time (unix nanoseconds) and size it had when observed.
type FileKey struct {
	Path    string `msgpack:"path"`
	ModTime int64  `msgpack:"mtime"`
	Size    int64  `msgpack:"size"`
}

func keyFromInfo(path string, info os.FileInfo) FileKey {
	return FileKey{Path: path, ModTime: info.ModTime().UnixNano(), Size: info.Size()}
}

// CompareKey relates two file keys. Same path with the same modification
// time and size is the same original; same path otherwise means the file
// was rewritten.
func (k FileKey) CompareKey(other FileKey) domain.KeyRelation {
	switch {
	case k.Path != other.Path:
		return domain.Distinct
	case k.ModTime == other.ModTime && k.Size == other.Size:
		return domain.SameOriginal
	default:
		return domain.ContentMismatch
	}
}

// WriteHash writes the path only, so rewritten files hash like their
// previous observation.
func (k FileKey) WriteHash(w io.Writer) {
	_, _ = io.WriteString(w, k.Path)
}

// fingerprint is the dimension cache key of the observed content.
func (k FileKey) fingerprint() string {
	return fmt.Sprintf("%s|%d|%d", k.Path, k.ModTime, k.Size)
}
