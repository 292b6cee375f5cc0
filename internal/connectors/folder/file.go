package folder

import (
	"bufio"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Decoders registered with the image package.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driven"
)

var (
	_ domain.Original    = (*File)(nil)
	_ domain.Dimensioner = (*File)(nil)
)

// File is an image file in a folder source.
type File struct {
	path  string
	cache driven.DimensionCache
}

// Name returns the file name without extension.
func (f *File) Name() string {
	base := filepath.Base(f.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Location returns the absolute path of the file.
func (f *File) Location() string {
	return f.path
}

// ReadImage decodes the file.
func (f *File) ReadImage() (image.Image, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, &ScanError{Path: f.path, Op: "open", Err: err}
	}
	defer fh.Close()

	img, _, err := image.Decode(bufio.NewReader(fh))
	if err != nil {
		return nil, &ScanError{Path: f.path, Op: "decode", Err: err}
	}
	return img, nil
}

// Dimensions returns the pixel size of the image, decoding only its header.
// Sizes are cached by path, modification time and size.
func (f *File) Dimensions() (domain.Size, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return domain.Size{}, &ScanError{Path: f.path, Op: "stat", Err: err}
	}
	fp := keyFromInfo(f.path, info).fingerprint()

	if f.cache != nil {
		if size, ok := f.cache.Get(fp); ok {
			return size, nil
		}
	}

	fh, err := os.Open(f.path)
	if err != nil {
		return domain.Size{}, &ScanError{Path: f.path, Op: "open", Err: err}
	}
	defer fh.Close()

	cfg, _, err := image.DecodeConfig(bufio.NewReader(fh))
	if err != nil {
		return domain.Size{}, &ScanError{Path: f.path, Op: "decode", Err: err}
	}
	size := domain.Size{W: uint32(cfg.Width), H: uint32(cfg.Height)}

	if f.cache != nil {
		if err := f.cache.Put(fp, size); err != nil {
			log.Warn("Failed to cache dimensions of %s: %v", f.path, err)
		}
	}
	return size, nil
}
