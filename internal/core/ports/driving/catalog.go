package driving

import (
	"image"

	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driven"
)

// Catalog is the background set: the sources it draws from and the
// backgrounds derived from their originals.
//
// Indices returned by AddSource and reported for backgrounds stay valid
// until that element is removed.
type Catalog interface {
	// Name returns the display name of the set, if set.
	Name() (string, bool)

	// SetName sets the display name.
	SetName(name string)

	// ImageFolder returns the backing folder of the set, if set.
	ImageFolder() (string, bool)

	// SetImageFolder sets the backing folder.
	SetImageFolder(path string)

	// AddSource registers a source and returns its stable index.
	AddSource(source driven.ErasedSource) int

	// RemoveSource removes a source and every background derived from it.
	RemoveSource(index int) error

	// Source returns the source at index.
	Source(index int) (driven.ErasedSource, error)

	// SourceIndices returns the live source indices.
	SourceIndices() []int

	// Reload runs one reconciliation pass over every source.
	Reload() (*ReloadReport, error)

	// Background returns the background at index for reading and writing.
	Background(index int) (*domain.Background, error)

	// FindByID returns the index of the background with the given ID.
	FindByID(id string) (int, error)

	// Visible returns background indices in order, hiding excluded ones
	// unless includeExcluded is set.
	Visible(includeExcluded bool) []int

	// RemoveBackground removes a background from the catalog.
	RemoveBackground(index int) error

	// SetExcluded sets or clears the excluded flag of a background.
	SetExcluded(index int, excluded bool) error

	// ReadImage reads the original image of a background.
	ReadImage(index int) (image.Image, error)

	// EditCropRegion returns the clipped crop region of a background for a
	// window with the aspect of cropSize.
	EditCropRegion(index int, cropSize domain.Vec2) (*domain.CropRegion, error)

	// Close releases resources held by sources.
	Close() error
}

// ReloadReport summarises one reconciliation pass.
type ReloadReport struct {
	// Sources is the number of sources reloaded.
	Sources int

	// Created is the number of backgrounds created.
	Created int

	// Updated is the number of backgrounds refreshed from altered originals.
	Updated int

	// Missing is the number of backgrounds whose original was deleted.
	Missing int

	// Unavailable is the number of backgrounds whose original became unreachable.
	Unavailable int

	// Unmatched is the number of events that matched no tracked background.
	Unmatched int
}

// Events returns the number of events applied.
func (r *ReloadReport) Events() int {
	return r.Created + r.Updated + r.Missing + r.Unavailable + r.Unmatched
}
