package services

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/google/uuid"

	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driven"
	"github.com/custodia-labs/dbgm/internal/core/ports/driving"
	"github.com/custodia-labs/dbgm/internal/logger"
	"github.com/custodia-labs/dbgm/internal/stablevec"
)

// Ensure Catalog implements the interface.
var _ driving.Catalog = (*Catalog)(nil)

var log = logger.New("catalog")

// keySlot buckets backgrounds by owning source and original key hash.
type keySlot struct {
	source int
	hash   uint64
}

// Catalog owns a set of sources and the backgrounds derived from their
// originals, and reconciles the two whenever sources report changes.
//
// A Catalog is not safe for concurrent use. A reconciliation pass runs to
// completion before control returns to the caller.
type Catalog struct {
	name        *string
	imageFolder *string
	sources     *stablevec.Vec[driven.ErasedSource]
	backgrounds *stablevec.Vec[*domain.Background]
	byKey       map[keySlot][]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		sources:     stablevec.New[driven.ErasedSource](),
		backgrounds: stablevec.New[*domain.Background](),
		byKey:       make(map[keySlot][]int),
	}
}

// Name returns the display name of the set, if set.
func (c *Catalog) Name() (string, bool) {
	if c.name == nil {
		return "", false
	}
	return *c.name, true
}

// SetName sets the display name.
func (c *Catalog) SetName(name string) {
	c.name = &name
}

// ImageFolder returns the backing folder of the set, if set.
func (c *Catalog) ImageFolder() (string, bool) {
	if c.imageFolder == nil {
		return "", false
	}
	return *c.imageFolder, true
}

// SetImageFolder sets the backing folder.
func (c *Catalog) SetImageFolder(path string) {
	c.imageFolder = &path
}

// AddSource registers a source and returns its stable index.
// Backgrounds for its originals appear on the next Reload.
func (c *Catalog) AddSource(source driven.ErasedSource) int {
	index := c.sources.Push(source)
	log.Debug("Added source %d (%s)", index, source.Name())
	return index
}

// RemoveSource removes a source and every background derived from it.
// Indices of other sources and backgrounds are unaffected.
func (c *Catalog) RemoveSource(index int) error {
	source, ok := c.sources.Remove(index)
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrSourceNotFound, index)
	}

	removed := c.backgrounds.Retain(func(_ int, b *domain.Background) bool {
		return b.Source != index
	})
	for slot := range c.byKey {
		if slot.source == index {
			delete(c.byKey, slot)
		}
	}
	log.Debug("Removed source %d (%s) and %d backgrounds", index, source.Name(), len(removed))

	if closer, ok := source.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warn("Failed to close source %s: %v", source.Name(), err)
		}
	}
	return nil
}

// Source returns the source at index.
func (c *Catalog) Source(index int) (driven.ErasedSource, error) {
	source, ok := c.sources.Get(index)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrSourceNotFound, index)
	}
	return source, nil
}

// SourceIndices returns the live source indices.
func (c *Catalog) SourceIndices() []int {
	return c.sources.Indices()
}

// Reload runs one reconciliation pass: every source is reloaded in index
// order and its events are folded into the catalog in the order reported.
//
// An event whose key cannot be resolved by its own source, or an alteration
// against an unrelated background, aborts the pass with an error.
func (c *Catalog) Reload() (*driving.ReloadReport, error) {
	report := &driving.ReloadReport{}

	for index, source := range c.sources.All() {
		report.Sources++
		changes := source.Reload()
		if len(changes) == 0 {
			continue
		}

		log.Info("Reconciling %d changes from source %d (%s)", len(changes), index, source.Name())
		for _, change := range changes {
			if err := c.apply(index, source, change, report); err != nil {
				return report, fmt.Errorf("reconcile source %s: %w", source.Name(), err)
			}
		}
	}

	return report, nil
}

// apply folds one change event into the catalog.
func (c *Catalog) apply(
	sourceIndex int,
	source driven.ErasedSource,
	change domain.Change,
	report *driving.ReloadReport,
) error {
	log.Debug("Applying %s change from source %d", change.Kind, sourceIndex)

	switch change.Kind {
	case domain.ChangeNew:
		// A key already tracked (a duplicate New within this pass, or an
		// original reappearing after deletion) refreshes the existing entry.
		if bi, ok := c.match(sourceIndex, change.Key); ok {
			report.Updated++
			return c.refresh(source, bi, change.Key)
		}
		return c.create(sourceIndex, source, change.Key, report)

	case domain.ChangeDeleted:
		bi, ok := c.match(sourceIndex, change.Key)
		if !ok {
			report.Unmatched++
			log.Debug("Deleted original matches no background")
			return nil
		}
		b, _ := c.backgrounds.Get(bi)
		b.Flags |= domain.FlagOriginalMissing
		report.Missing++
		return nil

	case domain.ChangeAltered:
		bi, ok := c.match(sourceIndex, change.Key)
		if !ok {
			report.Unmatched++
			log.Warn("Altered original matches no background in source %s", source.Name())
			return nil
		}
		report.Updated++
		return c.refresh(source, bi, change.Key)

	case domain.ChangeUnavailable:
		bi, ok := c.match(sourceIndex, change.Key)
		if !ok {
			report.Unmatched++
			log.Warn("Unavailable original matches no background: %v", change.Err)
			return nil
		}
		b, _ := c.backgrounds.Get(bi)
		b.MarkUnavailable()
		report.Unavailable++
		log.Warn("Original unavailable: %s: %v", b.Location, change.Err)
		return nil

	default:
		return fmt.Errorf("%w: change kind %d", domain.ErrInvalidInput, change.Kind)
	}
}

// create adds a background for a newly discovered original.
func (c *Catalog) create(
	sourceIndex int,
	source driven.ErasedSource,
	key domain.OriginalKey,
	report *driving.ReloadReport,
) error {
	original, lookup := source.Original(key)
	switch {
	case lookup == domain.LookupWrongSource:
		return fmt.Errorf("%w: new original", domain.ErrUnresolvableKey)
	case !lookup.Found():
		report.Unmatched++
		log.Debug("New original vanished before it could be catalogued")
		return nil
	}

	b := domain.NewBackground(uuid.NewString(), sourceIndex, key, original)
	bi := c.backgrounds.Push(b)
	c.indexAdd(sourceIndex, key, bi)
	report.Created++
	log.Debug("Created background %d: %s (%s)", bi, b.Name, b.Meta)
	return nil
}

// refresh updates a background from the live original behind key.
func (c *Catalog) refresh(source driven.ErasedSource, bi int, key domain.OriginalKey) error {
	b, _ := c.backgrounds.Get(bi)
	original, lookup := source.Original(key)

	switch {
	case lookup == domain.LookupWrongSource:
		return fmt.Errorf("%w: %s", domain.ErrUnresolvableKey, b.Location)
	case lookup.Found():
		oldKey := b.Original
		if err := b.UpdateFrom(key, original); err != nil {
			return err
		}
		c.indexRemove(b.Source, oldKey, bi)
		c.indexAdd(b.Source, key, bi)
		b.Flags &^= domain.FlagOriginalMissing
	default:
		b.MarkUnavailable()
	}
	return nil
}

// match finds the background of a source tracking the original behind key.
// An exact SameOriginal match wins over a ContentMismatch one.
func (c *Catalog) match(sourceIndex int, key domain.OriginalKey) (int, bool) {
	best := -1
	for _, bi := range c.byKey[keySlot{source: sourceIndex, hash: key.Hash()}] {
		b, ok := c.backgrounds.Get(bi)
		if !ok {
			continue
		}
		switch key.Compare(b.Original) {
		case domain.SameOriginal:
			return bi, true
		case domain.ContentMismatch:
			if best < 0 {
				best = bi
			}
		}
	}
	return best, best >= 0
}

func (c *Catalog) indexAdd(sourceIndex int, key domain.OriginalKey, bi int) {
	slot := keySlot{source: sourceIndex, hash: key.Hash()}
	c.byKey[slot] = append(c.byKey[slot], bi)
}

func (c *Catalog) indexRemove(sourceIndex int, key domain.OriginalKey, bi int) {
	slot := keySlot{source: sourceIndex, hash: key.Hash()}
	bucket := c.byKey[slot]
	for i, v := range bucket {
		if v == bi {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(c.byKey, slot)
		return
	}
	c.byKey[slot] = bucket
}

// Background returns the background at index for reading and writing.
func (c *Catalog) Background(index int) (*domain.Background, error) {
	b, ok := c.backgrounds.Get(index)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrBackgroundNotFound, index)
	}
	return b, nil
}

// FindByID returns the index of the background with the given ID.
func (c *Catalog) FindByID(id string) (int, error) {
	for index, b := range c.backgrounds.All() {
		if b.ID == id {
			return index, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", domain.ErrBackgroundNotFound, id)
}

// Visible returns background indices in order. Excluded backgrounds are
// hidden unless includeExcluded is set.
func (c *Catalog) Visible(includeExcluded bool) []int {
	var out []int
	for index, b := range c.backgrounds.All() {
		if !includeExcluded && b.Flags.Has(domain.FlagExcluded) {
			continue
		}
		out = append(out, index)
	}
	return out
}

// RemoveBackground removes a background from the catalog. If its original
// is still present, the source will not report it again until it changes.
func (c *Catalog) RemoveBackground(index int) error {
	b, ok := c.backgrounds.Remove(index)
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrBackgroundNotFound, index)
	}
	c.indexRemove(b.Source, b.Original, index)
	return nil
}

// SetExcluded sets or clears the excluded flag of a background.
func (c *Catalog) SetExcluded(index int, excluded bool) error {
	b, err := c.Background(index)
	if err != nil {
		return err
	}
	if excluded {
		b.Flags |= domain.FlagExcluded
	} else {
		b.Flags &^= domain.FlagExcluded
	}
	return nil
}

// ReadImage reads the original image of a background through its source.
// A failed read marks the background unavailable; its cached size is kept.
//
// A lookup that finds the original with different content returns the image
// without touching the background: only reload events update entries.
func (c *Catalog) ReadImage(index int) (image.Image, error) {
	b, err := c.Background(index)
	if err != nil {
		return nil, err
	}
	source, err := c.Source(b.Source)
	if err != nil {
		return nil, err
	}

	original, lookup := source.Original(b.Original)
	switch {
	case lookup == domain.LookupWrongSource:
		return nil, fmt.Errorf("%w: %s", domain.ErrWrongSource, b.Location)
	case !lookup.Found():
		b.MarkUnavailable()
		return nil, fmt.Errorf("%w: %s", domain.ErrOriginalUnavailable, b.Location)
	}

	img, err := b.TryReadImageFrom(original)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrOriginalUnavailable, err)
	}
	return img, nil
}

// EditCropRegion returns the clipped crop region of a background.
func (c *Catalog) EditCropRegion(index int, cropSize domain.Vec2) (*domain.CropRegion, error) {
	b, err := c.Background(index)
	if err != nil {
		return nil, err
	}
	return b.EditCropRegion(cropSize)
}

// Close closes every source that holds resources.
func (c *Catalog) Close() error {
	var errs []error
	for _, source := range c.sources.All() {
		if closer, ok := source.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", source.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
