package domain

import (
	"fmt"
	"image"
	"strings"
)

// Flags is the set of state flags of a background.
type Flags uint32

const (
	// FlagUnedited means the background has not been edited since its
	// original last changed.
	FlagUnedited Flags = 1 << iota

	// FlagOriginalMissing means the source reported the original deleted.
	FlagOriginalMissing

	// FlagExcluded means the user excluded the background; it is hidden by default.
	FlagExcluded
)

// Has reports whether all bits of f are set.
func (fl Flags) Has(f Flags) bool { return fl&f == f }

// String lists the set flags, e.g. "unedited|excluded".
func (fl Flags) String() string {
	var parts []string
	if fl.Has(FlagUnedited) {
		parts = append(parts, "unedited")
	}
	if fl.Has(FlagOriginalMissing) {
		parts = append(parts, "missing")
	}
	if fl.Has(FlagExcluded) {
		parts = append(parts, "excluded")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "|")
}

// MetaState tells whether a background's original could be read.
type MetaState int

const (
	// MetaUnavailable means the original could not be read on the last attempt.
	MetaUnavailable MetaState = iota

	// MetaKnown means the original was read and its size is current.
	MetaKnown
)

// OriginalMeta caches what was last observed about a background's original.
// The last known size survives unavailability.
type OriginalMeta struct {
	State   MetaState
	size    Size
	hasSize bool
}

// KnownMeta returns metadata for a readable original of the given size.
func KnownMeta(size Size) OriginalMeta {
	return OriginalMeta{State: MetaKnown, size: size, hasSize: true}
}

// UnavailableMeta returns metadata for an unreadable original. lastKnown may be nil.
func UnavailableMeta(lastKnown *Size) OriginalMeta {
	if lastKnown == nil {
		return OriginalMeta{State: MetaUnavailable}
	}
	return OriginalMeta{State: MetaUnavailable, size: *lastKnown, hasSize: true}
}

// LoadMeta derives metadata from an original, carrying the last known size of
// old forward if the original cannot be read.
func LoadMeta(o Original, old *OriginalMeta) OriginalMeta {
	if size, err := OriginalSize(o); err == nil {
		return KnownMeta(size)
	}
	if old == nil {
		return UnavailableMeta(nil)
	}
	return old.Unavailable()
}

// LastKnownSize returns the size currently known or last known.
func (m OriginalMeta) LastKnownSize() (Size, bool) {
	return m.size, m.hasSize
}

// Unavailable returns the unavailable form of m, keeping its last known size.
func (m OriginalMeta) Unavailable() OriginalMeta {
	return OriginalMeta{State: MetaUnavailable, size: m.size, hasSize: m.hasSize}
}

// String returns a short description.
func (m OriginalMeta) String() string {
	switch {
	case m.State == MetaKnown:
		return m.size.String()
	case m.hasSize:
		return "unavailable (" + m.size.String() + ")"
	default:
		return "unavailable"
	}
}

// Background is a catalog entry tracking one original over time.
type Background struct {
	// ID is a stable identifier that outlives index reuse in external references.
	ID string

	// Name is the display name; the user may change it.
	Name string

	// Location is where the original lives.
	Location string

	// Comments are user notes.
	Comments []string

	// Source is the catalog index of the owning source.
	Source int

	// Original identifies the tracked original within its source.
	Original OriginalKey

	// Flags holds the background's state flags.
	Flags Flags

	// Meta caches availability and size of the original.
	Meta OriginalMeta

	edit *EditInfo
}

// NewBackground creates a background from an original.
func NewBackground(id string, source int, key OriginalKey, o Original) *Background {
	return &Background{
		ID:       id,
		Name:     o.Name(),
		Location: o.Location(),
		Source:   source,
		Original: key,
		Flags:    FlagUnedited,
		Meta:     LoadMeta(o, nil),
	}
}

// UpdateFrom refreshes the background after its original changed. The key
// must relate to the current key; otherwise ErrKeyMismatch is returned.
// When the effective size changes, edit state is dropped and the background
// becomes unedited again.
func (b *Background) UpdateFrom(key OriginalKey, o Original) error {
	if rel := key.Compare(b.Original); rel == Distinct {
		return fmt.Errorf("%w: %s", ErrKeyMismatch, b.Location)
	}
	b.Name = o.Name()
	b.Location = o.Location()
	b.Original = key
	lastSize, hadSize := b.Meta.LastKnownSize()
	b.Meta = LoadMeta(o, &b.Meta)
	size, hasSize := b.Meta.LastKnownSize()
	if size != lastSize || hasSize != hadSize {
		b.edit = nil
		b.Flags |= FlagUnedited
	}
	return nil
}

// IsUnavailable reports whether the original could not be read last time.
func (b *Background) IsUnavailable() bool {
	return b.Meta.State == MetaUnavailable
}

// MarkUnavailable records that the original cannot be read, keeping the
// last known size.
func (b *Background) MarkUnavailable() {
	b.Meta = b.Meta.Unavailable()
}

// TryReadImageFrom reads the image of o, which must be this background's
// original. A failed read marks the background unavailable.
func (b *Background) TryReadImageFrom(o Original) (image.Image, error) {
	img, err := o.ReadImage()
	if err != nil {
		b.MarkUnavailable()
		return nil, err
	}
	return img, nil
}

// EditInfo returns a copy of the edit state, if any.
func (b *Background) EditInfo() (EditInfo, bool) {
	if b.edit == nil {
		return EditInfo{}, false
	}
	return *b.edit, true
}

// IsEdited reports whether the background has edit state.
func (b *Background) IsEdited() bool {
	return b.edit != nil
}

// EditCropRegion returns the crop region of the background for a window of
// cropSize, creating default edit state on first use. It fails with
// ErrOriginalUnavailable unless the original's size is currently known.
func (b *Background) EditCropRegion(cropSize Vec2) (*CropRegion, error) {
	if b.Meta.State != MetaKnown {
		return nil, fmt.Errorf("%w: %s", ErrOriginalUnavailable, b.Location)
	}
	size, _ := b.Meta.LastKnownSize()
	tex := size.Vec2()
	created := false
	if b.edit == nil {
		b.edit = &EditInfo{Center: tex.Scale(0.5).Add(Vec2{0.5, 0.5}), Scale: 1}
		created = true
	}
	region, err := NewCropRegion(cropSize, tex, b.edit)
	if err != nil {
		if created {
			b.edit = nil
		}
		return nil, err
	}
	region.onEdit = func() { b.Flags &^= FlagUnedited }
	return region, nil
}
