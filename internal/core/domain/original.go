package domain

import "image"

// Original is a discoverable unit of content (an image) owned by a source.
// Implementations must be safe to call repeatedly; failures are recoverable.
type Original interface {
	// ReadImage decodes the original's content.
	ReadImage() (image.Image, error)

	// Name returns a display name.
	Name() string

	// Location returns a human-readable location (file path, URL, etc).
	Location() string
}

// Dimensioner is an optional capability of an Original that can report its
// pixel dimensions without decoding the whole image.
type Dimensioner interface {
	Dimensions() (Size, error)
}

// OriginalSize returns the dimensions of an original, preferring Dimensioner.
func OriginalSize(o Original) (Size, error) {
	if d, ok := o.(Dimensioner); ok {
		return d.Dimensions()
	}
	img, err := o.ReadImage()
	if err != nil {
		return Size{}, err
	}
	b := img.Bounds()
	return Size{W: uint32(b.Dx()), H: uint32(b.Dy())}, nil
}

// Lookup is the outcome of resolving a key against a source.
type Lookup int

const (
	// LookupNotFound means the key belongs to the source but no live original matches.
	LookupNotFound Lookup = iota

	// LookupOriginal means the original was found and its content matches the key.
	LookupOriginal

	// LookupContentMismatch means the original was found but its content
	// differs from what the key recorded.
	LookupContentMismatch

	// LookupWrongSource means the key cannot belong to the queried source.
	LookupWrongSource
)

// Found reports whether an original was returned alongside the lookup.
func (l Lookup) Found() bool {
	return l == LookupOriginal || l == LookupContentMismatch
}

// String returns the string representation.
func (l Lookup) String() string {
	switch l {
	case LookupOriginal:
		return "original"
	case LookupContentMismatch:
		return "content_mismatch"
	case LookupWrongSource:
		return "wrong_source"
	case LookupNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ChangeKind is the kind of change a source reports for an original.
type ChangeKind int

const (
	// ChangeNew indicates a newly discovered original.
	ChangeNew ChangeKind = iota

	// ChangeDeleted indicates a previously known original has disappeared.
	ChangeDeleted

	// ChangeAltered indicates a known original's content changed while its
	// identity was preserved.
	ChangeAltered

	// ChangeUnavailable indicates an original cannot be reached, perhaps
	// temporarily.
	ChangeUnavailable
)

// String returns the string representation.
func (c ChangeKind) String() string {
	switch c {
	case ChangeNew:
		return "new"
	case ChangeDeleted:
		return "deleted"
	case ChangeAltered:
		return "altered"
	case ChangeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Change is a type-erased change event reported by a source.
type Change struct {
	// Key identifies the original within its source.
	Key OriginalKey

	// Kind is the kind of change.
	Kind ChangeKind

	// Err is set for ChangeUnavailable. It is always a *SourceError.
	Err error
}
