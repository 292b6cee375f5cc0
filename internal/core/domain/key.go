package domain

import "reflect"

// KeyRelation is the result of comparing two original keys.
type KeyRelation int

const (
	// Distinct means the keys denote unrelated originals.
	Distinct KeyRelation = iota

	// SameOriginal means the keys denote the same original with the same content.
	SameOriginal

	// ContentMismatch means the keys denote the same original but its content
	// has changed between the two observations.
	ContentMismatch
)

// SameIdentity reports whether the relation denotes the same logical original,
// regardless of content.
func (r KeyRelation) SameIdentity() bool {
	return r == SameOriginal || r == ContentMismatch
}

// String returns the string representation.
func (r KeyRelation) String() string {
	switch r {
	case SameOriginal:
		return "same_original"
	case ContentMismatch:
		return "content_mismatch"
	case Distinct:
		return "distinct"
	default:
		return "unknown"
	}
}

// KeyCodec carries the behaviour of one concrete key type across the erasure
// boundary. A codec is constructed once per concrete key type and bound to
// every OriginalKey built from that type.
type KeyCodec interface {
	// KeyType identifies the concrete key type the codec was built for.
	KeyType() reflect.Type

	// Compare decodes both encoded values and compares them with the
	// concrete type's own relation. Undecodable values compare Distinct.
	Compare(a, b []byte) KeyRelation

	// Hash returns a hash of the encoded value. Values that do not compare
	// Distinct must hash equal.
	Hash(value []byte) uint64
}

// OriginalKey is a type-erased, immutable identity token for an original.
// It wraps the self-describing encoding of a source-specific key together
// with the codec of that key's type.
type OriginalKey struct {
	value []byte
	codec KeyCodec
}

// NewOriginalKey binds an encoded key value to its codec.
// The value is copied; the returned key never changes.
func NewOriginalKey(value []byte, codec KeyCodec) OriginalKey {
	v := make([]byte, len(value))
	copy(v, value)
	return OriginalKey{value: v, codec: codec}
}

// IsZero reports whether the key was never initialised.
func (k OriginalKey) IsZero() bool {
	return k.codec == nil
}

// Compare relates two keys. Keys built from different concrete key types
// are always Distinct.
func (k OriginalKey) Compare(other OriginalKey) KeyRelation {
	if k.codec == nil || other.codec == nil {
		return Distinct
	}
	if k.codec.KeyType() != other.codec.KeyType() {
		return Distinct
	}
	return k.codec.Compare(k.value, other.value)
}

// Equal reports whether the keys compare SameOriginal.
func (k OriginalKey) Equal(other OriginalKey) bool {
	return k.Compare(other) == SameOriginal
}

// Hash returns the key's hash as defined by its concrete type.
func (k OriginalKey) Hash() uint64 {
	if k.codec == nil {
		return 0
	}
	return k.codec.Hash(k.value)
}

// Bytes returns a copy of the encoded key value.
func (k OriginalKey) Bytes() []byte {
	v := make([]byte, len(k.value))
	copy(v, k.value)
	return v
}

// KeyType returns the concrete key type the key was built from, or nil for
// the zero key.
func (k OriginalKey) KeyType() reflect.Type {
	if k.codec == nil {
		return nil
	}
	return k.codec.KeyType()
}
