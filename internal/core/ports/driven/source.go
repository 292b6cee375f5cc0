package driven

import (
	"io"

	"github.com/custodia-labs/dbgm/internal/core/domain"
)

// SourceKey is the contract every source-specific key type satisfies.
// Keys must also survive a msgpack round trip, so exported fields (or
// msgpack tags) carry all of their identity.
type SourceKey[K any] interface {
	// CompareKey relates the key to another key of the same type.
	CompareKey(other K) domain.KeyRelation

	// WriteHash writes the key's identity to w. Keys that do not compare
	// Distinct must write identical bytes.
	WriteHash(w io.Writer)
}

// TypedChange is a change event as a concrete source reports it.
type TypedChange[K any, E error] struct {
	// Key identifies the affected original.
	Key K

	// Kind is the kind of change.
	Kind domain.ChangeKind

	// Err describes why the original is unreachable. Set only for ChangeUnavailable.
	Err E
}

// Source is a concrete backing store of originals (a folder, an album, ...).
// K is the source's key type, O its original type and E its error type.
//
// Sources own their remembered state exclusively; the catalog never reads it.
type Source[K SourceKey[K], O domain.Original, E error] interface {
	// Name returns the source display name.
	Name() string

	// Original looks up an original by key without mutating the source.
	Original(key K) (O, domain.Lookup)

	// Reload scans the backing store and returns exactly one event for every
	// original whose state changed since the previous Reload (or since
	// construction, for the first call).
	Reload() []TypedChange[K, E]
}

// ErasedSource exposes a Source through uniformly typed signatures so the
// catalog can hold sources of any key, original and error type.
type ErasedSource interface {
	// Name returns the source display name.
	Name() string

	// Original resolves an erased key. Keys of a foreign key type yield
	// LookupWrongSource rather than an error.
	Original(key domain.OriginalKey) (domain.Original, domain.Lookup)

	// Reload delegates to the concrete source and erases every event.
	Reload() []domain.Change
}
