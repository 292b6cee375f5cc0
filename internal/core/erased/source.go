package erased

import (
	"io"

	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driven"
)

// source adapts a typed Source to driven.ErasedSource.
type source[K driven.SourceKey[K], O domain.Original, E error] struct {
	src driven.Source[K, O, E]
}

// Erase wraps a typed source so it can be held alongside sources of other types.
func Erase[K driven.SourceKey[K], O domain.Original, E error](src driven.Source[K, O, E]) driven.ErasedSource {
	return &source[K, O, E]{src: src}
}

// Name returns the source display name.
func (s *source[K, O, E]) Name() string {
	return s.src.Name()
}

// Original decodes the key and delegates the lookup. A key of another type
// is reported as LookupWrongSource so callers can try a different source.
func (s *source[K, O, E]) Original(key domain.OriginalKey) (domain.Original, domain.Lookup) {
	k, ok := DecodeKey[K](key)
	if !ok {
		return nil, domain.LookupWrongSource
	}
	o, lookup := s.src.Original(k)
	if !lookup.Found() {
		return nil, lookup
	}
	return o, lookup
}

// Reload delegates to the typed source, erasing every key and flattening
// every error to diagnostic text.
func (s *source[K, O, E]) Reload() []domain.Change {
	changes := s.src.Reload()
	if len(changes) == 0 {
		return nil
	}
	out := make([]domain.Change, 0, len(changes))
	for _, c := range changes {
		change := domain.Change{
			Key:  MustKey(c.Key),
			Kind: c.Kind,
		}
		if c.Kind == domain.ChangeUnavailable {
			change.Err = domain.NewSourceError(s.src.Name(), c.Err)
		}
		out = append(out, change)
	}
	return out
}

// Close closes the typed source if it holds resources.
func (s *source[K, O, E]) Close() error {
	if c, ok := any(s.src).(io.Closer); ok {
		return c.Close()
	}
	return nil
}
