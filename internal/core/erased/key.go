package erased

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driven"
)

// codec implements domain.KeyCodec for one concrete key type.
type codec[K driven.SourceKey[K]] struct {
	typ reflect.Type
}

func newCodec[K driven.SourceKey[K]]() codec[K] {
	return codec[K]{typ: reflect.TypeFor[K]()}
}

// KeyType returns the concrete key type.
func (c codec[K]) KeyType() reflect.Type {
	return c.typ
}

// Compare decodes both values as K and relates them.
func (c codec[K]) Compare(a, b []byte) domain.KeyRelation {
	ka, err := decode[K](a)
	if err != nil {
		return domain.Distinct
	}
	kb, err := decode[K](b)
	if err != nil {
		return domain.Distinct
	}
	return ka.CompareKey(kb)
}

// Hash hashes the decoded key's identity. Undecodable values relate to
// nothing, so hashing their raw bytes is consistent.
func (c codec[K]) Hash(value []byte) uint64 {
	k, err := decode[K](value)
	if err != nil {
		return xxhash.Sum64(value)
	}
	d := xxhash.New()
	k.WriteHash(d)
	return d.Sum64()
}

func decode[K any](value []byte) (K, error) {
	var k K
	err := msgpack.Unmarshal(value, &k)
	return k, err
}

// NewKey erases a source-specific key.
func NewKey[K driven.SourceKey[K]](key K) (domain.OriginalKey, error) {
	value, err := msgpack.Marshal(key)
	if err != nil {
		return domain.OriginalKey{}, fmt.Errorf("encode %T: %w", key, err)
	}
	return domain.NewOriginalKey(value, newCodec[K]()), nil
}

// MustKey is like NewKey but panics if the key cannot be encoded.
// Source key types must always be encodable.
func MustKey[K driven.SourceKey[K]](key K) domain.OriginalKey {
	k, err := NewKey(key)
	if err != nil {
		panic(err)
	}
	return k
}

// DecodeKey recovers the concrete key from an erased key. It reports false
// when the key was built from another key type or cannot be decoded.
func DecodeKey[K driven.SourceKey[K]](key domain.OriginalKey) (K, bool) {
	var zero K
	if key.KeyType() != reflect.TypeFor[K]() {
		return zero, false
	}
	k, err := decode[K](key.Bytes())
	if err != nil {
		return zero, false
	}
	return k, true
}
