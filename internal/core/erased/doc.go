// Package erased adapts typed sources to the uniform form the catalog holds.
//
// A source-specific key is encoded with msgpack, a self-describing format,
// and bound to a codec built for its concrete type. The codec compares and
// hashes by decoding back into that type, so the catalog can store and
// relate keys of any source without knowing their types and without a
// global registry of source kinds.
package erased
