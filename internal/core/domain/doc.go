// Package domain defines the core business entities for dbgm.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - OriginalKey: A type-erased identity token for an original
//   - Original: An image discovered by a source
//   - Change: A change event reported by a source
//   - Background: A catalog entry tracking one original
//   - CropRegion: The clamped crop window of an edited background
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
