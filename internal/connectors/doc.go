// Package connectors holds the concrete sources that originals can be
// discovered from. Each subpackage implements driven.Source for one kind of
// backing store (currently a local folder) and exposes an erased form the
// catalog can hold next to sources of other kinds.
package connectors
