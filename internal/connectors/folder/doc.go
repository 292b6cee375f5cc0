// Package folder implements an image source backed by a local directory tree.
//
// Originals are regular files matching the configured doublestar patterns.
// A file is identified by its absolute path; its modification time and size
// record the content it had when last scanned.
//
// Scans are debounced: with watching enabled an fsnotify watcher marks the
// folder dirty and clean folders are not walked, and a rate limiter bounds
// how often a walk may happen at all.
package folder
