package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent catalog and source failures.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Catalog Errors.

	// ErrSourceNotFound indicates a source index does not refer to a live source.
	ErrSourceNotFound = errors.New("source not found")

	// ErrBackgroundNotFound indicates a background index does not refer to a live background.
	ErrBackgroundNotFound = errors.New("background not found")

	// ErrOriginalUnavailable indicates a background's original cannot currently be read.
	ErrOriginalUnavailable = errors.New("original unavailable")

	// Key Errors.

	// ErrWrongSource indicates a key was resolved against a source that cannot own it.
	ErrWrongSource = errors.New("key belongs to a different source")

	// ErrKeyMismatch indicates an update was attempted with a key unrelated to the background.
	ErrKeyMismatch = errors.New("key does not match background original")

	// ErrUnresolvableKey indicates a source reported a change whose key it cannot resolve.
	// This is a programming error in the source and aborts reconciliation.
	ErrUnresolvableKey = errors.New("change key cannot be resolved by its own source")
)

// SourceError is the opaque form a source-specific error takes once it has
// crossed the erasure boundary. Only diagnostic text is preserved.
type SourceError struct {
	// Source is the name of the reporting source.
	Source string

	// Message is the diagnostic text of the original error.
	Message string
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// NewSourceError flattens err into a SourceError.
func NewSourceError(source string, err error) *SourceError {
	msg := "unknown error"
	if err != nil {
		msg = fmt.Sprint(err)
	}
	return &SourceError{Source: source, Message: msg}
}
