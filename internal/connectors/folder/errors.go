package folder

import "fmt"

// ScanError describes a file or folder that could not be read.
type ScanError struct {
	Path string
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Err
}
