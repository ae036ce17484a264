package resource

import (
	"errors"
	"fmt"
)

// ErrAlreadyCommitted is returned when a source id is committed twice.
// Cache entries are write-once.
var ErrAlreadyCommitted = errors.New("source already committed")

// ExportError is returned when the exporter fails to write an asset.
type ExportError struct {
	SourceID string
	Dest     string
	Err      error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export %q to %s: %v", e.SourceID, e.Dest, e.Err)
}

// Unwrap returns the underlying exporter error.
func (e *ExportError) Unwrap() error { return e.Err }

// DirectoryCreationError is returned when the cache's output folder cannot
// be created. The failure is sticky: later acquisitions return the same
// error without retrying.
type DirectoryCreationError struct {
	Dir string
	Err error
}

// Error implements the error interface.
func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("create directory %s: %v", e.Dir, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *DirectoryCreationError) Unwrap() error { return e.Err }

// IsExportError reports whether err is or wraps an *ExportError.
func IsExportError(err error) bool {
	var ee *ExportError
	return errors.As(err, &ee)
}

// IsDirectoryCreationError reports whether err is or wraps a
// *DirectoryCreationError.
func IsDirectoryCreationError(err error) bool {
	var de *DirectoryCreationError
	return errors.As(err, &de)
}
