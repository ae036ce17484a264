package builder

import (
	"errors"
	"fmt"
)

// StateErrorCode categorizes event grammar violations.
type StateErrorCode string

const (
	// ErrCodeNoDocument indicates an event arrived before StartDocument.
	ErrCodeNoDocument StateErrorCode = "NO_DOCUMENT"

	// ErrCodeWrongContext indicates an event is not valid in the open context.
	ErrCodeWrongContext StateErrorCode = "WRONG_CONTEXT"

	// ErrCodeUnmatchedEnd indicates an End event with no matching Start.
	ErrCodeUnmatchedEnd StateErrorCode = "UNMATCHED_END"

	// ErrCodeUnclosed indicates EndDocument with contexts still open.
	ErrCodeUnclosed StateErrorCode = "UNCLOSED_CONTEXT"

	// ErrCodeFinalized indicates an event after EndDocument.
	ErrCodeFinalized StateErrorCode = "FINALIZED"

	// ErrCodeDuplicateID indicates a resource id already used in its collection.
	ErrCodeDuplicateID StateErrorCode = "DUPLICATE_ID"

	// ErrCodeIDMismatch indicates an End event naming a different resource
	// than its Start.
	ErrCodeIDMismatch StateErrorCode = "ID_MISMATCH"
)

// StateError reports an event that violates the Start/End grammar.
type StateError struct {
	Code    StateErrorCode
	Message string

	// Event is the offending event.
	Event string

	// Open is the innermost open context when the event arrived.
	Open string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	if e.Open != "" {
		return fmt.Sprintf("%s: %s: %s (open=%s)", e.Code, e.Event, e.Message, e.Open)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Event, e.Message)
}

// IsStateError reports whether err is or wraps a *StateError.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

// SerializationError is returned when the finished document cannot be
// encoded or written.
type SerializationError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("serialize document to %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("serialize document: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *SerializationError) Unwrap() error { return e.Err }

// IsSerializationError reports whether err is or wraps a
// *SerializationError.
func IsSerializationError(err error) bool {
	var se *SerializationError
	return errors.As(err, &se)
}

// UnsupportedError is returned for authored features the exporter does not
// convert, such as strokes that need converting to fills.
type UnsupportedError struct {
	Feature string
	ResID   uint32
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported feature in resource %d: %s", e.ResID, e.Feature)
}

// IsUnsupportedError reports whether err is or wraps an *UnsupportedError.
func IsUnsupportedError(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}
