package settings

import (
	"errors"
	"fmt"
)

// Error codes of settings failures, shared with the CLI error codes.
const (
	ErrCodeRead    = "E010" // settings file cannot be read
	ErrCodeParse   = "E011" // settings file is malformed
	ErrCodeInvalid = "E012" // settings values are out of range
	ErrCodeFormat  = "E013" // unknown settings file extension
)

// LoadError is returned when settings cannot be loaded. File, Line and
// Column are set when the source position is known.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Code, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError reports whether err is or wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

func invalid(msg string) *LoadError {
	return &LoadError{Code: ErrCodeInvalid, Message: msg}
}
