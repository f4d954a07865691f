package models

import (
	"errors"
	"fmt"
)

// ErrNoImageLoaded is returned when a save is attempted before any image
// has been loaded or processed.
var ErrNoImageLoaded = errors.New("no processed image to save")

// DecodeError reports an unreadable or unsupported input file.
type DecodeError struct {
	Path string
	Err  error
}

func NewDecodeError(path string, err error) *DecodeError {
	return &DecodeError{Path: path, Err: err}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to load image '%s': %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a failed save. In-memory state is unaffected.
type EncodeError struct {
	Path   string
	Format string
	Err    error
}

func NewEncodeError(path, format string, err error) *EncodeError {
	return &EncodeError{Path: path, Format: format, Err: err}
}

func (e *EncodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("failed to save image '%s': %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to save image '%s' as %s: %v", e.Path, e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ProcessingError reports a failed adjustment or filter stage. The pipeline
// keeps the stage input when it sees one.
type ProcessingError struct {
	Stage string
	Err   error
}

func NewProcessingError(stage string, err error) *ProcessingError {
	return &ProcessingError{Stage: stage, Err: err}
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("stage '%s' failed: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
