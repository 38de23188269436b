package searcher

import (
	"errors"
	"fmt"
)

var (
	// ErrLineTooLong matches any LineTooLongError via errors.Is.
	ErrLineTooLong = errors.New("line too long")
	// ErrResourceExceeded matches any ResourceExceededError via errors.Is.
	ErrResourceExceeded = errors.New("resource limit exceeded")
)

// ReadError is returned when the underlying input fails.
type ReadError struct {
	Input string
	Err   error
}

func (e *ReadError) Error() string {
	return "read " + e.Input + ": " + e.Err.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// LineTooLongError reports a line longer than Config.MaxLineLength.
type LineTooLongError struct {
	Offset int64 // absolute offset of the start of the line
	Limit  int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("line at offset %d exceeds %d bytes", e.Offset, e.Limit)
}

func (e *LineTooLongError) Is(target error) bool { return target == ErrLineTooLong }

// ResourceExceededError reports input that does not fit under Config.HeapLimit.
type ResourceExceededError struct {
	Size  int64 // bytes held when the limit was hit
	Limit int64
}

func (e *ResourceExceededError) Error() string {
	return fmt.Sprintf("input exceeds heap limit of %d bytes (read %d)", e.Limit, e.Size)
}

func (e *ResourceExceededError) Is(target error) bool { return target == ErrResourceExceeded }
