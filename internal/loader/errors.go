package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidYear is returned when field 0 of an accepted line is not an integer.
	ErrInvalidYear = errors.New("invalid year")

	// ErrInvalidValue is returned when field 2 of an accepted line is not a number.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnknownEncoding is returned when the requested input encoding is not supported.
	ErrUnknownEncoding = errors.New("unknown input encoding")
)

// ParseError describes a malformed numeric field on an accepted line.
// It matches ErrInvalidYear or ErrInvalidValue with errors.Is, and also
// the underlying strconv error.
type ParseError struct {
	// Line is the 1-based line number in the input file, header included.
	Line int

	// Kind is ErrInvalidYear or ErrInvalidValue.
	Kind error

	// Text is the raw field text.
	Text string

	// Err is the error returned by strconv.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v %q: %v", e.Line, e.Kind, e.Text, e.Err)
}

// Unwrap returns both the kind sentinel and the strconv cause.
func (e *ParseError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
