// Package errs defines the error values shared by every codec in this module.
//
// The taxonomy mirrors the failure modes of the on-disk formats: plain I/O
// failures propagate unchanged, while every structural check produces an
// AssertError that pins the failure to an absolute byte offset in the source
// file. A single offset-attributed message is enough to diagnose corruption
// or a missed format detail.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for coarse-grained classification. Codecs wrap these (or
// return AssertError values) so callers can test with errors.Is / errors.As.
var (
	// ErrTruncated indicates the stream ended before a record was complete.
	ErrTruncated = errors.New("unexpected end of data")
	// ErrTrailingData indicates the stream had bytes left after the last record.
	ErrTrailingData = errors.New("expected all data to be read")
	// ErrLenOverflow indicates a container length does not fit its on-disk width.
	ErrLenOverflow = errors.New("length overflows on-disk field")
)

// AssertError reports a field that did not match its expected value, bound,
// or variant set. Offset is the absolute byte position of the offending
// field, not the cursor position after the read.
type AssertError struct {
	// Name identifies the field, e.g. "anim def seq def count".
	Name string
	// Msg renders the expectation and the actual value.
	Msg string
	// Offset is the absolute byte position of the field.
	Offset uint32
}

func (e *AssertError) Error() string {
	return fmt.Sprintf("expected %q %s (at %d)", e.Name, e.Msg, e.Offset)
}

// New builds an AssertError with a preformatted expectation message.
func New(name, msg string, offset uint32) error {
	return &AssertError{Name: name, Msg: msg, Offset: offset}
}

// Newf builds an AssertError with a formatted expectation message.
func Newf(offset uint32, name, format string, args ...any) error {
	return &AssertError{Name: name, Msg: fmt.Sprintf(format, args...), Offset: offset}
}

// Overflow reports a value that cannot be represented in its on-disk width.
func Overflow(name string, value int, offset uint32) error {
	return fmt.Errorf("%w: %q is %d (at %d)", ErrLenOverflow, name, value, offset)
}
