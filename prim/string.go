package prim

import (
	"errors"
	"fmt"
)

// String conversion failures. Codecs wrap these with the field name and
// offset via assert.Ascii.
var (
	ErrNonAscii     = errors.New("non-ASCII byte")
	ErrNoTerminator = errors.New("missing zero terminator")
	ErrPadding      = errors.New("non-zero padding")
	ErrTooLong      = errors.New("string too long for field")
)

func checkAscii(buf []byte) error {
	for i, c := range buf {
		if c > 0x7F {
			return fmt.Errorf("%w %02X at %d", ErrNonAscii, c, i)
		}
	}
	return nil
}

// FromPadded decodes a zero-terminated, zero-padded ASCII field. Every byte
// after the terminator must be zero. A terminator in the first byte decodes
// as the empty string.
func FromPadded(buf []byte) (string, error) {
	zero := -1
	for i, c := range buf {
		if c == 0 {
			zero = i
			break
		}
	}
	if zero < 0 {
		return "", ErrNoTerminator
	}
	for _, c := range buf[zero:] {
		if c != 0 {
			return "", ErrPadding
		}
	}
	if err := checkAscii(buf[:zero]); err != nil {
		return "", err
	}
	return string(buf[:zero]), nil
}

// ToPadded encodes s into buf with a zero terminator and zero padding.
// s must leave room for at least the terminator.
func ToPadded(s string, buf []byte) error {
	if len(s) > len(buf)-1 {
		return fmt.Errorf("%w: %d > %d", ErrTooLong, len(s), len(buf)-1)
	}
	if err := checkAscii([]byte(s)); err != nil {
		return err
	}
	copy(buf, s)
	for i := len(s); i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

// FromPartition decodes a zero-terminated ASCII field whose bytes after the
// terminator are arbitrary garbage. The garbage is returned verbatim so that
// writing reproduces the field byte-exactly. Fields like animation names and
// static-sound names were never memset by the original engine.
func FromPartition(buf []byte) (name string, pad []byte, err error) {
	zero := -1
	for i, c := range buf {
		if c == 0 {
			zero = i
			break
		}
	}
	if zero < 0 {
		return "", nil, ErrNoTerminator
	}
	if err := checkAscii(buf[:zero]); err != nil {
		return "", nil, err
	}
	pad = make([]byte, len(buf)-zero-1)
	copy(pad, buf[zero+1:])
	return string(buf[:zero]), pad, nil
}

// ToPartition encodes name, a zero terminator, and the preserved pad bytes
// into buf. Missing pad bytes are filled with zero.
func ToPartition(name string, pad []byte, buf []byte) error {
	if len(name) > len(buf)-1 {
		return fmt.Errorf("%w: %d > %d", ErrTooLong, len(name), len(buf)-1)
	}
	if err := checkAscii([]byte(name)); err != nil {
		return err
	}
	copy(buf, name)
	buf[len(name)] = 0
	rest := buf[len(name)+1:]
	for i := range rest {
		if i < len(pad) {
			rest[i] = pad[i]
		} else {
			rest[i] = 0
		}
	}
	return nil
}

// CopyBytes copies src into a fixed-size field, zero-filling the remainder.
// Used for verbatim-preserved opaque regions (archive entry garbage, script
// frame data).
func CopyBytes(src []byte, dst []byte) {
	n := copy(dst, src)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}
