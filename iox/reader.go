// Package iox implements the counting I/O layer beneath every codec.
//
// A Reader or Writer wraps any byte stream and tracks two absolute positions:
// Offset, the current cursor, and Prev, the offset at the start of the most
// recent transfer. Validation code reports errors at Prev plus the field's
// offset inside its record, so a failure on byte 232 of a 320-byte record
// points at the field, not at the cursor after the read.
//
// All primitives are little-endian. Fixed-size records are read as raw byte
// blocks and decoded field-by-field at documented offsets by their codecs.
package iox

import (
	"fmt"
	"io"

	"github.com/mechres/zbd/endian"
	"github.com/mechres/zbd/errs"
)

// Reader is an offset-tracking little-endian byte cursor.
type Reader struct {
	inner  io.Reader
	engine endian.Engine

	// Offset is the current absolute byte position.
	Offset uint32
	// Prev is the offset at the start of the most recent read.
	Prev uint32
}

// NewReader wraps r at offset zero.
func NewReader(r io.Reader) *Reader {
	return &Reader{inner: r, engine: endian.Little()}
}

// ReadExact fills buf completely, advancing the cursor by len(buf).
// A short stream surfaces as errs.ErrTruncated with the failing offset.
func (r *Reader) ReadExact(buf []byte) error {
	if _, err := io.ReadFull(r.inner, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w (at %d)", errs.ErrTruncated, r.Offset)
		}
		return err
	}
	r.Prev = r.Offset
	r.Offset += uint32(len(buf))
	return nil
}

// ReadBytes reads exactly n bytes into a fresh buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.ReadExact(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *Reader) read4() ([4]byte, error) {
	var buf [4]byte
	err := r.ReadExact(buf[:])
	return buf, err
}

func (r *Reader) read2() ([2]byte, error) {
	var buf [2]byte
	err := r.ReadExact(buf[:])
	return buf, err
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	var buf [1]byte
	if err := r.ReadExact(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadI8 reads one signed byte.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	buf, err := r.read2()
	if err != nil {
		return 0, err
	}
	return r.engine.Uint16(buf[:]), nil
}

// ReadI16 reads a little-endian int16.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	buf, err := r.read4()
	if err != nil {
		return 0, err
	}
	return r.engine.Uint32(buf[:]), nil
}

// ReadI32 reads a little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadF32 reads a little-endian IEEE 754 single, preserving the bit pattern.
func (r *Reader) ReadF32() (float32, error) {
	buf, err := r.read4()
	if err != nil {
		return 0, err
	}
	return endian.Float32(r.engine, buf[:]), nil
}

// ReadString reads a u32 length prefix followed by that many ASCII bytes.
func (r *Reader) ReadString() (string, error) {
	count, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	buf, err := r.ReadBytes(int(count))
	if err != nil {
		return "", err
	}
	for i, c := range buf {
		if c == 0 || c > 0x7F {
			return "", errs.Newf(r.Prev+uint32(i), "string", "to be ASCII, but byte was %02X", c)
		}
	}
	return string(buf), nil
}

// AssertEnd succeeds only if the underlying stream has no further bytes.
func (r *Reader) AssertEnd() error {
	var buf [1]byte
	n, err := r.inner.Read(buf[:])
	if n == 0 && (err == io.EOF || err == nil) {
		return nil
	}
	if err != nil && err != io.EOF {
		return err
	}
	return fmt.Errorf("%w (at %d)", errs.ErrTrailingData, r.Offset)
}
