package iox

import (
	"io"

	"github.com/mechres/zbd/endian"
	"github.com/mechres/zbd/errs"
)

// Writer is the symmetric offset-tracking little-endian byte sink.
type Writer struct {
	inner  io.Writer
	engine endian.Engine

	// Offset is the current absolute byte position.
	Offset uint32
	// Prev is the offset at the start of the most recent write.
	Prev uint32
}

// NewWriter wraps w at offset zero.
func NewWriter(w io.Writer) *Writer {
	return &Writer{inner: w, engine: endian.Little()}
}

// WriteAll writes buf completely, advancing the cursor by len(buf).
func (w *Writer) WriteAll(buf []byte) error {
	if _, err := w.inner.Write(buf); err != nil {
		return err
	}
	w.Prev = w.Offset
	w.Offset += uint32(len(buf))
	return nil
}

// WriteZeros writes count zero bytes.
func (w *Writer) WriteZeros(count int) error {
	return w.WriteAll(make([]byte, count))
}

// WriteU8 writes one unsigned byte.
func (w *Writer) WriteU8(v uint8) error {
	return w.WriteAll([]byte{v})
}

// WriteI8 writes one signed byte.
func (w *Writer) WriteI8(v int8) error {
	return w.WriteU8(uint8(v))
}

// WriteU16 writes a little-endian uint16.
func (w *Writer) WriteU16(v uint16) error {
	var buf [2]byte
	w.engine.PutUint16(buf[:], v)
	return w.WriteAll(buf[:])
}

// WriteI16 writes a little-endian int16.
func (w *Writer) WriteI16(v int16) error {
	return w.WriteU16(uint16(v))
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) error {
	var buf [4]byte
	w.engine.PutUint32(buf[:], v)
	return w.WriteAll(buf[:])
}

// WriteI32 writes a little-endian int32.
func (w *Writer) WriteI32(v int32) error {
	return w.WriteU32(uint32(v))
}

// WriteF32 writes the exact bit pattern of v.
func (w *Writer) WriteF32(v float32) error {
	var buf [4]byte
	endian.PutFloat32(w.engine, buf[:], v)
	return w.WriteAll(buf[:])
}

// WriteString writes a u32 length prefix followed by the ASCII bytes of s.
func (w *Writer) WriteString(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || s[i] > 0x7F {
			return errs.Newf(w.Offset, "string", "to be ASCII, but byte %d was %02X", i, s[i])
		}
	}
	if err := w.WriteU32(uint32(len(s))); err != nil {
		return err
	}
	return w.WriteAll([]byte(s))
}
