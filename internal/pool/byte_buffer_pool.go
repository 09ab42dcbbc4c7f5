// Package pool provides pooled byte buffers for the neutral-form sink's
// record assembly and compression scratch space.
package pool

import "sync"

// Buffer size tuning. Buffers that grow past the threshold are dropped
// instead of returned, so one huge record does not pin memory.
const (
	BufferDefaultSize  = 1024 * 16
	BufferMaxThreshold = 1024 * 1024 * 8
)

// ByteBuffer is a reusable byte slice.
type ByteBuffer struct {
	B []byte
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset truncates the buffer for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Write appends p, satisfying io.Writer.
func (bb *ByteBuffer) Write(p []byte) (int, error) {
	bb.B = append(bb.B, p...)
	return len(p), nil
}

var bufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, BufferDefaultSize)}
	},
}

// GetBuffer obtains a reset buffer from the pool.
func GetBuffer() *ByteBuffer {
	bb := bufferPool.Get().(*ByteBuffer)
	bb.Reset()
	return bb
}

// PutBuffer returns a buffer to the pool unless it grew too large.
func PutBuffer(bb *ByteBuffer) {
	if cap(bb.B) > BufferMaxThreshold {
		return
	}
	bufferPool.Put(bb)
}
