// Package endian provides byte order utilities for binary encoding and decoding.
//
// This package extends Go's standard encoding/binary package by combining
// ByteOrder and AppendByteOrder interfaces into a unified Engine interface.
// The game's asset files are little-endian throughout, so codecs use
// Little() exclusively; the big-endian engine exists only for tooling that
// inspects foreign data.
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned Engine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"math"
)

// Engine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library, making it fully compatible with existing Go code while
// providing access to both read/write and append operations.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Little returns the little-endian engine used by all asset codecs.
func Little() Engine {
	return binary.LittleEndian
}

// Big returns the big-endian engine.
func Big() Engine {
	return binary.BigEndian
}

// Float32 reinterprets 4 bytes of b at the engine's byte order as an
// IEEE 754 single-precision float without any rounding.
func Float32(e Engine, b []byte) float32 {
	return math.Float32frombits(e.Uint32(b))
}

// PutFloat32 stores the exact bit pattern of v into the first 4 bytes of b.
func PutFloat32(e Engine, b []byte, v float32) {
	e.PutUint32(b, math.Float32bits(v))
}
