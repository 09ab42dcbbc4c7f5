// Package compress provides the compression codecs for the neutral-form
// record sink.
//
// Extracted neutral data for a full game install is large (every scene,
// model, animation and texture as JSON records), so the sink compresses
// record payloads with a pluggable codec. Payloads are compressed
// independently, typically a few KiB to a few MiB each.
package compress

import (
	"fmt"
)

// Type identifies a compression codec in the record sink's header.
type Type uint8

// Codec types. The zero value is invalid so a missing header byte is
// caught.
const (
	TypeNone Type = 0x1 // no compression
	TypeZstd Type = 0x2 // Zstandard
	TypeS2   Type = 0x3 // S2 (Snappy-compatible)
	TypeLZ4  Type = 0x4 // LZ4 block format
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeZstd:
		return "Zstd"
	case TypeS2:
		return "S2"
	case TypeLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Compressor compresses one payload.
//
// Memory management: the returned slice is newly allocated and owned by
// the caller (except for the no-op codec, which returns the input); the
// input slice is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses one payload previously compressed with the
// same codec. Corrupted or mismatched data returns an error.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. All implementations are stateless and
// safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Type]Codec{
	TypeNone: NewNoOpCompressor(),
	TypeZstd: NewZstdCompressor(),
	TypeS2:   NewS2Compressor(),
	TypeLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for a compression type.
func GetCodec(compressionType Type) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}
	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
