package compress

// ZstdCompressor favors ratio over speed; the default for archival of
// extracted neutral data.
//
// Two implementations exist behind build tags: a cgo binding when cgo is
// available, and a pure-Go fallback otherwise. Both produce standard
// Zstandard frames and interoperate freely.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
