package compress

// NoOpCompressor bypasses data without compression. Useful when the sink
// output feeds another compressor (e.g. an outer zip), or for debugging.
//
// Both directions return the input slice as-is, without copying; callers
// must not modify the input afterwards if they use the result.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input data unchanged.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input data unchanged.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
