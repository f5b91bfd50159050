package compress

// NoOpCompressor stores the table body as-is. Useful for images built in
// development and for tests that inspect the raw record stream.
type NoOpCompressor struct{}

var (
	_ Codec            = (*NoOpCompressor)(nil)
	_ IntoDecompressor = (*NoOpCompressor)(nil)
)

// NewNoOpCompressor creates a new no-operation codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input slice unchanged; the result aliases data.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice unchanged; the result aliases data.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// DecompressInto copies data into dst.
func (c NoOpCompressor) DecompressInto(dst, data []byte) (int, error) {
	if len(data) > len(dst) {
		return 0, ErrShortBuffer
	}

	return copy(dst, data), nil
}
