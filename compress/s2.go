package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor is the S2 body codec.
type S2Compressor struct{}

var (
	_ Codec            = (*S2Compressor)(nil)
	_ IntoDecompressor = (*S2Compressor)(nil)
)

// NewS2Compressor creates a new S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data using S2 compression.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, data), nil
}

// Decompress decompresses the input data using S2 decompression.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// DecompressInto checks the encoded length up front so it never has to
// allocate past dst.
func (c S2Compressor) DecompressInto(dst, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return 0, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if n > len(dst) {
		return 0, ErrShortBuffer
	}

	out, err := s2.Decode(dst[:n], data)
	if err != nil {
		return 0, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return len(out), nil
}
