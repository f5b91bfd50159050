package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.CompressorHC{Level: lz4.Level9}
	},
}

// LZ4Compressor is the LZ4 block body codec. Blocks carry no length, so
// decompression needs a destination sized by the caller or grown
// adaptively.
type LZ4Compressor struct{}

var (
	_ Codec            = (*LZ4Compressor)(nil)
	_ IntoDecompressor = (*LZ4Compressor)(nil)
)

// NewLZ4Compressor creates a new LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data as a single high-compression LZ4 block.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.CompressorHC)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block, doubling the buffer from 4x the
// input size until the block fits or the 16MiB limit is reached.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	const maxSize = 16 * 1024 * 1024

	for bufSize := len(data) * 4; bufSize <= maxSize; bufSize *= 2 {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, err
		}
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}

// DecompressInto decompresses an LZ4 block into dst.
func (c LZ4Compressor) DecompressInto(dst, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	n, err := lz4.UncompressBlock(data, dst)
	if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
		return 0, ErrShortBuffer
	}

	return n, err
}
