package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// flateWriterPool pools flate writers; Reset makes them reusable.
var flateWriterPool = sync.Pool{
	New: func() any {
		w, err := flate.NewWriter(nil, flate.BestCompression)
		if err != nil {
			// Only returned for an invalid level.
			panic(fmt.Sprintf("failed to create flate writer for pool: %v", err))
		}
		return w
	},
}

// DeflateCompressor is the raw DEFLATE (RFC 1951) codec used by platform
// definition tables. It is the default body codec.
type DeflateCompressor struct{}

var (
	_ Codec            = (*DeflateCompressor)(nil)
	_ IntoDecompressor = (*DeflateCompressor)(nil)
)

// NewDeflateCompressor creates a new DEFLATE codec.
func NewDeflateCompressor() DeflateCompressor {
	return DeflateCompressor{}
}

// Compress compresses the input data with raw DEFLATE at best compression.
func (c DeflateCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, _ := flateWriterPool.Get().(*flate.Writer)
	defer flateWriterPool.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decompresses raw DEFLATE data.
func (c DeflateCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("deflate decompression failed: %w", err)
	}

	return out, nil
}

// DecompressInto inflates data straight into dst without an intermediate
// buffer. It fails with ErrShortBuffer if the stream holds more than
// len(dst) bytes.
func (c DeflateCompressor) DecompressInto(dst, data []byte) (int, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	n := 0
	for n < len(dst) {
		m, err := r.Read(dst[n:])
		n += m
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("deflate decompression failed: %w", err)
		}
	}

	// dst is full; the stream must end here.
	var probe [1]byte
	m, err := r.Read(probe[:])
	if m > 0 {
		return n, ErrShortBuffer
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("deflate decompression failed: %w", err)
	}

	return n, nil
}
