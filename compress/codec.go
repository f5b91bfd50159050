package compress

import (
	"fmt"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
)

// Compressor compresses a table body. Used by image builders and tests;
// the controller itself only decompresses.
type Compressor interface {
	// Compress returns a newly allocated compressed copy of data.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a compressed table body.
type Decompressor interface {
	// Decompress returns a newly allocated decompressed copy of data.
	// It returns an error if data is corrupted or was produced by a
	// different codec.
	Decompress(data []byte) ([]byte, error)
}

// IntoDecompressor decompresses directly into a caller-owned buffer.
//
// DecompressInto writes at most len(dst) bytes and returns the number
// written. If the decompressed stream is longer than dst it returns
// ErrShortBuffer; dst contents are then undefined.
type IntoDecompressor interface {
	DecompressInto(dst, data []byte) (int, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec for the given
// body compression type.
//
// Parameters:
//   - compressionType: Body codec declared by the table header
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionDeflate:
		return NewDeflateCompressor(), nil
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionDeflate: NewDeflateCompressor(),
	format.CompressionNone:    NewNoOpCompressor(),
	format.CompressionZstd:    NewZstdCompressor(),
	format.CompressionS2:      NewS2Compressor(),
	format.CompressionLZ4:     NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// DecompressInto decompresses data into dst with the given codec, using
// the codec's IntoDecompressor path when it has one.
func DecompressInto(codec Decompressor, dst, data []byte) (int, error) {
	if into, ok := codec.(IntoDecompressor); ok {
		return into.DecompressInto(dst, data)
	}

	out, err := codec.Decompress(data)
	if err != nil {
		return 0, err
	}
	if len(out) > len(dst) {
		return 0, ErrShortBuffer
	}

	return copy(dst, out), nil
}
