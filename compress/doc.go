// Package compress provides the body codecs of platform definition images.
//
// The table header's flag field names the codec of the compressed body
// (see section.TableHeader.Compression). DEFLATE is the default and the
// only codec produced by the classic table compiler; zstd, S2 and LZ4 are
// accepted for images built by newer tooling, and None stores the body
// raw.
//
// # Decompressing into the arena
//
// The loader decompresses straight into the arena's record region, which
// is never resized. Codecs that can do that implement IntoDecompressor;
// DecompressInto falls back to Decompress plus a copy for the rest. A
// stream longer than the destination yields ErrShortBuffer.
//
//	codec, err := compress.CreateCodec(header.Compression(), "table body")
//	if err != nil {
//	    return err
//	}
//	n, err := compress.DecompressInto(codec, arena[section.TableHeaderSize:], body)
//
// All codecs are stateless values and safe for concurrent use; encoders
// and decoders are pooled internally.
package compress
