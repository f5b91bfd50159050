package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/compress"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/hash"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/options"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/section"
)

// Source provides random access to a platform image.
//
// *bytes.Reader satisfies it; files are wrapped by LoadFile.
type Source interface {
	io.ReaderAt
	Size() int64
}

// Load reads the platform image from src and returns a populated arena.
//
// The image is a fixed container prefix, an uncompressed table header
// record, and a compressed body of CompressedSize-TableHeaderSize bytes.
// The header is copied into the arena's header region and the body is
// decompressed directly into the record region. On any failure no arena
// is returned.
func Load(src Source, opts ...Option) (*Arena, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	l := &loader{cfg: cfg, src: src}

	return l.load()
}

// LoadBytes loads a platform image held in memory.
func LoadBytes(image []byte, opts ...Option) (*Arena, error) {
	return Load(bytes.NewReader(image), opts...)
}

// LoadFile loads the platform image stored at path.
func LoadFile(path string, opts ...Option) (*Arena, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrImageUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrImageUnreadable, err)
	}

	return Load(fileSource{File: f, size: info.Size()}, opts...)
}

type fileSource struct {
	*os.File
	size int64
}

func (f fileSource) Size() int64 {
	return f.size
}

type loader struct {
	cfg *config
	src Source
}

func (l *loader) load() (*Arena, error) {
	cfg := l.cfg
	size := l.src.Size()

	if size < cfg.prefixSize+section.TableHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d for prefix and table header",
			errs.ErrShortImage, size, cfg.prefixSize+section.TableHeaderSize)
	}

	headerData, err := l.read(cfg.prefixSize, section.TableHeaderSize)
	if err != nil {
		return nil, err
	}

	header, err := section.ParseTableHeader(headerData)
	if err != nil {
		return nil, err
	}

	body, err := l.readBody(&header, size)
	if err != nil {
		return nil, err
	}

	if int(header.TotalSize) < section.TableHeaderSize+section.RecordHeaderSize {
		return nil, fmt.Errorf("%w: declared table size %d", errs.ErrInvalidTableHeader, header.TotalSize)
	}
	if int(header.TotalSize) > cfg.arenaCapacity {
		return nil, fmt.Errorf("%w: declared table size %d, arena %d",
			errs.ErrArenaOverflow, header.TotalSize, cfg.arenaCapacity)
	}

	codec, err := compress.CreateCodec(header.Compression(), "table body")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrUnsupportedCodec, err)
	}

	data := make([]byte, cfg.arenaCapacity)
	copy(data, headerData)

	n, err := compress.DecompressInto(codec, data[section.TableHeaderSize:], body)
	if errors.Is(err, compress.ErrShortBuffer) {
		return nil, fmt.Errorf("%w: arena %d bytes", errs.ErrArenaOverflow, cfg.arenaCapacity)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecompression, err)
	}

	streamLen := section.TableHeaderSize + n
	if streamLen < int(header.TotalSize) {
		return nil, fmt.Errorf("%w: got %d bytes, table declares %d",
			errs.ErrDecompressMismatch, streamLen, header.TotalSize)
	}

	arena := &Arena{
		data:      data,
		header:    header,
		streamLen: streamLen,
		digest:    digest.FromBytes(append(headerData, body...)),
	}

	if header.IsLegacy() {
		l.promoteLegacy(arena)
	}

	if cfg.verifyHash {
		region := arena.data[section.TableHeaderSize:arena.header.TotalSize]
		if !hash.Verify(region, arena.header.ContentHash) {
			return nil, fmt.Errorf("%w: header 0x%016x, computed 0x%016x",
				errs.ErrContentHashMismatch, arena.header.ContentHash, hash.Content(region))
		}
	}

	cfg.logger.Debug().
		Str("description", arena.header.DescriptionString()).
		Str("version", arena.header.Version()).
		Stringer("codec", arena.header.Compression()).
		Int("stream_bytes", arena.streamLen).
		Bool("superseded", arena.superseded).
		Msg("platform definition table loaded")

	return arena, nil
}

// readBody validates the declared compressed size and reads the body.
func (l *loader) readBody(header *section.TableHeader, size int64) ([]byte, error) {
	switch {
	case header.CompressedSize < section.TableHeaderSize:
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrCompressedSizeTooSmall, header.CompressedSize)
	case header.CompressedSize == section.TableHeaderSize:
		return nil, errs.ErrEmptyBody
	}

	bodyLen := int64(header.CompressedSize) - section.TableHeaderSize
	bodyOff := l.cfg.prefixSize + section.TableHeaderSize
	if bodyOff+bodyLen > size {
		return nil, fmt.Errorf("%w: %d bytes, body ends at %d", errs.ErrShortImage, size, bodyOff+bodyLen)
	}

	return l.read(bodyOff, int(bodyLen))
}

func (l *loader) read(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)

	m, err := l.src.ReadAt(buf, off)
	if m == n {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read %d of %d bytes at %d", errs.ErrShortImage, m, n, off)
	}

	return nil, fmt.Errorf("%w: %w", errs.ErrImageUnreadable, err)
}

// promoteLegacy replaces a legacy table with the newer table compiled
// right after it. The newer header sits at the first table's declared
// size; if it is structurally valid the second table is moved to the
// arena start and the vacated tail is zeroed. Otherwise the first table
// stays in place.
func (l *loader) promoteLegacy(a *Arena) {
	off := int(a.header.TotalSize)
	log := l.cfg.logger.Warn().Int("offset", off)

	if off+section.TableHeaderSize > a.streamLen {
		log.Msg("legacy table: no newer table header in stream, keeping legacy table")
		return
	}

	next, err := section.ParseTableHeader(a.data[off:])
	if err != nil {
		log.Err(err).Msg("legacy table: newer table header rejected, keeping legacy table")
		return
	}

	end := off + int(next.TotalSize)
	if int(next.TotalSize) < section.TableHeaderSize+section.RecordHeaderSize || end > a.streamLen {
		log.Uint32("declared_size", next.TotalSize).
			Msg("legacy table: newer table size out of range, keeping legacy table")
		return
	}

	n := copy(a.data, a.data[off:a.streamLen])
	clear(a.data[n:a.streamLen])

	a.header = next
	a.streamLen = n
	a.superseded = true
}
