// Package fixture compiles platform definition tables and images for tests.
//
// A Builder collects records, then Stream returns the decompressed table
// (header record, records, end-of-table record) and Image returns the
// firmware image: container prefix, uncompressed table header and the
// compressed body.
package fixture

import (
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/compress"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/hash"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/section"
)

const (
	// HeaderID is the record id of the table header record.
	HeaderID uint16 = 0x0000
	// EndOfTableID is the record id of the end-of-table record.
	EndOfTableID uint16 = 0xFFFF
	// PrefixSize is the container prefix written in front of the header.
	PrefixSize = 64
)

// Record is one record to be compiled into a table.
type Record struct {
	Category format.Category
	ID       uint16
	Flags    uint16
	Entity   uint8
	Instance uint8
	Name     string
	Payload  []byte
}

// Header returns the compiled record header. The size field covers the
// payload rounded up to the size unit.
func (r Record) Header() section.RecordHeader {
	typeCode, flags, _ := section.TypeCodeOf(r.Category)

	h := section.RecordHeader{
		Type:     typeCode,
		Size:     uint8((section.RecordHeaderSize + padded(len(r.Payload))) / section.SizeUnit), //nolint: gosec
		ID:       r.ID,
		Flags:    r.Flags | flags,
		Entity:   r.Entity,
		Instance: r.Instance,
	}
	h.SetName(r.Name)

	return h
}

// Bytes returns the compiled record, payload padded with zeros.
func (r Record) Bytes() []byte {
	h := r.Header()
	b := h.AppendTo(make([]byte, 0, h.ByteSize()))
	b = append(b, r.Payload...)

	return append(b, make([]byte, h.ByteSize()-len(b))...)
}

func padded(n int) int {
	return (n + section.SizeUnit - 1) / section.SizeUnit * section.SizeUnit
}

// Builder compiles a table. It is not safe for concurrent use.
type Builder struct {
	header section.TableHeader
	body   []byte
	count  int
	codec  format.CompressionType
	prefix int
	noEOT  bool
	noHash bool
	mutate []func(*section.TableHeader)
	newer  *Builder
}

// New returns a builder for a table with the given description.
func New(description string) *Builder {
	return &Builder{
		header: *section.NewTableHeader(description, HeaderID),
		codec:  format.CompressionDeflate,
		prefix: PrefixSize,
	}
}

// Add appends records in order.
func (b *Builder) Add(records ...Record) *Builder {
	for _, r := range records {
		b.body = append(b.body, r.Bytes()...)
		b.count++
	}

	return b
}

// AddN appends n records of category c with ids starting at firstID.
func (b *Builder) AddN(c format.Category, firstID uint16, n int) *Builder {
	for i := range n {
		b.Add(Record{Category: c, ID: firstID + uint16(i), Payload: []byte{byte(i)}}) //nolint: gosec
	}

	return b
}

// AddRaw appends data to the record stream verbatim.
func (b *Builder) AddRaw(data []byte) *Builder {
	b.body = append(b.body, data...)

	return b
}

// Codec sets the body codec.
func (b *Builder) Codec(c format.CompressionType) *Builder {
	b.codec = c

	return b
}

// Prefix sets the container prefix length.
func (b *Builder) Prefix(n int) *Builder {
	b.prefix = n

	return b
}

// Version sets the version quadruple and build timestamp.
func (b *Builder) Version(major, minor, special uint8, build uint32, timestamp int64) *Builder {
	b.header.Major = major
	b.header.Minor = minor
	b.header.Special = special
	b.header.Build = build
	b.header.Timestamp = timestamp

	return b
}

// WithoutEndOfTable omits the end-of-table record.
func (b *Builder) WithoutEndOfTable() *Builder {
	b.noEOT = true

	return b
}

// WithoutHash leaves the content hash unset.
func (b *Builder) WithoutHash() *Builder {
	b.noHash = true

	return b
}

// Mutate registers fn to adjust the header after all derived fields are set.
func (b *Builder) Mutate(fn func(h *section.TableHeader)) *Builder {
	b.mutate = append(b.mutate, fn)

	return b
}

// Newer marks the table legacy and compiles next right after it in the
// same compressed body.
func (b *Builder) Newer(next *Builder) *Builder {
	b.newer = next

	return b
}

// Stream returns the decompressed table: header record, records and
// end-of-table record.
func (b *Builder) Stream() []byte {
	h, records := b.compile()
	b.apply(&h)

	return append(h.Bytes(), records...)
}

// Image returns the firmware image holding the table.
func (b *Builder) Image() []byte {
	h, body := b.compile()

	if b.newer != nil {
		h.Flags |= section.TableFlagLegacy
		body = append(body, b.newer.Stream()...)
	}

	codec, err := compress.GetCodec(b.codec)
	if err != nil {
		panic(err)
	}

	compressed, err := codec.Compress(body)
	if err != nil {
		panic(err)
	}

	h.SetCompression(b.codec)
	h.CompressedSize = uint32(section.TableHeaderSize + len(compressed)) //nolint: gosec
	b.apply(&h)

	image := make([]byte, b.prefix, b.prefix+section.TableHeaderSize+len(compressed))
	for i := range image {
		image[i] = 0xA5
	}
	image = append(image, h.Bytes()...)

	return append(image, compressed...)
}

// compile returns the header with derived fields set and the record
// region of this table alone.
func (b *Builder) compile() (section.TableHeader, []byte) {
	records := append([]byte(nil), b.body...)
	count := b.count + 1
	if !b.noEOT {
		eot := section.RecordHeader{Type: section.TypeEndOfTable, Size: section.RecordHeaderUnits, ID: EndOfTableID}
		records = eot.AppendTo(records)
		count++
	}

	h := b.header
	h.RecordCount = uint32(count)                                //nolint: gosec
	h.TotalSize = uint32(section.TableHeaderSize + len(records)) //nolint: gosec
	if !b.noHash {
		h.ContentHash = hash.Content(records)
	}

	return h, records
}

func (b *Builder) apply(h *section.TableHeader) {
	for _, fn := range b.mutate {
		fn(h)
	}
}
