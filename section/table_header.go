package section

import (
	"fmt"
	"time"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/endian"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
)

// TableHeader is the first logical record of a platform definition table.
// It is a regular record (type 0) of TableHeaderSize bytes whose payload
// describes the table that follows it.
//
// Payload layout, offsets relative to the end of the record header:
//
//	Bytes  | Field          | Type     | Description
//	-------|----------------|----------|-----------------------------------
//	0-31   | Description    | [32]byte | NUL padded description text
//	32     | Major          | uint8    | Version major
//	33     | Minor          | uint8    | Version minor
//	34     | Special        | uint8    | Version special
//	35     | -              | -        | Reserved
//	36-39  | Build          | uint32   | Version build number
//	40-47  | Timestamp      | int64    | Build time, unix seconds
//	48-51  | RecordCount    | uint32   | Declared record count
//	52-55  | TotalSize      | uint32   | Declared table size, header included
//	56-63  | ContentHash    | uint64   | xxHash64 of the record region, 0 = unset
//	64-67  | CompressedSize | uint32   | Declared compressed size, header included
//	68-71  | Flags          | uint32   | Legacy bit and body codec
//	72-79  | -              | -        | Reserved
type TableHeader struct {
	Record         RecordHeader
	Description    [DescriptionSize]byte
	Major          uint8
	Minor          uint8
	Special        uint8
	Build          uint32
	Timestamp      int64
	RecordCount    uint32
	TotalSize      uint32
	ContentHash    uint64
	CompressedSize uint32
	Flags          uint32
}

// NewTableHeader creates a table header record with the given description and id.
// Size fields are left for the encoder to fill.
func NewTableHeader(description string, id uint16) *TableHeader {
	h := &TableHeader{
		Record: RecordHeader{
			Type: TypeTableHeader,
			Size: TableHeaderUnits,
			ID:   id,
		},
	}
	h.Record.SetName("PlatDef")
	copy(h.Description[:], description)

	return h
}

// ParseTableHeader parses a table header from the first TableHeaderSize bytes of data.
func ParseTableHeader(data []byte) (TableHeader, error) {
	var h TableHeader
	if err := h.Parse(data); err != nil {
		return TableHeader{}, err
	}

	return h, nil
}

// Parse parses the header from a byte slice holding at least TableHeaderSize bytes.
// It returns ErrInvalidTableHeader if the record is not a table header record.
func (h *TableHeader) Parse(data []byte) error {
	if len(data) < TableHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	if err := h.Record.Parse(data); err != nil {
		return err
	}

	if h.Record.Type != TypeTableHeader || h.Record.Size != TableHeaderUnits {
		return fmt.Errorf("%w: type %d, size field %d", errs.ErrInvalidTableHeader, h.Record.Type, h.Record.Size)
	}

	engine := endian.TableEngine()
	p := data[RecordHeaderSize:TableHeaderSize]

	copy(h.Description[:], p[0:32])
	h.Major = p[32]
	h.Minor = p[33]
	h.Special = p[34]
	h.Build = engine.Uint32(p[36:40])
	h.Timestamp = int64(engine.Uint64(p[40:48])) //nolint: gosec
	h.RecordCount = engine.Uint32(p[48:52])
	h.TotalSize = engine.Uint32(p[52:56])
	h.ContentHash = engine.Uint64(p[56:64])
	h.CompressedSize = engine.Uint32(p[64:68])
	h.Flags = engine.Uint32(p[68:72])

	return nil
}

// Bytes serializes the table header record into a new TableHeaderSize byte slice.
func (h *TableHeader) Bytes() []byte {
	engine := endian.TableEngine()

	b := h.Record.AppendTo(make([]byte, 0, TableHeaderSize))
	b = append(b, h.Description[:]...)
	b = append(b, h.Major, h.Minor, h.Special, 0)
	b = engine.AppendUint32(b, h.Build)
	b = engine.AppendUint64(b, uint64(h.Timestamp)) //nolint: gosec
	b = engine.AppendUint32(b, h.RecordCount)
	b = engine.AppendUint32(b, h.TotalSize)
	b = engine.AppendUint64(b, h.ContentHash)
	b = engine.AppendUint32(b, h.CompressedSize)
	b = engine.AppendUint32(b, h.Flags)

	return append(b, make([]byte, TableHeaderSize-len(b))...)
}

// IsLegacy reports whether a newer table header follows this table.
func (h *TableHeader) IsLegacy() bool {
	return h.Flags&TableFlagLegacy != 0
}

// Compression returns the codec of the compressed body.
func (h *TableHeader) Compression() format.CompressionType {
	return format.CompressionType((h.Flags & TableFlagCodecMask) >> TableFlagCodecShift)
}

// SetCompression stores the body codec in the flag field.
func (h *TableHeader) SetCompression(c format.CompressionType) {
	h.Flags = (h.Flags &^ TableFlagCodecMask) | (uint32(c)<<TableFlagCodecShift)&TableFlagCodecMask
}

// DescriptionString returns the description without its NUL padding.
func (h *TableHeader) DescriptionString() string {
	return cString(h.Description[:])
}

// Version returns the version quadruple as "major.minor.special.build".
func (h *TableHeader) Version() string {
	return fmt.Sprintf("%d.%d.%d.%d", h.Major, h.Minor, h.Special, h.Build)
}

// BuildTime returns the build timestamp as a time.Time in UTC.
func (h *TableHeader) BuildTime() time.Time {
	return time.Unix(h.Timestamp, 0).UTC()
}
