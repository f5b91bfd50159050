package section

import (
	"bytes"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/endian"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
)

// RecordHeader is the fixed 32-byte prefix of every record in the table.
//
// Layout (little-endian):
//
//	Bytes  | Field    | Description
//	-------|----------|----------------------------------------------
//	0      | Type     | Record type code, 255 = end of table
//	1      | Size     | Record size in 16-byte units, header included
//	2-3    | ID       | Globally unique record identifier
//	4-5    | Flags    | Per-type flags (bit 0: hidden temperature sensor)
//	6      | Entity   | IPMI-style entity id
//	7      | Instance | Entity instance
//	8      | Feature  | Feature byte
//	9-11   | Reserved | Must be zero
//	12-31  | Name     | NUL padded record name
type RecordHeader struct {
	Type     uint8
	Size     uint8
	ID       uint16
	Flags    uint16
	Entity   uint8
	Instance uint8
	Feature  uint8
	Reserved [3]byte
	Name     [NameSize]byte
}

// ParseRecordHeader parses a record header from the first RecordHeaderSize
// bytes of data.
func ParseRecordHeader(data []byte) (RecordHeader, error) {
	var h RecordHeader
	if err := h.Parse(data); err != nil {
		return RecordHeader{}, err
	}

	return h, nil
}

// Parse parses the header from a byte slice holding at least RecordHeaderSize bytes.
func (h *RecordHeader) Parse(data []byte) error {
	if len(data) < RecordHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.TableEngine()

	h.Type = data[0]
	h.Size = data[1]
	h.ID = engine.Uint16(data[2:4])
	h.Flags = engine.Uint16(data[4:6])
	h.Entity = data[6]
	h.Instance = data[7]
	h.Feature = data[8]
	copy(h.Reserved[:], data[9:12])
	copy(h.Name[:], data[12:RecordHeaderSize])

	return nil
}

// Bytes serializes the header into a new RecordHeaderSize byte slice.
func (h *RecordHeader) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, RecordHeaderSize))
}

// AppendTo appends the serialized header to b.
func (h *RecordHeader) AppendTo(b []byte) []byte {
	engine := endian.TableEngine()

	b = append(b, h.Type, h.Size)
	b = engine.AppendUint16(b, h.ID)
	b = engine.AppendUint16(b, h.Flags)
	b = append(b, h.Entity, h.Instance, h.Feature)
	b = append(b, h.Reserved[:]...)

	return append(b, h.Name[:]...)
}

// ByteSize returns the declared record size in bytes, header included.
func (h *RecordHeader) ByteSize() int {
	return int(h.Size) * SizeUnit
}

// IsEndOfTable reports whether the header is the end-of-table sentinel.
func (h *RecordHeader) IsEndOfTable() bool {
	return h.Type == TypeEndOfTable
}

// IsHidden reports whether a temperature sensor is flagged hidden.
func (h *RecordHeader) IsHidden() bool {
	return h.Flags&FlagHiddenSensor != 0
}

// Category returns the index category of the record.
func (h *RecordHeader) Category() format.Category {
	return Classify(h.Type, h.Flags)
}

// NameString returns the record name without its NUL padding.
func (h *RecordHeader) NameString() string {
	return cString(h.Name[:])
}

// SetName stores name into the fixed-width name field, truncating if needed.
func (h *RecordHeader) SetName(name string) {
	clear(h.Name[:])
	copy(h.Name[:], name)
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(b)
}
