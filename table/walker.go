package table

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/loader"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/section"
)

// Record is one record located in the arena.
//
// Payload aliases the arena and must not be modified.
type Record struct {
	Offset   int // arena offset of the record header
	Header   section.RecordHeader
	Payload  []byte
	Category format.Category
}

// Size returns the record size in bytes, header included.
func (r Record) Size() int {
	return r.Header.ByteSize()
}

// End returns the arena offset right after the record.
func (r Record) End() int {
	return r.Offset + r.Size()
}

// Walker iterates the records of an arena in stream order.
//
// The first record is the table header record. The walk ends after the
// end-of-table record, which is returned like any other record; the next
// call reports io.EOF. A malformed record ends the walk with
// ErrMalformedRecord. A record of unknown type is returned together with
// ErrUnknownCategory and the walk continues past it.
//
// Note: A Walker is NOT thread-safe; create one per goroutine.
type Walker struct {
	data []byte
	off  int
	done bool
}

// NewWalker creates a walker positioned at the start of the arena.
func NewWalker(a *loader.Arena) *Walker {
	return newWalker(a.Bytes())
}

func newWalker(data []byte) *Walker {
	return &Walker{data: data}
}

// Offset returns the arena offset of the next record.
func (w *Walker) Offset() int {
	return w.off
}

// Reset positions the walker at the start of the arena.
func (w *Walker) Reset() {
	w.Seek(0)
}

// Seek positions the walker at the given arena offset. The offset must be
// the start of a record.
func (w *Walker) Seek(offset int) {
	w.off = offset
	w.done = false
}

// Next returns the next record.
func (w *Walker) Next() (Record, error) {
	if w.done {
		return Record{}, io.EOF
	}

	off := w.off
	if off < 0 || off+section.RecordHeaderSize > len(w.data) {
		w.done = true
		return Record{}, fmt.Errorf("%w: offset %d: header exceeds arena of %d bytes",
			errs.ErrMalformedRecord, off, len(w.data))
	}

	var h section.RecordHeader
	if err := h.Parse(w.data[off:]); err != nil {
		w.done = true
		return Record{}, fmt.Errorf("%w: offset %d: %w", errs.ErrMalformedRecord, off, err)
	}

	if h.Size == 0 {
		w.done = true
		return Record{}, fmt.Errorf("%w: offset %d: zero size field", errs.ErrMalformedRecord, off)
	}

	end := off + h.ByteSize()
	if h.ByteSize() < section.RecordHeaderSize || end > len(w.data) {
		w.done = true
		return Record{}, fmt.Errorf("%w: offset %d: size %d exceeds arena of %d bytes",
			errs.ErrMalformedRecord, off, h.ByteSize(), len(w.data))
	}

	rec := Record{
		Offset:   off,
		Header:   h,
		Payload:  w.data[off+section.RecordHeaderSize : end : end],
		Category: h.Category(),
	}
	w.off = end

	if h.IsEndOfTable() {
		rec.Payload = rec.Payload[:0]
		w.done = true

		return rec, nil
	}

	if rec.Category == format.CategoryNone {
		return rec, fmt.Errorf("%w: offset %d: type %d", errs.ErrUnknownCategory, off, h.Type)
	}

	return rec, nil
}

// All returns an iterator over the remaining records. Records of unknown
// type are yielded with ErrUnknownCategory; a malformed record is yielded
// as the final pair with ErrMalformedRecord.
func (w *Walker) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := w.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) {
				return
			}
			if errors.Is(err, errs.ErrMalformedRecord) {
				return
			}
		}
	}
}
