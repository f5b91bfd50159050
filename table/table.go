package table

import (
	"errors"
	"iter"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/loader"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/section"
)

// Table is a loaded, indexed platform definition table. It is read-only
// and safe for concurrent use.
type Table struct {
	arena *loader.Arena
	meta  *Metadata
}

// New indexes a loaded arena. See Build.
func New(a *loader.Arena, opts ...Option) (*Table, error) {
	meta, err := Build(a, opts...)
	if err != nil {
		return nil, err
	}

	return &Table{arena: a, meta: meta}, nil
}

// Arena returns the arena holding the table.
func (t *Table) Arena() *loader.Arena {
	return t.arena
}

// Header returns the table header.
func (t *Table) Header() *section.TableHeader {
	return t.arena.Header()
}

// Metadata returns the table index. Callers must not modify it.
func (t *Table) Metadata() *Metadata {
	return t.meta
}

// Count returns the number of indexed records of category c.
func (t *Table) Count(c format.Category) int {
	return t.meta.Count(c)
}

// Bytes returns the whole record, header included. The end-of-table
// record is returned as its header alone.
func (t *Table) Bytes(r Record) []byte {
	end := r.End()
	if r.Header.IsEndOfTable() {
		end = r.Offset + section.RecordHeaderSize
	}

	return t.arena.Bytes()[r.Offset:end]
}

// Records returns an iterator over the record stream from the table
// header record to the end-of-table record.
func (t *Table) Records() iter.Seq2[Record, error] {
	return NewWalker(t.arena).All()
}

// ByID returns the first record with the given id.
//
// The stream is scanned linearly, so the end-of-table record can be found
// by its id. IDNotFound never matches. A malformed record ends the scan.
func (t *Table) ByID(id uint16) (Record, bool) {
	if id == section.IDNotFound {
		return Record{}, false
	}

	for rec, err := range t.Records() {
		if err != nil && !errors.Is(err, errs.ErrUnknownCategory) {
			return Record{}, false
		}
		if rec.Header.ID == id {
			return rec, true
		}
	}

	return Record{}, false
}

// ByCategoryIndex returns the ordinal-th indexed record of category c.
func (t *Table) ByCategoryIndex(c format.Category, ordinal int) (Record, bool) {
	idx := t.meta.Index(c)
	if ordinal < 0 || ordinal >= idx.Count {
		return Record{}, false
	}

	return t.recordAt(t.meta.Flat[idx.First+ordinal])
}

// ByTypeScan returns the first record of category c at or after the arena
// offset cursor, and the cursor to resume the scan from. Start with
// cursor 0. The scan covers the raw stream, so records dropped from the
// index by truncation are still found.
func (t *Table) ByTypeScan(c format.Category, cursor int) (Record, int, bool) {
	if !c.Valid() {
		return Record{}, cursor, false
	}

	w := NewWalker(t.arena)
	w.Seek(cursor)

	for rec, err := range w.All() {
		if err != nil && !errors.Is(err, errs.ErrUnknownCategory) {
			break
		}
		if rec.Category == c {
			return rec, rec.End(), true
		}
	}

	return Record{}, cursor, false
}

// DefaultFanPWM returns the table-wide default fan PWM record.
func (t *Table) DefaultFanPWM() (Record, bool) {
	return t.recordAt(t.meta.DefaultFanPWMOffset)
}

// AltConfig returns the first alternate configuration record.
func (t *Table) AltConfig() (Record, bool) {
	return t.recordAt(t.meta.AltConfigOffset)
}

// EndOfTable returns the end-of-table record.
func (t *Table) EndOfTable() (Record, bool) {
	return t.recordAt(t.meta.EndOffset)
}

func (t *Table) recordAt(offset uint32) (Record, bool) {
	if offset == NoOffset {
		return Record{}, false
	}

	w := NewWalker(t.arena)
	w.Seek(int(offset))

	rec, err := w.Next()
	if err != nil {
		return Record{}, false
	}

	return rec, true
}
