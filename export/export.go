// Package export assembles bounded extracts of a platform definition table
// for the host wire channel.
//
// An extract is a sequence of frames:
//
//	Bytes   | Field  | Description
//	--------|--------|-----------------------------------------------
//	0-1     | ID     | Record identifier, little-endian
//	2-3     | Offset | Byte offset inside the record, header included
//	4-      | Data   | Length bytes copied from the record
//
// Frames carry no length; the requester knows the lengths it asked for.
// An extract never exceeds MaxChunkSize bytes.
package export

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/endian"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/options"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/pool"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/table"
)

const (
	// MaxChunkSize is the outbound byte budget of one extract.
	MaxChunkSize = 4000
	// MaxRequestEntries is the longest accepted request list.
	MaxRequestEntries = 500
	// FrameHeaderSize is the size of the id and offset preceding frame data.
	FrameHeaderSize = 4
)

// Range selects bytes of a record. A zero Length selects everything from
// Offset to the end of the record.
type Range struct {
	Offset uint16
	Length uint16
}

// Request selects a byte range of the record with the given id.
type Request struct {
	ID uint16
	Range
}

// Chunk is the result of ByID.
type Chunk struct {
	Data  []byte
	Count int    // frames written
	Token uint32 // echoed request token
}

// CategoryChunk is the result of ByCategory.
type CategoryChunk struct {
	Data    []byte
	Records int // records with at least one frame written
}

// Option configures an extract.
type Option = options.Option[*config]

type config struct {
	logger zerolog.Logger
}

// WithLogger sets the logger receiving skipped-entry notices.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = logger
	})
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{logger: zerolog.Nop()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ByID copies the requested ranges into frames in request order.
//
// Requests naming a missing record or a range outside the record are
// skipped. The extract stops before the first frame that would exceed
// MaxChunkSize. The token is returned unchanged.
func ByID(t *table.Table, token uint32, reqs []Request, opts ...Option) (Chunk, error) {
	if len(reqs) > MaxRequestEntries {
		return Chunk{}, fmt.Errorf("%w: %d entries, limit %d", errs.ErrTooManyRequestEntries, len(reqs), MaxRequestEntries)
	}

	cfg, err := newConfig(opts)
	if err != nil {
		return Chunk{}, err
	}

	buf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(buf)

	count := 0
	for i, req := range reqs {
		rec, ok := t.ByID(req.ID)
		if !ok {
			cfg.logger.Debug().Int("entry", i).Uint16("id", req.ID).Msg("export: record not found, skipping")
			continue
		}

		data, ok := slice(t.Bytes(rec), req.Range)
		if !ok {
			cfg.logger.Debug().Int("entry", i).Uint16("id", req.ID).
				Uint16("offset", req.Offset).Uint16("length", req.Length).
				Msg("export: range outside record, skipping")
			continue
		}

		if buf.Len()+FrameHeaderSize+len(data) > MaxChunkSize {
			break
		}

		appendFrame(buf, req.ID, req.Offset, data)
		count++
	}

	return Chunk{Data: buf.Clone(), Count: count, Token: token}, nil
}

// ByCategory copies the requested ranges of every record of category c.
//
// Each call scans from the start of the table; there is no cursor, so
// when the matching records do not fit in one extract the remainder
// cannot be retrieved by a later call. A record's frames are written
// together: the extract stops before the first record whose frames would
// exceed MaxChunkSize. Records dropped from the index by truncation are
// included.
func ByCategory(t *table.Table, c format.Category, ranges []Range, opts ...Option) (CategoryChunk, error) {
	if !c.Valid() {
		return CategoryChunk{}, fmt.Errorf("%w: %d", errs.ErrInvalidCategory, c)
	}
	if len(ranges) > MaxRequestEntries {
		return CategoryChunk{}, fmt.Errorf("%w: %d entries, limit %d", errs.ErrTooManyRequestEntries, len(ranges), MaxRequestEntries)
	}

	cfg, err := newConfig(opts)
	if err != nil {
		return CategoryChunk{}, err
	}

	buf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(buf)

	records := 0
	cursor := 0
	for {
		rec, next, ok := t.ByTypeScan(c, cursor)
		if !ok {
			break
		}
		cursor = next

		raw := t.Bytes(rec)
		size := 0
		for _, r := range ranges {
			if data, ok := slice(raw, r); ok {
				size += FrameHeaderSize + len(data)
			}
		}

		if size == 0 {
			cfg.logger.Debug().Uint16("id", rec.Header.ID).Msg("export: no requested range inside record, skipping")
			continue
		}
		if buf.Len()+size > MaxChunkSize {
			break
		}

		for _, r := range ranges {
			if data, ok := slice(raw, r); ok {
				appendFrame(buf, rec.Header.ID, r.Offset, data)
			}
		}
		records++
	}

	return CategoryChunk{Data: buf.Clone(), Records: records}, nil
}

// slice returns the bytes of record selected by r.
func slice(record []byte, r Range) ([]byte, bool) {
	start := int(r.Offset)
	if start >= len(record) {
		return nil, false
	}

	end := len(record)
	if r.Length != 0 {
		end = start + int(r.Length)
	}
	if end > len(record) {
		return nil, false
	}

	return record[start:end], true
}

func appendFrame(buf *pool.ByteBuffer, id, offset uint16, data []byte) {
	engine := endian.TableEngine()

	buf.B = engine.AppendUint16(buf.B, id)
	buf.B = engine.AppendUint16(buf.B, offset)
	buf.MustWrite(data)
}
