package table

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/options"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/loader"
)

// Build indexes the records of a loaded arena.
//
// It walks the record stream twice with the same Walker. The count pass
// classifies every record; the layout pass turns the counts into category
// runs by prefix sums; the placement pass writes each record's offset into
// its run. Afterwards the trailing fan PWM record is split off as the
// table default, categories over their cap are truncated, and the health
// device total is checked.
//
// A malformed record, more than MaxRecords records or more than
// MaxHealthDevices health devices fail the build. Records of unknown type
// are logged and left out of the index.
func Build(a *loader.Arena, opts ...Option) (*Metadata, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	ix := &indexer{
		walker: NewWalker(a),
		logger: cfg.logger,
		meta: &Metadata{
			DefaultFanPWMOffset: NoOffset,
			AltConfigOffset:     NoOffset,
			EndOffset:           NoOffset,
		},
	}

	if err := ix.count(); err != nil {
		return nil, err
	}
	ix.layout()
	if err := ix.place(); err != nil {
		return nil, err
	}
	if err := ix.finish(); err != nil {
		return nil, err
	}

	return ix.meta, nil
}

type indexer struct {
	walker *Walker
	logger zerolog.Logger
	meta   *Metadata

	counts [format.NumCategories]int
	total  int
}

// walk visits every indexable record from the start of the arena and
// returns the offset of the end-of-table record. Records of unknown type
// are skipped, and logged when report is set.
func (ix *indexer) walk(report bool, visit func(rec Record) error) (int, error) {
	ix.walker.Reset()

	for {
		rec, err := ix.walker.Next()
		switch {
		case errors.Is(err, io.EOF):
			return 0, fmt.Errorf("%w: stream ended without end-of-table record", errs.ErrMalformedRecord)
		case errors.Is(err, errs.ErrUnknownCategory):
			if report {
				ix.logger.Debug().
					Int("offset", rec.Offset).
					Uint8("type", rec.Header.Type).
					Uint16("id", rec.Header.ID).
					Msg("unknown record type, not indexed")
			}
			continue
		case err != nil:
			return 0, err
		}

		if rec.Header.IsEndOfTable() {
			return rec.Offset, nil
		}

		if err := visit(rec); err != nil {
			return 0, err
		}
	}
}

func (ix *indexer) count() error {
	end, err := ix.walk(true, func(rec Record) error {
		ix.counts[rec.Category]++
		ix.total++
		if ix.total > MaxRecords {
			return fmt.Errorf("%w: more than %d records", errs.ErrTooManyRecords, MaxRecords)
		}

		return nil
	})
	if err != nil {
		return err
	}

	ix.meta.EndOffset = uint32(end) //nolint: gosec

	return nil
}

func (ix *indexer) layout() {
	first := 0
	for c := range ix.meta.Categories {
		ix.meta.Categories[c] = CategoryIndex{First: first}
		first += ix.counts[c]
	}
}

func (ix *indexer) place() error {
	m := ix.meta
	placed := 0

	_, err := ix.walk(false, func(rec Record) error {
		idx := &m.Categories[rec.Category]
		if idx.Count >= ix.counts[rec.Category] {
			return fmt.Errorf("%w: category %s overflows its run at offset %d",
				errs.ErrIndexMismatch, rec.Category, rec.Offset)
		}

		m.Flat[idx.First+idx.Count] = uint32(rec.Offset) //nolint: gosec
		idx.Count++
		placed++

		return nil
	})
	if err != nil {
		return err
	}

	if placed != ix.total {
		return fmt.Errorf("%w: counted %d records, placed %d", errs.ErrIndexMismatch, ix.total, placed)
	}

	m.RecordCount = placed

	ix.logger.Debug().
		Int("records", placed).
		Uint32("end_offset", m.EndOffset).
		Msg("table indexed")

	return nil
}

func (ix *indexer) finish() error {
	m := ix.meta

	if fan := &m.Categories[format.CategoryFanPWM]; fan.Count > 0 {
		fan.Count--
		m.DefaultFanPWMOffset = m.Flat[fan.First+fan.Count]
	}

	for c := range m.Categories {
		ix.truncate(format.Category(c), Capacities[c])
	}

	ix.capTempSensors()

	if alt := m.Categories[format.CategoryAltConfig]; alt.Count > 0 {
		m.AltConfigOffset = m.Flat[alt.First]
	}

	if n := m.HealthDevices(); n > MaxHealthDevices {
		return fmt.Errorf("%w: %d health devices, capacity %d", errs.ErrHealthDeviceOverflow, n, MaxHealthDevices)
	}

	return nil
}

// truncate lowers the count of c to limit. First is never moved.
func (ix *indexer) truncate(c format.Category, limit int) {
	idx := &ix.meta.Categories[c]
	if idx.Count <= limit {
		return
	}

	dropped := idx.Count - limit
	ix.logger.Warn().
		Stringer("category", c).
		Int("count", idx.Count).
		Int("capacity", limit).
		Int("dropped", dropped).
		Msg("category exceeds capacity, truncating")

	idx.Count = limit
	ix.meta.Dropped[c] += dropped
}

// capTempSensors enforces the combined temperature sensor cap, trimming
// hidden sensors first.
func (ix *indexer) capTempSensors() {
	m := ix.meta
	visible := m.Categories[format.CategoryTempSensor].Count
	hidden := m.Categories[format.CategoryHiddenTempSensor].Count

	excess := visible + hidden - MaxTempSensors
	if excess <= 0 {
		return
	}

	trimHidden := min(excess, hidden)
	ix.truncate(format.CategoryHiddenTempSensor, hidden-trimHidden)
	ix.truncate(format.CategoryTempSensor, visible-(excess-trimHidden))
}
