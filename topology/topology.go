// Package topology projects the I2C engine records of a platform
// definition table into the routing tables used for bus selection.
//
// A Projector builds the tables from scratch on every call, so a result
// never carries a segment left over from a previous generation. The
// caller publishes the result together with the table it came from.
package topology

import (
	"github.com/rs/zerolog"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/options"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/section"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/table"
)

const (
	// MaxEngines is the number of root engine slots.
	MaxEngines = 10
	// MaxSegments is the number of segment slots.
	MaxSegments = 255
	// InvalidSegmentID is never routed.
	InvalidSegmentID = 0xFF
)

// Engine is one root engine slot.
type Engine struct {
	Present  bool
	RecordID uint16
	Name     [section.NameSize]byte
	Segments uint8 // segments routed through this engine
}

// Topology holds the routing tables derived from one table generation.
// Slots not populated by a record are zero.
type Topology struct {
	Engines         [MaxEngines]Engine
	Segments        [MaxSegments]section.I2CSegment
	SegmentToEngine [MaxSegments]uint8
	Routed          [MaxSegments]bool
}

// Engine returns the root engine with the given id.
func (tp *Topology) Engine(id uint8) (Engine, bool) {
	if int(id) >= MaxEngines || !tp.Engines[id].Present {
		return Engine{}, false
	}

	return tp.Engines[id], true
}

// EngineFor returns the engine routing the given segment.
func (tp *Topology) EngineFor(segment uint8) (uint8, bool) {
	if int(segment) >= MaxSegments || !tp.Routed[segment] {
		return 0, false
	}

	return tp.SegmentToEngine[segment], true
}

// Segment returns the descriptor of a routed segment.
func (tp *Topology) Segment(id uint8) (section.I2CSegment, bool) {
	if int(id) >= MaxSegments || !tp.Routed[id] {
		return section.I2CSegment{}, false
	}

	return tp.Segments[id], true
}

// Option configures a Projector.
type Option = options.Option[*Projector]

// WithLogger sets the logger receiving skipped engine warnings.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(p *Projector) {
		p.logger = logger
	})
}

// Projector builds Topology values. It is stateless apart from its
// logger and safe for concurrent use.
type Projector struct {
	logger zerolog.Logger
}

// NewProjector creates a projector.
func NewProjector(opts ...Option) (*Projector, error) {
	p := &Projector{logger: zerolog.Nop()}
	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	return p, nil
}

// Build projects the I2C engine records of t.
//
// The n-th indexed I2C engine record must declare engine id n; a record
// that does not, or whose payload cannot be decoded, is logged and
// skipped. Segments flagged ignored and segments with InvalidSegmentID
// are not routed.
func (p *Projector) Build(t *table.Table) *Topology {
	tp := &Topology{}

	for ordinal := range t.Count(format.CategoryI2CEngine) {
		rec, ok := t.ByCategoryIndex(format.CategoryI2CEngine, ordinal)
		if !ok {
			continue
		}

		eng, err := section.ParseI2CEngine(rec.Payload)
		if err != nil {
			p.logger.Warn().Err(err).Int("ordinal", ordinal).Uint16("record_id", rec.Header.ID).
				Msg("topology: undecodable i2c engine record, skipping")
			continue
		}
		if int(eng.ID) != ordinal || int(eng.ID) >= MaxEngines {
			p.logger.Warn().Int("ordinal", ordinal).Uint16("record_id", rec.Header.ID).Uint8("engine_id", eng.ID).
				Msg("topology: i2c engine id does not match its position, skipping")
			continue
		}

		slot := &tp.Engines[eng.ID]
		slot.Present = true
		slot.RecordID = rec.Header.ID
		slot.Name = rec.Header.Name

		for _, seg := range eng.Segments {
			if seg.Ignored() || seg.ID == InvalidSegmentID {
				continue
			}

			if tp.Routed[seg.ID] {
				p.logger.Warn().Uint8("segment", seg.ID).
					Uint8("previous_engine", tp.SegmentToEngine[seg.ID]).
					Uint8("engine", eng.ID).
					Msg("topology: segment routed by more than one engine, last one wins")
			}

			tp.Segments[seg.ID] = seg
			tp.SegmentToEngine[seg.ID] = eng.ID
			tp.Routed[seg.ID] = true
			slot.Segments++
		}
	}

	return tp
}
