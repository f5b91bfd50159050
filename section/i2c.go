package section

import (
	"fmt"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/endian"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
)

// I2C engine payload constants.
const (
	I2CEnginePrefixSize      = 4    // engine id, segment count, reserved
	I2CSegmentDescriptorSize = 8    // one attached segment
	I2CSegmentFlagIgnored    = 0x01 // segment is declared but not routed
)

// I2CSegment describes one bus segment attached to an I2C engine.
//
//	Bytes | Field    | Description
//	------|----------|------------------------------
//	0     | ID       | Segment id, 255 = invalid
//	1     | Flags    | Bit 0: ignored
//	2     | Mux      | Mux address, 0 = direct
//	3     | Channel  | Mux channel
//	4-5   | SpeedKHz | Bus speed in kHz
//	6-7   | Reserved | Must be zero
type I2CSegment struct {
	ID       uint8
	Flags    uint8
	Mux      uint8
	Channel  uint8
	SpeedKHz uint16
}

// Ignored reports whether the segment is flagged as not routed.
func (s I2CSegment) Ignored() bool {
	return s.Flags&I2CSegmentFlagIgnored != 0
}

// I2CEngine is the decoded payload of an I2C engine record.
type I2CEngine struct {
	ID       uint8
	Segments []I2CSegment
}

// ParseI2CEngine decodes an I2C engine record payload.
func ParseI2CEngine(payload []byte) (I2CEngine, error) {
	if len(payload) < I2CEnginePrefixSize {
		return I2CEngine{}, fmt.Errorf("%w: i2c engine payload is %d bytes", errs.ErrInvalidPayload, len(payload))
	}

	engine := endian.TableEngine()
	e := I2CEngine{ID: payload[0]}

	count := int(payload[1])
	need := I2CEnginePrefixSize + count*I2CSegmentDescriptorSize
	if len(payload) < need {
		return I2CEngine{}, fmt.Errorf("%w: i2c engine %d declares %d segments in %d bytes",
			errs.ErrInvalidPayload, e.ID, count, len(payload))
	}

	e.Segments = make([]I2CSegment, count)
	for i := range count {
		d := payload[I2CEnginePrefixSize+i*I2CSegmentDescriptorSize:]
		e.Segments[i] = I2CSegment{
			ID:       d[0],
			Flags:    d[1],
			Mux:      d[2],
			Channel:  d[3],
			SpeedKHz: engine.Uint16(d[4:6]),
		}
	}

	return e, nil
}

// Bytes serializes the engine payload.
func (e I2CEngine) Bytes() []byte {
	engine := endian.TableEngine()

	b := make([]byte, 0, I2CEnginePrefixSize+len(e.Segments)*I2CSegmentDescriptorSize)
	b = append(b, e.ID, uint8(len(e.Segments)), 0, 0) //nolint: gosec
	for _, s := range e.Segments {
		b = append(b, s.ID, s.Flags, s.Mux, s.Channel)
		b = engine.AppendUint16(b, s.SpeedKHz)
		b = append(b, 0, 0)
	}

	return b
}
