package section

import (
	"testing"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/stretchr/testify/require"
)

func TestI2CEngine_Bytes(t *testing.T) {
	original := I2CEngine{
		ID: 3,
		Segments: []I2CSegment{
			{ID: 0x10, Mux: 0x70, Channel: 1, SpeedKHz: 100},
			{ID: 0x11, Flags: I2CSegmentFlagIgnored, SpeedKHz: 400},
		},
	}

	data := original.Bytes()
	require.Len(t, data, I2CEnginePrefixSize+2*I2CSegmentDescriptorSize)

	parsed, err := ParseI2CEngine(data)
	require.NoError(t, err)
	require.Equal(t, original, parsed)
	require.False(t, parsed.Segments[0].Ignored())
	require.True(t, parsed.Segments[1].Ignored())
}

func TestParseI2CEngine(t *testing.T) {
	t.Run("Trailing padding is ignored", func(t *testing.T) {
		data := I2CEngine{ID: 1, Segments: []I2CSegment{{ID: 4}}}.Bytes()
		data = append(data, make([]byte, 20)...)

		e, err := ParseI2CEngine(data)
		require.NoError(t, err)
		require.Len(t, e.Segments, 1)
	})

	t.Run("Short prefix", func(t *testing.T) {
		_, err := ParseI2CEngine([]byte{1, 0})
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("Segment count exceeds payload", func(t *testing.T) {
		_, err := ParseI2CEngine([]byte{1, 3, 0, 0, 1, 0, 0, 0, 100, 0, 0, 0})
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})
}
