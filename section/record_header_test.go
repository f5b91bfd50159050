package section

import (
	"testing"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/stretchr/testify/require"
)

func TestRecordHeader_Parse(t *testing.T) {
	t.Run("Valid header", func(t *testing.T) {
		original := RecordHeader{
			Type:     TypePowerSupply,
			Size:     3,
			ID:       0x1234,
			Flags:    0x00F0,
			Entity:   10,
			Instance: 2,
			Feature:  7,
		}
		original.SetName("PSU 2")

		data := original.Bytes()
		require.Len(t, data, RecordHeaderSize)

		parsed, err := ParseRecordHeader(data)
		require.NoError(t, err)
		require.Equal(t, original, parsed)
		require.Equal(t, "PSU 2", parsed.NameString())
		require.Equal(t, 48, parsed.ByteSize())
		require.Equal(t, format.CategoryPowerSupply, parsed.Category())
	})

	t.Run("Field offsets", func(t *testing.T) {
		data := make([]byte, RecordHeaderSize)
		data[0] = TypeFanPWM
		data[1] = 2
		data[2], data[3] = 0x34, 0x12
		data[4], data[5] = 0x01, 0x00
		copy(data[12:], "FAN")

		h, err := ParseRecordHeader(data)
		require.NoError(t, err)
		require.Equal(t, TypeFanPWM, h.Type)
		require.Equal(t, uint16(0x1234), h.ID)
		require.True(t, h.IsHidden())
		require.Equal(t, "FAN", h.NameString())
	})

	t.Run("Invalid size", func(t *testing.T) {
		_, err := ParseRecordHeader(make([]byte, RecordHeaderSize-1))
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("Long name is truncated", func(t *testing.T) {
		var h RecordHeader
		h.SetName("a name that is definitely longer than twenty bytes")
		require.Len(t, h.NameString(), NameSize)
	})
}

func TestRecordHeader_IsEndOfTable(t *testing.T) {
	h := RecordHeader{Type: TypeEndOfTable}
	require.True(t, h.IsEndOfTable())
	require.Equal(t, format.CategoryNone, h.Category())

	h.Type = TypeStatus
	require.False(t, h.IsEndOfTable())
}

func TestClassify(t *testing.T) {
	require.Equal(t, format.CategoryTempSensor, Classify(TypeTempSensor, 0))
	require.Equal(t, format.CategoryHiddenTempSensor, Classify(TypeTempSensor, FlagHiddenSensor))
	require.Equal(t, format.CategoryPatch, Classify(TypePatch, 0))
	require.Equal(t, format.CategoryPatch, Classify(TypeReplacement, 0))
	require.Equal(t, format.CategoryNone, Classify(TypeEndOfTable, 0))
	require.Equal(t, format.CategoryNone, Classify(200, 0))
	// The hidden flag only splits temperature sensors.
	require.Equal(t, format.CategoryStatus, Classify(TypeStatus, FlagHiddenSensor))
}

func TestTypeCodeOf(t *testing.T) {
	for _, c := range format.Categories() {
		typeCode, flags, ok := TypeCodeOf(c)
		require.True(t, ok, c.String())
		require.Equal(t, c, Classify(typeCode, flags), c.String())
	}

	_, _, ok := TypeCodeOf(format.CategoryNone)
	require.False(t, ok)
}
