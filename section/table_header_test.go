package section

import (
	"testing"
	"time"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/stretchr/testify/require"
)

func TestNewTableHeader(t *testing.T) {
	h := NewTableHeader("DL380 Gen11", 1)

	require.Equal(t, TypeTableHeader, h.Record.Type)
	require.Equal(t, uint8(TableHeaderUnits), h.Record.Size)
	require.Equal(t, "DL380 Gen11", h.DescriptionString())
	require.Equal(t, format.CompressionDeflate, h.Compression())
	require.False(t, h.IsLegacy())
}

func TestTableHeader_Parse(t *testing.T) {
	t.Run("Valid header", func(t *testing.T) {
		original := NewTableHeader("DL380 Gen11", 1)
		original.Major = 2
		original.Minor = 10
		original.Special = 1
		original.Build = 4711
		original.Timestamp = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Unix()
		original.RecordCount = 42
		original.TotalSize = 8192
		original.ContentHash = 0xDEADBEEFCAFEF00D
		original.CompressedSize = 1024
		original.Flags = TableFlagLegacy
		original.SetCompression(format.CompressionLZ4)

		data := original.Bytes()
		require.Len(t, data, TableHeaderSize)

		parsed, err := ParseTableHeader(data)
		require.NoError(t, err)
		require.Equal(t, *original, parsed)
		require.True(t, parsed.IsLegacy())
		require.Equal(t, format.CompressionLZ4, parsed.Compression())
		require.Equal(t, "2.10.1.4711", parsed.Version())
		require.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), parsed.BuildTime())
	})

	t.Run("Invalid size", func(t *testing.T) {
		_, err := ParseTableHeader(make([]byte, TableHeaderSize-1))
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("Wrong record type", func(t *testing.T) {
		data := NewTableHeader("x", 1).Bytes()
		data[0] = TypeStatus

		_, err := ParseTableHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidTableHeader)
	})

	t.Run("Wrong size field", func(t *testing.T) {
		data := NewTableHeader("x", 1).Bytes()
		data[1] = TableHeaderUnits + 1

		_, err := ParseTableHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidTableHeader)
	})
}

func TestTableHeader_SetCompression(t *testing.T) {
	h := NewTableHeader("x", 1)
	h.Flags = TableFlagLegacy

	h.SetCompression(format.CompressionZstd)
	require.Equal(t, format.CompressionZstd, h.Compression())
	require.True(t, h.IsLegacy())

	h.SetCompression(format.CompressionDeflate)
	require.Equal(t, format.CompressionDeflate, h.Compression())
	require.Equal(t, uint32(TableFlagLegacy), h.Flags)
}
