package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategory_String(t *testing.T) {
	require.Equal(t, "TableHeader", CategoryTableHeader.String())
	require.Equal(t, "HiddenTempSensor", CategoryHiddenTempSensor.String())
	require.Equal(t, "Patch", CategoryPatch.String())
	require.Equal(t, "Unknown", CategoryNone.String())
	require.Equal(t, 24, NumCategories)
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		parsed, ok := ParseCategory(c.String())
		require.True(t, ok, c.String())
		require.Equal(t, c, parsed)
	}

	_, ok := ParseCategory("Bogus")
	require.False(t, ok)
}

func TestCompressionType_String(t *testing.T) {
	require.Equal(t, "Deflate", CompressionDeflate.String())
	require.Equal(t, "None", CompressionNone.String())
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "S2", CompressionS2.String())
	require.Equal(t, "LZ4", CompressionLZ4.String())
	require.Equal(t, "Unknown", CompressionType(0x7).String())
}
