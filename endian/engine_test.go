package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableEngine(t *testing.T) {
	engine := TableEngine()
	require.Equal(t, binary.LittleEndian, engine)

	b := engine.AppendUint16(nil, 0xFFFE)
	require.Equal(t, []byte{0xFE, 0xFF}, b)
	require.Equal(t, uint16(0xFFFE), engine.Uint16(b))
}

func TestEngines(t *testing.T) {
	b := make([]byte, 4)

	GetBigEndianEngine().PutUint32(b, 0x01020304)
	require.Equal(t, []byte{1, 2, 3, 4}, b)

	GetLittleEndianEngine().PutUint32(b, 0x01020304)
	require.Equal(t, []byte{4, 3, 2, 1}, b)
}
