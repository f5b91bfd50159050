// Package endian provides the byte order used by the platform definition table.
//
// PlatDef tables are compiled little-endian regardless of the controller's
// native order. Every decoder and encoder in this module reads and writes
// multi-byte fields through TableEngine so the choice lives in one place.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// TableEngine returns the byte order of platform definition tables.
func TableEngine() EndianEngine {
	return binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
