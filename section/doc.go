// Package section defines the low-level binary structures of a platform
// definition (PlatDef) table.
//
// A table is a stream of records. Every record starts with a fixed 32-byte
// RecordHeader whose size field counts 16-byte units, header included, so a
// reader advances by Size*16 bytes. The stream opens with a TableHeader
// record and closes with the end-of-table sentinel (type 255).
//
// # Image Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Outer prefix (fixed length, container specific)         │
//	├─────────────────────────────────────────────────────────┤
//	│ Table header record (112 bytes, uncompressed)           │
//	│  - RecordHeader (32 bytes)                              │
//	│  - Description, version, sizes, hash, flags             │
//	├─────────────────────────────────────────────────────────┤
//	│ Compressed body (CompressedSize - 112 bytes)            │
//	│  - Records: RecordHeader + payload, 16-byte multiples   │
//	│  - End-of-table record                                  │
//	│  - Legacy tables: a second table header and its records │
//	└─────────────────────────────────────────────────────────┘
//
// All multi-byte integers are little-endian, see endian.TableEngine.
//
// # Categories
//
// Classify maps a type code (and, for temperature sensors, the hidden
// flag) to a format.Category. Unknown type codes and the end-of-table
// sentinel classify to format.CategoryNone.
package section
