// Package table walks, indexes and queries a loaded platform definition
// table.
//
// A table is a stream of variable-length records, each starting with a
// section.RecordHeader whose size field gives the distance to the next
// record. The stream opens with the table header record and closes with
// the end-of-table record.
//
// # Index
//
// Build walks the stream twice and records the arena offset of every
// record in one flat array, partitioned into per-category runs in the
// fixed category order:
//
//	Flat: | TableHeader | TempSensor ... | HiddenTempSensor ... | FanPWM ... | ... | Patch ... |
//	        First[0]      First[1]         First[2]               First[3]           First[23]
//
// Each category has a hard capacity (see Capacities). A category over its
// capacity is truncated by lowering its count; runs never move. The last
// fan PWM record is the table-wide default and is kept out of the fan
// PWM run.
//
// # Queries
//
// Table answers lookups by record id (linear scan), by category and
// ordinal (through the index) and by sequential type scan with a resume
// cursor.
package table
