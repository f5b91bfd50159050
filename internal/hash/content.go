// Package hash computes the content hash recorded in a table header.
package hash

import "github.com/cespare/xxhash/v2"

// Content returns the xxHash64 of a table's record region.
func Content(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Verify reports whether data hashes to want. A zero want means the table
// compiler did not record a hash and always verifies.
func Verify(data []byte, want uint64) bool {
	if want == 0 {
		return true
	}

	return Content(data) == want
}
