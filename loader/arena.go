package loader

import (
	"github.com/opencontainers/go-digest"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/section"
)

// Arena is the fixed-capacity buffer holding one decompressed table.
//
// The header region holds the table header record, the record region the
// concatenated record stream. An arena is never resized and never
// mutated once Load returns it.
type Arena struct {
	data       []byte
	header     section.TableHeader
	streamLen  int
	digest     digest.Digest
	superseded bool
}

// Bytes returns the whole arena, including the zeroed space after the
// record stream. Callers must not modify it.
func (a *Arena) Bytes() []byte {
	return a.data
}

// Header returns the decoded header of the active table. Callers must not
// modify it.
func (a *Arena) Header() *section.TableHeader {
	return &a.header
}

// Capacity returns the arena size in bytes.
func (a *Arena) Capacity() int {
	return len(a.data)
}

// StreamLen returns the number of arena bytes holding decompressed data.
func (a *Arena) StreamLen() int {
	return a.streamLen
}

// Digest returns the digest of the compressed table as read from the image
// (table header and body, container prefix excluded).
func (a *Arena) Digest() digest.Digest {
	return a.digest
}

// Superseded reports whether the image carried a legacy table that was
// replaced by the newer table following it.
func (a *Arena) Superseded() bool {
	return a.superseded
}
