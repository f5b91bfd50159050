// Package errs defines the sentinel errors returned by the platdef packages.
//
// Callers match them with errors.Is; producers wrap them with context via
// fmt.Errorf("...: %w", err).
package errs

import "errors"

// I/O failures. Fatal, the load is aborted.
var (
	// ErrImageUnreadable is returned when the platform image cannot be read.
	ErrImageUnreadable = errors.New("platdef: image unreadable")
	// ErrShortImage is returned when the image is shorter than its declared layout.
	ErrShortImage = errors.New("platdef: image shorter than declared layout")
)

// Format failures. Fatal, the load is aborted.
var (
	ErrInvalidHeaderSize      = errors.New("platdef: invalid header size")
	ErrInvalidTableHeader     = errors.New("platdef: invalid table header")
	ErrCompressedSizeTooSmall = errors.New("platdef: declared compressed size smaller than table header")
	ErrEmptyBody              = errors.New("platdef: compressed body is empty")
	ErrUnsupportedCodec       = errors.New("platdef: unsupported body codec")
	ErrDecompression          = errors.New("platdef: body decompression failed")
	ErrArenaOverflow          = errors.New("platdef: decompressed body exceeds arena capacity")
	ErrDecompressMismatch     = errors.New("platdef: decompressed body shorter than declared table size")
	ErrContentHashMismatch    = errors.New("platdef: content hash mismatch")
	ErrInvalidArenaCapacity   = errors.New("platdef: invalid arena capacity")
	ErrTooManyRecords         = errors.New("platdef: record count exceeds table capacity")
	ErrHealthDeviceOverflow   = errors.New("platdef: health device count exceeds capacity")
	ErrIndexMismatch          = errors.New("platdef: placement pass disagrees with count pass")
)

// Record walk conditions.
var (
	// ErrMalformedRecord terminates a walk: the record cannot be advanced past.
	ErrMalformedRecord = errors.New("platdef: malformed record")
	// ErrUnknownCategory is non-fatal: the record is returned and the walk continues.
	ErrUnknownCategory = errors.New("platdef: unknown record category")
)

// Query and export errors.
var (
	ErrNotLoaded             = errors.New("platdef: no table loaded")
	ErrInvalidCategory       = errors.New("platdef: invalid category")
	ErrTooManyRequestEntries = errors.New("platdef: too many request entries")
	ErrInvalidPayload        = errors.New("platdef: invalid record payload")
)

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("platdef: invalid configuration")
)
