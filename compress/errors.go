package compress

import "errors"

// ErrShortBuffer is returned when a decompressed stream does not fit the destination buffer.
var ErrShortBuffer = errors.New("compress: destination buffer too small")
