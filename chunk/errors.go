package chunk

import "errors"

var (
	// ErrInvalidChunkSize is returned when the chunk size is not positive.
	ErrInvalidChunkSize = errors.New("chunk size must be greater than 0")

	// ErrInvalidOverlap is returned when the overlap is negative or would
	// stop the window from advancing.
	ErrInvalidOverlap = errors.New("overlap must be non-negative and smaller than chunk size")
)
