package vecstore

import "errors"

var (
	// ErrNilIndex is returned when no backing index is provided.
	ErrNilIndex = errors.New("vector index is required")

	// ErrInvalidDimension is returned when the configured dimension is not
	// positive.
	ErrInvalidDimension = errors.New("vector dimension must be greater than 0")

	// ErrCardinalityMismatch is returned when vectors, ids and metadata
	// have different lengths.
	ErrCardinalityMismatch = errors.New("vectors, ids and metadata must have equal length")

	// ErrDimensionMismatch is returned when a vector does not match the
	// store's configured dimension.
	ErrDimensionMismatch = errors.New("vector dimension does not match store dimension")

	// ErrEmptyVector is returned when a query vector is empty.
	ErrEmptyVector = errors.New("query vector must not be empty")

	// ErrInvalidTopK is returned when a query requests a non-positive
	// number of results.
	ErrInvalidTopK = errors.New("topK must be greater than 0")
)
