package search

import "errors"

var (
	// ErrGovernorRequired is returned when no embedding governor is provided.
	ErrGovernorRequired = errors.New("embedding governor is required")

	// ErrStoreRequired is returned when no vector store is provided.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrEmptyQuery is returned when the query is empty.
	ErrEmptyQuery = errors.New("query must not be empty")
)
