package ingestion

import "errors"

var (
	// ErrRedactorRequired is returned when no redactor is provided.
	ErrRedactorRequired = errors.New("redactor is required")

	// ErrChunkerRequired is returned when no chunker is provided.
	ErrChunkerRequired = errors.New("chunker is required")

	// ErrGovernorRequired is returned when no embedding governor is provided.
	ErrGovernorRequired = errors.New("embedding governor is required")

	// ErrStoreRequired is returned when no vector store is provided.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrBackendRequired is returned when no storage backend is provided.
	ErrBackendRequired = errors.New("storage backend is required")
)
