package digest

import "errors"

var (
	// ErrGovernorRequired is returned when no embedding governor is provided.
	ErrGovernorRequired = errors.New("embedding governor is required")

	// ErrStoreRequired is returned when no vector store is provided.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrSummarizerRequired is returned when no summarizer is provided.
	ErrSummarizerRequired = errors.New("summarizer is required")

	// ErrNoTopics is returned when a digest is requested without topics.
	ErrNoTopics = errors.New("at least one topic is required")
)
