// Package mock provides an in-memory vecstore.Index for tests. The
// default behavior is a real, if naive, vector store: exact cosine
// ranking over everything upserted. Function fields allow failure
// injection per operation.
package mock
