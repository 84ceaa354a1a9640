// Package ingestion orchestrates the document pipeline: redact, chunk,
// embed under budget, upsert into the vector store. Documents are
// processed concurrently on a worker pool, and an optional ledger skips
// documents whose content has not changed since the last run.
package ingestion
