// Package pgvector implements vecstore.Index on PostgreSQL with the
// pgvector extension. Partitions map to a namespace column, similarity is
// cosine distance, and metadata filters use jsonb containment.
package pgvector
