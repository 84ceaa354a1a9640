// Package vecstore stores and queries embedding vectors in
// source-partitioned collections.
//
// Store owns the routing from logical source names to partitions and all
// pre-flight validation; the Index interface is the service boundary a
// concrete backend implements (pgvector in production, mock in tests).
package vecstore
