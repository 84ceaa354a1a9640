// Package badger wraps a BadgerDB instance behind a small backend used by
// the local key/value consumers (response cache, ingest ledger). It owns
// database lifecycle and transaction plumbing; key layout belongs to the
// consumers.
package badger
