package ingestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/teambrief/teambrief/core"
	"github.com/teambrief/teambrief/storage/badger"
)

// ledgerPrefix namespaces ledger records within the shared database.
const ledgerPrefix = "ingest:"

// LedgerEntry records one ingested document version.
type LedgerEntry struct {
	Source     string    `json:"source"`
	SourceID   string    `json:"source_id"`
	ContentID  string    `json:"content_id"`
	Chunks     int       `json:"chunks"`
	Vectors    int       `json:"vectors"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Ledger tracks which document versions have already been ingested.
// Records are keyed by content hash, so an edited document reads as new
// while an unchanged one is skipped on re-runs.
type Ledger struct {
	backend *badger.Backend
	logger  *slog.Logger
}

// NewLedger creates a ledger over the given backend.
func NewLedger(backend *badger.Backend) (*Ledger, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &Ledger{
		backend: backend,
		logger:  slog.Default().With("component", "ingest_ledger"),
	}, nil
}

func ledgerKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s%016x", ledgerPrefix, id))
}

// Seen reports whether this exact document content was ingested before.
func (l *Ledger) Seen(doc *core.Document) bool {
	found := false
	err := l.backend.WithTx(func(tx *badgerdb.Txn) error {
		_, err := tx.Get(ledgerKey(doc.ContentID()))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	}, false)
	if err != nil {
		l.logger.Error("ledger lookup failed", "source_id", doc.SourceID, "err", err)
		return false
	}
	return found
}

// Record marks a document version as ingested.
func (l *Ledger) Record(doc *core.Document, chunks, vectors int) error {
	id := doc.ContentID()
	data, err := json.Marshal(LedgerEntry{
		Source:     string(doc.Source),
		SourceID:   doc.SourceID,
		ContentID:  fmt.Sprintf("%016x", id),
		Chunks:     chunks,
		Vectors:    vectors,
		IngestedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}

	return l.backend.WithTx(func(tx *badgerdb.Txn) error {
		return tx.Set(ledgerKey(id), data)
	}, true)
}

// Entries returns every ledger record.
func (l *Ledger) Entries() ([]LedgerEntry, error) {
	var entries []LedgerEntry

	err := l.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(ledgerPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry LedgerEntry
			err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
