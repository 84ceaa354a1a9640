package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities, generated by content-based
// hashing so identical content always maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Source identifies the platform a document originated from.
type Source string

const (
	// SourceChat is the chat/workspace messaging platform.
	SourceChat Source = "chat"
	// SourceDocs is the collaborative workspace/document platform.
	SourceDocs Source = "docs"
	// SourceDrive is the cloud file-storage platform.
	SourceDrive Source = "drive"
)

// KnownSources lists every source with a dedicated vector partition.
func KnownSources() []Source {
	return []Source{SourceChat, SourceDocs, SourceDrive}
}

// Document is one unit of raw content fetched from a source, before
// redaction and chunking.
type Document struct {
	Source    Source
	SourceID  string // Unique identifier within the source platform
	Title     string
	Author    string
	Timestamp time.Time // Creation or last-modification time at the source
	URL       string
	Content   string
	Metadata  map[string]any // Additional source-specific metadata
}

// ContentID returns the deterministic ID of the document's content.
// Used by the ingest ledger to detect unchanged documents across runs.
func (d *Document) ContentID() ID {
	return IDFromContent(string(d.Source) + ":" + d.SourceID + ":" + d.Content)
}

// SearchResult is a ranked vector match returned from the store.
type SearchResult struct {
	ID       string
	Score    float32
	Metadata map[string]any
}
