package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teambrief/teambrief/core"
	"github.com/teambrief/teambrief/storage/badger"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()

	backend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	ledger, err := NewLedger(backend)
	require.NoError(t, err)
	return ledger
}

func TestNewLedger_NilBackend(t *testing.T) {
	_, err := NewLedger(nil)
	assert.ErrorIs(t, err, ErrBackendRequired)
}

func TestLedger_SeenAfterRecord(t *testing.T) {
	ledger := newTestLedger(t)

	doc := core.Document{
		Source:    core.SourceDocs,
		SourceID:  "page-7",
		Content:   "release checklist",
		Timestamp: time.Now().Add(-time.Minute),
	}

	assert.False(t, ledger.Seen(&doc))
	require.NoError(t, ledger.Record(&doc, 3, 3))
	assert.True(t, ledger.Seen(&doc))
}

func TestLedger_ContentChangeReadsAsNew(t *testing.T) {
	ledger := newTestLedger(t)

	doc := core.Document{Source: core.SourceChat, SourceID: "msg-1", Content: "v1"}
	require.NoError(t, ledger.Record(&doc, 1, 1))

	edited := doc
	edited.Content = "v2"
	assert.False(t, ledger.Seen(&edited), "edits produce a new content hash")
	assert.True(t, ledger.Seen(&doc))
}

func TestLedger_Entries(t *testing.T) {
	ledger := newTestLedger(t)

	docA := core.Document{Source: core.SourceChat, SourceID: "msg-1", Content: "a"}
	docB := core.Document{Source: core.SourceDrive, SourceID: "file-1", Content: "b"}
	require.NoError(t, ledger.Record(&docA, 1, 1))
	require.NoError(t, ledger.Record(&docB, 2, 2))

	entries, err := ledger.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	bySourceID := make(map[string]LedgerEntry)
	for _, entry := range entries {
		bySourceID[entry.SourceID] = entry
	}
	assert.Equal(t, "chat", bySourceID["msg-1"].Source)
	assert.Equal(t, 2, bySourceID["file-1"].Chunks)
	assert.False(t, bySourceID["msg-1"].IngestedAt.IsZero())
}
