package source

import (
	"context"

	"github.com/teambrief/teambrief/core"
)

// MockConnector is a test double for Connector. It allows custom behavior
// injection via function fields.
type MockConnector struct {
	// SourceName is the logical source reported by Source.
	SourceName core.Source

	// Documents are returned by FetchDocuments when FetchDocumentsFunc is
	// nil.
	Documents []core.Document

	// TestConnectionFunc is called by TestConnection if set.
	TestConnectionFunc func(ctx context.Context) error

	// FetchDocumentsFunc is called by FetchDocuments if set.
	FetchDocumentsFunc func(ctx context.Context) ([]core.Document, error)
}

// NewMockConnector creates a mock connector serving the given documents.
func NewMockConnector(src core.Source, docs ...core.Document) *MockConnector {
	return &MockConnector{SourceName: src, Documents: docs}
}

// Source returns the configured logical source.
func (m *MockConnector) Source() core.Source {
	return m.SourceName
}

// TestConnection succeeds unless a failure is injected.
func (m *MockConnector) TestConnection(ctx context.Context) error {
	if m.TestConnectionFunc != nil {
		return m.TestConnectionFunc(ctx)
	}
	return nil
}

// FetchDocuments returns the configured documents.
func (m *MockConnector) FetchDocuments(ctx context.Context) ([]core.Document, error) {
	if m.FetchDocumentsFunc != nil {
		return m.FetchDocumentsFunc(ctx)
	}
	return m.Documents, nil
}
