package source

import (
	"context"

	"github.com/teambrief/teambrief/core"
)

// Connector pulls documents from one workplace system.
// Implementations must be thread-safe for concurrent use.
type Connector interface {
	// Source returns the logical source this connector feeds.
	Source() core.Source

	// TestConnection verifies the connector can reach its system.
	TestConnection(ctx context.Context) error

	// FetchDocuments returns every available document. Callers treat a
	// failure as an empty fetch; the connector reports it, the pipeline
	// moves on.
	FetchDocuments(ctx context.Context) ([]core.Document, error)
}
