package sync

import (
	"context"

	"github.com/c360studio/graphsync/rdf"
	"github.com/c360studio/graphsync/sparql"
)

// Store is the remote protocol surface the engine needs. *sparql.Client
// implements it; tests substitute an in-memory fake.
type Store interface {
	// Select executes a SELECT query.
	Select(ctx context.Context, query string) (*sparql.Results, error)

	// Construct executes a CONSTRUCT query.
	Construct(ctx context.Context, query string) (*rdf.Graph, error)

	// Update executes a SPARQL update.
	Update(ctx context.Context, update string) error

	// InsertGraph bulk-inserts serialized content into a named graph.
	InsertGraph(ctx context.Context, graphURI string, data []byte, contentType string) error
}

var _ Store = (*sparql.Client)(nil)
