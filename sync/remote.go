package sync

import (
	"context"
	"fmt"
	"sort"

	"github.com/c360studio/graphsync/vocabulary"
)

// RemoteState is the consistent snapshot of the triplestore loaded at
// session start: the dataset graphs it holds, the content-to-metadata
// mapping, and the identifier registry contents.
type RemoteState struct {
	// Datasets are the named graphs holding dataset content, sorted.
	// Reserved system and background graphs are excluded.
	Datasets []string

	// Mapping maps content graph URI to metadata graph URI.
	Mapping map[string]string

	// Identifiers maps subject URI to identifier value, across the whole
	// store. Values are integrity-checked to be distinct.
	Identifiers map[string]string
}

// RemoteReader loads remote state through the protocol client.
type RemoteReader struct {
	store Store
}

// NewRemoteReader creates a reader over the given store.
func NewRemoteReader(store Store) *RemoteReader {
	return &RemoteReader{store: store}
}

// Snapshot loads the full remote state. The identifier registry is
// integrity-checked: a duplicate identifier value fails the session before
// any diffing happens.
func (r *RemoteReader) Snapshot(ctx context.Context) (*RemoteState, error) {
	datasets, err := r.ListDatasetGraphs(ctx)
	if err != nil {
		return nil, err
	}
	mapping, err := r.ReadMapping(ctx)
	if err != nil {
		return nil, err
	}
	identifiers, err := r.ReadIdentifiers(ctx)
	if err != nil {
		return nil, err
	}
	return &RemoteState{Datasets: datasets, Mapping: mapping, Identifiers: identifiers}, nil
}

// ListDatasetGraphs returns the named graphs currently holding dataset
// content, excluding reserved graphs, sorted.
func (r *RemoteReader) ListDatasetGraphs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT ?g
		WHERE {
			GRAPH ?g { ?s ?p ?o . }
		}`
	results, err := r.store.Select(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list dataset graphs: %w", err)
	}
	var graphs []string
	for _, row := range results.Rows {
		g := row.URI("g")
		if g == "" {
			g = row.Literal("g")
		}
		if g == "" || vocabulary.IsReserved(g) {
			continue
		}
		graphs = append(graphs, g)
	}
	sort.Strings(graphs)
	return graphs, nil
}

// ReadMapping returns the content-to-metadata graph mapping recorded in the
// bookkeeping graph.
func (r *RemoteReader) ReadMapping(ctx context.Context) (map[string]string, error) {
	query := fmt.Sprintf(`
		PREFIX rdfs: <%s>
		SELECT ?content ?system
		WHERE {
			GRAPH <%s> {
				?content rdfs:seeAlso ?system .
			}
		}`, vocabulary.RDFSNamespace, vocabulary.BookkeepingGraph)
	results, err := r.store.Select(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	mapping := make(map[string]string, len(results.Rows))
	for _, row := range results.Rows {
		content := row.URI("content")
		system := row.URI("system")
		if content == "" || system == "" {
			continue
		}
		mapping[content] = system
	}
	return mapping, nil
}

// ReadIdentifiers returns every subject-to-identifier binding in the store.
// A duplicate identifier value is a DuplicateIdentifierError.
func (r *RemoteReader) ReadIdentifiers(ctx context.Context) (map[string]string, error) {
	query := fmt.Sprintf(`
		PREFIX dcterms: <%s>
		SELECT ?content ?id
		WHERE {
			?content dcterms:identifier ?id .
		}`, vocabulary.DCTermsNamespace)
	results, err := r.store.Select(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read identifiers: %w", err)
	}
	identifiers := make(map[string]string, len(results.Rows))
	holders := make(map[string][]string)
	for _, row := range results.Rows {
		subject := row.URI("content")
		id := row.Literal("id")
		if subject == "" || id == "" {
			continue
		}
		identifiers[subject] = id
		holders[id] = append(holders[id], subject)
	}
	for id, subjects := range holders {
		subjects = dedupe(subjects)
		if len(subjects) > 1 {
			sort.Strings(subjects)
			return nil, &DuplicateIdentifierError{Identifier: id, URIs: subjects}
		}
	}
	return identifiers, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
