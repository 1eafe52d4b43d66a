package sync

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c360studio/graphsync/rdf"
	"github.com/c360studio/graphsync/sparql"
	"github.com/c360studio/graphsync/vocabulary"
)

// fakeStore is an in-memory triplestore understanding exactly the protocol
// operations the engine issues.
type fakeStore struct {
	graphs  map[string]*rdf.Graph
	updates []string

	// failOn makes the named operation ("select", "update", "construct",
	// "insert") fail, for error-path tests.
	failOn string
}

func newFakeStore() *fakeStore {
	return &fakeStore{graphs: make(map[string]*rdf.Graph)}
}

var graphRef = regexp.MustCompile(`GRAPH <([^>]+)>`)

func (f *fakeStore) graph(uri string) *rdf.Graph {
	if g, ok := f.graphs[uri]; ok {
		return g
	}
	g := rdf.NewGraph()
	f.graphs[uri] = g
	return g
}

func (f *fakeStore) Select(_ context.Context, query string) (*sparql.Results, error) {
	if f.failOn == "select" {
		return nil, sparql.ErrRemoteUnavailable
	}
	switch {
	case strings.Contains(query, "seeAlso"):
		results := &sparql.Results{Vars: []string{"content", "system"}}
		for _, t := range f.graph(vocabulary.BookkeepingGraph).Triples() {
			if t.Predicate != rdf.IRI(vocabulary.PredicateSeeAlso) {
				continue
			}
			results.Rows = append(results.Rows, sparql.Binding{
				"content": uriValue(t.Subject),
				"system":  uriValue(t.Object),
			})
		}
		return results, nil

	case strings.Contains(query, "dcterms:identifier") && strings.Contains(query, "GRAPH <"):
		match := graphRef.FindStringSubmatch(query)
		results := &sparql.Results{Vars: []string{"s"}}
		if match == nil {
			return results, nil
		}
		for _, t := range f.graph(match[1]).Triples() {
			if t.Predicate == rdf.IRI(vocabulary.PredicateIdentifier) {
				results.Rows = append(results.Rows, sparql.Binding{"s": uriValue(t.Subject)})
			}
		}
		return results, nil

	case strings.Contains(query, "dcterms:identifier"):
		results := &sparql.Results{Vars: []string{"content", "id"}}
		for _, g := range f.graphs {
			for _, t := range g.Triples() {
				if t.Predicate != rdf.IRI(vocabulary.PredicateIdentifier) {
					continue
				}
				lit, ok := t.Object.(rdf.Literal)
				if !ok {
					continue
				}
				results.Rows = append(results.Rows, sparql.Binding{
					"content": uriValue(t.Subject),
					"id":      {Type: "literal", Value: lit.Value},
				})
			}
		}
		return results, nil

	case strings.Contains(query, "?g"):
		results := &sparql.Results{Vars: []string{"g"}}
		for uri, g := range f.graphs {
			if g.Len() == 0 {
				continue
			}
			results.Rows = append(results.Rows, sparql.Binding{
				"g": {Type: "uri", Value: uri},
			})
		}
		return results, nil
	}
	return nil, fmt.Errorf("fake store: unhandled select: %s", query)
}

func (f *fakeStore) Construct(_ context.Context, query string) (*rdf.Graph, error) {
	if f.failOn == "construct" {
		return nil, sparql.ErrRemoteUnavailable
	}
	match := graphRef.FindStringSubmatch(query)
	if match == nil {
		return nil, fmt.Errorf("fake store: unhandled construct: %s", query)
	}
	if g, ok := f.graphs[match[1]]; ok {
		return g.Clone(), nil
	}
	return rdf.NewGraph(), nil
}

var (
	dropGraphRe   = regexp.MustCompile(`DROP GRAPH <([^>]+)>`)
	createGraphRe = regexp.MustCompile(`CREATE GRAPH <([^>]+)>`)
	deleteRefRe   = regexp.MustCompile(`DELETE \{ <([^>]+)>`)
	insertRefRe   = regexp.MustCompile(`<([^>]+)> rdfs:seeAlso <([^>]+)>`)
)

func (f *fakeStore) Update(_ context.Context, update string) error {
	if f.failOn == "update" {
		return sparql.ErrRemoteUnavailable
	}
	f.updates = append(f.updates, update)
	switch {
	case strings.Contains(update, "DROP ALL"):
		f.graphs = make(map[string]*rdf.Graph)

	case strings.Contains(update, "DROP GRAPH"):
		match := dropGraphRe.FindStringSubmatch(update)
		if match == nil {
			return fmt.Errorf("fake store: bad drop: %s", update)
		}
		delete(f.graphs, match[1])

	case strings.Contains(update, "CREATE GRAPH"):
		match := createGraphRe.FindStringSubmatch(update)
		if match == nil {
			return fmt.Errorf("fake store: bad create: %s", update)
		}
		f.graph(match[1])

	case strings.Contains(update, "WITH <"+vocabulary.BookkeepingGraph+">"):
		match := deleteRefRe.FindStringSubmatch(update)
		if match == nil {
			return fmt.Errorf("fake store: bad delete: %s", update)
		}
		bookkeeping := f.graph(vocabulary.BookkeepingGraph)
		for _, t := range bookkeeping.Triples() {
			if t.Subject.Equal(rdf.IRI(match[1])) {
				bookkeeping.Remove(t)
			}
		}

	case strings.Contains(update, "INSERT DATA"):
		match := insertRefRe.FindStringSubmatch(update)
		if match == nil {
			return fmt.Errorf("fake store: bad insert: %s", update)
		}
		f.graph(vocabulary.BookkeepingGraph).Add(rdf.Triple{
			Subject:   rdf.IRI(match[1]),
			Predicate: rdf.IRI(vocabulary.PredicateSeeAlso),
			Object:    rdf.IRI(match[2]),
		})

	case strings.Contains(update, "TO DEFAULT"):
		// Recorded only.

	default:
		return fmt.Errorf("fake store: unhandled update: %s", update)
	}
	return nil
}

func (f *fakeStore) InsertGraph(_ context.Context, graphURI string, data []byte, _ string) error {
	if f.failOn == "insert" {
		return sparql.ErrRemoteUnavailable
	}
	parsed, err := rdf.ParseTurtle(data)
	if err != nil {
		return err
	}
	g := f.graph(graphURI)
	for _, t := range parsed.Triples() {
		g.Add(t)
	}
	return nil
}

func uriValue(term rdf.Term) sparql.Value {
	iri, _ := term.(rdf.IRI)
	return sparql.Value{Type: "uri", Value: string(iri)}
}

// seedDataset installs a previously synchronized dataset: content graph,
// metadata graph with its identifier triples, and the bookkeeping entry.
func (f *fakeStore) seedDataset(t *testing.T, uri, doc, metadataURI string) {
	t.Helper()
	content, err := rdf.ParseTurtle([]byte(doc))
	require.NoError(t, err)
	f.graphs[uri] = content

	metadata := rdf.NewGraph()
	metadata.Add(rdf.Triple{
		Subject:   rdf.IRI(uri),
		Predicate: rdf.IRI(vocabulary.PredicateIdentifier),
		Object:    rdf.Literal{Value: CandidateFromURI(uri)},
	})
	f.graphs[metadataURI] = metadata

	f.graph(vocabulary.BookkeepingGraph).Add(rdf.Triple{
		Subject:   rdf.IRI(uri),
		Predicate: rdf.IRI(vocabulary.PredicateSeeAlso),
		Object:    rdf.IRI(metadataURI),
	})
}

// newTestCorpus builds a corpus from inline documents keyed by dataset URI.
func newTestCorpus(t *testing.T, docs map[string]string) *Corpus {
	t.Helper()
	corpus := &Corpus{sources: make(map[string]Source, len(docs))}
	for uri, doc := range docs {
		g, err := rdf.ParseTurtle([]byte(doc))
		require.NoError(t, err)
		corpus.sources[uri] = Source{
			Path:  CandidateFromURI(uri) + ".ttl",
			Data:  []byte(doc),
			Graph: g,
		}
	}
	return corpus
}
