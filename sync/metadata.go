package sync

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/c360studio/graphsync/rdf"
	"github.com/c360studio/graphsync/vocabulary"
)

// MetadataGraph is the derived graph built for one dataset: identifier
// assignments for the dataset and its structural children, plus inferred
// bidirectional membership relations. It lives and dies with its content
// graph.
type MetadataGraph struct {
	// URI is the freshly generated opaque graph name.
	URI string

	// Graph holds the derived triples.
	Graph *rdf.Graph
}

// MetadataBuilder constructs metadata graphs, assigning identifiers through
// the session registry.
type MetadataBuilder struct {
	ids *IdentifierRegistry

	// newGraphURI generates opaque metadata graph names. Overridden in
	// tests for determinism.
	newGraphURI func() string
}

// NewMetadataBuilder creates a builder over the given identifier registry.
func NewMetadataBuilder(ids *IdentifierRegistry) *MetadataBuilder {
	return &MetadataBuilder{
		ids: ids,
		newGraphURI: func() string {
			return vocabulary.BookkeepingGraph + uuid.NewString()
		},
	}
}

// Build derives the metadata graph for a dataset. The content graph must
// describe datasetURI as its dataset subject. Every IRI subject typed as a
// dataset, feature collection, or feature receives an identifier triple;
// membership between feature collections and features is completed in both
// directions without touching the content graph. Identifier collisions abort
// the build.
func (b *MetadataBuilder) Build(datasetURI string, content *rdf.Graph) (*MetadataGraph, error) {
	if !content.HasType(rdf.IRI(datasetURI), rdf.IRI(vocabulary.ClassDataset)) {
		return nil, fmt.Errorf("content graph does not describe %s as a dataset", datasetURI)
	}
	metadata := &MetadataGraph{
		URI:   b.newGraphURI(),
		Graph: rdf.NewGraph(),
	}

	if err := b.assignIdentifiers(metadata.Graph, content); err != nil {
		return nil, err
	}
	inferMembership(metadata.Graph, content)
	return metadata, nil
}

// identifiedClasses are the types whose subjects receive identifiers.
var identifiedClasses = []rdf.IRI{
	rdf.IRI(vocabulary.ClassDataset),
	rdf.IRI(vocabulary.ClassFeatureCollection),
	rdf.IRI(vocabulary.ClassFeature),
}

func (b *MetadataBuilder) assignIdentifiers(metadata, content *rdf.Graph) error {
	seen := make(map[rdf.IRI]bool)
	for _, class := range identifiedClasses {
		for _, subject := range content.SubjectsOfType(class) {
			iri, ok := subject.(rdf.IRI)
			if !ok || seen[iri] {
				continue
			}
			seen[iri] = true
			id, err := b.ids.Assign(string(iri), explicitIdentifier(content, iri))
			if err != nil {
				return err
			}
			metadata.Add(rdf.Triple{
				Subject:   iri,
				Predicate: rdf.IRI(vocabulary.PredicateIdentifier),
				Object:    rdf.Literal{Value: id},
			})
		}
	}
	return nil
}

// explicitIdentifier returns the dcterms:identifier literal supplied on a
// subject in its content graph, empty when absent.
func explicitIdentifier(content *rdf.Graph, subject rdf.IRI) string {
	for _, obj := range content.Objects(subject, rdf.IRI(vocabulary.PredicateIdentifier)) {
		if lit, ok := obj.(rdf.Literal); ok {
			return lit.Value
		}
	}
	return ""
}

// inferMembership completes the feature/feature-collection membership view:
// every dcterms:isPartOf between a feature and a collection yields the
// inverse rdfs:member, and vice versa. Inferred triples go into the
// metadata graph only.
func inferMembership(metadata, content *rdf.Graph) {
	isPartOf := rdf.IRI(vocabulary.PredicateIsPartOf)
	member := rdf.IRI(vocabulary.PredicateMember)
	feature := rdf.IRI(vocabulary.ClassFeature)
	collection := rdf.IRI(vocabulary.ClassFeatureCollection)

	for _, f := range content.SubjectsOfType(feature) {
		for _, fc := range content.Objects(f, isPartOf) {
			if content.HasType(fc, collection) {
				metadata.Add(rdf.Triple{Subject: fc, Predicate: member, Object: f})
			}
		}
	}
	for _, fc := range content.SubjectsOfType(collection) {
		for _, f := range content.Objects(fc, member) {
			if content.HasType(f, feature) {
				metadata.Add(rdf.Triple{Subject: f, Predicate: isPartOf, Object: fc})
			}
		}
	}
}
