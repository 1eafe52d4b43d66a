package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/graphsync/rdf"
	"github.com/c360studio/graphsync/vocabulary"
)

func TestSnapshot(t *testing.T) {
	store := newFakeStore()
	store.seedDataset(t, riversURI, riversDoc, "system:rivers-meta")
	store.seedDataset(t, lakesURI, lakesDoc, "system:lakes-meta")
	store.graph(vocabulary.BackgroundGraph).Add(rdf.Triple{
		Subject:   rdf.IRI("https://example.org/ontology"),
		Predicate: rdf.IRI(vocabulary.RDFSNamespace + "label"),
		Object:    rdf.Literal{Value: "ontology"},
	})

	state, err := NewRemoteReader(store).Snapshot(context.Background())
	require.NoError(t, err)

	// Reserved graphs never count as datasets.
	assert.Equal(t, []string{lakesURI, riversURI}, state.Datasets)

	assert.Equal(t, map[string]string{
		riversURI: "system:rivers-meta",
		lakesURI:  "system:lakes-meta",
	}, state.Mapping)

	assert.Equal(t, map[string]string{
		riversURI: "rivers",
		lakesURI:  "lakes",
	}, state.Identifiers)
}

func TestSnapshotEmptyStore(t *testing.T) {
	state, err := NewRemoteReader(newFakeStore()).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Datasets)
	assert.Empty(t, state.Mapping)
	assert.Empty(t, state.Identifiers)
}

func TestReadIdentifiersDuplicate(t *testing.T) {
	store := newFakeStore()
	meta := store.graph("system:dup-meta")
	for _, subject := range []string{"https://example.org/a", "https://example.org/b"} {
		meta.Add(rdf.Triple{
			Subject:   rdf.IRI(subject),
			Predicate: rdf.IRI(vocabulary.PredicateIdentifier),
			Object:    rdf.Literal{Value: "shared"},
		})
	}

	_, err := NewRemoteReader(store).ReadIdentifiers(context.Background())
	var dup *DuplicateIdentifierError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "shared", dup.Identifier)
	assert.Equal(t, []string{"https://example.org/a", "https://example.org/b"}, dup.URIs)
}
