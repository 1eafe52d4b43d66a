package sync

import (
	"context"
	"fmt"
	"sort"

	"github.com/c360studio/graphsync/rdf"
)

// DiffURISets computes the datasets to add (local only) and to delete
// (remote only). Pure set difference; both outputs are sorted.
func DiffURISets(local, remote []string) (toAdd, toDelete []string) {
	localSet := make(map[string]bool, len(local))
	for _, uri := range local {
		localSet[uri] = true
	}
	remoteSet := make(map[string]bool, len(remote))
	for _, uri := range remote {
		remoteSet[uri] = true
	}
	for uri := range localSet {
		if !remoteSet[uri] {
			toAdd = append(toAdd, uri)
		}
	}
	for uri := range remoteSet {
		if !localSet[uri] {
			toDelete = append(toDelete, uri)
		}
	}
	sort.Strings(toAdd)
	sort.Strings(toDelete)
	return toAdd, toDelete
}

// DetectModified returns the locally known datasets whose remote content
// differs semantically from the local document. The comparison is canonical:
// blank node relabelings and store-introduced literal representation changes
// (dropped language tags, explicit xsd:string) never count as modifications.
// Datasets with an empty remote graph are skipped; the add path covers them.
func DetectModified(ctx context.Context, store Store, corpus *Corpus) ([]string, error) {
	var modified []string
	for _, uri := range corpus.URIs() {
		source, _ := corpus.Source(uri)
		remote, err := fetchGraph(ctx, store, uri)
		if err != nil {
			return nil, err
		}
		if remote.Len() == 0 {
			continue
		}
		if !rdf.Isomorphic(remote, source.Graph) {
			modified = append(modified, uri)
		}
	}
	return modified, nil
}

// fetchGraph constructs the full content of a named graph.
func fetchGraph(ctx context.Context, store Store, uri string) (*rdf.Graph, error) {
	query := fmt.Sprintf(`
		CONSTRUCT { ?s ?p ?o . }
		WHERE {
			GRAPH <%s> { ?s ?p ?o . }
		}`, uri)
	g, err := store.Construct(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch graph %s: %w", uri, err)
	}
	return g, nil
}
