package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/graphsync/rdf"
	"github.com/c360studio/graphsync/vocabulary"
)

// State is the orchestrator's position in the session state machine.
type State string

// Session states. Failed is terminal and reachable from any state.
const (
	StateInit     State = "init"
	StateLoaded   State = "loaded"
	StateDiffed   State = "diffed"
	StateDeleting State = "deleting"
	StateAdding   State = "adding"
	StateDone     State = "done"
	StateFailed   State = "failed"
)

// Options configures a synchronization session.
type Options struct {
	// DropOnStart clears the entire store and reseeds the reserved graphs
	// before syncing.
	DropOnStart bool

	// OntologyDir holds the reference vocabulary documents seeded into
	// the background graph when DropOnStart is set. Empty skips seeding.
	OntologyDir string

	// UnionDefault additionally unions every written content and metadata
	// graph into the store's default view.
	UnionDefault bool

	// Logger receives session progress. Nil means slog.Default.
	Logger *slog.Logger
}

// Orchestrator runs one synchronization session against the store. A single
// session at a time per store; concurrent sessions are unsafe. Remote
// failures abort immediately with no rollback; re-running converges because
// the diff is recomputed from live remote state.
type Orchestrator struct {
	store  Store
	opts   Options
	logger *slog.Logger
	state  State

	ids     *IdentifierRegistry
	mapping *MappingRegistry
	builder *MetadataBuilder
}

// NewOrchestrator creates an orchestrator in the Init state.
func NewOrchestrator(store Store, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:  store,
		opts:   opts,
		logger: logger,
		state:  StateInit,
	}
}

// State returns the current session state.
func (o *Orchestrator) State() State { return o.state }

// Run executes the full session: load, diff, delete, add, report. Any error
// leaves the orchestrator in the Failed state; writes already applied are
// not undone.
func (o *Orchestrator) Run(ctx context.Context, corpus *Corpus) (*Report, error) {
	report, err := o.run(ctx, corpus)
	if err != nil {
		o.state = StateFailed
		return nil, err
	}
	o.state = StateDone
	return report, nil
}

func (o *Orchestrator) run(ctx context.Context, corpus *Corpus) (*Report, error) {
	if o.opts.DropOnStart {
		if err := o.reseed(ctx); err != nil {
			return nil, err
		}
	}

	remote, err := NewRemoteReader(o.store).Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	o.ids = NewIdentifierRegistry(remote.Identifiers, DefaultRetryPolicy())
	o.mapping = NewMappingRegistry(remote.Mapping)
	o.builder = NewMetadataBuilder(o.ids)
	o.state = StateLoaded
	o.logger.Info("remote state loaded",
		slog.Int("datasets", len(remote.Datasets)),
		slog.Int("identifiers", o.ids.Len()),
		slog.Int("mappings", o.mapping.Len()))

	toAdd, toDelete := DiffURISets(corpus.URIs(), remote.Datasets)
	modified, err := DetectModified(ctx, o.store, corpus)
	if err != nil {
		return nil, err
	}
	o.state = StateDiffed
	o.logger.Info("diff computed",
		slog.Int("add", len(toAdd)),
		slog.Int("delete", len(toDelete)),
		slog.Int("modified", len(modified)))

	o.state = StateDeleting
	for _, uri := range unionSorted(toDelete, modified) {
		if err := o.deleteDataset(ctx, uri); err != nil {
			return nil, err
		}
	}

	o.state = StateAdding
	for _, uri := range unionSorted(modified, toAdd) {
		source, ok := corpus.Source(uri)
		if !ok {
			return nil, fmt.Errorf("no local source for %s", uri)
		}
		if err := o.addDataset(ctx, uri, source); err != nil {
			return nil, err
		}
	}

	return NewReport(toAdd, toDelete, modified), nil
}

// deleteDataset drops a dataset and its derived state: the bookkeeping
// reference triple and metadata graph go first so the mapping never points
// at a graph that outlived its pair, then the content graph, then both
// registry entries.
func (o *Orchestrator) deleteDataset(ctx context.Context, uri string) error {
	metadataURI, err := o.mapping.Lookup(uri)
	if err != nil {
		return err
	}
	o.logger.Debug("deleting dataset", slog.String("uri", uri), slog.String("metadata", metadataURI))

	subjects, err := o.identifiedSubjects(ctx, metadataURI)
	if err != nil {
		return err
	}

	update := fmt.Sprintf(`
		WITH <%s>
		DELETE { <%s> ?p ?o . }
		WHERE { <%s> ?p ?o . }`, vocabulary.BookkeepingGraph, uri, uri)
	if err := o.store.Update(ctx, update); err != nil {
		return fmt.Errorf("remove bookkeeping entry for %s: %w", uri, err)
	}
	if err := o.store.Update(ctx, fmt.Sprintf("DROP GRAPH <%s>", metadataURI)); err != nil {
		return fmt.Errorf("drop metadata graph %s: %w", metadataURI, err)
	}
	if err := o.store.Update(ctx, fmt.Sprintf("DROP GRAPH <%s>", uri)); err != nil {
		return fmt.Errorf("drop content graph %s: %w", uri, err)
	}

	o.mapping.Remove(uri)
	o.ids.Remove(uri)
	for _, subject := range subjects {
		o.ids.Remove(subject)
	}
	return nil
}

// identifiedSubjects lists the subjects holding identifier triples in a
// metadata graph. Their registry bindings are evicted together with the
// graph so re-added datasets get fresh identifiers instead of colliding
// with their own previous ones.
func (o *Orchestrator) identifiedSubjects(ctx context.Context, metadataURI string) ([]string, error) {
	query := fmt.Sprintf(`
		PREFIX dcterms: <%s>
		SELECT ?s
		WHERE {
			GRAPH <%s> { ?s dcterms:identifier ?id . }
		}`, vocabulary.DCTermsNamespace, metadataURI)
	results, err := o.store.Select(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list identified subjects in %s: %w", metadataURI, err)
	}
	var subjects []string
	for _, row := range results.Rows {
		if s := row.URI("s"); s != "" {
			subjects = append(subjects, s)
		}
	}
	return subjects, nil
}

// addDataset writes a dataset and its derived state: metadata graph built
// with fresh identifiers, bookkeeping reference triple, metadata graph
// content, then the content graph itself.
func (o *Orchestrator) addDataset(ctx context.Context, uri string, source Source) error {
	metadata, err := o.builder.Build(uri, source.Graph)
	if err != nil {
		return err
	}
	o.logger.Debug("adding dataset",
		slog.String("uri", uri),
		slog.String("metadata", metadata.URI),
		slog.Int("derived_triples", metadata.Graph.Len()))

	update := fmt.Sprintf(`
		PREFIX rdfs: <%s>
		INSERT DATA {
			GRAPH <%s> {
				<%s> rdfs:seeAlso <%s> .
			}
		}`, vocabulary.RDFSNamespace, vocabulary.BookkeepingGraph, uri, metadata.URI)
	if err := o.store.Update(ctx, update); err != nil {
		return fmt.Errorf("write bookkeeping entry for %s: %w", uri, err)
	}

	turtle := rdf.NewTurtleWriter().Write(metadata.Graph)
	if err := o.store.InsertGraph(ctx, metadata.URI, []byte(turtle), "text/turtle"); err != nil {
		return fmt.Errorf("write metadata graph %s: %w", metadata.URI, err)
	}
	if err := o.store.InsertGraph(ctx, uri, source.Data, "text/turtle"); err != nil {
		return fmt.Errorf("write content graph %s: %w", uri, err)
	}
	o.mapping.Register(uri, metadata.URI)

	if o.opts.UnionDefault {
		for _, graph := range []string{uri, metadata.URI} {
			if err := o.store.Update(ctx, fmt.Sprintf("ADD <%s> TO DEFAULT", graph)); err != nil {
				return fmt.Errorf("union %s into default view: %w", graph, err)
			}
		}
	}
	return nil
}

// reseed clears the store and recreates the reserved graphs, inserting the
// reference vocabulary into the background graph.
func (o *Orchestrator) reseed(ctx context.Context) error {
	o.logger.Warn("dropping all graphs before sync")
	if err := o.store.Update(ctx, "DROP ALL"); err != nil {
		return fmt.Errorf("drop all graphs: %w", err)
	}
	for _, graph := range []string{vocabulary.BookkeepingGraph, vocabulary.BackgroundGraph} {
		if err := o.store.Update(ctx, fmt.Sprintf("CREATE GRAPH <%s>", graph)); err != nil {
			return fmt.Errorf("create graph %s: %w", graph, err)
		}
	}
	if o.opts.OntologyDir == "" {
		return nil
	}
	matches, err := doublestar.Glob(os.DirFS(o.opts.OntologyDir), CorpusPattern)
	if err != nil {
		return fmt.Errorf("scan ontologies %s: %w", o.opts.OntologyDir, err)
	}
	sort.Strings(matches)
	for _, match := range matches {
		path := filepath.Join(o.opts.OntologyDir, filepath.FromSlash(match))
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read ontology %s: %w", path, err)
		}
		if err := o.store.InsertGraph(ctx, vocabulary.BackgroundGraph, data, "text/turtle"); err != nil {
			return fmt.Errorf("seed background graph from %s: %w", path, err)
		}
	}
	return nil
}

// unionSorted returns the sorted union of two URI slices.
func unionSorted(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, uri := range a {
		if !seen[uri] {
			seen[uri] = true
			out = append(out, uri)
		}
	}
	for _, uri := range b {
		if !seen[uri] {
			seen[uri] = true
			out = append(out, uri)
		}
	}
	sort.Strings(out)
	return out
}
