package sync

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/graphsync/rdf"
	"github.com/c360studio/graphsync/vocabulary"
)

// CorpusPattern matches dataset documents under the corpus root.
const CorpusPattern = "**/*.ttl"

// Source is one local dataset document: where it lives on disk, its raw
// bytes, and its parsed content graph.
type Source struct {
	Path  string
	Data  []byte
	Graph *rdf.Graph
}

// Corpus maps canonical dataset URIs to their local sources. File names
// carry no meaning; only the parsed dataset URI identifies a document.
type Corpus struct {
	sources map[string]Source
}

// URIs returns the canonical dataset URIs, sorted.
func (c *Corpus) URIs() []string {
	uris := make([]string, 0, len(c.sources))
	for uri := range c.sources {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// Source returns the document for a dataset URI.
func (c *Corpus) Source(uri string) (Source, bool) {
	s, ok := c.sources[uri]
	return s, ok
}

// Len returns the number of datasets in the corpus.
func (c *Corpus) Len() int { return len(c.sources) }

// ScanCorpus walks the document tree under root and builds the corpus.
// Every document must contain exactly one dcat:Dataset subject, and no two
// documents may describe the same dataset.
func ScanCorpus(root string) (*Corpus, error) {
	matches, err := doublestar.Glob(os.DirFS(root), CorpusPattern)
	if err != nil {
		return nil, fmt.Errorf("scan corpus %s: %w", root, err)
	}
	sort.Strings(matches)

	corpus := &Corpus{sources: make(map[string]Source, len(matches))}
	for _, match := range matches {
		path := filepath.Join(root, filepath.FromSlash(match))
		source, uri, err := loadSource(path)
		if err != nil {
			return nil, err
		}
		if prior, ok := corpus.sources[uri]; ok {
			return nil, &DuplicateDatasetError{URI: uri, Paths: []string{prior.Path, path}}
		}
		corpus.sources[uri] = source
	}
	return corpus, nil
}

func loadSource(path string) (Source, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, "", fmt.Errorf("read %s: %w", path, err)
	}
	graph, err := rdf.ParseTurtle(data)
	if err != nil {
		return Source{}, "", &DocumentParseError{Path: path, Err: err}
	}
	uri, err := datasetSubject(graph, path)
	if err != nil {
		return Source{}, "", err
	}
	return Source{Path: path, Data: data, Graph: graph}, uri, nil
}

// datasetSubject extracts the unique dcat:Dataset subject IRI of a document.
func datasetSubject(g *rdf.Graph, path string) (string, error) {
	subjects := g.SubjectsOfType(rdf.IRI(vocabulary.ClassDataset))
	var iris []string
	for _, s := range subjects {
		if iri, ok := s.(rdf.IRI); ok {
			iris = append(iris, string(iri))
		}
	}
	if len(iris) != 1 {
		return "", &AmbiguousDatasetError{Path: path, Count: len(iris)}
	}
	return iris[0], nil
}
