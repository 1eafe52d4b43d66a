package rdf

import (
	"sort"

	"github.com/c360studio/graphsync/vocabulary"
)

var typePredicate = IRI(vocabulary.PredicateType)

// Graph is a mutable set of triples. Duplicate statements collapse; iteration
// order is deterministic only through the sorted accessors.
type Graph struct {
	triples map[string]Triple
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{triples: make(map[string]Triple)}
}

// Add inserts a triple. Adding a statement already present is a no-op.
func (g *Graph) Add(t Triple) {
	g.triples[t.String()] = t
}

// Remove deletes a triple if present.
func (g *Graph) Remove(t Triple) {
	delete(g.triples, t.String())
}

// Has reports whether the graph contains the exact statement.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.triples[t.String()]
	return ok
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns all statements sorted by their N-Triples encoding.
func (g *Graph) Triples() []Triple {
	keys := make([]string, 0, len(g.triples))
	for k := range g.triples {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Triple, len(keys))
	for i, k := range keys {
		out[i] = g.triples[k]
	}
	return out
}

// Subjects returns the distinct subjects of statements matching the given
// predicate and object, sorted.
func (g *Graph) Subjects(predicate IRI, object Term) []Term {
	seen := make(map[string]Term)
	for _, t := range g.triples {
		if t.Predicate == predicate && t.Object.Equal(object) {
			seen[t.Subject.String()] = t.Subject
		}
	}
	return sortedTerms(seen)
}

// Objects returns the distinct objects of statements matching the given
// subject and predicate, sorted.
func (g *Graph) Objects(subject Term, predicate IRI) []Term {
	seen := make(map[string]Term)
	for _, t := range g.triples {
		if t.Predicate == predicate && t.Subject.Equal(subject) {
			seen[t.Object.String()] = t.Object
		}
	}
	return sortedTerms(seen)
}

// SubjectsOfType returns the distinct subjects carrying an rdf:type
// statement with the given class, sorted.
func (g *Graph) SubjectsOfType(class IRI) []Term {
	return g.Subjects(typePredicate, class)
}

// HasType reports whether the subject carries an rdf:type statement with the
// given class.
func (g *Graph) HasType(subject Term, class IRI) bool {
	return g.Has(Triple{Subject: subject, Predicate: typePredicate, Object: class})
}

// Clone returns an independent copy of the graph.
func (g *Graph) Clone() *Graph {
	out := NewGraph()
	for k, t := range g.triples {
		out.triples[k] = t
	}
	return out
}

func sortedTerms(seen map[string]Term) []Term {
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Term, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}
