package rdf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/graphsync/vocabulary"
)

// defaultPrefixes are the namespace prefixes emitted by the Turtle writer.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":     vocabulary.RDFNamespace,
		"rdfs":    vocabulary.RDFSNamespace,
		"xsd":     vocabulary.XSDNamespace,
		"dcterms": vocabulary.DCTermsNamespace,
		"dcat":    vocabulary.DCATNamespace,
		"geo":     vocabulary.GeoNamespace,
	}
}

// WriteNTriples serializes the graph as N-Triples, one sorted line per
// statement. Output is deterministic for a fixed graph.
func WriteNTriples(g *Graph) string {
	var sb strings.Builder
	for _, t := range g.Triples() {
		sb.WriteString(t.String())
		sb.WriteString(" .\n")
	}
	return sb.String()
}

// TurtleWriter serializes graphs as Turtle with sorted prefixes and
// subject-grouped statements. Output is deterministic for a fixed graph.
type TurtleWriter struct {
	prefixes map[string]string
}

// NewTurtleWriter creates a Turtle writer with the default prefixes.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{prefixes: defaultPrefixes()}
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

// Write returns the Turtle serialization of the graph.
func (w *TurtleWriter) Write(g *Graph) string {
	var sb strings.Builder
	w.writePrefixes(&sb)

	bySubject := make(map[string][]Triple)
	for _, t := range g.Triples() {
		key := t.Subject.String()
		bySubject[key] = append(bySubject[key], t)
	}
	subjects := make([]string, 0, len(bySubject))
	for s := range bySubject {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	for _, subject := range subjects {
		triples := bySubject[subject]
		sb.WriteString(w.term(triples[0].Subject))
		sb.WriteString("\n")
		for i, t := range triples {
			terminator := " ;"
			if i == len(triples)-1 {
				terminator = " ."
			}
			sb.WriteString(fmt.Sprintf("    %s %s%s\n", w.predicate(t.Predicate), w.term(t.Object), terminator))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (w *TurtleWriter) writePrefixes(sb *strings.Builder) {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, w.prefixes[prefix]))
	}
	sb.WriteString("\n")
}

func (w *TurtleWriter) predicate(p IRI) string {
	if p == IRI(vocabulary.PredicateType) {
		return "a"
	}
	return w.term(p)
}

// term renders a term, compacting IRIs against the declared prefixes.
func (w *TurtleWriter) term(t Term) string {
	iri, ok := t.(IRI)
	if !ok {
		return t.String()
	}
	prefixes := make([]string, 0, len(w.prefixes))
	for p := range w.prefixes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		local, found := strings.CutPrefix(string(iri), w.prefixes[prefix])
		if found && local != "" && isSafeLocal(local) {
			return prefix + ":" + local
		}
	}
	return iri.String()
}

// isSafeLocal reports whether a local name can be emitted as a prefixed name
// without escaping.
func isSafeLocal(local string) bool {
	for _, r := range local {
		if !isPNChar(r) && r != '-' {
			return false
		}
	}
	return true
}
