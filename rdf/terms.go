// Package rdf provides the RDF data model used by GraphSync: terms, triples,
// mutable graphs, a Turtle reader and writer, and the canonicalization and
// normalization algorithms behind semantic graph comparison.
package rdf

import (
	"fmt"
	"strings"

	"github.com/c360studio/graphsync/vocabulary"
)

// Term is an RDF term: an IRI, a blank node, or a literal.
type Term interface {
	// String returns the N-Triples encoding of the term.
	String() string

	// Equal reports whether two terms are identical.
	Equal(other Term) bool
}

// IRI is an absolute IRI reference.
type IRI string

// String returns the IRI in angle brackets.
func (i IRI) String() string { return "<" + string(i) + ">" }

// Equal reports whether other is the same IRI.
func (i IRI) Equal(other Term) bool {
	o, ok := other.(IRI)
	return ok && o == i
}

// BlankNode is an anonymous node with document-scoped identity. The label
// carries no meaning beyond distinguishing nodes within one graph.
type BlankNode string

// String returns the blank node in N-Triples form.
func (b BlankNode) String() string { return "_:" + string(b) }

// Equal reports whether other is a blank node with the same label.
func (b BlankNode) Equal(other Term) bool {
	o, ok := other.(BlankNode)
	return ok && o == b
}

// Literal is an RDF literal: a lexical form with an optional datatype IRI
// and an optional language tag. A plain literal has neither.
type Literal struct {
	// Value is the lexical form.
	Value string

	// Datatype is the datatype IRI, empty for plain and language-tagged
	// literals.
	Datatype IRI

	// Lang is the language tag without the leading "@", empty when absent.
	Lang string
}

// String returns the literal in N-Triples form.
func (l Literal) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	sb.WriteString(escapeLiteral(l.Value))
	sb.WriteByte('"')
	if l.Lang != "" {
		sb.WriteByte('@')
		sb.WriteString(l.Lang)
	} else if l.Datatype != "" {
		sb.WriteString("^^")
		sb.WriteString(l.Datatype.String())
	}
	return sb.String()
}

// Equal reports whether other is an identical literal.
func (l Literal) Equal(other Term) bool {
	o, ok := other.(Literal)
	return ok && o == l
}

// Normalized returns the literal with store-introduced representation
// divergences removed: an explicit xsd:string datatype is equivalent to no
// datatype, and a language tag on a plain string is dropped for comparison
// because remote round-trips do not preserve it.
func (l Literal) Normalized() Literal {
	if l.Datatype == IRI(vocabulary.XSDString) {
		l.Datatype = ""
	}
	if l.Lang != "" && (l.Datatype == "" || l.Datatype == IRI(vocabulary.RDFLangString)) {
		l.Lang = ""
		l.Datatype = ""
	}
	return l
}

// escapeLiteral escapes a lexical form for N-Triples output.
func escapeLiteral(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Triple is a single (subject, predicate, object) statement. Subjects are
// IRIs or blank nodes; predicates are always IRIs.
type Triple struct {
	Subject   Term
	Predicate IRI
	Object    Term
}

// String returns the triple as an N-Triples line without the trailing dot.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", t.Subject, t.Predicate, t.Object)
}
