package sparql

import (
	"encoding/json"
	"fmt"
)

// Results holds the rows of a SELECT query in the order the store returned
// them.
type Results struct {
	// Vars are the projected variable names.
	Vars []string

	// Rows are the solution bindings.
	Rows []Binding
}

// Binding is one solution row, keyed by variable name. Unbound variables
// are absent.
type Binding map[string]Value

// Value is a single bound RDF term from a SPARQL JSON result.
type Value struct {
	// Type is "uri", "literal", or "bnode".
	Type string `json:"type"`

	// Value is the term's lexical form or IRI.
	Value string `json:"value"`

	// Lang is the language tag of a literal, if any.
	Lang string `json:"xml:lang,omitempty"`

	// Datatype is the datatype IRI of a literal, if any.
	Datatype string `json:"datatype,omitempty"`
}

// URI returns the value of a uri-typed binding for the variable, or empty
// when the variable is unbound or not a URI.
func (b Binding) URI(name string) string {
	v, ok := b[name]
	if !ok || v.Type != "uri" {
		return ""
	}
	return v.Value
}

// Literal returns the lexical form bound to the variable, or empty when the
// variable is unbound.
func (b Binding) Literal(name string) string {
	v, ok := b[name]
	if !ok {
		return ""
	}
	return v.Value
}

// sparqlJSON mirrors the application/sparql-results+json envelope.
type sparqlJSON struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]Value `json:"bindings"`
	} `json:"results"`
}

func parseResults(data []byte) (*Results, error) {
	var envelope sparqlJSON
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse sparql json: %w", err)
	}
	rows := make([]Binding, len(envelope.Results.Bindings))
	for i, b := range envelope.Results.Bindings {
		rows[i] = Binding(b)
	}
	return &Results{Vars: envelope.Head.Vars, Rows: rows}, nil
}
