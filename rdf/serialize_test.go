package rdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurtleWriter_RoundTrip(t *testing.T) {
	original := mustParse(t, `
@prefix dcat: <http://www.w3.org/ns/dcat#> .
@prefix dcterms: <http://purl.org/dc/terms/> .
@prefix geo: <http://www.opengis.net/ont/geosparql#> .

<https://example.org/dataset/one>
    a dcat:Dataset ;
    dcterms:title "First"@en ;
    dcterms:identifier "one" .

<https://example.org/fc/1>
    a geo:FeatureCollection ;
    dcterms:isPartOf <https://example.org/dataset/one> .
`)
	output := NewTurtleWriter().Write(original)
	reparsed, err := ParseTurtle([]byte(output))
	require.NoError(t, err)
	assert.True(t, Isomorphic(original, reparsed))
}

func TestTurtleWriter_Deterministic(t *testing.T) {
	g := mustParse(t, `
@prefix ex: <http://example.org/> .
ex:b ex:p "2" .
ex:a ex:p "1" .
`)
	first := NewTurtleWriter().Write(g)
	assert.Equal(t, first, NewTurtleWriter().Write(g))
	// Subjects come out sorted regardless of input order.
	assert.Less(t, strings.Index(first, "ex:a"), strings.Index(first, "ex:b"))
}

func TestTurtleWriter_PrefixCompaction(t *testing.T) {
	g := mustParse(t, `
@prefix dcat: <http://www.w3.org/ns/dcat#> .
<https://example.org/d> a dcat:Dataset .
`)
	output := NewTurtleWriter().Write(g)
	assert.Contains(t, output, "dcat:Dataset")
	assert.Contains(t, output, "@prefix dcat:")
}

func TestWriteNTriples(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{
		Subject:   IRI("http://example.org/s"),
		Predicate: IRI("http://example.org/p"),
		Object:    Literal{Value: "v", Lang: "en"},
	})
	assert.Equal(t,
		"<http://example.org/s> <http://example.org/p> \"v\"@en .\n",
		WriteNTriples(g))
}
