package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/graphsync/vocabulary"
)

func TestParseTurtle_Basic(t *testing.T) {
	doc := `
@prefix dcat: <http://www.w3.org/ns/dcat#> .
@prefix dcterms: <http://purl.org/dc/terms/> .

<https://example.org/dataset/one>
    a dcat:Dataset ;
    dcterms:title "First dataset" ;
    dcterms:identifier "one" .
`
	g, err := ParseTurtle([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	subject := IRI("https://example.org/dataset/one")
	assert.True(t, g.HasType(subject, IRI(vocabulary.ClassDataset)))

	titles := g.Objects(subject, IRI(vocabulary.DCTermsNamespace+"title"))
	require.Len(t, titles, 1)
	assert.Equal(t, Literal{Value: "First dataset"}, titles[0])
}

func TestParseTurtle_ObjectAndPredicateLists(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
ex:s ex:p ex:a, ex:b ;
     ex:q ex:c .
`
	g, err := ParseTurtle([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.Len(t, g.Objects(IRI("http://example.org/s"), IRI("http://example.org/p")), 2)
}

func TestParseTurtle_TrailingSemicolon(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
ex:s ex:p ex:o ;
.
`
	g, err := ParseTurtle([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestParseTurtle_BlankNodes(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
ex:s ex:p _:x .
_:x ex:q "nested" .
ex:t ex:p [ ex:q "anon" ] .
`
	g, err := ParseTurtle([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())

	objs := g.Objects(IRI("http://example.org/s"), IRI("http://example.org/p"))
	require.Len(t, objs, 1)
	_, isBlank := objs[0].(BlankNode)
	assert.True(t, isBlank)
}

func TestParseTurtle_Literals(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
ex:s ex:lang "hello"@en ;
     ex:typed "42"^^xsd:integer ;
     ex:num 42 ;
     ex:dec 4.5 ;
     ex:dbl 1.0e3 ;
     ex:bool true ;
     ex:escaped "line\nbreak \"quoted\"" ;
     ex:long """multi
line""" .
`
	g, err := ParseTurtle([]byte(doc))
	require.NoError(t, err)
	s := IRI("http://example.org/s")

	get := func(pred string) Literal {
		objs := g.Objects(s, IRI("http://example.org/"+pred))
		require.Len(t, objs, 1, pred)
		lit, ok := objs[0].(Literal)
		require.True(t, ok, pred)
		return lit
	}

	assert.Equal(t, Literal{Value: "hello", Lang: "en"}, get("lang"))
	assert.Equal(t, Literal{Value: "42", Datatype: IRI(vocabulary.XSDInteger)}, get("typed"))
	assert.Equal(t, Literal{Value: "42", Datatype: IRI(vocabulary.XSDInteger)}, get("num"))
	assert.Equal(t, Literal{Value: "4.5", Datatype: IRI(vocabulary.XSDDecimal)}, get("dec"))
	assert.Equal(t, Literal{Value: "1.0e3", Datatype: IRI(vocabulary.XSDDouble)}, get("dbl"))
	assert.Equal(t, Literal{Value: "true", Datatype: IRI(vocabulary.XSDBoolean)}, get("bool"))
	assert.Equal(t, "line\nbreak \"quoted\"", get("escaped").Value)
	assert.Equal(t, "multi\nline", get("long").Value)
}

func TestParseTurtle_Collection(t *testing.T) {
	doc := `
@prefix ex: <http://example.org/> .
ex:s ex:items ( ex:a ex:b ) .
`
	g, err := ParseTurtle([]byte(doc))
	require.NoError(t, err)
	// Two list cells: first/rest pairs plus the linking triple.
	assert.Equal(t, 5, g.Len())
}

func TestParseTurtle_BaseResolution(t *testing.T) {
	doc := `
@base <https://example.org/data/> .
@prefix ex: <http://example.org/> .
<one> ex:p <two> .
`
	g, err := ParseTurtle([]byte(doc))
	require.NoError(t, err)
	objs := g.Objects(IRI("https://example.org/data/one"), IRI("http://example.org/p"))
	require.Len(t, objs, 1)
	assert.Equal(t, IRI("https://example.org/data/two"), objs[0])
}

func TestParseTurtle_SparqlStyleDirectives(t *testing.T) {
	doc := `
PREFIX ex: <http://example.org/>
ex:s ex:p ex:o .
`
	g, err := ParseTurtle([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestParseTurtle_NTriplesSubset(t *testing.T) {
	doc := `<http://example.org/s> <http://example.org/p> "v" .
<http://example.org/s> <http://example.org/q> <http://example.org/o> .
`
	g, err := ParseTurtle([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}

func TestParseTurtle_Errors(t *testing.T) {
	cases := map[string]string{
		"undeclared prefix":   `ex:s ex:p ex:o .`,
		"unterminated iri":    `<http://example.org/s`,
		"unterminated string": `<http://e/s> <http://e/p> "open .`,
		"missing dot":         `<http://e/s> <http://e/p> <http://e/o>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTurtle([]byte(doc))
			require.Error(t, err)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseTurtle_CommentsIgnored(t *testing.T) {
	doc := `
# leading comment
@prefix ex: <http://example.org/> . # trailing
ex:s ex:p ex:o . # done
`
	g, err := ParseTurtle([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}
