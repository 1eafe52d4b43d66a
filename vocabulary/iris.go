// Package vocabulary defines the IRI constants used across GraphSync:
// standard RDF/DCAT/GeoSPARQL namespaces and the reserved graph names
// the synchronizer manages inside the triplestore.
package vocabulary

// Standard namespace prefixes.
const (
	// RDFNamespace is the RDF syntax namespace.
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// RDFSNamespace is the RDF Schema namespace.
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"

	// XSDNamespace is the XML Schema datatypes namespace.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

	// DCTermsNamespace is the Dublin Core terms namespace.
	DCTermsNamespace = "http://purl.org/dc/terms/"

	// DCATNamespace is the W3C Data Catalog vocabulary namespace.
	DCATNamespace = "http://www.w3.org/ns/dcat#"

	// GeoNamespace is the OGC GeoSPARQL ontology namespace.
	GeoNamespace = "http://www.opengis.net/ont/geosparql#"
)

// Class IRIs for the entity types that receive generated identifiers.
const (
	// ClassDataset is the DCAT dataset class. Exactly one subject of this
	// type is expected per local document.
	ClassDataset = DCATNamespace + "Dataset"

	// ClassFeatureCollection is the GeoSPARQL feature collection class.
	ClassFeatureCollection = GeoNamespace + "FeatureCollection"

	// ClassFeature is the GeoSPARQL feature class.
	ClassFeature = GeoNamespace + "Feature"
)

// Predicate IRIs used by the synchronizer.
const (
	// PredicateType is rdf:type.
	PredicateType = RDFNamespace + "type"

	// PredicateIdentifier is dcterms:identifier, the predicate carrying
	// both explicitly supplied and generated identifiers.
	PredicateIdentifier = DCTermsNamespace + "identifier"

	// PredicateSeeAlso is rdfs:seeAlso, the reference triple linking a
	// content graph to its metadata graph in the bookkeeping graph.
	PredicateSeeAlso = RDFSNamespace + "seeAlso"

	// PredicateIsPartOf is dcterms:isPartOf, linking a feature to the
	// feature collection that contains it.
	PredicateIsPartOf = DCTermsNamespace + "isPartOf"

	// PredicateMember is rdfs:member, the inverse of PredicateIsPartOf.
	PredicateMember = RDFSNamespace + "member"

	// PredicateFirst and PredicateRest encode RDF collections.
	PredicateFirst = RDFNamespace + "first"
	PredicateRest  = RDFNamespace + "rest"

	// IRINil terminates an RDF collection.
	IRINil = RDFNamespace + "nil"
)

// Datatype IRIs.
const (
	// XSDString is the string datatype. An explicit xsd:string annotation
	// on a literal is equivalent to no annotation at all.
	XSDString = XSDNamespace + "string"

	// XSDInteger is the integer datatype, used for numeric shorthand.
	XSDInteger = XSDNamespace + "integer"

	// XSDDecimal is the decimal datatype.
	XSDDecimal = XSDNamespace + "decimal"

	// XSDDouble is the double datatype.
	XSDDouble = XSDNamespace + "double"

	// XSDBoolean is the boolean datatype.
	XSDBoolean = XSDNamespace + "boolean"

	// RDFLangString is the datatype of language-tagged literals.
	RDFLangString = RDFNamespace + "langString"
)
