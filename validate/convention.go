package validate

import (
	"fmt"

	"github.com/c360studio/graphsync/rdf"
	"github.com/c360studio/graphsync/vocabulary"
)

// ConventionChecker validates the structural conventions the synchronizer
// depends on: the document parses, it contains exactly one dataset subject,
// and the dataset carries a title. It does not replace shape-level (SHACL)
// validation.
type ConventionChecker struct{}

// NewConventionChecker creates the built-in checker.
func NewConventionChecker() *ConventionChecker {
	return &ConventionChecker{}
}

// Check implements Checker.
func (c *ConventionChecker) Check(_ string, data []byte) Result {
	g, err := rdf.ParseTurtle(data)
	if err != nil {
		return violation(fmt.Sprintf("document does not parse: %v", err))
	}

	subjects := g.SubjectsOfType(rdf.IRI(vocabulary.ClassDataset))
	var datasets []rdf.IRI
	for _, s := range subjects {
		if iri, ok := s.(rdf.IRI); ok {
			datasets = append(datasets, iri)
		}
	}
	switch len(datasets) {
	case 0:
		return violation("no dcat:Dataset subject found")
	case 1:
	default:
		return violation(fmt.Sprintf("%d dcat:Dataset subjects found, expected exactly one", len(datasets)))
	}

	var messages []Message
	if len(g.Objects(datasets[0], rdf.IRI(vocabulary.DCTermsNamespace+"title"))) == 0 {
		messages = append(messages, Message{
			Severity: SeverityWarning,
			Text:     fmt.Sprintf("dataset %s has no dcterms:title", datasets[0]),
		})
	}
	return Result{Conforms: len(messages) == 0, Messages: messages}
}

func violation(text string) Result {
	return Result{Conforms: false, Messages: []Message{{Severity: SeverityViolation, Text: text}}}
}
