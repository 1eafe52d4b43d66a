// Package sync implements the synchronization engine: local corpus
// scanning, remote state snapshots, diffing by canonical graph comparison,
// identifier and mapping registries, metadata graph construction, and the
// session orchestrator that applies the result to the triplestore.
package sync

import "fmt"

// AmbiguousDatasetError reports a document violating the one-dataset-per-
// document convention.
type AmbiguousDatasetError struct {
	// Path is the offending document.
	Path string

	// Count is the number of dataset-typed subjects found.
	Count int
}

func (e *AmbiguousDatasetError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("%s: no dataset subject found", e.Path)
	}
	return fmt.Sprintf("%s: %d dataset subjects found, expected exactly one", e.Path, e.Count)
}

// DocumentParseError reports a document that failed to parse.
type DocumentParseError struct {
	Path string
	Err  error
}

func (e *DocumentParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *DocumentParseError) Unwrap() error { return e.Err }

// DuplicateDatasetError reports two local documents describing the same
// dataset URI.
type DuplicateDatasetError struct {
	URI   string
	Paths []string
}

func (e *DuplicateDatasetError) Error() string {
	return fmt.Sprintf("dataset %s described by multiple documents: %v", e.URI, e.Paths)
}

// DuplicateIdentifierError reports an identifier value bound to more than
// one subject. Raised by the startup integrity check over the remote
// registry snapshot.
type DuplicateIdentifierError struct {
	Identifier string
	URIs       []string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("identifier %q bound to multiple subjects: %v", e.Identifier, e.URIs)
}

// IdentifierCollisionError reports that no unique identifier could be
// generated for a subject within the retry budget.
type IdentifierCollisionError struct {
	URI       string
	Candidate string
}

func (e *IdentifierCollisionError) Error() string {
	return fmt.Sprintf("unable to generate unique identifier for %s (candidate %q taken)", e.URI, e.Candidate)
}

// MappingNotFoundError reports an attempt to delete a dataset with no known
// metadata graph mapping. It implies the registries have drifted from the
// store.
type MappingNotFoundError struct {
	URI string
}

func (e *MappingNotFoundError) Error() string {
	return fmt.Sprintf("no metadata graph mapping for %s", e.URI)
}
