// Package validate implements the pre-sync conformance gate: documents are
// checked before any remote write, failures are collected per file rather
// than stopping at the first, and warnings are reported or escalated per
// configuration.
//
// The shape-level checker (SHACL) is an external collaborator behind the
// Checker interface; the built-in ConventionChecker covers the structural
// conventions the synchronizer itself depends on.
package validate

import (
	"strings"
)

// Severity classifies a validation message.
type Severity string

// Message severities. Violations always fail the gate; warnings fail it
// only when escalated.
const (
	SeverityViolation Severity = "Violation"
	SeverityWarning   Severity = "Warning"
)

// Message is one classified finding about a document.
type Message struct {
	Severity Severity
	Text     string
}

// Result is the outcome of checking one document.
type Result struct {
	// Conforms is false when the document has findings.
	Conforms bool

	// Messages are the findings, empty when conformant.
	Messages []Message
}

// Checker validates a single document. Implementations must not mutate the
// data.
type Checker interface {
	Check(path string, data []byte) Result
}

// FileResult pairs a document with its findings.
type FileResult struct {
	Path   string
	Result Result
}

// Report aggregates findings across a corpus.
type Report struct {
	Results []FileResult
}

// ViolationFiles returns the files with violation-severity findings, in
// check order.
func (r *Report) ViolationFiles() []FileResult {
	return r.withSeverity(SeverityViolation)
}

// WarningFiles returns the files with warning-severity findings and no
// violations, in check order.
func (r *Report) WarningFiles() []FileResult {
	var out []FileResult
	for _, fr := range r.Results {
		if hasSeverity(fr.Result, SeverityViolation) {
			continue
		}
		if hasSeverity(fr.Result, SeverityWarning) {
			out = append(out, fr)
		}
	}
	return out
}

func (r *Report) withSeverity(sev Severity) []FileResult {
	var out []FileResult
	for _, fr := range r.Results {
		if hasSeverity(fr.Result, sev) {
			out = append(out, fr)
		}
	}
	return out
}

func hasSeverity(result Result, sev Severity) bool {
	for _, m := range result.Messages {
		if m.Severity == sev {
			return true
		}
	}
	return false
}

// Failed reports whether the gate blocks synchronization: any violation, or
// any warning when warnings are escalated.
func (r *Report) Failed(warningsAreErrors bool) bool {
	if len(r.ViolationFiles()) > 0 {
		return true
	}
	return warningsAreErrors && len(r.WarningFiles()) > 0
}

// String renders the findings grouped by file, violations first.
func (r *Report) String() string {
	var sb strings.Builder
	if invalid := r.ViolationFiles(); len(invalid) > 0 {
		sb.WriteString("Invalid datasets:\n\n")
		writeGroup(&sb, invalid)
	}
	if warned := r.WarningFiles(); len(warned) > 0 {
		sb.WriteString("Warning datasets:\n\n")
		writeGroup(&sb, warned)
	}
	return sb.String()
}

func writeGroup(sb *strings.Builder, results []FileResult) {
	for _, fr := range results {
		sb.WriteString("- ")
		sb.WriteString(fr.Path)
		sb.WriteString(":\n")
		for _, m := range fr.Result.Messages {
			sb.WriteString("  [")
			sb.WriteString(string(m.Severity))
			sb.WriteString("] ")
			sb.WriteString(m.Text)
			sb.WriteString("\n")
		}
		sb.WriteString("-----\n")
	}
}
