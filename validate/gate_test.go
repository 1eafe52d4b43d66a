package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestGateCollectsAllFindings(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "good.ttl", validDoc)
	writeDoc(t, root, "nested/broken.ttl", `<https://example.org/x> <oops`)
	writeDoc(t, root, "untitled.ttl", `
@prefix dcat: <http://www.w3.org/ns/dcat#> .
<https://example.org/u> a dcat:Dataset .
`)
	writeDoc(t, root, "notes.txt", "ignored")

	report, err := NewGate(NewConventionChecker(), nil).Run(root)
	require.NoError(t, err)
	require.Len(t, report.Results, 3)

	violations := report.ViolationFiles()
	require.Len(t, violations, 1)
	assert.Equal(t, filepath.Join(root, "nested", "broken.ttl"), violations[0].Path)

	warnings := report.WarningFiles()
	require.Len(t, warnings, 1)
	assert.Equal(t, filepath.Join(root, "untitled.ttl"), warnings[0].Path)

	assert.True(t, report.Failed(false))
}

func TestGateEmptyCorpus(t *testing.T) {
	report, err := NewGate(NewConventionChecker(), nil).Run(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.False(t, report.Failed(true))
}

func TestReportFailed(t *testing.T) {
	warnOnly := &Report{Results: []FileResult{{
		Path: "w.ttl",
		Result: Result{Messages: []Message{
			{Severity: SeverityWarning, Text: "missing title"},
		}},
	}}}
	assert.False(t, warnOnly.Failed(false))
	assert.True(t, warnOnly.Failed(true))
}

func TestReportString(t *testing.T) {
	report := &Report{Results: []FileResult{
		{
			Path: "bad.ttl",
			Result: Result{Messages: []Message{
				{Severity: SeverityViolation, Text: "no dcat:Dataset subject found"},
			}},
		},
		{
			Path: "warn.ttl",
			Result: Result{Messages: []Message{
				{Severity: SeverityWarning, Text: "missing title"},
			}},
		},
	}}
	out := report.String()
	assert.Contains(t, out, "Invalid datasets:\n\n- bad.ttl:\n  [Violation] no dcat:Dataset subject found\n")
	assert.Contains(t, out, "Warning datasets:\n\n- warn.ttl:\n  [Warning] missing title\n")
}
