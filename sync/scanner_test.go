package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const docA = `
@prefix dcat: <http://www.w3.org/ns/dcat#> .
@prefix dcterms: <http://purl.org/dc/terms/> .
<https://example.org/dataset/a> a dcat:Dataset ; dcterms:title "A" .
`

const docB = `
@prefix dcat: <http://www.w3.org/ns/dcat#> .
@prefix dcterms: <http://purl.org/dc/terms/> .
<https://example.org/dataset/b> a dcat:Dataset ; dcterms:title "B" .
`

func TestScanCorpus(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.ttl", docA)
	writeDoc(t, dir, "nested/b.ttl", docB)
	writeDoc(t, dir, "ignored.txt", "not a dataset")

	corpus, err := ScanCorpus(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, corpus.Len())
	assert.Equal(t, []string{
		"https://example.org/dataset/a",
		"https://example.org/dataset/b",
	}, corpus.URIs())

	source, ok := corpus.Source("https://example.org/dataset/b")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "nested", "b.ttl"), source.Path)
	assert.Equal(t, 2, source.Graph.Len())
}

func TestScanCorpus_NoDatasetSubject(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "empty.ttl", `
@prefix ex: <http://example.org/> .
ex:s ex:p ex:o .
`)
	_, err := ScanCorpus(dir)
	var ambiguous *AmbiguousDatasetError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, 0, ambiguous.Count)
}

func TestScanCorpus_MultipleDatasetSubjects(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "two.ttl", `
@prefix dcat: <http://www.w3.org/ns/dcat#> .
<https://example.org/one> a dcat:Dataset .
<https://example.org/two> a dcat:Dataset .
`)
	_, err := ScanCorpus(dir)
	var ambiguous *AmbiguousDatasetError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, 2, ambiguous.Count)
}

func TestScanCorpus_DuplicateDataset(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "first.ttl", docA)
	writeDoc(t, dir, "second.ttl", docA)

	_, err := ScanCorpus(dir)
	var duplicate *DuplicateDatasetError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "https://example.org/dataset/a", duplicate.URI)
	assert.Len(t, duplicate.Paths, 2)
}

func TestScanCorpus_ParseError(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "broken.ttl", "<https://example.org/x> <oops")

	_, err := ScanCorpus(dir)
	var parseErr *DocumentParseError
	require.ErrorAs(t, err, &parseErr)
}
