package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportOrdering(t *testing.T) {
	report := NewReport([]string{"b", "a"}, nil, []string{"c"})
	assert.Equal(t, []string{"a", "b"}, report.Added)
	assert.Empty(t, report.Deleted)
	assert.False(t, report.Empty())
	assert.True(t, NewReport(nil, nil, nil).Empty())
}

func TestReportString(t *testing.T) {
	report := NewReport([]string{"https://example.org/a"}, nil, []string{"https://example.org/b"})
	want := "added:\n" +
		" - https://example.org/a\n" +
		"deleted:\n" +
		" None\n" +
		"modified:\n" +
		" - https://example.org/b\n"
	assert.Equal(t, want, report.String())
}
