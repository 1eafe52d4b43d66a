package sync

import (
	"sort"
	"strings"
)

// Report summarizes a completed synchronization session.
type Report struct {
	Added    []string `json:"added"`
	Deleted  []string `json:"deleted"`
	Modified []string `json:"modified"`
}

// sorted returns a defensive sorted copy.
func sorted(uris []string) []string {
	out := make([]string, len(uris))
	copy(out, uris)
	sort.Strings(out)
	return out
}

// NewReport builds a report with deterministic ordering.
func NewReport(added, deleted, modified []string) *Report {
	return &Report{
		Added:    sorted(added),
		Deleted:  sorted(deleted),
		Modified: sorted(modified),
	}
}

// Empty reports whether the session changed nothing.
func (r *Report) Empty() bool {
	return len(r.Added) == 0 && len(r.Deleted) == 0 && len(r.Modified) == 0
}

// String renders the report in the console format:
//
//	added:
//	 - <uri>
//	deleted:
//	 None
//	modified:
//	 None
func (r *Report) String() string {
	var sb strings.Builder
	section := func(title string, uris []string) {
		sb.WriteString(title)
		sb.WriteString(":\n")
		if len(uris) == 0 {
			sb.WriteString(" None\n")
			return
		}
		for _, uri := range uris {
			sb.WriteString(" - ")
			sb.WriteString(uri)
			sb.WriteString("\n")
		}
	}
	section("added", r.Added)
	section("deleted", r.Deleted)
	section("modified", r.Modified)
	return sb.String()
}
