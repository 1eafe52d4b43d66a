package sync

import (
	"sort"
	"strings"
)

// RetryPolicy bounds identifier collision handling: how many candidates to
// try and how to derive the next candidate from the previous one.
type RetryPolicy struct {
	// MaxAttempts is the total number of candidates tried, including the
	// first.
	MaxAttempts int

	// NextCandidate derives the candidate for the given retry attempt
	// (1-based) from the previous candidate.
	NextCandidate func(previous string, attempt int) string
}

// DefaultRetryPolicy retries exactly once by appending "1" to the
// candidate.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 2,
		NextCandidate: func(previous string, _ int) string {
			return previous + "1"
		},
	}
}

// IdentifierRegistry holds the session-scoped subject-to-identifier map,
// seeded from the remote snapshot. Identifier values stay globally unique
// across the registry at all times.
type IdentifierRegistry struct {
	policy RetryPolicy
	ids    map[string]string
	values map[string]string // identifier -> subject URI
}

// NewIdentifierRegistry creates a registry seeded with the given bindings.
// The seed is assumed integrity-checked (see RemoteReader.ReadIdentifiers).
func NewIdentifierRegistry(seed map[string]string, policy RetryPolicy) *IdentifierRegistry {
	r := &IdentifierRegistry{
		policy: policy,
		ids:    make(map[string]string, len(seed)),
		values: make(map[string]string, len(seed)),
	}
	for uri, id := range seed {
		r.ids[uri] = id
		r.values[id] = uri
	}
	return r
}

// Assign binds an identifier to the subject and returns it. The candidate
// is the explicit value when given, otherwise the trailing path or fragment
// segment of the URI. On collision the retry policy is applied; exhausting
// it returns an IdentifierCollisionError naming the subject.
func (r *IdentifierRegistry) Assign(uri, explicit string) (string, error) {
	candidate := explicit
	if candidate == "" {
		candidate = CandidateFromURI(uri)
	}
	for attempt := 1; ; attempt++ {
		holder, taken := r.values[candidate]
		if !taken || holder == uri {
			break
		}
		if attempt >= r.policy.MaxAttempts {
			return "", &IdentifierCollisionError{URI: uri, Candidate: candidate}
		}
		candidate = r.policy.NextCandidate(candidate, attempt)
	}
	if old, ok := r.ids[uri]; ok {
		delete(r.values, old)
	}
	r.ids[uri] = candidate
	r.values[candidate] = uri
	return candidate, nil
}

// Identifier returns the identifier bound to a subject.
func (r *IdentifierRegistry) Identifier(uri string) (string, bool) {
	id, ok := r.ids[uri]
	return id, ok
}

// Remove evicts a subject's binding, freeing its identifier value.
func (r *IdentifierRegistry) Remove(uri string) {
	if id, ok := r.ids[uri]; ok {
		delete(r.values, id)
		delete(r.ids, uri)
	}
}

// Len returns the number of bindings.
func (r *IdentifierRegistry) Len() int { return len(r.ids) }

// CandidateFromURI derives an identifier candidate from the trailing path,
// fragment, or colon segment of a URI. Trailing separators are ignored, so
// a URI ending in "/" yields its last non-empty segment.
func CandidateFromURI(uri string) string {
	trimmed := strings.TrimRight(uri, "/#:")
	if i := strings.LastIndexAny(trimmed, "/#:"); i >= 0 {
		return trimmed[i+1:]
	}
	if trimmed != "" {
		return trimmed
	}
	return uri
}

// MappingRegistry holds the session-scoped content-to-metadata graph map.
// Each entry mirrors one reference triple in the bookkeeping graph.
type MappingRegistry struct {
	mapping map[string]string
}

// NewMappingRegistry creates a registry seeded with the given mapping.
func NewMappingRegistry(seed map[string]string) *MappingRegistry {
	m := &MappingRegistry{mapping: make(map[string]string, len(seed))}
	for content, metadata := range seed {
		m.mapping[content] = metadata
	}
	return m
}

// Register records the metadata graph for a content graph.
func (m *MappingRegistry) Register(contentURI, metadataURI string) {
	m.mapping[contentURI] = metadataURI
}

// Lookup returns the metadata graph for a content graph; a missing entry is
// a MappingNotFoundError.
func (m *MappingRegistry) Lookup(contentURI string) (string, error) {
	metadata, ok := m.mapping[contentURI]
	if !ok {
		return "", &MappingNotFoundError{URI: contentURI}
	}
	return metadata, nil
}

// Remove evicts a content graph's entry.
func (m *MappingRegistry) Remove(contentURI string) {
	delete(m.mapping, contentURI)
}

// Len returns the number of entries.
func (m *MappingRegistry) Len() int { return len(m.mapping) }

// ContentURIs returns the mapped content graph URIs, sorted.
func (m *MappingRegistry) ContentURIs() []string {
	uris := make([]string, 0, len(m.mapping))
	for uri := range m.mapping {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
