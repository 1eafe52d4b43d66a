package rdf

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Canonicalize returns a copy of the graph with every blank node relabeled
// to a stable name derived from its structural position (c0, c1, ...).
// Two isomorphic graphs canonicalize to identical triple sets, so graph
// equality reduces to set equality of the canonical forms. Blank node labels
// chosen by a serializer or a remote store never influence the result.
//
// The relabeling uses iterative structural hashing (color refinement): each
// blank node starts from a uniform color and is refined with its neighbors'
// hashes until the partition stabilizes. Ties the refinement cannot resolve
// (automorphic or refinement-equivalent nodes, e.g. blank node cycles) are
// broken by trial individuation: every member of the smallest tied class is
// distinguished in turn, each branch resolved recursively, and the branch
// with the least resulting triple set wins. The choice depends only on
// structure, never on the incoming labels.
func Canonicalize(g *Graph) *Graph {
	labels := canonicalLabels(g)
	out := NewGraph()
	for _, t := range g.Triples() {
		out.Add(Triple{
			Subject:   relabel(t.Subject, labels),
			Predicate: t.Predicate,
			Object:    relabel(t.Object, labels),
		})
	}
	return out
}

// NormalizeLiterals returns a copy of the graph with every literal object
// normalized (see Literal.Normalized). Applied to both sides before
// comparison so the rules are symmetric and idempotent.
func NormalizeLiterals(g *Graph) *Graph {
	out := NewGraph()
	for _, t := range g.Triples() {
		if lit, ok := t.Object.(Literal); ok {
			t.Object = lit.Normalized()
		}
		out.Add(t)
	}
	return out
}

// Isomorphic reports whether two graphs contain the same statements up to
// blank node relabeling, after literal normalization on both sides.
func Isomorphic(a, b *Graph) bool {
	ca := Canonicalize(NormalizeLiterals(a))
	cb := Canonicalize(NormalizeLiterals(b))
	if ca.Len() != cb.Len() {
		return false
	}
	for _, t := range ca.Triples() {
		if !cb.Has(t) {
			return false
		}
	}
	return true
}

func relabel(term Term, labels map[BlankNode]BlankNode) Term {
	if b, ok := term.(BlankNode); ok {
		return labels[b]
	}
	return term
}

// canonicalLabels computes the stable relabeling for every blank node in g.
func canonicalLabels(g *Graph) map[BlankNode]BlankNode {
	nodes := blankNodes(g)
	if len(nodes) == 0 {
		return nil
	}

	colors := make(map[BlankNode]string, len(nodes))
	for _, n := range nodes {
		colors[n] = hashString("init")
	}
	colors = distinguish(g, nodes, refine(g, nodes, colors))

	// The coloring is discrete here, so the order is fully determined by
	// the colors.
	ordered := make([]BlankNode, len(nodes))
	copy(ordered, nodes)
	sort.Slice(ordered, func(i, j int) bool {
		return colors[ordered[i]] < colors[ordered[j]]
	})
	labels := make(map[BlankNode]BlankNode, len(ordered))
	for i, n := range ordered {
		labels[n] = BlankNode(fmt.Sprintf("c%d", i))
	}
	return labels
}

// refine recomputes colors from each node's signature until a fixpoint.
func refine(g *Graph, nodes []BlankNode, colors map[BlankNode]string) map[BlankNode]string {
	triples := g.Triples()
	for {
		next := make(map[BlankNode]string, len(nodes))
		for _, n := range nodes {
			next[n] = hashString(signature(n, triples, colors))
		}
		if sameClasses(nodes, colors, next) {
			return next
		}
		colors = next
	}
}

// signature describes a blank node by its incident triples, with neighbor
// blank nodes represented by their current color.
func signature(n BlankNode, triples []Triple, colors map[BlankNode]string) string {
	var parts []string
	for _, t := range triples {
		subjIsN := t.Subject.Equal(n)
		objIsN := t.Object.Equal(n)
		if !subjIsN && !objIsN {
			continue
		}
		if subjIsN {
			parts = append(parts, "out|"+string(t.Predicate)+"|"+colorOf(t.Object, colors))
		}
		if objIsN {
			parts = append(parts, "in|"+string(t.Predicate)+"|"+colorOf(t.Subject, colors))
		}
	}
	sort.Strings(parts)
	return colors[n] + "\n" + strings.Join(parts, "\n")
}

func colorOf(term Term, colors map[BlankNode]string) string {
	if b, ok := term.(BlankNode); ok {
		return "bnode:" + colors[b]
	}
	return "ground:" + term.String()
}

// sameClasses reports whether two colorings induce the same partition.
func sameClasses(nodes []BlankNode, a, b map[BlankNode]string) bool {
	classA := make(map[string][]string)
	classB := make(map[string][]string)
	for _, n := range nodes {
		classA[a[n]] = append(classA[a[n]], string(n))
		classB[b[n]] = append(classB[b[n]], string(n))
	}
	if len(classA) != len(classB) {
		return false
	}
	canon := func(classes map[string][]string) string {
		var keys []string
		for _, members := range classes {
			sort.Strings(members)
			keys = append(keys, strings.Join(members, ","))
		}
		sort.Strings(keys)
		return strings.Join(keys, ";")
	}
	return canon(classA) == canon(classB)
}

// distinguish resolves the ties refinement left behind. Every member of the
// chosen tied class is individuated in turn, each branch refined and resolved
// recursively, and the branch whose color-labeled triple set is
// lexicographically least wins. Trying the whole class (rather than one
// member picked by label) keeps the result invariant under relabeling.
// Returns a discrete coloring. Terminates because each level strictly
// shrinks some color class.
func distinguish(g *Graph, nodes []BlankNode, colors map[BlankNode]string) map[BlankNode]string {
	tied := tiedClass(nodes, colors)
	if len(tied) == 0 {
		return colors
	}
	var best map[BlankNode]string
	var bestKey string
	for _, n := range tied {
		branch := make(map[BlankNode]string, len(colors))
		for k, v := range colors {
			branch[k] = v
		}
		branch[n] = hashString("mark:" + branch[n])
		resolved := distinguish(g, nodes, refine(g, nodes, branch))
		key := colorKey(g, resolved)
		if best == nil || key < bestKey {
			best = resolved
			bestKey = key
		}
	}
	return best
}

// colorKey renders the graph with blank nodes replaced by their colors, as
// the comparison key between candidate colorings.
func colorKey(g *Graph, colors map[BlankNode]string) string {
	lines := make([]string, 0, g.Len())
	for _, t := range g.Triples() {
		lines = append(lines, colorOf(t.Subject, colors)+" "+string(t.Predicate)+" "+colorOf(t.Object, colors))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// tiedClass returns the members of the smallest color class with more than
// one node, breaking size ties by color. Both criteria are label-independent.
// Empty when the coloring is discrete.
func tiedClass(nodes []BlankNode, colors map[BlankNode]string) []BlankNode {
	classes := make(map[string][]BlankNode)
	for _, n := range nodes {
		classes[colors[n]] = append(classes[colors[n]], n)
	}
	var pick []BlankNode
	var pickColor string
	for color, members := range classes {
		if len(members) < 2 {
			continue
		}
		if pick == nil || len(members) < len(pick) ||
			(len(members) == len(pick) && color < pickColor) {
			pick = members
			pickColor = color
		}
	}
	return pick
}

func blankNodes(g *Graph) []BlankNode {
	seen := make(map[BlankNode]bool)
	for _, t := range g.Triples() {
		if b, ok := t.Subject.(BlankNode); ok {
			seen[b] = true
		}
		if b, ok := t.Object.(BlankNode); ok {
			seen[b] = true
		}
	}
	nodes := make([]BlankNode, 0, len(seen))
	for n := range seen {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
