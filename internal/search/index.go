// Package search builds the inverted-index search (spec §4.5) over a
// call graph's nodes, and the "ancestor expansion" query that lets a UI
// collaborator expand a tree to a match.
package search

import (
	"sort"
	"strings"

	"github.com/surgebase/porter2"

	"github.com/standardbeagle/cachelens/internal/callgraph"
)

// DefaultMaxPrefixExpand and DefaultMaxSubstringExpand are the expansion
// caps applied when Options is left at its zero value.
const (
	DefaultMaxPrefixExpand    = 10
	DefaultMaxSubstringExpand = 5
)

// Options configures how far Query expands past an exact match (spec
// §4.5, config.Search).
type Options struct {
	// MaxPrefixExpand caps how many exact matches are required before the
	// prefix tier is skipped. Zero means DefaultMaxPrefixExpand.
	MaxPrefixExpand int
	// MaxSubstringExpand caps how many matches (exact+prefix) are required
	// before the substring tier is skipped. Zero means
	// DefaultMaxSubstringExpand.
	MaxSubstringExpand int
}

// Index is the immutable search index built once over a Graph's nodes.
type Index struct {
	postings map[string][]callgraph.NodeID // term -> matching nodes
	terms    []string                      // sorted, for prefix range scans
	byNode   map[callgraph.NodeID][]string // inverse map, kept for invalidation (unused at query time)
	opts     Options
}

// Build indexes every node's function name: the full lowercase name, its
// word components (split on non-alphanumerics/underscore/camelCase), a
// family of lowercase prefixes and suffixes, and — for short names — short
// internal substrings. See spec §4.5 for the exact term families.
func Build(g *callgraph.Graph, opts Options) *Index {
	if opts.MaxPrefixExpand <= 0 {
		opts.MaxPrefixExpand = DefaultMaxPrefixExpand
	}
	if opts.MaxSubstringExpand <= 0 {
		opts.MaxSubstringExpand = DefaultMaxSubstringExpand
	}

	idx := &Index{
		postings: make(map[string][]callgraph.NodeID),
		byNode:   make(map[callgraph.NodeID][]string),
		opts:     opts,
	}

	for _, id := range g.Order() {
		for _, term := range termsFor(id.Function) {
			idx.add(term, id)
		}
	}

	idx.terms = make([]string, 0, len(idx.postings))
	for t := range idx.postings {
		idx.terms = append(idx.terms, t)
	}
	sort.Strings(idx.terms)

	return idx
}

func (idx *Index) add(term string, id callgraph.NodeID) {
	if term == "" {
		return
	}
	list := idx.postings[term]
	for _, existing := range list {
		if existing == id {
			return
		}
	}
	idx.postings[term] = append(list, id)
	idx.byNode[id] = append(idx.byNode[id], term)
}

// termsFor computes the full term family for one function name.
func termsFor(name string) []string {
	lower := strings.ToLower(name)
	terms := map[string]struct{}{lower: {}}

	for _, w := range splitWords(name) {
		if len(w) < 2 {
			continue
		}
		wl := strings.ToLower(w)
		terms[wl] = struct{}{}
		if stemmed := porter2.Stem(wl); stemmed != "" {
			terms[stemmed] = struct{}{}
		}
	}

	prefixMax := min(len(lower), 12)
	for n := 1; n <= prefixMax; n++ {
		terms[lower[:n]] = struct{}{}
	}

	suffixMax := min(len(lower), 8)
	for n := 3; n <= suffixMax; n++ {
		terms[lower[len(lower)-n:]] = struct{}{}
	}

	if len(lower) <= 8 {
		for n := 2; n <= 4 && n <= len(lower); n++ {
			for i := 0; i+n <= len(lower); i++ {
				terms[lower[i:i+n]] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(terms))
	for t := range terms {
		out = append(out, t)
	}
	return out
}

// splitWords breaks a function name on non-alphanumeric/underscore
// boundaries and on camelCase transitions (lower-to-upper, or
// upper-to-upper-then-lower as in "HTTPServer" -> "HTTP", "Server").
func splitWords(name string) []string {
	var words []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || (!isAlnum(r)):
			flush()
		case i > 0 && isUpper(r) && isLower(runes[i-1]):
			flush()
			cur.WriteRune(r)
		case i > 0 && isUpper(r) && isUpper(runes[i-1]) && i+1 < len(runes) && isLower(runes[i+1]):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

// Query returns the nodes matching q, per spec §4.5's three-tier
// exact/prefix/substring fallback. An empty query returns an empty set.
func (idx *Index) Query(q string) []callgraph.NodeID {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}

	seen := make(map[callgraph.NodeID]struct{})
	var out []callgraph.NodeID
	add := func(ids []callgraph.NodeID) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	add(idx.postings[q])

	if len(out) < idx.opts.MaxPrefixExpand {
		add(idx.prefixMatches(q))
	}
	if len(out) < idx.opts.MaxSubstringExpand {
		add(idx.substringMatches(q))
	}

	return out
}

func (idx *Index) prefixMatches(q string) []callgraph.NodeID {
	start := sort.SearchStrings(idx.terms, q)
	var out []callgraph.NodeID
	for i := start; i < len(idx.terms) && strings.HasPrefix(idx.terms[i], q); i++ {
		out = append(out, idx.postings[idx.terms[i]]...)
	}
	return out
}

func (idx *Index) substringMatches(q string) []callgraph.NodeID {
	var out []callgraph.NodeID
	for _, term := range idx.terms {
		if strings.Contains(term, q) {
			out = append(out, idx.postings[term]...)
		}
	}
	return out
}
