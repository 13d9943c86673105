// Package entrypoint implements the entry-point matcher (spec §4.6): a
// function-name lookup, a PC-address lookup (exact start or containing
// range), and "did you mean" suggestions for the UI collaborator's entry
// selector.
package entrypoint

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/cachelens/internal/callgraph"
)

var hexPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]+$`)

type pcRange struct {
	start uint64
	end   uint64
	node  callgraph.NodeID
}

// Matcher is the immutable index built once over a Graph.
type Matcher struct {
	byName         map[string]callgraph.NodeID // lowercase full name
	byStrippedName map[string]callgraph.NodeID // leading underscores stripped
	byPrefix       map[string][]callgraph.NodeID
	byPCStart      map[uint64]callgraph.NodeID
	ranges         []pcRange // sorted by start
	names          []string  // all function names, for linear fallback/suggestions
	graph          *callgraph.Graph
}

// Build indexes every node in g.
func Build(g *callgraph.Graph) *Matcher {
	m := &Matcher{
		byName:         make(map[string]callgraph.NodeID),
		byStrippedName: make(map[string]callgraph.NodeID),
		byPrefix:       make(map[string][]callgraph.NodeID),
		byPCStart:      make(map[uint64]callgraph.NodeID),
		graph:          g,
	}

	for _, id := range g.Order() {
		n := g.Nodes[id]
		lower := strings.ToLower(id.Function)
		m.byName[lower] = id
		m.names = append(m.names, id.Function)

		stripped := strings.TrimLeft(lower, "_")
		if stripped != lower {
			m.byStrippedName[stripped] = id
		}

		indexPartials(m.byPrefix, lower, id)
		for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
			return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
		}) {
			indexWordPrefixes(m.byPrefix, w, id)
		}

		if n.PCStart != "" {
			if v, err := parseHexAddr(n.PCStart); err == nil {
				m.byPCStart[v] = id
			}
		}
		if n.PCStart != "" && n.PCEnd != "" {
			start, errS := parseHexAddr(n.PCStart)
			end, errE := parseHexAddr(n.PCEnd)
			if errS == nil && errE == nil {
				m.ranges = append(m.ranges, pcRange{start: start, end: end, node: id})
			}
		}
	}

	sort.Slice(m.ranges, func(i, j int) bool { return m.ranges[i].start < m.ranges[j].start })

	return m
}

func indexPartials(idx map[string][]callgraph.NodeID, name string, id callgraph.NodeID) {
	for n := 3; n <= 8 && n <= len(name); n++ {
		idx[name[:n]] = appendUnique(idx[name[:n]], id)
	}
}

func indexWordPrefixes(idx map[string][]callgraph.NodeID, word string, id callgraph.NodeID) {
	for n := 3; n <= 6 && n <= len(word); n++ {
		idx[word[:n]] = appendUnique(idx[word[:n]], id)
	}
}

func appendUnique(list []callgraph.NodeID, id callgraph.NodeID) []callgraph.NodeID {
	for _, e := range list {
		if e == id {
			return list
		}
	}
	return append(list, id)
}

func parseHexAddr(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 64)
}

// Resolve implements spec §4.6's four-step resolution order.
func (m *Matcher) Resolve(query string) (callgraph.NodeID, bool) {
	q := strings.TrimSpace(query)
	lower := strings.ToLower(q)

	if id, ok := m.byName[lower]; ok {
		return id, true
	}

	stripped := strings.TrimLeft(lower, "_")
	if id, ok := m.byStrippedName[stripped]; ok {
		return id, true
	}
	if stripped != lower {
		if id, ok := m.byName[stripped]; ok {
			return id, true
		}
	}

	if hexPattern.MatchString(q) {
		addr, err := parseHexAddr(q)
		if err == nil {
			if id, ok := m.byPCStart[addr]; ok {
				return id, true
			}
			if id, ok := m.rangeLookup(addr); ok {
				return id, true
			}
		}
	}

	if len(q) >= 3 {
		if ids, ok := m.byPrefix[lower]; ok && len(ids) > 0 {
			return ids[0], true
		}
		for _, id := range m.graph.Order() {
			if strings.HasPrefix(strings.ToLower(id.Function), lower) {
				return id, true
			}
		}
	}

	return callgraph.NodeID{}, false
}

// rangeLookup binary-searches the sorted range array for the entry whose
// [start, end] contains addr: the rightmost range starting at or before
// addr is the only candidate, since ranges don't overlap.
func (m *Matcher) rangeLookup(addr uint64) (callgraph.NodeID, bool) {
	i := sort.Search(len(m.ranges), func(i int) bool { return m.ranges[i].start > addr })
	if i == 0 {
		return callgraph.NodeID{}, false
	}
	r := m.ranges[i-1]
	if addr >= r.start && addr <= r.end {
		return r.node, true
	}
	return callgraph.NodeID{}, false
}

// Suggestion is one "did you mean" candidate.
type Suggestion struct {
	Node  callgraph.NodeID
	Score float64
}

// Suggest enumerates up to limit candidates: names containing the query,
// plus PC-start entries when the query looks numeric, ranked by
// Jaro-Winkler similarity to the query (spec §4.6).
func Suggest(m *Matcher, query string, limit int) []Suggestion {
	lower := strings.ToLower(strings.TrimSpace(query))
	if lower == "" {
		return nil
	}

	seen := make(map[callgraph.NodeID]struct{})
	var out []Suggestion

	for _, id := range m.graph.Order() {
		if strings.Contains(strings.ToLower(id.Function), lower) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			score, _ := edlib.StringsSimilarity(lower, strings.ToLower(id.Function), edlib.JaroWinkler)
			out = append(out, Suggestion{Node: id, Score: float64(score)})
		}
	}

	if hexPattern.MatchString(query) {
		if addr, err := parseHexAddr(query); err == nil {
			for start, id := range m.byPCStart {
				if _, ok := seen[id]; ok {
					continue
				}
				if start == addr {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, Suggestion{Node: id, Score: 0})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
