package search

import "github.com/standardbeagle/cachelens/internal/callgraph"

const (
	maxAncestorMatches = 30
	maxAncestorDepth   = 20
)

// ParentMap maps each node to its parent in a single DFS spanning forest
// rooted at the graph's root set, built once and reused across calls to
// ExpandAncestors (spec §4.5).
type ParentMap map[callgraph.NodeID]callgraph.NodeID

// BuildParentMap walks the graph once, starting from its roots (and from
// any node a root traversal doesn't reach, so cyclic components with no
// root still get a parent assignment) recording each node's DFS parent.
func BuildParentMap(g *callgraph.Graph) ParentMap {
	parent := make(ParentMap)
	visited := make(map[callgraph.NodeID]bool, len(g.Nodes))

	var dfs func(n *callgraph.Node)
	dfs = func(n *callgraph.Node) {
		if visited[n.ID] {
			return
		}
		visited[n.ID] = true
		for _, child := range g.Callees(n.ID) {
			if !visited[child.ID] {
				parent[child.ID] = n.ID
				dfs(child)
			}
		}
	}

	for _, r := range g.Roots {
		dfs(r)
	}
	for _, id := range g.Order() {
		if !visited[id] {
			dfs(g.Nodes[id])
		}
	}

	return parent
}

// ExpandAncestors walks up from each of matches (capped at 30, per spec
// §4.5) through the parent map up to depth 20, collecting every ancestor
// id seen — the set a UI collaborator needs to expand a tree down to the
// matched nodes.
func ExpandAncestors(parent ParentMap, matches []callgraph.NodeID) []callgraph.NodeID {
	seen := make(map[callgraph.NodeID]struct{})
	var out []callgraph.NodeID

	limit := len(matches)
	if limit > maxAncestorMatches {
		limit = maxAncestorMatches
	}

	for _, m := range matches[:limit] {
		cur := m
		for d := 0; d < maxAncestorDepth; d++ {
			p, ok := parent[cur]
			if !ok {
				break
			}
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				out = append(out, p)
			}
			cur = p
		}
	}

	return out
}
