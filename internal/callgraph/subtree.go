package callgraph

// Tree is a finite materialization of a DFS walk rooted at one entry node.
// A node already seen earlier in the walk is emitted as a Repeat leaf
// rather than re-expanded, which is what keeps the output finite in the
// presence of recursion (spec §4.4, §9).
type Tree struct {
	Node     *Node
	Via      *Edge // the edge from the parent, nil at the root
	Children []*Tree
	Repeat   bool
}

// SubtreeFrom walks the graph depth-first from entry, bounding total
// expansions to len(Nodes) regardless of cycles: a single visited set is
// shared across the whole walk, so every node is expanded at most once.
func (g *Graph) SubtreeFrom(entry NodeID) *Tree {
	n, ok := g.Nodes[entry]
	if !ok {
		return nil
	}
	visited := make(map[NodeID]bool, len(g.Nodes))
	return g.walk(n, nil, visited)
}

func (g *Graph) walk(n *Node, via *Edge, visited map[NodeID]bool) *Tree {
	if visited[n.ID] {
		return &Tree{Node: n, Via: via, Repeat: true}
	}
	visited[n.ID] = true

	t := &Tree{Node: n, Via: via}
	for _, e := range n.Out {
		t.Children = append(t.Children, g.walk(e.To, e, visited))
	}
	return t
}
