// Package callgraph reconstructs the profiled program's call graph from a
// parsed model.Profile (spec §4.4): one node per (file, function), edges
// from each FunctionRecord's CallEdges, stub nodes for unresolved callees,
// and the inclusive-cost roll-up and traversal queries built on top.
package callgraph

import "github.com/standardbeagle/cachelens/internal/model"

// NodeID identifies a function uniquely within a call graph.
type NodeID struct {
	File     string
	Function string
}

// Node is one call-graph vertex. Exclusive/Inclusive are scalar totals of
// the vocabulary's primary event (Cy if present, else Ir — spec §4.4).
type Node struct {
	ID        NodeID
	Exclusive int64
	Inclusive int64
	PCStart   string
	PCEnd     string
	Stub      bool

	Out []*Edge // outgoing call edges, first-appearance order
	In  []*Edge // incoming call edges, first-appearance order
}

// Edge is a directed call edge between two nodes.
type Edge struct {
	From, To *Node
	Count    uint64
	// Inclusive is the primary-event scalar taken from the profile's
	// call-edge inclusive vector; zero when the profile carried none.
	Inclusive int64
}

// Graph is the full call graph for one profile: every node, keyed by
// identity, plus the root set (nodes with no incoming edges).
type Graph struct {
	Nodes map[NodeID]*Node
	order []NodeID
	Roots []*Node
}

// Order returns node identities in first-appearance order (spec §5).
func (g *Graph) Order() []NodeID {
	return g.order
}

func (g *Graph) ensureNode(id NodeID) *Node {
	n, ok := g.Nodes[id]
	if !ok {
		n = &Node{ID: id}
		g.Nodes[id] = n
		g.order = append(g.order, id)
	}
	return n
}

// Build materializes the call graph for profile. Resolution of a CallEdge's
// target follows spec §3: match against the function map by (target-file or
// source-file, target-name); unresolved targets become stub nodes with zero
// exclusive cost.
func Build(profile *model.Profile) *Graph {
	primary := profile.Vocabulary.Primary()

	g := &Graph{Nodes: make(map[NodeID]*Node)}

	for _, path := range profile.FileOrder() {
		fr := profile.Files[path]
		for _, name := range fr.FunctionOrder() {
			fn := fr.Functions[name]
			id := NodeID{File: path, Function: name}
			n := g.ensureNode(id)
			n.Exclusive = primaryValue(fn.Exclusive, primary)
			n.PCStart, n.PCEnd = fn.PCRange()
		}
	}

	for _, path := range profile.FileOrder() {
		fr := profile.Files[path]
		for _, name := range fr.FunctionOrder() {
			fn := fr.Functions[name]
			srcID := NodeID{File: path, Function: name}
			src := g.Nodes[srcID]
			for _, call := range fn.Calls {
				targetFile := call.TargetFile
				if targetFile == "" {
					targetFile = path
				}
				targetID := NodeID{File: targetFile, Function: call.TargetFunction}
				target, ok := g.Nodes[targetID]
				if !ok {
					target = g.ensureNode(targetID)
					target.Stub = true
				}
				edge := &Edge{
					From:      src,
					To:        target,
					Count:     call.Count,
					Inclusive: primaryValue(call.Inclusive, primary),
				}
				src.Out = append(src.Out, edge)
				target.In = append(target.In, edge)
			}
		}
	}

	for _, n := range g.Nodes {
		inclusive := n.Exclusive
		for _, e := range n.Out {
			inclusive += e.Inclusive
		}
		n.Inclusive = inclusive
	}

	for _, id := range g.order {
		n := g.Nodes[id]
		if len(n.In) == 0 {
			g.Roots = append(g.Roots, n)
		}
	}

	return g
}

func primaryValue(c model.Counts, idx int) int64 {
	if idx < 0 || idx >= len(c) {
		return 0
	}
	return c[idx]
}

// Callers returns the nodes with an outgoing edge to id.
func (g *Graph) Callers(id NodeID) []*Node {
	n, ok := g.Nodes[id]
	if !ok {
		return nil
	}
	out := make([]*Node, 0, len(n.In))
	for _, e := range n.In {
		out = append(out, e.From)
	}
	return out
}

// Callees returns the nodes id directly calls.
func (g *Graph) Callees(id NodeID) []*Node {
	n, ok := g.Nodes[id]
	if !ok {
		return nil
	}
	out := make([]*Node, 0, len(n.Out))
	for _, e := range n.Out {
		out = append(out, e.To)
	}
	return out
}
