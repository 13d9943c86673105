package mcpserver

import "github.com/standardbeagle/cachelens/internal/callgraph"

// The callgraph package's Node/Edge/Tree types hold raw pointers back and
// forth (Out/In edges, From/To nodes) so cycles in the profiled program's
// call graph become pointer cycles in Go — encoding/json cannot serialize
// those directly. These views flatten a node to its NodeID wherever the
// raw type would otherwise re-embed another *Node.

type nodeView struct {
	ID        callgraph.NodeID `json:"id"`
	Exclusive int64            `json:"exclusive"`
	Inclusive int64            `json:"inclusive"`
	PCStart   string           `json:"pc_start"`
	PCEnd     string           `json:"pc_end"`
	Stub      bool             `json:"stub"`
}

func viewNode(n *callgraph.Node) nodeView {
	return nodeView{
		ID:        n.ID,
		Exclusive: n.Exclusive,
		Inclusive: n.Inclusive,
		PCStart:   n.PCStart,
		PCEnd:     n.PCEnd,
		Stub:      n.Stub,
	}
}

func viewNodes(nodes []*callgraph.Node) []nodeView {
	out := make([]nodeView, len(nodes))
	for i, n := range nodes {
		out[i] = viewNode(n)
	}
	return out
}

type edgeView struct {
	From      callgraph.NodeID `json:"from"`
	To        callgraph.NodeID `json:"to"`
	Count     uint64           `json:"count"`
	Inclusive int64            `json:"inclusive"`
}

type treeView struct {
	Node     nodeView    `json:"node"`
	Via      *edgeView   `json:"via,omitempty"`
	Children []*treeView `json:"children,omitempty"`
	Repeat   bool        `json:"repeat"`
}

func viewTree(t *callgraph.Tree) *treeView {
	if t == nil {
		return nil
	}
	v := &treeView{Node: viewNode(t.Node), Repeat: t.Repeat}
	if t.Via != nil {
		v.Via = &edgeView{
			From:      t.Via.From.ID,
			To:        t.Via.To.ID,
			Count:     t.Via.Count,
			Inclusive: t.Via.Inclusive,
		}
	}
	for _, c := range t.Children {
		v.Children = append(v.Children, viewTree(c))
	}
	return v
}
