package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/cachelens/internal/callgraph"
)

func TestTreeToJSONFlattensRecursiveStructure(t *testing.T) {
	leaf := &callgraph.Node{ID: callgraph.NodeID{File: "a.c", Function: "leaf"}}
	root := &callgraph.Node{ID: callgraph.NodeID{File: "a.c", Function: "root"}}
	tree := &callgraph.Tree{
		Node: root,
		Children: []*callgraph.Tree{
			{Node: leaf},
			{Node: root, Repeat: true},
		},
	}

	got := treeToJSON(tree)
	require.Equal(t, "root", got.ID.Function)
	require.Len(t, got.Children, 2)
	require.Equal(t, "leaf", got.Children[0].ID.Function)
	require.True(t, got.Children[1].Repeat)
	require.Equal(t, "root", got.Children[1].ID.Function)
}

func TestTreeToJSONNilTree(t *testing.T) {
	require.Nil(t, treeToJSON(nil))
}
