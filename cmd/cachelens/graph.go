package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/cachelens/internal/callgraph"
	"github.com/standardbeagle/cachelens/internal/cliui"
)

var graphCommand = &cli.Command{
	Name:      "graph",
	Usage:     "Resolve an entry point and print its call-graph subtree",
	ArgsUsage: "<profile-file> <entry>",
	Action:    runGraph,
}

func runGraph(c *cli.Context) error {
	path, err := requireArg(c, 0, "profile-file")
	if err != nil {
		return err
	}
	entryQuery, err := requireArg(c, 1, "entry")
	if err != nil {
		return err
	}

	engine, err := loadEngine(c, path)
	if err != nil {
		return err
	}

	entry, err := engine.ResolveEntry(entryQuery)
	if err != nil {
		suggestions := engine.SuggestEntry(entryQuery, 5)
		names := make([]string, len(suggestions))
		for i, s := range suggestions {
			names[i] = s.Node.Function + " (" + s.Node.File + ")"
		}
		return withExitCode(exitUsage, fmt.Errorf(
			"no %s matches %q, did you mean: %s", hexOrName(entryQuery), entryQuery, strings.Join(names, ", ")))
	}

	tree := engine.SubtreeFrom(entry)
	if c.Bool("json") {
		data, err := json.MarshalIndent(treeToJSON(tree), "", "  ")
		if err != nil {
			return withExitCode(exitUsage, fmt.Errorf("failed to marshal tree: %w", err))
		}
		fmt.Println(string(data))
		return nil
	}

	printTree(tree, 0)
	return nil
}

func printTree(t *callgraph.Tree, depth int) {
	if t == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	marker := ""
	if t.Repeat {
		marker = cliui.DimText(" (repeat)")
	}
	fmt.Printf("%s%s%s  %s\n", indent, cliui.Label(t.Node.ID.Function), marker, cliui.DimText(t.Node.ID.File))
	for _, child := range t.Children {
		printTree(child, depth+1)
	}
}

// jsonTree is a flat, ID-referencing view of callgraph.Tree for --json
// output; callgraph.Tree's Node/Edge pointers form cycles that
// encoding/json cannot walk directly.
type jsonTree struct {
	ID       callgraph.NodeID `json:"id"`
	Repeat   bool             `json:"repeat"`
	Children []*jsonTree      `json:"children,omitempty"`
}

func treeToJSON(t *callgraph.Tree) *jsonTree {
	if t == nil {
		return nil
	}
	v := &jsonTree{ID: t.Node.ID, Repeat: t.Repeat}
	for _, c := range t.Children {
		v.Children = append(v.Children, treeToJSON(c))
	}
	return v
}
