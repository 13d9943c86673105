package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/cachelens/internal/callgraph"
	"github.com/standardbeagle/cachelens/internal/model"
)

func buildGraph(t *testing.T) *callgraph.Graph {
	t.Helper()
	p := model.NewProfile(model.NewEventVocabulary([]string{"Ir"}), model.KindCallgrind)
	f := p.EnsureFile("main.c")
	root := f.EnsureFunction("main", 1)
	root.Calls = append(root.Calls, &model.CallEdge{
		SourceFunction: "main", SourceFile: "main.c", TargetFunction: "HTTPHandler", Count: 1,
	})
	httpHandler := f.EnsureFunction("HTTPHandler", 1)
	httpHandler.Calls = append(httpHandler.Calls, &model.CallEdge{
		SourceFunction: "HTTPHandler", SourceFile: "main.c", TargetFunction: "parse_request", Count: 1,
	})
	f.EnsureFunction("parse_request", 1)
	return callgraph.Build(p)
}

func TestQueryExactMatch(t *testing.T) {
	idx := Build(buildGraph(t), Options{})
	results := idx.Query("main")
	require.Contains(t, results, callgraph.NodeID{File: "main.c", Function: "main"})
}

func TestQuerySplitsCamelCaseWords(t *testing.T) {
	idx := Build(buildGraph(t), Options{})
	results := idx.Query("http")
	require.Contains(t, results, callgraph.NodeID{File: "main.c", Function: "HTTPHandler"})
}

func TestQuerySplitsSnakeCaseWords(t *testing.T) {
	idx := Build(buildGraph(t), Options{})
	results := idx.Query("parse")
	require.Contains(t, results, callgraph.NodeID{File: "main.c", Function: "parse_request"})
}

func TestQueryEmptyReturnsNothing(t *testing.T) {
	idx := Build(buildGraph(t), Options{})
	require.Empty(t, idx.Query(""))
	require.Empty(t, idx.Query("   "))
}

func TestQueryPrefixTierRespectsMaxExpand(t *testing.T) {
	idx := Build(buildGraph(t), Options{MaxPrefixExpand: 1, MaxSubstringExpand: 1})
	// "m" is itself an indexed term (the one-character prefix of "main"), so
	// the exact tier already yields one match; with MaxPrefixExpand and
	// MaxSubstringExpand of 1 that count meets both thresholds, the prefix
	// and substring tiers are skipped, and "main" is still returned.
	results := idx.Query("m")
	require.Contains(t, results, callgraph.NodeID{File: "main.c", Function: "main"})
}

func TestBuildAppliesDefaultOptions(t *testing.T) {
	idx := Build(buildGraph(t), Options{})
	require.Equal(t, DefaultMaxPrefixExpand, idx.opts.MaxPrefixExpand)
	require.Equal(t, DefaultMaxSubstringExpand, idx.opts.MaxSubstringExpand)
}

func TestBuildParentMapAndExpandAncestors(t *testing.T) {
	g := buildGraph(t)
	parents := BuildParentMap(g)

	match := callgraph.NodeID{File: "main.c", Function: "parse_request"}
	ancestors := ExpandAncestors(parents, []callgraph.NodeID{match})

	require.Contains(t, ancestors, callgraph.NodeID{File: "main.c", Function: "HTTPHandler"})
	require.Contains(t, ancestors, callgraph.NodeID{File: "main.c", Function: "main"})
}
