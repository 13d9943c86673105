package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/cachelens/internal/query"
	"github.com/standardbeagle/cachelens/internal/sourceresolver"
)

const fixtureProfile = `# callgrind format
version: 1
cmd: ./a.out
events: Ir Cy
positions: instr line
fl=main.c
fn=main
0x401000 10 5 5
cfi=handler.c
cfn=handle_request
calls=1 0x402000
0x401010 11 3 3
fl=handler.c
fn=handle_request
0x402000 20 1 1
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	engine, err := query.Load(strings.NewReader(fixtureProfile), sourceresolver.Files{}, query.Options{})
	require.NoError(t, err)
	return New(engine)
}

func callRequest(t *testing.T, params map[string]interface{}) *mcp.CallToolRequest {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: raw},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestHandleSearchReturnsMatchesAndAncestors(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleSearch(context.Background(), callRequest(t, map[string]interface{}{"query": "handle"}))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &body))
	require.NotEmpty(t, body["matches"])
}

func TestHandleResolveEntrySuccess(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleResolveEntry(context.Background(), callRequest(t, map[string]interface{}{"query": "main"}))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &body))
	require.Equal(t, true, body["resolved"])
}

func TestHandleResolveEntryFailureIncludesSuggestions(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleResolveEntry(context.Background(), callRequest(t, map[string]interface{}{"query": "nonexistent_xyz"}))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &body))
	require.Equal(t, false, body["resolved"])
	require.Contains(t, body, "suggestions")
}

func TestHandleSubtreeFromFlattensWithoutCycles(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleSubtreeFrom(context.Background(), callRequest(t, map[string]interface{}{
		"file": "main.c", "function": "main",
	}))
	require.NoError(t, err)

	var tree treeView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &tree))
	require.Equal(t, "main", tree.Node.ID.Function)
	require.Len(t, tree.Children, 1)
	require.Equal(t, "handle_request", tree.Children[0].Node.ID.Function)
}

func TestHandleCallersAndCallees(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleCallees(context.Background(), callRequest(t, map[string]interface{}{
		"file": "main.c", "function": "main",
	}))
	require.NoError(t, err)
	var callees []nodeView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &callees))
	require.Len(t, callees, 1)
	require.Equal(t, "handle_request", callees[0].ID.Function)

	res, err = s.handleCallers(context.Background(), callRequest(t, map[string]interface{}{
		"file": "handler.c", "function": "handle_request",
	}))
	require.NoError(t, err)
	var callers []nodeView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &callers))
	require.Len(t, callers, 1)
	require.Equal(t, "main", callers[0].ID.Function)
}

func TestHandleSummaryReportsVocabularyAndCommand(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleSummary(context.Background(), callRequest(t, map[string]interface{}{}))
	require.NoError(t, err)

	var summary query.Summary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &summary))
	require.Equal(t, "callgrind", summary.Kind)
	require.Equal(t, "./a.out", summary.Command)
}

func TestHandleDisassembleFunctionNotFoundReportsError(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleDisassemble(context.Background(), callRequest(t, map[string]interface{}{
		"file": "main.c", "function": "nonexistent",
	}))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &body))
	require.Contains(t, body, "error")
}

func TestHandleSearchInvalidArgumentsErrors(t *testing.T) {
	s := newTestServer(t)
	req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: []byte(`not json`)}}
	_, err := s.handleSearch(context.Background(), req)
	require.Error(t, err)
}
