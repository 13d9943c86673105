// Package mcpserver exposes the Query API as MCP tools (spec §4.8's "UI
// collaborator" surface), grounded on the teacher's internal/mcp/server.go
// tool-registration pattern: one mcp.Tool with a jsonschema.Schema per
// operation, a handler that unmarshals req.Params.Arguments, and a JSON
// text response wrapped in mcp.CallToolResult.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/cachelens/internal/query"
)

// Server wraps a loaded query.Engine behind an MCP tool surface.
type Server struct {
	engine *query.Engine
	server *mcp.Server
}

// New registers cachelens's tools against a fresh MCP server bound to the
// given engine.
func New(engine *query.Engine) *Server {
	s := &Server{
		engine: engine,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "cachelens-mcp-server",
			Version: "0.1.0",
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves the registered tools over stdio until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "search",
		Description: "Search indexed function names by exact, prefix, or substring match.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": {Type: "string", Description: "Search term"},
			},
			Required: []string{"query"},
		},
	}, s.handleSearch)

	s.server.AddTool(&mcp.Tool{
		Name:        "resolve_entry",
		Description: "Resolve a function name, PC address, or PC range to a call-graph node.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": {Type: "string", Description: "Name or hex PC address"},
			},
			Required: []string{"query"},
		},
	}, s.handleResolveEntry)

	s.server.AddTool(&mcp.Tool{
		Name:        "subtree_from",
		Description: "Materialize the call-graph subtree reachable from an entry point.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":     {Type: "string"},
				"function": {Type: "string"},
			},
			Required: []string{"file", "function"},
		},
	}, s.handleSubtreeFrom)

	s.server.AddTool(&mcp.Tool{
		Name:        "callers",
		Description: "List the nodes that directly call a given function.",
		InputSchema: nodeIDSchema(),
	}, s.handleCallers)

	s.server.AddTool(&mcp.Tool{
		Name:        "callees",
		Description: "List the nodes a given function directly calls.",
		InputSchema: nodeIDSchema(),
	}, s.handleCallees)

	s.server.AddTool(&mcp.Tool{
		Name:        "disassemble",
		Description: "Disassemble a function's PC range and join it with profiled event counts.",
		InputSchema: nodeIDSchema(),
	}, s.handleDisassemble)

	s.server.AddTool(&mcp.Tool{
		Name:        "summary",
		Description: "Report the profile's event vocabulary, command line, and coverage totals.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleSummary)
}

func nodeIDSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"file":     {Type: "string"},
			"function": {Type: "string"},
		},
		Required: []string{"file", "function"},
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}
